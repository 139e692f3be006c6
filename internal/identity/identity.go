package identity

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/sha3"
)

const AddressLength = 20

var ErrInvalidAddress = errors.New("invalid address format")

// Address is an Ethereum-style account identifier: the last 20 bytes of the
// Keccak-256 hash of the uncompressed secp256k1 public key.
type Address [AddressLength]byte

func FromPublicKey(pub *btcec.PublicKey) Address {
	h := sha3.NewLegacyKeccak256()
	// Skip the 0x04 uncompressed-point marker.
	h.Write(pub.SerializeUncompressed()[1:])
	var addr Address
	copy(addr[:], h.Sum(nil)[12:])
	return addr
}

func Parse(s string) (Address, error) {
	var addr Address
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != AddressLength*2 {
		return addr, ErrInvalidAddress
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return addr, ErrInvalidAddress
	}
	copy(addr[:], raw)
	return addr, nil
}

func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// Equal compares addresses; hex-string case differences never matter because
// both sides are raw bytes by the time they get here.
func (a Address) Equal(b Address) bool {
	return a == b
}

// Addresses travel as 0x-hex strings on every JSON surface.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidAddress
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
