package signature

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/pharmaguard/coldtrace/internal/identity"
)

// SignatureLength is r(32) + s(32) + recovery id(1).
const SignatureLength = 65

var ErrInvalidSignatureEncoding = errors.New("invalid signature encoding")

const personalMessagePrefix = "\x19Ethereum Signed Message:\n"

// PersonalMessageHash computes the EIP-191 digest of a message. The prefix
// domain-separates credential signatures from raw transaction signatures, so
// neither can be replayed as the other.
func PersonalMessageHash(message []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(personalMessagePrefix))
	h.Write([]byte(strconv.Itoa(len(message))))
	h.Write(message)
	return h.Sum(nil)
}

// Sign produces a 65-byte r||s||v signature over the personal-message hash of
// message, with v in {27, 28} as wallets emit it.
func Sign(message []byte, key *btcec.PrivateKey) ([]byte, error) {
	hash := PersonalMessageHash(message)
	compact, err := ecdsa.SignCompact(key, hash, false)
	if err != nil {
		return nil, fmt.Errorf("sign message: %w", err)
	}
	// SignCompact puts the 27+recID header first; move it to the tail.
	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig, nil
}

// RecoverAddress recovers the signer identity from a 65-byte signature over
// message. The wallet layout with a trailing recovery id (0..3 or 27..34) is
// tried first; a leading 27..34 header byte is accepted as a fallback for
// signers that emit the recovery id first. A well-formed signature made by a
// different key recovers a different identity; comparing against the expected
// one is the caller's job.
func RecoverAddress(message, sig []byte) (identity.Address, error) {
	if len(sig) != SignatureLength {
		return identity.Address{}, ErrInvalidSignatureEncoding
	}

	hash := PersonalMessageHash(message)

	if v := sig[64]; v <= 3 || (v >= 27 && v <= 34) {
		compact := make([]byte, SignatureLength)
		if v < 27 {
			v += 27
		}
		compact[0] = v
		copy(compact[1:], sig[:64])
		if pub, _, err := ecdsa.RecoverCompact(compact, hash); err == nil {
			return identity.FromPublicKey(pub), nil
		}
	}

	if sig[0] >= 27 && sig[0] <= 34 {
		compact := make([]byte, SignatureLength)
		copy(compact, sig)
		if pub, _, err := ecdsa.RecoverCompact(compact, hash); err == nil {
			return identity.FromPublicKey(pub), nil
		}
	}

	return identity.Address{}, ErrInvalidSignatureEncoding
}
