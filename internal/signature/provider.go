package signature

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/pharmaguard/coldtrace/internal/identity"
)

var (
	ErrUserRejected        = errors.New("signing rejected by user")
	ErrProviderUnavailable = errors.New("signing provider unavailable")
)

// Provider is the external identity and signing service. Signing may be slow
// or user-mediated, so SignMessage must honour ctx cancellation; the ledger is
// never locked while a sign call is in flight.
type Provider interface {
	Address() identity.Address
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
}

// LocalProvider signs with an in-process secp256k1 key. Used by services that
// hold their own manufacturer key, and by tests.
type LocalProvider struct {
	key  *btcec.PrivateKey
	addr identity.Address
}

func NewLocalProvider(key *btcec.PrivateKey) *LocalProvider {
	return &LocalProvider{
		key:  key,
		addr: identity.FromPublicKey(key.PubKey()),
	}
}

func GenerateLocalProvider() (*LocalProvider, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, ErrProviderUnavailable
	}
	return NewLocalProvider(key), nil
}

func (p *LocalProvider) Address() identity.Address {
	return p.addr
}

func (p *LocalProvider) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrUserRejected
	}
	return Sign(message, p.key)
}
