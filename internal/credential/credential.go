package credential

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/signature"
)

var ErrMalformedCredential = errors.New("malformed credential")

type ProductSection struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	TempRange         string `json:"tempRange"`
	MfgDate           string `json:"mfgDate"`
	Quantity          uint64 `json:"quantity"`
	SpoiledAtIssuance bool   `json:"spoiledAtIssuance"`
}

type SecuritySection struct {
	Signature      string `json:"signature"`
	SignerIdentity string `json:"signerIdentity"`
	Timestamp      int64  `json:"timestamp"`
	Message        string `json:"message"`
}

type VerificationSection struct {
	LedgerID       string `json:"ledgerId"`
	ContractRef    string `json:"contractRef"`
	VerifyEndpoint string `json:"verifyEndpoint"`
}

// Credential is the portable proof of authenticity. It is a self-contained
// signed value owned by whoever holds the physical unit; the ledger never
// stores it.
type Credential struct {
	Product      ProductSection      `json:"product"`
	Security     SecuritySection     `json:"security"`
	Verification VerificationSection `json:"verification"`
}

// Meta identifies the ledger instance a credential can be checked against.
type Meta struct {
	LedgerID       string
	ContractRef    string
	VerifyEndpoint string
}

// Issue signs a product snapshot through the external provider and assembles
// the credential. Signing happens before any ledger mutation is attempted and
// is cancellable through ctx.
func Issue(ctx context.Context, product *ledger.Product, provider signature.Provider, meta Meta, issuedAt time.Time) (*Credential, error) {
	snap := Snapshot{
		ProductID:   product.ID,
		Name:        product.Name,
		Description: product.Description,
		MinTemp:     product.MinTemp,
		MaxTemp:     product.MaxTemp,
		Quantity:    product.Quantity,
		MfgDate:     product.MfgDate,
		Timestamp:   issuedAt.UnixMilli(),
	}
	message := EncodeSnapshot(snap)

	sig, err := provider.SignMessage(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("sign credential: %w", err)
	}

	return &Credential{
		Product: ProductSection{
			ID:                product.ID,
			Name:              product.Name,
			Description:       product.Description,
			TempRange:         FormatTempRange(product.MinTemp, product.MaxTemp),
			MfgDate:           product.MfgDate,
			Quantity:          product.Quantity,
			SpoiledAtIssuance: product.Spoiled,
		},
		Security: SecuritySection{
			Signature:      "0x" + hex.EncodeToString(sig),
			SignerIdentity: provider.Address().Hex(),
			Timestamp:      snap.Timestamp,
			Message:        string(message),
		},
		Verification: VerificationSection{
			LedgerID:       meta.LedgerID,
			ContractRef:    meta.ContractRef,
			VerifyEndpoint: meta.VerifyEndpoint,
		},
	}, nil
}

// ExpectedMessage rebuilds the canonical signing input from the credential's
// embedded product section and issuance timestamp. Any tampering with those
// fields changes the rebuilt message and breaks signature recovery.
func (c *Credential) ExpectedMessage() ([]byte, error) {
	minTemp, maxTemp, err := ParseTempRange(c.Product.TempRange)
	if err != nil {
		return nil, err
	}
	return EncodeSnapshot(Snapshot{
		ProductID:   c.Product.ID,
		Name:        c.Product.Name,
		Description: c.Product.Description,
		MinTemp:     minTemp,
		MaxTemp:     maxTemp,
		Quantity:    c.Product.Quantity,
		MfgDate:     c.Product.MfgDate,
		Timestamp:   c.Security.Timestamp,
	}), nil
}

// SignatureBytes decodes the hex signature from the security section.
func (c *Credential) SignatureBytes() ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(c.Security.Signature, "0x"))
	if err != nil {
		return nil, signature.ErrInvalidSignatureEncoding
	}
	return raw, nil
}

// SignerAddress parses the embedded signer identity.
func (c *Credential) SignerAddress() (identity.Address, error) {
	return identity.Parse(c.Security.SignerIdentity)
}

// Pack serializes the credential into its transport payload.
func (c *Credential) Pack() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("pack credential: %w", err)
	}
	return data, nil
}

// Unpack parses a transport payload. A payload that is not JSON, or that lacks
// any of the three mandatory sections, fails with ErrMalformedCredential and
// is never partially accepted.
func Unpack(payload []byte) (*Credential, error) {
	var probe struct {
		Product      *ProductSection      `json:"product"`
		Security     *SecuritySection     `json:"security"`
		Verification *VerificationSection `json:"verification"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if probe.Product == nil || probe.Security == nil || probe.Verification == nil {
		return nil, fmt.Errorf("%w: missing mandatory section", ErrMalformedCredential)
	}
	return &Credential{
		Product:      *probe.Product,
		Security:     *probe.Security,
		Verification: *probe.Verification,
	}, nil
}
