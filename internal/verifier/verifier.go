// Package verifier answers "is this physical unit authentic, and in what
// condition" for a scanned or pasted credential. Invalid credentials are
// expected adversarial input: every failure mode yields a structured Result,
// never an error.
package verifier

import (
	"context"
	"errors"

	"github.com/pharmaguard/coldtrace/internal/credential"
	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/signature"
)

const (
	ReasonMalformedCredential = "malformed credential"
	ReasonSignatureMismatch   = "signature mismatch"
	ReasonUnknownProduct      = "unknown product"
	ReasonSignerNotAuthorized = "signer not an authorized manufacturer"
)

// LedgerReader is the read-only slice of the ledger the verifier needs; it
// never mutates ledger state.
type LedgerReader interface {
	GetProduct(ctx context.Context, productID uint64) (*ledger.Product, error)
	GetProductHistory(ctx context.Context, productID uint64) ([]ledger.StatusRecord, error)
	WorkerByIdentity(ctx context.Context, addr identity.Address) (*ledger.Worker, error)
}

// Result reports every individual check so a caller can tell a forged
// signature from a genuine-but-spoiled unit from an unrecognized product.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`

	SignatureOK          bool `json:"signature_ok"`
	ProductExists        bool `json:"product_exists"`
	SignerIsManufacturer bool `json:"signer_is_manufacturer"`

	// Current condition, read from the ledger, which is authoritative over
	// whatever the credential claims.
	Spoiled       bool `json:"spoiled"`
	HistoryLength int  `json:"history_length"`

	ProductID        uint64 `json:"product_id"`
	ProductName      string `json:"product_name,omitempty"`
	SignerIdentity   string `json:"signer_identity,omitempty"`
	ManufacturerName string `json:"manufacturer_name,omitempty"`
	IssuedAt         int64  `json:"issued_at,omitempty"`
	LedgerID         string `json:"ledger_id,omitempty"`
}

type Verifier struct {
	ledger LedgerReader
}

func New(ledger LedgerReader) *Verifier {
	return &Verifier{ledger: ledger}
}

// Verify runs the full chain: unpack, recover the signer from the rebuilt
// canonical message, then cross-check identity and condition against current
// ledger state. Partial information stays populated on failure by design; a
// counterfeit detector should see why a credential failed.
func (v *Verifier) Verify(ctx context.Context, payload []byte) Result {
	cred, err := credential.Unpack(payload)
	if err != nil {
		return Result{Reason: ReasonMalformedCredential}
	}
	return v.VerifyCredential(ctx, cred)
}

func (v *Verifier) VerifyCredential(ctx context.Context, cred *credential.Credential) Result {
	result := Result{
		ProductID:      cred.Product.ID,
		ProductName:    cred.Product.Name,
		SignerIdentity: cred.Security.SignerIdentity,
		IssuedAt:       cred.Security.Timestamp,
		LedgerID:       cred.Verification.LedgerID,
	}

	result.SignatureOK = v.checkSignature(cred)

	signer, signerErr := cred.SignerAddress()

	product, err := v.ledger.GetProduct(ctx, cred.Product.ID)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		result.ProductExists = false
	case err == nil:
		result.ProductExists = true
		result.Spoiled = product.Spoiled
		if history, err := v.ledger.GetProductHistory(ctx, product.ID); err == nil {
			result.HistoryLength = len(history)
		}
		if signerErr == nil {
			if worker, err := v.ledger.WorkerByIdentity(ctx, signer); err == nil && worker.Role == ledger.RoleManufacturer {
				result.SignerIsManufacturer = true
				result.ManufacturerName = worker.Name
			}
		}
	default:
		// Treat a store failure like an unresolvable product rather than
		// guessing authenticity.
		result.ProductExists = false
	}

	result.Valid = result.SignatureOK && result.ProductExists && result.SignerIsManufacturer
	if !result.Valid {
		result.Reason = failureReason(result)
	}
	return result
}

func (v *Verifier) checkSignature(cred *credential.Credential) bool {
	message, err := cred.ExpectedMessage()
	if err != nil {
		return false
	}
	sig, err := cred.SignatureBytes()
	if err != nil {
		return false
	}
	expected, err := cred.SignerAddress()
	if err != nil {
		return false
	}
	recovered, err := signature.RecoverAddress(message, sig)
	if err != nil {
		return false
	}
	return recovered.Equal(expected)
}

func failureReason(r Result) string {
	switch {
	case !r.SignatureOK:
		return ReasonSignatureMismatch
	case !r.ProductExists:
		return ReasonUnknownProduct
	default:
		return ReasonSignerNotAuthorized
	}
}
