package verifier_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard/coldtrace/internal/credential"
	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/repository/inmemory"
	"github.com/pharmaguard/coldtrace/internal/signature"
	"github.com/pharmaguard/coldtrace/internal/verifier"
)

var testMeta = credential.Meta{
	LedgerID:       "coldtrace-test",
	VerifyEndpoint: "http://localhost:9000/verify",
}

type env struct {
	ledger   *ledger.Ledger
	verifier *verifier.Verifier
	issuer   *signature.LocalProvider
	product  *ledger.Product
	distAddr identity.Address
}

// newEnv builds a ledger with a manufacturer whose on-ledger identity is the
// signing key, plus one registered product in the manufacturer's custody.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	issuer, err := signature.GenerateLocalProvider()
	require.NoError(t, err)

	admin, err := identity.Parse("0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	distAddr, err := identity.Parse("0x2222222222222222222222222222222222222222")
	require.NoError(t, err)

	store := inmemory.NewStore()
	ldg := ledger.New(store, admin)

	_, err = ldg.RegisterWorker(ctx, admin, "PharmaCorp", ledger.RoleManufacturer, issuer.Address())
	require.NoError(t, err)
	_, err = ldg.RegisterWorker(ctx, admin, "MediDist", ledger.RoleDistributor, distAddr)
	require.NoError(t, err)

	product, err := ldg.AddProduct(ctx, issuer.Address(), ledger.ProductParams{
		Name:        "Insulin",
		Description: "Rapid-acting insulin vials",
		MinTemp:     2,
		MaxTemp:     8,
		MinHumidity: 0,
		MaxHumidity: 100,
		Quantity:    500,
		MfgDate:     "2026-08-01",
	})
	require.NoError(t, err)

	return &env{
		ledger:   ldg,
		verifier: verifier.New(ldg),
		issuer:   issuer,
		product:  product,
		distAddr: distAddr,
	}
}

func (e *env) issue(t *testing.T) []byte {
	t.Helper()
	cred, err := credential.Issue(context.Background(), e.product, e.issuer, testMeta, time.Now().UTC())
	require.NoError(t, err)
	payload, err := cred.Pack()
	require.NoError(t, err)
	return payload
}

func TestVerifyValidCredential(t *testing.T) {
	e := newEnv(t)

	result := e.verifier.Verify(context.Background(), e.issue(t))

	assert.True(t, result.Valid)
	assert.Empty(t, result.Reason)
	assert.True(t, result.SignatureOK)
	assert.True(t, result.ProductExists)
	assert.True(t, result.SignerIsManufacturer)
	assert.False(t, result.Spoiled)
	assert.Equal(t, "PharmaCorp", result.ManufacturerName)
	assert.Equal(t, e.product.ID, result.ProductID)
}

func TestVerifyMalformedPayload(t *testing.T) {
	e := newEnv(t)

	result := e.verifier.Verify(context.Background(), []byte("garbage"))

	assert.False(t, result.Valid)
	assert.Equal(t, verifier.ReasonMalformedCredential, result.Reason)
}

func TestVerifyTamperedProductSection(t *testing.T) {
	e := newEnv(t)

	cred, err := credential.Unpack(e.issue(t))
	require.NoError(t, err)
	cred.Product.Quantity = 5000
	payload, err := cred.Pack()
	require.NoError(t, err)

	result := e.verifier.Verify(context.Background(), payload)

	assert.False(t, result.Valid)
	assert.Equal(t, verifier.ReasonSignatureMismatch, result.Reason)
	assert.False(t, result.SignatureOK)
	// The ledger facts are still reported alongside the failure.
	assert.True(t, result.ProductExists)
}

func TestVerifyUnknownProduct(t *testing.T) {
	e := newEnv(t)

	// A genuinely signed credential for a product id this ledger never
	// assigned.
	forged := *e.product
	forged.ID = 404
	cred, err := credential.Issue(context.Background(), &forged, e.issuer, testMeta, time.Now().UTC())
	require.NoError(t, err)
	payload, err := cred.Pack()
	require.NoError(t, err)

	result := e.verifier.Verify(context.Background(), payload)

	assert.False(t, result.Valid)
	assert.Equal(t, verifier.ReasonUnknownProduct, result.Reason)
	assert.True(t, result.SignatureOK)
	assert.False(t, result.ProductExists)
}

func TestVerifySignerNotManufacturer(t *testing.T) {
	e := newEnv(t)

	// Signed by a key the ledger has never seen.
	stranger, err := signature.GenerateLocalProvider()
	require.NoError(t, err)
	cred, err := credential.Issue(context.Background(), e.product, stranger, testMeta, time.Now().UTC())
	require.NoError(t, err)
	payload, err := cred.Pack()
	require.NoError(t, err)

	result := e.verifier.Verify(context.Background(), payload)

	assert.False(t, result.Valid)
	assert.Equal(t, verifier.ReasonSignerNotAuthorized, result.Reason)
	assert.True(t, result.SignatureOK)
	assert.True(t, result.ProductExists)
	assert.False(t, result.SignerIsManufacturer)
}

func TestVerifyReportsSpoilageAndHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	payload := e.issue(t)

	require.NoError(t, e.ledger.TransferOwnership(ctx, e.issuer.Address(), e.product.ID, 2))
	_, err := e.ledger.UpdateStatus(ctx, e.distAddr, e.product.ID, "Truck", 30, 50, 500)
	require.NoError(t, err)

	result := e.verifier.Verify(ctx, payload)

	// Authentic but condemned: the credential is genuine, the goods are not
	// usable, and the verifier reports both.
	assert.True(t, result.Valid)
	assert.True(t, result.Spoiled)
	assert.Equal(t, 1, result.HistoryLength)
}
