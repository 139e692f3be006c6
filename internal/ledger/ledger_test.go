package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/repository/inmemory"
)

func addr(t *testing.T, s string) identity.Address {
	t.Helper()
	a, err := identity.Parse(s)
	require.NoError(t, err)
	return a
}

type fixture struct {
	store  *inmemory.Store
	ledger *ledger.Ledger

	admin       identity.Address
	mfg         identity.Address
	distributor identity.Address
	transporter identity.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:       inmemory.NewStore(),
		admin:       addr(t, "0x00000000000000000000000000000000000000aa"),
		mfg:         addr(t, "0x1111111111111111111111111111111111111111"),
		distributor: addr(t, "0x2222222222222222222222222222222222222222"),
		transporter: addr(t, "0x3333333333333333333333333333333333333333"),
	}
	f.ledger = ledger.New(f.store, f.admin)
	return f
}

// registerAll registers the standard three-party chain and returns their ids.
func (f *fixture) registerAll(t *testing.T) (mfgID, distID, transID uint64) {
	t.Helper()
	ctx := context.Background()

	mfg, err := f.ledger.RegisterWorker(ctx, f.admin, "PharmaCorp", ledger.RoleManufacturer, f.mfg)
	require.NoError(t, err)
	dist, err := f.ledger.RegisterWorker(ctx, f.admin, "MediDist", ledger.RoleDistributor, f.distributor)
	require.NoError(t, err)
	trans, err := f.ledger.RegisterWorker(ctx, f.admin, "ColdVan", ledger.RoleTransporter, f.transporter)
	require.NoError(t, err)

	return mfg.ID, dist.ID, trans.ID
}

func (f *fixture) addProduct(t *testing.T) *ledger.Product {
	t.Helper()
	product, err := f.ledger.AddProduct(context.Background(), f.mfg, ledger.ProductParams{
		Name:        "Insulin",
		Description: "Rapid-acting insulin vials",
		MinTemp:     2,
		MaxTemp:     8,
		MinHumidity: 30,
		MaxHumidity: 60,
		Quantity:    500,
		MfgDate:     "2026-08-01",
	})
	require.NoError(t, err)
	return product
}

func TestRegisterWorker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mfgID, distID, transID := f.registerAll(t)
	assert.Equal(t, uint64(1), mfgID)
	assert.Equal(t, uint64(2), distID)
	assert.Equal(t, uint64(3), transID)

	worker, err := f.ledger.GetWorker(ctx, mfgID)
	require.NoError(t, err)
	assert.Equal(t, "PharmaCorp", worker.Name)
	assert.Equal(t, ledger.RoleManufacturer, worker.Role)
	assert.True(t, worker.Address.Equal(f.mfg))

	workers, err := f.ledger.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 3)
}

func TestRegisterWorkerOnlyAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.RegisterWorker(context.Background(), f.mfg, "Rogue", ledger.RoleManufacturer, f.mfg)
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)
}

func TestRegisterWorkerDuplicateIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.RegisterWorker(ctx, f.admin, "PharmaCorp", ledger.RoleManufacturer, f.mfg)
	require.NoError(t, err)

	_, err = f.ledger.RegisterWorker(ctx, f.admin, "Impostor", ledger.RoleDistributor, f.mfg)
	assert.ErrorIs(t, err, ledger.ErrDuplicateIdentity)

	// The failed registration must not leave anything behind.
	workers, err := f.ledger.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 1)
}

func TestAddProduct(t *testing.T) {
	f := newFixture(t)
	mfgID, _, _ := f.registerAll(t)

	product := f.addProduct(t)
	assert.Equal(t, uint64(0), product.ID)
	assert.Equal(t, mfgID, product.CurrentCustodian)
	assert.False(t, product.Spoiled)

	second := f.addProduct(t)
	assert.Equal(t, uint64(1), second.ID)
}

func TestAddProductValidation(t *testing.T) {
	f := newFixture(t)
	f.registerAll(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  identity.Address
		params  ledger.ProductParams
		wantErr error
	}{
		{
			name:    "inverted temperature range",
			caller:  f.mfg,
			params:  ledger.ProductParams{Name: "X", MinTemp: 8, MaxTemp: 2, MaxHumidity: 100, Quantity: 1},
			wantErr: ledger.ErrInvalidRange,
		},
		{
			name:    "inverted humidity range",
			caller:  f.mfg,
			params:  ledger.ProductParams{Name: "X", MinTemp: 2, MaxTemp: 8, MinHumidity: 60, MaxHumidity: 30, Quantity: 1},
			wantErr: ledger.ErrInvalidRange,
		},
		{
			name:    "zero quantity",
			caller:  f.mfg,
			params:  ledger.ProductParams{Name: "X", MinTemp: 2, MaxTemp: 8, MaxHumidity: 100},
			wantErr: ledger.ErrInvalidQuantity,
		},
		{
			name:    "distributor cannot add",
			caller:  f.distributor,
			params:  ledger.ProductParams{Name: "X", MinTemp: 2, MaxTemp: 8, MaxHumidity: 100, Quantity: 1},
			wantErr: ledger.ErrUnauthorized,
		},
		{
			name:    "unregistered caller",
			caller:  addr(t, "0x9999999999999999999999999999999999999999"),
			params:  ledger.ProductParams{Name: "X", MinTemp: 2, MaxTemp: 8, MaxHumidity: 100, Quantity: 1},
			wantErr: ledger.ErrUnauthorized,
		},
		{
			// Authorization wins over validation when both fail.
			name:    "unregistered caller with inverted range",
			caller:  addr(t, "0x9999999999999999999999999999999999999999"),
			params:  ledger.ProductParams{Name: "X", MinTemp: 8, MaxTemp: 2, MaxHumidity: 100, Quantity: 0},
			wantErr: ledger.ErrUnauthorized,
		},
		{
			name:    "distributor with zero quantity",
			caller:  f.distributor,
			params:  ledger.ProductParams{Name: "X", MinTemp: 2, MaxTemp: 8, MaxHumidity: 100},
			wantErr: ledger.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.AddProduct(ctx, tt.caller, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateStatusCompliant(t *testing.T) {
	f := newFixture(t)
	_, distID, _ := f.registerAll(t)
	product := f.addProduct(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.TransferOwnership(ctx, f.mfg, product.ID, distID))

	record, err := f.ledger.UpdateStatus(ctx, f.distributor, product.ID, "Warehouse A", 5, 45, 500)
	require.NoError(t, err)
	assert.True(t, record.Compliant)
	assert.Equal(t, distID, record.Reporter)

	got, err := f.ledger.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, got.Spoiled)
}

func TestUpdateStatusSpoilsOnViolation(t *testing.T) {
	f := newFixture(t)
	_, distID, _ := f.registerAll(t)
	product := f.addProduct(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.TransferOwnership(ctx, f.mfg, product.ID, distID))

	// Boundary readings stay compliant.
	rec, err := f.ledger.UpdateStatus(ctx, f.distributor, product.ID, "Dock", 2, 60, 500)
	require.NoError(t, err)
	assert.True(t, rec.Compliant)

	rec, err = f.ledger.UpdateStatus(ctx, f.distributor, product.ID, "Truck", 9, 45, 500)
	require.NoError(t, err)
	assert.False(t, rec.Compliant)

	got, err := f.ledger.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.Spoiled)

	// Spoilage is terminal: even an in-range follow-up is rejected.
	_, err = f.ledger.UpdateStatus(ctx, f.distributor, product.ID, "Truck", 5, 45, 500)
	assert.ErrorIs(t, err, ledger.ErrAlreadySpoiled)

	// The violating reading itself is part of the permanent record.
	history, err := f.ledger.GetProductHistory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Compliant)
	assert.False(t, history[1].Compliant)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	f := newFixture(t)
	_, distID, _ := f.registerAll(t)
	product := f.addProduct(t)
	ctx := context.Background()

	// The manufacturer holds custody but its role cannot report statuses.
	_, err := f.ledger.UpdateStatus(ctx, f.mfg, product.ID, "Plant", 5, 45, 500)
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)

	require.NoError(t, f.ledger.TransferOwnership(ctx, f.mfg, product.ID, distID))

	// Right role, wrong custodian.
	_, err = f.ledger.UpdateStatus(ctx, f.transporter, product.ID, "Elsewhere", 5, 45, 500)
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)

	_, err = f.ledger.UpdateStatus(ctx, f.distributor, 42, "Nowhere", 5, 45, 500)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)
	mfgID, distID, transID := f.registerAll(t)
	product := f.addProduct(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.TransferOwnership(ctx, f.mfg, product.ID, distID))
	require.NoError(t, f.ledger.TransferOwnership(ctx, f.distributor, product.ID, transID))

	got, err := f.ledger.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, transID, got.CurrentCustodian)

	assigned, err := f.ledger.GetAssignedProducts(ctx, transID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, product.ID, assigned[0].ID)

	assigned, err = f.ledger.GetAssignedProducts(ctx, mfgID)
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

func TestTransferOwnershipGuards(t *testing.T) {
	f := newFixture(t)
	_, distID, transID := f.registerAll(t)
	product := f.addProduct(t)
	ctx := context.Background()

	// Only the current custodian can hand off.
	err := f.ledger.TransferOwnership(ctx, f.distributor, product.ID, transID)
	assert.ErrorIs(t, err, ledger.ErrUnauthorized)

	err = f.ledger.TransferOwnership(ctx, f.mfg, 42, distID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	err = f.ledger.TransferOwnership(ctx, f.mfg, product.ID, 42)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	// Spoil it, then try to move it.
	require.NoError(t, f.ledger.TransferOwnership(ctx, f.mfg, product.ID, distID))
	_, err = f.ledger.UpdateStatus(ctx, f.distributor, product.ID, "Truck", 40, 45, 500)
	require.NoError(t, err)

	err = f.ledger.TransferOwnership(ctx, f.distributor, product.ID, transID)
	assert.ErrorIs(t, err, ledger.ErrAlreadySpoiled)
}

func TestHistoryIsAppendOnly(t *testing.T) {
	f := newFixture(t)
	_, distID, _ := f.registerAll(t)
	product := f.addProduct(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.TransferOwnership(ctx, f.mfg, product.ID, distID))

	locations := []string{"Dock", "Truck", "Hub"}
	for _, loc := range locations {
		_, err := f.ledger.UpdateStatus(ctx, f.distributor, product.ID, loc, 5, 45, 500)
		require.NoError(t, err)
	}

	history, err := f.ledger.GetProductHistory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, history, len(locations))
	for i, rec := range history {
		assert.Equal(t, locations[i], rec.Location)
	}

	_, err = f.ledger.GetProductHistory(ctx, 42)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestEventsEmitted(t *testing.T) {
	f := newFixture(t)
	_, distID, _ := f.registerAll(t)
	product := f.addProduct(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.TransferOwnership(ctx, f.mfg, product.ID, distID))
	_, err := f.ledger.UpdateStatus(ctx, f.distributor, product.ID, "Truck", 40, 45, 500)
	require.NoError(t, err)

	var types []string
	for _, ev := range f.store.Events() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{
		ledger.EventWorkerRegistered,
		ledger.EventWorkerRegistered,
		ledger.EventWorkerRegistered,
		ledger.EventProductAdded,
		ledger.EventOwnershipTransferred,
		ledger.EventProductSpoiled,
		ledger.EventStatusUpdated,
	}, types)
}

func TestClockInjection(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	f.ledger.WithClock(func() time.Time { return fixed })
	f.registerAll(t)

	product := f.addProduct(t)
	assert.Equal(t, fixed, product.CreatedAt)
}
