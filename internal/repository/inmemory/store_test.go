package inmemory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/repository"
)

func TestIDAssignment(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.RunInTx(ctx, func(tx ledger.Tx) error {
		w1 := &ledger.Worker{Name: "first"}
		require.NoError(t, tx.CreateWorker(ctx, w1))
		assert.Equal(t, uint64(1), w1.ID)

		w2 := &ledger.Worker{Name: "second"}
		require.NoError(t, tx.CreateWorker(ctx, w2))
		assert.Equal(t, uint64(2), w2.ID)

		p := &ledger.Product{Name: "first product"}
		require.NoError(t, tx.CreateProduct(ctx, p))
		assert.Equal(t, uint64(0), p.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestRollbackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.RunInTx(ctx, func(tx ledger.Tx) error {
		return tx.CreateWorker(ctx, &ledger.Worker{Name: "kept"})
	}))

	boom := errors.New("boom")
	err := store.RunInTx(ctx, func(tx ledger.Tx) error {
		require.NoError(t, tx.CreateWorker(ctx, &ledger.Worker{Name: "discarded"}))
		require.NoError(t, tx.AppendEvent(ctx, ledger.Event{Type: "discarded"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	workers, err := store.Workers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "kept", workers[0].Name)
	assert.Empty(t, store.Events())
}

func TestNotFoundSentinels(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.WorkerByID(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)

	_, err = store.ProductByID(ctx, 0)
	assert.ErrorIs(t, err, repository.ErrObjectNotFound)
}

func TestSnapshotRestore(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.RunInTx(ctx, func(tx ledger.Tx) error {
		if err := tx.CreateWorker(ctx, &ledger.Worker{Name: "w"}); err != nil {
			return err
		}
		return tx.CreateProduct(ctx, &ledger.Product{Name: "p", CurrentCustodian: 1})
	}))

	snap := store.Snapshot()

	fresh := NewStore()
	fresh.Restore(snap)

	workers, err := fresh.Workers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 1)

	product, err := fresh.ProductByID(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "p", product.Name)

	// The restored store continues id sequences where the snapshot ended.
	require.NoError(t, fresh.RunInTx(ctx, func(tx ledger.Tx) error {
		p := &ledger.Product{Name: "next"}
		if err := tx.CreateProduct(ctx, p); err != nil {
			return err
		}
		assert.Equal(t, uint64(1), p.ID)
		return nil
	}))
}
