package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard/coldtrace/internal/ledger"
)

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, store.RunInTx(ctx, func(tx ledger.Tx) error {
		if err := tx.CreateWorker(ctx, &ledger.Worker{Name: "PharmaCorp"}); err != nil {
			return err
		}
		return tx.CreateProduct(ctx, &ledger.Product{Name: "Insulin", CurrentCustodian: 1})
	}))

	// A fresh store over the same file sees everything.
	reopened, err := NewStore(path)
	require.NoError(t, err)

	workers, err := reopened.Workers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "PharmaCorp", workers[0].Name)

	product, err := reopened.ProductByID(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Insulin", product.Name)
}

func TestFailedTxDoesNotFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)

	err = store.RunInTx(ctx, func(tx ledger.Tx) error {
		if err := tx.CreateWorker(ctx, &ledger.Worker{Name: "discarded"}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	// Nothing committed, nothing written.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFlushFailureRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)

	// A directory at the ledger path makes the snapshot rename fail.
	require.NoError(t, os.Mkdir(path, 0o755))

	err = store.RunInTx(ctx, func(tx ledger.Tx) error {
		return tx.CreateWorker(ctx, &ledger.Worker{Name: "ghost"})
	})
	require.Error(t, err)

	// The in-memory commit was rolled back along with the failed flush.
	workers, err := store.Workers(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)

	// Once the path is writable again the same mutation succeeds and the id
	// sequence starts from scratch.
	require.NoError(t, os.Remove(path))
	require.NoError(t, store.RunInTx(ctx, func(tx ledger.Tx) error {
		w := &ledger.Worker{Name: "kept"}
		if err := tx.CreateWorker(ctx, w); err != nil {
			return err
		}
		assert.Equal(t, uint64(1), w.ID)
		return nil
	}))
}

func TestMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "ledger.json")

	store, err := NewStore(path)
	require.NoError(t, err)

	workers, err := store.Workers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestCorruptFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path)
	assert.Error(t, err)
}
