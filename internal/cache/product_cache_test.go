package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard/coldtrace/internal/ledger"
)

type stubRepo struct {
	products []ledger.Product
}

func (r *stubRepo) ListProducts(ctx context.Context) ([]ledger.Product, error) {
	return r.products, nil
}

func TestLoadInitialDataSkipsSpoiled(t *testing.T) {
	repo := &stubRepo{products: []ledger.Product{
		{ID: 0, Name: "Insulin"},
		{ID: 1, Name: "Expired", Spoiled: true},
		{ID: 2, Name: "Vaccine"},
	}}
	c := NewProductCache(repo)
	require.NoError(t, c.LoadInitialData(context.Background()))

	_, found := c.Get(1)
	assert.False(t, found)

	product, found := c.Get(0)
	require.True(t, found)
	assert.Equal(t, "Insulin", product.Name)
}

func TestSetEvictsSpoiled(t *testing.T) {
	c := NewProductCache(&stubRepo{})

	c.Set(&ledger.Product{ID: 3, Name: "Serum"})
	_, found := c.Get(3)
	require.True(t, found)

	c.Set(&ledger.Product{ID: 3, Name: "Serum", Spoiled: true})
	_, found = c.Get(3)
	assert.False(t, found)
}

func TestGetReturnsCopy(t *testing.T) {
	c := NewProductCache(&stubRepo{})
	c.Set(&ledger.Product{ID: 4, Name: "Original"})

	first, found := c.Get(4)
	require.True(t, found)
	first.Name = "Mutated"

	second, found := c.Get(4)
	require.True(t, found)
	assert.Equal(t, "Original", second.Name)
}

func TestDelete(t *testing.T) {
	c := NewProductCache(&stubRepo{})
	c.Set(&ledger.Product{ID: 5})

	c.Delete(5)
	_, found := c.Get(5)
	assert.False(t, found)

	// Deleting a missing entry is a no-op.
	c.Delete(5)
}
