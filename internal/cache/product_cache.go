package cache

import (
	"context"
	"log"
	"sync"

	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/metrics"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]ledger.Product, error)
}

// ProductCache keeps unspoiled products in memory so verification and custody
// lookups skip the store on the hot path. Spoiled products are evicted: the
// spoiled flag is terminal, so a cache miss for them is the correct answer.
type ProductCache struct {
	mu    sync.RWMutex
	cache map[uint64]*ledger.Product
	repo  ProductRepository
}

func NewProductCache(repo ProductRepository) *ProductCache {
	return &ProductCache{
		cache: make(map[uint64]*ledger.Product),
		repo:  repo,
	}
}

func (c *ProductCache) LoadInitialData(ctx context.Context) error {
	log.Println("Loading initial data into product cache...")
	products, err := c.repo.ListProducts(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range products {
		if products[i].Spoiled {
			continue
		}
		productCopy := products[i]
		c.cache[productCopy.ID] = &productCopy
	}
	metrics.ProductCacheItems.Set(float64(len(c.cache)))
	log.Printf("Successfully loaded %d unspoiled products into cache.", len(c.cache))
	return nil
}

func (c *ProductCache) Get(productID uint64) (*ledger.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	product, found := c.cache[productID]
	if !found {
		return nil, false
	}
	productCopy := *product
	return &productCopy, true
}

func (c *ProductCache) Set(product *ledger.Product) {
	if product.Spoiled {
		c.Delete(product.ID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	productCopy := *product
	c.cache[product.ID] = &productCopy
	metrics.ProductCacheItems.Set(float64(len(c.cache)))
}

func (c *ProductCache) Delete(productID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[productID]; found {
		delete(c.cache, productID)
		metrics.ProductCacheItems.Set(float64(len(c.cache)))
	}
}
