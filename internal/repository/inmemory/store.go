// Package inmemory provides a ledger.Store backed by process memory. It backs
// tests and the file-store substrate; the transactional contract is kept by
// snapshotting state and restoring it when the transaction function fails.
package inmemory

import (
	"context"
	"sync"

	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/repository"
)

type state struct {
	workers  []ledger.Worker
	products []ledger.Product
	statuses []ledger.StatusRecord
	events   []ledger.Event
}

func (s *state) clone() *state {
	c := &state{
		workers:  make([]ledger.Worker, len(s.workers)),
		products: make([]ledger.Product, len(s.products)),
		statuses: make([]ledger.StatusRecord, len(s.statuses)),
		events:   make([]ledger.Event, len(s.events)),
	}
	copy(c.workers, s.workers)
	copy(c.products, s.products)
	copy(c.statuses, s.statuses)
	copy(c.events, s.events)
	return c
}

type Store struct {
	mu sync.RWMutex
	st *state
}

func NewStore() *Store {
	return &Store{st: &state{}}
}

func (s *Store) RunInTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&tx{st: s.st}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Snapshot is the serializable view of the whole ledger state, used by the
// file-backed store.
type Snapshot struct {
	Workers  []ledger.Worker       `json:"workers"`
	Products []ledger.Product      `json:"products"`
	Statuses []ledger.StatusRecord `json:"status_records"`
	Events   []ledger.Event        `json:"events"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.st.clone()
	return Snapshot{Workers: c.workers, Products: c.products, Statuses: c.statuses, Events: c.events}
}

func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = &state{
		workers:  snap.Workers,
		products: snap.Products,
		statuses: snap.Statuses,
		events:   snap.Events,
	}
}

// Events returns everything emitted so far, in commit order.
func (s *Store) Events() []ledger.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]ledger.Event, len(s.st.events))
	copy(events, s.st.events)
	return events
}

func (s *Store) WorkerByID(ctx context.Context, id uint64) (*ledger.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.workerByID(id)
}

func (s *Store) WorkerByAddress(ctx context.Context, addr identity.Address) (*ledger.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.workerByAddress(addr)
}

func (s *Store) Workers(ctx context.Context) ([]ledger.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	workers := make([]ledger.Worker, len(s.st.workers))
	copy(workers, s.st.workers)
	return workers, nil
}

func (s *Store) ProductByID(ctx context.Context, id uint64) (*ledger.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.productByID(id)
}

func (s *Store) Products(ctx context.Context) ([]ledger.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]ledger.Product, len(s.st.products))
	copy(products, s.st.products)
	return products, nil
}

func (s *Store) ProductsByCustodian(ctx context.Context, workerID uint64) ([]ledger.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.productsByCustodian(workerID), nil
}

func (s *Store) HistoryByProduct(ctx context.Context, productID uint64) ([]ledger.StatusRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.historyByProduct(productID), nil
}

// tx operates on live state under the store lock; rollback is the snapshot
// swap in RunInTx.
type tx struct {
	st *state
}

func (t *tx) CreateWorker(ctx context.Context, w *ledger.Worker) error {
	// Worker ids start at 1; id 0 would collide with the "unset" value in
	// event payloads.
	w.ID = uint64(len(t.st.workers)) + 1
	t.st.workers = append(t.st.workers, *w)
	return nil
}

func (t *tx) CreateProduct(ctx context.Context, p *ledger.Product) error {
	p.ID = uint64(len(t.st.products))
	t.st.products = append(t.st.products, *p)
	return nil
}

func (t *tx) UpdateProduct(ctx context.Context, p *ledger.Product) error {
	for i := range t.st.products {
		if t.st.products[i].ID == p.ID {
			t.st.products[i] = *p
			return nil
		}
	}
	return repository.ErrObjectNotFound
}

func (t *tx) AppendStatus(ctx context.Context, rec *ledger.StatusRecord) error {
	t.st.statuses = append(t.st.statuses, *rec)
	return nil
}

func (t *tx) AppendEvent(ctx context.Context, ev ledger.Event) error {
	t.st.events = append(t.st.events, ev)
	return nil
}

func (t *tx) WorkerByID(ctx context.Context, id uint64) (*ledger.Worker, error) {
	return t.st.workerByID(id)
}

func (t *tx) WorkerByAddress(ctx context.Context, addr identity.Address) (*ledger.Worker, error) {
	return t.st.workerByAddress(addr)
}

func (t *tx) Workers(ctx context.Context) ([]ledger.Worker, error) {
	workers := make([]ledger.Worker, len(t.st.workers))
	copy(workers, t.st.workers)
	return workers, nil
}

func (t *tx) ProductByID(ctx context.Context, id uint64) (*ledger.Product, error) {
	return t.st.productByID(id)
}

func (t *tx) Products(ctx context.Context) ([]ledger.Product, error) {
	products := make([]ledger.Product, len(t.st.products))
	copy(products, t.st.products)
	return products, nil
}

func (t *tx) ProductsByCustodian(ctx context.Context, workerID uint64) ([]ledger.Product, error) {
	return t.st.productsByCustodian(workerID), nil
}

func (t *tx) HistoryByProduct(ctx context.Context, productID uint64) ([]ledger.StatusRecord, error) {
	return t.st.historyByProduct(productID), nil
}

func (s *state) workerByID(id uint64) (*ledger.Worker, error) {
	for i := range s.workers {
		if s.workers[i].ID == id {
			w := s.workers[i]
			return &w, nil
		}
	}
	return nil, repository.ErrObjectNotFound
}

func (s *state) workerByAddress(addr identity.Address) (*ledger.Worker, error) {
	for i := range s.workers {
		if s.workers[i].Address.Equal(addr) {
			w := s.workers[i]
			return &w, nil
		}
	}
	return nil, repository.ErrObjectNotFound
}

func (s *state) productByID(id uint64) (*ledger.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, repository.ErrObjectNotFound
}

func (s *state) productsByCustodian(workerID uint64) []ledger.Product {
	var products []ledger.Product
	for i := range s.products {
		if s.products[i].CurrentCustodian == workerID {
			products = append(products, s.products[i])
		}
	}
	return products
}

func (s *state) historyByProduct(productID uint64) []ledger.StatusRecord {
	var records []ledger.StatusRecord
	for i := range s.statuses {
		if s.statuses[i].ProductID == productID {
			records = append(records, s.statuses[i])
		}
	}
	return records
}
