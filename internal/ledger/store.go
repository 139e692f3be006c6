package ledger

import (
	"context"

	"github.com/pharmaguard/coldtrace/internal/identity"
)

// Reader is the read side of a ledger store. History and assignment results
// keep original insertion order; implementations never re-sort.
type Reader interface {
	WorkerByID(ctx context.Context, id uint64) (*Worker, error)
	WorkerByAddress(ctx context.Context, addr identity.Address) (*Worker, error)
	Workers(ctx context.Context) ([]Worker, error)
	ProductByID(ctx context.Context, id uint64) (*Product, error)
	Products(ctx context.Context) ([]Product, error)
	ProductsByCustodian(ctx context.Context, workerID uint64) ([]Product, error)
	HistoryByProduct(ctx context.Context, productID uint64) ([]StatusRecord, error)
}

// Tx is the mutation surface available inside a transaction. Create methods
// assign sequential ids (workers from 1, products from 0) and write them back.
// AppendEvent lands in the same transaction as the state change it describes.
type Tx interface {
	Reader
	CreateWorker(ctx context.Context, w *Worker) error
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	AppendStatus(ctx context.Context, rec *StatusRecord) error
	AppendEvent(ctx context.Context, ev Event) error
}

// Store is the injectable persistence substrate. RunInTx applies fn
// atomically: either every write inside fn commits, or none do. Lookups on
// missing ids return repository.ErrObjectNotFound from the implementation.
type Store interface {
	Reader
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}
