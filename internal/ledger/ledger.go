package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/repository"
)

// Ledger is the authoritative custody state machine. Mutations are serialized
// through a single-writer mutex and applied inside one store transaction, so a
// compliance evaluation can never race a custody transfer. Reads bypass the
// mutex and hit the store directly.
type Ledger struct {
	mu    sync.Mutex
	store Store
	admin identity.Address
	now   func() time.Time
}

func New(store Store, admin identity.Address) *Ledger {
	return &Ledger{
		store: store,
		admin: admin,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Tests only.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

func (l *Ledger) RegisterWorker(ctx context.Context, caller identity.Address, name string, role Role, addr identity.Address) (*Worker, error) {
	if !caller.Equal(l.admin) {
		return nil, fmt.Errorf("%w: only the administrator registers workers", ErrUnauthorized)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var worker *Worker
	err := l.store.RunInTx(ctx, func(tx Tx) error {
		existing, err := tx.WorkerByAddress(ctx, addr)
		if err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
			return fmt.Errorf("lookup identity: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentity, addr.Hex())
		}

		worker = &Worker{
			Name:         name,
			Role:         role,
			Address:      addr,
			RegisteredAt: l.now(),
		}
		if err := tx.CreateWorker(ctx, worker); err != nil {
			return fmt.Errorf("create worker: %w", err)
		}

		return tx.AppendEvent(ctx, Event{
			Type:       EventWorkerRegistered,
			At:         worker.RegisteredAt,
			WorkerID:   worker.ID,
			WorkerName: worker.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return worker, nil
}

func (l *Ledger) AddProduct(ctx context.Context, caller identity.Address, params ProductParams) (*Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var product *Product
	err := l.store.RunInTx(ctx, func(tx Tx) error {
		// Authorization is decided before the params are looked at; an
		// unauthorized caller always gets ErrUnauthorized.
		worker, err := tx.WorkerByAddress(ctx, caller)
		if err != nil {
			if errors.Is(err, repository.ErrObjectNotFound) {
				return fmt.Errorf("%w: caller is not a registered worker", ErrUnauthorized)
			}
			return fmt.Errorf("lookup caller: %w", err)
		}
		if worker.Role != RoleManufacturer {
			return fmt.Errorf("%w: only manufacturers add products", ErrUnauthorized)
		}

		if params.MinTemp > params.MaxTemp || params.MinHumidity > params.MaxHumidity {
			return ErrInvalidRange
		}
		if params.Quantity == 0 {
			return ErrInvalidQuantity
		}

		product = &Product{
			Name:             params.Name,
			Description:      params.Description,
			MinTemp:          params.MinTemp,
			MaxTemp:          params.MaxTemp,
			MinHumidity:      params.MinHumidity,
			MaxHumidity:      params.MaxHumidity,
			Quantity:         params.Quantity,
			MfgDate:          params.MfgDate,
			CreatedAt:        l.now(),
			CurrentCustodian: worker.ID,
		}
		if err := tx.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		return tx.AppendEvent(ctx, Event{
			Type:        EventProductAdded,
			At:          product.CreatedAt,
			ProductID:   product.ID,
			ProductName: product.Name,
			WorkerID:    worker.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (l *Ledger) UpdateStatus(ctx context.Context, caller identity.Address, productID uint64, location string, temperature, humidity int64, quantity uint64) (*StatusRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var record *StatusRecord
	err := l.store.RunInTx(ctx, func(tx Tx) error {
		product, err := tx.ProductByID(ctx, productID)
		if err != nil {
			return notFound(err, "product")
		}
		if product.Spoiled {
			return ErrAlreadySpoiled
		}

		worker, err := tx.WorkerByAddress(ctx, caller)
		if err != nil {
			if errors.Is(err, repository.ErrObjectNotFound) {
				return fmt.Errorf("%w: caller is not a registered worker", ErrUnauthorized)
			}
			return fmt.Errorf("lookup caller: %w", err)
		}
		if !worker.Role.custodianEligible() {
			return fmt.Errorf("%w: role %s cannot report status", ErrUnauthorized, worker.Role)
		}
		if worker.ID != product.CurrentCustodian {
			return fmt.Errorf("%w: caller is not the current custodian", ErrUnauthorized)
		}

		compliant := temperature >= product.MinTemp && temperature <= product.MaxTemp &&
			humidity >= product.MinHumidity && humidity <= product.MaxHumidity

		record = &StatusRecord{
			ProductID:   productID,
			Location:    location,
			Temperature: temperature,
			Humidity:    humidity,
			Quantity:    quantity,
			Reporter:    worker.ID,
			RecordedAt:  l.now(),
			Compliant:   compliant,
		}
		// The violating reading itself stays in the permanent history.
		if err := tx.AppendStatus(ctx, record); err != nil {
			return fmt.Errorf("append status: %w", err)
		}

		if !compliant {
			product.Spoiled = true
			if err := tx.UpdateProduct(ctx, product); err != nil {
				return fmt.Errorf("mark spoiled: %w", err)
			}
			if err := tx.AppendEvent(ctx, Event{
				Type:        EventProductSpoiled,
				At:          record.RecordedAt,
				ProductID:   productID,
				ProductName: product.Name,
				Location:    location,
				Temperature: temperature,
				WorkerID:    worker.ID,
			}); err != nil {
				return err
			}
		}

		return tx.AppendEvent(ctx, Event{
			Type:        EventStatusUpdated,
			At:          record.RecordedAt,
			ProductID:   productID,
			Location:    location,
			Temperature: temperature,
			WorkerID:    worker.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (l *Ledger) TransferOwnership(ctx context.Context, caller identity.Address, productID, toWorker uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.RunInTx(ctx, func(tx Tx) error {
		product, err := tx.ProductByID(ctx, productID)
		if err != nil {
			return notFound(err, "product")
		}
		if _, err := tx.WorkerByID(ctx, toWorker); err != nil {
			return notFound(err, "worker")
		}

		worker, err := tx.WorkerByAddress(ctx, caller)
		if err != nil {
			if errors.Is(err, repository.ErrObjectNotFound) {
				return fmt.Errorf("%w: caller is not a registered worker", ErrUnauthorized)
			}
			return fmt.Errorf("lookup caller: %w", err)
		}
		if worker.ID != product.CurrentCustodian {
			return fmt.Errorf("%w: caller is not the current custodian", ErrUnauthorized)
		}
		// Custody of a condemned unit is never reassigned.
		if product.Spoiled {
			return ErrAlreadySpoiled
		}

		from := product.CurrentCustodian
		product.CurrentCustodian = toWorker
		if err := tx.UpdateProduct(ctx, product); err != nil {
			return fmt.Errorf("update custodian: %w", err)
		}

		return tx.AppendEvent(ctx, Event{
			Type:       EventOwnershipTransferred,
			At:         l.now(),
			ProductID:  productID,
			FromWorker: from,
			ToWorker:   toWorker,
		})
	})
}

func (l *Ledger) GetProductHistory(ctx context.Context, productID uint64) ([]StatusRecord, error) {
	if _, err := l.store.ProductByID(ctx, productID); err != nil {
		return nil, notFound(err, "product")
	}
	return l.store.HistoryByProduct(ctx, productID)
}

func (l *Ledger) GetAssignedProducts(ctx context.Context, workerID uint64) ([]Product, error) {
	if _, err := l.store.WorkerByID(ctx, workerID); err != nil {
		return nil, notFound(err, "worker")
	}
	return l.store.ProductsByCustodian(ctx, workerID)
}

func (l *Ledger) GetProduct(ctx context.Context, productID uint64) (*Product, error) {
	p, err := l.store.ProductByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (l *Ledger) GetWorker(ctx context.Context, workerID uint64) (*Worker, error) {
	w, err := l.store.WorkerByID(ctx, workerID)
	if err != nil {
		return nil, notFound(err, "worker")
	}
	return w, nil
}

func (l *Ledger) WorkerByIdentity(ctx context.Context, addr identity.Address) (*Worker, error) {
	w, err := l.store.WorkerByAddress(ctx, addr)
	if err != nil {
		return nil, notFound(err, "worker")
	}
	return w, nil
}

func (l *Ledger) ListProducts(ctx context.Context) ([]Product, error) {
	return l.store.Products(ctx)
}

func (l *Ledger) ListWorkers(ctx context.Context) ([]Worker, error) {
	return l.store.Workers(ctx)
}

func notFound(err error, kind string) error {
	if errors.Is(err, repository.ErrObjectNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, kind)
	}
	return err
}
