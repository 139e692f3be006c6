package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pharmaguard/coldtrace/internal/db"
	"github.com/pharmaguard/coldtrace/internal/identity"
	"github.com/pharmaguard/coldtrace/internal/ledger"
	"github.com/pharmaguard/coldtrace/internal/repository"
)

// LedgerStore implements ledger.Store over postgres. Events go through the
// outbox table inside the same transaction as the state change.
type LedgerStore struct {
	db       db.DB
	workers  *WorkerRepo
	products *ProductRepo
	statuses *StatusRepo
	outbox   *OutboxTaskRepo
}

func NewLedgerStore(database db.DB) *LedgerStore {
	return &LedgerStore{
		db:       database,
		workers:  NewWorkerRepo(database),
		products: NewProductRepo(database),
		statuses: NewStatusRepo(database),
		outbox:   NewOutboxTaskRepo(),
	}
}

func (s *LedgerStore) RunInTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(&ledgerTx{store: s, tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *LedgerStore) WorkerByID(ctx context.Context, id uint64) (*ledger.Worker, error) {
	w, err := s.workers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLedgerWorker(w)
}

func (s *LedgerStore) WorkerByAddress(ctx context.Context, addr identity.Address) (*ledger.Worker, error) {
	w, err := s.workers.GetByAddress(ctx, addr.Hex())
	if err != nil {
		return nil, err
	}
	return toLedgerWorker(w)
}

func (s *LedgerStore) Workers(ctx context.Context) ([]ledger.Worker, error) {
	rows, err := s.workers.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	workers := make([]ledger.Worker, 0, len(rows))
	for _, row := range rows {
		w, err := toLedgerWorker(row)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, nil
}

func (s *LedgerStore) ProductByID(ctx context.Context, id uint64) (*ledger.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLedgerProduct(p), nil
}

func (s *LedgerStore) Products(ctx context.Context) ([]ledger.Product, error) {
	rows, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return toLedgerProducts(rows), nil
}

func (s *LedgerStore) ProductsByCustodian(ctx context.Context, workerID uint64) ([]ledger.Product, error) {
	rows, err := s.products.GetByCustodian(ctx, workerID)
	if err != nil {
		return nil, err
	}
	return toLedgerProducts(rows), nil
}

func (s *LedgerStore) HistoryByProduct(ctx context.Context, productID uint64) ([]ledger.StatusRecord, error) {
	rows, err := s.statuses.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	records := make([]ledger.StatusRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toLedgerStatus(row))
	}
	return records, nil
}

type ledgerTx struct {
	store *LedgerStore
	tx    db.Tx
}

func (t *ledgerTx) CreateWorker(ctx context.Context, w *ledger.Worker) error {
	row := &repository.Worker{
		Name:         w.Name,
		Role:         int(w.Role),
		Address:      w.Address.Hex(),
		RegisteredAt: w.RegisteredAt,
	}
	if err := t.store.workers.CreateTx(ctx, t.tx, row); err != nil {
		return err
	}
	w.ID = row.ID
	return nil
}

func (t *ledgerTx) CreateProduct(ctx context.Context, p *ledger.Product) error {
	row := fromLedgerProduct(p)
	if err := t.store.products.CreateTx(ctx, t.tx, row); err != nil {
		return err
	}
	p.ID = row.ID
	return nil
}

func (t *ledgerTx) UpdateProduct(ctx context.Context, p *ledger.Product) error {
	return t.store.products.UpdateTx(ctx, t.tx, fromLedgerProduct(p))
}

func (t *ledgerTx) AppendStatus(ctx context.Context, rec *ledger.StatusRecord) error {
	return t.store.statuses.CreateTx(ctx, t.tx, &repository.StatusRecord{
		ProductID:   rec.ProductID,
		Location:    rec.Location,
		Temperature: rec.Temperature,
		Humidity:    rec.Humidity,
		Quantity:    rec.Quantity,
		Reporter:    rec.Reporter,
		RecordedAt:  rec.RecordedAt,
		Compliant:   rec.Compliant,
	})
}

func (t *ledgerTx) AppendEvent(ctx context.Context, ev ledger.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return t.store.outbox.CreateTx(ctx, t.tx, &repository.OutboxTask{
		Topic:   ledger.EventsTopic,
		Payload: payload,
	})
}

func (t *ledgerTx) WorkerByID(ctx context.Context, id uint64) (*ledger.Worker, error) {
	w, err := t.store.workers.GetByIDTx(ctx, t.tx, id)
	if err != nil {
		return nil, err
	}
	return toLedgerWorker(w)
}

func (t *ledgerTx) WorkerByAddress(ctx context.Context, addr identity.Address) (*ledger.Worker, error) {
	w, err := t.store.workers.GetByAddressTx(ctx, t.tx, addr.Hex())
	if err != nil {
		return nil, err
	}
	return toLedgerWorker(w)
}

func (t *ledgerTx) ProductByID(ctx context.Context, id uint64) (*ledger.Product, error) {
	p, err := t.store.products.GetByIDTx(ctx, t.tx, id)
	if err != nil {
		return nil, err
	}
	return toLedgerProduct(p), nil
}

// List reads are not used by mutations; delegate to the pool.

func (t *ledgerTx) Workers(ctx context.Context) ([]ledger.Worker, error) {
	return t.store.Workers(ctx)
}

func (t *ledgerTx) Products(ctx context.Context) ([]ledger.Product, error) {
	return t.store.Products(ctx)
}

func (t *ledgerTx) ProductsByCustodian(ctx context.Context, workerID uint64) ([]ledger.Product, error) {
	return t.store.ProductsByCustodian(ctx, workerID)
}

func (t *ledgerTx) HistoryByProduct(ctx context.Context, productID uint64) ([]ledger.StatusRecord, error) {
	return t.store.HistoryByProduct(ctx, productID)
}

func toLedgerWorker(row *repository.Worker) (*ledger.Worker, error) {
	addr, err := identity.Parse(row.Address)
	if err != nil {
		return nil, fmt.Errorf("worker %d has malformed address %q: %w", row.ID, row.Address, err)
	}
	return &ledger.Worker{
		ID:           row.ID,
		Name:         row.Name,
		Role:         ledger.Role(row.Role),
		Address:      addr,
		RegisteredAt: row.RegisteredAt,
	}, nil
}

func toLedgerProduct(row *repository.Product) *ledger.Product {
	return &ledger.Product{
		ID:               row.ID,
		Name:             row.Name,
		Description:      row.Description,
		MinTemp:          row.MinTemp,
		MaxTemp:          row.MaxTemp,
		MinHumidity:      row.MinHumidity,
		MaxHumidity:      row.MaxHumidity,
		Quantity:         row.Quantity,
		MfgDate:          row.MfgDate,
		CreatedAt:        row.CreatedAt,
		CurrentCustodian: row.CurrentCustodian,
		Spoiled:          row.Spoiled,
	}
}

func toLedgerProducts(rows []*repository.Product) []ledger.Product {
	products := make([]ledger.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, *toLedgerProduct(row))
	}
	return products
}

func fromLedgerProduct(p *ledger.Product) *repository.Product {
	return &repository.Product{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		MinTemp:          p.MinTemp,
		MaxTemp:          p.MaxTemp,
		MinHumidity:      p.MinHumidity,
		MaxHumidity:      p.MaxHumidity,
		Quantity:         p.Quantity,
		MfgDate:          p.MfgDate,
		CreatedAt:        p.CreatedAt,
		CurrentCustodian: p.CurrentCustodian,
		Spoiled:          p.Spoiled,
	}
}

func toLedgerStatus(row *repository.StatusRecord) ledger.StatusRecord {
	return ledger.StatusRecord{
		ProductID:   row.ProductID,
		Location:    row.Location,
		Temperature: row.Temperature,
		Humidity:    row.Humidity,
		Quantity:    row.Quantity,
		Reporter:    row.Reporter,
		RecordedAt:  row.RecordedAt,
		Compliant:   row.Compliant,
	}
}
