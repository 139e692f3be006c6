package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/pharmaguard/coldtrace/internal/db"
	"github.com/pharmaguard/coldtrace/internal/repository"
)

type WorkerRepo struct {
	db db.DB
}

func NewWorkerRepo(db db.DB) *WorkerRepo {
	return &WorkerRepo{db: db}
}

func (r *WorkerRepo) CreateTx(ctx context.Context, tx db.Tx, worker *repository.Worker) error {
	return tx.Get(ctx, &worker.ID, `
        INSERT INTO workers (name, role, address, registered_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, worker.Name, worker.Role, worker.Address, worker.RegisteredAt)
}

func (r *WorkerRepo) GetByID(ctx context.Context, id uint64) (*repository.Worker, error) {
	var worker repository.Worker
	err := r.db.Get(ctx, &worker, "SELECT * FROM workers WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepo) GetByIDTx(ctx context.Context, tx db.Tx, id uint64) (*repository.Worker, error) {
	var worker repository.Worker
	err := tx.Get(ctx, &worker, "SELECT * FROM workers WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepo) GetByAddress(ctx context.Context, address string) (*repository.Worker, error) {
	var worker repository.Worker
	err := r.db.Get(ctx, &worker, "SELECT * FROM workers WHERE lower(address) = lower($1)", address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepo) GetByAddressTx(ctx context.Context, tx db.Tx, address string) (*repository.Worker, error) {
	var worker repository.Worker
	err := tx.Get(ctx, &worker, "SELECT * FROM workers WHERE lower(address) = lower($1)", address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *WorkerRepo) GetAll(ctx context.Context) ([]*repository.Worker, error) {
	var workers []*repository.Worker
	err := r.db.Select(ctx, &workers, "SELECT * FROM workers ORDER BY id ASC")
	return workers, err
}
