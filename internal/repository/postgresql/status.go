package postgresql

import (
	"context"

	"github.com/pharmaguard/coldtrace/internal/db"
	"github.com/pharmaguard/coldtrace/internal/repository"
)

type StatusRepo struct {
	db db.DB
}

func NewStatusRepo(db db.DB) *StatusRepo {
	return &StatusRepo{db: db}
}

func (r *StatusRepo) CreateTx(ctx context.Context, tx db.Tx, rec *repository.StatusRecord) error {
	return tx.Get(ctx, &rec.ID, `
        INSERT INTO status_records (
            product_id, location, temperature, humidity, quantity, reporter, recorded_at, compliant
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `, rec.ProductID, rec.Location, rec.Temperature, rec.Humidity,
		rec.Quantity, rec.Reporter, rec.RecordedAt, rec.Compliant)
}

// GetByProductID returns history in append order; the id is the insertion
// sequence, never a re-sort key.
func (r *StatusRepo) GetByProductID(ctx context.Context, productID uint64) ([]*repository.StatusRecord, error) {
	var records []*repository.StatusRecord
	err := r.db.Select(ctx, &records,
		"SELECT * FROM status_records WHERE product_id = $1 ORDER BY id ASC", productID)
	return records, err
}
