package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/pharmaguard/coldtrace/internal/db"
	"github.com/pharmaguard/coldtrace/internal/repository"
)

type ProductRepo struct {
	db db.DB
}

func NewProductRepo(db db.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) CreateTx(ctx context.Context, tx db.Tx, product *repository.Product) error {
	return tx.Get(ctx, &product.ID, `
        INSERT INTO products (
            name, description, min_temp, max_temp, min_humidity, max_humidity,
            quantity, mfg_date, created_at, current_custodian, spoiled
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id
    `, product.Name, product.Description, product.MinTemp, product.MaxTemp,
		product.MinHumidity, product.MaxHumidity, product.Quantity, product.MfgDate,
		product.CreatedAt, product.CurrentCustodian, product.Spoiled)
}

func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*repository.Product, error) {
	var product repository.Product
	err := r.db.Get(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) GetByIDTx(ctx context.Context, tx db.Tx, id uint64) (*repository.Product, error) {
	var product repository.Product
	err := tx.Get(ctx, &product, "SELECT * FROM products WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) UpdateTx(ctx context.Context, tx db.Tx, product *repository.Product) error {
	_, err := tx.Exec(ctx, `
        UPDATE products
        SET current_custodian = $1,
            spoiled = $2,
            quantity = $3
        WHERE id = $4
    `, product.CurrentCustodian, product.Spoiled, product.Quantity, product.ID)
	return err
}

func (r *ProductRepo) GetAll(ctx context.Context) ([]*repository.Product, error) {
	var products []*repository.Product
	err := r.db.Select(ctx, &products, "SELECT * FROM products ORDER BY id ASC")
	return products, err
}

func (r *ProductRepo) GetByCustodian(ctx context.Context, workerID uint64) ([]*repository.Product, error) {
	var products []*repository.Product
	err := r.db.Select(ctx, &products,
		"SELECT * FROM products WHERE current_custodian = $1 ORDER BY id ASC", workerID)
	return products, err
}
