package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

type Worker struct {
	ID           uint64    `db:"id"`
	Name         string    `db:"name"`
	Role         int       `db:"role"`
	Address      string    `db:"address"`
	RegisteredAt time.Time `db:"registered_at"`
}

type Product struct {
	ID               uint64    `db:"id"`
	Name             string    `db:"name"`
	Description      string    `db:"description"`
	MinTemp          int64     `db:"min_temp"`
	MaxTemp          int64     `db:"max_temp"`
	MinHumidity      int64     `db:"min_humidity"`
	MaxHumidity      int64     `db:"max_humidity"`
	Quantity         uint64    `db:"quantity"`
	MfgDate          string    `db:"mfg_date"`
	CreatedAt        time.Time `db:"created_at"`
	CurrentCustodian uint64    `db:"current_custodian"`
	Spoiled          bool      `db:"spoiled"`
}

type StatusRecord struct {
	ID          uint64    `db:"id"`
	ProductID   uint64    `db:"product_id"`
	Location    string    `db:"location"`
	Temperature int64     `db:"temperature"`
	Humidity    int64     `db:"humidity"`
	Quantity    uint64    `db:"quantity"`
	Reporter    uint64    `db:"reporter"`
	RecordedAt  time.Time `db:"recorded_at"`
	Compliant   bool      `db:"compliant"`
}
