package ledger

import (
	"fmt"
	"time"

	"github.com/pharmaguard/coldtrace/internal/identity"
)

type Role int

const (
	RoleManufacturer Role = iota
	RoleDistributor
	RoleTransporter
)

func (r Role) String() string {
	switch r {
	case RoleManufacturer:
		return "manufacturer"
	case RoleDistributor:
		return "distributor"
	case RoleTransporter:
		return "transporter"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "manufacturer":
		return RoleManufacturer, nil
	case "distributor":
		return RoleDistributor, nil
	case "transporter":
		return RoleTransporter, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// custodianEligible reports whether a role may report movement statuses.
func (r Role) custodianEligible() bool {
	return r == RoleDistributor || r == RoleTransporter
}

type Worker struct {
	ID           uint64           `json:"id"`
	Name         string           `json:"name"`
	Role         Role             `json:"role"`
	Address      identity.Address `json:"address"`
	RegisteredAt time.Time        `json:"registered_at"`
}

type Product struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	MinTemp          int64     `json:"min_temp"`
	MaxTemp          int64     `json:"max_temp"`
	MinHumidity      int64     `json:"min_humidity"`
	MaxHumidity      int64     `json:"max_humidity"`
	Quantity         uint64    `json:"quantity"`
	MfgDate          string    `json:"mfg_date"`
	CreatedAt        time.Time `json:"created_at"`
	CurrentCustodian uint64    `json:"current_custodian"`
	Spoiled          bool      `json:"spoiled"`
}

// StatusRecord is one immutable entry of a product's chain-of-custody history.
type StatusRecord struct {
	ProductID   uint64    `json:"product_id"`
	Location    string    `json:"location"`
	Temperature int64     `json:"temperature"`
	Humidity    int64     `json:"humidity"`
	Quantity    uint64    `json:"quantity"`
	Reporter    uint64    `json:"reporter"`
	RecordedAt  time.Time `json:"recorded_at"`
	Compliant   bool      `json:"compliant"`
}

// ProductParams carries the manufacturer-supplied fields of AddProduct.
type ProductParams struct {
	Name        string
	Description string
	MinTemp     int64
	MaxTemp     int64
	MinHumidity int64
	MaxHumidity int64
	Quantity    uint64
	MfgDate     string
}
