package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductReport agregado por producto (stock, ventas, utilidad), mantenido por deltas.
type ProductReport struct {
	ProductID int64
	Stock     int
	Sales     decimal.Decimal
	Profit    decimal.Decimal
	UpdatedAt time.Time
}

// BranchReport agregado por sucursal (ventas, utilidad), mantenido por deltas.
type BranchReport struct {
	BranchID  int64
	Sales     decimal.Decimal
	Profit    decimal.Decimal
	UpdatedAt time.Time
}
