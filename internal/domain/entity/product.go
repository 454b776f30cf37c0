package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es la vista del catálogo que necesita el motor de transacciones.
// SellingPrice y CostPerUnit son punteros: nil significa que el campo no está definido.
type Product struct {
	ID           int64
	Name         string
	SellingPrice *decimal.Decimal
	CostPerUnit  *decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
