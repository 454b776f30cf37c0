package entity

import "time"

// MovementType dirección física del movimiento de stock.
type MovementType string

const (
	MovementTypeIn  MovementType = "IN"  // entrada
	MovementTypeOut MovementType = "OUT" // salida
)

// StockMovement es una entrada inmutable del libro de movimientos de stock.
// Cumple NewValue = OldValue + Quantity (IN) o OldValue - Quantity (OUT).
type StockMovement struct {
	ID        int64
	ProductID int64
	Type      MovementType
	Reason    TransactionType
	Quantity  int
	OldValue  int
	NewValue  int
	CreatedAt time.Time
}

// Delta devuelve el efecto con signo del movimiento sobre el stock.
func (m *StockMovement) Delta() int {
	if m.Type == MovementTypeOut {
		return -m.Quantity
	}
	return m.Quantity
}

// Consistent indica si el par OldValue/NewValue describe exactamente Quantity en la dirección Type.
func (m *StockMovement) Consistent() bool {
	if m.Quantity <= 0 {
		return false
	}
	switch m.Type {
	case MovementTypeIn, MovementTypeOut:
		return m.NewValue == m.OldValue+m.Delta()
	}
	return false
}
