package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionType tipos de evento de negocio que afectan stock.
type TransactionType string

const (
	TransactionTypeSale     TransactionType = "SALE"
	TransactionTypePurchase TransactionType = "PURCHASE"
	TransactionTypeReturn   TransactionType = "RETURN"
	TransactionTypeDamage   TransactionType = "DAMAGE"
)

// TransactionTypes lista cerrada de tipos soportados.
var TransactionTypes = []TransactionType{
	TransactionTypeSale,
	TransactionTypePurchase,
	TransactionTypeReturn,
	TransactionTypeDamage,
}

// ParseTransactionType normaliza s y devuelve domain.ErrInvalidTransactionType si no es un tipo conocido.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", domain.ErrInvalidTransactionType
	}
	return t, nil
}

// Valid indica si t es uno de los cuatro tipos soportados.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypePurchase, TransactionTypeReturn, TransactionTypeDamage:
		return true
	}
	return false
}

// Transaction cabecera de un evento aplicado. Se elimina (con sus ítems) al revertirse.
type Transaction struct {
	ID          int64
	BranchID    int64
	Type        TransactionType
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	Items       []*TransactionItem
}

// TransactionItem línea de una transacción.
// Price es la instantánea del efecto monetario de la línea (venta, costo de compra,
// monto devuelto o costo de la merma); UnitCost y Discount se congelan al aplicar.
type TransactionItem struct {
	ID              int64
	TransactionID   int64
	ProductID       int64
	Quantity        int
	Price           decimal.Decimal
	UnitCost        decimal.Decimal
	Discount        decimal.Decimal
	TransactionType TransactionType
	CreatedAt       time.Time
}
