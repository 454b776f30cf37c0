package transaction

import (
	"context"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CostSource de dónde toma la reversión el costo unitario para recalcular la utilidad.
type CostSource string

const (
	// CostSourceSnapshot usa el costo congelado en el ítem al aplicar (reversión exacta).
	CostSourceSnapshot CostSource = "snapshot"
	// CostSourceCurrent usa el costo vigente del producto al momento de revertir.
	CostSourceCurrent CostSource = "current"
)

// compensator inverso de un applier para un ítem ya guardado.
type compensator func(ctx context.Context, s *scope, product *entity.Product, item *entity.TransactionItem) error

// rollback revierte cada línea y elimina la transacción al final. Tipo e ítems ya fueron validados.
func (s *scope) rollback(ctx context.Context, tx *entity.Transaction, items []*entity.TransactionItem, undo compensator) error {
	for _, item := range items {
		product, err := s.resolveProduct(ctx, item.ProductID, "")
		if err != nil {
			return err
		}
		if err := undo(ctx, s, product, item); err != nil {
			return err
		}
	}
	return s.uow.Transactions.Delete(ctx, tx.ID)
}

// unitCost costo a usar en la reversión según la política configurada.
func (s *scope) unitCost(product *entity.Product, item *entity.TransactionItem) (decimal.Decimal, error) {
	if s.costSource == CostSourceCurrent {
		return checkCostPerUnit(product)
	}
	return item.UnitCost, nil
}

// undoSale: el stock vuelve y se restan ventas y utilidad.
func undoSale(ctx context.Context, s *scope, product *entity.Product, item *entity.TransactionItem) error {
	cost, err := s.unitCost(product, item)
	if err != nil {
		return err
	}
	if _, err := s.moveStock(ctx, product, entity.MovementTypeIn, entity.TransactionTypeSale, item.Quantity); err != nil {
		return err
	}
	profit := item.Price.Sub(cost.Mul(quantity(item.Quantity)))
	return s.applyFinancials(ctx, product.ID, item.Price.Neg(), profit.Neg())
}

// undoPurchase: retira lo comprado; falla si ya se consumió.
func undoPurchase(ctx context.Context, s *scope, product *entity.Product, item *entity.TransactionItem) error {
	_, err := s.moveStock(ctx, product, entity.MovementTypeOut, entity.TransactionTypePurchase, item.Quantity)
	return err
}

// undoReturn: la mercancía devuelta sale de nuevo y se reponen ventas y utilidad.
func undoReturn(ctx context.Context, s *scope, product *entity.Product, item *entity.TransactionItem) error {
	cost, err := s.unitCost(product, item)
	if err != nil {
		return err
	}
	if _, err := s.moveStock(ctx, product, entity.MovementTypeOut, entity.TransactionTypeReturn, item.Quantity); err != nil {
		return err
	}
	profit := item.Price.Sub(cost.Mul(quantity(item.Quantity)))
	return s.applyFinancials(ctx, product.ID, item.Price, profit)
}

// undoDamage: el stock vuelve y se repone la utilidad descontada. Sumar stock siempre es seguro.
func undoDamage(ctx context.Context, s *scope, product *entity.Product, item *entity.TransactionItem) error {
	cost, err := s.unitCost(product, item)
	if err != nil {
		return err
	}
	if _, err := s.moveStock(ctx, product, entity.MovementTypeIn, entity.TransactionTypeDamage, item.Quantity); err != nil {
		return err
	}
	return s.applyFinancials(ctx, product.ID, decimal.Zero, cost.Mul(quantity(item.Quantity)))
}
