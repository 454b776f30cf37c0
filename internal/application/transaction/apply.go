package transaction

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// line resultado de procesar un ítem: la instantánea que se guarda y los deltas
// (con signo) que se aplican a los reportes del producto y de la sucursal.
type line struct {
	product  *entity.Product
	quantity int
	price    decimal.Decimal
	unitCost decimal.Decimal
	discount decimal.Decimal
	sales    decimal.Decimal
	profit   decimal.Decimal
}

// validateItems valida la forma del payload antes de abrir la unidad de trabajo.
func validateItems(items []dto.TransactionItemRequest) error {
	if len(items) == 0 {
		return domain.ErrEmptyItems
	}
	for i, it := range items {
		if it.ProductID <= 0 {
			return fmt.Errorf("%w: items[%d].productId", domain.ErrInvalidInput, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d].quantity debe ser mayor que 0", domain.ErrInvalidInput, i)
		}
		if it.Quantity > MaxStock {
			return fmt.Errorf("%w: items[%d].quantity no puede superar %d", domain.ErrInvalidInput, i, MaxStock)
		}
		if it.Discount != nil && it.Discount.IsNegative() {
			return fmt.Errorf("%w: items[%d].discount no puede ser negativo", domain.ErrInvalidInput, i)
		}
	}
	return nil
}

func quantity(q int) decimal.Decimal {
	return decimal.NewFromInt(int64(q))
}

// applySale: salida de stock; suma ventas y utilidad al producto y a la sucursal.
func (s *scope) applySale(ctx context.Context, items []dto.TransactionItemRequest) (*entity.Transaction, error) {
	lines := make([]line, 0, len(items))
	for _, it := range items {
		product, err := s.resolveProduct(ctx, it.ProductID, it.ProductName)
		if err != nil {
			return nil, err
		}
		sellingPrice, err := checkSellingPrice(product)
		if err != nil {
			return nil, err
		}
		costPerUnit, err := checkCostPerUnit(product)
		if err != nil {
			return nil, err
		}
		if _, err := s.moveStock(ctx, product, entity.MovementTypeOut, entity.TransactionTypeSale, it.Quantity); err != nil {
			return nil, err
		}
		qty := quantity(it.Quantity)
		revenue := sellingPrice.Mul(qty)
		profit := sellingPrice.Sub(costPerUnit).Mul(qty)
		lines = append(lines, line{
			product:  product,
			quantity: it.Quantity,
			price:    revenue,
			unitCost: costPerUnit,
			sales:    revenue,
			profit:   profit,
		})
	}
	return s.persist(ctx, entity.TransactionTypeSale, lines)
}

// applyPurchase: entrada de stock al costo; no toca ventas ni utilidad.
func (s *scope) applyPurchase(ctx context.Context, items []dto.TransactionItemRequest) (*entity.Transaction, error) {
	lines := make([]line, 0, len(items))
	for _, it := range items {
		product, err := s.resolveProduct(ctx, it.ProductID, it.ProductName)
		if err != nil {
			return nil, err
		}
		costPerUnit, err := checkCostPerUnit(product)
		if err != nil {
			return nil, err
		}
		if _, err := s.moveStock(ctx, product, entity.MovementTypeIn, entity.TransactionTypePurchase, it.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line{
			product:  product,
			quantity: it.Quantity,
			price:    costPerUnit.Mul(quantity(it.Quantity)),
			unitCost: costPerUnit,
			sales:    decimal.Zero,
			profit:   decimal.Zero,
		})
	}
	return s.persist(ctx, entity.TransactionTypePurchase, lines)
}

// applyReturn: la mercancía vuelve (entrada) y se revierte el efecto financiero de la venta.
func (s *scope) applyReturn(ctx context.Context, items []dto.TransactionItemRequest) (*entity.Transaction, error) {
	lines := make([]line, 0, len(items))
	for _, it := range items {
		product, err := s.resolveProduct(ctx, it.ProductID, it.ProductName)
		if err != nil {
			return nil, err
		}
		sellingPrice, err := checkSellingPrice(product)
		if err != nil {
			return nil, err
		}
		costPerUnit, err := checkCostPerUnit(product)
		if err != nil {
			return nil, err
		}
		discount := decimal.Zero
		if it.Discount != nil {
			discount = *it.Discount
		}
		qty := quantity(it.Quantity)
		gross := sellingPrice.Mul(qty)
		if discount.GreaterThan(gross) {
			return nil, fmt.Errorf("%w: el descuento de %q supera el monto devuelto", domain.ErrInvalidInput, product.Name)
		}
		if _, err := s.moveStock(ctx, product, entity.MovementTypeIn, entity.TransactionTypeReturn, it.Quantity); err != nil {
			return nil, err
		}
		revenue := gross.Sub(discount)
		profit := sellingPrice.Sub(costPerUnit).Mul(qty).Sub(discount)
		lines = append(lines, line{
			product:  product,
			quantity: it.Quantity,
			price:    revenue,
			unitCost: costPerUnit,
			discount: discount,
			sales:    revenue.Neg(),
			profit:   profit.Neg(),
		})
	}
	return s.persist(ctx, entity.TransactionTypeReturn, lines)
}

// applyDamage: salida de stock por merma; el costo se descuenta de la utilidad.
func (s *scope) applyDamage(ctx context.Context, items []dto.TransactionItemRequest) (*entity.Transaction, error) {
	lines := make([]line, 0, len(items))
	for _, it := range items {
		product, err := s.resolveProduct(ctx, it.ProductID, it.ProductName)
		if err != nil {
			return nil, err
		}
		costPerUnit, err := checkCostPerUnit(product)
		if err != nil {
			return nil, err
		}
		if _, err := s.moveStock(ctx, product, entity.MovementTypeOut, entity.TransactionTypeDamage, it.Quantity); err != nil {
			return nil, err
		}
		cost := costPerUnit.Mul(quantity(it.Quantity))
		lines = append(lines, line{
			product:  product,
			quantity: it.Quantity,
			price:    cost,
			unitCost: costPerUnit,
			sales:    decimal.Zero,
			profit:   cost.Neg(),
		})
	}
	return s.persist(ctx, entity.TransactionTypeDamage, lines)
}

// persist crea la cabecera (TotalAmount = Σ price), las líneas y aplica los deltas financieros.
func (s *scope) persist(ctx context.Context, txType entity.TransactionType, lines []line) (*entity.Transaction, error) {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.price)
	}
	tx := &entity.Transaction{
		BranchID:    s.branch.ID,
		Type:        txType,
		TotalAmount: total,
		CreatedAt:   s.now,
	}
	if err := s.uow.Transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	for _, l := range lines {
		item := &entity.TransactionItem{
			TransactionID:   tx.ID,
			ProductID:       l.product.ID,
			Quantity:        l.quantity,
			Price:           l.price,
			UnitCost:        l.unitCost,
			Discount:        l.discount,
			TransactionType: txType,
			CreatedAt:       s.now,
		}
		if err := s.uow.Transactions.CreateItem(ctx, item); err != nil {
			return nil, err
		}
		tx.Items = append(tx.Items, item)
		if err := s.applyFinancials(ctx, l.product.ID, l.sales, l.profit); err != nil {
			return nil, err
		}
	}
	return tx, nil
}
