package transaction

import (
	"fmt"
	"math"

	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold umbral bajo el cual se emite la alerta de stock bajo.
const DefaultLowStockThreshold = 30

// MaxStock tope de cantidades y de stock: las columnas quantity y stock son INTEGER.
const MaxStock = math.MaxInt32

// checkProductExistence falla con NotFound si la búsqueda del producto no devolvió nada.
func checkProductExistence(name string, product *entity.Product) error {
	if product == nil {
		return fmt.Errorf("%w: producto %q", domain.ErrNotFound, name)
	}
	return nil
}

// checkStock devuelve el stock actual o NotFound si el producto no tiene fila de reporte.
func checkStock(name string, report *entity.ProductReport) (int, error) {
	if report == nil {
		return 0, fmt.Errorf("%w: stock del producto %q", domain.ErrNotFound, name)
	}
	return report.Stock, nil
}

// isThereEnoughStock falla con BadRequest si se pide más de lo disponible.
func isThereEnoughStock(name string, currentStock, requestedQty int) error {
	if requestedQty > currentStock {
		return fmt.Errorf("%w: %q tiene %d, se solicitaron %d", domain.ErrInsufficientStock, name, currentStock, requestedQty)
	}
	return nil
}

// checkStockCapacity falla con BadRequest si la entrada dejaría el stock por encima de MaxStock.
func checkStockCapacity(name string, currentStock, incomingQty int) error {
	if incomingQty > MaxStock-currentStock {
		return fmt.Errorf("%w: %q tiene %d, una entrada de %d supera el máximo de %d", domain.ErrInvalidInput, name, currentStock, incomingQty, MaxStock)
	}
	return nil
}

// isLowStock indica si el stock proyectado queda por debajo del umbral.
func isLowStock(projectedStock, threshold int) bool {
	return projectedStock < threshold
}

// checkCostPerUnit exige el costo unitario del producto.
func checkCostPerUnit(product *entity.Product) (decimal.Decimal, error) {
	if product.CostPerUnit == nil {
		return decimal.Zero, fmt.Errorf("%w: costo por unidad de %q", domain.ErrMissingPrice, product.Name)
	}
	return *product.CostPerUnit, nil
}

// checkSellingPrice exige el precio de venta del producto.
func checkSellingPrice(product *entity.Product) (decimal.Decimal, error) {
	if product.SellingPrice == nil {
		return decimal.Zero, fmt.Errorf("%w: precio de venta de %q", domain.ErrMissingPrice, product.Name)
	}
	return *product.SellingPrice, nil
}

// checkTransactionType falla con BadRequest si la transacción guardada no es del tipo esperado.
func checkTransactionType(tx *entity.Transaction, want entity.TransactionType) error {
	if tx.Type != want {
		return fmt.Errorf("%w: se esperaba %s y la transacción %d es %s", domain.ErrTransactionTypeMismatch, want, tx.ID, tx.Type)
	}
	return nil
}

// checkItems falla con BadRequest si la transacción no tiene líneas.
func checkItems(items []*entity.TransactionItem) error {
	if len(items) == 0 {
		return domain.ErrEmptyItems
	}
	return nil
}
