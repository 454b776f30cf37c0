package repository

import (
	"context"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error)
	// SumByProduct devuelve Σ(IN.quantity) y Σ(OUT.quantity) del producto.
	SumByProduct(ctx context.Context, productID int64) (in, out int, err error)
}
