package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/jhoicas/inventario-transacciones/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx). Solo inserta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento y asigna su ID.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (product_id, movement_type, movement_reason, quantity, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.Type, m.Reason, m.Quantity, m.OldValue, m.NewValue, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto, los más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, movement_type, movement_reason, quantity, old_value, new_value, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Reason, &m.Quantity,
			&m.OldValue, &m.NewValue, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProduct devuelve Σ(IN) y Σ(OUT) del producto.
func (r *StockMovementRepo) SumByProduct(ctx context.Context, productID int64) (int, int, error) {
	query := `
		SELECT COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'IN'), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE movement_type = 'OUT'), 0)
		FROM stock_movements WHERE product_id = $1`
	var in, out int
	if err := r.q.QueryRow(ctx, query, productID).Scan(&in, &out); err != nil {
		return 0, 0, fmt.Errorf("sum movements: %w", err)
	}
	return in, out, nil
}
