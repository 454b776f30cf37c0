package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/jhoicas/inventario-transacciones/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create inserta la cabecera y asigna ID.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (branch_id, type, total_amount, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, tx.BranchID, tx.Type, tx.TotalAmount, tx.CreatedAt).Scan(&tx.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: sucursal %d", domain.ErrNotFound, tx.BranchID)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// CreateItem inserta una línea y asigna ID.
func (r *TransactionRepo) CreateItem(ctx context.Context, item *entity.TransactionItem) error {
	query := `
		INSERT INTO transaction_items (transaction_id, product_id, quantity, price, unit_cost, discount, transaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.TransactionID, item.ProductID, item.Quantity, item.Price,
		item.UnitCost, item.Discount, item.TransactionType, item.CreatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: transacción %d o producto %d", domain.ErrNotFound, item.TransactionID, item.ProductID)
		}
		return fmt.Errorf("insert transaction item: %w", err)
	}
	return nil
}

// GetForUpdate obtiene la cabecera y la bloquea: dos reversiones concurrentes del mismo ID se serializan.
func (r *TransactionRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Transaction, error) {
	query := `
		SELECT id, branch_id, type, total_amount, created_at
		FROM transactions WHERE id = $1
		FOR UPDATE`
	var tx entity.Transaction
	err := r.q.QueryRow(ctx, query, id).Scan(&tx.ID, &tx.BranchID, &tx.Type, &tx.TotalAmount, &tx.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &tx, nil
}

// ListItems lista las líneas de una transacción en orden de inserción.
func (r *TransactionRepo) ListItems(ctx context.Context, transactionID int64) ([]*entity.TransactionItem, error) {
	query := `
		SELECT id, transaction_id, product_id, quantity, price, unit_cost, discount, transaction_type, created_at
		FROM transaction_items WHERE transaction_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransactionItem
	for rows.Next() {
		var it entity.TransactionItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.Quantity, &it.Price,
			&it.UnitCost, &it.Discount, &it.TransactionType, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Delete elimina la transacción; los ítems caen por ON DELETE CASCADE.
func (r *TransactionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transacción %d", domain.ErrNotFound, id)
	}
	return nil
}
