package repository

import (
	"context"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia de Transaction y TransactionItem.
type TransactionRepository interface {
	// Create inserta la cabecera y asigna ID.
	Create(ctx context.Context, tx *entity.Transaction) error
	// CreateItem inserta una línea y asigna ID.
	CreateItem(ctx context.Context, item *entity.TransactionItem) error
	// GetForUpdate devuelve (nil, nil) si no existe; bloquea la fila hasta el fin de la unidad de trabajo.
	GetForUpdate(ctx context.Context, id int64) (*entity.Transaction, error)
	ListItems(ctx context.Context, transactionID int64) ([]*entity.TransactionItem, error)
	// Delete elimina la transacción y sus ítems (cascada); domain.ErrNotFound si no existía.
	Delete(ctx context.Context, id int64) error
}
