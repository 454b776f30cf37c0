package transaction

import (
	"context"

	"github.com/jhoicas/inventario-transacciones/internal/domain/repository"
)

// UnitOfWork agrupa los repositorios atados a una misma transacción de BD.
// Es el único handle con permiso de escritura durante un apply o un rollback.
type UnitOfWork struct {
	Products     repository.ProductRepository
	Branches     repository.BranchRepository
	Transactions repository.TransactionRepository
	Movements    repository.StockMovementRepository
	Reports      repository.ReportRepository
}

// TxRunner ejecuta fn dentro de una unidad de trabajo atómica: Commit si fn devuelve nil,
// Rollback de todas las escrituras en cualquier otro caso (incluido el vencimiento de ctx).
type TxRunner interface {
	Run(ctx context.Context, fn func(uow *UnitOfWork) error) error
}

// NotificationKind tipo de alerta emitida hacia el subsistema de notificaciones.
type NotificationKind string

const (
	NotificationLowStock NotificationKind = "LOW_STOCK"
)

// Notification alerta de stock (fire-and-forget).
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	ProductID   int64            `json:"productId"`
	ProductName string           `json:"productName"`
	BranchName  string           `json:"branchName"`
	Stock       int              `json:"stock"`
	Threshold   int              `json:"threshold"`
}

// Notifier sumidero de notificaciones. Un error nunca bloquea la operación que lo originó.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
