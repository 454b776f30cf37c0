package repository

import (
	"context"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReportRepository define el puerto para los agregados ProductReport y BranchReport.
// Todas las mutaciones son relativas (campo = campo ± delta) y atómicas a nivel de fila.
type ReportRepository interface {
	// GetProductReport devuelve (nil, nil) si no existe la fila del producto.
	GetProductReport(ctx context.Context, productID int64) (*entity.ProductReport, error)
	// GetProductReportForUpdate como GetProductReport pero bloquea la fila (SELECT FOR UPDATE).
	GetProductReportForUpdate(ctx context.Context, productID int64) (*entity.ProductReport, error)
	IncrementProductStock(ctx context.Context, productID int64, qty int) error
	// DecrementProductStock resta qty solo si stock >= qty; si no, devuelve domain.ErrInsufficientStock.
	DecrementProductStock(ctx context.Context, productID int64, qty int) error
	AddProductFinancials(ctx context.Context, productID int64, salesDelta, profitDelta decimal.Decimal) error
	// GetBranchReport devuelve (nil, nil) si la sucursal aún no tiene fila de reporte.
	GetBranchReport(ctx context.Context, branchID int64) (*entity.BranchReport, error)
	// AddBranchFinancials crea la fila de la sucursal en el primer delta.
	AddBranchFinancials(ctx context.Context, branchID int64, salesDelta, profitDelta decimal.Decimal) error
	ListProductIDs(ctx context.Context) ([]int64, error)
}
