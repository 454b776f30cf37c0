package transaction

import (
	"context"

	"github.com/jhoicas/inventario-transacciones/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// reportMaintainer aplica deltas con signo a ProductReport y BranchReport.
// Nunca sobrescribe valores absolutos: el almacenamiento aplica cada delta de forma atómica.
type reportMaintainer struct {
	reports repository.ReportRepository
}

func (m reportMaintainer) IncrementStock(ctx context.Context, productID int64, qty int) error {
	return m.reports.IncrementProductStock(ctx, productID, qty)
}

// DecrementStock es condicional: falla con ErrInsufficientStock si stock < qty.
func (m reportMaintainer) DecrementStock(ctx context.Context, productID int64, qty int) error {
	return m.reports.DecrementProductStock(ctx, productID, qty)
}

func (m reportMaintainer) ApplyProductDelta(ctx context.Context, productID int64, sales, profit decimal.Decimal) error {
	if sales.IsZero() && profit.IsZero() {
		return nil
	}
	return m.reports.AddProductFinancials(ctx, productID, sales, profit)
}

func (m reportMaintainer) ApplyBranchDelta(ctx context.Context, branchID int64, sales, profit decimal.Decimal) error {
	if sales.IsZero() && profit.IsZero() {
		return nil
	}
	return m.reports.AddBranchFinancials(ctx, branchID, sales, profit)
}
