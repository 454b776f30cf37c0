package transaction

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/domain"
)

// AuditProduct compara ProductReport.stock con Σ(IN) − Σ(OUT) del libro, leídos en la misma
// unidad de trabajo y con la fila del reporte bloqueada. Drift distinto de cero indica una inconsistencia.
func (uc *TransactionUseCase) AuditProduct(ctx context.Context, productID int64) (*dto.LedgerAuditDTO, error) {
	var out *dto.LedgerAuditDTO
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		a, err := auditProduct(ctx, uow, productID)
		out = a
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AuditAll audita todos los productos con fila de reporte, cada uno en su propia unidad de
// trabajo para no retener los bloqueos de todas las filas a la vez.
func (uc *TransactionUseCase) AuditAll(ctx context.Context) ([]dto.LedgerAuditDTO, error) {
	var ids []int64
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		var err error
		ids, err = uow.Reports.ListProductIDs(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerAuditDTO, 0, len(ids))
	for _, id := range ids {
		a, err := uc.AuditProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, nil
}

// auditProduct bloquea la fila del reporte como lo hace cada movimiento antes de sumar el libro.
// Sin el bloqueo, bajo READ COMMITTED, un commit entre ambas lecturas daría un drift falso.
func auditProduct(ctx context.Context, uow *UnitOfWork, productID int64) (*dto.LedgerAuditDTO, error) {
	report, err := uow.Reports.GetProductReportForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: reporte del producto %d", domain.ErrNotFound, productID)
	}
	ledger := newStockLedger(uow.Movements, report.UpdatedAt)
	balance, err := ledger.Balance(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerAuditDTO{
		ProductID:   productID,
		ReportStock: report.Stock,
		LedgerStock: balance,
		Drift:       report.Stock - balance,
	}, nil
}
