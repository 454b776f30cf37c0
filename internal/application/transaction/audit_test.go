package transaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/jhoicas/inventario-transacciones/internal/domain/repository"
)

// lockingReports registra qué lectura usa la auditoría. Los métodos no sobrescritos
// entran en pánico a través de la interfaz nil embebida.
type lockingReports struct {
	repository.ReportRepository
	report      *entity.ProductReport
	lockedReads int
	plainReads  int
}

func (r *lockingReports) GetProductReportForUpdate(_ context.Context, _ int64) (*entity.ProductReport, error) {
	r.lockedReads++
	return r.report, nil
}

func (r *lockingReports) GetProductReport(_ context.Context, _ int64) (*entity.ProductReport, error) {
	r.plainReads++
	return r.report, nil
}

func TestAuditProduct_LocksReportRowBeforeSummingLedger(t *testing.T) {
	reports := &lockingReports{report: &entity.ProductReport{ProductID: 1, Stock: 80}}
	movements := &memMovements{rows: []*entity.StockMovement{
		{ProductID: 1, Type: entity.MovementTypeIn, Quantity: 100, OldValue: 0, NewValue: 100},
		{ProductID: 1, Type: entity.MovementTypeOut, Quantity: 20, OldValue: 100, NewValue: 80},
	}}
	uow := &UnitOfWork{Reports: reports, Movements: movements}

	got, err := auditProduct(context.Background(), uow, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, reports.lockedReads)
	assert.Zero(t, reports.plainReads)
	assert.Equal(t, 80, got.ReportStock)
	assert.Equal(t, 80, got.LedgerStock)
	assert.Zero(t, got.Drift)
}
