package transaction

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	defaultMovementsLimit = 50
	maxMovementsLimit     = 200
)

// GetProductReport devuelve el agregado del producto o NotFound si no tiene fila.
func (uc *TransactionUseCase) GetProductReport(ctx context.Context, productID int64) (*dto.ProductReportDTO, error) {
	var out *dto.ProductReportDTO
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		rep, err := uow.Reports.GetProductReport(ctx, productID)
		if err != nil {
			return err
		}
		if rep == nil {
			return fmt.Errorf("%w: reporte del producto %d", domain.ErrNotFound, productID)
		}
		out = &dto.ProductReportDTO{ProductID: rep.ProductID, Stock: rep.Stock, Sales: rep.Sales, Profit: rep.Profit}
		return nil
	})
	return out, err
}

// GetBranchReport devuelve el agregado de la sucursal; en cero si aún no tuvo movimientos financieros.
func (uc *TransactionUseCase) GetBranchReport(ctx context.Context, branchID int64) (*dto.BranchReportDTO, error) {
	var out *dto.BranchReportDTO
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		branch, err := uow.Branches.GetByID(ctx, branchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return fmt.Errorf("%w: sucursal %d", domain.ErrNotFound, branchID)
		}
		out = &dto.BranchReportDTO{BranchID: branch.ID, BranchName: branch.Name, Sales: decimal.Zero, Profit: decimal.Zero}
		rep, err := uow.Reports.GetBranchReport(ctx, branchID)
		if err != nil {
			return err
		}
		if rep != nil {
			out.Sales, out.Profit = rep.Sales, rep.Profit
		}
		return nil
	})
	return out, err
}

// ListMovements pagina el libro de un producto, los más recientes primero.
func (uc *TransactionUseCase) ListMovements(ctx context.Context, productID int64, limit, offset int) ([]dto.StockMovementDTO, error) {
	if limit <= 0 {
		limit = defaultMovementsLimit
	}
	if limit > maxMovementsLimit {
		limit = maxMovementsLimit
	}
	if offset < 0 {
		offset = 0
	}
	var out []dto.StockMovementDTO
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		list, err := uow.Movements.ListByProduct(ctx, productID, limit, offset)
		if err != nil {
			return err
		}
		out = make([]dto.StockMovementDTO, 0, len(list))
		for _, m := range list {
			out = append(out, dto.StockMovementDTO{
				ID:             m.ID,
				ProductID:      m.ProductID,
				MovementType:   string(m.Type),
				MovementReason: string(m.Reason),
				Quantity:       m.Quantity,
				OldValue:       m.OldValue,
				NewValue:       m.NewValue,
				CreatedAt:      m.CreatedAt,
			})
		}
		return nil
	})
	return out, err
}
