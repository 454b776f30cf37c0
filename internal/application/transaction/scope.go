package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// scope estado de una sola llamada apply/rollback. Vive lo que vive la unidad de trabajo.
type scope struct {
	uow        *UnitOfWork
	branch     *entity.Branch
	ledger     *stockLedger
	reports    reportMaintainer
	threshold  int
	costSource CostSource
	now        time.Time

	// products cachea productID → producto leído en esta llamada.
	products map[int64]*entity.Product
	// alerts se despachan después del commit.
	alerts []Notification
}

func (uc *TransactionUseCase) newScope(uow *UnitOfWork, branch *entity.Branch) *scope {
	now := uc.now()
	return &scope{
		uow:        uow,
		branch:     branch,
		ledger:     newStockLedger(uow.Movements, now),
		reports:    reportMaintainer{reports: uow.Reports},
		threshold:  uc.cfg.LowStockThreshold,
		costSource: uc.cfg.RollbackCostSource,
		now:        now,
		products:   make(map[int64]*entity.Product),
	}
}

// resolveProduct lee el producto una sola vez por llamada. name se usa en los mensajes
// de error cuando el producto no existe.
func (s *scope) resolveProduct(ctx context.Context, id int64, name string) (*entity.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	if name == "" {
		name = fmt.Sprintf("#%d", id)
	}
	p, err := s.uow.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkProductExistence(name, p); err != nil {
		return nil, err
	}
	s.products[id] = p
	return p, nil
}

// moveStock bloquea la fila del reporte del producto, valida, actualiza el contador y
// agrega el movimiento con el mismo par old/new. Las salidas siempre validan suficiencia.
func (s *scope) moveStock(
	ctx context.Context,
	product *entity.Product,
	movementType entity.MovementType,
	reason entity.TransactionType,
	qty int,
) (*entity.StockMovement, error) {
	report, err := s.uow.Reports.GetProductReportForUpdate(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	current, err := checkStock(product.Name, report)
	if err != nil {
		return nil, err
	}

	var projected int
	switch movementType {
	case entity.MovementTypeOut:
		if err := isThereEnoughStock(product.Name, current, qty); err != nil {
			return nil, err
		}
		projected = current - qty
		s.checkLowStock(product, projected)
		if err := s.reports.DecrementStock(ctx, product.ID, qty); err != nil {
			return nil, err
		}
	case entity.MovementTypeIn:
		if err := checkStockCapacity(product.Name, current, qty); err != nil {
			return nil, err
		}
		projected = current + qty
		if err := s.reports.IncrementStock(ctx, product.ID, qty); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("tipo de movimiento desconocido: %s", movementType)
	}
	return s.ledger.RecordMovement(ctx, product.ID, movementType, reason, qty, current, projected)
}

// checkLowStock encola la alerta si el stock proyectado queda bajo el umbral. No bloquea.
func (s *scope) checkLowStock(product *entity.Product, projected int) {
	if !isLowStock(projected, s.threshold) {
		return
	}
	s.alerts = append(s.alerts, Notification{
		Kind:        NotificationLowStock,
		ProductID:   product.ID,
		ProductName: product.Name,
		BranchName:  s.branch.Name,
		Stock:       projected,
		Threshold:   s.threshold,
	})
}

// applyFinancials aplica el mismo delta a la fila del producto y a la de la sucursal.
func (s *scope) applyFinancials(ctx context.Context, productID int64, sales, profit decimal.Decimal) error {
	if err := s.reports.ApplyProductDelta(ctx, productID, sales, profit); err != nil {
		return err
	}
	return s.reports.ApplyBranchDelta(ctx, s.branch.ID, sales, profit)
}
