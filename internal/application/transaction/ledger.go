package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/jhoicas/inventario-transacciones/internal/domain/repository"
)

// stockLedger agrega movimientos inmutables al libro de stock.
type stockLedger struct {
	movements repository.StockMovementRepository
	now       time.Time
}

func newStockLedger(movements repository.StockMovementRepository, now time.Time) *stockLedger {
	return &stockLedger{movements: movements, now: now}
}

// RecordMovement agrega una fila. oldValue es el stock antes de la aplicación lógica y
// newValue el de después; el contador se actualiza aparte, en reportMaintainer.
func (l *stockLedger) RecordMovement(
	ctx context.Context,
	productID int64,
	movementType entity.MovementType,
	reason entity.TransactionType,
	qty, oldValue, newValue int,
) (*entity.StockMovement, error) {
	mov := &entity.StockMovement{
		ProductID: productID,
		Type:      movementType,
		Reason:    reason,
		Quantity:  qty,
		OldValue:  oldValue,
		NewValue:  newValue,
		CreatedAt: l.now,
	}
	if !mov.Consistent() {
		return nil, fmt.Errorf("movimiento inconsistente %s %d: %d -> %d", movementType, qty, oldValue, newValue)
	}
	if err := l.movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Balance devuelve el stock derivado del libro: Σ(IN) − Σ(OUT).
func (l *stockLedger) Balance(ctx context.Context, productID int64) (int, error) {
	in, out, err := l.movements.SumByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return in - out, nil
}
