package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/jhoicas/inventario-transacciones/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName         = "github.com/jhoicas/inventario-transacciones/transaction"
	defaultUnitTimeout = 10 * time.Second
	notifyTimeout      = 3 * time.Second
)

// Config parámetros del motor. Un valor cero (o negativo) toma el default; pkg/config
// rechaza esos valores antes de llegar aquí.
type Config struct {
	LowStockThreshold  int
	UnitTimeout        time.Duration // plazo máximo de cada unidad de trabajo
	RollbackCostSource CostSource
}

// TransactionUseCase aplica y revierte transacciones SALE/PURCHASE/RETURN/DAMAGE manteniendo
// consistentes el libro de movimientos, los reportes por producto y sucursal y la transacción.
type TransactionUseCase struct {
	txRunner TxRunner
	notifier Notifier
	log      *logger.Logger
	cfg      Config
	tracer   trace.Tracer
	now      func() time.Time
}

// NewTransactionUseCase construye el caso de uso. Los valores cero de cfg toman los defaults.
func NewTransactionUseCase(txRunner TxRunner, notifier Notifier, log *logger.Logger, cfg Config) *TransactionUseCase {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = DefaultLowStockThreshold
	}
	if cfg.UnitTimeout <= 0 {
		cfg.UnitTimeout = defaultUnitTimeout
	}
	if cfg.RollbackCostSource != CostSourceCurrent {
		cfg.RollbackCostSource = CostSourceSnapshot
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TransactionUseCase{
		txRunner: txRunner,
		notifier: notifier,
		log:      log,
		cfg:      cfg,
		tracer:   otel.Tracer(tracerName),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ApplyTransaction valida el payload, aplica el algoritmo del tipo dentro de una sola unidad
// de trabajo y, tras el commit, despacha las alertas de stock bajo.
func (uc *TransactionUseCase) ApplyTransaction(ctx context.Context, in dto.ApplyTransactionRequest) (*entity.Transaction, error) {
	txType, err := entity.ParseTransactionType(in.Type)
	if err != nil {
		return nil, err
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	opID := uuid.NewString()
	ctx, span := uc.tracer.Start(ctx, "transaction.apply", trace.WithAttributes(
		attribute.String("operation.id", opID),
		attribute.String("transaction.type", string(txType)),
		attribute.Int64("branch.id", in.BranchID),
		attribute.Int("items", len(in.Items)),
	))
	defer span.End()

	unitCtx, cancel := context.WithTimeout(ctx, uc.cfg.UnitTimeout)
	defer cancel()

	var (
		result *entity.Transaction
		alerts []Notification
	)
	err = uc.txRunner.Run(unitCtx, func(uow *UnitOfWork) error {
		branch, err := uow.Branches.GetByID(unitCtx, in.BranchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return fmt.Errorf("%w: sucursal %d", domain.ErrNotFound, in.BranchID)
		}
		s := uc.newScope(uow, branch)
		switch txType {
		case entity.TransactionTypeSale:
			result, err = s.applySale(unitCtx, in.Items)
		case entity.TransactionTypePurchase:
			result, err = s.applyPurchase(unitCtx, in.Items)
		case entity.TransactionTypeReturn:
			result, err = s.applyReturn(unitCtx, in.Items)
		case entity.TransactionTypeDamage:
			result, err = s.applyDamage(unitCtx, in.Items)
		default:
			err = domain.ErrInvalidTransactionType
		}
		if err != nil {
			return err
		}
		alerts = s.alerts
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.log.Warn().Err(err).
			Str("operation_id", opID).
			Str("type", string(txType)).
			Int64("branch_id", in.BranchID).
			Msg("transacción no aplicada")
		return nil, err
	}

	uc.dispatch(ctx, opID, alerts)
	span.SetAttributes(attribute.Int64("transaction.id", result.ID))
	uc.log.Info().
		Str("operation_id", opID).
		Int64("transaction_id", result.ID).
		Str("type", string(result.Type)).
		Int64("branch_id", result.BranchID).
		Str("total_amount", result.TotalAmount.String()).
		Msg("transacción aplicada")
	return result, nil
}

// RollbackTransaction revierte una transacción aplicada y la elimina. Devuelve su último
// estado conocido (con ítems). Una segunda llamada sobre el mismo ID falla con NotFound.
func (uc *TransactionUseCase) RollbackTransaction(ctx context.Context, in dto.RollbackTransactionRequest) (*entity.Transaction, error) {
	var requested entity.TransactionType
	if in.Type != "" {
		t, err := entity.ParseTransactionType(in.Type)
		if err != nil {
			return nil, err
		}
		requested = t
	}

	opID := uuid.NewString()
	ctx, span := uc.tracer.Start(ctx, "transaction.rollback", trace.WithAttributes(
		attribute.String("operation.id", opID),
		attribute.Int64("transaction.id", in.TransactionID),
	))
	defer span.End()

	unitCtx, cancel := context.WithTimeout(ctx, uc.cfg.UnitTimeout)
	defer cancel()

	var (
		result *entity.Transaction
		alerts []Notification
	)
	err := uc.txRunner.Run(unitCtx, func(uow *UnitOfWork) error {
		tx, err := uow.Transactions.GetForUpdate(unitCtx, in.TransactionID)
		if err != nil {
			return err
		}
		if tx == nil {
			return fmt.Errorf("%w: transacción %d", domain.ErrNotFound, in.TransactionID)
		}
		items, err := uow.Transactions.ListItems(unitCtx, tx.ID)
		if err != nil {
			return err
		}
		tx.Items = items

		kind := tx.Type
		if requested != "" {
			kind = requested
		}
		var undo compensator
		switch kind {
		case entity.TransactionTypeSale:
			undo = undoSale
		case entity.TransactionTypePurchase:
			undo = undoPurchase
		case entity.TransactionTypeReturn:
			undo = undoReturn
		case entity.TransactionTypeDamage:
			undo = undoDamage
		default:
			return domain.ErrInvalidTransactionType
		}
		if err := checkTransactionType(tx, kind); err != nil {
			return err
		}
		if err := checkItems(items); err != nil {
			return err
		}

		branch, err := uow.Branches.GetByID(unitCtx, tx.BranchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return fmt.Errorf("%w: sucursal %d", domain.ErrNotFound, tx.BranchID)
		}
		s := uc.newScope(uow, branch)
		if err := s.rollback(unitCtx, tx, items, undo); err != nil {
			return err
		}
		result = tx
		alerts = s.alerts
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.log.Warn().Err(err).
			Str("operation_id", opID).
			Int64("transaction_id", in.TransactionID).
			Msg("reversión fallida")
		return nil, err
	}

	uc.dispatch(ctx, opID, alerts)
	uc.log.Info().
		Str("operation_id", opID).
		Int64("transaction_id", result.ID).
		Str("type", string(result.Type)).
		Str("cost_source", string(uc.cfg.RollbackCostSource)).
		Msg("transacción revertida")
	return result, nil
}

// dispatch envía las alertas fuera de la unidad de trabajo; los errores solo se registran.
func (uc *TransactionUseCase) dispatch(ctx context.Context, opID string, alerts []Notification) {
	if uc.notifier == nil || len(alerts) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	for _, n := range alerts {
		if err := uc.notifier.Notify(ctx, n); err != nil {
			uc.log.Error().Err(err).
				Str("operation_id", opID).
				Str("kind", string(n.Kind)).
				Str("product", n.ProductName).
				Msg("no se pudo enviar la notificación")
		}
	}
}
