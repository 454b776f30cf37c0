package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-transacciones/pkg/logger"
)

const invalidateTimeout = 3 * time.Second

// TransactionHandler maneja apply/rollback de transacciones de inventario (protegido).
type TransactionHandler struct {
	uc              *transaction.TransactionUseCase
	cache           cache.ReportCache
	invalidateDelay time.Duration
	log             *logger.Logger
}

// NewTransactionHandler construye el handler. reportCache nil equivale a no invalidar.
// invalidateDelay > 0 programa un segundo borrado de las claves tras cada escritura.
func NewTransactionHandler(uc *transaction.TransactionUseCase, reportCache cache.ReportCache, invalidateDelay time.Duration, log *logger.Logger) *TransactionHandler {
	if reportCache == nil {
		reportCache = cache.NoopReportCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TransactionHandler{uc: uc, cache: reportCache, invalidateDelay: invalidateDelay, log: log}
}

// Apply godoc
// @Summary      Aplicar transacción de inventario
// @Description  SALE, PURCHASE, RETURN o DAMAGE. Todo o nada: stock, libro de movimientos y reportes.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyTransactionRequest  true  "branchId, type, items"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      504   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	userID := GetUserID(c)
	tx, err := h.uc.ApplyTransaction(c.Context(), in)
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Str("type", in.Type).Int64("branch_id", in.BranchID).Msg("apply rechazado")
		return writeError(c, err)
	}
	h.log.Info().Str("user_id", userID).Int64("transaction_id", tx.ID).Str("type", string(tx.Type)).Msg("transacción registrada")
	h.invalidate(c.Context(), tx)
	return c.Status(fiber.StatusCreated).JSON(transaction.ToResponse(tx))
}

// Rollback godoc
// @Summary      Revertir transacción
// @Description  Deshace los efectos de la transacción y la elimina. type es opcional y debe coincidir con el guardado.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id    path   int     true   "ID de la transacción"
// @Param        type  query  string  false  "SALE | PURCHASE | RETURN | DAMAGE"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Rollback(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de transacción inválido"})
	}
	userID := GetUserID(c)
	tx, err := h.uc.RollbackTransaction(c.Context(), dto.RollbackTransactionRequest{
		TransactionID: id,
		Type:          c.Query("type"),
	})
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Int64("transaction_id", id).Msg("reversión rechazada")
		return writeError(c, err)
	}
	h.log.Info().Str("user_id", userID).Int64("transaction_id", tx.ID).Str("type", string(tx.Type)).Msg("transacción revertida por usuario")
	h.invalidate(c.Context(), tx)
	return c.JSON(transaction.ToResponse(tx))
}

// invalidate borra la caché de reportes; un fallo no cambia la respuesta. Una lectura que
// consultó la BD antes del commit puede volver a escribir el valor viejo, por eso el borrado
// se repite pasado invalidateDelay.
func (h *TransactionHandler) invalidate(ctx context.Context, tx *entity.Transaction) {
	productIDs := make([]int64, 0, len(tx.Items))
	for _, it := range tx.Items {
		productIDs = append(productIDs, it.ProductID)
	}
	h.evict(ctx, tx.ID, tx.BranchID, productIDs)
	if h.invalidateDelay <= 0 {
		return
	}
	time.AfterFunc(h.invalidateDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
		defer cancel()
		h.evict(ctx, tx.ID, tx.BranchID, productIDs)
	})
}

func (h *TransactionHandler) evict(ctx context.Context, txID, branchID int64, productIDs []int64) {
	if err := h.cache.Invalidate(ctx, branchID, productIDs); err != nil {
		h.log.Warn().Err(err).Int64("transaction_id", txID).Msg("no se pudo invalidar la caché de reportes")
	}
}

// writeError traduce errores de dominio a HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case domain.IsBadRequest(err):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "la operación excedió el tiempo límite"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
