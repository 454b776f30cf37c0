package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-transacciones/pkg/logger"
)

// ReportHandler lecturas de reportes y del libro de movimientos (protegido).
// Los reportes pasan por la caché; las transacciones la invalidan.
type ReportHandler struct {
	uc    *transaction.TransactionUseCase
	cache cache.ReportCache
	log   *logger.Logger
}

// NewReportHandler construye el handler. reportCache nil desactiva la caché.
func NewReportHandler(uc *transaction.TransactionUseCase, reportCache cache.ReportCache, log *logger.Logger) *ReportHandler {
	if reportCache == nil {
		reportCache = cache.NoopReportCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReportHandler{uc: uc, cache: reportCache, log: log}
}

// GetProductReport godoc
// @Summary      Reporte de producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductReportDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/products/{id} [get]
func (h *ReportHandler) GetProductReport(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de producto inválido"})
	}
	key := cache.ProductReportKey(id)
	var out dto.ProductReportDTO
	if h.cached(c, key, &out) {
		return c.JSON(out)
	}
	rep, err := h.uc.GetProductReport(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	h.store(c, key, rep)
	return c.JSON(rep)
}

// GetBranchReport godoc
// @Summary      Reporte de sucursal
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la sucursal"
// @Success      200  {object}  dto.BranchReportDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/branches/{id} [get]
func (h *ReportHandler) GetBranchReport(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de sucursal inválido"})
	}
	key := cache.BranchReportKey(id)
	var out dto.BranchReportDTO
	if h.cached(c, key, &out) {
		return c.JSON(out)
	}
	rep, err := h.uc.GetBranchReport(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	h.store(c, key, rep)
	return c.JSON(rep)
}

// ListMovements godoc
// @Summary      Libro de movimientos de un producto
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        productId  path   int  true   "ID del producto"
// @Param        limit      query  int  false  "Máximo 200 (default 50)"
// @Param        offset     query  int  false  "Desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/ledger/products/{productId}/movements [get]
func (h *ReportHandler) ListMovements(c *fiber.Ctx) error {
	id, ok := pathID(c, "productId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de producto inválido"})
	}
	list, err := h.uc.ListMovements(c.Context(), id, c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":     len(list),
		"movements": list,
	})
}

// AuditProduct godoc
// @Summary      Auditar libro de stock
// @Description  Compara el stock del reporte con Σ(IN) − Σ(OUT) de los movimientos.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        productId  path  int  true  "ID del producto"
// @Success      200  {object}  dto.LedgerAuditDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/products/{productId}/audit [get]
func (h *ReportHandler) AuditProduct(c *fiber.Ctx) error {
	id, ok := pathID(c, "productId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de producto inválido"})
	}
	out, err := h.uc.AuditProduct(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// cached intenta leer de la caché; un error de caché se registra y se trata como fallo de lectura.
func (h *ReportHandler) cached(c *fiber.Ctx, key string, dest any) bool {
	hit, err := h.cache.Get(c.Context(), key, dest)
	if err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		return false
	}
	return hit
}

func (h *ReportHandler) store(c *fiber.Ctx, key string, value any) {
	if err := h.cache.Set(c.Context(), key, value); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
	}
}

func pathID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
