package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-transacciones/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TransactionUC   *transaction.TransactionUseCase
	ReportCache     cache.ReportCache
	InvalidateDelay time.Duration // <= 0 desactiva el segundo borrado de la caché
	Logger          *logger.Logger
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	txHandler := NewTransactionHandler(deps.TransactionUC, deps.ReportCache, deps.InvalidateDelay, deps.Logger)
	reportHandler := NewReportHandler(deps.TransactionUC, deps.ReportCache, deps.Logger)

	// Transacciones: cualquier rol autenticado aplica; solo admin revierte.
	transactions := protected.Group("/transactions")
	transactions.Post("/", RequireRole(RoleAdmin, RoleVendedor, RoleBodeguero), txHandler.Apply)
	transactions.Delete("/:id", RequireRole(RoleAdmin), txHandler.Rollback)

	// Reportes (lectura con caché)
	reports := protected.Group("/reports")
	reports.Get("/products/:id", reportHandler.GetProductReport)
	reports.Get("/branches/:id", reportHandler.GetBranchReport)

	// Libro de stock
	ledger := protected.Group("/ledger")
	ledger.Get("/products/:productId/movements", reportHandler.ListMovements)
	ledger.Get("/products/:productId/audit", RequireRole(RoleAdmin), reportHandler.AuditProduct)
}
