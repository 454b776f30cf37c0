package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/notify"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-transacciones/internal/interfaces/http"
	"github.com/jhoicas/inventario-transacciones/pkg/config"
	"github.com/jhoicas/inventario-transacciones/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	// Alertas y caché de reportes: Redis si está configurado, si no log y noop.
	var (
		notifier    transaction.Notifier = notify.NewLogNotifier(log)
		reportCache cache.ReportCache    = cache.NoopReportCache{}
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		notifier = notify.NewRedisNotifier(rdb, cfg.Redis.AlertChannel)
		reportCache = cache.NewRedisReportCache(rdb, cfg.Redis.ReportTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Str("channel", cfg.Redis.AlertChannel).Msg("redis habilitado")
	}

	txRunner := postgres.NewTxRunner(pool)
	transactionUC := transaction.NewTransactionUseCase(txRunner, notifier, log, transaction.Config{
		LowStockThreshold:  cfg.Engine.LowStockThreshold,
		UnitTimeout:        cfg.Engine.UnitTimeout,
		RollbackCostSource: transaction.CostSource(cfg.Engine.RollbackCostSource),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Engine.UnitTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Transacciones API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		TransactionUC:   transactionUC,
		ReportCache:     reportCache,
		InvalidateDelay: cfg.Redis.InvalidateDelay,
		Logger:          log,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
