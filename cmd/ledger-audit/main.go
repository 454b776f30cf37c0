// Comando ledger-audit compara ProductReport.stock con el libro de movimientos.
// Sale con código 1 si algún producto tiene drift, 2 ante errores.
//
//	ledger-audit              # todos los productos
//	ledger-audit -product 42  # un producto
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-transacciones/pkg/config"
	"github.com/jhoicas/inventario-transacciones/pkg/logger"
)

func main() {
	productID := flag.Int64("product", 0, "ID del producto a auditar (0 = todos)")
	timeout := flag.Duration("timeout", time.Minute, "tiempo máximo de la auditoría")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.NewWithWriter(os.Stdout, cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		os.Exit(2)
	}
	defer pool.Close()

	uc := transaction.NewTransactionUseCase(postgres.NewTxRunner(pool), nil, log, transaction.Config{})

	var results []dto.LedgerAuditDTO
	if *productID > 0 {
		a, err := uc.AuditProduct(ctx, *productID)
		if err != nil {
			log.Error().Err(err).Int64("product_id", *productID).Msg("auditoría fallida")
			os.Exit(2)
		}
		results = append(results, *a)
	} else {
		results, err = uc.AuditAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("auditoría fallida")
			os.Exit(2)
		}
	}

	drifted := 0
	for _, a := range results {
		if a.Drift == 0 {
			continue
		}
		drifted++
		log.Warn().
			Int64("product_id", a.ProductID).
			Int("report_stock", a.ReportStock).
			Int("ledger_stock", a.LedgerStock).
			Int("drift", a.Drift).
			Msg("stock inconsistente con el libro")
	}
	log.Info().Int("products", len(results)).Int("drifted", drifted).Msg("auditoría terminada")
	if drifted > 0 {
		pool.Close()
		os.Exit(1)
	}
}
