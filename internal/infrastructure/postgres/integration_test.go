package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/jhoicas/inventario-transacciones/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-transacciones/pkg/config"
)

// Requiere una base PostgreSQL desechable: TEST_DATABASE_URL=postgres://... go test ./...
func openPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

// seed crea una sucursal y un producto con stock inicial y su movimiento de apertura.
func seed(t *testing.T, pool *pgxpool.Pool, stock int) (branchID, productID int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO branches (name) VALUES ('Centro') RETURNING id`).Scan(&branchID))
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO products (name, selling_price, cost_per_unit) VALUES ('Camisa', 50, 30) RETURNING id`).Scan(&productID))
	_, err := pool.Exec(ctx,
		`INSERT INTO product_reports (product_id, stock) VALUES ($1, $2)`, productID, stock)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO stock_movements (product_id, movement_type, movement_reason, quantity, old_value, new_value)
		VALUES ($1, 'IN', 'PURCHASE', $2, 0, $2)`, productID, stock)
	require.NoError(t, err)
	return branchID, productID
}

func TestPostgres_ApplyAndRollbackSale(t *testing.T) {
	pool := openPool(t)
	branchID, productID := seed(t, pool, 100)
	uc := transaction.NewTransactionUseCase(postgres.NewTxRunner(pool), nil, nil, transaction.Config{})
	ctx := context.Background()

	tx, err := uc.ApplyTransaction(ctx, dto.ApplyTransactionRequest{
		BranchID: branchID,
		Type:     "SALE",
		Items:    []dto.TransactionItemRequest{{ProductID: productID, Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "500", tx.TotalAmount.StringFixed(0))

	audit, err := uc.AuditProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 90, audit.ReportStock)
	assert.Zero(t, audit.Drift)

	_, err = uc.RollbackTransaction(ctx, dto.RollbackTransactionRequest{TransactionID: tx.ID})
	require.NoError(t, err)

	reports := postgres.NewReportRepository(pool)
	rep, err := reports.GetProductReport(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 100, rep.Stock)
	assert.True(t, rep.Sales.IsZero())
	assert.True(t, rep.Profit.IsZero())

	_, err = uc.RollbackTransaction(ctx, dto.RollbackTransactionRequest{TransactionID: tx.ID})
	assert.True(t, domain.IsNotFound(err))
}

func TestPostgres_ConcurrentSalesNeverOversell(t *testing.T) {
	pool := openPool(t)
	branchID, productID := seed(t, pool, 50)
	uc := transaction.NewTransactionUseCase(postgres.NewTxRunner(pool), nil, nil, transaction.Config{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.ApplyTransaction(context.Background(), dto.ApplyTransactionRequest{
				BranchID: branchID,
				Type:     "SALE",
				Items:    []dto.TransactionItemRequest{{ProductID: productID, Quantity: 7}},
			})
		}()
	}
	wg.Wait()

	audit, err := uc.AuditProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 1, audit.ReportStock)
	assert.Zero(t, audit.Drift)
}

func TestReportRepo_ConditionalDecrement(t *testing.T) {
	pool := openPool(t)
	_, productID := seed(t, pool, 3)
	reports := postgres.NewReportRepository(pool)

	err := reports.DecrementProductStock(context.Background(), productID, 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.NoError(t, reports.DecrementProductStock(context.Background(), productID, 3))
}
