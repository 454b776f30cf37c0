package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
)

var _ transaction.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Si ctx vence, pgx aborta la sentencia en curso y se hace Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(uow *transaction.UnitOfWork) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback con un contexto propio: ctx puede estar vencido justamente por el timeout.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	uow := &transaction.UnitOfWork{
		Products:     NewProductRepository(tx),
		Branches:     NewBranchRepository(tx),
		Transactions: NewTransactionRepository(tx),
		Movements:    NewStockMovementRepository(tx),
		Reports:      NewReportRepository(tx),
	}
	if err := fn(uow); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
