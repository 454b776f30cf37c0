package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/jhoicas/inventario-transacciones/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación de ReportRepository sobre PostgreSQL (usable con pool o tx).
// Todas las escrituras son UPDATE relativos: nunca se lee-modifica-escribe en memoria.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

const selectProductReport = `
	SELECT product_id, stock, sales, profit, updated_at
	FROM product_reports WHERE product_id = $1`

func (r *ReportRepo) scanProductReport(ctx context.Context, query string, productID int64) (*entity.ProductReport, error) {
	var rep entity.ProductReport
	err := r.q.QueryRow(ctx, query, productID).Scan(
		&rep.ProductID, &rep.Stock, &rep.Sales, &rep.Profit, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product report: %w", err)
	}
	return &rep, nil
}

// GetProductReport obtiene la fila de reporte del producto.
func (r *ReportRepo) GetProductReport(ctx context.Context, productID int64) (*entity.ProductReport, error) {
	return r.scanProductReport(ctx, selectProductReport, productID)
}

// GetProductReportForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *ReportRepo) GetProductReportForUpdate(ctx context.Context, productID int64) (*entity.ProductReport, error) {
	return r.scanProductReport(ctx, selectProductReport+` FOR UPDATE`, productID)
}

// IncrementProductStock suma qty al stock.
func (r *ReportRepo) IncrementProductStock(ctx context.Context, productID int64, qty int) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE product_reports SET stock = stock + $2, updated_at = now()
		WHERE product_id = $1`, productID, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reporte del producto %d", domain.ErrNotFound, productID)
	}
	return nil
}

// DecrementProductStock resta qty solo si alcanza (UPDATE condicional); 0 filas = stock insuficiente.
func (r *ReportRepo) DecrementProductStock(ctx context.Context, productID int64, qty int) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE product_reports SET stock = stock - $2, updated_at = now()
		WHERE product_id = $1 AND stock >= $2`, productID, qty)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: producto %d", domain.ErrInsufficientStock, productID)
		}
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrInsufficientStock, productID)
	}
	return nil
}

// AddProductFinancials suma deltas con signo a ventas y utilidad del producto.
func (r *ReportRepo) AddProductFinancials(ctx context.Context, productID int64, salesDelta, profitDelta decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE product_reports SET sales = sales + $2, profit = profit + $3, updated_at = now()
		WHERE product_id = $1`, productID, salesDelta, profitDelta)
	if err != nil {
		return fmt.Errorf("update product report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reporte del producto %d", domain.ErrNotFound, productID)
	}
	return nil
}

// GetBranchReport obtiene la fila de reporte de la sucursal.
func (r *ReportRepo) GetBranchReport(ctx context.Context, branchID int64) (*entity.BranchReport, error) {
	var rep entity.BranchReport
	err := r.q.QueryRow(ctx, `
		SELECT branch_id, sales, profit, updated_at
		FROM branch_reports WHERE branch_id = $1`, branchID).Scan(
		&rep.BranchID, &rep.Sales, &rep.Profit, &rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch report: %w", err)
	}
	return &rep, nil
}

// AddBranchFinancials suma deltas a la sucursal; inserta la fila en el primer delta (upsert).
func (r *ReportRepo) AddBranchFinancials(ctx context.Context, branchID int64, salesDelta, profitDelta decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO branch_reports (branch_id, sales, profit, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (branch_id)
		DO UPDATE SET sales = branch_reports.sales + EXCLUDED.sales,
		              profit = branch_reports.profit + EXCLUDED.profit,
		              updated_at = now()`, branchID, salesDelta, profitDelta)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: sucursal %d", domain.ErrNotFound, branchID)
		}
		return fmt.Errorf("upsert branch report: %w", err)
	}
	return nil
}

// ListProductIDs lista los productos con fila de reporte.
func (r *ReportRepo) ListProductIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT product_id FROM product_reports ORDER BY product_id`)
	if err != nil {
		return nil, fmt.Errorf("list product reports: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan product report id: %w", err)
	}
	return ids, nil
}
