package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-transacciones/internal/domain"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
	"github.com/jhoicas/inventario-transacciones/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.BranchRepository        = (*branchRepo)(nil)
	_ repository.TransactionRepository   = (*transactionRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.ReportRepository        = (*reportRepo)(nil)
)

type productRepo struct{ st *state }

func (r *productRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type branchRepo struct{ st *state }

func (r *branchRepo) GetByID(ctx context.Context, id int64) (*entity.Branch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, ok := r.st.branches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

type transactionRepo struct{ st *state }

func (r *transactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.st.nextTransactionID++
	tx.ID = r.st.nextTransactionID
	row := *tx
	row.Items = nil
	r.st.transactions[tx.ID] = row
	return nil
}

func (r *transactionRepo) CreateItem(ctx context.Context, item *entity.TransactionItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := r.st.transactions[item.TransactionID]; !ok {
		return fmt.Errorf("%w: transacción %d", domain.ErrNotFound, item.TransactionID)
	}
	r.st.nextItemID++
	item.ID = r.st.nextItemID
	r.st.items[item.TransactionID] = append(r.st.items[item.TransactionID], *item)
	return nil
}

func (r *transactionRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, ok := r.st.transactions[id]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (r *transactionRepo) ListItems(ctx context.Context, transactionID int64) ([]*entity.TransactionItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := r.st.items[transactionID]
	out := make([]*entity.TransactionItem, 0, len(rows))
	for i := range rows {
		it := rows[i]
		out = append(out, &it)
	}
	return out, nil
}

func (r *transactionRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := r.st.transactions[id]; !ok {
		return fmt.Errorf("%w: transacción %d", domain.ErrNotFound, id)
	}
	delete(r.st.transactions, id)
	delete(r.st.items, id)
	return nil
}

type movementRepo struct{ st *state }

func (r *movementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.st.nextMovementID++
	m.ID = r.st.nextMovementID
	r.st.movements = append(r.st.movements, *m)
	return nil
}

// ListByProduct devuelve los movimientos más recientes primero.
func (r *movementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*entity.StockMovement
	skipped := 0
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		m := r.st.movements[i]
		if m.ProductID != productID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, &m)
	}
	return out, nil
}

func (r *movementRepo) SumByProduct(ctx context.Context, productID int64) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	in, out := 0, 0
	for _, m := range r.st.movements {
		if m.ProductID != productID {
			continue
		}
		switch m.Type {
		case entity.MovementTypeIn:
			in += m.Quantity
		case entity.MovementTypeOut:
			out += m.Quantity
		}
	}
	return in, out, nil
}

type reportRepo struct{ st *state }

func (r *reportRepo) GetProductReport(ctx context.Context, productID int64) (*entity.ProductReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rep, ok := r.st.productReports[productID]
	if !ok {
		return nil, nil
	}
	return &rep, nil
}

// GetProductReportForUpdate no necesita bloqueo propio: Store.Run ya serializa las unidades de trabajo.
func (r *reportRepo) GetProductReportForUpdate(ctx context.Context, productID int64) (*entity.ProductReport, error) {
	return r.GetProductReport(ctx, productID)
}

func (r *reportRepo) IncrementProductStock(ctx context.Context, productID int64, qty int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rep, ok := r.st.productReports[productID]
	if !ok {
		return fmt.Errorf("%w: reporte del producto %d", domain.ErrNotFound, productID)
	}
	rep.Stock += qty
	r.st.productReports[productID] = rep
	return nil
}

func (r *reportRepo) DecrementProductStock(ctx context.Context, productID int64, qty int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rep, ok := r.st.productReports[productID]
	if !ok {
		return fmt.Errorf("%w: reporte del producto %d", domain.ErrNotFound, productID)
	}
	if rep.Stock < qty {
		return fmt.Errorf("%w: producto %d", domain.ErrInsufficientStock, productID)
	}
	rep.Stock -= qty
	r.st.productReports[productID] = rep
	return nil
}

func (r *reportRepo) AddProductFinancials(ctx context.Context, productID int64, salesDelta, profitDelta decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rep, ok := r.st.productReports[productID]
	if !ok {
		return fmt.Errorf("%w: reporte del producto %d", domain.ErrNotFound, productID)
	}
	rep.Sales = rep.Sales.Add(salesDelta)
	rep.Profit = rep.Profit.Add(profitDelta)
	r.st.productReports[productID] = rep
	return nil
}

func (r *reportRepo) GetBranchReport(ctx context.Context, branchID int64) (*entity.BranchReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rep, ok := r.st.branchReports[branchID]
	if !ok {
		return nil, nil
	}
	return &rep, nil
}

func (r *reportRepo) AddBranchFinancials(ctx context.Context, branchID int64, salesDelta, profitDelta decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rep, ok := r.st.branchReports[branchID]
	if !ok {
		rep = entity.BranchReport{BranchID: branchID}
	}
	rep.Sales = rep.Sales.Add(salesDelta)
	rep.Profit = rep.Profit.Add(profitDelta)
	r.st.branchReports[branchID] = rep
	return nil
}

func (r *reportRepo) ListProductIDs(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sortedKeys(r.st.productReports), nil
}
