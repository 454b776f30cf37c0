// Package memory implementa los puertos del motor en memoria, con una unidad de trabajo
// copy-on-write: cada Run trabaja sobre una copia del estado y solo la publica si fn termina sin error.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/inventario-transacciones/internal/application/transaction"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
)

var _ transaction.TxRunner = (*Store)(nil)

type state struct {
	products       map[int64]entity.Product
	branches       map[int64]entity.Branch
	transactions   map[int64]entity.Transaction
	items          map[int64][]entity.TransactionItem // por transactionID
	movements      []entity.StockMovement
	productReports map[int64]entity.ProductReport
	branchReports  map[int64]entity.BranchReport

	nextTransactionID int64
	nextItemID        int64
	nextMovementID    int64
}

func newState() *state {
	return &state{
		products:       map[int64]entity.Product{},
		branches:       map[int64]entity.Branch{},
		transactions:   map[int64]entity.Transaction{},
		items:          map[int64][]entity.TransactionItem{},
		productReports: map[int64]entity.ProductReport{},
		branchReports:  map[int64]entity.BranchReport{},
	}
}

func (s *state) clone() *state {
	c := &state{
		products:          make(map[int64]entity.Product, len(s.products)),
		branches:          make(map[int64]entity.Branch, len(s.branches)),
		transactions:      make(map[int64]entity.Transaction, len(s.transactions)),
		items:             make(map[int64][]entity.TransactionItem, len(s.items)),
		movements:         append([]entity.StockMovement(nil), s.movements...),
		productReports:    make(map[int64]entity.ProductReport, len(s.productReports)),
		branchReports:     make(map[int64]entity.BranchReport, len(s.branchReports)),
		nextTransactionID: s.nextTransactionID,
		nextItemID:        s.nextItemID,
		nextMovementID:    s.nextMovementID,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.branches {
		c.branches[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.TransactionItem(nil), v...)
	}
	for k, v := range s.productReports {
		c.productReports[k] = v
	}
	for k, v := range s.branchReports {
		c.branchReports[k] = v
	}
	return c
}

// Store almacén en memoria. Las unidades de trabajo se serializan con mu.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado; la copia reemplaza al estado solo si fn
// devuelve nil y ctx sigue vigente.
func (s *Store) Run(ctx context.Context, fn func(uow *transaction.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	uow := &transaction.UnitOfWork{
		Products:     &productRepo{st: work},
		Branches:     &branchRepo{st: work},
		Transactions: &transactionRepo{st: work},
		Movements:    &movementRepo{st: work},
		Reports:      &reportRepo{st: work},
	}
	if err := fn(uow); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// AddBranch registra una sucursal (el CRUD real vive fuera del motor).
func (s *Store) AddBranch(b entity.Branch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.branches[b.ID] = b
}

// RemoveBranch elimina una sucursal sin tocar sus transacciones ni su reporte.
func (s *Store) RemoveBranch(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.st.branches, id)
}

// AddProduct registra un producto con su fila de reporte. Si openingStock > 0 se agrega
// un movimiento IN de apertura para que el libro y el reporte coincidan.
func (s *Store) AddProduct(p entity.Product, openingStock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
	s.st.productReports[p.ID] = entity.ProductReport{ProductID: p.ID, Stock: openingStock}
	if openingStock > 0 {
		s.st.nextMovementID++
		s.st.movements = append(s.st.movements, entity.StockMovement{
			ID:        s.st.nextMovementID,
			ProductID: p.ID,
			Type:      entity.MovementTypeIn,
			Reason:    entity.TransactionTypePurchase,
			Quantity:  openingStock,
			OldValue:  0,
			NewValue:  openingStock,
		})
	}
}

// AddProductWithoutReport registra un producto sin fila de reporte.
func (s *Store) AddProductWithoutReport(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// UpdateProduct reemplaza los datos de catálogo de un producto existente.
func (s *Store) UpdateProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// Snapshot copia de las tablas que escribe el motor, para comparar estados completos.
type Snapshot struct {
	Transactions   map[int64]entity.Transaction
	Items          map[int64][]entity.TransactionItem
	Movements      []entity.StockMovement
	ProductReports map[int64]entity.ProductReport
	BranchReports  map[int64]entity.BranchReport
}

// Snapshot devuelve una copia del estado actual.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.st.clone()
	return Snapshot{
		Transactions:   c.transactions,
		Items:          c.items,
		Movements:      c.movements,
		ProductReports: c.productReports,
		BranchReports:  c.branchReports,
	}
}

// MovementsByProduct devuelve los movimientos de un producto en orden de inserción.
func (snap Snapshot) MovementsByProduct(productID int64) []entity.StockMovement {
	var out []entity.StockMovement
	for _, m := range snap.Movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
