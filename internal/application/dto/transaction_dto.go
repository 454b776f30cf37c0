package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionItemRequest línea del body de POST /api/transactions.
type TransactionItemRequest struct {
	ProductID   int64            `json:"productId"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	Discount    *decimal.Decimal `json:"discount,omitempty"` // solo RETURN
}

// ApplyTransactionRequest body para POST /api/transactions.
type ApplyTransactionRequest struct {
	BranchID int64                    `json:"branchId"`
	Type     string                   `json:"type"` // SALE | PURCHASE | RETURN | DAMAGE
	Items    []TransactionItemRequest `json:"items"`
}

// RollbackTransactionRequest entrada de la reversión. Type es opcional: si viene,
// se usa ese compensador y debe coincidir con el tipo guardado.
type RollbackTransactionRequest struct {
	TransactionID int64  `json:"transactionId"`
	Type          string `json:"type,omitempty"`
}

// TransactionItemResponse línea de una transacción en respuestas.
type TransactionItemResponse struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"productId"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	TransactionType string          `json:"transactionType"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// TransactionResponse transacción aplicada o último estado conocido de una revertida.
type TransactionResponse struct {
	ID          int64                     `json:"id"`
	BranchID    int64                     `json:"branchId"`
	Type        string                    `json:"type"`
	TotalAmount decimal.Decimal           `json:"totalAmount"`
	CreatedAt   time.Time                 `json:"createdAt"`
	Items       []TransactionItemResponse `json:"items"`
}

// LedgerAuditDTO compara el stock del reporte con el stock derivado del libro de movimientos.
type LedgerAuditDTO struct {
	ProductID   int64 `json:"productId"`
	ReportStock int   `json:"reportStock"`
	LedgerStock int   `json:"ledgerStock"`
	Drift       int   `json:"drift"` // ReportStock - LedgerStock
}

// ProductReportDTO agregado por producto.
type ProductReportDTO struct {
	ProductID int64           `json:"productId"`
	Stock     int             `json:"stock"`
	Sales     decimal.Decimal `json:"sales"`
	Profit    decimal.Decimal `json:"profit"`
}

// BranchReportDTO agregado por sucursal.
type BranchReportDTO struct {
	BranchID   int64           `json:"branchId"`
	BranchName string          `json:"branchName"`
	Sales      decimal.Decimal `json:"sales"`
	Profit     decimal.Decimal `json:"profit"`
}

// StockMovementDTO entrada del libro de movimientos.
type StockMovementDTO struct {
	ID             int64     `json:"id"`
	ProductID      int64     `json:"productId"`
	MovementType   string    `json:"movementType"`
	MovementReason string    `json:"movementReason"`
	Quantity       int       `json:"quantity"`
	OldValue       int       `json:"oldValue"`
	NewValue       int       `json:"newValue"`
	CreatedAt      time.Time `json:"createdAt"`
}
