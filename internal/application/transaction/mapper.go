package transaction

import (
	"github.com/jhoicas/inventario-transacciones/internal/application/dto"
	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
)

// ToResponse convierte la entidad al DTO de respuesta.
func ToResponse(tx *entity.Transaction) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:          tx.ID,
		BranchID:    tx.BranchID,
		Type:        string(tx.Type),
		TotalAmount: tx.TotalAmount,
		CreatedAt:   tx.CreatedAt,
		Items:       make([]dto.TransactionItemResponse, 0, len(tx.Items)),
	}
	for _, it := range tx.Items {
		resp.Items = append(resp.Items, dto.TransactionItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			Price:           it.Price,
			TransactionType: string(it.TransactionType),
			CreatedAt:       it.CreatedAt,
		})
	}
	return resp
}
