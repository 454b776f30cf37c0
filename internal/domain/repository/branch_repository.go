package repository

import (
	"context"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
)

// BranchRepository define el puerto de lectura de sucursales.
type BranchRepository interface {
	// GetByID devuelve (nil, nil) si la sucursal no existe.
	GetByID(ctx context.Context, id int64) (*entity.Branch, error)
}
