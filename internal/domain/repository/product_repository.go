package repository

import (
	"context"

	"github.com/jhoicas/inventario-transacciones/internal/domain/entity"
)

// ProductRepository define el puerto de lectura de productos (el CRUD vive fuera del motor).
type ProductRepository interface {
	// GetByID devuelve (nil, nil) si el producto no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
}
