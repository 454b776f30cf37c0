package entity

import "time"

// Branch representa una sucursal; solo se lee para validar existencia y para nombrarla en alertas.
type Branch struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
