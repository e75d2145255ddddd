package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// IsDefault marca la bodega usada por defecto para consumos de receta del tenant.
type Warehouse struct {
	ID        string
	TenantID  string
	Name      string
	Code      string
	Address   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
