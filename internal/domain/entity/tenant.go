package entity

import "time"

// Tenant representa un negocio (restaurante o comercio) aislado del resto.
// Todas las demás entidades llevan su referencia; ninguna consulta debe cruzar tenants.
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
