package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem plato del menú; si tiene receta, producirlo consume sus componentes.
type MenuItem struct {
	ID        string
	TenantID  string
	Name      string
	Price     decimal.Decimal
	RecipeID  *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recipe receta de un plato: rinde YieldQuantity unidades con la lista de componentes.
type Recipe struct {
	ID            string
	TenantID      string
	Name          string
	YieldQuantity decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecipeComponent componente de receta: cantidad de un insumo (variante) por rendimiento.
type RecipeComponent struct {
	ID        string
	TenantID  string
	RecipeID  string
	VariantID string
	Quantity  decimal.Decimal
	CreatedAt time.Time
}

// Estados de comanda de cocina.
const (
	KitchenTicketStatusOpen   = "OPEN"
	KitchenTicketStatusDone   = "DONE"
	KitchenTicketStatusVoided = "VOIDED"
)

// KitchenTicket comanda enviada a cocina.
type KitchenTicket struct {
	ID        string
	TenantID  string
	Reference string
	Status    string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KitchenTicketLine línea de comanda: plato y cantidad producida.
type KitchenTicketLine struct {
	ID         string
	TenantID   string
	TicketID   string
	MenuItemID string
	Quantity   decimal.Decimal
	Notes      string
	CreatedAt  time.Time
}
