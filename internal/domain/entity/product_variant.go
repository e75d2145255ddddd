package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant representa una variante vendible/almacenable de un producto (SKU).
// Identidad inmutable; los atributos descriptivos pueden cambiar.
type ProductVariant struct {
	ID        string
	TenantID  string
	SKU       string
	Name      string
	UnitName  string // unidad de medida legible ("und", "kg", "lt")
	Price     decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje (19 = 19%)
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
