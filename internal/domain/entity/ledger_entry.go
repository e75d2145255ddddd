package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLedgerEntry es el registro inmutable del efecto de una línea de movimiento,
// incluyendo la foto del saldo corriente (cantidad, valor y costo promedio) tras aplicarla.
// Solo se inserta; nunca se actualiza ni se borra. El orden de creación es la pista de auditoría.
type InventoryLedgerEntry struct {
	ID              string
	TenantID        string
	MovementID      string
	LineID          string
	VariantID       string
	WarehouseID     string
	QuantityDelta   decimal.Decimal
	ValueDelta      decimal.Decimal
	RunningQuantity decimal.Decimal
	RunningValue    decimal.Decimal
	AverageCost     decimal.Decimal
	ReferenceType   string
	ReferenceID     string
	Note            string
	CreatedAt       time.Time
}
