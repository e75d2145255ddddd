package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryBalance es el saldo vivo de una variante en una bodega dentro de un tenant.
// Una fila por tripleta (tenant, variante, bodega); se crea perezosamente en el primer
// movimiento y solo la muta el motor de inventario bajo bloqueo de fila.
// Invariante: OnHand es igual a la suma de los deltas de cantidad del libro mayor.
type InventoryBalance struct {
	ID             string
	TenantID       string
	VariantID      string
	WarehouseID    string
	OnHand         decimal.Decimal
	Allocated      decimal.Decimal
	OnOrder        decimal.Decimal
	AverageCost    decimal.Decimal
	LastMovementAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RunningValue devuelve el valor corriente del saldo (cantidad × costo promedio).
func (b *InventoryBalance) RunningValue() decimal.Decimal {
	return b.OnHand.Mul(b.AverageCost)
}
