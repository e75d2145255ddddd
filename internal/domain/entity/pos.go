package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de turno y venta de caja.
const (
	POSShiftStatusOpen   = "OPEN"
	POSShiftStatusClosed = "CLOSED"

	POSSaleStatusOpen      = "OPEN"
	POSSaleStatusPaid      = "PAID"
	POSSaleStatusCancelled = "CANCELLED"

	POSSalePaymentStatusPosted = "POSTED"
	POSSalePaymentStatusVoid   = "VOID"
)

// POSShift turno de caja (apertura y cierre con base de efectivo).
type POSShift struct {
	ID           string
	TenantID     string
	Status       string
	OpenedBy     string
	ClosedBy     string
	OpeningFloat decimal.Decimal
	ClosingFloat decimal.Decimal
	OpenedAt     time.Time
	ClosedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// POSSale venta de punto de venta. Finalizarla descuenta inventario al costo
// promedio y enlaza el movimiento resultante.
type POSSale struct {
	ID              string
	TenantID        string
	ShiftID         string
	WarehouseID     string
	Reference       string
	Status          string
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	ChangeDue       decimal.Decimal
	StockMovementID *string
	Metadata        map[string]string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// POSSaleItem línea de venta de caja.
type POSSaleItem struct {
	ID        string
	TenantID  string
	SaleID    string
	VariantID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal // porcentaje
	LineTotal decimal.Decimal
	Metadata  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// POSSalePayment pago de una venta de caja (efectivo, tarjeta...).
type POSSalePayment struct {
	ID        string
	TenantID  string
	SaleID    string
	Amount    decimal.Decimal
	Method    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
