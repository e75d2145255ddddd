package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta. DRAFT..PAID se derivan de los contadores de línea;
// CLOSED y CANCELLED son transiciones administrativas terminales.
const (
	SalesOrderStatusDraft     = "DRAFT"
	SalesOrderStatusConfirmed = "CONFIRMED"
	SalesOrderStatusPicking   = "PICKING"
	SalesOrderStatusFulfilled = "FULFILLED"
	SalesOrderStatusInvoiced  = "INVOICED"
	SalesOrderStatusPaid      = "PAID"
	SalesOrderStatusClosed    = "CLOSED"
	SalesOrderStatusCancelled = "CANCELLED"
)

// SalesOrder cabecera de orden de venta.
type SalesOrder struct {
	ID         string
	TenantID   string
	Number     string
	CustomerID string
	Status     string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsTerminal indica si el estado es administrativo terminal (la derivación nunca lo sobreescribe).
func (o *SalesOrder) IsTerminal() bool {
	return o.Status == SalesOrderStatusClosed || o.Status == SalesOrderStatusCancelled
}

// SalesOrderLine línea de orden de venta con contadores corrientes.
// DeliveredQuantity e InvoicedQuantity los muta exclusivamente el ciclo de vida documental.
type SalesOrderLine struct {
	ID                string
	TenantID          string
	OrderID           string
	VariantID         string
	OrderedQuantity   decimal.Decimal
	DeliveredQuantity decimal.Decimal
	InvoicedQuantity  decimal.Decimal
	UnitPrice         decimal.Decimal
	TaxRate           decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Estados de documentos aguas abajo de ventas.
const (
	DeliveryNoteStatusDraft     = "DRAFT"
	DeliveryNoteStatusPosted    = "POSTED"
	DeliveryNoteStatusCancelled = "CANCELLED"

	SalesInvoiceStatusDraft     = "DRAFT"
	SalesInvoiceStatusPosted    = "POSTED"
	SalesInvoiceStatusPaid      = "PAID"
	SalesInvoiceStatusCancelled = "CANCELLED"

	SalesPaymentStatusPosted = "POSTED"
	SalesPaymentStatusVoid   = "VOID"
)

// DeliveryNote remisión/despacho contra una orden de venta.
// Asentarla mueve stock (salida) y aumenta delivered_quantity en las líneas de la orden.
type DeliveryNote struct {
	ID              string
	TenantID        string
	OrderID         string
	WarehouseID     string
	Number          string
	Status          string
	StockMovementID *string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DeliveryNoteLine línea de remisión; OrderLineID enlaza la línea de orden que se abona.
type DeliveryNoteLine struct {
	ID          string
	TenantID    string
	DeliveryID  string
	OrderLineID *string
	VariantID   string
	Quantity    decimal.Decimal
	Metadata    map[string]string
	CreatedAt   time.Time
}

// SalesInvoice factura de venta contra una orden. No mueve stock.
type SalesInvoice struct {
	ID          string
	TenantID    string
	OrderID     string
	CustomerID  string
	Number      string
	Status      string
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SalesInvoiceLine línea de factura de venta.
type SalesInvoiceLine struct {
	ID          string
	TenantID    string
	InvoiceID   string
	OrderLineID *string
	VariantID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje
	CreatedAt   time.Time
}

// SalesPayment pago recibido contra una factura de venta.
type SalesPayment struct {
	ID        string
	TenantID  string
	InvoiceID string
	Amount    decimal.Decimal
	Method    string
	Status    string
	PaidAt    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SalesRefund devolución de dinero sobre una factura pagada.
// No revierte stock por sí sola; la reposición física es un movimiento aparte.
type SalesRefund struct {
	ID        string
	TenantID  string
	InvoiceID string
	Amount    decimal.Decimal
	Reason    string
	CreatedAt time.Time
}
