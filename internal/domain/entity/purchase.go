package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. DRAFT..PAID se derivan de los contadores de línea;
// CLOSED y CANCELLED son transiciones administrativas terminales.
const (
	PurchaseOrderStatusDraft     = "DRAFT"
	PurchaseOrderStatusSubmitted = "SUBMITTED"
	PurchaseOrderStatusReceiving = "RECEIVING"
	PurchaseOrderStatusReceived  = "RECEIVED"
	PurchaseOrderStatusBilled    = "BILLED"
	PurchaseOrderStatusPaid      = "PAID"
	PurchaseOrderStatusClosed    = "CLOSED"
	PurchaseOrderStatusCancelled = "CANCELLED"
)

// PurchaseOrder cabecera de orden de compra.
type PurchaseOrder struct {
	ID         string
	TenantID   string
	Number     string
	SupplierID string
	Status     string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsTerminal indica si el estado es administrativo terminal (la derivación nunca lo sobreescribe).
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status == PurchaseOrderStatusClosed || o.Status == PurchaseOrderStatusCancelled
}

// PurchaseOrderLine línea de orden de compra con contadores corrientes.
// ReceivedQuantity y BilledQuantity los muta exclusivamente el ciclo de vida documental.
type PurchaseOrderLine struct {
	ID               string
	TenantID         string
	OrderID          string
	VariantID        string
	OrderedQuantity  decimal.Decimal
	ReceivedQuantity decimal.Decimal
	BilledQuantity   decimal.Decimal
	UnitPrice        decimal.Decimal
	TaxRate          decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Estados de documentos aguas abajo de compras.
const (
	PurchaseReceiptStatusDraft     = "DRAFT"
	PurchaseReceiptStatusPosted    = "POSTED"
	PurchaseReceiptStatusCancelled = "CANCELLED"

	PurchaseBillStatusDraft     = "DRAFT"
	PurchaseBillStatusPosted    = "POSTED"
	PurchaseBillStatusPaid      = "PAID"
	PurchaseBillStatusCancelled = "CANCELLED"

	PurchasePaymentStatusPosted = "POSTED"
	PurchasePaymentStatusVoid   = "VOID"
)

// PurchaseReceipt recepción de mercancía contra una orden de compra.
// Asentarla es lo que mueve stock y aumenta received_quantity en las líneas de la orden.
type PurchaseReceipt struct {
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

// PurchaseReceiptLine línea de recepción; OrderLineID enlaza la línea de orden que se abona.
type PurchaseReceiptLine struct {
	ID          string
	TenantID    string
	ReceiptID   string
	OrderLineID *string
	VariantID   string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal // nil → usar el precio de la línea de orden
	Metadata    map[string]string
	CreatedAt   time.Time
}

// PurchaseBill factura del proveedor contra una orden de compra. No mueve stock.
type PurchaseBill struct {
	ID          string
	TenantID    string
	OrderID     string
	Number      string
	Status      string
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PurchaseBillLine línea de factura de proveedor.
type PurchaseBillLine struct {
	ID          string
	TenantID    string
	BillID      string
	OrderLineID *string
	VariantID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal // porcentaje
	CreatedAt   time.Time
}

// PurchasePayment pago aplicado a una factura de proveedor.
type PurchasePayment struct {
	ID        string
	TenantID  string
	BillID    string
	Amount    decimal.Decimal
	Method    string
	Status    string
	PaidAt    time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
