package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea genérica de documento (orden, factura).
type DocumentLineRequest struct {
	OrderLineID string          `json:"order_line_id,omitempty"`
	VariantID   string          `json:"variant_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreatePurchaseOrderRequest payload para crear una orden de compra.
type CreatePurchaseOrderRequest struct {
	Number     string                `json:"number"`
	SupplierID string                `json:"supplier_id,omitempty"`
	Notes      string                `json:"notes,omitempty"`
	Lines      []DocumentLineRequest `json:"lines"`
}

// ReceiptLineRequest línea de recepción; unit_cost nulo usa el precio de la orden.
type ReceiptLineRequest struct {
	OrderLineID string           `json:"order_line_id,omitempty"`
	VariantID   string           `json:"variant_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
}

// CreateReceiptRequest payload para crear una recepción en borrador.
type CreateReceiptRequest struct {
	OrderID     string               `json:"order_id"`
	WarehouseID string               `json:"warehouse_id"`
	Number      string               `json:"number"`
	Notes       string               `json:"notes,omitempty"`
	Lines       []ReceiptLineRequest `json:"lines"`
}

// CreateBillRequest payload para crear una factura de proveedor en borrador.
type CreateBillRequest struct {
	OrderID string                `json:"order_id"`
	Number  string                `json:"number"`
	DueDate *time.Time            `json:"due_date,omitempty"`
	Lines   []DocumentLineRequest `json:"lines"`
}

// CreatePaymentRequest payload para registrar un pago contra una factura.
type CreatePaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// CreateSalesOrderRequest payload para crear una orden de venta.
type CreateSalesOrderRequest struct {
	Number     string                `json:"number"`
	CustomerID string                `json:"customer_id,omitempty"`
	Notes      string                `json:"notes,omitempty"`
	Lines      []DocumentLineRequest `json:"lines"`
}

// DeliveryLineRequest línea de remisión.
type DeliveryLineRequest struct {
	OrderLineID string          `json:"order_line_id,omitempty"`
	VariantID   string          `json:"variant_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// CreateDeliveryRequest payload para crear una remisión en borrador.
type CreateDeliveryRequest struct {
	OrderID     string                `json:"order_id"`
	WarehouseID string                `json:"warehouse_id"`
	Number      string                `json:"number"`
	Notes       string                `json:"notes,omitempty"`
	Lines       []DeliveryLineRequest `json:"lines"`
}

// CreateInvoiceRequest payload para crear una factura de venta en borrador.
type CreateInvoiceRequest struct {
	OrderID string                `json:"order_id"`
	Number  string                `json:"number"`
	DueDate *time.Time            `json:"due_date,omitempty"`
	Lines   []DocumentLineRequest `json:"lines"`
}

// CreateRefundRequest payload para registrar una devolución sobre una factura pagada.
type CreateRefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason,omitempty"`
}
