package dto

import "github.com/shopspring/decimal"

// OpenShiftRequest payload para abrir un turno de caja.
type OpenShiftRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float"`
}

// CloseShiftRequest payload para cerrar un turno de caja.
type CloseShiftRequest struct {
	ClosingFloat decimal.Decimal `json:"closing_float"`
}

// POSSaleItemRequest línea de venta de caja.
type POSSaleItemRequest struct {
	VariantID string          `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

// CreatePOSSaleRequest payload para crear una venta de caja.
type CreatePOSSaleRequest struct {
	ShiftID     string               `json:"shift_id"`
	WarehouseID string               `json:"warehouse_id"`
	Reference   string               `json:"reference"`
	Items       []POSSaleItemRequest `json:"items"`
	Metadata    map[string]string    `json:"metadata,omitempty"`
}

// POSPaymentRequest payload para registrar un pago de venta de caja.
type POSPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// TicketLineRequest línea de comanda de cocina.
type TicketLineRequest struct {
	MenuItemID string          `json:"menu_item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Notes      string          `json:"notes,omitempty"`
}

// CreateTicketRequest payload para crear una comanda de cocina.
type CreateTicketRequest struct {
	Reference string              `json:"reference"`
	Notes     string              `json:"notes,omitempty"`
	Lines     []TicketLineRequest `json:"lines"`
}
