package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypePurchaseReceipt = "PURCHASE_RECEIPT" // entrada por recepción de compra
	MovementTypeSaleShipment    = "SALE_SHIPMENT"    // salida por despacho de venta o consumo de receta
	MovementTypePOSSale         = "POS_SALE"         // salida por venta de caja
	MovementTypeAdjustment      = "ADJUSTMENT"       // ajuste manual
	MovementTypeTransfer        = "TRANSFER"         // traslado entre bodegas
)

// StockMovement agrupa una o más líneas que se asientan de forma atómica.
// Inmutable una vez creado: no existe estado parcial visible.
type StockMovement struct {
	ID                 string
	TenantID           string
	MovementType       string
	ReferenceNumber    string
	Description        string
	PerformedBy        string // ID de usuario; vacío para procesos de sistema
	SourceDocumentType string
	SourceDocumentID   string
	Metadata           map[string]string
	PerformedAt        time.Time
	CreatedAt          time.Time

	Lines []*StockMovementLine
}

// StockMovementLine es una línea de movimiento: cantidad con signo
// (positiva entrada, negativa salida) y costo unitario resuelto.
type StockMovementLine struct {
	ID            string
	TenantID      string
	MovementID    string
	VariantID     string
	WarehouseID   string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	ValueDelta    decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Note          string
	Metadata      map[string]string
	CreatedAt     time.Time
}
