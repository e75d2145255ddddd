package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/irshados/backoffice/internal/domain/entity"
)

// MovementLineRequest línea de un movimiento a registrar. Cantidad con signo:
// positiva entrada, negativa salida. UnitCost solo aplica a entradas; en
// salidas se usa el costo promedio vigente.
type MovementLineRequest struct {
	VariantID     string            `json:"variant_id"`
	WarehouseID   string            `json:"warehouse_id"`
	Quantity      decimal.Decimal   `json:"quantity"`
	UnitCost      *decimal.Decimal  `json:"unit_cost,omitempty"`
	ReferenceType string            `json:"reference_type,omitempty"`
	ReferenceID   string            `json:"reference_id,omitempty"`
	Note          string            `json:"note,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// RecordMovementRequest payload para registrar un movimiento de inventario.
type RecordMovementRequest struct {
	MovementType    string                `json:"movement_type"`
	ReferenceNumber string                `json:"reference_number,omitempty"`
	Description     string                `json:"description,omitempty"`
	Metadata        map[string]string     `json:"metadata,omitempty"`
	Lines           []MovementLineRequest `json:"lines"`
}

// MovementLineResponse línea asentada con su costo y delta de valor resueltos.
type MovementLineResponse struct {
	ID          string          `json:"id"`
	VariantID   string          `json:"variant_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ValueDelta  decimal.Decimal `json:"value_delta"`
	Note        string          `json:"note,omitempty"`
}

// MovementResponse movimiento asentado.
type MovementResponse struct {
	ID              string                 `json:"id"`
	MovementType    string                 `json:"movement_type"`
	ReferenceNumber string                 `json:"reference_number,omitempty"`
	Description     string                 `json:"description,omitempty"`
	PerformedBy     string                 `json:"performed_by,omitempty"`
	PerformedAt     time.Time              `json:"performed_at"`
	Lines           []MovementLineResponse `json:"lines,omitempty"`
}

// ToMovementResponse mapea la entidad al DTO.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	out := MovementResponse{
		ID:              m.ID,
		MovementType:    m.MovementType,
		ReferenceNumber: m.ReferenceNumber,
		Description:     m.Description,
		PerformedBy:     m.PerformedBy,
		PerformedAt:     m.PerformedAt,
	}
	for _, l := range m.Lines {
		out.Lines = append(out.Lines, MovementLineResponse{
			ID:          l.ID,
			VariantID:   l.VariantID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			ValueDelta:  l.ValueDelta,
			Note:        l.Note,
		})
	}
	return out
}

// BalanceResponse saldo vivo de una variante en una bodega.
type BalanceResponse struct {
	VariantID      string          `json:"variant_id"`
	WarehouseID    string          `json:"warehouse_id"`
	OnHand         decimal.Decimal `json:"on_hand"`
	AverageCost    decimal.Decimal `json:"average_cost"`
	RunningValue   decimal.Decimal `json:"running_value"`
	LastMovementAt *time.Time      `json:"last_movement_at,omitempty"`
}

// ToBalanceResponse mapea la entidad al DTO.
func ToBalanceResponse(b *entity.InventoryBalance) BalanceResponse {
	return BalanceResponse{
		VariantID:      b.VariantID,
		WarehouseID:    b.WarehouseID,
		OnHand:         b.OnHand,
		AverageCost:    b.AverageCost,
		RunningValue:   b.RunningValue(),
		LastMovementAt: b.LastMovementAt,
	}
}

// LedgerEntryResponse entrada del libro mayor con la foto del saldo corriente.
type LedgerEntryResponse struct {
	ID              string          `json:"id"`
	MovementID      string          `json:"movement_id"`
	VariantID       string          `json:"variant_id"`
	WarehouseID     string          `json:"warehouse_id"`
	QuantityDelta   decimal.Decimal `json:"quantity_delta"`
	ValueDelta      decimal.Decimal `json:"value_delta"`
	RunningQuantity decimal.Decimal `json:"running_quantity"`
	RunningValue    decimal.Decimal `json:"running_value"`
	AverageCost     decimal.Decimal `json:"average_cost"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToLedgerEntryResponse mapea la entidad al DTO.
func ToLedgerEntryResponse(e *entity.InventoryLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		MovementID:      e.MovementID,
		VariantID:       e.VariantID,
		WarehouseID:     e.WarehouseID,
		QuantityDelta:   e.QuantityDelta,
		ValueDelta:      e.ValueDelta,
		RunningQuantity: e.RunningQuantity,
		RunningValue:    e.RunningValue,
		AverageCost:     e.AverageCost,
		ReferenceType:   e.ReferenceType,
		ReferenceID:     e.ReferenceID,
		CreatedAt:       e.CreatedAt,
	}
}
