package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	dominv "github.com/irshados/backoffice/internal/domain/inventory"
	"github.com/irshados/backoffice/internal/domain/repository"
	"github.com/irshados/backoffice/pkg/logger"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// Policy políticas configurables del motor.
type Policy struct {
	// AllowNegative permite saldos en mano negativos tras una salida.
	AllowNegative bool
}

// UseCase es el motor de inventario: asienta movimientos con costeo promedio
// ponderado, muta saldos bajo bloqueo de fila y añade entradas inmutables al
// libro mayor. Única pieza autorizada a mutar InventoryBalance e
// InventoryLedgerEntry.
type UseCase struct {
	txRunner TxRunner
	policy   Policy
	log      *logger.Logger
}

// NewUseCase construye el motor de inventario.
func NewUseCase(txRunner TxRunner, policy Policy, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, policy: policy, log: log}
}

// MovementLineInput línea de movimiento: cantidad con signo (positiva entrada,
// negativa salida) y costo unitario opcional.
type MovementLineInput struct {
	VariantID     string
	WarehouseID   string
	Quantity      decimal.Decimal
	UnitCost      *decimal.Decimal
	ReferenceType string
	ReferenceID   string
	Note          string
	Metadata      map[string]string
}

// MovementInput entrada para asentar un movimiento completo.
type MovementInput struct {
	MovementType       string
	Lines              []MovementLineInput
	ReferenceNumber    string
	Description        string
	PerformedBy        string
	SourceDocumentType string
	SourceDocumentID   string
	Metadata           map[string]string
}

// RecordMovement asienta un movimiento completo en una sola transacción.
// O se asientan todas las líneas o ninguna; ningún estado parcial es visible
// para otras transacciones.
func (uc *UseCase) RecordMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if _, err := tenant.MustCurrent(ctx); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var movement *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		movement, err = uc.RecordInTx(ctx, tx, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().
		Str("movement_id", movement.ID).
		Str("type", movement.MovementType).
		Int("lines", len(movement.Lines)).
		Msg("movimiento de inventario asentado")
	return movement, nil
}

// RecordInTx asienta un movimiento usando los repositorios de la transacción del
// caller. Lo usan los ciclos de vida documentales (recepciones, despachos, POS)
// para que documento y movimiento queden en la misma transacción.
func (uc *UseCase) RecordInTx(ctx context.Context, tx repository.Tx, input MovementInput) (*entity.StockMovement, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	// Referencias (variante, bodega) se validan antes de tomar ningún bloqueo.
	for _, line := range input.Lines {
		variant, err := tx.Variants.GetByID(ctx, tenantID, line.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, domain.ErrNotFound
		}
		warehouse, err := tx.Warehouses.GetByID(ctx, tenantID, line.WarehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	movement := &entity.StockMovement{
		ID:                 uuid.New().String(),
		TenantID:           tenantID,
		MovementType:       input.MovementType,
		ReferenceNumber:    input.ReferenceNumber,
		Description:        input.Description,
		PerformedBy:        input.PerformedBy,
		SourceDocumentType: input.SourceDocumentType,
		SourceDocumentID:   input.SourceDocumentID,
		Metadata:           input.Metadata,
		PerformedAt:        now,
		CreatedAt:          now,
	}
	if err := tx.Movements.CreateMovement(ctx, movement); err != nil {
		return nil, err
	}

	// Las líneas se procesan secuencialmente dentro de la misma transacción:
	// dos líneas sobre la misma tripleta componen (la segunda ve el efecto de
	// la primera) sin interbloquearse consigo mismas.
	for _, line := range input.Lines {
		if err := uc.processLine(ctx, tx, movement, line); err != nil {
			return nil, err
		}
	}
	return movement, nil
}

func (uc *UseCase) processLine(ctx context.Context, tx repository.Tx, movement *entity.StockMovement, line MovementLineInput) error {
	quantityDelta := dominv.QuantizeQuantity(line.Quantity)

	// Bloqueo exclusivo de la fila de saldo; se crea en cero si no existe.
	balance, err := tx.Balances.LockOrCreate(ctx, movement.TenantID, line.VariantID, line.WarehouseID)
	if err != nil {
		return err
	}

	effect := dominv.ApplyLine(balance.OnHand, balance.AverageCost, quantityDelta, line.UnitCost)
	if !uc.policy.AllowNegative && effect.NewOnHand.IsNegative() {
		return domain.ErrInsufficientStock
	}

	balance.OnHand = effect.NewOnHand
	balance.AverageCost = effect.AverageCost
	performedAt := movement.PerformedAt
	balance.LastMovementAt = &performedAt
	if err := tx.Balances.Update(ctx, balance); err != nil {
		return err
	}

	movLine := &entity.StockMovementLine{
		ID:            uuid.New().String(),
		TenantID:      movement.TenantID,
		MovementID:    movement.ID,
		VariantID:     line.VariantID,
		WarehouseID:   line.WarehouseID,
		Quantity:      quantityDelta,
		UnitCost:      effect.UnitCost,
		ValueDelta:    effect.ValueDelta,
		ReferenceType: line.ReferenceType,
		ReferenceID:   line.ReferenceID,
		Note:          line.Note,
		Metadata:      line.Metadata,
		CreatedAt:     movement.PerformedAt,
	}
	if err := tx.Movements.CreateLine(ctx, movLine); err != nil {
		return err
	}
	movement.Lines = append(movement.Lines, movLine)

	// Foto del saldo corriente tras la línea; la entrada jamás se toca después.
	entry := &entity.InventoryLedgerEntry{
		ID:              uuid.New().String(),
		TenantID:        movement.TenantID,
		MovementID:      movement.ID,
		LineID:          movLine.ID,
		VariantID:       line.VariantID,
		WarehouseID:     line.WarehouseID,
		QuantityDelta:   quantityDelta,
		ValueDelta:      effect.ValueDelta,
		RunningQuantity: effect.NewOnHand,
		RunningValue:    effect.NewValue,
		AverageCost:     effect.AverageCost,
		ReferenceType:   line.ReferenceType,
		ReferenceID:     line.ReferenceID,
		Note:            line.Note,
		CreatedAt:       movement.PerformedAt,
	}
	return tx.Ledger.Append(ctx, entry)
}

// validateInput rechaza la entrada antes de tomar bloqueos: sin efecto parcial.
func validateInput(input MovementInput) error {
	if input.MovementType == "" {
		return domain.ErrInvalidInput
	}
	if len(input.Lines) == 0 {
		return domain.ErrEmptyLines
	}
	for _, line := range input.Lines {
		if line.VariantID == "" || line.WarehouseID == "" {
			return domain.ErrInvalidInput
		}
		if line.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
		if err := dominv.ValidateQuantity(line.Quantity); err != nil {
			return err
		}
		if line.UnitCost != nil {
			if line.UnitCost.IsNegative() {
				return domain.ErrInvalidInput
			}
			if err := dominv.ValidateCurrency(*line.UnitCost); err != nil {
				return err
			}
		}
	}
	return nil
}
