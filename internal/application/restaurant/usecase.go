package restaurant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	dominv "github.com/irshados/backoffice/internal/domain/inventory"
	"github.com/irshados/backoffice/internal/domain/repository"
	"github.com/irshados/backoffice/pkg/logger"
)

// TxRunner ejecuta una función dentro de una transacción de BD.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// Inventory puerto hacia el motor de inventario (misma transacción del caller).
type Inventory interface {
	RecordInTx(ctx context.Context, tx repository.Tx, input appinv.MovementInput) (*entity.StockMovement, error)
}

// UseCase comandas de cocina y consumo de insumos por receta.
type UseCase struct {
	txRunner  TxRunner
	inventory Inventory
	log       *logger.Logger
}

// NewUseCase construye el caso de uso de restaurante.
func NewUseCase(txRunner TxRunner, inventory Inventory, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, inventory: inventory, log: log}
}

// TicketLineInput línea de comanda: plato del menú y cantidad.
type TicketLineInput struct {
	MenuItemID string
	Quantity   decimal.Decimal
	Notes      string
}

// CreateTicketInput entrada para crear una comanda.
type CreateTicketInput struct {
	Reference   string
	Notes       string
	PerformedBy string
	Lines       []TicketLineInput
}

// CreateTicket crea una comanda de cocina y consume los insumos de las recetas
// de sus platos. El consumo por línea es quantity/yield por componente; si el
// inquilino no tiene bodega utilizable, el consumo se omite con una advertencia
// en lugar de bloquear la comanda.
func (uc *UseCase) CreateTicket(ctx context.Context, in CreateTicketInput) (*entity.KitchenTicket, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyLines
	}
	for _, l := range in.Lines {
		if l.MenuItemID == "" || !l.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	ticket := &entity.KitchenTicket{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Reference: in.Reference,
		Status:    entity.KitchenTicketStatusOpen,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Restaurant.CreateTicket(ctx, ticket); err != nil {
			return err
		}

		warehouse, err := uc.consumptionWarehouse(ctx, tx, tenantID)
		if err != nil {
			return err
		}

		var movementLines []appinv.MovementLineInput
		for _, l := range in.Lines {
			line := &entity.KitchenTicketLine{
				ID:         uuid.New().String(),
				TenantID:   tenantID,
				TicketID:   ticket.ID,
				MenuItemID: l.MenuItemID,
				Quantity:   dominv.QuantizeQuantity(l.Quantity),
				Notes:      l.Notes,
				CreatedAt:  now,
			}
			if err := tx.Restaurant.CreateTicketLine(ctx, line); err != nil {
				return err
			}

			item, err := tx.Restaurant.GetMenuItem(ctx, tenantID, l.MenuItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			if item.RecipeID == nil {
				continue
			}
			if warehouse == nil {
				uc.log.Warn().
					Str("ticket_id", ticket.ID).
					Str("menu_item_id", item.ID).
					Msg("sin bodega utilizable; se omite el consumo de receta")
				continue
			}

			consumption, err := uc.recipeConsumption(ctx, tx, tenantID, *item.RecipeID, line.Quantity)
			if err != nil {
				return err
			}
			for _, c := range consumption {
				movementLines = append(movementLines, appinv.MovementLineInput{
					VariantID:     c.variantID,
					WarehouseID:   warehouse.ID,
					Quantity:      c.quantity.Neg(),
					ReferenceType: "kitchen_ticket",
					ReferenceID:   ticket.ID,
					Note:          fmt.Sprintf("Consumo de receta para %s", item.Name),
				})
			}
		}

		if len(movementLines) == 0 {
			return nil
		}
		reference := fmt.Sprintf("RECIPE-%d", now.Unix())
		_, err = uc.inventory.RecordInTx(ctx, tx, appinv.MovementInput{
			MovementType:       entity.MovementTypeSaleShipment,
			Lines:              movementLines,
			ReferenceNumber:    reference,
			Description:        fmt.Sprintf("Consumo de insumos de la comanda %s", ticket.Reference),
			PerformedBy:        in.PerformedBy,
			SourceDocumentType: "kitchen_ticket",
			SourceDocumentID:   ticket.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

type componentConsumption struct {
	variantID string
	quantity  decimal.Decimal
}

// recipeConsumption calcula el consumo de cada componente: factor = cantidad
// producida / rendimiento de la receta (rendimiento cero o negativo cuenta como 1).
func (uc *UseCase) recipeConsumption(ctx context.Context, tx repository.Tx, tenantID, recipeID string, produced decimal.Decimal) ([]componentConsumption, error) {
	recipe, err := tx.Restaurant.GetRecipe(ctx, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, domain.ErrNotFound
	}
	yield := recipe.YieldQuantity
	if !yield.IsPositive() {
		yield = decimal.NewFromInt(1)
	}
	factor := produced.Div(yield)

	components, err := tx.Restaurant.RecipeComponents(ctx, tenantID, recipeID)
	if err != nil {
		return nil, err
	}
	out := make([]componentConsumption, 0, len(components))
	for _, c := range components {
		qty := dominv.QuantizeQuantity(c.Quantity.Mul(factor))
		if !qty.IsPositive() {
			continue
		}
		out = append(out, componentConsumption{variantID: c.VariantID, quantity: qty})
	}
	return out, nil
}

// consumptionWarehouse resuelve la bodega de consumo. Puede devolver nil si el
// inquilino no tiene bodegas.
func (uc *UseCase) consumptionWarehouse(ctx context.Context, tx repository.Tx, tenantID string) (*entity.Warehouse, error) {
	return tx.Warehouses.GetDefault(ctx, tenantID)
}

// GetTicket devuelve una comanda por id.
func (uc *UseCase) GetTicket(ctx context.Context, ticketID string) (*entity.KitchenTicket, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var ticket *entity.KitchenTicket
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		ticket, err = tx.Restaurant.GetTicket(ctx, tenantID, ticketID)
		if err != nil {
			return err
		}
		if ticket == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
