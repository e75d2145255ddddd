package repository

import (
	"context"
	"time"

	"github.com/irshados/backoffice/internal/domain/entity"
)

// BalanceRepository puerto de persistencia para saldos de inventario.
// Los saldos solo los muta el motor de inventario dentro de una transacción.
type BalanceRepository interface {
	// LockOrCreate bloquea la fila del saldo (SELECT FOR UPDATE), creándola en
	// cero si no existe todavía para la tripleta (tenant, variante, bodega).
	LockOrCreate(ctx context.Context, tenantID, variantID, warehouseID string) (*entity.InventoryBalance, error)
	Update(ctx context.Context, balance *entity.InventoryBalance) error
	Get(ctx context.Context, tenantID, variantID, warehouseID string) (*entity.InventoryBalance, error)
	List(ctx context.Context, tenantID string, filter BalanceFilter) ([]*entity.InventoryBalance, error)
}

// BalanceFilter filtros opcionales para listar saldos.
type BalanceFilter struct {
	VariantID   string
	WarehouseID string
	Limit       int
	Offset      int
}

// MovementRepository puerto de persistencia para movimientos de inventario.
type MovementRepository interface {
	CreateMovement(ctx context.Context, movement *entity.StockMovement) error
	CreateLine(ctx context.Context, line *entity.StockMovementLine) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.StockMovement, error)
	List(ctx context.Context, tenantID string, filter MovementFilter) ([]*entity.StockMovement, error)
}

// MovementFilter filtros opcionales para listar movimientos.
type MovementFilter struct {
	VariantID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// LedgerRepository puerto del libro mayor de inventario. Solo inserta y lee:
// las entradas jamás se actualizan ni se borran.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.InventoryLedgerEntry) error
	List(ctx context.Context, tenantID string, filter LedgerFilter) ([]*entity.InventoryLedgerEntry, error)
}

// LedgerFilter filtros opcionales para consultar el libro mayor.
type LedgerFilter struct {
	VariantID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}
