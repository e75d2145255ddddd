package inventory

import (
	"context"

	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

// Consultas de solo lectura, siempre con alcance implícito del tenant activo.
// Corren dentro de una transacción para que el predicado de visibilidad por
// fila de la base respalde el filtro de aplicación.

// Balances lista los saldos del tenant activo según el filtro.
func (uc *UseCase) Balances(ctx context.Context, filter repository.BalanceFilter) ([]*entity.InventoryBalance, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var out []*entity.InventoryBalance
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Balances.List(ctx, tenantID, filter)
		return err
	})
	return out, err
}

// Balance devuelve el saldo de una variante en una bodega (nil si nunca hubo movimiento).
func (uc *UseCase) Balance(ctx context.Context, variantID, warehouseID string) (*entity.InventoryBalance, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var out *entity.InventoryBalance
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Balances.Get(ctx, tenantID, variantID, warehouseID)
		return err
	})
	return out, err
}

// LedgerEntries consulta el libro mayor por variante/bodega/rango de fechas.
func (uc *UseCase) LedgerEntries(ctx context.Context, filter repository.LedgerFilter) ([]*entity.InventoryLedgerEntry, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var out []*entity.InventoryLedgerEntry
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Ledger.List(ctx, tenantID, filter)
		return err
	})
	return out, err
}

// Movements lista movimientos del tenant activo según el filtro.
func (uc *UseCase) Movements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var out []*entity.StockMovement
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.Movements.List(ctx, tenantID, filter)
		return err
	})
	return out, err
}
