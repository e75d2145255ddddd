package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/application/pos"
	"github.com/irshados/backoffice/internal/application/purchasing"
	"github.com/irshados/backoffice/internal/application/restaurant"
	"github.com/irshados/backoffice/internal/application/sales"
	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain/repository"
)

// Ensure TxRunner satisfies every application-layer runner port.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ purchasing.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ pos.TxRunner = (*TxRunner)(nil)
var _ restaurant.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Como primer
// paso de cada transacción fija el GUC app.tenant_id con el tenant activo del
// contexto, de modo que las políticas de row level security de la base
// respalden el filtrado de la aplicación. Sin tenant activo el GUC queda vacío
// y las políticas no devuelven filas.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ata todos los repositorios a ella, ejecuta fn y
// hace Commit o Rollback. El set_config usa is_local=true: el GUC muere con la
// transacción, nunca se filtra a otra sesión del pool.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	pgxTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = pgxTx.Rollback(ctx) }()

	if tenantID, ok := tenant.Current(ctx); ok {
		if _, err := pgxTx.Exec(ctx, `SELECT set_config('app.tenant_id', $1, true)`, tenantID); err != nil {
			return fmt.Errorf("set tenant GUC: %w", err)
		}
	}

	bundle := repository.Tx{
		Balances:   NewBalanceRepository(pgxTx),
		Movements:  NewMovementRepository(pgxTx),
		Ledger:     NewLedgerRepository(pgxTx),
		Variants:   NewVariantRepository(pgxTx),
		Warehouses: NewWarehouseRepository(pgxTx),
		Purchasing: NewPurchasingRepository(pgxTx),
		Sales:      NewSalesRepository(pgxTx),
		POS:        NewPOSRepository(pgxTx),
		Restaurant: NewRestaurantRepository(pgxTx),
	}

	if err := fn(bundle); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
