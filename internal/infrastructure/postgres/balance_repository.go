package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = `id, tenant_id, variant_id, warehouse_id, on_hand, allocated, on_order, average_cost, last_movement_at, created_at, updated_at`

// LockOrCreate bloquea la fila del saldo con SELECT FOR UPDATE, creándola en
// cero si aún no existe para la tripleta (tenant, variante, bodega). El insert
// usa ON CONFLICT DO NOTHING: dos transacciones concurrentes convergen en la
// misma fila y el FOR UPDATE las serializa.
func (r *BalanceRepo) LockOrCreate(ctx context.Context, tenantID, variantID, warehouseID string) (*entity.InventoryBalance, error) {
	insert := `
		INSERT INTO inventory_balances (id, tenant_id, variant_id, warehouse_id, on_hand, allocated, on_order, average_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, 0, 0, now(), now())
		ON CONFLICT (tenant_id, variant_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, uuid.New().String(), tenantID, variantID, warehouseID); err != nil {
		return nil, fmt.Errorf("insert balance: %w", err)
	}

	query := `
		SELECT ` + balanceColumns + `
		FROM inventory_balances
		WHERE tenant_id = $1 AND variant_id = $2 AND warehouse_id = $3
		FOR UPDATE`
	var b entity.InventoryBalance
	err := r.q.QueryRow(ctx, query, tenantID, variantID, warehouseID).Scan(
		&b.ID, &b.TenantID, &b.VariantID, &b.WarehouseID,
		&b.OnHand, &b.Allocated, &b.OnOrder, &b.AverageCost,
		&b.LastMovementAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("lock balance: %w", err)
	}
	return &b, nil
}

// Update persiste cantidades y costo promedio de un saldo ya bloqueado.
func (r *BalanceRepo) Update(ctx context.Context, balance *entity.InventoryBalance) error {
	query := `
		UPDATE inventory_balances
		SET on_hand = $2, allocated = $3, on_order = $4, average_cost = $5, last_movement_at = $6, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		balance.ID, balance.OnHand, balance.Allocated, balance.OnOrder,
		balance.AverageCost, balance.LastMovementAt,
	)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return nil
}

// Get obtiene el saldo de una variante en una bodega, o nil si no existe aún.
func (r *BalanceRepo) Get(ctx context.Context, tenantID, variantID, warehouseID string) (*entity.InventoryBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM inventory_balances
		WHERE tenant_id = $1 AND variant_id = $2 AND warehouse_id = $3`
	var b entity.InventoryBalance
	err := r.q.QueryRow(ctx, query, tenantID, variantID, warehouseID).Scan(
		&b.ID, &b.TenantID, &b.VariantID, &b.WarehouseID,
		&b.OnHand, &b.Allocated, &b.OnOrder, &b.AverageCost,
		&b.LastMovementAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// List lista saldos del tenant con filtros opcionales y paginación.
func (r *BalanceRepo) List(ctx context.Context, tenantID string, filter repository.BalanceFilter) ([]*entity.InventoryBalance, error) {
	query := `
		SELECT ` + balanceColumns + `
		FROM inventory_balances WHERE tenant_id = $1`
	args := []any{tenantID}
	pos := 2
	if filter.VariantID != "" {
		query += fmt.Sprintf(" AND variant_id = $%d", pos)
		args = append(args, filter.VariantID)
		pos++
	}
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryBalance
	for rows.Next() {
		var b entity.InventoryBalance
		if err := rows.Scan(&b.ID, &b.TenantID, &b.VariantID, &b.WarehouseID,
			&b.OnHand, &b.Allocated, &b.OnOrder, &b.AverageCost,
			&b.LastMovementAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
