package postgres

import (
	"context"
	"fmt"

	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo libro mayor de inventario sobre PostgreSQL. Solo inserta y lee:
// no expone update ni delete.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del libro mayor. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta una entrada inmutable del libro mayor.
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.InventoryLedgerEntry) error {
	query := `
		INSERT INTO inventory_ledger (id, tenant_id, movement_id, line_id, variant_id, warehouse_id, quantity_delta, value_delta, running_quantity, running_value, average_cost, reference_type, reference_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.TenantID, entry.MovementID, entry.LineID,
		entry.VariantID, entry.WarehouseID,
		entry.QuantityDelta, entry.ValueDelta,
		entry.RunningQuantity, entry.RunningValue, entry.AverageCost,
		entry.ReferenceType, entry.ReferenceID, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// List consulta el libro mayor del tenant con filtros opcionales, en orden de
// inserción descendente.
func (r *LedgerRepo) List(ctx context.Context, tenantID string, filter repository.LedgerFilter) ([]*entity.InventoryLedgerEntry, error) {
	query := `
		SELECT id, tenant_id, movement_id, line_id, variant_id, warehouse_id, quantity_delta, value_delta, running_quantity, running_value, average_cost, reference_type, reference_id, note, created_at
		FROM inventory_ledger WHERE tenant_id = $1`
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
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLedgerEntry
	for rows.Next() {
		var e entity.InventoryLedgerEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.MovementID, &e.LineID,
			&e.VariantID, &e.WarehouseID,
			&e.QuantityDelta, &e.ValueDelta,
			&e.RunningQuantity, &e.RunningValue, &e.AverageCost,
			&e.ReferenceType, &e.ReferenceID, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
