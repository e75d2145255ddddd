package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// CreateMovement persiste la cabecera de un movimiento.
func (r *MovementRepo) CreateMovement(ctx context.Context, movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, tenant_id, movement_type, reference_number, description, performed_by, source_document_type, source_document_id, metadata, performed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	performedBy := (*string)(nil)
	if movement.PerformedBy != "" {
		performedBy = &movement.PerformedBy
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.TenantID, movement.MovementType,
		movement.ReferenceNumber, movement.Description, performedBy,
		movement.SourceDocumentType, movement.SourceDocumentID, movement.Metadata,
		movement.PerformedAt, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de movimiento con su costo resuelto.
func (r *MovementRepo) CreateLine(ctx context.Context, line *entity.StockMovementLine) error {
	query := `
		INSERT INTO stock_movement_lines (id, tenant_id, movement_id, variant_id, warehouse_id, quantity, unit_cost, value_delta, reference_type, reference_id, note, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.TenantID, line.MovementID, line.VariantID, line.WarehouseID,
		line.Quantity, line.UnitCost, line.ValueDelta,
		line.ReferenceType, line.ReferenceID, line.Note, line.Metadata, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement line: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con sus líneas.
func (r *MovementRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.StockMovement, error) {
	query := `
		SELECT id, tenant_id, movement_type, reference_number, description, performed_by, source_document_type, source_document_id, metadata, performed_at, created_at
		FROM stock_movements WHERE tenant_id = $1 AND id = $2`
	var m entity.StockMovement
	var performedBy *string
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&m.ID, &m.TenantID, &m.MovementType, &m.ReferenceNumber, &m.Description,
		&performedBy, &m.SourceDocumentType, &m.SourceDocumentID, &m.Metadata,
		&m.PerformedAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if performedBy != nil {
		m.PerformedBy = *performedBy
	}

	lineQuery := `
		SELECT id, tenant_id, movement_id, variant_id, warehouse_id, quantity, unit_cost, value_delta, reference_type, reference_id, note, metadata, created_at
		FROM stock_movement_lines WHERE tenant_id = $1 AND movement_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(ctx, lineQuery, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.StockMovementLine
		if err := rows.Scan(&l.ID, &l.TenantID, &l.MovementID, &l.VariantID, &l.WarehouseID,
			&l.Quantity, &l.UnitCost, &l.ValueDelta,
			&l.ReferenceType, &l.ReferenceID, &l.Note, &l.Metadata, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		m.Lines = append(m.Lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

// List lista movimientos del tenant (sin líneas) con filtros opcionales.
func (r *MovementRepo) List(ctx context.Context, tenantID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT DISTINCT m.id, m.tenant_id, m.movement_type, m.reference_number, m.description, m.performed_by, m.source_document_type, m.source_document_id, m.metadata, m.performed_at, m.created_at
		FROM stock_movements m`
	args := []any{tenantID}
	pos := 2
	if filter.VariantID != "" || filter.WarehouseID != "" {
		query += ` JOIN stock_movement_lines l ON l.movement_id = m.id AND l.tenant_id = m.tenant_id`
	}
	query += ` WHERE m.tenant_id = $1`
	if filter.VariantID != "" {
		query += fmt.Sprintf(" AND l.variant_id = $%d", pos)
		args = append(args, filter.VariantID)
		pos++
	}
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND l.warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND m.performed_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND m.performed_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY m.performed_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var performedBy *string
		if err := rows.Scan(&m.ID, &m.TenantID, &m.MovementType, &m.ReferenceNumber, &m.Description,
			&performedBy, &m.SourceDocumentType, &m.SourceDocumentID, &m.Metadata,
			&m.PerformedAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if performedBy != nil {
			m.PerformedBy = *performedBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
