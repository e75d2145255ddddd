package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

var _ repository.POSRepository = (*POSRepo)(nil)

// POSRepo implementación de POSRepository sobre PostgreSQL (usable con pool o tx).
type POSRepo struct {
	q Querier
}

// NewPOSRepository construye el adaptador de punto de venta. Pasar pool o tx (Querier).
func NewPOSRepository(q Querier) *POSRepo {
	return &POSRepo{q: q}
}

const posShiftColumns = `id, tenant_id, status, opened_by, closed_by, opening_float, closing_float, opened_at, closed_at, created_at, updated_at`

// CreateShift persiste un turno de caja.
func (r *POSRepo) CreateShift(ctx context.Context, shift *entity.POSShift) error {
	query := `
		INSERT INTO pos_shifts (` + posShiftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	closedBy := (*string)(nil)
	if shift.ClosedBy != "" {
		closedBy = &shift.ClosedBy
	}
	_, err := r.q.Exec(ctx, query,
		shift.ID, shift.TenantID, shift.Status, shift.OpenedBy, closedBy,
		shift.OpeningFloat, shift.ClosingFloat,
		shift.OpenedAt, shift.ClosedAt, shift.CreatedAt, shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pos shift: %w", err)
	}
	return nil
}

// GetShift obtiene un turno por ID.
func (r *POSRepo) GetShift(ctx context.Context, tenantID, id string) (*entity.POSShift, error) {
	query := `
		SELECT ` + posShiftColumns + `
		FROM pos_shifts WHERE tenant_id = $1 AND id = $2`
	var s entity.POSShift
	var closedBy *string
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&s.ID, &s.TenantID, &s.Status, &s.OpenedBy, &closedBy,
		&s.OpeningFloat, &s.ClosingFloat,
		&s.OpenedAt, &s.ClosedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pos shift: %w", err)
	}
	if closedBy != nil {
		s.ClosedBy = *closedBy
	}
	return &s, nil
}

// UpdateShift persiste el cierre de un turno.
func (r *POSRepo) UpdateShift(ctx context.Context, shift *entity.POSShift) error {
	query := `
		UPDATE pos_shifts
		SET status = $2, closed_by = $3, closing_float = $4, closed_at = $5, updated_at = $6
		WHERE id = $1`
	closedBy := (*string)(nil)
	if shift.ClosedBy != "" {
		closedBy = &shift.ClosedBy
	}
	_, err := r.q.Exec(ctx, query,
		shift.ID, shift.Status, closedBy, shift.ClosingFloat, shift.ClosedAt, shift.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pos shift: %w", err)
	}
	return nil
}

const posSaleColumns = `id, tenant_id, shift_id, warehouse_id, reference, status, subtotal, tax_amount, total_amount, paid_amount, change_due, stock_movement_id, metadata, created_at, updated_at`

// CreateSale persiste una venta de caja con sus líneas.
func (r *POSRepo) CreateSale(ctx context.Context, sale *entity.POSSale, items []*entity.POSSaleItem) error {
	query := `
		INSERT INTO pos_sales (` + posSaleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.TenantID, sale.ShiftID, sale.WarehouseID,
		sale.Reference, sale.Status,
		sale.Subtotal, sale.TaxAmount, sale.TotalAmount, sale.PaidAmount, sale.ChangeDue,
		sale.StockMovementID, sale.Metadata, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pos sale: %w", err)
	}
	itemQuery := `
		INSERT INTO pos_sale_items (id, tenant_id, sale_id, variant_id, quantity, unit_price, discount, tax_rate, line_total, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.TenantID, it.SaleID, it.VariantID,
			it.Quantity, it.UnitPrice, it.Discount, it.TaxRate, it.LineTotal,
			it.Metadata, it.CreatedAt, it.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert pos sale item: %w", err)
		}
	}
	return nil
}

// GetSale obtiene una venta por ID.
func (r *POSRepo) GetSale(ctx context.Context, tenantID, id string) (*entity.POSSale, error) {
	query := `
		SELECT ` + posSaleColumns + `
		FROM pos_sales WHERE tenant_id = $1 AND id = $2`
	var s entity.POSSale
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&s.ID, &s.TenantID, &s.ShiftID, &s.WarehouseID,
		&s.Reference, &s.Status,
		&s.Subtotal, &s.TaxAmount, &s.TotalAmount, &s.PaidAmount, &s.ChangeDue,
		&s.StockMovementID, &s.Metadata, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pos sale: %w", err)
	}
	return &s, nil
}

// SaleItems lista las líneas de una venta.
func (r *POSRepo) SaleItems(ctx context.Context, tenantID, saleID string) ([]*entity.POSSaleItem, error) {
	query := `
		SELECT id, tenant_id, sale_id, variant_id, quantity, unit_price, discount, tax_rate, line_total, metadata, created_at, updated_at
		FROM pos_sale_items WHERE tenant_id = $1 AND sale_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, saleID)
	if err != nil {
		return nil, fmt.Errorf("list pos sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.POSSaleItem
	for rows.Next() {
		var it entity.POSSaleItem
		if err := rows.Scan(&it.ID, &it.TenantID, &it.SaleID, &it.VariantID,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.TaxRate, &it.LineTotal,
			&it.Metadata, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pos sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateSale persiste totales, estado y movimiento enlazado de una venta.
func (r *POSRepo) UpdateSale(ctx context.Context, sale *entity.POSSale) error {
	query := `
		UPDATE pos_sales
		SET status = $2, subtotal = $3, tax_amount = $4, total_amount = $5, paid_amount = $6, change_due = $7, stock_movement_id = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.Status,
		sale.Subtotal, sale.TaxAmount, sale.TotalAmount, sale.PaidAmount, sale.ChangeDue,
		sale.StockMovementID, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pos sale: %w", err)
	}
	return nil
}

// UpdateSaleItem persiste el total recalculado de una línea.
func (r *POSRepo) UpdateSaleItem(ctx context.Context, item *entity.POSSaleItem) error {
	query := `
		UPDATE pos_sale_items
		SET quantity = $2, unit_price = $3, discount = $4, tax_rate = $5, line_total = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Quantity, item.UnitPrice, item.Discount, item.TaxRate, item.LineTotal, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pos sale item: %w", err)
	}
	return nil
}

// CreatePayment persiste un pago de venta de caja.
func (r *POSRepo) CreatePayment(ctx context.Context, payment *entity.POSSalePayment) error {
	query := `
		INSERT INTO pos_sale_payments (id, tenant_id, sale_id, amount, method, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		payment.ID, payment.TenantID, payment.SaleID, payment.Amount,
		payment.Method, payment.Status, payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pos sale payment: %w", err)
	}
	return nil
}

// ListPostedPayments lista los pagos asentados de una venta.
func (r *POSRepo) ListPostedPayments(ctx context.Context, tenantID, saleID string) ([]*entity.POSSalePayment, error) {
	query := `
		SELECT id, tenant_id, sale_id, amount, method, status, created_at, updated_at
		FROM pos_sale_payments
		WHERE tenant_id = $1 AND sale_id = $2 AND status = $3 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, saleID, entity.POSSalePaymentStatusPosted)
	if err != nil {
		return nil, fmt.Errorf("list pos sale payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.POSSalePayment
	for rows.Next() {
		var p entity.POSSalePayment
		if err := rows.Scan(&p.ID, &p.TenantID, &p.SaleID, &p.Amount, &p.Method, &p.Status,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pos sale payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
