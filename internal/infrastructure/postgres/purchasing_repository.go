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

var _ repository.PurchasingRepository = (*PurchasingRepo)(nil)

// PurchasingRepo implementación de PurchasingRepository sobre PostgreSQL (usable con pool o tx).
type PurchasingRepo struct {
	q Querier
}

// NewPurchasingRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchasingRepository(q Querier) *PurchasingRepo {
	return &PurchasingRepo{q: q}
}

// CreateOrder persiste una orden de compra con sus líneas.
func (r *PurchasingRepo) CreateOrder(ctx context.Context, order *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) error {
	query := `
		INSERT INTO purchase_orders (id, tenant_id, number, supplier_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.TenantID, order.Number, order.SupplierID,
		order.Status, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_order_lines (id, tenant_id, order_id, variant_id, ordered_quantity, received_quantity, billed_quantity, unit_price, tax_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.TenantID, l.OrderID, l.VariantID,
			l.OrderedQuantity, l.ReceivedQuantity, l.BilledQuantity,
			l.UnitPrice, l.TaxRate, l.CreatedAt, l.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	return nil
}

// GetOrder obtiene una orden de compra por ID.
func (r *PurchasingRepo) GetOrder(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, tenant_id, number, supplier_id, status, notes, created_at, updated_at
		FROM purchase_orders WHERE tenant_id = $1 AND id = $2`
	var o entity.PurchaseOrder
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&o.ID, &o.TenantID, &o.Number, &o.SupplierID,
		&o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &o, nil
}

const purchaseOrderLineColumns = `id, tenant_id, order_id, variant_id, ordered_quantity, received_quantity, billed_quantity, unit_price, tax_rate, created_at, updated_at`

// OrderLines lista las líneas de una orden de compra.
func (r *PurchasingRepo) OrderLines(ctx context.Context, tenantID, orderID string) ([]*entity.PurchaseOrderLine, error) {
	query := `
		SELECT ` + purchaseOrderLineColumns + `
		FROM purchase_order_lines WHERE tenant_id = $1 AND order_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.TenantID, &l.OrderID, &l.VariantID,
			&l.OrderedQuantity, &l.ReceivedQuantity, &l.BilledQuantity,
			&l.UnitPrice, &l.TaxRate, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// GetOrderLine obtiene una línea de orden de compra por ID.
func (r *PurchasingRepo) GetOrderLine(ctx context.Context, tenantID, id string) (*entity.PurchaseOrderLine, error) {
	query := `
		SELECT ` + purchaseOrderLineColumns + `
		FROM purchase_order_lines WHERE tenant_id = $1 AND id = $2`
	var l entity.PurchaseOrderLine
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&l.ID, &l.TenantID, &l.OrderID, &l.VariantID,
		&l.OrderedQuantity, &l.ReceivedQuantity, &l.BilledQuantity,
		&l.UnitPrice, &l.TaxRate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order line: %w", err)
	}
	return &l, nil
}

// UpdateOrderStatus persiste el estado de una orden.
func (r *PurchasingRepo) UpdateOrderStatus(ctx context.Context, order *entity.PurchaseOrder) error {
	query := `UPDATE purchase_orders SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, order.ID, order.Status, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// UpdateOrderLineCounters persiste los contadores corrientes de una línea.
func (r *PurchasingRepo) UpdateOrderLineCounters(ctx context.Context, line *entity.PurchaseOrderLine) error {
	query := `
		UPDATE purchase_order_lines
		SET received_quantity = $2, billed_quantity = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, line.ID, line.ReceivedQuantity, line.BilledQuantity, line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order line counters: %w", err)
	}
	return nil
}

// CreateReceipt persiste una recepción con sus líneas.
func (r *PurchasingRepo) CreateReceipt(ctx context.Context, receipt *entity.PurchaseReceipt, lines []*entity.PurchaseReceiptLine) error {
	query := `
		INSERT INTO purchase_receipts (id, tenant_id, order_id, warehouse_id, number, status, stock_movement_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		receipt.ID, receipt.TenantID, receipt.OrderID, receipt.WarehouseID,
		receipt.Number, receipt.Status, receipt.StockMovementID, receipt.Notes,
		receipt.CreatedAt, receipt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase receipt: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_receipt_lines (id, tenant_id, receipt_id, order_line_id, variant_id, quantity, unit_cost, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.TenantID, l.ReceiptID, l.OrderLineID, l.VariantID,
			l.Quantity, l.UnitCost, l.Metadata, l.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert purchase receipt line: %w", err)
		}
	}
	return nil
}

// GetReceipt obtiene una recepción por ID.
func (r *PurchasingRepo) GetReceipt(ctx context.Context, tenantID, id string) (*entity.PurchaseReceipt, error) {
	query := `
		SELECT id, tenant_id, order_id, warehouse_id, number, status, stock_movement_id, notes, created_at, updated_at
		FROM purchase_receipts WHERE tenant_id = $1 AND id = $2`
	var rc entity.PurchaseReceipt
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&rc.ID, &rc.TenantID, &rc.OrderID, &rc.WarehouseID,
		&rc.Number, &rc.Status, &rc.StockMovementID, &rc.Notes,
		&rc.CreatedAt, &rc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase receipt: %w", err)
	}
	return &rc, nil
}

// ReceiptLines lista las líneas de una recepción.
func (r *PurchasingRepo) ReceiptLines(ctx context.Context, tenantID, receiptID string) ([]*entity.PurchaseReceiptLine, error) {
	query := `
		SELECT id, tenant_id, receipt_id, order_line_id, variant_id, quantity, unit_cost, metadata, created_at
		FROM purchase_receipt_lines WHERE tenant_id = $1 AND receipt_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list purchase receipt lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseReceiptLine
	for rows.Next() {
		var l entity.PurchaseReceiptLine
		if err := rows.Scan(&l.ID, &l.TenantID, &l.ReceiptID, &l.OrderLineID, &l.VariantID,
			&l.Quantity, &l.UnitCost, &l.Metadata, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase receipt line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateReceipt persiste estado y movimiento enlazado de una recepción.
func (r *PurchasingRepo) UpdateReceipt(ctx context.Context, receipt *entity.PurchaseReceipt) error {
	query := `
		UPDATE purchase_receipts
		SET status = $2, stock_movement_id = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, receipt.ID, receipt.Status, receipt.StockMovementID, receipt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase receipt: %w", err)
	}
	return nil
}

// CreateBill persiste una factura de proveedor con sus líneas.
func (r *PurchasingRepo) CreateBill(ctx context.Context, bill *entity.PurchaseBill, lines []*entity.PurchaseBillLine) error {
	query := `
		INSERT INTO purchase_bills (id, tenant_id, order_id, number, status, subtotal, tax_amount, total_amount, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		bill.ID, bill.TenantID, bill.OrderID, bill.Number, bill.Status,
		bill.Subtotal, bill.TaxAmount, bill.TotalAmount, bill.DueDate,
		bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase bill: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_bill_lines (id, tenant_id, bill_id, order_line_id, variant_id, quantity, unit_price, tax_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.TenantID, l.BillID, l.OrderLineID, l.VariantID,
			l.Quantity, l.UnitPrice, l.TaxRate, l.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert purchase bill line: %w", err)
		}
	}
	return nil
}

// GetBill obtiene una factura de proveedor por ID.
func (r *PurchasingRepo) GetBill(ctx context.Context, tenantID, id string) (*entity.PurchaseBill, error) {
	query := `
		SELECT id, tenant_id, order_id, number, status, subtotal, tax_amount, total_amount, due_date, created_at, updated_at
		FROM purchase_bills WHERE tenant_id = $1 AND id = $2`
	var b entity.PurchaseBill
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&b.ID, &b.TenantID, &b.OrderID, &b.Number, &b.Status,
		&b.Subtotal, &b.TaxAmount, &b.TotalAmount, &b.DueDate,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase bill: %w", err)
	}
	return &b, nil
}

// BillLines lista las líneas de una factura de proveedor.
func (r *PurchasingRepo) BillLines(ctx context.Context, tenantID, billID string) ([]*entity.PurchaseBillLine, error) {
	query := `
		SELECT id, tenant_id, bill_id, order_line_id, variant_id, quantity, unit_price, tax_rate, created_at
		FROM purchase_bill_lines WHERE tenant_id = $1 AND bill_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, billID)
	if err != nil {
		return nil, fmt.Errorf("list purchase bill lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseBillLine
	for rows.Next() {
		var l entity.PurchaseBillLine
		if err := rows.Scan(&l.ID, &l.TenantID, &l.BillID, &l.OrderLineID, &l.VariantID,
			&l.Quantity, &l.UnitPrice, &l.TaxRate, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase bill line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateBill persiste estado y totales de una factura de proveedor.
func (r *PurchasingRepo) UpdateBill(ctx context.Context, bill *entity.PurchaseBill) error {
	query := `
		UPDATE purchase_bills
		SET status = $2, subtotal = $3, tax_amount = $4, total_amount = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		bill.ID, bill.Status, bill.Subtotal, bill.TaxAmount, bill.TotalAmount, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase bill: %w", err)
	}
	return nil
}

// HasPaidBill indica si la orden tiene al menos una factura de proveedor pagada.
func (r *PurchasingRepo) HasPaidBill(ctx context.Context, tenantID, orderID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM purchase_bills
			WHERE tenant_id = $1 AND order_id = $2 AND status = $3
		)`
	var exists bool
	err := r.q.QueryRow(ctx, query, tenantID, orderID, entity.PurchaseBillStatusPaid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has paid bill: %w", err)
	}
	return exists, nil
}

// CreatePayment persiste un pago de proveedor.
func (r *PurchasingRepo) CreatePayment(ctx context.Context, payment *entity.PurchasePayment) error {
	query := `
		INSERT INTO purchase_payments (id, tenant_id, bill_id, amount, method, status, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		payment.ID, payment.TenantID, payment.BillID, payment.Amount,
		payment.Method, payment.Status, payment.PaidAt,
		payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase payment: %w", err)
	}
	return nil
}

// GetPayment obtiene un pago de proveedor por ID.
func (r *PurchasingRepo) GetPayment(ctx context.Context, tenantID, id string) (*entity.PurchasePayment, error) {
	query := `
		SELECT id, tenant_id, bill_id, amount, method, status, paid_at, created_at, updated_at
		FROM purchase_payments WHERE tenant_id = $1 AND id = $2`
	var p entity.PurchasePayment
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&p.ID, &p.TenantID, &p.BillID, &p.Amount, &p.Method, &p.Status,
		&p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase payment: %w", err)
	}
	return &p, nil
}

// ListPostedPayments lista los pagos asentados de una factura de proveedor.
func (r *PurchasingRepo) ListPostedPayments(ctx context.Context, tenantID, billID string) ([]*entity.PurchasePayment, error) {
	query := `
		SELECT id, tenant_id, bill_id, amount, method, status, paid_at, created_at, updated_at
		FROM purchase_payments
		WHERE tenant_id = $1 AND bill_id = $2 AND status = $3 ORDER BY paid_at`
	rows, err := r.q.Query(ctx, query, tenantID, billID, entity.PurchasePaymentStatusPosted)
	if err != nil {
		return nil, fmt.Errorf("list purchase payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchasePayment
	for rows.Next() {
		var p entity.PurchasePayment
		if err := rows.Scan(&p.ID, &p.TenantID, &p.BillID, &p.Amount, &p.Method, &p.Status,
			&p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
