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

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo implementación de SalesRepository sobre PostgreSQL (usable con pool o tx).
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// CreateOrder persiste una orden de venta con sus líneas.
func (r *SalesRepo) CreateOrder(ctx context.Context, order *entity.SalesOrder, lines []*entity.SalesOrderLine) error {
	query := `
		INSERT INTO sales_orders (id, tenant_id, number, customer_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.TenantID, order.Number, order.CustomerID,
		order.Status, order.Notes, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	lineQuery := `
		INSERT INTO sales_order_lines (id, tenant_id, order_id, variant_id, ordered_quantity, delivered_quantity, invoiced_quantity, unit_price, tax_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.TenantID, l.OrderID, l.VariantID,
			l.OrderedQuantity, l.DeliveredQuantity, l.InvoicedQuantity,
			l.UnitPrice, l.TaxRate, l.CreatedAt, l.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert sales order line: %w", err)
		}
	}
	return nil
}

// GetOrder obtiene una orden de venta por ID.
func (r *SalesRepo) GetOrder(ctx context.Context, tenantID, id string) (*entity.SalesOrder, error) {
	query := `
		SELECT id, tenant_id, number, customer_id, status, notes, created_at, updated_at
		FROM sales_orders WHERE tenant_id = $1 AND id = $2`
	var o entity.SalesOrder
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&o.ID, &o.TenantID, &o.Number, &o.CustomerID,
		&o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	return &o, nil
}

const salesOrderLineColumns = `id, tenant_id, order_id, variant_id, ordered_quantity, delivered_quantity, invoiced_quantity, unit_price, tax_rate, created_at, updated_at`

// OrderLines lista las líneas de una orden de venta.
func (r *SalesRepo) OrderLines(ctx context.Context, tenantID, orderID string) ([]*entity.SalesOrderLine, error) {
	query := `
		SELECT ` + salesOrderLineColumns + `
		FROM sales_order_lines WHERE tenant_id = $1 AND order_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, orderID)
	if err != nil {
		return nil, fmt.Errorf("list sales order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrderLine
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.TenantID, &l.OrderID, &l.VariantID,
			&l.OrderedQuantity, &l.DeliveredQuantity, &l.InvoicedQuantity,
			&l.UnitPrice, &l.TaxRate, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sales order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// GetOrderLine obtiene una línea de orden de venta por ID.
func (r *SalesRepo) GetOrderLine(ctx context.Context, tenantID, id string) (*entity.SalesOrderLine, error) {
	query := `
		SELECT ` + salesOrderLineColumns + `
		FROM sales_order_lines WHERE tenant_id = $1 AND id = $2`
	var l entity.SalesOrderLine
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&l.ID, &l.TenantID, &l.OrderID, &l.VariantID,
		&l.OrderedQuantity, &l.DeliveredQuantity, &l.InvoicedQuantity,
		&l.UnitPrice, &l.TaxRate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order line: %w", err)
	}
	return &l, nil
}

// UpdateOrderStatus persiste el estado de una orden de venta.
func (r *SalesRepo) UpdateOrderStatus(ctx context.Context, order *entity.SalesOrder) error {
	query := `UPDATE sales_orders SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, order.ID, order.Status, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sales order status: %w", err)
	}
	return nil
}

// UpdateOrderLineCounters persiste los contadores corrientes de una línea.
func (r *SalesRepo) UpdateOrderLineCounters(ctx context.Context, line *entity.SalesOrderLine) error {
	query := `
		UPDATE sales_order_lines
		SET delivered_quantity = $2, invoiced_quantity = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, line.ID, line.DeliveredQuantity, line.InvoicedQuantity, line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sales order line counters: %w", err)
	}
	return nil
}

// CreateDelivery persiste una remisión con sus líneas.
func (r *SalesRepo) CreateDelivery(ctx context.Context, delivery *entity.DeliveryNote, lines []*entity.DeliveryNoteLine) error {
	query := `
		INSERT INTO delivery_notes (id, tenant_id, order_id, warehouse_id, number, status, stock_movement_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		delivery.ID, delivery.TenantID, delivery.OrderID, delivery.WarehouseID,
		delivery.Number, delivery.Status, delivery.StockMovementID, delivery.Notes,
		delivery.CreatedAt, delivery.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert delivery note: %w", err)
	}
	lineQuery := `
		INSERT INTO delivery_note_lines (id, tenant_id, delivery_id, order_line_id, variant_id, quantity, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.TenantID, l.DeliveryID, l.OrderLineID, l.VariantID,
			l.Quantity, l.Metadata, l.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert delivery note line: %w", err)
		}
	}
	return nil
}

// GetDelivery obtiene una remisión por ID.
func (r *SalesRepo) GetDelivery(ctx context.Context, tenantID, id string) (*entity.DeliveryNote, error) {
	query := `
		SELECT id, tenant_id, order_id, warehouse_id, number, status, stock_movement_id, notes, created_at, updated_at
		FROM delivery_notes WHERE tenant_id = $1 AND id = $2`
	var d entity.DeliveryNote
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&d.ID, &d.TenantID, &d.OrderID, &d.WarehouseID,
		&d.Number, &d.Status, &d.StockMovementID, &d.Notes,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery note: %w", err)
	}
	return &d, nil
}

// DeliveryLines lista las líneas de una remisión.
func (r *SalesRepo) DeliveryLines(ctx context.Context, tenantID, deliveryID string) ([]*entity.DeliveryNoteLine, error) {
	query := `
		SELECT id, tenant_id, delivery_id, order_line_id, variant_id, quantity, metadata, created_at
		FROM delivery_note_lines WHERE tenant_id = $1 AND delivery_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("list delivery note lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeliveryNoteLine
	for rows.Next() {
		var l entity.DeliveryNoteLine
		if err := rows.Scan(&l.ID, &l.TenantID, &l.DeliveryID, &l.OrderLineID, &l.VariantID,
			&l.Quantity, &l.Metadata, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery note line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateDelivery persiste estado y movimiento enlazado de una remisión.
func (r *SalesRepo) UpdateDelivery(ctx context.Context, delivery *entity.DeliveryNote) error {
	query := `
		UPDATE delivery_notes
		SET status = $2, stock_movement_id = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, delivery.ID, delivery.Status, delivery.StockMovementID, delivery.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update delivery note: %w", err)
	}
	return nil
}

// CreateInvoice persiste una factura de venta con sus líneas.
func (r *SalesRepo) CreateInvoice(ctx context.Context, invoice *entity.SalesInvoice, lines []*entity.SalesInvoiceLine) error {
	query := `
		INSERT INTO sales_invoices (id, tenant_id, order_id, customer_id, number, status, subtotal, tax_amount, total_amount, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.TenantID, invoice.OrderID, invoice.CustomerID,
		invoice.Number, invoice.Status,
		invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount, invoice.DueDate,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sales invoice: %w", err)
	}
	lineQuery := `
		INSERT INTO sales_invoice_lines (id, tenant_id, invoice_id, order_line_id, variant_id, quantity, unit_price, tax_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.TenantID, l.InvoiceID, l.OrderLineID, l.VariantID,
			l.Quantity, l.UnitPrice, l.TaxRate, l.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert sales invoice line: %w", err)
		}
	}
	return nil
}

// GetInvoice obtiene una factura de venta por ID.
func (r *SalesRepo) GetInvoice(ctx context.Context, tenantID, id string) (*entity.SalesInvoice, error) {
	query := `
		SELECT id, tenant_id, order_id, customer_id, number, status, subtotal, tax_amount, total_amount, due_date, created_at, updated_at
		FROM sales_invoices WHERE tenant_id = $1 AND id = $2`
	var inv entity.SalesInvoice
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&inv.ID, &inv.TenantID, &inv.OrderID, &inv.CustomerID,
		&inv.Number, &inv.Status,
		&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.DueDate,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales invoice: %w", err)
	}
	return &inv, nil
}

// InvoiceLines lista las líneas de una factura de venta.
func (r *SalesRepo) InvoiceLines(ctx context.Context, tenantID, invoiceID string) ([]*entity.SalesInvoiceLine, error) {
	query := `
		SELECT id, tenant_id, invoice_id, order_line_id, variant_id, quantity, unit_price, tax_rate, created_at
		FROM sales_invoice_lines WHERE tenant_id = $1 AND invoice_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list sales invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesInvoiceLine
	for rows.Next() {
		var l entity.SalesInvoiceLine
		if err := rows.Scan(&l.ID, &l.TenantID, &l.InvoiceID, &l.OrderLineID, &l.VariantID,
			&l.Quantity, &l.UnitPrice, &l.TaxRate, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sales invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateInvoice persiste estado y totales de una factura de venta.
func (r *SalesRepo) UpdateInvoice(ctx context.Context, invoice *entity.SalesInvoice) error {
	query := `
		UPDATE sales_invoices
		SET status = $2, subtotal = $3, tax_amount = $4, total_amount = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.Status, invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sales invoice: %w", err)
	}
	return nil
}

// HasPaidInvoice indica si la orden tiene al menos una factura pagada.
func (r *SalesRepo) HasPaidInvoice(ctx context.Context, tenantID, orderID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sales_invoices
			WHERE tenant_id = $1 AND order_id = $2 AND status = $3
		)`
	var exists bool
	err := r.q.QueryRow(ctx, query, tenantID, orderID, entity.SalesInvoiceStatusPaid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has paid invoice: %w", err)
	}
	return exists, nil
}

// CreatePayment persiste un cobro de cliente.
func (r *SalesRepo) CreatePayment(ctx context.Context, payment *entity.SalesPayment) error {
	query := `
		INSERT INTO sales_payments (id, tenant_id, invoice_id, amount, method, status, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		payment.ID, payment.TenantID, payment.InvoiceID, payment.Amount,
		payment.Method, payment.Status, payment.PaidAt,
		payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sales payment: %w", err)
	}
	return nil
}

// GetPayment obtiene un cobro por ID.
func (r *SalesRepo) GetPayment(ctx context.Context, tenantID, id string) (*entity.SalesPayment, error) {
	query := `
		SELECT id, tenant_id, invoice_id, amount, method, status, paid_at, created_at, updated_at
		FROM sales_payments WHERE tenant_id = $1 AND id = $2`
	var p entity.SalesPayment
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&p.ID, &p.TenantID, &p.InvoiceID, &p.Amount, &p.Method, &p.Status,
		&p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales payment: %w", err)
	}
	return &p, nil
}

// ListPostedPayments lista los cobros asentados de una factura.
func (r *SalesRepo) ListPostedPayments(ctx context.Context, tenantID, invoiceID string) ([]*entity.SalesPayment, error) {
	query := `
		SELECT id, tenant_id, invoice_id, amount, method, status, paid_at, created_at, updated_at
		FROM sales_payments
		WHERE tenant_id = $1 AND invoice_id = $2 AND status = $3 ORDER BY paid_at`
	rows, err := r.q.Query(ctx, query, tenantID, invoiceID, entity.SalesPaymentStatusPosted)
	if err != nil {
		return nil, fmt.Errorf("list sales payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesPayment
	for rows.Next() {
		var p entity.SalesPayment
		if err := rows.Scan(&p.ID, &p.TenantID, &p.InvoiceID, &p.Amount, &p.Method, &p.Status,
			&p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sales payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// CreateRefund persiste una devolución.
func (r *SalesRepo) CreateRefund(ctx context.Context, refund *entity.SalesRefund) error {
	query := `
		INSERT INTO sales_refunds (id, tenant_id, invoice_id, amount, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		refund.ID, refund.TenantID, refund.InvoiceID, refund.Amount, refund.Reason, refund.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sales refund: %w", err)
	}
	return nil
}
