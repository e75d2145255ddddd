package repository

import (
	"context"

	"github.com/irshados/backoffice/internal/domain/entity"
)

// SalesRepository puerto de persistencia del dominio de ventas.
// Los contadores de línea (delivered/invoiced) solo los muta el ciclo de vida documental.
type SalesRepository interface {
	CreateOrder(ctx context.Context, order *entity.SalesOrder, lines []*entity.SalesOrderLine) error
	GetOrder(ctx context.Context, tenantID, id string) (*entity.SalesOrder, error)
	OrderLines(ctx context.Context, tenantID, orderID string) ([]*entity.SalesOrderLine, error)
	GetOrderLine(ctx context.Context, tenantID, id string) (*entity.SalesOrderLine, error)
	UpdateOrderStatus(ctx context.Context, order *entity.SalesOrder) error
	UpdateOrderLineCounters(ctx context.Context, line *entity.SalesOrderLine) error

	CreateDelivery(ctx context.Context, delivery *entity.DeliveryNote, lines []*entity.DeliveryNoteLine) error
	GetDelivery(ctx context.Context, tenantID, id string) (*entity.DeliveryNote, error)
	DeliveryLines(ctx context.Context, tenantID, deliveryID string) ([]*entity.DeliveryNoteLine, error)
	UpdateDelivery(ctx context.Context, delivery *entity.DeliveryNote) error

	CreateInvoice(ctx context.Context, invoice *entity.SalesInvoice, lines []*entity.SalesInvoiceLine) error
	GetInvoice(ctx context.Context, tenantID, id string) (*entity.SalesInvoice, error)
	InvoiceLines(ctx context.Context, tenantID, invoiceID string) ([]*entity.SalesInvoiceLine, error)
	UpdateInvoice(ctx context.Context, invoice *entity.SalesInvoice) error
	// HasPaidInvoice indica si la orden tiene al menos una factura pagada.
	HasPaidInvoice(ctx context.Context, tenantID, orderID string) (bool, error)

	CreatePayment(ctx context.Context, payment *entity.SalesPayment) error
	GetPayment(ctx context.Context, tenantID, id string) (*entity.SalesPayment, error)
	ListPostedPayments(ctx context.Context, tenantID, invoiceID string) ([]*entity.SalesPayment, error)

	CreateRefund(ctx context.Context, refund *entity.SalesRefund) error
}
