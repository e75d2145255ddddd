package repository

import (
	"context"

	"github.com/irshados/backoffice/internal/domain/entity"
)

// PurchasingRepository puerto de persistencia del dominio de compras.
// Los contadores de línea (received/billed) solo los muta el ciclo de vida documental.
type PurchasingRepository interface {
	CreateOrder(ctx context.Context, order *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) error
	GetOrder(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error)
	OrderLines(ctx context.Context, tenantID, orderID string) ([]*entity.PurchaseOrderLine, error)
	GetOrderLine(ctx context.Context, tenantID, id string) (*entity.PurchaseOrderLine, error)
	UpdateOrderStatus(ctx context.Context, order *entity.PurchaseOrder) error
	UpdateOrderLineCounters(ctx context.Context, line *entity.PurchaseOrderLine) error

	CreateReceipt(ctx context.Context, receipt *entity.PurchaseReceipt, lines []*entity.PurchaseReceiptLine) error
	GetReceipt(ctx context.Context, tenantID, id string) (*entity.PurchaseReceipt, error)
	ReceiptLines(ctx context.Context, tenantID, receiptID string) ([]*entity.PurchaseReceiptLine, error)
	UpdateReceipt(ctx context.Context, receipt *entity.PurchaseReceipt) error

	CreateBill(ctx context.Context, bill *entity.PurchaseBill, lines []*entity.PurchaseBillLine) error
	GetBill(ctx context.Context, tenantID, id string) (*entity.PurchaseBill, error)
	BillLines(ctx context.Context, tenantID, billID string) ([]*entity.PurchaseBillLine, error)
	UpdateBill(ctx context.Context, bill *entity.PurchaseBill) error
	// HasPaidBill indica si la orden tiene al menos una factura de proveedor pagada.
	HasPaidBill(ctx context.Context, tenantID, orderID string) (bool, error)

	CreatePayment(ctx context.Context, payment *entity.PurchasePayment) error
	GetPayment(ctx context.Context, tenantID, id string) (*entity.PurchasePayment, error)
	ListPostedPayments(ctx context.Context, tenantID, billID string) ([]*entity.PurchasePayment, error)
}
