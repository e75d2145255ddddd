package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	dominv "github.com/irshados/backoffice/internal/domain/inventory"
	"github.com/irshados/backoffice/internal/domain/repository"
)

// Creación de documentos en borrador. El asiento (post) es la única operación
// que produce efectos sobre stock y contadores.

// OrderLineInput línea para crear una orden de venta.
type OrderLineInput struct {
	VariantID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
}

// CreateOrderInput entrada para crear una orden de venta en borrador.
type CreateOrderInput struct {
	Number     string
	CustomerID string
	Notes      string
	Lines      []OrderLineInput
}

// CreateOrder crea una orden de venta en DRAFT con sus líneas.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.SalesOrder, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyLines
	}
	now := time.Now()
	order := &entity.SalesOrder{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		Number:     in.Number,
		CustomerID: in.CustomerID,
		Status:     entity.SalesOrderStatusDraft,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	lines := make([]*entity.SalesOrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.VariantID == "" || !l.Quantity.IsPositive() || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, &entity.SalesOrderLine{
			ID:                uuid.New().String(),
			TenantID:          tenantID,
			OrderID:           order.ID,
			VariantID:         l.VariantID,
			OrderedQuantity:   dominv.QuantizeQuantity(l.Quantity),
			DeliveredQuantity: decimal.Zero,
			InvoicedQuantity:  decimal.Zero,
			UnitPrice:         dominv.QuantizeCurrency(l.UnitPrice),
			TaxRate:           l.TaxRate,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Sales.CreateOrder(ctx, order, lines)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// DeliveryLineInput línea para crear una remisión.
type DeliveryLineInput struct {
	OrderLineID string // opcional
	VariantID   string
	Quantity    decimal.Decimal
}

// CreateDeliveryInput entrada para crear una remisión en borrador.
type CreateDeliveryInput struct {
	OrderID     string
	WarehouseID string
	Number      string
	Notes       string
	Lines       []DeliveryLineInput
}

// CreateDelivery crea una remisión en DRAFT contra una orden de venta existente.
func (uc *UseCase) CreateDelivery(ctx context.Context, in CreateDeliveryInput) (*entity.DeliveryNote, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if in.OrderID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	delivery := &entity.DeliveryNote{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		OrderID:     in.OrderID,
		WarehouseID: in.WarehouseID,
		Number:      in.Number,
		Status:      entity.DeliveryNoteStatusDraft,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	lines := make([]*entity.DeliveryNoteLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.VariantID == "" || !l.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		line := &entity.DeliveryNoteLine{
			ID:         uuid.New().String(),
			TenantID:   tenantID,
			DeliveryID: delivery.ID,
			VariantID:  l.VariantID,
			Quantity:   dominv.QuantizeQuantity(l.Quantity),
			CreatedAt:  now,
		}
		if l.OrderLineID != "" {
			id := l.OrderLineID
			line.OrderLineID = &id
		}
		lines = append(lines, line)
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		order, err := tx.Sales.GetOrder(ctx, tenantID, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return tx.Sales.CreateDelivery(ctx, delivery, lines)
	})
	if err != nil {
		return nil, err
	}
	return delivery, nil
}

// InvoiceLineInput línea para crear una factura de venta.
type InvoiceLineInput struct {
	OrderLineID string // opcional
	VariantID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// CreateInvoiceInput entrada para crear una factura de venta en borrador.
type CreateInvoiceInput struct {
	OrderID string
	Number  string
	DueDate *time.Time
	Lines   []InvoiceLineInput
}

// CreateInvoice crea una factura de venta en DRAFT contra una orden existente.
func (uc *UseCase) CreateInvoice(ctx context.Context, in CreateInvoiceInput) (*entity.SalesInvoice, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if in.OrderID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	invoice := &entity.SalesInvoice{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		OrderID:   in.OrderID,
		Number:    in.Number,
		Status:    entity.SalesInvoiceStatusDraft,
		DueDate:   in.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	lines := make([]*entity.SalesInvoiceLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.VariantID == "" || !l.Quantity.IsPositive() || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		line := &entity.SalesInvoiceLine{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			InvoiceID: invoice.ID,
			VariantID: l.VariantID,
			Quantity:  dominv.QuantizeQuantity(l.Quantity),
			UnitPrice: dominv.QuantizeCurrency(l.UnitPrice),
			TaxRate:   l.TaxRate,
			CreatedAt: now,
		}
		if l.OrderLineID != "" {
			id := l.OrderLineID
			line.OrderLineID = &id
		}
		lines = append(lines, line)
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		order, err := tx.Sales.GetOrder(ctx, tenantID, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return tx.Sales.CreateInvoice(ctx, invoice, lines)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// CreatePaymentInput entrada para registrar un cobro de cliente.
type CreatePaymentInput struct {
	InvoiceID string
	Amount    decimal.Decimal
	Method    string
}

// CreatePayment registra un cobro asentado contra una factura de venta y
// aplica su efecto inmediatamente (PostPayment).
func (uc *UseCase) CreatePayment(ctx context.Context, in CreatePaymentInput) (*entity.SalesPayment, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if in.InvoiceID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	payment := &entity.SalesPayment{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		InvoiceID: in.InvoiceID,
		Amount:    dominv.QuantizeCurrency(in.Amount),
		Method:    in.Method,
		Status:    entity.SalesPaymentStatusPosted,
		PaidAt:    now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		invoice, err := tx.Sales.GetInvoice(ctx, tenantID, in.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		return tx.Sales.CreatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return uc.PostPayment(ctx, payment.ID)
}
