package purchasing

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

// Creación de documentos aguas abajo en borrador. El asiento (post) es la única
// operación que produce efectos sobre stock y contadores.

// ReceiptLineInput línea para crear una recepción.
type ReceiptLineInput struct {
	OrderLineID string // opcional
	VariantID   string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
}

// CreateReceiptInput entrada para crear una recepción en borrador.
type CreateReceiptInput struct {
	OrderID     string
	WarehouseID string
	Number      string
	Notes       string
	Lines       []ReceiptLineInput
}

// CreateReceipt crea una recepción en DRAFT contra una orden de compra existente.
func (uc *UseCase) CreateReceipt(ctx context.Context, in CreateReceiptInput) (*entity.PurchaseReceipt, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if in.OrderID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	receipt := &entity.PurchaseReceipt{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		OrderID:     in.OrderID,
		WarehouseID: in.WarehouseID,
		Number:      in.Number,
		Status:      entity.PurchaseReceiptStatusDraft,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	lines := make([]*entity.PurchaseReceiptLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.VariantID == "" || !l.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		line := &entity.PurchaseReceiptLine{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			ReceiptID: receipt.ID,
			VariantID: l.VariantID,
			Quantity:  dominv.QuantizeQuantity(l.Quantity),
			UnitCost:  l.UnitCost,
			CreatedAt: now,
		}
		if l.OrderLineID != "" {
			id := l.OrderLineID
			line.OrderLineID = &id
		}
		lines = append(lines, line)
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		order, err := tx.Purchasing.GetOrder(ctx, tenantID, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return tx.Purchasing.CreateReceipt(ctx, receipt, lines)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// BillLineInput línea para crear una factura de proveedor.
type BillLineInput struct {
	OrderLineID string // opcional
	VariantID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// CreateBillInput entrada para crear una factura de proveedor en borrador.
type CreateBillInput struct {
	OrderID string
	Number  string
	DueDate *time.Time
	Lines   []BillLineInput
}

// CreateBill crea una factura de proveedor en DRAFT contra una orden existente.
func (uc *UseCase) CreateBill(ctx context.Context, in CreateBillInput) (*entity.PurchaseBill, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if in.OrderID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	bill := &entity.PurchaseBill{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		OrderID:   in.OrderID,
		Number:    in.Number,
		Status:    entity.PurchaseBillStatusDraft,
		DueDate:   in.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	lines := make([]*entity.PurchaseBillLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.VariantID == "" || !l.Quantity.IsPositive() || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		line := &entity.PurchaseBillLine{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			BillID:    bill.ID,
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
		order, err := tx.Purchasing.GetOrder(ctx, tenantID, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return tx.Purchasing.CreateBill(ctx, bill, lines)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// CreatePaymentInput entrada para registrar un pago de proveedor.
type CreatePaymentInput struct {
	BillID string
	Amount decimal.Decimal
	Method string
}

// CreatePayment registra un pago asentado contra una factura de proveedor y
// aplica su efecto inmediatamente (PostPayment).
func (uc *UseCase) CreatePayment(ctx context.Context, in CreatePaymentInput) (*entity.PurchasePayment, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if in.BillID == "" || !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	payment := &entity.PurchasePayment{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		BillID:    in.BillID,
		Amount:    dominv.QuantizeCurrency(in.Amount),
		Method:    in.Method,
		Status:    entity.PurchasePaymentStatusPosted,
		PaidAt:    now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		bill, err := tx.Purchasing.GetBill(ctx, tenantID, in.BillID)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrNotFound
		}
		return tx.Purchasing.CreatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}
	return uc.PostPayment(ctx, payment.ID)
}
