package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	dominv "github.com/irshados/backoffice/internal/domain/inventory"
	"github.com/irshados/backoffice/internal/domain/repository"
	"github.com/irshados/backoffice/pkg/logger"
)

// TxRunner ejecuta una función dentro de una transacción de BD.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// Inventory puerto hacia el motor de inventario: asentar un movimiento dentro
// de la transacción del caller. Lo implementa inventory.UseCase.
type Inventory interface {
	RecordInTx(ctx context.Context, tx repository.Tx, input appinv.MovementInput) (*entity.StockMovement, error)
}

// UseCase ciclo de vida documental de compras: asentar recepciones, facturas de
// proveedor y pagos, mutar los contadores de línea y re-derivar el estado de la orden.
type UseCase struct {
	txRunner  TxRunner
	inventory Inventory
	log       *logger.Logger
}

// NewUseCase construye el ciclo de vida de compras.
func NewUseCase(txRunner TxRunner, inventory Inventory, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, inventory: inventory, log: log}
}

// OrderLineInput línea para crear una orden de compra.
type OrderLineInput struct {
	VariantID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal
}

// CreateOrderInput entrada para crear una orden de compra en borrador.
type CreateOrderInput struct {
	Number     string
	SupplierID string
	Notes      string
	Lines      []OrderLineInput
}

// CreateOrder crea una orden de compra en DRAFT con sus líneas.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.PurchaseOrder, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyLines
	}
	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		Number:     in.Number,
		SupplierID: in.SupplierID,
		Status:     entity.PurchaseOrderStatusDraft,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	lines := make([]*entity.PurchaseOrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.VariantID == "" || !l.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, &entity.PurchaseOrderLine{
			ID:              uuid.New().String(),
			TenantID:        tenantID,
			OrderID:         order.ID,
			VariantID:       l.VariantID,
			OrderedQuantity: dominv.QuantizeQuantity(l.Quantity),
			UnitPrice:       dominv.QuantizeCurrency(l.UnitPrice),
			TaxRate:         l.TaxRate,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Purchasing.CreateOrder(ctx, order, lines)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// PostReceipt asienta una recepción de compra: mueve stock (entrada), abona
// received_quantity en las líneas de la orden y re-deriva el estado.
// Idempotente: asentar una recepción ya asentada devuelve el estado actual sin
// re-aplicar efectos.
func (uc *UseCase) PostReceipt(ctx context.Context, receiptID, performedBy string) (*entity.PurchaseReceipt, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var receipt *entity.PurchaseReceipt
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		receipt, err = tx.Purchasing.GetReceipt(ctx, tenantID, receiptID)
		if err != nil {
			return err
		}
		if receipt == nil {
			return domain.ErrNotFound
		}
		if receipt.Status == entity.PurchaseReceiptStatusPosted {
			return nil // ya asentada
		}

		lines, err := tx.Purchasing.ReceiptLines(ctx, tenantID, receiptID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyLines
		}
		order, err := tx.Purchasing.GetOrder(ctx, tenantID, receipt.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		movementLines := make([]appinv.MovementLineInput, 0, len(lines))
		for _, line := range lines {
			unitCost := line.UnitCost
			if unitCost == nil && line.OrderLineID != nil {
				orderLine, err := tx.Purchasing.GetOrderLine(ctx, tenantID, *line.OrderLineID)
				if err != nil {
					return err
				}
				if orderLine == nil {
					return domain.ErrNotFound
				}
				price := orderLine.UnitPrice
				unitCost = &price
			}
			movementLines = append(movementLines, appinv.MovementLineInput{
				VariantID:     line.VariantID,
				WarehouseID:   receipt.WarehouseID,
				Quantity:      line.Quantity,
				UnitCost:      unitCost,
				ReferenceType: "purchase_order",
				ReferenceID:   order.ID,
				Note:          fmt.Sprintf("Recepción %s", receipt.Number),
				Metadata:      line.Metadata,
			})
		}

		movement, err := uc.inventory.RecordInTx(ctx, tx, appinv.MovementInput{
			MovementType:       entity.MovementTypePurchaseReceipt,
			Lines:              movementLines,
			ReferenceNumber:    receipt.Number,
			Description:        fmt.Sprintf("Recepción de la orden de compra %s", order.Number),
			PerformedBy:        performedBy,
			SourceDocumentType: "purchase_receipt",
			SourceDocumentID:   receipt.ID,
		})
		if err != nil {
			return err
		}

		for _, line := range lines {
			if line.OrderLineID == nil {
				continue
			}
			orderLine, err := tx.Purchasing.GetOrderLine(ctx, tenantID, *line.OrderLineID)
			if err != nil {
				return err
			}
			if orderLine == nil {
				return domain.ErrNotFound
			}
			orderLine.ReceivedQuantity = orderLine.ReceivedQuantity.Add(line.Quantity)
			orderLine.UpdatedAt = time.Now()
			if err := tx.Purchasing.UpdateOrderLineCounters(ctx, orderLine); err != nil {
				return err
			}
		}

		receipt.StockMovementID = &movement.ID
		receipt.Status = entity.PurchaseReceiptStatusPosted
		receipt.UpdatedAt = time.Now()
		if err := tx.Purchasing.UpdateReceipt(ctx, receipt); err != nil {
			return err
		}

		return uc.deriveOrder(ctx, tx, tenantID, order)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// PostBill asienta una factura de proveedor: calcula totales, abona
// billed_quantity y re-deriva la orden. No mueve stock. Idempotente.
func (uc *UseCase) PostBill(ctx context.Context, billID string) (*entity.PurchaseBill, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var bill *entity.PurchaseBill
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		bill, err = tx.Purchasing.GetBill(ctx, tenantID, billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrNotFound
		}
		if bill.Status == entity.PurchaseBillStatusPosted || bill.Status == entity.PurchaseBillStatusPaid {
			return nil // ya asentada
		}

		lines, err := tx.Purchasing.BillLines(ctx, tenantID, billID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyLines
		}
		order, err := tx.Purchasing.GetOrder(ctx, tenantID, bill.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		subtotal := decimal.Zero
		taxAmount := decimal.Zero
		for _, line := range lines {
			lineTotal := line.Quantity.Mul(line.UnitPrice)
			subtotal = subtotal.Add(lineTotal)
			taxAmount = taxAmount.Add(lineTotal.Mul(line.TaxRate.Div(decimal.NewFromInt(100))))

			if line.OrderLineID == nil {
				continue
			}
			orderLine, err := tx.Purchasing.GetOrderLine(ctx, tenantID, *line.OrderLineID)
			if err != nil {
				return err
			}
			if orderLine == nil {
				return domain.ErrNotFound
			}
			orderLine.BilledQuantity = orderLine.BilledQuantity.Add(line.Quantity)
			orderLine.UpdatedAt = time.Now()
			if err := tx.Purchasing.UpdateOrderLineCounters(ctx, orderLine); err != nil {
				return err
			}
		}

		bill.Subtotal = dominv.QuantizeCurrency(subtotal)
		bill.TaxAmount = dominv.QuantizeCurrency(taxAmount)
		bill.TotalAmount = dominv.QuantizeCurrency(bill.Subtotal.Add(bill.TaxAmount))
		bill.Status = entity.PurchaseBillStatusPosted
		bill.UpdatedAt = time.Now()
		if err := tx.Purchasing.UpdateBill(ctx, bill); err != nil {
			return err
		}

		return uc.deriveOrder(ctx, tx, tenantID, order)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// PostPayment registra el efecto de un pago sobre su factura: si la suma de
// pagos asentados alcanza el total, la factura pasa a PAID y la orden se re-deriva.
func (uc *UseCase) PostPayment(ctx context.Context, paymentID string) (*entity.PurchasePayment, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var payment *entity.PurchasePayment
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		payment, err = tx.Purchasing.GetPayment(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		if payment.Status == entity.PurchasePaymentStatusVoid {
			return nil
		}

		bill, err := tx.Purchasing.GetBill(ctx, tenantID, payment.BillID)
		if err != nil {
			return err
		}
		if bill == nil {
			return domain.ErrNotFound
		}

		payments, err := tx.Purchasing.ListPostedPayments(ctx, tenantID, bill.ID)
		if err != nil {
			return err
		}
		totalPaid := decimal.Zero
		for _, p := range payments {
			totalPaid = totalPaid.Add(p.Amount)
		}
		totalPaid = dominv.QuantizeCurrency(totalPaid)

		if totalPaid.GreaterThanOrEqual(bill.TotalAmount) {
			bill.Status = entity.PurchaseBillStatusPaid
			bill.UpdatedAt = time.Now()
			if err := tx.Purchasing.UpdateBill(ctx, bill); err != nil {
				return err
			}
			order, err := tx.Purchasing.GetOrder(ctx, tenantID, bill.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return domain.ErrNotFound
			}
			return uc.deriveOrder(ctx, tx, tenantID, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// CancelOrder transición administrativa terminal.
func (uc *UseCase) CancelOrder(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	return uc.setTerminal(ctx, orderID, entity.PurchaseOrderStatusCancelled)
}

// CloseOrder transición administrativa terminal.
func (uc *UseCase) CloseOrder(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	return uc.setTerminal(ctx, orderID, entity.PurchaseOrderStatusClosed)
}

func (uc *UseCase) setTerminal(ctx context.Context, orderID, status string) (*entity.PurchaseOrder, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var order *entity.PurchaseOrder
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.Purchasing.GetOrder(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == status {
			return nil
		}
		order.Status = status
		order.UpdatedAt = time.Now()
		return tx.Purchasing.UpdateOrderStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// deriveOrder re-deriva el estado de la orden desde los contadores de línea y
// lo persiste solo si cambió.
func (uc *UseCase) deriveOrder(ctx context.Context, tx repository.Tx, tenantID string, order *entity.PurchaseOrder) error {
	lines, err := tx.Purchasing.OrderLines(ctx, tenantID, order.ID)
	if err != nil {
		return err
	}
	ordered := decimal.Zero
	received := decimal.Zero
	billed := decimal.Zero
	for _, line := range lines {
		ordered = ordered.Add(line.OrderedQuantity)
		received = received.Add(line.ReceivedQuantity)
		billed = billed.Add(line.BilledQuantity)
	}
	hasPaid, err := tx.Purchasing.HasPaidBill(ctx, tenantID, order.ID)
	if err != nil {
		return err
	}
	status := DeriveOrderStatus(order.Status, ordered, received, billed, hasPaid)
	if status == order.Status {
		return nil
	}
	uc.log.Debug().
		Str("order_id", order.ID).
		Str("from", order.Status).
		Str("to", status).
		Msg("estado de orden de compra re-derivado")
	order.Status = status
	order.UpdatedAt = time.Now()
	return tx.Purchasing.UpdateOrderStatus(ctx, order)
}
