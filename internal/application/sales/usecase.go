package sales

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

// Inventory puerto hacia el motor de inventario (misma transacción del caller).
type Inventory interface {
	RecordInTx(ctx context.Context, tx repository.Tx, input appinv.MovementInput) (*entity.StockMovement, error)
}

// UseCase ciclo de vida documental de ventas: asentar despachos, facturas,
// pagos y devoluciones, mutar los contadores de línea y re-derivar el estado
// de la orden.
type UseCase struct {
	txRunner  TxRunner
	inventory Inventory
	log       *logger.Logger
}

// NewUseCase construye el ciclo de vida de ventas.
func NewUseCase(txRunner TxRunner, inventory Inventory, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, inventory: inventory, log: log}
}

// PostDelivery asienta una remisión: mueve stock (salida al costo promedio),
// abona delivered_quantity y re-deriva la orden. Idempotente.
func (uc *UseCase) PostDelivery(ctx context.Context, deliveryID, performedBy string) (*entity.DeliveryNote, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var delivery *entity.DeliveryNote
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		delivery, err = tx.Sales.GetDelivery(ctx, tenantID, deliveryID)
		if err != nil {
			return err
		}
		if delivery == nil {
			return domain.ErrNotFound
		}
		if delivery.Status == entity.DeliveryNoteStatusPosted {
			return nil // ya asentada
		}

		lines, err := tx.Sales.DeliveryLines(ctx, tenantID, deliveryID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyLines
		}
		order, err := tx.Sales.GetOrder(ctx, tenantID, delivery.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		// Salida sin costo indicado: el motor usa el costo promedio vigente.
		movementLines := make([]appinv.MovementLineInput, 0, len(lines))
		for _, line := range lines {
			movementLines = append(movementLines, appinv.MovementLineInput{
				VariantID:     line.VariantID,
				WarehouseID:   delivery.WarehouseID,
				Quantity:      line.Quantity.Neg(),
				ReferenceType: "sales_order",
				ReferenceID:   order.ID,
				Note:          fmt.Sprintf("Despacho %s", delivery.Number),
				Metadata:      line.Metadata,
			})
		}

		movement, err := uc.inventory.RecordInTx(ctx, tx, appinv.MovementInput{
			MovementType:       entity.MovementTypeSaleShipment,
			Lines:              movementLines,
			ReferenceNumber:    delivery.Number,
			Description:        fmt.Sprintf("Despacho de la orden de venta %s", order.Number),
			PerformedBy:        performedBy,
			SourceDocumentType: "delivery_note",
			SourceDocumentID:   delivery.ID,
		})
		if err != nil {
			return err
		}

		for _, line := range lines {
			if line.OrderLineID == nil {
				continue
			}
			orderLine, err := tx.Sales.GetOrderLine(ctx, tenantID, *line.OrderLineID)
			if err != nil {
				return err
			}
			if orderLine == nil {
				return domain.ErrNotFound
			}
			orderLine.DeliveredQuantity = orderLine.DeliveredQuantity.Add(line.Quantity)
			orderLine.UpdatedAt = time.Now()
			if err := tx.Sales.UpdateOrderLineCounters(ctx, orderLine); err != nil {
				return err
			}
		}

		delivery.StockMovementID = &movement.ID
		delivery.Status = entity.DeliveryNoteStatusPosted
		delivery.UpdatedAt = time.Now()
		if err := tx.Sales.UpdateDelivery(ctx, delivery); err != nil {
			return err
		}

		return uc.deriveOrder(ctx, tx, tenantID, order)
	})
	if err != nil {
		return nil, err
	}
	return delivery, nil
}

// PostInvoice asienta una factura de venta: calcula totales, abona
// invoiced_quantity y re-deriva la orden. No mueve stock. Idempotente.
func (uc *UseCase) PostInvoice(ctx context.Context, invoiceID string) (*entity.SalesInvoice, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var invoice *entity.SalesInvoice
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		invoice, err = tx.Sales.GetInvoice(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		if invoice.Status == entity.SalesInvoiceStatusPosted || invoice.Status == entity.SalesInvoiceStatusPaid {
			return nil // ya asentada
		}

		lines, err := tx.Sales.InvoiceLines(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyLines
		}
		order, err := tx.Sales.GetOrder(ctx, tenantID, invoice.OrderID)
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
			orderLine, err := tx.Sales.GetOrderLine(ctx, tenantID, *line.OrderLineID)
			if err != nil {
				return err
			}
			if orderLine == nil {
				return domain.ErrNotFound
			}
			orderLine.InvoicedQuantity = orderLine.InvoicedQuantity.Add(line.Quantity)
			orderLine.UpdatedAt = time.Now()
			if err := tx.Sales.UpdateOrderLineCounters(ctx, orderLine); err != nil {
				return err
			}
		}

		invoice.Subtotal = dominv.QuantizeCurrency(subtotal)
		invoice.TaxAmount = dominv.QuantizeCurrency(taxAmount)
		invoice.TotalAmount = dominv.QuantizeCurrency(invoice.Subtotal.Add(invoice.TaxAmount))
		invoice.Status = entity.SalesInvoiceStatusPosted
		invoice.UpdatedAt = time.Now()
		if err := tx.Sales.UpdateInvoice(ctx, invoice); err != nil {
			return err
		}

		return uc.deriveOrder(ctx, tx, tenantID, order)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// PostPayment registra el efecto de un pago: si la suma de pagos asentados
// alcanza el total, la factura pasa a PAID y la orden se re-deriva.
func (uc *UseCase) PostPayment(ctx context.Context, paymentID string) (*entity.SalesPayment, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var payment *entity.SalesPayment
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		payment, err = tx.Sales.GetPayment(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		if payment.Status == entity.SalesPaymentStatusVoid {
			return nil
		}

		invoice, err := tx.Sales.GetInvoice(ctx, tenantID, payment.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		payments, err := tx.Sales.ListPostedPayments(ctx, tenantID, invoice.ID)
		if err != nil {
			return err
		}
		totalPaid := decimal.Zero
		for _, p := range payments {
			totalPaid = totalPaid.Add(p.Amount)
		}
		totalPaid = dominv.QuantizeCurrency(totalPaid)

		if totalPaid.GreaterThanOrEqual(invoice.TotalAmount) {
			invoice.Status = entity.SalesInvoiceStatusPaid
			invoice.UpdatedAt = time.Now()
			if err := tx.Sales.UpdateInvoice(ctx, invoice); err != nil {
				return err
			}
			order, err := tx.Sales.GetOrder(ctx, tenantID, invoice.OrderID)
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

// RegisterRefund registra una devolución sobre una factura pagada. La factura
// permanece PAID y la orden se re-deriva; la reposición física de mercancía,
// si la hay, es un movimiento de inventario aparte.
func (uc *UseCase) RegisterRefund(ctx context.Context, refund *entity.SalesRefund) (*entity.SalesRefund, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if refund.InvoiceID == "" || !refund.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		invoice, err := tx.Sales.GetInvoice(ctx, tenantID, refund.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		if refund.ID == "" {
			refund.ID = uuid.New().String()
		}
		refund.TenantID = tenantID
		refund.CreatedAt = time.Now()
		refund.Amount = dominv.QuantizeCurrency(refund.Amount)
		if err := tx.Sales.CreateRefund(ctx, refund); err != nil {
			return err
		}

		invoice.Status = entity.SalesInvoiceStatusPaid
		invoice.UpdatedAt = time.Now()
		if err := tx.Sales.UpdateInvoice(ctx, invoice); err != nil {
			return err
		}
		order, err := tx.Sales.GetOrder(ctx, tenantID, invoice.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		return uc.deriveOrder(ctx, tx, tenantID, order)
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

// CancelOrder transición administrativa terminal.
func (uc *UseCase) CancelOrder(ctx context.Context, orderID string) (*entity.SalesOrder, error) {
	return uc.setTerminal(ctx, orderID, entity.SalesOrderStatusCancelled)
}

// CloseOrder transición administrativa terminal.
func (uc *UseCase) CloseOrder(ctx context.Context, orderID string) (*entity.SalesOrder, error) {
	return uc.setTerminal(ctx, orderID, entity.SalesOrderStatusClosed)
}

func (uc *UseCase) setTerminal(ctx context.Context, orderID, status string) (*entity.SalesOrder, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var order *entity.SalesOrder
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.Sales.GetOrder(ctx, tenantID, orderID)
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
		return tx.Sales.UpdateOrderStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *UseCase) deriveOrder(ctx context.Context, tx repository.Tx, tenantID string, order *entity.SalesOrder) error {
	lines, err := tx.Sales.OrderLines(ctx, tenantID, order.ID)
	if err != nil {
		return err
	}
	ordered := decimal.Zero
	delivered := decimal.Zero
	invoiced := decimal.Zero
	for _, line := range lines {
		ordered = ordered.Add(line.OrderedQuantity)
		delivered = delivered.Add(line.DeliveredQuantity)
		invoiced = invoiced.Add(line.InvoicedQuantity)
	}
	hasPaid, err := tx.Sales.HasPaidInvoice(ctx, tenantID, order.ID)
	if err != nil {
		return err
	}
	status := DeriveOrderStatus(order.Status, ordered, delivered, invoiced, hasPaid)
	if status == order.Status {
		return nil
	}
	uc.log.Debug().
		Str("order_id", order.ID).
		Str("from", order.Status).
		Str("to", status).
		Msg("estado de orden de venta re-derivado")
	order.Status = status
	order.UpdatedAt = time.Now()
	return tx.Sales.UpdateOrderStatus(ctx, order)
}
