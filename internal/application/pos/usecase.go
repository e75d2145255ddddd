package pos

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

// UseCase operaciones de punto de venta: turnos de caja, ventas y su
// finalización contra inventario.
type UseCase struct {
	txRunner  TxRunner
	inventory Inventory
	log       *logger.Logger
}

// NewUseCase construye el caso de uso de punto de venta.
func NewUseCase(txRunner TxRunner, inventory Inventory, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, inventory: inventory, log: log}
}

// OpenShift abre un turno de caja con la base de efectivo indicada.
func (uc *UseCase) OpenShift(ctx context.Context, openedBy string, openingFloat decimal.Decimal) (*entity.POSShift, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if openingFloat.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	shift := &entity.POSShift{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Status:       entity.POSShiftStatusOpen,
		OpenedBy:     openedBy,
		OpeningFloat: dominv.QuantizeCurrency(openingFloat),
		ClosingFloat: decimal.Zero,
		OpenedAt:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.POS.CreateShift(ctx, shift)
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// CloseShift cierra un turno de caja registrando el efectivo contado.
// Idempotente: cerrar un turno ya cerrado devuelve el turno sin cambios.
func (uc *UseCase) CloseShift(ctx context.Context, shiftID, closedBy string, closingFloat decimal.Decimal) (*entity.POSShift, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var shift *entity.POSShift
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		shift, err = tx.POS.GetShift(ctx, tenantID, shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if shift.Status == entity.POSShiftStatusClosed {
			return nil // ya cerrado
		}
		now := time.Now()
		shift.Status = entity.POSShiftStatusClosed
		shift.ClosedBy = closedBy
		shift.ClosingFloat = dominv.QuantizeCurrency(closingFloat)
		shift.ClosedAt = &now
		shift.UpdatedAt = now
		return tx.POS.UpdateShift(ctx, shift)
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// SaleItemInput línea para crear una venta de caja.
type SaleItemInput struct {
	VariantID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal
}

// CreateSaleInput entrada para crear una venta de caja abierta.
type CreateSaleInput struct {
	ShiftID     string
	WarehouseID string
	Reference   string
	Items       []SaleItemInput
	Metadata    map[string]string
}

// CreateSale crea una venta de caja en estado OPEN con sus líneas y calcula
// los totales iniciales.
func (uc *UseCase) CreateSale(ctx context.Context, in CreateSaleInput) (*entity.POSSale, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if in.ShiftID == "" || in.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	sale := &entity.POSSale{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		ShiftID:     in.ShiftID,
		WarehouseID: in.WarehouseID,
		Reference:   in.Reference,
		Status:      entity.POSSaleStatusOpen,
		Metadata:    in.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]*entity.POSSaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.VariantID == "" || !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, &entity.POSSaleItem{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			SaleID:    sale.ID,
			VariantID: it.VariantID,
			Quantity:  dominv.QuantizeQuantity(it.Quantity),
			UnitPrice: dominv.QuantizeCurrency(it.UnitPrice),
			Discount:  dominv.QuantizeCurrency(it.Discount),
			TaxRate:   it.TaxRate,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		shift, err := tx.POS.GetShift(ctx, tenantID, in.ShiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if shift.Status != entity.POSShiftStatusOpen {
			return domain.ErrConflict
		}
		if err := tx.POS.CreateSale(ctx, sale, items); err != nil {
			return err
		}
		return uc.recalculateInTx(ctx, tx, tenantID, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// RegisterPayment registra un pago asentado sobre una venta abierta y
// recalcula los totales (paid_amount, change_due).
func (uc *UseCase) RegisterPayment(ctx context.Context, saleID string, amount decimal.Decimal, method string) (*entity.POSSale, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if saleID == "" || !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	var sale *entity.POSSale
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		sale, err = tx.POS.GetSale(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.POSSaleStatusCancelled {
			return domain.ErrConflict
		}
		now := time.Now()
		payment := &entity.POSSalePayment{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			SaleID:    saleID,
			Amount:    dominv.QuantizeCurrency(amount),
			Method:    method,
			Status:    entity.POSSalePaymentStatusPosted,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.POS.CreatePayment(ctx, payment); err != nil {
			return err
		}
		return uc.recalculateInTx(ctx, tx, tenantID, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// RecalculateSaleTotals recalcula totales, pagado y vuelto de una venta.
func (uc *UseCase) RecalculateSaleTotals(ctx context.Context, saleID string) (*entity.POSSale, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var sale *entity.POSSale
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		sale, err = tx.POS.GetSale(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		return uc.recalculateInTx(ctx, tx, tenantID, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// recalculateInTx recalcula line_total por ítem, los agregados de la venta y
// el vuelto, persistiendo todo dentro de la transacción en curso.
func (uc *UseCase) recalculateInTx(ctx context.Context, tx repository.Tx, tenantID string, sale *entity.POSSale) error {
	items, err := tx.POS.SaleItems(ctx, tenantID, sale.ID)
	if err != nil {
		return err
	}
	subtotal := decimal.Zero
	taxAmount := decimal.Zero
	for _, item := range items {
		lineTotal := item.Quantity.Mul(item.UnitPrice).Sub(item.Discount)
		lineTotal = dominv.QuantizeCurrency(lineTotal)
		if !lineTotal.Equal(item.LineTotal) {
			item.LineTotal = lineTotal
			item.UpdatedAt = time.Now()
			if err := tx.POS.UpdateSaleItem(ctx, item); err != nil {
				return err
			}
		}
		subtotal = subtotal.Add(lineTotal)
		taxAmount = taxAmount.Add(lineTotal.Mul(item.TaxRate.Div(decimal.NewFromInt(100))))
	}

	payments, err := tx.POS.ListPostedPayments(ctx, tenantID, sale.ID)
	if err != nil {
		return err
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	sale.Subtotal = dominv.QuantizeCurrency(subtotal)
	sale.TaxAmount = dominv.QuantizeCurrency(taxAmount)
	sale.TotalAmount = dominv.QuantizeCurrency(sale.Subtotal.Add(sale.TaxAmount))
	sale.PaidAmount = dominv.QuantizeCurrency(paid)
	changeDue := sale.PaidAmount.Sub(sale.TotalAmount)
	if changeDue.IsNegative() {
		changeDue = decimal.Zero
	}
	sale.ChangeDue = changeDue
	sale.UpdatedAt = time.Now()
	return tx.POS.UpdateSale(ctx, sale)
}

// FinalizeSale finaliza una venta de caja: recalcula totales, descuenta el
// inventario al costo promedio vigente y marca la venta como PAID enlazando el
// movimiento resultante. Idempotente: una venta ya PAID se devuelve tal cual.
func (uc *UseCase) FinalizeSale(ctx context.Context, saleID, performedBy string) (*entity.POSSale, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var sale *entity.POSSale
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		sale, err = tx.POS.GetSale(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.POSSaleStatusPaid {
			return nil // ya finalizada
		}
		if sale.Status == entity.POSSaleStatusCancelled {
			return domain.ErrConflict
		}

		items, err := tx.POS.SaleItems(ctx, tenantID, sale.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyLines
		}
		if err := uc.recalculateInTx(ctx, tx, tenantID, sale); err != nil {
			return err
		}

		// Salida sin costo indicado: el motor usa el costo promedio vigente.
		movementLines := make([]appinv.MovementLineInput, 0, len(items))
		for _, item := range items {
			movementLines = append(movementLines, appinv.MovementLineInput{
				VariantID:     item.VariantID,
				WarehouseID:   sale.WarehouseID,
				Quantity:      item.Quantity.Neg(),
				ReferenceType: "pos_sale",
				ReferenceID:   sale.ID,
				Note:          fmt.Sprintf("Venta de caja %s", sale.Reference),
				Metadata:      item.Metadata,
			})
		}
		movement, err := uc.inventory.RecordInTx(ctx, tx, appinv.MovementInput{
			MovementType:       entity.MovementTypePOSSale,
			Lines:              movementLines,
			ReferenceNumber:    sale.Reference,
			Description:        fmt.Sprintf("Venta de caja %s", sale.Reference),
			PerformedBy:        performedBy,
			SourceDocumentType: "pos_sale",
			SourceDocumentID:   sale.ID,
		})
		if err != nil {
			return err
		}

		sale.StockMovementID = &movement.ID
		sale.Status = entity.POSSaleStatusPaid
		sale.UpdatedAt = time.Now()
		return tx.POS.UpdateSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// CancelSale anula una venta abierta. Una venta PAID no puede anularse por
// esta vía; requiere un movimiento de ajuste explícito.
func (uc *UseCase) CancelSale(ctx context.Context, saleID string) (*entity.POSSale, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var sale *entity.POSSale
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		sale, err = tx.POS.GetSale(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.POSSaleStatusCancelled {
			return nil
		}
		if sale.Status == entity.POSSaleStatusPaid {
			return domain.ErrConflict
		}
		sale.Status = entity.POSSaleStatusCancelled
		sale.UpdatedAt = time.Now()
		return tx.POS.UpdateSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
