package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/application/sales"
	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
	"github.com/irshados/backoffice/pkg/logger"
)

const (
	testTenant    = "00000000-0000-0000-0000-0000000000aa"
	testUsuario   = "00000000-0000-0000-0000-0000000000u1"
	testWarehouse = "00000000-0000-0000-0000-0000000000w1"
	testVariant   = "00000000-0000-0000-0000-0000000000v1"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del repositorio de ventas en memoria.
// ──────────────────────────────────────────────────────────────────────────────

type fakeSalesRepo struct {
	orders        map[string]*entity.SalesOrder
	orderLines    map[string]*entity.SalesOrderLine
	deliveries    map[string]*entity.DeliveryNote
	deliveryLines map[string][]*entity.DeliveryNoteLine
	invoices      map[string]*entity.SalesInvoice
	invoiceLines  map[string][]*entity.SalesInvoiceLine
	payments      map[string]*entity.SalesPayment
	refunds       []*entity.SalesRefund
}

func newFakeSalesRepo() *fakeSalesRepo {
	return &fakeSalesRepo{
		orders:        map[string]*entity.SalesOrder{},
		orderLines:    map[string]*entity.SalesOrderLine{},
		deliveries:    map[string]*entity.DeliveryNote{},
		deliveryLines: map[string][]*entity.DeliveryNoteLine{},
		invoices:      map[string]*entity.SalesInvoice{},
		invoiceLines:  map[string][]*entity.SalesInvoiceLine{},
		payments:      map[string]*entity.SalesPayment{},
	}
}

func (r *fakeSalesRepo) CreateOrder(_ context.Context, o *entity.SalesOrder, lines []*entity.SalesOrderLine) error {
	r.orders[o.ID] = o
	for _, l := range lines {
		r.orderLines[l.ID] = l
	}
	return nil
}
func (r *fakeSalesRepo) GetOrder(_ context.Context, _, id string) (*entity.SalesOrder, error) {
	return r.orders[id], nil
}
func (r *fakeSalesRepo) OrderLines(_ context.Context, _, orderID string) ([]*entity.SalesOrderLine, error) {
	var out []*entity.SalesOrderLine
	for _, l := range r.orderLines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}
func (r *fakeSalesRepo) GetOrderLine(_ context.Context, _, id string) (*entity.SalesOrderLine, error) {
	return r.orderLines[id], nil
}
func (r *fakeSalesRepo) UpdateOrderStatus(_ context.Context, o *entity.SalesOrder) error {
	r.orders[o.ID] = o
	return nil
}
func (r *fakeSalesRepo) UpdateOrderLineCounters(_ context.Context, l *entity.SalesOrderLine) error {
	r.orderLines[l.ID] = l
	return nil
}
func (r *fakeSalesRepo) CreateDelivery(_ context.Context, d *entity.DeliveryNote, lines []*entity.DeliveryNoteLine) error {
	r.deliveries[d.ID] = d
	r.deliveryLines[d.ID] = lines
	return nil
}
func (r *fakeSalesRepo) GetDelivery(_ context.Context, _, id string) (*entity.DeliveryNote, error) {
	return r.deliveries[id], nil
}
func (r *fakeSalesRepo) DeliveryLines(_ context.Context, _, deliveryID string) ([]*entity.DeliveryNoteLine, error) {
	return r.deliveryLines[deliveryID], nil
}
func (r *fakeSalesRepo) UpdateDelivery(_ context.Context, d *entity.DeliveryNote) error {
	r.deliveries[d.ID] = d
	return nil
}
func (r *fakeSalesRepo) CreateInvoice(_ context.Context, inv *entity.SalesInvoice, lines []*entity.SalesInvoiceLine) error {
	r.invoices[inv.ID] = inv
	r.invoiceLines[inv.ID] = lines
	return nil
}
func (r *fakeSalesRepo) GetInvoice(_ context.Context, _, id string) (*entity.SalesInvoice, error) {
	return r.invoices[id], nil
}
func (r *fakeSalesRepo) InvoiceLines(_ context.Context, _, invoiceID string) ([]*entity.SalesInvoiceLine, error) {
	return r.invoiceLines[invoiceID], nil
}
func (r *fakeSalesRepo) UpdateInvoice(_ context.Context, inv *entity.SalesInvoice) error {
	r.invoices[inv.ID] = inv
	return nil
}
func (r *fakeSalesRepo) HasPaidInvoice(_ context.Context, _, orderID string) (bool, error) {
	for _, inv := range r.invoices {
		if inv.OrderID == orderID && inv.Status == entity.SalesInvoiceStatusPaid {
			return true, nil
		}
	}
	return false, nil
}
func (r *fakeSalesRepo) CreatePayment(_ context.Context, p *entity.SalesPayment) error {
	r.payments[p.ID] = p
	return nil
}
func (r *fakeSalesRepo) GetPayment(_ context.Context, _, id string) (*entity.SalesPayment, error) {
	return r.payments[id], nil
}
func (r *fakeSalesRepo) ListPostedPayments(_ context.Context, _, invoiceID string) ([]*entity.SalesPayment, error) {
	var out []*entity.SalesPayment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID && p.Status == entity.SalesPaymentStatusPosted {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeSalesRepo) CreateRefund(_ context.Context, refund *entity.SalesRefund) error {
	r.refunds = append(r.refunds, refund)
	return nil
}

type fakeTxRunner struct{ repo *fakeSalesRepo }

func (r fakeTxRunner) Run(_ context.Context, fn func(tx repository.Tx) error) error {
	return fn(repository.Tx{Sales: r.repo})
}

type fakeInventory struct {
	calls []appinv.MovementInput
}

func (f *fakeInventory) RecordInTx(_ context.Context, _ repository.Tx, input appinv.MovementInput) (*entity.StockMovement, error) {
	f.calls = append(f.calls, input)
	return &entity.StockMovement{ID: "mov-sales-1", MovementType: input.MovementType}, nil
}

func setup() (*sales.UseCase, *fakeSalesRepo, *fakeInventory, context.Context) {
	repo := newFakeSalesRepo()
	inv := &fakeInventory{}
	uc := sales.NewUseCase(fakeTxRunner{repo}, inv, logger.Nop())
	return uc, repo, inv, tenant.Activate(context.Background(), testTenant)
}

func q(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// crea orden de 8 unidades a 100 con IVA 19% y devuelve la línea.
func crearOrden(t *testing.T, uc *sales.UseCase, repo *fakeSalesRepo, ctx context.Context) (*entity.SalesOrder, *entity.SalesOrderLine) {
	t.Helper()
	order, err := uc.CreateOrder(ctx, sales.CreateOrderInput{
		Number: "SO-001",
		Lines: []sales.OrderLineInput{
			{VariantID: testVariant, Quantity: q("8"), UnitPrice: q("100"), TaxRate: q("19")},
		},
	})
	require.NoError(t, err)
	lines, err := repo.OrderLines(ctx, testTenant, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	return order, lines[0]
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida completo: orden → remisión parcial → factura → pago.
// ──────────────────────────────────────────────────────────────────────────────

func TestCicloDeVida_OrdenHastaPagada(t *testing.T) {
	uc, repo, inv, ctx := setup()
	order, orderLine := crearOrden(t, uc, repo, ctx)
	assert.Equal(t, entity.SalesOrderStatusDraft, order.Status)

	// Remisión parcial de 3: la orden pasa a PICKING.
	delivery, err := uc.CreateDelivery(ctx, sales.CreateDeliveryInput{
		OrderID:     order.ID,
		WarehouseID: testWarehouse,
		Number:      "DN-001",
		Lines: []sales.DeliveryLineInput{
			{OrderLineID: orderLine.ID, VariantID: testVariant, Quantity: q("3")},
		},
	})
	require.NoError(t, err)

	_, err = uc.PostDelivery(ctx, delivery.ID, testUsuario)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusPicking, repo.orders[order.ID].Status)
	assert.True(t, repo.orderLines[orderLine.ID].DeliveredQuantity.Equal(q("3")))

	require.Len(t, inv.calls, 1)
	assert.True(t, inv.calls[0].Lines[0].Quantity.Equal(q("-3")), "el despacho descuenta stock")
	assert.Nil(t, inv.calls[0].Lines[0].UnitCost, "la salida valora al promedio")

	// Remisión del resto: FULFILLED.
	delivery2, err := uc.CreateDelivery(ctx, sales.CreateDeliveryInput{
		OrderID:     order.ID,
		WarehouseID: testWarehouse,
		Number:      "DN-002",
		Lines: []sales.DeliveryLineInput{
			{OrderLineID: orderLine.ID, VariantID: testVariant, Quantity: q("5")},
		},
	})
	require.NoError(t, err)
	_, err = uc.PostDelivery(ctx, delivery2.ID, testUsuario)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusFulfilled, repo.orders[order.ID].Status)

	// Factura por el total: INVOICED; 800 + 152 de IVA.
	invoice, err := uc.CreateInvoice(ctx, sales.CreateInvoiceInput{
		OrderID: order.ID,
		Number:  "INV-001",
		Lines: []sales.InvoiceLineInput{
			{OrderLineID: orderLine.ID, VariantID: testVariant, Quantity: q("8"), UnitPrice: q("100"), TaxRate: q("19")},
		},
	})
	require.NoError(t, err)
	posted, err := uc.PostInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.True(t, posted.Subtotal.Equal(q("800")))
	assert.True(t, posted.TaxAmount.Equal(q("152")))
	assert.True(t, posted.TotalAmount.Equal(q("952")))
	assert.Equal(t, entity.SalesOrderStatusInvoiced, repo.orders[order.ID].Status)

	// Cobro total: factura PAID y orden PAID.
	_, err = uc.CreatePayment(ctx, sales.CreatePaymentInput{
		InvoiceID: invoice.ID,
		Amount:    q("952"),
		Method:    "transferencia",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesInvoiceStatusPaid, repo.invoices[invoice.ID].Status)
	assert.Equal(t, entity.SalesOrderStatusPaid, repo.orders[order.ID].Status)
}

func TestPostDelivery_EsIdempotente(t *testing.T) {
	uc, repo, inv, ctx := setup()
	order, orderLine := crearOrden(t, uc, repo, ctx)

	delivery, err := uc.CreateDelivery(ctx, sales.CreateDeliveryInput{
		OrderID:     order.ID,
		WarehouseID: testWarehouse,
		Number:      "DN-001",
		Lines: []sales.DeliveryLineInput{
			{OrderLineID: orderLine.ID, VariantID: testVariant, Quantity: q("3")},
		},
	})
	require.NoError(t, err)

	_, err = uc.PostDelivery(ctx, delivery.ID, testUsuario)
	require.NoError(t, err)
	_, err = uc.PostDelivery(ctx, delivery.ID, testUsuario)
	require.NoError(t, err)

	assert.Len(t, inv.calls, 1, "asentar dos veces no duplica el movimiento de stock")
	assert.True(t, repo.orderLines[orderLine.ID].DeliveredQuantity.Equal(q("3")),
		"asentar dos veces no duplica el contador")
}

func TestPostInvoice_EsIdempotente(t *testing.T) {
	uc, repo, _, ctx := setup()
	order, orderLine := crearOrden(t, uc, repo, ctx)

	invoice, err := uc.CreateInvoice(ctx, sales.CreateInvoiceInput{
		OrderID: order.ID,
		Number:  "INV-001",
		Lines: []sales.InvoiceLineInput{
			{OrderLineID: orderLine.ID, VariantID: testVariant, Quantity: q("8"), UnitPrice: q("100"), TaxRate: q("19")},
		},
	})
	require.NoError(t, err)

	_, err = uc.PostInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	_, err = uc.PostInvoice(ctx, invoice.ID)
	require.NoError(t, err)

	assert.True(t, repo.orderLines[orderLine.ID].InvoicedQuantity.Equal(q("8")),
		"asentar dos veces no duplica invoiced_quantity")
}

func TestPagoParcial_NoMarcaPagada(t *testing.T) {
	uc, repo, _, ctx := setup()
	order, orderLine := crearOrden(t, uc, repo, ctx)

	invoice, err := uc.CreateInvoice(ctx, sales.CreateInvoiceInput{
		OrderID: order.ID,
		Number:  "INV-001",
		Lines: []sales.InvoiceLineInput{
			{OrderLineID: orderLine.ID, VariantID: testVariant, Quantity: q("8"), UnitPrice: q("100"), TaxRate: q("19")},
		},
	})
	require.NoError(t, err)
	_, err = uc.PostInvoice(ctx, invoice.ID)
	require.NoError(t, err)

	_, err = uc.CreatePayment(ctx, sales.CreatePaymentInput{InvoiceID: invoice.ID, Amount: q("500"), Method: "efectivo"})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesInvoiceStatusPosted, repo.invoices[invoice.ID].Status,
		"un pago parcial no salda la factura")

	// El segundo pago completa el total acumulado.
	_, err = uc.CreatePayment(ctx, sales.CreatePaymentInput{InvoiceID: invoice.ID, Amount: q("452"), Method: "efectivo"})
	require.NoError(t, err)
	assert.Equal(t, entity.SalesInvoiceStatusPaid, repo.invoices[invoice.ID].Status)
}

func TestRegisterRefund_FacturaSiguePagada(t *testing.T) {
	uc, repo, _, ctx := setup()
	order, orderLine := crearOrden(t, uc, repo, ctx)

	invoice, err := uc.CreateInvoice(ctx, sales.CreateInvoiceInput{
		OrderID: order.ID,
		Number:  "INV-001",
		Lines: []sales.InvoiceLineInput{
			{OrderLineID: orderLine.ID, VariantID: testVariant, Quantity: q("8"), UnitPrice: q("100"), TaxRate: q("19")},
		},
	})
	require.NoError(t, err)
	_, err = uc.PostInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	_, err = uc.CreatePayment(ctx, sales.CreatePaymentInput{InvoiceID: invoice.ID, Amount: q("952"), Method: "efectivo"})
	require.NoError(t, err)

	refund, err := uc.RegisterRefund(ctx, &entity.SalesRefund{
		InvoiceID: invoice.ID,
		Amount:    q("100"),
		Reason:    "producto averiado",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refund.ID)
	assert.Len(t, repo.refunds, 1)
	assert.Equal(t, entity.SalesInvoiceStatusPaid, repo.invoices[invoice.ID].Status,
		"la devolución no degrada la factura")
}

func TestOrdenTerminal_NoSeRederiva(t *testing.T) {
	uc, repo, _, ctx := setup()
	order, orderLine := crearOrden(t, uc, repo, ctx)

	_, err := uc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusCancelled, repo.orders[order.ID].Status)

	// Asentar una factura contra una orden cancelada no revive la orden.
	invoice, err := uc.CreateInvoice(ctx, sales.CreateInvoiceInput{
		OrderID: order.ID,
		Number:  "INV-001",
		Lines: []sales.InvoiceLineInput{
			{OrderLineID: orderLine.ID, VariantID: testVariant, Quantity: q("8"), UnitPrice: q("100")},
		},
	})
	require.NoError(t, err)
	_, err = uc.PostInvoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalesOrderStatusCancelled, repo.orders[order.ID].Status,
		"CANCELLED es terminal: la derivación no lo sobreescribe")
}

func TestPostDelivery_SinTenantFalla(t *testing.T) {
	uc, _, _, _ := setup()
	_, err := uc.PostDelivery(context.Background(), "cualquiera", testUsuario)
	assert.ErrorIs(t, err, domain.ErrNoTenant)
}
