package pos_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/application/pos"
	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
	"github.com/irshados/backoffice/pkg/logger"
)

const (
	testTenant    = "00000000-0000-0000-0000-0000000000aa"
	testCajero    = "00000000-0000-0000-0000-0000000000u1"
	testWarehouse = "00000000-0000-0000-0000-0000000000w1"
	testVariant   = "00000000-0000-0000-0000-0000000000v1"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakePOSRepo struct {
	shifts   map[string]*entity.POSShift
	sales    map[string]*entity.POSSale
	items    map[string][]*entity.POSSaleItem
	payments map[string][]*entity.POSSalePayment
}

func newFakePOSRepo() *fakePOSRepo {
	return &fakePOSRepo{
		shifts:   map[string]*entity.POSShift{},
		sales:    map[string]*entity.POSSale{},
		items:    map[string][]*entity.POSSaleItem{},
		payments: map[string][]*entity.POSSalePayment{},
	}
}

func (r *fakePOSRepo) CreateShift(_ context.Context, s *entity.POSShift) error {
	r.shifts[s.ID] = s
	return nil
}
func (r *fakePOSRepo) GetShift(_ context.Context, _, id string) (*entity.POSShift, error) {
	return r.shifts[id], nil
}
func (r *fakePOSRepo) UpdateShift(_ context.Context, s *entity.POSShift) error {
	r.shifts[s.ID] = s
	return nil
}
func (r *fakePOSRepo) CreateSale(_ context.Context, s *entity.POSSale, items []*entity.POSSaleItem) error {
	r.sales[s.ID] = s
	r.items[s.ID] = items
	return nil
}
func (r *fakePOSRepo) GetSale(_ context.Context, _, id string) (*entity.POSSale, error) {
	return r.sales[id], nil
}
func (r *fakePOSRepo) SaleItems(_ context.Context, _, saleID string) ([]*entity.POSSaleItem, error) {
	return r.items[saleID], nil
}
func (r *fakePOSRepo) UpdateSale(_ context.Context, s *entity.POSSale) error {
	r.sales[s.ID] = s
	return nil
}
func (r *fakePOSRepo) UpdateSaleItem(_ context.Context, item *entity.POSSaleItem) error {
	for i, it := range r.items[item.SaleID] {
		if it.ID == item.ID {
			r.items[item.SaleID][i] = item
		}
	}
	return nil
}
func (r *fakePOSRepo) CreatePayment(_ context.Context, p *entity.POSSalePayment) error {
	r.payments[p.SaleID] = append(r.payments[p.SaleID], p)
	return nil
}
func (r *fakePOSRepo) ListPostedPayments(_ context.Context, _, saleID string) ([]*entity.POSSalePayment, error) {
	var out []*entity.POSSalePayment
	for _, p := range r.payments[saleID] {
		if p.Status == entity.POSSalePaymentStatusPosted {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTxRunner struct{ repo *fakePOSRepo }

func (r fakeTxRunner) Run(_ context.Context, fn func(tx repository.Tx) error) error {
	return fn(repository.Tx{POS: r.repo})
}

// fakeInventory captura los movimientos que el POS pide asentar.
type fakeInventory struct {
	calls []appinv.MovementInput
}

func (f *fakeInventory) RecordInTx(_ context.Context, _ repository.Tx, input appinv.MovementInput) (*entity.StockMovement, error) {
	f.calls = append(f.calls, input)
	return &entity.StockMovement{ID: "mov-pos-1", MovementType: input.MovementType}, nil
}

func setup() (*pos.UseCase, *fakePOSRepo, *fakeInventory, context.Context) {
	repo := newFakePOSRepo()
	inv := &fakeInventory{}
	uc := pos.NewUseCase(fakeTxRunner{repo}, inv, logger.Nop())
	return uc, repo, inv, tenant.Activate(context.Background(), testTenant)
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestOpenShift_BaseNegativaFalla(t *testing.T) {
	uc, _, _, ctx := setup()
	_, err := uc.OpenShift(ctx, testCajero, d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseShift_Idempotente(t *testing.T) {
	uc, _, _, ctx := setup()
	shift, err := uc.OpenShift(ctx, testCajero, d("50000"))
	require.NoError(t, err)

	closed, err := uc.CloseShift(ctx, shift.ID, testCajero, d("180000"))
	require.NoError(t, err)
	assert.Equal(t, entity.POSShiftStatusClosed, closed.Status)
	firstClosedAt := closed.ClosedAt

	again, err := uc.CloseShift(ctx, shift.ID, testCajero, d("999999"))
	require.NoError(t, err)
	assert.Equal(t, entity.POSShiftStatusClosed, again.Status)
	assert.True(t, again.ClosingFloat.Equal(d("180000")), "cerrar dos veces no debe pisar el conteo original")
	assert.Equal(t, firstClosedAt, again.ClosedAt)
}

func TestCreateSale_TurnoCerradoFalla(t *testing.T) {
	uc, _, _, ctx := setup()
	shift, err := uc.OpenShift(ctx, testCajero, d("0"))
	require.NoError(t, err)
	_, err = uc.CloseShift(ctx, shift.ID, testCajero, d("0"))
	require.NoError(t, err)

	_, err = uc.CreateSale(ctx, pos.CreateSaleInput{
		ShiftID:     shift.ID,
		WarehouseID: testWarehouse,
		Items: []pos.SaleItemInput{
			{VariantID: testVariant, Quantity: d("1"), UnitPrice: d("1000")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "no se vende sobre un turno cerrado")
}

func TestCreateSale_CalculaTotales(t *testing.T) {
	uc, _, _, ctx := setup()
	shift, err := uc.OpenShift(ctx, testCajero, d("0"))
	require.NoError(t, err)

	// 2 x 1000 - 100 de descuento = 1900; IVA 19% = 361; total 2261.
	sale, err := uc.CreateSale(ctx, pos.CreateSaleInput{
		ShiftID:     shift.ID,
		WarehouseID: testWarehouse,
		Reference:   "POS-001",
		Items: []pos.SaleItemInput{
			{VariantID: testVariant, Quantity: d("2"), UnitPrice: d("1000"), Discount: d("100"), TaxRate: d("19")},
		},
	})
	require.NoError(t, err)

	assert.True(t, sale.Subtotal.Equal(d("1900")), "subtotal debe ser 1900, es %s", sale.Subtotal)
	assert.True(t, sale.TaxAmount.Equal(d("361")), "IVA debe ser 361, es %s", sale.TaxAmount)
	assert.True(t, sale.TotalAmount.Equal(d("2261")))
	assert.True(t, sale.ChangeDue.IsZero(), "sin pagos no hay vuelto")
}

func TestRegisterPayment_CalculaVuelto(t *testing.T) {
	uc, _, _, ctx := setup()
	shift, _ := uc.OpenShift(ctx, testCajero, d("0"))
	sale, err := uc.CreateSale(ctx, pos.CreateSaleInput{
		ShiftID:     shift.ID,
		WarehouseID: testWarehouse,
		Items: []pos.SaleItemInput{
			{VariantID: testVariant, Quantity: d("2"), UnitPrice: d("1000"), Discount: d("100"), TaxRate: d("19")},
		},
	})
	require.NoError(t, err)

	paid, err := uc.RegisterPayment(ctx, sale.ID, d("2500"), "efectivo")
	require.NoError(t, err)
	assert.True(t, paid.PaidAmount.Equal(d("2500")))
	assert.True(t, paid.ChangeDue.Equal(d("239")), "vuelto = max(pagado - total, 0)")
}

func TestRegisterPayment_PagoParcialSinVuelto(t *testing.T) {
	uc, _, _, ctx := setup()
	shift, _ := uc.OpenShift(ctx, testCajero, d("0"))
	sale, err := uc.CreateSale(ctx, pos.CreateSaleInput{
		ShiftID:     shift.ID,
		WarehouseID: testWarehouse,
		Items: []pos.SaleItemInput{
			{VariantID: testVariant, Quantity: d("1"), UnitPrice: d("1000")},
		},
	})
	require.NoError(t, err)

	paid, err := uc.RegisterPayment(ctx, sale.ID, d("400"), "efectivo")
	require.NoError(t, err)
	assert.True(t, paid.ChangeDue.IsZero(), "un pago parcial nunca produce vuelto")
}

func TestFinalizeSale_DescuentaInventarioYEsIdempotente(t *testing.T) {
	uc, _, inv, ctx := setup()
	shift, _ := uc.OpenShift(ctx, testCajero, d("0"))
	sale, err := uc.CreateSale(ctx, pos.CreateSaleInput{
		ShiftID:     shift.ID,
		WarehouseID: testWarehouse,
		Reference:   "POS-002",
		Items: []pos.SaleItemInput{
			{VariantID: testVariant, Quantity: d("3"), UnitPrice: d("500")},
		},
	})
	require.NoError(t, err)
	_, err = uc.RegisterPayment(ctx, sale.ID, d("1500"), "efectivo")
	require.NoError(t, err)

	final, err := uc.FinalizeSale(ctx, sale.ID, testCajero)
	require.NoError(t, err)
	assert.Equal(t, entity.POSSaleStatusPaid, final.Status)
	require.NotNil(t, final.StockMovementID)

	require.Len(t, inv.calls, 1)
	call := inv.calls[0]
	assert.Equal(t, entity.MovementTypePOSSale, call.MovementType)
	require.Len(t, call.Lines, 1)
	assert.True(t, call.Lines[0].Quantity.Equal(d("-3")), "la venta descuenta la cantidad vendida")
	assert.Nil(t, call.Lines[0].UnitCost, "la salida valora al costo promedio, sin costo explícito")
	assert.Equal(t, "pos_sale", call.SourceDocumentType)

	// Segunda finalización: sin nuevo movimiento.
	_, err = uc.FinalizeSale(ctx, sale.ID, testCajero)
	require.NoError(t, err)
	assert.Len(t, inv.calls, 1, "finalizar dos veces no debe duplicar el descuento de stock")
}

func TestFinalizeSale_VentaAnuladaFalla(t *testing.T) {
	uc, _, _, ctx := setup()
	shift, _ := uc.OpenShift(ctx, testCajero, d("0"))
	sale, err := uc.CreateSale(ctx, pos.CreateSaleInput{
		ShiftID:     shift.ID,
		WarehouseID: testWarehouse,
		Items: []pos.SaleItemInput{
			{VariantID: testVariant, Quantity: d("1"), UnitPrice: d("100")},
		},
	})
	require.NoError(t, err)
	_, err = uc.CancelSale(ctx, sale.ID)
	require.NoError(t, err)

	_, err = uc.FinalizeSale(ctx, sale.ID, testCajero)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancelSale_VentaPagadaFalla(t *testing.T) {
	uc, _, _, ctx := setup()
	shift, _ := uc.OpenShift(ctx, testCajero, d("0"))
	sale, err := uc.CreateSale(ctx, pos.CreateSaleInput{
		ShiftID:     shift.ID,
		WarehouseID: testWarehouse,
		Items: []pos.SaleItemInput{
			{VariantID: testVariant, Quantity: d("1"), UnitPrice: d("100")},
		},
	})
	require.NoError(t, err)
	_, err = uc.FinalizeSale(ctx, sale.ID, testCajero)
	require.NoError(t, err)

	_, err = uc.CancelSale(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrConflict,
		"una venta PAID requiere un ajuste explícito, no una anulación")
}
