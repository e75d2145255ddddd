package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
	"github.com/irshados/backoffice/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Un fakeStore implementa los repositorios de inventario y
// catálogo; el fakeTxRunner toma una foto de los saldos antes de ejecutar y la
// restaura si la función devuelve error, imitando el rollback de una
// transacción real.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenant    = "00000000-0000-0000-0000-0000000000aa"
	otherTenant   = "00000000-0000-0000-0000-0000000000bb"
	testVariantA  = "00000000-0000-0000-0000-0000000000v1"
	testVariantB  = "00000000-0000-0000-0000-0000000000v2"
	testWarehouse = "00000000-0000-0000-0000-0000000000w1"
)

type fakeStore struct {
	balances   map[string]*entity.InventoryBalance
	movements  []*entity.StockMovement
	lines      []*entity.StockMovementLine
	ledger     []*entity.InventoryLedgerEntry
	variants   map[string]*entity.ProductVariant
	warehouses map[string]*entity.Warehouse
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances: map[string]*entity.InventoryBalance{},
		variants: map[string]*entity.ProductVariant{
			testVariantA: {ID: testVariantA, TenantID: testTenant, SKU: "CAFE-500", Name: "Café 500g"},
			testVariantB: {ID: testVariantB, TenantID: testTenant, SKU: "AZUCAR-1K", Name: "Azúcar 1kg"},
		},
		warehouses: map[string]*entity.Warehouse{
			testWarehouse: {ID: testWarehouse, TenantID: testTenant, Name: "Principal", Code: "MAIN"},
		},
	}
}

func balanceKey(tenantID, variantID, warehouseID string) string {
	return tenantID + "|" + variantID + "|" + warehouseID
}

// ── BalanceRepository ─────────────────────────────────────────────────────────

func (s *fakeStore) LockOrCreate(_ context.Context, tenantID, variantID, warehouseID string) (*entity.InventoryBalance, error) {
	key := balanceKey(tenantID, variantID, warehouseID)
	if b, ok := s.balances[key]; ok {
		cp := *b
		return &cp, nil
	}
	b := &entity.InventoryBalance{
		ID:          key,
		TenantID:    tenantID,
		VariantID:   variantID,
		WarehouseID: warehouseID,
		OnHand:      decimal.Zero,
		AverageCost: decimal.Zero,
	}
	s.balances[key] = b
	cp := *b
	return &cp, nil
}

func (s *fakeStore) Update(_ context.Context, balance *entity.InventoryBalance) error {
	cp := *balance
	s.balances[balanceKey(balance.TenantID, balance.VariantID, balance.WarehouseID)] = &cp
	return nil
}

func (s *fakeStore) Get(_ context.Context, tenantID, variantID, warehouseID string) (*entity.InventoryBalance, error) {
	b, ok := s.balances[balanceKey(tenantID, variantID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) List(_ context.Context, tenantID string, _ repository.BalanceFilter) ([]*entity.InventoryBalance, error) {
	out := make([]*entity.InventoryBalance, 0, len(s.balances))
	for _, b := range s.balances {
		if b.TenantID != tenantID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

// ── MovementRepository ────────────────────────────────────────────────────────

func (s *fakeStore) CreateMovement(_ context.Context, movement *entity.StockMovement) error {
	s.movements = append(s.movements, movement)
	return nil
}

func (s *fakeStore) CreateLine(_ context.Context, line *entity.StockMovementLine) error {
	s.lines = append(s.lines, line)
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, _, id string) (*entity.StockMovement, error) {
	for _, m := range s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) ListMovements(_ context.Context, tenantID string, _ repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.TenantID == tenantID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── LedgerRepository ──────────────────────────────────────────────────────────

func (s *fakeStore) Append(_ context.Context, entry *entity.InventoryLedgerEntry) error {
	s.ledger = append(s.ledger, entry)
	return nil
}

func (s *fakeStore) ListLedger(_ context.Context, tenantID string, _ repository.LedgerFilter) ([]*entity.InventoryLedgerEntry, error) {
	var out []*entity.InventoryLedgerEntry
	for _, e := range s.ledger {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

func (s *fakeStore) GetVariant(_ context.Context, _, id string) (*entity.ProductVariant, error) {
	return s.variants[id], nil
}

func (s *fakeStore) GetWarehouse(_ context.Context, _, id string) (*entity.Warehouse, error) {
	return s.warehouses[id], nil
}

// Adaptadores con los nombres exactos de los puertos.

type fakeMovements struct{ s *fakeStore }

func (f fakeMovements) CreateMovement(ctx context.Context, m *entity.StockMovement) error {
	return f.s.CreateMovement(ctx, m)
}
func (f fakeMovements) CreateLine(ctx context.Context, l *entity.StockMovementLine) error {
	return f.s.CreateLine(ctx, l)
}
func (f fakeMovements) GetByID(ctx context.Context, tenantID, id string) (*entity.StockMovement, error) {
	return f.s.GetByID(ctx, tenantID, id)
}
func (f fakeMovements) List(ctx context.Context, tenantID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	return f.s.ListMovements(ctx, tenantID, filter)
}

type fakeLedger struct{ s *fakeStore }

func (f fakeLedger) Append(ctx context.Context, e *entity.InventoryLedgerEntry) error {
	return f.s.Append(ctx, e)
}
func (f fakeLedger) List(ctx context.Context, tenantID string, filter repository.LedgerFilter) ([]*entity.InventoryLedgerEntry, error) {
	return f.s.ListLedger(ctx, tenantID, filter)
}

type fakeVariants struct{ s *fakeStore }

func (f fakeVariants) Create(_ context.Context, v *entity.ProductVariant) error {
	f.s.variants[v.ID] = v
	return nil
}
func (f fakeVariants) GetByID(ctx context.Context, tenantID, id string) (*entity.ProductVariant, error) {
	return f.s.GetVariant(ctx, tenantID, id)
}
func (f fakeVariants) List(_ context.Context, _ string, _, _ int) ([]*entity.ProductVariant, error) {
	out := make([]*entity.ProductVariant, 0, len(f.s.variants))
	for _, v := range f.s.variants {
		out = append(out, v)
	}
	return out, nil
}

type fakeWarehouses struct{ s *fakeStore }

func (f fakeWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	f.s.warehouses[w.ID] = w
	return nil
}
func (f fakeWarehouses) GetByID(ctx context.Context, tenantID, id string) (*entity.Warehouse, error) {
	return f.s.GetWarehouse(ctx, tenantID, id)
}
func (f fakeWarehouses) GetDefault(_ context.Context, _ string) (*entity.Warehouse, error) {
	for _, w := range f.s.warehouses {
		return w, nil
	}
	return nil, nil
}
func (f fakeWarehouses) List(_ context.Context, _ string) ([]*entity.Warehouse, error) {
	out := make([]*entity.Warehouse, 0, len(f.s.warehouses))
	for _, w := range f.s.warehouses {
		out = append(out, w)
	}
	return out, nil
}

// ── TxRunner con rollback ─────────────────────────────────────────────────────

type fakeTxRunner struct{ s *fakeStore }

func (r fakeTxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	snapBalances := make(map[string]*entity.InventoryBalance, len(r.s.balances))
	for k, b := range r.s.balances {
		cp := *b
		snapBalances[k] = &cp
	}
	nMov, nLin, nLed := len(r.s.movements), len(r.s.lines), len(r.s.ledger)

	tx := repository.Tx{
		Balances:   r.s,
		Movements:  fakeMovements{r.s},
		Ledger:     fakeLedger{r.s},
		Variants:   fakeVariants{r.s},
		Warehouses: fakeWarehouses{r.s},
	}
	if err := fn(tx); err != nil {
		r.s.balances = snapBalances
		r.s.movements = r.s.movements[:nMov]
		r.s.lines = r.s.lines[:nLin]
		r.s.ledger = r.s.ledger[:nLed]
		return err
	}
	return nil
}

func newEngine(store *fakeStore, allowNegative bool) *inventory.UseCase {
	return inventory.NewUseCase(fakeTxRunner{store}, inventory.Policy{AllowNegative: allowNegative}, logger.Nop())
}

func tenantCtx() context.Context {
	return tenant.Activate(context.Background(), testTenant)
}

func qty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func cost(s string) *decimal.Decimal {
	d := qty(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaYPromedio(t *testing.T) {
	store := newFakeStore()
	uc := newEngine(store, true)
	ctx := tenantCtx()

	_, err := uc.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypePurchaseReceipt,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("10"), UnitCost: cost("5")},
		},
	})
	require.NoError(t, err)

	_, err = uc.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypePurchaseReceipt,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("10"), UnitCost: cost("7")},
		},
	})
	require.NoError(t, err)

	b := store.balances[balanceKey(testTenant, testVariantA, testWarehouse)]
	require.NotNil(t, b)
	assert.True(t, b.OnHand.Equal(qty("20")), "saldo debe ser 20, es %s", b.OnHand)
	assert.True(t, b.AverageCost.Equal(qty("6")), "promedio debe ser 6, es %s", b.AverageCost)
	assert.Len(t, store.ledger, 2, "cada línea deja exactamente una entrada en el libro mayor")
}

func TestRecordMovement_SalidaAlPromedio(t *testing.T) {
	store := newFakeStore()
	uc := newEngine(store, true)
	ctx := tenantCtx()

	_, err := uc.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypePurchaseReceipt,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("20"), UnitCost: cost("6")},
		},
	})
	require.NoError(t, err)

	movement, err := uc.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypeSaleShipment,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("-4")},
		},
	})
	require.NoError(t, err)
	require.Len(t, movement.Lines, 1)
	assert.True(t, movement.Lines[0].UnitCost.Equal(qty("6")), "la salida valora al promedio vigente")
	assert.True(t, movement.Lines[0].ValueDelta.Equal(qty("-24")))

	b := store.balances[balanceKey(testTenant, testVariantA, testWarehouse)]
	assert.True(t, b.OnHand.Equal(qty("16")))
	assert.True(t, b.AverageCost.Equal(qty("6")))
}

func TestRecordMovement_ConservacionDelLibroMayor(t *testing.T) {
	// Invariante: la suma de deltas del libro mayor reproduce el saldo en mano.
	store := newFakeStore()
	uc := newEngine(store, true)
	ctx := tenantCtx()

	inputs := []inventory.MovementLineInput{
		{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("10"), UnitCost: cost("5")},
		{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("-3")},
		{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("2.5"), UnitCost: cost("6.5")},
		{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("-1.25")},
	}
	for _, l := range inputs {
		_, err := uc.RecordMovement(ctx, inventory.MovementInput{
			MovementType: entity.MovementTypeAdjustment,
			Lines:        []inventory.MovementLineInput{l},
		})
		require.NoError(t, err)
	}

	sum := decimal.Zero
	for _, e := range store.ledger {
		sum = sum.Add(e.QuantityDelta)
	}
	b := store.balances[balanceKey(testTenant, testVariantA, testWarehouse)]
	assert.True(t, sum.Equal(b.OnHand), "suma del libro mayor (%s) debe igualar el saldo (%s)", sum, b.OnHand)

	last := store.ledger[len(store.ledger)-1]
	assert.True(t, last.RunningQuantity.Equal(b.OnHand), "la última foto corriente debe coincidir con el saldo")
}

func TestRecordMovement_DosLineasMismaTripletaComponen(t *testing.T) {
	store := newFakeStore()
	uc := newEngine(store, true)

	movement, err := uc.RecordMovement(tenantCtx(), inventory.MovementInput{
		MovementType: entity.MovementTypePurchaseReceipt,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("10"), UnitCost: cost("5")},
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("10"), UnitCost: cost("7")},
		},
	})
	require.NoError(t, err)
	require.Len(t, movement.Lines, 2)

	// La segunda línea ve el efecto de la primera: el libro mayor lo registra.
	assert.True(t, store.ledger[0].RunningQuantity.Equal(qty("10")))
	assert.True(t, store.ledger[1].RunningQuantity.Equal(qty("20")))
	assert.True(t, store.ledger[1].AverageCost.Equal(qty("6")))
}

func TestRecordMovement_StockInsuficienteBloqueaTodo(t *testing.T) {
	// Con AllowNegative desactivado, una segunda línea inválida revierte el
	// movimiento completo: la primera línea no deja rastro.
	store := newFakeStore()
	uc := newEngine(store, false)
	ctx := tenantCtx()

	_, err := uc.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypePurchaseReceipt,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("5"), UnitCost: cost("10")},
		},
	})
	require.NoError(t, err)

	_, err = uc.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypeSaleShipment,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("-2")},
			{VariantID: testVariantB, WarehouseID: testWarehouse, Quantity: qty("-1")}, // sin stock
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	b := store.balances[balanceKey(testTenant, testVariantA, testWarehouse)]
	assert.True(t, b.OnHand.Equal(qty("5")), "el rollback debe dejar el saldo intacto")
	assert.Len(t, store.ledger, 1, "el movimiento fallido no deja entradas en el libro mayor")
	assert.Len(t, store.movements, 1)
}

func TestRecordMovement_NegativoPermitidoPorPolitica(t *testing.T) {
	store := newFakeStore()
	uc := newEngine(store, true)

	_, err := uc.RecordMovement(tenantCtx(), inventory.MovementInput{
		MovementType: entity.MovementTypeSaleShipment,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("-3")},
		},
	})
	require.NoError(t, err)

	b := store.balances[balanceKey(testTenant, testVariantA, testWarehouse)]
	assert.True(t, b.OnHand.Equal(qty("-3")), "la política histórica permite saldo negativo")
}

func TestRecordMovement_SinTenantFalla(t *testing.T) {
	store := newFakeStore()
	uc := newEngine(store, true)

	_, err := uc.RecordMovement(context.Background(), inventory.MovementInput{
		MovementType: entity.MovementTypeAdjustment,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNoTenant)
}

func TestRecordMovement_AislamientoEntreTenants(t *testing.T) {
	// Dos inquilinos mueven la misma variante en la misma bodega (mismos
	// identificadores): cada saldo vive en su propio registro y las consultas
	// de uno jamás ven los asientos del otro.
	store := newFakeStore()
	uc := newEngine(store, true)
	ctxA := tenant.Activate(context.Background(), testTenant)
	ctxB := tenant.Activate(context.Background(), otherTenant)

	_, err := uc.RecordMovement(ctxA, inventory.MovementInput{
		MovementType: entity.MovementTypePurchaseReceipt,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("10"), UnitCost: cost("5")},
		},
	})
	require.NoError(t, err)

	_, err = uc.RecordMovement(ctxB, inventory.MovementInput{
		MovementType: entity.MovementTypePurchaseReceipt,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("3"), UnitCost: cost("8")},
		},
	})
	require.NoError(t, err)

	balA := store.balances[balanceKey(testTenant, testVariantA, testWarehouse)]
	balB := store.balances[balanceKey(otherTenant, testVariantA, testWarehouse)]
	require.NotNil(t, balA)
	require.NotNil(t, balB)
	assert.True(t, balA.OnHand.Equal(qty("10")), "el movimiento de B no debe tocar el saldo de A")
	assert.True(t, balA.AverageCost.Equal(qty("5")))
	assert.True(t, balB.OnHand.Equal(qty("3")), "el movimiento de A no debe tocar el saldo de B")
	assert.True(t, balB.AverageCost.Equal(qty("8")))

	balancesA, err := uc.Balances(ctxA, repository.BalanceFilter{})
	require.NoError(t, err)
	require.Len(t, balancesA, 1, "cada inquilino consulta solo sus propios saldos")
	assert.Equal(t, testTenant, balancesA[0].TenantID)
	assert.True(t, balancesA[0].OnHand.Equal(qty("10")))

	ledgerB, err := uc.LedgerEntries(ctxB, repository.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, ledgerB, 1, "el libro mayor de B no contiene asientos de A")
	assert.Equal(t, otherTenant, ledgerB[0].TenantID)
	assert.True(t, ledgerB[0].QuantityDelta.Equal(qty("3")))

	// Un tercer inquilino sin movimientos no ve absolutamente nada.
	ctxC := tenant.Activate(context.Background(), "00000000-0000-0000-0000-0000000000cc")
	balancesC, err := uc.Balances(ctxC, repository.BalanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, balancesC)
	ledgerC, err := uc.LedgerEntries(ctxC, repository.LedgerFilter{})
	require.NoError(t, err)
	assert.Empty(t, ledgerC)
}

func TestRecordMovement_ValidacionDeEntrada(t *testing.T) {
	store := newFakeStore()
	uc := newEngine(store, true)
	ctx := tenantCtx()

	casos := []struct {
		nombre string
		input  inventory.MovementInput
		want   error
	}{
		{
			nombre: "sin tipo de movimiento",
			input: inventory.MovementInput{Lines: []inventory.MovementLineInput{
				{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("1")},
			}},
			want: domain.ErrInvalidInput,
		},
		{
			nombre: "sin líneas",
			input:  inventory.MovementInput{MovementType: entity.MovementTypeAdjustment},
			want:   domain.ErrEmptyLines,
		},
		{
			nombre: "cantidad cero",
			input: inventory.MovementInput{MovementType: entity.MovementTypeAdjustment, Lines: []inventory.MovementLineInput{
				{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: decimal.Zero},
			}},
			want: domain.ErrInvalidInput,
		},
		{
			nombre: "costo negativo",
			input: inventory.MovementInput{MovementType: entity.MovementTypeAdjustment, Lines: []inventory.MovementLineInput{
				{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("1"), UnitCost: cost("-1")},
			}},
			want: domain.ErrInvalidInput,
		},
		{
			nombre: "cantidad fuera de precisión",
			input: inventory.MovementInput{MovementType: entity.MovementTypeAdjustment, Lines: []inventory.MovementLineInput{
				{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("10000000000000")},
			}},
			want: domain.ErrPrecision,
		},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := uc.RecordMovement(ctx, c.input)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestRecordMovement_VarianteInexistente(t *testing.T) {
	store := newFakeStore()
	uc := newEngine(store, true)

	_, err := uc.RecordMovement(tenantCtx(), inventory.MovementInput{
		MovementType: entity.MovementTypeAdjustment,
		Lines: []inventory.MovementLineInput{
			{VariantID: "no-existe", WarehouseID: testWarehouse, Quantity: qty("1"), UnitCost: cost("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.movements, "nada debe persistirse si una referencia no existe")
}

func TestRecordMovement_SalidaTotalReiniciaPromedio(t *testing.T) {
	store := newFakeStore()
	uc := newEngine(store, true)
	ctx := tenantCtx()

	_, err := uc.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypePurchaseReceipt,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("3"), UnitCost: cost("6.6667")},
		},
	})
	require.NoError(t, err)

	_, err = uc.RecordMovement(ctx, inventory.MovementInput{
		MovementType: entity.MovementTypeSaleShipment,
		Lines: []inventory.MovementLineInput{
			{VariantID: testVariantA, WarehouseID: testWarehouse, Quantity: qty("-3")},
		},
	})
	require.NoError(t, err)

	b := store.balances[balanceKey(testTenant, testVariantA, testWarehouse)]
	assert.True(t, b.OnHand.IsZero())
	assert.True(t, b.AverageCost.IsZero(), "con saldo cero el promedio se reinicia")

	last := store.ledger[len(store.ledger)-1]
	assert.True(t, last.RunningValue.IsZero(), "el valor corriente se purga al llegar a cero")
	assert.True(t, last.CreatedAt.Before(time.Now().Add(time.Second)))
}
