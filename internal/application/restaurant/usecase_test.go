package restaurant_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/application/restaurant"
	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
	"github.com/irshados/backoffice/pkg/logger"
)

const (
	testTenant    = "00000000-0000-0000-0000-0000000000aa"
	testWarehouse = "00000000-0000-0000-0000-0000000000w1"
	menuBandeja   = "00000000-0000-0000-0000-0000000000m1"
	menuGaseosa   = "00000000-0000-0000-0000-0000000000m2"
	recipeBandeja = "00000000-0000-0000-0000-0000000000r1"
	insumoArroz   = "00000000-0000-0000-0000-0000000000i1"
	insumoFrijol  = "00000000-0000-0000-0000-0000000000i2"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeRestaurantRepo struct {
	menuItems  map[string]*entity.MenuItem
	recipes    map[string]*entity.Recipe
	components map[string][]*entity.RecipeComponent
	tickets    map[string]*entity.KitchenTicket
	lines      []*entity.KitchenTicketLine
}

func (r *fakeRestaurantRepo) GetMenuItem(_ context.Context, _, id string) (*entity.MenuItem, error) {
	return r.menuItems[id], nil
}
func (r *fakeRestaurantRepo) GetRecipe(_ context.Context, _, id string) (*entity.Recipe, error) {
	return r.recipes[id], nil
}
func (r *fakeRestaurantRepo) RecipeComponents(_ context.Context, _, recipeID string) ([]*entity.RecipeComponent, error) {
	return r.components[recipeID], nil
}
func (r *fakeRestaurantRepo) CreateTicket(_ context.Context, t *entity.KitchenTicket) error {
	r.tickets[t.ID] = t
	return nil
}
func (r *fakeRestaurantRepo) CreateTicketLine(_ context.Context, l *entity.KitchenTicketLine) error {
	r.lines = append(r.lines, l)
	return nil
}
func (r *fakeRestaurantRepo) GetTicket(_ context.Context, _, id string) (*entity.KitchenTicket, error) {
	return r.tickets[id], nil
}

type fakeWarehouses struct{ warehouse *entity.Warehouse }

func (f fakeWarehouses) Create(_ context.Context, _ *entity.Warehouse) error { return nil }
func (f fakeWarehouses) GetByID(_ context.Context, _, _ string) (*entity.Warehouse, error) {
	return f.warehouse, nil
}
func (f fakeWarehouses) GetDefault(_ context.Context, _ string) (*entity.Warehouse, error) {
	return f.warehouse, nil
}
func (f fakeWarehouses) List(_ context.Context, _ string) ([]*entity.Warehouse, error) {
	if f.warehouse == nil {
		return nil, nil
	}
	return []*entity.Warehouse{f.warehouse}, nil
}

type fakeTxRunner struct {
	repo       *fakeRestaurantRepo
	warehouses fakeWarehouses
}

func (r fakeTxRunner) Run(_ context.Context, fn func(tx repository.Tx) error) error {
	return fn(repository.Tx{Restaurant: r.repo, Warehouses: r.warehouses})
}

type fakeInventory struct {
	calls []appinv.MovementInput
}

func (f *fakeInventory) RecordInTx(_ context.Context, _ repository.Tx, input appinv.MovementInput) (*entity.StockMovement, error) {
	f.calls = append(f.calls, input)
	return &entity.StockMovement{ID: "mov-rest-1"}, nil
}

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// newFixture arma un menú con una bandeja (con receta que rinde 2 porciones)
// y una gaseosa sin receta.
func newFixture(warehouse *entity.Warehouse) (*restaurant.UseCase, *fakeRestaurantRepo, *fakeInventory, context.Context) {
	recipeID := recipeBandeja
	repo := &fakeRestaurantRepo{
		menuItems: map[string]*entity.MenuItem{
			menuBandeja: {ID: menuBandeja, TenantID: testTenant, Name: "Bandeja paisa", RecipeID: &recipeID},
			menuGaseosa: {ID: menuGaseosa, TenantID: testTenant, Name: "Gaseosa"},
		},
		recipes: map[string]*entity.Recipe{
			recipeBandeja: {ID: recipeBandeja, TenantID: testTenant, Name: "Bandeja paisa", YieldQuantity: d("2")},
		},
		components: map[string][]*entity.RecipeComponent{
			recipeBandeja: {
				{ID: "c1", RecipeID: recipeBandeja, VariantID: insumoArroz, Quantity: d("0.5")},
				{ID: "c2", RecipeID: recipeBandeja, VariantID: insumoFrijol, Quantity: d("0.3")},
			},
		},
		tickets: map[string]*entity.KitchenTicket{},
	}
	inv := &fakeInventory{}
	uc := restaurant.NewUseCase(fakeTxRunner{repo, fakeWarehouses{warehouse}}, inv, logger.Nop())
	return uc, repo, inv, tenant.Activate(context.Background(), testTenant)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreateTicket_ConsumePorRecetaConFactor(t *testing.T) {
	warehouse := &entity.Warehouse{ID: testWarehouse, TenantID: testTenant, Name: "Cocina"}
	uc, repo, inv, ctx := newFixture(warehouse)

	// 4 bandejas con receta que rinde 2: factor 2 → arroz 1.0, frijol 0.6.
	ticket, err := uc.CreateTicket(ctx, restaurant.CreateTicketInput{
		Reference: "MESA-5",
		Lines: []restaurant.TicketLineInput{
			{MenuItemID: menuBandeja, Quantity: d("4")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.KitchenTicketStatusOpen, ticket.Status)
	assert.Len(t, repo.lines, 1)

	require.Len(t, inv.calls, 1)
	call := inv.calls[0]
	assert.Equal(t, entity.MovementTypeSaleShipment, call.MovementType)
	assert.Equal(t, "kitchen_ticket", call.SourceDocumentType)
	require.Len(t, call.Lines, 2)

	porVariante := map[string]decimal.Decimal{}
	for _, l := range call.Lines {
		porVariante[l.VariantID] = l.Quantity
		assert.Equal(t, testWarehouse, l.WarehouseID)
		assert.Nil(t, l.UnitCost, "el consumo valora al costo promedio")
	}
	assert.True(t, porVariante[insumoArroz].Equal(d("-1")), "arroz: 0.5 * (4/2) = 1 consumido")
	assert.True(t, porVariante[insumoFrijol].Equal(d("-0.6")), "frijol: 0.3 * (4/2) = 0.6 consumido")
}

func TestCreateTicket_PlatoSinRecetaNoConsume(t *testing.T) {
	warehouse := &entity.Warehouse{ID: testWarehouse, TenantID: testTenant}
	uc, _, inv, ctx := newFixture(warehouse)

	_, err := uc.CreateTicket(ctx, restaurant.CreateTicketInput{
		Reference: "MESA-1",
		Lines: []restaurant.TicketLineInput{
			{MenuItemID: menuGaseosa, Quantity: d("2")},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, inv.calls, "un plato sin receta no genera movimiento de inventario")
}

func TestCreateTicket_SinBodegaOmiteConsumo(t *testing.T) {
	// Sin bodega utilizable la comanda se crea igual; el consumo se omite.
	uc, repo, inv, ctx := newFixture(nil)

	ticket, err := uc.CreateTicket(ctx, restaurant.CreateTicketInput{
		Reference: "MESA-2",
		Lines: []restaurant.TicketLineInput{
			{MenuItemID: menuBandeja, Quantity: d("1")},
		},
	})
	require.NoError(t, err, "la falta de bodega no bloquea la comanda")
	assert.NotNil(t, repo.tickets[ticket.ID])
	assert.Empty(t, inv.calls)
}

func TestCreateTicket_RendimientoNoPositivoCuentaComoUno(t *testing.T) {
	warehouse := &entity.Warehouse{ID: testWarehouse, TenantID: testTenant}
	uc, repo, inv, ctx := newFixture(warehouse)
	repo.recipes[recipeBandeja].YieldQuantity = decimal.Zero

	_, err := uc.CreateTicket(ctx, restaurant.CreateTicketInput{
		Reference: "MESA-3",
		Lines: []restaurant.TicketLineInput{
			{MenuItemID: menuBandeja, Quantity: d("2")},
		},
	})
	require.NoError(t, err)

	require.Len(t, inv.calls, 1)
	porVariante := map[string]decimal.Decimal{}
	for _, l := range inv.calls[0].Lines {
		porVariante[l.VariantID] = l.Quantity
	}
	assert.True(t, porVariante[insumoArroz].Equal(d("-1")), "con rendimiento 0 el factor es la cantidad producida")
}

func TestCreateTicket_Validaciones(t *testing.T) {
	warehouse := &entity.Warehouse{ID: testWarehouse, TenantID: testTenant}
	uc, _, _, ctx := newFixture(warehouse)

	_, err := uc.CreateTicket(ctx, restaurant.CreateTicketInput{Reference: "MESA-4"})
	assert.ErrorIs(t, err, domain.ErrEmptyLines)

	_, err = uc.CreateTicket(ctx, restaurant.CreateTicketInput{
		Reference: "MESA-4",
		Lines:     []restaurant.TicketLineInput{{MenuItemID: menuBandeja, Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateTicket(ctx, restaurant.CreateTicketInput{
		Reference: "MESA-4",
		Lines:     []restaurant.TicketLineInput{{MenuItemID: "no-existe", Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
