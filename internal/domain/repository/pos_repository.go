package repository

import (
	"context"

	"github.com/irshados/backoffice/internal/domain/entity"
)

// POSRepository puerto de persistencia del punto de venta.
type POSRepository interface {
	CreateShift(ctx context.Context, shift *entity.POSShift) error
	GetShift(ctx context.Context, tenantID, id string) (*entity.POSShift, error)
	UpdateShift(ctx context.Context, shift *entity.POSShift) error

	CreateSale(ctx context.Context, sale *entity.POSSale, items []*entity.POSSaleItem) error
	GetSale(ctx context.Context, tenantID, id string) (*entity.POSSale, error)
	SaleItems(ctx context.Context, tenantID, saleID string) ([]*entity.POSSaleItem, error)
	UpdateSale(ctx context.Context, sale *entity.POSSale) error
	UpdateSaleItem(ctx context.Context, item *entity.POSSaleItem) error

	CreatePayment(ctx context.Context, payment *entity.POSSalePayment) error
	ListPostedPayments(ctx context.Context, tenantID, saleID string) ([]*entity.POSSalePayment, error)
}

// RestaurantRepository puerto de persistencia de menú, recetas y comandas.
type RestaurantRepository interface {
	GetMenuItem(ctx context.Context, tenantID, id string) (*entity.MenuItem, error)
	GetRecipe(ctx context.Context, tenantID, id string) (*entity.Recipe, error)
	RecipeComponents(ctx context.Context, tenantID, recipeID string) ([]*entity.RecipeComponent, error)

	CreateTicket(ctx context.Context, ticket *entity.KitchenTicket) error
	CreateTicketLine(ctx context.Context, line *entity.KitchenTicketLine) error
	GetTicket(ctx context.Context, tenantID, id string) (*entity.KitchenTicket, error)
}
