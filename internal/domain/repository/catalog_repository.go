package repository

import (
	"context"

	"github.com/irshados/backoffice/internal/domain/entity"
)

// TenantRepository puerto de persistencia para tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
}

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, tenantID, id string) (*entity.User, error)
}

// VariantRepository puerto de persistencia para variantes de producto.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.ProductVariant) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.ProductVariant, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.ProductVariant, error)
}

// WarehouseRepository puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Warehouse, error)
	// GetDefault devuelve la bodega por defecto del tenant, o la primera si
	// ninguna está marcada, o nil si el tenant no tiene bodegas.
	GetDefault(ctx context.Context, tenantID string) (*entity.Warehouse, error)
	List(ctx context.Context, tenantID string) ([]*entity.Warehouse, error)
}
