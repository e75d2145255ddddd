package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// UseCase mantenimiento de catálogo: tenants, variantes y bodegas.
type UseCase struct {
	txRunner   TxRunner
	tenantRepo repository.TenantRepository
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(txRunner TxRunner, tenantRepo repository.TenantRepository) *UseCase {
	return &UseCase{txRunner: txRunner, tenantRepo: tenantRepo}
}

// CreateTenant registra un negocio nuevo. No requiere tenant activo: es la
// operación que lo crea.
func (uc *UseCase) CreateTenant(ctx context.Context, name, slug string) (*entity.Tenant, error) {
	if name == "" || slug == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	t := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTenant obtiene un tenant por ID.
func (uc *UseCase) GetTenant(ctx context.Context, id string) (*entity.Tenant, error) {
	t, err := uc.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// CreateVariantInput entrada para crear una variante.
type CreateVariantInput struct {
	SKU      string
	Name     string
	UnitName string
	Price    decimal.Decimal
	TaxRate  decimal.Decimal
}

// CreateVariant crea una variante de producto en el tenant activo.
func (uc *UseCase) CreateVariant(ctx context.Context, in CreateVariantInput) (*entity.ProductVariant, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	v := &entity.ProductVariant{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		SKU:       in.SKU,
		Name:      in.Name,
		UnitName:  in.UnitName,
		Price:     in.Price,
		TaxRate:   in.TaxRate,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Variants.Create(ctx, v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ListVariants lista variantes del tenant activo.
func (uc *UseCase) ListVariants(ctx context.Context, limit, offset int) ([]*entity.ProductVariant, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var list []*entity.ProductVariant
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		list, err = tx.Variants.List(ctx, tenantID, limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CreateWarehouseInput entrada para crear una bodega.
type CreateWarehouseInput struct {
	Name      string
	Code      string
	Address   string
	IsDefault bool
}

// CreateWarehouse crea una bodega en el tenant activo.
func (uc *UseCase) CreateWarehouse(ctx context.Context, in CreateWarehouseInput) (*entity.Warehouse, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	w := &entity.Warehouse{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      in.Name,
		Code:      in.Code,
		Address:   in.Address,
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Warehouses.Create(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// ListWarehouses lista las bodegas del tenant activo.
func (uc *UseCase) ListWarehouses(ctx context.Context) ([]*entity.Warehouse, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var list []*entity.Warehouse
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		list, err = tx.Warehouses.List(ctx, tenantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
