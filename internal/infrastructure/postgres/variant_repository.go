package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo implementación de VariantRepository sobre PostgreSQL (usable con pool o tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de variantes. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

const variantColumns = `id, tenant_id, sku, name, unit_name, price, tax_rate, is_active, created_at, updated_at`

// Create persiste una variante nueva. Devuelve ErrDuplicate si el SKU ya existe en el tenant.
func (r *VariantRepo) Create(ctx context.Context, variant *entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (` + variantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		variant.ID, variant.TenantID, variant.SKU, variant.Name, variant.UnitName,
		variant.Price, variant.TaxRate, variant.IsActive,
		variant.CreatedAt, variant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// GetByID obtiene una variante del tenant por ID.
func (r *VariantRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.ProductVariant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM product_variants WHERE tenant_id = $1 AND id = $2`
	var v entity.ProductVariant
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&v.ID, &v.TenantID, &v.SKU, &v.Name, &v.UnitName,
		&v.Price, &v.TaxRate, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return &v, nil
}

// List lista variantes del tenant con paginación.
func (r *VariantRepo) List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.ProductVariant, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT ` + variantColumns + `
		FROM product_variants WHERE tenant_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		var v entity.ProductVariant
		if err := rows.Scan(&v.ID, &v.TenantID, &v.SKU, &v.Name, &v.UnitName,
			&v.Price, &v.TaxRate, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
