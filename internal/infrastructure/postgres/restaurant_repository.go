package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

var _ repository.RestaurantRepository = (*RestaurantRepo)(nil)

// RestaurantRepo implementación de RestaurantRepository sobre PostgreSQL (usable con pool o tx).
type RestaurantRepo struct {
	q Querier
}

// NewRestaurantRepository construye el adaptador de restaurante. Pasar pool o tx (Querier).
func NewRestaurantRepository(q Querier) *RestaurantRepo {
	return &RestaurantRepo{q: q}
}

// GetMenuItem obtiene un plato del menú por ID.
func (r *RestaurantRepo) GetMenuItem(ctx context.Context, tenantID, id string) (*entity.MenuItem, error) {
	query := `
		SELECT id, tenant_id, name, price, recipe_id, is_active, created_at, updated_at
		FROM menu_items WHERE tenant_id = $1 AND id = $2`
	var m entity.MenuItem
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&m.ID, &m.TenantID, &m.Name, &m.Price, &m.RecipeID,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &m, nil
}

// GetRecipe obtiene una receta por ID.
func (r *RestaurantRepo) GetRecipe(ctx context.Context, tenantID, id string) (*entity.Recipe, error) {
	query := `
		SELECT id, tenant_id, name, yield_quantity, created_at, updated_at
		FROM recipes WHERE tenant_id = $1 AND id = $2`
	var rc entity.Recipe
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&rc.ID, &rc.TenantID, &rc.Name, &rc.YieldQuantity, &rc.CreatedAt, &rc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &rc, nil
}

// RecipeComponents lista los componentes de una receta.
func (r *RestaurantRepo) RecipeComponents(ctx context.Context, tenantID, recipeID string) ([]*entity.RecipeComponent, error) {
	query := `
		SELECT id, tenant_id, recipe_id, variant_id, quantity, created_at
		FROM recipe_components WHERE tenant_id = $1 AND recipe_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, tenantID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list recipe components: %w", err)
	}
	defer rows.Close()
	var list []*entity.RecipeComponent
	for rows.Next() {
		var c entity.RecipeComponent
		if err := rows.Scan(&c.ID, &c.TenantID, &c.RecipeID, &c.VariantID,
			&c.Quantity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe component: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// CreateTicket persiste una comanda de cocina.
func (r *RestaurantRepo) CreateTicket(ctx context.Context, ticket *entity.KitchenTicket) error {
	query := `
		INSERT INTO kitchen_tickets (id, tenant_id, reference, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		ticket.ID, ticket.TenantID, ticket.Reference, ticket.Status, ticket.Notes,
		ticket.CreatedAt, ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert kitchen ticket: %w", err)
	}
	return nil
}

// CreateTicketLine persiste una línea de comanda.
func (r *RestaurantRepo) CreateTicketLine(ctx context.Context, line *entity.KitchenTicketLine) error {
	query := `
		INSERT INTO kitchen_ticket_lines (id, tenant_id, ticket_id, menu_item_id, quantity, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.TenantID, line.TicketID, line.MenuItemID,
		line.Quantity, line.Notes, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert kitchen ticket line: %w", err)
	}
	return nil
}

// GetTicket obtiene una comanda por ID.
func (r *RestaurantRepo) GetTicket(ctx context.Context, tenantID, id string) (*entity.KitchenTicket, error) {
	query := `
		SELECT id, tenant_id, reference, status, notes, created_at, updated_at
		FROM kitchen_tickets WHERE tenant_id = $1 AND id = $2`
	var t entity.KitchenTicket
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(
		&t.ID, &t.TenantID, &t.Reference, &t.Status, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get kitchen ticket: %w", err)
	}
	return &t, nil
}
