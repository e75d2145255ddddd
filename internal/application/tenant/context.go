package tenant

import (
	"context"

	"github.com/irshados/backoffice/internal/domain"
)

// El tenant activo viaja en el context.Context de la unidad de trabajo.
// Activate devuelve un contexto hijo: al salir del scope que lo creó, el
// contexto padre (con el tenant anterior, o ninguno) vuelve a regir solo.
// No hay estado global mutable que restaurar, ni fugas entre goroutines o
// conexiones reutilizadas.

type ctxKey struct{}

// Activate ata el tenant al contexto. Un tenantID vacío desactiva el tenant
// para el scope hijo (útil en trabajos administrativos).
func Activate(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, tenantID)
}

// Current devuelve el tenant activo y si existe uno.
func Current(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// MustCurrent devuelve el tenant activo o ErrNoTenant.
// Las operaciones con alcance de tenant deben fallar explícito, no adivinar.
func MustCurrent(ctx context.Context) (string, error) {
	id, ok := Current(ctx)
	if !ok {
		return "", domain.ErrNoTenant
	}
	return id, nil
}
