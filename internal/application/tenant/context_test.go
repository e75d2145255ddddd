package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
)

func TestActivate_TenantVisibleEnScopeHijo(t *testing.T) {
	ctx := tenant.Activate(context.Background(), "tenant-1")

	id, ok := tenant.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, "tenant-1", id)
}

func TestActivate_ScopePadreNoSeContamina(t *testing.T) {
	parent := context.Background()
	_ = tenant.Activate(parent, "tenant-1")

	_, ok := tenant.Current(parent)
	assert.False(t, ok, "activar en un scope hijo no debe tocar el contexto padre")
}

func TestActivate_AnidadoRestauraAlSalir(t *testing.T) {
	outer := tenant.Activate(context.Background(), "tenant-1")
	inner := tenant.Activate(outer, "tenant-2")

	id, _ := tenant.Current(inner)
	assert.Equal(t, "tenant-2", id)

	// Al "salir" del scope interno basta con volver a usar el contexto externo.
	id, _ = tenant.Current(outer)
	assert.Equal(t, "tenant-1", id)
}

func TestActivate_VacioDesactiva(t *testing.T) {
	outer := tenant.Activate(context.Background(), "tenant-1")
	cleared := tenant.Activate(outer, "")

	_, ok := tenant.Current(cleared)
	assert.False(t, ok, "tenantID vacío desactiva el tenant en el scope hijo")
}

func TestMustCurrent_SinTenantFalla(t *testing.T) {
	_, err := tenant.MustCurrent(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoTenant)
}

func TestMustCurrent_ConTenant(t *testing.T) {
	ctx := tenant.Activate(context.Background(), "tenant-9")
	id, err := tenant.MustCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tenant-9", id)
}
