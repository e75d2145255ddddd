package purchasing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/irshados/backoffice/internal/application/purchasing"
	"github.com/irshados/backoffice/internal/domain/entity"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestDeriveOrderStatus_Compras(t *testing.T) {
	casos := []struct {
		nombre      string
		current     string
		ordered     string
		received    string
		billed      string
		hasPaidBill bool
		want        string
	}{
		{"sin líneas es borrador", entity.PurchaseOrderStatusDraft, "0", "0", "0", false, entity.PurchaseOrderStatusDraft},
		{"con líneas y sin recepciones", entity.PurchaseOrderStatusDraft, "10", "0", "0", false, entity.PurchaseOrderStatusSubmitted},
		{"recepción parcial", entity.PurchaseOrderStatusSubmitted, "10", "4", "0", false, entity.PurchaseOrderStatusReceiving},
		{"recepción completa sin facturar", entity.PurchaseOrderStatusReceiving, "10", "10", "0", false, entity.PurchaseOrderStatusReceived},
		{"recibido y facturado", entity.PurchaseOrderStatusReceived, "10", "10", "10", false, entity.PurchaseOrderStatusBilled},
		{"facturado y pagado", entity.PurchaseOrderStatusBilled, "10", "10", "10", true, entity.PurchaseOrderStatusPaid},
		{"sobre-recepción cuenta como completa", entity.PurchaseOrderStatusReceiving, "10", "12", "0", false, entity.PurchaseOrderStatusReceived},
		{"facturado sin recibir no avanza", entity.PurchaseOrderStatusSubmitted, "10", "0", "10", false, entity.PurchaseOrderStatusSubmitted},
		{"cerrada es terminal", entity.PurchaseOrderStatusClosed, "10", "10", "10", true, entity.PurchaseOrderStatusClosed},
		{"cancelada es terminal", entity.PurchaseOrderStatusCancelled, "10", "10", "10", true, entity.PurchaseOrderStatusCancelled},
		{"cantidades fraccionarias", entity.PurchaseOrderStatusSubmitted, "2.500", "2.500", "0", false, entity.PurchaseOrderStatusReceived},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			got := purchasing.DeriveOrderStatus(c.current, d(c.ordered), d(c.received), d(c.billed), c.hasPaidBill)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestDeriveOrderStatus_EsIdempotente(t *testing.T) {
	// Derivar dos veces con los mismos contadores da el mismo estado.
	s1 := purchasing.DeriveOrderStatus(entity.PurchaseOrderStatusSubmitted, d("10"), d("4"), d("0"), false)
	s2 := purchasing.DeriveOrderStatus(s1, d("10"), d("4"), d("0"), false)
	assert.Equal(t, s1, s2)
}
