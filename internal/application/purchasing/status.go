package purchasing

import (
	"github.com/shopspring/decimal"

	"github.com/irshados/backoffice/internal/domain/entity"
)

// DeriveOrderStatus calcula el estado de una orden de compra a partir de los
// contadores agregados de sus líneas (función pura). Los estados terminales
// administrativos (CLOSED, CANCELLED) se respetan siempre: la derivación nunca
// los sobreescribe.
func DeriveOrderStatus(current string, ordered, received, billed decimal.Decimal, hasPaidBill bool) string {
	if current == entity.PurchaseOrderStatusClosed || current == entity.PurchaseOrderStatusCancelled {
		return current
	}
	switch {
	case ordered.IsZero():
		return entity.PurchaseOrderStatusDraft
	case received.GreaterThanOrEqual(ordered) && billed.GreaterThanOrEqual(ordered):
		if hasPaidBill {
			return entity.PurchaseOrderStatusPaid
		}
		return entity.PurchaseOrderStatusBilled
	case received.GreaterThanOrEqual(ordered):
		return entity.PurchaseOrderStatusReceived
	case received.IsPositive():
		return entity.PurchaseOrderStatusReceiving
	default:
		return entity.PurchaseOrderStatusSubmitted
	}
}
