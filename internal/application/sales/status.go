package sales

import (
	"github.com/shopspring/decimal"

	"github.com/irshados/backoffice/internal/domain/entity"
)

// DeriveOrderStatus calcula el estado de una orden de venta a partir de los
// contadores agregados de sus líneas (función pura). Los estados terminales
// administrativos (CLOSED, CANCELLED) se respetan siempre: la derivación nunca
// los sobreescribe.
func DeriveOrderStatus(current string, ordered, delivered, invoiced decimal.Decimal, hasPaidInvoice bool) string {
	if current == entity.SalesOrderStatusClosed || current == entity.SalesOrderStatusCancelled {
		return current
	}
	switch {
	case ordered.IsZero():
		return entity.SalesOrderStatusDraft
	case delivered.GreaterThanOrEqual(ordered) && invoiced.GreaterThanOrEqual(ordered):
		if hasPaidInvoice {
			return entity.SalesOrderStatusPaid
		}
		return entity.SalesOrderStatusInvoiced
	case delivered.GreaterThanOrEqual(ordered):
		return entity.SalesOrderStatusFulfilled
	case delivered.IsPositive():
		return entity.SalesOrderStatusPicking
	default:
		return entity.SalesOrderStatusConfirmed
	}
}
