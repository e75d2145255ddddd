package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/irshados/backoffice/internal/domain"
)

// Precisión fija del libro de inventario: cantidades a 3 decimales,
// valores monetarios a 4. Redondeo half-up en cada cuantización
// (Round de shopspring redondea el .5 alejándose de cero, igual que ROUND_HALF_UP).
const (
	QuantityPlaces = 3
	CurrencyPlaces = 4

	// Dígitos enteros máximos representables (NUMERIC(16,3) / NUMERIC(16,4) en el esquema).
	quantityIntDigits = 13
	currencyIntDigits = 12
)

// QuantizeQuantity normaliza una cantidad a 3 decimales, half-up.
func QuantizeQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityPlaces)
}

// QuantizeCurrency normaliza un valor monetario a 4 decimales, half-up.
func QuantizeCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// ValidateQuantity rechaza cantidades que no caben en la columna destino.
func ValidateQuantity(d decimal.Decimal) error {
	if !fits(d, quantityIntDigits) {
		return domain.ErrPrecision
	}
	return nil
}

// ValidateCurrency rechaza valores monetarios que no caben en la columna destino.
func ValidateCurrency(d decimal.Decimal) error {
	if !fits(d, currencyIntDigits) {
		return domain.ErrPrecision
	}
	return nil
}

func fits(d decimal.Decimal, intDigits int) bool {
	limit := decimal.New(1, int32(intDigits))
	return d.Abs().LessThan(limit)
}
