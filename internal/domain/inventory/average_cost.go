package inventory

import "github.com/shopspring/decimal"

// LineEffect es el resultado de aplicar una línea de movimiento sobre un saldo:
// el nuevo saldo corriente y los deltas que quedan en el libro mayor.
type LineEffect struct {
	UnitCost    decimal.Decimal // costo unitario efectivo de la línea
	ValueDelta  decimal.Decimal
	NewOnHand   decimal.Decimal
	NewValue    decimal.Decimal
	AverageCost decimal.Decimal
}

// ApplyLine implementa el costeo promedio ponderado (servicio de dominio puro).
//
// Para salidas (quantityDelta negativo) sin costo indicado se usa el costo promedio
// actual: no se puede "saber" un costo de salida distinto del que ya se tiene.
// Si el saldo llega exactamente a cero, costo promedio y valor corriente se
// restablecen a cero: evita la división por cero y purga el residuo de redondeo
// en vez de arrastrarlo indefinidamente.
func ApplyLine(prevOnHand, prevAverageCost, quantityDelta decimal.Decimal, unitCost *decimal.Decimal) LineEffect {
	prevValue := prevOnHand.Mul(prevAverageCost)

	cost := decimal.Zero
	if unitCost != nil {
		cost = QuantizeCurrency(*unitCost)
	}
	if quantityDelta.IsNegative() && cost.IsZero() {
		cost = prevAverageCost
	}

	valueDelta := QuantizeCurrency(cost.Mul(quantityDelta))
	newOnHand := QuantizeQuantity(prevOnHand.Add(quantityDelta))
	newValue := QuantizeCurrency(prevValue.Add(valueDelta))

	avg := decimal.Zero
	if newOnHand.IsZero() {
		newValue = decimal.Zero
	} else {
		avg = QuantizeCurrency(newValue.Div(newOnHand))
	}

	return LineEffect{
		UnitCost:    cost,
		ValueDelta:  valueDelta,
		NewOnHand:   newOnHand,
		NewValue:    newValue,
		AverageCost: avg,
	}
}
