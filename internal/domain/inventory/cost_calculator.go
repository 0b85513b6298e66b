package inventory

import "github.com/shopspring/decimal"

// Precision dígitos de redondeo para valores monetarios y costos unitarios.
type Precision struct {
	Value      int32 // valores y costo en destino (precisión de precio)
	UnitDigits int32 // costo unitario
}

// DefaultPrecision 2 decimales para valores, 6 para costo unitario.
func DefaultPrecision() Precision {
	return Precision{Value: 2, UnitDigits: 6}
}

// RoundValue redondea un valor monetario.
func (p Precision) RoundValue(d decimal.Decimal) decimal.Decimal {
	return d.Round(p.Value)
}

// RoundUnit redondea un costo unitario.
func (p Precision) RoundUnit(d decimal.Decimal) decimal.Decimal {
	return d.Round(p.UnitDigits)
}

// UnitCost costo unitario ponderado: valor / cantidad (en valor absoluto).
// Con cantidad cero devuelve cero.
func (p Precision) UnitCost(value, qty decimal.Decimal) decimal.Decimal {
	if qty.IsZero() {
		return decimal.Zero
	}
	return p.RoundUnit(value.Abs().Div(qty.Abs()))
}

// LineValue valor de qty unidades a unitCost.
func (p Precision) LineValue(qty, unitCost decimal.Decimal) decimal.Decimal {
	return p.RoundValue(qty.Mul(unitCost))
}
