package inventory

import "github.com/shopspring/decimal"

// ProportionalShare parte de total que acompaña a qty unidades de un saldo available.
// Si qty cubre todo el saldo se devuelve total completo (sin residuos de redondeo).
func ProportionalShare(total, qty, available decimal.Decimal, p Precision) decimal.Decimal {
	if !total.IsPositive() || !qty.IsPositive() || !available.IsPositive() {
		return decimal.Zero
	}
	if qty.GreaterThanOrEqual(available) {
		return total
	}
	return decimal.Min(p.RoundValue(total.Mul(qty).Div(available)), total)
}

// AllocationBalance saldo de una asignación de costo en destino, en orden FIFO.
type AllocationBalance struct {
	ID    int64
	Value decimal.Decimal
}

// Depletion reducción planificada de una asignación.
type Depletion struct {
	ID     int64
	Before decimal.Decimal
	Taken  decimal.Decimal
	After  decimal.Decimal
}

// PlanDepletion descuenta amount desde las asignaciones más antiguas sin dejar ninguna bajo cero.
// Devuelve lo que no se pudo descontar (cero en operación normal).
func PlanDepletion(allocs []AllocationBalance, amount decimal.Decimal) ([]Depletion, decimal.Decimal) {
	var out []Depletion
	left := amount
	for _, a := range allocs {
		if !left.IsPositive() {
			break
		}
		if !a.Value.IsPositive() {
			continue
		}
		take := decimal.Min(a.Value, left)
		out = append(out, Depletion{ID: a.ID, Before: a.Value, Taken: take, After: a.Value.Sub(take)})
		left = left.Sub(take)
	}
	return out, left
}

// SplitLandedCost reparte amount entre la parte aún en stock y la ya consumida de una capa.
func SplitLandedCost(amount, remainingQty, quantity decimal.Decimal, p Precision) (onHand, consumed decimal.Decimal) {
	onHand = ProportionalShare(amount, remainingQty, quantity, p)
	return onHand, amount.Sub(onHand)
}
