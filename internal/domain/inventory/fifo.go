package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// QueueLayer capa positiva vista por la cola FIFO.
type QueueLayer struct {
	LayerID        int64
	CreatedAt      time.Time
	RemainingQty   decimal.Decimal
	RemainingValue decimal.Decimal
	UnitCost       decimal.Decimal
}

// Consumption porción consumida de una capa.
type Consumption struct {
	LayerID   int64
	Quantity  decimal.Decimal
	Value     decimal.Decimal
	UnitCost  decimal.Decimal
	Exhausted bool // la capa queda en 0 / 0
}

// CostResult resultado de calcular el consumo FIFO de una cantidad.
type CostResult struct {
	Requested    decimal.Decimal
	Quantity     decimal.Decimal // cantidad cubierta por la cola
	Cost         decimal.Decimal
	Missing      decimal.Decimal // faltante tras agotar la cola
	Consumptions []Consumption
}

// Short indica si la cola no alcanzó.
func (r CostResult) Short() bool {
	return r.Missing.IsPositive()
}

// UnitCost costo unitario ponderado de lo consumido.
func (r CostResult) UnitCost(p Precision) decimal.Decimal {
	return p.UnitCost(r.Cost, r.Quantity)
}

// SortQueue ordena por fecha de creación y luego por ID (estable).
func SortQueue(q []QueueLayer) {
	sort.SliceStable(q, func(i, j int) bool {
		if !q[i].CreatedAt.Equal(q[j].CreatedAt) {
			return q[i].CreatedAt.Before(q[j].CreatedAt)
		}
		return q[i].LayerID < q[j].LayerID
	})
}

// PlanConsumption recorre la cola (ya ordenada) tomando min(saldo, pendiente) de cada capa.
// No modifica queue. Si una capa se agota se toma su RemainingValue completo para que quede en cero.
func PlanConsumption(queue []QueueLayer, qty decimal.Decimal, p Precision) CostResult {
	res := CostResult{Requested: qty}
	left := qty
	for _, l := range queue {
		if !left.IsPositive() {
			break
		}
		if !l.RemainingQty.IsPositive() {
			continue
		}
		take := decimal.Min(l.RemainingQty, left)
		c := Consumption{LayerID: l.LayerID, Quantity: take, UnitCost: l.UnitCost}
		if take.Equal(l.RemainingQty) {
			c.Value = l.RemainingValue
			c.Exhausted = true
		} else {
			c.Value = decimal.Min(p.LineValue(take, l.UnitCost), l.RemainingValue)
		}
		res.Consumptions = append(res.Consumptions, c)
		res.Quantity = res.Quantity.Add(take)
		res.Cost = res.Cost.Add(c.Value)
		left = left.Sub(take)
	}
	if left.IsPositive() {
		res.Missing = left
	}
	return res
}

// QueueTotals suma saldo y valor restante de la cola.
func QueueTotals(queue []QueueLayer) (qty, value decimal.Decimal) {
	for _, l := range queue {
		qty = qty.Add(l.RemainingQty)
		value = value.Add(l.RemainingValue)
	}
	return qty, value
}
