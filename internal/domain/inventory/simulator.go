package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimulatedQueue cola FIFO en memoria para la previsualización; nunca escribe en la base.
type SimulatedQueue struct {
	layers []QueueLayer
	nextID int64
	p      Precision
}

// NewSimulatedQueue crea la cola a partir de capas sobrevivientes (se copian).
func NewSimulatedQueue(seed []QueueLayer, p Precision) *SimulatedQueue {
	q := &SimulatedQueue{p: p}
	for _, l := range seed {
		if l.LayerID >= q.nextID {
			q.nextID = l.LayerID + 1
		}
		if l.RemainingQty.IsPositive() {
			q.layers = append(q.layers, l)
		}
	}
	SortQueue(q.layers)
	return q
}

// Push agrega una entrada valorada a unitCost.
func (q *SimulatedQueue) Push(qty, unitCost decimal.Decimal, at time.Time) decimal.Decimal {
	value := q.p.LineValue(qty, unitCost)
	q.push(qty, unitCost, value, at)
	return value
}

// PushValue agrega una entrada con valor total exacto (traslados entre bodegas).
func (q *SimulatedQueue) PushValue(qty, value decimal.Decimal, at time.Time) {
	q.push(qty, q.p.UnitCost(value, qty), value, at)
}

func (q *SimulatedQueue) push(qty, unitCost, value decimal.Decimal, at time.Time) {
	if !qty.IsPositive() {
		return
	}
	q.layers = append(q.layers, QueueLayer{
		LayerID:        q.nextID,
		CreatedAt:      at,
		RemainingQty:   qty,
		RemainingValue: value,
		UnitCost:       unitCost,
	})
	q.nextID++
	SortQueue(q.layers)
}

// Consume saca qty desde la cabeza; las capas agotadas salen de la cola.
func (q *SimulatedQueue) Consume(qty decimal.Decimal) CostResult {
	res := PlanConsumption(q.layers, qty, q.p)
	byID := make(map[int64]Consumption, len(res.Consumptions))
	for _, c := range res.Consumptions {
		byID[c.LayerID] = c
	}
	kept := q.layers[:0]
	for _, l := range q.layers {
		if c, ok := byID[l.LayerID]; ok {
			if c.Exhausted {
				continue
			}
			l.RemainingQty = l.RemainingQty.Sub(c.Quantity)
			l.RemainingValue = l.RemainingValue.Sub(c.Value)
		}
		kept = append(kept, l)
	}
	q.layers = kept
	return res
}

// Totals saldo y valor de la cola simulada.
func (q *SimulatedQueue) Totals() (qty, value decimal.Decimal) {
	return QueueTotals(q.layers)
}

// Len cantidad de capas con saldo.
func (q *SimulatedQueue) Len() int { return len(q.layers) }
