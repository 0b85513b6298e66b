package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
)

func TestSimulatedQueue_ReproduceFIFO(t *testing.T) {
	q := inventory.NewSimulatedQueue(nil, inventory.DefaultPrecision())
	q.Push(d("10"), d("100"), t0)
	q.Push(d("10"), d("150"), t0.Add(time.Hour))

	res := q.Consume(d("12"))
	assert.True(t, res.Cost.Equal(d("1300")))

	qty, value := q.Totals()
	assert.True(t, qty.Equal(d("8")))
	assert.True(t, value.Equal(d("1200")))
	assert.Equal(t, 1, q.Len())
}

func TestSimulatedQueue_SemillaYOrdenPorFecha(t *testing.T) {
	seed := []inventory.QueueLayer{layer(7, 2*time.Hour, "5", "300")}
	q := inventory.NewSimulatedQueue(seed, inventory.DefaultPrecision())
	// Entrada anterior a la semilla: debe consumirse primero.
	q.Push(d("5"), d("100"), t0)

	res := q.Consume(d("5"))
	assert.True(t, res.Cost.Equal(d("500")))
	qty, value := q.Totals()
	assert.True(t, qty.Equal(d("5")))
	assert.True(t, value.Equal(d("1500")))
}

func TestSimulatedQueue_FaltanteNoEsFatal(t *testing.T) {
	q := inventory.NewSimulatedQueue(nil, inventory.DefaultPrecision())
	q.Push(d("2"), d("10"), t0)
	res := q.Consume(d("5"))
	assert.True(t, res.Short())
	assert.True(t, res.Missing.Equal(d("3")))
	qty, _ := q.Totals()
	assert.True(t, qty.IsZero())
}

func TestSimulatedQueue_PushValueConservaValor(t *testing.T) {
	q := inventory.NewSimulatedQueue(nil, inventory.DefaultPrecision())
	q.PushValue(d("3"), d("100"), t0)
	_, value := q.Totals()
	assert.True(t, value.Equal(d("100")))
	res := q.Consume(d("3"))
	assert.True(t, res.Cost.Equal(d("100")))
}
