package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
)

func TestProportionalShare(t *testing.T) {
	p := inventory.DefaultPrecision()
	assert.True(t, inventory.ProportionalShare(d("200"), d("6"), d("10"), p).Equal(d("120")))
	assert.True(t, inventory.ProportionalShare(d("100"), d("1"), d("3"), p).Equal(d("33.33")))
	assert.True(t, inventory.ProportionalShare(d("100"), d("3"), d("3"), p).Equal(d("100")))
	assert.True(t, inventory.ProportionalShare(decimal.Zero, d("3"), d("3"), p).IsZero())
	assert.True(t, inventory.ProportionalShare(d("100"), d("3"), decimal.Zero, p).IsZero())
}

func TestProportionalShare_Conservacion(t *testing.T) {
	p := inventory.DefaultPrecision()
	total, available := d("250"), d("7")
	for _, qty := range []string{"1", "2", "3", "5", "7"} {
		moved := inventory.ProportionalShare(total, d(qty), available, p)
		left := total.Sub(moved)
		assert.True(t, left.Add(moved).Equal(total), "qty=%s", qty)
		assert.False(t, left.IsNegative(), "qty=%s", qty)
	}
}

func TestPlanDepletion_MasAntiguasPrimero(t *testing.T) {
	allocs := []inventory.AllocationBalance{{ID: 1, Value: d("50")}, {ID: 2, Value: d("80")}, {ID: 3, Value: d("10")}}
	plan, left := inventory.PlanDepletion(allocs, d("100"))
	require.Len(t, plan, 2)
	assert.True(t, plan[0].After.IsZero())
	assert.True(t, plan[1].Taken.Equal(d("50")))
	assert.True(t, plan[1].After.Equal(d("30")))
	assert.True(t, left.IsZero())
}

func TestPlanDepletion_NuncaBajoCero(t *testing.T) {
	allocs := []inventory.AllocationBalance{{ID: 1, Value: d("20")}}
	plan, left := inventory.PlanDepletion(allocs, d("30"))
	require.Len(t, plan, 1)
	assert.True(t, plan[0].After.IsZero())
	assert.True(t, left.Equal(d("10")))
}

func TestSplitLandedCost(t *testing.T) {
	onHand, consumed := inventory.SplitLandedCost(d("200"), d("4"), d("10"), inventory.DefaultPrecision())
	assert.True(t, onHand.Equal(d("80")))
	assert.True(t, consumed.Equal(d("120")))
}
