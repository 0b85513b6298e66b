package recalculation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

func testPlan() *plan {
	return &plan{groups: []group{
		{ProductID: "p1", WarehouseID: "A"},
		{ProductID: "p1", WarehouseID: "B"},
		{ProductID: "p2", WarehouseID: "A"},
		{ProductID: "p3", WarehouseID: "A"},
		{ProductID: "p3", WarehouseID: "B"},
		{ProductID: "p3", WarehouseID: "C"},
	}}
}

func TestBatches_NoPartenProducto(t *testing.T) {
	p := testPlan()
	assert.Equal(t, []string{"p1", "p2", "p3"}, p.products())
	assert.Equal(t, [][]string{{"p1", "p2"}, {"p3"}}, p.batches(3))
	assert.Equal(t, [][]string{{"p1"}, {"p2"}, {"p3"}}, p.batches(1))
	assert.Equal(t, [][]string{{"p1", "p2", "p3"}}, p.batches(0))
	assert.Len(t, p.groupsOf("p3"), 3)
}

func TestDeletable_PorEstrategia(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	inside := &entity.ValuationLayer{CreatedAt: from.Add(48 * time.Hour)}
	before := &entity.ValuationLayer{CreatedAt: from.Add(-time.Hour)}
	edge := &entity.ValuationLayer{CreatedAt: to}
	locked := &entity.ValuationLayer{CreatedAt: from.Add(time.Hour), Locked: true}

	scope := func(s string) entity.RecalculationScope {
		return entity.RecalculationScope{DateFrom: from, DateTo: to, DeletionStrategy: s}
	}

	assert.True(t, deletable(inside, scope(entity.DeleteStrategyRange)))
	assert.True(t, deletable(edge, scope(entity.DeleteStrategyRange)))
	assert.False(t, deletable(before, scope(entity.DeleteStrategyRange)))
	assert.True(t, deletable(before, scope(entity.DeleteStrategyAllProduct)))
	assert.False(t, deletable(inside, scope(entity.DeleteStrategyNone)))
	assert.False(t, deletable(locked, scope(entity.DeleteStrategyAllProduct)))
	assert.False(t, deletable(locked, scope(entity.DeleteStrategyRange)))
}

func TestSortMoves_FechaLuegoID(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	ms := []*entity.Move{
		{ID: "m3", Date: t0.Add(time.Hour)},
		{ID: "m2", Date: t0},
		{ID: "m1", Date: t0},
	}
	sortMoves(ms)
	assert.Equal(t, "m1", ms[0].ID)
	assert.Equal(t, "m2", ms[1].ID)
	assert.Equal(t, "m3", ms[2].ID)
}
