package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones de prueba
// ──────────────────────────────────────────────────────────────────────────────

var (
	locSupplier   = &entity.Location{ID: "sup", Usage: entity.LocationUsageSupplier}
	locCustomer   = &entity.Location{ID: "cus", Usage: entity.LocationUsageCustomer}
	locScrap      = &entity.Location{ID: "inv", Usage: entity.LocationUsageInventory}
	locProduction = &entity.Location{ID: "prod", Usage: entity.LocationUsageProduction}
	locStockA     = &entity.Location{ID: "a-stock", Usage: entity.LocationUsageInternal, WarehouseID: "wh-a"}
	locShelfA     = &entity.Location{ID: "a-shelf", Usage: entity.LocationUsageInternal, WarehouseID: "wh-a"}
	locStockB     = &entity.Location{ID: "b-stock", Usage: entity.LocationUsageInternal, WarehouseID: "wh-b"}
	locTransitB   = &entity.Location{ID: "b-transit", Usage: entity.LocationUsageTransit, WarehouseID: "wh-b"}
	locOrphan     = &entity.Location{ID: "orphan", Usage: entity.LocationUsageInternal}
)

func classify(src, dst *entity.Location, returnOf string) inventory.Classification {
	move := &entity.Move{ID: "m1", OriginReturnedMoveID: returnOf}
	return inventory.NewClassifier().Classify(inventory.ClassifyInput{Move: move, Source: src, Destination: dst})
}

func TestClassify_Return_CruzandoBodegasEsTraslado(t *testing.T) {
	c := classify(locStockB, locStockA, "orig")
	assert.Equal(t, inventory.KindTransfer, c.Kind)
	assert.True(t, c.IsReturn)
	assert.Equal(t, inventory.RuleReturn, c.Rule)
	assert.Equal(t, "wh-b", c.SourceWarehouseID)
	assert.Equal(t, "wh-a", c.DestWarehouseID)
}

func TestClassify_Return_DeClienteEsEntrada(t *testing.T) {
	c := classify(locCustomer, locStockB, "orig")
	assert.Equal(t, inventory.KindIncoming, c.Kind)
	assert.True(t, c.IsReturn)
	assert.Equal(t, "wh-b", c.DestWarehouseID)
}

func TestClassify_Return_AProveedorEsSalida(t *testing.T) {
	c := classify(locStockA, locSupplier, "orig")
	assert.Equal(t, inventory.KindOutgoing, c.Kind)
	assert.True(t, c.IsReturn)
	assert.Equal(t, "wh-a", c.SourceWarehouseID)
}

func TestClassify_Return_MismaBodegaEsNeutral(t *testing.T) {
	c := classify(locStockA, locShelfA, "orig")
	assert.Equal(t, inventory.KindNeutral, c.Kind)
	assert.Equal(t, inventory.RuleReturn, c.Rule)
}

func TestClassify_EntradaExterna(t *testing.T) {
	for _, src := range []*entity.Location{locSupplier, locProduction, locScrap} {
		c := classify(src, locStockA, "")
		assert.Equal(t, inventory.KindIncoming, c.Kind, src.Usage)
		assert.Equal(t, inventory.RuleIncomingExternal, c.Rule, src.Usage)
		assert.Equal(t, "wh-a", c.DestWarehouseID)
	}
}

func TestClassify_DevolucionClienteSinOrigen(t *testing.T) {
	c := classify(locCustomer, locStockA, "")
	assert.Equal(t, inventory.KindIncoming, c.Kind)
	assert.Equal(t, inventory.RuleCustomerReturn, c.Rule)
	assert.False(t, c.IsReturn)
}

func TestClassify_TrasladoEntreBodegas(t *testing.T) {
	c := classify(locStockA, locTransitB, "")
	assert.Equal(t, inventory.KindTransfer, c.Kind)
	assert.Equal(t, inventory.RuleInterWarehouse, c.Rule)
	assert.Equal(t, "wh-a", c.SourceWarehouseID)
	assert.Equal(t, "wh-b", c.DestWarehouseID)
}

func TestClassify_MismaBodegaEsNeutral(t *testing.T) {
	c := classify(locStockA, locShelfA, "")
	assert.Equal(t, inventory.KindNeutral, c.Kind)
	assert.Equal(t, inventory.RuleSameWarehouse, c.Rule)
	assert.False(t, c.Unresolved())
}

func TestClassify_Salida(t *testing.T) {
	for _, dst := range []*entity.Location{locCustomer, locProduction, locScrap, locSupplier} {
		c := classify(locStockA, dst, "")
		assert.Equal(t, inventory.KindOutgoing, c.Kind, dst.Usage)
		assert.Equal(t, "wh-a", c.SourceWarehouseID)
	}
}

func TestClassify_SinBodegaQuedaNeutralNoResuelto(t *testing.T) {
	c := classify(locSupplier, locOrphan, "")
	assert.Equal(t, inventory.KindNeutral, c.Kind)
	assert.True(t, c.Unresolved())

	c = classify(nil, locStockA, "")
	assert.Equal(t, inventory.KindNeutral, c.Kind)
	assert.True(t, c.Unresolved())
}

func TestClassify_ReglasPersonalizadas(t *testing.T) {
	always := inventory.Rule{
		Name:  "always_out",
		Match: func(inventory.ClassifyInput) bool { return true },
		Outcome: func(inventory.ClassifyInput) inventory.Classification {
			return inventory.Classification{Kind: inventory.KindOutgoing, Rule: "always_out"}
		},
	}
	cl := inventory.NewClassifier(always)
	c := cl.Classify(inventory.ClassifyInput{Move: &entity.Move{}, Source: locSupplier, Destination: locStockA})
	assert.Equal(t, "always_out", c.Rule)
}
