package valuation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

// MovePriceSource usa el price_unit informado en el movimiento.
type MovePriceSource struct{}

func (MovePriceSource) UnitCost(_ context.Context, move *entity.Move, _ *entity.Product) (decimal.Decimal, bool) {
	if move == nil || !move.PriceUnit.IsPositive() {
		return decimal.Zero, false
	}
	return move.PriceUnit, true
}

// StandardPriceSource usa el costo estándar del producto.
type StandardPriceSource struct{}

func (StandardPriceSource) UnitCost(_ context.Context, _ *entity.Move, product *entity.Product) (decimal.Decimal, bool) {
	if product == nil || !product.StandardPrice.IsPositive() {
		return decimal.Zero, false
	}
	return product.StandardPrice, true
}

// ChainCostSource consulta las fuentes en orden y devuelve la primera con costo.
type ChainCostSource []CostSource

func (c ChainCostSource) UnitCost(ctx context.Context, move *entity.Move, product *entity.Product) (decimal.Decimal, bool) {
	for _, s := range c {
		if cost, ok := s.UnitCost(ctx, move, product); ok {
			return cost, true
		}
	}
	return decimal.Zero, false
}

// DefaultCostSource precio del movimiento y luego costo estándar.
func DefaultCostSource() CostSource {
	return ChainCostSource{MovePriceSource{}, StandardPriceSource{}}
}
