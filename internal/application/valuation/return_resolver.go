package valuation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// Origen del costo de una devolución.
const (
	ReturnSourceOriginLayer   = "origin_layer"
	ReturnSourceFIFOLookup    = "fifo_lookup"
	ReturnSourceStandardPrice = "standard_price"
)

// ReturnCost costo unitario resuelto para una devolución.
type ReturnCost struct {
	UnitCost      decimal.Decimal
	Source        string
	OriginMoveID  string
	OriginLayerID int64
	WarehouseID   string
	// LandedCost costo en destino asignado a la capa de origen después del consumo;
	// OriginQuantity su cantidad (valor absoluto).
	LandedCost     decimal.Decimal
	OriginQuantity decimal.Decimal
}

// Degraded indica que no se encontró la capa original.
func (c *ReturnCost) Degraded() bool { return c.Source != ReturnSourceOriginLayer }

// ReturnResolver recupera el costo con el que se consumió originalmente la mercancía devuelta.
// No consulta la cola viva salvo como respaldo, porque la capa original pudo ser consumida después.
type ReturnResolver struct {
	fifo *FIFOService
	log  *logger.Logger
}

// NewReturnResolver construye el resolvedor.
func NewReturnResolver(fifo *FIFOService, log *logger.Logger) *ReturnResolver {
	return &ReturnResolver{fifo: fifo, log: logger.OrNop(log).Component("return_resolver")}
}

// Resolve costo unitario de move (con origin_returned_move_id). fallbackWarehouseID se usa para la
// búsqueda FIFO cuando no hay capa de origen ni se puede deducir la bodega del movimiento original.
func (s *ReturnResolver) Resolve(ctx context.Context, r repository.Repos, move *entity.Move, product *entity.Product, fallbackWarehouseID string) (*ReturnCost, error) {
	if move == nil || !move.IsReturn() {
		return nil, domain.ErrInvalidInput
	}
	p := s.fifo.Precision()
	out := &ReturnCost{OriginMoveID: move.OriginReturnedMoveID}

	origin, err := r.Moves.GetByID(ctx, move.OriginReturnedMoveID)
	if err != nil {
		return nil, fmt.Errorf("leer movimiento original: %w", err)
	}
	if origin != nil {
		layer, err := originLayer(ctx, r, origin.ID)
		if err != nil {
			return nil, err
		}
		if layer != nil {
			unit := layer.UnitCost.Abs()
			if !layer.IsIncoming() {
				allocs, err := r.LandedCosts.ListByLayers(ctx, []int64{layer.ID})
				if err != nil {
					return nil, fmt.Errorf("leer asignaciones de capa original: %w", err)
				}
				out.LandedCost = sumAllocations(allocs)
				if out.LandedCost.IsPositive() {
					unit = unit.Add(out.LandedCost.Div(layer.Quantity.Abs()))
				}
			}
			out.UnitCost = p.RoundUnit(unit)
			out.Source = ReturnSourceOriginLayer
			out.OriginLayerID = layer.ID
			out.OriginQuantity = layer.Quantity.Abs()
			out.WarehouseID = layer.WarehouseID
			if out.UnitCost.IsPositive() {
				return out, nil
			}
		}
		if wh, err := s.originWarehouse(ctx, r, origin); err != nil {
			return nil, err
		} else if wh != "" {
			fallbackWarehouseID = wh
		}
	}

	if fallbackWarehouseID != "" {
		cost, err := s.fifo.Quote(ctx, r, move.CompanyID, move.ProductID, fallbackWarehouseID, move.Quantity)
		if err != nil {
			return nil, err
		}
		if cost.Quantity.IsPositive() && cost.UnitCost.IsPositive() {
			out.UnitCost = cost.UnitCost
			out.Source = ReturnSourceFIFOLookup
			out.WarehouseID = fallbackWarehouseID
			s.log.Warn().Str("move_id", move.ID).Str("origin_move_id", move.OriginReturnedMoveID).
				Str("warehouse_id", fallbackWarehouseID).Msg("devolución sin capa original; costo por consulta FIFO")
			return out, nil
		}
	}

	if product != nil && product.StandardPrice.IsPositive() {
		out.UnitCost = p.RoundUnit(product.StandardPrice)
		out.Source = ReturnSourceStandardPrice
		s.log.Warn().Str("move_id", move.ID).Str("origin_move_id", move.OriginReturnedMoveID).
			Msg("devolución sin capa original ni cola FIFO; costo estándar")
		return out, nil
	}
	return nil, fmt.Errorf("%w: devolución %s sin costo recuperable", domain.ErrMissingCost, move.ID)
}

// originLayer capa negativa del movimiento original; si no existe, la positiva (devolución a proveedor).
func originLayer(ctx context.Context, r repository.Repos, moveID string) (*entity.ValuationLayer, error) {
	layers, err := r.Layers.ListByMove(ctx, moveID)
	if err != nil {
		return nil, fmt.Errorf("leer capas del movimiento original: %w", err)
	}
	var positive *entity.ValuationLayer
	for _, l := range layers {
		if !l.IsIncoming() {
			return l, nil
		}
		if positive == nil {
			positive = l
		}
	}
	return positive, nil
}

// originWarehouse bodega que despachó el movimiento original (origen interno), o la que lo recibió.
func (s *ReturnResolver) originWarehouse(ctx context.Context, r repository.Repos, origin *entity.Move) (string, error) {
	for _, id := range []string{origin.SourceLocationID, origin.DestinationLocationID} {
		if id == "" {
			continue
		}
		loc, err := r.Locations.GetByID(ctx, id)
		if err != nil {
			return "", fmt.Errorf("leer ubicación: %w", err)
		}
		if loc != nil && loc.IsInternal() && loc.WarehouseID != "" {
			return loc.WarehouseID, nil
		}
	}
	return "", nil
}
