package recalculation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

// simGroup cola simulada de un grupo y las capas que sobreviven al borrado.
type simGroup struct {
	queue     *inventory.SimulatedQueue
	line      *entity.PreviewLine
	survivors map[string]bool
	// survivorValue valor absoluto de capas negativas sobrevivientes por movimiento.
	survivorValue map[string]decimal.Decimal
}

func (g *simGroup) survives(moveID, warehouseID string, incoming bool) bool {
	return g.survivors[sideKey(moveID, warehouseID, incoming)]
}

func (g *simGroup) warn(msg string) {
	g.line.Warnings = append(g.line.Warnings, msg)
}

// simulator reproduce los movimientos de un producto sin escribir en la base.
type simulator struct {
	svc   *valuation.MoveValuationService
	p     inventory.Precision
	scope entity.RecalculationScope
	names map[string]string
	// units costo unitario simulado por movimiento, para devoluciones posteriores.
	units map[string]decimal.Decimal
}

func newSimulator(svc *valuation.MoveValuationService, scope entity.RecalculationScope) *simulator {
	return &simulator{
		svc:   svc,
		p:     svc.Settings().Precision,
		scope: scope,
		names: map[string]string{},
		units: map[string]decimal.Decimal{},
	}
}

// preview arma las líneas antes/después de todos los grupos del plan.
func (s *simulator) preview(ctx context.Context, r repository.Repos, pl *plan) ([]entity.PreviewLine, error) {
	var lines []entity.PreviewLine
	for _, productID := range pl.products() {
		out, err := s.product(ctx, r, pl, productID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, out...)
	}
	return lines, nil
}

func (s *simulator) product(ctx context.Context, r repository.Repos, pl *plan, productID string) ([]entity.PreviewLine, error) {
	product, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	productName := productID
	if product != nil && product.Name != "" {
		productName = product.Name
	}

	groups := map[string]*simGroup{}
	var order []string
	for _, g := range pl.groupsOf(productID) {
		sg, err := s.seed(ctx, r, g)
		if err != nil {
			return nil, err
		}
		sg.line.ProductName = productName
		if sg.line.WarehouseName, err = s.warehouseName(ctx, r, g.WarehouseID); err != nil {
			return nil, err
		}
		groups[g.WarehouseID] = sg
		order = append(order, g.WarehouseID)
	}

	for _, m := range pl.byProduct[productID] {
		cls := pl.classes[m.ID]
		if err := s.replay(ctx, r, m, product, cls, groups); err != nil {
			return nil, err
		}
	}

	lines := make([]entity.PreviewLine, 0, len(order))
	for _, wh := range order {
		sg := groups[wh]
		sg.line.QtyAfter, sg.line.ValueAfter = sg.queue.Totals()
		sg.line.QtyDiff = sg.line.QtyAfter.Sub(sg.line.QtyBefore)
		sg.line.ValueDiff = sg.line.ValueAfter.Sub(sg.line.ValueBefore)
		lines = append(lines, *sg.line)
	}
	return lines, nil
}

// seed cola inicial: capas que la estrategia no borra, con el consumo de las capas
// borradas devuelto a sus capas de origen.
func (s *simulator) seed(ctx context.Context, r repository.Repos, g group) (*simGroup, error) {
	layers, err := groupLayers(ctx, r, s.scope.CompanyID, g)
	if err != nil {
		return nil, err
	}
	sg := &simGroup{
		line:          &entity.PreviewLine{ProductID: g.ProductID, WarehouseID: g.WarehouseID},
		survivors:     map[string]bool{},
		survivorValue: map[string]decimal.Decimal{},
	}
	deleted := map[int64]bool{}
	var ids []int64
	for _, l := range layers {
		if l.IsIncoming() {
			sg.line.QtyBefore = sg.line.QtyBefore.Add(l.RemainingQty)
			sg.line.ValueBefore = sg.line.ValueBefore.Add(l.RemainingValue)
		}
		if deletable(l, s.scope) {
			deleted[l.ID] = true
			ids = append(ids, l.ID)
			continue
		}
		sg.survivors[sideKey(l.SourceMoveID, l.WarehouseID, l.IsIncoming())] = true
		if !l.IsIncoming() {
			sg.survivorValue[l.SourceMoveID] = l.Value.Abs()
		}
	}

	restoredQty, restoredValue := map[int64]decimal.Decimal{}, map[int64]decimal.Decimal{}
	if len(ids) > 0 {
		usages, err := r.Usages.ListByLayers(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("leer consumos: %w", err)
		}
		for _, u := range usages {
			if deleted[u.ConsumerLayerID] && !deleted[u.SourceLayerID] {
				restoredQty[u.SourceLayerID] = restoredQty[u.SourceLayerID].Add(u.Quantity)
				restoredValue[u.SourceLayerID] = restoredValue[u.SourceLayerID].Add(u.Value)
			}
		}
	}

	var seed []inventory.QueueLayer
	for _, l := range layers {
		if deleted[l.ID] || !l.IsIncoming() {
			continue
		}
		seed = append(seed, inventory.QueueLayer{
			LayerID:        l.ID,
			CreatedAt:      l.CreatedAt,
			RemainingQty:   l.RemainingQty.Add(restoredQty[l.ID]),
			RemainingValue: l.RemainingValue.Add(restoredValue[l.ID]),
			UnitCost:       l.UnitCost,
		})
	}
	sg.queue = inventory.NewSimulatedQueue(seed, s.p)
	return sg, nil
}

// replay aplica un movimiento a las colas simuladas de los lados que se reconstruyen.
func (s *simulator) replay(ctx context.Context, r repository.Repos, m *entity.Move, product *entity.Product, cls inventory.Classification, groups map[string]*simGroup) error {
	side := func(wh string, incoming bool) *simGroup {
		g := groups[wh]
		if g == nil || g.survives(m.ID, wh, incoming) {
			return nil
		}
		return g
	}

	switch cls.Kind {
	case inventory.KindIncoming:
		g := side(cls.DestWarehouseID, true)
		if g == nil {
			return nil
		}
		unit, ok, err := s.incomingUnit(ctx, r, m, product, cls)
		if err != nil {
			return err
		}
		if !ok {
			g.warn(fmt.Sprintf("entrada %s sin costo disponible; no genera capa", m.ID))
			return nil
		}
		g.queue.Push(m.Quantity, unit, m.Date)
		if _, seen := s.units[m.ID]; !seen {
			s.units[m.ID] = unit
		}
		g.line.MoveCount++

	case inventory.KindOutgoing:
		g := side(cls.SourceWarehouseID, false)
		if g == nil {
			return nil
		}
		value, ok, err := s.consume(ctx, r, g, m, product, cls)
		if err != nil || !ok {
			return err
		}
		s.units[m.ID] = s.p.UnitCost(value, m.Quantity)
		g.line.MoveCount++

	case inventory.KindTransfer:
		src, dst := side(cls.SourceWarehouseID, false), side(cls.DestWarehouseID, true)
		var (
			value    decimal.Decimal
			consumed bool
		)
		if src != nil {
			v, ok, err := s.consume(ctx, r, src, m, product, cls)
			if err != nil {
				return err
			}
			if ok {
				value, consumed = v, true
				s.units[m.ID] = s.p.UnitCost(v, m.Quantity)
			}
			src.line.MoveCount++
		}
		if dst == nil {
			return nil
		}
		if !consumed {
			v, ok, err := s.transferValue(ctx, r, m, product, cls, groups[cls.SourceWarehouseID])
			if err != nil {
				return err
			}
			if !ok {
				dst.warn(fmt.Sprintf("traslado %s sin costo de origen; no genera capa", m.ID))
				return nil
			}
			value = v
		}
		dst.queue.PushValue(m.Quantity, value, m.Date)
		dst.line.MoveCount++
	}
	return nil
}

// consume saca la cantidad de la cola simulada y valora el faltante como lo hace el posteo.
func (s *simulator) consume(ctx context.Context, r repository.Repos, g *simGroup, m *entity.Move, product *entity.Product, cls inventory.Classification) (decimal.Decimal, bool, error) {
	res := g.queue.Consume(m.Quantity)
	value := res.Cost
	if res.Short() {
		g.warn(fmt.Sprintf("faltante de %s unidades en el movimiento %s", res.Missing.String(), m.ID))
		unit := decimal.Zero
		if product != nil && product.StandardPrice.IsPositive() {
			unit = product.StandardPrice
		} else if res.Quantity.IsPositive() {
			unit = res.UnitCost(s.p)
		}
		value = value.Add(s.p.LineValue(res.Missing, unit))
	}
	if cls.IsReturn {
		unit, ok, err := s.returnUnit(ctx, r, m, product, cls.SourceWarehouseID)
		if err != nil {
			return decimal.Zero, false, err
		}
		if ok {
			value = s.p.LineValue(m.Quantity, unit)
		}
	}
	if !value.IsPositive() {
		g.warn(fmt.Sprintf("salida %s sin costo disponible", m.ID))
		return decimal.Zero, false, nil
	}
	return s.p.RoundValue(value), true, nil
}

func (s *simulator) incomingUnit(ctx context.Context, r repository.Repos, m *entity.Move, product *entity.Product, cls inventory.Classification) (decimal.Decimal, bool, error) {
	if cls.IsReturn {
		return s.returnUnit(ctx, r, m, product, cls.DestWarehouseID)
	}
	unit, ok := s.svc.Costs().UnitCost(ctx, m, product)
	return unit, ok, nil
}

// returnUnit costo simulado del movimiento original si se reconstruyó; si no, el resolvedor.
func (s *simulator) returnUnit(ctx context.Context, r repository.Repos, m *entity.Move, product *entity.Product, warehouseID string) (decimal.Decimal, bool, error) {
	if unit, ok := s.units[m.OriginReturnedMoveID]; ok && unit.IsPositive() {
		return unit, true, nil
	}
	rc, err := s.svc.Returns().Resolve(ctx, r, m, product, warehouseID)
	if err != nil {
		if isMissingCost(err) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return rc.UnitCost, true, nil
}

// transferValue lado destino sin consumo simulado: capa negativa sobreviviente o persistida,
// costo de devolución o costo estándar.
func (s *simulator) transferValue(ctx context.Context, r repository.Repos, m *entity.Move, product *entity.Product, cls inventory.Classification, src *simGroup) (decimal.Decimal, bool, error) {
	if src != nil {
		if v, ok := src.survivorValue[m.ID]; ok && v.IsPositive() {
			return v, true, nil
		}
	} else {
		layers, err := r.Layers.ListByMove(ctx, m.ID)
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("leer capas del movimiento: %w", err)
		}
		for _, l := range layers {
			if !l.IsIncoming() && l.WarehouseID == cls.SourceWarehouseID {
				return l.Value.Abs(), true, nil
			}
		}
	}
	if cls.IsReturn {
		unit, ok, err := s.returnUnit(ctx, r, m, product, cls.SourceWarehouseID)
		if err != nil || ok {
			return s.p.LineValue(m.Quantity, unit), ok, err
		}
	}
	if unit, ok := (valuation.StandardPriceSource{}).UnitCost(ctx, m, product); ok {
		return s.p.LineValue(m.Quantity, unit), true, nil
	}
	return decimal.Zero, false, nil
}

func (s *simulator) warehouseName(ctx context.Context, r repository.Repos, id string) (string, error) {
	if name, ok := s.names[id]; ok {
		return name, nil
	}
	wh, err := r.Warehouses.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("leer bodega: %w", err)
	}
	name := wh.Label()
	if name == "" {
		name = id
	}
	s.names[id] = name
	return name, nil
}
