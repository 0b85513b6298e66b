package recalculation

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

// group combinación producto-bodega a reconstruir.
type group struct {
	ProductID   string
	WarehouseID string
}

// plan movimientos finalizados en alcance, ya clasificados y agrupados.
type plan struct {
	scope      entity.RecalculationScope
	groups     []group
	byProduct  map[string][]*entity.Move
	classes    map[string]inventory.Classification
	warehouses map[string]bool // nil = todas las bodegas
	// warnings movimientos que no generan capa por ubicación sin bodega.
	warnings []string
}

// products productos con al menos un grupo, ordenados.
func (p *plan) products() []string {
	var out []string
	for i, g := range p.groups {
		if i == 0 || p.groups[i-1].ProductID != g.ProductID {
			out = append(out, g.ProductID)
		}
	}
	return out
}

// groupsOf grupos de un producto.
func (p *plan) groupsOf(productID string) []group {
	var out []group
	for _, g := range p.groups {
		if g.ProductID == productID {
			out = append(out, g)
		}
	}
	return out
}

// movesOf movimientos de varios productos en orden global date, id.
func (p *plan) movesOf(products []string) []*entity.Move {
	var out []*entity.Move
	for _, id := range products {
		out = append(out, p.byProduct[id]...)
	}
	sortMoves(out)
	return out
}

// batches reparte los productos en lotes de a lo sumo size grupos.
// Un producto nunca se parte: sus traslados enlazan bodegas del mismo producto.
func (p *plan) batches(size int) [][]string {
	if size <= 0 {
		size = entity.DefaultBatchSize
	}
	var (
		out [][]string
		cur []string
		n   int
	)
	for _, id := range p.products() {
		k := len(p.groupsOf(id))
		if len(cur) > 0 && n+k > size {
			out = append(out, cur)
			cur, n = nil, 0
		}
		cur = append(cur, id)
		n += k
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// buildPlan lista y clasifica los movimientos del alcance. No escribe.
func buildPlan(ctx context.Context, r repository.Repos, svc *valuation.MoveValuationService, scope entity.RecalculationScope) (*plan, error) {
	p := &plan{
		scope:     scope,
		byProduct: map[string][]*entity.Move{},
		classes:   map[string]inventory.Classification{},
	}
	if len(scope.WarehouseIDs) > 0 {
		p.warehouses = make(map[string]bool, len(scope.WarehouseIDs))
		for _, id := range scope.WarehouseIDs {
			p.warehouses[id] = true
		}
	}

	products, filtered, err := scopeProducts(ctx, r, scope)
	if err != nil {
		return nil, err
	}
	if filtered && len(products) == 0 {
		return p, nil
	}
	moves, err := r.Moves.List(ctx, repository.MoveFilter{
		CompanyID:  scope.CompanyID,
		ProductIDs: products,
		From:       scope.DateFrom,
		To:         scope.DateTo,
		State:      entity.MoveStateDone,
	})
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}

	seen := map[group]bool{}
	for _, m := range moves {
		cls, err := svc.ClassifyMove(ctx, r, m)
		if err != nil {
			return nil, err
		}
		var touched bool
		add := func(wh string) {
			if wh == "" || p.warehouses != nil && !p.warehouses[wh] {
				return
			}
			touched = true
			g := group{ProductID: m.ProductID, WarehouseID: wh}
			if !seen[g] {
				seen[g] = true
				p.groups = append(p.groups, g)
			}
		}
		switch cls.Kind {
		case inventory.KindIncoming:
			add(cls.DestWarehouseID)
		case inventory.KindOutgoing:
			add(cls.SourceWarehouseID)
		case inventory.KindTransfer:
			add(cls.SourceWarehouseID)
			add(cls.DestWarehouseID)
		default:
			if cls.Unresolved() {
				p.warnings = append(p.warnings, fmt.Sprintf(
					"movimiento %s sin bodega resoluble (origen %s, destino %s); no genera capa",
					m.ID, m.SourceLocationID, m.DestinationLocationID))
			}
		}
		if touched {
			p.classes[m.ID] = cls
			p.byProduct[m.ProductID] = append(p.byProduct[m.ProductID], m)
		}
	}
	sort.Slice(p.groups, func(i, j int) bool {
		if p.groups[i].ProductID != p.groups[j].ProductID {
			return p.groups[i].ProductID < p.groups[j].ProductID
		}
		return p.groups[i].WarehouseID < p.groups[j].WarehouseID
	})
	return p, nil
}

// scopeProducts unión de productos explícitos y de las categorías. filtered indica
// que el alcance restringe productos (aunque la unión quede vacía).
func scopeProducts(ctx context.Context, r repository.Repos, scope entity.RecalculationScope) ([]string, bool, error) {
	if len(scope.ProductIDs) == 0 && len(scope.CategoryIDs) == 0 {
		return nil, false, nil
	}
	set := map[string]bool{}
	for _, id := range scope.ProductIDs {
		set[id] = true
	}
	if len(scope.CategoryIDs) > 0 {
		ids, err := r.Products.ListIDsByCategories(ctx, scope.CompanyID, scope.CategoryIDs)
		if err != nil {
			return nil, true, fmt.Errorf("listar productos por categoría: %w", err)
		}
		for _, id := range ids {
			set[id] = true
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, true, nil
}

// groupLayers capas persistidas del grupo, incluidas las bloqueadas.
func groupLayers(ctx context.Context, r repository.Repos, companyID string, g group) ([]*entity.ValuationLayer, error) {
	layers, err := r.Layers.List(ctx, repository.LayerFilter{
		CompanyID:     companyID,
		ProductIDs:    []string{g.ProductID},
		WarehouseIDs:  []string{g.WarehouseID},
		IncludeLocked: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listar capas de %s/%s: %w", g.ProductID, g.WarehouseID, err)
	}
	return layers, nil
}

// deletable indica si la estrategia borra la capa. Las capas bloqueadas nunca se borran.
func deletable(l *entity.ValuationLayer, scope entity.RecalculationScope) bool {
	if l.Locked {
		return false
	}
	switch scope.DeletionStrategy {
	case entity.DeleteStrategyAllProduct:
		return true
	case entity.DeleteStrategyRange:
		return !l.CreatedAt.Before(scope.DateFrom) && !l.CreatedAt.After(scope.DateTo)
	}
	return false
}

func sortMoves(ms []*entity.Move) {
	sort.SliceStable(ms, func(i, j int) bool {
		if !ms[i].Date.Equal(ms[j].Date) {
			return ms[i].Date.Before(ms[j].Date)
		}
		return ms[i].ID < ms[j].ID
	})
}

func sideKey(moveID, warehouseID string, incoming bool) string {
	if incoming {
		return moveID + "|" + warehouseID + "|+"
	}
	return moveID + "|" + warehouseID + "|-"
}
