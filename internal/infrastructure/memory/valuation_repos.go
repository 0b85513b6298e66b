package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var (
	_ repository.ValuationLayerRepository = (*layerRepo)(nil)
	_ repository.LayerUsageRepository     = (*usageRepo)(nil)
	_ repository.LandedCostRepository     = (*landedCostRepo)(nil)
)

type layerRepo struct{ s *state }

func (r *layerRepo) Create(_ context.Context, l *entity.ValuationLayer) error {
	r.s.layerSeq++
	l.ID = r.s.layerSeq
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	r.s.layers[l.ID] = *l
	return nil
}

func (r *layerRepo) Reinsert(_ context.Context, l *entity.ValuationLayer) error {
	if _, ok := r.s.layers[l.ID]; ok {
		return domain.ErrDuplicate
	}
	if l.ID > r.s.layerSeq {
		r.s.layerSeq = l.ID
	}
	r.s.layers[l.ID] = *l
	return nil
}

func (r *layerRepo) GetByID(_ context.Context, id int64) (*entity.ValuationLayer, error) {
	l, ok := r.s.layers[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *layerRepo) FIFOQueue(_ context.Context, companyID, productID, warehouseID string, limit int, _ bool) ([]*entity.ValuationLayer, error) {
	var out []*entity.ValuationLayer
	for _, l := range r.s.layers {
		if l.CompanyID != companyID || l.ProductID != productID || l.WarehouseID != warehouseID {
			continue
		}
		if !l.HasRemaining() {
			continue
		}
		l := l
		out = append(out, &l)
	}
	sortLayers(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *layerRepo) UpdateRemaining(_ context.Context, l *entity.ValuationLayer) error {
	cur, ok := r.s.layers[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.RemainingQty, cur.RemainingValue = l.RemainingQty, l.RemainingValue
	r.s.layers[l.ID] = cur
	return nil
}

func (r *layerRepo) UpdateValuation(_ context.Context, l *entity.ValuationLayer) error {
	cur, ok := r.s.layers[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Quantity, cur.UnitCost, cur.Value = l.Quantity, l.UnitCost, l.Value
	cur.RemainingQty, cur.RemainingValue = l.RemainingQty, l.RemainingValue
	r.s.layers[l.ID] = cur
	return nil
}

func (r *layerRepo) ListByMove(_ context.Context, moveID string) ([]*entity.ValuationLayer, error) {
	var out []*entity.ValuationLayer
	for _, l := range r.s.layers {
		if l.SourceMoveID == moveID {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *layerRepo) List(_ context.Context, f repository.LayerFilter) ([]*entity.ValuationLayer, error) {
	products, warehouses := toSet(f.ProductIDs), toSet(f.WarehouseIDs)
	var out []*entity.ValuationLayer
	for _, l := range r.s.layers {
		if l.CompanyID != f.CompanyID {
			continue
		}
		if products != nil && !products[l.ProductID] || warehouses != nil && !warehouses[l.WarehouseID] {
			continue
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) || f.To != nil && l.CreatedAt.After(*f.To) {
			continue
		}
		if !f.IncludeLocked && l.Locked {
			continue
		}
		if f.RunID != "" && l.RecalculationRunID != f.RunID {
			continue
		}
		l := l
		out = append(out, &l)
	}
	sortLayers(out)
	return out, nil
}

func (r *layerRepo) AvailableByWarehouse(_ context.Context, companyID, productID string) ([]entity.WarehouseAvailability, error) {
	byWh := map[string]*entity.WarehouseAvailability{}
	for _, l := range r.s.layers {
		if l.CompanyID != companyID || l.ProductID != productID || !l.HasRemaining() {
			continue
		}
		a := byWh[l.WarehouseID]
		if a == nil {
			a = &entity.WarehouseAvailability{WarehouseID: l.WarehouseID}
			byWh[l.WarehouseID] = a
		}
		a.Quantity = a.Quantity.Add(l.RemainingQty)
		a.Value = a.Value.Add(l.RemainingValue)
	}
	out := make([]entity.WarehouseAvailability, 0, len(byWh))
	for _, a := range byWh {
		if a.Quantity.IsPositive() {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (r *layerRepo) Delete(_ context.Context, ids []int64) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := r.s.layers[id]; ok {
			delete(r.s.layers, id)
			n++
		}
	}
	return n, nil
}

type usageRepo struct{ s *state }

func (r *usageRepo) Create(_ context.Context, u *entity.LayerUsage) error {
	r.s.usageSeq++
	u.ID = r.s.usageSeq
	r.s.usages[u.ID] = *u
	return nil
}

func (r *usageRepo) Reinsert(_ context.Context, u *entity.LayerUsage) error {
	if _, ok := r.s.usages[u.ID]; ok {
		return nil
	}
	if u.ID > r.s.usageSeq {
		r.s.usageSeq = u.ID
	}
	r.s.usages[u.ID] = *u
	return nil
}

func (r *usageRepo) ListByLayers(_ context.Context, ids []int64) ([]*entity.LayerUsage, error) {
	set := idSet(ids)
	var out []*entity.LayerUsage
	for _, u := range r.s.usages {
		if set[u.ConsumerLayerID] || set[u.SourceLayerID] {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *usageRepo) ListByConsumer(_ context.Context, consumerID int64) ([]*entity.LayerUsage, error) {
	var out []*entity.LayerUsage
	for _, u := range r.s.usages {
		if u.ConsumerLayerID == consumerID {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *usageRepo) DeleteByLayers(_ context.Context, ids []int64) (int, error) {
	set := idSet(ids)
	n := 0
	for id, u := range r.s.usages {
		if set[u.ConsumerLayerID] || set[u.SourceLayerID] {
			delete(r.s.usages, id)
			n++
		}
	}
	return n, nil
}

type landedCostRepo struct{ s *state }

func (r *landedCostRepo) Create(_ context.Context, a *entity.LandedCostAllocation) error {
	r.s.allocSeq++
	a.ID = r.s.allocSeq
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	r.s.allocs[a.ID] = *a
	return nil
}

func (r *landedCostRepo) Reinsert(_ context.Context, a *entity.LandedCostAllocation) error {
	if _, ok := r.s.allocs[a.ID]; ok {
		return nil
	}
	if a.ID > r.s.allocSeq {
		r.s.allocSeq = a.ID
	}
	r.s.allocs[a.ID] = *a
	return nil
}

func (r *landedCostRepo) ListByWarehouse(_ context.Context, companyID, productID, warehouseID string, _ bool) ([]*entity.LandedCostAllocation, error) {
	var out []*entity.LandedCostAllocation
	for _, a := range r.s.allocs {
		if a.CompanyID != companyID || a.ProductID != productID || a.WarehouseID != warehouseID || !a.LandedCostValue.IsPositive() {
			continue
		}
		if l, ok := r.s.layers[a.ValuationLayerID]; ok && l.IsIncoming() {
			a := a
			out = append(out, &a)
		}
	}
	sortAllocations(out)
	return out, nil
}

func (r *landedCostRepo) ListByLayers(_ context.Context, ids []int64) ([]*entity.LandedCostAllocation, error) {
	set := idSet(ids)
	var out []*entity.LandedCostAllocation
	for _, a := range r.s.allocs {
		if set[a.ValuationLayerID] {
			a := a
			out = append(out, &a)
		}
	}
	sortAllocations(out)
	return out, nil
}

func (r *landedCostRepo) UpdateValue(_ context.Context, a *entity.LandedCostAllocation) error {
	cur, ok := r.s.allocs[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.LandedCostValue = decimal.Max(a.LandedCostValue, decimal.Zero)
	r.s.allocs[a.ID] = cur
	return nil
}

func (r *landedCostRepo) DeleteByLayers(_ context.Context, ids []int64) (int, error) {
	set := idSet(ids)
	n := 0
	for id, a := range r.s.allocs {
		if set[a.ValuationLayerID] {
			delete(r.s.allocs, id)
			n++
		}
	}
	return n, nil
}

func (r *landedCostRepo) CreateAudit(_ context.Context, a *entity.LandedCostTransferAudit) error {
	r.s.auditSeq++
	a.ID = r.s.auditSeq
	r.s.audits = append(r.s.audits, *a)
	return nil
}

func (r *landedCostRepo) ListAudits(_ context.Context, companyID, moveID string) ([]*entity.LandedCostTransferAudit, error) {
	var out []*entity.LandedCostTransferAudit
	for _, a := range r.s.audits {
		if a.CompanyID == companyID && (moveID == "" || a.MoveID == moveID) {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func sortLayers(ls []*entity.ValuationLayer) {
	sort.Slice(ls, func(i, j int) bool {
		if !ls[i].CreatedAt.Equal(ls[j].CreatedAt) {
			return ls[i].CreatedAt.Before(ls[j].CreatedAt)
		}
		return ls[i].ID < ls[j].ID
	})
}

func sortAllocations(as []*entity.LandedCostAllocation) {
	sort.Slice(as, func(i, j int) bool {
		if !as[i].CreatedAt.Equal(as[j].CreatedAt) {
			return as[i].CreatedAt.Before(as[j].CreatedAt)
		}
		return as[i].ID < as[j].ID
	})
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// toSet nil si ids está vacío (sin filtro).
func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
