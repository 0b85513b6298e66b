package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var (
	_ repository.MoveRepository      = (*moveRepo)(nil)
	_ repository.LocationRepository  = (*locationRepo)(nil)
	_ repository.WarehouseRepository = (*warehouseRepo)(nil)
	_ repository.ProductRepository   = (*productRepo)(nil)
)

type moveRepo struct{ s *state }

func (r *moveRepo) Upsert(_ context.Context, m *entity.Move) error {
	if prev, ok := r.s.moves[m.ID]; ok && !prev.CreatedAt.IsZero() {
		m.CreatedAt = prev.CreatedAt
	}
	r.s.moves[m.ID] = *m
	return nil
}

func (r *moveRepo) GetByID(_ context.Context, id string) (*entity.Move, error) {
	m, ok := r.s.moves[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *moveRepo) List(_ context.Context, f repository.MoveFilter) ([]*entity.Move, error) {
	products := toSet(f.ProductIDs)
	var out []*entity.Move
	for _, m := range r.s.moves {
		if m.CompanyID != f.CompanyID || products != nil && !products[m.ProductID] {
			continue
		}
		if !f.From.IsZero() && m.Date.Before(f.From) || !f.To.IsZero() && m.Date.After(f.To) {
			continue
		}
		if f.State != "" && m.State != f.State {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type locationRepo struct{ s *state }

func (r *locationRepo) Upsert(_ context.Context, l *entity.Location) error {
	r.s.locations[l.ID] = *l
	return nil
}

func (r *locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *locationRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.CompanyID == companyID {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type warehouseRepo struct{ s *state }

func (r *warehouseRepo) Upsert(_ context.Context, w *entity.Warehouse) error {
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.CompanyID == companyID {
			w := w
			out = append(out, &w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type productRepo struct{ s *state }

func (r *productRepo) Upsert(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) ListIDsByCategories(_ context.Context, companyID string, categoryIDs []string) ([]string, error) {
	cats := toSet(categoryIDs)
	var out []string
	for _, p := range r.s.products {
		if p.CompanyID == companyID && cats[p.CategoryID] {
			out = append(out, p.ID)
		}
	}
	sort.Strings(out)
	return out, nil
}
