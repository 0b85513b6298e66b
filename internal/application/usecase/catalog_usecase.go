package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

// CatalogUseCase datos maestros que la valoración necesita: bodegas, ubicaciones y productos.
// El ERP es el dueño de estos datos; aquí se guarda la copia local.
type CatalogUseCase struct {
	tx valuation.TxRunner
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(tx valuation.TxRunner) *CatalogUseCase {
	return &CatalogUseCase{tx: tx}
}

// UpsertWarehouse crea o actualiza una bodega.
func (uc *CatalogUseCase) UpsertWarehouse(ctx context.Context, companyID string, in dto.UpsertWarehouseRequest) (*dto.WarehouseResponse, error) {
	var out *entity.Warehouse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		now := time.Now().UTC()
		w := &entity.Warehouse{ID: in.ID, CompanyID: companyID, CreatedAt: now}
		if in.ID != "" {
			cur, err := r.Warehouses.GetByID(ctx, in.ID)
			if err != nil {
				return err
			}
			if cur != nil {
				if cur.CompanyID != companyID {
					return domain.ErrForbidden
				}
				w = cur
			}
		} else {
			w.ID = uuid.New().String()
		}
		w.Code, w.Name, w.UpdatedAt = in.Code, in.Name, now
		if err := r.Warehouses.Upsert(ctx, w); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("guardar bodega: %w", err)
	}
	return toWarehouseResponse(out), nil
}

// GetWarehouse obtiene una bodega de la empresa.
func (uc *CatalogUseCase) GetWarehouse(ctx context.Context, companyID, id string) (*dto.WarehouseResponse, error) {
	var out *entity.Warehouse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		w, err := r.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if w == nil || w.CompanyID != companyID {
			return domain.ErrNotFound
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(out), nil
}

// ListWarehouses bodegas de la empresa.
func (uc *CatalogUseCase) ListWarehouses(ctx context.Context, companyID string) ([]dto.WarehouseResponse, error) {
	var list []*entity.Warehouse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Warehouses.ListByCompany(ctx, companyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return items, nil
}

// UpsertLocation crea o actualiza una ubicación. Si indica bodega, debe existir en la empresa.
func (uc *CatalogUseCase) UpsertLocation(ctx context.Context, companyID string, in dto.UpsertLocationRequest) (*dto.LocationResponse, error) {
	if !entity.ValidLocationUsage(in.Usage) {
		return nil, fmt.Errorf("%w: uso de ubicación %q", domain.ErrInvalidInput, in.Usage)
	}
	var out *entity.Location
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		if in.WarehouseID != "" {
			w, err := r.Warehouses.GetByID(ctx, in.WarehouseID)
			if err != nil {
				return err
			}
			if w == nil || w.CompanyID != companyID {
				return fmt.Errorf("%w: bodega %s no existe", domain.ErrInvalidInput, in.WarehouseID)
			}
		}
		now := time.Now().UTC()
		l := &entity.Location{ID: in.ID, CompanyID: companyID, CreatedAt: now}
		if in.ID != "" {
			cur, err := r.Locations.GetByID(ctx, in.ID)
			if err != nil {
				return err
			}
			if cur != nil {
				if cur.CompanyID != companyID {
					return domain.ErrForbidden
				}
				l = cur
			}
		} else {
			l.ID = uuid.New().String()
		}
		l.Name, l.Usage, l.WarehouseID, l.UpdatedAt = in.Name, in.Usage, in.WarehouseID, now
		if err := r.Locations.Upsert(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("guardar ubicación: %w", err)
	}
	return toLocationResponse(out), nil
}

// ListLocations ubicaciones de la empresa.
func (uc *CatalogUseCase) ListLocations(ctx context.Context, companyID string) ([]dto.LocationResponse, error) {
	var list []*entity.Location
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Locations.ListByCompany(ctx, companyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return items, nil
}

// UpsertProduct crea o actualiza un producto. El costo estándar no puede ser negativo.
func (uc *CatalogUseCase) UpsertProduct(ctx context.Context, companyID string, in dto.UpsertProductRequest) (*dto.ProductResponse, error) {
	if in.StandardPrice.IsNegative() {
		return nil, fmt.Errorf("%w: standard_price negativo", domain.ErrInvalidInput)
	}
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		now := time.Now().UTC()
		p := &entity.Product{ID: in.ID, CompanyID: companyID, CreatedAt: now}
		if in.ID != "" {
			cur, err := r.Products.GetByID(ctx, in.ID)
			if err != nil {
				return err
			}
			if cur != nil {
				if cur.CompanyID != companyID {
					return domain.ErrForbidden
				}
				p = cur
			}
		} else {
			p.ID = uuid.New().String()
		}
		p.CategoryID, p.SKU, p.Name, p.StandardPrice, p.UpdatedAt = in.CategoryID, in.SKU, in.Name, in.StandardPrice, now
		if err := r.Products.Upsert(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("guardar producto: %w", err)
	}
	return toProductResponse(out), nil
}

// GetProduct obtiene un producto de la empresa.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || p.CompanyID != companyID {
			return domain.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		CompanyID: w.CompanyID,
		Code:      w.Code,
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		CompanyID:   l.CompanyID,
		Name:        l.Name,
		Usage:       l.Usage,
		WarehouseID: l.WarehouseID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		CategoryID:    p.CategoryID,
		SKU:           p.SKU,
		Name:          p.Name,
		StandardPrice: p.StandardPrice,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
