package repository

import (
	"context"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

// LandedCostRepository puerto de asignaciones de costo en destino y su auditoría.
type LandedCostRepository interface {
	Create(ctx context.Context, alloc *entity.LandedCostAllocation) error
	// Reinsert conserva el ID; si ya existe no hace nada.
	Reinsert(ctx context.Context, alloc *entity.LandedCostAllocation) error
	// ListByWarehouse asignaciones con valor > 0 sobre capas de entrada, ordenadas por created_at, id
	// (las más antiguas primero).
	ListByWarehouse(ctx context.Context, companyID, productID, warehouseID string, forUpdate bool) ([]*entity.LandedCostAllocation, error)
	ListByLayers(ctx context.Context, layerIDs []int64) ([]*entity.LandedCostAllocation, error)
	UpdateValue(ctx context.Context, alloc *entity.LandedCostAllocation) error
	DeleteByLayers(ctx context.Context, layerIDs []int64) (int, error)
	CreateAudit(ctx context.Context, audit *entity.LandedCostTransferAudit) error
	ListAudits(ctx context.Context, companyID, moveID string) ([]*entity.LandedCostTransferAudit, error)
}
