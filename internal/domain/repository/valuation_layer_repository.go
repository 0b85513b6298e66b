package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

// LayerFilter filtro para listar capas de valoración.
type LayerFilter struct {
	CompanyID     string
	ProductIDs    []string
	WarehouseIDs  []string
	From          *time.Time
	To            *time.Time
	IncludeLocked bool
	RunID         string // solo capas creadas por esa recalculación
}

// ValuationLayerRepository puerto de persistencia de capas de valoración (DIP).
type ValuationLayerRepository interface {
	// Create inserta la capa y asigna ID.
	Create(ctx context.Context, layer *entity.ValuationLayer) error
	// Reinsert inserta la capa conservando su ID (restauración de respaldos).
	Reinsert(ctx context.Context, layer *entity.ValuationLayer) error
	GetByID(ctx context.Context, id int64) (*entity.ValuationLayer, error)
	// FIFOQueue capas positivas con saldo, ordenadas por created_at, id. limit <= 0 sin límite.
	// forUpdate bloquea las filas (SELECT FOR UPDATE).
	FIFOQueue(ctx context.Context, companyID, productID, warehouseID string, limit int, forUpdate bool) ([]*entity.ValuationLayer, error)
	UpdateRemaining(ctx context.Context, layer *entity.ValuationLayer) error
	// UpdateValuation reescribe quantity, unit_cost, value, remaining_qty y remaining_value.
	UpdateValuation(ctx context.Context, layer *entity.ValuationLayer) error
	ListByMove(ctx context.Context, moveID string) ([]*entity.ValuationLayer, error)
	List(ctx context.Context, filter LayerFilter) ([]*entity.ValuationLayer, error)
	// AvailableByWarehouse saldo por bodega de un producto, solo bodegas con saldo positivo.
	AvailableByWarehouse(ctx context.Context, companyID, productID string) ([]entity.WarehouseAvailability, error)
	// Delete borra por ID sin mirar locked; quien llama excluye las capas bloqueadas.
	Delete(ctx context.Context, ids []int64) (int, error)
}

// LayerUsageRepository puerto del ledger de consumo.
type LayerUsageRepository interface {
	Create(ctx context.Context, usage *entity.LayerUsage) error
	// Reinsert conserva el ID; si ya existe no hace nada.
	Reinsert(ctx context.Context, usage *entity.LayerUsage) error
	// ListByLayers usos donde la capa consumidora o la consumida está en layerIDs.
	ListByLayers(ctx context.Context, layerIDs []int64) ([]*entity.LayerUsage, error)
	ListByConsumer(ctx context.Context, consumerLayerID int64) ([]*entity.LayerUsage, error)
	DeleteByLayers(ctx context.Context, layerIDs []int64) (int, error)
}
