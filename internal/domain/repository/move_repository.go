package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

// MoveFilter filtro de movimientos para la recalculación.
type MoveFilter struct {
	CompanyID  string
	ProductIDs []string
	From       time.Time
	To         time.Time
	State      string
}

// MoveRepository puerto del modelo de lectura de movimientos.
type MoveRepository interface {
	// Upsert guarda la copia del movimiento recibido del feed.
	Upsert(ctx context.Context, move *entity.Move) error
	GetByID(ctx context.Context, id string) (*entity.Move, error)
	// List ordenado por date, id.
	List(ctx context.Context, filter MoveFilter) ([]*entity.Move, error)
}

// LocationRepository puerto de ubicaciones.
type LocationRepository interface {
	Upsert(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Location, error)
}

// WarehouseRepository puerto de bodegas.
type WarehouseRepository interface {
	Upsert(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Warehouse, error)
}

// ProductRepository puerto del catálogo de productos.
type ProductRepository interface {
	Upsert(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// ListIDsByCategories IDs de productos de la empresa en las categorías dadas.
	ListIDsByCategories(ctx context.Context, companyID string, categoryIDs []string) ([]string, error)
}
