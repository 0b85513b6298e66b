package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpsertWarehouseRequest entrada para crear o actualizar una bodega. ID vacío genera uno nuevo.
type UpsertWarehouseRequest struct {
	ID   string `json:"id" validate:"omitempty,max=100"`
	Code string `json:"code" validate:"max=50"`
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertLocationRequest entrada para ubicaciones. Las internas deben indicar su bodega.
type UpsertLocationRequest struct {
	ID          string `json:"id" validate:"omitempty,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Usage       string `json:"usage" validate:"required,oneof=supplier customer internal transit inventory production view"`
	WarehouseID string `json:"warehouse_id"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Usage       string    `json:"usage"`
	WarehouseID string    `json:"warehouse_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpsertProductRequest entrada del catálogo de productos valorados.
type UpsertProductRequest struct {
	ID            string          `json:"id" validate:"omitempty,max=100"`
	CategoryID    string          `json:"category_id"`
	SKU           string          `json:"sku" validate:"max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	StandardPrice decimal.Decimal `json:"standard_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	CategoryID    string          `json:"category_id,omitempty"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	StandardPrice decimal.Decimal `json:"standard_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
