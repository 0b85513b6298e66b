package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoveRequest body para POST /api/valuation/moves (evento del feed de movimientos).
type MoveRequest struct {
	ID                    string          `json:"id" validate:"required,max=100"`
	ProductID             string          `json:"product_id" validate:"required"`
	SourceLocationID      string          `json:"source_location_id" validate:"required"`
	DestinationLocationID string          `json:"destination_location_id" validate:"required"`
	Quantity              decimal.Decimal `json:"quantity"`
	UnitOfMeasure         string          `json:"unit_of_measure"`
	State                 string          `json:"state" validate:"required,oneof=draft confirmed done cancel"`
	OriginReturnedMoveID  string          `json:"origin_returned_move_id,omitempty"`
	PriceUnit             decimal.Decimal `json:"price_unit"`
	Date                  time.Time       `json:"date" validate:"required"`
	Reference             string          `json:"reference,omitempty"`
}

// LayerResponse capa de valoración.
type LayerResponse struct {
	ID                 int64           `json:"id"`
	ProductID          string          `json:"product_id"`
	WarehouseID        string          `json:"warehouse_id"`
	LocationID         string          `json:"location_id,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	Value              decimal.Decimal `json:"value"`
	RemainingQty       decimal.Decimal `json:"remaining_qty"`
	RemainingValue     decimal.Decimal `json:"remaining_value"`
	SourceMoveID       string          `json:"source_move_id"`
	Description        string          `json:"description,omitempty"`
	Locked             bool            `json:"locked"`
	RecalculationRunID string          `json:"recalculation_run_id,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// WarehouseAvailabilityDTO saldo de un producto en una bodega.
type WarehouseAvailabilityDTO struct {
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
}

// ShortageDTO faltante reportado en modo fallback.
type ShortageDTO struct {
	Requested    decimal.Decimal            `json:"requested"`
	Available    decimal.Decimal            `json:"available"`
	Missing      decimal.Decimal            `json:"missing"`
	Alternatives []WarehouseAvailabilityDTO `json:"alternatives"`
}

// ReturnCostDTO costo resuelto para una devolución.
type ReturnCostDTO struct {
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Source        string          `json:"source"`
	OriginMoveID  string          `json:"origin_move_id"`
	OriginLayerID int64           `json:"origin_layer_id,omitempty"`
}

// LandedCostTransferDTO auditoría de traslado de costo en destino.
type LandedCostTransferDTO struct {
	MoveID            string          `json:"move_id"`
	ProductID         string          `json:"product_id"`
	SourceWarehouseID string          `json:"source_warehouse_id"`
	DestWarehouseID   string          `json:"dest_warehouse_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	Amount            decimal.Decimal `json:"amount"`
	SourceLCBefore    decimal.Decimal `json:"source_lc_before"`
	SourceLCAfter     decimal.Decimal `json:"source_lc_after"`
	DestLCBefore      decimal.Decimal `json:"dest_lc_before"`
	DestLCAfter       decimal.Decimal `json:"dest_lc_after"`
	CreatedAt         time.Time       `json:"created_at"`
}

// MoveValuationResponse resultado de valorar un movimiento.
type MoveValuationResponse struct {
	MoveID     string                 `json:"move_id"`
	Kind       string                 `json:"kind"`
	Rule       string                 `json:"rule"`
	IsReturn   bool                   `json:"is_return"`
	Skipped    bool                   `json:"skipped"`
	Reason     string                 `json:"reason,omitempty"`
	Layers     []LayerResponse        `json:"layers"`
	Shortage   *ShortageDTO           `json:"shortage,omitempty"`
	ReturnCost *ReturnCostDTO         `json:"return_cost,omitempty"`
	LandedCost *LandedCostTransferDTO `json:"landed_cost,omitempty"`
}

// FIFOCostBatchItem elemento de POST /api/valuation/fifo-cost/batch.
type FIFOCostBatchItem struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// FIFOCostBatchRequest lote de consultas de costo.
type FIFOCostBatchRequest struct {
	Items []FIFOCostBatchItem `json:"items" validate:"required,min=1,max=200,dive"`
}

// ConsumedLayerDTO porción tomada de una capa.
type ConsumedLayerDTO struct {
	LayerID  int64           `json:"layer_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// FIFOCostResponse resultado de calculate_fifo_cost.
type FIFOCostResponse struct {
	ProductID   string             `json:"product_id"`
	WarehouseID string             `json:"warehouse_id"`
	Requested   decimal.Decimal    `json:"requested"`
	Quantity    decimal.Decimal    `json:"quantity"`
	Cost        decimal.Decimal    `json:"cost"`
	UnitCost    decimal.Decimal    `json:"unit_cost"`
	Available   decimal.Decimal    `json:"available"`
	Layers      []ConsumedLayerDTO `json:"layers"`
	Shortage    *ShortageDTO       `json:"shortage,omitempty"`
	// Solo en la variante con costo en destino: desglose de Cost.
	BaseCost       *decimal.Decimal `json:"base_cost,omitempty"`
	LandedCost     *decimal.Decimal `json:"landed_cost,omitempty"`
	LandedUnitCost *decimal.Decimal `json:"landed_unit_cost,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// FIFOCostBatchResponse resultados en el orden pedido.
type FIFOCostBatchResponse struct {
	Items []FIFOCostResponse `json:"items"`
}

// QueueResponse cola FIFO de un producto en una bodega.
type QueueResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	Layers      []LayerResponse `json:"layers"`
}

// WarehouseValuationResponse saldo, valor y costo en destino en una bodega.
type WarehouseValuationResponse struct {
	ProductID      string          `json:"product_id"`
	WarehouseID    string          `json:"warehouse_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Value          decimal.Decimal `json:"value"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	LandedCost     decimal.Decimal `json:"landed_cost"`
	LandedUnitCost decimal.Decimal `json:"landed_unit_cost"`
}

// TransferSuggestionResponse bodega sugerida para cubrir un faltante.
type TransferSuggestionResponse struct {
	ProductID         string                     `json:"product_id"`
	WarehouseID       string                     `json:"warehouse_id"`
	Missing           decimal.Decimal            `json:"missing"`
	SourceWarehouseID string                     `json:"source_warehouse_id,omitempty"`
	SuggestedQty      decimal.Decimal            `json:"suggested_qty"`
	CoversShortage    bool                       `json:"covers_shortage"`
	Alternatives      []WarehouseAvailabilityDTO `json:"alternatives"`
}

// ApplyLandedCostRequest body para POST /api/valuation/layers/:id/landed-cost.
type ApplyLandedCostRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// LandedCostAllocationDTO asignación de costo en destino.
type LandedCostAllocationDTO struct {
	ID               int64           `json:"id"`
	ValuationLayerID int64           `json:"valuation_layer_id"`
	WarehouseID      string          `json:"warehouse_id"`
	LandedCostValue  decimal.Decimal `json:"landed_cost_value"`
	Quantity         decimal.Decimal `json:"quantity"`
	SourceMoveID     string          `json:"source_move_id,omitempty"`
}

// ApplyLandedCostResponse efecto del costo en destino sobre la capa.
type ApplyLandedCostResponse struct {
	Layer       LayerResponse             `json:"layer"`
	OnHand      decimal.Decimal           `json:"on_hand"`
	Consumed    decimal.Decimal           `json:"consumed"`
	Allocations []LandedCostAllocationDTO `json:"allocations"`
}

// ConfigParamRequest body para PUT /api/valuation/config/:key.
type ConfigParamRequest struct {
	Value string `json:"value" validate:"required,max=200"`
}

// ConfigParamResponse parámetro de configuración.
type ConfigParamResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ShortageErrorResponse error 409 FIFO_SHORTAGE con el alcance del faltante.
type ShortageErrorResponse struct {
	Code        string          `json:"code"`
	Message     string          `json:"message"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Requested   decimal.Decimal `json:"requested"`
	Available   decimal.Decimal `json:"available"`
	Missing     decimal.Decimal `json:"missing"`
}
