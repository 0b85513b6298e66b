package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationLayer lote de costo por producto y bodega.
// Quantity > 0 es una entrada (consumible en orden FIFO); Quantity < 0 es una salida.
// RemainingQty/RemainingValue solo tienen sentido en capas positivas.
type ValuationLayer struct {
	ID             int64
	CompanyID      string
	ProductID      string
	WarehouseID    string
	LocationID     string
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	Value          decimal.Decimal
	RemainingQty   decimal.Decimal
	RemainingValue decimal.Decimal
	SourceMoveID   string
	Description    string
	Locked         bool
	// RecalculationRunID identifica la recalculación que creó la capa (vacío en posteo normal).
	RecalculationRunID string
	CreatedAt          time.Time
}

// IsIncoming indica si la capa es una entrada.
func (l *ValuationLayer) IsIncoming() bool {
	return l.Quantity.IsPositive()
}

// HasRemaining indica si la capa todavía tiene unidades sin consumir.
func (l *ValuationLayer) HasRemaining() bool {
	return l.IsIncoming() && l.RemainingQty.IsPositive()
}

// LayerUsage registra cuánto consumió una capa negativa de una capa positiva (ledger de consumo).
type LayerUsage struct {
	ID              int64
	ConsumerLayerID int64
	SourceLayerID   int64
	Quantity        decimal.Decimal
	Value           decimal.Decimal
	CreatedAt       time.Time
}

// WarehouseAvailability saldo disponible de un producto en una bodega.
type WarehouseAvailability struct {
	WarehouseID string
	Quantity    decimal.Decimal
	Value       decimal.Decimal
}
