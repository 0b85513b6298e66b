package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LandedCostAllocation parte del costo en destino (flete, aranceles) asignada a una capa en una bodega.
type LandedCostAllocation struct {
	ID               int64
	CompanyID        string
	ValuationLayerID int64
	ProductID        string
	WarehouseID      string
	LandedCostValue  decimal.Decimal
	Quantity         decimal.Decimal // cantidad de referencia al momento de asignar
	SourceMoveID     string          // movimiento que originó la asignación (transferencias)
	CreatedAt        time.Time
}

// LandedCostTransferAudit traza de cada traslado de costo en destino entre bodegas.
type LandedCostTransferAudit struct {
	ID                int64
	CompanyID         string
	MoveID            string
	ProductID         string
	SourceWarehouseID string
	DestWarehouseID   string
	Quantity          decimal.Decimal
	Amount            decimal.Decimal
	SourceLCBefore    decimal.Decimal
	SourceLCAfter     decimal.Decimal
	DestLCBefore      decimal.Decimal
	DestLCAfter       decimal.Decimal
	CreatedAt         time.Time
}
