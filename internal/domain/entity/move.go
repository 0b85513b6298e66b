package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un movimiento de inventario; solo MoveStateDone genera valoración.
const (
	MoveStateDraft     = "draft"
	MoveStateConfirmed = "confirmed"
	MoveStateDone      = "done"
	MoveStateCancel    = "cancel"
)

// Move movimiento de inventario recibido del subsistema de stock (modelo de lectura).
// El núcleo de valoración nunca lo modifica; solo crea capas con SourceMoveID = ID.
type Move struct {
	ID                    string
	CompanyID             string
	ProductID             string
	SourceLocationID      string
	DestinationLocationID string
	Quantity              decimal.Decimal
	UnitOfMeasure         string
	State                 string
	OriginReturnedMoveID  string          // vacío si no es devolución
	PriceUnit             decimal.Decimal // costo sugerido por el proveedor (opcional)
	Date                  time.Time
	Reference             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsDone indica si el movimiento está finalizado.
func (m *Move) IsDone() bool { return m.State == MoveStateDone }

// IsReturn indica si el movimiento revierte uno anterior.
func (m *Move) IsReturn() bool { return m.OriginReturnedMoveID != "" }
