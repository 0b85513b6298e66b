package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un respaldo de recalculación.
const (
	BackupStateActive   = "active"
	BackupStateRestored = "restored"
	BackupStateExpired  = "expired"
)

// RecalculationBackup foto de las capas en alcance, tomada antes de cualquier borrado.
// Inmutable salvo State (active → restored | expired) y RestoredAt.
type RecalculationBackup struct {
	ID              string
	CompanyID       string
	RunID           string
	DateFrom        time.Time
	DateTo          time.Time
	LayerCount      int
	FailedLineCount int
	State           string
	CreatedAt       time.Time
	RestoredAt      *time.Time
	ExpiresAt       time.Time
}

// CanRestore indica si el respaldo todavía puede usarse.
func (b *RecalculationBackup) CanRestore() bool {
	return b.State == BackupStateActive
}

// BackupLine valores de una capa al momento del respaldo.
// InDeletionScope marca las capas que la recalculación iba a borrar (se reinsertan al restaurar).
type BackupLine struct {
	ID              int64
	BackupID        string
	LayerID         int64
	ProductID       string
	WarehouseID     string
	LocationID      string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	Value           decimal.Decimal
	RemainingQty    decimal.Decimal
	RemainingValue  decimal.Decimal
	SourceMoveID    string
	Description     string
	Locked          bool
	LayerCreatedAt  time.Time
	InDeletionScope bool
}

// Layer reconstruye la capa a partir de la línea.
func (l *BackupLine) Layer(companyID string) *ValuationLayer {
	return &ValuationLayer{
		ID:             l.LayerID,
		CompanyID:      companyID,
		ProductID:      l.ProductID,
		WarehouseID:    l.WarehouseID,
		LocationID:     l.LocationID,
		Quantity:       l.Quantity,
		UnitCost:       l.UnitCost,
		Value:          l.Value,
		RemainingQty:   l.RemainingQty,
		RemainingValue: l.RemainingValue,
		SourceMoveID:   l.SourceMoveID,
		Description:    l.Description,
		Locked:         l.Locked,
		CreatedAt:      l.LayerCreatedAt,
	}
}

// BackupUsageLine registro de consumo borrado por la recalculación.
type BackupUsageLine struct {
	BackupID string
	Usage    LayerUsage
}

// BackupAllocationLine asignación de costo en destino borrada por la recalculación.
type BackupAllocationLine struct {
	BackupID   string
	Allocation LandedCostAllocation
}

// RestoreResult resultado de restaurar un respaldo.
type RestoreResult struct {
	BackupID      string
	Restored      int
	Reinserted    int
	RemovedLayers int
	FailedLayers  []int64
}
