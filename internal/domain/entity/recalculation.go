package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una recalculación FIFO.
const (
	RecalStateDraft      = "draft"
	RecalStatePreview    = "preview"
	RecalStateProcessing = "processing"
	RecalStateDone       = "done"
	RecalStateFailed     = "failed"
)

// Estrategias de borrado de capas antes de reconstruir.
const (
	DeleteStrategyNone       = "none"               // no borra; solo completa capas faltantes
	DeleteStrategyRange      = "range"              // borra capas creadas dentro del rango de fechas
	DeleteStrategyAllProduct = "all_product_layers" // borra todas las capas del producto en la bodega
)

// Límites del tamaño de lote (combinaciones producto-bodega por transacción).
const (
	MinBatchSize     = 1
	MaxBatchSize     = 1000
	DefaultBatchSize = 100
)

// ValidDeleteStrategy indica si s es una estrategia conocida.
func ValidDeleteStrategy(s string) bool {
	switch s {
	case DeleteStrategyNone, DeleteStrategyRange, DeleteStrategyAllProduct:
		return true
	}
	return false
}

// RecalculationScope filtro de una recalculación.
type RecalculationScope struct {
	CompanyID        string
	DateFrom         time.Time
	DateTo           time.Time
	WarehouseIDs     []string
	ProductIDs       []string
	CategoryIDs      []string
	DeletionStrategy string
	BatchSize        int
}

// RecalculationRun ejecución de la herramienta de recalculación (draft → preview → processing → done).
type RecalculationRun struct {
	ID              string
	Scope           RecalculationScope
	State           string
	DryRun          bool
	LockAfterRecal  bool
	ProgressPercent int
	ProgressMessage string
	Log             []string
	PreviewLines    []PreviewLine
	DeletedCount    int
	CreatedCount    int
	FailedBatches   int
	BackupID        string
	ConfigID        string // configuración programada que la originó (opcional)
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AppendLog agrega una línea al registro legible de la ejecución.
func (r *RecalculationRun) AppendLog(line string) {
	r.Log = append(r.Log, line)
}

// PreviewLine comparación antes/después para una combinación producto-bodega.
type PreviewLine struct {
	ProductID     string
	ProductName   string
	WarehouseID   string
	WarehouseName string
	QtyBefore     decimal.Decimal
	ValueBefore   decimal.Decimal
	QtyAfter      decimal.Decimal
	ValueAfter    decimal.Decimal
	QtyDiff       decimal.Decimal
	ValueDiff     decimal.Decimal
	MoveCount     int
	Warnings      []string
}

// PreviewTotals suma las líneas de la previsualización.
type PreviewTotals struct {
	QtyBefore   decimal.Decimal
	ValueBefore decimal.Decimal
	QtyAfter    decimal.Decimal
	ValueAfter  decimal.Decimal
	QtyDiff     decimal.Decimal
	ValueDiff   decimal.Decimal
}

// Totals calcula la fila de totales de la previsualización.
func (r *RecalculationRun) Totals() PreviewTotals {
	var t PreviewTotals
	for _, l := range r.PreviewLines {
		t.QtyBefore = t.QtyBefore.Add(l.QtyBefore)
		t.ValueBefore = t.ValueBefore.Add(l.ValueBefore)
		t.QtyAfter = t.QtyAfter.Add(l.QtyAfter)
		t.ValueAfter = t.ValueAfter.Add(l.ValueAfter)
		t.QtyDiff = t.QtyDiff.Add(l.QtyDiff)
		t.ValueDiff = t.ValueDiff.Add(l.ValueDiff)
	}
	return t
}
