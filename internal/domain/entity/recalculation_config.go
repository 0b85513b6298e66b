package entity

import "time"

// RecalculationConfig configuración con nombre para recalculaciones programadas.
// Si DateRangeDays > 0 el rango es relativo: [hoy - DateRangeDays, hoy].
type RecalculationConfig struct {
	ID               string
	CompanyID        string
	Name             string
	IsDefault        bool
	Cron             string
	DateRangeDays    int
	DateFrom         *time.Time
	DateTo           *time.Time
	WarehouseIDs     []string
	ProductIDs       []string
	CategoryIDs      []string
	DeletionStrategy string
	BatchSize        int
	LockAfterRecal   bool
	AutoApply        bool
	NotifyEmails     []string
	Active           bool
	LastRunAt        *time.Time
	LastRunID        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ScopeAt arma el alcance de la recalculación para la fecha now.
func (c *RecalculationConfig) ScopeAt(now time.Time) RecalculationScope {
	s := RecalculationScope{
		CompanyID:        c.CompanyID,
		WarehouseIDs:     c.WarehouseIDs,
		ProductIDs:       c.ProductIDs,
		CategoryIDs:      c.CategoryIDs,
		DeletionStrategy: c.DeletionStrategy,
		BatchSize:        c.BatchSize,
	}
	switch {
	case c.DateRangeDays > 0:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		s.DateFrom = start.AddDate(0, 0, -c.DateRangeDays)
		s.DateTo = start.Add(24*time.Hour - time.Second)
	case c.DateFrom != nil && c.DateTo != nil:
		s.DateFrom = *c.DateFrom
		s.DateTo = *c.DateTo
	default:
		s.DateFrom = now.AddDate(0, 0, -30)
		s.DateTo = now
	}
	return s
}

// Parámetros de configuración leídos en cada llamada.
const (
	ParamShortagePolicy           = "fifo.shortage_policy"
	ParamEnableLocationValidation = "fifo.enable_location_validation"
)

// Políticas de faltante de la cola FIFO.
const (
	ShortagePolicyError    = "error"
	ShortagePolicyFallback = "fallback"
)
