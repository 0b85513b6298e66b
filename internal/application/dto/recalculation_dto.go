package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRecalculationRequest alcance de una recalculación. dry_run por defecto true.
type CreateRecalculationRequest struct {
	DateFrom         time.Time `json:"date_from" validate:"required"`
	DateTo           time.Time `json:"date_to" validate:"required"`
	WarehouseIDs     []string  `json:"warehouse_ids,omitempty"`
	ProductIDs       []string  `json:"product_ids,omitempty"`
	CategoryIDs      []string  `json:"category_ids,omitempty"`
	DeletionStrategy string    `json:"deletion_strategy,omitempty" validate:"omitempty,oneof=none range all_product_layers"`
	BatchSize        int       `json:"batch_size,omitempty"`
	DryRun           *bool     `json:"dry_run,omitempty"`
	LockAfterRecal   bool      `json:"lock_after_recal"`
}

// UpdateRecalculationRequest cambios permitidos antes de aplicar.
type UpdateRecalculationRequest struct {
	DryRun         *bool `json:"dry_run,omitempty"`
	LockAfterRecal *bool `json:"lock_after_recal,omitempty"`
}

// PreviewLineDTO comparación por producto-bodega.
type PreviewLineDTO struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	QtyBefore     decimal.Decimal `json:"qty_before"`
	ValueBefore   decimal.Decimal `json:"value_before"`
	QtyAfter      decimal.Decimal `json:"qty_after"`
	ValueAfter    decimal.Decimal `json:"value_after"`
	QtyDiff       decimal.Decimal `json:"qty_diff"`
	ValueDiff     decimal.Decimal `json:"value_diff"`
	MoveCount     int             `json:"move_count"`
	Warnings      []string        `json:"warnings,omitempty"`
}

// PreviewTotalsDTO fila de totales.
type PreviewTotalsDTO struct {
	QtyBefore   decimal.Decimal `json:"qty_before"`
	ValueBefore decimal.Decimal `json:"value_before"`
	QtyAfter    decimal.Decimal `json:"qty_after"`
	ValueAfter  decimal.Decimal `json:"value_after"`
	QtyDiff     decimal.Decimal `json:"qty_diff"`
	ValueDiff   decimal.Decimal `json:"value_diff"`
}

// RecalculationResponse ejecución de recalculación.
type RecalculationResponse struct {
	ID               string            `json:"id"`
	State            string            `json:"state"`
	DateFrom         time.Time         `json:"date_from"`
	DateTo           time.Time         `json:"date_to"`
	WarehouseIDs     []string          `json:"warehouse_ids,omitempty"`
	ProductIDs       []string          `json:"product_ids,omitempty"`
	CategoryIDs      []string          `json:"category_ids,omitempty"`
	DeletionStrategy string            `json:"deletion_strategy"`
	BatchSize        int               `json:"batch_size"`
	DryRun           bool              `json:"dry_run"`
	LockAfterRecal   bool              `json:"lock_after_recal"`
	ProgressPercent  int               `json:"progress_percent"`
	ProgressMessage  string            `json:"progress_message,omitempty"`
	Log              []string          `json:"log,omitempty"`
	Lines            []PreviewLineDTO  `json:"lines,omitempty"`
	Totals           *PreviewTotalsDTO `json:"totals,omitempty"`
	DeletedCount     int               `json:"deleted_count"`
	CreatedCount     int               `json:"created_count"`
	FailedBatches    int               `json:"failed_batches"`
	BackupID         string            `json:"backup_id,omitempty"`
	BackupState      string            `json:"backup_state,omitempty"`
	CanRollback      bool              `json:"can_rollback"`
	ConfigID         string            `json:"config_id,omitempty"`
	CreatedBy        string            `json:"created_by,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// RecalculationListResponse listado paginado.
type RecalculationListResponse struct {
	Items []RecalculationResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// BackupResponse respaldo de recalculación.
type BackupResponse struct {
	ID              string     `json:"id"`
	RunID           string     `json:"run_id"`
	DateFrom        time.Time  `json:"date_from"`
	DateTo          time.Time  `json:"date_to"`
	LayerCount      int        `json:"layer_count"`
	FailedLineCount int        `json:"failed_line_count"`
	State           string     `json:"state"`
	CreatedAt       time.Time  `json:"created_at"`
	RestoredAt      *time.Time `json:"restored_at,omitempty"`
	ExpiresAt       time.Time  `json:"expires_at"`
}

// RestoreResponse resultado de restaurar un respaldo.
type RestoreResponse struct {
	BackupID      string  `json:"backup_id"`
	Restored      int     `json:"restored"`
	Reinserted    int     `json:"reinserted"`
	RemovedLayers int     `json:"removed_layers"`
	Failed        []int64 `json:"failed"`
}

// ExpireBackupsResponse respaldos vencidos en la pasada.
type ExpireBackupsResponse struct {
	Expired int `json:"expired"`
}

// RecalculationConfigRequest configuración programada. date_range_days > 0 usa rango relativo.
type RecalculationConfigRequest struct {
	Name             string     `json:"name" validate:"required,max=120"`
	IsDefault        bool       `json:"is_default"`
	Cron             string     `json:"cron,omitempty"`
	DateRangeDays    int        `json:"date_range_days" validate:"min=0,max=3660"`
	DateFrom         *time.Time `json:"date_from,omitempty"`
	DateTo           *time.Time `json:"date_to,omitempty"`
	WarehouseIDs     []string   `json:"warehouse_ids,omitempty"`
	ProductIDs       []string   `json:"product_ids,omitempty"`
	CategoryIDs      []string   `json:"category_ids,omitempty"`
	DeletionStrategy string     `json:"deletion_strategy,omitempty" validate:"omitempty,oneof=none range all_product_layers"`
	BatchSize        int        `json:"batch_size,omitempty"`
	LockAfterRecal   bool       `json:"lock_after_recal"`
	AutoApply        bool       `json:"auto_apply"`
	NotifyEmails     []string   `json:"notify_emails,omitempty" validate:"omitempty,dive,email"`
	Active           *bool      `json:"active,omitempty"`
}

// RecalculationConfigResponse configuración programada.
type RecalculationConfigResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	IsDefault        bool       `json:"is_default"`
	Cron             string     `json:"cron,omitempty"`
	DateRangeDays    int        `json:"date_range_days"`
	DateFrom         *time.Time `json:"date_from,omitempty"`
	DateTo           *time.Time `json:"date_to,omitempty"`
	WarehouseIDs     []string   `json:"warehouse_ids,omitempty"`
	ProductIDs       []string   `json:"product_ids,omitempty"`
	CategoryIDs      []string   `json:"category_ids,omitempty"`
	DeletionStrategy string     `json:"deletion_strategy"`
	BatchSize        int        `json:"batch_size"`
	LockAfterRecal   bool       `json:"lock_after_recal"`
	AutoApply        bool       `json:"auto_apply"`
	NotifyEmails     []string   `json:"notify_emails,omitempty"`
	Active           bool       `json:"active"`
	LastRunAt        *time.Time `json:"last_run_at,omitempty"`
	LastRunID        string     `json:"last_run_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
