package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

// RecalculationRepository puerto de ejecuciones de recalculación.
type RecalculationRepository interface {
	Create(ctx context.Context, run *entity.RecalculationRun) error
	Update(ctx context.Context, run *entity.RecalculationRun) error
	GetByID(ctx context.Context, id string) (*entity.RecalculationRun, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.RecalculationRun, error)
}

// BackupRepository puerto de respaldos de recalculación.
type BackupRepository interface {
	Create(ctx context.Context, backup *entity.RecalculationBackup) error
	// CreateLines inserta en bloque; si falla, el llamador reintenta línea por línea con CreateLine.
	CreateLines(ctx context.Context, lines []*entity.BackupLine) error
	CreateLine(ctx context.Context, line *entity.BackupLine) error
	CreateUsageLines(ctx context.Context, lines []*entity.BackupUsageLine) error
	CreateAllocationLines(ctx context.Context, lines []*entity.BackupAllocationLine) error
	GetByID(ctx context.Context, id string) (*entity.RecalculationBackup, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.RecalculationBackup, error)
	ListLines(ctx context.Context, backupID string) ([]*entity.BackupLine, error)
	ListUsageLines(ctx context.Context, backupID string) ([]*entity.BackupUsageLine, error)
	ListAllocationLines(ctx context.Context, backupID string) ([]*entity.BackupAllocationLine, error)
	// UpdateCounts fija LayerCount y FailedLineCount una vez escritas las líneas.
	UpdateCounts(ctx context.Context, backup *entity.RecalculationBackup) error
	UpdateState(ctx context.Context, id, state string, at time.Time) error
	ListExpired(ctx context.Context, now time.Time) ([]*entity.RecalculationBackup, error)
}

// ConfigRepository puerto de parámetros y configuraciones programadas.
type ConfigRepository interface {
	// GetParam devuelve (valor, existe, error).
	GetParam(ctx context.Context, key string) (string, bool, error)
	SetParam(ctx context.Context, key, value string) error

	CreateConfig(ctx context.Context, cfg *entity.RecalculationConfig) error
	UpdateConfig(ctx context.Context, cfg *entity.RecalculationConfig) error
	GetConfig(ctx context.Context, id string) (*entity.RecalculationConfig, error)
	GetDefaultConfig(ctx context.Context, companyID string) (*entity.RecalculationConfig, error)
	ListConfigs(ctx context.Context, companyID string) ([]*entity.RecalculationConfig, error)
	// ListScheduled configuraciones activas con expresión cron (todas las empresas).
	ListScheduled(ctx context.Context) ([]*entity.RecalculationConfig, error)
	// ClearDefault quita is_default al resto de configuraciones de la empresa.
	ClearDefault(ctx context.Context, companyID, exceptID string) error
}
