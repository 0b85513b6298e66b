package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var _ repository.ConfigRepository = (*ConfigRepo)(nil)

const configColumns = `id, company_id, name, is_default, cron, date_range_days, date_from, date_to,
	warehouse_ids, product_ids, category_ids, deletion_strategy, batch_size, lock_after_recal, auto_apply,
	notify_emails, active, last_run_at, last_run_id, created_at, updated_at`

// ConfigRepo parámetros fifo.* y configuraciones programadas de recalculación.
type ConfigRepo struct {
	q Querier
}

// NewConfigRepository construye el adaptador.
func NewConfigRepository(q Querier) *ConfigRepo {
	return &ConfigRepo{q: q}
}

func (r *ConfigRepo) GetParam(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.q.QueryRow(ctx, `SELECT value FROM config_params WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get config param: %w", err)
	}
	return v, true, nil
}

func (r *ConfigRepo) SetParam(ctx context.Context, key, value string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO config_params (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, key, value)
	if err != nil {
		return fmt.Errorf("set config param: %w", err)
	}
	return nil
}

func configArgs(c *entity.RecalculationConfig) []any {
	return []any{c.ID, c.CompanyID, c.Name, c.IsDefault, c.Cron, c.DateRangeDays, c.DateFrom, c.DateTo,
		orEmpty(c.WarehouseIDs), orEmpty(c.ProductIDs), orEmpty(c.CategoryIDs), c.DeletionStrategy, c.BatchSize,
		c.LockAfterRecal, c.AutoApply, orEmpty(c.NotifyEmails), c.Active, c.LastRunAt, nullable(c.LastRunID),
		c.CreatedAt, c.UpdatedAt}
}

func scanConfig(row pgx.Row) (*entity.RecalculationConfig, error) {
	var (
		c       entity.RecalculationConfig
		lastRun *string
	)
	if err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.IsDefault, &c.Cron, &c.DateRangeDays, &c.DateFrom, &c.DateTo,
		&c.WarehouseIDs, &c.ProductIDs, &c.CategoryIDs, &c.DeletionStrategy, &c.BatchSize, &c.LockAfterRecal,
		&c.AutoApply, &c.NotifyEmails, &c.Active, &c.LastRunAt, &lastRun, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.LastRunID = deref(lastRun)
	return &c, nil
}

func (r *ConfigRepo) listConfigs(ctx context.Context, query string, args ...any) ([]*entity.RecalculationConfig, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recalculation configs: %w", err)
	}
	defer rows.Close()
	var list []*entity.RecalculationConfig
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recalculation config: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CreateConfig inserta la configuración; nombre repetido en la empresa devuelve ErrDuplicate.
func (r *ConfigRepo) CreateConfig(ctx context.Context, c *entity.RecalculationConfig) error {
	query := `INSERT INTO recalculation_configs (` + configColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	if _, err := r.q.Exec(ctx, query, configArgs(c)...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert recalculation config: %w", err)
	}
	return nil
}

func (r *ConfigRepo) UpdateConfig(ctx context.Context, c *entity.RecalculationConfig) error {
	query := `
		UPDATE recalculation_configs SET company_id = $2, name = $3, is_default = $4, cron = $5,
			date_range_days = $6, date_from = $7, date_to = $8, warehouse_ids = $9, product_ids = $10,
			category_ids = $11, deletion_strategy = $12, batch_size = $13, lock_after_recal = $14,
			auto_apply = $15, notify_emails = $16, active = $17, last_run_at = $18, last_run_id = $19,
			created_at = $20, updated_at = $21
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, configArgs(c)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update recalculation config: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ConfigRepo) GetConfig(ctx context.Context, id string) (*entity.RecalculationConfig, error) {
	c, err := scanConfig(r.q.QueryRow(ctx, `SELECT `+configColumns+` FROM recalculation_configs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recalculation config: %w", err)
	}
	return c, nil
}

func (r *ConfigRepo) GetDefaultConfig(ctx context.Context, companyID string) (*entity.RecalculationConfig, error) {
	c, err := scanConfig(r.q.QueryRow(ctx, `SELECT `+configColumns+` FROM recalculation_configs
		WHERE company_id = $1 AND is_default`, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default recalculation config: %w", err)
	}
	return c, nil
}

func (r *ConfigRepo) ListConfigs(ctx context.Context, companyID string) ([]*entity.RecalculationConfig, error) {
	return r.listConfigs(ctx, `SELECT `+configColumns+` FROM recalculation_configs
		WHERE company_id = $1 ORDER BY name`, companyID)
}

func (r *ConfigRepo) ListScheduled(ctx context.Context) ([]*entity.RecalculationConfig, error) {
	return r.listConfigs(ctx, `SELECT `+configColumns+` FROM recalculation_configs
		WHERE active AND cron <> '' ORDER BY id`)
}

// ClearDefault quita is_default al resto; se llama antes de marcar la nueva por defecto.
func (r *ConfigRepo) ClearDefault(ctx context.Context, companyID, exceptID string) error {
	_, err := r.q.Exec(ctx, `UPDATE recalculation_configs SET is_default = false
		WHERE company_id = $1 AND id <> $2 AND is_default`, companyID, exceptID)
	if err != nil {
		return fmt.Errorf("clear default recalculation config: %w", err)
	}
	return nil
}
