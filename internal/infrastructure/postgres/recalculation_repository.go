package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var (
	_ repository.RecalculationRepository = (*RecalculationRepo)(nil)
	_ repository.BackupRepository        = (*BackupRepo)(nil)
)

const runColumns = `id, company_id, date_from, date_to, warehouse_ids, product_ids, category_ids,
	deletion_strategy, batch_size, state, dry_run, lock_after_recal, progress_percent, progress_message,
	log, preview_lines, deleted_count, created_count, failed_batches, backup_id, config_id, created_by,
	created_at, updated_at`

// RecalculationRepo ejecuciones de recalculación. Las líneas de previsualización se guardan como JSONB.
type RecalculationRepo struct {
	q Querier
}

// NewRecalculationRepository construye el adaptador.
func NewRecalculationRepository(q Querier) *RecalculationRepo {
	return &RecalculationRepo{q: q}
}

func runArgs(run *entity.RecalculationRun) ([]any, error) {
	lines := run.PreviewLines
	if lines == nil {
		lines = []entity.PreviewLine{}
	}
	preview, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshal preview lines: %w", err)
	}
	s := run.Scope
	return []any{run.ID, s.CompanyID, s.DateFrom, s.DateTo, orEmpty(s.WarehouseIDs), orEmpty(s.ProductIDs),
		orEmpty(s.CategoryIDs), s.DeletionStrategy, s.BatchSize, run.State, run.DryRun, run.LockAfterRecal,
		run.ProgressPercent, run.ProgressMessage, orEmpty(run.Log), preview, run.DeletedCount, run.CreatedCount,
		run.FailedBatches, nullable(run.BackupID), nullable(run.ConfigID), run.CreatedBy,
		run.CreatedAt, run.UpdatedAt}, nil
}

func scanRun(row pgx.Row) (*entity.RecalculationRun, error) {
	var (
		run             entity.RecalculationRun
		preview         []byte
		backupID, cfgID *string
	)
	s := &run.Scope
	if err := row.Scan(&run.ID, &s.CompanyID, &s.DateFrom, &s.DateTo, &s.WarehouseIDs, &s.ProductIDs,
		&s.CategoryIDs, &s.DeletionStrategy, &s.BatchSize, &run.State, &run.DryRun, &run.LockAfterRecal,
		&run.ProgressPercent, &run.ProgressMessage, &run.Log, &preview, &run.DeletedCount, &run.CreatedCount,
		&run.FailedBatches, &backupID, &cfgID, &run.CreatedBy, &run.CreatedAt, &run.UpdatedAt); err != nil {
		return nil, err
	}
	if len(preview) > 0 {
		if err := json.Unmarshal(preview, &run.PreviewLines); err != nil {
			return nil, fmt.Errorf("unmarshal preview lines: %w", err)
		}
	}
	run.BackupID, run.ConfigID = deref(backupID), deref(cfgID)
	return &run, nil
}

func (r *RecalculationRepo) Create(ctx context.Context, run *entity.RecalculationRun) error {
	args, err := runArgs(run)
	if err != nil {
		return err
	}
	query := `INSERT INTO recalculation_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert recalculation run: %w", err)
	}
	return nil
}

// Update reescribe la ejecución completa (estado, progreso, registro y previsualización).
func (r *RecalculationRepo) Update(ctx context.Context, run *entity.RecalculationRun) error {
	args, err := runArgs(run)
	if err != nil {
		return err
	}
	query := `
		UPDATE recalculation_runs SET company_id = $2, date_from = $3, date_to = $4, warehouse_ids = $5,
			product_ids = $6, category_ids = $7, deletion_strategy = $8, batch_size = $9, state = $10,
			dry_run = $11, lock_after_recal = $12, progress_percent = $13, progress_message = $14, log = $15,
			preview_lines = $16, deleted_count = $17, created_count = $18, failed_batches = $19,
			backup_id = $20, config_id = $21, created_by = $22, created_at = $23, updated_at = $24
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update recalculation run: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecalculationRepo) GetByID(ctx context.Context, id string) (*entity.RecalculationRun, error) {
	run, err := scanRun(r.q.QueryRow(ctx, `SELECT `+runColumns+` FROM recalculation_runs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recalculation run: %w", err)
	}
	return run, nil
}

// ListByCompany ejecuciones más recientes primero. limit <= 0 sin límite.
func (r *RecalculationRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.RecalculationRun, error) {
	query := `SELECT ` + runColumns + ` FROM recalculation_runs WHERE company_id = $1
		ORDER BY created_at DESC, id OFFSET $2`
	args := []any{companyID, max(offset, 0)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recalculation runs: %w", err)
	}
	defer rows.Close()
	var list []*entity.RecalculationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recalculation run: %w", err)
		}
		list = append(list, run)
	}
	return list, rows.Err()
}

const backupColumns = `id, company_id, run_id, date_from, date_to, layer_count, failed_line_count, state,
	created_at, restored_at, expires_at`

const backupLineColumns = `layer_id, product_id, warehouse_id, location_id, quantity, unit_cost, value,
	remaining_qty, remaining_value, source_move_id, description, locked, layer_created_at, in_deletion_scope`

// BackupRepo respaldos de recalculación y sus líneas.
type BackupRepo struct {
	q Querier
}

// NewBackupRepository construye el adaptador.
func NewBackupRepository(q Querier) *BackupRepo {
	return &BackupRepo{q: q}
}

func scanBackup(row pgx.Row) (*entity.RecalculationBackup, error) {
	var b entity.RecalculationBackup
	if err := row.Scan(&b.ID, &b.CompanyID, &b.RunID, &b.DateFrom, &b.DateTo, &b.LayerCount, &b.FailedLineCount,
		&b.State, &b.CreatedAt, &b.RestoredAt, &b.ExpiresAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BackupRepo) listBackups(ctx context.Context, query string, args ...any) ([]*entity.RecalculationBackup, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()
	var list []*entity.RecalculationBackup
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BackupRepo) Create(ctx context.Context, b *entity.RecalculationBackup) error {
	query := `INSERT INTO recalculation_backups (` + backupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, b.ID, b.CompanyID, b.RunID, b.DateFrom, b.DateTo, b.LayerCount,
		b.FailedLineCount, b.State, b.CreatedAt, b.RestoredAt, b.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert backup: %w", err)
	}
	return nil
}

func lineValues(l *entity.BackupLine) []any {
	return []any{l.LayerID, l.ProductID, l.WarehouseID, nullable(l.LocationID), l.Quantity, l.UnitCost, l.Value,
		l.RemainingQty, l.RemainingValue, l.SourceMoveID, l.Description, l.Locked, l.LayerCreatedAt, l.InDeletionScope}
}

// CreateLines copia las líneas con COPY; una fila inválida hace fallar el bloque completo.
func (r *BackupRepo) CreateLines(ctx context.Context, lines []*entity.BackupLine) error {
	if len(lines) == 0 {
		return nil
	}
	cols := []string{"backup_id", "layer_id", "product_id", "warehouse_id", "location_id", "quantity", "unit_cost",
		"value", "remaining_qty", "remaining_value", "source_move_id", "description", "locked", "layer_created_at",
		"in_deletion_scope"}
	src := pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
		return append([]any{lines[i].BackupID}, lineValues(lines[i])...), nil
	})
	if _, err := r.q.CopyFrom(ctx, pgx.Identifier{"recalculation_backup_lines"}, cols, src); err != nil {
		return fmt.Errorf("copy backup lines: %w", err)
	}
	return nil
}

func (r *BackupRepo) CreateLine(ctx context.Context, l *entity.BackupLine) error {
	query := `INSERT INTO recalculation_backup_lines (backup_id, ` + backupLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	args := append([]any{l.BackupID}, lineValues(l)...)
	if err := r.q.QueryRow(ctx, query, args...).Scan(&l.ID); err != nil {
		return fmt.Errorf("insert backup line: %w", err)
	}
	return nil
}

func (r *BackupRepo) CreateUsageLines(ctx context.Context, lines []*entity.BackupUsageLine) error {
	if len(lines) == 0 {
		return nil
	}
	cols := []string{"backup_id", "usage_id", "consumer_layer_id", "source_layer_id", "quantity", "value", "created_at"}
	src := pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
		u := lines[i].Usage
		return []any{lines[i].BackupID, u.ID, u.ConsumerLayerID, u.SourceLayerID, u.Quantity, u.Value, u.CreatedAt}, nil
	})
	if _, err := r.q.CopyFrom(ctx, pgx.Identifier{"recalculation_backup_usages"}, cols, src); err != nil {
		return fmt.Errorf("copy backup usages: %w", err)
	}
	return nil
}

func (r *BackupRepo) CreateAllocationLines(ctx context.Context, lines []*entity.BackupAllocationLine) error {
	if len(lines) == 0 {
		return nil
	}
	cols := []string{"backup_id", "allocation_id", "company_id", "valuation_layer_id", "product_id", "warehouse_id",
		"landed_cost_value", "quantity", "source_move_id", "created_at"}
	src := pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
		a := lines[i].Allocation
		return []any{lines[i].BackupID, a.ID, a.CompanyID, a.ValuationLayerID, a.ProductID, a.WarehouseID,
			a.LandedCostValue, a.Quantity, nullable(a.SourceMoveID), a.CreatedAt}, nil
	})
	if _, err := r.q.CopyFrom(ctx, pgx.Identifier{"recalculation_backup_allocations"}, cols, src); err != nil {
		return fmt.Errorf("copy backup allocations: %w", err)
	}
	return nil
}

func (r *BackupRepo) GetByID(ctx context.Context, id string) (*entity.RecalculationBackup, error) {
	b, err := scanBackup(r.q.QueryRow(ctx, `SELECT `+backupColumns+` FROM recalculation_backups WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get backup: %w", err)
	}
	return b, nil
}

func (r *BackupRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.RecalculationBackup, error) {
	return r.listBackups(ctx, `SELECT `+backupColumns+` FROM recalculation_backups
		WHERE company_id = $1 ORDER BY created_at DESC`, companyID)
}

func (r *BackupRepo) ListLines(ctx context.Context, backupID string) ([]*entity.BackupLine, error) {
	rows, err := r.q.Query(ctx, `SELECT id, backup_id, `+backupLineColumns+`
		FROM recalculation_backup_lines WHERE backup_id = $1 ORDER BY id`, backupID)
	if err != nil {
		return nil, fmt.Errorf("list backup lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.BackupLine
	for rows.Next() {
		var (
			l   entity.BackupLine
			loc *string
		)
		if err := rows.Scan(&l.ID, &l.BackupID, &l.LayerID, &l.ProductID, &l.WarehouseID, &loc, &l.Quantity,
			&l.UnitCost, &l.Value, &l.RemainingQty, &l.RemainingValue, &l.SourceMoveID, &l.Description, &l.Locked,
			&l.LayerCreatedAt, &l.InDeletionScope); err != nil {
			return nil, fmt.Errorf("scan backup line: %w", err)
		}
		l.LocationID = deref(loc)
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *BackupRepo) ListUsageLines(ctx context.Context, backupID string) ([]*entity.BackupUsageLine, error) {
	rows, err := r.q.Query(ctx, `SELECT backup_id, usage_id, consumer_layer_id, source_layer_id, quantity, value, created_at
		FROM recalculation_backup_usages WHERE backup_id = $1 ORDER BY usage_id`, backupID)
	if err != nil {
		return nil, fmt.Errorf("list backup usages: %w", err)
	}
	defer rows.Close()
	var list []*entity.BackupUsageLine
	for rows.Next() {
		var l entity.BackupUsageLine
		u := &l.Usage
		if err := rows.Scan(&l.BackupID, &u.ID, &u.ConsumerLayerID, &u.SourceLayerID, &u.Quantity, &u.Value, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan backup usage: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *BackupRepo) ListAllocationLines(ctx context.Context, backupID string) ([]*entity.BackupAllocationLine, error) {
	rows, err := r.q.Query(ctx, `SELECT backup_id, allocation_id, company_id, valuation_layer_id, product_id, warehouse_id,
			landed_cost_value, quantity, source_move_id, created_at
		FROM recalculation_backup_allocations WHERE backup_id = $1 ORDER BY allocation_id`, backupID)
	if err != nil {
		return nil, fmt.Errorf("list backup allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.BackupAllocationLine
	for rows.Next() {
		var (
			l    entity.BackupAllocationLine
			move *string
		)
		a := &l.Allocation
		if err := rows.Scan(&l.BackupID, &a.ID, &a.CompanyID, &a.ValuationLayerID, &a.ProductID, &a.WarehouseID,
			&a.LandedCostValue, &a.Quantity, &move, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan backup allocation: %w", err)
		}
		a.SourceMoveID = deref(move)
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *BackupRepo) UpdateCounts(ctx context.Context, b *entity.RecalculationBackup) error {
	cmd, err := r.q.Exec(ctx, `UPDATE recalculation_backups SET layer_count = $2, failed_line_count = $3 WHERE id = $1`,
		b.ID, b.LayerCount, b.FailedLineCount)
	if err != nil {
		return fmt.Errorf("update backup counts: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateState cambia el estado; restored_at solo se fija al restaurar.
func (r *BackupRepo) UpdateState(ctx context.Context, id, state string, at time.Time) error {
	query := `
		UPDATE recalculation_backups
		SET state = $2, restored_at = CASE WHEN $2 = 'restored' THEN $3 ELSE restored_at END
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, state, at)
	if err != nil {
		return fmt.Errorf("update backup state: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListExpired respaldos activos cuyo vencimiento ya pasó.
func (r *BackupRepo) ListExpired(ctx context.Context, now time.Time) ([]*entity.RecalculationBackup, error) {
	return r.listBackups(ctx, `SELECT `+backupColumns+` FROM recalculation_backups
		WHERE state = 'active' AND expires_at < $1 ORDER BY expires_at`, now)
}
