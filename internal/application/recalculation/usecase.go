package recalculation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/application/ports"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// RunDetail ejecución junto con su respaldo (si ya se aplicó).
type RunDetail struct {
	Run    *entity.RecalculationRun
	Backup *entity.RecalculationBackup
}

// CanRollback indica si la ejecución todavía puede revertirse.
func (d *RunDetail) CanRollback() bool {
	return d.Run.State == entity.RecalStateDone && d.Backup != nil && d.Backup.CanRestore()
}

// UseCase casos de uso de la herramienta de recalculación FIFO.
type UseCase struct {
	tx       valuation.TxRunner
	svc      *valuation.MoveValuationService
	backups  *BackupService
	exporter ports.PreviewExporter
	locker   ports.RunLocker
	recorder Recorder
	settings Settings
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. exporter, locker y recorder pueden ser nil.
func NewUseCase(
	tx valuation.TxRunner,
	svc *valuation.MoveValuationService,
	backups *BackupService,
	exporter ports.PreviewExporter,
	locker ports.RunLocker,
	recorder Recorder,
	settings Settings,
	log *logger.Logger,
) *UseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if settings.DefaultBatchSize <= 0 {
		settings.DefaultBatchSize = entity.DefaultBatchSize
	}
	if settings.LockTTL <= 0 {
		settings.LockTTL = DefaultSettings().LockTTL
	}
	return &UseCase{
		tx:       tx,
		svc:      svc,
		backups:  backups,
		exporter: exporter,
		locker:   locker,
		recorder: recorder,
		settings: settings,
		log:      logger.OrNop(log).Component("recalculation"),
	}
}

// Create registra una ejecución en borrador. dry_run por defecto es verdadero.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateRecalculationRequest) (*RunDetail, error) {
	scope := entity.RecalculationScope{
		CompanyID:        companyID,
		DateFrom:         in.DateFrom,
		DateTo:           in.DateTo,
		WarehouseIDs:     in.WarehouseIDs,
		ProductIDs:       in.ProductIDs,
		CategoryIDs:      in.CategoryIDs,
		DeletionStrategy: in.DeletionStrategy,
		BatchSize:        in.BatchSize,
	}
	dryRun := true
	if in.DryRun != nil {
		dryRun = *in.DryRun
	}
	run, err := uc.create(ctx, scope, dryRun, in.LockAfterRecal, "", userID)
	if err != nil {
		return nil, err
	}
	return &RunDetail{Run: run}, nil
}

func (uc *UseCase) create(ctx context.Context, scope entity.RecalculationScope, dryRun, lock bool, configID, userID string) (*entity.RecalculationRun, error) {
	if scope.CompanyID == "" || scope.DateFrom.IsZero() || scope.DateTo.IsZero() {
		return nil, fmt.Errorf("%w: empresa y rango de fechas son obligatorios", domain.ErrInvalidInput)
	}
	if scope.DateFrom.After(scope.DateTo) {
		return nil, fmt.Errorf("%w: date_from posterior a date_to", domain.ErrInvalidInput)
	}
	if scope.DeletionStrategy == "" {
		scope.DeletionStrategy = entity.DeleteStrategyRange
	}
	if !entity.ValidDeleteStrategy(scope.DeletionStrategy) {
		return nil, fmt.Errorf("%w: estrategia de borrado %q", domain.ErrInvalidInput, scope.DeletionStrategy)
	}
	if scope.BatchSize == 0 {
		scope.BatchSize = uc.settings.DefaultBatchSize
	}
	if err := validBatchSize(scope.BatchSize); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	run := &entity.RecalculationRun{
		ID:             uuid.NewString(),
		Scope:          scope,
		State:          entity.RecalStateDraft,
		DryRun:         dryRun,
		LockAfterRecal: lock,
		ConfigID:       configID,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	run.AppendLog(fmt.Sprintf("%s creada: %s a %s, estrategia %s, lote %d",
		run.ID, scope.DateFrom.Format(time.RFC3339), scope.DateTo.Format(time.RFC3339), scope.DeletionStrategy, scope.BatchSize))
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		return r.Recalculations.Create(ctx, run)
	})
	if err != nil {
		return nil, fmt.Errorf("crear recalculación: %w", err)
	}
	uc.log.Info().Str("run_id", run.ID).Str("company_id", scope.CompanyID).Msg("recalculación creada")
	return run, nil
}

// Update cambia dry_run o lock_after_recal mientras la ejecución no se ha aplicado.
func (uc *UseCase) Update(ctx context.Context, companyID, runID string, in dto.UpdateRecalculationRequest) (*RunDetail, error) {
	var out *entity.RecalculationRun
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		run, err := loadRun(ctx, r, companyID, runID)
		if err != nil {
			return err
		}
		if run.State != entity.RecalStateDraft && run.State != entity.RecalStatePreview {
			return fmt.Errorf("%w: estado %s", domain.ErrInvalidState, run.State)
		}
		if in.DryRun != nil {
			run.DryRun = *in.DryRun
		}
		if in.LockAfterRecal != nil {
			run.LockAfterRecal = *in.LockAfterRecal
		}
		run.UpdatedAt = time.Now().UTC()
		out = run
		return r.Recalculations.Update(ctx, run)
	})
	if err != nil {
		return nil, err
	}
	return &RunDetail{Run: out}, nil
}

// Get ejecución con su respaldo.
func (uc *UseCase) Get(ctx context.Context, companyID, runID string) (*RunDetail, error) {
	var out *RunDetail
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		run, err := loadRun(ctx, r, companyID, runID)
		if err != nil {
			return err
		}
		out = &RunDetail{Run: run}
		if run.BackupID != "" {
			if out.Backup, err = r.Backups.GetByID(ctx, run.BackupID); err != nil {
				return fmt.Errorf("leer respaldo: %w", err)
			}
		}
		return nil
	})
	return out, err
}

// List ejecuciones de la empresa, más recientes primero.
func (uc *UseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.RecalculationRun, error) {
	var out []*entity.RecalculationRun
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Recalculations.ListByCompany(ctx, companyID, limit, offset)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listar recalculaciones: %w", err)
	}
	return out, nil
}

// Preview reproduce los movimientos del alcance en memoria y guarda la comparación
// antes/después por producto-bodega. No toca capas.
func (uc *UseCase) Preview(ctx context.Context, companyID, runID string) (*RunDetail, error) {
	var out *entity.RecalculationRun
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		run, err := loadRun(ctx, r, companyID, runID)
		if err != nil {
			return err
		}
		if run.State != entity.RecalStateDraft && run.State != entity.RecalStatePreview {
			return fmt.Errorf("%w: no se puede previsualizar en estado %s", domain.ErrInvalidState, run.State)
		}
		pl, err := buildPlan(ctx, r, uc.svc, run.Scope)
		if err != nil {
			return err
		}
		lines, err := newSimulator(uc.svc, run.Scope).preview(ctx, r, pl)
		if err != nil {
			return err
		}

		run.PreviewLines = lines
		for _, w := range pl.warnings {
			run.AppendLog("advertencia: " + w)
		}
		for _, l := range lines {
			for _, w := range l.Warnings {
				run.AppendLog(fmt.Sprintf("advertencia %s/%s: %s", l.ProductID, l.WarehouseID, w))
			}
		}
		t := run.Totals()
		run.AppendLog(fmt.Sprintf("previsualización: %d combinaciones, diferencia de valor %s", len(lines), t.ValueDiff.String()))
		run.State = entity.RecalStatePreview
		run.ProgressPercent = 0
		run.ProgressMessage = "previsualización lista"
		run.UpdatedAt = time.Now().UTC()
		out = run
		return r.Recalculations.Update(ctx, run)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("run_id", runID).Int("lines", len(out.PreviewLines)).Msg("previsualización generada")
	return &RunDetail{Run: out}, nil
}

// Apply reconstruye las capas: respaldo confirmado primero y luego un lote por transacción.
// Un lote fallido queda en el registro y el proceso continúa con el siguiente.
func (uc *UseCase) Apply(ctx context.Context, companyID, runID string) (*RunDetail, error) {
	if uc.locker != nil {
		release, err := uc.locker.Acquire(ctx, "recal:run:"+runID, uc.settings.LockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				uc.log.Warn().Err(err).Str("run_id", runID).Msg("no se pudo liberar el candado")
			}
		}()
	}
	started := time.Now()

	var (
		run *entity.RecalculationRun
		pl  *plan
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if run, err = loadRun(ctx, r, companyID, runID); err != nil {
			return err
		}
		if run.State != entity.RecalStatePreview {
			return fmt.Errorf("%w: solo se aplica desde preview (estado %s)", domain.ErrInvalidState, run.State)
		}
		if run.DryRun {
			return domain.ErrDryRun
		}
		if err := validBatchSize(run.Scope.BatchSize); err != nil {
			return err
		}
		if pl, err = buildPlan(ctx, r, uc.svc, run.Scope); err != nil {
			return err
		}
		run.State = entity.RecalStateProcessing
		run.ProgressPercent = 0
		run.ProgressMessage = "creando respaldo"
		run.UpdatedAt = time.Now().UTC()
		return r.Recalculations.Update(ctx, run)
	})
	if err != nil {
		return nil, err
	}
	log := uc.log.With("run_id", run.ID)

	backup, err := uc.backups.Snapshot(ctx, run, pl.groups)
	if err != nil {
		return nil, uc.fail(ctx, run, started, fmt.Errorf("crear respaldo: %w", err))
	}
	run.BackupID = backup.ID
	run.AppendLog(fmt.Sprintf("respaldo %s: %d capas, %d líneas fallidas", backup.ID, backup.LayerCount, backup.FailedLineCount))

	batches := pl.batches(run.Scope.BatchSize)
	for i, products := range batches {
		var out batchResult
		err := uc.tx.Run(ctx, func(r repository.Repos) error {
			var err error
			out, err = uc.applyBatch(ctx, r, run, pl, products)
			return err
		})
		uc.recorder.BatchFinished(err != nil)
		if err != nil {
			run.FailedBatches++
			run.AppendLog(fmt.Sprintf("lote %d/%d falló: %v", i+1, len(batches), err))
			log.Error().Err(err).Int("batch", i+1).Strs("products", products).Msg("lote de recalculación fallido")
		} else {
			run.DeletedCount += out.deleted
			run.CreatedCount += out.created
			for _, w := range out.warnings {
				run.AppendLog("advertencia: " + w)
			}
		}
		run.ProgressPercent = (i + 1) * 100 / len(batches)
		run.ProgressMessage = fmt.Sprintf("lote %d de %d", i+1, len(batches))
		if err := uc.save(ctx, run); err != nil {
			return nil, uc.fail(ctx, run, started, err)
		}
	}

	run.State = entity.RecalStateDone
	run.ProgressPercent = 100
	run.ProgressMessage = "terminada"
	run.AppendLog(fmt.Sprintf("aplicada: %d capas borradas, %d creadas, %d lotes fallidos",
		run.DeletedCount, run.CreatedCount, run.FailedBatches))
	if err := uc.save(ctx, run); err != nil {
		return nil, err
	}
	uc.recorder.RunFinished(run.State, time.Since(started))
	log.Info().Int("deleted", run.DeletedCount).Int("created", run.CreatedCount).
		Int("failed_batches", run.FailedBatches).Msg("recalculación aplicada")
	return &RunDetail{Run: run, Backup: backup}, nil
}

type batchResult struct {
	deleted  int
	created  int
	warnings []string
}

// applyBatch borra las capas del lote según la estrategia y vuelve a valorar sus movimientos.
func (uc *UseCase) applyBatch(ctx context.Context, r repository.Repos, run *entity.RecalculationRun, pl *plan, products []string) (batchResult, error) {
	var out batchResult
	var ids []int64
	deleted := map[int64]bool{}
	for _, id := range products {
		for _, g := range pl.groupsOf(id) {
			layers, err := groupLayers(ctx, r, run.Scope.CompanyID, g)
			if err != nil {
				return out, err
			}
			for _, l := range layers {
				if deletable(l, run.Scope) {
					ids = append(ids, l.ID)
					deleted[l.ID] = true
				}
			}
		}
	}

	if len(ids) > 0 {
		if err := restoreConsumed(ctx, r, ids, deleted); err != nil {
			return out, err
		}
		if _, err := r.LandedCosts.DeleteByLayers(ctx, ids); err != nil {
			return out, fmt.Errorf("borrar asignaciones: %w", err)
		}
		if _, err := r.Usages.DeleteByLayers(ctx, ids); err != nil {
			return out, fmt.Errorf("borrar consumos: %w", err)
		}
		n, err := r.Layers.Delete(ctx, ids)
		if err != nil {
			return out, fmt.Errorf("borrar capas: %w", err)
		}
		out.deleted = n
	}

	opts := valuation.ProcessOptions{
		RunID:        run.ID,
		Locked:       run.LockAfterRecal,
		Warehouses:   pl.warehouses,
		SkipExisting: true,
		Policy:       &valuation.Policy{ShortagePolicy: entity.ShortagePolicyFallback, ValidateLocations: true},
	}
	for _, m := range pl.movesOf(products) {
		res, err := uc.svc.Process(ctx, r, m, opts)
		if err != nil {
			return out, fmt.Errorf("movimiento %s: %w", m.ID, err)
		}
		out.created += len(res.Layers)
		if res.Shortage != nil {
			out.warnings = append(out.warnings, fmt.Sprintf("faltante de %s unidades de %s en %s (movimiento %s)",
				res.Shortage.Missing.String(), res.Shortage.ProductID, res.Shortage.WarehouseID, m.ID))
		}
	}
	return out, nil
}

// restoreConsumed devuelve a las capas que sobreviven lo que consumieron las capas a borrar.
func restoreConsumed(ctx context.Context, r repository.Repos, ids []int64, deleted map[int64]bool) error {
	usages, err := r.Usages.ListByLayers(ctx, ids)
	if err != nil {
		return fmt.Errorf("leer consumos: %w", err)
	}
	back := map[int64]*entity.ValuationLayer{}
	var order []int64
	for _, u := range usages {
		if !deleted[u.ConsumerLayerID] || deleted[u.SourceLayerID] {
			continue
		}
		l := back[u.SourceLayerID]
		if l == nil {
			if l, err = r.Layers.GetByID(ctx, u.SourceLayerID); err != nil {
				return fmt.Errorf("leer capa %d: %w", u.SourceLayerID, err)
			}
			if l == nil {
				continue
			}
			back[l.ID] = l
			order = append(order, l.ID)
		}
		l.RemainingQty = l.RemainingQty.Add(u.Quantity)
		l.RemainingValue = l.RemainingValue.Add(u.Value)
	}
	for _, id := range order {
		if err := r.Layers.UpdateRemaining(ctx, back[id]); err != nil {
			return fmt.Errorf("devolver saldo a la capa %d: %w", id, err)
		}
	}
	return nil
}

// Rollback restaura el respaldo de una ejecución terminada.
func (uc *UseCase) Rollback(ctx context.Context, companyID, runID string) (*entity.RestoreResult, error) {
	d, err := uc.Get(ctx, companyID, runID)
	if err != nil {
		return nil, err
	}
	if d.Run.State != entity.RecalStateDone || d.Run.BackupID == "" {
		return nil, fmt.Errorf("%w: la ejecución no tiene respaldo aplicable (estado %s)", domain.ErrInvalidState, d.Run.State)
	}
	return uc.backups.Restore(ctx, companyID, d.Run.BackupID)
}

// RestoreBackup restaura un respaldo por ID.
func (uc *UseCase) RestoreBackup(ctx context.Context, companyID, backupID string) (*entity.RestoreResult, error) {
	return uc.backups.Restore(ctx, companyID, backupID)
}

// Backups respaldos de la empresa.
func (uc *UseCase) Backups(ctx context.Context, companyID string) ([]*entity.RecalculationBackup, error) {
	var out []*entity.RecalculationBackup
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Backups.ListByCompany(ctx, companyID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listar respaldos: %w", err)
	}
	return out, nil
}

// ExpireBackups vence los respaldos activos cuyo plazo pasó antes de now.
func (uc *UseCase) ExpireBackups(ctx context.Context, now time.Time) (int, error) {
	return uc.backups.Expire(ctx, now)
}

// Export genera el XLSX de la previsualización.
func (uc *UseCase) Export(ctx context.Context, companyID, runID string) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("%w: exportación no configurada", domain.ErrInvalidState)
	}
	d, err := uc.Get(ctx, companyID, runID)
	if err != nil {
		return nil, "", err
	}
	if d.Run.State == entity.RecalStateDraft {
		return nil, "", fmt.Errorf("%w: la ejecución no tiene previsualización", domain.ErrInvalidState)
	}
	data, err := uc.exporter.ExportPreview(ctx, d.Run)
	if err != nil {
		return nil, "", fmt.Errorf("exportar previsualización: %w", err)
	}
	return data, uc.exporter.FileName(d.Run), nil
}

// ContentType tipo MIME del archivo exportado.
func (uc *UseCase) ContentType() string {
	if uc.exporter == nil {
		return "application/octet-stream"
	}
	return uc.exporter.ContentType()
}

func (uc *UseCase) save(ctx context.Context, run *entity.RecalculationRun) error {
	run.UpdatedAt = time.Now().UTC()
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		return r.Recalculations.Update(ctx, run)
	})
	if err != nil {
		return fmt.Errorf("actualizar recalculación: %w", err)
	}
	return nil
}

// fail deja la ejecución en failed y devuelve cause.
func (uc *UseCase) fail(ctx context.Context, run *entity.RecalculationRun, started time.Time, cause error) error {
	run.State = entity.RecalStateFailed
	run.ProgressMessage = "falló"
	run.AppendLog("error: " + cause.Error())
	if err := uc.save(ctx, run); err != nil {
		uc.log.Error().Err(err).Str("run_id", run.ID).Msg("no se pudo marcar la recalculación como fallida")
	}
	uc.recorder.RunFinished(run.State, time.Since(started))
	uc.log.Error().Err(cause).Str("run_id", run.ID).Msg("recalculación fallida")
	return cause
}

func loadRun(ctx context.Context, r repository.Repos, companyID, runID string) (*entity.RecalculationRun, error) {
	run, err := r.Recalculations.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("leer recalculación: %w", err)
	}
	if run == nil || run.Scope.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return run, nil
}

func validBatchSize(n int) error {
	if n < entity.MinBatchSize || n > entity.MaxBatchSize {
		return fmt.Errorf("%w (recibido %d)", domain.ErrInvalidBatchSize, n)
	}
	return nil
}

func isMissingCost(err error) bool {
	return errors.Is(err, domain.ErrMissingCost)
}
