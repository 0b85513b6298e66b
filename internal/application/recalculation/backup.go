package recalculation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// BackupService toma y restaura respaldos de capas. Cada paso escribe en su propia transacción.
type BackupService struct {
	tx        valuation.TxRunner
	retention time.Duration
	recorder  Recorder
	log       *logger.Logger
}

// NewBackupService construye el servicio. retention <= 0 usa 30 días.
func NewBackupService(tx valuation.TxRunner, retention time.Duration, recorder Recorder, log *logger.Logger) *BackupService {
	if retention <= 0 {
		retention = DefaultSettings().BackupRetention
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &BackupService{tx: tx, retention: retention, recorder: recorder, log: logger.OrNop(log).Component("recal_backup")}
}

// Snapshot respalda todas las capas de los grupos, los consumos y las asignaciones que la
// recalculación puede borrar o modificar. Devuelve el respaldo ya confirmado.
func (s *BackupService) Snapshot(ctx context.Context, run *entity.RecalculationRun, groups []group) (*entity.RecalculationBackup, error) {
	now := time.Now().UTC()
	backup := &entity.RecalculationBackup{
		ID:        uuid.NewString(),
		CompanyID: run.Scope.CompanyID,
		RunID:     run.ID,
		DateFrom:  run.Scope.DateFrom,
		DateTo:    run.Scope.DateTo,
		State:     entity.BackupStateActive,
		CreatedAt: now,
		ExpiresAt: now.Add(s.retention),
	}

	var (
		lines  []*entity.BackupLine
		usages []*entity.BackupUsageLine
		allocs []*entity.BackupAllocationLine
	)
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		var all, deleted []int64
		for _, g := range groups {
			layers, err := groupLayers(ctx, r, run.Scope.CompanyID, g)
			if err != nil {
				return err
			}
			for _, l := range layers {
				in := deletable(l, run.Scope)
				lines = append(lines, lineOf(backup.ID, l, in))
				all = append(all, l.ID)
				if in {
					deleted = append(deleted, l.ID)
				}
			}
		}
		if len(deleted) > 0 {
			us, err := r.Usages.ListByLayers(ctx, deleted)
			if err != nil {
				return fmt.Errorf("leer consumos: %w", err)
			}
			for _, u := range us {
				usages = append(usages, &entity.BackupUsageLine{BackupID: backup.ID, Usage: *u})
			}
		}
		if len(all) > 0 {
			as, err := r.LandedCosts.ListByLayers(ctx, all)
			if err != nil {
				return fmt.Errorf("leer asignaciones: %w", err)
			}
			for _, a := range as {
				allocs = append(allocs, &entity.BackupAllocationLine{BackupID: backup.ID, Allocation: *a})
			}
		}
		if err := r.Backups.Create(ctx, backup); err != nil {
			return fmt.Errorf("crear respaldo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	failed := 0
	err = s.tx.Run(ctx, func(r repository.Repos) error {
		return r.Backups.CreateLines(ctx, lines)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("run_id", run.ID).Str("backup_id", backup.ID).
			Msg("falló la inserción en bloque del respaldo; se reintenta línea por línea")
		for _, l := range lines {
			l := l
			if err := s.tx.Run(ctx, func(r repository.Repos) error { return r.Backups.CreateLine(ctx, l) }); err != nil {
				failed++
				s.log.Error().Err(err).Str("backup_id", backup.ID).Int64("layer_id", l.LayerID).Msg("línea de respaldo no guardada")
			}
		}
	}

	backup.LayerCount = len(lines) - failed
	backup.FailedLineCount = failed
	err = s.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Backups.CreateUsageLines(ctx, usages); err != nil {
			return fmt.Errorf("respaldar consumos: %w", err)
		}
		if err := r.Backups.CreateAllocationLines(ctx, allocs); err != nil {
			return fmt.Errorf("respaldar asignaciones: %w", err)
		}
		return r.Backups.UpdateCounts(ctx, backup)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("run_id", run.ID).Str("backup_id", backup.ID).Int("layers", backup.LayerCount).
		Int("failed", failed).Msg("respaldo creado")
	return backup, nil
}

// Restore devuelve las capas del alcance a los valores del respaldo: borra las capas creadas
// por la recalculación, reescribe las existentes y reinserta las que se borraron.
func (s *BackupService) Restore(ctx context.Context, companyID, backupID string) (*entity.RestoreResult, error) {
	res := &entity.RestoreResult{BackupID: backupID}
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		b, err := r.Backups.GetByID(ctx, backupID)
		if err != nil {
			return fmt.Errorf("leer respaldo: %w", err)
		}
		if b == nil || b.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if !b.CanRestore() {
			return domain.ErrBackupNotActive
		}

		created, err := r.Layers.List(ctx, repository.LayerFilter{CompanyID: companyID, RunID: b.RunID, IncludeLocked: true})
		if err != nil {
			return fmt.Errorf("listar capas de la recalculación: %w", err)
		}
		if len(created) > 0 {
			ids := make([]int64, 0, len(created))
			for _, l := range created {
				ids = append(ids, l.ID)
			}
			if _, err := r.LandedCosts.DeleteByLayers(ctx, ids); err != nil {
				return fmt.Errorf("borrar asignaciones: %w", err)
			}
			if _, err := r.Usages.DeleteByLayers(ctx, ids); err != nil {
				return fmt.Errorf("borrar consumos: %w", err)
			}
			if res.RemovedLayers, err = r.Layers.Delete(ctx, ids); err != nil {
				return fmt.Errorf("borrar capas: %w", err)
			}
		}

		lines, err := r.Backups.ListLines(ctx, backupID)
		if err != nil {
			return fmt.Errorf("leer líneas del respaldo: %w", err)
		}
		present := map[int64]bool{}
		for _, line := range lines {
			layer := line.Layer(companyID)
			cur, err := r.Layers.GetByID(ctx, line.LayerID)
			if err != nil {
				return fmt.Errorf("leer capa %d: %w", line.LayerID, err)
			}
			switch {
			case cur != nil:
				if err := r.Layers.UpdateValuation(ctx, layer); err != nil {
					return fmt.Errorf("restaurar capa %d: %w", line.LayerID, err)
				}
				res.Restored++
			case line.InDeletionScope:
				if err := r.Layers.Reinsert(ctx, layer); err != nil {
					return fmt.Errorf("reinsertar capa %d: %w", line.LayerID, err)
				}
				res.Reinserted++
			default:
				res.FailedLayers = append(res.FailedLayers, line.LayerID)
				continue
			}
			present[line.LayerID] = true
		}

		if err := restoreUsages(ctx, r, backupID, present); err != nil {
			return err
		}
		if err := restoreAllocations(ctx, r, backupID, present); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := r.Backups.UpdateState(ctx, backupID, entity.BackupStateRestored, now); err != nil {
			return fmt.Errorf("actualizar respaldo: %w", err)
		}
		run, err := r.Recalculations.GetByID(ctx, b.RunID)
		if err != nil {
			return fmt.Errorf("leer recalculación: %w", err)
		}
		if run != nil {
			run.AppendLog(fmt.Sprintf("respaldo %s restaurado: %d capas reescritas, %d reinsertadas, %d borradas, %d fallidas",
				backupID, res.Restored, res.Reinserted, res.RemovedLayers, len(res.FailedLayers)))
			run.UpdatedAt = now
			if err := r.Recalculations.Update(ctx, run); err != nil {
				return fmt.Errorf("actualizar recalculación: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recorder.BackupRestored()
	for _, id := range res.FailedLayers {
		s.log.Warn().Str("backup_id", backupID).Int64("layer_id", id).Msg("capa del respaldo no existe; no se restauró")
	}
	s.log.Info().Str("backup_id", backupID).Int("restored", res.Restored).Int("reinserted", res.Reinserted).
		Int("removed", res.RemovedLayers).Int("failed", len(res.FailedLayers)).Msg("respaldo restaurado")
	return res, nil
}

// Expire marca como vencidos los respaldos activos cuyo plazo pasó.
func (s *BackupService) Expire(ctx context.Context, now time.Time) (int, error) {
	n := 0
	err := s.tx.Run(ctx, func(r repository.Repos) error {
		expired, err := r.Backups.ListExpired(ctx, now)
		if err != nil {
			return fmt.Errorf("listar respaldos vencidos: %w", err)
		}
		for _, b := range expired {
			if err := r.Backups.UpdateState(ctx, b.ID, entity.BackupStateExpired, now); err != nil {
				return fmt.Errorf("vencer respaldo %s: %w", b.ID, err)
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int("count", n).Msg("respaldos vencidos")
	}
	return n, nil
}

// restoreUsages reinserta los consumos cuyas dos capas existen tras la restauración.
func restoreUsages(ctx context.Context, r repository.Repos, backupID string, present map[int64]bool) error {
	lines, err := r.Backups.ListUsageLines(ctx, backupID)
	if err != nil {
		return fmt.Errorf("leer consumos del respaldo: %w", err)
	}
	for _, line := range lines {
		u := line.Usage
		if !present[u.ConsumerLayerID] || !present[u.SourceLayerID] {
			continue
		}
		if err := r.Usages.Reinsert(ctx, &u); err != nil {
			return fmt.Errorf("reinsertar consumo %d: %w", u.ID, err)
		}
	}
	return nil
}

// restoreAllocations reescribe las asignaciones existentes y reinserta las borradas.
func restoreAllocations(ctx context.Context, r repository.Repos, backupID string, present map[int64]bool) error {
	lines, err := r.Backups.ListAllocationLines(ctx, backupID)
	if err != nil {
		return fmt.Errorf("leer asignaciones del respaldo: %w", err)
	}
	if len(lines) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(present))
	for id := range present {
		ids = append(ids, id)
	}
	current, err := r.LandedCosts.ListByLayers(ctx, ids)
	if err != nil {
		return fmt.Errorf("leer asignaciones: %w", err)
	}
	exists := make(map[int64]bool, len(current))
	for _, a := range current {
		exists[a.ID] = true
	}
	for _, line := range lines {
		a := line.Allocation
		if !present[a.ValuationLayerID] {
			continue
		}
		if exists[a.ID] {
			err = r.LandedCosts.UpdateValue(ctx, &a)
		} else {
			err = r.LandedCosts.Reinsert(ctx, &a)
		}
		if err != nil {
			return fmt.Errorf("restaurar asignación %d: %w", a.ID, err)
		}
	}
	return nil
}

func lineOf(backupID string, l *entity.ValuationLayer, inDeletionScope bool) *entity.BackupLine {
	return &entity.BackupLine{
		BackupID:        backupID,
		LayerID:         l.ID,
		ProductID:       l.ProductID,
		WarehouseID:     l.WarehouseID,
		LocationID:      l.LocationID,
		Quantity:        l.Quantity,
		UnitCost:        l.UnitCost,
		Value:           l.Value,
		RemainingQty:    l.RemainingQty,
		RemainingValue:  l.RemainingValue,
		SourceMoveID:    l.SourceMoveID,
		Description:     l.Description,
		Locked:          l.Locked,
		LayerCreatedAt:  l.CreatedAt,
		InDeletionScope: inDeletionScope,
	}
}
