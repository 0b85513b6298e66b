package recalculation

import (
	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

// ToRunResponse convierte una ejecución (y su respaldo) al DTO de respuesta.
func ToRunResponse(d *RunDetail) dto.RecalculationResponse {
	run := d.Run
	out := dto.RecalculationResponse{
		ID:               run.ID,
		State:            run.State,
		DateFrom:         run.Scope.DateFrom,
		DateTo:           run.Scope.DateTo,
		WarehouseIDs:     run.Scope.WarehouseIDs,
		ProductIDs:       run.Scope.ProductIDs,
		CategoryIDs:      run.Scope.CategoryIDs,
		DeletionStrategy: run.Scope.DeletionStrategy,
		BatchSize:        run.Scope.BatchSize,
		DryRun:           run.DryRun,
		LockAfterRecal:   run.LockAfterRecal,
		ProgressPercent:  run.ProgressPercent,
		ProgressMessage:  run.ProgressMessage,
		Log:              run.Log,
		DeletedCount:     run.DeletedCount,
		CreatedCount:     run.CreatedCount,
		FailedBatches:    run.FailedBatches,
		BackupID:         run.BackupID,
		CanRollback:      d.CanRollback(),
		ConfigID:         run.ConfigID,
		CreatedBy:        run.CreatedBy,
		CreatedAt:        run.CreatedAt,
		UpdatedAt:        run.UpdatedAt,
	}
	if d.Backup != nil {
		out.BackupState = d.Backup.State
	}
	if len(run.PreviewLines) > 0 {
		out.Lines = make([]dto.PreviewLineDTO, 0, len(run.PreviewLines))
		for _, l := range run.PreviewLines {
			out.Lines = append(out.Lines, dto.PreviewLineDTO{
				ProductID:     l.ProductID,
				ProductName:   l.ProductName,
				WarehouseID:   l.WarehouseID,
				WarehouseName: l.WarehouseName,
				QtyBefore:     l.QtyBefore,
				ValueBefore:   l.ValueBefore,
				QtyAfter:      l.QtyAfter,
				ValueAfter:    l.ValueAfter,
				QtyDiff:       l.QtyDiff,
				ValueDiff:     l.ValueDiff,
				MoveCount:     l.MoveCount,
				Warnings:      l.Warnings,
			})
		}
		t := run.Totals()
		out.Totals = &dto.PreviewTotalsDTO{
			QtyBefore:   t.QtyBefore,
			ValueBefore: t.ValueBefore,
			QtyAfter:    t.QtyAfter,
			ValueAfter:  t.ValueAfter,
			QtyDiff:     t.QtyDiff,
			ValueDiff:   t.ValueDiff,
		}
	}
	return out
}

// ToBackupResponse convierte un respaldo.
func ToBackupResponse(b *entity.RecalculationBackup) dto.BackupResponse {
	return dto.BackupResponse{
		ID:              b.ID,
		RunID:           b.RunID,
		DateFrom:        b.DateFrom,
		DateTo:          b.DateTo,
		LayerCount:      b.LayerCount,
		FailedLineCount: b.FailedLineCount,
		State:           b.State,
		CreatedAt:       b.CreatedAt,
		RestoredAt:      b.RestoredAt,
		ExpiresAt:       b.ExpiresAt,
	}
}

// ToRestoreResponse convierte el resultado de una restauración.
func ToRestoreResponse(r *entity.RestoreResult) dto.RestoreResponse {
	failed := r.FailedLayers
	if failed == nil {
		failed = []int64{}
	}
	return dto.RestoreResponse{
		BackupID:      r.BackupID,
		Restored:      r.Restored,
		Reinserted:    r.Reinserted,
		RemovedLayers: r.RemovedLayers,
		Failed:        failed,
	}
}

// ToConfigResponse convierte una configuración programada.
func ToConfigResponse(c *entity.RecalculationConfig) dto.RecalculationConfigResponse {
	return dto.RecalculationConfigResponse{
		ID:               c.ID,
		Name:             c.Name,
		IsDefault:        c.IsDefault,
		Cron:             c.Cron,
		DateRangeDays:    c.DateRangeDays,
		DateFrom:         c.DateFrom,
		DateTo:           c.DateTo,
		WarehouseIDs:     c.WarehouseIDs,
		ProductIDs:       c.ProductIDs,
		CategoryIDs:      c.CategoryIDs,
		DeletionStrategy: c.DeletionStrategy,
		BatchSize:        c.BatchSize,
		LockAfterRecal:   c.LockAfterRecal,
		AutoApply:        c.AutoApply,
		NotifyEmails:     c.NotifyEmails,
		Active:           c.Active,
		LastRunAt:        c.LastRunAt,
		LastRunID:        c.LastRunID,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
