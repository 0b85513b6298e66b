package recalculation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/application/ports"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// ScheduleUseCase configuraciones con nombre y su ejecución programada o bajo demanda.
type ScheduleUseCase struct {
	tx       valuation.TxRunner
	recal    *UseCase
	exporter ports.PreviewExporter
	notifier ports.Notifier
	log      *logger.Logger
}

// NewScheduleUseCase construye el caso de uso. exporter y notifier pueden ser nil.
func NewScheduleUseCase(tx valuation.TxRunner, recal *UseCase, exporter ports.PreviewExporter, notifier ports.Notifier, log *logger.Logger) *ScheduleUseCase {
	return &ScheduleUseCase{
		tx:       tx,
		recal:    recal,
		exporter: exporter,
		notifier: notifier,
		log:      logger.OrNop(log).Component("recal_schedule"),
	}
}

// CreateConfig registra una configuración; si es por defecto, las demás dejan de serlo.
func (uc *ScheduleUseCase) CreateConfig(ctx context.Context, companyID string, in dto.RecalculationConfigRequest) (*entity.RecalculationConfig, error) {
	now := time.Now().UTC()
	cfg := &entity.RecalculationConfig{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Active:    true,
		CreatedAt: now,
	}
	if err := applyConfig(cfg, in); err != nil {
		return nil, err
	}
	cfg.UpdatedAt = now
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		// primero se libera la marca: solo una configuración por defecto por empresa.
		if cfg.IsDefault {
			if err := r.Configs.ClearDefault(ctx, companyID, cfg.ID); err != nil {
				return err
			}
		}
		return r.Configs.CreateConfig(ctx, cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("crear configuración: %w", err)
	}
	return cfg, nil
}

// UpdateConfig reemplaza los campos editables de una configuración.
func (uc *ScheduleUseCase) UpdateConfig(ctx context.Context, companyID, id string, in dto.RecalculationConfigRequest) (*entity.RecalculationConfig, error) {
	var out *entity.RecalculationConfig
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		cfg, err := loadConfig(ctx, r, companyID, id)
		if err != nil {
			return err
		}
		if err := applyConfig(cfg, in); err != nil {
			return err
		}
		cfg.UpdatedAt = time.Now().UTC()
		if cfg.IsDefault {
			if err := r.Configs.ClearDefault(ctx, companyID, cfg.ID); err != nil {
				return err
			}
		}
		if err := r.Configs.UpdateConfig(ctx, cfg); err != nil {
			return err
		}
		out = cfg
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("actualizar configuración: %w", err)
	}
	return out, nil
}

// GetConfig configuración por ID.
func (uc *ScheduleUseCase) GetConfig(ctx context.Context, companyID, id string) (*entity.RecalculationConfig, error) {
	var out *entity.RecalculationConfig
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		out, err = loadConfig(ctx, r, companyID, id)
		return err
	})
	return out, err
}

// DefaultConfig configuración por defecto de la empresa.
func (uc *ScheduleUseCase) DefaultConfig(ctx context.Context, companyID string) (*entity.RecalculationConfig, error) {
	var out *entity.RecalculationConfig
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		cfg, err := r.Configs.GetDefaultConfig(ctx, companyID)
		if err != nil {
			return fmt.Errorf("leer configuración por defecto: %w", err)
		}
		if cfg == nil {
			return domain.ErrNotFound
		}
		out = cfg
		return nil
	})
	return out, err
}

// ListConfigs configuraciones de la empresa.
func (uc *ScheduleUseCase) ListConfigs(ctx context.Context, companyID string) ([]*entity.RecalculationConfig, error) {
	var out []*entity.RecalculationConfig
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Configs.ListConfigs(ctx, companyID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listar configuraciones: %w", err)
	}
	return out, nil
}

// Scheduled configuraciones activas con cron, de todas las empresas.
func (uc *ScheduleUseCase) Scheduled(ctx context.Context) ([]*entity.RecalculationConfig, error) {
	var out []*entity.RecalculationConfig
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Configs.ListScheduled(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listar configuraciones programadas: %w", err)
	}
	return out, nil
}

// RunDefault ejecuta la configuración por defecto de la empresa.
func (uc *ScheduleUseCase) RunDefault(ctx context.Context, companyID string) (*RunDetail, error) {
	cfg, err := uc.DefaultConfig(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.run(ctx, cfg)
}

// RunConfig crea la ejecución de una configuración, la previsualiza, la aplica si auto_apply
// está activo y avisa por correo con el XLSX adjunto.
func (uc *ScheduleUseCase) RunConfig(ctx context.Context, configID string) (*RunDetail, error) {
	var cfg *entity.RecalculationConfig
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if cfg, err = r.Configs.GetConfig(ctx, configID); err != nil {
			return fmt.Errorf("leer configuración: %w", err)
		}
		if cfg == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.run(ctx, cfg)
}

func (uc *ScheduleUseCase) run(ctx context.Context, cfg *entity.RecalculationConfig) (*RunDetail, error) {
	log := uc.log.With("config_id", cfg.ID)
	scope := cfg.ScopeAt(time.Now())
	run, err := uc.recal.create(ctx, scope, !cfg.AutoApply, cfg.LockAfterRecal, cfg.ID, "scheduler")
	if err != nil {
		return nil, err
	}
	detail, err := uc.recal.Preview(ctx, cfg.CompanyID, run.ID)
	if err != nil {
		return nil, err
	}
	if cfg.AutoApply {
		applied, err := uc.recal.Apply(ctx, cfg.CompanyID, run.ID)
		if err != nil {
			detail, _ = uc.recal.Get(ctx, cfg.CompanyID, run.ID)
			uc.notify(ctx, cfg, detail, err)
			return nil, err
		}
		detail = applied
	}

	now := time.Now().UTC()
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		cur, err := r.Configs.GetConfig(ctx, cfg.ID)
		if err != nil || cur == nil {
			return err
		}
		cur.LastRunAt = &now
		cur.LastRunID = run.ID
		cur.UpdatedAt = now
		return r.Configs.UpdateConfig(ctx, cur)
	})
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo registrar la última ejecución")
	}
	uc.notify(ctx, cfg, detail, nil)
	log.Info().Str("run_id", run.ID).Bool("auto_apply", cfg.AutoApply).Msg("recalculación programada ejecutada")
	return detail, nil
}

// notify envía el resumen; un fallo en el correo no afecta la ejecución.
func (uc *ScheduleUseCase) notify(ctx context.Context, cfg *entity.RecalculationConfig, d *RunDetail, runErr error) {
	if uc.notifier == nil || len(cfg.NotifyEmails) == 0 || d == nil {
		return
	}
	n := ports.Notification{
		To:      cfg.NotifyEmails,
		Subject: fmt.Sprintf("Recalculación FIFO %s: %s", cfg.Name, d.Run.State),
		Body:    summary(cfg, d.Run, runErr),
	}
	if uc.exporter != nil && len(d.Run.PreviewLines) > 0 {
		data, err := uc.exporter.ExportPreview(ctx, d.Run)
		if err != nil {
			uc.log.Warn().Err(err).Str("run_id", d.Run.ID).Msg("no se pudo generar el adjunto")
		} else {
			n.Attachment = data
			n.AttachmentName = uc.exporter.FileName(d.Run)
		}
	}
	if err := uc.notifier.Notify(ctx, n); err != nil {
		uc.log.Warn().Err(err).Str("run_id", d.Run.ID).Strs("to", cfg.NotifyEmails).Msg("no se pudo enviar el aviso")
	}
}

func summary(cfg *entity.RecalculationConfig, run *entity.RecalculationRun, runErr error) string {
	t := run.Totals()
	var b strings.Builder
	fmt.Fprintf(&b, "Configuración: %s\n", cfg.Name)
	fmt.Fprintf(&b, "Ejecución: %s (%s)\n", run.ID, run.State)
	fmt.Fprintf(&b, "Rango: %s a %s\n", run.Scope.DateFrom.Format("2006-01-02"), run.Scope.DateTo.Format("2006-01-02"))
	fmt.Fprintf(&b, "Combinaciones producto-bodega: %d\n", len(run.PreviewLines))
	fmt.Fprintf(&b, "Valor antes: %s, después: %s, diferencia: %s\n", t.ValueBefore.StringFixed(2), t.ValueAfter.StringFixed(2), t.ValueDiff.StringFixed(2))
	if run.State == entity.RecalStateDone {
		fmt.Fprintf(&b, "Capas borradas: %d, creadas: %d, lotes fallidos: %d\n", run.DeletedCount, run.CreatedCount, run.FailedBatches)
	}
	if runErr != nil {
		fmt.Fprintf(&b, "Error: %v\n", runErr)
	}
	return b.String()
}

// applyConfig valida la solicitud y la copia en cfg.
func applyConfig(cfg *entity.RecalculationConfig, in dto.RecalculationConfigRequest) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	if in.Cron != "" {
		if _, err := cron.ParseStandard(in.Cron); err != nil {
			return fmt.Errorf("%w: cron %q: %v", domain.ErrInvalidInput, in.Cron, err)
		}
	}
	if in.DateRangeDays < 0 {
		return fmt.Errorf("%w: date_range_days negativo", domain.ErrInvalidInput)
	}
	if in.DateRangeDays == 0 {
		if in.DateFrom == nil || in.DateTo == nil {
			return fmt.Errorf("%w: indique date_range_days o date_from y date_to", domain.ErrInvalidInput)
		}
		if in.DateFrom.After(*in.DateTo) {
			return fmt.Errorf("%w: date_from posterior a date_to", domain.ErrInvalidInput)
		}
	}
	strategy := in.DeletionStrategy
	if strategy == "" {
		strategy = entity.DeleteStrategyRange
	}
	if !entity.ValidDeleteStrategy(strategy) {
		return fmt.Errorf("%w: estrategia de borrado %q", domain.ErrInvalidInput, strategy)
	}
	batch := in.BatchSize
	if batch == 0 {
		batch = entity.DefaultBatchSize
	}
	if err := validBatchSize(batch); err != nil {
		return err
	}

	cfg.Name = name
	cfg.IsDefault = in.IsDefault
	cfg.Cron = in.Cron
	cfg.DateRangeDays = in.DateRangeDays
	cfg.DateFrom, cfg.DateTo = in.DateFrom, in.DateTo
	cfg.WarehouseIDs = in.WarehouseIDs
	cfg.ProductIDs = in.ProductIDs
	cfg.CategoryIDs = in.CategoryIDs
	cfg.DeletionStrategy = strategy
	cfg.BatchSize = batch
	cfg.LockAfterRecal = in.LockAfterRecal
	cfg.AutoApply = in.AutoApply
	cfg.NotifyEmails = in.NotifyEmails
	if in.Active != nil {
		cfg.Active = *in.Active
	}
	return nil
}

func loadConfig(ctx context.Context, r repository.Repos, companyID, id string) (*entity.RecalculationConfig, error) {
	cfg, err := r.Configs.GetConfig(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("leer configuración: %w", err)
	}
	if cfg == nil || cfg.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return cfg, nil
}
