// Package scheduler ejecuta las recalculaciones programadas y el vencimiento de respaldos.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/fifo-valuation-api/internal/application/recalculation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// Configs fuente de configuraciones programadas (recalculation.ScheduleUseCase).
type Configs interface {
	Scheduled(ctx context.Context) ([]*entity.RecalculationConfig, error)
	RunConfig(ctx context.Context, configID string) (*recalculation.RunDetail, error)
}

// Backups vencimiento de respaldos (recalculation.UseCase).
type Backups interface {
	ExpireBackups(ctx context.Context, now time.Time) (int, error)
}

// Scheduler envuelve un cron.Cron con una entrada por configuración activa.
type Scheduler struct {
	cron       *cron.Cron
	configs    Configs
	backups    Backups
	expirySpec string
	jobTimeout time.Duration
	log        *logger.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID // config_id -> entrada
}

// New construye el planificador. loc es la zona de las expresiones cron.
func New(configs Configs, backups Backups, expirySpec string, loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	l := logger.OrNop(log).Component("scheduler")
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		configs:    configs,
		backups:    backups,
		expirySpec: expirySpec,
		jobTimeout: 2 * time.Hour,
		log:        l,
		entries:    make(map[string]cron.EntryID),
	}
}

// Start registra los trabajos y arranca el cron.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.expirySpec != "" {
		if _, err := s.cron.AddFunc(s.expirySpec, s.expireBackups); err != nil {
			return fmt.Errorf("cron de vencimiento %q: %w", s.expirySpec, err)
		}
	}
	if err := s.Reload(ctx); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Int("configs", len(s.entries)).Msg("planificador iniciado")
	return nil
}

// Stop detiene el cron y espera los trabajos en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Reload vuelve a leer las configuraciones programadas y reemplaza sus entradas.
func (s *Scheduler) Reload(ctx context.Context) error {
	list, err := s.configs.Scheduled(ctx)
	if err != nil {
		return fmt.Errorf("leer configuraciones programadas: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		s.cron.Remove(entry)
		delete(s.entries, id)
	}
	for _, cfg := range list {
		id := cfg.ID
		entry, err := s.cron.AddFunc(cfg.Cron, func() { s.runConfig(id) })
		if err != nil {
			// una expresión inválida no impide programar las demás
			s.log.Error().Err(err).Str("config_id", id).Str("cron", cfg.Cron).Msg("expresión cron inválida")
			continue
		}
		s.entries[id] = entry
	}
	return nil
}

// Entries cantidad de configuraciones programadas.
func (s *Scheduler) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Scheduler) runConfig(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()
	log := s.log.With("config_id", id)
	d, err := s.configs.RunConfig(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("recalculación programada falló")
		return
	}
	log.Info().Str("run_id", d.Run.ID).Str("state", d.Run.State).Msg("recalculación programada terminada")
}

func (s *Scheduler) expireBackups() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	n, err := s.backups.ExpireBackups(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("vencimiento de respaldos falló")
		return
	}
	if n > 0 {
		s.log.Info().Int("expired", n).Msg("respaldos vencidos")
	}
}
