// Package memory implementa los repositorios en memoria (tests y STORAGE_DRIVER=memory).
// Run trabaja sobre una copia del estado y la publica solo si fn no devuelve error,
// con la misma semántica de Commit/Rollback que el TxRunner de postgres.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

// Hooks permite simular fallas de escritura en tests.
type Hooks struct {
	// FailBackupBatch hace fallar CreateLines (inserción en bloque de líneas de respaldo).
	FailBackupBatch bool
	// FailBackupLine hace fallar CreateLine para las capas indicadas.
	FailBackupLine map[int64]bool
}

type state struct {
	layers     map[int64]entity.ValuationLayer
	usages     map[int64]entity.LayerUsage
	allocs     map[int64]entity.LandedCostAllocation
	audits     []entity.LandedCostTransferAudit
	moves      map[string]entity.Move
	locations  map[string]entity.Location
	warehouses map[string]entity.Warehouse
	products   map[string]entity.Product

	runs         map[string]entity.RecalculationRun
	backups      map[string]entity.RecalculationBackup
	backupLines  map[string][]entity.BackupLine
	backupUsages map[string][]entity.BackupUsageLine
	backupAllocs map[string][]entity.BackupAllocationLine
	params       map[string]string
	configs      map[string]entity.RecalculationConfig

	layerSeq, usageSeq, allocSeq, auditSeq, lineSeq int64

	hooks *Hooks
}

func newState(h *Hooks) *state {
	return &state{
		layers:       map[int64]entity.ValuationLayer{},
		usages:       map[int64]entity.LayerUsage{},
		allocs:       map[int64]entity.LandedCostAllocation{},
		moves:        map[string]entity.Move{},
		locations:    map[string]entity.Location{},
		warehouses:   map[string]entity.Warehouse{},
		products:     map[string]entity.Product{},
		runs:         map[string]entity.RecalculationRun{},
		backups:      map[string]entity.RecalculationBackup{},
		backupLines:  map[string][]entity.BackupLine{},
		backupUsages: map[string][]entity.BackupUsageLine{},
		backupAllocs: map[string][]entity.BackupAllocationLine{},
		params:       map[string]string{},
		configs:      map[string]entity.RecalculationConfig{},
		hooks:        h,
	}
}

// clone copia los mapas; los valores guardados nunca se modifican en sitio.
func (s *state) clone() *state {
	c := *s
	c.layers = cloneMap(s.layers)
	c.usages = cloneMap(s.usages)
	c.allocs = cloneMap(s.allocs)
	c.audits = append([]entity.LandedCostTransferAudit(nil), s.audits...)
	c.moves = cloneMap(s.moves)
	c.locations = cloneMap(s.locations)
	c.warehouses = cloneMap(s.warehouses)
	c.products = cloneMap(s.products)
	c.runs = cloneMap(s.runs)
	c.backups = cloneMap(s.backups)
	c.backupLines = cloneMap(s.backupLines)
	c.backupUsages = cloneMap(s.backupUsages)
	c.backupAllocs = cloneMap(s.backupAllocs)
	c.params = cloneMap(s.params)
	c.configs = cloneMap(s.configs)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) repos() repository.Repos {
	return repository.Repos{
		Layers:         &layerRepo{s},
		Usages:         &usageRepo{s},
		LandedCosts:    &landedCostRepo{s},
		Moves:          &moveRepo{s},
		Locations:      &locationRepo{s},
		Warehouses:     &warehouseRepo{s},
		Products:       &productRepo{s},
		Recalculations: &runRepo{s},
		Backups:        &backupRepo{s},
		Configs:        &configRepo{s},
	}
}

// Store estado en memoria protegido por un mutex; una transacción a la vez.
type Store struct {
	mu    sync.Mutex
	st    *state
	Hooks *Hooks
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	h := &Hooks{}
	return &Store{st: newState(h), Hooks: h}
}

// Run ejecuta fn con repositorios sobre una copia; si fn devuelve nil la copia pasa a ser el estado.
func (s *Store) Run(ctx context.Context, fn func(r repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(tx.repos()); err != nil {
		return err
	}
	s.st = tx
	return nil
}
