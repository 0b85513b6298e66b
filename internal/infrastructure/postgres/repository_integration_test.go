package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/pkg/config"
)

const itCompany = "c1"

var itT0 = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// RepositoryIntegrationSuite repositorios contra un PostgreSQL real con el esquema de migrations/.
type RepositoryIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	tx        *TxRunner
}

func TestRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida con -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fifo_valuation"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.WithInitScripts(filepath.Join("..", "..", "..", "migrations", "001_fifo_valuation.sql")),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)
	pool, err := NewPool(s.ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 5, LockTimeout: "200ms"})
	s.Require().NoError(err)
	s.pool = pool
	s.tx = NewTxRunner(pool)
}

func (s *RepositoryIntegrationSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(s.ctx))
	}
}

func (s *RepositoryIntegrationSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE valuation_layers, layer_usages, landed_cost_allocations,
		recalculation_backups RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *RepositoryIntegrationSuite) layer(wh, qty, remaining, unit string, at time.Time) *entity.ValuationLayer {
	q, rem, u := dec(qty), dec(remaining), dec(unit)
	l := &entity.ValuationLayer{
		CompanyID: itCompany, ProductID: "p1", WarehouseID: wh,
		Quantity: q, UnitCost: u, Value: q.Mul(u).Round(2),
		RemainingQty: rem, RemainingValue: rem.Mul(u).Round(2),
		SourceMoveID: "m-" + wh, CreatedAt: at,
	}
	s.Require().NoError(NewValuationLayerRepository(s.pool).Create(s.ctx, l))
	return l
}

func layerIDs(layers []*entity.ValuationLayer) []int64 {
	out := make([]int64, 0, len(layers))
	for _, l := range layers {
		out = append(out, l.ID)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Cola FIFO
// ─────────────────────────────────────────────────────────────────────────────

func (s *RepositoryIntegrationSuite) TestFIFOQueue_OrdenCreatedAtLuegoID() {
	late := s.layer("A", "5", "5", "120", itT0.Add(time.Hour))
	first := s.layer("A", "5", "5", "100", itT0)
	second := s.layer("A", "5", "2", "110", itT0)
	s.layer("A", "5", "0", "90", itT0.Add(-time.Hour))  // agotada
	s.layer("A", "-3", "0", "100", itT0.Add(-time.Hour)) // salida
	s.layer("B", "5", "5", "80", itT0.Add(-time.Hour))  // otra bodega

	for _, forUpdate := range []bool{false, true} {
		var queue []*entity.ValuationLayer
		err := s.tx.Run(s.ctx, func(r repository.Repos) error {
			var err error
			queue, err = r.Layers.FIFOQueue(s.ctx, itCompany, "p1", "A", 0, forUpdate)
			return err
		})
		s.Require().NoError(err)
		s.Equal([]int64{first.ID, second.ID, late.ID}, layerIDs(queue), "forUpdate=%v", forUpdate)
		s.True(queue[1].RemainingValue.Equal(dec("220")))
	}

	var limited []*entity.ValuationLayer
	s.Require().NoError(s.tx.Run(s.ctx, func(r repository.Repos) error {
		var err error
		limited, err = r.Layers.FIFOQueue(s.ctx, itCompany, "p1", "A", 2, true)
		return err
	}))
	s.Equal([]int64{first.ID, second.ID}, layerIDs(limited))
}

func (s *RepositoryIntegrationSuite) TestFIFOQueue_ColaTomadaDevuelveLockTimeout() {
	s.layer("A", "5", "5", "100", itT0)

	locked, release := make(chan struct{}), make(chan struct{})
	holder := make(chan error, 1)
	go func() {
		holder <- s.tx.Run(s.ctx, func(r repository.Repos) error {
			if _, err := r.Layers.FIFOQueue(s.ctx, itCompany, "p1", "A", 0, true); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	select {
	case <-locked:
	case err := <-holder:
		s.FailNow("la transacción que toma la cola terminó antes de tiempo", "%v", err)
	}

	err := s.tx.Run(s.ctx, func(r repository.Repos) error {
		_, err := r.Layers.FIFOQueue(s.ctx, itCompany, "p1", "A", 0, true)
		return err
	})
	s.ErrorIs(err, domain.ErrLockTimeout)

	close(release)
	s.NoError(<-holder)
}

// ─────────────────────────────────────────────────────────────────────────────
// Costo en destino por bodega
// ─────────────────────────────────────────────────────────────────────────────

func (s *RepositoryIntegrationSuite) TestLandedCostListByWarehouse_SoloCapasDeEntradaConValor() {
	in := s.layer("A", "10", "10", "100", itT0)
	out := s.layer("A", "-2", "0", "100", itT0.Add(time.Hour))
	inB := s.layer("B", "10", "10", "100", itT0)

	repo := NewLandedCostRepository(s.pool)
	alloc := func(layer *entity.ValuationLayer, value string, at time.Time) *entity.LandedCostAllocation {
		a := &entity.LandedCostAllocation{
			CompanyID: itCompany, ValuationLayerID: layer.ID, ProductID: "p1", WarehouseID: layer.WarehouseID,
			LandedCostValue: dec(value), Quantity: layer.Quantity, CreatedAt: at,
		}
		s.Require().NoError(repo.Create(s.ctx, a))
		return a
	}
	newer := alloc(in, "50", itT0.Add(2*time.Hour))
	older := alloc(in, "30", itT0.Add(time.Hour))
	// Excluidas: sin valor, sobre capa negativa y de otra bodega.
	alloc(in, "0", itT0)
	alloc(out, "20", itT0)
	alloc(inB, "70", itT0.Add(-time.Hour))

	for _, forUpdate := range []bool{false, true} {
		var list []*entity.LandedCostAllocation
		s.Require().NoError(s.tx.Run(s.ctx, func(r repository.Repos) error {
			var err error
			list, err = r.LandedCosts.ListByWarehouse(s.ctx, itCompany, "p1", "A", forUpdate)
			return err
		}))
		s.Require().Len(list, 2, "forUpdate=%v", forUpdate)
		s.Equal(older.ID, list[0].ID)
		s.Equal(newer.ID, list[1].ID)
		s.True(list[0].LandedCostValue.Equal(dec("30")))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Respaldo
// ─────────────────────────────────────────────────────────────────────────────

func (s *RepositoryIntegrationSuite) TestBackupLines_CopyFallaEnBloqueYLineaPorLineaGuardaLasValidas() {
	backup := &entity.RecalculationBackup{
		ID: "bk-1", CompanyID: itCompany, RunID: "run-1",
		DateFrom: itT0, DateTo: itT0.Add(24 * time.Hour),
		State: entity.BackupStateActive, CreatedAt: itT0, ExpiresAt: itT0.Add(30 * 24 * time.Hour),
	}
	s.Require().NoError(s.tx.Run(s.ctx, func(r repository.Repos) error { return r.Backups.Create(s.ctx, backup) }))

	line := func(layerID int64, value string) *entity.BackupLine {
		return &entity.BackupLine{
			BackupID: backup.ID, LayerID: layerID, ProductID: "p1", WarehouseID: "A",
			Quantity: dec("1"), UnitCost: dec("1"), Value: dec(value),
			RemainingQty: dec("1"), RemainingValue: dec("1"),
			SourceMoveID: "m1", LayerCreatedAt: itT0, InDeletionScope: true,
		}
	}
	// NUMERIC(20,2) admite 18 dígitos enteros; la segunda línea desborda.
	lines := []*entity.BackupLine{line(1, "10"), line(2, "1000000000000000000"), line(3, "30")}

	err := s.tx.Run(s.ctx, func(r repository.Repos) error { return r.Backups.CreateLines(s.ctx, lines) })
	s.Require().Error(err)
	s.Empty(s.backupLines(backup.ID), "COPY no deja líneas parciales")

	failed := 0
	for _, l := range lines {
		l := l
		if err := s.tx.Run(s.ctx, func(r repository.Repos) error { return r.Backups.CreateLine(s.ctx, l) }); err != nil {
			failed++
		}
	}
	s.Equal(1, failed)
	saved := s.backupLines(backup.ID)
	s.Require().Len(saved, 2)
	s.Equal(int64(1), saved[0].LayerID)
	s.Equal(int64(3), saved[1].LayerID)
	s.True(saved[1].Value.Equal(dec("30")))
}

func (s *RepositoryIntegrationSuite) backupLines(backupID string) []*entity.BackupLine {
	var list []*entity.BackupLine
	s.Require().NoError(s.tx.Run(s.ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Backups.ListLines(s.ctx, backupID)
		return err
	}))
	return list
}
