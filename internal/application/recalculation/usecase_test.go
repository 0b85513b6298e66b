package recalculation_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/application/ports"
	"github.com/jhoicas/fifo-valuation-api/internal/application/recalculation"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/memory"
)

const company = "c1"

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), append([]interface{}{"esperado %s, obtenido %s", want, got.String()}, msgAndArgs...)...)
}

type fakeExporter struct{ calls int }

func (e *fakeExporter) ExportPreview(_ context.Context, run *entity.RecalculationRun) ([]byte, error) {
	e.calls++
	return []byte("xlsx:" + run.ID), nil
}
func (e *fakeExporter) ContentType() string { return "application/vnd.test" }
func (e *fakeExporter) FileName(run *entity.RecalculationRun) string {
	return "recalculo_" + run.ID + ".xlsx"
}

type fakeNotifier struct{ sent []ports.Notification }

func (n *fakeNotifier) Notify(_ context.Context, msg ports.Notification) error {
	n.sent = append(n.sent, msg)
	return nil
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	store    *memory.Store
	moves    *valuation.MoveUseCase
	query    *valuation.QueryUseCase
	params   *valuation.ConfigParamUseCase
	recal    *recalculation.UseCase
	schedule *recalculation.ScheduleUseCase
	exporter *fakeExporter
	notifier *fakeNotifier
	seq      int
	day      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	settings := valuation.DefaultSettings()
	fifo := valuation.NewFIFOService(settings, nil, nil)
	allocator := valuation.NewLandedCostAllocator(settings.Precision, nil)
	returns := valuation.NewReturnResolver(fifo, nil)
	svc := valuation.NewMoveValuationService(settings, fifo, allocator, returns, nil, nil, nil)
	backups := recalculation.NewBackupService(store, 0, nil, nil)
	exporter, notifier := &fakeExporter{}, &fakeNotifier{}
	recal := recalculation.NewUseCase(store, svc, backups, exporter, nil, nil, recalculation.DefaultSettings(), nil)

	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		store:    store,
		moves:    valuation.NewMoveUseCase(store, svc, nil),
		query:    valuation.NewQueryUseCase(store, fifo, allocator),
		params:   valuation.NewConfigParamUseCase(store, settings),
		recal:    recal,
		schedule: recalculation.NewScheduleUseCase(store, recal, exporter, notifier, nil),
		exporter: exporter,
		notifier: notifier,
		day:      time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Run(f.ctx, func(r repository.Repos) error {
		for _, wh := range []string{"A", "B"} {
			if err := r.Warehouses.Upsert(f.ctx, &entity.Warehouse{ID: wh, CompanyID: company, Code: wh, Name: "Bodega " + wh}); err != nil {
				return err
			}
		}
		locs := []entity.Location{
			{ID: "sup", Usage: entity.LocationUsageSupplier, Name: "Proveedores"},
			{ID: "cust", Usage: entity.LocationUsageCustomer, Name: "Clientes"},
			{ID: "a-stock", Usage: entity.LocationUsageInternal, WarehouseID: "A", Name: "A/Stock"},
			{ID: "b-stock", Usage: entity.LocationUsageInternal, WarehouseID: "B", Name: "B/Stock"},
			{ID: "limbo", Usage: entity.LocationUsageInternal, Name: "Sin bodega"},
		}
		for i := range locs {
			locs[i].CompanyID = company
			if err := r.Locations.Upsert(f.ctx, &locs[i]); err != nil {
				return err
			}
		}
		for _, p := range []entity.Product{
			{ID: "p1", CompanyID: company, CategoryID: "cat1", SKU: "P1", Name: "Producto 1", StandardPrice: d("100")},
			{ID: "p2", CompanyID: company, CategoryID: "cat2", SKU: "P2", Name: "Producto 2", StandardPrice: d("75")},
		} {
			p := p
			if err := r.Products.Upsert(f.ctx, &p); err != nil {
				return err
			}
		}
		return nil
	}))
	return f
}

// postAt valora un movimiento con fecha explícita y devuelve su ID.
func (f *fixture) postAt(at time.Time, product, src, dst, qty, price string) string {
	f.t.Helper()
	f.seq++
	id := fmt.Sprintf("m%03d", f.seq)
	_, err := f.moves.Post(f.ctx, company, dto.MoveRequest{
		ID:                    id,
		ProductID:             product,
		SourceLocationID:      src,
		DestinationLocationID: dst,
		Quantity:              d(qty),
		State:                 entity.MoveStateDone,
		PriceUnit:             d(price),
		Date:                  at,
	})
	require.NoError(f.t, err)
	return id
}

func (f *fixture) post(product, src, dst, qty, price string) string {
	return f.postAt(f.day.Add(time.Duration(f.seq+1)*time.Hour), product, src, dst, qty, price)
}

func (f *fixture) valuation(product, wh string) *dto.WarehouseValuationResponse {
	f.t.Helper()
	v, err := f.query.Valuation(f.ctx, company, product, wh)
	require.NoError(f.t, err)
	return v
}

func (f *fixture) layersOf(moveID string) []dto.LayerResponse {
	f.t.Helper()
	ls, err := f.moves.Layers(f.ctx, company, moveID)
	require.NoError(f.t, err)
	return ls
}

func (f *fixture) runLayers(runID string) []*entity.ValuationLayer {
	f.t.Helper()
	var out []*entity.ValuationLayer
	require.NoError(f.t, f.store.Run(f.ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Layers.List(f.ctx, repository.LayerFilter{CompanyID: company, RunID: runID, IncludeLocked: true})
		return err
	}))
	return out
}

func (f *fixture) marzo(strategy string) dto.CreateRecalculationRequest {
	dry := false
	return dto.CreateRecalculationRequest{
		DateFrom:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:           time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
		DeletionStrategy: strategy,
		DryRun:           &dry,
	}
}

func (f *fixture) create(in dto.CreateRecalculationRequest) *recalculation.RunDetail {
	f.t.Helper()
	run, err := f.recal.Create(f.ctx, company, "u1", in)
	require.NoError(f.t, err)
	return run
}

func (f *fixture) preview(in dto.CreateRecalculationRequest) *recalculation.RunDetail {
	f.t.Helper()
	run := f.create(in)
	out, err := f.recal.Preview(f.ctx, company, run.Run.ID)
	require.NoError(f.t, err)
	return out
}

func (f *fixture) apply(in dto.CreateRecalculationRequest) *recalculation.RunDetail {
	f.t.Helper()
	run := f.preview(in)
	out, err := f.recal.Apply(f.ctx, company, run.Run.ID)
	require.NoError(f.t, err)
	return out
}

func line(t *testing.T, run *entity.RecalculationRun, product, wh string) entity.PreviewLine {
	t.Helper()
	for _, l := range run.PreviewLines {
		if l.ProductID == product && l.WarehouseID == wh {
			return l
		}
	}
	t.Fatalf("sin línea para %s/%s", product, wh)
	return entity.PreviewLine{}
}

func logContains(run *entity.RecalculationRun, s string) bool {
	for _, l := range run.Log {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// historial: dos entradas en A, una venta y un traslado A→B.
// A queda 2 u / 40, B 3 u / 60.
func (f *fixture) historial() {
	f.post("p1", "sup", "a-stock", "10", "10")
	f.post("p1", "sup", "a-stock", "10", "20")
	f.post("p1", "a-stock", "cust", "15", "")
	f.post("p1", "a-stock", "b-stock", "3", "")
}

// ─────────────────────────────────────────────────────────────────────────────
// Previsualización
// ─────────────────────────────────────────────────────────────────────────────

func TestPreview_SinCambiosDiferenciaCero(t *testing.T) {
	f := newFixture(t)
	f.historial()

	run := f.preview(f.marzo(entity.DeleteStrategyAllProduct)).Run
	assert.Equal(t, entity.RecalStatePreview, run.State)
	require.Len(t, run.PreviewLines, 2)

	a := line(t, run, "p1", "A")
	assertDec(t, "2", a.QtyBefore)
	assertDec(t, "40", a.ValueBefore)
	assertDec(t, "2", a.QtyAfter)
	assertDec(t, "40", a.ValueAfter)
	assertDec(t, "0", a.ValueDiff)
	assert.Equal(t, 4, a.MoveCount)
	assert.Equal(t, "Producto 1", a.ProductName)
	assert.Equal(t, "Bodega A", a.WarehouseName)

	b := line(t, run, "p1", "B")
	assertDec(t, "3", b.QtyAfter)
	assertDec(t, "60", b.ValueAfter)
	assert.Equal(t, 1, b.MoveCount)

	assertDec(t, "0", run.Totals().ValueDiff)
	// la previsualización no toca capas
	assertDec(t, "40", f.valuation("p1", "A").Value)
}

func TestPreview_CorreccionDePrecio(t *testing.T) {
	f := newFixture(t)
	m1 := f.post("p1", "sup", "a-stock", "10", "10")
	f.post("p1", "a-stock", "cust", "4", "")
	require.NoError(t, f.store.Run(f.ctx, func(r repository.Repos) error {
		m, err := r.Moves.GetByID(f.ctx, m1)
		if err != nil {
			return err
		}
		m.PriceUnit = d("12")
		return r.Moves.Upsert(f.ctx, m)
	}))

	run := f.preview(f.marzo(entity.DeleteStrategyAllProduct)).Run
	a := line(t, run, "p1", "A")
	assertDec(t, "60", a.ValueBefore)
	assertDec(t, "72", a.ValueAfter)
	assertDec(t, "0", a.QtyDiff)
	assertDec(t, "12", a.ValueDiff)

	applied, err := f.recal.Apply(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RecalStateDone, applied.Run.State)
	v := f.valuation("p1", "A")
	assertDec(t, "6", v.Quantity)
	assertDec(t, "72", v.Value)
	assertDec(t, "-48", f.layersOf("m002")[0].Value)
}

func TestPreview_FaltanteComoAdvertencia(t *testing.T) {
	f := newFixture(t)
	_, err := f.params.Set(f.ctx, entity.ParamShortagePolicy, "fallback")
	require.NoError(t, err)
	f.post("p1", "sup", "a-stock", "5", "10")
	f.post("p1", "a-stock", "cust", "8", "")

	run := f.preview(f.marzo(entity.DeleteStrategyAllProduct)).Run
	a := line(t, run, "p1", "A")
	require.Len(t, a.Warnings, 1)
	assert.Contains(t, a.Warnings[0], "faltante de 3")
	assertDec(t, "0", a.QtyAfter)
	assert.True(t, logContains(run, "faltante de 3"))
}

func TestPreview_MovimientoSinBodegaEnRegistro(t *testing.T) {
	f := newFixture(t)
	_, err := f.params.Set(f.ctx, entity.ParamEnableLocationValidation, "false")
	require.NoError(t, err)
	m := f.post("p1", "sup", "limbo", "3", "10")

	run := f.preview(f.marzo(entity.DeleteStrategyRange)).Run
	assert.Empty(t, run.PreviewLines)
	assert.True(t, logContains(run, m+" sin bodega resoluble"))
}

func TestPreview_FiltroPorCategoria(t *testing.T) {
	f := newFixture(t)
	f.post("p1", "sup", "a-stock", "10", "10")
	f.post("p2", "sup", "a-stock", "10", "10")

	in := f.marzo(entity.DeleteStrategyAllProduct)
	in.CategoryIDs = []string{"cat2"}
	run := f.preview(in).Run
	require.Len(t, run.PreviewLines, 1)
	assert.Equal(t, "p2", run.PreviewLines[0].ProductID)

	in.CategoryIDs = []string{"no-existe"}
	run = f.preview(in).Run
	assert.Empty(t, run.PreviewLines)
}

// ─────────────────────────────────────────────────────────────────────────────
// Aplicación y reversión
// ─────────────────────────────────────────────────────────────────────────────

func TestRecalculacion_IdaYVuelta(t *testing.T) {
	f := newFixture(t)
	f.historial()
	origID := f.layersOf("m001")[0].ID

	applied := f.apply(f.marzo(entity.DeleteStrategyAllProduct))
	run := applied.Run
	assert.Equal(t, entity.RecalStateDone, run.State)
	assert.Equal(t, 100, run.ProgressPercent)
	assert.Equal(t, 5, run.DeletedCount)
	assert.Equal(t, 5, run.CreatedCount)
	assert.Zero(t, run.FailedBatches)
	require.NotNil(t, applied.Backup)
	assert.Equal(t, 5, applied.Backup.LayerCount)
	assert.True(t, applied.CanRollback())

	assert.Len(t, f.runLayers(run.ID), 5)
	assertDec(t, "40", f.valuation("p1", "A").Value)
	assertDec(t, "60", f.valuation("p1", "B").Value)
	assert.NotEqual(t, origID, f.layersOf("m001")[0].ID)

	res, err := f.recal.Rollback(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.RemovedLayers)
	assert.Equal(t, 5, res.Reinserted)
	assert.Empty(t, res.FailedLayers)

	assert.Empty(t, f.runLayers(run.ID))
	assert.Equal(t, origID, f.layersOf("m001")[0].ID)
	a := f.valuation("p1", "A")
	assertDec(t, "2", a.Quantity)
	assertDec(t, "40", a.Value)
	assertDec(t, "60", f.valuation("p1", "B").Value)

	got, err := f.recal.Get(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BackupStateRestored, got.Backup.State)
	assert.NotNil(t, got.Backup.RestoredAt)
	assert.False(t, got.CanRollback())

	_, err = f.recal.Rollback(f.ctx, company, run.ID)
	assert.ErrorIs(t, err, domain.ErrBackupNotActive)
}

func TestRecalculacion_RangoDevuelveConsumoAEntradaAnterior(t *testing.T) {
	f := newFixture(t)
	m1 := f.postAt(time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC), "p1", "sup", "a-stock", "10", "10")
	f.postAt(time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), "p1", "a-stock", "cust", "4", "")
	survivor := f.layersOf(m1)[0].ID

	run := f.apply(f.marzo(entity.DeleteStrategyRange)).Run
	assert.Equal(t, 1, run.DeletedCount)
	assert.Equal(t, 1, run.CreatedCount)
	assert.Equal(t, survivor, f.layersOf(m1)[0].ID)
	v := f.valuation("p1", "A")
	assertDec(t, "6", v.Quantity)
	assertDec(t, "60", v.Value)

	res, err := f.recal.Rollback(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Restored)
	assert.Equal(t, 1, res.Reinserted)
	assert.Equal(t, 1, res.RemovedLayers)
	assertDec(t, "60", f.valuation("p1", "A").Value)
}

func TestRollback_CapaInexistenteSeReporta(t *testing.T) {
	f := newFixture(t)
	m1 := f.postAt(time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC), "p1", "sup", "a-stock", "10", "10")
	f.postAt(time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), "p1", "a-stock", "cust", "4", "")
	survivor := f.layersOf(m1)[0].ID

	run := f.apply(f.marzo(entity.DeleteStrategyRange)).Run
	require.NoError(t, f.store.Run(f.ctx, func(r repository.Repos) error {
		if _, err := r.Usages.DeleteByLayers(f.ctx, []int64{survivor}); err != nil {
			return err
		}
		_, err := r.Layers.Delete(f.ctx, []int64{survivor})
		return err
	}))

	res, err := f.recal.Rollback(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{survivor}, res.FailedLayers)
	assert.Equal(t, 0, res.Restored)
	assert.Equal(t, 1, res.Reinserted)
}

func TestRecalculacion_CapasBloqueadasNoSeBorran(t *testing.T) {
	f := newFixture(t)
	f.historial()

	in := f.marzo(entity.DeleteStrategyAllProduct)
	in.LockAfterRecal = true
	first := f.apply(in).Run
	for _, l := range f.runLayers(first.ID) {
		assert.True(t, l.Locked)
	}

	second := f.preview(f.marzo(entity.DeleteStrategyAllProduct)).Run
	a := line(t, second, "p1", "A")
	assertDec(t, "0", a.ValueDiff)
	assert.Zero(t, a.MoveCount)

	applied, err := f.recal.Apply(f.ctx, company, second.ID)
	require.NoError(t, err)
	assert.Zero(t, applied.Run.DeletedCount)
	assert.Zero(t, applied.Run.CreatedCount)
	assertDec(t, "40", f.valuation("p1", "A").Value)
}

func TestRecalculacion_EstrategiaNoneCompletaCapasFaltantes(t *testing.T) {
	f := newFixture(t)
	f.post("p1", "sup", "a-stock", "10", "10")
	require.NoError(t, f.store.Run(f.ctx, func(r repository.Repos) error {
		return r.Moves.Upsert(f.ctx, &entity.Move{
			ID:                    "sin-capa",
			CompanyID:             company,
			ProductID:             "p1",
			SourceLocationID:      "sup",
			DestinationLocationID: "a-stock",
			Quantity:              d("5"),
			State:                 entity.MoveStateDone,
			PriceUnit:             d("20"),
			Date:                  f.day.Add(5 * time.Hour),
		})
	}))

	run := f.preview(f.marzo(entity.DeleteStrategyNone)).Run
	a := line(t, run, "p1", "A")
	assertDec(t, "10", a.QtyBefore)
	assertDec(t, "15", a.QtyAfter)
	assertDec(t, "200", a.ValueAfter)
	assert.Equal(t, 1, a.MoveCount)

	applied, err := f.recal.Apply(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Zero(t, applied.Run.DeletedCount)
	assert.Equal(t, 1, applied.Run.CreatedCount)
	assertDec(t, "200", f.valuation("p1", "A").Value)
}

func TestRecalculacion_AlcancePorBodegaUsaCapaDeOrigenPersistida(t *testing.T) {
	f := newFixture(t)
	f.post("p1", "sup", "a-stock", "10", "10")
	tr := f.post("p1", "a-stock", "b-stock", "4", "")
	var negID int64
	for _, l := range f.layersOf(tr) {
		if l.WarehouseID == "A" {
			negID = l.ID
		}
	}

	in := f.marzo(entity.DeleteStrategyAllProduct)
	in.WarehouseIDs = []string{"B"}
	run := f.preview(in).Run
	require.Len(t, run.PreviewLines, 1)
	assertDec(t, "40", run.PreviewLines[0].ValueAfter)

	applied, err := f.recal.Apply(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, applied.Run.DeletedCount)
	assert.Equal(t, 1, applied.Run.CreatedCount)
	assertDec(t, "40", f.valuation("p1", "B").Value)
	assertDec(t, "60", f.valuation("p1", "A").Value)

	var ids []int64
	for _, l := range f.layersOf(tr) {
		ids = append(ids, l.ID)
	}
	assert.Contains(t, ids, negID)
}

func TestRecalculacion_LoteFallidoNoDetieneElResto(t *testing.T) {
	f := newFixture(t)
	f.post("p1", "sup", "a-stock", "10", "10")
	p2 := f.post("p2", "sup", "b-stock", "5", "30")
	require.NoError(t, f.store.Run(f.ctx, func(r repository.Repos) error {
		return r.Products.Upsert(f.ctx, &entity.Product{ID: "p2", CompanyID: "otra", Name: "Producto ajeno"})
	}))
	p2Layer := f.layersOf(p2)[0].ID

	in := f.marzo(entity.DeleteStrategyAllProduct)
	in.BatchSize = 1
	run := f.apply(in).Run
	assert.Equal(t, entity.RecalStateDone, run.State)
	assert.Equal(t, 1, run.FailedBatches)
	assert.Equal(t, 1, run.CreatedCount)
	assert.True(t, logContains(run, "lote 2/2 falló"))

	assert.Equal(t, p2Layer, f.layersOf(p2)[0].ID)
	assertDec(t, "150", f.valuation("p2", "B").Value)
	assertDec(t, "100", f.valuation("p1", "A").Value)
}

func TestRespaldo_FallaEnBloqueReintentaPorLinea(t *testing.T) {
	f := newFixture(t)
	f.historial()
	first := f.layersOf("m001")[0].ID
	f.store.Hooks.FailBackupBatch = true
	f.store.Hooks.FailBackupLine = map[int64]bool{first: true}

	applied := f.apply(f.marzo(entity.DeleteStrategyAllProduct))
	assert.Equal(t, entity.RecalStateDone, applied.Run.State)
	require.NotNil(t, applied.Backup)
	assert.Equal(t, 1, applied.Backup.FailedLineCount)
	assert.Equal(t, 4, applied.Backup.LayerCount)
	assert.True(t, logContains(applied.Run, "1 líneas fallidas"))

	res, err := f.recal.Rollback(f.ctx, company, applied.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Reinserted)
}

func TestRespaldo_Vencimiento(t *testing.T) {
	f := newFixture(t)
	f.historial()
	run := f.apply(f.marzo(entity.DeleteStrategyAllProduct)).Run

	n, err := f.recal.ExpireBackups(f.ctx, time.Now().Add(31*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.recal.Get(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BackupStateExpired, got.Backup.State)
	assert.False(t, got.CanRollback())

	_, err = f.recal.Rollback(f.ctx, company, run.ID)
	assert.ErrorIs(t, err, domain.ErrBackupNotActive)

	n, err = f.recal.ExpireBackups(f.ctx, time.Now().Add(31*24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

// ─────────────────────────────────────────────────────────────────────────────
// Validaciones y estados
// ─────────────────────────────────────────────────────────────────────────────

func TestCrear_Validaciones(t *testing.T) {
	f := newFixture(t)

	in := f.marzo(entity.DeleteStrategyRange)
	in.BatchSize = 1001
	_, err := f.recal.Create(f.ctx, company, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidBatchSize)

	in.BatchSize = -1
	_, err = f.recal.Create(f.ctx, company, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidBatchSize)

	in = f.marzo("todo")
	_, err = f.recal.Create(f.ctx, company, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = f.marzo(entity.DeleteStrategyRange)
	in.DateFrom, in.DateTo = in.DateTo, in.DateFrom
	_, err = f.recal.Create(f.ctx, company, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = f.marzo("")
	in.DryRun = nil
	run := f.create(in)
	assert.Equal(t, entity.DeleteStrategyRange, run.Run.Scope.DeletionStrategy)
	assert.Equal(t, entity.DefaultBatchSize, run.Run.Scope.BatchSize)
	assert.True(t, run.Run.DryRun)
	assert.Equal(t, entity.RecalStateDraft, run.Run.State)
}

func TestAplicar_DryRun(t *testing.T) {
	f := newFixture(t)
	f.historial()
	in := f.marzo(entity.DeleteStrategyAllProduct)
	in.DryRun = nil
	run := f.preview(in).Run

	_, err := f.recal.Apply(f.ctx, company, run.ID)
	assert.ErrorIs(t, err, domain.ErrDryRun)
	got, err := f.recal.Get(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RecalStatePreview, got.Run.State)
	assert.Nil(t, got.Backup)

	off := false
	_, err = f.recal.Update(f.ctx, company, run.ID, dto.UpdateRecalculationRequest{DryRun: &off})
	require.NoError(t, err)
	applied, err := f.recal.Apply(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RecalStateDone, applied.Run.State)
}

func TestMaquinaDeEstados(t *testing.T) {
	f := newFixture(t)
	f.historial()

	draft := f.create(f.marzo(entity.DeleteStrategyAllProduct)).Run
	_, err := f.recal.Apply(f.ctx, company, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, _, err = f.recal.Export(f.ctx, company, draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	preview, err := f.recal.Preview(f.ctx, company, draft.ID)
	require.NoError(t, err)
	_, err = f.recal.Rollback(f.ctx, company, preview.Run.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	done, err := f.recal.Apply(f.ctx, company, draft.ID)
	require.NoError(t, err)
	_, err = f.recal.Preview(f.ctx, company, done.Run.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.recal.Apply(f.ctx, company, done.Run.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.recal.Update(f.ctx, company, done.Run.ID, dto.UpdateRecalculationRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.recal.Get(f.ctx, "otra", draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportar(t *testing.T) {
	f := newFixture(t)
	f.historial()
	run := f.preview(f.marzo(entity.DeleteStrategyAllProduct)).Run

	data, name, err := f.recal.Export(f.ctx, company, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "xlsx:"+run.ID, string(data))
	assert.Equal(t, "recalculo_"+run.ID+".xlsx", name)
	assert.Equal(t, "application/vnd.test", f.recal.ContentType())
}

func TestListarYRespaldos(t *testing.T) {
	f := newFixture(t)
	f.historial()
	f.apply(f.marzo(entity.DeleteStrategyAllProduct))
	f.create(f.marzo(entity.DeleteStrategyRange))

	runs, err := f.recal.List(f.ctx, company, 10, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	backups, err := f.recal.Backups(f.ctx, company)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, entity.BackupStateActive, backups[0].State)

	res, err := f.recal.RestoreBackup(f.ctx, company, backups[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Reinserted)
	_, err = f.recal.RestoreBackup(f.ctx, "otra", backups[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
