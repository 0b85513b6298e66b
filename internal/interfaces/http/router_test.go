package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/application/recalculation"
	"github.com/jhoicas/fifo-valuation-api/internal/application/usecase"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/excel"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/memory"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/fifo-valuation-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre el almacenamiento en memoria
// ──────────────────────────────────────────────────────────────────────────────

type reloadCounter struct{ calls int }

func (r *reloadCounter) Reload(context.Context) error {
	r.calls++
	return nil
}

type apiFixture struct {
	t        *testing.T
	app      *fiber.App
	reloader *reloadCounter
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	settings := valuation.DefaultSettings()
	m := metrics.New()
	fifo := valuation.NewFIFOService(settings, m, nil)
	allocator := valuation.NewLandedCostAllocator(settings.Precision, nil)
	returns := valuation.NewReturnResolver(fifo, nil)
	svc := valuation.NewMoveValuationService(settings, fifo, allocator, returns, nil, nil, nil)
	backups := recalculation.NewBackupService(store, 0, m, nil)
	exporter := excel.NewPreviewExporter()
	recal := recalculation.NewUseCase(store, svc, backups, exporter, nil, m, recalculation.DefaultSettings(), nil)
	reloader := &reloadCounter{}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		MoveUC:        valuation.NewMoveUseCase(store, svc, nil),
		QueryUC:       valuation.NewQueryUseCase(store, fifo, allocator),
		LandedCostUC:  valuation.NewLandedCostUseCase(store, allocator, nil),
		ConfigParamUC: valuation.NewConfigParamUseCase(store, settings),
		RecalUC:       recal,
		ScheduleUC:    recalculation.NewScheduleUseCase(store, recal, exporter, nil, nil),
		CatalogUC:     usecase.NewCatalogUseCase(store),
		Reloader:      reloader,
		Metrics:       m.Handler(),
		JWTSecret:     testJWTSecret,
		JWTIssuer:     testIssuer,
	})

	ctx := context.Background()
	require.NoError(t, store.Run(ctx, func(r repository.Repos) error {
		for _, wh := range []string{"A", "B"} {
			if err := r.Warehouses.Upsert(ctx, &entity.Warehouse{ID: wh, CompanyID: testCompanyID, Code: wh, Name: "Bodega " + wh}); err != nil {
				return err
			}
		}
		for _, l := range []entity.Location{
			{ID: "sup", Usage: entity.LocationUsageSupplier, Name: "Proveedores"},
			{ID: "cust", Usage: entity.LocationUsageCustomer, Name: "Clientes"},
			{ID: "a-stock", Usage: entity.LocationUsageInternal, WarehouseID: "A", Name: "A/Stock"},
			{ID: "b-stock", Usage: entity.LocationUsageInternal, WarehouseID: "B", Name: "B/Stock"},
		} {
			l := l
			l.CompanyID = testCompanyID
			if err := r.Locations.Upsert(ctx, &l); err != nil {
				return err
			}
		}
		return r.Products.Upsert(ctx, &entity.Product{ID: "p1", CompanyID: testCompanyID, SKU: "P1", Name: "Producto 1", StandardPrice: decimal.NewFromInt(100)})
	}))
	return &apiFixture{t: t, app: app, reloader: reloader}
}

func (f *apiFixture) do(method, path, role string, body interface{}) *http.Response {
	f.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(f.t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func move(id, src, dst, qty, price, date string) map[string]interface{} {
	return map[string]interface{}{
		"id":                      id,
		"product_id":              "p1",
		"source_location_id":      src,
		"destination_location_id": dst,
		"quantity":                qty,
		"price_unit":              price,
		"state":                   "done",
		"date":                    date,
	}
}

// historial: A queda con 2 u / 40 y B con 3 u / 60.
func (f *apiFixture) historial() {
	f.t.Helper()
	for _, m := range []map[string]interface{}{
		move("m1", "sup", "a-stock", "10", "10", "2026-03-01T08:00:00Z"),
		move("m2", "sup", "a-stock", "10", "20", "2026-03-02T08:00:00Z"),
		move("m3", "a-stock", "cust", "15", "0", "2026-03-03T08:00:00Z"),
		move("m4", "a-stock", "b-stock", "3", "0", "2026-03-04T08:00:00Z"),
	} {
		resp := f.do(http.MethodPost, "/api/valuation/moves", "bodeguero", m)
		require.Equal(f.t, http.StatusOK, resp.StatusCode, m["id"])
		resp.Body.Close()
	}
}

func (f *apiFixture) balance(warehouse string) dto.WarehouseValuationResponse {
	f.t.Helper()
	resp := f.do(http.MethodGet, "/api/valuation/balance?product_id=p1&warehouse_id="+warehouse, "bodeguero", nil)
	require.Equal(f.t, http.StatusOK, resp.StatusCode)
	var out dto.WarehouseValuationResponse
	decode(f.t, resp, &out)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Valoración
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_MovimientosYConsultas(t *testing.T) {
	f := newAPI(t)
	f.historial()

	a, b := f.balance("A"), f.balance("B")
	assert.True(t, a.Value.Equal(decimal.NewFromInt(40)), a.Value.String())
	assert.True(t, b.Value.Equal(decimal.NewFromInt(60)), b.Value.String())

	resp := f.do(http.MethodGet, "/api/valuation/fifo-cost?product_id=p1&warehouse_id=A&quantity=1", "contador", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cost dto.FIFOCostResponse
	decode(t, resp, &cost)
	assert.True(t, cost.Cost.Equal(decimal.NewFromInt(20)), cost.Cost.String())

	resp = f.do(http.MethodGet, "/api/valuation/moves/m4/layers", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var layers []dto.LayerResponse
	decode(t, resp, &layers)
	require.Len(t, layers, 2)
	assert.True(t, layers[0].Value.Abs().Equal(layers[1].Value))
}

func TestAPI_FaltanteDevuelve409ConAlcance(t *testing.T) {
	f := newAPI(t)
	f.historial()

	resp := f.do(http.MethodPost, "/api/valuation/moves", "bodeguero", move("m5", "a-stock", "cust", "5", "0", "2026-03-05T08:00:00Z"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var body dto.ShortageErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "FIFO_SHORTAGE", body.Code)
	assert.Equal(t, "p1", body.ProductID)
	assert.Equal(t, "A", body.WarehouseID)
	assert.True(t, body.Missing.Equal(decimal.NewFromInt(3)), body.Missing.String())

	resp = f.do(http.MethodGet, "/api/valuation/suggest-transfer?product_id=p1&warehouse_id=A&quantity=5", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sug dto.TransferSuggestionResponse
	decode(t, resp, &sug)
	assert.Equal(t, "B", sug.SourceWarehouseID)
	assert.True(t, sug.CoversShortage)
}

func TestAPI_ValidacionDeEntrada(t *testing.T) {
	f := newAPI(t)

	resp := f.do(http.MethodPost, "/api/valuation/moves", "bodeguero", map[string]interface{}{"id": "m1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "VALIDATION", e.Code)

	resp = f.do(http.MethodGet, "/api/valuation/fifo-cost?product_id=p1&warehouse_id=A&quantity=abc", "bodeguero", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(http.MethodGet, "/api/valuation/queue?product_id=p1", "bodeguero", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ParametrosDeValoracion(t *testing.T) {
	f := newAPI(t)

	resp := f.do(http.MethodGet, "/api/valuation/config/fifo.shortage_policy", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p dto.ConfigParamResponse
	decode(t, resp, &p)
	assert.Equal(t, "error", p.Value)

	resp = f.do(http.MethodPut, "/api/valuation/config/fifo.shortage_policy", "bodeguero", dto.ConfigParamRequest{Value: "fallback"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(http.MethodPut, "/api/valuation/config/fifo.shortage_policy", "admin", dto.ConfigParamRequest{Value: "fallback"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &p)
	assert.Equal(t, "fallback", p.Value)

	resp = f.do(http.MethodGet, "/api/valuation/config/fifo.desconocido", "admin", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Recalculación
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_RecalculacionCompleta(t *testing.T) {
	f := newAPI(t)
	f.historial()

	create := map[string]interface{}{
		"date_from":         "2026-03-01T00:00:00Z",
		"date_to":           "2026-03-31T23:59:59Z",
		"deletion_strategy": "all_product_layers",
		"dry_run":           false,
	}
	resp := f.do(http.MethodPost, "/api/recalculations", "bodeguero", create)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(http.MethodPost, "/api/recalculations", "contador", create)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var run dto.RecalculationResponse
	decode(t, resp, &run)
	assert.Equal(t, "draft", run.State)
	id := run.ID

	resp = f.do(http.MethodPost, "/api/recalculations/"+id+"/preview", "contador", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &run)
	assert.Equal(t, "preview", run.State)
	require.NotNil(t, run.Totals)
	assert.True(t, run.Totals.ValueDiff.IsZero(), run.Totals.ValueDiff.String())

	resp = f.do(http.MethodGet, "/api/recalculations/"+id+"/export", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "recalculo_"+id+".xlsx")
	resp.Body.Close()

	resp = f.do(http.MethodPost, "/api/recalculations/"+id+"/apply", "contador", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &run)
	assert.Equal(t, "done", run.State)
	assert.True(t, run.CanRollback)
	assert.True(t, f.balance("A").Value.Equal(decimal.NewFromInt(40)))

	resp = f.do(http.MethodPost, "/api/recalculations/"+id+"/apply", "contador", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(http.MethodGet, "/api/recalculations/backups", "contador", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var backups []dto.BackupResponse
	decode(t, resp, &backups)
	require.Len(t, backups, 1)
	assert.Equal(t, id, backups[0].RunID)

	resp = f.do(http.MethodPost, "/api/recalculations/"+id+"/rollback", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var restored dto.RestoreResponse
	decode(t, resp, &restored)
	assert.Equal(t, 5, restored.Reinserted)
	assert.Empty(t, restored.Failed)

	resp = f.do(http.MethodPost, "/api/recalculations/"+id+"/rollback", "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "BACKUP_NOT_ACTIVE", e.Code)
}

func TestAPI_RecalculacionDryRunNoSeAplica(t *testing.T) {
	f := newAPI(t)
	f.historial()

	resp := f.do(http.MethodPost, "/api/recalculations", "contador", map[string]interface{}{
		"date_from": "2026-03-01T00:00:00Z",
		"date_to":   "2026-03-31T23:59:59Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var run dto.RecalculationResponse
	decode(t, resp, &run)
	assert.True(t, run.DryRun)

	resp = f.do(http.MethodPost, "/api/recalculations/"+run.ID+"/preview", "contador", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(http.MethodPost, "/api/recalculations/"+run.ID+"/apply", "contador", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "DRY_RUN", e.Code)

	resp = f.do(http.MethodGet, "/api/recalculations/otra", "contador", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ConfiguracionesProgramadas(t *testing.T) {
	f := newAPI(t)

	resp := f.do(http.MethodPost, "/api/recalculation-configs", "contador", map[string]interface{}{
		"name":            "Mensual",
		"is_default":      true,
		"cron":            "0 2 1 * *",
		"date_range_days": 30,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cfg dto.RecalculationConfigResponse
	decode(t, resp, &cfg)
	assert.True(t, cfg.IsDefault)
	assert.Equal(t, 1, f.reloader.calls)

	resp = f.do(http.MethodGet, "/api/recalculation-configs", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.RecalculationConfigResponse
	decode(t, resp, &list)
	require.Len(t, list, 1)

	resp = f.do(http.MethodPost, "/api/recalculation-configs/default/run", "contador", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var run dto.RecalculationResponse
	decode(t, resp, &run)
	assert.Equal(t, cfg.ID, run.ConfigID)
	assert.Equal(t, "preview", run.State)

	resp = f.do(http.MethodPost, "/api/recalculation-configs", "contador", map[string]interface{}{
		"name": "Mala",
		"cron": "cada lunes",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo, roles y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CatalogoSoloAdminEscribe(t *testing.T) {
	f := newAPI(t)

	body := dto.UpsertWarehouseRequest{ID: "C", Code: "C", Name: "Bodega C"}
	resp := f.do(http.MethodPost, "/api/warehouses", "bodeguero", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(http.MethodPost, "/api/warehouses", "admin", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(http.MethodGet, "/api/warehouses", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.WarehouseResponse
	decode(t, resp, &list)
	assert.Len(t, list, 3)

	resp = f.do(http.MethodGet, "/api/products/p1", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p dto.ProductResponse
	decode(t, resp, &p)
	assert.Equal(t, "P1", p.SKU)
}

func TestAPI_SinTokenRetorna401(t *testing.T) {
	f := newAPI(t)
	resp := f.do(http.MethodGet, "/api/warehouses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_Metricas(t *testing.T) {
	f := newAPI(t)
	f.historial()

	resp := f.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(raw), "fifo_valuation_layers_created_total")
}
