// Package metrics métricas Prometheus del servicio de valoración.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/fifo-valuation-api/internal/application/recalculation"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
)

const namespace = "fifo"

var (
	_ valuation.Recorder     = (*Metrics)(nil)
	_ recalculation.Recorder = (*Metrics)(nil)
)

// Metrics agrupa los colectores con un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LayersCreated *prometheus.CounterVec
	Shortages     *prometheus.CounterVec

	RecalRuns        *prometheus.CounterVec
	RecalRunDuration prometheus.Histogram
	RecalBatches     *prometheus.CounterVec
	BackupsRestored  prometheus.Counter

	MoveEventsConsumed *prometheus.CounterVec
}

// New registra los colectores, incluidos los de Go y del proceso.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP en segundos",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
	m.LayersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "valuation_layers_created_total",
			Help:      "Capas de valoración creadas por tipo de movimiento",
		},
		[]string{"kind"},
	)
	m.Shortages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fifo_shortages_total",
			Help:      "Faltantes en la cola FIFO por política aplicada",
		},
		[]string{"policy"},
	)
	m.RecalRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recalculation_runs_total",
			Help:      "Recalculaciones aplicadas por estado final",
		},
		[]string{"state"},
	)
	m.RecalRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recalculation_run_duration_seconds",
			Help:      "Duración de la aplicación de una recalculación",
			Buckets:   []float64{.1, .5, 1, 5, 15, 60, 300, 900, 1800},
		},
	)
	m.RecalBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recalculation_batches_total",
			Help:      "Lotes de recalculación por resultado",
		},
		[]string{"result"},
	)
	m.BackupsRestored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recalculation_backups_restored_total",
			Help:      "Respaldos restaurados",
		},
	)
	m.MoveEventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "move_events_consumed_total",
			Help:      "Eventos de movimientos consumidos del feed por resultado",
		},
		[]string{"status"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.LayersCreated, m.Shortages,
		m.RecalRuns, m.RecalRunDuration, m.RecalBatches, m.BackupsRestored,
		m.MoveEventsConsumed,
	)
	return m
}

// Registry registro de los colectores (pruebas y exposición).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler expone las métricas en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LayerCreated implementa valuation.Recorder.
func (m *Metrics) LayerCreated(kind string) { m.LayersCreated.WithLabelValues(kind).Inc() }

// Shortage implementa valuation.Recorder.
func (m *Metrics) Shortage(policy string) { m.Shortages.WithLabelValues(policy).Inc() }

// RunFinished implementa recalculation.Recorder.
func (m *Metrics) RunFinished(state string, elapsed time.Duration) {
	m.RecalRuns.WithLabelValues(state).Inc()
	m.RecalRunDuration.Observe(elapsed.Seconds())
}

// BatchFinished implementa recalculation.Recorder.
func (m *Metrics) BatchFinished(failed bool) {
	result := "ok"
	if failed {
		result = "failed"
	}
	m.RecalBatches.WithLabelValues(result).Inc()
}

// BackupRestored implementa recalculation.Recorder.
func (m *Metrics) BackupRestored() { m.BackupsRestored.Inc() }

// EventConsumed cuenta un evento del feed de movimientos (ok, skipped, failed).
func (m *Metrics) EventConsumed(status string) { m.MoveEventsConsumed.WithLabelValues(status).Inc() }

// Middleware mide las peticiones HTTP usando la ruta registrada (no la URL) como etiqueta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
