// Package recalculation reconstruye las capas FIFO de un alcance: previsualización en memoria,
// aplicación por lotes con respaldo previo y restauración.
package recalculation

import (
	"time"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

// Settings valores por defecto de la herramienta.
type Settings struct {
	DefaultBatchSize int
	BackupRetention  time.Duration
	// LockTTL vida del candado por ejecución mientras se aplica.
	LockTTL time.Duration
}

// DefaultSettings lote de 100, respaldos por 30 días, candado de 30 minutos.
func DefaultSettings() Settings {
	return Settings{
		DefaultBatchSize: entity.DefaultBatchSize,
		BackupRetention:  30 * 24 * time.Hour,
		LockTTL:          30 * time.Minute,
	}
}

// Recorder métricas de la recalculación.
type Recorder interface {
	RunFinished(state string, elapsed time.Duration)
	BatchFinished(failed bool)
	BackupRestored()
}

type nopRecorder struct{}

func (nopRecorder) RunFinished(string, time.Duration) {}
func (nopRecorder) BatchFinished(bool)                {}
func (nopRecorder) BackupRestored()                   {}
