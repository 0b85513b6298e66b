package ports

import (
	"context"
	"time"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

// PreviewExporter genera el archivo de la previsualización de una recalculación (XLSX).
// La capa de aplicación solo conoce este contrato; el adaptador vive en infraestructura.
type PreviewExporter interface {
	ExportPreview(ctx context.Context, run *entity.RecalculationRun) ([]byte, error)
	// ContentType tipo MIME del archivo generado.
	ContentType() string
	// FileName nombre sugerido para la descarga.
	FileName(run *entity.RecalculationRun) string
}

// Notification correo con adjunto opcional.
type Notification struct {
	To             []string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Notifier puerto de salida para avisos de recalculaciones programadas.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// RunLocker candado distribuido por ejecución. Acquire devuelve domain.ErrRunInProgress si
// otro proceso ya tiene la llave; release libera el candado.
type RunLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
