package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrInsufficientFIFO = errors.New("cantidad insuficiente en la cola FIFO")
	ErrMissingWarehouse = errors.New("la ubicación no pertenece a ninguna bodega")
	ErrMissingCost      = errors.New("no hay costo disponible para valorar el movimiento")
	ErrInvalidBatchSize = errors.New("el tamaño de lote debe estar entre 1 y 1000")
	ErrInvalidState     = errors.New("operación no permitida en el estado actual")
	ErrDryRun           = errors.New("la ejecución está marcada como simulación; desactive dry_run para aplicar")
	ErrBackupNotActive  = errors.New("el respaldo no está activo")
	ErrRunInProgress    = errors.New("la recalculación ya se está procesando")
	ErrLocked           = errors.New("la capa de valoración está bloqueada")
	ErrLockTimeout      = errors.New("la cola FIFO está tomada por otra transacción; reintente")
	ErrConcurrentUpdate = errors.New("modificación concurrente; se agotaron los reintentos")
)

// ShortageError describe una cola FIFO que no alcanza a cubrir la cantidad pedida.
// errors.Is(err, ErrInsufficientFIFO) es verdadero.
type ShortageError struct {
	ProductID   string
	WarehouseID string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("%s: product_id=%s warehouse_id=%s solicitado=%s disponible=%s",
		ErrInsufficientFIFO.Error(), e.ProductID, e.WarehouseID, e.Requested.String(), e.Available.String())
}

// Missing cantidad que falta para cubrir la solicitud.
func (e *ShortageError) Missing() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

func (e *ShortageError) Unwrap() error { return ErrInsufficientFIFO }
