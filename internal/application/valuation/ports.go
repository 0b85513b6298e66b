package valuation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Repos) error) error
}

// CostSource fuente de costo unitario para entradas. ok=false si no tiene información.
type CostSource interface {
	UnitCost(ctx context.Context, move *entity.Move, product *entity.Product) (decimal.Decimal, bool)
}

// Recorder métricas del posteo de valoración.
type Recorder interface {
	LayerCreated(kind string)
	Shortage(policy string)
}

type nopRecorder struct{}

func (nopRecorder) LayerCreated(string) {}
func (nopRecorder) Shortage(string)     {}
