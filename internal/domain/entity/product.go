package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto valorado por FIFO (modelo de lectura del catálogo).
// StandardPrice es el costo de respaldo cuando la cola está vacía; nunca se valora en cero si existe.
type Product struct {
	ID            string
	CompanyID     string
	CategoryID    string
	SKU           string
	Name          string
	StandardPrice decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
