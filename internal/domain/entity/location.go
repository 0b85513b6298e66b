package entity

import "time"

// Usos de ubicación.
const (
	LocationUsageSupplier   = "supplier"
	LocationUsageCustomer   = "customer"
	LocationUsageInternal   = "internal"
	LocationUsageTransit    = "transit"
	LocationUsageInventory  = "inventory" // ajustes de inventario / mermas
	LocationUsageProduction = "production"
	LocationUsageView       = "view"
)

// ValidLocationUsage indica si usage es un uso conocido.
func ValidLocationUsage(usage string) bool {
	switch usage {
	case LocationUsageSupplier, LocationUsageCustomer, LocationUsageInternal, LocationUsageTransit,
		LocationUsageInventory, LocationUsageProduction, LocationUsageView:
		return true
	}
	return false
}

// Location ubicación física o virtual. WarehouseID vacío para ubicaciones de socios o virtuales.
type Location struct {
	ID          string
	CompanyID   string
	Name        string
	Usage       string
	WarehouseID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsInternal indica si la ubicación es interna o de tránsito.
func (l *Location) IsInternal() bool {
	return l.Usage == LocationUsageInternal || l.Usage == LocationUsageTransit
}
