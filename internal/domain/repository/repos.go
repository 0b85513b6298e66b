package repository

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Layers         ValuationLayerRepository
	Usages         LayerUsageRepository
	LandedCosts    LandedCostRepository
	Moves          MoveRepository
	Locations      LocationRepository
	Warehouses     WarehouseRepository
	Products       ProductRepository
	Recalculations RecalculationRepository
	Backups        BackupRepository
	Configs        ConfigRepository
}
