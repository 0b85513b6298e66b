package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/fifo-valuation-api/internal/application/recalculation"
	"github.com/jhoicas/fifo-valuation-api/internal/application/usecase"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MoveUC        *valuation.MoveUseCase
	QueryUC       *valuation.QueryUseCase
	LandedCostUC  *valuation.LandedCostUseCase
	ConfigParamUC *valuation.ConfigParamUseCase
	RecalUC       *recalculation.UseCase
	ScheduleUC    *recalculation.ScheduleUseCase
	CatalogUC     *usecase.CatalogUseCase
	// Reloader recarga el cron al cambiar configuraciones (opcional).
	Reloader ScheduleReloader
	// Metrics expone /metrics si no es nil.
	Metrics   nethttp.Handler
	JWTSecret string
	// JWTIssuer emisor esperado; vacío acepta cualquiera.
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token con empresa)
	protected := api.Group("/", AuthMiddleware(jwt.NewValidator(deps.JWTSecret, deps.JWTIssuer)), RequireCompany())

	readers := RequireRole(RoleAdmin, RoleContador, RoleBodeguero)
	accountants := RequireRole(RoleAdmin, RoleContador)
	admins := RequireRole(RoleAdmin)

	// Valoración FIFO
	vh := NewValuationHandler(deps.MoveUC, deps.QueryUC, deps.LandedCostUC, deps.ConfigParamUC)
	val := protected.Group("/valuation")
	val.Post("/moves", readers, vh.PostMove)
	val.Get("/moves/:id/layers", readers, vh.MoveLayers)
	val.Get("/fifo-cost", readers, vh.FIFOCost)
	val.Post("/fifo-cost/batch", readers, vh.FIFOCostBatch)
	val.Get("/queue", readers, vh.Queue)
	val.Get("/balance", readers, vh.Balance)
	val.Get("/suggest-transfer", readers, vh.SuggestTransfer)
	val.Post("/layers/:id/landed-cost", accountants, vh.ApplyLandedCost)
	val.Get("/landed-cost/transfers", readers, vh.LandedCostTransfers)
	val.Get("/config/:key", readers, vh.GetParam)
	val.Put("/config/:key", admins, vh.SetParam)

	// Recalculación: las rutas fijas van antes de /:id
	rh := NewRecalculationHandler(deps.RecalUC, deps.ScheduleUC, deps.Reloader)
	recal := protected.Group("/recalculations")
	recal.Get("/backups", readers, rh.Backups)
	recal.Post("/backups/expire", admins, rh.ExpireBackups)
	recal.Post("/backups/:id/restore", accountants, rh.RestoreBackup)
	recal.Post("/", accountants, rh.Create)
	recal.Get("/", readers, rh.List)
	recal.Get("/:id", readers, rh.Get)
	recal.Patch("/:id", accountants, rh.Update)
	recal.Post("/:id/preview", accountants, rh.Preview)
	recal.Post("/:id/apply", accountants, rh.Apply)
	recal.Post("/:id/rollback", accountants, rh.Rollback)
	recal.Get("/:id/export", readers, rh.Export)

	configs := protected.Group("/recalculation-configs")
	configs.Post("/default/run", accountants, rh.RunDefault)
	configs.Post("/", accountants, rh.CreateConfig)
	configs.Get("/", readers, rh.ListConfigs)
	configs.Get("/:id", readers, rh.GetConfig)
	configs.Put("/:id", accountants, rh.UpdateConfig)
	configs.Post("/:id/run", accountants, rh.RunConfig)

	// Catálogo replicado del ERP
	ch := NewCatalogHandler(deps.CatalogUC)
	protected.Post("/warehouses", admins, ch.UpsertWarehouse)
	protected.Get("/warehouses", readers, ch.ListWarehouses)
	protected.Get("/warehouses/:id", readers, ch.GetWarehouse)
	protected.Post("/locations", admins, ch.UpsertLocation)
	protected.Get("/locations", readers, ch.ListLocations)
	protected.Post("/products", admins, ch.UpsertProduct)
	protected.Get("/products/:id", readers, ch.GetProduct)
}
