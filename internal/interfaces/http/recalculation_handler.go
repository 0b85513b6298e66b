package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/application/recalculation"
)

// ScheduleReloader recarga las tareas programadas tras cambiar una configuración.
type ScheduleReloader interface {
	Reload(ctx context.Context) error
}

// RecalculationHandler asistente de recalculación, respaldos y configuraciones programadas.
type RecalculationHandler struct {
	uc       *recalculation.UseCase
	schedule *recalculation.ScheduleUseCase
	reloader ScheduleReloader
}

// NewRecalculationHandler construye el handler. reloader puede ser nil.
func NewRecalculationHandler(uc *recalculation.UseCase, schedule *recalculation.ScheduleUseCase, reloader ScheduleReloader) *RecalculationHandler {
	return &RecalculationHandler{uc: uc, schedule: schedule, reloader: reloader}
}

// Create godoc
// @Summary      Crear recalculación
// @Description  Registra la ejecución en borrador; dry_run es verdadero si no se indica.
// @Tags         recalculations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecalculationRequest  true  "Alcance"
// @Success      201   {object}  dto.RecalculationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/recalculations [post]
func (h *RecalculationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRecalculationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recalculation.ToRunResponse(out))
}

// List godoc
// @Summary      Listar recalculaciones
// @Tags         recalculations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.RecalculationListResponse
// @Router       /api/recalculations [get]
func (h *RecalculationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.Normalize()
	runs, err := h.uc.List(c.UserContext(), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.RecalculationResponse, 0, len(runs))
	for _, r := range runs {
		items = append(items, recalculation.ToRunResponse(&recalculation.RunDetail{Run: r}))
	}
	return c.JSON(dto.RecalculationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	})
}

// Get godoc
// @Summary      Obtener recalculación
// @Tags         recalculations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ejecución"
// @Success      200  {object}  dto.RecalculationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recalculations/{id} [get]
func (h *RecalculationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recalculation.ToRunResponse(out))
}

// Update godoc
// @Summary      Cambiar opciones de la recalculación
// @Tags         recalculations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la ejecución"
// @Param        body  body  dto.UpdateRecalculationRequest  true  "Cambios"
// @Success      200   {object}  dto.RecalculationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recalculations/{id} [patch]
func (h *RecalculationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRecalculationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recalculation.ToRunResponse(out))
}

// Preview godoc
// @Summary      Previsualizar recalculación
// @Description  Calcula la comparación antes/después por producto y bodega sin modificar capas.
// @Tags         recalculations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ejecución"
// @Success      200  {object}  dto.RecalculationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recalculations/{id}/preview [post]
func (h *RecalculationHandler) Preview(c *fiber.Ctx) error {
	out, err := h.uc.Preview(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recalculation.ToRunResponse(out))
}

// Apply godoc
// @Summary      Aplicar recalculación
// @Description  Respalda las capas del alcance, las elimina según la estrategia y las reconstruye por lotes.
// @Tags         recalculations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ejecución"
// @Success      200  {object}  dto.RecalculationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recalculations/{id}/apply [post]
func (h *RecalculationHandler) Apply(c *fiber.Ctx) error {
	out, err := h.uc.Apply(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recalculation.ToRunResponse(out))
}

// Rollback godoc
// @Summary      Revertir recalculación
// @Tags         recalculations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ejecución"
// @Success      200  {object}  dto.RestoreResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recalculations/{id}/rollback [post]
func (h *RecalculationHandler) Rollback(c *fiber.Ctx) error {
	out, err := h.uc.Rollback(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recalculation.ToRestoreResponse(out))
}

// Export godoc
// @Summary      Exportar previsualización a XLSX
// @Tags         recalculations
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID de la ejecución"
// @Success      200  {file}    binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recalculations/{id}/export [get]
func (h *RecalculationHandler) Export(c *fiber.Ctx) error {
	data, name, err := h.uc.Export(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, h.uc.ContentType())
	return c.Send(data)
}

// Backups godoc
// @Summary      Listar respaldos
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BackupResponse
// @Router       /api/recalculations/backups [get]
func (h *RecalculationHandler) Backups(c *fiber.Ctx) error {
	list, err := h.uc.Backups(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.BackupResponse, 0, len(list))
	for _, b := range list {
		out = append(out, recalculation.ToBackupResponse(b))
	}
	return c.JSON(out)
}

// RestoreBackup godoc
// @Summary      Restaurar respaldo
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del respaldo"
// @Success      200  {object}  dto.RestoreResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recalculations/backups/{id}/restore [post]
func (h *RecalculationHandler) RestoreBackup(c *fiber.Ctx) error {
	out, err := h.uc.RestoreBackup(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recalculation.ToRestoreResponse(out))
}

// ExpireBackups godoc
// @Summary      Vencer respaldos
// @Description  Marca como vencidos los respaldos activos cuya retención terminó.
// @Tags         backups
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ExpireBackupsResponse
// @Router       /api/recalculations/backups/expire [post]
func (h *RecalculationHandler) ExpireBackups(c *fiber.Ctx) error {
	n, err := h.uc.ExpireBackups(c.UserContext(), time.Now().UTC())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ExpireBackupsResponse{Expired: n})
}

// CreateConfig godoc
// @Summary      Crear configuración programada
// @Tags         recalculation-configs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecalculationConfigRequest  true  "Configuración"
// @Success      201   {object}  dto.RecalculationConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/recalculation-configs [post]
func (h *RecalculationHandler) CreateConfig(c *fiber.Ctx) error {
	var in dto.RecalculationConfigRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	cfg, err := h.schedule.CreateConfig(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	h.reload(c)
	return c.Status(fiber.StatusCreated).JSON(recalculation.ToConfigResponse(cfg))
}

// UpdateConfig godoc
// @Summary      Actualizar configuración programada
// @Tags         recalculation-configs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la configuración"
// @Param        body  body  dto.RecalculationConfigRequest  true  "Configuración"
// @Success      200   {object}  dto.RecalculationConfigResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recalculation-configs/{id} [put]
func (h *RecalculationHandler) UpdateConfig(c *fiber.Ctx) error {
	var in dto.RecalculationConfigRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	cfg, err := h.schedule.UpdateConfig(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	h.reload(c)
	return c.JSON(recalculation.ToConfigResponse(cfg))
}

// GetConfig godoc
// @Summary      Obtener configuración programada
// @Tags         recalculation-configs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la configuración"
// @Success      200  {object}  dto.RecalculationConfigResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recalculation-configs/{id} [get]
func (h *RecalculationHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.schedule.GetConfig(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recalculation.ToConfigResponse(cfg))
}

// ListConfigs godoc
// @Summary      Listar configuraciones programadas
// @Tags         recalculation-configs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RecalculationConfigResponse
// @Router       /api/recalculation-configs [get]
func (h *RecalculationHandler) ListConfigs(c *fiber.Ctx) error {
	list, err := h.schedule.ListConfigs(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.RecalculationConfigResponse, 0, len(list))
	for _, cfg := range list {
		out = append(out, recalculation.ToConfigResponse(cfg))
	}
	return c.JSON(out)
}

// RunConfig godoc
// @Summary      Ejecutar configuración ahora
// @Description  Crea la ejecución, la previsualiza y la aplica si auto_apply está activo.
// @Tags         recalculation-configs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la configuración"
// @Success      200  {object}  dto.RecalculationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recalculation-configs/{id}/run [post]
func (h *RecalculationHandler) RunConfig(c *fiber.Ctx) error {
	cfg, err := h.schedule.GetConfig(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.schedule.RunConfig(c.UserContext(), cfg.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recalculation.ToRunResponse(out))
}

// RunDefault godoc
// @Summary      Ejecutar la configuración por defecto
// @Tags         recalculation-configs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RecalculationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recalculation-configs/default/run [post]
func (h *RecalculationHandler) RunDefault(c *fiber.Ctx) error {
	out, err := h.schedule.RunDefault(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(recalculation.ToRunResponse(out))
}

// reload refresca el cron; un fallo no invalida el cambio ya guardado.
func (h *RecalculationHandler) reload(c *fiber.Ctx) {
	if h.reloader == nil {
		return
	}
	_ = h.reloader.Reload(c.UserContext())
}
