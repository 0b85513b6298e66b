package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/application/valuation"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ValuationHandler feed de movimientos y consultas de la cola FIFO.
type ValuationHandler struct {
	moves  *valuation.MoveUseCase
	query  *valuation.QueryUseCase
	landed *valuation.LandedCostUseCase
	params *valuation.ConfigParamUseCase
}

// NewValuationHandler construye el handler.
func NewValuationHandler(moves *valuation.MoveUseCase, query *valuation.QueryUseCase, landed *valuation.LandedCostUseCase, params *valuation.ConfigParamUseCase) *ValuationHandler {
	return &ValuationHandler{moves: moves, query: query, landed: landed, params: params}
}

// PostMove godoc
// @Summary      Registrar movimiento de inventario
// @Description  Guarda la copia del movimiento y, si está en estado done, crea sus capas de valoración.
// @Tags         valuation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MoveRequest  true  "Movimiento"
// @Success      200   {object}  dto.MoveValuationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ShortageErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/valuation/moves [post]
func (h *ValuationHandler) PostMove(c *fiber.Ctx) error {
	var in dto.MoveRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.moves.Post(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MoveLayers godoc
// @Summary      Capas creadas por un movimiento
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {array}   dto.LayerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/valuation/moves/{id}/layers [get]
func (h *ValuationHandler) MoveLayers(c *fiber.Ctx) error {
	out, err := h.moves.Layers(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FIFOCost godoc
// @Summary      Costo FIFO de una salida
// @Description  Calcula el costo de consumir quantity de la cola sin modificarla. with_landed_cost=true agrega el desglose de costo en destino.
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Param        product_id        query  string  true   "Producto"
// @Param        warehouse_id      query  string  true   "Bodega"
// @Param        quantity          query  string  true   "Cantidad"
// @Param        with_landed_cost  query  bool    false  "Incluir costo en destino"
// @Success      200  {object}  dto.FIFOCostResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ShortageErrorResponse
// @Router       /api/valuation/fifo-cost [get]
func (h *ValuationHandler) FIFOCost(c *fiber.Ctx) error {
	productID, warehouseID, err := productWarehouse(c)
	if err != nil {
		return writeError(c, err)
	}
	qty, err := queryDecimal(c, "quantity")
	if err != nil {
		return writeError(c, err)
	}
	var out *dto.FIFOCostResponse
	if c.QueryBool("with_landed_cost") {
		out, err = h.query.CalculateFIFOCostWithLandedCost(c.UserContext(), GetCompanyID(c), productID, warehouseID, qty)
	} else {
		out, err = h.query.CalculateFIFOCost(c.UserContext(), GetCompanyID(c), productID, warehouseID, qty)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FIFOCostBatch godoc
// @Summary      Costo FIFO en lote
// @Description  Un faltante en un elemento se informa en su campo error sin abortar el lote.
// @Tags         valuation
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FIFOCostBatchRequest  true  "Consultas"
// @Success      200   {object}  dto.FIFOCostBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/valuation/fifo-cost/batch [post]
func (h *ValuationHandler) FIFOCostBatch(c *fiber.Ctx) error {
	var in dto.FIFOCostBatchRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.query.CalculateFIFOCostBatch(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Queue godoc
// @Summary      Cola FIFO vigente
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.QueueResponse
// @Router       /api/valuation/queue [get]
func (h *ValuationHandler) Queue(c *fiber.Ctx) error {
	productID, warehouseID, err := productWarehouse(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.query.Queue(c.UserContext(), GetCompanyID(c), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Balance godoc
// @Summary      Saldo valorado por bodega
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega"
// @Success      200  {object}  dto.WarehouseValuationResponse
// @Router       /api/valuation/balance [get]
func (h *ValuationHandler) Balance(c *fiber.Ctx) error {
	productID, warehouseID, err := productWarehouse(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.query.Valuation(c.UserContext(), GetCompanyID(c), productID, warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SuggestTransfer godoc
// @Summary      Sugerir traslado para cubrir un faltante
// @Tags         valuation
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "Producto"
// @Param        warehouse_id  query  string  true  "Bodega con faltante"
// @Param        quantity      query  string  true  "Cantidad requerida"
// @Success      200  {object}  dto.TransferSuggestionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/valuation/suggest-transfer [get]
func (h *ValuationHandler) SuggestTransfer(c *fiber.Ctx) error {
	productID, warehouseID, err := productWarehouse(c)
	if err != nil {
		return writeError(c, err)
	}
	qty, err := queryDecimal(c, "quantity")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.query.SuggestTransfer(c.UserContext(), GetCompanyID(c), productID, warehouseID, qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ApplyLandedCost godoc
// @Summary      Aplicar costo en destino a una capa de entrada
// @Description  La porción ya consumida se asigna a las capas de salida existentes.
// @Tags         landed-cost
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                         true  "ID de la capa"
// @Param        body  body  dto.ApplyLandedCostRequest  true  "Monto"
// @Success      200   {object}  dto.ApplyLandedCostResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/valuation/layers/{id}/landed-cost [post]
func (h *ValuationHandler) ApplyLandedCost(c *fiber.Ctx) error {
	layerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || layerID <= 0 {
		return writeError(c, fmt.Errorf("%w: id de capa inválido", domain.ErrInvalidInput))
	}
	var in dto.ApplyLandedCostRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.landed.Apply(c.UserContext(), GetCompanyID(c), layerID, in.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LandedCostTransfers godoc
// @Summary      Auditoría de traslados de costo en destino
// @Tags         landed-cost
// @Security     Bearer
// @Produce      json
// @Param        move_id  query  string  false  "Filtrar por movimiento"
// @Success      200  {array}  dto.LandedCostTransferDTO
// @Router       /api/valuation/landed-cost/transfers [get]
func (h *ValuationHandler) LandedCostTransfers(c *fiber.Ctx) error {
	out, err := h.landed.Transfers(c.UserContext(), GetCompanyID(c), c.Query("move_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetParam godoc
// @Summary      Leer parámetro de valoración
// @Tags         valuation-config
// @Security     Bearer
// @Produce      json
// @Param        key  path  string  true  "Clave (fifo.*)"
// @Success      200  {object}  dto.ConfigParamResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/valuation/config/{key} [get]
func (h *ValuationHandler) GetParam(c *fiber.Ctx) error {
	out, err := h.params.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetParam godoc
// @Summary      Cambiar parámetro de valoración
// @Tags         valuation-config
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string                  true  "Clave (fifo.*)"
// @Param        body  body  dto.ConfigParamRequest  true  "Valor"
// @Success      200   {object}  dto.ConfigParamResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/valuation/config/{key} [put]
func (h *ValuationHandler) SetParam(c *fiber.Ctx) error {
	var in dto.ConfigParamRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.params.Set(c.UserContext(), c.Params("key"), in.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func productWarehouse(c *fiber.Ctx) (string, string, error) {
	productID := strings.TrimSpace(c.Query("product_id"))
	warehouseID := strings.TrimSpace(c.Query("warehouse_id"))
	if productID == "" || warehouseID == "" {
		return "", "", fmt.Errorf("%w: product_id y warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	return productID, warehouseID, nil
}

func queryDecimal(c *fiber.Ctx, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: %s es requerido", domain.ErrInvalidInput, key)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s no es un número", domain.ErrInvalidInput, key)
	}
	return v, nil
}
