package valuation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// MoveUseCase recibe movimientos del feed y los valora de forma transaccional.
type MoveUseCase struct {
	txRunner TxRunner
	moves    *MoveValuationService
	log      *logger.Logger
}

// NewMoveUseCase construye el caso de uso.
func NewMoveUseCase(txRunner TxRunner, moves *MoveValuationService, log *logger.Logger) *MoveUseCase {
	return &MoveUseCase{txRunner: txRunner, moves: moves, log: logger.OrNop(log).Component("move_usecase")}
}

// Post guarda la copia del movimiento y, si está finalizado y aún sin capas, lo valora.
// Un movimiento ya valorado no se vuelve a valorar (reentrega del feed).
func (uc *MoveUseCase) Post(ctx context.Context, companyID string, in dto.MoveRequest) (*dto.MoveValuationResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	move := &entity.Move{
		ID:                    in.ID,
		CompanyID:             companyID,
		ProductID:             in.ProductID,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Quantity:              in.Quantity,
		UnitOfMeasure:         in.UnitOfMeasure,
		State:                 in.State,
		OriginReturnedMoveID:  in.OriginReturnedMoveID,
		PriceUnit:             in.PriceUnit,
		Date:                  in.Date,
		Reference:             in.Reference,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	var res *ProcessResult
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		prev, err := r.Moves.GetByID(ctx, move.ID)
		if err != nil {
			return err
		}
		if prev != nil && prev.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if err := r.Moves.Upsert(ctx, move); err != nil {
			return err
		}
		res, err = uc.moves.Process(ctx, r, move, ProcessOptions{SkipExisting: true})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("move_id", move.ID).Str("product_id", move.ProductID).
		Str("kind", string(res.Classification.Kind)).Int("layers", len(res.Layers)).
		Msg("movimiento valorado")
	return ToMoveValuationResponse(res), nil
}

// Handle procesa un evento del feed (Kafka); mismo contrato que Post.
func (uc *MoveUseCase) Handle(ctx context.Context, companyID string, in dto.MoveRequest) error {
	_, err := uc.Post(ctx, companyID, in)
	return err
}

// Layers capas creadas por un movimiento.
func (uc *MoveUseCase) Layers(ctx context.Context, companyID, moveID string) ([]dto.LayerResponse, error) {
	var out []dto.LayerResponse
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		move, err := r.Moves.GetByID(ctx, moveID)
		if err != nil {
			return err
		}
		if move == nil || move.CompanyID != companyID {
			return domain.ErrNotFound
		}
		layers, err := r.Layers.ListByMove(ctx, moveID)
		if err != nil {
			return err
		}
		out = toLayerResponses(layers)
		return nil
	})
	return out, err
}

// QueryUseCase consultas de costo FIFO (sin escrituras).
type QueryUseCase struct {
	txRunner TxRunner
	fifo     *FIFOService
	landed   *LandedCostAllocator
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(txRunner TxRunner, fifo *FIFOService, landed *LandedCostAllocator) *QueryUseCase {
	return &QueryUseCase{txRunner: txRunner, fifo: fifo, landed: landed}
}

// CalculateFIFOCost costo de consumir qty de la cola de la bodega.
func (uc *QueryUseCase) CalculateFIFOCost(ctx context.Context, companyID, productID, warehouseID string, qty decimal.Decimal) (*dto.FIFOCostResponse, error) {
	var out dto.FIFOCostResponse
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		cost, err := uc.fifo.Calculate(ctx, r, companyID, productID, warehouseID, qty)
		if err != nil {
			return err
		}
		out = toFIFOCostResponse(cost)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CalculateFIFOCostWithLandedCost igual que CalculateFIFOCost con el desglose de costo en destino.
func (uc *QueryUseCase) CalculateFIFOCostWithLandedCost(ctx context.Context, companyID, productID, warehouseID string, qty decimal.Decimal) (*dto.FIFOCostResponse, error) {
	var out dto.FIFOCostResponse
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		cost, err := uc.fifo.Calculate(ctx, r, companyID, productID, warehouseID, qty)
		if err != nil {
			return err
		}
		lc, err := uc.landed.ConsumedPortion(ctx, r, cost)
		if err != nil {
			return err
		}
		out = toFIFOCostResponse(cost)
		base := cost.Cost.Sub(lc)
		unit := uc.fifo.Precision().UnitCost(lc, cost.Quantity)
		out.BaseCost, out.LandedCost, out.LandedUnitCost = &base, &lc, &unit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CalculateFIFOCostBatch calcula varias consultas; un error en un elemento queda en su campo Error.
func (uc *QueryUseCase) CalculateFIFOCostBatch(ctx context.Context, companyID string, in dto.FIFOCostBatchRequest) (*dto.FIFOCostBatchResponse, error) {
	out := &dto.FIFOCostBatchResponse{Items: make([]dto.FIFOCostResponse, 0, len(in.Items))}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		for _, item := range in.Items {
			cost, err := uc.fifo.Calculate(ctx, r, companyID, item.ProductID, item.WarehouseID, item.Quantity)
			if err != nil {
				if isInfraError(err) {
					return err
				}
				out.Items = append(out.Items, dto.FIFOCostResponse{
					ProductID:   item.ProductID,
					WarehouseID: item.WarehouseID,
					Requested:   item.Quantity,
					Error:       err.Error(),
				})
				continue
			}
			out.Items = append(out.Items, toFIFOCostResponse(cost))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Queue cola FIFO vigente.
func (uc *QueryUseCase) Queue(ctx context.Context, companyID, productID, warehouseID string) (*dto.QueueResponse, error) {
	out := &dto.QueueResponse{ProductID: productID, WarehouseID: warehouseID}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		layers, err := uc.fifo.Queue(ctx, r, companyID, productID, warehouseID, false)
		if err != nil {
			return err
		}
		for _, l := range layers {
			out.Quantity = out.Quantity.Add(l.RemainingQty)
			out.Value = out.Value.Add(l.RemainingValue)
		}
		out.Layers = toLayerResponses(layers)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Valuation saldo, valor y costo en destino del producto en la bodega.
func (uc *QueryUseCase) Valuation(ctx context.Context, companyID, productID, warehouseID string) (*dto.WarehouseValuationResponse, error) {
	out := &dto.WarehouseValuationResponse{ProductID: productID, WarehouseID: warehouseID}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		av, err := uc.fifo.Available(ctx, r, companyID, productID, warehouseID)
		if err != nil {
			return err
		}
		lc, err := uc.landed.AtWarehouse(ctx, r, companyID, productID, warehouseID)
		if err != nil {
			return err
		}
		p := uc.fifo.Precision()
		out.Quantity, out.Value = av.Quantity, av.Value
		out.UnitCost = p.UnitCost(av.Value, av.Quantity)
		out.LandedCost = lc
		out.LandedUnitCost = p.UnitCost(lc, av.Quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SuggestTransfer bodega con la que cubrir el faltante de qty en warehouseID: la de mayor
// saldo que lo cubra completo, o si ninguna alcanza la de mayor saldo.
func (uc *QueryUseCase) SuggestTransfer(ctx context.Context, companyID, productID, warehouseID string, qty decimal.Decimal) (*dto.TransferSuggestionResponse, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	out := &dto.TransferSuggestionResponse{ProductID: productID, WarehouseID: warehouseID}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		av, err := uc.fifo.Available(ctx, r, companyID, productID, warehouseID)
		if err != nil {
			return err
		}
		out.Missing = decimal.Max(qty.Sub(av.Quantity), decimal.Zero)
		alts, err := uc.fifo.Alternatives(ctx, r, companyID, productID, warehouseID)
		if err != nil {
			return err
		}
		out.Alternatives = toAvailabilityDTOs(alts)
		if !out.Missing.IsPositive() || len(alts) == 0 {
			return nil
		}
		// alts viene ordenado por saldo desc: la primera es la de mayor saldo.
		best := alts[0]
		out.SourceWarehouseID = best.WarehouseID
		out.SuggestedQty = decimal.Min(out.Missing, best.Quantity)
		out.CoversShortage = best.Quantity.GreaterThanOrEqual(out.Missing)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LandedCostUseCase aplicación y consulta de costos en destino.
type LandedCostUseCase struct {
	txRunner TxRunner
	landed   *LandedCostAllocator
	log      *logger.Logger
}

// NewLandedCostUseCase construye el caso de uso.
func NewLandedCostUseCase(txRunner TxRunner, landed *LandedCostAllocator, log *logger.Logger) *LandedCostUseCase {
	return &LandedCostUseCase{txRunner: txRunner, landed: landed, log: logger.OrNop(log).Component("landed_cost_usecase")}
}

// Apply agrega amount de costo en destino a la capa de entrada layerID.
func (uc *LandedCostUseCase) Apply(ctx context.Context, companyID string, layerID int64, amount decimal.Decimal) (*dto.ApplyLandedCostResponse, error) {
	var out *dto.ApplyLandedCostResponse
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		res, err := uc.landed.Apply(ctx, r, companyID, layerID, amount)
		if err != nil {
			return err
		}
		out = &dto.ApplyLandedCostResponse{
			Layer:       ToLayerResponse(res.Layer),
			OnHand:      res.OnHand,
			Consumed:    res.Consumed,
			Allocations: make([]dto.LandedCostAllocationDTO, 0, len(res.Allocations)),
		}
		for _, a := range res.Allocations {
			out.Allocations = append(out.Allocations, toAllocationDTO(a))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("layer_id", layerID).Str("amount", amount.String()).Msg("costo en destino aplicado")
	return out, nil
}

// Transfers auditoría de traslados de costo en destino de un movimiento.
func (uc *LandedCostUseCase) Transfers(ctx context.Context, companyID, moveID string) ([]dto.LandedCostTransferDTO, error) {
	var out []dto.LandedCostTransferDTO
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		list, err := r.LandedCosts.ListAudits(ctx, companyID, moveID)
		if err != nil {
			return err
		}
		out = make([]dto.LandedCostTransferDTO, 0, len(list))
		for _, a := range list {
			out = append(out, *toAuditDTO(a))
		}
		return nil
	})
	return out, err
}

// ConfigParamUseCase lectura y escritura de los parámetros de valoración.
type ConfigParamUseCase struct {
	txRunner TxRunner
	settings Settings
}

// NewConfigParamUseCase construye el caso de uso.
func NewConfigParamUseCase(txRunner TxRunner, settings Settings) *ConfigParamUseCase {
	return &ConfigParamUseCase{txRunner: txRunner, settings: settings}
}

// Get valor vigente (el guardado o el por defecto).
func (uc *ConfigParamUseCase) Get(ctx context.Context, key string) (*dto.ConfigParamResponse, error) {
	if !knownParam(key) {
		return nil, domain.ErrNotFound
	}
	var out *dto.ConfigParamResponse
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		p, err := ReadPolicy(ctx, r.Configs, uc.settings)
		if err != nil {
			return err
		}
		value := p.ShortagePolicy
		if key == entity.ParamEnableLocationValidation {
			value = strconv.FormatBool(p.ValidateLocations)
		}
		out = &dto.ConfigParamResponse{Key: key, Value: value}
		return nil
	})
	return out, err
}

// Set guarda el parámetro tras validar su valor.
func (uc *ConfigParamUseCase) Set(ctx context.Context, key, value string) (*dto.ConfigParamResponse, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch key {
	case entity.ParamShortagePolicy:
		if value != entity.ShortagePolicyError && value != entity.ShortagePolicyFallback {
			return nil, fmt.Errorf("%w: %s debe ser error o fallback", domain.ErrInvalidInput, key)
		}
	case entity.ParamEnableLocationValidation:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s debe ser booleano", domain.ErrInvalidInput, key)
		}
		value = strconv.FormatBool(b)
	default:
		return nil, domain.ErrNotFound
	}
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		return r.Configs.SetParam(ctx, key, value)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConfigParamResponse{Key: key, Value: value}, nil
}

func knownParam(key string) bool {
	return key == entity.ParamShortagePolicy || key == entity.ParamEnableLocationValidation
}

// isInfraError distingue errores de infraestructura de los de negocio en respuestas por lote.
func isInfraError(err error) bool {
	for _, e := range []error{domain.ErrInsufficientFIFO, domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrMissingCost} {
		if errors.Is(err, e) {
			return false
		}
	}
	return true
}
