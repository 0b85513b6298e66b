package valuation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// FIFOService cola FIFO por producto y bodega: cálculo (sin escrituras) y consumo.
// Los métodos reciben los repositorios de la transacción en curso.
type FIFOService struct {
	settings Settings
	recorder Recorder
	log      *logger.Logger
}

// NewFIFOService construye el servicio. recorder y log pueden ser nil.
func NewFIFOService(settings Settings, recorder Recorder, log *logger.Logger) *FIFOService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &FIFOService{settings: settings, recorder: recorder, log: logger.OrNop(log).Component("fifo")}
}

// Precision precisión configurada.
func (s *FIFOService) Precision() inventory.Precision { return s.settings.Precision }

// ShortageReport faltante en modo fallback, con bodegas alternativas ordenadas por disponible desc.
type ShortageReport struct {
	ProductID    string
	WarehouseID  string
	Requested    decimal.Decimal
	Available    decimal.Decimal
	Missing      decimal.Decimal
	Alternatives []entity.WarehouseAvailability
}

// FIFOCost cálculo FIFO con el saldo leído y el faltante (si la política lo reporta).
type FIFOCost struct {
	inventory.CostResult
	ProductID   string
	WarehouseID string
	UnitCost    decimal.Decimal
	Available   decimal.Decimal
	Shortage    *ShortageReport

	layers []*entity.ValuationLayer
}

// remainingBefore saldo de la capa al momento del cálculo.
func (c *FIFOCost) remainingBefore(layerID int64) decimal.Decimal {
	for _, l := range c.layers {
		if l.ID == layerID {
			return l.RemainingQty
		}
	}
	return decimal.Zero
}

// Queue capas con saldo ordenadas FIFO.
func (s *FIFOService) Queue(ctx context.Context, r repository.Repos, companyID, productID, warehouseID string, forUpdate bool) ([]*entity.ValuationLayer, error) {
	limit := s.settings.QueueReadLimit
	if forUpdate {
		limit = 0
	}
	layers, err := r.Layers.FIFOQueue(ctx, companyID, productID, warehouseID, limit, forUpdate)
	if err != nil {
		return nil, fmt.Errorf("leer cola fifo: %w", err)
	}
	return layers, nil
}

func toQueue(layers []*entity.ValuationLayer) []inventory.QueueLayer {
	q := make([]inventory.QueueLayer, 0, len(layers))
	for _, l := range layers {
		q = append(q, inventory.QueueLayer{
			LayerID:        l.ID,
			CreatedAt:      l.CreatedAt,
			RemainingQty:   l.RemainingQty,
			RemainingValue: l.RemainingValue,
			UnitCost:       l.UnitCost,
		})
	}
	inventory.SortQueue(q)
	return q
}

// Calculate costo de consumir qty sin escribir. Aplica la política de faltante vigente.
func (s *FIFOService) Calculate(ctx context.Context, r repository.Repos, companyID, productID, warehouseID string, qty decimal.Decimal) (*FIFOCost, error) {
	cost, _, err := s.calculate(ctx, r, companyID, productID, warehouseID, qty, false, nil)
	return cost, err
}

// Quote cálculo FIFO sin política de faltante ni escrituras (consultas de costo histórico).
func (s *FIFOService) Quote(ctx context.Context, r repository.Repos, companyID, productID, warehouseID string, qty decimal.Decimal) (*FIFOCost, error) {
	cost, _, err := s.calculate(ctx, r, companyID, productID, warehouseID, qty, false, &Policy{ShortagePolicy: entity.ShortagePolicyFallback})
	return cost, err
}

func (s *FIFOService) calculate(ctx context.Context, r repository.Repos, companyID, productID, warehouseID string, qty decimal.Decimal, forUpdate bool, override *Policy) (*FIFOCost, []*entity.ValuationLayer, error) {
	if !qty.IsPositive() || productID == "" || warehouseID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	var policy Policy
	if override != nil {
		policy = *override
	} else {
		p, err := ReadPolicy(ctx, r.Configs, s.settings)
		if err != nil {
			return nil, nil, err
		}
		policy = p
	}
	layers, err := s.Queue(ctx, r, companyID, productID, warehouseID, forUpdate)
	if err != nil {
		return nil, nil, err
	}
	queue := toQueue(layers)
	available, _ := inventory.QueueTotals(queue)
	res := inventory.PlanConsumption(queue, qty, s.settings.Precision)
	out := &FIFOCost{
		CostResult:  res,
		ProductID:   productID,
		WarehouseID: warehouseID,
		UnitCost:    res.UnitCost(s.settings.Precision),
		Available:   available,
		layers:      layers,
	}
	if !res.Short() || !policy.ValidateLocations {
		return out, layers, nil
	}

	s.recorder.Shortage(policy.ShortagePolicy)
	if !policy.Fallback() {
		return nil, nil, &domain.ShortageError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Requested:   qty,
			Available:   available,
		}
	}
	alternatives, err := s.Alternatives(ctx, r, companyID, productID, warehouseID)
	if err != nil {
		return nil, nil, err
	}
	out.Shortage = &ShortageReport{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		Requested:    qty,
		Available:    available,
		Missing:      res.Missing,
		Alternatives: alternatives,
	}
	s.log.Warn().
		Str("product_id", productID).
		Str("warehouse_id", warehouseID).
		Str("requested", qty.String()).
		Str("missing", res.Missing.String()).
		Int("alternatives", len(alternatives)).
		Msg("faltante en cola fifo (modo fallback)")
	return out, layers, nil
}

// Alternatives otras bodegas con saldo del producto, por cantidad disponible descendente
// (empate por ID de bodega). No se aplica ninguna otra prioridad de negocio.
func (s *FIFOService) Alternatives(ctx context.Context, r repository.Repos, companyID, productID, excludeWarehouseID string) ([]entity.WarehouseAvailability, error) {
	all, err := r.Layers.AvailableByWarehouse(ctx, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("saldo por bodega: %w", err)
	}
	out := make([]entity.WarehouseAvailability, 0, len(all))
	for _, a := range all {
		if a.WarehouseID == excludeWarehouseID || !a.Quantity.IsPositive() {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Quantity.Equal(out[j].Quantity) {
			return out[i].Quantity.GreaterThan(out[j].Quantity)
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, nil
}

// Available saldo y valor restantes en una bodega.
func (s *FIFOService) Available(ctx context.Context, r repository.Repos, companyID, productID, warehouseID string) (entity.WarehouseAvailability, error) {
	all, err := r.Layers.AvailableByWarehouse(ctx, companyID, productID)
	if err != nil {
		return entity.WarehouseAvailability{}, fmt.Errorf("saldo por bodega: %w", err)
	}
	for _, a := range all {
		if a.WarehouseID == warehouseID {
			return a, nil
		}
	}
	return entity.WarehouseAvailability{WarehouseID: warehouseID}, nil
}

// ReceiveRequest entrada a valorar. Se usa Value si viene; si no, Quantity × UnitCost.
type ReceiveRequest struct {
	Move        *entity.Move
	WarehouseID string
	LocationID  string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Value       *decimal.Decimal
	Description string
	RunID       string
	Locked      bool
}

// Receive crea la capa positiva de una entrada.
func (s *FIFOService) Receive(ctx context.Context, r repository.Repos, req ReceiveRequest) (*entity.ValuationLayer, error) {
	if req.Move == nil || !req.Quantity.IsPositive() || req.WarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	p := s.settings.Precision
	value := p.LineValue(req.Quantity, req.UnitCost)
	unit := p.RoundUnit(req.UnitCost)
	if req.Value != nil {
		value = p.RoundValue(*req.Value)
		unit = p.UnitCost(value, req.Quantity)
	}
	if !value.IsPositive() {
		return nil, domain.ErrMissingCost
	}
	layer := &entity.ValuationLayer{
		CompanyID:          req.Move.CompanyID,
		ProductID:          req.Move.ProductID,
		WarehouseID:        req.WarehouseID,
		LocationID:         req.LocationID,
		Quantity:           req.Quantity,
		UnitCost:           unit,
		Value:              value,
		RemainingQty:       req.Quantity,
		RemainingValue:     value,
		SourceMoveID:       req.Move.ID,
		Description:        req.Description,
		Locked:             req.Locked,
		RecalculationRunID: req.RunID,
		CreatedAt:          layerDate(req.Move),
	}
	if err := r.Layers.Create(ctx, layer); err != nil {
		return nil, fmt.Errorf("crear capa de entrada: %w", err)
	}
	s.recorder.LayerCreated("incoming")
	return layer, nil
}

// ConsumeRequest salida a valorar contra la cola de WarehouseID.
// UnitCost fija el costo de la capa negativa (devoluciones); la cola se consume igual en orden FIFO.
type ConsumeRequest struct {
	Move        *entity.Move
	Product     *entity.Product
	WarehouseID string
	LocationID  string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	Description string
	RunID       string
	Locked      bool
	// Policy reemplaza la política leída de los parámetros (recalculación).
	Policy *Policy
}

// ConsumeResult capa negativa creada y detalle del consumo.
type ConsumeResult struct {
	Layer           *entity.ValuationLayer
	Cost            *FIFOCost
	AvailableBefore decimal.Decimal
	// Consumed capas consumidas con su saldo previo al consumo.
	Consumed []ConsumedLayer
}

// ConsumedLayer capa consumida y cuánto se le tomó.
type ConsumedLayer struct {
	Layer          *entity.ValuationLayer
	RemainingQty   decimal.Decimal // antes del consumo
	RemainingValue decimal.Decimal // antes del consumo
	Consumption    inventory.Consumption
}

// Consume bloquea la cola (SELECT FOR UPDATE), descuenta cada capa, registra el ledger de consumo
// y crea la capa negativa con unit_cost = costo/cantidad y value = -costo.
// El faltante (fallback o validación desactivada) se valora al costo estándar; nunca en cero.
func (s *FIFOService) Consume(ctx context.Context, r repository.Repos, req ConsumeRequest) (*ConsumeResult, error) {
	if req.Move == nil || req.Product == nil {
		return nil, domain.ErrInvalidInput
	}
	cost, layers, err := s.calculate(ctx, r, req.Move.CompanyID, req.Move.ProductID, req.WarehouseID, req.Quantity, true, req.Policy)
	if err != nil {
		return nil, err
	}
	p := s.settings.Precision

	value := cost.Cost
	if cost.Short() {
		fallbackUnit := req.Product.StandardPrice
		if !fallbackUnit.IsPositive() {
			fallbackUnit = cost.UnitCost
		}
		value = value.Add(p.LineValue(cost.Missing, fallbackUnit))
	}
	if req.UnitCost != nil {
		value = p.LineValue(req.Quantity, *req.UnitCost)
	}
	if !value.IsPositive() {
		return nil, domain.ErrMissingCost
	}

	byID := make(map[int64]*entity.ValuationLayer, len(layers))
	for _, l := range layers {
		byID[l.ID] = l
	}
	consumed := make([]ConsumedLayer, 0, len(cost.Consumptions))
	for _, c := range cost.Consumptions {
		l := byID[c.LayerID]
		if l == nil {
			continue
		}
		consumed = append(consumed, ConsumedLayer{Layer: l, RemainingQty: l.RemainingQty, RemainingValue: l.RemainingValue, Consumption: c})
		if c.Exhausted {
			l.RemainingQty = decimal.Zero
			l.RemainingValue = decimal.Zero
		} else {
			l.RemainingQty = l.RemainingQty.Sub(c.Quantity)
			l.RemainingValue = l.RemainingValue.Sub(c.Value)
		}
		if err := r.Layers.UpdateRemaining(ctx, l); err != nil {
			return nil, fmt.Errorf("actualizar saldo de capa %d: %w", l.ID, err)
		}
	}

	neg := &entity.ValuationLayer{
		CompanyID:          req.Move.CompanyID,
		ProductID:          req.Move.ProductID,
		WarehouseID:        req.WarehouseID,
		LocationID:         req.LocationID,
		Quantity:           req.Quantity.Neg(),
		UnitCost:           p.UnitCost(value, req.Quantity),
		Value:              value.Neg(),
		RemainingQty:       decimal.Zero,
		RemainingValue:     decimal.Zero,
		SourceMoveID:       req.Move.ID,
		Description:        req.Description,
		Locked:             req.Locked,
		RecalculationRunID: req.RunID,
		CreatedAt:          layerDate(req.Move),
	}
	if err := r.Layers.Create(ctx, neg); err != nil {
		return nil, fmt.Errorf("crear capa de salida: %w", err)
	}
	for _, c := range consumed {
		usage := &entity.LayerUsage{
			ConsumerLayerID: neg.ID,
			SourceLayerID:   c.Layer.ID,
			Quantity:        c.Consumption.Quantity,
			Value:           c.Consumption.Value,
			CreatedAt:       neg.CreatedAt,
		}
		if err := r.Usages.Create(ctx, usage); err != nil {
			return nil, fmt.Errorf("registrar consumo: %w", err)
		}
	}
	s.recorder.LayerCreated("outgoing")
	return &ConsumeResult{Layer: neg, Cost: cost, AvailableBefore: cost.Available, Consumed: consumed}, nil
}

// layerDate fecha de la capa: la del movimiento (la cola se ordena por ella).
func layerDate(m *entity.Move) time.Time {
	if m.Date.IsZero() {
		return time.Now().UTC()
	}
	return m.Date
}
