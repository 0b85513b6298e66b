package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// LandedCostAllocator mantiene el costo en destino asociado a la bodega donde está el stock.
type LandedCostAllocator struct {
	p   inventory.Precision
	log *logger.Logger
}

// NewLandedCostAllocator construye el asignador.
func NewLandedCostAllocator(p inventory.Precision, log *logger.Logger) *LandedCostAllocator {
	return &LandedCostAllocator{p: p, log: logger.OrNop(log).Component("landed_cost")}
}

// ApplyResult efecto de aplicar un costo en destino sobre una capa de entrada.
type ApplyResult struct {
	Layer       *entity.ValuationLayer
	OnHand      decimal.Decimal
	Consumed    decimal.Decimal
	Allocations []*entity.LandedCostAllocation
}

// maxTransferHops límite de traslados encadenados que sigue Apply.
const maxTransferHops = 16

// Apply suma amount a una capa de entrada. La parte del stock aún disponible queda en la capa
// (value, remaining_value y unit_cost) y como asignación en su bodega; la parte ya consumida se
// asigna a las capas negativas que la consumieron, en proporción a lo que tomó cada una.
// Si quien consumió fue un traslado, esa parte sigue a la mercancía hasta la capa de destino.
func (a *LandedCostAllocator) Apply(ctx context.Context, r repository.Repos, companyID string, layerID int64, amount decimal.Decimal) (*ApplyResult, error) {
	amount = a.p.RoundValue(amount)
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	layer, err := r.Layers.GetByID(ctx, layerID)
	if err != nil {
		return nil, fmt.Errorf("leer capa: %w", err)
	}
	if layer == nil || layer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !layer.IsIncoming() {
		return nil, fmt.Errorf("%w: el costo en destino solo aplica a capas de entrada", domain.ErrInvalidInput)
	}

	res := &ApplyResult{Layer: layer}
	res.OnHand, res.Consumed, err = a.spread(ctx, r, companyID, layer, amount, res, 0)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// spread reparte amount sobre una capa de entrada y, por el ledger de consumo, sobre lo que ya salió.
func (a *LandedCostAllocator) spread(ctx context.Context, r repository.Repos, companyID string, layer *entity.ValuationLayer, amount decimal.Decimal, res *ApplyResult, hops int) (onHand, consumed decimal.Decimal, err error) {
	onHand, consumed = inventory.SplitLandedCost(amount, layer.RemainingQty, layer.Quantity, a.p)
	layer.Value = layer.Value.Add(amount)
	layer.UnitCost = a.p.UnitCost(layer.Value, layer.Quantity)
	layer.RemainingValue = layer.RemainingValue.Add(onHand)
	if err := r.Layers.UpdateValuation(ctx, layer); err != nil {
		return onHand, consumed, fmt.Errorf("actualizar capa %d: %w", layer.ID, err)
	}

	now := time.Now().UTC()
	if onHand.IsPositive() {
		alloc := &entity.LandedCostAllocation{
			CompanyID:        companyID,
			ValuationLayerID: layer.ID,
			ProductID:        layer.ProductID,
			WarehouseID:      layer.WarehouseID,
			LandedCostValue:  onHand,
			Quantity:         layer.RemainingQty,
			SourceMoveID:     layer.SourceMoveID,
			CreatedAt:        now,
		}
		if err := r.LandedCosts.Create(ctx, alloc); err != nil {
			return onHand, consumed, fmt.Errorf("crear asignación: %w", err)
		}
		res.Allocations = append(res.Allocations, alloc)
	}
	if !consumed.IsPositive() {
		return onHand, consumed, nil
	}

	usages, err := r.Usages.ListByLayers(ctx, []int64{layer.ID})
	if err != nil {
		return onHand, consumed, fmt.Errorf("leer consumos: %w", err)
	}
	var sources []*entity.LayerUsage
	totalQty := decimal.Zero
	for _, u := range usages {
		if u.SourceLayerID == layer.ID && u.Quantity.IsPositive() {
			sources = append(sources, u)
			totalQty = totalQty.Add(u.Quantity)
		}
	}
	if len(sources) == 0 {
		a.log.Warn().Int64("layer_id", layer.ID).Str("amount", consumed.String()).
			Msg("costo en destino sobre stock consumido sin registro de consumo")
		return onHand, consumed, nil
	}
	left := consumed
	for i, u := range sources {
		share := inventory.ProportionalShare(consumed, u.Quantity, totalQty, a.p)
		if i == len(sources)-1 {
			share = left
		}
		left = left.Sub(share)
		if !share.IsPositive() {
			continue
		}
		consumer, err := r.Layers.GetByID(ctx, u.ConsumerLayerID)
		if err != nil {
			return onHand, consumed, fmt.Errorf("leer capa consumidora: %w", err)
		}
		if consumer == nil {
			continue
		}

		dest, err := a.transferDestination(ctx, r, consumer)
		if err != nil {
			return onHand, consumed, err
		}
		if dest != nil && hops < maxTransferHops {
			consumer.Value = consumer.Value.Sub(share)
			consumer.UnitCost = a.p.UnitCost(consumer.Value, consumer.Quantity)
			if err := r.Layers.UpdateValuation(ctx, consumer); err != nil {
				return onHand, consumed, fmt.Errorf("actualizar capa %d: %w", consumer.ID, err)
			}
			a.log.Debug().Int64("layer_id", consumer.ID).Int64("dest_layer_id", dest.ID).
				Str("amount", share.String()).Msg("costo en destino sigue al traslado")
			if _, _, err := a.spread(ctx, r, companyID, dest, share, res, hops+1); err != nil {
				return onHand, consumed, err
			}
			continue
		}

		alloc := &entity.LandedCostAllocation{
			CompanyID:        companyID,
			ValuationLayerID: consumer.ID,
			ProductID:        consumer.ProductID,
			WarehouseID:      consumer.WarehouseID,
			LandedCostValue:  share,
			Quantity:         u.Quantity,
			SourceMoveID:     consumer.SourceMoveID,
			CreatedAt:        now,
		}
		if err := r.LandedCosts.Create(ctx, alloc); err != nil {
			return onHand, consumed, fmt.Errorf("crear asignación: %w", err)
		}
		res.Allocations = append(res.Allocations, alloc)
	}
	return onHand, consumed, nil
}

// transferDestination capa positiva en la bodega destino cuando la capa negativa es la salida
// de un traslado; nil en otro caso.
func (a *LandedCostAllocator) transferDestination(ctx context.Context, r repository.Repos, consumer *entity.ValuationLayer) (*entity.ValuationLayer, error) {
	if consumer.IsIncoming() || consumer.SourceMoveID == "" {
		return nil, nil
	}
	layers, err := r.Layers.ListByMove(ctx, consumer.SourceMoveID)
	if err != nil {
		return nil, fmt.Errorf("leer capas del traslado: %w", err)
	}
	for _, l := range layers {
		if l.IsIncoming() && l.ProductID == consumer.ProductID && l.WarehouseID != consumer.WarehouseID {
			return l, nil
		}
	}
	return nil, nil
}

// TransferRequest traslado de stock entre bodegas ya valorado.
type TransferRequest struct {
	Move              *entity.Move
	SourceWarehouseID string
	DestWarehouseID   string
	Quantity          decimal.Decimal
	// AvailableBefore saldo en origen antes de consumir el traslado.
	AvailableBefore decimal.Decimal
	DestLayer       *entity.ValuationLayer
}

// Transfer mueve a destino la parte proporcional del costo en destino de la bodega origen:
// lc = lc_origen × cantidad / disponible, descontado de las asignaciones más antiguas.
// Sin costo en origen no hace nada.
func (a *LandedCostAllocator) Transfer(ctx context.Context, r repository.Repos, req TransferRequest) (*entity.LandedCostTransferAudit, error) {
	m := req.Move
	if m == nil || req.DestLayer == nil {
		return nil, domain.ErrInvalidInput
	}
	allocs, err := r.LandedCosts.ListByWarehouse(ctx, m.CompanyID, m.ProductID, req.SourceWarehouseID, true)
	if err != nil {
		return nil, fmt.Errorf("leer costo en destino de origen: %w", err)
	}
	sourceBefore := sumAllocations(allocs)
	if !sourceBefore.IsPositive() {
		return nil, nil
	}
	if !req.AvailableBefore.IsPositive() {
		a.log.Warn().Str("move_id", m.ID).Str("warehouse_id", req.SourceWarehouseID).
			Msg("costo en destino en bodega sin saldo; no se traslada")
		return nil, nil
	}

	amount := inventory.ProportionalShare(sourceBefore, req.Quantity, req.AvailableBefore, a.p)
	balances := make([]inventory.AllocationBalance, 0, len(allocs))
	byID := make(map[int64]*entity.LandedCostAllocation, len(allocs))
	for _, al := range allocs {
		balances = append(balances, inventory.AllocationBalance{ID: al.ID, Value: al.LandedCostValue})
		byID[al.ID] = al
	}
	plan, leftover := inventory.PlanDepletion(balances, amount)
	for _, d := range plan {
		al := byID[d.ID]
		al.LandedCostValue = d.After
		if err := r.LandedCosts.UpdateValue(ctx, al); err != nil {
			return nil, fmt.Errorf("descontar asignación %d: %w", al.ID, err)
		}
	}
	moved := amount.Sub(leftover)

	destAllocs, err := r.LandedCosts.ListByWarehouse(ctx, m.CompanyID, m.ProductID, req.DestWarehouseID, false)
	if err != nil {
		return nil, fmt.Errorf("leer costo en destino de destino: %w", err)
	}
	destBefore := sumAllocations(destAllocs)
	now := time.Now().UTC()
	if moved.IsPositive() {
		alloc := &entity.LandedCostAllocation{
			CompanyID:        m.CompanyID,
			ValuationLayerID: req.DestLayer.ID,
			ProductID:        m.ProductID,
			WarehouseID:      req.DestWarehouseID,
			LandedCostValue:  moved,
			Quantity:         req.Quantity,
			SourceMoveID:     m.ID,
			CreatedAt:        now,
		}
		if err := r.LandedCosts.Create(ctx, alloc); err != nil {
			return nil, fmt.Errorf("crear asignación en destino: %w", err)
		}
	}

	audit := &entity.LandedCostTransferAudit{
		CompanyID:         m.CompanyID,
		MoveID:            m.ID,
		ProductID:         m.ProductID,
		SourceWarehouseID: req.SourceWarehouseID,
		DestWarehouseID:   req.DestWarehouseID,
		Quantity:          req.Quantity,
		Amount:            moved,
		SourceLCBefore:    sourceBefore,
		SourceLCAfter:     sourceBefore.Sub(moved),
		DestLCBefore:      destBefore,
		DestLCAfter:       destBefore.Add(moved),
		CreatedAt:         now,
	}
	if err := r.LandedCosts.CreateAudit(ctx, audit); err != nil {
		return nil, fmt.Errorf("registrar auditoría: %w", err)
	}
	a.log.Debug().Str("move_id", m.ID).Str("amount", moved.String()).
		Str("from", req.SourceWarehouseID).Str("to", req.DestWarehouseID).
		Msg("costo en destino trasladado")
	return audit, nil
}

// ReleaseConsumed descuenta de cada capa consumida por una salida (no traslado) la parte
// proporcional de sus asignaciones en la bodega; ese costo ya salió con la mercancía.
func (a *LandedCostAllocator) ReleaseConsumed(ctx context.Context, r repository.Repos, warehouseID string, consumed []ConsumedLayer) error {
	if len(consumed) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(consumed))
	for _, c := range consumed {
		ids = append(ids, c.Layer.ID)
	}
	allocs, err := r.LandedCosts.ListByLayers(ctx, ids)
	if err != nil {
		return fmt.Errorf("leer asignaciones: %w", err)
	}
	byLayer := make(map[int64][]*entity.LandedCostAllocation)
	for _, al := range allocs {
		if al.WarehouseID == warehouseID && al.LandedCostValue.IsPositive() {
			byLayer[al.ValuationLayerID] = append(byLayer[al.ValuationLayerID], al)
		}
	}
	for _, c := range consumed {
		for _, al := range byLayer[c.Layer.ID] {
			take := inventory.ProportionalShare(al.LandedCostValue, c.Consumption.Quantity, c.RemainingQty, a.p)
			if !take.IsPositive() {
				continue
			}
			al.LandedCostValue = al.LandedCostValue.Sub(take)
			if err := r.LandedCosts.UpdateValue(ctx, al); err != nil {
				return fmt.Errorf("liberar asignación %d: %w", al.ID, err)
			}
		}
	}
	return nil
}

// AttachReturn registra sobre la capa de una devolución la parte del costo en destino que la
// capa original recibió después de consumirse; ese costo ya está incluido en el valor de la capa.
func (a *LandedCostAllocator) AttachReturn(ctx context.Context, r repository.Repos, layer *entity.ValuationLayer, rc *ReturnCost) error {
	if rc == nil || layer == nil || !rc.LandedCost.IsPositive() {
		return nil
	}
	amount := inventory.ProportionalShare(rc.LandedCost, layer.Quantity, rc.OriginQuantity, a.p)
	if !amount.IsPositive() {
		return nil
	}
	alloc := &entity.LandedCostAllocation{
		CompanyID:        layer.CompanyID,
		ValuationLayerID: layer.ID,
		ProductID:        layer.ProductID,
		WarehouseID:      layer.WarehouseID,
		LandedCostValue:  amount,
		Quantity:         layer.Quantity,
		SourceMoveID:     layer.SourceMoveID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := r.LandedCosts.Create(ctx, alloc); err != nil {
		return fmt.Errorf("crear asignación de devolución: %w", err)
	}
	return nil
}

// AtWarehouse costo en destino vigente de un producto en una bodega.
func (a *LandedCostAllocator) AtWarehouse(ctx context.Context, r repository.Repos, companyID, productID, warehouseID string) (decimal.Decimal, error) {
	allocs, err := r.LandedCosts.ListByWarehouse(ctx, companyID, productID, warehouseID, false)
	if err != nil {
		return decimal.Zero, fmt.Errorf("leer costo en destino: %w", err)
	}
	return sumAllocations(allocs), nil
}

// UnitLandedCost costo en destino por unidad disponible en la bodega.
func (a *LandedCostAllocator) UnitLandedCost(ctx context.Context, r repository.Repos, companyID, productID, warehouseID string, available decimal.Decimal) (decimal.Decimal, error) {
	total, err := a.AtWarehouse(ctx, r, companyID, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return a.p.UnitCost(total, available), nil
}

// ConsumedPortion parte de un cálculo FIFO que corresponde a costo en destino:
// Σ cantidad consumida × asignación de la capa en la bodega / saldo de la capa.
func (a *LandedCostAllocator) ConsumedPortion(ctx context.Context, r repository.Repos, cost *FIFOCost) (decimal.Decimal, error) {
	if cost == nil || len(cost.Consumptions) == 0 {
		return decimal.Zero, nil
	}
	ids := make([]int64, 0, len(cost.Consumptions))
	for _, c := range cost.Consumptions {
		ids = append(ids, c.LayerID)
	}
	allocs, err := r.LandedCosts.ListByLayers(ctx, ids)
	if err != nil {
		return decimal.Zero, fmt.Errorf("leer asignaciones: %w", err)
	}
	perLayer := make(map[int64]decimal.Decimal)
	for _, al := range allocs {
		if al.WarehouseID == cost.WarehouseID {
			perLayer[al.ValuationLayerID] = perLayer[al.ValuationLayerID].Add(al.LandedCostValue)
		}
	}
	total := decimal.Zero
	for _, c := range cost.Consumptions {
		lc := perLayer[c.LayerID]
		if !lc.IsPositive() {
			continue
		}
		total = total.Add(inventory.ProportionalShare(lc, c.Quantity, cost.remainingBefore(c.LayerID), a.p))
	}
	return total, nil
}

func sumAllocations(allocs []*entity.LandedCostAllocation) decimal.Decimal {
	total := decimal.Zero
	for _, al := range allocs {
		total = total.Add(al.LandedCostValue)
	}
	return total
}
