package valuation

import (
	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

// ToLayerResponse convierte una capa en su DTO.
func ToLayerResponse(l *entity.ValuationLayer) dto.LayerResponse {
	return dto.LayerResponse{
		ID:                 l.ID,
		ProductID:          l.ProductID,
		WarehouseID:        l.WarehouseID,
		LocationID:         l.LocationID,
		Quantity:           l.Quantity,
		UnitCost:           l.UnitCost,
		Value:              l.Value,
		RemainingQty:       l.RemainingQty,
		RemainingValue:     l.RemainingValue,
		SourceMoveID:       l.SourceMoveID,
		Description:        l.Description,
		Locked:             l.Locked,
		RecalculationRunID: l.RecalculationRunID,
		CreatedAt:          l.CreatedAt,
	}
}

func toLayerResponses(layers []*entity.ValuationLayer) []dto.LayerResponse {
	out := make([]dto.LayerResponse, 0, len(layers))
	for _, l := range layers {
		out = append(out, ToLayerResponse(l))
	}
	return out
}

func toAvailabilityDTOs(list []entity.WarehouseAvailability) []dto.WarehouseAvailabilityDTO {
	out := make([]dto.WarehouseAvailabilityDTO, 0, len(list))
	for _, a := range list {
		out = append(out, dto.WarehouseAvailabilityDTO{WarehouseID: a.WarehouseID, Quantity: a.Quantity, Value: a.Value})
	}
	return out
}

func toShortageDTO(s *ShortageReport) *dto.ShortageDTO {
	if s == nil {
		return nil
	}
	return &dto.ShortageDTO{
		Requested:    s.Requested,
		Available:    s.Available,
		Missing:      s.Missing,
		Alternatives: toAvailabilityDTOs(s.Alternatives),
	}
}

func toFIFOCostResponse(c *FIFOCost) dto.FIFOCostResponse {
	layers := make([]dto.ConsumedLayerDTO, 0, len(c.Consumptions))
	for _, x := range c.Consumptions {
		layers = append(layers, dto.ConsumedLayerDTO{LayerID: x.LayerID, Quantity: x.Quantity, Value: x.Value, UnitCost: x.UnitCost})
	}
	return dto.FIFOCostResponse{
		ProductID:   c.ProductID,
		WarehouseID: c.WarehouseID,
		Requested:   c.Requested,
		Quantity:    c.Quantity,
		Cost:        c.Cost,
		UnitCost:    c.UnitCost,
		Available:   c.Available,
		Layers:      layers,
		Shortage:    toShortageDTO(c.Shortage),
	}
}

func toAuditDTO(a *entity.LandedCostTransferAudit) *dto.LandedCostTransferDTO {
	if a == nil {
		return nil
	}
	return &dto.LandedCostTransferDTO{
		MoveID:            a.MoveID,
		ProductID:         a.ProductID,
		SourceWarehouseID: a.SourceWarehouseID,
		DestWarehouseID:   a.DestWarehouseID,
		Quantity:          a.Quantity,
		Amount:            a.Amount,
		SourceLCBefore:    a.SourceLCBefore,
		SourceLCAfter:     a.SourceLCAfter,
		DestLCBefore:      a.DestLCBefore,
		DestLCAfter:       a.DestLCAfter,
		CreatedAt:         a.CreatedAt,
	}
}

func toAllocationDTO(a *entity.LandedCostAllocation) dto.LandedCostAllocationDTO {
	return dto.LandedCostAllocationDTO{
		ID:               a.ID,
		ValuationLayerID: a.ValuationLayerID,
		WarehouseID:      a.WarehouseID,
		LandedCostValue:  a.LandedCostValue,
		Quantity:         a.Quantity,
		SourceMoveID:     a.SourceMoveID,
	}
}

// ToMoveValuationResponse convierte el resultado de Process.
func ToMoveValuationResponse(res *ProcessResult) *dto.MoveValuationResponse {
	out := &dto.MoveValuationResponse{
		MoveID:     res.MoveID,
		Kind:       string(res.Classification.Kind),
		Rule:       res.Classification.Rule,
		IsReturn:   res.Classification.IsReturn,
		Skipped:    res.Skipped,
		Reason:     res.Reason,
		Layers:     toLayerResponses(res.Layers),
		Shortage:   toShortageDTO(res.Shortage),
		LandedCost: toAuditDTO(res.LandedCost),
	}
	if rc := res.ReturnCost; rc != nil {
		out.ReturnCost = &dto.ReturnCostDTO{
			UnitCost:      rc.UnitCost,
			Source:        rc.Source,
			OriginMoveID:  rc.OriginMoveID,
			OriginLayerID: rc.OriginLayerID,
		}
	}
	return out
}
