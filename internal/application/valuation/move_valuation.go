package valuation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/inventory"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
	"github.com/jhoicas/fifo-valuation-api/pkg/logger"
)

// ProcessOptions ajustes del procesamiento; la recalculación los usa para reconstruir capas.
type ProcessOptions struct {
	RunID  string
	Locked bool
	// Warehouses limita los lados del movimiento que se valoran (nil = todas las bodegas).
	Warehouses map[string]bool
	// SkipExisting no valora un lado si el movimiento ya tiene capa en esa bodega.
	SkipExisting bool
	Policy       *Policy
}

func (o ProcessOptions) inScope(warehouseID string) bool {
	return o.Warehouses == nil || o.Warehouses[warehouseID]
}

// ProcessResult capas creadas por un movimiento y datos del cálculo.
type ProcessResult struct {
	MoveID         string
	Classification inventory.Classification
	Layers         []*entity.ValuationLayer
	Shortage       *ShortageReport
	ReturnCost     *ReturnCost
	LandedCost     *entity.LandedCostTransferAudit
	Skipped        bool
	Reason         string
}

// MoveValuationService valora un movimiento finalizado: clasifica, consume FIFO,
// crea capas y mueve el costo en destino.
type MoveValuationService struct {
	settings   Settings
	fifo       *FIFOService
	landed     *LandedCostAllocator
	returns    *ReturnResolver
	classifier *inventory.Classifier
	costs      CostSource
	log        *logger.Logger
}

// NewMoveValuationService construye el servicio. costs nil usa DefaultCostSource.
func NewMoveValuationService(
	settings Settings,
	fifo *FIFOService,
	landed *LandedCostAllocator,
	returns *ReturnResolver,
	classifier *inventory.Classifier,
	costs CostSource,
	log *logger.Logger,
) *MoveValuationService {
	if costs == nil {
		costs = DefaultCostSource()
	}
	if classifier == nil {
		classifier = inventory.NewClassifier()
	}
	return &MoveValuationService{
		settings:   settings,
		fifo:       fifo,
		landed:     landed,
		returns:    returns,
		classifier: classifier,
		costs:      costs,
		log:        logger.OrNop(log).Component("move_valuation"),
	}
}

// Classifier clasificador usado por el servicio.
func (s *MoveValuationService) Classifier() *inventory.Classifier { return s.classifier }

// Costs fuente de costo de entradas.
func (s *MoveValuationService) Costs() CostSource { return s.costs }

// Returns resolvedor de costo de devoluciones.
func (s *MoveValuationService) Returns() *ReturnResolver { return s.returns }

// Settings valores por defecto del servicio.
func (s *MoveValuationService) Settings() Settings { return s.settings }

// ClassifyMove resuelve las ubicaciones del movimiento y lo clasifica sin escribir.
func (s *MoveValuationService) ClassifyMove(ctx context.Context, r repository.Repos, move *entity.Move) (inventory.Classification, error) {
	src, dst, err := s.locations(ctx, r, move, false)
	if err != nil {
		return inventory.Classification{}, err
	}
	return s.classifier.Classify(inventory.ClassifyInput{Move: move, Source: src, Destination: dst}), nil
}

// Process valora move dentro de la transacción de r. Movimientos no finalizados se omiten.
func (s *MoveValuationService) Process(ctx context.Context, r repository.Repos, move *entity.Move, opts ProcessOptions) (*ProcessResult, error) {
	if move == nil || move.ID == "" || move.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	res := &ProcessResult{MoveID: move.ID}
	if !move.IsDone() {
		res.Skipped = true
		res.Reason = "estado " + move.State
		return res, nil
	}
	if !move.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: cantidad del movimiento %s", domain.ErrInvalidInput, move.ID)
	}

	product, err := r.Products.GetByID(ctx, move.ProductID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil || product.CompanyID != move.CompanyID {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, move.ProductID)
	}

	policy := Policy{}
	if opts.Policy != nil {
		policy = *opts.Policy
	} else if policy, err = ReadPolicy(ctx, r.Configs, s.settings); err != nil {
		return nil, err
	}
	src, dst, err := s.locations(ctx, r, move, policy.ValidateLocations)
	if err != nil {
		return nil, err
	}
	if opts.Policy == nil {
		opts.Policy = &policy
	}

	cls := s.classifier.Classify(inventory.ClassifyInput{Move: move, Source: src, Destination: dst})
	res.Classification = cls

	existing := map[string]bool{}
	if opts.SkipExisting {
		layers, err := r.Layers.ListByMove(ctx, move.ID)
		if err != nil {
			return nil, fmt.Errorf("leer capas del movimiento: %w", err)
		}
		for _, l := range layers {
			existing[sideKey(l.WarehouseID, l.IsIncoming())] = true
		}
	}
	wants := func(warehouseID string, incoming bool) bool {
		return opts.inScope(warehouseID) && !existing[sideKey(warehouseID, incoming)]
	}

	switch cls.Kind {
	case inventory.KindIncoming:
		if !wants(cls.DestWarehouseID, true) {
			return skipped(res, "capa existente o fuera de alcance"), nil
		}
		err = s.incoming(ctx, r, move, product, dst, cls, opts, res)
	case inventory.KindOutgoing:
		if !wants(cls.SourceWarehouseID, false) {
			return skipped(res, "capa existente o fuera de alcance"), nil
		}
		err = s.outgoing(ctx, r, move, product, src, cls, opts, res)
	case inventory.KindTransfer:
		srcIn, dstIn := wants(cls.SourceWarehouseID, false), wants(cls.DestWarehouseID, true)
		if !srcIn && !dstIn {
			return skipped(res, "capa existente o fuera de alcance"), nil
		}
		err = s.transfer(ctx, r, move, product, src, dst, cls, opts, srcIn, dstIn, res)
	default:
		if cls.Unresolved() {
			s.log.Warn().Str("move_id", move.ID).Str("product_id", move.ProductID).
				Str("source_location_id", move.SourceLocationID).
				Str("destination_location_id", move.DestinationLocationID).
				Msg("movimiento sin bodega resoluble; no genera capa")
		}
		res.Reason = cls.Rule
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *MoveValuationService) incoming(ctx context.Context, r repository.Repos, move *entity.Move, product *entity.Product, dst *entity.Location, cls inventory.Classification, opts ProcessOptions, res *ProcessResult) error {
	var unit decimal.Decimal
	if cls.IsReturn {
		rc, err := s.returns.Resolve(ctx, r, move, product, cls.DestWarehouseID)
		if err != nil {
			return err
		}
		res.ReturnCost = rc
		unit = rc.UnitCost
	} else {
		c, ok := s.costs.UnitCost(ctx, move, product)
		if !ok {
			return fmt.Errorf("%w: entrada %s del producto %s", domain.ErrMissingCost, move.ID, move.ProductID)
		}
		unit = c
	}
	layer, err := s.fifo.Receive(ctx, r, ReceiveRequest{
		Move:        move,
		WarehouseID: cls.DestWarehouseID,
		LocationID:  locationID(dst),
		Quantity:    move.Quantity,
		UnitCost:    unit,
		Description: describe(move, cls),
		RunID:       opts.RunID,
		Locked:      opts.Locked,
	})
	if err != nil {
		return err
	}
	res.Layers = append(res.Layers, layer)
	return s.landed.AttachReturn(ctx, r, layer, res.ReturnCost)
}

func (s *MoveValuationService) outgoing(ctx context.Context, r repository.Repos, move *entity.Move, product *entity.Product, src *entity.Location, cls inventory.Classification, opts ProcessOptions, res *ProcessResult) error {
	req := ConsumeRequest{
		Move:        move,
		Product:     product,
		WarehouseID: cls.SourceWarehouseID,
		LocationID:  locationID(src),
		Quantity:    move.Quantity,
		Description: describe(move, cls),
		RunID:       opts.RunID,
		Locked:      opts.Locked,
		Policy:      opts.Policy,
	}
	if cls.IsReturn {
		rc, err := s.returns.Resolve(ctx, r, move, product, cls.SourceWarehouseID)
		if err != nil {
			return err
		}
		res.ReturnCost = rc
		req.UnitCost = &rc.UnitCost
	}
	out, err := s.fifo.Consume(ctx, r, req)
	if err != nil {
		return err
	}
	res.Layers = append(res.Layers, out.Layer)
	res.Shortage = out.Cost.Shortage
	return s.landed.ReleaseConsumed(ctx, r, cls.SourceWarehouseID, out.Consumed)
}

func (s *MoveValuationService) transfer(ctx context.Context, r repository.Repos, move *entity.Move, product *entity.Product, src, dst *entity.Location, cls inventory.Classification, opts ProcessOptions, srcIn, dstIn bool, res *ProcessResult) error {
	var override *decimal.Decimal
	if cls.IsReturn {
		rc, err := s.returns.Resolve(ctx, r, move, product, cls.SourceWarehouseID)
		if err != nil {
			return err
		}
		res.ReturnCost = rc
		override = &rc.UnitCost
	}

	var (
		value    decimal.Decimal
		consumed *ConsumeResult
	)
	if srcIn {
		out, err := s.fifo.Consume(ctx, r, ConsumeRequest{
			Move:        move,
			Product:     product,
			WarehouseID: cls.SourceWarehouseID,
			LocationID:  locationID(src),
			Quantity:    move.Quantity,
			UnitCost:    override,
			Description: describe(move, cls),
			RunID:       opts.RunID,
			Locked:      opts.Locked,
			Policy:      opts.Policy,
		})
		if err != nil {
			return err
		}
		consumed = out
		value = out.Layer.Value.Abs()
		res.Layers = append(res.Layers, out.Layer)
		res.Shortage = out.Cost.Shortage
	}
	if !dstIn {
		return nil
	}
	if consumed == nil {
		v, err := s.transferValue(ctx, r, move, product, cls, override)
		if err != nil {
			return err
		}
		value = v
	}
	pos, err := s.fifo.Receive(ctx, r, ReceiveRequest{
		Move:        move,
		WarehouseID: cls.DestWarehouseID,
		LocationID:  locationID(dst),
		Quantity:    move.Quantity,
		Value:       &value,
		Description: describe(move, cls),
		RunID:       opts.RunID,
		Locked:      opts.Locked,
	})
	if err != nil {
		return err
	}
	res.Layers = append(res.Layers, pos)
	if consumed == nil {
		return nil
	}
	audit, err := s.landed.Transfer(ctx, r, TransferRequest{
		Move:              move,
		SourceWarehouseID: cls.SourceWarehouseID,
		DestWarehouseID:   cls.DestWarehouseID,
		Quantity:          move.Quantity,
		AvailableBefore:   consumed.AvailableBefore,
		DestLayer:         pos,
	})
	if err != nil {
		return err
	}
	res.LandedCost = audit
	return nil
}

// transferValue valor del lado destino cuando el origen no se valora en esta pasada:
// la capa negativa ya persistida, el costo de devolución o el costo de respaldo.
func (s *MoveValuationService) transferValue(ctx context.Context, r repository.Repos, move *entity.Move, product *entity.Product, cls inventory.Classification, override *decimal.Decimal) (decimal.Decimal, error) {
	layers, err := r.Layers.ListByMove(ctx, move.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("leer capas del movimiento: %w", err)
	}
	for _, l := range layers {
		if !l.IsIncoming() && l.WarehouseID == cls.SourceWarehouseID {
			return l.Value.Abs(), nil
		}
	}
	if override != nil {
		return s.settings.Precision.LineValue(move.Quantity, *override), nil
	}
	if c, ok := (StandardPriceSource{}).UnitCost(ctx, move, product); ok {
		return s.settings.Precision.LineValue(move.Quantity, c), nil
	}
	return decimal.Zero, fmt.Errorf("%w: traslado %s sin capa de origen", domain.ErrMissingCost, move.ID)
}

// locations carga origen y destino. Con validate, una ubicación interna sin bodega o
// inexistente es un error antes de cualquier escritura.
func (s *MoveValuationService) locations(ctx context.Context, r repository.Repos, move *entity.Move, validate bool) (*entity.Location, *entity.Location, error) {
	load := func(id string) (*entity.Location, error) {
		if id == "" {
			return nil, nil
		}
		loc, err := r.Locations.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("leer ubicación %s: %w", id, err)
		}
		if !validate {
			return loc, nil
		}
		if loc == nil {
			return nil, fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, id)
		}
		if loc.IsInternal() && loc.WarehouseID == "" {
			return nil, fmt.Errorf("%w: ubicación %s (%s)", domain.ErrMissingWarehouse, loc.ID, loc.Name)
		}
		return loc, nil
	}
	src, err := load(move.SourceLocationID)
	if err != nil {
		return nil, nil, err
	}
	dst, err := load(move.DestinationLocationID)
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

func sideKey(warehouseID string, incoming bool) string {
	if incoming {
		return warehouseID + "+"
	}
	return warehouseID + "-"
}

func skipped(res *ProcessResult, reason string) *ProcessResult {
	res.Skipped = true
	res.Reason = reason
	return res
}

func locationID(l *entity.Location) string {
	if l == nil {
		return ""
	}
	return l.ID
}

func describe(m *entity.Move, cls inventory.Classification) string {
	if m.Reference != "" {
		return m.Reference + " (" + cls.Rule + ")"
	}
	return cls.Rule
}
