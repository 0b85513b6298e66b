package inventory

import "github.com/jhoicas/fifo-valuation-api/internal/domain/entity"

// MoveKind forma de valoración de un movimiento.
type MoveKind string

const (
	KindIncoming MoveKind = "incoming" // capa positiva en la bodega destino
	KindOutgoing MoveKind = "outgoing" // capa negativa en la bodega origen (consume FIFO)
	KindTransfer MoveKind = "transfer" // negativa en origen + positiva en destino
	KindNeutral  MoveKind = "neutral"  // sin capa
)

// Nombres de las reglas de clasificación.
const (
	RuleReturn           = "return"
	RuleIncomingExternal = "incoming_external"
	RuleCustomerReturn   = "customer_return"
	RuleInterWarehouse   = "inter_warehouse"
	RuleSameWarehouse    = "same_warehouse"
	RuleOutgoing         = "outgoing"
	RuleUnresolved       = "unresolved"
)

// ClassifyInput movimiento con sus ubicaciones ya resueltas (pueden ser nil).
type ClassifyInput struct {
	Move        *entity.Move
	Source      *entity.Location
	Destination *entity.Location
}

func (in ClassifyInput) sourceWarehouse() string { return warehouseOf(in.Source) }
func (in ClassifyInput) destWarehouse() string   { return warehouseOf(in.Destination) }

func warehouseOf(loc *entity.Location) string {
	if loc == nil || !loc.IsInternal() {
		return ""
	}
	return loc.WarehouseID
}

func usageOf(loc *entity.Location) string {
	if loc == nil {
		return ""
	}
	return loc.Usage
}

// Classification resultado del clasificador.
type Classification struct {
	Kind              MoveKind
	SourceWarehouseID string
	DestWarehouseID   string
	IsReturn          bool
	Rule              string
}

// Unresolved indica que ninguna regla aplicó (anomalía detectable en la previsualización).
func (c Classification) Unresolved() bool { return c.Rule == RuleUnresolved }

// Rule fila de la tabla de decisión: la primera cuyo Match es verdadero gana.
type Rule struct {
	Name    string
	Match   func(in ClassifyInput) bool
	Outcome func(in ClassifyInput) Classification
}

// DefaultRules tabla de decisión en orden de prioridad.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: RuleReturn,
			Match: func(in ClassifyInput) bool {
				return in.Move.IsReturn() && (in.sourceWarehouse() != "" || in.destWarehouse() != "")
			},
			Outcome: func(in ClassifyInput) Classification {
				src, dst := in.sourceWarehouse(), in.destWarehouse()
				c := Classification{IsReturn: true, Rule: RuleReturn, SourceWarehouseID: src, DestWarehouseID: dst}
				switch {
				case src != "" && dst != "" && src != dst:
					c.Kind = KindTransfer
				case src != "" && dst != "":
					c.Kind = KindNeutral
				case dst != "":
					c.Kind = KindIncoming
				default:
					c.Kind = KindOutgoing
				}
				return c
			},
		},
		{
			Name: RuleIncomingExternal,
			Match: func(in ClassifyInput) bool {
				switch usageOf(in.Source) {
				case entity.LocationUsageSupplier, entity.LocationUsageProduction, entity.LocationUsageInventory:
					return in.destWarehouse() != ""
				}
				return false
			},
			Outcome: func(in ClassifyInput) Classification {
				return Classification{Kind: KindIncoming, DestWarehouseID: in.destWarehouse(), Rule: RuleIncomingExternal}
			},
		},
		{
			Name: RuleCustomerReturn,
			Match: func(in ClassifyInput) bool {
				return usageOf(in.Source) == entity.LocationUsageCustomer &&
					usageOf(in.Destination) == entity.LocationUsageInternal && in.destWarehouse() != ""
			},
			Outcome: func(in ClassifyInput) Classification {
				return Classification{Kind: KindIncoming, DestWarehouseID: in.destWarehouse(), Rule: RuleCustomerReturn}
			},
		},
		{
			Name: RuleInterWarehouse,
			Match: func(in ClassifyInput) bool {
				src, dst := in.sourceWarehouse(), in.destWarehouse()
				return src != "" && dst != "" && src != dst
			},
			Outcome: func(in ClassifyInput) Classification {
				return Classification{
					Kind:              KindTransfer,
					SourceWarehouseID: in.sourceWarehouse(),
					DestWarehouseID:   in.destWarehouse(),
					Rule:              RuleInterWarehouse,
				}
			},
		},
		{
			Name: RuleSameWarehouse,
			Match: func(in ClassifyInput) bool {
				src, dst := in.sourceWarehouse(), in.destWarehouse()
				return src != "" && src == dst
			},
			Outcome: func(in ClassifyInput) Classification {
				return Classification{
					Kind:              KindNeutral,
					SourceWarehouseID: in.sourceWarehouse(),
					DestWarehouseID:   in.destWarehouse(),
					Rule:              RuleSameWarehouse,
				}
			},
		},
		{
			Name: RuleOutgoing,
			Match: func(in ClassifyInput) bool {
				if usageOf(in.Source) != entity.LocationUsageInternal || in.sourceWarehouse() == "" {
					return false
				}
				switch usageOf(in.Destination) {
				case entity.LocationUsageCustomer, entity.LocationUsageProduction,
					entity.LocationUsageInventory, entity.LocationUsageSupplier:
					return true
				}
				return false
			},
			Outcome: func(in ClassifyInput) Classification {
				return Classification{Kind: KindOutgoing, SourceWarehouseID: in.sourceWarehouse(), Rule: RuleOutgoing}
			},
		},
	}
}

// Classifier evalúa la tabla de decisión.
type Classifier struct {
	rules []Rule
}

// NewClassifier construye el clasificador; sin reglas usa DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify devuelve la salida de la primera regla que aplica, o neutral/unresolved.
func (c *Classifier) Classify(in ClassifyInput) Classification {
	if in.Move != nil {
		for _, r := range c.rules {
			if r.Match(in) {
				return r.Outcome(in)
			}
		}
	}
	return Classification{
		Kind:              KindNeutral,
		SourceWarehouseID: in.sourceWarehouse(),
		DestWarehouseID:   in.destWarehouse(),
		IsReturn:          in.Move != nil && in.Move.IsReturn(),
		Rule:              RuleUnresolved,
	}
}
