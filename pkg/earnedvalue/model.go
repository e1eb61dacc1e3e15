// Package earnedvalue turns raw field production events into percent
// complete, performance factor, estimate at completion and required-rate
// figures for budgeted work units.
//
// Every function in this package is pure: inputs are never mutated, no state
// is retained between calls and nothing is logged. Insufficient data is
// reported in-band (zero, +Inf, or an empty slice) rather than as an error.
package earnedvalue

// WorkUnit is a budgeted scope item identified by a unique code.
type WorkUnit struct {
	Code          string
	Description   string
	BudgetedQty   float64
	UOM           string
	BudgetedHours float64
	UnitCost      float64
	SchemaID      string
	Components    []Component
	Materials     []MaterialRequirement
}

// BudgetCost is the original budgeted cost of the work unit.
func (w WorkUnit) BudgetCost() float64 {
	return w.BudgetedQty * w.UnitCost
}

// BidRate is the budgeted production rate in units per hour.
func (w WorkUnit) BidRate() float64 {
	if w.BudgetedHours == 0 {
		return 0
	}
	return w.BudgetedQty / w.BudgetedHours
}

// Component is a named sub-scope of a work unit. Its weight is derived from
// its share of the sibling budgeted hours, see ComponentWeights.
type Component struct {
	Name          string
	PlanQty       float64
	UOM           string
	BudgetedHours float64
	InstalledQty  float64
}

// MaterialRequirement is the total quantity of a consumable needed to
// install the full budgeted quantity of a work unit.
type MaterialRequirement struct {
	Material    string
	UOM         string
	QtyRequired float64
}

// Step is one rule-of-credit milestone in a claiming schema.
type Step struct {
	Name   string
	Weight float64
}

// ClaimingSchema is an ordered set of weighted steps. Weights are expected to
// sum to 1.0 but this is not enforced.
type ClaimingSchema struct {
	ID    string
	Name  string
	Steps []Step
}

// ProductionEvent is one field report against a work unit. Progress maps a
// step name to its percent complete (0-100).
type ProductionEvent struct {
	ID         string
	Code       string
	Date       string
	Hours      float64
	Qty        float64
	EquipHours float64
	Note       string
	Progress   map[string]float64
	Source     string
}

// HasProgress reports whether the event carries a non-empty progress snapshot.
func (e ProductionEvent) HasProgress() bool {
	return len(e.Progress) > 0
}

// Override is a PM-validated quantity and hours pair that supersedes the raw
// aggregate for a work unit.
type Override struct {
	Code  string
	Qty   float64
	Hours float64
}

// InventoryItem is the on-hand quantity of a consumable.
type InventoryItem struct {
	Material string
	UOM      string
	OnHand   float64
}

// Project is an immutable snapshot of everything the engine reads.
type Project struct {
	Name      string
	WorkUnits []WorkUnit
	Schemas   []ClaimingSchema
	Events    []ProductionEvent
	Overrides []Override
	Inventory []InventoryItem
}

// Schema returns the claiming schema with the given ID.
func (p Project) Schema(id string) (ClaimingSchema, bool) {
	if id == "" {
		return ClaimingSchema{}, false
	}
	for _, schema := range p.Schemas {
		if schema.ID == id {
			return schema, true
		}
	}
	return ClaimingSchema{}, false
}

// Override returns the live override for a work unit code. When several are
// present the last one wins.
func (p Project) Override(code string) (Override, bool) {
	for i := len(p.Overrides) - 1; i >= 0; i-- {
		if p.Overrides[i].Code == code {
			return p.Overrides[i], true
		}
	}
	return Override{}, false
}
