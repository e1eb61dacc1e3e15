package earnedvalue

import (
	"math"

	"github.com/iwvelando/field-forecast/pkg/constants"
	"github.com/iwvelando/field-forecast/pkg/mathutil"
)

// Drawdown is the quantity of one material consumed by installed work.
type Drawdown struct {
	Material string
	UOM      string
	Qty      float64
}

// MaterialDrawdown allocates each material requirement in proportion to the
// installed share of the budgeted quantity. It returns an empty slice when
// the unit has no budget or no requirements.
func MaterialDrawdown(installedQty float64, unit WorkUnit) []Drawdown {
	if unit.BudgetedQty == 0 || len(unit.Materials) == 0 {
		return []Drawdown{}
	}

	ratio := installedQty / unit.BudgetedQty
	drawdowns := make([]Drawdown, 0, len(unit.Materials))
	for _, requirement := range unit.Materials {
		drawdowns = append(drawdowns, Drawdown{
			Material: requirement.Material,
			UOM:      requirement.UOM,
			Qty:      mathutil.RoundPlaces(requirement.QtyRequired*ratio, constants.QuantityDecimalPlaces),
		})
	}
	return drawdowns
}

// ApplyDrawdown returns a copy of the inventory with each drawdown subtracted
// from the matching material, floored at zero. Drawdowns for materials not in
// inventory are ignored.
//
// Applying the same drawdown twice deducts twice; exactly-once application
// is the caller's responsibility.
func ApplyDrawdown(inventory []InventoryItem, drawdowns []Drawdown) []InventoryItem {
	updated := make([]InventoryItem, len(inventory))
	copy(updated, inventory)

	for _, drawdown := range drawdowns {
		for i := range updated {
			if updated[i].Material == drawdown.Material {
				updated[i].OnHand = math.Max(0, updated[i].OnHand-drawdown.Qty)
				break
			}
		}
	}
	return updated
}
