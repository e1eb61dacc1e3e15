package earnedvalue

import (
	"github.com/iwvelando/field-forecast/pkg/constants"
	"github.com/iwvelando/field-forecast/pkg/mathutil"
)

// SimplePercentComplete returns actualQty / budgetedQty clamped to [0, 1].
// A zero budget can never be complete and yields 0.
func SimplePercentComplete(actualQty, budgetedQty float64) float64 {
	if budgetedQty == 0 {
		return 0
	}
	return mathutil.ClampUnit(actualQty / budgetedQty)
}

// WeightedPercentComplete sums step weight times step percent over the
// progress snapshot of the most recent event only. Earlier snapshots are
// ignored once a later event exists, even when that later event has none.
func WeightedPercentComplete(schema ClaimingSchema, events []ProductionEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	latest := events[len(events)-1]

	pct := 0.0
	for _, step := range schema.Steps {
		// A missing step reads as zero from the nil or sparse map.
		pct += step.Weight * latest.Progress[step.Name] / constants.PercentageMultiplier
	}
	return pct
}

// PercentComplete selects the progress mode for a work unit: weighted when it
// references a schema present in the project, simple quantity ratio
// otherwise. events must already be filtered to the unit and in
// chronological order.
func PercentComplete(unit WorkUnit, project Project, events []ProductionEvent, actualQty float64) float64 {
	if schema, ok := project.Schema(unit.SchemaID); ok {
		return WeightedPercentComplete(schema, events)
	}
	return SimplePercentComplete(actualQty, unit.BudgetedQty)
}
