package earnedvalue

import (
	"math"

	"github.com/iwvelando/field-forecast/pkg/mathutil"
)

// ECACInput holds the budget and to-date figures for a code-level forecast.
// ActualQty and ActualHours are either the raw aggregate or a PM override.
type ECACInput struct {
	BudgetedQty   float64
	BudgetedHours float64
	ActualQty     float64
	ActualHours   float64
	UnitCost      float64
}

// ECACResult is the code-level estimate cost at completion.
type ECACResult struct {
	BudgetCost       float64
	ActualCostToDate float64
	CurrentRate      float64
	RemainingQty     float64
	RemainingHours   float64
	RequiredRate     float64
	ECAC             float64
	// Variance is BudgetCost - ECAC; positive means under budget.
	Variance float64
}

// InlineECAC projects cost at completion from the current production rate.
//
// ECAC is quantity-cost based: actual cost to date plus remaining quantity at
// unit cost. RequiredRate is the pace needed to finish the remaining quantity
// within the original hour budget, independent of the current pace.
func InlineECAC(in ECACInput) ECACResult {
	result := ECACResult{
		BudgetCost:       in.BudgetedQty * in.UnitCost,
		ActualCostToDate: in.ActualQty * in.UnitCost,
		RemainingQty:     math.Max(0, in.BudgetedQty-in.ActualQty),
	}

	if in.ActualHours == 0 || in.ActualQty == 0 {
		// No observed rate yet, so the bid stands.
		result.ECAC = result.BudgetCost
		result.RequiredRate = mathutil.SafeDivide(in.BudgetedQty, in.BudgetedHours)
		return result
	}

	result.CurrentRate = in.ActualQty / in.ActualHours
	result.RemainingHours = mathutil.SafeDivide(result.RemainingQty, result.CurrentRate)
	result.ECAC = result.ActualCostToDate + result.RemainingQty*in.UnitCost
	result.RequiredRate = mathutil.SafeDivide(result.RemainingQty, math.Max(0, in.BudgetedHours-in.ActualHours))
	result.Variance = result.BudgetCost - result.ECAC
	return result
}

// ReverseRateResult is the production rate implied by a target ECAC.
type ReverseRateResult struct {
	TargetECAC      float64
	RemainingBudget float64
	AffordableUnits float64
	HoursPerUnit    float64
	RemainingHours  float64
	RequiredRate    float64
}

// ReverseRate back-solves the rate needed on the remaining scope to land on
// targetECAC. It is the algebraic inverse of InlineECAC, not a separate
// forecast.
func ReverseRate(in ECACInput, targetECAC float64) ReverseRateResult {
	actualCost := in.ActualQty * in.UnitCost
	remainingQty := math.Max(0, in.BudgetedQty-in.ActualQty)

	result := ReverseRateResult{TargetECAC: targetECAC}
	result.RemainingBudget = math.Max(0, targetECAC-actualCost)
	result.AffordableUnits = mathutil.SafeDivide(result.RemainingBudget, in.UnitCost)
	result.HoursPerUnit = mathutil.SafeDivide(in.BudgetedHours, in.BudgetedQty)
	result.RemainingHours = result.AffordableUnits * result.HoursPerUnit
	result.RequiredRate = mathutil.SafeDivide(remainingQty, result.RemainingHours)
	return result
}
