package earnedvalue

import (
	"math"

	"github.com/iwvelando/field-forecast/pkg/constants"
	"github.com/iwvelando/field-forecast/pkg/mathutil"
)

// ComponentWeights returns each component's share of the total budgeted
// hours. The weights sum to 1 when the total is positive and are all 0
// otherwise.
func ComponentWeights(components []Component) []float64 {
	total := 0.0
	for _, component := range components {
		total += component.BudgetedHours
	}

	weights := make([]float64, len(components))
	if total <= 0 {
		return weights
	}
	for i, component := range components {
		weights[i] = component.BudgetedHours / total
	}
	return weights
}

// ComponentEAC is the hours-at-completion projection for one component.
type ComponentEAC struct {
	RemainingQty      float64
	RemainingHours    float64
	HoursAtCompletion float64
	Overrun           float64
	RecoveryRate      float64
	CanRecover        bool
}

// ComponentAnalysis compares a component's back-allocated hours with its
// physical progress.
type ComponentAnalysis struct {
	Name   string
	Weight float64
	// AllocatedHours is the component's weight share of the parent's actual
	// hours. It is inferred, not separately logged.
	AllocatedHours float64
	ProgressPct    float64
	// EarnedValue is progress times budgeted hours. It is compared with
	// AllocatedHours, never merged into it.
	EarnedValue  float64
	BidRate      float64
	InferredRate float64
	Ratio        float64
	VariancePct  float64
	Flag         string
	EAC          ComponentEAC
}

// AnalyzeComponent computes the progress, rate variance and hours projection
// for one component given its weight and the parent's actual hours.
func AnalyzeComponent(component Component, weight, parentActualHours float64) ComponentAnalysis {
	analysis := ComponentAnalysis{
		Name:           component.Name,
		Weight:         weight,
		AllocatedHours: weight * parentActualHours,
		ProgressPct:    SimplePercentComplete(component.InstalledQty, component.PlanQty),
		BidRate:        mathutil.SafeDivide(component.PlanQty, component.BudgetedHours),
	}
	analysis.EarnedValue = analysis.ProgressPct * component.BudgetedHours
	analysis.InferredRate = mathutil.SafeDivide(component.InstalledQty, analysis.AllocatedHours)

	if analysis.BidRate == 0 {
		analysis.Flag = constants.FlagOnTrack
	} else {
		analysis.Ratio = analysis.InferredRate / analysis.BidRate
		analysis.VariancePct = (analysis.InferredRate - analysis.BidRate) / analysis.BidRate * constants.PercentageMultiplier
		switch {
		case analysis.Ratio >= constants.AheadRateRatio:
			analysis.Flag = constants.FlagAhead
		case analysis.Ratio >= constants.BehindRateRatio:
			analysis.Flag = constants.FlagOnTrack
		default:
			analysis.Flag = constants.FlagBehind
		}
	}

	analysis.EAC = componentEAC(component, analysis)
	return analysis
}

func componentEAC(component Component, analysis ComponentAnalysis) ComponentEAC {
	eac := ComponentEAC{
		RemainingQty: math.Max(0, component.PlanQty-component.InstalledQty),
	}

	if component.InstalledQty == 0 || analysis.AllocatedHours == 0 {
		// Not enough data to diverge from plan.
		eac.RemainingHours = mathutil.SafeDivide(eac.RemainingQty, analysis.BidRate)
		eac.HoursAtCompletion = component.BudgetedHours
		eac.RecoveryRate = analysis.BidRate
		eac.CanRecover = true
		return eac
	}

	eac.RemainingHours = eac.RemainingQty / analysis.InferredRate
	eac.HoursAtCompletion = analysis.AllocatedHours + eac.RemainingHours
	eac.Overrun = eac.HoursAtCompletion - component.BudgetedHours

	hoursLeft := math.Max(0, component.BudgetedHours-analysis.AllocatedHours)
	switch {
	case eac.RemainingQty == 0:
		eac.RecoveryRate = 0
	case hoursLeft == 0:
		eac.RecoveryRate = math.Inf(1)
	default:
		eac.RecoveryRate = eac.RemainingQty / hoursLeft
	}
	eac.CanRecover = CanRecover(eac.RecoveryRate, analysis.BidRate)
	return eac
}

// CanRecover reports whether the recovery rate is achievable, i.e. strictly
// less than twice the bid rate.
func CanRecover(recoveryRate, bidRate float64) bool {
	return recoveryRate < bidRate*constants.RecoveryPaceMultiplier
}

// AssemblyRollup folds the component projections back up to the parent.
type AssemblyRollup struct {
	Components             []ComponentAnalysis
	TotalHoursAtCompletion float64
	TotalOverrun           float64
	HourlyRate             float64
	DollarImpact           float64
	WeightedProgress       float64
}

// RollupAssembly analyzes every component of the work unit against the
// parent's actual hours and aggregates the result. A unit without components
// yields an empty rollup.
func RollupAssembly(unit WorkUnit, parentActualHours float64) AssemblyRollup {
	var rollup AssemblyRollup
	if len(unit.Components) == 0 {
		return rollup
	}

	weights := ComponentWeights(unit.Components)
	rollup.Components = make([]ComponentAnalysis, len(unit.Components))
	for i, component := range unit.Components {
		analysis := AnalyzeComponent(component, weights[i], parentActualHours)
		rollup.Components[i] = analysis
		rollup.TotalHoursAtCompletion += analysis.EAC.HoursAtCompletion
		rollup.WeightedProgress += analysis.ProgressPct * analysis.Weight
	}

	rollup.TotalOverrun = rollup.TotalHoursAtCompletion - unit.BudgetedHours
	rollup.HourlyRate = mathutil.SafeDivide(unit.UnitCost*unit.BudgetedQty, unit.BudgetedHours)
	rollup.DollarImpact = rollup.TotalOverrun * rollup.HourlyRate
	return rollup
}
