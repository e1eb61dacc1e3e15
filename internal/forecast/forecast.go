// Package forecast defines the data structures related to a project forecast
// and includes functions for computing it from a loaded configuration.
package forecast

import (
	"fmt"
	"math"

	"github.com/iwvelando/field-forecast/internal/config"
	"github.com/iwvelando/field-forecast/internal/inventory"
	"github.com/iwvelando/field-forecast/pkg/earnedvalue"
	"github.com/iwvelando/field-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Progress modes
const (
	ModeSimple   = "simple"
	ModeWeighted = "weighted"
)

// Report holds every computed figure for one work unit.
type Report struct {
	Code          string
	Description   string
	UOM           string
	Mode          string
	BudgetedQty   float64
	BudgetedHours float64
	UnitCost      float64

	// Aggregate is the raw sum of the unit's events.
	Aggregate earnedvalue.Totals
	// UsesOverride is set when ActualQty/ActualHours come from a PM override.
	UsesOverride bool
	ActualQty    float64
	ActualHours  float64

	PercentComplete   float64
	EarnedHours       float64
	PerformanceFactor float64
	Status            string
	Stale             bool

	ECAC        earnedvalue.ECACResult
	ReverseRate *earnedvalue.ReverseRateResult
	Rollup      *earnedvalue.AssemblyRollup
	Drawdown    []earnedvalue.Drawdown

	Notes []string
}

// Totals are the project-level sums across all work units.
type Totals struct {
	BudgetCost        float64
	ActualCostToDate  float64
	ECAC              float64
	Variance          float64
	EarnedHours       float64
	ActualHours       float64
	PerformanceFactor float64
	Status            string
}

// Summary holds the forecast for a whole project.
type Summary struct {
	Project   string
	Reports   []Report
	Totals    Totals
	Inventory []earnedvalue.InventoryItem
}

// GetForecast computes the report for every work unit in file order, the
// project totals, and the inventory left after each event's drawdown is
// applied once. Event order must already be chronological (see
// config.Configuration.Prepare).
func GetForecast(logger *zap.Logger, conf config.Configuration) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	project := conf.Snapshot()
	if len(project.WorkUnits) == 0 {
		return Summary{}, fmt.Errorf("project %q has no work units", project.Name)
	}

	summary := Summary{
		Project: project.Name,
		Reports: make([]Report, 0, len(project.WorkUnits)),
	}

	for _, unit := range project.WorkUnits {
		var target *float64
		if value, ok := conf.TargetECACFor(unit.Code); ok {
			target = &value
		}

		report := EvaluateWorkUnit(project, unit, target)
		logger.Debug(fmt.Sprintf("evaluated work unit %s", unit.Code),
			zap.String("op", "forecast.GetForecast"),
			zap.String("mode", report.Mode),
			zap.Float64("percentComplete", report.PercentComplete),
			zap.Float64("performanceFactor", report.PerformanceFactor),
			zap.String("status", report.Status),
			zap.Float64("ecac", report.ECAC.ECAC),
			zap.Bool("override", report.UsesOverride),
		)
		if report.Stale {
			logger.Warn(fmt.Sprintf("claiming for %s is stale", unit.Code),
				zap.String("op", "forecast.GetForecast"),
			)
		}
		summary.Reports = append(summary.Reports, report)
	}

	summary.Totals = sumTotals(summary.Reports)

	ledger := inventory.NewLedger(logger, project.Inventory)
	applied := ledger.ApplyEvents(project.WorkUnits, project.Events)
	summary.Inventory = ledger.Items()

	logger.Info("forecast computed",
		zap.String("op", "forecast.GetForecast"),
		zap.String("project", project.Name),
		zap.Int("workUnits", len(summary.Reports)),
		zap.Int("events", len(project.Events)),
		zap.Int("drawdowns", applied),
		zap.Float64("ecac", summary.Totals.ECAC),
	)

	return summary, nil
}

// EvaluateWorkUnit runs the engine for one work unit. A non-nil target
// requests a reverse-rate calculation.
func EvaluateWorkUnit(project earnedvalue.Project, unit earnedvalue.WorkUnit, target *float64) Report {
	events := earnedvalue.EventsFor(project.Events, unit.Code)
	aggregate := earnedvalue.Aggregate(events, unit.Code)

	report := Report{
		Code:          unit.Code,
		Description:   unit.Description,
		UOM:           unit.UOM,
		Mode:          ModeSimple,
		BudgetedQty:   unit.BudgetedQty,
		BudgetedHours: unit.BudgetedHours,
		UnitCost:      unit.UnitCost,
		Aggregate:     aggregate,
		ActualQty:     aggregate.Qty,
		ActualHours:   aggregate.Hours,
	}

	if override, ok := project.Override(unit.Code); ok {
		report.UsesOverride = true
		report.ActualQty = override.Qty
		report.ActualHours = override.Hours
		report.Notes = append(report.Notes, "PM override in effect")
	}

	if _, ok := project.Schema(unit.SchemaID); ok {
		report.Mode = ModeWeighted
	}
	report.PercentComplete = earnedvalue.PercentComplete(unit, project, events, report.ActualQty)
	report.EarnedHours = earnedvalue.EarnedHours(unit.BudgetedHours, report.PercentComplete)
	report.PerformanceFactor = earnedvalue.PerformanceFactor(report.EarnedHours, report.ActualHours)
	report.Status = earnedvalue.ClassifyStatus(report.PerformanceFactor, report.ActualHours)
	if math.IsInf(report.PerformanceFactor, 1) {
		report.Notes = append(report.Notes, "progress claimed with no hours logged")
	}

	report.Stale = earnedvalue.IsClaimingStale(events)
	if report.Stale {
		report.Notes = append(report.Notes, "latest report has no progress snapshot")
	}

	input := earnedvalue.ECACInput{
		BudgetedQty:   unit.BudgetedQty,
		BudgetedHours: unit.BudgetedHours,
		ActualQty:     report.ActualQty,
		ActualHours:   report.ActualHours,
		UnitCost:      unit.UnitCost,
	}
	report.ECAC = earnedvalue.InlineECAC(input)
	if target != nil {
		reverse := earnedvalue.ReverseRate(input, *target)
		report.ReverseRate = &reverse
	}

	if len(unit.Components) > 0 {
		rollup := earnedvalue.RollupAssembly(unit, report.ActualHours)
		report.Rollup = &rollup
		for _, component := range rollup.Components {
			if !component.EAC.CanRecover {
				report.Notes = append(report.Notes, fmt.Sprintf("%s cannot recover within budget", component.Name))
			}
		}
	}

	report.Drawdown = earnedvalue.MaterialDrawdown(report.ActualQty, unit)
	return report
}

func sumTotals(reports []Report) Totals {
	var totals Totals
	for _, report := range reports {
		totals.BudgetCost += report.ECAC.BudgetCost
		totals.ActualCostToDate += report.ECAC.ActualCostToDate
		totals.ECAC += report.ECAC.ECAC
		totals.EarnedHours += report.EarnedHours
		totals.ActualHours += report.ActualHours
	}
	totals.BudgetCost = mathutil.Round(totals.BudgetCost)
	totals.ActualCostToDate = mathutil.Round(totals.ActualCostToDate)
	totals.ECAC = mathutil.Round(totals.ECAC)
	totals.Variance = mathutil.Round(totals.BudgetCost - totals.ECAC)
	totals.PerformanceFactor = earnedvalue.PerformanceFactor(totals.EarnedHours, totals.ActualHours)
	totals.Status = earnedvalue.ClassifyStatus(totals.PerformanceFactor, totals.ActualHours)
	return totals
}
