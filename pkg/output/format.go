// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/field-forecast/internal/forecast"
	"github.com/iwvelando/field-forecast/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var csvHeader = []string{
	"code", "description", "mode", "uom",
	"budgeted qty", "actual qty", "budgeted hours", "actual hours",
	"percent complete", "earned hours", "performance factor", "status", "stale",
	"budget cost", "actual cost", "ecac", "variance", "required rate", "notes",
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(summary forecast.Summary) {
	fmt.Print(PrettyString(summary))
}

// PrettyString renders the human-readable report.
func PrettyString(summary forecast.Summary) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("--- Forecast for project %s ---\n", summary.Project))
	b.WriteString("Code     | Mode     | Qty             | Hours         | Complete | PF   | Status   | ECAC          | Notes\n")
	b.WriteString("____     | ____     | ___             | _____         | ________ | __   | ______   | ____          | _____\n")
	for _, report := range summary.Reports {
		b.WriteString(p.Sprintf("%s | %s | %.2f/%.2f %s | %.2f/%.2f | %s | %s | %s | %s | %s\n",
			report.Code,
			report.Mode,
			report.ActualQty, report.BudgetedQty, report.UOM,
			report.ActualHours, report.BudgetedHours,
			format.Percent(report.PercentComplete),
			format.Factor(report.PerformanceFactor),
			report.Status,
			format.Currency(report.ECAC.ECAC),
			strings.Join(report.Notes, ","),
		))
	}

	for _, report := range summary.Reports {
		if report.ReverseRate != nil {
			b.WriteString(fmt.Sprintf("\n%s to land at %s: %s units/hour over %s remaining hours\n",
				report.Code,
				format.Currency(report.ReverseRate.TargetECAC),
				format.Factor(report.ReverseRate.RequiredRate),
				format.Number(report.ReverseRate.RemainingHours, 2),
			))
		}
		if report.Rollup == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s components\n", report.Code))
		b.WriteString("Component | Weight | Progress | Bid rate | Rate | Flag | HAC | Recovery rate\n")
		for _, component := range report.Rollup.Components {
			b.WriteString(fmt.Sprintf("%s | %s | %s | %s | %s | %s | %s | %s\n",
				component.Name,
				format.Percent(component.Weight),
				format.Percent(component.ProgressPct),
				format.Factor(component.BidRate),
				format.Factor(component.InferredRate),
				component.Flag,
				format.Number(component.EAC.HoursAtCompletion, 2),
				format.Factor(component.EAC.RecoveryRate),
			))
		}
		b.WriteString(fmt.Sprintf("Hours at completion %s, overrun %s, impact %s\n",
			format.Number(report.Rollup.TotalHoursAtCompletion, 2),
			format.Number(report.Rollup.TotalOverrun, 2),
			format.Currency(report.Rollup.DollarImpact),
		))
	}

	totals := summary.Totals
	b.WriteString(fmt.Sprintf("\nBudget %s | Cost to date %s | ECAC %s | Variance %s | PF %s (%s)\n",
		format.Currency(totals.BudgetCost),
		format.Currency(totals.ActualCostToDate),
		format.Currency(totals.ECAC),
		format.Currency(totals.Variance),
		format.Factor(totals.PerformanceFactor),
		totals.Status,
	))

	if len(summary.Inventory) > 0 {
		b.WriteString("\nMaterial | On hand\n")
		for _, item := range summary.Inventory {
			b.WriteString(fmt.Sprintf("%s | %s %s\n", item.Material, format.Number(item.OnHand, 2), item.UOM))
		}
	}

	return b.String()
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(summary forecast.Summary) {
	fmt.Print(CsvString(summary))
}

// CsvString renders one row per work unit followed by a project total row.
func CsvString(summary forecast.Summary) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(csvHeader)

	for _, report := range summary.Reports {
		_ = w.Write([]string{
			report.Code,
			report.Description,
			report.Mode,
			report.UOM,
			decimal(report.BudgetedQty),
			decimal(report.ActualQty),
			decimal(report.BudgetedHours),
			decimal(report.ActualHours),
			decimal(report.PercentComplete * 100),
			decimal(report.EarnedHours),
			format.Factor(report.PerformanceFactor),
			report.Status,
			strconv.FormatBool(report.Stale),
			decimal(report.ECAC.BudgetCost),
			decimal(report.ECAC.ActualCostToDate),
			decimal(report.ECAC.ECAC),
			decimal(report.ECAC.Variance),
			format.Factor(report.ECAC.RequiredRate),
			strings.Join(report.Notes, ","),
		})
	}

	totals := summary.Totals
	_ = w.Write([]string{
		"total", summary.Project, "", "",
		"", "", "", decimal(totals.ActualHours),
		"", decimal(totals.EarnedHours), format.Factor(totals.PerformanceFactor), totals.Status, "",
		decimal(totals.BudgetCost), decimal(totals.ActualCostToDate), decimal(totals.ECAC), decimal(totals.Variance), "", "",
	})

	w.Flush()
	return b.String()
}

func decimal(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
