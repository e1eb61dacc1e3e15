package validation

import (
	"fmt"

	"github.com/iwvelando/field-forecast/pkg/constants"
	"github.com/iwvelando/field-forecast/pkg/datetime"
	"github.com/iwvelando/field-forecast/pkg/mathutil"
)

// ValidateSchemaWeights warns when a claiming schema's step weights do not
// sum to 1. The weights are used as given either way.
func ValidateSchemaWeights(schemaID string, weights []float64) string {
	if len(weights) == 0 {
		return fmt.Sprintf("Schema '%s' has no steps - weighted progress will always be 0", schemaID)
	}
	sum := 0.0
	for _, weight := range weights {
		sum += weight
	}
	if !mathutil.WithinTolerance(sum, 1, constants.SchemaWeightTolerance) {
		return fmt.Sprintf("Schema '%s' step weights sum to %.3f, expected 1.000", schemaID, sum)
	}
	return ""
}

// ValidateEventOrder warns about the first event for a code whose date key
// is earlier than the event before it. Progress and staleness read the last
// event by position, so out-of-order input changes their results.
func ValidateEventOrder(code string, dates []string) string {
	for i := 1; i < len(dates); i++ {
		before, err := datetime.DateBeforeDate(dates[i], dates[i-1])
		if err != nil {
			continue
		}
		if before {
			return fmt.Sprintf("Events for '%s' are not in chronological order (%s follows %s) - enable project.sortEvents or reorder them",
				code, dates[i], dates[i-1])
		}
	}
	return ""
}

// ProjectValidator performs structural validation of a project and returns warnings.
type ProjectValidator struct {
	WorkUnits []WorkUnitConfig
	Schemas   []SchemaConfig
	Events    []EventConfig
	Overrides []string
	Inventory []string
	Sorted    bool
}

type WorkUnitConfig struct {
	Code          string
	BudgetedQty   float64
	BudgetedHours float64
	Schema        string
	Materials     []string
}

type SchemaConfig struct {
	ID      string
	Weights []float64
}

type EventConfig struct {
	Code   string
	Date   string
	Source string
}

// ValidateAll validates the entire project and returns warnings
func (pv *ProjectValidator) ValidateAll() []string {
	var warnings []string

	schemas := make(map[string]bool, len(pv.Schemas))
	for _, schema := range pv.Schemas {
		if schemas[schema.ID] {
			warnings = append(warnings, fmt.Sprintf("Schema '%s' is defined more than once - the first definition is used", schema.ID))
		}
		schemas[schema.ID] = true
		if warning := ValidateSchemaWeights(schema.ID, schema.Weights); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	materials := make(map[string]bool, len(pv.Inventory))
	for _, material := range pv.Inventory {
		materials[material] = true
	}

	codes := make(map[string]bool, len(pv.WorkUnits))
	for _, unit := range pv.WorkUnits {
		if unit.Code == "" {
			warnings = append(warnings, "Work unit with empty code")
		}
		if codes[unit.Code] {
			warnings = append(warnings, fmt.Sprintf("Work unit '%s' is defined more than once", unit.Code))
		}
		codes[unit.Code] = true

		if unit.BudgetedQty == 0 {
			warnings = append(warnings, fmt.Sprintf("Work unit '%s' has no budgeted quantity - simple progress will always be 0", unit.Code))
		}
		if unit.BudgetedHours == 0 {
			warnings = append(warnings, fmt.Sprintf("Work unit '%s' has no budgeted hours - earned hours will always be 0", unit.Code))
		}
		if unit.Schema != "" && !schemas[unit.Schema] {
			warnings = append(warnings, fmt.Sprintf("Work unit '%s' references unknown schema '%s' - falling back to simple progress", unit.Code, unit.Schema))
		}
		for _, material := range unit.Materials {
			if !materials[material] {
				warnings = append(warnings, fmt.Sprintf("Work unit '%s' requires material '%s' which is not in inventory", unit.Code, material))
			}
		}
	}

	datesByCode := make(map[string][]string)
	var order []string
	for _, event := range pv.Events {
		if !codes[event.Code] {
			warnings = append(warnings, fmt.Sprintf("Event on %s references unknown work unit '%s'", event.Date, event.Code))
			continue
		}
		if event.Source != "" && event.Source != constants.SourceKiosk && event.Source != constants.SourceManual {
			warnings = append(warnings, fmt.Sprintf("Event on %s for '%s' has unknown source '%s'", event.Date, event.Code, event.Source))
		}
		if pv.Sorted && !datetime.ValidDateKey(event.Date) {
			warnings = append(warnings, fmt.Sprintf("Event for '%s' has date '%s' that is not %s - it will sort after all dated events",
				event.Code, event.Date, datetime.DateKeyLayout))
		}
		if _, seen := datesByCode[event.Code]; !seen {
			order = append(order, event.Code)
		}
		datesByCode[event.Code] = append(datesByCode[event.Code], event.Date)
	}

	if !pv.Sorted {
		for _, code := range order {
			if warning := ValidateEventOrder(code, datesByCode[code]); warning != "" {
				warnings = append(warnings, warning)
			}
		}
	}

	overridden := make(map[string]bool, len(pv.Overrides))
	for _, code := range pv.Overrides {
		if !codes[code] {
			warnings = append(warnings, fmt.Sprintf("Override references unknown work unit '%s'", code))
		}
		if overridden[code] {
			warnings = append(warnings, fmt.Sprintf("Work unit '%s' has more than one override - the last one is used", code))
		}
		overridden[code] = true
	}

	return warnings
}
