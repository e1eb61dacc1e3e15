package validation

import (
	"strings"
	"testing"
)

func TestValidateSchemaWeights(t *testing.T) {
	tests := []struct {
		name       string
		weights    []float64
		expectWarn bool
	}{
		{"Weights sum to one", []float64{0.3, 0.5, 0.2}, false},
		{"Within tolerance", []float64{0.3333, 0.3333, 0.3334}, false},
		{"Weights sum above one", []float64{0.6, 0.6}, true},
		{"Weights sum below one", []float64{0.25, 0.25}, true},
		{"No steps", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateSchemaWeights("conduit", tt.weights)
			if hasWarning := warning != ""; hasWarning != tt.expectWarn {
				t.Errorf("ValidateSchemaWeights() warning = %q, expected warning %t", warning, tt.expectWarn)
			}
		})
	}
}

func TestValidateEventOrder(t *testing.T) {
	tests := []struct {
		name       string
		dates      []string
		expectWarn bool
	}{
		{"Chronological", []string{"2025-01-01", "2025-01-02", "2025-01-02"}, false},
		{"Out of order", []string{"2025-01-05", "2025-01-02"}, true},
		{"Opaque keys are skipped", []string{"week 2", "week 1"}, false},
		{"Single event", []string{"2025-01-05"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warning := ValidateEventOrder("E-100", tt.dates)
			if hasWarning := warning != ""; hasWarning != tt.expectWarn {
				t.Errorf("ValidateEventOrder() warning = %q, expected warning %t", warning, tt.expectWarn)
			}
		})
	}
}

func TestProjectValidatorValidateAll(t *testing.T) {
	validator := ProjectValidator{
		WorkUnits: []WorkUnitConfig{
			{Code: "E-100", BudgetedQty: 100, BudgetedHours: 50, Schema: "conduit", Materials: []string{"Wire"}},
			{Code: "E-200", BudgetedQty: 0, BudgetedHours: 10, Schema: "missing", Materials: []string{"Lugs"}},
			{Code: "E-100", BudgetedQty: 5, BudgetedHours: 5},
		},
		Schemas: []SchemaConfig{
			{ID: "conduit", Weights: []float64{0.5, 0.4}},
		},
		Events: []EventConfig{
			{Code: "E-100", Date: "2025-01-03", Source: "kiosk"},
			{Code: "E-100", Date: "2025-01-01", Source: "manual"},
			{Code: "E-300", Date: "2025-01-01"},
			{Code: "E-200", Date: "2025-01-01", Source: "email"},
		},
		Overrides: []string{"E-200", "E-200", "E-400"},
		Inventory: []string{"Wire"},
	}

	warnings := validator.ValidateAll()

	expectedFragments := []string{
		"Schema 'conduit' step weights sum to 0.900",
		"Work unit 'E-100' is defined more than once",
		"Work unit 'E-200' has no budgeted quantity",
		"Work unit 'E-200' references unknown schema 'missing'",
		"material 'Lugs' which is not in inventory",
		"unknown work unit 'E-300'",
		"unknown source 'email'",
		"Events for 'E-100' are not in chronological order",
		"Work unit 'E-200' has more than one override",
		"Override references unknown work unit 'E-400'",
	}

	joined := strings.Join(warnings, "\n")
	for _, fragment := range expectedFragments {
		if !strings.Contains(joined, fragment) {
			t.Errorf("expected warning containing %q, got:\n%s", fragment, joined)
		}
	}
	if len(warnings) != len(expectedFragments) {
		t.Errorf("expected %d warnings, got %d:\n%s", len(expectedFragments), len(warnings), joined)
	}
}

func TestProjectValidatorSortedSkipsOrderCheck(t *testing.T) {
	validator := ProjectValidator{
		WorkUnits: []WorkUnitConfig{{Code: "E-100", BudgetedQty: 1, BudgetedHours: 1}},
		Events: []EventConfig{
			{Code: "E-100", Date: "2025-01-03"},
			{Code: "E-100", Date: "2025-01-01"},
		},
		Sorted: true,
	}

	if warnings := validator.ValidateAll(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestProjectValidatorSortedUndatedEvent(t *testing.T) {
	validator := ProjectValidator{
		WorkUnits: []WorkUnitConfig{{Code: "E-100", BudgetedQty: 1, BudgetedHours: 1}},
		Events: []EventConfig{
			{Code: "E-100", Date: "2025-01-03"},
			{Code: "E-100", Date: "week 2"},
		},
		Sorted: true,
	}

	warnings := validator.ValidateAll()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "week 2") {
		t.Errorf("expected one undated event warning, got %v", warnings)
	}
}
