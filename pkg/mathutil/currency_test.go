package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round up", -1.235, -1.24},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Nearly two cents", 0.019, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundPlacesNonFinite(t *testing.T) {
	if got := RoundPlaces(math.Inf(1), 2); !math.IsInf(got, 1) {
		t.Errorf("RoundPlaces(+Inf) = %v, expected +Inf", got)
	}
	if got := RoundPlaces(math.NaN(), 2); !math.IsNaN(got) {
		t.Errorf("RoundPlaces(NaN) = %v, expected NaN", got)
	}
}

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		expected    float64
	}{
		{"Regular division", 10, 4, 2.5},
		{"Zero denominator", 10, 0, 0},
		{"Zero numerator", 0, 5, 0},
		{"Both zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SafeDivide(tt.numerator, tt.denominator)
			if result != tt.expected {
				t.Errorf("SafeDivide(%v, %v) = %v, expected %v", tt.numerator, tt.denominator, result, tt.expected)
			}
		})
	}
}

func TestClampUnit(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Inside range", 0.4, 0.4},
		{"Above one", 1.7, 1},
		{"Below zero", -0.2, 0},
		{"Exactly one", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ClampUnit(tt.input); result != tt.expected {
				t.Errorf("ClampUnit(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(1.0, 1.0005, 0.001) {
		t.Error("expected values to be within tolerance")
	}
	if WithinTolerance(1.0, 1.01, 0.001) {
		t.Error("expected values to be outside tolerance")
	}
}
