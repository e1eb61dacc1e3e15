// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/field-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return RoundPlaces(val, constants.CurrencyDecimalPlaces)
}

// RoundPlaces rounds half away from zero to the given number of decimal
// places. Non-finite values are returned unchanged.
func RoundPlaces(val float64, places int32) float64 {
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return val
	}
	rounded, _ := decimal.NewFromFloat(val).Round(places).Float64()
	return rounded
}

// SafeDivide returns numerator / denominator, or 0 when the denominator is 0.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// ClampUnit clamps a ratio to [0, 1].
func ClampUnit(val float64) float64 {
	return math.Max(0, math.Min(val, 1))
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
