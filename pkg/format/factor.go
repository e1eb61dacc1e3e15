package format

import (
	"fmt"
	"math"

	"github.com/iwvelando/field-forecast/pkg/constants"
)

// Unbounded is shown in place of a ratio with a zero denominator.
const Unbounded = "n/a"

// Factor renders a performance factor or production rate to two places.
func Factor(value float64) string {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return Unbounded
	}
	return fmt.Sprintf("%.2f", value)
}

// Percent renders a unit fraction as a percentage (0.275 -> "27.5%").
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*constants.PercentageMultiplier)
}
