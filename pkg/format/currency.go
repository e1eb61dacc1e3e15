// Package format renders report figures as display strings.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositive(math.Abs(amount), 2)
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Number returns a quantity with separators and the given decimal places (e.g., "1,234.5").
func Number(value float64, places int) string {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return Unbounded
	}
	sign := ""
	if value < 0 {
		sign = "-"
	}
	return sign + formatPositive(math.Abs(value), places)
}

func formatPositive(value float64, places int) string {
	formatted := fmt.Sprintf("%.*f", places, value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if len(parts) == 2 {
		return intPart + "." + parts[1]
	}
	return intPart
}
