// Package datetime provides date key utility functions.
package datetime

import (
	"time"

	"github.com/iwvelando/field-forecast/pkg/constants"
)

const (
	// DateKeyLayout is the format expected for event date keys.
	DateKeyLayout = constants.DateKeyLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ValidDateKey reports whether the key parses with DateKeyLayout.
func ValidDateKey(key string) bool {
	_, err := time.Parse(DateKeyLayout, key)
	return err == nil
}

// KeyBefore orders two date keys chronologically. Keys that do not parse
// sort after every key that does and compare equal to each other, so a
// stable sort keeps their relative order.
func KeyBefore(first, second string) bool {
	firstT, firstErr := time.Parse(DateKeyLayout, first)
	secondT, secondErr := time.Parse(DateKeyLayout, second)
	switch {
	case firstErr != nil:
		return false
	case secondErr != nil:
		return true
	default:
		return firstT.Before(secondT)
	}
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate string, secondDate string) (bool, error) {
	firstDateT, err := time.Parse(DateKeyLayout, firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := time.Parse(DateKeyLayout, secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}
