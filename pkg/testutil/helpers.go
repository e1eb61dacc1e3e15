// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/field-forecast/internal/forecast"
)

// FindReport finds a work unit report by code in the summary.
// Returns a pointer to the report if found, nil otherwise.
func FindReport(summary forecast.Summary, code string) *forecast.Report {
	for i := range summary.Reports {
		if summary.Reports[i].Code == code {
			return &summary.Reports[i]
		}
	}
	return nil
}
