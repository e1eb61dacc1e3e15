// Package constants provides shared constants for the field-forecast application.
package constants

import "time"

// DateKeyLayout is the format expected for event date keys when events are
// sorted chronologically. The engine itself treats date keys as opaque.
const DateKeyLayout = "2006-01-02"

// Rounding constants
const (
	// QuantityDecimalPlaces is the precision for material drawdown quantities
	QuantityDecimalPlaces = 2

	// CurrencyDecimalPlaces is the precision for currency rounding
	CurrencyDecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Performance factor thresholds for the three-tier status classification.
const (
	// OnTrackPerformanceFactor is the lowest PF still considered on track
	OnTrackPerformanceFactor = 0.95

	// AtRiskPerformanceFactor is the lowest PF considered at risk; anything
	// below it is over budget
	AtRiskPerformanceFactor = 0.80
)

// Component variance thresholds, expressed as inferred rate / bid rate.
const (
	// AheadRateRatio is the ratio at or above which a component is ahead
	AheadRateRatio = 1.10

	// BehindRateRatio is the ratio below which a component is behind
	BehindRateRatio = 0.90

	// RecoveryPaceMultiplier caps the recovery rate, relative to the bid
	// rate, that is still considered achievable
	RecoveryPaceMultiplier = 2.0
)

// Status values
const (
	StatusOnTrack = "on_track"
	StatusAtRisk  = "at_risk"
	StatusOver    = "over"

	FlagAhead   = "ahead"
	FlagOnTrack = "on_track"
	FlagBehind  = "behind"
)

// Event sources
const (
	SourceKiosk  = "kiosk"
	SourceManual = "manual"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default project file name
	DefaultConfigFile = "project.yaml"

	// ExampleConfigFile is the example project file name
	ExampleConfigFile = "project.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for project files (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeout is how long the server waits for in-flight requests
	DefaultShutdownTimeout = 10 * time.Second
)

// Validation constants
const (
	// SchemaWeightTolerance is how far claiming schema weights may drift
	// from 1.0 before a configuration warning is raised
	SchemaWeightTolerance = 0.001
)
