// Package constants provides shared constants for the scenario-engine application.
package constants

// Projection bounds
const (
	// MinProjectionYears is the shortest supported cash-flow projection horizon
	MinProjectionYears = 1

	// MaxProjectionYears is the longest supported cash-flow projection horizon
	MaxProjectionYears = 30

	// DefaultRehabHorizonYears is the horizon used for rehab ROI when none is given
	DefaultRehabHorizonYears = 10
)

// Discount rate bounds
const (
	// MinDiscountRate is the lowest accepted per-period discount rate
	MinDiscountRate = 0.0

	// MaxDiscountRate is the highest accepted per-period discount rate
	MaxDiscountRate = 1.0
)

// IRR root-finding defaults
const (
	// IRRLowerBound is the lower edge of the bisection bracket
	IRRLowerBound = -0.99

	// IRRUpperBound is the upper edge of the bisection bracket
	IRRUpperBound = 10.0

	// IRRTolerance is the |NPV| below which a candidate rate is accepted
	IRRTolerance = 1e-6

	// IRRMaxIterations caps the bisection loop
	IRRMaxIterations = 1000
)

// Escalation policies for multi-year projections
const (
	// EscalationCompound grows figures geometrically: base * (1+g)^(t-1)
	EscalationCompound = "compound"

	// EscalationFlat grows figures linearly: base * (1 + g*(t-1))
	EscalationFlat = "flat"
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
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
	// DefaultConfigFile is the default scenario configuration file name
	DefaultConfigFile = "scenarios.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum JSON request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultCacheTTL is the default lifetime of cached results, in seconds
	DefaultCacheTTL = 300
)
