// Package constants provides shared constants for the loan-amortization tools.
package constants

// DateTimeLayout is the month format used for schedule start dates and due
// dates.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of monthly periods in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPlaces is the number of decimal places a currency amount carries
	DecimalPlaces = 2

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxTermPeriods is the longest accepted term, 100 years of monthly periods
	MaxTermPeriods = 1200
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default batch configuration file name
	DefaultConfigFile = "loans.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCacheBackend is the result cache used when none is configured
	DefaultCacheBackend = "memory"

	// DefaultCacheTTL is how long a cached calculation stays valid
	DefaultCacheTTL = "1h"

	// RequestIDHeader carries the per-request identifier
	RequestIDHeader = "X-Request-ID"
)
