// Package config builds component configurations from CLI inputs.
package config

import (
	"github.com/shopspring/decimal"

	"ageing-reconciliation-service/internal/matcher"
	"ageing-reconciliation-service/internal/normalize"
	"ageing-reconciliation-service/internal/parsers"
	"ageing-reconciliation-service/internal/reporter"
)

// CreateAgedueParserConfig creates an age-due parser configuration with
// the given slash date convention.
func CreateAgedueParserConfig(conv normalize.DateConvention) *parsers.AgedueParserConfig {
	config := parsers.DefaultAgedueParserConfig()
	config.DateConvention = conv
	return config
}

// CreateLedgerParserConfig creates a ledger parser configuration with the
// given slash date convention.
func CreateLedgerParserConfig(conv normalize.DateConvention) *parsers.LedgerParserConfig {
	config := parsers.DefaultLedgerParserConfig()
	config.DateConvention = conv
	return config
}

// CreateMatchingConfig creates a matching configuration with the specified tolerances
func CreateMatchingConfig(dateTolerance int, amountTolerance float64) *matcher.MatchingConfig {
	config := matcher.DefaultMatchingConfig()

	// Apply CLI overrides
	config.DateToleranceDays = dateTolerance
	if amountTolerance > 0 {
		config.AmountTolerance = decimal.NewFromFloat(amountTolerance)
	}

	return config
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
	case "json":
		config.Format = reporter.FormatJSON
		config.IncludeMatched = true
		config.IncludePending = true
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
	case "xlsx":
		config.Format = reporter.FormatXLSX
	}

	return config
}
