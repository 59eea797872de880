package parsers

import (
	"fmt"

	"ageing-reconciliation-service/internal/normalize"
)

// AgedueParserConfig configures parsing of the structured age-due export:
// a matrix of rows where party headers, data rows and total rows are
// interleaved and column positions are fixed.
type AgedueParserConfig struct {
	// ReferenceColumn holds the party name on header rows and the voucher
	// reference on data rows.
	ReferenceColumn int `json:"reference_column"`
	// DateColumn is the position of the transaction date.
	DateColumn int `json:"date_column"`
	// AmountColumn is the position of the outstanding amount.
	AmountColumn int `json:"amount_column"`
	// SkipRows is the number of leading header rows to ignore.
	SkipRows int `json:"skip_rows"`
	// DateConvention decides how ambiguous slash dates are read.
	DateConvention normalize.DateConvention `json:"date_convention"`
}

// DefaultAgedueParserConfig returns the column layout of the standard
// age-due export.
func DefaultAgedueParserConfig() *AgedueParserConfig {
	return &AgedueParserConfig{
		ReferenceColumn: 0,
		DateColumn:      2,
		AmountColumn:    4,
		SkipRows:        1,
		DateConvention:  normalize.DayFirst,
	}
}

// Validate checks if the age-due parser configuration is valid.
func (c *AgedueParserConfig) Validate() error {
	if c.ReferenceColumn < 0 {
		return fmt.Errorf("reference column cannot be negative: %d", c.ReferenceColumn)
	}
	if c.DateColumn < 0 {
		return fmt.Errorf("date column cannot be negative: %d", c.DateColumn)
	}
	if c.AmountColumn < 0 {
		return fmt.Errorf("amount column cannot be negative: %d", c.AmountColumn)
	}
	if c.SkipRows < 0 {
		return fmt.Errorf("skip rows cannot be negative: %d", c.SkipRows)
	}
	return nil
}

// LedgerParserConfig configures parsing of keyed ledger or bank statement
// rows, where column roles are located by header-name heuristics.
type LedgerParserConfig struct {
	// Resolver locates the header for each logical role. Defaults to the
	// fragment-based resolver when nil.
	Resolver RoleResolver `json:"-"`
	// DateConvention decides how ambiguous slash dates are read.
	DateConvention normalize.DateConvention `json:"date_convention"`
	// DefaultDescription is used when no description column resolves.
	DefaultDescription string `json:"default_description"`
}

// DefaultLedgerParserConfig returns a configuration with the standard
// header fragments.
func DefaultLedgerParserConfig() *LedgerParserConfig {
	return &LedgerParserConfig{
		Resolver:           NewFragmentRoleResolver(),
		DateConvention:     normalize.DayFirst,
		DefaultDescription: "No Description",
	}
}

// Validate checks if the ledger parser configuration is valid.
func (c *LedgerParserConfig) Validate() error {
	if c.Resolver == nil {
		return fmt.Errorf("ledger parser requires a role resolver")
	}
	return nil
}
