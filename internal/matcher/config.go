// Package matcher implements the two-pass reconciliation engine.
//
// Matching is strictly date+amount based: a first pass pairs items whose
// amounts agree within tolerance and whose canonical dates are identical,
// then a second pass relaxes the date to a configurable day window. The
// first pass fully completes before the second begins, so precise matches
// are always preferred over fuzzy ones. Within a pass, candidates are
// taken first-fit in original pool order: a deterministic greedy choice,
// not a globally optimal assignment.
package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MatchingConfig holds the tolerances of the two matching passes.
type MatchingConfig struct {
	// AmountTolerance is the strict upper bound on the absolute amount
	// difference for both passes: |pool - item| < AmountTolerance.
	AmountTolerance decimal.Decimal `json:"amount_tolerance"`

	// DateToleranceDays is the maximum absolute day difference accepted
	// by the second pass.
	DateToleranceDays int `json:"date_tolerance_days"`
}

// DefaultMatchingConfig returns the standard tolerances: one cent of
// float safety on amounts and a single day of date drift.
func DefaultMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		AmountTolerance:   decimal.RequireFromString("0.01"),
		DateToleranceDays: 1,
	}
}

// Validate checks if the matching configuration is valid.
func (c *MatchingConfig) Validate() error {
	if !c.AmountTolerance.IsPositive() {
		return fmt.Errorf("amount tolerance must be positive, got %s", c.AmountTolerance)
	}

	if c.DateToleranceDays < 0 {
		return fmt.Errorf("date tolerance days cannot be negative: %d", c.DateToleranceDays)
	}

	return nil
}

// Clone creates a copy of the matching configuration.
func (c *MatchingConfig) Clone() *MatchingConfig {
	if c == nil {
		return nil
	}
	return &MatchingConfig{
		AmountTolerance:   c.AmountTolerance,
		DateToleranceDays: c.DateToleranceDays,
	}
}

// String returns a human-readable description of the configuration.
func (c *MatchingConfig) String() string {
	return fmt.Sprintf("MatchingConfig{AmountTolerance: %s, DateTolerance: %d days}",
		c.AmountTolerance, c.DateToleranceDays)
}
