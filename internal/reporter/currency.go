package reporter

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders an amount with Indian digit grouping and two
// decimal places, e.g. 100000 -> "1,00,000.00".
func FormatAmount(amount decimal.Decimal) string {
	f, _ := amount.Float64()
	return inPrinter.Sprintf("%v", number.Decimal(f,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// FormatSignedAmount renders an amount with its ledger side marker:
// positive values as "... Dr.", negative as "... Cr." on the absolute
// value, zero without a marker.
func FormatSignedAmount(amount decimal.Decimal) string {
	switch {
	case amount.IsPositive():
		return FormatAmount(amount) + " Dr."
	case amount.IsNegative():
		return FormatAmount(amount.Abs()) + " Cr."
	default:
		return FormatAmount(amount)
	}
}
