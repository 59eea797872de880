// Package normalize converts raw spreadsheet cell values into canonical
// amounts and dates.
//
// Source workbooks mix locale-formatted currency strings ("1,00,000.00 Dr."),
// plain numbers, spreadsheet serial dates and several slash-separated date
// layouts. The normalizers here degrade silently to safe defaults (zero,
// empty string) instead of returning errors: the system favors completing a
// best-effort reconciliation over halting on a malformed cell.
package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// serialEpochOffset is the number of days between the spreadsheet date
// epoch (1899-12-30) and the Unix epoch (1970-01-01).
const serialEpochOffset = 25569

// DaysSentinel is returned by DaysBetween when either date is missing or
// unparseable. It is large enough to exclude the pair from any realistic
// day tolerance.
const DaysSentinel = 999

const isoDateLayout = "2006-01-02"

var (
	drCrMarker  = regexp.MustCompile(`(?i)\s*[dc]r\.?`)
	nonNumeric  = regexp.MustCompile(`[^0-9.\-]`)
	slashedDate = regexp.MustCompile(`^\d{1,4}/\d{1,2}/\d{1,4}$`)
)

// DateConvention selects how ambiguous slash-separated dates are read.
// The convention is a fixed, caller-supplied assumption documented to
// users, never auto-detected per cell: a value like "02/04/2025" cannot be
// disambiguated from the data alone.
type DateConvention int

const (
	// DayFirst reads DD/MM/YYYY, the convention of the source ledgers.
	DayFirst DateConvention = iota
	// MonthFirst reads MM/DD/YYYY.
	MonthFirst
)

// String returns the string representation of the convention.
func (c DateConvention) String() string {
	switch c {
	case DayFirst:
		return "dayfirst"
	case MonthFirst:
		return "monthfirst"
	default:
		return "unknown"
	}
}

// ParseDateConvention parses a convention name as supplied on the CLI.
func ParseDateConvention(s string) (DateConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dayfirst", "dd/mm/yyyy":
		return DayFirst, nil
	case "monthfirst", "mm/dd/yyyy":
		return MonthFirst, nil
	default:
		return DayFirst, fmt.Errorf("unknown date convention %q: use dayfirst or monthfirst", s)
	}
}

// Amount converts a raw cell value into a decimal amount.
//
// Numeric values pass through unchanged. Strings are cleaned of thousands
// separators, of "Dr"/"Cr" side markers (with optional trailing period)
// and of any remaining non-numeric characters before parsing. Anything
// unparseable, nil or empty yields zero. Amount never returns an error.
func Amount(raw interface{}) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	}

	s := strings.TrimSpace(fmt.Sprintf("%v", raw))
	if s == "" {
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, ",", "")
	s = drCrMarker.ReplaceAllString(s, "")
	s = nonNumeric.ReplaceAllString(s, "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Date converts a raw cell value into a canonical YYYY-MM-DD string using
// the day-first convention. See DateWith for the full rules.
func Date(raw interface{}) string {
	return DateWith(DayFirst, raw)
}

// DateWith converts a raw cell value into a canonical YYYY-MM-DD string.
//
// Numeric values are treated as spreadsheet date serials (day 0 is
// 1899-12-30) and converted at UTC midnight. Slash-separated strings are
// split into three parts; a 4-digit first part means YYYY/MM/DD, a 4-digit
// last part means the year is last, and the given convention decides
// between day and month for the remaining positions. Any other string is
// returned trimmed as a best-effort fallback; nil or empty input yields
// the empty string.
func DateWith(conv DateConvention, raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case float64:
		return serialToDate(v)
	case float32:
		return serialToDate(float64(v))
	case int:
		return serialToDate(float64(v))
	case int64:
		return serialToDate(float64(v))
	case time.Time:
		return v.UTC().Format(isoDateLayout)
	}

	s := strings.TrimSpace(fmt.Sprintf("%v", raw))
	if s == "" {
		return ""
	}

	if slashedDate.MatchString(s) {
		parts := strings.Split(s, "/")
		if len(parts) == 3 {
			return assembleDate(conv, parts)
		}
	}

	return s
}

// serialToDate converts a spreadsheet serial number to an ISO date.
// Fractional serials carry a time-of-day component, which rounds to the
// nearest second before truncating to the calendar date.
func serialToDate(serial float64) string {
	secs := math.Round((serial - serialEpochOffset) * 86400)
	return time.Unix(int64(secs), 0).UTC().Format(isoDateLayout)
}

// assembleDate builds YYYY-MM-DD from three slash-separated parts,
// using digit count to locate the year and the convention to order the
// remaining day and month.
func assembleDate(conv DateConvention, parts []string) string {
	var year, month, day string

	switch {
	case len(parts[0]) == 4:
		year, month, day = parts[0], parts[1], parts[2]
	default:
		// Year last; first two positions follow the convention.
		year = parts[2]
		if conv == MonthFirst {
			month, day = parts[0], parts[1]
		} else {
			day, month = parts[0], parts[1]
		}
	}

	return fmt.Sprintf("%s-%s-%s", year, pad2(month), pad2(day))
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// DaysBetween returns the absolute difference between two canonical dates
// in whole days. Empty or unparseable dates yield DaysSentinel so the pair
// is effectively excluded from tolerance matching.
func DaysBetween(d1, d2 string) int {
	if d1 == "" || d2 == "" {
		return DaysSentinel
	}

	t1, err1 := time.Parse(isoDateLayout, d1)
	t2, err2 := time.Parse(isoDateLayout, d2)
	if err1 != nil || err2 != nil {
		return DaysSentinel
	}

	diff := t1.Sub(t2)
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

// DaysSince returns the signed number of whole days between a reference
// date and a canonical date string (positive when the date is in the
// past relative to the reference). Unparseable dates yield DaysSentinel.
func DaysSince(reference time.Time, date string) int {
	t, err := time.Parse(isoDateLayout, date)
	if err != nil {
		return DaysSentinel
	}

	ref := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	return int(ref.Sub(t) / (24 * time.Hour))
}
