// Package reporter renders reconciliation summaries and ageing reports.
//
// Supported output formats:
//   - Console: human-readable tabular output for terminal display
//   - JSON: structured data for programmatic consumption
//   - CSV: flat rows for spreadsheet applications
//
// Styled xlsx workbooks are produced separately, see WriteAgeingWorkbook.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"ageing-reconciliation-service/internal/ageing"
	"ageing-reconciliation-service/internal/models"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
	FormatXLSX    OutputFormat = "xlsx"
)

// IsValid checks if the output format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV, FormatXLSX:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation.
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeMatched bool `json:"include_matched"`
	IncludePending bool `json:"include_pending"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration.
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:         FormatConsole,
		IncludeMatched: true,
		IncludePending: true,
		CSVDelimiter:   ',',
		CSVHeaders:     true,
	}
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	return nil
}

// ReportGenerator renders reports in the configured format.
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator. A nil config selects the
// defaults.
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// WriteMatchReport renders a reconciliation summary to the writer.
func (rg *ReportGenerator) WriteMatchReport(summary *models.ReconciliationSummary, writer io.Writer) error {
	if summary == nil {
		return fmt.Errorf("reconciliation summary cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.writeMatchConsole(summary, writer)
	case FormatJSON:
		return rg.writeJSON(summary, writer)
	case FormatCSV:
		return rg.writeMatchCSV(summary, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) writeMatchConsole(summary *models.ReconciliationSummary, writer io.Writer) error {
	fmt.Fprintf(writer, "RECONCILIATION REPORT\n\n")

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	total := len(summary.Results)
	fmt.Fprintf(writer, "Items:           %d\n", total)
	fmt.Fprintf(writer, "Matched:         %d (%.1f%%)\n",
		summary.MatchedCount, percentage(summary.MatchedCount, total))
	fmt.Fprintf(writer, "Pending:         %d (%.1f%%)\n",
		summary.PendingCount, percentage(summary.PendingCount, total))
	fmt.Fprintf(writer, "Amount Cleared:  %s\n\n", FormatAmount(summary.TotalAmountCleared))

	if rg.config.IncludeMatched && summary.MatchedCount > 0 {
		fmt.Fprintf(writer, "=== MATCHED ===\n")
		for _, r := range summary.Results {
			if !r.IsMatched() {
				continue
			}
			fmt.Fprintf(writer, "  %-8s %s  %14s  %-22s ref=%s\n",
				r.ID, r.Date, FormatAmount(r.Amount), r.MatchMethod, r.EffectiveReference())
		}
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludePending && summary.PendingCount > 0 {
		fmt.Fprintf(writer, "=== PENDING ===\n")
		for _, r := range summary.Results {
			if r.IsMatched() {
				continue
			}
			fmt.Fprintf(writer, "  %-8s %s  %14s  %s\n",
				r.ID, r.Date, FormatAmount(r.Amount), r.PartyName)
		}
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

func (rg *ReportGenerator) writeJSON(v interface{}, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (rg *ReportGenerator) writeMatchCSV(summary *models.ReconciliationSummary, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{"ID", "Date", "Party", "Amount", "Status", "Match_Method", "Ledger_Ref", "Voucher_No"}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, r := range summary.Results {
		if r.IsMatched() && !rg.config.IncludeMatched {
			continue
		}
		if !r.IsMatched() && !rg.config.IncludePending {
			continue
		}

		record := []string{
			r.ID,
			r.Date,
			r.PartyName,
			r.Amount.StringFixed(2),
			string(r.Status),
			string(r.MatchMethod),
			r.LedgerRef,
			r.EffectiveReference(),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write result record: %w", err)
		}
	}

	return csvWriter.Error()
}

// WriteAgeingReport renders ageing groups to the writer.
func (rg *ReportGenerator) WriteAgeingReport(groups []*ageing.Group, reportDate time.Time, writer io.Writer) error {
	switch rg.config.Format {
	case FormatConsole:
		return rg.writeAgeingConsole(groups, reportDate, writer)
	case FormatJSON:
		return rg.writeJSON(groups, writer)
	case FormatCSV:
		return rg.writeAgeingCSV(groups, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) writeAgeingConsole(groups []*ageing.Group, reportDate time.Time, writer io.Writer) error {
	fmt.Fprintf(writer, "AGEING REPORT as on %s\n\n", reportDate.Format("02-01-2006"))

	for _, group := range groups {
		fmt.Fprintf(writer, "%s\n", group.PartyName)
		for _, bill := range group.Bills {
			days := strconv.Itoa(bill.Days)
			if bill.BucketIndex == ageing.NoBucket {
				days = "-"
			}
			fmt.Fprintf(writer, "  %-20s %-12s %5s  %16s\n",
				bill.Reference, bill.Date, days, FormatSignedAmount(bill.Amount))
		}

		fmt.Fprintf(writer, "  %-40s %16s\n", "Total", FormatSignedAmount(group.TotalAmount))
		for i, bucket := range ageing.Buckets {
			if group.BucketTotals[i].IsZero() {
				continue
			}
			fmt.Fprintf(writer, "    %-38s %16s\n", bucket.Label, FormatSignedAmount(group.BucketTotals[i]))
		}
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

func (rg *ReportGenerator) writeAgeingCSV(groups []*ageing.Group, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{"Party", "Reference", "Date", "Days", "Amount", "Bucket"}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, group := range groups {
		for _, bill := range group.Bills {
			bucket := ""
			if bill.BucketIndex != ageing.NoBucket {
				bucket = ageing.Buckets[bill.BucketIndex].Label
			}

			record := []string{
				group.PartyName,
				bill.Reference,
				bill.Date,
				strconv.Itoa(bill.Days),
				bill.Amount.StringFixed(2),
				bucket,
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write bill record: %w", err)
			}
		}
	}

	return csvWriter.Error()
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}
