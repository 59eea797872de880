package reporter

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"ageing-reconciliation-service/internal/ageing"
	"ageing-reconciliation-service/internal/models"
)

func sampleSummary() *models.ReconciliationSummary {
	return &models.ReconciliationSummary{
		MatchedCount:       1,
		PendingCount:       1,
		TotalAmountCleared: decimal.NewFromInt(500),
		Results: []*models.MatchResult{
			{
				Transaction: models.Transaction{
					ID:        "AD-2",
					Date:      "2025-01-10",
					Amount:    decimal.NewFromInt(500),
					PartyName: "Alpha Motors",
				},
				Status:             models.StatusMatched,
				MatchMethod:        models.MethodExact,
				LedgerRef:          "L-0",
				CorrectedVoucherNo: "V1",
			},
			{
				Transaction: models.Transaction{
					ID:        "AD-3",
					Date:      "2025-01-12",
					Amount:    decimal.NewFromInt(750),
					PartyName: "Beta Spares",
				},
				Status: models.StatusPending,
			},
		},
	}
}

func sampleGroups() []*ageing.Group {
	return ageing.BuildReport([]models.AgeingInput{
		{PartyName: "Alpha Motors", Date: "2025-06-10", ReferenceNo: "V1", Amount: decimal.NewFromInt(500)},
		{PartyName: "Alpha Motors", Date: "2025-02-01", ReferenceNo: "V2", Amount: decimal.NewFromInt(750)},
	}, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "100000", want: "1,00,000.00"},
		{amount: "2886", want: "2,886.00"},
		{amount: "12345678.5", want: "1,23,45,678.50"},
		{amount: "0", want: "0.00"},
	}

	for _, tt := range tests {
		got := FormatAmount(decimal.RequireFromString(tt.amount))
		if got != tt.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatSignedAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "100000", want: "1,00,000.00 Dr."},
		{amount: "-2886", want: "2,886.00 Cr."},
		{amount: "0", want: "0.00"},
	}

	for _, tt := range tests {
		got := FormatSignedAmount(decimal.RequireFromString(tt.amount))
		if got != tt.want {
			t.Errorf("FormatSignedAmount(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestReportConfigValidate(t *testing.T) {
	config := DefaultReportConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	config.Format = "yaml"
	if err := config.Validate(); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestWriteMatchReportConsole(t *testing.T) {
	rg, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := rg.WriteMatchReport(sampleSummary(), &buf); err != nil {
		t.Fatalf("WriteMatchReport() failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"RECONCILIATION REPORT", "Matched:", "AD-2", "AD-3", "Beta Spares"} {
		if !strings.Contains(out, want) {
			t.Errorf("Console output missing %q", want)
		}
	}
}

func TestWriteMatchReportJSON(t *testing.T) {
	rg, err := NewReportGenerator(&ReportConfig{Format: FormatJSON})
	if err != nil {
		t.Fatalf("NewReportGenerator() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := rg.WriteMatchReport(sampleSummary(), &buf); err != nil {
		t.Fatalf("WriteMatchReport() failed: %v", err)
	}

	var decoded models.ReconciliationSummary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.MatchedCount != 1 || len(decoded.Results) != 2 {
		t.Errorf("Unexpected decoded summary: %+v", decoded)
	}
}

func TestWriteMatchReportCSV(t *testing.T) {
	rg, err := NewReportGenerator(&ReportConfig{
		Format:         FormatCSV,
		IncludeMatched: true,
		IncludePending: true,
		CSVDelimiter:   ',',
		CSVHeaders:     true,
	})
	if err != nil {
		t.Fatalf("NewReportGenerator() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := rg.WriteMatchReport(sampleSummary(), &buf); err != nil {
		t.Fatalf("WriteMatchReport() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 records, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Date,Party") {
		t.Errorf("Unexpected CSV header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Primary (Exact)") {
		t.Errorf("Matched record missing method: %s", lines[1])
	}
}

func TestWriteAgeingReportConsole(t *testing.T) {
	rg, err := NewReportGenerator(nil)
	if err != nil {
		t.Fatalf("NewReportGenerator() failed: %v", err)
	}

	var buf bytes.Buffer
	reportDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	if err := rg.WriteAgeingReport(sampleGroups(), reportDate, &buf); err != nil {
		t.Fatalf("WriteAgeingReport() failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"AGEING REPORT as on 30-06-2025", "Alpha Motors", "1,250.00 Dr.", "V2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Console output missing %q", want)
		}
	}
}

func TestAgeingWorkbookName(t *testing.T) {
	tests := []struct {
		name   string
		groups []*ageing.Group
		want   string
	}{
		{
			name:   "multiple parties",
			groups: []*ageing.Group{{PartyName: "A"}, {PartyName: "B"}},
			want:   "Ageing_Report.xlsx",
		},
		{
			name:   "single party",
			groups: []*ageing.Group{{PartyName: "Alpha Motors (P) Ltd."}},
			want:   "Alpha_Motors_P_Ltd_Ageing.xlsx",
		},
		{
			name:   "no groups",
			groups: nil,
			want:   "Ageing_Report.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeingWorkbookName(tt.groups); got != tt.want {
				t.Errorf("AgeingWorkbookName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteAgeingWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ageing.xlsx")

	if err := WriteAgeingWorkbook(sampleGroups(), path); err != nil {
		t.Fatalf("WriteAgeingWorkbook() failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Ageing Report", "A1")
	if err != nil {
		t.Fatalf("GetCellValue() failed: %v", err)
	}
	// Single-party report carries the party name as its title.
	if title != "Alpha Motors" {
		t.Errorf("Expected title Alpha Motors, got %q", title)
	}

	header, err := f.GetCellValue("Ageing Report", "A2")
	if err != nil {
		t.Fatalf("GetCellValue() failed: %v", err)
	}
	if header != "References" {
		t.Errorf("Expected References header, got %q", header)
	}

	party, err := f.GetCellValue("Ageing Report", "A3")
	if err != nil {
		t.Fatalf("GetCellValue() failed: %v", err)
	}
	if party != "Alpha Motors#" {
		t.Errorf("Expected party header row, got %q", party)
	}
}

func TestWriteMatchList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.xlsx")

	if err := WriteMatchList(sampleSummary().Results, path); err != nil {
		t.Fatalf("WriteMatchList() failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	voucher, err := f.GetCellValue("Reconciliation Report", "E3")
	if err != nil {
		t.Fatalf("GetCellValue() failed: %v", err)
	}
	// Pending rows have no corrected voucher and render a dash.
	if voucher != "-" {
		t.Errorf("Expected '-', got %q", voucher)
	}
}

func TestDisplayDate(t *testing.T) {
	if got := displayDate("2025-06-10"); got != "10/06/2025" {
		t.Errorf("displayDate() = %q, want 10/06/2025", got)
	}
	if got := displayDate("pending"); got != "pending" {
		t.Errorf("displayDate() should pass through unparseable values, got %q", got)
	}
}
