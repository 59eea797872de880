package reporter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ageing-reconciliation-service/internal/ageing"
	"ageing-reconciliation-service/internal/models"
	apperrors "ageing-reconciliation-service/pkg/errors"
)

const (
	matchListSheet = "Reconciliation Report"
	ageingSheet    = "Ageing Report"
)

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9 ]`)

// thinBorders is the all-sides thin border used by every styled cell.
var thinBorders = []excelize.Border{
	{Type: "top", Style: 1, Color: "000000"},
	{Type: "bottom", Style: 1, Color: "000000"},
	{Type: "left", Style: 1, Color: "000000"},
	{Type: "right", Style: 1, Color: "000000"},
}

// WriteMatchList writes the flat reconciliation result list as a plain
// workbook.
func WriteMatchList(results []*models.MatchResult, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", matchListSheet); err != nil {
		return apperrors.InternalError("workbook setup", err)
	}

	headers := []interface{}{"Party Name", "Date", "Amount", "Status", "Corrected Vh. No"}
	if err := f.SetSheetRow(matchListSheet, "A1", &headers); err != nil {
		return apperrors.InternalError("workbook write", err)
	}

	for i, r := range results {
		voucher := r.CorrectedVoucherNo
		if voucher == "" {
			voucher = "-"
		}

		row := []interface{}{
			r.PartyName,
			r.Date,
			r.Amount.InexactFloat64(),
			string(r.Status),
			voucher,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(matchListSheet, cell, &row); err != nil {
			return apperrors.InternalError("workbook write", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.FileError(apperrors.CodeFilePermission, path, err)
	}
	return nil
}

// AgeingWorkbookName derives the output filename for an ageing workbook.
// A single-party report is named after the party; anything else gets the
// generic name.
func AgeingWorkbookName(groups []*ageing.Group) string {
	if len(groups) != 1 {
		return "Ageing_Report.xlsx"
	}

	safe := unsafeFileChars.ReplaceAllString(groups[0].PartyName, "")
	safe = strings.Join(strings.Fields(safe), "_")
	if safe == "" {
		return "Ageing_Report.xlsx"
	}
	return safe + "_Ageing.xlsx"
}

// ageingStyles holds the style IDs registered on an output workbook.
type ageingStyles struct {
	title       int
	tableHeader int
	partyLeft   int
	partyRight  int
	normal      int
	center      int
	total       int
}

func registerAgeingStyles(f *excelize.File) (*ageingStyles, error) {
	s := &ageingStyles{}
	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Family: "Calibri"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	s.tableHeader, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: "Calibri"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Border:    thinBorders,
	})
	if err != nil {
		return nil, err
	}

	s.partyLeft, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Family: "Calibri"},
		Border: thinBorders,
	})
	if err != nil {
		return nil, err
	}

	s.partyRight, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: "Calibri"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorders,
	})
	if err != nil {
		return nil, err
	}

	s.normal, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: "Calibri"},
		Border: thinBorders,
	})
	if err != nil {
		return nil, err
	}

	s.center, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Calibri"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders,
	})
	if err != nil {
		return nil, err
	}

	s.total, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Family: "Calibri"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorders,
	})
	return s, err
}

// WriteAgeingWorkbook writes the styled per-party ageing workbook.
//
// Layout per party: a bold header row carrying the party name and grand
// total, one detail row per bill with its amount repeated in the matching
// bucket column, then a bold total row with per-bucket sums, then a
// spacer row.
func WriteAgeingWorkbook(groups []*ageing.Group, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ageingSheet); err != nil {
		return apperrors.InternalError("workbook setup", err)
	}

	styles, err := registerAgeingStyles(f)
	if err != nil {
		return apperrors.InternalError("workbook styles", err)
	}

	title := "AGEING REPORT"
	if len(groups) == 1 {
		title = groups[0].PartyName
	}

	if err := f.SetCellValue(ageingSheet, "A1", title); err != nil {
		return apperrors.InternalError("workbook write", err)
	}
	if err := f.MergeCell(ageingSheet, "A1", "I1"); err != nil {
		return apperrors.InternalError("workbook write", err)
	}
	if err := f.SetCellStyle(ageingSheet, "A1", "I1", styles.title); err != nil {
		return apperrors.InternalError("workbook write", err)
	}

	headers := []interface{}{
		"References", "Tot. Amt", "Date", "Days", "Bill. Amt",
		"1 To 30 Days", "31 To 60 Days", "61 To 120 Days", "121 To 360 Days",
	}
	if err := f.SetSheetRow(ageingSheet, "A2", &headers); err != nil {
		return apperrors.InternalError("workbook write", err)
	}
	if err := f.SetCellStyle(ageingSheet, "A2", "I2", styles.tableHeader); err != nil {
		return apperrors.InternalError("workbook write", err)
	}

	row := 3
	for _, group := range groups {
		// Party header row.
		header := []interface{}{group.PartyName + "#", group.TotalAmount.InexactFloat64()}
		if err := f.SetSheetRow(ageingSheet, fmt.Sprintf("A%d", row), &header); err != nil {
			return apperrors.InternalError("workbook write", err)
		}
		setStyle(f, styles.partyLeft, row, "A", "A")
		setStyle(f, styles.partyRight, row, "B", "B")
		setStyle(f, styles.normal, row, "C", "I")
		row++

		for _, bill := range group.Bills {
			detail := []interface{}{
				bill.Reference,
				"",
				displayDate(bill.Date),
				bill.Days,
				bill.Amount.InexactFloat64(),
			}
			for i := range ageing.Buckets {
				if bill.BucketIndex == i {
					detail = append(detail, bill.Amount.InexactFloat64())
				} else {
					detail = append(detail, "")
				}
			}

			if err := f.SetSheetRow(ageingSheet, fmt.Sprintf("A%d", row), &detail); err != nil {
				return apperrors.InternalError("workbook write", err)
			}
			setStyle(f, styles.normal, row, "A", "B")
			setStyle(f, styles.center, row, "C", "D")
			setStyle(f, styles.normal, row, "E", "I")
			row++
		}

		// Party total row.
		total := []interface{}{
			group.PartyName + " Total", "", "", "",
			group.TotalAmount.InexactFloat64(),
		}
		for _, bucketTotal := range group.BucketTotals {
			total = append(total, bucketTotal.InexactFloat64())
		}
		if err := f.SetSheetRow(ageingSheet, fmt.Sprintf("A%d", row), &total); err != nil {
			return apperrors.InternalError("workbook write", err)
		}
		setStyle(f, styles.total, row, "A", "I")
		row++

		// Spacer row.
		row++
	}

	widths := map[string]float64{
		"A": 35, "B": 15, "C": 12, "D": 8, "E": 15,
		"F": 15, "G": 15, "H": 15, "I": 15,
	}
	for col, width := range widths {
		if err := f.SetColWidth(ageingSheet, col, col, width); err != nil {
			return apperrors.InternalError("workbook setup", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.FileError(apperrors.CodeFilePermission, path, err)
	}
	return nil
}

func setStyle(f *excelize.File, styleID, row int, fromCol, toCol string) {
	// Styling is cosmetic; errors here never fail the export.
	_ = f.SetCellStyle(ageingSheet,
		fmt.Sprintf("%s%d", fromCol, row),
		fmt.Sprintf("%s%d", toCol, row),
		styleID)
}

// displayDate renders a canonical date as DD/MM/YYYY for the workbook,
// falling back to the raw value when it does not parse.
func displayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
