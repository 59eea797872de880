package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ageing-reconciliation-service/cmd/reconciler/config"
	"ageing-reconciliation-service/internal/ageing"
	"ageing-reconciliation-service/internal/models"
	"ageing-reconciliation-service/internal/normalize"
	"ageing-reconciliation-service/internal/parsers"
	"ageing-reconciliation-service/internal/reporter"
	apperrors "ageing-reconciliation-service/pkg/errors"
)

// Flags for the ageing command
var (
	ageingInput      string
	ageingReportDate string
	ageingFormat     string
	ageingOutput     string
)

// ageingCmd represents the ageing command
var ageingCmd = &cobra.Command{
	Use:   "ageing",
	Short: "Build a bucketed ageing report from an age-due export",
	Long: `Ageing groups outstanding items by party and buckets them by days
elapsed since their date, relative to an explicit report date. Buckets
are 1-30, 31-60, 61-120 and 121-360 days; older items count only toward
the party total.

The report date is always supplied explicitly so reruns over the same
data produce the same report.

Examples:
  reconciler ageing --input agedue.xlsx --report-date 2026-01-02
  reconciler ageing --input agedue.xlsx --report-date 2026-01-02 --output-format xlsx
  reconciler ageing --input agedue.xlsx --report-date 2026-01-02 -f json -o ageing.json`,

	PreRunE: validateAgeingFlags,
	RunE:    runAgeing,
}

func init() {
	rootCmd.AddCommand(ageingCmd)

	ageingCmd.Flags().StringVarP(&ageingInput, "input", "i", "", "path to the age-due export (required)")
	ageingCmd.Flags().StringVarP(&ageingReportDate, "report-date", "r", "", "report date, YYYY-MM-DD (required)")
	ageingCmd.Flags().StringVarP(&ageingFormat, "output-format", "f", "console", "output format: console, json, csv, xlsx")
	ageingCmd.Flags().StringVarP(&ageingOutput, "output", "o", "", "output file path (default: stdout, or derived filename for xlsx)")

	ageingCmd.MarkFlagRequired("input")
	ageingCmd.MarkFlagRequired("report-date")

	viper.BindPFlag("ageing-input", ageingCmd.Flags().Lookup("input"))
	viper.BindPFlag("ageing-report-date", ageingCmd.Flags().Lookup("report-date"))
	viper.BindPFlag("ageing-output-format", ageingCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("ageing-output", ageingCmd.Flags().Lookup("output"))
}

func validateAgeingFlags(cmd *cobra.Command, args []string) error {
	ageingInput = viper.GetString("ageing-input")
	ageingReportDate = viper.GetString("ageing-report-date")
	ageingFormat = viper.GetString("ageing-output-format")
	ageingOutput = viper.GetString("ageing-output")

	if ageingInput == "" {
		return fmt.Errorf("input is required")
	}
	if err := validateFileExists(ageingInput, "age-due file"); err != nil {
		return err
	}

	if ageingReportDate == "" {
		return fmt.Errorf("report-date is required")
	}
	if _, err := time.Parse("2006-01-02", ageingReportDate); err != nil {
		return fmt.Errorf("invalid report date format. Use YYYY-MM-DD: %w", err)
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true, "xlsx": true}
	if !validFormats[ageingFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv, xlsx", ageingFormat)
	}

	return nil
}

func runAgeing(cmd *cobra.Command, args []string) error {
	reportDate, err := time.Parse("2006-01-02", ageingReportDate)
	if err != nil {
		return fmt.Errorf("invalid report date: %w", err)
	}

	rows, err := parsers.ReadMatrix(ageingInput)
	if err != nil {
		return err
	}

	transactions, err := parsers.ParseAgedueRows(rows, config.CreateAgedueParserConfig(normalize.DayFirst))
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		return apperrors.ValidationError(apperrors.CodeEmptyDataset, "age-due file", ageingInput).
			WithSuggestion("check that the export contains dated rows with positive amounts")
	}

	records := make([]models.AgeingInput, 0, len(transactions))
	for _, tx := range transactions {
		records = append(records, models.AgeingInput{
			Date:        tx.Date,
			PartyName:   tx.PartyName,
			ReferenceNo: tx.VoucherNo,
			Amount:      tx.Amount,
		})
	}

	groups := ageing.BuildReport(records, reportDate)

	if ageingFormat == "xlsx" {
		path := ageingOutput
		if path == "" {
			path = reporter.AgeingWorkbookName(groups)
		}
		if err := reporter.WriteAgeingWorkbook(groups, path); err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Ageing workbook written to %s\n", path)
		}
		return nil
	}

	reportGenerator, err := reporter.NewReportGenerator(config.CreateReportConfig(ageingFormat))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	output := os.Stdout
	if ageingOutput != "" {
		output, err = os.Create(ageingOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	return reportGenerator.WriteAgeingReport(groups, reportDate, output)
}
