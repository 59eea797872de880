package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ageing-reconciliation-service/cmd/reconciler/config"
	"ageing-reconciliation-service/internal/matcher"
	"ageing-reconciliation-service/internal/normalize"
	"ageing-reconciliation-service/internal/parsers"
	"ageing-reconciliation-service/internal/reporter"
	apperrors "ageing-reconciliation-service/pkg/errors"
)

// Flags for the reconcile command
var (
	agedueFile      string
	ledgerFile      string
	outputFormat    string
	outputFile      string
	dateTolerance   int
	amountTolerance float64
	dateConvention  string
	exportXLSX      string
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile age-due items against ledger entries",
	Long: `Reconcile matches outstanding age-due items against ledger entries
using a two-pass algorithm: exact date matches first, then a one-day
tolerance window. Amounts must agree within the configured tolerance in
both passes, and every ledger entry is consumed at most once.

This command requires:
- An age-due export (xlsx, xls or CSV; party-grouped matrix layout)
- A ledger export (xlsx, xls or CSV; header-keyed rows)

Examples:
  # Basic reconciliation
  reconciler reconcile --agedue-file agedue.xlsx --ledger-file ledger.xls

  # Custom output format and tolerances
  reconciler reconcile --agedue-file agedue.xlsx --ledger-file ledger.csv \
    --output-format json --output-file report.json \
    --date-tolerance 2 --amount-tolerance 0.05

  # Month-first slash dates, plus a styled workbook of the results
  reconciler reconcile --agedue-file agedue.xlsx --ledger-file ledger.csv \
    --date-convention monthfirst --export-xlsx Match_List.xlsx`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	// Required flags
	reconcileCmd.Flags().StringVarP(&agedueFile, "agedue-file", "s", "", "path to the age-due export (required)")
	reconcileCmd.Flags().StringVarP(&ledgerFile, "ledger-file", "b", "", "path to the ledger export (required)")

	// Output flags
	reconcileCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	reconcileCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	reconcileCmd.Flags().StringVar(&exportXLSX, "export-xlsx", "", "also write the match list as an xlsx workbook")

	// Matching configuration flags
	reconcileCmd.Flags().IntVarP(&dateTolerance, "date-tolerance", "d", 1, "date matching tolerance in days")
	reconcileCmd.Flags().Float64VarP(&amountTolerance, "amount-tolerance", "a", 0.01, "strict upper bound on amount difference")
	reconcileCmd.Flags().StringVar(&dateConvention, "date-convention", "dayfirst", "slash date convention: dayfirst, monthfirst")

	// Mark required flags
	reconcileCmd.MarkFlagRequired("agedue-file")
	reconcileCmd.MarkFlagRequired("ledger-file")

	// Bind flags to viper
	viper.BindPFlag("agedue-file", reconcileCmd.Flags().Lookup("agedue-file"))
	viper.BindPFlag("ledger-file", reconcileCmd.Flags().Lookup("ledger-file"))
	viper.BindPFlag("output-format", reconcileCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", reconcileCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("export-xlsx", reconcileCmd.Flags().Lookup("export-xlsx"))
	viper.BindPFlag("date-tolerance", reconcileCmd.Flags().Lookup("date-tolerance"))
	viper.BindPFlag("amount-tolerance", reconcileCmd.Flags().Lookup("amount-tolerance"))
	viper.BindPFlag("date-convention", reconcileCmd.Flags().Lookup("date-convention"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	agedueFile = viper.GetString("agedue-file")
	ledgerFile = viper.GetString("ledger-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	exportXLSX = viper.GetString("export-xlsx")
	dateTolerance = viper.GetInt("date-tolerance")
	amountTolerance = viper.GetFloat64("amount-tolerance")
	dateConvention = viper.GetString("date-convention")

	// Validate required flags
	if agedueFile == "" {
		return fmt.Errorf("agedue-file is required")
	}
	if ledgerFile == "" {
		return fmt.Errorf("ledger-file is required")
	}

	// Validate file existence
	if err := validateFileExists(agedueFile, "age-due file"); err != nil {
		return err
	}
	if err := validateFileExists(ledgerFile, "ledger file"); err != nil {
		return err
	}

	// Validate output format
	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if _, err := normalize.ParseDateConvention(dateConvention); err != nil {
		return err
	}

	// Validate tolerances
	if dateTolerance < 0 {
		return fmt.Errorf("date tolerance cannot be negative")
	}
	if amountTolerance <= 0 {
		return fmt.Errorf("amount tolerance must be positive")
	}

	// Validate output file directory exists if specified
	for _, path := range []string{outputFile, exportXLSX} {
		if path == "" {
			continue
		}
		dir := filepath.Dir(path)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	// Check if file is readable
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting reconciliation...\n")
		fmt.Fprintf(os.Stderr, "Age-due file: %s\n", agedueFile)
		fmt.Fprintf(os.Stderr, "Ledger file: %s\n", ledgerFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
		if outputFile != "" {
			fmt.Fprintf(os.Stderr, "Output file: %s\n", outputFile)
		}
	}

	conv, err := normalize.ParseDateConvention(dateConvention)
	if err != nil {
		return err
	}

	// Parse the age-due export
	agedueRows, err := parsers.ReadMatrix(agedueFile)
	if err != nil {
		return err
	}
	primary, err := parsers.ParseAgedueRows(agedueRows, config.CreateAgedueParserConfig(conv))
	if err != nil {
		return err
	}
	if len(primary) == 0 {
		return apperrors.ValidationError(apperrors.CodeEmptyDataset, "age-due file", agedueFile).
			WithSuggestion("check that the export contains dated rows with positive amounts")
	}

	// Parse the ledger export
	ledgerRows, err := parsers.ReadKeyedRows(ledgerFile)
	if err != nil {
		return err
	}
	secondary, err := parsers.ParseLedgerRows(ledgerRows, config.CreateLedgerParserConfig(conv))
	if err != nil {
		return err
	}
	if len(secondary) == 0 {
		return apperrors.ValidationError(apperrors.CodeEmptyDataset, "ledger file", ledgerFile).
			WithSuggestion("check that the export has recognizable date and amount columns")
	}

	// Run the matching engine
	engine := matcher.NewEngine(config.CreateMatchingConfig(dateTolerance, amountTolerance))
	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		return err
	}

	// Generate report
	reportGenerator, err := reporter.NewReportGenerator(config.CreateReportConfig(outputFormat))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	output := os.Stdout
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	if err := reportGenerator.WriteMatchReport(summary, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if exportXLSX != "" {
		if err := reporter.WriteMatchList(summary.Results, exportXLSX); err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Match list written to %s\n", exportXLSX)
		}
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nReconciliation completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d age-due items against %d ledger entries.\n",
			len(primary), len(secondary))
		fmt.Fprintf(os.Stderr, "Found %d matches, %d pending items.\n",
			summary.MatchedCount, summary.PendingCount)
	}

	return nil
}
