// Package parsers turns raw tabular rows into canonical transaction
// records.
//
// Two source shapes are supported: a matrix of rows with positional
// columns (the structured age-due export, where party headers, data rows
// and total rows are interleaved) and keyed rows whose headers are
// located by substring heuristics (ledger and bank statement exports).
// Cell-level problems never abort a parse: values degrade through the
// normalize package and rows that produce no positive amount are dropped
// as non-transactional noise.
package parsers

import (
	"fmt"
	"strings"

	"ageing-reconciliation-service/internal/models"
	"ageing-reconciliation-service/internal/normalize"
	"ageing-reconciliation-service/pkg/logger"
)

// ParseAgedueRows folds a matrix of age-due rows into transactions.
//
// Row classification: a row with no date value, a non-empty reference
// column and no "Total" marker is a party header and updates the current
// party; a row whose reference column contains "Total" is skipped
// entirely (party context is kept); a row with a date value is a data row
// and becomes a transaction under the current party. Rows that normalize
// to a non-positive amount are discarded.
func ParseAgedueRows(rows [][]interface{}, cfg *AgedueParserConfig) ([]*models.Transaction, error) {
	if cfg == nil {
		cfg = DefaultAgedueParserConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid age-due parser config: %w", err)
	}

	log := logger.GetGlobalLogger().WithComponent("agedue_parser")

	var transactions []*models.Transaction
	currentParty := ""

	for i := cfg.SkipRows; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}

		reference := strings.TrimSpace(cellString(row, cfg.ReferenceColumn))
		rawDate := cellAt(row, cfg.DateColumn)
		isTotalRow := strings.Contains(reference, "Total")
		hasDate := !isEmptyCell(rawDate)

		switch {
		case !hasDate && reference != "" && !isTotalRow:
			currentParty = reference

		case hasDate && !isTotalRow:
			amount := normalize.Amount(cellAt(row, cfg.AmountColumn))
			if !amount.IsPositive() {
				continue
			}

			party := currentParty
			if party == "" {
				party = "Unknown"
			}

			transactions = append(transactions, &models.Transaction{
				ID:        fmt.Sprintf("AD-%d", i),
				Date:      normalize.DateWith(cfg.DateConvention, rawDate),
				Amount:    amount,
				PartyName: party,
				VoucherNo: reference,
			})
		}
	}

	log.WithFields(logger.Fields{
		"rows":         len(rows),
		"transactions": len(transactions),
	}).Debug("Parsed age-due rows")

	return transactions, nil
}

// cellAt returns the raw value at the given column, or nil when the row
// is too short.
func cellAt(row []interface{}, col int) interface{} {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// cellString stringifies the value at the given column; nil becomes "".
func cellString(row []interface{}, col int) string {
	v := cellAt(row, col)
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func isEmptyCell(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
