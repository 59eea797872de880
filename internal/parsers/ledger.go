package parsers

import (
	"fmt"
	"sort"
	"strings"

	"ageing-reconciliation-service/internal/models"
	"ageing-reconciliation-service/internal/normalize"
	"ageing-reconciliation-service/pkg/logger"
)

// KeyedRows is a sequence of records keyed by header name. Headers keeps
// the source column order so role resolution is deterministic: when
// several headers match a role fragment, the leftmost column wins.
type KeyedRows struct {
	Headers []string
	Rows    []map[string]interface{}
}

// ParseLedgerRows builds transactions from keyed rows whose headers are
// located by the configured role resolver.
//
// Exactly one of the debit and credit columns is expected to carry a
// positive value per well-formed row: the populated side decides both the
// amount and the transaction type. Rows that yield no positive amount
// (blank rows, header remnants, malformed cells) are discarded rather
// than reported as errors.
func ParseLedgerRows(source *KeyedRows, cfg *LedgerParserConfig) ([]*models.Transaction, error) {
	if source == nil {
		return nil, fmt.Errorf("ledger source cannot be nil")
	}
	if cfg == nil {
		cfg = DefaultLedgerParserConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger parser config: %w", err)
	}

	log := logger.GetGlobalLogger().WithComponent("ledger_parser")

	headers := source.Headers
	if len(headers) == 0 {
		headers = collectHeaders(source.Rows)
	}
	roles := cfg.Resolver.Resolve(headers)

	var transactions []*models.Transaction

	for i, row := range source.Rows {
		debit := normalize.Amount(roleValue(row, roles, RoleDebit))
		credit := normalize.Amount(roleValue(row, roles, RoleCredit))

		amount := debit
		txType := models.TransactionTypeDebit
		if !debit.IsPositive() {
			amount = credit
			txType = models.TransactionTypeCredit
		}
		if !amount.IsPositive() {
			continue
		}

		description := strings.TrimSpace(stringValue(roleValue(row, roles, RoleDescription)))
		if description == "" {
			description = cfg.DefaultDescription
		}

		transactions = append(transactions, &models.Transaction{
			ID:          fmt.Sprintf("L-%d", i),
			Date:        normalize.DateWith(cfg.DateConvention, roleValue(row, roles, RoleDate)),
			Amount:      amount,
			Type:        txType,
			PartyName:   description,
			Description: description,
			VoucherNo:   strings.TrimSpace(stringValue(roleValue(row, roles, RoleVoucher))),
		})
	}

	log.WithFields(logger.Fields{
		"rows":         len(source.Rows),
		"transactions": len(transactions),
	}).Debug("Parsed ledger rows")

	return transactions, nil
}

// collectHeaders derives a header list from the union of row keys, sorted
// for determinism. Used only when the source carries no header order.
func collectHeaders(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	var headers []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)
	return headers
}

func roleValue(row map[string]interface{}, roles map[ColumnRole]string, role ColumnRole) interface{} {
	header, ok := roles[role]
	if !ok {
		return nil
	}
	return row[header]
}

func stringValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
