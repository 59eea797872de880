// Package models defines the canonical record types shared by the parsing,
// matching and ageing packages.
//
// A Transaction is immutable once built: parsers assign identifiers and
// normalize all values at construction time, and downstream components only
// read from it. Matching state lives on MatchResult, never on the
// Transaction itself, so the same parsed slice can safely feed several
// reconciliation runs.
package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes the two sides of a ledger entry.
type TransactionType string

const (
	// TransactionTypeDebit marks a debit transaction.
	TransactionTypeDebit TransactionType = "DEBIT"
	// TransactionTypeCredit marks a credit transaction.
	TransactionTypeCredit TransactionType = "CREDIT"
)

// String returns the string representation of TransactionType.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid checks if the transaction type is valid.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeDebit || t == TransactionTypeCredit
}

// MatchStatus is the terminal state of a reconciliation result.
type MatchStatus string

const (
	// StatusMatched means a counterpart ledger entry was consumed for this item.
	StatusMatched MatchStatus = "Matched"
	// StatusPending means no counterpart was found; this is a valid, reported
	// outcome, not an error.
	StatusPending MatchStatus = "Pending"
)

// MatchMethod records which matching pass produced a match. It is set
// exactly once and never reverted.
type MatchMethod string

const (
	// MethodExact is assigned by the first pass: identical canonical date
	// and amount within tolerance.
	MethodExact MatchMethod = "Primary (Exact)"
	// MethodTolerance is assigned by the second pass: amount within
	// tolerance and dates at most one day apart.
	MethodTolerance MatchMethod = "Secondary (Tolerance)"
)

// Transaction is a canonical transaction record produced by the parsers.
//
// Date is an ISO-8601 calendar date (YYYY-MM-DD) or the empty string when
// the source value could not be normalized. Amount is always positive;
// zero and negative rows are discarded during parsing.
type Transaction struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type,omitempty"`
	PartyName string          `json:"partyName,omitempty"`
	// Description carries the narration text for statement-shaped sources
	// where no party grouping exists.
	Description string `json:"description,omitempty"`
	VoucherNo   string `json:"voucherNo,omitempty"`
}

// Validate performs basic validation on the Transaction.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}

	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount)
	}

	if t.Type != "" && !t.Type.IsValid() {
		return fmt.Errorf("invalid transaction type: %s", t.Type)
	}

	return nil
}

// String returns a string representation of the Transaction.
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, Date: %s, Amount: %s, Party: %s}",
		t.ID, t.Date, t.Amount.String(), t.PartyName)
}

// MatchResult is a Transaction augmented with reconciliation outcome.
//
// LedgerRef identifies the counterpart pool entry consumed by the match and
// is present iff Status is Matched. CorrectedVoucherNo is the voucher
// number copied from that counterpart.
type MatchResult struct {
	Transaction
	Status             MatchStatus `json:"status"`
	MatchMethod        MatchMethod `json:"matchMethod,omitempty"`
	LedgerRef          string      `json:"ledgerRef,omitempty"`
	CorrectedVoucherNo string      `json:"correctedVoucherNo,omitempty"`
}

// IsMatched reports whether the result reached the Matched state.
func (r *MatchResult) IsMatched() bool {
	return r.Status == StatusMatched
}

// EffectiveReference returns the voucher reference to show on reports:
// the corrected voucher from the matched ledger entry when available,
// otherwise the item's own voucher number.
func (r *MatchResult) EffectiveReference() string {
	if r.CorrectedVoucherNo != "" {
		return r.CorrectedVoucherNo
	}
	return r.VoucherNo
}

// ReconciliationSummary aggregates one reconciliation run.
type ReconciliationSummary struct {
	MatchedCount       int             `json:"matchedCount"`
	PendingCount       int             `json:"pendingCount"`
	TotalAmountCleared decimal.Decimal `json:"totalAmountCleared"`
	Results            []*MatchResult  `json:"results"`
}

// CountsConsistent verifies the invariant that every primary item ended in
// exactly one terminal state.
func (s *ReconciliationSummary) CountsConsistent() bool {
	return s.MatchedCount+s.PendingCount == len(s.Results)
}

// String returns a one-line summary suitable for logging.
func (s *ReconciliationSummary) String() string {
	return fmt.Sprintf("ReconciliationSummary{Matched: %d, Pending: %d, Cleared: %s}",
		s.MatchedCount, s.PendingCount, s.TotalAmountCleared.String())
}

// AgeingInput is one record of the flat list consumed by the ageing
// aggregator: the matched/filtered reconciliation output, reshaped.
type AgeingInput struct {
	Date        string          `json:"date"`
	PartyName   string          `json:"partyName"`
	ReferenceNo string          `json:"referenceNo"`
	Amount      decimal.Decimal `json:"amount"`
}
