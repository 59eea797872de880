package matcher

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"ageing-reconciliation-service/internal/models"
)

func testTx(id, date string, amount float64) *models.Transaction {
	return &models.Transaction{
		ID:     id,
		Date:   date,
		Amount: decimal.NewFromFloat(amount),
	}
}

func testLedgerTx(id, date string, amount float64, voucher string) *models.Transaction {
	tx := testTx(id, date, amount)
	tx.VoucherNo = voucher
	return tx
}

func TestDefaultMatchingConfig(t *testing.T) {
	config := DefaultMatchingConfig()

	if !config.AmountTolerance.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("Expected amount tolerance 0.01, got %s", config.AmountTolerance)
	}
	if config.DateToleranceDays != 1 {
		t.Errorf("Expected date tolerance of 1 day, got %d", config.DateToleranceDays)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestMatchingConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *MatchingConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  DefaultMatchingConfig(),
			wantErr: false,
		},
		{
			name: "zero amount tolerance",
			config: &MatchingConfig{
				AmountTolerance:   decimal.Zero,
				DateToleranceDays: 1,
			},
			wantErr: true,
		},
		{
			name: "negative date tolerance",
			config: &MatchingConfig{
				AmountTolerance:   decimal.RequireFromString("0.01"),
				DateToleranceDays: -1,
			},
			wantErr: true,
		},
		{
			name: "zero date tolerance is allowed",
			config: &MatchingConfig{
				AmountTolerance:   decimal.RequireFromString("0.01"),
				DateToleranceDays: 0,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReconcileEmptyDatasets(t *testing.T) {
	engine := NewEngine(nil)
	txs := []*models.Transaction{testTx("AD-1", "2025-01-10", 500)}

	if _, err := engine.Reconcile(nil, txs); err == nil {
		t.Error("Expected error for empty primary dataset")
	}
	if _, err := engine.Reconcile(txs, nil); err == nil {
		t.Error("Expected error for empty secondary dataset")
	}
}

func TestReconcileExactMatch(t *testing.T) {
	engine := NewEngine(nil)

	primary := []*models.Transaction{
		testTx("AD-2", "2025-01-10", 500),
	}
	secondary := []*models.Transaction{
		testLedgerTx("L-0", "2025-01-10", 500, "V1"),
	}

	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	if summary.MatchedCount != 1 || summary.PendingCount != 0 {
		t.Fatalf("Expected 1 matched / 0 pending, got %d / %d",
			summary.MatchedCount, summary.PendingCount)
	}

	result := summary.Results[0]
	if result.Status != models.StatusMatched {
		t.Errorf("Expected status %s, got %s", models.StatusMatched, result.Status)
	}
	if result.MatchMethod != models.MethodExact {
		t.Errorf("Expected method %s, got %s", models.MethodExact, result.MatchMethod)
	}
	if result.LedgerRef != "L-0" {
		t.Errorf("Expected ledger ref L-0, got %s", result.LedgerRef)
	}
	if result.CorrectedVoucherNo != "V1" {
		t.Errorf("Expected corrected voucher V1, got %s", result.CorrectedVoucherNo)
	}
	if !summary.TotalAmountCleared.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected 500 cleared, got %s", summary.TotalAmountCleared)
	}
}

func TestReconcileToleranceMatch(t *testing.T) {
	engine := NewEngine(nil)

	primary := []*models.Transaction{
		testTx("AD-2", "2025-01-10", 500),
	}
	secondary := []*models.Transaction{
		testLedgerTx("L-0", "2025-01-11", 500, "V2"),
	}

	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	result := summary.Results[0]
	if result.Status != models.StatusMatched {
		t.Fatalf("Expected a tolerance match, got status %s", result.Status)
	}
	if result.MatchMethod != models.MethodTolerance {
		t.Errorf("Expected method %s, got %s", models.MethodTolerance, result.MatchMethod)
	}
}

func TestReconcileNoMatch(t *testing.T) {
	tests := []struct {
		name      string
		primary   *models.Transaction
		secondary *models.Transaction
	}{
		{
			name:      "amount differs beyond tolerance",
			primary:   testTx("AD-2", "2025-01-10", 500),
			secondary: testTx("L-0", "2025-01-10", 499),
		},
		{
			name:      "date beyond tolerance window",
			primary:   testTx("AD-2", "2025-01-10", 500),
			secondary: testTx("L-0", "2025-01-13", 500),
		},
		{
			name:      "amount at exact tolerance boundary",
			primary:   testTx("AD-2", "2025-01-10", 500),
			secondary: testTx("L-0", "2025-01-10", 500.01),
		},
		{
			name:      "unparseable primary date never tolerance-matches",
			primary:   testTx("AD-2", "not a date", 500),
			secondary: testTx("L-0", "2025-01-10", 500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(nil)
			summary, err := engine.Reconcile(
				[]*models.Transaction{tt.primary},
				[]*models.Transaction{tt.secondary},
			)
			if err != nil {
				t.Fatalf("Reconcile() failed: %v", err)
			}

			result := summary.Results[0]
			if result.Status != models.StatusPending {
				t.Errorf("Expected status %s, got %s", models.StatusPending, result.Status)
			}
			if result.LedgerRef != "" {
				t.Errorf("Pending result should carry no ledger ref, got %s", result.LedgerRef)
			}
		})
	}
}

func TestReconcileExactPassWinsOverTolerance(t *testing.T) {
	engine := NewEngine(nil)

	// The one-day-off entry comes first in the pool, but the exact pass
	// runs to completion before tolerance matching starts, so the
	// same-date entry must win.
	primary := []*models.Transaction{
		testTx("AD-2", "2025-01-10", 500),
	}
	secondary := []*models.Transaction{
		testLedgerTx("L-0", "2025-01-11", 500, "NEAR"),
		testLedgerTx("L-1", "2025-01-10", 500, "EXACT"),
	}

	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	result := summary.Results[0]
	if result.MatchMethod != models.MethodExact {
		t.Errorf("Expected exact match, got %s", result.MatchMethod)
	}
	if result.LedgerRef != "L-1" {
		t.Errorf("Expected L-1 consumed, got %s", result.LedgerRef)
	}
}

func TestReconcileFirstFitOrder(t *testing.T) {
	engine := NewEngine(nil)

	primary := []*models.Transaction{
		testTx("AD-2", "2025-01-10", 500),
	}
	secondary := []*models.Transaction{
		testLedgerTx("L-0", "2025-01-10", 500, "FIRST"),
		testLedgerTx("L-1", "2025-01-10", 500, "SECOND"),
	}

	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	if got := summary.Results[0].LedgerRef; got != "L-0" {
		t.Errorf("First-fit should consume L-0, got %s", got)
	}
}

func TestReconcileOneToOneConsumption(t *testing.T) {
	engine := NewEngine(nil)

	// Two identical primary items compete for a single pool entry; only
	// one may win it.
	primary := []*models.Transaction{
		testTx("AD-2", "2025-01-10", 500),
		testTx("AD-3", "2025-01-10", 500),
	}
	secondary := []*models.Transaction{
		testLedgerTx("L-0", "2025-01-10", 500, "V1"),
	}

	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	if summary.MatchedCount != 1 {
		t.Errorf("Expected exactly 1 match, got %d", summary.MatchedCount)
	}
	if summary.PendingCount != 1 {
		t.Errorf("Expected exactly 1 pending, got %d", summary.PendingCount)
	}
	if summary.Results[0].Status != models.StatusMatched {
		t.Errorf("Earlier primary item should win the entry")
	}
	if summary.Results[1].Status != models.StatusPending {
		t.Errorf("Later primary item should stay pending")
	}
}

func TestReconcileEmptyDatesMatchExactly(t *testing.T) {
	engine := NewEngine(nil)

	// Two items with unnormalizable dates still exact-match on the empty
	// canonical string when amounts agree.
	primary := []*models.Transaction{
		testTx("AD-2", "", 500),
	}
	secondary := []*models.Transaction{
		testLedgerTx("L-0", "", 500, "V1"),
	}

	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	result := summary.Results[0]
	if result.Status != models.StatusMatched {
		t.Fatalf("Expected empty dates to match exactly, got %s", result.Status)
	}
	if result.MatchMethod != models.MethodExact {
		t.Errorf("Expected method %s, got %s", models.MethodExact, result.MatchMethod)
	}
}

func TestReconcileWithinToleranceAmount(t *testing.T) {
	engine := NewEngine(nil)

	primary := []*models.Transaction{
		testTx("AD-2", "2025-01-10", 500),
	}
	secondary := []*models.Transaction{
		testLedgerTx("L-0", "2025-01-10", 500.005, "V1"),
	}

	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	if summary.Results[0].Status != models.StatusMatched {
		t.Errorf("Half-cent difference should match, got %s", summary.Results[0].Status)
	}
}

func TestReconcileCountInvariant(t *testing.T) {
	engine := NewEngine(nil)

	var primary, secondary []*models.Transaction
	for i := 0; i < 20; i++ {
		primary = append(primary, testTx(fmt.Sprintf("AD-%d", i+2), "2025-01-10", float64(100+i)))
	}
	// Half the pool matches, half is noise.
	for i := 0; i < 10; i++ {
		secondary = append(secondary, testLedgerTx(fmt.Sprintf("L-%d", i), "2025-01-10", float64(100+i), ""))
	}
	for i := 10; i < 20; i++ {
		secondary = append(secondary, testLedgerTx(fmt.Sprintf("L-%d", i), "2025-01-10", float64(9000+i), ""))
	}

	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		t.Fatalf("Reconcile() failed: %v", err)
	}

	if !summary.CountsConsistent() {
		t.Errorf("Counts inconsistent: %d matched + %d pending != %d results",
			summary.MatchedCount, summary.PendingCount, len(summary.Results))
	}
	if summary.MatchedCount != 10 {
		t.Errorf("Expected 10 matches, got %d", summary.MatchedCount)
	}
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	engine := NewEngine(nil)

	primary := []*models.Transaction{testTx("AD-2", "2025-01-10", 500)}
	secondary := []*models.Transaction{testLedgerTx("L-0", "2025-01-10", 500, "V1")}

	if _, err := engine.Reconcile(primary, secondary); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	// A second run over the same slices must see a fresh pool.
	summary, err := engine.Reconcile(primary, secondary)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if summary.MatchedCount != 1 {
		t.Errorf("Second run should match again, got %d matches", summary.MatchedCount)
	}
}
