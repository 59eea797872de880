package matcher

import (
	"ageing-reconciliation-service/internal/models"
	"ageing-reconciliation-service/internal/normalize"
	apperrors "ageing-reconciliation-service/pkg/errors"
	"ageing-reconciliation-service/pkg/logger"
)

// Engine pairs transactions from a primary dataset against a secondary
// pool under the configured tolerances.
type Engine struct {
	config *MatchingConfig
	log    logger.Logger
}

// NewEngine creates a matching engine. A nil config selects the defaults.
func NewEngine(config *MatchingConfig) *Engine {
	if config == nil {
		config = DefaultMatchingConfig()
	}

	return &Engine{
		config: config.Clone(),
		log:    logger.GetGlobalLogger().WithComponent("matcher"),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *MatchingConfig {
	return e.config.Clone()
}

// Reconcile runs both matching passes and returns the summary.
//
// Each call owns a fresh working pool cloned from secondary, so the same
// input slices can safely feed concurrent runs. Reconcile fails fast only
// on missing inputs; malformed data inside the transactions (empty dates,
// odd amounts) degrades to non-matches, never to errors.
func (e *Engine) Reconcile(primary, secondary []*models.Transaction) (*models.ReconciliationSummary, error) {
	if err := e.config.Validate(); err != nil {
		return nil, apperrors.ConfigError("matching", err)
	}
	if len(primary) == 0 {
		return nil, apperrors.ValidationError(apperrors.CodeEmptyDataset, "primary", len(primary)).
			WithSuggestion("parse the age-due dataset before reconciling")
	}
	if len(secondary) == 0 {
		return nil, apperrors.ValidationError(apperrors.CodeEmptyDataset, "secondary", len(secondary)).
			WithSuggestion("parse the ledger dataset before reconciling")
	}

	pool := newLedgerPool(secondary)

	results := make([]*models.MatchResult, len(primary))
	for i, tx := range primary {
		results[i] = &models.MatchResult{
			Transaction: *tx,
			Status:      models.StatusPending,
		}
	}

	summary := &models.ReconciliationSummary{Results: results}

	// Pass 1: exact match on canonical date. The pass completes over all
	// pending items before any tolerance matching is attempted.
	for _, result := range results {
		if result.IsMatched() {
			continue
		}

		entry := pool.findFirst(result.Amount, e.config.AmountTolerance,
			func(candidate *models.Transaction) bool {
				return candidate.Date == result.Date
			})
		if entry != nil {
			e.bind(result, entry, models.MethodExact, pool, summary)
		}
	}

	// Pass 2: amount within tolerance, dates at most DateToleranceDays
	// apart. Empty dates yield the day sentinel and never qualify here.
	for _, result := range results {
		if result.IsMatched() {
			continue
		}

		entry := pool.findFirst(result.Amount, e.config.AmountTolerance,
			func(candidate *models.Transaction) bool {
				return normalize.DaysBetween(candidate.Date, result.Date) <= e.config.DateToleranceDays
			})
		if entry != nil {
			e.bind(result, entry, models.MethodTolerance, pool, summary)
		}
	}

	summary.PendingCount = len(results) - summary.MatchedCount

	e.log.WithFields(logger.Fields{
		"primary":        len(primary),
		"secondary":      len(secondary),
		"matched":        summary.MatchedCount,
		"pending":        summary.PendingCount,
		"pool_remaining": pool.remaining(),
		"amount_cleared": summary.TotalAmountCleared.String(),
	}).Info("Reconciliation complete")

	return summary, nil
}

// bind consumes a pool entry for a result and records the match.
func (e *Engine) bind(result *models.MatchResult, entry *poolEntry, method models.MatchMethod, pool *ledgerPool, summary *models.ReconciliationSummary) {
	pool.consume(entry)

	result.Status = models.StatusMatched
	result.MatchMethod = method
	result.LedgerRef = entry.tx.ID
	result.CorrectedVoucherNo = entry.tx.VoucherNo

	summary.MatchedCount++
	summary.TotalAmountCleared = summary.TotalAmountCleared.Add(result.Amount)
}
