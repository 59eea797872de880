package matcher

import (
	"sort"

	"github.com/shopspring/decimal"

	"ageing-reconciliation-service/internal/models"
)

// centFactor converts amounts to the cent buckets used for candidate
// lookup.
var centFactor = decimal.NewFromInt(100)

// poolEntry is one consumable counterpart transaction. Position records
// the entry's place in the original secondary list and drives first-fit
// ordering.
type poolEntry struct {
	position int
	tx       *models.Transaction
}

// ledgerPool is the per-run working set of counterpart transactions.
//
// Consumption is tracked in an explicit set of entry IDs scoped to the
// pool, never by mutating the transactions themselves, so the same parsed
// slice can back any number of concurrent reconciliation runs. Entries
// are additionally indexed by cent bucket so candidate scans touch only
// amounts near the target instead of sweeping the whole pool; within any
// candidate group the original pool order is preserved, keeping first-fit
// semantics intact.
type ledgerPool struct {
	entries  []*poolEntry
	byBucket map[int64][]*poolEntry
	consumed map[string]bool
}

// newLedgerPool builds a fresh pool from the secondary transaction list.
func newLedgerPool(secondary []*models.Transaction) *ledgerPool {
	pool := &ledgerPool{
		entries:  make([]*poolEntry, 0, len(secondary)),
		byBucket: make(map[int64][]*poolEntry),
		consumed: make(map[string]bool),
	}

	for i, tx := range secondary {
		entry := &poolEntry{position: i, tx: tx}
		pool.entries = append(pool.entries, entry)

		key := bucketKey(tx.Amount)
		pool.byBucket[key] = append(pool.byBucket[key], entry)
	}

	return pool
}

// bucketKey maps an amount to its cent bucket.
func bucketKey(amount decimal.Decimal) int64 {
	return amount.Mul(centFactor).IntPart()
}

// candidates returns the unconsumed entries whose amounts can possibly
// fall within tolerance of the target, in original pool order.
func (p *ledgerPool) candidates(amount, tolerance decimal.Decimal) []*poolEntry {
	span := tolerance.Mul(centFactor).Ceil().IntPart()
	key := bucketKey(amount)

	var result []*poolEntry
	for k := key - span; k <= key+span; k++ {
		for _, entry := range p.byBucket[k] {
			if !p.consumed[entry.tx.ID] {
				result = append(result, entry)
			}
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].position < result[j].position
	})

	return result
}

// findFirst returns the first unconsumed entry, in pool order, whose
// amount is strictly within tolerance of the target and which satisfies
// the pass-specific date predicate. Returns nil when no candidate
// qualifies.
func (p *ledgerPool) findFirst(amount, tolerance decimal.Decimal, accept func(*models.Transaction) bool) *poolEntry {
	for _, entry := range p.candidates(amount, tolerance) {
		if entry.tx.Amount.Sub(amount).Abs().GreaterThanOrEqual(tolerance) {
			continue
		}
		if !accept(entry.tx) {
			continue
		}
		return entry
	}
	return nil
}

// consume marks an entry as used for the remainder of the run. Consumed
// entries are never reconsidered and never reset within a run.
func (p *ledgerPool) consume(entry *poolEntry) {
	p.consumed[entry.tx.ID] = true
}

// remaining returns how many entries are still available.
func (p *ledgerPool) remaining() int {
	return len(p.entries) - len(p.consumed)
}
