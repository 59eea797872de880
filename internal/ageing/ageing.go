// Package ageing groups outstanding items by party and buckets them by
// elapsed days relative to a caller-supplied report date.
package ageing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ageing-reconciliation-service/internal/models"
	"ageing-reconciliation-service/internal/normalize"
)

// Bucket is one inclusive day range of the ageing report.
type Bucket struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// Buckets are evaluated in order; the first containing range wins. Items
// older than the last bucket, not yet due, or with an unparseable date
// fall into no bucket but still count toward the party's grand total.
var Buckets = []Bucket{
	{Label: "1-30 Days", Min: 1, Max: 30},
	{Label: "31-60 Days", Min: 31, Max: 60},
	{Label: "61-120 Days", Min: 61, Max: 120},
	{Label: "121-360 Days", Min: 121, Max: 360},
}

// NoBucket is the bucket index of a bill that matched no bucket.
const NoBucket = -1

// Bill is one line of a party's ageing group.
type Bill struct {
	Reference   string          `json:"reference"`
	Date        string          `json:"date"`
	Days        int             `json:"days"`
	Amount      decimal.Decimal `json:"amount"`
	BucketIndex int             `json:"bucketIndex"`
}

// Group is the per-party aggregate: every bill of the party in input
// order, the signed grand total, and per-bucket running totals aligned
// with Buckets.
type Group struct {
	PartyName    string            `json:"partyName"`
	TotalAmount  decimal.Decimal   `json:"totalAmount"`
	Bills        []Bill            `json:"bills"`
	BucketTotals []decimal.Decimal `json:"bucketTotals"`
}

// bucketIndexFor returns the index of the first bucket containing the
// given age, or NoBucket.
func bucketIndexFor(days int) int {
	for i, b := range Buckets {
		if days >= b.Min && days <= b.Max {
			return i
		}
	}
	return NoBucket
}

// BuildReport groups the flat record list by party and computes the
// ageing aggregates against the given report date.
//
// Parties are sorted alphabetically; within a party, bills keep the input
// order. The report is built fresh on every call and shares no state with
// the inputs.
func BuildReport(records []models.AgeingInput, reportDate time.Time) []*Group {
	groups := make(map[string]*Group)
	var order []string

	for _, rec := range records {
		group, ok := groups[rec.PartyName]
		if !ok {
			group = &Group{
				PartyName:    rec.PartyName,
				BucketTotals: make([]decimal.Decimal, len(Buckets)),
			}
			groups[rec.PartyName] = group
			order = append(order, rec.PartyName)
		}

		days := normalize.DaysSince(reportDate, rec.Date)
		idx := bucketIndexFor(days)

		group.Bills = append(group.Bills, Bill{
			Reference:   rec.ReferenceNo,
			Date:        rec.Date,
			Days:        days,
			Amount:      rec.Amount,
			BucketIndex: idx,
		})

		group.TotalAmount = group.TotalAmount.Add(rec.Amount)
		if idx != NoBucket {
			group.BucketTotals[idx] = group.BucketTotals[idx].Add(rec.Amount)
		}
	}

	sort.Strings(order)

	result := make([]*Group, 0, len(order))
	for _, name := range order {
		result = append(result, groups[name])
	}
	return result
}

// InputsFromResults reshapes reconciliation output into ageing records.
// The reference column prefers the corrected voucher number taken from
// the matched ledger entry.
func InputsFromResults(results []*models.MatchResult) []models.AgeingInput {
	records := make([]models.AgeingInput, 0, len(results))
	for _, r := range results {
		records = append(records, models.AgeingInput{
			Date:        r.Date,
			PartyName:   r.PartyName,
			ReferenceNo: r.EffectiveReference(),
			Amount:      r.Amount,
		})
	}
	return records
}
