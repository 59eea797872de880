package parsers

import (
	"strings"
)

// ColumnRole names the logical fields a source column can play.
type ColumnRole string

const (
	RoleDate        ColumnRole = "date"
	RoleDebit       ColumnRole = "debit"
	RoleCredit      ColumnRole = "credit"
	RoleDescription ColumnRole = "description"
	RoleParty       ColumnRole = "party"
	RoleVoucher     ColumnRole = "voucher"
)

// RoleResolver maps the headers actually present in a source to logical
// column roles. Header-driven and positional detection sit behind this one
// interface so new source layouts can be added without touching the
// matcher or the builders.
type RoleResolver interface {
	// Resolve returns the header chosen for each role. Roles with no
	// matching header are absent from the map.
	Resolve(headers []string) map[ColumnRole]string
}

// FragmentRoleResolver resolves roles by case-insensitive substring
// matching against a prioritized list of accepted header fragments per
// role. The first header containing any accepted fragment wins.
type FragmentRoleResolver struct {
	Fragments map[ColumnRole][]string
}

// DefaultRoleFragments returns the accepted header fragments for the
// ledger and bank statement layouts this service ingests.
func DefaultRoleFragments() map[ColumnRole][]string {
	return map[ColumnRole][]string{
		RoleDate:        {"date", "time"},
		RoleDebit:       {"debit", "withdrawal", "dr"},
		RoleCredit:      {"credit", "deposit", "cr"},
		RoleDescription: {"description", "narration", "particulars", "details"},
		RoleParty:       {"particulars", "party", "account"},
		RoleVoucher:     {"vh", "voucher", "ref"},
	}
}

// NewFragmentRoleResolver creates a resolver with the default fragments.
func NewFragmentRoleResolver() *FragmentRoleResolver {
	return &FragmentRoleResolver{Fragments: DefaultRoleFragments()}
}

// Resolve implements RoleResolver.
func (r *FragmentRoleResolver) Resolve(headers []string) map[ColumnRole]string {
	resolved := make(map[ColumnRole]string)

	for role, fragments := range r.Fragments {
		for _, header := range headers {
			if headerMatches(header, fragments) {
				resolved[role] = header
				break
			}
		}
	}

	return resolved
}

func headerMatches(header string, fragments []string) bool {
	lower := strings.ToLower(header)
	for _, fragment := range fragments {
		if strings.Contains(lower, strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

// PositionalRoleResolver resolves roles by fixed column index, for matrix
// layouts with no reliable headers. It is consulted only when header
// matching is impossible.
type PositionalRoleResolver struct {
	Positions map[ColumnRole]int
}

// Resolve implements RoleResolver. The returned header names are the
// synthetic names of the configured positions, usable with a matrix row
// adapter.
func (r *PositionalRoleResolver) Resolve(headers []string) map[ColumnRole]string {
	resolved := make(map[ColumnRole]string)
	for role, idx := range r.Positions {
		if idx >= 0 && idx < len(headers) {
			resolved[role] = headers[idx]
		}
	}
	return resolved
}
