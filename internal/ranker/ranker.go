// Package ranker merges account and contact candidates into one ordered,
// phone-deduplicated result list.
package ranker

import (
	"sort"
	"strings"

	"github.com/dshills/callerid-mcp/internal/normalize"
	"github.com/dshills/callerid-mcp/pkg/types"
)

// Rank scores for name matches. Candidates that match none of the three
// kinds are excluded.
const (
	RankExact     = 1.0
	RankPrefix    = 0.8
	RankSubstring = 0.6
	RankNone      = 0.0
)

// Candidate is a ranked match before scoring and gating. Account is set
// only for account-sourced candidates.
type Candidate struct {
	Name                string
	PhoneNumber         string
	IsRegisteredAccount bool
	Account             *types.Account
	AssociatedNames     []string
	Rank                float64
}

// Rank scores name against an already folded query
func Rank(foldedQuery, name string) float64 {
	if foldedQuery == "" {
		return RankNone
	}
	folded := normalize.Fold(name)
	switch {
	case folded == foldedQuery:
		return RankExact
	case strings.HasPrefix(folded, foldedQuery):
		return RankPrefix
	case strings.Contains(folded, foldedQuery):
		return RankSubstring
	default:
		return RankNone
	}
}

// Merge orders name-search candidates: every account match before every
// contact match, each group by rank descending with input order breaking
// ties. The first candidate for a phone number wins, so an account always
// shadows contacts for its own number.
func Merge(query string, accounts []*types.Account, contacts []*types.ContactEntry) []Candidate {
	folded := normalize.Fold(strings.TrimSpace(query))

	fromAccounts := make([]Candidate, 0, len(accounts))
	for _, a := range accounts {
		rank := Rank(folded, a.DisplayName)
		if rank == RankNone {
			continue
		}
		fromAccounts = append(fromAccounts, Candidate{
			Name:                a.DisplayName,
			PhoneNumber:         a.PhoneNumber,
			IsRegisteredAccount: true,
			Account:             a,
			Rank:                rank,
		})
	}

	fromContacts := make([]Candidate, 0, len(contacts))
	for _, c := range contacts {
		rank := Rank(folded, c.DisplayName)
		if rank == RankNone {
			continue
		}
		fromContacts = append(fromContacts, Candidate{
			Name:        c.DisplayName,
			PhoneNumber: c.PhoneNumber,
			Rank:        rank,
		})
	}

	sortByRank(fromAccounts)
	sortByRank(fromContacts)

	seen := make(map[string]struct{}, len(fromAccounts)+len(fromContacts))
	merged := make([]Candidate, 0, len(fromAccounts)+len(fromContacts))
	for _, group := range [][]Candidate{fromAccounts, fromContacts} {
		for _, c := range group {
			if _, dup := seen[c.PhoneNumber]; dup {
				continue
			}
			seen[c.PhoneNumber] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}

// MergePhone builds the single result for a phone search. A registered
// account wins outright; otherwise the first contact label names the
// result and every distinct label is kept in first-seen order. Returns
// nil when neither source has the number.
func MergePhone(account *types.Account, contacts []*types.ContactEntry) *Candidate {
	if account != nil {
		return &Candidate{
			Name:                account.DisplayName,
			PhoneNumber:         account.PhoneNumber,
			IsRegisteredAccount: true,
			Account:             account,
			Rank:                RankExact,
		}
	}
	if len(contacts) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(contacts))
	names := make([]string, 0, len(contacts))
	for _, c := range contacts {
		if _, dup := seen[c.DisplayName]; dup {
			continue
		}
		seen[c.DisplayName] = struct{}{}
		names = append(names, c.DisplayName)
	}

	return &Candidate{
		Name:            names[0],
		PhoneNumber:     contacts[0].PhoneNumber,
		AssociatedNames: names,
		Rank:            RankExact,
	}
}

// sortByRank sorts candidates by rank in descending order, keeping input
// order among equal ranks
func sortByRank(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rank > candidates[j].Rank
	})
}
