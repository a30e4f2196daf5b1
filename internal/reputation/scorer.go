// Package reputation computes and caches spam likelihood scores and owns
// the spam report write path that invalidates them.
package reputation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/dshills/callerid-mcp/internal/cache"
	"github.com/dshills/callerid-mcp/internal/storage"
)

// Policy selects the spam likelihood formula
type Policy string

const (
	// PolicyAbsolute scores by report volume: each active report adds 20
	// points, capped at 100
	PolicyAbsolute Policy = "absolute"
	// PolicyPopulation scores by the share of all accounts that reported
	// the number
	PolicyPopulation Policy = "population"
)

const (
	// DefaultScoreTTL is how long a computed score is served from cache
	DefaultScoreTTL = time.Hour

	// reportsForCertainty is the active report count that maps to 100
	// under PolicyAbsolute
	reportsForCertainty = 5

	scoreKeyPrefix = "spam_likelihood:"
)

// ParsePolicy maps a configuration value to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyAbsolute:
		return PolicyAbsolute, nil
	case PolicyPopulation:
		return PolicyPopulation, nil
	default:
		return "", fmt.Errorf("unknown spam policy %q", s)
	}
}

// Likelihood applies policy to an active report count. population is only
// read by PolicyPopulation. The result is always within [0,100] and never
// decreases as reports grows.
func Likelihood(policy Policy, reports, population int) float64 {
	if reports <= 0 {
		return 0
	}
	var score float64
	switch policy {
	case PolicyPopulation:
		if population <= 0 {
			return 0
		}
		score = math.Round(float64(reports)/float64(population)*100*100) / 100
	default:
		score = float64(reports) / reportsForCertainty * 100
	}
	return math.Min(score, 100)
}

// Scorer computes spam likelihood for a phone number and memoizes it.
// Concurrent misses for the same number may both recompute; the result is
// identical so no coordination is needed.
type Scorer struct {
	store  storage.Storage
	cache  cache.Cache
	policy Policy
	ttl    time.Duration
}

// ScorerOption configures a Scorer
type ScorerOption func(*Scorer)

// WithPolicy selects the likelihood formula
func WithPolicy(p Policy) ScorerOption {
	return func(s *Scorer) {
		s.policy = p
	}
}

// WithScoreTTL overrides DefaultScoreTTL
func WithScoreTTL(ttl time.Duration) ScorerOption {
	return func(s *Scorer) {
		s.ttl = ttl
	}
}

// NewScorer creates a Scorer backed by store and c
func NewScorer(store storage.Storage, c cache.Cache, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		store:  store,
		cache:  c,
		policy: PolicyAbsolute,
		ttl:    DefaultScoreTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Policy returns the formula in use
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Score returns the spam likelihood for a canonical phone number. Cache
// failures degrade to a recompute; record store failures are returned.
func (s *Scorer) Score(ctx context.Context, phone string) (float64, error) {
	key := scoreKeyPrefix + phone

	cached, found, err := cache.GetJSON[float64](ctx, s.cache, key)
	if err != nil {
		slog.Warn("score cache read failed", "key", key, "error", err)
	} else if found {
		return *cached, nil
	}

	score, err := s.compute(ctx, phone)
	if err != nil {
		return 0, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, score, s.ttl); err != nil {
		slog.Warn("score cache write failed", "key", key, "error", err)
	}
	return score, nil
}

func (s *Scorer) compute(ctx context.Context, phone string) (float64, error) {
	reports, err := s.store.CountActiveSpamReports(ctx, phone)
	if err != nil {
		return 0, fmt.Errorf("failed to count spam reports: %w", err)
	}

	population := 0
	if s.policy == PolicyPopulation && reports > 0 {
		population, err = s.store.CountAccounts(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count accounts: %w", err)
		}
	}

	return Likelihood(s.policy, reports, population), nil
}

// Invalidate drops the cached score so the next Score recomputes
func (s *Scorer) Invalidate(ctx context.Context, phone string) {
	key := scoreKeyPrefix + phone
	if err := s.cache.Delete(ctx, key); err != nil {
		slog.Warn("score cache invalidation failed", "key", key, "error", err)
	}
}
