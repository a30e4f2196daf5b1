package searcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/callerid-mcp/internal/cache"
	"github.com/dshills/callerid-mcp/internal/metrics"
	"github.com/dshills/callerid-mcp/internal/normalize"
	"github.com/dshills/callerid-mcp/internal/ranker"
	"github.com/dshills/callerid-mcp/internal/reputation"
	"github.com/dshills/callerid-mcp/internal/storage"
	"github.com/dshills/callerid-mcp/internal/visibility"
	"github.com/dshills/callerid-mcp/pkg/types"
)

// Kind identifies the query mode; it is part of every cache key
type Kind string

const (
	KindName  Kind = "name"
	KindPhone Kind = "phone"
)

const (
	// PageSize is the fixed number of results per name-search page
	PageSize = 20

	// DefaultCacheTTL is how long a gated response is served from cache
	DefaultCacheTTL = 5 * time.Minute

	searchKeyPrefix = "search:"
)

// Searcher answers name and phone queries. Responses are memoized per
// (kind, normalized query, requester) so a payload gated for one requester
// is never served to another.
type Searcher struct {
	storage storage.Storage
	scorer  *reputation.Scorer
	gate    *visibility.Gate
	cache   cache.Cache
	ttl     time.Duration
}

// Option configures a Searcher
type Option func(*Searcher)

// WithCacheTTL overrides DefaultCacheTTL
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Searcher) {
		s.ttl = ttl
	}
}

// NewSearcher creates a new Searcher instance
func NewSearcher(store storage.Storage, scorer *reputation.Scorer, gate *visibility.Gate, c cache.Cache, opts ...Option) *Searcher {
	s := &Searcher{
		storage: store,
		scorer:  scorer,
		gate:    gate,
		cache:   c,
		ttl:     DefaultCacheTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SearchByName returns one page of ranked account and contact matches for
// query. page is parsed leniently: anything that is not a positive integer
// means page 1.
func (s *Searcher) SearchByName(ctx context.Context, query, requesterID, page string) (resp *types.PagedSearchResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveSearch(string(KindName), outcome(err), start) }()

	q, err := normalize.NameQuery(query)
	if err != nil {
		return nil, err
	}
	if requesterID == "" {
		return nil, types.ErrUnauthenticated
	}
	pageNum := ParsePage(page)

	// Key on the folded query so "John" and "john" share an entry
	key := cache.Key(searchKeyPrefix, string(KindName), normalize.Fold(q), requesterID, strconv.Itoa(pageNum))
	if cached := readCache[types.PagedSearchResponse](ctx, s.cache, key); cached != nil {
		return cached, nil
	}

	var (
		requester *types.Account
		accounts  []*types.Account
		contacts  []*types.ContactEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requester, err = s.requester(gctx, requesterID)
		return err
	})
	g.Go(func() error {
		var err error
		accounts, err = s.storage.FindAccountsByNamePattern(gctx, q)
		if err != nil {
			return fmt.Errorf("failed to search accounts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		contacts, err = s.storage.FindContactsByNamePattern(gctx, q)
		if err != nil {
			return fmt.Errorf("failed to search contacts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := ranker.Merge(q, accounts, contacts)
	window := Paginate(len(candidates), pageNum)

	resp = &types.PagedSearchResponse{
		Results:      make([]types.SearchResult, 0, window.End-window.Start),
		TotalPages:   window.TotalPages,
		CurrentPage:  pageNum,
		TotalResults: len(candidates),
	}
	for _, c := range candidates[window.Start:window.End] {
		result, err := s.buildResult(ctx, requester, c)
		if err != nil {
			return nil, err
		}
		resp.Results = append(resp.Results, result)
	}

	writeCache(ctx, s.cache, key, resp, s.ttl)
	return resp, nil
}

// SearchByPhone returns the single result for a phone number, or a
// response with a nil Result when nobody holds it
func (s *Searcher) SearchByPhone(ctx context.Context, query, requesterID string) (resp *types.PhoneSearchResponse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveSearch(string(KindPhone), outcome(err), start) }()

	phone, err := normalize.PhoneQuery(query)
	if err != nil {
		return nil, err
	}
	if requesterID == "" {
		return nil, types.ErrUnauthenticated
	}

	key := cache.Key(searchKeyPrefix, string(KindPhone), phone, requesterID)
	if cached := readCache[types.PhoneSearchResponse](ctx, s.cache, key); cached != nil {
		return cached, nil
	}

	var (
		requester *types.Account
		account   *types.Account
		contacts  []*types.ContactEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requester, err = s.requester(gctx, requesterID)
		return err
	})
	g.Go(func() error {
		var err error
		account, err = s.storage.FindAccountByPhone(gctx, phone)
		if errors.Is(err, storage.ErrNotFound) {
			account = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find account: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		contacts, err = s.storage.FindContactsByPhone(gctx, phone)
		if err != nil {
			return fmt.Errorf("failed to find contacts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp = &types.PhoneSearchResponse{}
	if c := ranker.MergePhone(account, contacts); c != nil {
		result, err := s.buildResult(ctx, requester, *c)
		if err != nil {
			return nil, err
		}
		resp.Result = &result
	}

	writeCache(ctx, s.cache, key, resp, s.ttl)
	return resp, nil
}

// requester loads the requesting account. Ids that resolve to nothing are
// treated as unauthenticated.
func (s *Searcher) requester(ctx context.Context, requesterID string) (*types.Account, error) {
	account, err := s.storage.GetAccount(ctx, requesterID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load requester: %w", err)
	}
	return account, nil
}

// buildResult scores a candidate and applies the visibility gate
func (s *Searcher) buildResult(ctx context.Context, requester *types.Account, c ranker.Candidate) (types.SearchResult, error) {
	score, err := s.scorer.Score(ctx, c.PhoneNumber)
	if err != nil {
		return types.SearchResult{}, err
	}

	result := types.SearchResult{
		Name:                c.Name,
		PhoneNumber:         c.PhoneNumber,
		SpamLikelihood:      score,
		IsRegisteredAccount: c.IsRegisteredAccount,
		AssociatedNames:     c.AssociatedNames,
	}

	if c.Account != nil {
		result.Email, err = s.gate.Email(ctx, requester, c.Account)
		if err != nil {
			return types.SearchResult{}, err
		}
	}

	if err := result.Validate(); err != nil {
		return types.SearchResult{}, fmt.Errorf("invalid result for %s: %w", c.PhoneNumber, err)
	}
	return result, nil
}

// Window is the slice of a result list that one page covers
type Window struct {
	Start, End int
	TotalPages int
}

// ParsePage parses a 1-indexed page parameter. Non-numeric and
// non-positive values clamp to 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Paginate computes the window for page over total results. There is
// always at least one page; a page past the end yields an empty window.
func Paginate(total, page int) Window {
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	// Checked before multiplying so huge pages cannot overflow
	if page > totalPages {
		return Window{Start: total, End: total, TotalPages: totalPages}
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}
	return Window{Start: start, End: end, TotalPages: totalPages}
}

// readCache returns the cached response or nil. Backend errors are logged
// and treated as a miss.
func readCache[T any](ctx context.Context, c cache.Cache, key string) *T {
	cached, found, err := cache.GetJSON[T](ctx, c, key)
	if err != nil {
		slog.Warn("search cache read failed", "key", key, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	return cached
}

// writeCache stores a response. Failures are logged and otherwise ignored.
func writeCache(ctx context.Context, c cache.Cache, key string, v any, ttl time.Duration) {
	if err := cache.SetJSON(ctx, c, key, v, ttl); err != nil {
		slog.Warn("search cache write failed", "key", key, "error", err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, types.ErrInvalidQuery):
		return "invalid"
	case errors.Is(err, types.ErrUnauthenticated):
		return "unauthenticated"
	default:
		slog.Error("search failed", "error", err)
		return "error"
	}
}
