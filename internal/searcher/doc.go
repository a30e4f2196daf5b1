// Package searcher answers directory queries by name and by phone number.
//
// A query moves through normalize, cache lookup, candidate fetch, merge,
// score, gate, paginate and cache write. Invalid input is rejected before
// the cache is consulted.
//
// # Basic Usage
//
//	s := searcher.NewSearcher(store, scorer, gate, lruCache)
//
//	page, err := s.SearchByName(ctx, "john", requesterID, "1")
//	if errors.Is(err, types.ErrInvalidQuery) {
//	    // client error
//	}
//	for _, r := range page.Results {
//	    fmt.Printf("%s %s %.0f%%\n", r.Name, r.PhoneNumber, r.SpamLikelihood)
//	}
//
//	hit, err := s.SearchByPhone(ctx, "+1 555 123 4567", requesterID)
//	if hit.Result == nil {
//	    // nobody holds the number
//	}
//
// # Candidate Fetch
//
// Accounts, contacts and the requester's own account are loaded concurrently
// with an errgroup. Any record store failure fails the whole query; there
// are no partial results because ranking needs both sources.
//
// # Caching
//
// Responses are cached for DefaultCacheTTL under a sha256 key of the query
// kind, the normalized query, the requester and (for name searches) the
// page. Empty responses are cached like any other. Cache failures are logged
// and degrade to a miss. Spam writes invalidate scores, not search entries,
// so a cached search may show a stale likelihood until it expires.
//
// # Pagination
//
// Pages hold PageSize results and are 1-indexed. Non-numeric or
// non-positive page values clamp to 1. A page past the end returns an empty
// result list with the correct totals.
package searcher
