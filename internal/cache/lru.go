package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/callerid-mcp/internal/metrics"
)

// DefaultLRUSize bounds the in-process cache when no size is configured
const DefaultLRUSize = 10000

// entry is a cached value with its expiration time
type entry struct {
	value     []byte
	expiresAt time.Time
}

// LRU is an in-process Cache. Least recently used entries are evicted once
// the size limit is reached; expired entries are dropped lazily on read.
type LRU struct {
	cache *lru.Cache[string, *entry]
	mu    sync.RWMutex
	now   func() time.Time
}

// NewLRU creates an LRU cache holding at most size entries
func NewLRU(size int) (*LRU, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	c, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &LRU{cache: c, now: time.Now}, nil
}

// Get returns a copy of the stored value
func (l *LRU) Get(_ context.Context, key string) ([]byte, bool, error) {
	l.mu.RLock()
	e, found := l.cache.Get(key)
	if !found {
		l.mu.RUnlock()
		metrics.CacheLookups.WithLabelValues("lru", "miss").Inc()
		return nil, false, nil
	}

	// Check expiry while holding the read lock
	if l.now().After(e.expiresAt) {
		l.mu.RUnlock()

		// A Set may have replaced the entry since the read lock was dropped
		l.mu.Lock()
		if current, ok := l.cache.Peek(key); ok && current == e {
			l.cache.Remove(key)
		}
		l.mu.Unlock()
		metrics.CacheLookups.WithLabelValues("lru", "miss").Inc()
		return nil, false, nil
	}

	value := append([]byte(nil), e.value...)
	l.mu.RUnlock()

	metrics.CacheLookups.WithLabelValues("lru", "hit").Inc()
	return value, true, nil
}

// Set stores a copy of value so later caller mutations don't leak in
func (l *LRU) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := &entry{
		value:     append([]byte(nil), value...),
		expiresAt: l.now().Add(ttl),
	}

	l.mu.Lock()
	l.cache.Add(key, e)
	l.mu.Unlock()
	return nil
}

func (l *LRU) Delete(_ context.Context, key string) error {
	l.mu.Lock()
	l.cache.Remove(key)
	l.mu.Unlock()
	return nil
}

// Len returns the number of entries, expired ones included
func (l *LRU) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache.Len()
}

// Purge drops every entry
func (l *LRU) Purge() {
	l.mu.Lock()
	l.cache.Purge()
	l.mu.Unlock()
}

func (l *LRU) Close() error {
	l.Purge()
	return nil
}
