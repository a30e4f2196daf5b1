package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/dshills/callerid-mcp/internal/metrics"
)

var (
	redisGetDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callerid_redis_cache_get_duration_ms",
		Help:    "Latency of Redis cache reads in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)

const (
	// Redis key prefix for every cache entry
	redisKeyPrefix = "callerid:"
)

// Redis is a Cache shared across instances. Expiry is enforced by Redis.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client. The caller owns the client unless
// Close is called.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// DialRedis parses a redis:// URL, connects and verifies the server
// answers PING, retrying with DefaultRetryConfig
func DialRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	err = retryWithBackoff(ctx, DefaultRetryConfig(), func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedis(client), nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	defer func() {
		redisGetDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	value, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("redis", "miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("redis", "error").Inc()
		return nil, false, err
	}
	metrics.CacheLookups.WithLabelValues("redis", "hit").Inc()
	return value, true, nil
}

// Set uses SET with an expiry so write and TTL are atomic
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisKeyPrefix+key).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
