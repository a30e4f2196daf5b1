//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisCache(t *testing.T) *Redis {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	c, err := DialRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedis_SetGetDelete(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	value, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)

	require.NoError(t, c.Delete(ctx, "k"))
	_, found, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_Expiry(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))

	assert.Eventually(t, func() bool {
		_, found, err := c.Get(ctx, "k")
		return err == nil && !found
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRedis_JSON(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, c, Key("search:", "phone", "+15551234567", "u1"), payload{Name: "Mom"}, time.Minute))

	got, found, err := GetJSON[payload](ctx, c, Key("search:", "phone", "+15551234567", "u1"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Mom", got.Name)
}
