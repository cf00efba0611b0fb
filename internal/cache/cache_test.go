package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"studio/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, c CourseListCache) {
	t.Helper()
	ctx := context.Background()
	user := "cache-user-" + time.Now().Format("150405.000000")

	_, ok, err := c.Get(ctx, user, "page=1")
	require.NoError(t, err)
	assert.False(t, ok)

	courses := []model.Course{{ID: "c1", Title: "Go"}}
	require.NoError(t, c.Set(ctx, user, "page=1", courses))
	require.NoError(t, c.Set(ctx, user, "page=2", courses))
	require.NoError(t, c.Set(ctx, "other-"+user, "page=1", courses))

	got, ok, err := c.Get(ctx, user, "page=1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Go", got[0].Title)

	require.NoError(t, c.Invalidate(ctx, user))
	_, ok, _ = c.Get(ctx, user, "page=1")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, user, "page=2")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "other-"+user, "page=1")
	assert.True(t, ok, "other users' listings survive")
}

func TestMemoryCache(t *testing.T) {
	exercise(t, NewMemoryCache(time.Minute))
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u", "q", []model.Course{{ID: "c1"}}))
	now = now.Add(2 * time.Minute)
	_, ok, err := c.Get(ctx, "u", "q")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set, skip redis integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	exercise(t, NewRedisCache(rdb, time.Minute))
}
