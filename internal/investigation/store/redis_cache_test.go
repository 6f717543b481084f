package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/pkg/platform/sentinel"
)

// A client pointing at a closed port: every cache operation fails fast, which
// is exactly the degraded mode the cache must shrug off.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCachedStoreSurvivesRedisOutage(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	cached := NewCachedStore(inner, deadRedis(), time.Minute)

	inv := newInvestigation("user-1", time.Now())

	t.Run("save reaches the store of record", func(t *testing.T) {
		require.NoError(t, cached.Save(ctx, inv))

		got, err := inner.Get(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, inv.EntityID, got.EntityID)
	})

	t.Run("get falls through to the store of record", func(t *testing.T) {
		got, err := cached.Get(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, inv.ID, got.ID)
	})

	t.Run("not found passes through untranslated", func(t *testing.T) {
		_, err := cached.Get(ctx, "missing")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("listing bypasses the cache entirely", func(t *testing.T) {
		got, err := cached.ListByEntity(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
