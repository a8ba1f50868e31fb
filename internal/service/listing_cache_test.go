package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedListing struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (ListingCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewListingCache(client, time.Minute, logrus.New()), mr
}

func TestListingCache_MissThenHit(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	key := ListingKey("id", 7)

	var got cachedListing
	ok, err := cache.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, key, cachedListing{ID: 7, Title: "陽光診所"}))
	assert.True(t, mr.Exists("clinic:listings:id:7"))
	assert.Equal(t, time.Minute, mr.TTL("clinic:listings:id:7"))

	ok, err = cache.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "陽光診所", got.Title)
}

func TestListingCache_InvalidateOnlyTouchesPrefix(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, ListingKey("all"), []cachedListing{{ID: 1}}))
	require.NoError(t, cache.Set(ctx, ListingKey("id", 1), cachedListing{ID: 1}))
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists(ListingKey("all")))
	assert.False(t, mr.Exists(ListingKey("id", 1)))
	assert.True(t, mr.Exists("other:key"))
}

func TestNewListingCache_NilClientIsNop(t *testing.T) {
	cache := NewListingCache(nil, time.Minute, logrus.New())

	var dst cachedListing
	ok, err := cache.Get(context.Background(), ListingKey("all"), &dst)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.Invalidate(context.Background()))
}
