package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena/internal/social"
)

func setupCache(t *testing.T) (*VerificationCache, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	return NewVerificationCache(client, time.Minute), s
}

func TestVerificationCacheRoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	_, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)

	statuses := []social.PlatformStatus{
		{Platform: social.Twitter, Status: social.StatusPending, Code: "123"},
		{Platform: social.LinkedIn, Status: social.StatusUnverified},
	}
	require.NoError(t, c.Set(ctx, 1, statuses))

	got, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, statuses, got)

	require.NoError(t, c.Invalidate(ctx, 1))
	_, hit, _ = c.Get(ctx, 1)
	assert.False(t, hit)
}

func TestVerificationCacheExpires(t *testing.T) {
	c, s := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 2, []social.PlatformStatus{{Platform: social.TikTok, Status: social.StatusVerified}}))
	s.FastForward(2 * time.Minute)

	_, hit, err := c.Get(ctx, 2)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestVerificationCacheCorruptEntryIsMiss(t *testing.T) {
	c, s := setupCache(t)
	require.NoError(t, s.Set(key(3), "{not json"))

	_, hit, err := c.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, s.Exists(key(3)))
}

func TestVerificationCacheInvalidateUsers(t *testing.T) {
	c, s := setupCache(t)
	ctx := context.Background()
	for _, id := range []uint{4, 5, 6} {
		require.NoError(t, c.Set(ctx, id, []social.PlatformStatus{{Platform: social.Twitter, Status: social.StatusPending}}))
	}

	require.NoError(t, c.InvalidateUsers(ctx, []uint{4, 6, 6, 9}))
	assert.False(t, s.Exists(key(4)))
	assert.True(t, s.Exists(key(5)))
	assert.False(t, s.Exists(key(6)))
	assert.NoError(t, c.InvalidateUsers(ctx, nil))
}

func TestDisabledCache(t *testing.T) {
	c := NewVerificationCache(nil, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, nil))
	_, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, 1))
	assert.NoError(t, c.InvalidateUsers(ctx, []uint{1, 2}))
}
