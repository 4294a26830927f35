package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	live  map[string]bool
	calls int
}

func (c *countingResolver) Resolve(_ context.Context, id string) bool {
	c.calls++
	return c.live[id]
}

func TestCachedResolverMemoizesPositives(t *testing.T) {
	inner := &countingResolver{live: map[string]bool{"1": true}}
	r, err := NewCachedResolver(inner, 8)
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, r.Resolve(ctx, "1"))
	assert.True(t, r.Resolve(ctx, "1"))
	assert.True(t, r.Resolve(ctx, "1"))
	assert.Equal(t, 1, inner.calls, "positive resolutions hit the inner resolver once")
}

func TestCachedResolverDoesNotCacheNegatives(t *testing.T) {
	inner := &countingResolver{live: map[string]bool{}}
	r, err := NewCachedResolver(inner, 8)
	require.NoError(t, err)
	ctx := context.Background()

	assert.False(t, r.Resolve(ctx, "ghost"))
	assert.False(t, r.Resolve(ctx, "ghost"))
	assert.Equal(t, 2, inner.calls, "negatives re-check: content may become live later")

	// The document goes live without the cache being told.
	inner.live["ghost"] = true
	assert.True(t, r.Resolve(ctx, "ghost"))
}

func TestCachedResolverInvalidate(t *testing.T) {
	inner := &countingResolver{live: map[string]bool{"1": true}}
	r, err := NewCachedResolver(inner, 8)
	require.NoError(t, err)
	ctx := context.Background()

	require.True(t, r.Resolve(ctx, "1"))
	require.Equal(t, 1, inner.calls)

	r.Invalidate("1")
	inner.live["1"] = false
	assert.False(t, r.Resolve(ctx, "1"))
	assert.Equal(t, 2, inner.calls)
}
