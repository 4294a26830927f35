package store

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ContentResolver resolves a document identifier against the live content
// cache. Children/descendant search hits whose identifier no longer
// resolves are dropped from results.
type ContentResolver interface {
	Resolve(ctx context.Context, id string) bool
}

// CachedResolver memoizes positive resolutions of an inner resolver in an
// LRU cache. Negative results are not cached: unpublished content may
// become resolvable without the index changing.
type CachedResolver struct {
	inner ContentResolver
	cache *lru.Cache[string, struct{}]
}

// NewCachedResolver wraps inner with an LRU of the given size.
func NewCachedResolver(inner ContentResolver, size int) (*CachedResolver, error) {
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, err
	}
	return &CachedResolver{inner: inner, cache: cache}, nil
}

// Resolve implements ContentResolver.
func (r *CachedResolver) Resolve(ctx context.Context, id string) bool {
	if _, ok := r.cache.Get(id); ok {
		return true
	}
	if r.inner.Resolve(ctx, id) {
		r.cache.Add(id, struct{}{})
		return true
	}
	return false
}

// Invalidate drops a cached resolution, used when content is removed.
func (r *CachedResolver) Invalidate(id string) {
	r.cache.Remove(id)
}

var _ ContentResolver = (*CachedResolver)(nil)
