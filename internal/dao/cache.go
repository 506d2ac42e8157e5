package dao

import (
	"context"
	"slices"
	"sync"
	"time"
)

// DefaultCacheTTL is the default time-to-live for cached listings.
const DefaultCacheTTL = 5 * time.Second

// Lister lists rows of type T.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// CachedLister serves listings from memory until they expire, so frequent
// refreshes do not hammer the AWS APIs.
type CachedLister[T any] struct {
	lister    Lister[T]
	rows      []T
	timestamp time.Time
	ttl       time.Duration
	now       func() time.Time
	mx        sync.Mutex
}

// NewCachedLister creates a new cache with the specified TTL.
func NewCachedLister[T any](l Lister[T], ttl time.Duration) *CachedLister[T] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &CachedLister[T]{
		lister: l,
		ttl:    ttl,
		now:    time.Now,
	}
}

// List returns the cached rows or lists them anew once expired. Failed
// listings are not cached.
func (c *CachedLister[T]) List(ctx context.Context) ([]T, error) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.rows != nil && c.now().Sub(c.timestamp) <= c.ttl {
		return slices.Clone(c.rows), nil
	}

	rows, err := c.lister.List(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	c.rows, c.timestamp = rows, c.now()

	return slices.Clone(rows), nil
}

// Invalidate drops the cached listing.
func (c *CachedLister[T]) Invalidate() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.rows = nil
}
