// Package memory provides an in-process cache.Backend built on go-cache.
// It suits single-instance deployments and tests; nothing is shared between
// processes.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	taskcache "github.com/phrazzld/taskapi/internal/cache"
)

// DefaultCleanupInterval is how often expired items are purged.
const DefaultCleanupInterval = 10 * time.Minute

// Backend is a cache.Backend held in process memory. go-cache is safe for
// concurrent use, so Get does not lock; Set, Delete and Flush take mu so that
// Update's read-modify-write is atomic with respect to every other write.
type Backend struct {
	mu    sync.Mutex
	items *cache.Cache
}

var _ taskcache.Backend = (*Backend)(nil)

// New creates an empty Backend.
func New(cleanupInterval time.Duration) *Backend {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Backend{items: cache.New(cache.NoExpiration, cleanupInterval)}
}

func expiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return cache.NoExpiration
	}
	return ttl
}

// Get returns a copy of the stored value or cache.ErrCacheMiss.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.get(key)
}

func (b *Backend) get(key string) ([]byte, error) {
	v, ok := b.items.Get(key)
	if !ok {
		return nil, taskcache.ErrCacheMiss
	}
	raw, ok := v.([]byte)
	if !ok {
		return nil, taskcache.ErrCacheMiss
	}
	return append([]byte(nil), raw...), nil
}

// Set stores a copy of value under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items.Set(key, append([]byte(nil), value...), expiration(ttl))
	return nil
}

// Delete removes key. Missing keys are ignored.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items.Delete(key)
	return nil
}

// Update applies fn to the current value of key under the backend lock.
func (b *Backend) Update(ctx context.Context, key string, ttl time.Duration, fn taskcache.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	current, err := b.get(key)
	found := err == nil

	next, err := fn(current, found)
	if err != nil {
		return err
	}
	b.items.Set(key, next, expiration(ttl))
	return nil
}

// Ping always succeeds.
func (b *Backend) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Flush removes every item.
func (b *Backend) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items.Flush()
}

// Len reports the number of stored items, including expired ones not yet purged.
func (b *Backend) Len() int {
	return b.items.ItemCount()
}
