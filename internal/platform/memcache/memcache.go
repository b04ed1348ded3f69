// Package memcache provides a cache.Backend on memcached using
// bradfitz/gomemcache. Roster updates use gets/cas so concurrent writers
// from several service instances do not lose each other's changes.
package memcache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	taskcache "github.com/phrazzld/taskapi/internal/cache"
)

// DefaultMaxUpdateAttempts bounds the compare-and-swap retry loop.
const DefaultMaxUpdateAttempts = 16

// ErrUpdateContention is returned when Update loses the CAS race too often.
var ErrUpdateContention = errors.New("memcache: too much contention on key")

// Backend is a cache.Backend backed by one or more memcached servers.
type Backend struct {
	client      *memcache.Client
	maxAttempts int
}

var _ taskcache.Backend = (*Backend)(nil)

// New creates a Backend for the given server addresses (host:port).
func New(addrs []string, timeout time.Duration) (*Backend, error) {
	if len(addrs) == 0 {
		return nil, errors.New("memcache: at least one server address is required")
	}
	client := memcache.New(addrs...)
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &Backend{client: client, maxAttempts: DefaultMaxUpdateAttempts}, nil
}

// maxRelativeExpiration is the largest relative expiration memcached
// accepts. Larger values are read as absolute Unix timestamps.
const maxRelativeExpiration = 30 * 24 * time.Hour

// expiration converts ttl into memcached's seconds field. Zero never expires.
// TTLs over 30 days are sent as an absolute time, clamped to the int32 range.
func expiration(ttl time.Duration, now time.Time) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > maxRelativeExpiration {
		at := now.Unix() + int64(ttl/time.Second)
		if at > math.MaxInt32 {
			return math.MaxInt32
		}
		return int32(at)
	}
	secs := int32(ttl / time.Second)
	if secs == 0 {
		secs = 1
	}
	return secs
}

// Get returns the value stored under key or cache.ErrCacheMiss.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item, err := b.client.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, taskcache.ErrCacheMiss
		}
		return nil, fmt.Errorf("memcache get %q: %w", key, err)
	}
	return item.Value, nil
}

// Set stores value under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.client.Set(&memcache.Item{Key: key, Value: value, Expiration: expiration(ttl, time.Now())})
	if err != nil {
		return fmt.Errorf("memcache set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.client.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return fmt.Errorf("memcache delete %q: %w", key, err)
	}
	return nil
}

// Update applies fn with gets/cas, retrying when another writer got there first.
func (b *Backend) Update(ctx context.Context, key string, ttl time.Duration, fn taskcache.UpdateFunc) error {
	for attempt := 0; attempt < b.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		item, err := b.client.Get(key)
		switch {
		case errors.Is(err, memcache.ErrCacheMiss):
			next, ferr := fn(nil, false)
			if ferr != nil {
				return ferr
			}
			err = b.client.Add(&memcache.Item{Key: key, Value: next, Expiration: expiration(ttl, time.Now())})
			if errors.Is(err, memcache.ErrNotStored) {
				continue
			}
		case err != nil:
			return fmt.Errorf("memcache gets %q: %w", key, err)
		default:
			next, ferr := fn(item.Value, true)
			if ferr != nil {
				return ferr
			}
			item.Value = next
			item.Expiration = expiration(ttl, time.Now())
			err = b.client.CompareAndSwap(item)
			if errors.Is(err, memcache.ErrCASConflict) || errors.Is(err, memcache.ErrNotStored) {
				continue
			}
		}

		if err != nil {
			return fmt.Errorf("memcache update %q: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUpdateContention, key)
}

// Ping checks that every configured server answers.
func (b *Backend) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.client.Ping(); err != nil {
		return fmt.Errorf("memcache ping: %w", err)
	}
	return nil
}
