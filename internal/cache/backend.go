package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Backend.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// UpdateFunc computes the new value of a key from its current value.
// found is false when the key does not exist yet.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Backend is a raw key-value store used by TaskCache.
//
// A ttl of zero means the value never expires. Delete of a missing key is not
// an error. Update must apply fn atomically with respect to other Update, Set
// and Delete calls on the same key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error
	Ping(ctx context.Context) error
}

// NopBackend stores nothing. Every read is a miss, so a TaskCache on top of it
// sends all traffic to the store.
type NopBackend struct{}

var _ Backend = NopBackend{}

func (NopBackend) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

func (NopBackend) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NopBackend) Delete(context.Context, string) error { return nil }

func (NopBackend) Update(context.Context, string, time.Duration, UpdateFunc) error { return nil }

func (NopBackend) Ping(context.Context) error { return nil }
