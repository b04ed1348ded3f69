package main

import (
	"fmt"
	"time"

	"github.com/phrazzld/taskapi/internal/cache"
	"github.com/phrazzld/taskapi/internal/config"
	"github.com/phrazzld/taskapi/internal/platform/memcache"
	"github.com/phrazzld/taskapi/internal/platform/memory"
)

const memcacheTimeout = 500 * time.Millisecond

// setupCacheBackend returns the cache backend selected by cfg.Backend.
func setupCacheBackend(cfg config.CacheConfig) (cache.Backend, error) {
	switch cfg.Backend {
	case "memcache":
		b, err := memcache.New(cfg.MemcacheAddrs, memcacheTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create memcache backend: %w", err)
		}
		return b, nil
	case "memory":
		return memory.New(time.Minute), nil
	case "none":
		return cache.NopBackend{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}
