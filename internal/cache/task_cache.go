package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
)

// RosterKey holds the JSON array of tracked task ids.
const RosterKey = "task_ids"

// TaskKey returns the cache key of a task entry.
func TaskKey(id int64) string {
	return fmt.Sprintf("task_%d", id)
}

// TaskCache stores task entries and the id roster on a Backend.
type TaskCache struct {
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger
}

// NewTaskCache creates a TaskCache. A ttl of zero keeps entries until they are
// overwritten or invalidated.
func NewTaskCache(backend Backend, ttl time.Duration, logger *slog.Logger) *TaskCache {
	if backend == nil {
		backend = NopBackend{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskCache{
		backend: backend,
		ttl:     ttl,
		logger:  logger.With(slog.String("component", "task_cache")),
	}
}

func (c *TaskCache) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, c.logger)
}

// Get returns the cached task, if present. Any failure reads as a miss.
func (c *TaskCache) Get(ctx context.Context, id int64) (*domain.Task, bool) {
	key := TaskKey(id)
	raw, err := c.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.log(ctx).Warn("cache read failed, treating as miss",
				slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		c.log(ctx).Warn("cached task entry is corrupt, treating as miss",
			slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}
	return &task, true
}

// Put overwrites the entry for task.
func (c *TaskCache) Put(ctx context.Context, task *domain.Task) {
	if task == nil {
		return
	}
	key := TaskKey(task.ID)
	raw, err := json.Marshal(task)
	if err != nil {
		c.log(ctx).Warn("failed to encode task for cache",
			slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := c.backend.Set(ctx, key, raw, c.ttl); err != nil {
		c.log(ctx).Warn("cache write failed, dropping entry",
			slog.String("key", key), slog.String("error", err.Error()))
	}
}

// Track appends id to the roster unless it is already there.
func (c *TaskCache) Track(ctx context.Context, id int64) {
	member := strconv.FormatInt(id, 10)
	c.updateRoster(ctx, "track", func(ids []string) []string {
		if slices.Contains(ids, member) {
			return ids
		}
		return append(ids, member)
	})
}

// Invalidate removes the entry for id and every occurrence of id in the roster.
func (c *TaskCache) Invalidate(ctx context.Context, id int64) {
	key := TaskKey(id)
	if err := c.backend.Delete(ctx, key); err != nil {
		c.log(ctx).Warn("cache delete failed",
			slog.String("key", key), slog.String("error", err.Error()))
	}

	member := strconv.FormatInt(id, 10)
	c.updateRoster(ctx, "invalidate", func(ids []string) []string {
		return slices.DeleteFunc(ids, func(s string) bool { return s == member })
	})
}

// Roster returns a snapshot of the tracked ids in roster order.
// An unreadable roster is reported as empty.
func (c *TaskCache) Roster(ctx context.Context) []string {
	raw, err := c.backend.Get(ctx, RosterKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.log(ctx).Warn("roster read failed, treating as empty",
				slog.String("error", err.Error()))
		}
		return []string{}
	}
	ids, err := decodeRoster(raw)
	if err != nil {
		c.log(ctx).Warn("roster is corrupt, treating as empty",
			slog.String("error", err.Error()))
		return []string{}
	}
	return ids
}

// ResetRoster replaces the roster with exactly ids, in order.
func (c *TaskCache) ResetRoster(ctx context.Context, ids []int64) {
	members := make([]string, 0, len(ids))
	for _, id := range ids {
		members = append(members, strconv.FormatInt(id, 10))
	}
	raw, err := json.Marshal(members)
	if err != nil {
		c.log(ctx).Warn("failed to encode roster", slog.String("error", err.Error()))
		return
	}
	if err := c.backend.Set(ctx, RosterKey, raw, c.ttl); err != nil {
		c.log(ctx).Warn("roster reset failed",
			slog.Int("size", len(members)), slog.String("error", err.Error()))
	}
}

// Ping reports whether the backend is reachable.
func (c *TaskCache) Ping(ctx context.Context) error {
	return c.backend.Ping(ctx)
}

func (c *TaskCache) updateRoster(ctx context.Context, op string, mutate func([]string) []string) {
	err := c.backend.Update(ctx, RosterKey, c.ttl, func(current []byte, found bool) ([]byte, error) {
		ids := []string{}
		if found {
			decoded, err := decodeRoster(current)
			if err != nil {
				c.log(ctx).Warn("roster is corrupt, rewriting",
					slog.String("operation", op), slog.String("error", err.Error()))
			} else {
				ids = decoded
			}
		}
		return json.Marshal(mutate(ids))
	})
	if err != nil {
		c.log(ctx).Warn("roster update failed",
			slog.String("operation", op), slog.String("error", err.Error()))
	}
}

func decodeRoster(raw []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
