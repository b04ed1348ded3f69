package service

import (
	"context"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/store"
)

// DefaultCacheFanout bounds concurrent cache writes while repopulating the
// cache from a full store listing.
const DefaultCacheFanout = 8

// TaskCache is the cache the task service reads through and writes through.
// Implementations never fail; unavailability shows up as misses.
type TaskCache interface {
	Get(ctx context.Context, id int64) (*domain.Task, bool)
	Put(ctx context.Context, task *domain.Task)
	Track(ctx context.Context, id int64)
	Invalidate(ctx context.Context, id int64)
	Roster(ctx context.Context) []string
	ResetRoster(ctx context.Context, ids []int64)
}

// TaskService provides task operations over the store and the task cache.
type TaskService interface {
	// Get returns the task, from cache when present, else from the store
	// (populating the cache). Returns ErrTaskNotFound when absent.
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// List returns all tasks. When the cache roster length matches the store
	// count the result is assembled from cache; otherwise the full set is
	// loaded with comments and the cache is rebuilt.
	List(ctx context.Context) ([]*domain.Task, error)

	Create(ctx context.Context, title, description string) (*domain.Task, error)
	Update(ctx context.Context, id int64, title, description string) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	cache  TaskCache
	fanout int
	logger *slog.Logger
}

// NewTaskService creates a TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(tasks store.TaskStore, cache TaskCache, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "task store cannot be nil"}
	}
	if cache == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "task cache cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		tasks:  tasks,
		cache:  cache,
		fanout: DefaultCacheFanout,
		logger: logger.With("component", "task_service"),
	}, nil
}

func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Get trusts a cache hit without revalidating it against the store, so an
// entry changed behind the service's back stays visible until overwritten,
// invalidated or expired. A miss populates the entry but does not touch the
// roster.
func (s *taskServiceImpl) Get(ctx context.Context, id int64) (*domain.Task, error) {
	if task, ok := s.cache.Get(ctx, id); ok {
		s.log(ctx).Debug("task cache hit", slog.Int64("task_id", id))
		return task, nil
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to load task", err)
	}

	s.cache.Put(ctx, task)
	s.log(ctx).Debug("task cache populated", slog.Int64("task_id", id))
	return task, nil
}

// List compares only counts, so swapping one task for another between
// rebuilds goes unnoticed.
func (s *taskServiceImpl) List(ctx context.Context) ([]*domain.Task, error) {
	log := s.log(ctx)

	roster := s.cache.Roster(ctx)
	count, err := s.tasks.Count(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to count tasks", err)
	}

	if len(roster) == count {
		tasks := make([]*domain.Task, 0, len(roster))
		for _, member := range roster {
			id, err := strconv.ParseInt(member, 10, 64)
			if err != nil {
				log.Warn("ignoring malformed roster member", slog.String("member", member))
				continue
			}
			if task, ok := s.cache.Get(ctx, id); ok {
				tasks = append(tasks, task)
			}
		}
		log.Debug("task list served from cache",
			slog.Int("roster_size", len(roster)),
			slog.Int("returned", len(tasks)))
		return tasks, nil
	}

	log.Debug("task roster stale, rebuilding from store",
		slog.Int("roster_size", len(roster)),
		slog.Int("store_count", count))

	tasks, err := s.tasks.ListWithComments(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to load tasks", err)
	}

	var g errgroup.Group
	g.SetLimit(s.fanout)
	ids := make([]int64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
		g.Go(func() error {
			s.cache.Put(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	s.cache.ResetRoster(ctx, ids)
	return tasks, nil
}

func (s *taskServiceImpl) Create(ctx context.Context, title, description string) (*domain.Task, error) {
	if err := (&domain.Task{Title: title, Description: description}).Validate(); err != nil {
		return nil, err
	}

	task, err := s.tasks.Create(ctx, title, description)
	if err != nil {
		s.log(ctx).Error("failed to create task", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	s.cache.Put(ctx, task)
	s.cache.Track(ctx, task.ID)

	s.log(ctx).Info("task created", slog.Int64("task_id", task.ID))
	return task, nil
}

// Update writes through to the cache, replacing the entry wholesale. There is
// no per-key locking, so a concurrent Get that missed before this update may
// re-populate the entry with the old value.
func (s *taskServiceImpl) Update(ctx context.Context, id int64, title, description string) (*domain.Task, error) {
	if err := (&domain.Task{ID: id, Title: title, Description: description}).Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	task, err := s.tasks.Update(ctx, id, title, description)
	if err != nil {
		return nil, NewTaskServiceError("update_task", "failed to save task", err)
	}

	s.cache.Put(ctx, task)
	s.log(ctx).Info("task updated", slog.Int64("task_id", id))
	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.cache.Invalidate(ctx, id)
	s.log(ctx).Info("task deleted", slog.Int64("task_id", id))
	return nil
}
