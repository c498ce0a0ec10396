package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/modules/cache"
	"github.com/google/uuid"
)

var (
	// ErrTitleRequired is returned when a task title is empty or missing.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidStatus is returned when a status is outside the recognized set.
	ErrInvalidStatus = errors.New("invalid status: must be pending, in progress or completed")
	// ErrNotOwner is returned when a task exists but belongs to another user.
	ErrNotOwner = errors.New("task belongs to another user")
)

// TaskService handles task business logic. Every read, update and delete
// is gated by the ownership check in Get.
type TaskService struct {
	repo  *TaskRepository
	cache *cache.Cache // nil when caching is disabled
}

// NewTaskService creates a new TaskService without caching.
func NewTaskService(repo *TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// SetCache enables the cache-aside layer for reads.
func (s *TaskService) SetCache(c *cache.Cache) {
	s.cache = c
}

// Create persists a new task for the given owner.
// Status defaults to pending when absent.
func (s *TaskService) Create(ctx context.Context, ownerID, title, description, status string) (*domain.Task, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}

	st := domain.StatusPending
	if status != "" {
		st = domain.Status(status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Status:      st,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(task); err != nil {
		return nil, err
	}

	s.invalidate(ctx, task.ID, ownerID)
	return task, nil
}

// List returns all tasks owned by ownerID, ordered by creation time.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	listKey := ownerKey(ownerID)

	if s.cache != nil {
		var cached []*domain.Task
		if hit, err := s.cache.Get(ctx, listKey, &cached); err != nil {
			log.Printf("[tasks] cache get failed for %s: %v", listKey, err)
		} else if hit {
			return cached, nil
		}
	}

	list, err := s.repo.FindAllByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, listKey, list); err != nil {
			log.Printf("[tasks] cache set failed for %s: %v", listKey, err)
		}
	}

	return list, nil
}

// Get retrieves a single task, enforcing the ownership check:
// ErrTaskNotFound when the task is absent, ErrNotOwner when it exists
// but is owned by someone else.
func (s *TaskService) Get(ctx context.Context, id, ownerID string) (*domain.Task, error) {
	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	return task, nil
}

// Update applies a partial update to a task after the ownership check.
// Nil fields are left unchanged.
func (s *TaskService) Update(ctx context.Context, id, ownerID string, title, description, status *string) (*domain.Task, error) {
	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if title != nil {
		if *title == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}
	if status != nil {
		st := domain.Status(*status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = st
	}

	if len(updates) > 0 {
		// Conditional write on id+owner so a concurrent owner change
		// between check and write cannot be clobbered.
		if err := s.repo.UpdateOwned(id, ownerID, updates); err != nil {
			return nil, err
		}
	}

	s.invalidate(ctx, id, ownerID)
	return s.repo.FindByID(id)
}

// UpdateStatus moves a task to the given status, leaving title and
// description untouched. Any status may transition to any other.
func (s *TaskService) UpdateStatus(ctx context.Context, id, ownerID, status string) (*domain.Task, error) {
	st := domain.Status(status)
	if !st.Valid() {
		return nil, ErrInvalidStatus
	}

	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateOwned(id, ownerID, map[string]any{"status": st}); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id, ownerID)
	return s.repo.FindByID(id)
}

// Delete removes a task permanently after the ownership check.
func (s *TaskService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return err
	}

	if err := s.repo.DeleteOwned(id, ownerID); err != nil {
		return err
	}

	s.invalidate(ctx, id, ownerID)
	return nil
}

// find loads a task through the cache when one is configured.
func (s *TaskService) find(ctx context.Context, id string) (*domain.Task, error) {
	key := taskKey(id)

	if s.cache != nil {
		var cached domain.Task
		if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
			log.Printf("[tasks] cache get failed for %s: %v", key, err)
		} else if hit {
			return &cached, nil
		}
	}

	task, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, task); err != nil {
			log.Printf("[tasks] cache set failed for %s: %v", key, err)
		}
	}

	return task, nil
}

// invalidate drops the cached entries touched by a mutation.
func (s *TaskService) invalidate(ctx context.Context, id, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, taskKey(id), ownerKey(ownerID)); err != nil {
		log.Printf("[tasks] cache invalidation failed for task %s: %v", id, err)
	}
}

func taskKey(id string) string {
	return fmt.Sprintf("task:%s", id)
}

func ownerKey(ownerID string) string {
	return fmt.Sprintf("owner:%s", ownerID)
}
