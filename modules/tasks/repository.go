package tasks

import (
	"errors"
	"fmt"

	domain "github.com/example/taskboard/domain/task"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when a task is not found.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository provides access to task storage.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create saves a new task to the database.
func (r *TaskRepository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID regardless of owner.
func (r *TaskRepository) FindByID(id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindAllByOwner retrieves all tasks belonging to the given owner,
// ordered by creation time.
func (r *TaskRepository) FindAllByOwner(ownerID string) ([]*domain.Task, error) {
	var list []*domain.Task
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return list, nil
}

// UpdateOwned applies the given column updates to a task as a single
// conditional write matching both id and owner. Zero rows affected means
// the task vanished or changed hands since the ownership check.
func (r *TaskRepository) UpdateOwned(id, ownerID string, updates map[string]any) error {
	result := r.db.Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteOwned removes a task permanently, matching both id and owner.
func (r *TaskRepository) DeleteOwned(id, ownerID string) error {
	result := r.db.Delete(&domain.Task{}, "id = ? AND owner_id = ?", id, ownerID)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
