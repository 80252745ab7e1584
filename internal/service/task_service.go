// Package service contains the application's business logic, sitting between
// the HTTP handlers and the persistence layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// TaskService provides per-user task CRUD operations.
//
// Every method takes the acting user's ID explicitly; there is no ambient
// "current user". Ownership is enforced by owner-scoped store operations, so
// a task belonging to another user is indistinguishable from a task that
// does not exist.
type TaskService interface {
	// Create stores a new task for the owner. A nil status defaults to
	// TaskStatusPending. Returns the created task including its generated
	// ID and timestamps.
	Create(ctx context.Context, ownerID int64, title, description string, status *domain.TaskStatus) (*domain.Task, error)

	// List returns all tasks owned by the user, oldest first.
	List(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// Get returns the task with the given ID if the user owns it.
	// Returns store.ErrTaskNotFound otherwise.
	Get(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// Update overwrites the task's title and description. The status is
	// changed only when status is non-nil; a nil status leaves the stored
	// value untouched. Returns the updated task, or store.ErrTaskNotFound
	// under the same ownership rule as Get.
	Update(ctx context.Context, ownerID, id int64, title, description string, status *domain.TaskStatus) (*domain.Task, error)

	// Delete permanently removes the task. Returns store.ErrTaskNotFound
	// under the same ownership rule as Get.
	Delete(ctx context.Context, ownerID, id int64) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService interface
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// Create implements TaskService.Create.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	ownerID int64,
	title, description string,
	status *domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, title, description, status)
	if err != nil {
		log.Debug("task creation rejected by validation",
			"error", err,
			"user_id", ownerID)
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			"error", err,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"user_id", ownerID,
		"status", string(task.Status))
	return task, nil
}

// List implements TaskService.List.
func (s *TaskServiceImpl) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.taskStore.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error("failed to list tasks",
			"error", err,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	log.Debug("listed tasks",
		"user_id", ownerID,
		"count", len(tasks))
	return tasks, nil
}

// Get implements TaskService.Get.
func (s *TaskServiceImpl) Get(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found",
				"task_id", id,
				"user_id", ownerID)
			return nil, err
		}
		log.Error("failed to get task",
			"error", err,
			"task_id", id,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// Update implements TaskService.Update.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	ownerID, id int64,
	title, description string,
	status *domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for update",
				"task_id", id,
				"user_id", ownerID)
			return nil, err
		}
		log.Error("failed to load task for update",
			"error", err,
			"task_id", id,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	task.Title = title
	task.Description = description
	if status != nil {
		// Absent status means "leave unchanged", not "reset to default".
		task.Status = *status
	}
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		log.Debug("task update rejected by validation",
			"error", err,
			"task_id", id,
			"user_id", ownerID)
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	// The store update is itself owner-scoped, so a task deleted between the
	// read above and this write still yields ErrTaskNotFound.
	if err := s.taskStore.Update(ctx, task); err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to update task",
			"error", err,
			"task_id", id,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	log.Info("task updated",
		"task_id", task.ID,
		"user_id", ownerID,
		"status", string(task.Status))
	return task, nil
}

// Delete implements TaskService.Delete.
func (s *TaskServiceImpl) Delete(ctx context.Context, ownerID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, id, ownerID); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for delete",
				"task_id", id,
				"user_id", ownerID)
			return err
		}
		log.Error("failed to delete task",
			"error", err,
			"task_id", id,
			"user_id", ownerID)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	log.Info("task deleted",
		"task_id", id,
		"user_id", ownerID)
	return nil
}
