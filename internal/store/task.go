package store

import (
	"context"

	"github.com/phrazzld/task-manager-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every lookup or mutation that takes an ownerID is executed as a single
// owner-scoped statement, so there is no window between an ownership check
// and the operation itself.
type TaskStore interface {
	// Create saves a new task to the store and fills in the
	// database-assigned ID and timestamps on the given task.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// ListByOwner retrieves all tasks owned by the given user,
	// ordered by creation (oldest first). Returns an empty slice when the
	// user has no tasks.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// GetByIDAndOwner retrieves the task with the given ID if it is owned by
	// the given user. Returns ErrTaskNotFound if no such task exists or the
	// task belongs to a different user.
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Task, error)

	// Update overwrites the title, description and status of the task
	// identified by (task.ID, task.UserID) and refreshes its UpdatedAt.
	// Returns ErrTaskNotFound under the same ownership rule as
	// GetByIDAndOwner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete permanently removes the task with the given ID if it is owned
	// by the given user. Returns ErrTaskNotFound under the same ownership
	// rule as GetByIDAndOwner.
	Delete(ctx context.Context, id, ownerID int64) error
}
