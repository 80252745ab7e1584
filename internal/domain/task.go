package domain

import (
	"errors"
	"fmt"
	"time"
)

// Common task validation errors
var (
	ErrEmptyTitle        = errors.New("task title cannot be empty")
	ErrTitleTooLong      = errors.New("task title must be at most 255 characters long")
	ErrEmptyTaskOwner    = errors.New("task owner cannot be empty")
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// TaskStatus represents the progress state of a task.
type TaskStatus string

// Valid task statuses. A task may move between any two statuses;
// no transition graph is enforced.
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task represents a single unit of work owned by a user.
// The ID is assigned by the database on creation. UserID identifies the
// owning user and never changes after creation.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user.
// A nil status defaults to TaskStatusPending.
// Returns an error if validation fails.
func NewTask(userID int64, title, description string, status *TaskStatus) (*Task, error) {
	st := TaskStatusPending
	if status != nil {
		st = *status
	}

	now := time.Now().UTC()
	task := &Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      st,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.UserID == 0 {
		return ErrEmptyTaskOwner
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > 255 {
		return ErrTitleTooLong
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, t.Status)
	}
	return nil
}
