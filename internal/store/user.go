package store

import (
	"context"

	"github.com/phrazzld/task-manager-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store and fills in the
	// database-assigned ID and timestamps on the given user.
	// The user must already carry a hashed password.
	// Returns ErrUsernameExists if the username is already taken; the
	// uniqueness check is atomic with respect to concurrent registrations
	// of the same name.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// ExistsByUsername reports whether a user with the given username exists.
	// This is an advisory fast-path check only; Create remains the
	// authoritative uniqueness gate.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
