package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("alice", "correct-horse-battery")
		require.NoError(t, err)

		assert.Equal(t, int64(0), user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "correct-horse-battery", user.Password)
		assert.Empty(t, user.HashedPassword)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "empty username",
			username: "",
			password: "validpassword",
			wantErr:  ErrEmptyUsername,
		},
		{
			name:     "username too short",
			username: "ab",
			password: "validpassword",
			wantErr:  ErrUsernameTooShort,
		},
		{
			name:     "username too long",
			username: strings.Repeat("a", 51),
			password: "validpassword",
			wantErr:  ErrUsernameTooLong,
		},
		{
			name:     "password too short",
			username: "alice",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			username: "alice",
			password: strings.Repeat("p", 73),
			wantErr:  ErrPasswordTooLong,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			user, err := NewUser(tc.username, tc.password)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	t.Run("stored user with hash only is valid", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:             1,
			Username:       "alice",
			HashedPassword: "$2a$10$somethinghashed",
		}
		assert.NoError(t, user.Validate())
	})

	t.Run("user without password or hash is invalid", func(t *testing.T) {
		t.Parallel()
		user := &User{ID: 1, Username: "alice"}
		assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
	})
}
