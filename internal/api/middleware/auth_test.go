package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-manager-api/internal/service/auth"
)

const testSecret = "test-secret-that-is-at-least-32-chars-long"

func newProtectedHandler(t *testing.T, jwtService auth.JWTService) http.Handler {
	t.Helper()
	mw := NewAuthMiddleware(jwtService)
	return mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r)
		require.True(t, ok, "user ID should be in context after authentication")
		assert.Equal(t, int64(42), userID)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	jwtService := auth.NewTestJWTService(testSecret, time.Hour, func() time.Time { return now })

	t.Run("valid token passes through with user ID in context", func(t *testing.T) {
		t.Parallel()
		token, err := jwtService.GenerateToken(context.Background(), 42)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		newProtectedHandler(t, jwtService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header returns 401", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rec := httptest.NewRecorder()

		newProtectedHandler(t, jwtService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Authorization header required")
	})

	t.Run("malformed header returns 401", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		newProtectedHandler(t, jwtService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid authorization format")
	})

	t.Run("garbage token returns 401", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()

		newProtectedHandler(t, jwtService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid token")
	})

	t.Run("expired token returns 401 with expiry message", func(t *testing.T) {
		t.Parallel()
		token, err := jwtService.GenerateToken(context.Background(), 42)
		require.NoError(t, err)

		// A validator whose clock is two hours ahead sees the token as expired.
		laterService := auth.NewTestJWTService(testSecret, time.Hour,
			func() time.Time { return now.Add(2 * time.Hour) })

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		newProtectedHandler(t, laterService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token expired")
	})

	t.Run("refresh token rejected on protected routes", func(t *testing.T) {
		t.Parallel()
		refreshToken, err := jwtService.GenerateRefreshToken(context.Background(), 42)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+refreshToken)
		rec := httptest.NewRecorder()

		newProtectedHandler(t, jwtService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid token")
	})

	t.Run("token signed with a different key rejected", func(t *testing.T) {
		t.Parallel()
		otherService := auth.NewTestJWTService(
			"another-secret-that-is-32-chars-long!!", time.Hour,
			func() time.Time { return now })
		token, err := otherService.GenerateToken(context.Background(), 42)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		newProtectedHandler(t, jwtService).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
