package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// stubAuthService lets tests script the auth service's behavior per call.
type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (*auth.AuthResult, error)
	loginFn    func(ctx context.Context, username, password string) (*auth.AuthResult, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*auth.AuthResult, error)
}

var _ auth.Service = (*stubAuthService)(nil)

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*auth.AuthResult, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*auth.AuthResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*auth.AuthResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

func successResult() *auth.AuthResult {
	return &auth.AuthResult{
		UserID:       7,
		Username:     "alice",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()

	t.Run("successful registration returns 201 with token pair", func(t *testing.T) {
		t.Parallel()
		svc := &stubAuthService{
			registerFn: func(_ context.Context, username, password string) (*auth.AuthResult, error) {
				assert.Equal(t, "alice", username)
				assert.Equal(t, "password123", password)
				return successResult(), nil
			},
		}
		handler := NewAuthHandler(svc, nil)

		rec := postJSON(t, handler.Register,
			`{"username":"alice","password":"password123"}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.UserID)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "access-token", resp.AccessToken)
		assert.Equal(t, "refresh-token", resp.RefreshToken)
		assert.Equal(t, "2025-06-01T12:00:00Z", resp.ExpiresAt)
	})

	t.Run("duplicate username returns 409", func(t *testing.T) {
		t.Parallel()
		svc := &stubAuthService{
			registerFn: func(_ context.Context, _, _ string) (*auth.AuthResult, error) {
				return nil, store.ErrUsernameExists
			},
		}
		handler := NewAuthHandler(svc, nil)

		rec := postJSON(t, handler.Register,
			`{"username":"alice","password":"password123"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "Username already exists")
	})

	t.Run("short password rejected before reaching service", func(t *testing.T) {
		t.Parallel()
		svc := &stubAuthService{
			registerFn: func(_ context.Context, _, _ string) (*auth.AuthResult, error) {
				t.Fatal("service should not be called")
				return nil, nil
			},
		}
		handler := NewAuthHandler(svc, nil)

		rec := postJSON(t, handler.Register,
			`{"username":"alice","password":"short"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(&stubAuthService{}, nil)

		rec := postJSON(t, handler.Register, `{"username":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(&stubAuthService{}, nil)

		rec := postJSON(t, handler.Register,
			`{"username":"alice","password":"password123","admin":true}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	t.Run("successful login returns 200 with token pair", func(t *testing.T) {
		t.Parallel()
		svc := &stubAuthService{
			loginFn: func(_ context.Context, username, password string) (*auth.AuthResult, error) {
				assert.Equal(t, "alice", username)
				return successResult(), nil
			},
		}
		handler := NewAuthHandler(svc, nil)

		rec := postJSON(t, handler.Login,
			`{"username":"alice","password":"password123"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "access-token", resp.AccessToken)
	})

	t.Run("invalid credentials return 401 with uniform message", func(t *testing.T) {
		t.Parallel()
		svc := &stubAuthService{
			loginFn: func(_ context.Context, _, _ string) (*auth.AuthResult, error) {
				return nil, auth.ErrInvalidCredentials
			},
		}
		handler := NewAuthHandler(svc, nil)

		rec := postJSON(t, handler.Login,
			`{"username":"alice","password":"wrongpass"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	})

	t.Run("missing fields return 401 not 400", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(&stubAuthService{}, nil)

		rec := postJSON(t, handler.Login, `{"username":"alice"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	})
}

func TestAuthHandlerRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("valid refresh token returns new pair", func(t *testing.T) {
		t.Parallel()
		svc := &stubAuthService{
			refreshFn: func(_ context.Context, refreshToken string) (*auth.AuthResult, error) {
				assert.Equal(t, "old-refresh", refreshToken)
				return successResult(), nil
			},
		}
		handler := NewAuthHandler(svc, nil)

		rec := postJSON(t, handler.RefreshToken, `{"refresh_token":"old-refresh"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "refresh-token", resp.RefreshToken)
	})

	t.Run("invalid refresh token returns 401", func(t *testing.T) {
		t.Parallel()
		svc := &stubAuthService{
			refreshFn: func(_ context.Context, _ string) (*auth.AuthResult, error) {
				return nil, auth.ErrInvalidRefreshToken
			},
		}
		handler := NewAuthHandler(svc, nil)

		rec := postJSON(t, handler.RefreshToken, `{"refresh_token":"garbage"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid token")
	})

	t.Run("missing refresh token returns 400", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(&stubAuthService{}, nil)

		rec := postJSON(t, handler.RefreshToken, `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
