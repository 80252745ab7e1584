package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// stubTaskService lets tests script the task service's behavior per call.
type stubTaskService struct {
	createFn func(ctx context.Context, ownerID int64, title, description string, status *domain.TaskStatus) (*domain.Task, error)
	listFn   func(ctx context.Context, ownerID int64) ([]*domain.Task, error)
	getFn    func(ctx context.Context, ownerID, id int64) (*domain.Task, error)
	updateFn func(ctx context.Context, ownerID, id int64, title, description string, status *domain.TaskStatus) (*domain.Task, error)
	deleteFn func(ctx context.Context, ownerID, id int64) error
}

var _ service.TaskService = (*stubTaskService)(nil)

func (s *stubTaskService) Create(ctx context.Context, ownerID int64, title, description string, status *domain.TaskStatus) (*domain.Task, error) {
	return s.createFn(ctx, ownerID, title, description, status)
}

func (s *stubTaskService) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return s.listFn(ctx, ownerID)
}

func (s *stubTaskService) Get(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *stubTaskService) Update(ctx context.Context, ownerID, id int64, title, description string, status *domain.TaskStatus) (*domain.Task, error) {
	return s.updateFn(ctx, ownerID, id, title, description, status)
}

func (s *stubTaskService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.deleteFn(ctx, ownerID, id)
}

// newTaskRouter mounts the handler's routes behind a middleware that plants
// the given user ID in the context, standing in for the auth middleware.
func newTaskRouter(handler *TaskHandler, userID int64) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/tasks", handler.Create)
	r.Get("/tasks", handler.List)
	r.Get("/tasks/{id}", handler.Get)
	r.Put("/tasks/{id}", handler.Update)
	r.Delete("/tasks/{id}", handler.Delete)
	return r
}

func sampleTask() *domain.Task {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:          3,
		UserID:      7,
		Title:       "write report",
		Description: "quarterly numbers",
		Status:      domain.TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTaskHandlerCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates task for authenticated user", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			createFn: func(_ context.Context, ownerID int64, title, description string, status *domain.TaskStatus) (*domain.Task, error) {
				assert.Equal(t, int64(7), ownerID)
				assert.Equal(t, "write report", title)
				assert.Equal(t, "quarterly numbers", description)
				assert.Nil(t, status)
				return sampleTask(), nil
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodPost, "/tasks",
			`{"title":"write report","description":"quarterly numbers"}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.ID)
		assert.Equal(t, "PENDING", resp.Status)
	})

	t.Run("explicit status is passed through", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			createFn: func(_ context.Context, _ int64, _, _ string, status *domain.TaskStatus) (*domain.Task, error) {
				require.NotNil(t, status)
				assert.Equal(t, domain.TaskStatusInProgress, *status)
				task := sampleTask()
				task.Status = domain.TaskStatusInProgress
				return task, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodPost, "/tasks",
			`{"title":"write report","status":"IN_PROGRESS"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("invalid status rejected with 400", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			createFn: func(_ context.Context, _ int64, _, _ string, _ *domain.TaskStatus) (*domain.Task, error) {
				t.Fatal("service should not be called")
				return nil, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodPost, "/tasks",
			`{"title":"write report","status":"DONE"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing title rejected with 400", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(NewTaskHandler(&stubTaskService{}, nil), 7)

		rec := doRequest(t, router, http.MethodPost, "/tasks", `{"description":"x"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing user context returns 401", func(t *testing.T) {
		t.Parallel()
		handler := NewTaskHandler(&stubTaskService{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/tasks",
			bytes.NewBufferString(`{"title":"x"}`))
		rec := httptest.NewRecorder()
		handler.Create(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTaskHandlerList(t *testing.T) {
	t.Parallel()

	t.Run("returns owned tasks", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			listFn: func(_ context.Context, ownerID int64) ([]*domain.Task, error) {
				assert.Equal(t, int64(7), ownerID)
				return []*domain.Task{sampleTask()}, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodGet, "/tasks", "")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp []TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "write report", resp[0].Title)
	})

	t.Run("empty list serializes as JSON array", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			listFn: func(_ context.Context, _ int64) ([]*domain.Task, error) {
				return nil, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodGet, "/tasks", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestTaskHandlerGet(t *testing.T) {
	t.Parallel()

	t.Run("returns task by id", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			getFn: func(_ context.Context, ownerID, id int64) (*domain.Task, error) {
				assert.Equal(t, int64(7), ownerID)
				assert.Equal(t, int64(3), id)
				return sampleTask(), nil
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodGet, "/tasks/3", "")

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found returns 404", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			getFn: func(_ context.Context, _, _ int64) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodGet, "/tasks/99", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Task not found")
	})

	t.Run("non numeric id returns 400", func(t *testing.T) {
		t.Parallel()
		router := newTaskRouter(NewTaskHandler(&stubTaskService{}, nil), 7)

		rec := doRequest(t, router, http.MethodGet, "/tasks/abc", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandlerUpdate(t *testing.T) {
	t.Parallel()

	t.Run("updates task fields", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			updateFn: func(_ context.Context, ownerID, id int64, title, description string, status *domain.TaskStatus) (*domain.Task, error) {
				assert.Equal(t, int64(7), ownerID)
				assert.Equal(t, int64(3), id)
				assert.Equal(t, "new title", title)
				require.NotNil(t, status)
				assert.Equal(t, domain.TaskStatusCompleted, *status)
				task := sampleTask()
				task.Title = title
				task.Status = *status
				return task, nil
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodPut, "/tasks/3",
			`{"title":"new title","status":"COMPLETED"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "COMPLETED", resp.Status)
	})

	t.Run("omitted status passes nil to service", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			updateFn: func(_ context.Context, _, _ int64, _, _ string, status *domain.TaskStatus) (*domain.Task, error) {
				assert.Nil(t, status)
				return sampleTask(), nil
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodPut, "/tasks/3", `{"title":"new title"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("update of unowned task returns 404", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			updateFn: func(_ context.Context, _, _ int64, _, _ string, _ *domain.TaskStatus) (*domain.Task, error) {
				return nil, store.ErrTaskNotFound
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodPut, "/tasks/3", `{"title":"new title"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskHandlerDelete(t *testing.T) {
	t.Parallel()

	t.Run("delete returns 204 with empty body", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			deleteFn: func(_ context.Context, ownerID, id int64) error {
				assert.Equal(t, int64(7), ownerID)
				assert.Equal(t, int64(3), id)
				return nil
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodDelete, "/tasks/3", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("delete of missing task returns 404", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			deleteFn: func(_ context.Context, _, _ int64) error {
				return store.ErrTaskNotFound
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodDelete, "/tasks/3", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unexpected service error returns 500 with generic message", func(t *testing.T) {
		t.Parallel()
		svc := &stubTaskService{
			deleteFn: func(_ context.Context, _, _ int64) error {
				return errors.New("connection reset")
			},
		}
		router := newTaskRouter(NewTaskHandler(svc, nil), 7)

		rec := doRequest(t, router, http.MethodDelete, "/tasks/3", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})
}
