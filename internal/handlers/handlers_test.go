package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"taskManager/internal/handlers"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

// MockTaskService - мок сервиса
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, p service.CreateParams) (*task.Task, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, filter task.ListFilter) ([]*task.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id int64, p service.UpdateParams) (*task.Task, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ToggleTask(ctx context.Context, id int64) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTaskService) Stats(ctx context.Context) (*task.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Stats), args.Error(1)
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ handlers.Service = (*MockTaskService)(nil)

func newRouter(mockService *MockTaskService) *chi.Mux {
	handler := handlers.NewTaskHandler(mockService)

	r := chi.NewRouter()
	r.Route("/todos", func(r chi.Router) {
		r.Get("/", handler.GetTasks)
		r.Post("/", handler.PostTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.GetTaskByID)
			r.Patch("/", handler.PatchTask)
			r.Delete("/", handler.DeleteTaskByID)
			r.Post("/toggle", handler.ToggleTask)
		})
	})
	r.Get("/categories", handler.GetCategories)
	r.Get("/stats", handler.GetStats)
	r.Get("/health", handler.HealthCheck)
	return r
}

func strPtr(s string) *string { return &s }

func sampleTask() *task.Task {
	return &task.Task{
		ID:       1,
		Title:    "купить молоко",
		Priority: task.PriorityMedium,
	}
}

func TestTaskHandler_GetTasks(t *testing.T) {
	t.Run("query params become filter", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("ListTasks", mock.Anything, task.ListFilter{
			Status:    "completed",
			Priority:  task.PriorityHigh,
			Category:  "работа",
			Search:    "отчёт",
			SortBy:    "title",
			SortOrder: task.SortAsc,
		}).Return([]*task.Task{sampleTask()}, nil)

		router := newRouter(mockService)
		req := httptest.NewRequest("GET",
			"/todos?status=completed&priority=high&category=%D1%80%D0%B0%D0%B1%D0%BE%D1%82%D0%B0&search=%D0%BE%D1%82%D1%87%D1%91%D1%82&sort_by=title&sort_order=asc", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body []dto.TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, int64(1), body[0].ID)
		mockService.AssertExpectations(t)
	})

	t.Run("empty list - json array, not null", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("ListTasks", mock.Anything, mock.Anything).Return([]*task.Task{}, nil)

		router := newRouter(mockService)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/todos", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("service failure - 500 with message", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("ListTasks", mock.Anything, mock.Anything).Return(nil, errors.New("бд недоступна"))

		router := newRouter(mockService)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/todos", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Message)
		assert.Empty(t, body.Errors)
	})
}

func TestTaskHandler_PostTask(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
		checkBody      func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "success - create task",
			requestBody: `{"title": "купить молоко", "priority": "high", "category": "продукты"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.MatchedBy(func(p service.CreateParams) bool {
					return p.Title == "купить молоко" &&
						p.Priority != nil && *p.Priority == task.PriorityHigh &&
						p.Category != nil && *p.Category == "продукты"
				})).Return(&task.Task{
					ID:       10,
					Title:    "купить молоко",
					Priority: task.PriorityHigh,
					Category: strPtr("продукты"),
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, w *httptest.ResponseRecorder) {
				var body dto.TaskResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, int64(10), body.ID)
				assert.False(t, body.Completed)
			},
		},
		{
			name:        "error - validation 422 with field errors",
			requestBody: `{"title": "ab"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).Return(nil,
					service.NewValidationError(map[string][]string{
						"title": {"название должно быть от 3 до 255 символов"},
					}))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkBody: func(t *testing.T, w *httptest.ResponseRecorder) {
				var body dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.NotEmpty(t, body.Message)
				assert.Contains(t, body.Errors, "title")
			},
		},
		{
			name:           "error - invalid content type",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - service error",
			requestBody: `{"title": "нормальное название"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).Return(nil, errors.New("бд недоступна"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			router := newRouter(mockService)
			req := httptest.NewRequest("POST", "/todos", bytes.NewBufferString(tt.requestBody))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, w)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaskHandler_GetTaskByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("GetTaskByID", mock.Anything, int64(1)).Return(sampleTask(), nil)

		router := newRouter(mockService)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/todos/1", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found - 404", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("GetTaskByID", mock.Anything, int64(999999)).Return(nil,
			service.NewNotFound(999999, nil))

		router := newRouter(mockService)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/todos/999999", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Message)
	})

	t.Run("bad id - 400, service not called", func(t *testing.T) {
		mockService := new(MockTaskService)

		router := newRouter(mockService)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/todos/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "GetTaskByID", mock.Anything, mock.Anything)
	})
}

func TestTaskHandler_PatchTask(t *testing.T) {
	t.Run("success - only supplied fields forwarded", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("UpdateTask", mock.Anything, int64(1), mock.MatchedBy(func(p service.UpdateParams) bool {
			return p.Title != nil && *p.Title == "новое название" &&
				p.Note == nil && p.Priority == nil && p.Category == nil && p.Completed == nil
		})).Return(sampleTask(), nil)

		router := newRouter(mockService)
		req := httptest.NewRequest("PATCH", "/todos/1", bytes.NewBufferString(`{"title": "новое название"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown body fields never reach the service", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("UpdateTask", mock.Anything, int64(1), mock.MatchedBy(func(p service.UpdateParams) bool {
			// id и created_at из тела не входят в параметры обновления
			return p.Completed != nil && *p.Completed &&
				p.Title == nil && p.Note == nil && p.Priority == nil && p.Category == nil
		})).Return(sampleTask(), nil)

		router := newRouter(mockService)
		req := httptest.NewRequest("PATCH", "/todos/1",
			bytes.NewBufferString(`{"completed": true, "id": 777, "created_at": "2020-01-01T00:00:00Z"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("validation error - 422", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("UpdateTask", mock.Anything, int64(1), mock.Anything).Return(nil,
			service.NewValidationError(map[string][]string{
				"priority": {"приоритет должен быть одним из: low, medium, high"},
			}))

		router := newRouter(mockService)
		req := httptest.NewRequest("PATCH", "/todos/1", bytes.NewBufferString(`{"priority": "urgent"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body.Errors, "priority")
	})
}

func TestTaskHandler_ToggleTask(t *testing.T) {
	mockService := new(MockTaskService)
	toggled := sampleTask()
	toggled.Completed = true
	mockService.On("ToggleTask", mock.Anything, int64(1)).Return(toggled, nil)

	router := newRouter(mockService)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/todos/1/toggle", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Completed)
}

func TestTaskHandler_DeleteTaskByID(t *testing.T) {
	t.Run("success - 204 empty body", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("DeleteTask", mock.Anything, int64(1)).Return(nil)

		router := newRouter(mockService)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("DELETE", "/todos/1", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("not found - 404, not generic error", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("DeleteTask", mock.Anything, int64(999999)).Return(
			service.NewNotFound(999999, nil))

		router := newRouter(mockService)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("DELETE", "/todos/999999", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskHandler_GetCategories(t *testing.T) {
	mockService := new(MockTaskService)
	mockService.On("Categories", mock.Anything).Return([]string{"работа", "дом"}, nil)

	router := newRouter(mockService)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/categories", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var categories []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	assert.ElementsMatch(t, []string{"работа", "дом"}, categories)
}

func TestTaskHandler_GetStats(t *testing.T) {
	mockService := new(MockTaskService)
	stats := task.NewStats()
	stats.Total = 3
	stats.Completed = 1
	stats.Pending = 2
	stats.ByPriority[task.PriorityMedium] = 3
	mockService.On("Stats", mock.Anything).Return(stats, nil)

	router := newRouter(mockService)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body task.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, body.Total, body.Completed+body.Pending)
	assert.Len(t, body.ByPriority, 3)
}

func TestTaskHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("storage unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			router := newRouter(mockService)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), "task-manager")
			mockService.AssertExpectations(t)
		})
	}
}
