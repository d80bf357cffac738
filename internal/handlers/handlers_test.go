package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoConsole/internal/handlers"
	"todoConsole/internal/handlers/dto"
	"todoConsole/internal/models/task"
	"todoConsole/internal/repository/task/inmemory"
	"todoConsole/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskService - мок сервиса
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTaskService) CreateTask(title string, opts ...task.TaskOption) (*task.Task, error) {
	args := m.Called(title, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) GetAllTasks() []*task.Task {
	args := m.Called()
	return args.Get(0).([]*task.Task)
}

func (m *MockTaskService) GetTaskByID(id int) (*task.Task, bool) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*task.Task), args.Bool(1)
}

func (m *MockTaskService) UpdateTask(id int, upd service.TaskUpdate) (bool, error) {
	args := m.Called(id, upd)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskService) DeleteTask(id int) bool {
	args := m.Called(id)
	return args.Bool(0)
}

func (m *MockTaskService) SetCompletion(id int, completed bool) bool {
	args := m.Called(id, completed)
	return args.Bool(0)
}

func (m *MockTaskService) SearchTasks(keyword string) []*task.Task {
	args := m.Called(keyword)
	return args.Get(0).([]*task.Task)
}

func (m *MockTaskService) FilterTasks(f service.Filter) []*task.Task {
	args := m.Called(f)
	return args.Get(0).([]*task.Task)
}

func (m *MockTaskService) SortTasks(key service.SortKey, ascending bool) []*task.Task {
	args := m.Called(key, ascending)
	return args.Get(0).([]*task.Task)
}

func (m *MockTaskService) Today() task.Date {
	return task.DateOf(fixedNow)
}

var _ handlers.Service = (*MockTaskService)(nil)

var fixedNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func newRouter(svc handlers.Service) http.Handler {
	r := chi.NewRouter()
	h := handlers.NewTaskHandler(svc)
	h.Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type taskEnvelope struct {
	Task dto.TaskResponse `json:"task"`
}

type listEnvelope struct {
	Tasks []dto.TaskResponse `json:"tasks"`
	Count int                `json:"count"`
}

// errorEnvelope: details всегда объект {field, reason[, problems]}
type errorEnvelope struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func mustTask(t *testing.T, id int, title string, opts ...task.TaskOption) *task.Task {
	t.Helper()
	tk, err := task.New(id, title, fixedNow, opts...)
	require.NoError(t, err)
	return tk
}

// TestTaskHandler_HealthCheck тестирует HealthCheck
func TestTaskHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name: "success - healthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck").Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "error - unhealthy",
			setupMock: func(m *MockTaskService) {
				m.On("HealthCheck").Return(errors.New("service unavailable"))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(mockService), http.MethodGet, "/health", "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"service":"todo"`)

			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_PostTask тестирует создание задачи
func TestTaskHandler_PostTask(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectedError  string
		expectedField  string
		problems       int
	}{
		{
			name:        "success - create task",
			requestBody: `{"title": "Test Task", "description": "Test Description", "due_date": "2026-10-20", "priority": "high", "tags": ["work"]}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", "Test Task", mock.Anything).
					Return(mustTask(t, 1, "Test Task",
						task.WithDescription("Test Description"),
						task.WithPriority(task.PriorityHigh),
						task.WithTags("work")), nil)
			},
			expectedStatus: http.StatusCreated,
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
			name:           "error - missing title",
			requestBody:    `{"description": "Test Description"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  service.CodeValidation,
			expectedField:  "title",
			problems:       1,
		},
		{
			name:           "error - bad date and priority",
			requestBody:    `{"title": "Task", "due_date": "2026/10/20", "priority": "urgent"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  service.CodeValidation,
			expectedField:  "due_date",
			problems:       2,
		},
		{
			name:        "error - service error",
			requestBody: `{"title": "Test Task"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", "Test Task", mock.Anything).
					Return(nil, errors.New("service error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(mockService), http.MethodPost, "/tasks", tt.contentType, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusCreated {
				var response taskEnvelope
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, 1, response.Task.ID)
				assert.Equal(t, "Test Task", response.Task.Title)
				assert.Equal(t, "HIGH", response.Task.Priority)
			}
			if tt.expectedError != "" {
				var response errorEnvelope
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, tt.expectedError, response.Error)
				assert.Equal(t, "Validation errors", response.Message)
				assert.Equal(t, tt.expectedField, response.Details["field"])
				assert.NotEmpty(t, response.Details["reason"])
				assert.Len(t, response.Details["problems"], tt.problems)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_GetTaskByID тестирует получение задачи по ID
func TestTaskHandler_GetTaskByID(t *testing.T) {
	tests := []struct {
		name           string
		taskID         string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:   "success - get task",
			taskID: "1",
			setupMock: func(m *MockTaskService) {
				m.On("GetTaskByID", 1).Return(mustTask(t, 1, "Test Task"), true)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - invalid id",
			taskID:         "abc",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - zero id",
			taskID:         "0",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "error - task not found",
			taskID: "5",
			setupMock: func(m *MockTaskService) {
				m.On("GetTaskByID", 5).Return(nil, false)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(mockService), http.MethodGet, "/tasks/"+tt.taskID, "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response taskEnvelope
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, 1, response.Task.ID)
				assert.Equal(t, "Test Task", response.Task.Title)
			}
			if tt.expectedStatus == http.StatusNotFound {
				var response errorEnvelope
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, service.CodeNotFound, response.Error)
				assert.Equal(t, "Task with ID 5 not found", response.Message)
			}

			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_UpdateTaskByID тестирует обновление задачи
func TestTaskHandler_UpdateTaskByID(t *testing.T) {
	_, validationErr := task.New(1, "", fixedNow)

	tests := []struct {
		name           string
		taskID         string
		requestBody    string
		contentType    string
		setupMock      func(*MockTaskService)
		expectedStatus int
		expectedField  string
	}{
		{
			name:        "success - update task",
			taskID:      "1",
			requestBody: `{"title": "Updated Title", "priority": "low"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("UpdateTask", 1, mock.MatchedBy(func(u service.TaskUpdate) bool {
					return u.Title != nil && *u.Title == "Updated Title" &&
						u.Priority != nil && *u.Priority == task.PriorityLow &&
						u.Description == nil && u.DueDate == nil
				})).Return(true, nil)
				m.On("GetTaskByID", 1).
					Return(mustTask(t, 1, "Updated Title", task.WithPriority(task.PriorityLow)), true)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "error - invalid content type",
			taskID:         "1",
			requestBody:    `{}`,
			contentType:    "text/plain",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "error - invalid id",
			taskID:         "x1",
			requestBody:    `{}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - invalid JSON",
			taskID:         "1",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - invalid date",
			taskID:         "1",
			requestBody:    `{"due_date": "tomorrow"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "due_date",
		},
		{
			name:        "error - not found",
			taskID:      "3",
			requestBody: `{"title": "Updated Title"}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("UpdateTask", 3, mock.Anything).Return(false, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "error - validation from entity",
			taskID:      "1",
			requestBody: `{"title": ""}`,
			contentType: "application/json",
			setupMock: func(m *MockTaskService) {
				m.On("UpdateTask", 1, mock.Anything).Return(true, validationErr)
			},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(mockService), http.MethodPatch, "/tasks/"+tt.taskID, tt.contentType, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response taskEnvelope
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, "Updated Title", response.Task.Title)
				assert.Equal(t, "LOW", response.Task.Priority)
			}
			if tt.expectedField != "" {
				var response errorEnvelope
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, service.CodeValidation, response.Error)
				assert.Equal(t, tt.expectedField, response.Details["field"])
				assert.NotEmpty(t, response.Details["reason"])
			}

			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_DeleteTaskByID тестирует удаление задачи
func TestTaskHandler_DeleteTaskByID(t *testing.T) {
	tests := []struct {
		name           string
		taskID         string
		setupMock      func(*MockTaskService)
		expectedStatus int
	}{
		{
			name:   "success - delete task",
			taskID: "1",
			setupMock: func(m *MockTaskService) {
				m.On("DeleteTask", 1).Return(true)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "error - invalid id",
			taskID:         "one",
			setupMock:      func(m *MockTaskService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "error - not found",
			taskID: "2",
			setupMock: func(m *MockTaskService) {
				m.On("DeleteTask", 2).Return(false)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockTaskService)
			tt.setupMock(mockService)

			w := do(t, newRouter(mockService), http.MethodDelete, "/tasks/"+tt.taskID, "", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusNoContent {
				assert.Empty(t, w.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_Completion тестирует отметку выполнения
func TestTaskHandler_Completion(t *testing.T) {
	t.Run("success - complete", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("SetCompletion", 1, true).Return(true)
		mockService.On("GetTaskByID", 1).Return(mustTask(t, 1, "Task", task.WithCompleted(true)), true)

		w := do(t, newRouter(mockService), http.MethodPost, "/tasks/1/complete", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var response taskEnvelope
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.True(t, response.Task.Completed)
		assert.NotNil(t, response.Task.CompletedAt)
		mockService.AssertExpectations(t)
	})

	t.Run("error - incomplete unknown id", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("SetCompletion", 8, false).Return(false)

		w := do(t, newRouter(mockService), http.MethodPost, "/tasks/8/incomplete", "", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}

// TestTaskHandler_ListTasks тестирует разбор параметров списка
func TestTaskHandler_ListTasks(t *testing.T) {
	all := []*task.Task{
		mustTask(t, 1, "Alpha", task.WithPriority(task.PriorityHigh), task.WithTags("work")),
		mustTask(t, 2, "Beta", task.WithTags("home")),
		mustTask(t, 3, "Gamma", task.WithPriority(task.PriorityHigh)),
	}

	t.Run("success - plain list", func(t *testing.T) {
		mockService := new(MockTaskService)
		mockService.On("SortTasks", service.SortByID, true).Return(all)

		w := do(t, newRouter(mockService), http.MethodGet, "/tasks", "", "")

		require.Equal(t, http.StatusOK, w.Code)
		var response listEnvelope
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, 3, response.Count)
		mockService.AssertExpectations(t)
	})

	t.Run("success - search, filter and sort combined", func(t *testing.T) {
		high := task.PriorityHigh
		mockService := new(MockTaskService)
		mockService.On("SortTasks", service.SortByTitle, false).Return([]*task.Task{all[2], all[1], all[0]})
		mockService.On("SearchTasks", "a").Return(all)
		mockService.On("FilterTasks", service.Filter{Priority: &high}).Return([]*task.Task{all[0], all[2]})

		w := do(t, newRouter(mockService), http.MethodGet, "/tasks?q=a&priority=high&sort=title&order=desc", "", "")

		require.Equal(t, http.StatusOK, w.Code)
		var response listEnvelope
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response.Tasks, 2)
		assert.Equal(t, 3, response.Tasks[0].ID)
		assert.Equal(t, 1, response.Tasks[1].ID)
		mockService.AssertExpectations(t)
	})

	badQueries := []string{
		"/tasks?status=maybe",
		"/tasks?priority=urgent",
		"/tasks?due=tomorrow",
		"/tasks?order=sideways",
	}
	for _, target := range badQueries {
		t.Run("error - "+target, func(t *testing.T) {
			mockService := new(MockTaskService)
			w := do(t, newRouter(mockService), http.MethodGet, target, "", "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestTaskHandler_EndToEnd тестирует обработчики поверх настоящего сервиса
func TestTaskHandler_EndToEnd(t *testing.T) {
	svc := service.NewTaskService(inmemory.NewTaskStorage(), service.WithClock(func() time.Time { return fixedNow }))
	router := newRouter(svc)

	w := do(t, router, http.MethodPost, "/tasks", "application/json",
		`{"title": "Pay rent", "due_date": "2026-10-13", "tags": ["home", "money"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created taskEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, 1, created.Task.ID)
	assert.Equal(t, "MEDIUM", created.Task.Priority)
	assert.True(t, created.Task.IsOverdue)

	w = do(t, router, http.MethodGet, "/tasks?due=overdue&tags=money", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list listEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Equal(t, 1, list.Count)

	w = do(t, router, http.MethodPost, "/tasks/1/complete", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/tasks?status=completed", "", "")
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list.Tasks, 1)
	assert.False(t, list.Tasks[0].IsOverdue)

	w = do(t, router, http.MethodPatch, "/tasks/1", "application/json", `{"tags": [""]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp errorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
	assert.Equal(t, service.CodeValidation, errResp.Error)
	assert.Equal(t, "tags", errResp.Details["field"])

	w = do(t, router, http.MethodDelete, "/tasks/1", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, "/tasks/1", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
