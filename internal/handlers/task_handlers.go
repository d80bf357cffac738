package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"todoConsole/internal/handlers/dto"
	"todoConsole/internal/logger"
	"todoConsole/internal/models/task"
	"todoConsole/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService Service
}

func NewTaskHandler(taskService Service) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// Routes регистрирует маршруты задач и /health.
func (s *TaskHandler) Routes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.ListTasks)  // GET /tasks
		r.Post("/", s.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTaskByID)       // GET /tasks/{id}
			r.Patch("/", s.UpdateTaskByID)  // PATCH /tasks/{id}
			r.Delete("/", s.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/complete", s.CompleteTask)     // POST /tasks/{id}/complete
			r.Post("/incomplete", s.IncompleteTask) // POST /tasks/{id}/incomplete
		})
	})

	r.Get("/health", s.HealthCheck)
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	healthCheck(w, s.TaskService.HealthCheck())
}

// ListTasks сортирует все задачи и оставляет те, что прошли поиск и фильтр.
func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query, err := parseListQuery(r)
	if err != nil {
		logger.Warn("HTTP: Неверные параметры запроса",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks := s.TaskService.SortTasks(query.sortKey, query.ascending)

	if query.keyword != nil {
		tasks = intersect(tasks, s.TaskService.SearchTasks(*query.keyword))
	}
	if !query.filter.IsEmpty() {
		tasks = intersect(tasks, s.TaskService.FilterTasks(query.filter))
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("tasks", dto.FromTaskList(tasks, s.TaskService.Today())),
		toPayload("count", len(tasks)),
	)
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if problems := task.ValidateTaskData(request.Input()); len(problems) > 0 {
		logger.Warn("HTTP: Ошибка валидации",
			zap.Int("problems", len(problems)),
			zap.String("first_field", problems[0].Field),
			zap.String("client_ip", r.RemoteAddr))

		handleBusinessError(w, newValidationProblems(problems))
		return
	}

	var due *task.Date
	if parsed, ok := task.ParseDate(request.DueDate); ok {
		due = &parsed
	}
	opts := []task.TaskOption{
		task.WithDescriptionPtr(request.Description),
		task.WithDueDatePtr(due),
		task.WithTags(request.Tags...),
	}
	if p, err := task.ParsePriority(request.Priority); err == nil {
		opts = append(opts, task.WithPriority(p))
	}

	created, err := s.TaskService.CreateTask(request.Title, opts...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created, s.TaskService.Today())))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := s.readID(w, r)
	if !ok {
		return
	}

	found, ok := s.TaskService.GetTaskByID(id)
	if !ok {
		handleBusinessError(w, service.NewNotFound(id))
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(found, s.TaskService.Today())))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	id, ok := s.readID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid update body: "+err.Error())
		return
	}

	upd, problems := toUpdate(request)
	if len(problems) > 0 {
		handleBusinessError(w, newValidationProblems(problems))
		return
	}

	found, err := s.TaskService.UpdateTask(id, upd)
	if !found {
		handleBusinessError(w, service.NewNotFound(id))
		return
	}
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	updated, _ := s.TaskService.GetTaskByID(id)

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, s.TaskService.Today())))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := s.readID(w, r)
	if !ok {
		return
	}

	if !s.TaskService.DeleteTask(id) {
		handleBusinessError(w, service.NewNotFound(id))
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int("task_id", id),
		zap.Int("http_status", http.StatusNoContent))

	responseWithJSON(w, http.StatusNoContent)
}

func (s *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	s.setCompletion(w, r, true)
}

func (s *TaskHandler) IncompleteTask(w http.ResponseWriter, r *http.Request) {
	s.setCompletion(w, r, false)
}

func (s *TaskHandler) setCompletion(w http.ResponseWriter, r *http.Request, completed bool) {
	id, ok := s.readID(w, r)
	if !ok {
		return
	}

	if !s.TaskService.SetCompletion(id, completed) {
		handleBusinessError(w, service.NewNotFound(id))
		return
	}

	updated, _ := s.TaskService.GetTaskByID(id)
	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, s.TaskService.Today())))
}

func (s *TaskHandler) readID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := parseID(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "invalid task id: "+chi.URLParam(r, "id"))
		return 0, false
	}
	return id, true
}

// intersect сохраняет порядок base и оставляет только задачи из keep.
func intersect(base, keep []*task.Task) []*task.Task {
	allowed := make(map[int]struct{}, len(keep))
	for _, t := range keep {
		allowed[t.ID] = struct{}{}
	}

	res := make([]*task.Task, 0, len(base))
	for _, t := range base {
		if _, ok := allowed[t.ID]; ok {
			res = append(res, t)
		}
	}
	return res
}
