package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"todoConsole/internal/logger"
	"todoConsole/internal/models/task"
	rep "todoConsole/internal/repository"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

type ServiceOption func(*TaskService)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTaskService(repo TaskRepository, opts ...ServiceOption) *TaskService {
	s := &TaskService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TaskUpdate описывает изменяемые поля. nil значит "не трогать".
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *task.Date
	Priority    *task.Priority
	Tags        []string
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil && u.Priority == nil && u.Tags == nil
}

func (s *TaskService) HealthCheck() error {
	if err := s.repo.HealthCheck(); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(title string, opts ...task.TaskOption) (*task.Task, error) {
	created, err := s.repo.Create(func(id int) (*task.Task, error) {
		return task.New(id, title, s.now(), opts...)
	})
	if err != nil {
		logger.Warn("Service: Задача не создана", zap.String("operation", "create_task"), zap.Error(err))
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.Int("task_id", created.ID))
	return created, nil
}

func (s *TaskService) GetAllTasks() []*task.Task {
	return s.repo.GetAll()
}

func (s *TaskService) GetTaskByID(id int) (*task.Task, bool) {
	found, err := s.repo.GetByID(id)
	if err != nil {
		logger.Info("Service: Задача не найдена", zap.Int("target_id", id))
		return nil, false
	}
	return found, true
}

// UpdateTask применяет поля по порядку: title, description, due_date,
// priority, tags. Первым значением возвращается, существует ли задача.
func (s *TaskService) UpdateTask(id int, upd TaskUpdate) (bool, error) {
	_, err := s.repo.Update(id, func(t *task.Task) error {
		if upd.Title != nil {
			if err := t.SetTitle(*upd.Title); err != nil {
				return err
			}
		}
		if upd.Description != nil {
			if err := t.SetDescription(upd.Description); err != nil {
				return err
			}
		}
		if upd.DueDate != nil {
			if err := t.SetDueDate(upd.DueDate); err != nil {
				return err
			}
		}
		if upd.Priority != nil {
			if err := t.SetPriority(*upd.Priority); err != nil {
				return err
			}
		}
		if upd.Tags != nil {
			if err := t.SetTags(upd.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, rep.ErrNotFound) {
		logger.Info("Service: Задача не найдена", zap.Int("target_id", id))
		return false, nil
	}
	if err != nil {
		logger.Warn("Service: Задача не обновлена", zap.Int("task_id", id), zap.Error(err))
		return true, fmt.Errorf("обновление задачи %d: %w", id, err)
	}

	logger.Info("Service: Задача обновлена", zap.Int("task_id", id))
	return true, nil
}

func (s *TaskService) DeleteTask(id int) bool {
	if err := s.repo.Delete(id); err != nil {
		logger.Info("Service: Задача не найдена", zap.Int("target_id", id))
		return false
	}
	logger.Info("Service: Задача удалена", zap.Int("task_id", id))
	return true
}

// SetCompletion ставит completed_at на момент вызова при каждой отметке
// выполнения и сбрасывает его при снятии отметки.
func (s *TaskService) SetCompletion(id int, completed bool) bool {
	at := s.now()
	_, err := s.repo.Update(id, func(t *task.Task) error {
		t.SetCompleted(completed, at)
		return nil
	})
	if err != nil {
		logger.Info("Service: Задача не найдена", zap.Int("target_id", id))
		return false
	}
	logger.Info("Service: Статус задачи изменён", zap.Int("task_id", id), zap.Bool("completed", completed))
	return true
}

// SearchTasks ищет подстроку без учёта регистра в названии и описании.
func (s *TaskService) SearchTasks(keyword string) []*task.Task {
	keyword = strings.ToLower(keyword)

	res := []*task.Task{}
	for _, t := range s.repo.GetAll() {
		if strings.Contains(strings.ToLower(t.Title), keyword) {
			res = append(res, t)
			continue
		}
		if t.Description != nil && strings.Contains(strings.ToLower(*t.Description), keyword) {
			res = append(res, t)
		}
	}
	return res
}

func (s *TaskService) FilterTasks(f Filter) []*task.Task {
	today := task.DateOf(s.now())

	res := []*task.Task{}
	for _, t := range s.repo.GetAll() {
		if f.Matches(t, today) {
			res = append(res, t)
		}
	}
	return res
}

// SortTasks возвращает новый упорядоченный список, хранилище не меняется.
// Равные по ключу задачи остаются в порядке id.
func (s *TaskService) SortTasks(key SortKey, ascending bool) []*task.Task {
	tasks := s.repo.GetAll()
	sortTasks(tasks, key, ascending)
	return tasks
}

func (s *TaskService) Today() task.Date {
	return task.DateOf(s.now())
}
