package inmemory

import (
	"fmt"
	"slices"
	"sync"

	"todoConsole/internal/logger"
	"todoConsole/internal/models/task"
	repo "todoConsole/internal/repository"

	"go.uber.org/zap"
)

// TaskStorage хранит задачи в памяти. Наружу отдаются только копии.
type TaskStorage struct {
	storage map[int]*task.Task
	mtx     *sync.RWMutex
	ids     []int
	nextID  int
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int{},
		nextID:  1,
	}
}

func (s *TaskStorage) HealthCheck() error {
	logger.Info("Repository: Хранилище в памяти доступно", zap.Int("tasks", s.Len()))
	return nil
}

// Create выдаёт build следующий id. Если build вернул ошибку,
// счётчик не сдвигается и ничего не сохраняется.
func (s *TaskStorage) Create(build func(id int) (*task.Task, error)) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	id := s.nextID
	taskToCreate, err := build(id)
	if err != nil {
		return nil, err
	}
	if taskToCreate.ID != id {
		return nil, fmt.Errorf("ожидался id %d, получен %d", id, taskToCreate.ID)
	}

	s.storage[id] = taskToCreate.Clone()
	s.ids = append(s.ids, id)
	s.nextID++

	logger.Info("Repository: Задача сохранена", zap.Int("task_id", id))
	return taskToCreate.Clone(), nil
}

func (s *TaskStorage) GetByID(id int) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

// GetAll возвращает задачи в порядке возрастания id.
func (s *TaskStorage) GetAll() []*task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res
}

// Update вызывает mutate на сохранённой задаче под блокировкой.
// Изменения, успевшие пройти до ошибки mutate, остаются.
func (s *TaskStorage) Update(id int, mutate func(*task.Task) error) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToUpdate, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	if err := mutate(taskToUpdate); err != nil {
		return taskToUpdate.Clone(), err
	}
	return taskToUpdate.Clone(), nil
}

func (s *TaskStorage) Delete(id int) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	if ind := slices.Index(s.ids, id); ind >= 0 {
		s.ids = slices.Delete(s.ids, ind, ind+1)
	}
	return nil
}

func (s *TaskStorage) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.ids)
}
