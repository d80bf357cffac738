package service

import (
	"todoConsole/internal/models/task"
)

type TaskRepository interface {
	HealthCheck() error
	Create(build func(id int) (*task.Task, error)) (*task.Task, error)
	GetByID(id int) (*task.Task, error)
	GetAll() []*task.Task
	Update(id int, mutate func(*task.Task) error) (*task.Task, error)
	Delete(id int) error
}
