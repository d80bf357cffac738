package handlers

import (
	"todoConsole/internal/models/task"
	"todoConsole/internal/service"
)

type Service interface {
	HealthCheck() error
	CreateTask(title string, opts ...task.TaskOption) (*task.Task, error)
	GetAllTasks() []*task.Task
	GetTaskByID(id int) (*task.Task, bool)
	UpdateTask(id int, upd service.TaskUpdate) (bool, error)
	DeleteTask(id int) bool
	SetCompletion(id int, completed bool) bool
	SearchTasks(keyword string) []*task.Task
	FilterTasks(f service.Filter) []*task.Task
	SortTasks(key service.SortKey, ascending bool) []*task.Task
	Today() task.Date
}
