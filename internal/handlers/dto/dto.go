package dto

import (
	"time"

	"todoConsole/internal/models/task"
)

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	DueDate     string   `json:"due_date,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (c CreateTaskRequest) Input() task.Input {
	return task.Input{
		Title:       c.Title,
		Description: c.Description,
		DueDate:     c.DueDate,
		Priority:    c.Priority,
		Tags:        c.Tags,
	}
}

type UpdateTaskRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type TaskResponse struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *string    `json:"due_date"`
	Priority    string     `json:"priority"`
	Tags        []string   `json:"tags"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsOverdue   bool       `json:"is_overdue"`
}

type ErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func FromTask(t *task.Task, today task.Date) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority.Name(),
		Tags:        t.Tags,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.String()
		resp.DueDate = &due
		resp.IsOverdue = !t.Completed && t.DueDate.IsOverdue(today)
	}
	return resp
}

func FromTaskList(tasks []*task.Task, today task.Date) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t, today)
	}
	return result
}

func FromValidationErrors(problems []*task.ValidationError) []ErrorDetail {
	result := make([]ErrorDetail, len(problems))
	for i, p := range problems {
		result[i] = ErrorDetail{Field: p.Field, Reason: p.Reason}
	}
	return result
}
