package task

import (
	"slices"
	"time"
)

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *Date      `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// New собирает задачу и проверяет её целиком. По умолчанию приоритет MEDIUM,
// теги пустые, задача не выполнена, created_at = now.
func New(id int, title string, now time.Time, opts ...TaskOption) (*Task, error) {
	t := &Task{
		ID:        id,
		Title:     title,
		Priority:  PriorityMedium,
		Tags:      []string{},
		CreatedAt: now,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(t)
	}

	if t.Completed && t.CompletedAt == nil {
		completedAt := now
		t.CompletedAt = &completedAt
	}
	if !t.Completed {
		t.CompletedAt = nil
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Task) SetTitle(title string) error {
	return t.apply(func(next *Task) {
		next.Title = title
	})
}

// SetDescription с nil убирает описание.
func (t *Task) SetDescription(description *string) error {
	return t.apply(func(next *Task) {
		next.Description = cloneString(description)
	})
}

func (t *Task) SetPriority(priority Priority) error {
	return t.apply(func(next *Task) {
		next.Priority = priority
	})
}

func (t *Task) SetTags(tags []string) error {
	return t.apply(func(next *Task) {
		next.Tags = cloneTags(tags)
	})
}

// SetDueDate с nil убирает срок.
func (t *Task) SetDueDate(dueDate *Date) error {
	return t.apply(func(next *Task) {
		next.DueDate = cloneDate(dueDate)
	})
}

// SetCompleted обновляет completed_at при каждом переходе в true,
// даже если задача уже была выполнена.
func (t *Task) SetCompleted(completed bool, at time.Time) {
	t.Completed = completed
	if completed {
		t.CompletedAt = &at
		return
	}
	t.CompletedAt = nil
}

// apply применяет изменение к копии, проверяет копию полностью
// и только потом переносит её в задачу.
func (t *Task) apply(change func(next *Task)) error {
	next := t.Clone()
	change(next)
	if err := next.Validate(); err != nil {
		return err
	}
	*t = *next
	return nil
}

func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Description = cloneString(t.Description)
	c.DueDate = cloneDate(t.DueDate)
	c.Tags = cloneTags(t.Tags)
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		c.CompletedAt = &completedAt
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return slices.Clone(tags)
}
