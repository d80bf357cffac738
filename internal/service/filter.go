package service

import (
	"fmt"
	"slices"
	"strings"

	"todoConsole/internal/models/task"
)

type DueDateFilter string

const (
	DueAny      DueDateFilter = ""
	DueOverdue  DueDateFilter = "overdue"
	DueToday    DueDateFilter = "today"
	DueThisWeek DueDateFilter = "week"
)

func ParseDueDateFilter(s string) (DueDateFilter, error) {
	switch f := DueDateFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case DueAny, DueOverdue, DueToday, DueThisWeek:
		return f, nil
	default:
		return DueAny, fmt.Errorf("неизвестный фильтр по сроку %q: ожидается overdue, today или week", s)
	}
}

// Filter: все заданные условия должны выполняться одновременно.
// Для тегов достаточно совпадения хотя бы одного. Пустой список тегов
// считается не заданным.
type Filter struct {
	Status   *bool
	Priority *task.Priority
	Tags     []string
	DueDate  DueDateFilter
}

func (f Filter) IsEmpty() bool {
	return f.Status == nil && f.Priority == nil && len(f.Tags) == 0 && f.DueDate == DueAny
}

func (f Filter) Matches(t *task.Task, today task.Date) bool {
	if f.Status != nil && t.Completed != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, t.HasTag) {
		return false
	}
	return matchDueDate(f.DueDate, t.DueDate, today)
}

func matchDueDate(filter DueDateFilter, due *task.Date, today task.Date) bool {
	if filter == DueAny {
		return true
	}
	if due == nil {
		return false
	}
	switch filter {
	case DueOverdue:
		return due.IsOverdue(today)
	case DueToday:
		return due.IsToday(today)
	case DueThisWeek:
		return due.IsThisWeek(today)
	default:
		return true
	}
}
