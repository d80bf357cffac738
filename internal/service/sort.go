package service

import (
	"cmp"
	"slices"
	"strings"

	"todoConsole/internal/models/task"
)

type SortKey string

const (
	SortByID        SortKey = "id"
	SortByTitle     SortKey = "title"
	SortByDueDate   SortKey = "due_date"
	SortByPriority  SortKey = "priority"
	SortByCreatedAt SortKey = "created_at"
)

func SortKeys() []SortKey {
	return []SortKey{SortByID, SortByTitle, SortByDueDate, SortByPriority, SortByCreatedAt}
}

// ParseSortKey возвращает SortByID для неизвестного ключа.
func ParseSortKey(s string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys(), key) {
		return key
	}
	return SortByID
}

func compareBy(key SortKey) func(a, b *task.Task) int {
	switch key {
	case SortByTitle:
		return func(a, b *task.Task) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortByDueDate:
		return func(a, b *task.Task) int {
			return compareDueDates(a.DueDate, b.DueDate)
		}
	case SortByPriority:
		return func(a, b *task.Task) int {
			return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
		}
	case SortByCreatedAt:
		return func(a, b *task.Task) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	default:
		return func(a, b *task.Task) int {
			return cmp.Compare(a.ID, b.ID)
		}
	}
}

// задачи без срока идут раньше любых дат
func compareDueDates(a, b *task.Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// sortTasks сортирует стабильно. При убывании компаратор
// переворачивается, поэтому равные задачи остаются в порядке id.
func sortTasks(tasks []*task.Task, key SortKey, ascending bool) {
	compare := compareBy(key)
	if !ascending {
		asc := compare
		compare = func(a, b *task.Task) int {
			return asc(b, a)
		}
	}
	slices.SortStableFunc(tasks, compare)
}
