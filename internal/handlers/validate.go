package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"todoConsole/internal/handlers/dto"
	"todoConsole/internal/models/task"
	"todoConsole/internal/service"

	"github.com/go-chi/chi/v5"
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

func parseID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, fmt.Errorf("id должен быть целым числом: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("id должен быть положительным: %d", id)
	}
	return id, nil
}

// listQuery разбирает параметры GET /tasks.
type listQuery struct {
	keyword   *string
	filter    service.Filter
	sortKey   service.SortKey
	ascending bool
}

func parseListQuery(r *http.Request) (listQuery, error) {
	q := r.URL.Query()
	res := listQuery{sortKey: service.SortByID, ascending: true}

	if q.Has("q") {
		keyword := q.Get("q")
		res.keyword = &keyword
	}

	if raw := q.Get("status"); raw != "" {
		switch strings.ToLower(raw) {
		case "completed", "true":
			completed := true
			res.filter.Status = &completed
		case "pending", "false":
			pending := false
			res.filter.Status = &pending
		default:
			return res, fmt.Errorf("неверный status %q: ожидается completed или pending", raw)
		}
	}

	if raw := q.Get("priority"); raw != "" {
		p, err := task.ParsePriority(raw)
		if err != nil {
			return res, err
		}
		res.filter.Priority = &p
	}

	if raw := q.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				res.filter.Tags = append(res.filter.Tags, tag)
			}
		}
	}

	due, err := service.ParseDueDateFilter(q.Get("due"))
	if err != nil {
		return res, err
	}
	res.filter.DueDate = due

	if raw := q.Get("sort"); raw != "" {
		res.sortKey = service.ParseSortKey(raw)
	}

	switch order := strings.ToLower(q.Get("order")); order {
	case "", "asc":
	case "desc":
		res.ascending = false
	default:
		return res, fmt.Errorf("неверный order %q: ожидается asc или desc", order)
	}

	return res, nil
}

func toUpdate(req dto.UpdateTaskRequest) (service.TaskUpdate, []*task.ValidationError) {
	var (
		upd      service.TaskUpdate
		problems []*task.ValidationError
	)

	upd.Title = req.Title
	upd.Description = req.Description
	upd.Tags = req.Tags

	if req.DueDate != nil {
		due, ok := task.ParseDate(*req.DueDate)
		if !ok {
			problems = append(problems, &task.ValidationError{
				Field: "due_date", Reason: task.ErrInvalidDate.Error(), Err: task.ErrInvalidDate,
			})
		} else {
			upd.DueDate = &due
		}
	}

	if req.Priority != nil {
		p, err := task.ParsePriority(*req.Priority)
		if err != nil {
			problems = append(problems, &task.ValidationError{
				Field: "priority", Reason: task.ErrInvalidPriority.Error(), Err: task.ErrInvalidPriority,
			})
		} else {
			upd.Priority = &p
		}
	}

	return upd, problems
}
