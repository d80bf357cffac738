package task

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Validate проверяет всю задачу и возвращает первое нарушенное правило.
func (t *Task) Validate() error {
	if t.ID <= 0 {
		return newValidationError("id", ErrInvalidID)
	}
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}
	if !t.Priority.IsValid() {
		return newValidationError("priority", ErrInvalidPriority)
	}
	if err := ValidateTags(t.Tags); err != nil {
		return err
	}
	return nil
}

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return newValidationError("title", ErrEmptyTitle)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return newValidationError("title", ErrTitleTooLong)
	}
	return nil
}

func ValidateDescription(description *string) error {
	if description == nil {
		return nil
	}
	if utf8.RuneCountInString(*description) > MaxDescriptionLength {
		return newValidationError("description", ErrDescriptionTooLong)
	}
	return nil
}

func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return newValidationError("tags", ErrEmptyTag)
		}
	}
	return nil
}

// Input - сырой текст полей, как его ввёл пользователь.
// Пустые DueDate и Priority значат "не задано".
type Input struct {
	Title       string
	Description *string
	DueDate     string
	Priority    string
	Tags        []string
}

// ValidateTaskData проверяет сырой ввод и возвращает все найденные
// проблемы, а не только первую.
func ValidateTaskData(in Input) []*ValidationError {
	var problems []*ValidationError

	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, newValidationError("title", ErrEmptyTitle))
	} else if utf8.RuneCountInString(strings.TrimSpace(in.Title)) > MaxTitleLength {
		problems = append(problems, newValidationError("title", ErrTitleTooLong))
	}

	if err := ValidateDescription(in.Description); err != nil {
		problems = append(problems, err.(*ValidationError))
	}

	if strings.TrimSpace(in.DueDate) != "" {
		if _, ok := ParseDate(in.DueDate); !ok {
			problems = append(problems, newValidationError("due_date", ErrInvalidDate))
		}
	}

	if strings.TrimSpace(in.Priority) != "" {
		if _, err := ParsePriority(in.Priority); err != nil {
			problems = append(problems, newValidationError("priority", ErrInvalidPriority))
		}
	}

	if err := ValidateTags(in.Tags); err != nil {
		problems = append(problems, err.(*ValidationError))
	}

	return problems
}
