package task

type TaskOption func(*Task)

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = &description
	}
}

// WithDescriptionPtr пропускается, если описания нет.
func WithDescriptionPtr(description *string) TaskOption {
	if description == nil {
		return nil
	}
	return WithDescription(*description)
}

func WithDueDate(dueDate Date) TaskOption {
	return func(task *Task) {
		task.DueDate = &dueDate
	}
}

func WithDueDatePtr(dueDate *Date) TaskOption {
	if dueDate == nil {
		return nil
	}
	return WithDueDate(*dueDate)
}

func WithPriority(priority Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithTags(tags ...string) TaskOption {
	return func(task *Task) {
		task.Tags = cloneTags(tags)
	}
}

func WithCompleted(completed bool) TaskOption {
	return func(task *Task) {
		task.Completed = completed
	}
}
