// Package cli - интерактивное текстовое меню с нумерованными пунктами.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"todoConsole/internal/format"
	"todoConsole/internal/logger"
	"todoConsole/internal/models/task"
	"todoConsole/internal/service"

	"go.uber.org/zap"
)

type Service interface {
	CreateTask(title string, opts ...task.TaskOption) (*task.Task, error)
	GetAllTasks() []*task.Task
	GetTaskByID(id int) (*task.Task, bool)
	UpdateTask(id int, upd service.TaskUpdate) (bool, error)
	DeleteTask(id int) bool
	SetCompletion(id int, completed bool) bool
	SearchTasks(keyword string) []*task.Task
	FilterTasks(f service.Filter) []*task.Task
	SortTasks(key service.SortKey, ascending bool) []*task.Task
}

type Menu struct {
	svc    Service
	format *format.Formatter
	in     *prompter
	out    io.Writer
}

func NewMenu(svc Service, f *format.Formatter, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		svc:    svc,
		format: f,
		in:     newPrompter(in, out),
		out:    out,
	}
}

// Run показывает меню до выхода, конца ввода или отмены ctx.
// Ошибка в действии цикл не останавливает.
func (m *Menu) Run(ctx context.Context) error {
	logger.Info("CLI: Меню запущено")

	actions := map[string]func() error{
		"1": m.addTask,
		"2": m.viewAllTasks,
		"3": m.updateTask,
		"4": m.deleteTask,
		"5": m.toggleCompletion,
		"6": m.searchTasks,
		"7": m.filterTasks,
		"8": m.sortTasks,
	}

	for {
		if err := ctx.Err(); err != nil {
			logger.Info("CLI: Меню остановлено", zap.Error(err))
			return nil
		}

		m.displayMenu()
		choice, err := m.in.ask("Enter your choice (1-9): ")
		if err != nil {
			return m.finish(err)
		}

		if choice == "9" {
			m.println("Thank you for using the Console Todo Application!")
			logger.Info("CLI: Выход из меню")
			return nil
		}

		action, ok := actions[choice]
		if !ok {
			logger.Warn("CLI: Неверный пункт меню", zap.String("choice", choice))
			m.println("Invalid choice. Please enter a number between 1 and 9.")
			continue
		}
		if err := action(); err != nil {
			return m.finish(err)
		}
	}
}

func (m *Menu) finish(err error) error {
	if errors.Is(err, ErrInputClosed) {
		logger.Info("CLI: Ввод закрыт, выход из меню")
		return nil
	}
	logger.Error("CLI: Ошибка ввода", err)
	return err
}

func (m *Menu) displayMenu() {
	m.println("\n=== Console Todo Application ===")
	m.println("1. Add Task")
	m.println("2. View All Tasks")
	m.println("3. Update Task")
	m.println("4. Delete Task")
	m.println("5. Mark Complete/Incomplete")
	m.println("6. Search Tasks")
	m.println("7. Filter Tasks")
	m.println("8. Sort Tasks")
	m.println("9. Exit")
	m.println("================================")
}

func (m *Menu) addTask() error {
	m.println("\n--- Add New Task ---")

	title, err := m.in.ask("Enter task title: ")
	if err != nil {
		return err
	}
	if title == "" {
		m.println("Error: Title cannot be empty")
		return nil
	}

	description, err := m.in.ask("Enter task description (optional, press Enter to skip): ")
	if err != nil {
		return err
	}
	dueInput, err := m.in.ask("Enter due date (YYYY-MM-DD, optional, press Enter to skip): ")
	if err != nil {
		return err
	}
	priorityInput, err := m.in.ask("Enter priority (High/Medium/Low, default: Medium): ")
	if err != nil {
		return err
	}
	tagsInput, err := m.in.ask("Enter tags (comma-separated, optional, press Enter to skip): ")
	if err != nil {
		return err
	}

	in := task.Input{
		Title:    title,
		DueDate:  dueInput,
		Priority: priorityInput,
		Tags:     splitTags(tagsInput),
	}
	if description != "" {
		in.Description = &description
	}
	if problems := task.ValidateTaskData(in); len(problems) > 0 {
		m.printProblems(problems)
		return nil
	}

	opts := []task.TaskOption{
		task.WithDescriptionPtr(in.Description),
		task.WithTags(in.Tags...),
	}
	if due, ok := task.ParseDate(dueInput); ok {
		opts = append(opts, task.WithDueDate(due))
	}
	if p, err := task.ParsePriority(priorityInput); err == nil {
		opts = append(opts, task.WithPriority(p))
	}

	created, err := m.svc.CreateTask(title, opts...)
	if err != nil {
		m.printServiceError(err)
		return nil
	}
	m.printf("✓ Task added successfully! (ID: %d)\n", created.ID)
	return nil
}

func (m *Menu) viewAllTasks() error {
	m.println("\n--- All Tasks ---")
	tasks := m.svc.GetAllTasks()
	if len(tasks) == 0 {
		m.println("No tasks found.")
		return nil
	}
	m.println(m.format.TaskList(tasks))
	return nil
}

func (m *Menu) updateTask() error {
	m.println("\n--- Update Task ---")

	current, err := m.lookup("Enter task ID to update: ")
	if current == nil || err != nil {
		return err
	}
	m.println("Current task: " + m.format.SingleTask(current))

	var upd service.TaskUpdate
	in := task.Input{
		Title:       current.Title,
		Description: current.Description,
		Tags:        current.Tags,
	}

	title, err := m.in.ask(fmt.Sprintf("Enter new title (current: '%s', press Enter to keep current): ", current.Title))
	if err != nil {
		return err
	}
	if title != "" {
		upd.Title = &title
		in.Title = title
	}

	description, err := m.in.ask(fmt.Sprintf("Enter new description (current: '%s', press Enter to keep current): ", orNone(current.Description)))
	if err != nil {
		return err
	}
	if description != "" {
		upd.Description = &description
		in.Description = &description
	}

	dueInput, err := m.in.ask(fmt.Sprintf("Enter new due date (YYYY-MM-DD, current: '%s', press Enter to keep current): ", dateOrNone(current.DueDate)))
	if err != nil {
		return err
	}
	if dueInput != "" {
		if due, ok := task.ParseDate(dueInput); ok {
			upd.DueDate = &due
		} else {
			m.println("Invalid date format. Keeping current due date.")
		}
	}

	priorityInput, err := m.in.ask(fmt.Sprintf("Enter new priority (High/Medium/Low, current: '%s', press Enter to keep current): ", current.Priority))
	if err != nil {
		return err
	}
	if priorityInput != "" {
		if p, err := task.ParsePriority(priorityInput); err == nil {
			upd.Priority = &p
		} else {
			m.println("Invalid priority. Keeping current priority.")
		}
	}

	tagsInput, err := m.in.ask(fmt.Sprintf("Enter new tags (comma-separated, current: '%s', press Enter to keep current): ", strings.Join(current.Tags, ", ")))
	if err != nil {
		return err
	}
	if tagsInput != "" {
		upd.Tags = splitTags(tagsInput)
		in.Tags = upd.Tags
	}

	if problems := task.ValidateTaskData(in); len(problems) > 0 {
		m.printProblems(problems)
		return nil
	}

	found, err := m.svc.UpdateTask(current.ID, upd)
	switch {
	case !found:
		m.printf("Error: Task with ID %d not found\n", current.ID)
	case err != nil:
		m.printServiceError(err)
	default:
		m.println("✓ Task updated successfully!")
	}
	return nil
}

func (m *Menu) deleteTask() error {
	m.println("\n--- Delete Task ---")

	current, err := m.lookup("Enter task ID to delete: ")
	if current == nil || err != nil {
		return err
	}
	m.println("Task to delete: " + m.format.SingleTask(current))

	ok, err := m.in.confirm("Are you sure you want to delete this task? (y/N): ")
	if err != nil {
		return err
	}
	if !ok {
		m.println("Task deletion cancelled.")
		return nil
	}

	if m.svc.DeleteTask(current.ID) {
		m.println("✓ Task deleted successfully!")
	} else {
		m.println("Error: Failed to delete task")
	}
	return nil
}

func (m *Menu) toggleCompletion() error {
	m.println("\n--- Mark Task Complete/Incomplete ---")

	current, err := m.lookup("Enter task ID: ")
	if current == nil || err != nil {
		return err
	}
	m.println("Current task: " + m.format.SingleTask(current))

	currentStatus, newStatus := "Pending", "Complete"
	if current.Completed {
		currentStatus, newStatus = "Complete", "Pending"
	}
	m.printf("Current status: %s\n", currentStatus)
	m.printf("New status: %s\n", newStatus)

	ok, err := m.in.confirm(fmt.Sprintf("Mark task as %s? (y/N): ", strings.ToLower(newStatus)))
	if err != nil {
		return err
	}
	if !ok {
		m.println("Task status update cancelled.")
		return nil
	}

	if m.svc.SetCompletion(current.ID, !current.Completed) {
		m.printf("✓ Task marked as %s successfully!\n", strings.ToLower(newStatus))
	} else {
		m.println("Error: Failed to update task status")
	}
	return nil
}

func (m *Menu) searchTasks() error {
	m.println("\n--- Search Tasks ---")

	keyword, err := m.in.ask("Enter keyword to search: ")
	if err != nil {
		return err
	}
	if keyword == "" {
		m.println("Error: Keyword cannot be empty")
		return nil
	}

	m.printMatches(m.svc.SearchTasks(keyword))
	return nil
}

func (m *Menu) filterTasks() error {
	m.println("\n--- Filter Tasks ---")
	m.println("Filter options:")
	m.println("1. By status (completed/pending)")
	m.println("2. By priority")
	m.println("3. By due date (overdue/today/this week)")
	m.println("4. By tags")

	choice, err := m.in.ask("Enter filter option (1-4): ")
	if err != nil {
		return err
	}

	var f service.Filter
	switch choice {
	case "1":
		answer, err := m.in.ask("Enter status (completed/pending): ")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "completed":
			completed := true
			f.Status = &completed
		case "pending":
			pending := false
			f.Status = &pending
		default:
			m.println("Invalid status. Use 'completed' or 'pending'.")
			return nil
		}
	case "2":
		answer, err := m.in.ask("Enter priority (high/medium/low): ")
		if err != nil {
			return err
		}
		p, parseErr := task.ParsePriority(answer)
		if parseErr != nil || answer == "" {
			m.println("Invalid priority. Use 'high', 'medium', or 'low'.")
			return nil
		}
		f.Priority = &p
	case "3":
		answer, err := m.in.ask("Enter date filter (overdue/today/week): ")
		if err != nil {
			return err
		}
		due, parseErr := service.ParseDueDateFilter(answer)
		if parseErr != nil || due == service.DueAny {
			m.println("Invalid date filter. Use 'overdue', 'today', or 'week'.")
			return nil
		}
		f.DueDate = due
	case "4":
		answer, err := m.in.ask("Enter tags to filter by (comma-separated): ")
		if err != nil {
			return err
		}
		f.Tags = splitTags(answer)
		if len(f.Tags) == 0 {
			m.println("No tags provided.")
			return nil
		}
	default:
		m.println("Invalid filter option.")
		return nil
	}

	m.printMatches(m.svc.FilterTasks(f))
	return nil
}

var sortChoices = map[string]service.SortKey{
	"1": service.SortByID,
	"2": service.SortByTitle,
	"3": service.SortByDueDate,
	"4": service.SortByPriority,
	"5": service.SortByCreatedAt,
}

func (m *Menu) sortTasks() error {
	m.println("\n--- Sort Tasks ---")
	m.println("Sort options:")
	m.println("1. By ID")
	m.println("2. By Title")
	m.println("3. By Due Date")
	m.println("4. By Priority")
	m.println("5. By Creation Date")

	choice, err := m.in.ask("Enter sort option (1-5): ")
	if err != nil {
		return err
	}
	key, ok := sortChoices[choice]
	if !ok {
		m.println("Invalid sort option.")
		return nil
	}

	order, err := m.in.ask("Sort order (asc/desc): ")
	if err != nil {
		return err
	}
	ascending := strings.ToLower(order) != "desc"

	tasks := m.svc.SortTasks(key, ascending)
	if len(tasks) == 0 {
		m.println("No tasks to display.")
		return nil
	}

	direction := "ascending"
	if !ascending {
		direction = "descending"
	}
	m.printf("Tasks sorted by %s (%s):\n", key, direction)
	m.println(m.format.TaskList(tasks))
	return nil
}

// lookup спрашивает id и сам печатает ошибку, если задачи нет.
func (m *Menu) lookup(label string) (*task.Task, error) {
	id, ok, err := m.in.askID(label)
	if err != nil {
		return nil, err
	}
	if !ok {
		m.println("Error: Please enter a valid task ID (number)")
		return nil, nil
	}

	found, exists := m.svc.GetTaskByID(id)
	if !exists {
		m.printf("Error: Task with ID %d not found\n", id)
		return nil, nil
	}
	return found, nil
}

func (m *Menu) printMatches(tasks []*task.Task) {
	if len(tasks) == 0 {
		m.println("No matching tasks found.")
		return
	}
	m.printf("Found %d matching task(s):\n", len(tasks))
	m.println(m.format.TaskList(tasks))
}

func (m *Menu) printProblems(problems []*task.ValidationError) {
	m.println("Validation errors:")
	for _, p := range problems {
		m.println("- " + sentence(p.Reason))
	}
}

func (m *Menu) printServiceError(err error) {
	if v, ok := task.AsValidationError(err); ok {
		m.printProblems([]*task.ValidationError{v})
		return
	}
	m.printf("Error: %v\n", err)
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func orNone(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}

func dateOrNone(d *task.Date) string {
	if d == nil {
		return "None"
	}
	return d.String()
}
