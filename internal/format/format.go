// Package format выводит задачи текстом для консольного меню.
package format

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"todoConsole/internal/models/task"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const TimestampLayout = "2006-01-02 15:04:05"

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled решает, включать ли цвет для режима и файла вывода.
func ColorEnabled(mode string, out *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return out != nil && term.IsTerminal(int(out.Fd()))
}

type Formatter struct {
	priorityStyles map[task.Priority]lipgloss.Style
	headerStyle    lipgloss.Style
	plainStyle     lipgloss.Style
}

func New(color bool) *Formatter {
	renderer := lipgloss.NewRenderer(os.Stdout)
	if color {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Formatter{
		priorityStyles: map[task.Priority]lipgloss.Style{
			task.PriorityHigh:   renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
			task.PriorityMedium: renderer.NewStyle().Foreground(lipgloss.Color("3")),
			task.PriorityLow:    renderer.NewStyle().Foreground(lipgloss.Color("2")),
		},
		headerStyle: renderer.NewStyle().Bold(true),
		plainStyle:  renderer.NewStyle(),
	}
}

var priorityMarks = map[task.Priority]string{
	task.PriorityHigh:   "🔴",
	task.PriorityMedium: "🟡",
	task.PriorityLow:    "🟢",
}

// PriorityIndicator: цветная метка и название приоритета.
func (f *Formatter) PriorityIndicator(p task.Priority) string {
	mark, ok := priorityMarks[p]
	if !ok {
		mark = "🟢"
	}
	return mark + " " + f.style(p).Render(p.String())
}

// TaskList рисует таблицу задач. Каждая строка заканчивается переводом строки.
func (f *Formatter) TaskList(tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "No tasks to display."
	}

	rows := make([][5]string, len(tasks))
	tags := make([]string, len(tasks))
	widths := [5]int{2, 10, 8, 8, 10}

	for i, t := range tasks {
		rows[i] = [5]string{
			strconv.Itoa(t.ID),
			t.Title,
			listStatus(t.Completed),
			t.Priority.String(),
			orDefault(task.FormatDate(t.DueDate), "None"),
		}
		tags[i] = joinTags(t.Tags)
		for col, cell := range rows[i] {
			widths[col] = max(widths[col], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder

	header := [5]string{"ID", "Title", "Status", "Priority", "Due Date"}
	for col, cell := range header {
		b.WriteString(f.headerStyle.Render(runewidth.FillRight(cell, widths[col])))
		b.WriteString(" | ")
	}
	b.WriteString(f.headerStyle.Render("Tags"))
	b.WriteByte('\n')

	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w))
		b.WriteString("-+-")
	}
	b.WriteString("-----\n")

	for i, row := range rows {
		for col, cell := range row {
			padded := runewidth.FillRight(cell, widths[col])
			if col == 3 {
				padded = f.style(tasks[i].Priority).Render(padded)
			}
			b.WriteString(padded)
			b.WriteString(" | ")
		}
		b.WriteString(tags[i])
		b.WriteByte('\n')
	}

	return b.String()
}

// SingleTask выводит все поля задачи по одному на строку.
func (f *Formatter) SingleTask(t *task.Task) string {
	description := "None"
	if t.Description != nil && *t.Description != "" {
		description = *t.Description
	}

	status := "Pending"
	if t.Completed {
		status = "Completed"
	}

	completedAt := "Not completed"
	if t.CompletedAt != nil {
		completedAt = t.CompletedAt.Format(TimestampLayout)
	}

	createdAt := "Unknown"
	if !t.CreatedAt.IsZero() {
		createdAt = t.CreatedAt.Format(TimestampLayout)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ID: %d\n", t.ID)
	fmt.Fprintf(&b, "Title: %s\n", t.Title)
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Priority: %s\n", f.PriorityIndicator(t.Priority))
	fmt.Fprintf(&b, "Due Date: %s\n", orDefault(task.FormatDate(t.DueDate), "Not set"))
	fmt.Fprintf(&b, "Created At: %s\n", createdAt)
	fmt.Fprintf(&b, "Completed At: %s\n", completedAt)
	fmt.Fprintf(&b, "Tags: %s\n", joinTags(t.Tags))
	return b.String()
}

func (f *Formatter) style(p task.Priority) lipgloss.Style {
	if st, ok := f.priorityStyles[p]; ok {
		return st
	}
	return f.plainStyle
}

func listStatus(completed bool) string {
	if completed {
		return "Yes"
	}
	return "Pending"
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return "None"
	}
	return strings.Join(tags, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
