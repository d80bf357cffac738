package task

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout - текстовый вид срока: YYYY-MM-DD.
const DateLayout = "2006-01-02"

// Date - календарная дата без времени и часового пояса.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf берёт дату t в его часовом поясе.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate разбирает YYYY-MM-DD. Пустой или неверный текст даёт false.
func ParseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, false
	}
	return DateOf(t), true
}

// FormatDate возвращает "" для отсутствующего срока.
func FormatDate(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time - полночь UTC этой даты.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Compare возвращает -1, 0 или +1.
func (d Date) Compare(other Date) int {
	return d.Time().Compare(other.Time())
}

func (d Date) Before(other Date) bool {
	return d.Compare(other) < 0
}

func (d Date) After(other Date) bool {
	return d.Compare(other) > 0
}

// IsOverdue: d строго раньше today.
func (d Date) IsOverdue(today Date) bool {
	return d.Before(today)
}

func (d Date) IsToday(today Date) bool {
	return d == today
}

// IsThisWeek: d попадает в неделю (пн..вс), содержащую today.
func (d Date) IsThisWeek(today Date) bool {
	start, end := WeekOf(today)
	return !d.Before(start) && !d.After(end)
}

// WeekOf возвращает понедельник и воскресенье недели, в которой day.
func WeekOf(day Date) (Date, Date) {
	sinceMonday := (int(day.Weekday()) + 6) % 7
	start := day.AddDays(-sinceMonday)
	return start, start.AddDays(6)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, ok := ParseDate(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDate, string(text))
	}
	*d = parsed
	return nil
}
