package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DueDateInputLayout is the only accepted textual form for incoming dates (DD-MM-YYYY).
	DueDateInputLayout = "02-01-2006"

	// DueDateOutputLayout is how stored dates are rendered back (YYYY-MM-DD).
	DueDateOutputLayout = "2006-01-02"
)

var (
	ErrTodoNotFound   = errors.New("todo not found")
	ErrInvalidDueDate = errors.New("invalid due date")
	ErrInvalidTodo    = errors.New("invalid todo")
)

type Todo struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	DueDate     time.Time `json:"due_date"`
}

func (t *Todo) MarkDone() {
	t.Completed = true
}

func (t *Todo) Reschedule(dueDate time.Time) {
	t.DueDate = NormalizeDate(dueDate)
}

func (t *Todo) DueDateString() string {
	return FormatDueDate(t.DueDate)
}

func (t *Todo) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"description": t.Description,
		"completed":   t.Completed,
		"due_date":    t.DueDateString(),
	}
}

// ParseDueDate parses a DD-MM-YYYY string into a calendar date at midnight UTC.
func ParseDueDate(value string) (time.Time, error) {
	date, err := time.Parse(DueDateInputLayout, value)

	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match DD-MM-YYYY", ErrInvalidDueDate, value)
	}

	return date, nil
}

func FormatDueDate(date time.Time) string {
	return date.Format(DueDateOutputLayout)
}

// NormalizeDate drops the time of day, keeping the calendar date as seen in date's location.
func NormalizeDate(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseID converts a wire identifier into a store id. ok is false when the value
// cannot name any stored todo.
func ParseID(value string) (id int64, ok bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)

	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
