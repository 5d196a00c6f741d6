package factory

import (
	fab "github.com/Goldziher/fabricator"

	"todoapi/internal/core/domain"
)

// NewTodo builds a todo with random fields; customData overrides them by field name.
// The due date is always a calendar date between 2000 and 2099.
func NewTodo(customData ...map[string]any) domain.Todo {
	instance := fab.New(domain.Todo{})

	todo := instance.Build(customData...)

	if todo.Description == "" {
		todo.Description = "todo"
	}

	if todo.DueDate.Year() < 2000 || todo.DueDate.Year() > 2099 {
		todo.DueDate = todo.DueDate.AddDate(2030-todo.DueDate.Year(), 0, 0)
	}

	todo.DueDate = domain.NormalizeDate(todo.DueDate)

	return todo
}

// DueDateInput renders the todo's due date the way clients send it.
func DueDateInput(todo domain.Todo) string {
	return todo.DueDate.Format(domain.DueDateInputLayout)
}
