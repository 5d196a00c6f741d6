package graphql

import (
	"github.com/graph-gophers/graphql-go"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/response"
)

type TodoResolver struct {
	todo response.TodoResponse
}

func newTodoResolver(todo domain.Todo) *TodoResolver {
	return &TodoResolver{
		todo: response.TodoResponse{
			ID:          domain.FormatID(todo.ID),
			Description: todo.Description,
			Completed:   todo.Completed,
			DueDate:     todo.DueDateString(),
		},
	}
}

func (t *TodoResolver) ID() graphql.ID {
	return graphql.ID(t.todo.ID)
}

func (t *TodoResolver) Description() string {
	return t.todo.Description
}

func (t *TodoResolver) Completed() bool {
	return t.todo.Completed
}

func (t *TodoResolver) DueDate() string {
	return t.todo.DueDate
}

type DeleteTodoResultResolver struct {
	result response.DeleteTodoResponse
}

func (d *DeleteTodoResultResolver) Success() bool {
	return d.result.Success
}

func (d *DeleteTodoResultResolver) Errors() *[]*string {
	if d.result.Errors == nil {
		return nil
	}

	return &d.result.Errors
}
