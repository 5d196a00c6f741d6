package port

import (
	"context"
	"time"

	"todoapi/internal/core/domain"
)

// TodoRepository is the store abstraction every backing variant implements.
// Get and Update report absence with domain.ErrTodoNotFound.
type TodoRepository interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Get(ctx context.Context, id int64) (domain.Todo, error)
	Insert(ctx context.Context, description string, dueDate time.Time) (domain.Todo, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, id int64, mutate func(*domain.Todo)) (domain.Todo, error)
	Ping(ctx context.Context) error
	Close() error
}

type TodoService interface {
	ListTodos(ctx context.Context) ([]domain.Todo, error)
	GetTodo(ctx context.Context, id string) (domain.Todo, error)
	CreateTodo(ctx context.Context, description string, dueDate string) (domain.Todo, error)
	DeleteTodo(ctx context.Context, id string) (bool, error)
	MarkDone(ctx context.Context, id string) (domain.Todo, error)
	UpdateDueDate(ctx context.Context, id string, newDate string) (domain.Todo, error)
}
