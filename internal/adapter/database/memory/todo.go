package memory

import (
	"context"
	"sync"
	"time"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
)

// TodoRepository keeps todos in insertion order for the lifetime of the process.
type TodoRepository struct {
	mu     sync.RWMutex
	todos  []domain.Todo
	lastID int64
}

func NewTodoRepository() port.TodoRepository {
	return &TodoRepository{
		todos: make([]domain.Todo, 0),
	}
}

func (r *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]domain.Todo, len(r.todos))
	copy(todos, r.todos)

	return todos, nil
}

func (r *TodoRepository) Get(ctx context.Context, id int64) (domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index := r.indexOf(id)

	if index < 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	return r.todos[index], nil
}

func (r *TodoRepository) Insert(ctx context.Context, description string, dueDate time.Time) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++

	todo := domain.Todo{
		ID:          r.lastID,
		Description: description,
		Completed:   false,
		DueDate:     domain.NormalizeDate(dueDate),
	}

	r.todos = append(r.todos, todo)

	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(id)

	if index < 0 {
		return false, nil
	}

	r.todos = append(r.todos[:index], r.todos[index+1:]...)

	return true, nil
}

func (r *TodoRepository) Update(ctx context.Context, id int64, mutate func(*domain.Todo)) (domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := r.indexOf(id)

	if index < 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	todo := r.todos[index]
	mutate(&todo)
	todo.ID = id

	r.todos[index] = todo

	return todo, nil
}

func (r *TodoRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *TodoRepository) Close() error {
	return nil
}

// indexOf must be called with mu held.
func (r *TodoRepository) indexOf(id int64) int {
	for i := range r.todos {
		if r.todos[i].ID == id {
			return i
		}
	}

	return -1
}
