package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
)

const serviceName = "todo"

// InvalidInputError carries the per-field messages produced by the validator.
type InvalidInputError struct {
	Fields []response.ValidationError
}

func (e *InvalidInputError) Error() string {
	messages := make([]string, 0, len(e.Fields))

	for _, field := range e.Fields {
		messages = append(messages, field.Message)
	}

	return fmt.Sprintf("%s: %s", domain.ErrInvalidTodo, strings.Join(messages, "; "))
}

func (e *InvalidInputError) Unwrap() error {
	return domain.ErrInvalidTodo
}

type TodoService struct {
	repo      port.TodoRepository
	validator port.Validator
	probe     port.Telemetry
}

func NewTodoService(repo port.TodoRepository, validator port.Validator, probe port.Telemetry) *TodoService {
	return &TodoService{
		repo:      repo,
		validator: validator,
		probe:     probe,
	}
}

func (ts *TodoService) ListTodos(ctx context.Context) (todos []domain.Todo, err error) {
	ctx, finish := ts.start(ctx, "list", nil)
	defer func() { finish(err) }()

	todos, err = ts.repo.List(ctx)

	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	if todos == nil {
		todos = []domain.Todo{}
	}

	return todos, nil
}

// GetTodo returns domain.ErrTodoNotFound for unknown or malformed ids.
func (ts *TodoService) GetTodo(ctx context.Context, id string) (todo domain.Todo, err error) {
	ctx, finish := ts.start(ctx, "get", []attribute.KeyValue{attribute.String("todo.id", id)})
	defer func() { finish(err) }()

	todoID, ok := domain.ParseID(id)

	if !ok {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	todo, err = ts.repo.Get(ctx, todoID)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("get todo %s: %w", id, err)
	}

	return todo, nil
}

func (ts *TodoService) CreateTodo(ctx context.Context, description string, dueDate string) (todo domain.Todo, err error) {
	ctx, finish := ts.start(ctx, "create", nil)
	defer func() { finish(err) }()

	input := request.CreateTodoRequest{
		Description: description,
		DueDate:     dueDate,
	}

	if err = ts.validator.ValidateStruct(input); err != nil {
		return domain.Todo{}, &InvalidInputError{Fields: ts.validator.FormatValidationErrors(err)}
	}

	date, err := domain.ParseDueDate(dueDate)

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err = ts.repo.Insert(ctx, description, date)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", err)
	}

	ts.probe.RecordBusinessEvent(ctx, "created", "todo", domain.FormatID(todo.ID), todo.ToMap())

	return todo, nil
}

// DeleteTodo reports whether a todo was removed. Absence is not an error.
func (ts *TodoService) DeleteTodo(ctx context.Context, id string) (deleted bool, err error) {
	ctx, finish := ts.start(ctx, "delete", []attribute.KeyValue{attribute.String("todo.id", id)})
	defer func() { finish(err) }()

	todoID, ok := domain.ParseID(id)

	if !ok {
		return false, nil
	}

	deleted, err = ts.repo.Delete(ctx, todoID)

	if err != nil {
		return false, fmt.Errorf("delete todo %s: %w", id, err)
	}

	if deleted {
		ts.probe.RecordBusinessEvent(ctx, "deleted", "todo", id, nil)
	}

	return deleted, nil
}

func (ts *TodoService) MarkDone(ctx context.Context, id string) (todo domain.Todo, err error) {
	ctx, finish := ts.start(ctx, "mark_done", []attribute.KeyValue{attribute.String("todo.id", id)})
	defer func() { finish(err) }()

	todoID, ok := domain.ParseID(id)

	if !ok {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	todo, err = ts.repo.Update(ctx, todoID, func(t *domain.Todo) {
		t.MarkDone()
	})

	if err != nil {
		return domain.Todo{}, fmt.Errorf("mark todo %s done: %w", id, err)
	}

	ts.probe.RecordBusinessEvent(ctx, "completed", "todo", id, nil)

	return todo, nil
}

// UpdateDueDate parses newDate before resolving the id; a malformed date is
// reported even for unknown todos and nothing is written.
func (ts *TodoService) UpdateDueDate(ctx context.Context, id string, newDate string) (todo domain.Todo, err error) {
	ctx, finish := ts.start(ctx, "update_due_date", []attribute.KeyValue{attribute.String("todo.id", id)})
	defer func() { finish(err) }()

	date, err := domain.ParseDueDate(newDate)

	if err != nil {
		return domain.Todo{}, err
	}

	todoID, ok := domain.ParseID(id)

	if !ok {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	todo, err = ts.repo.Update(ctx, todoID, func(t *domain.Todo) {
		t.Reschedule(date)
	})

	if err != nil {
		return domain.Todo{}, fmt.Errorf("update due date of todo %s: %w", id, err)
	}

	ts.probe.RecordBusinessEvent(ctx, "rescheduled", "todo", id, map[string]interface{}{
		"due_date": todo.DueDateString(),
	})

	return todo, nil
}

func (ts *TodoService) start(ctx context.Context, operation string, attrs []attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := ts.probe.StartServiceSpan(ctx, serviceName, operation, attrs)
	startTime := time.Now()

	return ctx, func(err error) {
		// not found is a result, not a failed operation
		if errors.Is(err, domain.ErrTodoNotFound) {
			err = nil
		}

		ts.probe.RecordServiceOperation(ctx, serviceName, operation, time.Since(startTime), err)
		span.End()
	}
}
