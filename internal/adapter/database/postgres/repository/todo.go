package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"

	"todoapi/internal/adapter/database/postgres"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	"todoapi/pkg/tracing"
)

const returning = "RETURNING id, description, completed, due_date"

type TodoRepository struct {
	db *postgres.DB
}

func NewTodoRepository(db *postgres.DB) port.TodoRepository {
	return &TodoRepository{db: db}
}

func (tr *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.List", dbAttributes("SELECT"))
	defer span.End()

	query, args, err := tr.db.QueryBuilder.Select("id", "description", "completed", "due_date").
		From("todos").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, err
	}

	rows, err := tr.db.Query(ctx, query, args...)

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Todo, error) {
		return scanTodo(row)
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, fmt.Errorf("list todos: %w", err)
	}

	if todos == nil {
		todos = []domain.Todo{}
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(todos)))

	return todos, nil
}

func (tr *TodoRepository) Get(ctx context.Context, id int64) (domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.Get", append(dbAttributes("SELECT"), attribute.Int64("todo.id", id)))
	defer span.End()

	todo, err := tr.get(ctx, tr.db.Pool, id)

	if err != nil && !errors.Is(err, domain.ErrTodoNotFound) {
		tracing.AddSpanError(span, err)
	}

	return todo, err
}

func (tr *TodoRepository) Insert(ctx context.Context, description string, dueDate time.Time) (domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.Insert", dbAttributes("INSERT"))
	defer span.End()

	query, args, err := tr.db.QueryBuilder.Insert("todos").
		Columns("description", "completed", "due_date").
		Values(description, false, domain.NormalizeDate(dueDate)).
		Suffix(returning).
		ToSql()

	if err != nil {
		tracing.AddSpanError(span, err)
		return domain.Todo{}, err
	}

	var todo domain.Todo

	err = pgx.BeginFunc(ctx, tr.db.Pool, func(tx pgx.Tx) error {
		todo, err = scanTodo(tx.QueryRow(ctx, query, args...))
		return err
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		return domain.Todo{}, fmt.Errorf("insert todo: %w", err)
	}

	span.SetAttributes(attribute.Int64("todo.id", todo.ID))

	return todo, nil
}

func (tr *TodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.Delete", append(dbAttributes("DELETE"), attribute.Int64("todo.id", id)))
	defer span.End()

	query, args, err := tr.db.QueryBuilder.Delete("todos").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		tracing.AddSpanError(span, err)
		return false, err
	}

	var deleted bool

	err = pgx.BeginFunc(ctx, tr.db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)

		if err != nil {
			return err
		}

		deleted = tag.RowsAffected() > 0

		return nil
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}

	return deleted, nil
}

// Update locks the row with SELECT ... FOR UPDATE before applying mutate.
func (tr *TodoRepository) Update(ctx context.Context, id int64, mutate func(*domain.Todo)) (domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.Update", append(dbAttributes("UPDATE"), attribute.Int64("todo.id", id)))
	defer span.End()

	var todo domain.Todo

	err := pgx.BeginFunc(ctx, tr.db.Pool, func(tx pgx.Tx) error {
		current, err := tr.get(ctx, tx, id, "FOR UPDATE")

		if err != nil {
			return err
		}

		mutate(&current)

		query, args, err := tr.db.QueryBuilder.Update("todos").
			Set("description", current.Description).
			Set("completed", current.Completed).
			Set("due_date", domain.NormalizeDate(current.DueDate)).
			Where(sq.Eq{"id": id}).
			Suffix(returning).
			ToSql()

		if err != nil {
			return err
		}

		todo, err = scanTodo(tx.QueryRow(ctx, query, args...))

		return err
	})

	if err != nil {
		if !errors.Is(err, domain.ErrTodoNotFound) {
			tracing.AddSpanError(span, err)
		}

		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Ping(ctx context.Context) error {
	return tr.db.Ping(ctx)
}

func (tr *TodoRepository) Close() error {
	tr.db.Close()
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (tr *TodoRepository) get(ctx context.Context, q querier, id int64, suffix ...string) (domain.Todo, error) {
	builder := tr.db.QueryBuilder.Select("id", "description", "completed", "due_date").
		From("todos").
		Where(sq.Eq{"id": id})

	for _, s := range suffix {
		builder = builder.Suffix(s)
	}

	query, args, err := builder.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err := scanTodo(q.QueryRow(ctx, query, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	return todo, err
}

func scanTodo(row pgx.Row) (domain.Todo, error) {
	var todo domain.Todo

	if err := row.Scan(&todo.ID, &todo.Description, &todo.Completed, &todo.DueDate); err != nil {
		return domain.Todo{}, err
	}

	todo.DueDate = domain.NormalizeDate(todo.DueDate)

	return todo, nil
}

func dbAttributes(operation string) []attribute.KeyValue {
	return tracing.DatabaseAttributes("postgresql", "todos", operation)
}
