package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"todoapi/internal/adapter/database/sqlite"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

const todosTable = "todos"

var todoColumns = []string{"id", "description", "completed", "due_date"}

type TodoRepository struct {
	db        *sqlite.DB
	scanner   *sqlite.Scanner
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		scanner:   sqlite.NewScanner(),
		telemetry: telemetry,
	}
}

func (tr *TodoRepository) List(ctx context.Context) (todos []domain.Todo, err error) {
	ctx, done := tr.trace(ctx, "List", "SELECT")
	defer func() { done(err) }()

	query, args, err := tr.db.QueryBuilder.Select(todoColumns...).
		From(todosTable).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	todos = []domain.Todo{}

	if err = tr.scanner.ScanRowsToSlice(rows, &todos); err != nil {
		return nil, err
	}

	return todos, nil
}

func (tr *TodoRepository) Get(ctx context.Context, id int64) (todo domain.Todo, err error) {
	ctx, done := tr.trace(ctx, "Get", "SELECT", attribute.Int64("todo.id", id))
	defer func() { done(err) }()

	return tr.get(ctx, tr.db.DB, id)
}

func (tr *TodoRepository) Insert(ctx context.Context, description string, dueDate time.Time) (todo domain.Todo, err error) {
	ctx, done := tr.trace(ctx, "Insert", "INSERT")
	defer func() { done(err) }()

	err = tr.withTx(ctx, func(tx *sql.Tx) error {
		query, args, err := tr.db.QueryBuilder.Insert(todosTable).
			Columns("description", "completed", "due_date").
			Values(description, false, domain.FormatDueDate(dueDate)).
			ToSql()

		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query, args...)

		if err != nil {
			return err
		}

		id, err := result.LastInsertId()

		if err != nil {
			return err
		}

		todo, err = tr.get(ctx, tx, id)

		return err
	})

	if err != nil {
		return domain.Todo{}, fmt.Errorf("insert todo: %w", err)
	}

	return todo, nil
}

func (tr *TodoRepository) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	ctx, done := tr.trace(ctx, "Delete", "DELETE", attribute.Int64("todo.id", id))
	defer func() { done(err) }()

	err = tr.withTx(ctx, func(tx *sql.Tx) error {
		query, args, err := tr.db.QueryBuilder.Delete(todosTable).
			Where(sq.Eq{"id": id}).
			ToSql()

		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query, args...)

		if err != nil {
			return err
		}

		affected, err := result.RowsAffected()

		if err != nil {
			return err
		}

		deleted = affected > 0

		return nil
	})

	if err != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}

	return deleted, nil
}

// Update reads, mutates and writes back the todo inside one transaction.
func (tr *TodoRepository) Update(ctx context.Context, id int64, mutate func(*domain.Todo)) (todo domain.Todo, err error) {
	ctx, done := tr.trace(ctx, "Update", "UPDATE", attribute.Int64("todo.id", id))
	defer func() { done(err) }()

	err = tr.withTx(ctx, func(tx *sql.Tx) error {
		current, err := tr.get(ctx, tx, id)

		if err != nil {
			return err
		}

		mutate(&current)
		current.ID = id

		query, args, err := tr.db.QueryBuilder.Update(todosTable).
			SetMap(current.ToMap()).
			Where(sq.Eq{"id": id}).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		todo, err = tr.get(ctx, tx, id)

		return err
	})

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Ping(ctx context.Context) error {
	return tr.db.PingContext(ctx)
}

func (tr *TodoRepository) Close() error {
	return tr.db.Close()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (tr *TodoRepository) get(ctx context.Context, q queryer, id int64) (domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.Select(todoColumns...).
		From(todosTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	rows, err := q.QueryContext(ctx, query, args...)

	if err != nil {
		return domain.Todo{}, err
	}

	defer rows.Close()

	var todo domain.Todo

	if err := tr.scanner.ScanRowToStruct(rows, &todo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Todo{}, domain.ErrTodoNotFound
		}

		return domain.Todo{}, err
	}

	todo.DueDate = domain.NormalizeDate(todo.DueDate)

	return todo, nil
}

func (tr *TodoRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := tr.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (tr *TodoRepository) trace(ctx context.Context, operation, statement string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, "todo", append([]attribute.KeyValue{
		attribute.String("db.system", "sqlite"),
		attribute.String("db.table", todosTable),
		attribute.String("db.operation", statement),
	}, attrs...))

	op := tel.StartOperation(ctx, tr.telemetry, operation, todosTable)

	return ctx, func(err error) {
		if errors.Is(err, domain.ErrTodoNotFound) {
			err = nil
		}

		op.End(err)
		span.End()
	}
}
