package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

var todoPrefix = []byte("todo/")

type TodoRepository struct {
	db        *DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{db: db, telemetry: telemetry}
}

func todoKey(id int64) []byte {
	key := make([]byte, len(todoPrefix)+8)
	copy(key, todoPrefix)
	binary.BigEndian.PutUint64(key[len(todoPrefix):], uint64(id))

	return key
}

// List walks the todo prefix; big-endian keys keep it in id order.
func (r *TodoRepository) List(ctx context.Context) (todos []domain.Todo, err error) {
	ctx, done := r.trace(ctx, "List")
	defer func() { done(err) }()

	todos = []domain.Todo{}

	err = r.db.View(func(txn *badgerdb.Txn) error {
		itr := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer itr.Close()

		for itr.Seek(todoPrefix); itr.ValidForPrefix(todoPrefix); itr.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var todo domain.Todo

			err := itr.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &todo)
			})

			if err != nil {
				return err
			}

			todos = append(todos, todo)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

func (r *TodoRepository) Get(ctx context.Context, id int64) (todo domain.Todo, err error) {
	ctx, done := r.trace(ctx, "Get", attribute.Int64("todo.id", id))
	defer func() { done(err) }()

	err = r.db.View(func(txn *badgerdb.Txn) error {
		todo, err = readTodo(txn, id)
		return err
	})

	return todo, err
}

func (r *TodoRepository) Insert(ctx context.Context, description string, dueDate time.Time) (todo domain.Todo, err error) {
	ctx, done := r.trace(ctx, "Insert")
	defer func() { done(err) }()

	id, err := r.db.NextID()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("next todo id: %w", err)
	}

	todo = domain.Todo{
		ID:          id,
		Description: description,
		Completed:   false,
		DueDate:     domain.NormalizeDate(dueDate),
	}

	err = r.db.Update(func(txn *badgerdb.Txn) error {
		return writeTodo(txn, todo)
	})

	if err != nil {
		return domain.Todo{}, fmt.Errorf("insert todo: %w", err)
	}

	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) (deleted bool, err error) {
	ctx, done := r.trace(ctx, "Delete", attribute.Int64("todo.id", id))
	defer func() { done(err) }()

	err = r.db.Update(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(todoKey(id))

		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}

		if err != nil {
			return err
		}

		deleted = true

		return txn.Delete(todoKey(id))
	})

	if err != nil {
		return false, fmt.Errorf("delete todo %d: %w", id, err)
	}

	return deleted, nil
}

func (r *TodoRepository) Update(ctx context.Context, id int64, mutate func(*domain.Todo)) (todo domain.Todo, err error) {
	ctx, done := r.trace(ctx, "Update", attribute.Int64("todo.id", id))
	defer func() { done(err) }()

	err = r.db.Update(func(txn *badgerdb.Txn) error {
		current, err := readTodo(txn, id)

		if err != nil {
			return err
		}

		mutate(&current)
		current.ID = id
		current.DueDate = domain.NormalizeDate(current.DueDate)

		if err := writeTodo(txn, current); err != nil {
			return err
		}

		todo = current

		return nil
	})

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (r *TodoRepository) Ping(ctx context.Context) error {
	if r.db.IsClosed() {
		return errors.New("badger: database is closed")
	}

	return ctx.Err()
}

func (r *TodoRepository) Close() error {
	return r.db.Close()
}

func readTodo(txn *badgerdb.Txn, id int64) (domain.Todo, error) {
	item, err := txn.Get(todoKey(id))

	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	if err != nil {
		return domain.Todo{}, err
	}

	var todo domain.Todo

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &todo)
	})

	return todo, err
}

func writeTodo(txn *badgerdb.Txn, todo domain.Todo) error {
	val, err := json.Marshal(todo)

	if err != nil {
		return err
	}

	return txn.Set(todoKey(todo.ID), val)
}

func (r *TodoRepository) trace(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, operation, "todo", append([]attribute.KeyValue{
		attribute.String("db.system", "badger"),
	}, attrs...))

	op := tel.StartOperation(ctx, r.telemetry, operation, "todos")

	return ctx, func(err error) {
		if errors.Is(err, domain.ErrTodoNotFound) {
			err = nil
		}

		op.End(err)
		span.End()
	}
}
