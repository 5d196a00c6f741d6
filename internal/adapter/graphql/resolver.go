package graphql

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/pkg/config"
)

// Resolver serves both the Query and the Mutation root types.
type Resolver struct {
	svc    port.TodoService
	logger *config.LokiLogger
}

func NewResolver(svc port.TodoService, logger *config.LokiLogger) *Resolver {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &Resolver{svc: svc, logger: logger}
}

func (r *Resolver) Todos(ctx context.Context) ([]*TodoResolver, error) {
	todos, err := r.svc.ListTodos(ctx)

	if err != nil {
		return nil, r.resolverError(ctx, "todos", err)
	}

	resolvers := make([]*TodoResolver, 0, len(todos))

	for _, todo := range todos {
		resolvers = append(resolvers, newTodoResolver(todo))
	}

	return resolvers, nil
}

type todoArgs struct {
	TodoID graphql.ID
}

// Todo resolves to null for unknown ids.
func (r *Resolver) Todo(ctx context.Context, args todoArgs) (*TodoResolver, error) {
	todo, err := r.svc.GetTodo(ctx, string(args.TodoID))

	if err != nil {
		resolverErr := r.resolverError(ctx, "todo", err)

		if resolverErr.Code == CodeNotFound {
			return nil, nil
		}

		return nil, resolverErr
	}

	return newTodoResolver(todo), nil
}

type createTodoArgs struct {
	Description string
	DueDate     string
}

func (r *Resolver) CreateTodo(ctx context.Context, args createTodoArgs) (*TodoResolver, error) {
	todo, err := r.svc.CreateTodo(ctx, args.Description, args.DueDate)

	if err != nil {
		return nil, r.resolverError(ctx, "createTodo", err)
	}

	return newTodoResolver(todo), nil
}

type deleteTodoArgs struct {
	TodoID graphql.ID
}

func (r *Resolver) DeleteTodo(ctx context.Context, args deleteTodoArgs) (*DeleteTodoResultResolver, error) {
	deleted, err := r.svc.DeleteTodo(ctx, string(args.TodoID))

	if err != nil {
		return nil, r.resolverError(ctx, "deleteTodo", err)
	}

	return &DeleteTodoResultResolver{result: response.DeleteTodoResponse{Success: deleted}}, nil
}

type markDoneArgs struct {
	TodoID string
}

func (r *Resolver) MarkDone(ctx context.Context, args markDoneArgs) (*TodoResolver, error) {
	todo, err := r.svc.MarkDone(ctx, args.TodoID)

	if err != nil {
		return nil, r.resolverError(ctx, "markDone", err)
	}

	return newTodoResolver(todo), nil
}

type updateDueDateArgs struct {
	TodoID  *string
	NewDate string
}

// UpdateDueDate treats a null todoId as an id that matches nothing.
func (r *Resolver) UpdateDueDate(ctx context.Context, args updateDueDateArgs) (*TodoResolver, error) {
	var id string

	if args.TodoID != nil {
		id = *args.TodoID
	}

	todo, err := r.svc.UpdateDueDate(ctx, id, args.NewDate)

	if err != nil {
		return nil, r.resolverError(ctx, "updateDueDate", err)
	}

	return newTodoResolver(todo), nil
}
