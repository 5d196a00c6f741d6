package http

import (
	"context"
	"fmt"

	"github.com/graph-gophers/graphql-go"

	"todoapi/internal/adapter/database"
	gqladapter "todoapi/internal/adapter/graphql"
	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/adapter/http/validation"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

type Container struct {
	TodoRepo    port.TodoRepository
	TodoService port.TodoService
	Schema      *graphql.Schema

	GraphQLHandler *handler.GraphQLHandler
	HealthHandler  *handler.HealthHandler
}

func NewContainer(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry, metrics *telemetry.AppMetrics, logger *config.LokiLogger) (*Container, error) {
	todoRepo, err := database.NewTodoRepository(ctx, cfg, probe)

	if err != nil {
		return nil, err
	}

	todoSvc := service.NewTodoService(todoRepo, validation.NewValidator(), probe)

	schema, err := gqladapter.NewSchema(todoSvc, logger)

	if err != nil {
		todoRepo.Close()
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}

	return &Container{
		TodoRepo:    todoRepo,
		TodoService: todoSvc,
		Schema:      schema,

		GraphQLHandler: handler.NewGraphQLHandler(schema, metrics, logger),
		HealthHandler:  handler.NewHealthHandler(todoRepo, cfg.Store, logger),
	}, nil
}

func (c *Container) Close() error {
	return c.TodoRepo.Close()
}
