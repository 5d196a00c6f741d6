package graphql

import (
	_ "embed"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/trace/otel"

	"todoapi/internal/core/port"
	"todoapi/pkg/config"
)

//go:embed schema.graphql
var SDL string

const maxQueryDepth = 12

// NewSchema binds the SDL to a resolver over svc. Parsing fails when a
// schema field has no matching resolver method.
func NewSchema(svc port.TodoService, logger *config.LokiLogger) (*graphql.Schema, error) {
	return graphql.ParseSchema(SDL, NewResolver(svc, logger),
		graphql.MaxDepth(maxQueryDepth),
		graphql.Tracer(otel.DefaultTracer()),
	)
}
