package handler

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"

	"todoapi/internal/adapter/http/helper"
	"todoapi/internal/core/model/request"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
	"todoapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

//go:embed playground.html
var playgroundHTML []byte

type GraphQLHandler struct {
	schema  *graphql.Schema
	metrics *telemetry.AppMetrics
	Logger  *config.LokiLogger
}

func NewGraphQLHandler(schema *graphql.Schema, metrics *telemetry.AppMetrics, logger *config.LokiLogger) *GraphQLHandler {
	return &GraphQLHandler{
		schema:  schema,
		metrics: metrics,
		Logger:  logger,
	}
}

func (h *GraphQLHandler) Playground(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", playgroundHTML)
}

// Execute runs one GraphQL document. Documents that executed answer 200 even
// when fields failed; documents rejected before execution answer 400.
func (h *GraphQLHandler) Execute(c *gin.Context) {
	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.graphql.Execute", []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	var req request.GraphQLRequest

	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		message := "request body must be a JSON object with a non-empty query"

		if err != nil {
			tracing.AddSpanError(span, err)
		}

		h.Logger.WarnWithTrace(ctx, "Rejected GraphQL request", zap.String("reason", message))
		h.record(c, telemetry.GraphQLStatusRejected)

		helper.SendBadRequestError(c, message)
		return
	}

	span.SetAttributes(attribute.String("graphql.operation.name", req.OperationName))

	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	status := http.StatusOK

	switch {
	case len(resp.Data) == 0:
		status = http.StatusBadRequest
		h.record(c, telemetry.GraphQLStatusRejected)
	case len(resp.Errors) > 0:
		h.record(c, telemetry.GraphQLStatusPartial)
	default:
		h.record(c, telemetry.GraphQLStatusOK)
	}

	span.SetAttributes(
		attribute.Int("http.status_code", status),
		attribute.Int("graphql.errors", len(resp.Errors)),
	)

	body, err := json.Marshal(resp)

	if err != nil {
		tracing.AddSpanError(span, err)
		h.Logger.ErrorWithTrace(ctx, "Failed to encode GraphQL response", zap.Error(err))
		helper.SendGraphQLError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.Data(status, "application/json; charset=utf-8", body)
}

func (h *GraphQLHandler) record(c *gin.Context, status string) {
	if h.metrics != nil {
		h.metrics.RecordGraphQLOperation(c.Request.Context(), status)
	}
}
