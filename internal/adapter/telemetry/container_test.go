package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"todoapi/pkg/config"
)

func TestNewContainer(t *testing.T) {
	ctx := context.Background()

	cfg := ConfigFrom(config.GetDefaultConfig())
	cfg.MetricsPort = ""

	container, err := NewContainer(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer container.Shutdown(ctx)

	assert.Nil(t, container.MetricsServer)

	probe := container.NewTelemetryProbe()
	spanCtx, span := probe.StartRepositorySpan(ctx, "insert", "todo", []attribute.KeyValue{})
	assert.True(t, span.SpanContext().IsValid())
	probe.RecordRepositoryOperation(spanCtx, "insert", "todo", 0, nil)
	span.End()

	container.AppMetrics.RecordGraphQLOperation(ctx, "ok")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	container.MetricsHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `graphql_operations_total{status="ok"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestConfigFrom(t *testing.T) {
	app := config.GetDefaultConfig()
	app.TelemetryEnabled = true
	app.Environment = "production"

	cfg := ConfigFrom(app)

	assert.True(t, cfg.ExportTraces)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "todoapi", cfg.ServiceName)
}
