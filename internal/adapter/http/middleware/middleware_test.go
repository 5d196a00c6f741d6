package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
	ct "todoapi/pkg/context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = ct.RequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("should generate an id when none is supplied", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		router.ServeHTTP(w, req)

		header := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(header)

		assert.NoError(t, err)
		assert.Equal(t, header, seen)
	})

	t.Run("should echo the supplied id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", seen)
	})
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	router := gin.New()
	router.Use(Metrics(telemetry.NewAppMetrics(registry)))
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusServiceUnavailable)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, 1, testutil.CollectAndCount(registry, "http_requests_total"))

	families, err := registry.Gather()
	assert.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}

		labels := map[string]string{}
		for _, label := range family.GetMetric()[0].GetLabel() {
			labels[label.GetName()] = label.GetValue()
		}

		assert.Equal(t, "503", labels["status"])
		assert.Equal(t, "/health", labels["path"])
	}
}

func TestLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Logging(config.NewNopLogger()))
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping?x=1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPSEnforcer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(enabled bool) *gin.Engine {
		router := gin.New()
		router.Use(NewHTTPSEnforcer(enabled, zap.NewNop()).Middleware())
		router.GET("/health", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	tests := []struct {
		name     string
		enabled  bool
		host     string
		proto    string
		tls      bool
		expected int
	}{
		{name: "disabled", enabled: false, host: "api.example.com", expected: http.StatusOK},
		{name: "plain http", enabled: true, host: "api.example.com", expected: http.StatusMovedPermanently},
		{name: "forwarded https", enabled: true, host: "api.example.com", proto: "https", expected: http.StatusOK},
		{name: "tls", enabled: true, host: "api.example.com", tls: true, expected: http.StatusOK},
		{name: "localhost", enabled: true, host: "localhost:8080", expected: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/health", nil)
			req.Host = tt.host

			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}

			newRouter(tt.enabled).ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)

			if tt.expected == http.StatusMovedPermanently {
				assert.Equal(t, "https://api.example.com/health", w.Header().Get("Location"))
			}
		})
	}
}
