package handler

import (
	"context"
	"net/http"
	"time"

	"todoapi/internal/adapter/http/helper"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
	"todoapi/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	repo   port.TodoRepository
	store  string
	Logger *config.LokiLogger
}

func NewHealthHandler(repo port.TodoRepository, store string, logger *config.LokiLogger) *HealthHandler {
	return &HealthHandler{
		repo:   repo,
		store:  store,
		Logger: logger,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		h.Logger.ErrorWithTrace(ctx, "Store health check failed",
			zap.String("store", h.store),
			zap.Error(err),
		)

		helper.SendServiceUnavailableError(c, h.store, "store is unreachable")
		return
	}

	c.JSON(http.StatusOK, response.HealthResponse{
		Status: "ok",
		Store:  h.store,
	})
}
