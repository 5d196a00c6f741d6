package graphql

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"todoapi/internal/core/domain"
	"todoapi/internal/core/service"
	ct "todoapi/pkg/context"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidDueDate = "INVALID_DUE_DATE"
	CodeValidation     = "VALIDATION_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// ResolverError is returned to graphql-go unwrapped so the engine can read
// its extensions.
type ResolverError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *ResolverError) Error() string {
	return e.Message
}

func (e *ResolverError) Extensions() map[string]interface{} {
	extensions := map[string]interface{}{
		"code": e.Code,
	}

	for key, value := range e.Details {
		extensions[key] = value
	}

	return extensions
}

func (r *Resolver) resolverError(ctx context.Context, field string, err error) *ResolverError {
	var invalid *service.InvalidInputError

	switch {
	case errors.As(err, &invalid):
		return &ResolverError{
			Code:    CodeValidation,
			Message: invalid.Error(),
			Details: map[string]interface{}{"fields": invalid.Fields},
		}
	case errors.Is(err, domain.ErrInvalidDueDate):
		return &ResolverError{
			Code:    CodeInvalidDueDate,
			Message: err.Error(),
		}
	case errors.Is(err, domain.ErrTodoNotFound):
		return &ResolverError{
			Code:    CodeNotFound,
			Message: domain.ErrTodoNotFound.Error(),
		}
	}

	r.logger.ErrorWithTrace(ctx, "Resolver failed",
		zap.String("field", field),
		zap.String("request_id", ct.RequestID(ctx)),
		zap.Error(err),
	)

	return &ResolverError{
		Code:    CodeInternal,
		Message: "internal server error",
	}
}
