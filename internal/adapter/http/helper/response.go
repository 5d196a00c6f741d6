package helper

import (
	"net/http"

	"todoapi/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

// SendGraphQLError answers in the GraphQL response shape, without data.
func SendGraphQLError(c *gin.Context, statusCode int, messages ...string) {
	errorResponse := response.GraphQLErrorResponse{
		Errors: make([]response.GraphQLError, 0, len(messages)),
	}

	for _, message := range messages {
		errorResponse.Errors = append(errorResponse.Errors, response.GraphQLError{Message: message})
	}

	c.JSON(statusCode, errorResponse)
}

func SendBadRequestError(c *gin.Context, message string) {
	SendGraphQLError(c, http.StatusBadRequest, message)
}

func SendServiceUnavailableError(c *gin.Context, component string, message string) {
	errors := []response.ValidationError{
		{
			Field:   component,
			Message: message,
		},
	}

	SendError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", errors)
}
