// Package rest exposes the payment orchestrator over HTTP.
package rest

import (
	"net/http"

	"github.com/demal-app/payments-service/internal/application"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError maps application errors to HTTP responses.
func WriteError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	errorCode := application.ErrCodeInternal
	message := "An internal error occurred"

	if svcErr, ok := application.IsServiceError(err); ok {
		statusCode = svcErr.HTTPStatus
		errorCode = svcErr.Code
		message = svcErr.Message
	}

	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    errorCode,
			Message: message,
		},
	})
}
