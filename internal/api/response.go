// Package api provides the HTTP handlers over the workspace cache.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clientflow/internal/domain"
)

// SuccessResponse returns a standardized success response.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// ErrorResponse maps a domain error onto the standard error payload.
// Internal detail never leaks: unknown errors become a generic 500.
func ErrorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	payload := gin.H{
		"type":    string(domain.InternalError),
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	}

	var derr *domain.DomainError
	if errors.As(err, &derr) {
		payload = gin.H{
			"type":    string(derr.Type),
			"code":    derr.Code,
			"message": derr.Message,
		}
		switch derr.Type {
		case domain.ValidationError:
			status = http.StatusBadRequest
		case domain.NotFoundError:
			status = http.StatusNotFound
		case domain.AuthenticationError:
			status = http.StatusUnauthorized
			payload["should_reauthenticate"] = true
		case domain.AuthorizationError:
			status = http.StatusForbidden
		case domain.RateLimitError:
			status = http.StatusTooManyRequests
		case domain.ExternalServiceError:
			status = http.StatusBadGateway
		}
	}

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   payload,
	})
}
