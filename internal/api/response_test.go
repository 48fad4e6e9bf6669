package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"clientflow/internal/domain"
)

func TestErrorResponse_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.NewValidationError("BAD_INPUT", "bad input", nil), http.StatusBadRequest, "BAD_INPUT"},
		{"not found", domain.NewNotFoundError("MISSING", "missing"), http.StatusNotFound, "MISSING"},
		{"authentication", domain.NewAuthenticationError("NO_SESSION", "no session"), http.StatusUnauthorized, "NO_SESSION"},
		{"authorization", domain.NewAuthorizationError("DENIED", "denied"), http.StatusForbidden, "DENIED"},
		{"rate limit", domain.NewRateLimitError("SLOW_DOWN", "slow down"), http.StatusTooManyRequests, "SLOW_DOWN"},
		{"external", domain.NewExternalServiceError("UPSTREAM", "upstream broke", nil), http.StatusBadGateway, "UPSTREAM"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			ErrorResponse(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestErrorResponse_AuthFlagsReauthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	ErrorResponse(c, domain.NewAuthenticationError("SESSION_EXPIRED", "expired"))

	assert.Contains(t, w.Body.String(), `"should_reauthenticate":true`)
}

func TestErrorResponse_UnknownErrorsDoNotLeak(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	ErrorResponse(c, errors.New("pq: password authentication failed for user postgres"))

	assert.NotContains(t, w.Body.String(), "postgres")
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}
