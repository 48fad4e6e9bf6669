package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clientflow/internal/domain"
	"clientflow/internal/services"
)

// SessionContextKey is the gin context key holding the validated session.
const SessionContextKey = "session"

// AuthMiddleware validates the session before requests touch the cache or
// the backend, refreshing proactively through the session validator.
type AuthMiddleware struct {
	validator *services.SessionValidator
	security  *services.SecurityService
}

// NewAuthMiddleware creates the auth middleware.
func NewAuthMiddleware(validator *services.SessionValidator, security *services.SecurityService) *AuthMiddleware {
	return &AuthMiddleware{validator: validator, security: security}
}

// RequireSession rejects the request with 401 when no valid session can be
// produced. The payload carries should_reauthenticate so clients know a
// retry is pointless and sign-in is required.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		res := m.validator.ValidateAndRefresh(c.Request.Context())
		if !res.IsValid {
			if m.security != nil {
				m.security.LogEvent(c.Request.Context(), domain.EventAuthenticationFailure, services.EventData{
					Action:    "api_request",
					Resource:  c.FullPath(),
					ClientIP:  c.ClientIP(),
					UserAgent: c.Request.UserAgent(),
				})
			}
			message := "Authentication required"
			if res.Err != nil {
				message = res.Err.Error()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"type":                  string(domain.AuthenticationError),
					"code":                  "SESSION_INVALID",
					"message":               message,
					"should_reauthenticate": res.ShouldReauthenticate,
				},
			})
			return
		}
		c.Set(SessionContextKey, res.Session)
		c.Next()
	}
}

// GetSession extracts the validated session from the gin context.
func GetSession(c *gin.Context) (*domain.Session, bool) {
	val, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok
}
