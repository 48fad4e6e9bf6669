package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clientflow/internal/domain"
)

// DefaultExpiryBuffer is how close to expiry a session may get before the
// validator refreshes it proactively.
const DefaultExpiryBuffer = 5 * time.Minute

// ValidationResult is the outcome of a session validation pass.
// ShouldReauthenticate tells the caller to send the user back through
// sign-in; retrying locally will not help.
type ValidationResult struct {
	Session              *domain.Session
	Err                  error
	IsValid              bool
	ShouldReauthenticate bool
}

// SessionValidator checks session freshness against an expiry buffer and
// refreshes proactively so database calls never run on a dying token.
type SessionValidator struct {
	provider AuthProvider
	security *SecurityService
	logger   *slog.Logger
	buffer   time.Duration
	now      func() time.Time
}

// SessionValidatorConfig configures a SessionValidator. Zero values fall
// back to defaults; Security may be nil when no audit trail is wanted.
type SessionValidatorConfig struct {
	Buffer   time.Duration
	Logger   *slog.Logger
	Security *SecurityService
	Now      func() time.Time
}

// NewSessionValidator creates a session validator over the auth provider.
func NewSessionValidator(provider AuthProvider, cfg SessionValidatorConfig) *SessionValidator {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultExpiryBuffer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SessionValidator{
		provider: provider,
		security: cfg.Security,
		logger:   cfg.Logger,
		buffer:   cfg.Buffer,
		now:      cfg.Now,
	}
}

// ValidateAndRefresh returns a valid session, refreshing first when the
// session is within the expiry buffer or reports no expiry at all. Any
// failure on the way demands re-authentication.
func (v *SessionValidator) ValidateAndRefresh(ctx context.Context) ValidationResult {
	session, err := v.provider.CurrentSession(ctx)
	if err != nil {
		v.logger.Warn("session retrieval failed", "error", err)
		return v.invalid(ctx, domain.NewAuthenticationError("SESSION_RETRIEVAL_FAILED", "Failed to retrieve session"))
	}
	if session == nil {
		return v.invalid(ctx, domain.NewAuthenticationError("NO_ACTIVE_SESSION", "No active session"))
	}

	if session.ExpiresAt == 0 || session.ExpiresIn(v.now()) < v.buffer {
		refreshed, err := v.provider.Refresh(ctx)
		if err != nil {
			v.logger.Warn("session refresh failed", "error", err)
			return v.invalid(ctx, domain.NewAuthenticationError("SESSION_REFRESH_FAILED", "Failed to refresh session"))
		}
		if refreshed == nil {
			return v.invalid(ctx, domain.NewAuthenticationError("SESSION_REFRESH_EMPTY", "Refresh returned no session"))
		}
		return ValidationResult{IsValid: true, Session: refreshed}
	}

	return ValidationResult{IsValid: true, Session: session}
}

// ValidateForDatabaseOperation layers an identity check on top of
// ValidateAndRefresh: a session belonging to a different user than expected
// is treated as stale and rejected.
func (v *SessionValidator) ValidateForDatabaseOperation(ctx context.Context, expectedUserID string) ValidationResult {
	res := v.ValidateAndRefresh(ctx)
	if !res.IsValid || expectedUserID == "" {
		return res
	}
	if res.Session.UserID != expectedUserID {
		v.logger.Warn("session user mismatch", "expected", expectedUserID, "actual", res.Session.UserID)
		if v.security != nil {
			v.security.LogEvent(ctx, domain.EventSuspiciousActivity, EventData{
				UserID: res.Session.UserID,
				Action: "session_user_mismatch",
			})
		}
		return v.invalid(ctx, domain.NewAuthenticationError("SESSION_USER_MISMATCH", "Session does not match the expected user"))
	}
	return res
}

func (v *SessionValidator) invalid(ctx context.Context, err *domain.DomainError) ValidationResult {
	if v.security != nil {
		v.security.LogEvent(ctx, domain.EventAuthenticationFailure, EventData{
			Action:   "validate_session",
			Metadata: map[string]interface{}{"code": err.Code},
		})
	}
	return ValidationResult{Err: err, ShouldReauthenticate: true}
}

// authIndicators are the substrings that mark an error as auth-related.
// The SQLSTATEs cover the backend rejecting a dead token at the wire.
var authIndicators = []string{"jwt", "unauthorized", "token", "session", "28000", "28P01"}

// WithAuthValidation validates the session, then runs op with it. Failures
// that look auth-related are relabeled into an actionable authentication
// error; everything else passes through unchanged. Errors are never
// swallowed here.
func WithAuthValidation[T any](
	ctx context.Context,
	v *SessionValidator,
	expectedUserID string,
	op func(ctx context.Context, session *domain.Session) (T, error),
) (T, error) {
	var zero T

	res := v.ValidateForDatabaseOperation(ctx, expectedUserID)
	if !res.IsValid {
		return zero, res.Err
	}

	out, err := op(ctx, res.Session)
	if err != nil {
		if isAuthError(err) {
			return zero, &domain.DomainError{
				Type:    domain.AuthenticationError,
				Code:    "SESSION_EXPIRED",
				Message: "Your session has expired. Please sign in again.",
				Cause:   err,
			}
		}
		return zero, err
	}
	return out, nil
}

func isAuthError(err error) bool {
	var derr *domain.DomainError
	if errors.As(err, &derr) && derr.Type == domain.AuthenticationError {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, indicator := range authIndicators {
		if strings.Contains(msg, strings.ToLower(indicator)) {
			return true
		}
	}
	return false
}
