package domain

import "time"

// SecurityEventType is the closed set of security-relevant event kinds.
type SecurityEventType string

const (
	// EventLoginAttempt records a sign-in attempt, successful or not.
	EventLoginAttempt SecurityEventType = "login_attempt"
	// EventPermissionViolation records a denied project access check.
	EventPermissionViolation SecurityEventType = "permission_violation"
	// EventDataAccessViolation records a read outside the user's scope.
	EventDataAccessViolation SecurityEventType = "data_access_violation"
	// EventAuthenticationFailure records a failed session validation.
	EventAuthenticationFailure SecurityEventType = "authentication_failure"
	// EventSuspiciousActivity records anomalous client behavior.
	EventSuspiciousActivity SecurityEventType = "suspicious_activity"
	// EventRateLimitExceeded records a request rejected by rate limiting.
	EventRateLimitExceeded SecurityEventType = "rate_limit_exceeded"
)

// IsValid reports whether the event type is one of the known values.
func (t SecurityEventType) IsValid() bool {
	switch t {
	case EventLoginAttempt, EventPermissionViolation, EventDataAccessViolation,
		EventAuthenticationFailure, EventSuspiciousActivity, EventRateLimitExceeded:
		return true
	default:
		return false
	}
}

// SecurityEvent is an immutable audit record. Build one through the
// security service so metadata is sanitized and the risk score computed;
// never mutate an event after it is created.
type SecurityEvent struct {
	ID        string                 `json:"id"`
	Type      SecurityEventType      `json:"event_type"`
	UserID    string                 `json:"user_id,omitempty"`
	Resource  string                 `json:"resource,omitempty"`
	Action    string                 `json:"action,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	RiskScore int                    `json:"risk_score"`
	ClientIP  string                 `json:"client_ip"`
	UserAgent string                 `json:"user_agent"`
	CreatedAt time.Time              `json:"created_at"`
}
