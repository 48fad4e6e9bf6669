package domain

import "time"

// Session is the server-issued proof of authentication. The auth service
// owns it; this is a transient, non-owning copy used to compute freshness
// and scope database reads to the signed-in user.
type Session struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
	UserID       string `json:"user_id"`
	// ExpiresAt is seconds since epoch; zero means the provider did not
	// report an expiry and the session must be refreshed before use.
	ExpiresAt int64 `json:"expires_at"`
}

// ExpiresIn returns how long the session remains valid as of now.
// Negative for expired sessions, zero when no expiry was reported.
func (s *Session) ExpiresIn(now time.Time) time.Duration {
	if s.ExpiresAt == 0 {
		return 0
	}
	return time.Unix(s.ExpiresAt, 0).Sub(now)
}
