package services

import (
	"context"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"clientflow/internal/domain"
)

// AuthProvider is the interface to the hosted auth service. Sessions are
// owned by that service; implementations return transient copies.
type AuthProvider interface {
	// CurrentSession returns the active session, or nil when signed out.
	CurrentSession(ctx context.Context) (*domain.Session, error)

	// Refresh exchanges the refresh token for a new session.
	Refresh(ctx context.Context) (*domain.Session, error)
}

// HostedAuthProvider implements AuthProvider against an OAuth2-style hosted
// auth service. Access tokens are JWTs; user id and expiry come from the
// claims. The client never holds the signing key, so claims are read
// without signature verification — the backend rejects forged tokens.
type HostedAuthProvider struct {
	mu      sync.Mutex
	conf    *oauth2.Config
	current *domain.Session
}

// NewHostedAuthProvider builds a provider from the auth endpoint config and
// a previously stored refresh token. An empty refresh token means signed out.
func NewHostedAuthProvider(conf *oauth2.Config, refreshToken string) *HostedAuthProvider {
	p := &HostedAuthProvider{conf: conf}
	if refreshToken != "" {
		p.current = &domain.Session{RefreshToken: refreshToken}
	}
	return p
}

// CurrentSession returns the session as last known, without refreshing.
func (p *HostedAuthProvider) CurrentSession(_ context.Context) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, nil
	}
	copied := *p.current
	return &copied, nil
}

// Refresh performs the refresh-token grant and replaces the session.
func (p *HostedAuthProvider) Refresh(ctx context.Context) (*domain.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.current.RefreshToken == "" {
		return nil, domain.NewAuthenticationError("NO_REFRESH_TOKEN", "No refresh token available")
	}

	src := p.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: p.current.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, domain.NewAuthenticationError("REFRESH_FAILED", "Failed to refresh session")
	}

	session := sessionFromToken(tok)
	if session.RefreshToken == "" {
		// Some providers rotate refresh tokens only occasionally.
		session.RefreshToken = p.current.RefreshToken
	}
	p.current = session

	copied := *session
	return &copied, nil
}

// sessionFromToken maps an oauth2 token onto the domain session, pulling
// the user id and authoritative expiry out of the JWT claims.
func sessionFromToken(tok *oauth2.Token) *domain.Session {
	session := &domain.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		session.ExpiresAt = tok.Expiry.Unix()
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok.AccessToken, claims); err != nil {
		return session
	}
	if sub, err := claims.GetSubject(); err == nil {
		session.UserID = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Unix()
	}
	return session
}
