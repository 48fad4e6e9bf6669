package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"clientflow/internal/domain"
	"clientflow/internal/repository"
)

// Rate limiting defaults for security-sensitive operations.
const (
	DefaultRateLimitAttempts = 5
	DefaultRateLimitWindow   = 5 * time.Minute

	// rateLimitMaxAge bounds how long idle rate-limit entries survive.
	rateLimitMaxAge = time.Hour
	// riskWindow is how far back prior events raise the risk score.
	riskWindow = time.Hour
)

// baseRiskScores maps each event type to its base score (1..9).
// Repeated events for the same type+user within the risk window bump the
// score; the final value is always clamped to [0,10].
var baseRiskScores = map[domain.SecurityEventType]int{
	domain.EventLoginAttempt:          3,
	domain.EventRateLimitExceeded:     4,
	domain.EventAuthenticationFailure: 5,
	domain.EventPermissionViolation:   6,
	domain.EventDataAccessViolation:   7,
	domain.EventSuspiciousActivity:    8,
}

// EventData carries the caller-supplied parts of a security event.
type EventData struct {
	UserID    string
	Resource  string
	Action    string
	ClientIP  string
	UserAgent string
	Metadata  map[string]interface{}
}

// SecurityService records security-relevant events with a computed risk
// score and enforces sliding-window rate limits. All state is owned by the
// instance: construct isolated instances in tests, inject one everywhere
// else. Nothing in here ever fails the calling operation.
type SecurityService struct {
	audit  repository.AuditStore
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	rateLimits map[string]*rateLimitEntry
	recent     map[string][]time.Time
}

type rateLimitEntry struct {
	windowStart time.Time
	count       int
}

// SecurityServiceConfig configures a SecurityService.
type SecurityServiceConfig struct {
	Logger *slog.Logger
	Now    func() time.Time
}

// NewSecurityService creates a security service writing to the audit store.
func NewSecurityService(audit repository.AuditStore, cfg SecurityServiceConfig) *SecurityService {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &SecurityService{
		audit:      audit,
		logger:     cfg.Logger,
		now:        cfg.Now,
		rateLimits: make(map[string]*rateLimitEntry),
		recent:     make(map[string][]time.Time),
	}
}

// LogEvent builds an immutable security event and appends it to the audit
// store. Best-effort: persistence failures are logged locally and never
// surfaced to the caller.
func (s *SecurityService) LogEvent(ctx context.Context, eventType domain.SecurityEventType, data EventData) {
	if !eventType.IsValid() {
		s.logger.Warn("dropping security event with unknown type", "type", eventType)
		return
	}

	now := s.now()
	event := &domain.SecurityEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    sanitizeString(data.UserID),
		Resource:  sanitizeString(data.Resource),
		Action:    sanitizeString(data.Action),
		Metadata:  sanitizeMap(data.Metadata),
		ClientIP:  defaultUnknown(sanitizeString(data.ClientIP)),
		UserAgent: defaultUnknown(sanitizeString(data.UserAgent)),
		CreatedAt: now,
	}
	event.RiskScore = s.scoreAndRecord(eventType, event.UserID, now)

	if err := s.audit.Append(ctx, event); err != nil {
		s.logger.Warn("failed to persist security event",
			"type", eventType,
			"risk_score", event.RiskScore,
			"error", err,
		)
	}
}

// scoreAndRecord computes the risk score and folds this occurrence into
// the per-key history used for future bumps.
func (s *SecurityService) scoreAndRecord(eventType domain.SecurityEventType, userID string, now time.Time) int {
	key := string(eventType) + ":" + userID

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-riskWindow)
	history := s.recent[key]
	kept := history[:0]
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	score := baseRiskScores[eventType]
	bump := len(kept)
	if bump > 10 {
		bump = 10
	}
	score += bump
	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}

	s.recent[key] = append(kept, now)
	return score
}

// CheckRateLimit reports whether the key is rate limited. A fresh key, or
// one whose window has elapsed, resets to a count of one and is not
// limited; within the window the count increments and the key is limited
// once the count exceeds maxAttempts. Non-positive arguments take the
// defaults (5 attempts per 5 minutes).
func (s *SecurityService) CheckRateLimit(key string, maxAttempts int, window time.Duration) bool {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRateLimitAttempts
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.rateLimits[key]
	if !ok || now.Sub(entry.windowStart) > window {
		s.rateLimits[key] = &rateLimitEntry{windowStart: now, count: 1}
		return false
	}
	entry.count++
	return entry.count > maxAttempts
}

// StartSweeper launches the periodic sweep that bounds memory by dropping
// rate-limit entries and risk history older than an hour. It stops when
// ctx is cancelled.
func (s *SecurityService) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *SecurityService) sweep() {
	now := s.now()
	cutoff := now.Add(-rateLimitMaxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.rateLimits {
		if entry.windowStart.Before(cutoff) {
			delete(s.rateLimits, key)
		}
	}
	for key, history := range s.recent {
		kept := history[:0]
		for _, ts := range history {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		if len(kept) == 0 {
			delete(s.recent, key)
			continue
		}
		s.recent[key] = kept
	}
}

// sanitizer strips characters from logged values to reduce injection/XSS
// surface in stored audit data.
var sanitizer = strings.NewReplacer("<", "", ">", "", "'", "", `"`, "", "&", "")

func sanitizeString(s string) string {
	return sanitizer.Replace(s)
}

// sanitizeValue strips the unsafe characters recursively through nested
// maps and slices; non-string leaves pass through unchanged.
func sanitizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return sanitizeString(val)
	case map[string]interface{}:
		return sanitizeMap(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return v
	}
}

func sanitizeMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[sanitizeString(k)] = sanitizeValue(v)
	}
	return out
}

func defaultUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
