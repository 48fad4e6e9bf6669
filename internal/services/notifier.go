// Package services contains the orchestration layer: session validation,
// retries, the workspace cache and security event logging.
package services

import "log/slog"

// Notifier is the fire-and-forget surface for user-facing notices. The UI
// layer owns how a notice is rendered; nothing here blocks on delivery or
// inspects the outcome.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// slogNotifier logs notices; the default when no UI surface is attached.
type slogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier that records notices on the logger.
func NewLogNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogNotifier{logger: logger}
}

func (n *slogNotifier) Success(message string) {
	n.logger.Info("notice", "kind", "success", "message", message)
}

func (n *slogNotifier) Error(message string) {
	n.logger.Warn("notice", "kind", "error", "message", message)
}
