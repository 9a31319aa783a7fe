// Package audit logs auth lifecycle events. It is the only consumer of the
// AuthEventSink port; the poll core never touches it.
package audit

import (
	"context"
	"log/slog"

	"github.com/kupolls/api/internal/core/ports"
)

type slogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) ports.AuthEventSink {
	return &slogSink{logger: logger}
}

func (s *slogSink) LoggedIn(ctx context.Context, username, clientIP string) {
	s.logger.InfoContext(ctx, "user logged in", "username", username, "ip", clientIP)
}

func (s *slogSink) LoggedOut(ctx context.Context, username, clientIP string) {
	s.logger.InfoContext(ctx, "user logged out", "username", username, "ip", clientIP)
}

func (s *slogSink) LoginFailed(ctx context.Context, username, clientIP string) {
	s.logger.WarnContext(ctx, "failed login attempt", "username", username, "ip", clientIP)
}

func (s *slogSink) Registered(ctx context.Context, username, clientIP string) {
	s.logger.InfoContext(ctx, "user registered", "username", username, "ip", clientIP)
}
