// Package logger wraps slog with the structured event helpers used
// across the service.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

// Context keys recognized by WithContext.
const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
)

// Logger embeds slog.Logger, so the plain Info/Warn/Error methods stay
// available next to the typed helpers below.
type Logger struct {
	*slog.Logger
}

// New builds a logger for the given environment. Development gets
// human-readable text at debug level, everything else JSON at info.
func New(env string) *Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithContext attaches request_id and user_id from ctx when present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	out := l
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		out = &Logger{Logger: out.With(slog.String("request_id", requestID))}
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		out = &Logger{Logger: out.With(slog.String("user_id", userID))}
	}
	return out
}

// HTTPRequest records one completed request.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// DatabaseError records a failed storage operation.
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// DistributionOutcome records the result of a single-lead distribution
// attempt. Failures log at warn with the reason code.
func (l *Logger) DistributionOutcome(leadID string, success bool, reason string) {
	if success {
		l.Info("distribution_outcome",
			slog.String("lead_id", leadID),
			slog.Bool("success", true),
		)
		return
	}
	l.Warn("distribution_outcome",
		slog.String("lead_id", leadID),
		slog.Bool("success", false),
		slog.String("reason", reason),
	)
}

// RateLimitExceeded records a throttled request.
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
