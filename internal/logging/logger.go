// Package logging adds request and user context to stdlib log lines.
package logging

import (
	"context"
	"log"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger writes lines shaped as
// "[level] request_id=... user_id=... operation=... message".
type Logger struct {
	requestID string
	userID    string
}

func FromContext(ctx context.Context) *Logger {
	rid := RequestID(ctx)
	if rid == "" {
		rid = "unknown"
	}
	return &Logger{requestID: rid}
}

func (l *Logger) WithUser(userID string) *Logger {
	return &Logger{requestID: l.requestID, userID: userID}
}

func (l *Logger) Errorf(operation, format string, args ...interface{}) {
	l.printf("error", operation, format, args...)
}

func (l *Logger) Warnf(operation, format string, args ...interface{}) {
	l.printf("warn", operation, format, args...)
}

func (l *Logger) Infof(operation, format string, args ...interface{}) {
	l.printf("info", operation, format, args...)
}

func (l *Logger) printf(level, operation, format string, args ...interface{}) {
	prefix := []interface{}{level, l.requestID, l.userID, operation}
	log.Printf("[%s] request_id=%s user_id=%s operation=%s "+format, append(prefix, args...)...)
}
