// Package logging provides the zap based logger of the library service.
//
// Logger satisfies both logging interfaces used by the event store engines and the
// command/query handlers (Logger and ContextualLogger). The contextual variants add the
// trace and span ID of the active OpenTelemetry span, so log lines can be joined with traces.
package logging

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logAttrTraceID = "trace_id"
	logAttrSpanID  = "span_id"
	redacted       = "[REDACTED]"
)

// Logger wraps a zap.SugaredLogger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger for mode "prod" (JSON, info level) or "dev" (console, debug level).
func New(mode string) (*Logger, error) {
	var cfg zap.Config

	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{sugar: zapLogger.Sugar()}, nil
}

// NewFromZap wraps an existing zap logger.
func NewFromZap(zapLogger *zap.Logger) *Logger {
	return &Logger{sugar: zapLogger.Sugar()}
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// With returns a child logger with the given key/value pairs attached to every entry.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{sugar: l.sugar.With(sanitize(keysAndValues)...)}
}

// Zap exposes the underlying logger, e.g. for the HTTP access log.
func (l *Logger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

func (l *Logger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, sanitize(args)...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, sanitize(args)...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, sanitize(args)...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, sanitize(args)...)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Debugw(msg, withTrace(ctx, sanitize(args))...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Infow(msg, withTrace(ctx, sanitize(args))...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Warnw(msg, withTrace(ctx, sanitize(args))...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.sugar.Errorw(msg, withTrace(ctx, sanitize(args))...)
}

func withTrace(ctx context.Context, args []any) []any {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return args
	}

	return append(args, logAttrTraceID, spanCtx.TraceID().String(), logAttrSpanID, spanCtx.SpanID().String())
}

// sanitize masks values of keys that may carry credentials, like a database URL with a password.
func sanitize(args []any) []any {
	if len(args) == 0 {
		return args
	}

	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i += 2 {
		if i == len(args)-1 {
			out = append(out, args[i])
			break
		}

		key, _ := args[i].(string)
		if isSecretKey(key) {
			out = append(out, args[i], redacted)
			continue
		}

		out = append(out, args[i], args[i+1])
	}

	return out
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)

	return strings.Contains(key, "password") ||
		strings.Contains(key, "secret") ||
		strings.Contains(key, "database_url") ||
		strings.Contains(key, "dsn")
}
