package observability

import (
	"context"
	"fmt"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging with context awareness.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
}

// Field represents a structured log field.
type Field = zap.Field

// NewLogger builds a zap logger. format is "json" (default) or "console".
func NewLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// ContextLogger adds request_id and trace_id fields taken from the context
type ContextLogger struct {
	logger *zap.Logger
}

// NewContextLogger wraps a zap logger
func NewContextLogger(logger *zap.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// Debug logs at debug level
func (l *ContextLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.logger.Debug(msg, append(ContextFields(ctx), fields...)...)
}

// Info logs at info level
func (l *ContextLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.logger.Info(msg, append(ContextFields(ctx), fields...)...)
}

// Warn logs at warn level
func (l *ContextLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.logger.Warn(msg, append(ContextFields(ctx), fields...)...)
}

// Error logs at error level
func (l *ContextLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.logger.Error(msg, append(ContextFields(ctx), fields...)...)
}

// ContextFields returns the request id and trace id carried by ctx, if any
func ContextFields(ctx context.Context) []Field {
	fields := make([]Field, 0, 2)
	if requestID := chimiddleware.GetReqID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	return fields
}
