// Package observability provides structured logging and tracing for the
// coffee shop API.
//
// This package implements:
//   - zap logger construction from LOG_LEVEL / LOG_FORMAT
//   - a context-aware logger that stamps request and trace ids
//   - OpenTelemetry tracer provider setup with OTLP/HTTP export
package observability
