// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package. It configures the process-wide
// JSON logger from ServerConfig and carries request-scoped loggers through
// context values.
package logger
