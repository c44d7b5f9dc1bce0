// Package logger provides structured logging for the application.
//
// It builds a JSON log/slog logger with a configurable level and carries
// request-scoped loggers and request IDs through context.Context so that the
// orchestrator and its workers log with the same correlation fields as the
// HTTP request that triggered them.
package logger
