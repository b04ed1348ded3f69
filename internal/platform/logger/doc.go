// Package logger provides structured logging for the service.
//
// It builds on log/slog with a JSON handler, and carries request-scoped
// loggers through context.Context so stores, caches and handlers can log with
// the request's trace ID attached without threading a logger through every call.
package logger
