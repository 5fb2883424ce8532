// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package, plus helpers for carrying a
// request-scoped logger through a context.Context.
package logger
