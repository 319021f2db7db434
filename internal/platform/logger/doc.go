// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured
// logging with configurable log levels: JSON lines when stdout is redirected,
// human-readable text when attached to a terminal. Loggers travel in the
// request context so that trace and batch identifiers reach every component.
package logger
