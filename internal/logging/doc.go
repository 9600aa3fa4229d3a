// Package logging assembles structured slog loggers and formatting helpers used
// across abx commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so session code can tag log
// lines with the listening session ID. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Logs go to stderr (plus an optional file) because stdout carries the
// interactive session and command output.
package logging
