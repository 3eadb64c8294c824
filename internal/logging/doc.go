// Package logging assembles structured slog loggers and formatting helpers used
// across qrsite.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context helpers so build steps automatically tag log lines with
// the run id and the entry being processed. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
