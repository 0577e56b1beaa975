// Package logging assembles structured slog loggers and formatting helpers used
// across moviecat.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handlers can tag log
// lines with correlation IDs and catalog operation names. When a log directory
// is configured the console stream is teed into a JSON file through the fanout
// handler. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
