// Package logging assembles structured slog loggers and formatting helpers used
// across slp2mp4.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so every ffmpeg invocation can be tagged
// with its operation and correlation ID. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
