// Package logging builds the slog loggers used across reclaim.
//
// Loggers are constructed from config (level, console or json format) and
// fan out to stdout plus a log file under the configured log directory.
package logging
