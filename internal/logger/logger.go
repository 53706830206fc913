package logger

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Logger provides leveled logging on stderr. Statement progress is not
// logged here; it goes to the runner's progress writer.
type Logger struct {
	verbose atomic.Bool
	info    *log.Logger
	warn    *log.Logger
	debug   *log.Logger
	error   *log.Logger
}

var defaultLogger = New(false, os.Stderr)

// New creates a new logger instance
func New(verbose bool, output io.Writer) *Logger {
	flags := log.Ldate | log.Ltime
	l := &Logger{
		info:  log.New(output, "[INFO]  ", flags),
		warn:  log.New(output, "[WARN]  ", flags),
		debug: log.New(output, "[DEBUG] ", flags),
		error: log.New(output, "[ERROR] ", flags),
	}
	l.verbose.Store(verbose)
	return l
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the default logger instance
func Default() *Logger {
	return defaultLogger
}

// SetVerbose enables or disables debug output
func (l *Logger) SetVerbose(verbose bool) {
	l.verbose.Store(verbose)
}

// IsVerbose returns whether debug output is enabled
func (l *Logger) IsVerbose() bool {
	return l.verbose.Load()
}

// Info logs an informational message (always shown)
func (l *Logger) Info(format string, args ...any) {
	l.info.Printf(format, args...)
}

// Warn logs a warning (always shown)
func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf(format, args...)
}

// Debug logs a debug message (only shown if verbose is enabled)
func (l *Logger) Debug(format string, args ...any) {
	if l.IsVerbose() {
		l.debug.Printf(format, args...)
	}
}

// Error logs an error message (always shown)
func (l *Logger) Error(format string, args ...any) {
	l.error.Printf(format, args...)
}

// SetVerbose enables or disables debug output on the default logger
func SetVerbose(verbose bool) {
	defaultLogger.SetVerbose(verbose)
}

// IsVerbose returns whether debug output is enabled on the default logger
func IsVerbose() bool {
	return defaultLogger.IsVerbose()
}

// Info logs an informational message using the default logger
func Info(format string, args ...any) {
	defaultLogger.Info(format, args...)
}

// Warn logs a warning using the default logger
func Warn(format string, args ...any) {
	defaultLogger.Warn(format, args...)
}

// Debug logs a debug message using the default logger (only shown if verbose is enabled)
func Debug(format string, args ...any) {
	defaultLogger.Debug(format, args...)
}

// Error logs an error message using the default logger
func Error(format string, args ...any) {
	defaultLogger.Error(format, args...)
}
