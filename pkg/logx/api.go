package logx

import (
	"fmt"
	"io"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewLogger(LoadFromEnv()))
}

// SetDefaultLogger sets the default logger
func SetDefaultLogger(logger *Logger) {
	defaultLogger.Store(logger)
}

// GetDefaultLogger returns the default logger
func GetDefaultLogger() *Logger {
	return defaultLogger.Load()
}

// SetLevel sets the log level for the default logger
func SetLevel(level Level) {
	GetDefaultLogger().SetLevel(level)
}

// SetOutput sets the output for the default logger
func SetOutput(w io.Writer) {
	GetDefaultLogger().SetOutput(w)
}

// Debug logs a debug level message
func Debug(msg string) { GetDefaultLogger().log(LevelDebug, msg, nil, nil) }

// Info logs an info level message
func Info(msg string) { GetDefaultLogger().log(LevelInfo, msg, nil, nil) }

// Warn logs a warning level message
func Warn(msg string) { GetDefaultLogger().log(LevelWarn, msg, nil, nil) }

// Error logs an error level message
func Error(msg string) { GetDefaultLogger().log(LevelError, msg, nil, nil) }

// Infof logs a formatted info message
func Infof(format string, args ...any) {
	GetDefaultLogger().log(LevelInfo, fmt.Sprintf(format, args...), nil, nil)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...any) {
	GetDefaultLogger().log(LevelWarn, fmt.Sprintf(format, args...), nil, nil)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...any) {
	GetDefaultLogger().log(LevelError, fmt.Sprintf(format, args...), nil, nil)
}

// Fatalf logs a formatted fatal message and exits
func Fatalf(format string, args ...any) {
	l := GetDefaultLogger()
	l.log(LevelFatal, fmt.Sprintf(format, args...), nil, nil)
	l.exit(1)
}

// WithFields creates a new entry on the default logger
func WithFields(fields Fields) *Entry {
	return GetDefaultLogger().WithFields(fields)
}

// WithField creates a new entry on the default logger with a single field
func WithField(key string, value any) *Entry {
	return GetDefaultLogger().WithField(key, value)
}

// WithError creates a new entry on the default logger with an error
func WithError(err error) *Entry {
	return GetDefaultLogger().WithError(err)
}
