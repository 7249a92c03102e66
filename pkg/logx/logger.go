package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Logger writes formatted records to a single writer
type Logger struct {
	config    *Config
	formatter Formatter
	level     atomic.Uint32
	mu        sync.Mutex
	writer    io.Writer
	exitFunc  func(int)
}

// NewLogger creates a new logger with the given config
func NewLogger(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}

	writer := config.Output
	if writer == nil {
		writer = os.Stdout
	}

	l := &Logger{
		config:    config,
		formatter: newFormatter(config),
		writer:    writer,
		exitFunc:  os.Exit,
	}
	l.level.Store(uint32(config.Level))
	return l
}

// Nop returns a logger that discards everything.
// Library components default to it so they stay silent unless given a logger.
func Nop() *Logger {
	return NewLogger(&Config{Level: LevelOff, Output: io.Discard})
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level Level) {
	l.level.Store(uint32(level))
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	return Level(l.level.Load())
}

// Enabled reports whether a record at level would be written
func (l *Logger) Enabled(level Level) bool {
	return l.GetLevel().Enabled(level)
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// Named returns an entry tagged with component=name
func (l *Logger) Named(name string) *Entry {
	return newEntry(l).WithField("component", name)
}

// WithField creates a new entry with a field
func (l *Logger) WithField(key string, value any) *Entry {
	return newEntry(l).WithField(key, value)
}

// WithFields creates a new entry with fields
func (l *Logger) WithFields(fields Fields) *Entry {
	return newEntry(l).WithFields(fields)
}

// WithError creates a new entry with an error
func (l *Logger) WithError(err error) *Entry {
	return newEntry(l).WithError(err)
}

// Debug logs at debug level
func (l *Logger) Debug(msg string) { l.log(LevelDebug, msg, nil, nil) }

// Info logs at info level
func (l *Logger) Info(msg string) { l.log(LevelInfo, msg, nil, nil) }

// Warn logs at warn level
func (l *Logger) Warn(msg string) { l.log(LevelWarn, msg, nil, nil) }

// Error logs at error level
func (l *Logger) Error(msg string) { l.log(LevelError, msg, nil, nil) }

// Infof logs a formatted message at info level
func (l *Logger) Infof(format string, args ...any) {
	if l.Enabled(LevelInfo) {
		l.log(LevelInfo, fmt.Sprintf(format, args...), nil, nil)
	}
}

func (l *Logger) log(level Level, msg string, fields Fields, err error) {
	if !l.Enabled(level) {
		return
	}

	rec := &Record{
		Level:     level,
		Message:   msg,
		Fields:    fields,
		Error:     err,
		Timestamp: time.Now(),
	}

	if l.config.EnableCaller {
		rec.Caller = caller(3)
	}

	formatted, formatErr := l.formatter.Format(rec)
	if formatErr != nil {
		fmt.Fprintf(os.Stderr, "logx: format: %v\n", formatErr)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, writeErr := l.writer.Write(formatted); writeErr != nil {
		fmt.Fprintf(os.Stderr, "logx: write: %v\n", writeErr)
	}
}

func (l *Logger) exit(code int) {
	l.exitFunc(code)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
