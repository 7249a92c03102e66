package logx

import "fmt"

// Entry accumulates fields for a log line.
// With* methods return a copy, so an Entry can be shared between goroutines
// and used as a base for per-call entries.
type Entry struct {
	logger *Logger
	fields Fields
	err    error
}

func newEntry(logger *Logger) *Entry {
	return &Entry{logger: logger}
}

func (e *Entry) clone(extra int) *Entry {
	fields := make(Fields, len(e.fields)+extra)
	for k, v := range e.fields {
		fields[k] = v
	}
	return &Entry{logger: e.logger, fields: fields, err: e.err}
}

// WithField returns a copy of the entry with key set
func (e *Entry) WithField(key string, value any) *Entry {
	c := e.clone(1)
	c.fields[key] = value
	return c
}

// WithFields returns a copy of the entry with all fields set
func (e *Entry) WithFields(fields Fields) *Entry {
	c := e.clone(len(fields))
	for k, v := range fields {
		c.fields[k] = v
	}
	return c
}

// WithError returns a copy of the entry carrying err
func (e *Entry) WithError(err error) *Entry {
	c := e.clone(0)
	c.err = err
	return c
}

// Enabled reports whether the underlying logger writes at level
func (e *Entry) Enabled(level Level) bool {
	return e.logger.Enabled(level)
}

// Trace logs at trace level
func (e *Entry) Trace(msg string) { e.logger.log(LevelTrace, msg, e.fields, e.err) }

// Debug logs at debug level
func (e *Entry) Debug(msg string) { e.logger.log(LevelDebug, msg, e.fields, e.err) }

// Info logs at info level
func (e *Entry) Info(msg string) { e.logger.log(LevelInfo, msg, e.fields, e.err) }

// Warn logs at warn level
func (e *Entry) Warn(msg string) { e.logger.log(LevelWarn, msg, e.fields, e.err) }

// Error logs at error level
func (e *Entry) Error(msg string) { e.logger.log(LevelError, msg, e.fields, e.err) }

// Fatal logs at fatal level and exits
func (e *Entry) Fatal(msg string) {
	e.logger.log(LevelFatal, msg, e.fields, e.err)
	e.logger.exit(1)
}

// Debugf logs a formatted debug message
func (e *Entry) Debugf(format string, args ...any) {
	if e.Enabled(LevelDebug) {
		e.logger.log(LevelDebug, fmt.Sprintf(format, args...), e.fields, e.err)
	}
}

// Infof logs a formatted info message
func (e *Entry) Infof(format string, args ...any) {
	if e.Enabled(LevelInfo) {
		e.logger.log(LevelInfo, fmt.Sprintf(format, args...), e.fields, e.err)
	}
}

// Warnf logs a formatted warn message
func (e *Entry) Warnf(format string, args ...any) {
	if e.Enabled(LevelWarn) {
		e.logger.log(LevelWarn, fmt.Sprintf(format, args...), e.fields, e.err)
	}
}

// Errorf logs a formatted error message
func (e *Entry) Errorf(format string, args ...any) {
	if e.Enabled(LevelError) {
		e.logger.log(LevelError, fmt.Sprintf(format, args...), e.fields, e.err)
	}
}
