package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Fields is a map of structured data
type Fields map[string]any

// Record is a single log line before formatting
type Record struct {
	Level     Level
	Message   string
	Fields    Fields
	Error     error
	Timestamp time.Time
	Caller    string
}

// Formatter renders a Record to bytes
type Formatter interface {
	Format(rec *Record) ([]byte, error)
}

func newFormatter(config *Config) Formatter {
	if config.Format == FormatJSON {
		return &JSONFormatter{config: config}
	}
	return &ConsoleFormatter{config: config}
}

const (
	colorReset     = "\033[0m"
	colorRed       = "\033[31m"
	colorGray      = "\033[90m"
	colorCyan      = "\033[36m"
	colorBoldRed   = "\033[1;31m"
	colorBoldYel   = "\033[1;33m"
	colorBoldCyan  = "\033[1;36m"
	colorBoldGreen = "\033[1;32m"
)

// ConsoleFormatter renders "time [LEVEL] [caller] message k=v ..." lines.
// Fields are sorted by key so output is stable.
type ConsoleFormatter struct {
	config *Config
}

// Format implements Formatter
func (f *ConsoleFormatter) Format(rec *Record) ([]byte, error) {
	var b strings.Builder

	if f.config.EnableTimestamp {
		f.paint(&b, colorGray, formatTimestamp(rec.Timestamp, f.config.TimeFormat))
		b.WriteByte(' ')
	}

	f.paint(&b, levelColor(rec.Level), fmt.Sprintf("[%-5s]", rec.Level.String()))
	b.WriteByte(' ')

	if f.config.EnableCaller && rec.Caller != "" {
		f.paint(&b, colorGray, "["+rec.Caller+"]")
		b.WriteByte(' ')
	}

	b.WriteString(rec.Message)

	if len(rec.Fields) > 0 {
		keys := make([]string, 0, len(rec.Fields))
		for k := range rec.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + fmt.Sprintf("%v", rec.Fields[k])
		}
		b.WriteByte(' ')
		f.paint(&b, colorCyan, strings.Join(parts, " "))
	}

	if rec.Error != nil {
		b.WriteString("\n  ")
		f.paint(&b, colorRed, "error: "+rec.Error.Error())
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (f *ConsoleFormatter) paint(b *strings.Builder, color, s string) {
	if !f.config.EnableColors || color == "" {
		b.WriteString(s)
		return
	}
	b.WriteString(color)
	b.WriteString(s)
	b.WriteString(colorReset)
}

func levelColor(level Level) string {
	switch level {
	case LevelTrace:
		return colorGray
	case LevelDebug:
		return colorBoldCyan
	case LevelInfo:
		return colorBoldGreen
	case LevelWarn:
		return colorBoldYel
	case LevelError, LevelFatal:
		return colorBoldRed
	default:
		return ""
	}
}

// JSONFormatter renders one JSON object per line
type JSONFormatter struct {
	config *Config
}

// Format implements Formatter
func (f *JSONFormatter) Format(rec *Record) ([]byte, error) {
	data := make(map[string]any, len(rec.Fields)+5)

	for k, v := range rec.Fields {
		data[k] = v
	}

	data["level"] = rec.Level.String()
	data["message"] = rec.Message

	if f.config.EnableTimestamp {
		switch f.config.TimeFormat {
		case "unix":
			data["timestamp"] = rec.Timestamp.Unix()
		case "unixmilli":
			data["timestamp"] = rec.Timestamp.UnixMilli()
		default:
			data["timestamp"] = rec.Timestamp.Format(time.RFC3339Nano)
		}
	}

	if f.config.EnableCaller && rec.Caller != "" {
		data["caller"] = rec.Caller
	}

	if rec.Error != nil {
		data["error"] = rec.Error.Error()
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func formatTimestamp(t time.Time, format string) string {
	switch format {
	case "unix":
		return strconv.FormatInt(t.Unix(), 10)
	case "unixmilli":
		return strconv.FormatInt(t.UnixMilli(), 10)
	default:
		return t.Format(format)
	}
}
