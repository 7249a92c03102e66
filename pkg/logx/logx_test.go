package logx_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Abraxas-365/asynckit/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(format logx.Format, level logx.Level) (*logx.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logx.NewLogger(&logx.Config{
		Level:  level,
		Format: format,
		Output: buf,
	}), buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logx.LevelDebug, logx.ParseLevel("debug"))
	assert.Equal(t, logx.LevelWarn, logx.ParseLevel("WARNING"))
	assert.Equal(t, logx.LevelOff, logx.ParseLevel("off"))
	assert.Equal(t, logx.LevelInfo, logx.ParseLevel("nonsense"))
	assert.Equal(t, "ERROR", logx.LevelError.String())
}

func TestConsoleFormatter_SortedFields(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatConsole, logx.LevelDebug)

	logger.Named("queuex").WithFields(logx.Fields{"seq": 7, "attempt": 2}).Debug("admitted")

	assert.Equal(t, "[DEBUG] admitted attempt=2 component=queuex seq=7\n", buf.String())
}

func TestJSONFormatter_IncludesError(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatJSON, logx.LevelInfo)

	logger.WithField("seq", 3).WithError(errors.New("boom")).Warn("task rejected")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "WARN", got["level"])
	assert.Equal(t, "task rejected", got["message"])
	assert.Equal(t, "boom", got["error"])
	assert.EqualValues(t, 3, got["seq"])
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatConsole, logx.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	logger.SetLevel(logx.LevelOff)
	logger.Error("also hidden")
	assert.NotContains(t, buf.String(), "also hidden")
}

func TestNop_WritesNothing(t *testing.T) {
	logger := logx.Nop()
	assert.False(t, logger.Enabled(logx.LevelError))
	logger.Named("x").Error("dropped")
}

func TestEntry_WithFieldDoesNotMutateBase(t *testing.T) {
	logger, buf := newBufferLogger(logx.FormatConsole, logx.LevelInfo)
	base := logger.Named("queuex")

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			base.WithField("seq", i).Info("settled")
		}()
	}
	wg.Wait()

	base.Info("base")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "[INFO ] base component=queuex", lines[10])
}
