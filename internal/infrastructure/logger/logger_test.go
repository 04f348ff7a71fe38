package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("writes json to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "popstats.log")
		l, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)

		l.Debug("hello")
		require.NoError(t, l.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"hello"`)
	})

	t.Run("unwritable output is an error", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
		assert.Error(t, err)
	})
}

func TestNewEncoder_TimeFormat(t *testing.T) {
	entry := zapcore.Entry{
		Time:    time.Date(2026, 1, 23, 9, 5, 7, 0, time.UTC),
		Message: "Population aggregator ready",
	}

	tests := []struct {
		name       string
		timeFormat string
		want       string
	}{
		{"custom layout", "2006-01-02 15:04:05", `"time":"2026-01-23 09:05:07"`},
		{"empty layout falls back to ISO8601", "", `"time":"2026-01-23T09:05:07.000Z"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := newEncoder("json", tt.timeFormat).EncodeEntry(entry, nil)
			require.NoError(t, err)
			defer buf.Free()
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestNew_TimeFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popstats.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path, TimeFormat: "2006"})
	require.NoError(t, err)

	l.Info("hello")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `"time":"\d{4}"`, string(data))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}
