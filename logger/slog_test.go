package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_JSON(t *testing.T) {
	t.Setenv("ENV", "production")

	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, InfoLevel, false)

	l.Debug("hidden", "k", 1)
	assert.Empty(t, buf.String(), "debug must be filtered at info level")

	l.Info("worker started", "dispatcher", "abc")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "worker started", rec["msg"])
	assert.Equal(t, "abc", rec["dispatcher"])
	assert.Contains(t, rec, "ts")
}

func TestSlogLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, WarnLevel, false)
	assert.Equal(t, WarnLevel, l.Level())

	child := l.With("command", "ReadDIO")
	l.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, child.Level(), "child shares the level of its parent")

	child.Debug("now visible")
	assert.True(t, strings.Contains(buf.String(), "ReadDIO"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected Level
		wantErr  bool
	}{
		{name: "debug", expected: DebugLevel},
		{name: "INFO", expected: InfoLevel},
		{name: "", expected: InfoLevel},
		{name: "warning", expected: WarnLevel},
		{name: "error", expected: ErrorLevel},
		{name: "fatal", expected: FatalLevel},
		{name: "verbose", expected: InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, lv)
		})
	}

	assert.Equal(t, "warn", WarnLevel.String())
}

func TestNewFileSlog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hal.log")

	l, closer := NewFileSlog(FileOptions{Filename: path, MaxSizeMB: 1, MaxBackups: 1}, InfoLevel, false)
	l.Info("to file", "id", 7)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
	assert.Contains(t, string(data), `"id":7`)
}

func TestMockLogger(t *testing.T) {
	m := NewPermissiveMockLogger()
	m.Warn("abandoned", "count", 2)
	m.Warn("abandoned", "count", 1)
	m.Error("panic")

	assert.Equal(t, 2, m.CallCount("Warn"))
	assert.Equal(t, 1, m.CallCount("Error"))
	assert.Equal(t, 0, m.CallCount("Debug"))
}
