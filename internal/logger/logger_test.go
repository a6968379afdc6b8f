package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharmLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug")

	tests := []struct {
		name     string
		fn       func()
		expected []string
	}{
		{
			name:     "Info",
			fn:       func() { l.Info("opened store", "version", 6) },
			expected: []string{"INFO", "opened store", "version=6"},
		},
		{
			name:     "Warn",
			fn:       func() { l.Warn("fallback code", "code", "STU7") },
			expected: []string{"WARN", "fallback code", "code=STU7"},
		},
		{
			name:     "Error",
			fn:       func() { l.Error("migration failed") },
			expected: []string{"ERRO", "migration failed"},
		},
		{
			name:     "Debug",
			fn:       func() { l.Debug("query") },
			expected: []string{"DEBU", "query"},
		},
		{
			name:     "With",
			fn:       func() { l.With("step", 6).Info("applying") },
			expected: []string{"step=6", "applying"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			got := buf.String()
			for _, want := range tt.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, log.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, log.InfoLevel, ParseLevel("nonsense"))
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tpq.log")

	l, closer, err := NewFile(path, "info")
	require.NoError(t, err)
	l.Info("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "written to file"))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored")
	l.With("a", 1).Error("ignored")
}
