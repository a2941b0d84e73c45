package util

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelWarn, "soacframe", false)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("parse failed for %s", "a.yml")
	l.Error("boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN soacframe: parse failed for a.yml")
	assert.Contains(t, out, "ERROR soacframe: boom")

	buf.Reset()
	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "DEBUG soacframe: now visible")
}

func TestLoggerColor(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelInfo, "soacframe", true)
	l.Warn("careful")
	assert.Contains(t, buf.String(), "\033[33m")

	buf.Reset()
	l.SetColorEnabled(false)
	l.Warn("careful")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestLoggerStructured(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelInfo, "soacframe", false)
	l.SetStructured(true, "")
	l.WithField("file", "a.kql").Info("scanned")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scanned", entry["msg"])
	assert.Equal(t, "a.kql", entry["file"])
	assert.Equal(t, "info", entry["level"])
}

func TestLoggerLogFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "run.log")
	l := NewLogger(&buf, LevelInfo, "soacframe", true)
	l.SetStructured(false, path)
	l.Warn("careful")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WARN soacframe: careful")
	assert.NotContains(t, string(data), "\033[")
	assert.Contains(t, buf.String(), "WARN soacframe: careful")

	buf.Reset()
	l.Warn("after close")
	assert.Contains(t, buf.String(), "after close")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "after close")
}

func TestLoggerSetOutputKeepsLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l := NewLogger(&bytes.Buffer{}, LevelInfo, "soacframe", false)
	l.SetStructured(true, path)

	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.Info("redirected")
	require.NoError(t, l.Close())

	assert.Contains(t, buf.String(), "redirected")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"redirected"`)
}

func TestColorizerDisabled(t *testing.T) {
	c := &Colorizer{Enabled: false}
	assert.Equal(t, "x", c.Green("x"))
	c.Enabled = true
	assert.Equal(t, "\033[32mx\033[0m", c.Green("x"))
}
