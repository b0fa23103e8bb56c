package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l, err := New().FromWriter(&buf).Level("warn").Make()
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Warn().Str("op", "list").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"op":"list"`)
	assert.Contains(t, out, `"time":`)
}

func TestMakeWithPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "notas.log")
	l, err := New().FromPath(path).Make()
	require.NoError(t, err)

	l.Info().Msg("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestUnknownLevelKeepsDefault(t *testing.T) {
	var buf bytes.Buffer
	l, err := New().FromWriter(&buf).Level("loud").Make()
	require.NoError(t, err)
	l.Info().Msg("info still on")
	assert.Contains(t, buf.String(), "info still on")
}
