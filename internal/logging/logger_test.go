package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespectsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Debugf("hidden")
	logger.Infof("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger, closeFn2, err := New(Options{Debug: true, Output: &buf})
	require.NoError(t, err)
	defer closeFn2()

	logger.Debugf("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{File: path, Output: &buf})
	require.NoError(t, err)

	logger.Child("[engine]").Infof("pass 1 done")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pass 1 done")
	assert.Contains(t, buf.String(), "pass 1 done")
}

func TestNewBadLogFile(t *testing.T) {
	_, _, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "bot.log")})
	assert.Error(t, err)
}
