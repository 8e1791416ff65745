package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedantwpatil/replaybot/internal/config"
	"github.com/vedantwpatil/replaybot/internal/input"
	"github.com/vedantwpatil/replaybot/internal/script"
)

func quietLogger() *golog.Logger {
	return golog.New().SetOutput(io.Discard)
}

func writeScript(t *testing.T, s script.Script) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.json")
	require.NoError(t, script.Save(path, s))
	return path
}

func TestRealMainUsage(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, exitUsage, realMain(nil, &stderr))
	assert.Contains(t, stderr.String(), "Usage:")

	stderr.Reset()
	assert.Equal(t, exitUsage, realMain([]string{"dance"}, &stderr))
	assert.Contains(t, stderr.String(), `unknown command "dance"`)

	assert.Equal(t, exitOK, realMain([]string{"help"}, &stderr))
	assert.Equal(t, exitOK, realMain([]string{"run", "-h"}, &stderr))
	assert.Equal(t, exitUsage, realMain([]string{"run"}, &stderr))
	assert.Equal(t, exitUsage, realMain([]string{"run", "--bogus", "x.json"}, &stderr))
	assert.Equal(t, exitUsage, realMain([]string{"record"}, &stderr))
}

func TestParseRunFlagsOverrides(t *testing.T) {
	var stderr bytes.Buffer
	opts, path, err := parseRunFlags([]string{"bank.json", "-r", "30", "--backend", "dry-run", "--seed", "9", "-g", "--idle-every", "4"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "bank.json", path)

	cfg, err := opts.config()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Run.RuntimeSeconds)
	assert.Equal(t, config.BackendDryRun, cfg.Run.Backend)
	assert.Equal(t, uint64(9), cfg.Run.Seed)
	assert.True(t, cfg.Logging.Debug)
	assert.Equal(t, 4, cfg.Idle.EveryPasses)
	// Unset flags keep the defaults.
	assert.Equal(t, config.NewConfig().Run.StartDelaySeconds, cfg.Run.StartDelaySeconds)
}

func TestParseRunFlagsOverrideConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("run:\n  runtime_seconds: 120\n  backend: xdotool\n"), 0o644))

	opts, _, err := parseRunFlags([]string{"--config", cfgPath, "--runtime", "5", "s.json"}, &bytes.Buffer{})
	require.NoError(t, err)
	cfg, err := opts.config()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Run.RuntimeSeconds)
	assert.Equal(t, config.BackendXdotool, cfg.Run.Backend)
}

func TestRunFlagsAreValidated(t *testing.T) {
	opts, _, err := parseRunFlags([]string{"--runtime", "-1", "--backend", "carrier-pigeon", "s.json"}, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = opts.config()
	require.Error(t, err)

	var cerr *config.ConfigError
	assert.ErrorAs(t, err, &cerr)
	assert.Contains(t, err.Error(), "run.runtime_seconds")
	assert.Contains(t, err.Error(), "run.backend")
}

func TestNewInjector(t *testing.T) {
	cfg := config.NewConfig()
	logger := quietLogger()

	cfg.Run.Backend = config.BackendDryRun
	inj, err := newInjector(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &input.DryRun{}, inj)

	cfg.Run.Backend = config.BackendXdotool
	inj, err = newInjector(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &input.Xdotool{}, inj)

	cfg.Run.Backend = "nope"
	_, err = newInjector(cfg, logger)
	assert.Error(t, err)
}

func TestNewRegistryMatchesInventory(t *testing.T) {
	r := newRegistry(config.NewConfig())
	e, ok := r.Lookup("bank-clear-inventory")
	require.True(t, ok)
	assert.Equal(t, "clear-inventory", e.Name)

	_, ok = r.Lookup("bank")
	assert.False(t, ok)
}

func TestSeededRandIsReproducible(t *testing.T) {
	a, b := newRand(42), newRand(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestRunDryRun(t *testing.T) {
	path := writeScript(t, script.Script{
		script.PointerAction{ID: "bank", Target: script.Point{X: 40, Y: 50}},
		script.KeyAction{ID: "close", Key: script.KeySpec{Name: "escape"}, Count: 2},
	})

	var stderr bytes.Buffer
	code := realMain([]string{"run", "--backend", "dry-run", "--runtime", "0", "--seed", "3", path}, &stderr)
	assert.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stderr.String(), "click left at")
	assert.Contains(t, stderr.String(), `press "escape"`)
	assert.Contains(t, stderr.String(), "run complete after 1 passes")
}

func TestRunBadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type": "teleport"}]`), 0o644))

	var stderr bytes.Buffer
	code := realMain([]string{"run", "--backend", "dry-run", path}, &stderr)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr.String(), "failed")
}

func TestRunMissingConfig(t *testing.T) {
	var stderr bytes.Buffer
	code := realMain([]string{"run", "--config", filepath.Join(t.TempDir(), "none.yaml"), "s.json"}, &stderr)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr.String(), "config:")
}

func TestParseRecordFlags(t *testing.T) {
	opts, path, err := parseRecordFlags([]string{"out.json", "--keys", "--clicks", "-g"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "out.json", path)
	assert.True(t, opts.keys)
	assert.True(t, opts.clicks)

	cfg, err := opts.config()
	require.NoError(t, err)
	assert.True(t, cfg.Logging.Debug)
}
