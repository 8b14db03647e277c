package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatmatrix/internal/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func frames(t *testing.T, out string) []struct {
	Frame  uint64 `json:"frame"`
	Paused bool   `json:"paused"`
} {
	t.Helper()
	var docs []struct {
		Frame  uint64 `json:"frame"`
		Paused bool   `json:"paused"`
	}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var doc struct {
			Frame  uint64 `json:"frame"`
			Paused bool   `json:"paused"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &doc))
		docs = append(docs, doc)
	}
	return docs
}

func TestValidatePrintsEffectiveConfig(t *testing.T) {
	out, _, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "fps: 60")
	assert.Contains(t, out, "toggle_pause")
}

func TestValidatePrintSchema(t *testing.T) {
	out, _, err := execute(t, "validate", "--print-schema")
	require.NoError(t, err)
	assert.Contains(t, out, "#Config")
}

func TestValidateRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("viewport:\n  fps: 0\n"), 0o644))

	_, _, err := execute(t, "validate", "--config", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestHeadlessJSON(t *testing.T) {
	out, _, err := execute(t, "headless", "--frames", "120", "--every", "60", "--seed", "1")
	require.NoError(t, err)

	docs := frames(t, out)
	require.Len(t, docs, 2)
	assert.EqualValues(t, 60, docs[0].Frame)
	assert.EqualValues(t, 120, docs[1].Frame)
}

func TestHeadlessSeedIsReproducible(t *testing.T) {
	a, _, err := execute(t, "headless", "--frames", "30", "--every", "30", "--seed", "7")
	require.NoError(t, err)
	b, _, err := execute(t, "headless", "--frames", "30", "--every", "30", "--seed", "7")
	require.NoError(t, err)

	var da, db map[string]any
	require.NoError(t, json.Unmarshal([]byte(a), &da))
	require.NoError(t, json.Unmarshal([]byte(b), &db))
	assert.Equal(t, da["particles"], db["particles"])
	assert.Equal(t, da["gauges"], db["gauges"])
}

func TestHeadlessText(t *testing.T) {
	out, _, err := execute(t, "headless", "--frames", "60", "--every", "30", "--format", "text", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "THREAT MATRIX")
	assert.Contains(t, out, "frame=30")
	assert.Contains(t, out, "frame=60")
}

func TestHeadlessBuiltInScriptQuits(t *testing.T) {
	out, _, err := execute(t, "headless", "--frames", "1000", "--every", "60", "--script", "demo", "--seed", "1")
	require.NoError(t, err)

	docs := frames(t, out)
	require.Len(t, docs, 4)
	assert.EqualValues(t, 240, docs[3].Frame)
	assert.True(t, docs[0].Paused, "demo pauses at frame 30")
	assert.False(t, docs[1].Paused, "demo resumes at frame 90")
}

func TestHeadlessScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pause.yaml")
	script := "name: pause\nsteps:\n  - frame: 5\n    event: invoke\n    action: toggle_pause\n  - frame: 10\n    event: quit\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	out, _, err := execute(t, "headless", "--frames", "100", "--every", "10", "--script", path)
	require.NoError(t, err)

	docs := frames(t, out)
	require.Len(t, docs, 1)
	assert.EqualValues(t, 10, docs[0].Frame)
	assert.True(t, docs[0].Paused)
}

func TestHeadlessErrors(t *testing.T) {
	_, _, err := execute(t, "headless", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = execute(t, "headless", "--frames", "0")
	assert.ErrorContains(t, err, "--frames")

	_, _, err = execute(t, "headless", "--script", "no-such-script")
	assert.ErrorContains(t, err, "no-such-script")

	_, _, err = execute(t, "headless", "--log-level", "loud")
	assert.Error(t, err)
}

func TestRunNeedsTerminal(t *testing.T) {
	orig := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	_, _, err := execute(t, "run")
	assert.ErrorIs(t, err, errNoTerminal)
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threatmatrix.log")
	_, stderr, err := execute(t, "headless", "--frames", "10", "--every", "10", "--log-level", "debug", "--log-file", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "headless run finished")
}
