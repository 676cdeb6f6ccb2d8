package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenarioYAML = `
name: snap-test
kind: float
initial: [0]
config:
  use_convergence: true
  active_convergence_weight: 0.5
  snap_threshold:
    kind: float
    members: [1000]
  convergence_interval: 1
steps:
  - receive:
      value: [10000]
      timestamp: 0
      frame: 1
      now: 0
assertions:
  - type: value_equals
    value: [10000]
`

func writeScenarioFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestValidateCommandAcceptsValidScenario(t *testing.T) {
	path := writeScenarioFile(t, validScenarioYAML)
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"validate", path})
	assert.NoError(t, cmd.Execute())
}

func TestValidateCommandRejectsUnknownKind(t *testing.T) {
	path := writeScenarioFile(t, "name: bad\nkind: not-a-kind\nsteps: []\n")
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"validate", path})
	assert.Error(t, cmd.Execute())
}

func TestRunCommandReportsAssertionResults(t *testing.T) {
	path := writeScenarioFile(t, validScenarioYAML)
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"run", path})
	assert.NoError(t, cmd.Execute())
}

func TestReplayCommandOnMissingDatabase(t *testing.T) {
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	// store.Open creates a missing database file, but not a missing parent
	// directory: "nope" does not exist, so opening the store fails.
	cmd.SetArgs([]string{"replay", filepath.Join(t.TempDir(), "nope", "db.sqlite")})
	assert.Error(t, cmd.Execute())
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "run", "whatever.yaml"})
	assert.Error(t, cmd.Execute())
}

const validConfigCUE = `
kind: "float"
use_convergence: true
active_convergence_weight: 0.5
convergence_interval: 1
snap_threshold: [1000.0]
`

func TestCompileCommandWritesYAMLConfig(t *testing.T) {
	path := writeScenarioFile(t, validConfigCUE)
	outPath := path + ".yaml"

	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"compile", path, "--out", outPath})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "use_convergence")
}

func TestCompileCommandRejectsBoundsViolation(t *testing.T) {
	path := writeScenarioFile(t, `
kind: "float"
active_convergence_weight: 5.0 & <=1.0
`)
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"compile", path})
	assert.Error(t, cmd.Execute())
}
