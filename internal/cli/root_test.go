package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	itJobs    = "../../testdata/IT_Jobs.csv"
	uzDevJobs = "../../testdata/UzDev_Jobs.csv"
)

// executeCommand is a test helper that runs the CLI with the given args and
// captures both stdout and stderr.
func executeCommand(args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()

	return outBuf.String(), errBuf.String(), err
}

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), ".vacancies.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code)
}

// ---------------------------------------------------------------------------
// Help output
// ---------------------------------------------------------------------------

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	require.NoError(t, err)

	for _, sub := range []string{"analyze", "options", "watch", "presets", "version", "completion"} {
		assert.Contains(t, stdout, sub, "help should mention %q subcommand", sub)
	}

	for _, flag := range []string{"--config", "--env-file", "--log-level", "--log-format", "--no-color", "--quiet"} {
		assert.Contains(t, stdout, flag, "help should mention %q flag", flag)
	}
}

func TestAnalyzeCommand_HelpListsFilterFlags(t *testing.T) {
	stdout, _, err := executeCommand("analyze", "--help")
	require.NoError(t, err)

	for _, flag := range []string{
		"--position", "--exclude-position", "--direction", "--experience",
		"--location", "--company", "--skill", "--exclude-skill",
		"--from", "--to", "--preset", "--format", "--limit", "--comma",
	} {
		assert.Contains(t, stdout, flag)
	}
}

// ---------------------------------------------------------------------------
// Unknown flags → exit code 2
// ---------------------------------------------------------------------------

func TestRootCommand_UnknownFlag(t *testing.T) {
	_, _, err := executeCommand("--nonexistent")
	requireExitCode(t, err, 2)
}

// ---------------------------------------------------------------------------
// SilenceErrors – cobra must not print errors itself
// ---------------------------------------------------------------------------

func TestRootCommand_SilenceErrors(t *testing.T) {
	_, stderr, err := executeCommand("--nonexistent")
	require.Error(t, err)
	assert.Empty(t, stderr, "cobra should not print errors to stderr (SilenceErrors)")
}

// ---------------------------------------------------------------------------
// Config errors → exit code 2
// ---------------------------------------------------------------------------

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, _, err := executeCommand("--config", "/nonexistent/path.yaml", "analyze", itJobs)
	requireExitCode(t, err, 2)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand("--log-level", "trace", "analyze", itJobs)
	requireExitCode(t, err, 2)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootCommand_InvalidLogFormat(t *testing.T) {
	_, _, err := executeCommand("--log-format", "xml", "analyze", itJobs)
	requireExitCode(t, err, 2)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestRootCommand_InvalidEnvFile(t *testing.T) {
	_, _, err := executeCommand("--env-file", "/nonexistent/.env", "analyze", itJobs)
	requireExitCode(t, err, 2)
	assert.Contains(t, err.Error(), "reading env file")
}

func TestRootCommand_JSONLogs(t *testing.T) {
	_, stderr, err := executeCommand("--log-format", "json", "analyze", itJobs)
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"filters applied"`)
}

func TestRootCommand_QuietSuppressesInfoLogs(t *testing.T) {
	_, stderr, err := executeCommand("--quiet", "analyze", itJobs)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "filters applied")
}

// ---------------------------------------------------------------------------
// ExitError
// ---------------------------------------------------------------------------

func TestExitError_ErrorWithMessage(t *testing.T) {
	err := &ExitError{Code: 1, Err: assert.AnError}
	assert.Contains(t, err.Error(), assert.AnError.Error())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExitError_ErrorWithoutMessage(t *testing.T) {
	err := &ExitError{Code: 42}
	assert.Equal(t, "exit code 42", err.Error())
	assert.Nil(t, err.Unwrap())
}
