package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/testutil"
)

// execute runs the root command with a fixed trace id and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommandWith(testutil.NewFixedTraceID("trace-fixed"))
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeResponse decodes a JSON CLIResponse and re-decodes its data into out.
func decodeResponse(t *testing.T, raw string, out any) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp), raw)
	if out != nil && resp.Data != nil {
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out))
	}
	return resp
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "querymode", cmd.Use)
	assert.Contains(t, cmd.Long, "drill-downs")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"mode", "actions", "drills", "validate", "modes", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "modes", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTraceIDInJSON(t *testing.T) {
	out, err := execute(t, "modes", "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "trace-fixed", resp.TraceID)
}

func TestFormatFromEnvironment(t *testing.T) {
	t.Setenv("QUERYMODE_FORMAT", "json")

	out, err := execute(t, "modes")
	require.NoError(t, err)
	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "ok", resp.Status)
}

func TestFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("QUERYMODE_FORMAT", "json")

	out, err := execute(t, "modes", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "native\n  actions: -")
}

func TestMetadataFromEnvironment(t *testing.T) {
	t.Setenv("QUERYMODE_METADATA", "testdata/orders_meta.yaml")

	out, err := execute(t, "mode", "--card", "testdata/count_by_status.json")
	require.NoError(t, err)
	assert.Equal(t, "mode: pivot\n", out)
}

func TestConfigFile(t *testing.T) {
	out, err := execute(t, "mode", "--config", "testdata/config.yaml", "--card", "testdata/count_by_status.json")
	require.NoError(t, err)

	var result ModeResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "pivot", result.Mode)
}

func TestConfigFileMissing(t *testing.T) {
	_, err := execute(t, "modes", "--config", "testdata/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, ir.ToolVersion)
}
