package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querymode/internal/loader"
	"github.com/roach88/querymode/internal/metadata"
)

func TestValidateCommandValid(t *testing.T) {
	out, err := execute(t, "validate", "--card", pivotCard, "--metadata", metaFile, "--clicked", cellClick)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All documents valid (card, metadata, clicked)")
}

func TestValidateCommandValidJSON(t *testing.T) {
	out, err := execute(t, "validate", "--format", "json", "--metadata", metaFile)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, []string{"metadata"}, result.Checked)
}

func TestValidateCommandSchemaError(t *testing.T) {
	out, err := execute(t, "validate", "--format", "json", "--card", "testdata/bad_type.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, loader.ErrCodeSchema, resp.Error.Code)

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "card", result.Errors[0].Document)
}

func TestValidateCommandReportsEveryDocument(t *testing.T) {
	out, err := execute(t, "validate", "--format", "json",
		"--card", "testdata/bad_type.json",
		"--metadata", "testdata/dup_meta.yaml",
		"--clicked", "testdata/nope.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	decodeResponse(t, out, &result)

	byDocument := map[string][]string{}
	for _, issue := range result.Errors {
		byDocument[issue.Document] = append(byDocument[issue.Document], issue.Code)
	}
	assert.Equal(t, []string{loader.ErrCodeSchema}, byDocument["card"])
	assert.Contains(t, byDocument["metadata"], metadata.ErrDuplicateFieldID)
	assert.Equal(t, []string{loader.ErrCodeNotFound}, byDocument["clicked"])
}

func TestValidateCommandText(t *testing.T) {
	out, err := execute(t, "validate", "--metadata", "testdata/dup_meta.yaml")
	require.Error(t, err)
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, metadata.ErrDuplicateFieldID+" metadata.")
}

func TestValidateCommandNothingToValidate(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "nothing to validate")
}
