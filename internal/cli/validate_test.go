package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qnorm/internal/ir"
)

func executeValidate(t *testing.T, format, stdin string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestValidate_Valid(t *testing.T) {
	path := writeCircuit(t, "bell.json", bellIR)

	buf, err := executeValidate(t, "text", "", path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ IR valid: 2 step(s), 2 qubit(s)")
}

func TestValidate_Stdin(t *testing.T) {
	buf, err := executeValidate(t, "json", bellIR, "-")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.QubitCount)
}

func TestValidate_InvariantViolations(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantCode string
	}{
		{
			name:     "unknown gate",
			doc:      `{"steps":[{"index":0,"gates":[{"name":"toffoli","target":0}]}]}`,
			wantCode: ir.ErrUnknownGateName,
		},
		{
			name:     "controlled measurement",
			doc:      `{"steps":[{"index":0,"gates":[{"name":"measure-z","target":1,"control":0}]}]}`,
			wantCode: ir.ErrControlledMeasure,
		},
		{
			name:     "missing angle",
			doc:      `{"steps":[{"index":0,"gates":[{"name":"rx-phi","target":0}]}]}`,
			wantCode: ir.ErrMissingParam,
		},
		{
			name:     "step index gap",
			doc:      `{"steps":[{"index":1,"gates":[{"name":"hadamard","target":0}]}]}`,
			wantCode: ir.ErrStepIndexGap,
		},
		{
			name:     "control equals target",
			doc:      `{"steps":[{"index":0,"gates":[{"name":"ctrl-pauli-x","target":0,"control":0}]}]}`,
			wantCode: ir.ErrDuplicateQubit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCircuit(t, "ir.json", tt.doc)

			buf, err := executeValidate(t, "json", "", path)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			var resp struct {
				Status string           `json:"status"`
				Data   ValidationResult `json:"data"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.False(t, resp.Data.Valid)

			codes := make([]string, 0, len(resp.Data.Errors))
			for _, e := range resp.Data.Errors {
				codes = append(codes, e.Code)
			}
			assert.Contains(t, codes, tt.wantCode)
		})
	}
}

func TestValidate_TextListsErrors(t *testing.T) {
	path := writeCircuit(t, "ir.json", `{"steps":[{"index":0,"gates":[]}]}`)

	buf, err := executeValidate(t, "text", "", path)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "✗ Validation failed")
	assert.Contains(t, buf.String(), ir.ErrEmptyStep)
}

func TestValidate_UnknownField(t *testing.T) {
	path := writeCircuit(t, "ir.json", `{"steps":[],"version":2}`)

	buf, err := executeValidate(t, "text", "", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error ["+ErrCodeInvalidIR+"]")
}

func TestValidate_MissingFile(t *testing.T) {
	buf, err := executeValidate(t, "text", "", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E005]")
}
