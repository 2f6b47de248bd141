package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeDraw(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewDrawCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestDraw_Plain(t *testing.T) {
	path := writeCircuit(t, "bell.yaml", bellMoments)

	buf, err := executeDraw(t, "text", "--plain", path)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "bell.yaml (moment)")
	assert.Contains(t, out, "q[0] ───┤  H  ├─────●────")
	assert.Contains(t, out, "q[1] ───────────────⊕────")
}

func TestDraw_JSON(t *testing.T) {
	path := writeCircuit(t, "swap.quil", "SWAP 0 2\n")

	buf, err := executeDraw(t, "json", path)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   DrawResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "stream", resp.Data.Dialect)
	assert.Contains(t, resp.Data.Diagram, "q[2]")
	assert.Contains(t, resp.Data.Diagram, "×")
	assert.Contains(t, resp.Data.Diagram, "┼")
}

func TestDraw_Errors(t *testing.T) {
	_, err := executeDraw(t, "text", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	path := writeCircuit(t, "bad.yaml", "data:\n  - {name: foo, qubits: [0]}\n")
	buf, err := executeDraw(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E201]")
}

func TestDraw_DialectOverride(t *testing.T) {
	path := writeCircuit(t, "both.yaml", "moments: []\ninstructions:\n  - {name: H, qubits: [0]}\n")

	buf, err := executeDraw(t, "text", "--plain", "--dialect", "stream", path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "both.yaml (stream)")

	_, err = executeDraw(t, "text", "--dialect", "nope", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
