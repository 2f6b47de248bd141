package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qnorm/internal/ir"
)

const bellMoments = `moments:
  - operations:
      - gate: H
        qubits: [{line: 0}]
  - operations:
      - gate: CNOT
        qubits: [{line: 0}, {line: 1}]
`

const bellIR = `{"steps":[{"index":0,"gates":[{"name":"hadamard","target":0}]},{"index":1,"gates":[{"name":"ctrl-pauli-x","target":1,"control":0}]}]}`

// writeCircuit writes a circuit document into a temp dir and returns its path.
func writeCircuit(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func decodeResponse(t *testing.T, buf *bytes.Buffer) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp), buf.String())
	return resp
}

func executeCompile(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestCompile_TextPrintsIR(t *testing.T) {
	path := writeCircuit(t, "bell.yaml", bellMoments)

	buf, err := executeCompile(t, "text", path)
	require.NoError(t, err)
	assert.Equal(t, bellIR+"\n", buf.String())
}

func TestCompile_JSON(t *testing.T) {
	path := writeCircuit(t, "bell.yaml", bellMoments)

	buf, err := executeCompile(t, "json", path)
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "moment", resp.Data.Dialect)
	assert.Equal(t, 2, resp.Data.QubitCount)
	assert.Equal(t, 2, resp.Data.Steps)
	assert.Equal(t, 2, resp.Data.Gates)
	assert.JSONEq(t, bellIR, string(resp.Data.IR))

	c, err := ir.Parse(resp.Data.IR)
	require.NoError(t, err)
	assert.Equal(t, ir.MustHash(c), resp.Data.Hash)
}

func TestCompile_OutputFile(t *testing.T) {
	path := writeCircuit(t, "bell.qasm", "OPENQASM 2.0;\nqreg q[2];\nh q[0];\ncx q[0],q[1];\n")
	out := filepath.Join(t.TempDir(), "bell.ir.json")

	buf, err := executeCompile(t, "text", "-o", out, path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ Compiled")
	assert.Contains(t, buf.String(), "(list)")
	assert.Contains(t, buf.String(), "Wrote canonical IR to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	c, err := ir.Parse(data)
	require.NoError(t, err)
	assert.Empty(t, ir.Validate(c))
	assert.Equal(t, 2, c.QubitCount)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
		wantExit int
	}{
		{
			name:     "unsupported gate",
			file:     "c.yaml",
			content:  "data:\n  - {name: foo, qubits: [0]}\n",
			wantCode: "E201",
			wantExit: ExitFailure,
		},
		{
			name:     "forked modifier",
			file:     "c.quil",
			content:  "FORKED RX(0.1, 0.2) 0 1\n",
			wantCode: "E202",
			wantExit: ExitFailure,
		},
		{
			name:     "undetectable document",
			file:     "c.yaml",
			content:  "circuit: {}\n",
			wantCode: "E203",
			wantExit: ExitFailure,
		},
		{
			name:     "batch of circuits",
			file:     "c.yaml",
			content:  "experiments:\n  - instructions: [{name: h, qubits: [0]}]\n  - instructions: [{name: x, qubits: [0]}]\n",
			wantCode: "E204",
			wantExit: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCircuit(t, tt.file, tt.content)

			buf, err := executeCompile(t, "json", path)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))

			resp := decodeResponse(t, buf)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestCompile_DialectOverride(t *testing.T) {
	path := writeCircuit(t, "both.yaml", `
moments:
  - operations:
      - {gate: H, qubits: [0]}
instructions:
  - {name: X, qubits: [1]}
`)

	buf, err := executeCompile(t, "json", "--dialect", "stream", path)
	require.NoError(t, err)
	var resp struct {
		Data CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "stream", resp.Data.Dialect)
	assert.JSONEq(t, `{"steps":[{"index":0,"gates":[{"name":"pauli-x","target":1}]}]}`, string(resp.Data.IR))

	buf, err = executeCompile(t, "json", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "moment", resp.Data.Dialect)
}

func TestCompile_DialectErrors(t *testing.T) {
	qasm := writeCircuit(t, "bell.qasm", "qreg q[1];\nh q[0];\n")

	buf, err := executeCompile(t, "text", "--dialect", "cobol", qasm)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E001]")

	buf, err = executeCompile(t, "text", "--dialect", "moment", qasm)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E203]")
}

func TestCompile_HelpListsNativeGates(t *testing.T) {
	buf, err := executeCompile(t, "text", "--help")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Native gates:")
	assert.Contains(t, out, "XPowGate")
	assert.Contains(t, out, "CNOT")
	assert.Contains(t, out, "--dialect")
}

func TestCompile_MissingFile(t *testing.T) {
	buf, err := executeCompile(t, "text", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E005]")
}

func TestCompile_EmptyCircuit(t *testing.T) {
	path := writeCircuit(t, "empty.yaml", "instructions: []\n")

	buf, err := executeCompile(t, "text", path)
	require.NoError(t, err)
	assert.Equal(t, `{"steps":[]}`+"\n", buf.String())
}
