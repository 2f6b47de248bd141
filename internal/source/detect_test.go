package source

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_Moment(t *testing.T) {
	doc := `
moments:
  - operations:
      - gate: H
        qubits: [{line: 0}]
  - operations:
      - gate: CNOT
        qubits: [{line: 0}, {line: 1}]
  - operations:
      - gate: {name: ZPowGate, exponent: 0.25}
        qubits: [{row: 1, col: 1}]
      - gate: X
        qubits: [{line: 2}]
        controls: [alice]
`
	c, err := Detect("bell.yaml", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, DialectMoment, c.Dialect)
	require.NotNil(t, c.Moment)
	assert.Nil(t, c.Stream)
	assert.Nil(t, c.List)
	require.Len(t, c.Moment.Moments, 3)

	h := c.Moment.Moments[0].Operations[0]
	assert.Equal(t, GateHPow, h.Gate.Name)
	require.NotNil(t, h.Gate.Exponent)
	assert.Equal(t, 1.0, *h.Gate.Exponent)

	cnot := c.Moment.Moments[1].Operations[0]
	assert.Equal(t, GateCXPow, cnot.Gate.Name)
	assert.Equal(t, []Qubit{LineQubit(0), LineQubit(1)}, cnot.Qubits)

	z := c.Moment.Moments[2].Operations[0]
	assert.Equal(t, GateZPow, z.Gate.Name)
	assert.Equal(t, 0.25, *z.Gate.Exponent)

	cx := c.Moment.Moments[2].Operations[1]
	require.True(t, cx.IsControlled())
	assert.Equal(t, []Qubit{NamedQubit("alice")}, cx.Controls)
	assert.Equal(t, GatePauliX, cx.Sub.Gate.Name)
	assert.Equal(t, []Qubit{LineQubit(2)}, cx.Sub.Qubits)

	assert.Equal(t, []Qubit{
		LineQubit(0), LineQubit(1), LineQubit(2), GridQubit(1, 1), NamedQubit("alice"),
	}, c.Moment.AllQubits())
}

func TestDetect_MomentSubOperation(t *testing.T) {
	doc := `
moments:
  - operations:
      - controls: [{line: 0}]
        sub_operation:
          gate: {name: Rx, rads: pi/2}
          qubits: [{line: 1}]
`
	c, err := Detect("sub.yaml", []byte(doc))
	require.NoError(t, err)
	op := c.Moment.Moments[0].Operations[0]
	require.True(t, op.IsControlled())
	assert.Equal(t, GateRx, op.Sub.Gate.Name)
	require.Len(t, op.Sub.Gate.Params, 1)
	assert.InDelta(t, 1.5707963267948966, op.Sub.Gate.Params[0], 1e-12)
}

func TestDetect_Stream(t *testing.T) {
	doc := `{"instructions":[{"name":"x","qubits":[0,1],"modifiers":["dagger","controlled"]},{"name":"RZ","qubits":[2],"params":["-pi/4"]}]}`
	c, err := Detect("prog.json", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, DialectStream, c.Dialect)
	require.Len(t, c.Stream.Instructions, 2)

	x := c.Stream.Instructions[0]
	assert.Equal(t, "X", x.Gate.Name)
	assert.Equal(t, []int{0, 1}, x.Qubits)
	assert.Equal(t, []string{"CONTROLLED", "DAGGER"}, x.Modifiers)

	rz := c.Stream.Instructions[1]
	assert.InDelta(t, -0.7853981633974483, rz.Gate.Params[0], 1e-12)
}

func TestDetect_List(t *testing.T) {
	doc := `
data:
  - {name: RX, qubits: [3], params: [1.2]}
  - {name: measure, qubits: [3]}
`
	c, err := Detect("list.yaml", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, DialectList, c.Dialect)
	require.Len(t, c.List.Instructions, 2)
	assert.Equal(t, "rx", c.List.Instructions[0].Gate.Name)
	assert.Equal(t, []float64{1.2}, c.List.Instructions[0].Gate.Params)
	assert.Equal(t, 3, c.List.Instructions[0].Line)
}

func TestDetect_SingleExperiment(t *testing.T) {
	doc := `
experiments:
  - instructions:
      - {name: h, qubits: [0]}
`
	c, err := Detect("qobj.yaml", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, DialectList, c.Dialect)
	require.Len(t, c.List.Instructions, 1)
	assert.Equal(t, "h", c.List.Instructions[0].Gate.Name)
}

func TestDetect_RecognizerOrder(t *testing.T) {
	// moments wins over instructions when both are present.
	doc := `
instructions: []
moments: []
`
	c, err := Detect("both.yaml", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, DialectMoment, c.Dialect)
	assert.True(t, c.Empty())
}

func TestDetectAs(t *testing.T) {
	doc := []byte(`
moments:
  - operations:
      - {gate: H, qubits: [0]}
instructions:
  - {name: X, qubits: [1]}
`)
	c, err := DetectAs("both.yaml", doc, DialectStream)
	require.NoError(t, err)
	assert.Equal(t, DialectStream, c.Dialect)
	require.Len(t, c.Stream.Instructions, 1)

	c, err = DetectAs("both.yaml", doc, DialectNone)
	require.NoError(t, err)
	assert.Equal(t, DialectMoment, c.Dialect)

	_, err = DetectAs("both.yaml", doc, DialectList)
	require.Error(t, err)
	var sde *SourceDetectionError
	require.True(t, errors.As(err, &sde))
	assert.Equal(t, DialectList, sde.Want)
	assert.Contains(t, err.Error(), "not in the list dialect")
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in   string
		want Dialect
	}{
		{"", DialectNone},
		{"auto", DialectNone},
		{"moment", DialectMoment},
		{"cirq", DialectMoment},
		{"stream", DialectStream},
		{"quil", DialectStream},
		{"list", DialectList},
		{"qiskit", DialectList},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDialect(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}

	_, err := ParseDialect("cobol")
	assert.ErrorContains(t, err, `unknown dialect "cobol"`)
}

func TestDetect_Empty(t *testing.T) {
	for _, doc := range []string{"", "# nothing\n", "---\n", "null\n"} {
		c, err := Detect("empty.yaml", []byte(doc))
		require.NoError(t, err)
		assert.Equal(t, DialectNone, c.Dialect)
		assert.True(t, c.Empty())
	}
}

func TestDetect_EmptyCircuits(t *testing.T) {
	for _, doc := range []string{"moments: []", "instructions: []", "data: []", "experiments: []"} {
		t.Run(doc, func(t *testing.T) {
			c, err := Detect("empty.yaml", []byte(doc))
			require.NoError(t, err)
			assert.NotEqual(t, DialectNone, c.Dialect)
			assert.True(t, c.Empty())
		})
	}
}

func TestDetect_MultipleExperiments(t *testing.T) {
	doc := `
experiments:
  - instructions: [{name: h, qubits: [0]}]
  - instructions: [{name: x, qubits: [0]}]
`
	_, err := Detect("batch.yaml", []byte(doc))
	require.Error(t, err)
	assert.True(t, IsMultipleCircuitsError(err))

	var mce *MultipleCircuitsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, 2, mce.Count)
	assert.Equal(t, ErrCodeMultipleCircuits, mce.Code())
}

func TestDetect_MultipleDocuments(t *testing.T) {
	doc := "data: []\n---\nmoments: []\n"
	_, err := Detect("batch.yaml", []byte(doc))
	assert.True(t, IsMultipleCircuitsError(err))
}

func TestDetect_Unrecognized(t *testing.T) {
	_, err := Detect("odd.yaml", []byte("gates: []\nname: foo\n"))
	require.Error(t, err)
	assert.True(t, IsSourceDetectionError(err))

	var sde *SourceDetectionError
	require.True(t, errors.As(err, &sde))
	assert.Equal(t, []string{"gates", "name"}, sde.Keys)
	assert.Contains(t, err.Error(), "E203")

	_, err = Detect("list.yaml", []byte("[1, 2, 3]"))
	assert.True(t, IsSourceDetectionError(err))
}

func TestDetect_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid yaml", "moments: [\n"},
		{"operation without gate", "moments:\n  - operations:\n      - qubits: [0]\n"},
		{"instruction without name", "instructions:\n  - qubits: [0]\n"},
		{"list with modifiers", "data:\n  - {name: x, qubits: [0], modifiers: [DAGGER]}\n"},
		{"data and experiments", "data: []\nexperiments: []\n"},
		{"bad parameter", "data:\n  - {name: rx, qubits: [0], params: [tau]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Detect("bad.yaml", []byte(tt.doc))
			require.Error(t, err)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "got %v", err)
		})
	}
}

func TestDetect_MomentPoweredShorthand(t *testing.T) {
	doc := `
moments:
  - operations:
      - gate: {name: X, exponent: 0.5}
        qubits: [0]
      - gate: {name: rz, rads: 0.1}
        qubits: [1]
`
	c, err := Detect("pow.yaml", []byte(doc))
	require.NoError(t, err)
	ops := c.Moment.Moments[0].Operations
	assert.Equal(t, GateXPow, ops[0].Gate.Name)
	assert.Equal(t, 0.5, *ops[0].Gate.Exponent)
	assert.Equal(t, GateRz, ops[1].Gate.Name)
	assert.Equal(t, []float64{0.1}, ops[1].Gate.Params)
}
