package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestQubit_UnmarshalYAML(t *testing.T) {
	var qubits []Qubit
	err := yaml.Unmarshal([]byte(`[3, {line: 1}, {row: 0, col: 2}, {name: bob}, alice]`), &qubits)
	require.NoError(t, err)
	assert.Equal(t, []Qubit{
		LineQubit(3),
		LineQubit(1),
		GridQubit(0, 2),
		NamedQubit("bob"),
		NamedQubit("alice"),
	}, qubits)
}

func TestQubit_UnmarshalYAML_Invalid(t *testing.T) {
	var q Qubit
	assert.Error(t, yaml.Unmarshal([]byte(`{col: 2}`), &q))
	assert.Error(t, yaml.Unmarshal([]byte(`[1, 2]`), &q))
}

func TestSortQubits_NaturalOrder(t *testing.T) {
	in := []Qubit{
		NamedQubit("b"),
		GridQubit(1, 0),
		LineQubit(2),
		GridQubit(0, 5),
		NamedQubit("a"),
		LineQubit(0),
		LineQubit(2),
	}
	got := SortQubits(in)
	assert.Equal(t, []Qubit{
		LineQubit(0),
		LineQubit(2),
		GridQubit(0, 5),
		GridQubit(1, 0),
		NamedQubit("a"),
		NamedQubit("b"),
	}, got)
	assert.Len(t, in, 7, "input must not be modified")
}

func TestQubit_String(t *testing.T) {
	assert.Equal(t, "q(4)", LineQubit(4).String())
	assert.Equal(t, "q(1, 2)", GridQubit(1, 2).String())
	assert.Equal(t, "alice", NamedQubit("alice").String())
}
