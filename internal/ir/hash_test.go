package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bellCircuit() *Circuit {
	return NewCircuit([]Step{
		{Index: 0, Gates: []Gate{NewGate(Hadamard, 0)}},
		{Index: 1, Gates: []Gate{NewControlledGate(PauliX, 0, 1)}},
	})
}

func TestHashDeterminism(t *testing.T) {
	h1, err := Hash(bellCircuit())
	require.NoError(t, err)

	h2, err := Hash(bellCircuit())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "Hash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestHashChangesWithInput(t *testing.T) {
	base := MustHash(bellCircuit())

	swapped := NewCircuit([]Step{
		{Index: 0, Gates: []Gate{NewGate(Hadamard, 0)}},
		{Index: 1, Gates: []Gate{NewControlledGate(PauliX, 1, 0)}},
	})
	rotated := NewCircuit([]Step{
		{Index: 0, Gates: []Gate{NewPhiGate(RXPhi, 0, 0.1)}},
	})
	rotatedMore := NewCircuit([]Step{
		{Index: 0, Gates: []Gate{NewPhiGate(RXPhi, 0, 0.2)}},
	})

	assert.NotEqual(t, base, MustHash(swapped), "control/target order must change the hash")
	assert.NotEqual(t, MustHash(rotated), MustHash(rotatedMore), "angles must change the hash")
}

func TestHashIncludesQubitCount(t *testing.T) {
	a := bellCircuit()
	b := bellCircuit()
	b.QubitCount = 5

	assert.NotEqual(t, MustHash(a), MustHash(b))
}

func TestHashDomainSeparation(t *testing.T) {
	data := []byte(`{"steps":[]}`)
	assert.NotEqual(t, hashWithDomain(DomainCircuit, data), hashWithDomain("other/v1", data))
}

func TestMustHashPanicsOnNonFinite(t *testing.T) {
	c := NewCircuit([]Step{{Index: 0, Gates: []Gate{{Name: RXPhi, Target: 0, Phi: Float(nan())}}}})
	assert.Panics(t, func() { MustHash(c) })
}
