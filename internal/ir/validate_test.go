package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateGateAcceptsCanonicalGates(t *testing.T) {
	gates := []Gate{
		NewGate(Identity, 0),
		NewGate(MeasureZ, 0),
		NewControlledGate(PauliX, 0, 1),
		NewSwapGate(0, 1),
		NewSwapGate(1, 2).WithControl(0),
		NewPhiGate(RPhi, 0, math.Pi),
		{Name: U2, Target: 0, Phi: Float(0), Lambda: Float(1)},
		{Name: U3, Target: 0, Theta: Float(0), Phi: Float(0), Lambda: Float(1)},
	}
	for _, g := range gates {
		assert.Empty(t, ValidateGate(g, "gate"), g.String())
	}
}

func TestValidateGateControlInvariant(t *testing.T) {
	errs := ValidateGate(Gate{Name: "ctrl-pauli-x", Target: 1}, "gate")
	assert.Contains(t, codes(errs), ErrControlMismatch)

	errs = ValidateGate(Gate{Name: PauliX, Target: 1, Control: Int(0)}, "gate")
	assert.Contains(t, codes(errs), ErrControlMismatch)
}

func TestValidateGateControlledMeasurement(t *testing.T) {
	errs := ValidateGate(Gate{Name: MeasureZ, Target: 1, Control: Int(0)}, "gate")
	assert.Equal(t, []string{ErrControlledMeasure}, codes(errs))

	errs = ValidateGate(Gate{Name: "ctrl-measure-z", Target: 1, Control: Int(0)}, "gate")
	assert.Equal(t, []string{ErrControlledMeasure}, codes(errs))
}

func TestValidateGateTarget2(t *testing.T) {
	assert.Contains(t, codes(ValidateGate(NewGate(Swap, 0), "g")), ErrTarget2Mismatch)
	assert.Contains(t, codes(ValidateGate(Gate{Name: PauliX, Target: 0, Target2: Int(1)}, "g")), ErrTarget2Mismatch)
}

func TestValidateGateQubits(t *testing.T) {
	assert.Contains(t, codes(ValidateGate(NewControlledGate(PauliX, 1, 1), "g")), ErrDuplicateQubit)
	assert.Contains(t, codes(ValidateGate(NewGate(PauliX, -1), "g")), ErrNegativeQubit)
}

func TestValidateGateParams(t *testing.T) {
	assert.Contains(t, codes(ValidateGate(NewGate(RXPhi, 0), "g")), ErrMissingParam)
	assert.Contains(t, codes(ValidateGate(NewPhiGate(RXPhi, 0, math.Inf(-1)), "g")), ErrNonFiniteParam)
	assert.Contains(t, codes(ValidateGate(Gate{Name: U3, Target: 0, Phi: Float(0)}, "g")), ErrMissingParam)
}

func TestValidateGateUnknownName(t *testing.T) {
	errs := ValidateGate(NewGate("toffoli", 0), "g")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnknownGateName, errs[0].Code)
	assert.Equal(t, "g", errs[0].Field)
	assert.Contains(t, errs[0].Error(), "E101")
}

func TestValidateCircuit(t *testing.T) {
	assert.Empty(t, Validate(bellCircuit()))
	assert.Empty(t, Validate(NewCircuit(nil)))
}

func TestValidateStepIndexGap(t *testing.T) {
	c := NewCircuit([]Step{
		{Index: 0, Gates: []Gate{NewGate(Hadamard, 0)}},
		{Index: 2, Gates: []Gate{NewGate(Hadamard, 0)}},
	})
	assert.Equal(t, []string{ErrStepIndexGap}, codes(Validate(c)))
}

func TestValidateEmptyStep(t *testing.T) {
	c := NewCircuit([]Step{{Index: 0}})
	assert.Contains(t, codes(Validate(c)), ErrEmptyStep)
}

func TestValidateQubitCount(t *testing.T) {
	c := bellCircuit()
	c.QubitCount = 3
	assert.Equal(t, []string{ErrQubitCountMismatch}, codes(Validate(c)))
}
