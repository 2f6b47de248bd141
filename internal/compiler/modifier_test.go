package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qnorm/internal/ir"
)

// sampleGate builds a valid gate for any canonical name.
func sampleGate(name ir.GateName) ir.Gate {
	g := ir.Gate{Name: name, Target: 1}
	if name.IsControlled() {
		g.Control = ir.Int(0)
	}
	if name.IsSwap() {
		g.Target2 = ir.Int(2)
	}
	for i, p := range name.RequiredParams() {
		g = g.WithParam(p, 0.1*float64(i+1))
	}
	return g
}

func TestResolve_DoubleAdjointIsIdentity(t *testing.T) {
	stack := NewModifierStack(Adjoint(), Adjoint())
	for _, name := range ir.KnownGateNames() {
		t.Run(string(name), func(t *testing.T) {
			g := sampleGate(name)
			got, err := Resolve(g, stack)
			require.NoError(t, err)
			assert.True(t, g.Equal(got), "got %s want %s", got, g)
		})
	}
}

func TestResolve_AdjointLeavesUnangledGatesAlone(t *testing.T) {
	for _, name := range []ir.GateName{ir.SqrtNot, ir.U2, ir.MeasureZ, ir.Swap, ir.PauliX.Controlled()} {
		t.Run(string(name), func(t *testing.T) {
			g := sampleGate(name)
			got, err := Resolve(g, NewModifierStack(Adjoint()))
			require.NoError(t, err)
			assert.True(t, g.Equal(got), "got %s want %s", got, g)
		})
	}
}

func TestResolve_Adjoint(t *testing.T) {
	tests := []struct {
		name string
		in   ir.Gate
		want ir.Gate
	}{
		{"s", ir.NewGate(ir.S, 0), ir.NewGate(ir.SDagger, 0)},
		{"s-dagger", ir.NewGate(ir.SDagger, 0), ir.NewGate(ir.S, 0)},
		{"t", ir.NewGate(ir.T, 0), ir.NewGate(ir.TDagger, 0)},
		{"ctrl-t", ir.NewControlledGate(ir.T, 0, 1), ir.NewControlledGate(ir.TDagger, 0, 1)},
		{"hadamard", ir.NewGate(ir.Hadamard, 2), ir.NewGate(ir.Hadamard, 2)},
		{"rx-phi", ir.NewPhiGate(ir.RXPhi, 0, 0.5), ir.NewPhiGate(ir.RXPhi, 0, -0.5)},
		{"ctrl-r-phi", ir.NewControlledGate(ir.RPhi, 1, 0).WithParam(ir.ParamPhi, 0.2),
			ir.NewControlledGate(ir.RPhi, 1, 0).WithParam(ir.ParamPhi, -0.2)},
		{"u3",
			ir.NewGate(ir.U3, 0).WithParam(ir.ParamTheta, 1).WithParam(ir.ParamPhi, 2).WithParam(ir.ParamLambda, 3),
			ir.NewGate(ir.U3, 0).WithParam(ir.ParamTheta, -1).WithParam(ir.ParamPhi, -3).WithParam(ir.ParamLambda, -2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.in, NewModifierStack(Adjoint()))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestResolve_Controlled(t *testing.T) {
	got, err := Resolve(ir.NewGate(ir.PauliX, 1), NewModifierStack(Controlled(0)))
	require.NoError(t, err)
	assert.Equal(t, ir.PauliX.Controlled(), got.Name)
	assert.Equal(t, 1, got.Target)
	require.NotNil(t, got.Control)
	assert.Equal(t, 0, *got.Control)
}

func TestResolve_ControlledRejections(t *testing.T) {
	tests := []struct {
		name  string
		gate  ir.Gate
		stack ModifierStack
	}{
		{"already controlled", ir.NewControlledGate(ir.PauliX, 0, 1), NewModifierStack(Controlled(2))},
		{"two controls", ir.NewGate(ir.PauliX, 1), NewModifierStack(Controlled(0), Controlled(2))},
		{"measurement", ir.NewGate(ir.MeasureZ, 1), NewModifierStack(Controlled(0))},
		{"control equals target", ir.NewGate(ir.PauliX, 1), NewModifierStack(Controlled(1))},
		{"forked", ir.NewPhiGate(ir.RXPhi, 0, 1), NewModifierStack(ParseModifier("FORKED"))},
		{"unknown", ir.NewGate(ir.PauliX, 0), NewModifierStack(ParseModifier("SQUARED"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.gate, tt.stack)
			require.Error(t, err)
			assert.True(t, IsUnsupportedModifier(err))
			assert.Equal(t, ErrCodeUnsupportedModifier, ErrorCode(err))
		})
	}
}

func TestResolve_OrderInnermostFirst(t *testing.T) {
	// adjoint then control and control then adjoint agree for s
	a, err := Resolve(ir.NewGate(ir.S, 1), NewModifierStack(Adjoint(), Controlled(0)))
	require.NoError(t, err)
	b, err := Resolve(ir.NewGate(ir.S, 1), NewModifierStack(Controlled(0), Adjoint()))
	require.NoError(t, err)
	assert.Equal(t, ir.SDagger.Controlled(), a.Name)
	assert.True(t, a.Equal(b))

	// measurement: an adjoint applied first fails before the control is seen
	_, err = Resolve(ir.NewGate(ir.MeasureZ, 1), NewModifierStack(Adjoint(), Controlled(0)))
	var me *UnsupportedModifierError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "ADJOINT", me.Modifier)
}

func TestResolve_EmptyStack(t *testing.T) {
	g := ir.NewPhiGate(ir.RYPhi, 3, 0.4)
	got, err := Resolve(g, NewModifierStack())
	require.NoError(t, err)
	assert.True(t, g.Equal(got))
}

func TestModifierStack_Next(t *testing.T) {
	mods := []Modifier{Adjoint(), Controlled(4)}
	stack := NewModifierStack(mods...)
	mods[0] = Controlled(9)

	head, rest, ok := stack.Next()
	require.True(t, ok)
	assert.Equal(t, ModifierAdjoint, head.Kind)
	assert.Equal(t, 1, rest.Len())
	assert.Equal(t, 2, stack.Len(), "Next does not consume the receiver")

	head, rest, ok = rest.Next()
	require.True(t, ok)
	assert.Equal(t, 4, head.Control)

	_, _, ok = rest.Next()
	assert.False(t, ok)
}

func TestParseModifier(t *testing.T) {
	assert.Equal(t, ModifierAdjoint, ParseModifier("DAGGER").Kind)
	assert.Equal(t, ModifierAdjoint, ParseModifier("ADJOINT").Kind)
	assert.Equal(t, ModifierControlled, ParseModifier("CONTROLLED").Kind)
	assert.Equal(t, ModifierForked, ParseModifier("FORKED").Kind)
	m := ParseModifier("dagger")
	assert.Equal(t, ModifierUnknown, m.Kind, "names are folded by the reader, not here")
	assert.Equal(t, "dagger", m.Name)
}
