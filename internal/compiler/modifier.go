package compiler

import (
	"slices"

	"github.com/roach88/qnorm/internal/ir"
)

// ModifierKind identifies a structural gate modifier.
type ModifierKind int

const (
	ModifierUnknown ModifierKind = iota
	ModifierAdjoint
	ModifierControlled
	ModifierForked
)

// Modifier is one entry of a modifier stack. Control is the qubit bound by
// a CONTROLLED modifier. Name keeps the source spelling for diagnostics.
type Modifier struct {
	Kind    ModifierKind
	Name    string
	Control int
}

// Adjoint returns an ADJOINT modifier.
func Adjoint() Modifier {
	return Modifier{Kind: ModifierAdjoint, Name: "ADJOINT"}
}

// Controlled returns a CONTROLLED modifier binding the control qubit.
func Controlled(control int) Modifier {
	return Modifier{Kind: ModifierControlled, Name: "CONTROLLED", Control: control}
}

// ParseModifier classifies a modifier name. DAGGER is accepted as the Quil
// spelling of ADJOINT. Unrecognized names produce ModifierUnknown and fail
// when resolved.
func ParseModifier(name string) Modifier {
	switch name {
	case "ADJOINT", "DAGGER":
		return Modifier{Kind: ModifierAdjoint, Name: name}
	case "CONTROLLED":
		return Modifier{Kind: ModifierControlled, Name: name}
	case "FORKED":
		return Modifier{Kind: ModifierForked, Name: name}
	}
	return Modifier{Kind: ModifierUnknown, Name: name}
}

// ModifierStack is an immutable view over modifiers ordered innermost
// first: the head applies directly to the base gate.
type ModifierStack struct {
	mods []Modifier
}

// NewModifierStack builds a stack from modifiers listed innermost first.
func NewModifierStack(mods ...Modifier) ModifierStack {
	return ModifierStack{mods: slices.Clone(mods)}
}

// Next returns the head modifier and the stack without it. ok is false
// when the stack is empty.
func (s ModifierStack) Next() (head Modifier, rest ModifierStack, ok bool) {
	if len(s.mods) == 0 {
		return Modifier{}, s, false
	}
	return s.mods[0], ModifierStack{mods: s.mods[1:]}, true
}

// Len returns the number of modifiers left.
func (s ModifierStack) Len() int {
	return len(s.mods)
}

// Resolve applies every modifier of the stack to g, innermost first. It
// fails on the first modifier that cannot be applied.
func Resolve(g ir.Gate, stack ModifierStack) (ir.Gate, error) {
	for {
		m, rest, ok := stack.Next()
		if !ok {
			return g, nil
		}
		var err error
		if g, err = apply(g, m); err != nil {
			return ir.Gate{}, err
		}
		stack = rest
	}
}

func apply(g ir.Gate, m Modifier) (ir.Gate, error) {
	switch m.Kind {
	case ModifierAdjoint:
		return adjoint(g), nil
	case ModifierControlled:
		return control(g, m)
	case ModifierForked:
		return ir.Gate{}, &UnsupportedModifierError{Modifier: m.Name, Gate: g.Name, Reason: "forked gates are not supported"}
	}
	return ir.Gate{}, &UnsupportedModifierError{Modifier: m.Name, Gate: g.Name, Reason: "unknown modifier"}
}

// adjointNames maps gates whose adjoint is another named gate.
var adjointNames = map[ir.GateName]ir.GateName{
	ir.S:       ir.SDagger,
	ir.SDagger: ir.S,
	ir.T:       ir.TDagger,
	ir.TDagger: ir.T,
}

// adjoint keeps the ctrl- prefix: the adjoint of a controlled gate is the
// controlled adjoint. Gates with no angle and no dagger partner are left
// as they are.
func adjoint(g ir.Gate) ir.Gate {
	base := g.Name.Base()
	rename := func(n ir.GateName) ir.GateName {
		if g.Name.IsControlled() {
			return n.Controlled()
		}
		return n
	}

	switch base {
	case ir.S, ir.SDagger, ir.T, ir.TDagger:
		return g.WithName(rename(adjointNames[base]))
	case ir.RXPhi, ir.RYPhi, ir.RZPhi, ir.RPhi:
		phi, _ := g.Param(ir.ParamPhi)
		return g.WithParam(ir.ParamPhi, -phi)
	case ir.U3:
		theta, _ := g.Param(ir.ParamTheta)
		phi, _ := g.Param(ir.ParamPhi)
		lambda, _ := g.Param(ir.ParamLambda)
		return g.WithParam(ir.ParamTheta, -theta).
			WithParam(ir.ParamPhi, -lambda).
			WithParam(ir.ParamLambda, -phi)
	}
	return g
}

func control(g ir.Gate, m Modifier) (ir.Gate, error) {
	switch {
	case g.Name.IsControlled():
		return ir.Gate{}, &UnsupportedModifierError{Modifier: m.Name, Gate: g.Name, Reason: "multi-controlled gates are not supported"}
	case g.Name.Base() == ir.MeasureZ:
		return ir.Gate{}, &UnsupportedModifierError{Modifier: m.Name, Gate: g.Name, Reason: "controlled measurement is not supported"}
	case slices.Contains(g.Qubits(), m.Control):
		return ir.Gate{}, &UnsupportedModifierError{Modifier: m.Name, Gate: g.Name, Reason: "control qubit is also a target"}
	}
	return g.WithControl(m.Control), nil
}
