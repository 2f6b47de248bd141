package ir

import (
	"fmt"
	"strings"
)

// GateName is a canonical operation kind understood by the execution engine.
type GateName string

// Canonical gate names.
const (
	Identity GateName = "identity"
	PauliX   GateName = "pauli-x"
	PauliY   GateName = "pauli-y"
	PauliZ   GateName = "pauli-z"
	Hadamard GateName = "hadamard"
	S        GateName = "s"
	SDagger  GateName = "s-dagger"
	T        GateName = "t"
	TDagger  GateName = "t-dagger"
	SqrtNot  GateName = "sqrt-not"
	RXPhi    GateName = "rx-phi"
	RYPhi    GateName = "ry-phi"
	RZPhi    GateName = "rz-phi"
	RPhi     GateName = "r-phi"
	U2       GateName = "u2"
	U3       GateName = "u3"
	Swap     GateName = "swap"
	MeasureZ GateName = "measure-z"
)

// ControlPrefix marks a gate name as controlled by one qubit.
const ControlPrefix = "ctrl-"

// Param identifies an angle parameter slot on a gate.
type Param string

const (
	ParamPhi    Param = "phi"
	ParamTheta  Param = "theta"
	ParamLambda Param = "lambda"
)

// baseGateParams lists every uncontrolled canonical name with the
// parameters it requires. Built once, never mutated.
var baseGateParams = map[GateName][]Param{
	Identity: nil,
	PauliX:   nil,
	PauliY:   nil,
	PauliZ:   nil,
	Hadamard: nil,
	S:        nil,
	SDagger:  nil,
	T:        nil,
	TDagger:  nil,
	SqrtNot:  nil,
	RXPhi:    {ParamPhi},
	RYPhi:    {ParamPhi},
	RZPhi:    {ParamPhi},
	RPhi:     {ParamPhi},
	U2:       {ParamPhi, ParamLambda},
	U3:       {ParamTheta, ParamPhi, ParamLambda},
	Swap:     nil,
	MeasureZ: nil,
}

// IsControlled reports whether the name carries the ctrl- prefix.
func (n GateName) IsControlled() bool {
	return strings.HasPrefix(string(n), ControlPrefix)
}

// Base strips the ctrl- prefix, if any.
func (n GateName) Base() GateName {
	return GateName(strings.TrimPrefix(string(n), ControlPrefix))
}

// Controlled returns the ctrl- prefixed form of the name.
func (n GateName) Controlled() GateName {
	if n.IsControlled() {
		return n
	}
	return GateName(ControlPrefix + string(n))
}

// Known reports whether the name is a canonical gate name.
// Controlled measurement is not a canonical gate.
func (n GateName) Known() bool {
	base := n.Base()
	if _, ok := baseGateParams[base]; !ok {
		return false
	}
	if n.IsControlled() && (base == MeasureZ || base.IsControlled()) {
		return false
	}
	return true
}

// RequiredParams returns the parameter slots the name requires.
func (n GateName) RequiredParams() []Param {
	return baseGateParams[n.Base()]
}

// IsSwap reports whether the name belongs to the swap family (uses target2).
func (n GateName) IsSwap() bool {
	return n.Base() == Swap
}

// KnownGateNames returns every canonical gate name, uncontrolled first.
func KnownGateNames() []GateName {
	order := []GateName{
		Identity, PauliX, PauliY, PauliZ, Hadamard, S, SDagger, T, TDagger,
		SqrtNot, RXPhi, RYPhi, RZPhi, RPhi, U2, U3, Swap, MeasureZ,
	}
	names := make([]GateName, 0, 2*len(order))
	names = append(names, order...)
	for _, n := range order {
		if n != MeasureZ {
			names = append(names, n.Controlled())
		}
	}
	return names
}

// Gate is one canonical operation. Optional fields are nil when absent.
// Treat Gate as immutable: derive new gates with the With* helpers instead
// of writing through the pointers.
type Gate struct {
	Name    GateName `json:"name"`
	Target  int      `json:"target"`
	Control *int     `json:"control,omitempty"`
	Target2 *int     `json:"target2,omitempty"`
	Phi     *float64 `json:"phi,omitempty"`
	Theta   *float64 `json:"theta,omitempty"`
	Lambda  *float64 `json:"lambda,omitempty"`
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// NewGate creates an uncontrolled, parameterless gate.
func NewGate(name GateName, target int) Gate {
	return Gate{Name: name, Target: target}
}

// NewControlledGate creates a ctrl- gate with the given control qubit.
func NewControlledGate(name GateName, control, target int) Gate {
	return Gate{Name: name.Controlled(), Target: target, Control: Int(control)}
}

// NewSwapGate creates a swap between target and target2.
func NewSwapGate(target, target2 int) Gate {
	return Gate{Name: Swap, Target: target, Target2: Int(target2)}
}

// NewPhiGate creates a single-angle rotation gate.
func NewPhiGate(name GateName, target int, phi float64) Gate {
	return Gate{Name: name, Target: target, Phi: Float(phi)}
}

// WithName returns a copy of g renamed to name.
func (g Gate) WithName(name GateName) Gate {
	g.Name = name
	return g
}

// WithControl returns a copy of g marked controlled by the given qubit.
func (g Gate) WithControl(control int) Gate {
	g.Name = g.Name.Controlled()
	g.Control = Int(control)
	return g
}

// WithParam returns a copy of g with the parameter slot set to v.
func (g Gate) WithParam(p Param, v float64) Gate {
	switch p {
	case ParamPhi:
		g.Phi = Float(v)
	case ParamTheta:
		g.Theta = Float(v)
	case ParamLambda:
		g.Lambda = Float(v)
	}
	return g
}

// Param returns the value of a parameter slot, if present.
func (g Gate) Param(p Param) (float64, bool) {
	var v *float64
	switch p {
	case ParamPhi:
		v = g.Phi
	case ParamTheta:
		v = g.Theta
	case ParamLambda:
		v = g.Lambda
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// HasParams reports whether any angle parameter is set.
func (g Gate) HasParams() bool {
	return g.Phi != nil || g.Theta != nil || g.Lambda != nil
}

// Qubits returns every qubit the gate touches: control, target, target2.
func (g Gate) Qubits() []int {
	qubits := make([]int, 0, 3)
	if g.Control != nil {
		qubits = append(qubits, *g.Control)
	}
	qubits = append(qubits, g.Target)
	if g.Target2 != nil {
		qubits = append(qubits, *g.Target2)
	}
	return qubits
}

// MaxQubit returns the highest qubit index the gate references.
func (g Gate) MaxQubit() int {
	return max(g.Target, derefOr(g.Control, -1), derefOr(g.Target2, -1))
}

// Equal reports whether two gates carry identical fields.
func (g Gate) Equal(o Gate) bool {
	return g.Name == o.Name &&
		g.Target == o.Target &&
		equalPtr(g.Control, o.Control) &&
		equalPtr(g.Target2, o.Target2) &&
		equalPtr(g.Phi, o.Phi) &&
		equalPtr(g.Theta, o.Theta) &&
		equalPtr(g.Lambda, o.Lambda)
}

// String renders the gate compactly, e.g. "ctrl-pauli-x(c=0,t=1)".
func (g Gate) String() string {
	var sb strings.Builder
	sb.WriteString(string(g.Name))
	sb.WriteString("(")
	if g.Control != nil {
		fmt.Fprintf(&sb, "c=%d,", *g.Control)
	}
	fmt.Fprintf(&sb, "t=%d", g.Target)
	if g.Target2 != nil {
		fmt.Fprintf(&sb, ",t2=%d", *g.Target2)
	}
	if g.Theta != nil {
		fmt.Fprintf(&sb, ",theta=%g", *g.Theta)
	}
	if g.Phi != nil {
		fmt.Fprintf(&sb, ",phi=%g", *g.Phi)
	}
	if g.Lambda != nil {
		fmt.Fprintf(&sb, ",lambda=%g", *g.Lambda)
	}
	sb.WriteString(")")
	return sb.String()
}

func derefOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
