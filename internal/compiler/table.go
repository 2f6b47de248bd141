package compiler

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/roach88/qnorm/internal/ir"
	"github.com/roach88/qnorm/internal/source"
)

// gateRule describes how one native gate maps onto a canonical gate.
type gateRule struct {
	qubits int // exact qubit arity
	params int // exact parameter arity
	build  func(g source.NativeGate, q []int) (ir.Gate, error)
}

func fixed(name ir.GateName) gateRule {
	return gateRule{qubits: 1, build: func(_ source.NativeGate, q []int) (ir.Gate, error) {
		return ir.NewGate(name, q[0]), nil
	}}
}

func rotation(name ir.GateName) gateRule {
	return gateRule{qubits: 1, params: 1, build: func(g source.NativeGate, q []int) (ir.Gate, error) {
		return ir.NewPhiGate(name, q[0], g.Params[0]), nil
	}}
}

func controlled(name ir.GateName) gateRule {
	return gateRule{qubits: 2, build: func(_ source.NativeGate, q []int) (ir.Gate, error) {
		return ir.NewControlledGate(name, q[0], q[1]), nil
	}}
}

func controlledRotation(name ir.GateName) gateRule {
	return gateRule{qubits: 2, params: 1, build: func(g source.NativeGate, q []int) (ir.Gate, error) {
		return ir.NewControlledGate(name, q[0], q[1]).WithParam(ir.ParamPhi, g.Params[0]), nil
	}}
}

var swapRule = gateRule{qubits: 2, build: func(_ source.NativeGate, q []int) (ir.Gate, error) {
	return ir.NewSwapGate(q[0], q[1]), nil
}}

// powered maps an exponentiated gate family. Exponent 1 (or none) is the
// base gate. With snap set, the exact exponents ±0.5 and ±0.25 become the
// S and T gates. Any other exponent becomes rot with phi = π·exponent, or
// is rejected when rot is empty. Two-qubit families are controlled by the
// first qubit.
func powered(qubits int, base, rot ir.GateName, snap bool) gateRule {
	return gateRule{qubits: qubits, build: func(g source.NativeGate, q []int) (ir.Gate, error) {
		e := 1.0
		if g.Exponent != nil {
			e = *g.Exponent
		}
		target := q[len(q)-1]

		var gate ir.Gate
		switch {
		case e == 1:
			gate = ir.NewGate(base, target)
		case snap && e == 0.5:
			gate = ir.NewGate(ir.S, target)
		case snap && e == -0.5:
			gate = ir.NewGate(ir.SDagger, target)
		case snap && e == 0.25:
			gate = ir.NewGate(ir.T, target)
		case snap && e == -0.25:
			gate = ir.NewGate(ir.TDagger, target)
		case rot != "":
			phi := math.Pi * e
			if math.IsInf(phi, 0) || math.IsNaN(phi) {
				return ir.Gate{}, fmt.Errorf("exponent %g is not supported", e)
			}
			gate = ir.NewPhiGate(rot, target, phi)
		default:
			return ir.Gate{}, fmt.Errorf("exponent %g is not supported", e)
		}

		if qubits == 2 {
			gate = gate.WithControl(q[0])
		}
		return gate, nil
	}}
}

var momentSwapRule = gateRule{qubits: 2, build: func(g source.NativeGate, q []int) (ir.Gate, error) {
	if g.Exponent != nil && *g.Exponent != 1 {
		return ir.Gate{}, fmt.Errorf("exponent %g is not supported", *g.Exponent)
	}
	return ir.NewSwapGate(q[0], q[1]), nil
}}

// momentTable covers the moment dialect's gate families.
var momentTable = map[string]gateRule{
	source.GateMeasurement: fixed(ir.MeasureZ),
	source.GateIdentity:    fixed(ir.Identity),
	source.GatePauliX:      fixed(ir.PauliX),
	source.GatePauliY:      fixed(ir.PauliY),
	source.GatePauliZ:      fixed(ir.PauliZ),
	source.GateXPow:        powered(1, ir.PauliX, ir.RXPhi, false),
	source.GateYPow:        powered(1, ir.PauliY, ir.RYPhi, false),
	source.GateZPow:        powered(1, ir.PauliZ, ir.RZPhi, true),
	source.GateHPow:        powered(1, ir.Hadamard, "", false),
	source.GateCXPow:       powered(2, ir.PauliX, ir.RXPhi, false),
	source.GateCZPow:       powered(2, ir.PauliZ, ir.RZPhi, true),
	source.GateSwapPow:     momentSwapRule,
	source.GateRx:          rotation(ir.RXPhi),
	source.GateRy:          rotation(ir.RYPhi),
	source.GateRz:          rotation(ir.RZPhi),
}

// streamTable covers the Quil gate set. Names are upper case.
var streamTable = map[string]gateRule{
	"I":       fixed(ir.Identity),
	"X":       fixed(ir.PauliX),
	"Y":       fixed(ir.PauliY),
	"Z":       fixed(ir.PauliZ),
	"H":       fixed(ir.Hadamard),
	"S":       fixed(ir.S),
	"T":       fixed(ir.T),
	"RX":      rotation(ir.RXPhi),
	"RY":      rotation(ir.RYPhi),
	"RZ":      rotation(ir.RZPhi),
	"PHASE":   rotation(ir.RPhi),
	"CNOT":    controlled(ir.PauliX),
	"CZ":      controlled(ir.PauliZ),
	"CPHASE":  controlledRotation(ir.RPhi),
	"SWAP":    swapRule,
	"MEASURE": fixed(ir.MeasureZ),
}

// listTable covers the qiskit basis. Names are lower case.
var listTable = map[string]gateRule{
	"id":      fixed(ir.Identity),
	"x":       fixed(ir.PauliX),
	"y":       fixed(ir.PauliY),
	"z":       fixed(ir.PauliZ),
	"h":       fixed(ir.Hadamard),
	"sx":      fixed(ir.SqrtNot),
	"s":       fixed(ir.S),
	"sdg":     fixed(ir.SDagger),
	"t":       fixed(ir.T),
	"tdg":     fixed(ir.TDagger),
	"rx":      rotation(ir.RXPhi),
	"ry":      rotation(ir.RYPhi),
	"rz":      rotation(ir.RZPhi),
	"p":       rotation(ir.RPhi),
	"u1":      rotation(ir.RPhi),
	"u2":      {qubits: 1, params: 2, build: buildU2},
	"u3":      {qubits: 1, params: 3, build: buildU3},
	"u":       {qubits: 1, params: 3, build: buildU3},
	"cx":      controlled(ir.PauliX),
	"cy":      controlled(ir.PauliY),
	"cz":      controlled(ir.PauliZ),
	"ch":      controlled(ir.Hadamard),
	"crx":     controlledRotation(ir.RXPhi),
	"cry":     controlledRotation(ir.RYPhi),
	"crz":     controlledRotation(ir.RZPhi),
	"cp":      controlledRotation(ir.RPhi),
	"cu1":     controlledRotation(ir.RPhi),
	"swap":    swapRule,
	"cswap":   {qubits: 3, build: buildControlledSwap},
	"measure": fixed(ir.MeasureZ),
}

// u2(φ, λ)
func buildU2(g source.NativeGate, q []int) (ir.Gate, error) {
	return ir.NewGate(ir.U2, q[0]).
		WithParam(ir.ParamPhi, g.Params[0]).
		WithParam(ir.ParamLambda, g.Params[1]), nil
}

// u3(θ, φ, λ)
func buildU3(g source.NativeGate, q []int) (ir.Gate, error) {
	return ir.NewGate(ir.U3, q[0]).
		WithParam(ir.ParamTheta, g.Params[0]).
		WithParam(ir.ParamPhi, g.Params[1]).
		WithParam(ir.ParamLambda, g.Params[2]), nil
}

func buildControlledSwap(_ source.NativeGate, q []int) (ir.Gate, error) {
	return ir.NewSwapGate(q[1], q[2]).WithControl(q[0]), nil
}

var tables = map[source.Dialect]map[string]gateRule{
	source.DialectMoment: momentTable,
	source.DialectStream: streamTable,
	source.DialectList:   listTable,
}

// IsNoOp reports whether the native name is skipped by the assembler:
// Quil directives and the qiskit barrier.
func IsNoOp(d source.Dialect, name string) bool {
	switch d {
	case source.DialectStream:
		return source.IsStreamNoOp(name)
	case source.DialectList:
		return name == "barrier"
	}
	return false
}

// Translate converts one native gate acting on resolved qubit indices into
// a canonical gate. Two-qubit gates keep the source qubit order: (control,
// target) or (target, target2).
func Translate(d source.Dialect, g source.NativeGate, qubits []int) (ir.Gate, error) {
	unsupported := func(format string, args ...any) error {
		return &UnsupportedGateError{Dialect: d.String(), Name: g.Name, Reason: fmt.Sprintf(format, args...)}
	}

	table, ok := tables[d]
	if !ok {
		return ir.Gate{}, unsupported("no gate table")
	}
	rule, ok := table[g.Name]
	if !ok {
		return ir.Gate{}, unsupported("not in the supported gate set")
	}
	if len(qubits) != rule.qubits {
		return ir.Gate{}, unsupported("takes %d qubit(s), got %d", rule.qubits, len(qubits))
	}
	if len(g.Params) != rule.params {
		return ir.Gate{}, unsupported("takes %d parameter(s), got %d", rule.params, len(g.Params))
	}
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if q < 0 {
			return ir.Gate{}, unsupported("negative qubit index %d", q)
		}
		if seen[q] {
			return ir.Gate{}, unsupported("qubit %d used twice", q)
		}
		seen[q] = true
	}

	gate, err := rule.build(g, qubits)
	if err != nil {
		return ir.Gate{}, unsupported("%v", err)
	}
	for name, v := range map[ir.Param]*float64{ir.ParamPhi: gate.Phi, ir.ParamTheta: gate.Theta, ir.ParamLambda: gate.Lambda} {
		if v != nil && (math.IsInf(*v, 0) || math.IsNaN(*v)) {
			return ir.Gate{}, unsupported("parameter %s is not finite", name)
		}
	}
	return gate, nil
}

// SupportedNatives returns the native names a dialect accepts, sorted.
// The compile command lists them in its help.
func SupportedNatives(d source.Dialect) []string {
	return slices.Sorted(maps.Keys(tables[d]))
}
