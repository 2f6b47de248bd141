package source

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MomentCircuit is an ordered sequence of moments.
type MomentCircuit struct {
	Moments []Moment
}

// Moment holds operations that act simultaneously.
type Moment struct {
	Operations []Operation
}

// Operation is either a plain gate operation (Gate and Qubits set) or a
// controlled operation wrapping Sub with the Controls qubits.
type Operation struct {
	Gate     NativeGate
	Qubits   []Qubit
	Controls []Qubit
	Sub      *Operation
}

// IsControlled reports whether the operation wraps a sub-operation.
func (op Operation) IsControlled() bool {
	return op.Sub != nil
}

// AllQubits returns every qubit referenced by the operation, controls and
// sub-operation included.
func (op Operation) AllQubits() []Qubit {
	qubits := append([]Qubit{}, op.Controls...)
	qubits = append(qubits, op.Qubits...)
	if op.Sub != nil {
		qubits = append(qubits, op.Sub.AllQubits()...)
	}
	return qubits
}

// AllQubits returns every qubit referenced anywhere in the circuit, sorted
// in natural order without duplicates.
func (c *MomentCircuit) AllQubits() []Qubit {
	var qubits []Qubit
	for _, m := range c.Moments {
		for _, op := range m.Operations {
			qubits = append(qubits, op.AllQubits()...)
		}
	}
	return SortQubits(qubits)
}

// momentAliases maps shorthand gate spellings onto the moment dialect's
// native gate families. Built once, never mutated.
var momentAliases = map[string]NativeGate{
	"I":       {Name: GateIdentity},
	"X":       {Name: GatePauliX},
	"Y":       {Name: GatePauliY},
	"Z":       {Name: GatePauliZ},
	"H":       {Name: GateHPow, Exponent: exponent(1)},
	"S":       {Name: GateZPow, Exponent: exponent(0.5)},
	"T":       {Name: GateZPow, Exponent: exponent(0.25)},
	"CNOT":    {Name: GateCXPow, Exponent: exponent(1)},
	"CX":      {Name: GateCXPow, Exponent: exponent(1)},
	"CZ":      {Name: GateCZPow, Exponent: exponent(1)},
	"SWAP":    {Name: GateSwapPow, Exponent: exponent(1)},
	"M":       {Name: GateMeasurement},
	"MEASURE": {Name: GateMeasurement},
}

// Moment dialect native gate identifiers.
const (
	GateMeasurement = "MeasurementGate"
	GateIdentity    = "IdentityGate"
	GatePauliX      = "_PauliX"
	GatePauliY      = "_PauliY"
	GatePauliZ      = "_PauliZ"
	GateXPow        = "XPowGate"
	GateYPow        = "YPowGate"
	GateZPow        = "ZPowGate"
	GateHPow        = "HPowGate"
	GateCXPow       = "CXPowGate"
	GateCZPow       = "CZPowGate"
	GateSwapPow     = "SwapPowGate"
	GateRx          = "Rx"
	GateRy          = "Ry"
	GateRz          = "Rz"
)

func exponent(v float64) *float64 { return &v }

type momentDoc struct {
	Operations []operationDoc `yaml:"operations"`
}

type operationDoc struct {
	Gate         *gateDoc      `yaml:"gate"`
	Qubits       []Qubit       `yaml:"qubits"`
	Controls     []Qubit       `yaml:"controls"`
	SubOperation *operationDoc `yaml:"sub_operation"`
	line         int
}

func (o *operationDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain operationDoc
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*o = operationDoc(p)
	o.line = node.Line
	return nil
}

type gateDoc struct {
	Name     string `yaml:"name"`
	Exponent *Angle `yaml:"exponent"`
	Rads     *Angle `yaml:"rads"`
}

// UnmarshalYAML accepts either a bare name ("H") or a mapping.
func (g *gateDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		g.Name = node.Value
		return nil
	}
	type plain gateDoc
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*g = gateDoc(p)
	return nil
}

// native converts the document gate into a NativeGate, expanding aliases.
func (g gateDoc) native() NativeGate {
	if alias, ok := momentAliases[foldUpper(g.Name)]; ok && g.Exponent == nil && g.Rads == nil {
		return alias
	}
	ng := NativeGate{Name: canonicalMomentName(g.Name)}
	if g.Exponent != nil {
		ng.Exponent = exponent(float64(*g.Exponent))
	}
	if g.Rads != nil {
		ng.Params = []float64{float64(*g.Rads)}
	}
	return ng
}

// canonicalMomentName maps lowercase rotation spellings (rx, ry, rz) onto
// the rotation gate identifiers and shorthand names carrying an exponent
// onto their powered family. Everything else is left untouched.
func canonicalMomentName(name string) string {
	switch foldUpper(name) {
	case "RX":
		return GateRx
	case "RY":
		return GateRy
	case "RZ":
		return GateRz
	case "X":
		return GateXPow
	case "Y":
		return GateYPow
	case "Z":
		return GateZPow
	case "H":
		return GateHPow
	case "CNOT", "CX":
		return GateCXPow
	case "CZ":
		return GateCZPow
	case "SWAP":
		return GateSwapPow
	}
	return name
}

func (o operationDoc) operation(file string) (Operation, error) {
	if o.SubOperation != nil {
		sub, err := o.SubOperation.operation(file)
		if err != nil {
			return Operation{}, err
		}
		return Operation{Controls: o.Controls, Sub: &sub}, nil
	}
	if o.Gate == nil || o.Gate.Name == "" {
		return Operation{}, &ParseError{File: file, Line: o.line, Message: "operation needs a gate or a sub_operation"}
	}
	if len(o.Controls) > 0 {
		// Controls without an explicit sub-operation wrap the gate itself.
		inner := Operation{Gate: o.Gate.native(), Qubits: o.Qubits}
		return Operation{Controls: o.Controls, Sub: &inner}, nil
	}
	return Operation{Gate: o.Gate.native(), Qubits: o.Qubits}, nil
}

func momentCircuitFromDoc(docs []momentDoc, file string) (*MomentCircuit, error) {
	c := &MomentCircuit{Moments: make([]Moment, 0, len(docs))}
	for i, md := range docs {
		m := Moment{Operations: make([]Operation, 0, len(md.Operations))}
		for _, od := range md.Operations {
			op, err := od.operation(file)
			if err != nil {
				return nil, fmt.Errorf("moment %d: %w", i, err)
			}
			m.Operations = append(m.Operations, op)
		}
		c.Moments = append(c.Moments, m)
	}
	return c, nil
}
