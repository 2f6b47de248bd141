package source

import "fmt"

// Dialect identifies the front-end object model a circuit was written in.
type Dialect int

const (
	// DialectNone marks an absent or empty circuit.
	DialectNone Dialect = iota
	// DialectMoment is the moment/step model.
	DialectMoment
	// DialectStream is the instruction stream with modifier stacks.
	DialectStream
	// DialectList is the plain instruction list.
	DialectList
)

var dialectNames = map[Dialect]string{
	DialectNone:   "none",
	DialectMoment: "moment",
	DialectStream: "stream",
	DialectList:   "list",
}

// String returns the dialect's lowercase name.
func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

// ParseDialect resolves a dialect name. Front-end aliases are accepted.
func ParseDialect(name string) (Dialect, error) {
	switch name {
	case "moment", "cirq":
		return DialectMoment, nil
	case "stream", "quil", "pyquil":
		return DialectStream, nil
	case "list", "qiskit", "qasm":
		return DialectList, nil
	case "auto", "none", "":
		return DialectNone, nil
	}
	return DialectNone, fmt.Errorf("unknown dialect %q", name)
}

// NativeGate is a front-end gate identifier with its parameters, produced
// by a reader in a single conversion step. Name is the dialect's spelling,
// already case-folded the way the dialect's gate table expects.
type NativeGate struct {
	Name     string
	Exponent *float64  // powered gates (moment dialect)
	Params   []float64 // angle parameters in radians
}

// Circuit is a decoded source circuit tagged with its dialect. Exactly the
// model matching Dialect is non-nil.
type Circuit struct {
	Dialect Dialect
	Moment  *MomentCircuit
	Stream  *Program
	List    *ListCircuit
}

// Empty reports whether the circuit has no moments or instructions at all.
func (c Circuit) Empty() bool {
	switch c.Dialect {
	case DialectMoment:
		return c.Moment == nil || len(c.Moment.Moments) == 0
	case DialectStream:
		return c.Stream == nil || len(c.Stream.Instructions) == 0
	case DialectList:
		return c.List == nil || len(c.List.Instructions) == 0
	}
	return true
}
