package source

import (
	"cmp"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// QubitKind distinguishes the moment dialect's qubit families.
type QubitKind int

// Kinds order before one another in declaration order.
const (
	LineQubitKind QubitKind = iota
	GridQubitKind
	NamedQubitKind
)

// Qubit is a moment-dialect qubit identity. Qubits have a natural total
// order: line qubits by x, then grid qubits by (row, col), then named
// qubits by name.
type Qubit struct {
	Kind QubitKind
	X    int
	Row  int
	Col  int
	Name string
}

// LineQubit returns the line qubit at position x.
func LineQubit(x int) Qubit { return Qubit{Kind: LineQubitKind, X: x} }

// GridQubit returns the grid qubit at (row, col).
func GridQubit(row, col int) Qubit { return Qubit{Kind: GridQubitKind, Row: row, Col: col} }

// NamedQubit returns the qubit identified by name.
func NamedQubit(name string) Qubit { return Qubit{Kind: NamedQubitKind, Name: name} }

// Compare orders qubits totally; distinct qubits never compare equal.
func (q Qubit) Compare(o Qubit) int {
	if c := cmp.Compare(q.Kind, o.Kind); c != 0 {
		return c
	}
	switch q.Kind {
	case LineQubitKind:
		return cmp.Compare(q.X, o.X)
	case GridQubitKind:
		if c := cmp.Compare(q.Row, o.Row); c != 0 {
			return c
		}
		return cmp.Compare(q.Col, o.Col)
	default:
		return cmp.Compare(q.Name, o.Name)
	}
}

func (q Qubit) String() string {
	switch q.Kind {
	case LineQubitKind:
		return fmt.Sprintf("q(%d)", q.X)
	case GridQubitKind:
		return fmt.Sprintf("q(%d, %d)", q.Row, q.Col)
	default:
		return q.Name
	}
}

// SortQubits sorts qubits in natural order and removes duplicates.
func SortQubits(qubits []Qubit) []Qubit {
	out := slices.Clone(qubits)
	slices.SortFunc(out, Qubit.Compare)
	return slices.CompactFunc(out, func(a, b Qubit) bool { return a.Compare(b) == 0 })
}

// UnmarshalYAML accepts 3, "alice", {line: 3}, {row: 0, col: 1} or
// {name: alice}.
func (q *Qubit) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!int" {
			var x int
			if err := node.Decode(&x); err != nil {
				return err
			}
			*q = LineQubit(x)
			return nil
		}
		*q = NamedQubit(node.Value)
		return nil
	case yaml.MappingNode:
		var raw struct {
			Line *int    `yaml:"line"`
			Row  *int    `yaml:"row"`
			Col  *int    `yaml:"col"`
			Name *string `yaml:"name"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		switch {
		case raw.Line != nil:
			*q = LineQubit(*raw.Line)
		case raw.Row != nil && raw.Col != nil:
			*q = GridQubit(*raw.Row, *raw.Col)
		case raw.Name != nil:
			*q = NamedQubit(*raw.Name)
		default:
			return fmt.Errorf("line %d: qubit needs line, row/col or name", node.Line)
		}
		return nil
	}
	return fmt.Errorf("line %d: invalid qubit", node.Line)
}
