package source

import "fmt"

// ListCircuit is a plain ordered gate list with integer qubits.
type ListCircuit struct {
	Instructions []ListInstruction
}

// ListInstruction is one list-dialect instruction.
type ListInstruction struct {
	Gate   NativeGate
	Qubits []int
	Line   int
}

type experimentDoc struct {
	Instructions []instructionDoc `yaml:"instructions"`
}

func listCircuitFromDoc(docs []instructionDoc, file string) (*ListCircuit, error) {
	c := &ListCircuit{Instructions: make([]ListInstruction, 0, len(docs))}
	for i, d := range docs {
		if d.Name == "" {
			return nil, &ParseError{File: file, Line: d.line, Message: fmt.Sprintf("instruction %d has no name", i)}
		}
		if len(d.Modifiers) > 0 {
			return nil, &ParseError{File: file, Line: d.line, Message: fmt.Sprintf("instruction %d: list circuits do not take modifiers", i)}
		}
		c.Instructions = append(c.Instructions, ListInstruction{
			Gate:   NativeGate{Name: foldLower(d.Name), Params: anglesToFloats(d.Params)},
			Qubits: d.Qubits,
			Line:   d.line,
		})
	}
	return c, nil
}
