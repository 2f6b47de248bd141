package source

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Program is an instruction stream whose gates may carry modifier stacks.
type Program struct {
	Instructions []Instruction
}

// Instruction is one stream instruction. Modifiers are listed innermost
// first: Modifiers[0] applies directly to the base gate.
type Instruction struct {
	Gate      NativeGate
	Qubits    []int
	Modifiers []string
	Line      int
}

// instructionDoc lists modifiers the way Quil writes them, outermost
// first; they are reversed on conversion.
type instructionDoc struct {
	Name      string   `yaml:"name"`
	Qubits    []int    `yaml:"qubits"`
	Params    []Angle  `yaml:"params"`
	Modifiers []string `yaml:"modifiers"`
	line      int
}

func (d *instructionDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain instructionDoc
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = instructionDoc(p)
	d.line = node.Line
	return nil
}

func programFromDoc(docs []instructionDoc, file string) (*Program, error) {
	p := &Program{Instructions: make([]Instruction, 0, len(docs))}
	for i, d := range docs {
		if d.Name == "" {
			return nil, &ParseError{File: file, Line: d.line, Message: fmt.Sprintf("instruction %d has no name", i)}
		}
		mods := innermostFirst(d.Modifiers)
		p.Instructions = append(p.Instructions, Instruction{
			Gate:      NativeGate{Name: foldUpper(d.Name), Params: anglesToFloats(d.Params)},
			Qubits:    d.Qubits,
			Modifiers: mods,
			Line:      d.line,
		})
	}
	return p, nil
}

// innermostFirst folds modifier names and reverses them from Quil's
// outermost-first spelling.
func innermostFirst(written []string) []string {
	if len(written) == 0 {
		return nil
	}
	mods := make([]string, len(written))
	for i, m := range written {
		mods[len(written)-1-i] = foldUpper(m)
	}
	return mods
}
