package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Step is a group of gates that execute simultaneously.
type Step struct {
	Index int    `json:"index"`
	Gates []Gate `json:"gates"`
}

// Circuit is the canonical IR handed to the execution boundary.
// QubitCount is metadata passed next to the serialized form; it is not part
// of the wire document.
type Circuit struct {
	Steps      []Step `json:"steps"`
	QubitCount int    `json:"-"`
}

// NewCircuit builds a circuit from steps. The qubit count is derived from
// the highest qubit referenced by any gate.
func NewCircuit(steps []Step) *Circuit {
	if steps == nil {
		steps = []Step{}
	}
	c := &Circuit{Steps: steps}
	c.QubitCount = c.MaxQubit() + 1
	return c
}

// Empty reports whether the circuit has no steps.
func (c *Circuit) Empty() bool {
	return c == nil || len(c.Steps) == 0
}

// GateCount returns the number of gates across all steps.
func (c *Circuit) GateCount() int {
	n := 0
	for _, s := range c.Steps {
		n += len(s.Gates)
	}
	return n
}

// MaxQubit returns the highest qubit index referenced, or -1 when no gate
// references any qubit.
func (c *Circuit) MaxQubit() int {
	maxQubit := -1
	for _, s := range c.Steps {
		for _, g := range s.Gates {
			maxQubit = max(maxQubit, g.MaxQubit())
		}
	}
	return maxQubit
}

// Gates returns every gate in step order.
func (c *Circuit) Gates() []Gate {
	gates := make([]Gate, 0, c.GateCount())
	for _, s := range c.Steps {
		gates = append(gates, s.Gates...)
	}
	return gates
}

// Marshal serializes the circuit to the wire document consumed by the
// execution engine: {"steps":[{"index":0,"gates":[...]}]}.
func (c *Circuit) Marshal() ([]byte, error) {
	// Copy so that nil gate lists can be encoded as [] without writing
	// through to the caller's steps.
	steps := make([]Step, len(c.Steps))
	copy(steps, c.Steps)
	for i := range steps {
		if steps[i].Gates == nil {
			steps[i].Gates = []Gate{}
		}
	}
	doc := struct {
		Steps []Step `json:"steps"`
	}{Steps: steps}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal circuit: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Parse decodes a serialized circuit. Unknown fields are rejected so that a
// document the engine would misread never parses cleanly.
func Parse(data []byte) (*Circuit, error) {
	var doc struct {
		Steps []Step `json:"steps"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse circuit: %w", err)
	}
	return NewCircuit(doc.Steps), nil
}
