package compiler

import (
	"github.com/roach88/qnorm/internal/ir"
	"github.com/roach88/qnorm/internal/source"
)

// IndexMap assigns dense indices to moment-dialect qubits. Qubits are
// numbered in their natural order, so q(0) < q(5) < q(0, 1) < alice maps
// to 0, 1, 2, 3.
type IndexMap struct {
	index map[source.Qubit]int
}

// NewIndexMap collects every qubit the circuit references, control and
// sub-operation qubits included.
func NewIndexMap(c *source.MomentCircuit) *IndexMap {
	qubits := c.AllQubits()
	m := &IndexMap{index: make(map[source.Qubit]int, len(qubits))}
	for i, q := range qubits {
		m.index[q] = i
	}
	return m
}

// Index returns the dense index of q. Every qubit of the circuit the map
// was built from is present.
func (m *IndexMap) Index(q source.Qubit) int {
	return m.index[q]
}

// Indices resolves a qubit list in order.
func (m *IndexMap) Indices(qubits []source.Qubit) []int {
	out := make([]int, len(qubits))
	for i, q := range qubits {
		out[i] = m.index[q]
	}
	return out
}

// Len returns the number of distinct qubits.
func (m *IndexMap) Len() int {
	return len(m.index)
}

// QubitTracker tracks the highest qubit index seen across resolved gates
// for dialects whose qubits are already integers.
type QubitTracker struct {
	highest int
}

// NewQubitTracker returns a tracker that has seen no qubits.
func NewQubitTracker() *QubitTracker {
	return &QubitTracker{highest: -1}
}

// Observe records the qubits touched by g.
func (t *QubitTracker) Observe(g ir.Gate) {
	t.highest = max(t.highest, g.MaxQubit())
}

// Count returns 1 + the highest index observed, or 0 when nothing was seen.
func (t *QubitTracker) Count() int {
	return t.highest + 1
}
