package compiler

import (
	"github.com/roach88/qnorm/internal/ir"
	"github.com/roach88/qnorm/internal/source"
)

// assembleMoments emits one step per non-empty moment, gates in operation
// order. The qubit count is the number of distinct qubits referenced.
func assembleMoments(c *source.MomentCircuit) (*ir.Circuit, error) {
	qmap := NewIndexMap(c)
	steps := make([]ir.Step, 0, len(c.Moments))
	for i, m := range c.Moments {
		var gates []ir.Gate
		for _, op := range m.Operations {
			gs, err := momentOperation(op, qmap)
			if err != nil {
				return nil, &InstructionError{Dialect: source.DialectMoment.String(), Index: i, Err: err}
			}
			gates = append(gates, gs...)
		}
		if len(gates) == 0 {
			continue
		}
		steps = append(steps, ir.Step{Index: len(steps), Gates: gates})
	}
	return &ir.Circuit{Steps: steps, QubitCount: qmap.Len()}, nil
}

// momentOperation translates one operation. Controlled operations are
// unwrapped down to their gate, and every control level becomes a
// CONTROLLED modifier, innermost level first. A measurement over several
// qubits yields one measure-z per qubit.
func momentOperation(op source.Operation, qmap *IndexMap) ([]ir.Gate, error) {
	var levels [][]source.Qubit
	inner := op
	for inner.IsControlled() {
		levels = append(levels, inner.Controls)
		inner = *inner.Sub
	}

	var mods []Modifier
	for i := len(levels) - 1; i >= 0; i-- {
		for _, q := range levels[i] {
			mods = append(mods, Controlled(qmap.Index(q)))
		}
	}
	stack := NewModifierStack(mods...)

	qubits := qmap.Indices(inner.Qubits)
	groups := [][]int{qubits}
	if inner.Gate.Name == source.GateMeasurement && len(qubits) > 1 {
		groups = groups[:0]
		for _, q := range qubits {
			groups = append(groups, []int{q})
		}
	}

	gates := make([]ir.Gate, 0, len(groups))
	for _, group := range groups {
		g, err := Translate(source.DialectMoment, inner.Gate, group)
		if err != nil {
			return nil, err
		}
		if g, err = Resolve(g, stack); err != nil {
			return nil, err
		}
		gates = append(gates, g)
	}
	return gates, nil
}

// assembleStream emits one singleton step per gate instruction. Directives
// and instructions without qubits consume no index.
func assembleStream(p *source.Program) (*ir.Circuit, error) {
	tracker := NewQubitTracker()
	steps := []ir.Step{}
	for i, inst := range p.Instructions {
		if IsNoOp(source.DialectStream, inst.Gate.Name) || len(inst.Qubits) == 0 {
			continue
		}
		g, err := streamInstruction(inst)
		if err != nil {
			return nil, &InstructionError{Dialect: source.DialectStream.String(), Index: i, Line: inst.Line, Err: err}
		}
		tracker.Observe(g)
		steps = append(steps, ir.Step{Index: len(steps), Gates: []ir.Gate{g}})
	}
	return &ir.Circuit{Steps: steps, QubitCount: tracker.Count()}, nil
}

// streamInstruction translates the base gate and reduces its modifiers.
// Each CONTROLLED modifier consumes one leading qubit, outermost first, so
// the innermost CONTROLLED binds the qubit just before the gate's own.
func streamInstruction(inst source.Instruction) (ir.Gate, error) {
	mods := make([]Modifier, len(inst.Modifiers))
	controls := 0
	for i, name := range inst.Modifiers {
		mods[i] = ParseModifier(name)
		switch mods[i].Kind {
		case ModifierControlled:
			controls++
		case ModifierForked, ModifierUnknown:
			// rejected before the base gate is translated
			_, err := apply(ir.Gate{}, mods[i])
			return ir.Gate{}, err
		}
	}
	if controls > len(inst.Qubits) {
		return ir.Gate{}, &UnsupportedModifierError{Modifier: "CONTROLLED", Reason: "not enough qubits for the controls"}
	}

	next := controls - 1
	for i := range mods {
		if mods[i].Kind == ModifierControlled {
			mods[i].Control = inst.Qubits[next]
			next--
		}
	}

	g, err := Translate(source.DialectStream, inst.Gate, inst.Qubits[controls:])
	if err != nil {
		return ir.Gate{}, err
	}
	return Resolve(g, NewModifierStack(mods...))
}

// assembleList emits one singleton step per gate instruction, skipping
// barriers and instructions without qubits.
func assembleList(c *source.ListCircuit) (*ir.Circuit, error) {
	tracker := NewQubitTracker()
	steps := []ir.Step{}
	for i, inst := range c.Instructions {
		if IsNoOp(source.DialectList, inst.Gate.Name) || len(inst.Qubits) == 0 {
			continue
		}
		g, err := Translate(source.DialectList, inst.Gate, inst.Qubits)
		if err != nil {
			return nil, &InstructionError{Dialect: source.DialectList.String(), Index: i, Line: inst.Line, Err: err}
		}
		tracker.Observe(g)
		steps = append(steps, ir.Step{Index: len(steps), Gates: []ir.Gate{g}})
	}
	return &ir.Circuit{Steps: steps, QubitCount: tracker.Count()}, nil
}
