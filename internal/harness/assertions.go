package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/qnorm/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the flattened gate list to help debug the failure.
type AssertionError struct {
	Type     string    // Assertion type for categorization
	Expected string    // Human-readable expected outcome
	Actual   string    // Human-readable actual outcome
	Gates    []ir.Gate // All gates in step order
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nGates:\n")
	for i, g := range e.Gates {
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, g)
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion against the circuit and returns
// one message per failure.
func EvaluateAssertions(c *ir.Circuit, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(c, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(c *ir.Circuit, a Assertion) error {
	switch a.Type {
	case AssertStepCount:
		return assertStepCount(c, a)
	case AssertGateCount:
		return assertGateCount(c, a)
	case AssertContainsGate:
		return assertContainsGate(c, a)
	case AssertNoGate:
		return assertNoGate(c, a)
	case AssertGateOrder:
		return assertGateOrder(c, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertStepCount(c *ir.Circuit, a Assertion) error {
	if len(c.Steps) != a.Count {
		return &AssertionError{
			Type:     AssertStepCount,
			Expected: fmt.Sprintf("%d steps", a.Count),
			Actual:   fmt.Sprintf("%d steps", len(c.Steps)),
			Gates:    c.Gates(),
		}
	}
	return nil
}

func assertGateCount(c *ir.Circuit, a Assertion) error {
	if n := c.GateCount(); n != a.Count {
		return &AssertionError{
			Type:     AssertGateCount,
			Expected: fmt.Sprintf("%d gates", a.Count),
			Actual:   fmt.Sprintf("%d gates", n),
			Gates:    c.Gates(),
		}
	}
	return nil
}

// assertContainsGate checks that some gate matches every field the
// assertion sets.
func assertContainsGate(c *ir.Circuit, a Assertion) error {
	gates := c.Gates()
	for _, g := range gates {
		if a.Gate.Matches(g) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertContainsGate,
		Expected: fmt.Sprintf("gate matching %s", a.Gate),
		Actual:   "not found",
		Gates:    gates,
	}
}

func assertNoGate(c *ir.Circuit, a Assertion) error {
	gates := c.Gates()
	for i, g := range gates {
		if string(g.Name) == a.Name {
			return &AssertionError{
				Type:     AssertNoGate,
				Expected: fmt.Sprintf("no %s gate", a.Name),
				Actual:   fmt.Sprintf("found at position %d", i+1),
				Gates:    gates,
			}
		}
	}
	return nil
}

// assertGateOrder checks that the first occurrence of each named gate comes
// after the first occurrence of the previous one. Other gates may appear in
// between.
func assertGateOrder(c *ir.Circuit, a Assertion) error {
	gates := c.Gates()
	positions := make(map[string]int)
	for i, g := range gates {
		if _, seen := positions[string(g.Name)]; !seen {
			positions[string(g.Name)] = i + 1
		}
	}

	for _, name := range a.Gates {
		if positions[name] == 0 {
			return &AssertionError{
				Type:     AssertGateOrder,
				Expected: fmt.Sprintf("all gates present: %v", a.Gates),
				Actual:   fmt.Sprintf("missing gate: %s", name),
				Gates:    gates,
			}
		}
	}

	for i := 1; i < len(a.Gates); i++ {
		prev, curr := a.Gates[i-1], a.Gates[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertGateOrder,
				Expected: fmt.Sprintf("gates in order: %v", a.Gates),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Gates: gates,
			}
		}
	}
	return nil
}

// Matches reports whether g agrees with every field m sets.
func (m *GateMatch) Matches(g ir.Gate) bool {
	if m.Name != "" && string(g.Name) != m.Name {
		return false
	}
	if m.Target != nil && *m.Target != g.Target {
		return false
	}
	if m.Control != nil && !intPtrEqual(m.Control, g.Control) {
		return false
	}
	if m.Target2 != nil && !intPtrEqual(m.Target2, g.Target2) {
		return false
	}
	if m.Phi != nil && !floatPtrClose(m.Phi, g.Phi) {
		return false
	}
	if m.Theta != nil && !floatPtrClose(m.Theta, g.Theta) {
		return false
	}
	if m.Lambda != nil && !floatPtrClose(m.Lambda, g.Lambda) {
		return false
	}
	return true
}

// String renders the fields m sets, e.g. "{name=rx-phi target=3}".
func (m *GateMatch) String() string {
	var parts []string
	if m.Name != "" {
		parts = append(parts, "name="+m.Name)
	}
	if m.Target != nil {
		parts = append(parts, fmt.Sprintf("target=%d", *m.Target))
	}
	if m.Control != nil {
		parts = append(parts, fmt.Sprintf("control=%d", *m.Control))
	}
	if m.Target2 != nil {
		parts = append(parts, fmt.Sprintf("target2=%d", *m.Target2))
	}
	if m.Phi != nil {
		parts = append(parts, fmt.Sprintf("phi=%g", *m.Phi))
	}
	if m.Theta != nil {
		parts = append(parts, fmt.Sprintf("theta=%g", *m.Theta))
	}
	if m.Lambda != nil {
		parts = append(parts, fmt.Sprintf("lambda=%g", *m.Lambda))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
