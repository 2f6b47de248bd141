package ir

import (
	"fmt"
	"math"
)

// Validation error codes (E100-E199)
const (
	ErrUnknownGateName    = "E101" // name is not canonical
	ErrControlMismatch    = "E102" // ctrl- prefix without control, or control without prefix
	ErrControlledMeasure  = "E103" // measure-z with a control qubit
	ErrTarget2Mismatch    = "E104" // target2 on a non-swap gate, or swap without target2
	ErrDuplicateQubit     = "E105" // control/target/target2 overlap
	ErrMissingParam       = "E106" // required angle absent
	ErrNonFiniteParam     = "E107" // NaN or Inf angle
	ErrNegativeQubit      = "E108" // qubit index below zero
	ErrStepIndexGap       = "E110" // step indices not 0..K-1
	ErrEmptyStep          = "E111" // step without gates
	ErrQubitCountMismatch = "E112" // qubit_count differs from 1 + max index
)

// ValidationError represents an invariant violation in an IR document.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateGate checks a single gate against the canonical invariants.
// Returns all errors found (does not fail-fast).
func ValidateGate(g Gate, field string) []ValidationError {
	var errs []ValidationError
	add := func(code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if g.Name.Base() == MeasureZ && g.Control != nil {
		add(ErrControlledMeasure, "measure-z cannot be controlled")
	} else if !g.Name.Known() {
		add(ErrUnknownGateName, "unknown gate name %q", g.Name)
	}

	switch {
	case g.Name.IsControlled() && g.Control == nil:
		add(ErrControlMismatch, "%s requires a control qubit", g.Name)
	case !g.Name.IsControlled() && g.Control != nil && g.Name.Base() != MeasureZ:
		add(ErrControlMismatch, "%s must not carry a control qubit", g.Name)
	}

	switch {
	case g.Name.IsSwap() && g.Target2 == nil:
		add(ErrTarget2Mismatch, "%s requires target2", g.Name)
	case !g.Name.IsSwap() && g.Target2 != nil:
		add(ErrTarget2Mismatch, "%s must not carry target2", g.Name)
	}

	seen := make(map[int]bool, 3)
	for _, q := range g.Qubits() {
		if q < 0 {
			add(ErrNegativeQubit, "qubit index %d is negative", q)
		}
		if seen[q] {
			add(ErrDuplicateQubit, "qubit %d referenced twice", q)
		}
		seen[q] = true
	}

	for _, p := range g.Name.RequiredParams() {
		if _, ok := g.Param(p); !ok {
			add(ErrMissingParam, "%s requires %s", g.Name, p)
		}
	}
	for _, p := range []Param{ParamPhi, ParamTheta, ParamLambda} {
		if v, ok := g.Param(p); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
			add(ErrNonFiniteParam, "%s is not finite", p)
		}
	}

	return errs
}

// Validate checks every gate plus the step and qubit-count invariants.
func Validate(c *Circuit) []ValidationError {
	var errs []ValidationError
	for i, s := range c.Steps {
		if s.Index != i {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("steps[%d].index", i),
				Message: fmt.Sprintf("expected index %d, got %d", i, s.Index),
				Code:    ErrStepIndexGap,
			})
		}
		if len(s.Gates) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("steps[%d].gates", i),
				Message: "step has no gates",
				Code:    ErrEmptyStep,
			})
		}
		for j, g := range s.Gates {
			errs = append(errs, ValidateGate(g, fmt.Sprintf("steps[%d].gates[%d]", i, j))...)
		}
	}
	if want := c.MaxQubit() + 1; c.QubitCount != want {
		errs = append(errs, ValidationError{
			Field:   "qubit_count",
			Message: fmt.Sprintf("expected %d, got %d", want, c.QubitCount),
			Code:    ErrQubitCountMismatch,
		})
	}
	return errs
}
