package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/qnorm/internal/ir"
)

// Normalization error codes (E200-E299). Source reading uses E203-E205.
const (
	ErrCodeUnsupportedGate     = "E201"
	ErrCodeUnsupportedModifier = "E202"
)

// UnsupportedGateError reports a native gate outside a dialect's table: an
// unknown name, an exponent outside the accepted set, or the wrong number
// of qubits or parameters.
type UnsupportedGateError struct {
	Dialect string
	Name    string
	Reason  string
}

func (e *UnsupportedGateError) Error() string {
	return fmt.Sprintf("%s: unsupported %s gate %q: %s", ErrCodeUnsupportedGate, e.Dialect, e.Name, e.Reason)
}

// Code returns the stable error code.
func (e *UnsupportedGateError) Code() string { return ErrCodeUnsupportedGate }

// UnsupportedModifierError reports a modifier that cannot be applied:
// FORKED, an unknown modifier, a second control, a controlled measurement,
// or an adjoint without canonical form.
type UnsupportedModifierError struct {
	Modifier string
	Gate     ir.GateName
	Reason   string
}

func (e *UnsupportedModifierError) Error() string {
	if e.Gate == "" {
		return fmt.Sprintf("%s: unsupported modifier %s: %s", ErrCodeUnsupportedModifier, e.Modifier, e.Reason)
	}
	return fmt.Sprintf("%s: unsupported modifier %s on %s: %s", ErrCodeUnsupportedModifier, e.Modifier, e.Gate, e.Reason)
}

// Code returns the stable error code.
func (e *UnsupportedModifierError) Code() string { return ErrCodeUnsupportedModifier }

// InstructionError locates a normalization failure in the source circuit.
// Index is the moment index (moment dialect) or instruction index (stream
// and list dialects). Line is the source line when known.
type InstructionError struct {
	Dialect string
	Index   int
	Line    int
	Err     error
}

func (e *InstructionError) Error() string {
	unit := "instruction"
	if e.Dialect == "moment" {
		unit = "moment"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s %d (line %d): %v", unit, e.Index, e.Line, e.Err)
	}
	return fmt.Sprintf("%s %d: %v", unit, e.Index, e.Err)
}

func (e *InstructionError) Unwrap() error { return e.Err }

// IsUnsupportedGate returns true if err is an UnsupportedGateError.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedGate(err error) bool {
	var e *UnsupportedGateError
	return errors.As(err, &e)
}

// IsUnsupportedModifier returns true if err is an UnsupportedModifierError.
func IsUnsupportedModifier(err error) bool {
	var e *UnsupportedModifierError
	return errors.As(err, &e)
}

// ErrorCode extracts the stable code from any coded error in err's chain,
// or returns "" when there is none.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}
