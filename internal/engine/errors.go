package engine

import (
	"errors"
	"fmt"
)

// RuntimeError reports a failure after the circuit normalized cleanly:
// the simulator call or the run log write.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Dialect is the source dialect of the circuit being run.
	Dialect string

	// Err is the underlying cause. Boundary errors are kept intact so
	// callers can still match them with errors.As.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeSimulation indicates the execution boundary failed.
	ErrCodeSimulation RuntimeErrorCode = "E301"

	// ErrCodeRecord indicates the run could not be appended to the run log.
	ErrCodeRecord RuntimeErrorCode = "E302"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Dialect != "" {
		msg += fmt.Sprintf(" (dialect=%s)", e.Dialect)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error { return e.Err }

// IsSimulationError returns true if the error is a failed simulator call.
// Uses errors.As to handle wrapped errors.
func IsSimulationError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeSimulation
	}
	return false
}

// IsRecordError returns true if the error is a failed run log write.
func IsRecordError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeRecord
	}
	return false
}

func newSimulationError(dialect string, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeSimulation,
		Message: "simulation failed",
		Dialect: dialect,
		Err:     err,
	}
}

func newRecordError(dialect string, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeRecord,
		Message: "record run failed",
		Dialect: dialect,
		Err:     err,
	}
}
