package source

import (
	"errors"
	"fmt"
)

// Error codes for source reading (E203-E209).
const (
	ErrCodeSourceDetection  = "E203"
	ErrCodeMultipleCircuits = "E204"
	ErrCodeParse            = "E205"
)

// SourceDetectionError reports a document matching none of the recognized
// circuit shapes.
type SourceDetectionError struct {
	// Keys lists the top-level keys that were found, for diagnostics.
	Keys []string
	// Want is the dialect the caller asked for, or DialectNone.
	Want Dialect
}

func (e *SourceDetectionError) Error() string {
	if e.Want != DialectNone {
		return fmt.Sprintf("%s: circuit is not in the %s dialect (found keys %v)", ErrCodeSourceDetection, e.Want, e.Keys)
	}
	if len(e.Keys) == 0 {
		return fmt.Sprintf("%s: could not detect circuit source", ErrCodeSourceDetection)
	}
	return fmt.Sprintf("%s: could not detect circuit source (found keys %v; want moments, instructions, data or experiments)",
		ErrCodeSourceDetection, e.Keys)
}

// Code returns the stable error code.
func (e *SourceDetectionError) Code() string { return ErrCodeSourceDetection }

// MultipleCircuitsError reports a batch holding more than one circuit.
// Only one circuit is normalized per call.
type MultipleCircuitsError struct {
	Count int
}

func (e *MultipleCircuitsError) Error() string {
	return fmt.Sprintf("%s: multiple circuits are not supported (got %d)", ErrCodeMultipleCircuits, e.Count)
}

// Code returns the stable error code.
func (e *MultipleCircuitsError) Code() string { return ErrCodeMultipleCircuits }

// ParseError reports malformed circuit text or document content.
type ParseError struct {
	File    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if loc == "" {
		return fmt.Sprintf("%s: %s", ErrCodeParse, msg)
	}
	return fmt.Sprintf("%s: %s: %s", ErrCodeParse, loc, msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Code returns the stable error code.
func (e *ParseError) Code() string { return ErrCodeParse }

// IsSourceDetectionError returns true if err is a SourceDetectionError.
// Uses errors.As to handle wrapped errors.
func IsSourceDetectionError(err error) bool {
	var e *SourceDetectionError
	return errors.As(err, &e)
}

// IsMultipleCircuitsError returns true if err is a MultipleCircuitsError.
func IsMultipleCircuitsError(err error) bool {
	var e *MultipleCircuitsError
	return errors.As(err, &e)
}
