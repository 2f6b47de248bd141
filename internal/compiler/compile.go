package compiler

import (
	"fmt"
	"log/slog"

	"github.com/roach88/qnorm/internal/ir"
	"github.com/roach88/qnorm/internal/source"
)

// Compile normalizes a detected source circuit into canonical IR.
//
// An empty circuit compiles to an IR with no steps and qubit count 0. On
// failure no IR is returned; the error carries the failing instruction's
// position and a stable code (see ErrorCode).
func Compile(c source.Circuit) (*ir.Circuit, error) {
	var (
		circuit *ir.Circuit
		err     error
	)
	switch {
	case c.Dialect == source.DialectNone || c.Empty():
		circuit = ir.NewCircuit(nil)
	case c.Dialect == source.DialectMoment:
		circuit, err = assembleMoments(c.Moment)
	case c.Dialect == source.DialectStream:
		circuit, err = assembleStream(c.Stream)
	case c.Dialect == source.DialectList:
		circuit, err = assembleList(c.List)
	default:
		return nil, fmt.Errorf("unknown dialect %s", c.Dialect)
	}
	if err != nil {
		return nil, err
	}

	if errs := ir.Validate(circuit); len(errs) > 0 {
		return nil, fmt.Errorf("normalized circuit is invalid: %w", errs[0])
	}

	slog.Debug("compiled circuit",
		"dialect", c.Dialect.String(),
		"steps", len(circuit.Steps),
		"qubits", circuit.QubitCount)
	return circuit, nil
}

// CompileFile loads a circuit file and compiles it.
func CompileFile(path string) (*ir.Circuit, source.Dialect, error) {
	return CompileFileAs(path, source.DialectNone)
}

// CompileFileAs compiles a circuit file read in the given dialect.
func CompileFileAs(path string, want source.Dialect) (*ir.Circuit, source.Dialect, error) {
	c, err := source.LoadFileAs(path, want)
	if err != nil {
		return nil, source.DialectNone, err
	}
	circuit, err := Compile(c)
	if err != nil {
		return nil, c.Dialect, fmt.Errorf("%s: %w", path, err)
	}
	return circuit, c.Dialect, nil
}
