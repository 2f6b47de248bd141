package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qnorm/internal/compiler"
	"github.com/roach88/qnorm/internal/ir"
	"github.com/roach88/qnorm/internal/source"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output  string // output file path
	Dialect string // dialect override; empty detects
}

// CompilationResult is the JSON payload of a successful compile.
type CompilationResult struct {
	File       string          `json:"file"`
	Dialect    string          `json:"dialect"`
	QubitCount int             `json:"qubit_count"`
	Steps      int             `json:"steps"`
	Gates      int             `json:"gates"`
	Hash       string          `json:"hash"`
	IR         json.RawMessage `json:"ir"`
	Output     string          `json:"output,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <circuit>",
		Short: "Normalize a circuit to canonical IR",
		Long: `Normalize a circuit document to the canonical IR.

The dialect is chosen by file extension (.quil, .qasm) or detected from the
document's top-level keys (moments, instructions, data, experiments). Pass
--dialect to read a document with one dialect's reader instead. The
serialized IR is printed to stdout, or written to the --output file.

` + nativeGateHelp(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "read the circuit as moment, stream or list (default: detect)")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	want, err := source.ParseDialect(opts.Dialect)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	circuit, dialect, err := compiler.CompileFileAs(path, want)
	if err != nil {
		return failCompile(formatter, err)
	}
	formatter.VerboseLog("Detected %s dialect in %s", dialect, path)

	data, err := circuit.Marshal()
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err)
	}
	hash, err := ir.Hash(circuit)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(data, '\n'), 0644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Errorf("writing output file: %w", err))
		}
	}

	result := CompilationResult{
		File:       path,
		Dialect:    dialect.String(),
		QubitCount: circuit.QubitCount,
		Steps:      len(circuit.Steps),
		Gates:      circuit.GateCount(),
		Hash:       hash,
		IR:         data,
		Output:     opts.Output,
	}
	return outputCompileSuccess(formatter, result)
}

// failCompile reports a load or normalization failure. A circuit the
// normalizer rejects exits 1; a path that cannot be read exits 2.
func failCompile(formatter *OutputFormatter, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
	}
	return formatter.Fail(ExitFailure, errorCode(err), err)
}

// nativeGateHelp lists the accepted native gate names per dialect.
func nativeGateHelp() string {
	var b strings.Builder
	b.WriteString("Native gates:\n")
	for _, d := range []source.Dialect{source.DialectMoment, source.DialectStream, source.DialectList} {
		fmt.Fprintf(&b, "  %-7s %s\n", d.String()+":", strings.Join(compiler.SupportedNatives(d), " "))
	}
	return b.String()
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result CompilationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Output == "" {
		fmt.Fprintln(formatter.Writer, string(result.IR))
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %s (%s): %d step(s), %d gate(s), %d qubit(s)\n",
		result.File, result.Dialect, result.Steps, result.Gates, result.QubitCount)
	fmt.Fprintf(formatter.Writer, "  hash: %s\n", result.Hash)
	fmt.Fprintf(formatter.Writer, "Wrote canonical IR to %s\n", result.Output)
	return nil
}
