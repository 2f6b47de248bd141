package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/qnorm/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                 `json:"valid"`
	QubitCount int                  `json:"qubit_count,omitempty"`
	Steps      int                  `json:"steps,omitempty"`
	Errors     []ir.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <ir.json>",
		Short: "Check a serialized IR against the canonical invariants",
		Long: `Parse a serialized IR document and check every gate against the
canonical gate invariants (known names, required parameters, distinct
qubits) and the step invariants (contiguous indices, no empty steps).

Use "-" to read the document from stdin.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	data, err := readIR(path, cmd.InOrStdin())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	circuit, err := ir.Parse(data)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidIR, err)
	}
	formatter.VerboseLog("Parsed %d step(s) from %s", len(circuit.Steps), path)

	if errs := ir.Validate(circuit); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}
	return outputValidateSuccess(formatter, circuit)
}

// readIR reads path, or r when path is "-".
func readIR(path string, r io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(r)
	}
	return os.ReadFile(path)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, c *ir.Circuit) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:      true,
			QubitCount: c.QubitCount,
			Steps:      len(c.Steps),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ IR valid: %d step(s), %d qubit(s)\n", len(c.Steps), c.QubitCount)
	return nil
}

// outputValidationErrors outputs every invariant violation.
func outputValidationErrors(formatter *OutputFormatter, errs []ir.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
