package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/qnorm/internal/compiler"
	"github.com/roach88/qnorm/internal/diagram"
	"github.com/roach88/qnorm/internal/source"
)

// DrawOptions holds flags for the draw command.
type DrawOptions struct {
	*RootOptions
	Plain   bool
	Dialect string
}

// DrawResult is the JSON payload of the draw command.
type DrawResult struct {
	Dialect string `json:"dialect"`
	Diagram string `json:"diagram"`
}

// NewDrawCommand creates the draw command.
func NewDrawCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrawOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "draw <circuit>",
		Short:         "Render the normalized circuit as a wire diagram",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDraw(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "disable colors and border")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "read the circuit as moment, stream or list (default: detect)")

	return cmd
}

func runDraw(opts *DrawOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	want, err := source.ParseDialect(opts.Dialect)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	circuit, dialect, err := compiler.CompileFileAs(path, want)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		return formatter.Fail(ExitFailure, errorCode(err), err)
	}

	if formatter.Format == "json" {
		return formatter.Success(DrawResult{
			Dialect: dialect.String(),
			Diagram: diagram.Render(circuit, diagram.Options{Plain: true}),
		})
	}

	title := fmt.Sprintf("%s (%s)", filepath.Base(path), dialect)
	fmt.Fprintln(formatter.Writer, diagram.Render(circuit, diagram.Options{
		Title: title,
		Plain: opts.Plain,
	}))
	return nil
}
