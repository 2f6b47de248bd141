package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/qnorm/internal/backend"
	"github.com/roach88/qnorm/internal/engine"
	"github.com/roach88/qnorm/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Shots        int
	LittleEndian bool
	Database     string

	// Simulator overrides the configured backend (for testing).
	// If nil, the backend is built from the config file.
	Simulator backend.Simulator

	// RunIDs overrides the run identifier generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// RunResult is the JSON payload of a successful run.
type RunResult struct {
	RunID      string         `json:"run_id,omitempty"`
	Dialect    string         `json:"dialect"`
	QubitCount int            `json:"qubit_count"`
	Shots      int            `json:"shots"`
	Hash       string         `json:"hash"`
	Histogram  map[string]int `json:"histogram"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

// newRunCommand builds the run command around opts, so tests can inject a
// simulator and run IDs.
func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <circuit>",
		Short: "Normalize a circuit and execute it on the backend",
		Long: `Normalize a circuit and send the IR to the configured simulator backend.

The measurement histogram is printed with keys in ascending order. When a
database is given, every successful simulation is appended to the run log.

Example:
  qnorm run --shots 2000 ./bell.yaml
  qnorm run --config qnorm.yaml --db ./runs.db --little-endian ./ghz.quil`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCircuit(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Shots, "shots", 0, "number of samples (default from config)")
	cmd.Flags().BoolVar(&opts.LittleEndian, "little-endian", false, "reverse histogram keys so qubit 0 is the rightmost bit")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (default from config)")

	return cmd
}

// resolve merges the config file with flags. Flags win when set.
func (opts *RunOptions) resolve(cmd *cobra.Command) (shots int, littleEndian bool, db string) {
	cfg := opts.config()
	shots, littleEndian, db = cfg.Shots, cfg.LittleEndian, cfg.Store.Path

	flags := cmd.Flags()
	if flags.Changed("shots") {
		shots = opts.Shots
	}
	if flags.Changed("little-endian") {
		littleEndian = opts.LittleEndian
	}
	if flags.Changed("db") {
		db = opts.Database
	}
	return shots, littleEndian, db
}

func runCircuit(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	shots, littleEndian, db := opts.resolve(cmd)
	if shots <= 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("shots must be positive, got %d", shots))
	}

	sim := opts.Simulator
	if sim == nil {
		built, err := backend.New(opts.config().Backend)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeBackend, err)
		}
		sim = built
	}

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	engineOpts := []engine.EngineOption{engine.WithRunIDs(runIDs)}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	if db != "" {
		slog.Debug("opening run log", "path", db)
		st, err := store.Open(db)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Errorf("failed to open database: %w", err))
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()

		seq, err := st.MaxSeq(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, err)
		}
		engineOpts = append(engineOpts, engine.WithStore(st), engine.WithClock(engine.NewClockAt(seq)))
	}

	eng := engine.New(sim, engineOpts...)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, cancelling run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := eng.RunFile(ctx, path, engine.RunOptions{
		Shots:        shots,
		LittleEndian: littleEndian,
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		return formatter.Fail(ExitFailure, errorCode(err), err)
	}

	return outputRunSuccess(formatter, RunResult{
		RunID:      result.RunID,
		Dialect:    result.Dialect.String(),
		QubitCount: result.Circuit.QubitCount,
		Shots:      shots,
		Hash:       result.Hash,
		Histogram:  result.Histogram,
	})
}

// outputRunSuccess prints the histogram, one outcome per line.
func outputRunSuccess(formatter *OutputFormatter, result RunResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	hist := backend.Histogram(result.Histogram)
	if len(hist) == 0 {
		fmt.Fprintf(formatter.Writer, "✓ Empty circuit (%s): nothing to simulate\n", result.Dialect)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ %d shot(s) on %d qubit(s) (%s)\n", hist.Total(), result.QubitCount, result.Dialect)
	if result.RunID != "" {
		fmt.Fprintf(formatter.Writer, "  run: %s\n", result.RunID)
	}
	fmt.Fprintln(formatter.Writer)
	for _, key := range hist.SortedKeys() {
		fmt.Fprintf(formatter.Writer, "  %s  %d\n", key, hist[key])
	}
	return nil
}
