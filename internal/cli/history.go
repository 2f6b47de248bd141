package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/qnorm/internal/backend"
	"github.com/roach88/qnorm/internal/queryir"
	"github.com/roach88/qnorm/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Hash     string
	Where    []string
}

// HistoryEntry is one run in the history output.
type HistoryEntry struct {
	ID         string         `json:"id"`
	Seq        int64          `json:"seq"`
	Dialect    string         `json:"dialect"`
	Hash       string         `json:"ir_hash"`
	QubitCount int            `json:"qubit_count"`
	Shots      int            `json:"shots"`
	Little     bool           `json:"little_endian,omitempty"`
	Histogram  map[string]int `json:"histogram"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded in the run log",
		Long: `List runs recorded in the run log, oldest first.

Example:
  qnorm history --db ./runs.db --limit 10
  qnorm history --db ./runs.db --hash <ir-hash>
  qnorm history --where dialect=qasm --where 'qubit_count>=3'

Filter fields: id, seq, dialect, ir_hash, qubit_count, shots,
little_endian, normalizer_version, ir_version.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (default from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the most recent N runs (0 = all)")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "show only runs of the IR with this hash")
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "filter runs by field=value, field<N, field>=N (repeatable)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	filter, err := historyFilter(opts)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	db := opts.config().Store.Path
	if cmd.Flags().Changed("db") {
		db = opts.Database
	}
	if db == "" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("no run log: pass --db or set store.path"))
	}
	// Opening would create an empty database; a missing file is a usage error.
	if _, err := os.Stat(db); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("database not found: %s", db))
	}

	st, err := store.Open(db)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, fmt.Errorf("failed to open database: %w", err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runs, err := st.FindRuns(ctx, filter, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeStore, err)
	}

	entries := make([]HistoryEntry, 0, len(runs))
	for _, r := range runs {
		entries = append(entries, HistoryEntry{
			ID:         r.ID,
			Seq:        r.Seq,
			Dialect:    r.Dialect,
			Hash:       r.IRHash,
			QubitCount: r.QubitCount,
			Shots:      r.Shots,
			Little:     r.LittleEndian,
			Histogram:  r.Histogram,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%4d  %s  %-6s  %d qubit(s)  %d shot(s)  %s\n",
			e.Seq, e.ID, e.Dialect, e.QubitCount, e.Shots, shortHash(e.Hash))
		if opts.Verbose {
			hist := backend.Histogram(e.Histogram)
			for _, key := range hist.SortedKeys() {
				fmt.Fprintf(formatter.Writer, "        %s  %d\n", key, hist[key])
			}
		}
	}
	return nil
}

// historyFilter combines --hash and --where into one predicate.
func historyFilter(opts *HistoryOptions) (queryir.Predicate, error) {
	exprs := opts.Where
	if opts.Hash != "" {
		exprs = append([]string{"ir_hash=" + opts.Hash}, exprs...)
	}
	return queryir.ParseFilters(exprs)
}

// shortHash trims a content hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
