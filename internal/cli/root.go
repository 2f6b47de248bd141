package cli

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/qnorm/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is loaded in PersistentPreRunE from ConfigPath, or defaults
	// when no path is given. Tests may set it directly.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the qnorm CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qnorm",
		Short: "qnorm - quantum circuit normalizer",
		Long: `Normalize quantum circuits from several source dialects into one canonical IR.

Moment-style documents, instruction streams with modifiers (including Quil
text) and flat instruction lists (including OpenQASM 2) are all reduced to
the same step list of canonical gates, which can then be sent to a
simulator backend.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints errors the commands did not report
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return opts.loadConfig()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDrawCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// loadConfig fills opts.Config unless a caller already did.
func (opts *RootOptions) loadConfig() error {
	if opts.Config != nil {
		return nil
	}
	if opts.ConfigPath == "" {
		cfg := config.Default()
		opts.Config = &cfg
		return nil
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	slog.Debug("loaded config", "path", opts.ConfigPath, "backend", cfg.Backend.Kind)
	opts.Config = &cfg
	return nil
}

// config returns the loaded configuration, falling back to defaults for
// commands constructed without the root command.
func (opts *RootOptions) config() config.Config {
	if opts.Config == nil {
		return config.Default()
	}
	return *opts.Config
}

// configureLogging installs a text handler on stderr. Verbose lowers the
// level to debug so every compiled circuit is logged.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
