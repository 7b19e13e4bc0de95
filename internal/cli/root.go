package cli

import (
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/neurograph/internal/config"
	"github.com/roach88/neurograph/internal/logging"
)

// RootOptions holds global flags for all commands, and the config and
// logger resolved from them before any subcommand runs.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	Config config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the neurograph CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "neurograph",
		Short: "neurograph - spiking neural network tools",
		Long: `Build, inspect, and simulate spiking neural networks.

The net and proc commands are interactive shells that read commands from
stdin; the remaining commands work on network and scenario files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a TOML config file")

	// Add subcommands
	cmd.AddCommand(NewNetCommand(opts))
	cmd.AddCommand(NewProcCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewPruneCommand(opts))
	cmd.AddCommand(NewSortCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPackCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, "invalid format "+o.Format+": must be one of text, json")
	}
	cfg, err := config.LoadOrDefault(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	level := cfg.LogLevel
	if o.Verbose && logging.ParseLevel(level) > slog.LevelDebug {
		level = "debug"
	}
	o.Config = cfg
	o.Logger = logging.NewLogger(level, cmd.ErrOrStderr())
	o.Logger.Debug("config resolved", "path", o.ConfigPath, "processor", cfg.Processor.Name, "log_level", level)
	return nil
}

// config returns the resolved config, or the defaults when a subcommand
// runs without the root (as in tests).
func (o *RootOptions) config() config.Config {
	if o.Config == (config.Config{}) {
		return config.Default()
	}
	return o.Config
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
