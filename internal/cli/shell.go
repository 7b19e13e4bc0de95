package cli

import (
	"cmp"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/neurograph/internal/driver"
	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/shell"
	"github.com/roach88/neurograph/internal/store"
)

// NetOptions holds flags for the net command.
type NetOptions struct {
	*RootOptions
	Seed uint64
}

// NewNetCommand creates the interactive network editor command.
func NewNetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "net [prompt]",
		Short: "Interactive network editor",
		Long: `Read network editing commands from stdin until Q or end of input.

Type ? for the command list. Lines starting with # are ignored, so a
command file can be piped in.

Examples:
  neurograph net "net> "
  neurograph net --seed 7 < build.txt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNet(opts, args, cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 uses the config seed, or the clock)")

	return cmd
}

func runNet(opts *NetOptions, args []string, cmd *cobra.Command) error {
	cfg := opts.config()
	shellOpts := []shell.Option{
		shell.WithPrompt(prompt(args, cfg.Prompt)),
		shell.WithLogger(opts.logger()),
	}
	if seed := cmp.Or(opts.Seed, cfg.Seed); seed != 0 {
		shellOpts = append(shellOpts, shell.WithSeed(seed))
	}
	tool := shell.NewNetTool(cmd.InOrStdin(), cmd.OutOrStdout(), shellOpts...)
	return tool.Run(cmd.Context())
}

// ProcOptions holds flags for the proc command.
type ProcOptions struct {
	*RootOptions
	Make     bool
	Record   bool
	Database string
}

// NewProcCommand creates the interactive processor driver command.
func NewProcCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProcOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "proc [prompt]",
		Short: "Interactive processor driver",
		Long: `Make a processor, load networks on it, apply spikes, run, and read
telemetry, with commands read from stdin until Q or end of input.

With --record every processor made in the session writes its operations
to the session database, where "neurograph replay" can check them.

Examples:
  neurograph proc "proc> "
  neurograph proc --make < run.txt
  neurograph proc --record --db ./sessions.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProc(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Make, "make", false, "make the configured processor before reading commands")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record sessions to the database")
	cmd.Flags().StringVar(&opts.Database, "db", "", "session database (default from config)")

	return cmd
}

func runProc(opts *ProcOptions, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := opts.config()
	logger := opts.logger()

	shellOpts := []shell.Option{
		shell.WithPrompt(prompt(args, cfg.Prompt)),
		shell.WithLogger(logger),
	}

	if opts.Record || cfg.Session.Record {
		path := cmp.Or(opts.Database, cfg.Session.Database)
		st, err := store.Open(path)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		shellOpts = append(shellOpts, shell.WithRecorderFactory(func(ctx context.Context, proc processor.Processor) (driver.Recorder, error) {
			rec, err := driver.NewStoreRecorder(ctx, st, driver.UUIDv7Generator{}, proc.Name(), proc.Params())
			if err != nil {
				return nil, err
			}
			logger.Info("recording session", "session", rec.Session().ID, "processor", proc.Name(), "db", path)
			return rec, nil
		}))
	}

	tool := shell.NewProcTool(cmd.InOrStdin(), cmd.OutOrStdout(), shellOpts...)
	if opts.Make {
		params, err := cfg.ProcessorParams()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read processor params", err)
		}
		if err := tool.Make(ctx, cfg.Processor.Name, params); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to make processor %s", cfg.Processor.Name), err)
		}
	}
	return tool.Run(ctx)
}

// prompt prefers the positional prompt over the configured one.
func prompt(args []string, configured string) string {
	if len(args) > 0 {
		return args[0]
	}
	return configured
}
