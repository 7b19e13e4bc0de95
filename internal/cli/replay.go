package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/neurograph/internal/driver"
	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/processor/builtin"
	"github.com/roach88/neurograph/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	SessionID string // optional - specific session only
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	SessionID     string            `json:"session_id"`
	Processor     string            `json:"processor"`
	Events        int               `json:"events"`
	Snapshots     int               `json:"snapshots"`
	Deterministic bool              `json:"deterministic"`
	Mismatches    []driver.Mismatch `json:"mismatches,omitempty"`
	Error         string            `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded sessions and verify determinism",
		Long: `Replay recorded processor sessions and verify determinism.

Each session is re-executed against a fresh processor built from the
recorded name and parameters. At every recorded snapshot the replay takes
its own and compares fingerprints.

Exit codes:
  0 - All sessions are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  neurograph replay --db ./sessions.db
  neurograph replay --db ./sessions.db --session 0190...
  neurograph replay --db ./sessions.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var sessions []ir.Session
	if opts.SessionID != "" {
		sess, err := st.ReadSession(ctx, opts.SessionID)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read session %s", opts.SessionID), err)
		}
		sessions = []ir.Session{sess}
	} else {
		sessions, err = st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(sessions)),
		TotalSessions:    len(sessions),
		AllDeterministic: true,
	}
	if len(sessions) == 0 {
		if opts.Format == "json" {
			return outputReplayJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No sessions found in database.")
		return nil
	}

	reg := builtin.Registry()
	logger := opts.logger()
	for _, sess := range sessions {
		r := ReplaySessionResult{SessionID: sess.ID, Processor: sess.Processor}
		res, err := driver.ReplaySession(ctx, st, reg, sess.ID, driver.WithLogger(logger))
		if res != nil {
			r.Events = res.Events
			r.Snapshots = res.Snapshots
			r.Mismatches = res.Mismatches
			r.Deterministic = res.Deterministic()
		}
		if err != nil {
			// A session that cannot be re-executed is not verified.
			r.Deterministic = false
			r.Error = err.Error()
		}
		logger.Debug("session replayed", "session", sess.ID, "events", r.Events, "deterministic", r.Deterministic)
		if !r.Deterministic {
			result.AllDeterministic = false
		}
		result.Sessions = append(result.Sessions, r)
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDeterminism,
			Message: "determinism verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, sess := range result.Sessions {
		status := "✓"
		if !sess.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Session: %s (%s)\n", status, sess.SessionID, sess.Processor)
		fmt.Fprintf(w, "  Events: %d, snapshots: %d\n", sess.Events, sess.Snapshots)
		if sess.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", sess.Error)
		}
		for _, m := range sess.Mismatches {
			if verbose {
				fmt.Fprintf(w, "  Snapshot %d: want %s, got %s\n", m.Seq, m.Want, m.Got)
			} else {
				fmt.Fprintf(w, "  Snapshot %d differs\n", m.Seq)
			}
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
