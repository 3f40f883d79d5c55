package cli

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/roach88/framboise/internal/engine"
	"github.com/roach88/framboise/internal/store"
	"github.com/roach88/framboise/internal/testcase"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	ModuleDir string
}

// ReplayResult holds the outcome of regenerating an archived testcase.
type ReplayResult struct {
	ID            string `json:"id"`
	RegeneratedID string `json:"regenerated_id"`
	Seed          int64  `json:"seed"`
	Fragments     int    `json:"fragments"`
	Deterministic bool   `json:"deterministic"`
	// FirstDifference is the index of the first differing fragment, or -1.
	FirstDifference int `json:"first_difference"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <id>",
		Short: "Regenerate an archived testcase and verify it reproduces",
		Long: `Regenerate an archived testcase from its seed, modules and preferences
and check that the result hashes to the same ID.

The id may be any unique prefix of the testcase ID.

Exit codes:
  0 - The testcase reproduced exactly
  1 - The regenerated testcase differs, or it has no reproducible seed
  2 - Command error (database not found, unknown id, etc.)

Examples:
  framboise replay --db ./framboise.db 3f2a9c
  framboise replay --db ./framboise.db --module-dir ./modules 3f2a9c --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.ModuleDir, "module-dir", "", "directory of declarative modules")

	return cmd
}

func runReplay(opts *ReplayOptions, idPrefix string, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	ctx := cmd.Context()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	original, err := readArchived(cmd, st, idPrefix)
	if err != nil {
		return err
	}
	id := original.ID()

	if !original.Reproducible {
		return NewExitError(ExitFailure, fmt.Sprintf("testcase %s has no reproducible seed", shortID(id)))
	}
	prefs, err := engine.UnmarshalPreferences(original.Preferences)
	if err != nil {
		return WrapExitError(ExitCommandError, "archived preferences are invalid", err)
	}

	gen := &generator{catalog: catalogFor(opts.ModuleDir), logger: logger}
	seed := original.Seed
	regenerated, _, err := gen.run(ctx, original.Modules, prefs, &seed, original.RunID, original.Seq)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to regenerate testcase", err)
	}

	result := ReplayResult{
		ID:              id,
		RegeneratedID:   regenerated.ID(),
		Seed:            original.Seed,
		Fragments:       original.Len(),
		FirstDifference: firstDifference(original.Fragments(), regenerated.Fragments()),
	}
	result.Deterministic = result.ID == result.RegeneratedID

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printReplayResult(cmd, result)
	}

	if !result.Deterministic {
		diagnostics := &OutputFormatter{Writer: cmd.ErrOrStderr(), Verbose: opts.Verbose}
		diagnostics.VerboseLog("fragment diff (-archived +regenerated):\n%s", cmp.Diff(original.Fragments(), regenerated.Fragments()))
		return NewExitError(ExitFailure, "replay did not reproduce the testcase")
	}
	return nil
}

// readArchived resolves idPrefix and reads the testcase it names.
func readArchived(cmd *cobra.Command, st *store.Store, idPrefix string) (*testcase.Testcase, error) {
	id, err := st.ResolveID(cmd.Context(), idPrefix)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrAmbiguous) {
		return nil, WrapExitError(ExitCommandError, "unknown testcase", err)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to resolve testcase", err)
	}
	tc, err := st.ReadTestcase(cmd.Context(), id)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read testcase", err)
	}
	return tc, nil
}

func firstDifference(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return min(len(a), len(b))
	}
	return -1
}

func printReplayResult(cmd *cobra.Command, result ReplayResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Testcase %s (seed %d, %d fragments)\n", shortID(result.ID), result.Seed, result.Fragments)
	if result.Deterministic {
		fmt.Fprintln(out, "  ✓ Reproduced")
		return
	}
	fmt.Fprintf(out, "  ✗ Regenerated as %s\n", shortID(result.RegeneratedID))
	if result.FirstDifference >= 0 {
		fmt.Fprintf(out, "  First difference at fragment %d\n", result.FirstDifference)
	}
}
