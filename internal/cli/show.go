package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	Log      bool
}

// ShowResult is the JSON payload of the show command.
type ShowResult struct {
	ID           string           `json:"id"`
	RunID        string           `json:"run_id"`
	Seq          int              `json:"seq"`
	Seed         int64            `json:"seed"`
	Reproducible bool             `json:"reproducible"`
	Modules      []module.Request `json:"modules"`
	CreatedAt    time.Time        `json:"created_at"`
	Fragments    []string         `json:"fragments"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an archived testcase",
		Long: `Print an archived testcase as a script, or in the /*L*/ console log
format with --log. The id may be any unique prefix of the testcase ID.

Example:
  framboise show --db ./framboise.db 3f2a9c`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.Log, "log", false, "render in the /*L*/ console log format")

	return cmd
}

func runShow(opts *ShowOptions, idPrefix string, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	tc, err := readArchived(cmd, st, idPrefix)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(ShowResult{
			ID:           tc.ID(),
			RunID:        tc.RunID,
			Seq:          tc.Seq,
			Seed:         tc.Seed,
			Reproducible: tc.Reproducible,
			Modules:      tc.Modules,
			CreatedAt:    tc.CreatedAt,
			Fragments:    tc.Fragments(),
		})
	}

	rendered, err := render(tc, opts.Log)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to render testcase", err)
	}
	_, err = cmd.OutOrStdout().Write(rendered)
	return err
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// ListEntry is one row of the list command's JSON payload.
type ListEntry struct {
	ID        string           `json:"id"`
	RunID     string           `json:"run_id"`
	Seq       int              `json:"seq"`
	Seed      int64            `json:"seed"`
	Modules   []module.Request `json:"modules"`
	Fragments int              `json:"fragments"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived testcases",
		Long: `List archived testcases ordered by their position in their run.

Example:
  framboise list --db ./framboise.db --limit 20`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of testcases (0 lists all)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	summaries, err := st.ListTestcases(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list testcases", err)
	}

	if opts.Format == "json" {
		entries := make([]ListEntry, len(summaries))
		for i, s := range summaries {
			entries[i] = ListEntry{
				ID:        s.ID,
				RunID:     s.RunID,
				Seq:       s.Seq,
				Seed:      s.Seed,
				Modules:   s.Modules,
				Fragments: s.FragmentCount,
				CreatedAt: s.CreatedAt,
			}
		}
		formatter := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
		return formatter.Success(entries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No testcases archived.")
		return nil
	}

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"ID", "Run", "Seq", "Seed", "Modules", "Fragments", "Created"})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			shortID(s.ID),
			s.RunID,
			s.Seq,
			s.Seed,
			module.FormatRequests(s.Modules),
			s.FragmentCount,
			s.CreatedAt.Format(time.RFC3339),
		})
	}
	t.Render()
	return nil
}

// newTable returns a rounded table writer rendering to w.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
