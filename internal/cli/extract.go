package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/framboise/internal/store"
	"github.com/roach88/framboise/internal/testcase"
)

// ExtractOptions holds flags for the extract command.
type ExtractOptions struct {
	*RootOptions
	Out      string
	Database string

	// RunIDs allows overriding the run ID generator (for testing).
	RunIDs testcase.RunIDGenerator
}

// ExtractedTestcase describes one testcase recovered from a console log.
type ExtractedTestcase struct {
	ID        string `json:"id"`
	Seq       int    `json:"seq"`
	Seed      int64  `json:"seed"`
	Fragments int    `json:"fragments"`
	Path      string `json:"path"`
}

// ExtractResult is the JSON payload of the extract command.
type ExtractResult struct {
	RunID          string              `json:"run_id"`
	Testcases      []ExtractedTestcase `json:"testcases"`
	MalformedLines []int               `json:"malformed_lines,omitempty"`
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExtractOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "extract <console.log>",
		Short: "Recover testcases from a browser console log",
		Long: `Recover the testcases recorded in a browser console log written with
--log and save each as testcase-<n>.js.

Lines outside /*L*/ records are ignored; records that fail to decode are
reported and skipped.

Example:
  framboise extract --out ./cases console.log`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", ".", "directory for extracted testcases")
	cmd.Flags().StringVar(&opts.Database, "db", "", "also archive the testcases in this SQLite database")

	return cmd
}

func runExtract(opts *ExtractOptions, logPath string, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	f, err := os.Open(logPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open console log", err)
	}
	defer f.Close()

	extraction, err := testcase.ParseLog(f)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read console log", err)
	}
	for _, line := range extraction.Malformed {
		formatter.VerboseLog("%s:%d: malformed log record", logPath, line)
	}

	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	var st *store.Store
	if opts.Database != "" {
		if st, err = store.Open(opts.Database); err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
	}

	gen := opts.RunIDs
	if gen == nil {
		gen = testcase.UUIDv7Generator{}
	}
	result := ExtractResult{RunID: gen.Generate(), Testcases: []ExtractedTestcase{}, MalformedLines: extraction.Malformed}

	for i, tc := range extraction.Testcases {
		tc.RunID = result.RunID
		tc.Seq = i + 1
		// Console logs do not record the module list, so the archive
		// cannot regenerate these.
		tc.Reproducible = false

		path := filepath.Join(opts.Out, testcaseFile(tc.Seq, false))
		if err := os.WriteFile(path, []byte(tc.Script()), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write testcase", err)
		}
		if st != nil {
			if _, _, err := st.WriteTestcase(cmd.Context(), tc); err != nil {
				return WrapExitError(ExitFailure, "failed to archive testcase", err)
			}
		}
		logger.Debug("testcase extracted", "seq", tc.Seq, "seed", tc.Seed, "fragments", tc.Len())

		result.Testcases = append(result.Testcases, ExtractedTestcase{
			ID:        tc.ID(),
			Seq:       tc.Seq,
			Seed:      tc.Seed,
			Fragments: tc.Len(),
			Path:      path,
		})
	}

	if opts.Format == "json" {
		return formatter.SuccessRun(result, result.RunID)
	}
	out := cmd.OutOrStdout()
	for _, e := range result.Testcases {
		fmt.Fprintf(out, "%s  seed=%d  fragments=%d\n", e.Path, e.Seed, e.Fragments)
	}
	fmt.Fprintf(out, "Extracted %d testcase(s)", len(result.Testcases))
	if n := len(result.MalformedLines); n > 0 {
		fmt.Fprintf(out, ", skipped %d malformed record(s)", n)
	}
	fmt.Fprintln(out)
	return nil
}
