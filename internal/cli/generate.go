package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/framboise/internal/config"
	"github.com/roach88/framboise/internal/engine"
	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/store"
	"github.com/roach88/framboise/internal/testcase"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Config        string
	Seed          int64
	Steps         int
	Count         int
	Modules       string
	ModuleDir     string
	NoTimeout     bool
	NoInterval    bool
	NoEvents      bool
	NoTryCatch    bool
	MaxDepth      int
	ReloadTimeout int
	Database      string
	Out           string
	Log           bool
	RunID         string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs testcase.RunIDGenerator
	// Clock allows overriding the testcase timestamp source (for testing).
	Clock engine.Clock
}

// GeneratedTestcase describes one generated testcase.
type GeneratedTestcase struct {
	ID           string `json:"id"`
	Seq          int    `json:"seq"`
	Seed         int64  `json:"seed"`
	Reproducible bool   `json:"reproducible"`
	Fragments    int    `json:"fragments"`
	StepErrors   int    `json:"step_errors"`
	Dropped      int    `json:"dropped"`
	Path         string `json:"path,omitempty"`
	Archived     bool   `json:"archived,omitempty"`
	Script       string `json:"script,omitempty"`
}

// GenerateResult is the JSON payload of the generate command.
type GenerateResult struct {
	RunID     string              `json:"run_id"`
	Testcases []GeneratedTestcase `json:"testcases"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	return newGenerateCommand(&GenerateOptions{RootOptions: rootOpts})
}

func newGenerateCommand(opts *GenerateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate testcases",
		Long: `Generate randomized testcases from weighted modules.

Modules come from --modules ("weight:Name" list) or the campaign given by
--config; flags override the campaign. With --seed, consecutive testcases
use consecutive seeds and every testcase is reproducible.

Testcases are printed to stdout unless --out names a directory, in which
case each is written to testcase-<seq>.js (or .log with --log).

Examples:
  framboise generate --modules 2:Canvas2D,1:Selection --seed 42
  framboise generate --config campaign.yaml --count 10 --out ./cases --db ./framboise.db
  framboise generate --modules Canvas2D --log`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	defaults := engine.DefaultPreferences()
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "campaign YAML file")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "seed of the first testcase (default: clock seeded)")
	cmd.Flags().IntVar(&opts.Steps, "steps", defaults.MainSteps, "main steps per testcase")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of testcases")
	cmd.Flags().StringVarP(&opts.Modules, "modules", "m", "", `weighted module list, e.g. "2:Canvas2D,1:Selection"`)
	cmd.Flags().StringVar(&opts.ModuleDir, "module-dir", "", "directory of declarative modules")
	cmd.Flags().BoolVar(&opts.NoTimeout, "no-timeout", false, "never wrap fragments in setTimeout")
	cmd.Flags().BoolVar(&opts.NoInterval, "no-interval", false, "never wrap fragments in setInterval")
	cmd.Flags().BoolVar(&opts.NoEvents, "no-events", false, "never wrap fragments in event listeners")
	cmd.Flags().BoolVar(&opts.NoTryCatch, "no-try-catch", false, "do not wrap fragments in try/catch")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", defaults.MaxDepth, "maximum wrapping depth (0 disables wrapping)")
	cmd.Flags().IntVar(&opts.ReloadTimeout, "reload-timeout", defaults.ReloadTimeout, "minimum reload delay in milliseconds")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive testcases in this SQLite database")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write testcases to this directory")
	cmd.Flags().BoolVar(&opts.Log, "log", false, "render testcases in the /*L*/ console log format")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "append to an existing run instead of starting a new one")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := resolveCampaign(opts, cmd)
	if err != nil {
		return err
	}

	var st *store.Store
	if cfg.Database != "" {
		st, err = store.Open(cfg.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	ctx, cancel := withSignals(cmd.Context(), logger)
	defer cancel()

	runID, firstSeq, err := startRun(ctx, opts, st)
	if err != nil {
		return err
	}

	if opts.Out != "" {
		if err := os.MkdirAll(opts.Out, 0o755); err != nil {
			return WrapExitError(ExitCommandError, "failed to create output directory", err)
		}
	}

	gen := &generator{catalog: catalogFor(cfg.ModuleDir), logger: logger, clock: opts.Clock}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	result := GenerateResult{RunID: runID, Testcases: []GeneratedTestcase{}}

	for i := 0; i < cfg.Count; i++ {
		var seed *int64
		if s, ok := cfg.SeedFor(i); ok {
			seed = &s
		}
		seq := firstSeq + i

		tc, eng, err := gen.run(ctx, cfg.Modules, cfg.Preferences, seed, runID, seq)
		if err != nil {
			if errors.Is(err, module.ErrNoModules) {
				return WrapExitError(ExitCommandError, "failed to load modules", err)
			}
			if errors.Is(err, context.Canceled) {
				return WrapExitError(ExitFailure, "generation interrupted", err)
			}
			return WrapExitError(ExitFailure, fmt.Sprintf("failed to generate testcase %d", seq), err)
		}

		entry := GeneratedTestcase{
			ID:           tc.ID(),
			Seq:          tc.Seq,
			Seed:         tc.Seed,
			Reproducible: tc.Reproducible,
			Fragments:    tc.Len(),
			StepErrors:   len(eng.Errors()),
			Dropped:      eng.Dropped(),
		}

		rendered, err := render(tc, opts.Log)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render testcase", err)
		}

		switch {
		case opts.Out != "":
			entry.Path = filepath.Join(opts.Out, testcaseFile(tc.Seq, opts.Log))
			if err := os.WriteFile(entry.Path, rendered, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "failed to write testcase", err)
			}
		case opts.Format == "json":
			entry.Script = string(rendered)
		default:
			if _, err := cmd.OutOrStdout().Write(rendered); err != nil {
				return WrapExitError(ExitFailure, "failed to write testcase", err)
			}
		}

		if st != nil {
			id, inserted, err := st.WriteTestcase(ctx, tc)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to archive testcase", err)
			}
			entry.Archived = inserted
			logger.Debug("testcase archived", "id", id, "inserted", inserted)
		}

		result.Testcases = append(result.Testcases, entry)
		if opts.Format != "json" && opts.Out != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  seed=%d  fragments=%d  id=%s\n", entry.Path, entry.Seed, entry.Fragments, shortID(entry.ID))
		}
		formatter.VerboseLog("testcase %d: %d step errors, %d dropped", entry.Seq, entry.StepErrors, entry.Dropped)
	}

	if opts.Format == "json" {
		return formatter.SuccessRun(result, runID)
	}
	return nil
}

// resolveCampaign loads --config, applies flag overrides and validates.
func resolveCampaign(opts *GenerateOptions, cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("modules") {
		reqs, err := config.ParseModuleList(opts.Modules)
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "invalid --modules", err)
		}
		cfg.Modules = reqs
	}
	if flags.Changed("seed") {
		seed := opts.Seed
		cfg.Seed = &seed
	}
	if flags.Changed("count") {
		cfg.Count = opts.Count
	}
	if flags.Changed("steps") {
		cfg.Preferences.MainSteps = opts.Steps
	}
	if flags.Changed("max-depth") {
		cfg.Preferences.MaxDepth = opts.MaxDepth
	}
	if flags.Changed("reload-timeout") {
		cfg.Preferences.ReloadTimeout = opts.ReloadTimeout
	}
	if flags.Changed("module-dir") {
		cfg.ModuleDir = opts.ModuleDir
	}
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}
	if opts.NoTimeout {
		cfg.Preferences.Timeout = false
	}
	if opts.NoInterval {
		cfg.Preferences.Interval = false
	}
	if opts.NoEvents {
		cfg.Preferences.Events = false
	}
	if opts.NoTryCatch {
		cfg.Preferences.TryCatch = false
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid campaign", err)
	}
	return cfg, nil
}

// startRun picks the run ID and the seq of its first new testcase.
func startRun(ctx context.Context, opts *GenerateOptions, st *store.Store) (string, int, error) {
	if opts.RunID == "" {
		gen := opts.RunIDs
		if gen == nil {
			gen = testcase.UUIDv7Generator{}
		}
		return gen.Generate(), 1, nil
	}
	if st == nil {
		return opts.RunID, 1, nil
	}
	latest, err := st.LatestSeq(ctx, opts.RunID)
	if err != nil {
		return "", 0, WrapExitError(ExitCommandError, "failed to read run", err)
	}
	return opts.RunID, latest + 1, nil
}

func render(tc *testcase.Testcase, log bool) ([]byte, error) {
	if !log {
		return []byte(tc.Script()), nil
	}
	var buf bytes.Buffer
	if err := testcase.WriteLog(&buf, tc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func testcaseFile(seq int, log bool) string {
	if log {
		return fmt.Sprintf("testcase-%d.log", seq)
	}
	return fmt.Sprintf("testcase-%d.js", seq)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
