package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/framboise/internal/engine"
	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/modules"
	"github.com/roach88/framboise/internal/tablemod"
	"github.com/roach88/framboise/internal/testcase"
)

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stderr, or as a JSON error response on stdout
// with --format json.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	root := newRootCommand(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	code := ExitCommandError // flag and argument errors from cobra
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}

	f := &OutputFormatter{Format: opts.Format, Writer: stderr}
	if opts.Format == "json" {
		f.Writer = stdout
	}
	_ = f.Error(errorCode(code), err.Error(), nil)
	return code
}

// newLogger configures logging based on the verbose and format flags.
// Logs always go to w, never to the command's output.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	if opts.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// withSignals returns a context cancelled on SIGINT or SIGTERM.
func withSignals(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// catalogFor returns the built-in modules, falling back to the
// declarative modules under moduleDir when it is set.
func catalogFor(moduleDir string) *module.Catalog {
	c := modules.Builtin()
	if moduleDir != "" {
		c.Chain(tablemod.Dir(moduleDir))
	}
	return c
}

// generator runs single testcases over a catalog.
type generator struct {
	catalog *module.Catalog
	logger  *slog.Logger
	clock   engine.Clock
}

// run loads reqs afresh and synthesizes one testcase. A nil seed seeds the
// run from the clock.
func (g *generator) run(ctx context.Context, reqs []module.Request, prefs engine.Preferences, seed *int64, runID string, seq int) (*testcase.Testcase, *engine.Engine, error) {
	set, err := module.NewLoader(g.catalog, g.logger).Load(reqs)
	if err != nil {
		return nil, nil, err
	}

	opts := []engine.Option{
		engine.WithPreferences(prefs),
		engine.WithLogger(g.logger),
		engine.WithRun(runID, seq),
	}
	if seed != nil {
		opts = append(opts, engine.WithSeed(*seed))
	}
	if g.clock != nil {
		opts = append(opts, engine.WithClock(g.clock))
	}

	eng := engine.New(set, nil, opts...)
	tc, err := eng.Run(ctx)
	for _, stepErr := range eng.Errors() {
		g.logger.Debug("step error", "seq", seq, "error", stepErr)
	}
	return tc, eng, err
}
