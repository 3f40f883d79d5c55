package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/framboise/internal/environment"
	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/random"
	"github.com/roach88/framboise/internal/registry"
	"github.com/roach88/framboise/internal/testcase"
)

// Engine generates a single testcase.
//
// Thread-safety: an Engine is driven by one goroutine. Run must not be
// called concurrently.
type Engine struct {
	set    *module.Set
	env    environment.Environment
	src    *random.Source
	prefs  Preferences
	logger *slog.Logger
	clock  Clock
	runID  string
	seq    int

	state   State
	objects *registry.Registry
	scope   *module.Scope
	draw    []random.Weighted[module.Module]
	reload  int
	step    int
	tc      *testcase.Testcase
	errs    []error
	dropped int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the run's random source. A negative seed selects the
// non-reproducible fallback source.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.src = random.New(seed)
	}
}

// WithSource uses src as the run's random source.
func WithSource(src *random.Source) Option {
	return func(e *Engine) {
		e.src = src
	}
}

// WithPreferences replaces DefaultPreferences.
func WithPreferences(p Preferences) Option {
	return func(e *Engine) {
		e.prefs = p
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithClock sets the clock used for the creation time. Default: SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithRun stamps the testcase with its run ID and its position in the run.
func WithRun(runID string, seq int) Option {
	return func(e *Engine) {
		e.runID = runID
		e.seq = seq
	}
}

// New creates an Engine for one run over set against env.
//
// Without WithSeed or WithSource the run is seeded from the wall clock.
func New(set *module.Set, env environment.Environment, opts ...Option) *Engine {
	e := &Engine{
		set:   set,
		env:   env,
		prefs: DefaultPreferences(),
		clock: SystemClock{},
		seq:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = random.NewFromTime()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.env == nil {
		e.env = environment.NewSimulated()
	}
	e.objects = registry.New(e.env, registry.WithIndexer(e.src.Number))
	e.scope = &module.Scope{Rand: e.src, Objects: e.objects}
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Seed returns the seed of the run's random source.
func (e *Engine) Seed() int64 {
	return e.src.Seed()
}

// Objects returns the run's registry.
func (e *Engine) Objects() *registry.Registry {
	return e.objects
}

// ReloadTimeout returns the reload budget: the configured floor plus every
// timeout delay emitted so far.
func (e *Engine) ReloadTimeout() int {
	return e.reload
}

// Errors returns every StepError of the run.
func (e *Engine) Errors() []error {
	return e.errs
}

// Dropped returns how many fragments were dropped by disabled wrapping
// policies or missing event targets.
func (e *Engine) Dropped() int {
	return e.dropped
}

// Run synthesizes the testcase.
//
// Module failures are isolated and reported through Errors. Run itself
// fails only when the engine was already used, the preferences are invalid,
// the set is empty, or ctx is cancelled. On cancellation the partial
// testcase built so far is returned together with ctx.Err(); it carries no
// reload directive.
func (e *Engine) Run(ctx context.Context) (*testcase.Testcase, error) {
	if e.state != StateIdle {
		return nil, ErrEngineUsed
	}
	if err := e.prefs.Validate(); err != nil {
		return nil, err
	}
	if e.set == nil || e.set.Len() == 0 {
		return nil, module.ErrNoModules
	}

	e.tc = &testcase.Testcase{
		RunID:        e.runID,
		Seq:          e.seq,
		Seed:         e.src.Seed(),
		Reproducible: e.src.Reproducible(),
		Modules:      e.set.Requests(),
		Preferences:  MarshalPreferences(e.prefs),
		CreatedAt:    e.clock.Now(),
	}
	e.reload = e.prefs.ReloadTimeout
	e.draw = e.set.Weighted()

	e.logger.Info("testcase started",
		"run_id", e.runID,
		"seq", e.seq,
		"seed", e.src.Seed(),
		"modules", e.set.Names(),
		"main_steps", e.prefs.MainSteps,
	)

	e.transition(StateInitializing)
	e.step = -1
	for _, entry := range e.set.Entries() {
		e.emitAll(e.call(entry.Module, PhaseInit, 0))
	}

	e.transition(StateGenerating)
	for e.step = 0; e.step < e.prefs.MainSteps; e.step++ {
		if err := ctx.Err(); err != nil {
			return e.abort(err)
		}
		m := e.pick()
		for _, fragment := range e.call(m, PhaseStep, 0) {
			if wrapped, ok := e.wrap(m, fragment, 0); ok {
				e.emit(wrapped)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return e.abort(err)
	}

	e.transition(StateFinishing)
	e.step = -1
	for _, entry := range e.set.Entries() {
		e.emitAll(e.call(entry.Module, PhaseFinish, 0))
	}
	e.emit(ReloadDirective(e.reload))

	e.transition(StateDone)
	e.logger.Info("testcase finished",
		"seq", e.seq,
		"fragments", e.tc.Len(),
		"reload_timeout", e.reload,
		"step_errors", len(e.errs),
		"dropped", e.dropped,
	)
	return e.tc, nil
}

// ReloadDirective is the fragment closing every testcase.
func ReloadDirective(timeout int) string {
	return fmt.Sprintf("setTimeout('window.location.reload()', %d)", timeout)
}

func (e *Engine) abort(err error) (*testcase.Testcase, error) {
	e.logger.Warn("testcase aborted", "state", e.state, "step", e.step, "fragments", e.tc.Len(), "error", err)
	e.transition(StateDone)
	return e.tc, err
}

func (e *Engine) transition(to State) {
	e.logger.Debug("engine state", "from", e.state, "to", to)
	e.state = to
}

// pick draws the module for a main step or sub-command.
func (e *Engine) pick() module.Module {
	// The set is never empty here, so the draw cannot fail.
	m, _ := random.ChooseValue(e.src, e.draw)
	return m
}

// call invokes one module phase, converting errors and panics into
// StepErrors.
func (e *Engine) call(m module.Module, phase Phase, depth int) (fragments []string) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(m, phase, depth, &PanicError{Value: r})
			fragments = nil
		}
	}()

	var err error
	switch phase {
	case PhaseInit:
		fragments, err = m.Init(e.scope)
	case PhaseStep:
		fragments, err = m.Step(e.scope)
	case PhaseFinish:
		fragments, err = m.Finish(e.scope)
	}
	if err != nil {
		e.fail(m, phase, depth, err)
		return nil
	}
	return fragments
}

func (e *Engine) fail(m module.Module, phase Phase, depth int, err error) {
	se := &StepError{Module: m.Name(), Phase: phase, Step: e.step, Depth: depth, Err: err}
	e.errs = append(e.errs, se)
	e.logger.Warn("module call failed", "module", se.Module, "phase", se.Phase, "step", se.Step, "depth", depth, "error", err)
}

func (e *Engine) emitAll(fragments []string) {
	for _, f := range fragments {
		e.emit(f)
	}
}

// emit is the sink: optional try/catch, append, then execute.
func (e *Engine) emit(fragment string) {
	if fragment == "" {
		return
	}
	if e.prefs.TryCatch {
		fragment = wrapTryCatch(fragment)
	}
	e.tc.Append(fragment)
	if err := e.env.Execute(fragment); err != nil {
		e.logger.Debug("fragment raised", "fragment", truncate(fragment, 120), "error", err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
