package module

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/framboise/internal/random"
)

// Loaded is one member of a Set.
type Loaded struct {
	Name   string
	Module Module
	// Weight is the main-step draw weight. Dependencies that were not
	// requested have weight 0: they take part in Init and Finish only.
	Weight    int
	Requested bool
}

// Set is the ordered result of a Load. Every dependency precedes the
// modules that declared it.
type Set struct {
	entries []Loaded
	index   map[string]int
	errs    []error
}

// Entries returns the members in Set order.
func (s *Set) Entries() []Loaded {
	out := make([]Loaded, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of loaded modules, dependencies included.
func (s *Set) Len() int {
	return len(s.entries)
}

// Names returns module names in Set order.
func (s *Set) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}

// Get returns the loaded module called name.
func (s *Set) Get(name string) (Module, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.entries[i].Module, true
}

// Weighted returns the main-step draw table.
func (s *Set) Weighted() []random.Weighted[Module] {
	out := make([]random.Weighted[Module], len(s.entries))
	for i, e := range s.entries {
		out[i] = random.W(e.Weight, e.Module)
	}
	return out
}

// Requests returns the requested members as a request list, in Set order.
func (s *Set) Requests() []Request {
	var reqs []Request
	for _, e := range s.entries {
		if e.Requested {
			reqs = append(reqs, Request{Name: e.Name, Weight: e.Weight})
		}
	}
	return reqs
}

// Errors returns every load failure that was tolerated.
func (s *Set) Errors() []error {
	return s.errs
}

// NewSet builds a Set directly from module instances, bypassing any
// catalog. Dependencies are not resolved.
func NewSet(entries ...Loaded) *Set {
	s := &Set{index: make(map[string]int)}
	for _, e := range entries {
		if e.Name == "" && e.Module != nil {
			e.Name = e.Module.Name()
		}
		if _, dup := s.index[e.Name]; dup {
			continue
		}
		s.index[e.Name] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s
}

// Loader instantiates modules from a Source.
type Loader struct {
	source Source
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(source Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{source: source, logger: logger}
}

// Load resolves requests into a Set.
//
// Requests naming the same module more than once have their weights summed.
// Each module is instantiated once. Dependencies are loaded depth first
// before their dependents; a dependency that cannot be resolved is logged
// and skipped without affecting the dependent. Dependency cycles are broken
// at the first revisit.
//
// Returns ErrNoModules if no requested module loaded.
func (l *Loader) Load(requests []Request) (*Set, error) {
	st := &loadState{
		loader:   l,
		set:      &Set{index: make(map[string]int)},
		visiting: make(map[string]bool),
		failed:   make(map[string]bool),
	}

	requested := 0
	for _, req := range requests {
		if st.request(req) {
			requested++
		}
	}

	if requested == 0 {
		return st.set, fmt.Errorf("%w: tried %s", ErrNoModules, FormatRequests(requests))
	}
	return st.set, nil
}

type loadState struct {
	loader   *Loader
	set      *Set
	visiting map[string]bool
	failed   map[string]bool
}

// request loads a directly requested module and reports whether it is in
// the set afterwards.
func (st *loadState) request(req Request) bool {
	if i, ok := st.set.index[req.Name]; ok {
		e := &st.set.entries[i]
		if e.Requested {
			e.Weight += req.Weight
		} else {
			e.Weight = req.Weight
			e.Requested = true
		}
		return true
	}

	if !st.load(req.Name, "") {
		return false
	}
	e := &st.set.entries[st.set.index[req.Name]]
	e.Weight = req.Weight
	e.Requested = true
	st.loader.logger.Info("module loaded", "module", req.Name, "weight", req.Weight)
	return true
}

// load instantiates name and its dependencies. requiredBy is empty for
// direct requests.
func (st *loadState) load(name, requiredBy string) bool {
	logger := st.loader.logger

	if _, ok := st.set.index[name]; ok {
		return true
	}
	if st.failed[name] {
		return false
	}
	if st.visiting[name] {
		logger.Debug("dependency cycle broken", "module", name, "required_by", requiredBy)
		return false
	}

	factory, ok := st.loader.source.Lookup(name)
	if !ok {
		st.fail(&LoadError{Module: name, RequiredBy: requiredBy, Err: ErrUnknownModule})
		return false
	}

	m, err := factory()
	if err == nil && m == nil {
		err = fmt.Errorf("factory returned nil module")
	}
	if err != nil {
		st.fail(&LoadError{Module: name, RequiredBy: requiredBy, Err: err})
		return false
	}

	if dep, ok := m.(Dependent); ok {
		st.visiting[name] = true
		for _, d := range dep.Dependencies() {
			if st.load(d, name) {
				logger.Debug("dependency loaded", "module", d, "required_by", name)
			}
		}
		delete(st.visiting, name)
	}

	st.set.index[name] = len(st.set.entries)
	st.set.entries = append(st.set.entries, Loaded{Name: name, Module: m})
	return true
}

func (st *loadState) fail(err *LoadError) {
	st.failed[err.Module] = true
	st.set.errs = append(st.set.errs, err)
	if err.RequiredBy != "" {
		st.loader.logger.Warn("dependency not loaded", "module", err.Module, "required_by", err.RequiredBy, "error", err.Err)
		return
	}
	st.loader.logger.Error("module not loaded", "module", err.Module, "error", err.Err)
}
