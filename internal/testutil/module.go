package testutil

import (
	"errors"

	"github.com/roach88/framboise/internal/module"
)

// ErrStub is returned by StubModule phases configured to fail.
var ErrStub = errors.New("stub module failure")

// StubModule is a module.Module whose phases return fixed fragments.
//
// StepFn, when set, replaces StepFragments. FailStep makes every Step return
// ErrStub; PanicStep makes every Step panic.
type StubModule struct {
	ModuleName      string
	InitFragments   []string
	StepFragments   []string
	FinishFragments []string
	StepFn          func(*module.Scope) ([]string, error)
	FailStep        bool
	PanicStep       bool

	Steps int
}

// Name implements module.Module.
func (m *StubModule) Name() string { return m.ModuleName }

// Init implements module.Module.
func (m *StubModule) Init(*module.Scope) ([]string, error) {
	return m.InitFragments, nil
}

// Step implements module.Module.
func (m *StubModule) Step(s *module.Scope) ([]string, error) {
	m.Steps++
	switch {
	case m.PanicStep:
		panic("stub module panic")
	case m.FailStep:
		return nil, ErrStub
	case m.StepFn != nil:
		return m.StepFn(s)
	}
	return m.StepFragments, nil
}

// Finish implements module.Module.
func (m *StubModule) Finish(*module.Scope) ([]string, error) {
	return m.FinishFragments, nil
}

// EventModule is a StubModule that declares events and dependencies.
type EventModule struct {
	StubModule
	ObjectEvents map[string][]string
	Window       []string
	Requires     []string
}

// Events implements module.EventSource.
func (m *EventModule) Events() map[string][]string { return m.ObjectEvents }

// WindowEvents implements module.EventSource.
func (m *EventModule) WindowEvents() []string { return m.Window }

// Dependencies implements module.Dependent.
func (m *EventModule) Dependencies() []string { return m.Requires }

// Set wraps modules into a module.Set with weight 1 each.
func Set(mods ...module.Module) *module.Set {
	entries := make([]module.Loaded, len(mods))
	for i, m := range mods {
		entries[i] = module.Loaded{Name: m.Name(), Module: m, Weight: 1, Requested: true}
	}
	return module.NewSet(entries...)
}

// Catalog registers every module under its name. Each factory returns the
// same instance so tests can inspect it afterwards.
func Catalog(mods ...module.Module) *module.Catalog {
	c := module.NewCatalog()
	for _, m := range mods {
		m := m
		c.MustRegister(m.Name(), func() (module.Module, error) { return m, nil })
	}
	return c
}
