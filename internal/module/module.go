package module

import (
	"github.com/roach88/framboise/internal/random"
	"github.com/roach88/framboise/internal/registry"
)

// Scope is what every phase call receives: the run's random source and the
// run's object registry.
type Scope struct {
	Rand    *random.Source
	Objects *registry.Registry
}

// Module is a named bundle of fragment producers.
//
// Each phase returns zero or more fragments. Returning an error discards the
// fragments of that call; the engine carries on with the next step.
type Module interface {
	Name() string
	Init(s *Scope) ([]string, error)
	Step(s *Scope) ([]string, error)
	Finish(s *Scope) ([]string, error)
}

// EventSource is implemented by modules that declare events.
type EventSource interface {
	// Events maps an object category to the events its handles dispatch.
	Events() map[string][]string
	// WindowEvents lists events dispatched on the global object.
	WindowEvents() []string
}

// Dependent is implemented by modules that need other modules loaded first.
type Dependent interface {
	Dependencies() []string
}

// SourcePath is the conventional location of a module definition.
func SourcePath(name string) string {
	return "modules/" + name + "/fuzzer"
}

// GlobalName is the conventional global identifier a module is exposed
// under in the host.
func GlobalName(name string) string {
	return "fuzzer" + name
}

// Base is embedded by modules that only implement a subset of the phases.
// Every phase returns no fragments.
type Base struct{}

// Init returns no fragments.
func (Base) Init(*Scope) ([]string, error) { return nil, nil }

// Step returns no fragments.
func (Base) Step(*Scope) ([]string, error) { return nil, nil }

// Finish returns no fragments.
func (Base) Finish(*Scope) ([]string, error) { return nil, nil }
