// Package environment defines the bridge between the synthesis engine and
// the host that runs generated fragments.
package environment

import (
	"fmt"
	"sync"

	"github.com/roach88/framboise/internal/registry"
)

// Environment executes fragments and answers liveness queries for handles.
//
// Execute is called synchronously for every fragment at the moment it is
// appended to the testcase, so later steps observe the effects of earlier
// ones. Deferred bodies (timers, listeners) run at the host's discretion.
type Environment interface {
	registry.Resolver
	Execute(fragment string) error
}

// ErrUndefined is returned by Resolve for names the host does not know.
type ErrUndefined struct {
	Name string
}

func (e *ErrUndefined) Error() string {
	return fmt.Sprintf("ReferenceError: %s is not defined", e.Name)
}

// Simulated is an offline host used when testcases are generated for later
// replay rather than executed live.
//
// Every handle is treated as live until Kill is called for it. Execute only
// counts fragments.
type Simulated struct {
	dead     map[string]bool
	executed int
}

// NewSimulated creates a Simulated host where every handle is live.
func NewSimulated() *Simulated {
	return &Simulated{dead: make(map[string]bool)}
}

// Resolve reports name as live unless it was killed.
func (s *Simulated) Resolve(name string) (any, error) {
	if s.dead[name] {
		return nil, &ErrUndefined{Name: name}
	}
	return name, nil
}

// Execute accepts every fragment.
func (s *Simulated) Execute(string) error {
	s.executed++
	return nil
}

// Kill marks name as destroyed by the host.
func (s *Simulated) Kill(name string) {
	s.dead[name] = true
}

// Executed returns the number of fragments executed so far.
func (s *Simulated) Executed() int {
	return s.executed
}

// Recorder wraps an Environment and keeps every fragment passed to Execute.
//
// Thread-safety: Recorder is safe for concurrent use so a live host can read
// the fragment list while the engine appends to it.
type Recorder struct {
	Environment

	mu        sync.Mutex
	fragments []string
}

// NewRecorder wraps inner. A nil inner uses a fresh Simulated host.
func NewRecorder(inner Environment) *Recorder {
	if inner == nil {
		inner = NewSimulated()
	}
	return &Recorder{Environment: inner}
}

// Execute records fragment and forwards it to the wrapped host.
func (r *Recorder) Execute(fragment string) error {
	r.mu.Lock()
	r.fragments = append(r.fragments, fragment)
	r.mu.Unlock()
	return r.Environment.Execute(fragment)
}

// Fragments returns a copy of every fragment executed so far.
func (r *Recorder) Fragments() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.fragments))
	copy(out, r.fragments)
	return out
}
