package testutil

import (
	"fmt"
	"strings"

	"github.com/roach88/framboise/internal/environment"
	"github.com/roach88/framboise/internal/script"
)

// safelyHead and safelyTail surround a fragment wrapped by script.Safely.
var safelyHead, safelyTail, _ = strings.Cut(script.Safely("\x00"), "\x00")

// ScriptedEnv is an environment.Environment that records fragments and
// lets tests decide which handles are live and which fragments fail.
//
// Handles are live once declared or once a fragment of the shape
// "<name> = ..." executed, bare or wrapped by script.Safely. KillAfter schedules a handle to die once a given
// number of fragments executed.
type ScriptedEnv struct {
	live      map[string]bool
	fail      map[string]error
	killAfter map[string]int
	executed  []string
}

// NewScriptedEnv creates an environment where the given names are live.
func NewScriptedEnv(live ...string) *ScriptedEnv {
	e := &ScriptedEnv{
		live:      make(map[string]bool),
		fail:      make(map[string]error),
		killAfter: make(map[string]int),
	}
	for _, name := range live {
		e.live[name] = true
	}
	return e
}

var _ environment.Environment = (*ScriptedEnv)(nil)

// Declare marks name as live.
func (e *ScriptedEnv) Declare(name string) { e.live[name] = true }

// Kill marks name as dead.
func (e *ScriptedEnv) Kill(name string) { delete(e.live, name) }

// KillAfter kills name once n fragments executed.
func (e *ScriptedEnv) KillAfter(name string, n int) { e.killAfter[name] = n }

// FailOn makes Execute return err for fragments containing substr.
func (e *ScriptedEnv) FailOn(substr string, err error) { e.fail[substr] = err }

// Resolve implements registry.Resolver.
func (e *ScriptedEnv) Resolve(name string) (any, error) {
	if !e.live[name] {
		return nil, &environment.ErrUndefined{Name: name}
	}
	return name, nil
}

// Execute implements environment.Environment.
func (e *ScriptedEnv) Execute(fragment string) error {
	e.executed = append(e.executed, fragment)
	for name, n := range e.killAfter {
		if len(e.executed) >= n {
			e.Kill(name)
			delete(e.killAfter, name)
		}
	}
	if name, _, ok := strings.Cut(unwrapSafely(fragment), " = "); ok && isIdentifier(name) {
		e.live[name] = true
	}
	for substr, err := range e.fail {
		if strings.Contains(fragment, substr) {
			return fmt.Errorf("execute %q: %w", fragment, err)
		}
	}
	return nil
}

// Executed returns every fragment passed to Execute.
func (e *ScriptedEnv) Executed() []string {
	out := make([]string, len(e.executed))
	copy(out, e.executed)
	return out
}

func unwrapSafely(fragment string) string {
	inner, ok := strings.CutPrefix(fragment, safelyHead)
	if !ok {
		return fragment
	}
	inner, ok = strings.CutSuffix(inner, safelyTail)
	if !ok {
		return fragment
	}
	return inner
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
