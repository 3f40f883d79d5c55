package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/random"
	"github.com/roach88/framboise/internal/script"
)

// Wrapping policies drawn by Number(16).
const (
	policyInterval = 0
	policyTimeout  = 1
	policyEvent    = 2
	policyCount    = 16

	maxIntervalDelay = 100
	maxTimeoutDelay  = 1000
	minSubCommands   = 1
	maxSubCommands   = 6
)

func wrapTryCatch(fragment string) string {
	return script.Safely(fragment)
}

// wrap applies a wrapping policy to a non-empty fragment produced by m.
// It reports false when the fragment is dropped.
func (e *Engine) wrap(m module.Module, fragment string, depth int) (string, bool) {
	if fragment == "" {
		return "", false
	}
	if depth >= e.prefs.MaxDepth {
		return fragment, true
	}

	switch e.src.Number(policyCount) {
	case policyInterval:
		if !e.prefs.Interval {
			return e.drop("interval")
		}
		delay := e.src.Number(maxIntervalDelay)
		return fmt.Sprintf("setInterval(%s, %d)", script.Function(script.Safely(fragment)), delay), true
	case policyTimeout:
		if !e.prefs.Timeout {
			return e.drop("timeout")
		}
		delay := e.src.Number(maxTimeoutDelay)
		e.reload += delay
		return fmt.Sprintf("setTimeout(%s, %d)", script.Function(script.Safely(fragment)), delay), true
	case policyEvent:
		if !e.prefs.Events {
			return e.drop("events")
		}
		return e.listener(m, depth)
	default:
		return fragment, true
	}
}

func (e *Engine) drop(policy string) (string, bool) {
	e.dropped++
	e.logger.Debug("fragment dropped", "policy", policy, "step", e.step)
	return "", false
}

// listener renders an addEventListener call on a live handle of one of m's
// object categories or on the window. The choice between the two is
// uniform when both are possible.
func (e *Engine) listener(m module.Module, depth int) (string, bool) {
	es, ok := m.(module.EventSource)
	if !ok {
		return e.drop("events: none declared")
	}

	var (
		target   string
		events   []string
		objectOK bool
	)
	if byCategory := es.Events(); len(byCategory) > 0 {
		category := random.Key(e.src, byCategory)
		if h, err := e.objects.Pick(category); err == nil && len(byCategory[category]) > 0 {
			target, events, objectOK = h, byCategory[category], true
		}
	}
	window := es.WindowEvents()
	windowOK := len(window) > 0

	switch {
	case objectOK && windowOK:
		if e.src.Bool() {
			target, events = "window", window
		}
	case windowOK:
		target, events = "window", window
	case !objectOK:
		return e.drop("events: no target")
	}

	event := events[e.src.Number(len(events))]
	body := e.subCommands(depth + 1)
	return target + ".addEventListener" + script.MethodHead(script.Quote(event), script.Listener(body)), true
}

// subCommands synthesizes a listener body of 1 to 6 steps drawn the same
// way as main steps.
func (e *Engine) subCommands(depth int) string {
	n := e.src.IntRange(minSubCommands, maxSubCommands)
	var cmds []string
	for i := 0; i < n; i++ {
		m := e.pick()
		for _, fragment := range e.call(m, PhaseStep, depth) {
			if wrapped, ok := e.wrap(m, fragment, depth); ok && wrapped != "" {
				cmds = append(cmds, wrapped)
			}
		}
	}
	return strings.Join(cmds, "\n")
}
