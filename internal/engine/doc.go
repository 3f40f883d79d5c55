// Package engine synthesizes one testcase from a set of loaded modules.
//
// ARCHITECTURE:
//
// State Machine:
//
//	Idle ──Run──► Initializing ──► Generating ──► Finishing ──► Done
//
// Initializing runs every module's Init once, in Set order (dependencies
// first). Generating runs MainSteps steps; each step draws a module by
// weight and asks it for fragments. Finishing runs every Finish in Set
// order, then the reload directive is appended. An Engine runs once; create
// a new one per testcase.
//
// Wrapping:
// Every main-step fragment draws Number(16) to pick a wrapping policy:
//
//	0        setInterval(function() { ... }, n)   n in [0, 100)
//	1        setTimeout(function() { ... }, n)    n in [0, 1000), added to the reload budget
//	2        <target>.addEventListener("evt", function(e) { <1-6 sub-commands> })
//	3..15    the fragment as is
//
// A policy disabled in Preferences drops the fragment. Sub-command bodies are
// drawn the same way as main steps and are wrapped again only while the
// nesting depth stays below MaxDepth.
//
// Sink:
// Every fragment is optionally wrapped in try/catch, appended to the
// testcase and executed against the environment in that order, so a handle
// created by fragment N is visible to the step producing fragment N+1.
//
// CRITICAL PATTERNS:
//
// Determinism: every draw, including timer delays and registry picks, comes
// from the run's random.Source. Same seed, modules, preferences and host
// behavior produce the same testcase.
//
// Failure isolation: a module phase that errors or panics is a StepError.
// Its fragments are discarded and the run continues.
package engine
