package engine

import (
	"errors"
	"fmt"
)

// ErrEngineUsed is returned by Run on an Engine that already ran.
var ErrEngineUsed = errors.New("engine: already used, create a new engine per testcase")

// ErrInvalidPreferences is returned by Preferences.Validate.
var ErrInvalidPreferences = errors.New("engine: invalid preferences")

// Phase names the module operation a StepError came from.
type Phase string

const (
	PhaseInit   Phase = "init"
	PhaseStep   Phase = "step"
	PhaseFinish Phase = "finish"
)

// StepError records a module phase call that failed. The fragments of that
// call were discarded.
type StepError struct {
	Module string
	Phase  Phase
	// Step is the main-step index, or -1 outside the Generating state.
	Step int
	// Depth is 0 for main steps and greater inside listener bodies.
	Depth int
	Err   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Step >= 0 {
		return fmt.Sprintf("engine: %s %s (step %d, depth %d): %v", e.Module, e.Phase, e.Step, e.Depth, e.Err)
	}
	return fmt.Sprintf("engine: %s %s: %v", e.Module, e.Phase, e.Err)
}

// Unwrap returns the module's error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// PanicError is the Err of a StepError raised by a panicking module.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// IsStepError returns true if err is or wraps a StepError.
func IsStepError(err error) bool {
	var se *StepError
	return errors.As(err, &se)
}

// IsPanic returns true if err wraps a recovered module panic.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
