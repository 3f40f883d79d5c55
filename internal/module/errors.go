package module

import (
	"errors"
	"fmt"
)

// ErrNoModules is returned by Load when none of the requested modules
// could be loaded.
var ErrNoModules = errors.New("module: no modules loaded")

// ErrUnknownModule is wrapped by LoadError when no factory is registered
// under the requested name.
var ErrUnknownModule = errors.New("module: unknown module")

// ErrDuplicate is returned by Catalog.Register for a name already taken.
var ErrDuplicate = errors.New("module: already registered")

// LoadError reports a module (or dependency) that could not be loaded.
type LoadError struct {
	// Module is the name that failed to load.
	Module string
	// RequiredBy names the dependent module when Module was loaded as a
	// dependency. Empty for directly requested modules.
	RequiredBy string
	Err        error
}

func (e *LoadError) Error() string {
	if e.RequiredBy != "" {
		return fmt.Sprintf("module %s (required by %s): %v", e.Module, e.RequiredBy, e.Err)
	}
	return fmt.Sprintf("module %s: %v", e.Module, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
