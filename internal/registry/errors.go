package registry

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every LookupError.
var ErrNotFound = errors.New("registry: category not available")

// LookupError reports a read from a category without live handles.
type LookupError struct {
	Category string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("registry: pick(%s): %s is undefined", e.Category, e.Category)
}

// Is makes errors.Is(err, ErrNotFound) true for any LookupError.
func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound
}

// IsLookupError reports whether err is (or wraps) a LookupError.
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}
