package tablemod

import (
	"errors"
	"fmt"
)

// ErrNoDefinition is returned when a module directory holds no definition
// file.
var ErrNoDefinition = errors.New("tablemod: no module definition")

// DefinitionError reports a malformed definition file.
type DefinitionError struct {
	File string
	// Line and Column are 0 when the position is unknown.
	Line    int
	Column  int
	Message string
}

func (e *DefinitionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// IsDefinitionError returns true if err is or wraps a DefinitionError.
func IsDefinitionError(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}
