package tablemod

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// ParseFile reads a definition, choosing the decoder by extension.
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tablemod: %w", err)
	}
	switch filepath.Ext(path) {
	case ".cue":
		return ParseCUE(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	default:
		return nil, &DefinitionError{File: path, Message: "unsupported definition format"}
	}
}

var yamlLine = regexp.MustCompile(`line (\d+):`)

// ParseYAML decodes a YAML definition. Unknown fields are rejected.
func ParseYAML(data []byte, filename string) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DefinitionError{File: filename, Message: "empty definition"}
		}
		de := &DefinitionError{File: filename, Message: err.Error()}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			de.Line, _ = strconv.Atoi(m[1])
			de.Column = 1
		}
		return nil, de
	}
	return &def, nil
}

// ParseCUE evaluates a CUE definition. The value must be concrete; it is
// decoded through its JSON form with unknown fields rejected.
func ParseCUE(data []byte, filename string) (*Definition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueError(filename, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(filename, err)
	}

	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, cueError(filename, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, &DefinitionError{File: filename, Message: err.Error()}
	}
	return &def, nil
}

func cueError(filename string, err error) *DefinitionError {
	de := &DefinitionError{File: filename, Message: strings.TrimSpace(cueerrors.Details(err, nil))}
	for _, pos := range cueerrors.Positions(err) {
		if pos.IsValid() {
			de.Line, de.Column = pos.Line(), pos.Column()
			break
		}
	}
	return de
}
