package tablemod

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the decoded form of a module definition file.
type Definition struct {
	Name         string                  `yaml:"name" json:"name"`
	Dependencies []string                `yaml:"dependencies" json:"dependencies"`
	WindowEvents []string                `yaml:"window_events" json:"window_events"`
	Values       map[string]Alternatives `yaml:"values" json:"values"`
	Objects      []Object                `yaml:"objects" json:"objects"`
	Init         []string                `yaml:"init" json:"init"`
	Finish       []string                `yaml:"finish" json:"finish"`
}

// Object describes one category of handles.
type Object struct {
	Category    string                    `yaml:"category" json:"category"`
	Constructor Alternatives              `yaml:"constructor" json:"constructor"`
	Methods     map[string][]Alternatives `yaml:"methods" json:"methods"`
	Attributes  map[string]Alternatives   `yaml:"attributes" json:"attributes"`
	Events      []string                  `yaml:"events" json:"events"`
}

// Alternatives is a list of interchangeable argument spellings. A scalar
// decodes as a list of one.
type Alternatives []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (a *Alternatives) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = Alternatives{node.Value}
		return nil
	case yaml.SequenceNode:
		out := make(Alternatives, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: alternative must be a scalar", item.Line)
			}
			out = append(out, item.Value)
		}
		*a = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a scalar or a list of scalars", node.Line)
	}
}

// UnmarshalJSON accepts a string, number or boolean, or a list of them.
// Non-string scalars keep their JSON spelling.
func (a *Alternatives) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "[") {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(Alternatives, 0, len(raw))
		for _, r := range raw {
			s, err := scalarJSON(r)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		*a = out
		return nil
	}
	s, err := scalarJSON(data)
	if err != nil {
		return err
	}
	*a = Alternatives{s}
	return nil
}

func scalarJSON(data json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(text, `"`):
		var s string
		err := json.Unmarshal(data, &s)
		return s, err
	case strings.HasPrefix(text, "[") || strings.HasPrefix(text, "{") || text == "null":
		return "", fmt.Errorf("alternative must be a scalar, got %s", text)
	default:
		return text, nil
	}
}
