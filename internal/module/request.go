package module

import (
	"fmt"
	"strconv"
	"strings"
)

// Request asks the loader for a module drawn with the given weight.
type Request struct {
	Name   string `yaml:"name" json:"name"`
	Weight int    `yaml:"weight" json:"weight"`
}

// String renders r in the "weight:Name" list syntax.
func (r Request) String() string {
	return strconv.Itoa(r.Weight) + ":" + r.Name
}

// ParseRequests parses a comma separated "weight:Name" list, for example
// "2:Canvas2D,1:Selection". A bare "Name" has weight 1.
func ParseRequests(text string) ([]Request, error) {
	var reqs []Request
	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		weight, name, found := strings.Cut(item, ":")
		if !found {
			reqs = append(reqs, Request{Name: item, Weight: 1})
			continue
		}
		w, err := strconv.Atoi(strings.TrimSpace(weight))
		if err != nil {
			return nil, fmt.Errorf("module list: invalid weight in %q: %w", item, err)
		}
		if w < 0 {
			return nil, fmt.Errorf("module list: negative weight in %q", item)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("module list: missing name in %q", item)
		}
		reqs = append(reqs, Request{Name: name, Weight: w})
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("module list: no modules in %q", text)
	}
	return reqs, nil
}

// FormatRequests is the inverse of ParseRequests.
func FormatRequests(reqs []Request) string {
	parts := make([]string, len(reqs))
	for i, r := range reqs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}
