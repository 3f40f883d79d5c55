// Package config loads generation campaigns from YAML.
//
// A campaign names the modules to load, how many testcases to generate and
// the engine preferences. Fields absent from the file keep their defaults;
// unknown fields are rejected. Loading does not validate: callers apply
// their overrides first, then call Validate.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/framboise/internal/engine"
	"github.com/roach88/framboise/internal/module"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is one generation campaign.
type Config struct {
	// Seed is nil when each run should seed from the clock.
	Seed        *int64             `yaml:"seed"`
	Count       int                `yaml:"count"`
	Modules     ModuleList         `yaml:"modules"`
	ModuleDir   string             `yaml:"module_dir"`
	Preferences engine.Preferences `yaml:"preferences"`
	Database    string             `yaml:"database"`
}

// Default returns a campaign of one testcase with the default engine
// preferences. Modules is empty and must be filled in.
func Default() Config {
	return Config{
		Count:       1,
		Preferences: engine.DefaultPreferences(),
	}
}

// Load reads the campaign at path on top of Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML campaign on top of Default. An empty document yields
// Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks counts, seeds, module requests and preferences.
func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("%w: count must be >= 1, got %d", ErrInvalidConfig, c.Count)
	}
	if c.Seed != nil && *c.Seed > math.MaxInt64-int64(c.Count-1) {
		return fmt.Errorf("%w: seed %d leaves no room for %d consecutive seeds", ErrInvalidConfig, *c.Seed, c.Count)
	}
	if len(c.Modules) == 0 {
		return fmt.Errorf("%w: no modules requested", ErrInvalidConfig)
	}
	for i, m := range c.Modules {
		if m.Name == "" {
			return fmt.Errorf("%w: modules[%d] has no name", ErrInvalidConfig, i)
		}
		if m.Weight < 0 {
			return fmt.Errorf("%w: module %s has negative weight %d", ErrInvalidConfig, m.Name, m.Weight)
		}
	}
	if err := c.Preferences.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// SeedFor returns the seed of the i-th testcase (0-based) of the campaign.
// Consecutive testcases use consecutive seeds; ok is false when the
// campaign is clock seeded. A negative seed requests unseeded runs and is
// returned unchanged for every testcase.
func (c Config) SeedFor(i int) (seed int64, ok bool) {
	switch {
	case c.Seed == nil:
		return 0, false
	case *c.Seed < 0:
		return *c.Seed, true
	}
	return *c.Seed + int64(i), true
}

// ModuleList is the modules field of a campaign. It accepts a "w:Name"
// list string, or a sequence whose items are either such strings or
// {name, weight} mappings. A mapping without weight has weight 1.
type ModuleList []module.Request

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *ModuleList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		reqs, err := ParseModuleList(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*l = reqs
		return nil
	case yaml.SequenceNode:
	default:
		return fmt.Errorf("line %d: modules must be a list", node.Line)
	}

	var out ModuleList
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			reqs, err := ParseModuleList(item.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			out = append(out, reqs...)
		case yaml.MappingNode:
			for i := 0; i+1 < len(item.Content); i += 2 {
				if k := item.Content[i]; k.Value != "name" && k.Value != "weight" {
					return fmt.Errorf("line %d: field %s not found in module entry", k.Line, k.Value)
				}
			}
			var entry struct {
				Name   string `yaml:"name"`
				Weight *int   `yaml:"weight"`
			}
			if err := item.Decode(&entry); err != nil {
				return err
			}
			weight := 1
			if entry.Weight != nil {
				weight = *entry.Weight
			}
			out = append(out, module.Request{Name: entry.Name, Weight: weight})
		default:
			return fmt.Errorf("line %d: module entry must be a string or a mapping", item.Line)
		}
	}
	*l = out
	return nil
}

// ParseModuleList parses the command line "weight:Name" module list.
func ParseModuleList(text string) (ModuleList, error) {
	reqs, err := module.ParseRequests(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return reqs, nil
}
