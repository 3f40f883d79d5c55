package engine

import (
	"encoding/json"
	"fmt"
)

// Preferences configure one run.
//
// ReloadTimeout is the floor of the reload budget in milliseconds. During a
// run the engine adds every timeout delay to it; read the final value with
// Engine.ReloadTimeout.
type Preferences struct {
	MainSteps     int  `yaml:"main_steps" json:"main_steps"`
	ReloadTimeout int  `yaml:"reload_timeout" json:"reload_timeout"`
	Timeout       bool `yaml:"timeout" json:"timeout"`
	Interval      bool `yaml:"interval" json:"interval"`
	Events        bool `yaml:"events" json:"events"`
	TryCatch      bool `yaml:"try_catch" json:"try_catch"`
	// MaxDepth bounds how deep fragments are wrapped. 1 wraps main-step
	// fragments only; 0 disables wrapping altogether.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
}

// DefaultMainSteps is the number of main steps of a default run.
const DefaultMainSteps = 30

// DefaultPreferences returns every wrapper enabled, try/catch on, 30 main
// steps and a zero reload floor.
func DefaultPreferences() Preferences {
	return Preferences{
		MainSteps: DefaultMainSteps,
		Timeout:   true,
		Interval:  true,
		Events:    true,
		TryCatch:  true,
		MaxDepth:  1,
	}
}

// Validate rejects negative counts.
func (p Preferences) Validate() error {
	switch {
	case p.MainSteps < 0:
		return fmt.Errorf("%w: main_steps must be >= 0, got %d", ErrInvalidPreferences, p.MainSteps)
	case p.ReloadTimeout < 0:
		return fmt.Errorf("%w: reload_timeout must be >= 0, got %d", ErrInvalidPreferences, p.ReloadTimeout)
	case p.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth must be >= 0, got %d", ErrInvalidPreferences, p.MaxDepth)
	}
	return nil
}

// MarshalPreferences returns the JSON form stored with testcases.
func MarshalPreferences(p Preferences) json.RawMessage {
	// A struct of ints and bools always encodes.
	data, _ := json.Marshal(p)
	return data
}

// UnmarshalPreferences decodes stored preferences. Fields missing from data
// keep their default values.
func UnmarshalPreferences(data []byte) (Preferences, error) {
	p := DefaultPreferences()
	if len(data) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	return p, p.Validate()
}
