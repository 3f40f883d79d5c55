// Package sample is the smallest module: a template showing the contract.
// Copy it to start a new module.
package sample

import "github.com/roach88/framboise/internal/module"

// Name is the catalog name.
const Name = "Sample"

// Sample emits nothing in every phase.
type Sample struct {
	module.Base
	steps int
}

// New is the module.Factory for Sample.
func New() (module.Module, error) {
	return &Sample{}, nil
}

// Name implements module.Module.
func (*Sample) Name() string { return Name }

// Step counts calls and returns no fragments.
func (m *Sample) Step(*module.Scope) ([]string, error) {
	m.steps++
	return nil, nil
}

// Steps returns how many times Step ran.
func (m *Sample) Steps() int { return m.steps }

// Events implements module.EventSource with an empty table.
func (*Sample) Events() map[string][]string { return map[string][]string{} }

// WindowEvents implements module.EventSource.
func (*Sample) WindowEvents() []string { return nil }
