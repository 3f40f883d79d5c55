package tablemod

import (
	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/random"
	"github.com/roach88/framboise/internal/registry"
	"github.com/roach88/framboise/internal/script"
)

// Module is a compiled declarative module. It implements module.Module,
// module.EventSource and module.Dependent.
type Module struct {
	name         string
	deps         []string
	windowEvents []string
	objects      []*object
	init         []string
	finish       []string

	// registry of the current run, read by $object references.
	current *registry.Registry
}

type object struct {
	category    string
	constructor *random.Producer
	methods     script.Methods
	attributes  script.Attributes
	events      []string
}

var (
	_ module.Module      = (*Module)(nil)
	_ module.EventSource = (*Module)(nil)
	_ module.Dependent   = (*Module)(nil)
)

// Name implements module.Module.
func (m *Module) Name() string { return m.name }

// Dependencies implements module.Dependent.
func (m *Module) Dependencies() []string { return m.deps }

// WindowEvents implements module.EventSource.
func (m *Module) WindowEvents() []string { return m.windowEvents }

// Events implements module.EventSource. Only categories declaring events
// are listed.
func (m *Module) Events() map[string][]string {
	out := make(map[string][]string)
	for _, o := range m.objects {
		if len(o.events) > 0 {
			out[o.category] = o.events
		}
	}
	return out
}

// Categories returns the declared object categories in declaration order.
func (m *Module) Categories() []string {
	out := make([]string, len(m.objects))
	for i, o := range m.objects {
		out[i] = o.category
	}
	return out
}

// Init registers one handle per constructible object, followed by the init
// fragments.
func (m *Module) Init(s *module.Scope) ([]string, error) {
	m.current = s.Objects
	var cmds []string
	for _, o := range m.objects {
		if o.constructor != nil {
			cmds = append(cmds, m.create(s, o))
		}
	}
	return append(cmds, m.init...), nil
}

// Step emits one command.
func (m *Module) Step(s *module.Scope) ([]string, error) {
	m.current = s.Objects
	r := s.Rand

	var creatable, live []*object
	for _, o := range m.objects {
		if o.constructor != nil {
			creatable = append(creatable, o)
		}
		if (len(o.methods) > 0 || len(o.attributes) > 0) && s.Objects.Has(o.category) {
			live = append(live, o)
		}
	}

	switch {
	case len(creatable) > 0 && (len(live) == 0 || r.Chance(8)):
		return []string{m.create(s, creatable[r.Number(len(creatable))])}, nil
	case len(live) == 0:
		return nil, nil
	}

	o := live[r.Number(len(live))]
	target, err := s.Objects.Pick(o.category)
	if err != nil {
		return nil, err
	}
	if len(o.attributes) > 0 && (len(o.methods) == 0 || r.Chance(4)) {
		return []string{script.SetAttribute(r, target, o.attributes)}, nil
	}
	return []string{script.MethodCall(r, target, o.methods)}, nil
}

// Finish returns the finish fragments.
func (m *Module) Finish(s *module.Scope) ([]string, error) {
	m.current = s.Objects
	return m.finish, nil
}

func (m *Module) create(s *module.Scope, o *object) string {
	expr := s.Rand.Pick(*o.constructor)
	return script.Assign(s.Objects.Add(o.category, ""), expr)
}

// handle draws a live handle of category from the current run, or "null".
func (m *Module) handle(category string) random.Producer {
	return random.Func(func(*random.Source) string {
		if m.current == nil {
			return "null"
		}
		name, err := m.current.Pick(category)
		if err != nil {
			return "null"
		}
		return name
	})
}
