package module

import (
	"fmt"
	"sort"
)

// Factory constructs a fresh Module instance for one run.
type Factory func() (Module, error)

// Source resolves module names to factories.
type Source interface {
	Lookup(name string) (Factory, bool)
	Names() []string
}

// Catalog is the in-process lookup table of module factories.
//
// Further Sources can be chained behind the catalog; lookups try the
// catalog's own factories first, then each chained Source in order.
type Catalog struct {
	factories map[string]Factory
	chained   []Source
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
// Returns ErrDuplicate when name is already registered.
func (c *Catalog) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("module: register: empty name")
	}
	if f == nil {
		return fmt.Errorf("module: register %s: nil factory", name)
	}
	if _, ok := c.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	c.factories[name] = f
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (c *Catalog) MustRegister(name string, f Factory) {
	if err := c.Register(name, f); err != nil {
		panic(err)
	}
}

// Chain appends src to the lookup chain.
func (c *Catalog) Chain(src Source) {
	if src != nil {
		c.chained = append(c.chained, src)
	}
}

// Lookup implements Source.
func (c *Catalog) Lookup(name string) (Factory, bool) {
	if f, ok := c.factories[name]; ok {
		return f, true
	}
	for _, src := range c.chained {
		if f, ok := src.Lookup(name); ok {
			return f, true
		}
	}
	return nil, false
}

// Names implements Source. Names are sorted and unique.
func (c *Catalog) Names() []string {
	seen := make(map[string]bool)
	for n := range c.factories {
		seen[n] = true
	}
	for _, src := range c.chained {
		for _, n := range src.Names() {
			seen[n] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
