package registry

import (
	"math/rand/v2"
	"sort"
	"strconv"
)

// Resolver asks the host environment what a handle name refers to.
//
// A handle is considered dead when Resolve returns an error or a nil value.
type Resolver interface {
	Resolve(name string) (any, error)
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(name string) (any, error)

// Resolve calls f(name).
func (f ResolverFunc) Resolve(name string) (any, error) {
	return f(name)
}

// Handle is one registry entry.
type Handle struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

// Registry maps categories to insertion-ordered handle lists.
//
// INVARIANTS:
//   - a category with zero handles is the same as an absent one
//   - every read revalidates the category it touches
//   - auto-generated names are unique ("o" + counter); the counter advances on
//     every Add, even when the caller supplies the name
type Registry struct {
	resolver  Resolver
	counter   int
	container map[string][]Handle
	order     []string // categories in first-seen order
	randIndex func(n int) int
}

// Option configures a Registry.
type Option func(*Registry)

// WithIndexer sets the function Pick uses to draw a uniform index in
// [0, n). The engine passes its seeded Source so picks are reproducible;
// without it Pick draws from math/rand.
func WithIndexer(fn func(n int) int) Option {
	return func(r *Registry) {
		r.randIndex = fn
	}
}

// New creates an empty Registry validated against resolver.
// A nil resolver treats every handle as live.
func New(resolver Resolver, opts ...Option) *Registry {
	r := &Registry{
		resolver:  resolver,
		container: make(map[string][]Handle),
		randIndex: rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a handle under category and returns its name. An empty name
// is replaced by the next auto-generated one.
func (r *Registry) Add(category, name string) string {
	if name == "" {
		name = "o" + strconv.Itoa(r.counter)
	}
	if _, ok := r.container[category]; !ok {
		r.order = append(r.order, category)
	}
	r.container[category] = append(r.container[category], Handle{Category: category, Name: name})
	r.counter++
	return name
}

// Counter returns the number of Add calls so far.
func (r *Registry) Counter() int {
	return r.counter
}

// Pick returns a uniformly drawn live handle name from category.
// Returns a *LookupError when the category has no live handle.
func (r *Registry) Pick(category string) (string, error) {
	handles := r.live(category)
	if len(handles) == 0 {
		return "", &LookupError{Category: category}
	}
	return handles[r.randIndex(len(handles))].Name, nil
}

// PickLast returns the most recently added live handle name in category.
func (r *Registry) PickLast(category string) (string, error) {
	handles := r.live(category)
	if len(handles) == 0 {
		return "", &LookupError{Category: category}
	}
	return handles[len(handles)-1].Name, nil
}

// Has reports whether category holds at least one live handle.
func (r *Registry) Has(category string) bool {
	return len(r.live(category)) > 0
}

// Contains returns the subset of categories holding a live handle, in the
// order given, or nil when none do.
func (r *Registry) Contains(categories []string) []string {
	var found []string
	for _, c := range categories {
		if r.Has(c) {
			found = append(found, c)
		}
	}
	return found
}

// Count returns the number of live handles in category.
func (r *Registry) Count(category string) int {
	return len(r.live(category))
}

// Show returns a copy of the live handles in category.
func (r *Registry) Show(category string) []Handle {
	handles := r.live(category)
	if len(handles) == 0 {
		return nil
	}
	out := make([]Handle, len(handles))
	copy(out, handles)
	return out
}

// All revalidates every category and returns a copy of the whole registry.
// Categories without live handles are omitted.
func (r *Registry) All() map[string][]Handle {
	out := make(map[string][]Handle)
	for _, c := range r.order {
		if handles := r.Show(c); len(handles) > 0 {
			out[c] = handles
		}
	}
	return out
}

// Categories returns every category holding a live handle, sorted.
func (r *Registry) Categories() []string {
	var cats []string
	for c := range r.All() {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Valid revalidates every category and returns each live handle name in
// category first-seen order, then insertion order.
func (r *Registry) Valid() []string {
	var names []string
	for _, c := range r.order {
		for _, h := range r.live(c) {
			names = append(names, h.Name)
		}
	}
	return names
}

// Pop removes every handle called name, whichever category holds it.
func (r *Registry) Pop(name string) {
	for _, c := range r.order {
		handles := r.container[c]
		kept := handles[:0]
		for _, h := range handles {
			if h.Name != name {
				kept = append(kept, h)
			}
		}
		r.container[c] = kept
	}
}

// Check revalidates category against the resolver, dropping dead handles.
func (r *Registry) Check(category string) {
	handles, ok := r.container[category]
	if !ok || r.resolver == nil {
		return
	}
	var dead []string
	for _, h := range handles {
		if !r.alive(h.Name) {
			dead = append(dead, h.Name)
		}
	}
	for _, name := range dead {
		r.Pop(name)
	}
}

func (r *Registry) alive(name string) bool {
	v, err := r.resolver.Resolve(name)
	return err == nil && v != nil
}

// live revalidates category and returns its backing slice.
func (r *Registry) live(category string) []Handle {
	r.Check(category)
	return r.container[category]
}
