// Package module defines the contract every pluggable generator satisfies
// and the loader that turns a weighted list of module names into a ready
// Set.
//
// A Module exposes three fragment-producing phases:
//
//	Init   - called once, in Set order, before any main step
//	Step   - called for every main step the module is drawn for
//	Finish - called once, in Set order, after the last main step
//
// Optional capabilities are discovered through interface assertions:
//
//	EventSource - object-category events and global (window) events the
//	              engine may wrap fragments into listeners for
//	Dependent   - module names that must be loaded first
//
// Modules are registered by name in a Catalog as Factories. Loading is
// dependency injection: the Loader instantiates each requested module,
// resolves its dependencies depth first (tolerating missing ones), and
// produces a Set where every dependency precedes its dependents.
//
// ERROR HANDLING: a module or dependency that fails to load is logged and
// excluded. Load only fails when none of the requested modules loaded
// (ErrNoModules).
package module
