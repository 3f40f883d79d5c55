// Package registry tracks the named handles a testcase has created in the
// host environment.
//
// A handle is a weak reference: the registry stores only the symbolic name
// (for example "o12") and the category it was created under. The host owns
// the value. Since host objects can die at any time (removed elements,
// collected buffers, closed contexts), every read revalidates the category
// first by asking the Resolver what the name currently resolves to. Handles
// that fail to resolve, or resolve to nil, are dropped.
//
// Revalidation is lazy and best-effort. A handle can still go stale between
// the check and the moment the generated fragment runs.
//
// Thread-safety: Registry is NOT safe for concurrent use. It is owned by a
// single engine run.
package registry
