// Package random provides the seeded bit source and the weighted selection
// primitives every producer table is resolved through.
//
// ARCHITECTURE:
//
// Source wraps a 32-bit Mersenne Twister (MT19937). The generator is seeded
// with the 69069 linear recurrence used by the browser harness, so
// a seed recorded in an old console log reproduces the same draw sequence
// here.
//
// All selection primitives (Range, Chance, Pick, Choose, Subset) are pure
// functions of the Source state at call time. Two Sources created with the
// same seed and driven through the same sequence of calls return identical
// values.
//
// Producer is the tagged union that replaces duck-typed value tables:
//
//	Literal("42")                            // terminal value
//	Generator(func(*Source) Producer {...})  // invoked on every Pick
//	OneOf(a, b, c)                           // uniform choice, resolved recursively
//
// Pick resolves a Producer one step at a time until a Literal is reached.
//
// CRITICAL: A Source is not safe for concurrent use. The engine owns exactly
// one Source per run and every draw happens on the generation goroutine.
package random
