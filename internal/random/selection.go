package random

import (
	"fmt"
	"math"
	"sort"
)

// Range returns an integer in [lo, hi] inclusive.
//
// Returns ErrInvalidArgument when either bound is NaN or infinite. Reversed
// bounds are swapped.
func (s *Source) Range(lo, hi float64) (int, error) {
	if !finite(lo) || !finite(hi) {
		return 0, fmt.Errorf("%w: Range(%v, %v) received a non-finite bound", ErrInvalidArgument, lo, hi)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return int(math.Floor(s.Float64()*(hi-lo+1) + lo)), nil
}

// IntRange is Range for integer bounds, which can never be invalid.
func (s *Source) IntRange(lo, hi int) int {
	v, _ := s.Range(float64(lo), float64(hi))
	return v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Chance reports true when Number(n) == 1: exactly one of n outcomes wins.
//
// Chance(1) and Chance(n <= 0) are never true.
func (s *Source) Chance(n int) bool {
	return s.Number(n) == 1
}

// ChanceDefault is Chance(2).
func (s *Source) ChanceDefault() bool {
	return s.Chance(2)
}

// Bool returns true or false with equal probability.
func (s *Source) Bool() bool {
	return s.Number(2) == 0
}

// Index returns a uniformly drawn index into a list of length n, or -1 when
// the list is empty.
func (s *Source) Index(n int) int {
	if n <= 0 {
		return -1
	}
	return s.Number(n)
}

// Key returns a uniformly drawn key of m. Keys are sorted first so the draw
// does not depend on map iteration order. Returns "" for an empty map.
func Key[V any](s *Source, m map[string]V) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[s.Number(len(keys))]
}

// Weighted is a single [weight, value] entry of a weighted list.
type Weighted[T any] struct {
	Weight int
	Value  T
}

// W is shorthand for building a Weighted entry.
func W[T any](weight int, value T) Weighted[T] {
	return Weighted[T]{Weight: weight, Value: value}
}

// ChooseValue draws one entry from a weighted list and returns its raw
// value without any further resolution.
//
// A number n is drawn from [0, total) and the list is walked until the
// running total exceeds n. Weight 0 (and negative weights) are unreachable.
// If the walk exhausts the list, the first entry is returned.
//
// Returns ErrInvalidArgument for an empty list.
func ChooseValue[T any](s *Source, entries []Weighted[T]) (T, error) {
	var zero T
	if len(entries) == 0 {
		return zero, fmt.Errorf("%w: ChooseValue received an empty list", ErrInvalidArgument)
	}
	return entries[chooseIndex(s, entries)].Value, nil
}

func chooseIndex[T any](s *Source, entries []Weighted[T]) int {
	total := 0
	for _, e := range entries {
		total += max(e.Weight, 0)
	}

	n := s.Number(total)
	for i, e := range entries {
		w := max(e.Weight, 0)
		if n < w {
			return i
		}
		n -= w
	}
	return 0
}

// Choose draws from a weighted producer list and resolves the chosen value
// through Pick. An empty list resolves to "".
func (s *Source) Choose(entries []Weighted[Producer]) string {
	if len(entries) == 0 {
		return ""
	}
	return s.Pick(entries[chooseIndex(s, entries)].Value)
}

// Subset returns limit values drawn with replacement from list, each
// resolved through Pick. A negative limit draws the count from [0, len].
func (s *Source) Subset(list []Producer, limit int) []string {
	if limit < 0 {
		limit = s.IntRange(0, len(list))
	}
	if len(list) == 0 {
		return nil
	}
	result := make([]string, 0, limit)
	all := OneOf(list...)
	for i := 0; i < limit; i++ {
		result = append(result, s.Pick(all))
	}
	return result
}

// Use returns the resolved value half of the time and "" otherwise.
func (s *Source) Use(p Producer) string {
	if s.Bool() {
		return s.Pick(p)
	}
	return ""
}
