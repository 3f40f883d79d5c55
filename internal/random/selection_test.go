package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseValue_EqualWeightsNoStarvation(t *testing.T) {
	for _, seed := range []int64{31337, 0, 1 << 32} {
		s := New(seed)
		entries := []Weighted[string]{W(1, "a"), W(1, "b")}

		counts := map[string]int{}
		for i := 0; i < 1000; i++ {
			v, err := ChooseValue(s, entries)
			require.NoError(t, err)
			counts[v]++
		}
		assert.Positive(t, counts["a"], "seed %d", seed)
		assert.Positive(t, counts["b"], "seed %d", seed)
		assert.Equal(t, 1000, counts["a"]+counts["b"])
	}
}

func TestChooseValue_ZeroWeightUnreachable(t *testing.T) {
	s := New(12)
	entries := []Weighted[string]{W(0, "never"), W(3, "often"), W(0, "also-never")}
	for i := 0; i < 500; i++ {
		v, err := ChooseValue(s, entries)
		require.NoError(t, err)
		require.Equal(t, "often", v)
	}
}

func TestChooseValue_AllZeroReturnsFirst(t *testing.T) {
	s := New(12)
	v, err := ChooseValue(s, []Weighted[int]{W(0, 7), W(0, 8)})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestChooseValue_Empty(t *testing.T) {
	_, err := ChooseValue[string](New(1), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestChooseValue_ReturnsRawValue(t *testing.T) {
	// The flattened form must not resolve producers.
	s := New(4)
	p := Strings("x", "y")
	v, err := ChooseValue(s, []Weighted[Producer]{W(1, p)})
	require.NoError(t, err)
	assert.Equal(t, KindOneOf, v.Kind())
}

func TestChoose_ResolvesThroughPick(t *testing.T) {
	s := New(4)
	entries := []Weighted[Producer]{
		W(1, Strings("x", "y")),
		W(1, Func(func(*Source) string { return "z" })),
	}
	for i := 0; i < 200; i++ {
		v := s.Choose(entries)
		require.Contains(t, []string{"x", "y", "z"}, v)
	}
	assert.Equal(t, "", s.Choose(nil))
}

func TestChoose_WeightProportions(t *testing.T) {
	s := New(555)
	entries := []Weighted[Producer]{W(3, Literal("heavy")), W(1, Literal("light"))}
	counts := map[string]int{}
	for i := 0; i < 4000; i++ {
		counts[s.Choose(entries)]++
	}
	assert.InDelta(t, 3000, counts["heavy"], 250)
}

func TestSubset(t *testing.T) {
	s := New(21)
	list := []Producer{Literal("a"), Literal("b"), Literal("c")}

	got := s.Subset(list, 5)
	assert.Len(t, got, 5, "draws are with replacement")
	for _, v := range got {
		assert.Contains(t, []string{"a", "b", "c"}, v)
	}

	for i := 0; i < 100; i++ {
		n := len(s.Subset(list, -1))
		require.GreaterOrEqual(t, n, 0)
		require.LessOrEqual(t, n, 3)
	}

	assert.Empty(t, s.Subset(nil, 3))
}

func TestUse(t *testing.T) {
	s := New(6)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[s.Use(Literal("v"))] = true
	}
	assert.True(t, seen["v"])
	assert.True(t, seen[""])
}
