package testcase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/framboise/internal/module"
)

func TestAppendSkipsEmptyFragments(t *testing.T) {
	tc := &Testcase{}
	tc.Append("a();", "", "b();")
	tc.Append()

	assert.Equal(t, []string{"a();", "b();"}, tc.Fragments())
	assert.Equal(t, 2, tc.Len())
	assert.Equal(t, "b();", tc.Last())
	assert.Equal(t, "a();\nb();", tc.String())
}

func TestFragmentsReturnsCopy(t *testing.T) {
	tc := &Testcase{}
	tc.Append("a();")

	got := tc.Fragments()
	got[0] = "mutated"

	assert.Equal(t, "a();", tc.Fragments()[0])
}

func TestEmptyTestcase(t *testing.T) {
	tc := &Testcase{}
	assert.Equal(t, "", tc.Last())
	assert.Equal(t, "", tc.String())
	assert.Empty(t, tc.Fragments())
}

func TestHeaderAndScript(t *testing.T) {
	tc := &Testcase{Seed: 7, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	tc.Append("a();")

	assert.Equal(t, []string{"/* Date: 2024-01-02T03:04:05Z */", "/* Seed: 7 */"}, tc.Header())
	assert.Equal(t, "/* Date: 2024-01-02T03:04:05Z */\n/* Seed: 7 */\na();\n", tc.Script())
}

func TestHashKnownValue(t *testing.T) {
	tc := &Testcase{Seed: 42, Modules: []module.Request{{Name: "Canvas2D", Weight: 2}}}
	tc.Append("a();")

	h, err := tc.Hash()
	assert.NoError(t, err)
	assert.Equal(t, "ceaea8d89b7bf89a3a6b7a3b5ee683ca8c7514a329685047f6ee56b05c2cdc6c", h)
	assert.Equal(t, h, tc.ID())
}

func TestHashIgnoresMetadata(t *testing.T) {
	a := &Testcase{Seed: 1, RunID: "run-a", Seq: 1, CreatedAt: time.Unix(0, 0)}
	b := &Testcase{Seed: 1, RunID: "run-b", Seq: 9, CreatedAt: time.Unix(1000, 0)}
	a.Append("x();")
	b.Append("x();")

	assert.Equal(t, a.ID(), b.ID())
}

func TestHashCoversContent(t *testing.T) {
	base := func() *Testcase {
		tc := &Testcase{Seed: 1, Modules: []module.Request{{Name: "Selection", Weight: 1}}}
		tc.Append("x();")
		return tc
	}

	seed := base()
	seed.Seed = 2
	frag := base()
	frag.Append("y();")
	weight := base()
	weight.Modules[0].Weight = 3

	ref := base().ID()
	assert.NotEqual(t, ref, seed.ID())
	assert.NotEqual(t, ref, frag.ID())
	assert.NotEqual(t, ref, weight.ID())
}

func TestHashNormalizesUnicode(t *testing.T) {
	composed := &Testcase{}
	composed.Append("s = \"\u00e9\";")
	decomposed := &Testcase{}
	decomposed.Append("s = \"e\u0301\";")

	assert.Equal(t, composed.ID(), decomposed.ID())
}
