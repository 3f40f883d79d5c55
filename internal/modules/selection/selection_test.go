package selection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/random"
	"github.com/roach88/framboise/internal/registry"
)

func newScope(seed int64) *module.Scope {
	src := random.New(seed)
	return &module.Scope{Rand: src, Objects: registry.New(nil, registry.WithIndexer(src.Number))}
}

func TestInit(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	scope := newScope(5)

	frags, err := m.Init(scope)
	require.NoError(t, err)
	require.Len(t, frags, 6)

	assert.Equal(t, `o0 = document.createElement("input");`, frags[0])
	assert.True(t, strings.HasPrefix(frags[1], `o0.setAttribute("value", "`), frags[1])
	assert.Equal(t, "document.body.appendChild(o0);", frags[2])
	assert.Equal(t, "o1 = document.getSelection();", frags[4])
	assert.Equal(t, "o2 = o1.getRangeAt(0);", frags[5])

	assert.Equal(t, 1, scope.Objects.Count(CategorySelection))
	assert.Equal(t, 1, scope.Objects.Count(CategoryRange))
}

func TestStepCallsSelectionMethods(t *testing.T) {
	m, _ := New()
	scope := newScope(5)
	_, err := m.Init(scope)
	require.NoError(t, err)

	ranges := scope.Objects.Count(CategoryRange)
	extra := 0
	for i := 0; i < 300; i++ {
		frags, err := m.Step(scope)
		require.NoError(t, err)
		require.NotEmpty(t, frags)
		assert.True(t, strings.HasPrefix(frags[0], "o1."), frags[0])
		assert.True(t, strings.HasSuffix(frags[0], ");"), frags[0])
		if len(frags) == 2 && strings.Contains(frags[1], ".getRangeAt(") {
			extra++
		}
	}
	assert.Positive(t, extra)
	assert.Equal(t, ranges+extra, scope.Objects.Count(CategoryRange))
}

func TestStepWithoutSelectionFails(t *testing.T) {
	m, _ := New()
	_, err := m.Step(newScope(5))
	assert.True(t, registry.IsLookupError(err))
}

func TestFinishIsEmpty(t *testing.T) {
	m, _ := New()
	frags, err := m.Finish(newScope(1))
	assert.NoError(t, err)
	assert.Empty(t, frags)
}
