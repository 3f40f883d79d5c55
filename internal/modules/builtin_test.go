package modules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/framboise/internal/engine"
	"github.com/roach88/framboise/internal/environment"
	"github.com/roach88/framboise/internal/module"
)

func TestBuiltinNames(t *testing.T) {
	assert.Equal(t, []string{"Canvas2D", "Sample", "Selection"}, Builtin().Names())
}

func TestBuiltinFactoriesReturnFreshModules(t *testing.T) {
	c := Builtin()
	for _, name := range c.Names() {
		f, ok := c.Lookup(name)
		require.True(t, ok)
		a, err := f()
		require.NoError(t, err)
		b, err := f()
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
		assert.NotSame(t, a, b, name)
	}
}

func TestBuiltinModulesRunUnderEngine(t *testing.T) {
	set, err := module.NewLoader(Builtin(), nil).Load([]module.Request{
		{Name: "Canvas2D", Weight: 2},
		{Name: "Selection", Weight: 1},
		{Name: "Sample", Weight: 1},
	})
	require.NoError(t, err)

	prefs := engine.DefaultPreferences()
	prefs.MainSteps = 200
	e := engine.New(set, environment.NewSimulated(), engine.WithSeed(99), engine.WithPreferences(prefs))
	tc, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Greater(t, tc.Len(), 100)
	assert.Empty(t, e.Errors(), "every builtin step has its handles under a live host")
	assert.Equal(t, engine.ReloadDirective(e.ReloadTimeout()), stripTryCatch(tc.Last()))
}

func stripTryCatch(s string) string {
	const prefix, suffix = "try { ", " } catch(e) { }"
	if len(s) > len(prefix)+len(suffix) && s[:len(prefix)] == prefix && s[len(s)-len(suffix):] == suffix {
		return s[len(prefix) : len(s)-len(suffix)]
	}
	return s
}
