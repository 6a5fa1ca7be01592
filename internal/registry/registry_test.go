package registry

import (
	"context"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoModule struct{ name string }

func (m echoModule) Register(r *Registry) {
	r.RegisterEntryPoint(m.name, config.RunnableFunc(func(context.Context, config.Invocation) (int, error) {
		return 0, nil
	}))
}

func TestNew_RegistersModules(t *testing.T) {
	r := New(echoModule{"b"}, echoModule{"a"})

	assert.Equal(t, []string{"a", "b"}, r.Names())

	rn, ok := r.Lookup("a")
	require.True(t, ok)
	code, err := rn.Run(context.Background(), config.Invocation{})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegisterEntryPoint_Panics(t *testing.T) {
	noop := config.RunnableFunc(func(context.Context, config.Invocation) (int, error) { return 0, nil })

	t.Run("duplicate name", func(t *testing.T) {
		r := New()
		r.RegisterEntryPoint("x", noop)
		assert.PanicsWithValue(t, "entry point with name 'x' already registered", func() {
			r.RegisterEntryPoint("x", noop)
		})
	})

	t.Run("empty name", func(t *testing.T) {
		assert.Panics(t, func() { New().RegisterEntryPoint("", noop) })
	})

	t.Run("nil runnable", func(t *testing.T) {
		assert.Panics(t, func() { New().RegisterEntryPoint("x", nil) })
	})
}
