package dag

import (
	"context"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_DependenciesFirst(t *testing.T) {
	mods := []*config.ModuleDescriptor{
		mod("mock-api", "common"),
		mod("common"),
		mod("app", "mock-api", "common"),
		mod("zeta"),
		mod("alpha", "zeta"),
	}
	g, err := Build(context.Background(), mods)
	require.NoError(t, err)

	plan := g.Plan()
	require.Len(t, plan, len(mods))
	for _, m := range mods {
		for _, dep := range m.DependsOn {
			assert.Less(t, plan.Index(dep), plan.Index(m.ID), "%s must precede %s", dep, m.ID)
		}
	}
}

func TestPlan_LexicalTieBreak(t *testing.T) {
	g, err := Build(context.Background(), []*config.ModuleDescriptor{
		mod("d"),
		mod("b", "d"),
		mod("c"),
		mod("a", "c"),
	})
	require.NoError(t, err)

	assert.Equal(t, Plan{"c", "a", "d", "b"}, g.Plan())
}

func TestPlan_Deterministic(t *testing.T) {
	build := func(order ...*config.ModuleDescriptor) Plan {
		g, err := Build(context.Background(), order)
		require.NoError(t, err)
		return g.Plan()
	}
	a, b, c := mod("a"), mod("b", "a"), mod("c", "a")

	first := build(a, b, c)
	assert.Equal(t, first, build(c, b, a))
	assert.Equal(t, first, build(b, a, c))
}

func TestReadyQueue(t *testing.T) {
	var q ReadyQueue
	_, ok := q.Pop()
	assert.False(t, ok)

	for _, id := range []string{"m", "b", "z", "a"} {
		q.Push(id)
	}
	assert.Equal(t, 4, q.Len())

	var got []string
	for {
		id, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, id)
	}
	assert.Equal(t, []string{"a", "b", "m", "z"}, got)
}
