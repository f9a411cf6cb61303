package callgraph_test

import (
	"testing"

	"github.com/ferrite-lang/ferrite/callgraph"
	"github.com/stretchr/testify/require"
)

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestCalleesFirst(t *testing.T) {
	g := callgraph.New()
	g.AddCall("main", "helper")
	g.AddCall("helper", "leaf")
	g.AddFunction("island")
	g.Sort()

	order := g.Order()
	require.Len(t, order, 4)
	require.False(t, g.HasCycle())
	require.Less(t, indexOf(order, "leaf"), indexOf(order, "helper"))
	require.Less(t, indexOf(order, "helper"), indexOf(order, "main"))
	require.GreaterOrEqual(t, indexOf(order, "island"), 0)
}

func TestCycleDetected(t *testing.T) {
	g := callgraph.New()
	g.AddCall("even", "odd")
	g.AddCall("odd", "even")
	g.AddCall("main", "even")
	g.Sort()

	require.True(t, g.HasCycle())
	require.Len(t, g.Order(), 3)
}

func TestSelfCallIgnored(t *testing.T) {
	g := callgraph.New()
	g.AddCall("fact", "fact")
	g.Sort()
	require.False(t, g.HasCycle())
	require.Equal(t, []string{"fact"}, g.Order())
}

func TestDuplicateEdges(t *testing.T) {
	g := callgraph.New()
	g.AddCall("a", "b")
	g.AddCall("a", "b")
	g.Sort()
	require.Len(t, g.Order(), 2)
	require.False(t, g.HasCycle())
}
