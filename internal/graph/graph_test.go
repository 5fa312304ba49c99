package graph

import (
	"testing"

	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/derivation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestGraph builds a graph from an adjacency list of names. Nodes are
// inserted in the order of the names slice.
func createTestGraph(t *testing.T, names []string, deps map[string][]string) *dag.Graph {
	t.Helper()
	g := dag.New()
	for _, n := range names {
		_, inserted := g.AddNode(&derivation.Derivation{Name: n, Builder: "b", System: "s"})
		require.True(t, inserted)
	}
	for from, tos := range deps {
		fh, ok := g.Lookup(from)
		require.True(t, ok)
		for _, to := range tos {
			th, ok := g.Lookup(to)
			require.True(t, ok)
			require.NoError(t, g.AddEdge(fh, th))
		}
	}
	return g
}

func names(r Reader, handles []dag.Handle) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = r.Name(h)
	}
	return out
}

func TestSortByName(t *testing.T) {
	g := createTestGraph(t, []string{"zlib", "bash", "hello"}, nil)
	handles := g.Handles()
	SortByName(g, handles)
	assert.Equal(t, []string{"bash", "hello", "zlib"}, names(g, handles))
}

func TestEdges(t *testing.T) {
	g := createTestGraph(t, []string{"a", "b", "c"}, map[string][]string{
		"a": {"b"},
		"b": {"c"},
	})
	assert.ElementsMatch(t, []Edge{{From: 0, To: 1}, {From: 1, To: 2}}, Edges(g))
}

func TestRoots(t *testing.T) {
	g := createTestGraph(t, []string{"hello", "bash", "coreutils", "tree"}, map[string][]string{
		"hello": {"bash"},
		"tree":  {"coreutils"},
		"bash":  {"coreutils"},
	})
	assert.Equal(t, []string{"hello", "tree"}, names(g, Roots(g)))
}

func TestClosure(t *testing.T) {
	g := createTestGraph(t, []string{"a", "b", "c", "d"}, map[string][]string{
		"a": {"b"},
		"b": {"c"},
	})

	a, _ := g.Lookup("a")
	closure := Closure(g, a)
	assert.Len(t, closure, 3)
	d, _ := g.Lookup("d")
	assert.NotContains(t, closure, d)

	assert.Empty(t, Closure(g, dag.NoHandle))
}
