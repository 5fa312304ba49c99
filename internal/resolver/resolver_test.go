package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/derivation"
	"github.com/specialistvlad/smolix/internal/graph"
	"github.com/specialistvlad/smolix/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(g *dag.Graph, handles []dag.Handle) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = g.Name(h)
	}
	return out
}

func TestResolve_Chain(t *testing.T) {
	dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
		"a.drv.json": testutil.Drv("A", "b.drv.json"),
		"b.drv.json": testutil.Drv("B", "c.drv.json"),
		"c.drv.json": testutil.Drv("C"),
	})

	g, root, err := Resolve(context.Background(), filepath.Join(dir, "a.drv.json"))
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, "A", g.Name(root))
	assert.Equal(t, []string{"B"}, names(g, g.Dependencies(root)))

	b, ok := g.Lookup("B")
	require.True(t, ok)
	assert.Equal(t, []string{"C"}, names(g, g.Dependencies(b)))

	c, _ := g.Lookup("C")
	assert.Empty(t, g.Dependencies(c))
	assert.Equal(t, "/store/C", g.Derivation(c).Outputs["out"].Path)
}

func TestResolve_DedupByName(t *testing.T) {
	// Two descriptors reference a third derivation through different paths.
	dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
		"a.json":       testutil.Drv("A", "b.json", "c.json"),
		"b.json":       testutil.Drv("B", "shared1.json"),
		"c.json":       testutil.Drv("C", "shared2.json"),
		"shared1.json": testutil.Drv("shared"),
		"shared2.json": testutil.Drv("shared"),
	})

	g, _, err := Resolve(context.Background(), filepath.Join(dir, "a.json"))
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	shared, ok := g.Lookup("shared")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"B", "C"}, names(g, g.Dependents(shared)))
}

func TestResolve_PathReadOnce(t *testing.T) {
	dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
		"a.json": testutil.Drv("A", "b.json", "c.json"),
		"b.json": testutil.Drv("B", "d.json"),
		"c.json": testutil.Drv("C", "d.json"),
		"d.json": testutil.Drv("D"),
	})

	reads := map[string]int{}
	readFile := func(path string) ([]byte, error) {
		reads[filepath.Base(path)]++
		return os.ReadFile(path)
	}

	g, _, err := Resolve(context.Background(), filepath.Join(dir, "a.json"), WithReadFile(readFile))
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 4, g.EdgeCount())
	assert.Equal(t, map[string]int{"a.json": 1, "b.json": 1, "c.json": 1, "d.json": 1}, reads)
}

func TestResolve_NameCollision(t *testing.T) {
	differing := testutil.Drv("shared")
	differing.Builder = "/bin/other"
	files := map[string]*derivation.Derivation{
		"a.json": testutil.Drv("A", "b.json", "c.json"),
		"b.json": testutil.Drv("shared"),
		"c.json": differing,
	}

	t.Run("first wins by default", func(t *testing.T) {
		dir := testutil.WriteDrvs(t, files)
		logs := &testutil.SafeBuffer{}

		g, root, err := Resolve(testutil.Context(logs), filepath.Join(dir, "a.json"))
		require.NoError(t, err)

		assert.Equal(t, 2, g.Len())
		shared, _ := g.Lookup("shared")
		assert.Equal(t, "/bin/sh", g.Derivation(shared).Builder)
		assert.Equal(t, []dag.Handle{shared}, g.Dependencies(root))
		assert.Contains(t, logs.String(), "derivation name reused with different content")
	})

	t.Run("strict names fail", func(t *testing.T) {
		dir := testutil.WriteDrvs(t, files)

		g, root, err := Resolve(context.Background(), filepath.Join(dir, "a.json"), WithStrictNames())
		require.Error(t, err)
		assert.Nil(t, g)
		assert.Equal(t, dag.NoHandle, root)

		var conflict *NameConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "shared", conflict.Name)
		assert.Equal(t, filepath.Join(dir, "b.json"), conflict.FirstPath)
		assert.Equal(t, filepath.Join(dir, "c.json"), conflict.SecondPath)
	})

	t.Run("identical content is not a conflict", func(t *testing.T) {
		dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
			"a.json": testutil.Drv("A", "b.json", "c.json"),
			"b.json": testutil.Drv("shared"),
			"c.json": testutil.Drv("shared"),
		})
		_, _, err := Resolve(context.Background(), filepath.Join(dir, "a.json"), WithStrictNames())
		assert.NoError(t, err)
	})
}

func TestResolve_CycleIsRejected(t *testing.T) {
	t.Run("mutual reference by path", func(t *testing.T) {
		dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
			"a.json": testutil.Drv("A", "b.json"),
			"b.json": testutil.Drv("B", "a.json"),
		})

		g, _, err := Resolve(context.Background(), filepath.Join(dir, "a.json"))
		assert.Nil(t, g)

		var cycleErr *dag.CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Equal(t, []string{
			filepath.Join(dir, "a.json"),
			filepath.Join(dir, "b.json"),
			filepath.Join(dir, "a.json"),
		}, cycleErr.Nodes)
	})

	t.Run("self reference", func(t *testing.T) {
		dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
			"a.json": testutil.Drv("A", "a.json"),
		})
		_, _, err := Resolve(context.Background(), filepath.Join(dir, "a.json"))
		var cycleErr *dag.CycleError
		assert.True(t, errors.As(err, &cycleErr))
	})

	t.Run("reference back to an ancestor's name through another path", func(t *testing.T) {
		dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
			"a.json":      testutil.Drv("A", "b.json"),
			"b.json":      testutil.Drv("B", "a-copy.json"),
			"a-copy.json": testutil.Drv("A", "b.json"),
		})
		_, _, err := Resolve(context.Background(), filepath.Join(dir, "a.json"))

		var cycleErr *dag.CycleError
		require.True(t, errors.As(err, &cycleErr))
		assert.Equal(t, filepath.Join(dir, "a-copy.json"), cycleErr.Nodes[len(cycleErr.Nodes)-1])
	})
}

func TestResolve_LoadErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "missing.json")

		g, _, err := Resolve(context.Background(), path)
		assert.Nil(t, g)

		var loadErr *derivation.LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, derivation.IoError, loadErr.Kind)
		assert.Equal(t, path, loadErr.Path)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("transitive parse error names the offending file", func(t *testing.T) {
		dir := testutil.WriteStore(t, map[string]string{
			"a.json": testutil.JSON(t, testutil.Drv("A", "b.json")),
			"b.json": testutil.JSON(t, testutil.Drv("B", "c.json")),
			"c.json": `{"name": "C", "builder": "/bin/sh"}`,
		})

		g, _, err := Resolve(context.Background(), filepath.Join(dir, "a.json"))
		assert.Nil(t, g)

		var loadErr *derivation.LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, derivation.ParseError, loadErr.Kind)
		assert.Equal(t, filepath.Join(dir, "c.json"), loadErr.Path)
		assert.ErrorContains(t, err, `"system"`)
	})

	t.Run("transitive missing file", func(t *testing.T) {
		dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
			"a.json": testutil.Drv("A", "gone.json"),
		})
		_, _, err := Resolve(context.Background(), filepath.Join(dir, "a.json"))

		var loadErr *derivation.LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, derivation.IoError, loadErr.Kind)
		assert.Equal(t, filepath.Join(dir, "gone.json"), loadErr.Path)
	})
}

func TestResolve_CancelledContext(t *testing.T) {
	dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
		"a.json": testutil.Drv("A"),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Resolve(ctx, filepath.Join(dir, "a.json"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve_MixedFormats(t *testing.T) {
	dir := testutil.WriteStore(t, map[string]string{
		"hello.drv.json": testutil.JSON(t, testutil.Drv("hello", "bash.drv.hcl")),
		"bash.drv.hcl": `
name    = "bash"
builder = "/bin/sh"
system  = "x86_64-linux"
input "sub/readline.yaml" {
  outputs = ["out"]
}
`,
		"sub/readline.yaml": "name: readline\nbuilder: /bin/sh\nsystem: x86_64-linux\n",
	})

	g, root, err := Resolve(context.Background(), filepath.Join(dir, "hello.drv.json"))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, "hello", g.Name(root))
	_, ok := g.Lookup("readline")
	assert.True(t, ok)
}

func TestResolveDir(t *testing.T) {
	dir := testutil.WriteDrvs(t, map[string]*derivation.Derivation{
		"hello.json":     testutil.Drv("hello", "bash.json"),
		"tree.json":      testutil.Drv("tree", "coreutils.json"),
		"bash.json":      testutil.Drv("bash", "coreutils.json"),
		"coreutils.json": testutil.Drv("coreutils"),
	})

	g, roots, err := New().ResolveDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []string{"hello", "tree"}, names(g, roots))
	assert.NoError(t, g.DetectCycles())
	assert.Len(t, graph.Edges(g), 3)

	_, _, err = New().ResolveDir(context.Background(), filepath.Join(dir, "missing"))
	var loadErr *derivation.LoadError
	assert.True(t, errors.As(err, &loadErr))
}
