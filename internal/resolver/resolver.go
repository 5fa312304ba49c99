package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/smolix/internal/ctxlog"
	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/derivation"
	"github.com/specialistvlad/smolix/internal/fsutil"
	"github.com/specialistvlad/smolix/internal/graph"
	"github.com/specialistvlad/smolix/internal/hcl"
)

// Resolver loads descriptor files into a dag.Graph. A Resolver holds no state
// between calls and may be reused.
type Resolver struct {
	codecs   derivation.Codecs
	strict   bool
	readFile func(path string) ([]byte, error)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCodecs replaces the extension-to-codec table.
func WithCodecs(codecs derivation.Codecs) Option {
	return func(r *Resolver) { r.codecs = codecs }
}

// WithStrictNames makes a name shared by two differing descriptors fatal.
func WithStrictNames() Option {
	return func(r *Resolver) { r.strict = true }
}

// WithReadFile replaces the function used to read descriptor files.
func WithReadFile(fn func(path string) ([]byte, error)) Option {
	return func(r *Resolver) { r.readFile = fn }
}

// New creates a Resolver. By default it understands JSON, YAML and HCL
// descriptors and reads them from the local filesystem.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		codecs:   hcl.Codecs(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve is shorthand for New(opts...).Resolve(ctx, rootPath).
func Resolve(ctx context.Context, rootPath string, opts ...Option) (*dag.Graph, dag.Handle, error) {
	return New(opts...).Resolve(ctx, rootPath)
}

// Resolve loads the descriptor at rootPath and everything it transitively
// references. It returns the graph and the handle of the root node.
func (r *Resolver) Resolve(ctx context.Context, rootPath string) (*dag.Graph, dag.Handle, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolver: starting resolution.", "root", rootPath)

	s := r.newSession()
	root, err := s.resolvePath(ctx, filepath.Clean(rootPath))
	if err != nil {
		return nil, dag.NoHandle, err
	}

	logger.Debug("Resolver: resolution complete.", "nodes", s.g.Len(), "edges", s.g.EdgeCount(), "files_read", s.reads)
	return s.g, root, nil
}

// ResolveDir resolves every descriptor file found under dir into one shared
// graph. It returns the graph and its roots (nodes nothing depends on),
// sorted by name.
func (r *Resolver) ResolveDir(ctx context.Context, dir string) (*dag.Graph, []dag.Handle, error) {
	logger := ctxlog.FromContext(ctx)

	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		return nil, nil, errors.New("no descriptor codecs configured")
	}

	files, err := fsutil.FindFilesByExtension(dir, exts...)
	if err != nil {
		return nil, nil, &derivation.LoadError{Kind: derivation.IoError, Path: dir, Err: err}
	}
	logger.Debug("Resolver: discovered descriptor files.", "dir", dir, "count", len(files))

	s := r.newSession()
	for _, file := range files {
		if _, err := s.resolvePath(ctx, filepath.Clean(file)); err != nil {
			return nil, nil, err
		}
	}

	roots := graph.Roots(s.g)
	logger.Debug("Resolver: directory resolution complete.", "nodes", s.g.Len(), "roots", len(roots))
	return s.g, roots, nil
}

func (r *Resolver) newSession() *session {
	return &session{
		r:         r,
		g:         dag.New(),
		byPath:    make(map[string]dag.Handle),
		pathOf:    make(map[dag.Handle]string),
		resolving: make(map[string]bool),
		onStack:   make(map[dag.Handle]bool),
	}
}

// session is the state of a single resolution.
type session struct {
	r *Resolver
	g *dag.Graph
	// byPath caches every path already loaded, so no file is read twice.
	byPath map[string]dag.Handle
	// pathOf remembers the path a node was first loaded from.
	pathOf map[dag.Handle]string
	// resolving holds the paths on the current recursion stack.
	resolving map[string]bool
	// onStack holds the nodes on the current recursion stack.
	onStack map[dag.Handle]bool
	stack   []string
	reads   int
}

func (s *session) resolvePath(ctx context.Context, path string) (dag.Handle, error) {
	logger := ctxlog.FromContext(ctx)

	if s.resolving[path] {
		return dag.NoHandle, s.cycleAt(path)
	}
	if h, ok := s.byPath[path]; ok {
		logger.Debug("Resolver: path already resolved.", "path", path, "name", s.g.Name(h))
		return h, nil
	}
	if err := ctx.Err(); err != nil {
		return dag.NoHandle, err
	}

	drv, err := s.load(path)
	if err != nil {
		return dag.NoHandle, err
	}

	if existing, ok := s.g.Lookup(drv.Name); ok {
		if s.onStack[existing] {
			return dag.NoHandle, s.cycleAt(s.pathOf[existing], path)
		}
		if err := s.checkConflict(ctx, existing, drv, path); err != nil {
			return dag.NoHandle, err
		}
		logger.Debug("Resolver: reusing existing node.", "name", drv.Name, "path", path)
		s.byPath[path] = existing
		return existing, nil
	}

	h, _ := s.g.AddNode(drv)
	s.byPath[path] = h
	s.pathOf[h] = path
	logger.Debug("Resolver: added derivation.", "name", drv.Name, "path", path, "handle", h)

	s.push(path, h)
	defer s.pop(path, h)

	dir := filepath.Dir(path)
	for _, input := range drv.InputPaths() {
		dep, err := s.resolvePath(ctx, inputPath(dir, input))
		if err != nil {
			return dag.NoHandle, err
		}
		if err := s.g.AddEdge(h, dep); err != nil {
			return dag.NoHandle, fmt.Errorf("linking %q to %q: %w", drv.Name, s.g.Name(dep), err)
		}
	}

	return h, nil
}

// load reads and decodes one descriptor file.
func (s *session) load(path string) (*derivation.Derivation, error) {
	data, err := s.r.readFile(path)
	if err != nil {
		return nil, &derivation.LoadError{Kind: derivation.IoError, Path: path, Err: err}
	}
	s.reads++

	drv, err := s.r.codecs.For(path).Decode(path, data)
	if err != nil {
		return nil, &derivation.LoadError{Kind: derivation.ParseError, Path: path, Err: err}
	}
	return drv, nil
}

func (s *session) checkConflict(ctx context.Context, existing dag.Handle, drv *derivation.Derivation, path string) error {
	if s.g.Derivation(existing).Equal(drv) {
		return nil
	}
	conflict := &NameConflictError{Name: drv.Name, FirstPath: s.pathOf[existing], SecondPath: path}
	if s.r.strict {
		return conflict
	}
	ctxlog.FromContext(ctx).Warn("Resolver: derivation name reused with different content, keeping the first.",
		"name", drv.Name, "first_path", conflict.FirstPath, "second_path", path)
	return nil
}

func (s *session) push(path string, h dag.Handle) {
	s.resolving[path] = true
	s.onStack[h] = true
	s.stack = append(s.stack, path)
}

func (s *session) pop(path string, h dag.Handle) {
	delete(s.resolving, path)
	delete(s.onStack, h)
	s.stack = s.stack[:len(s.stack)-1]
}

// cycleAt builds a CycleError for a reference back to start, which is on the
// stack. Extra paths are appended after the stack segment.
func (s *session) cycleAt(start string, extra ...string) *dag.CycleError {
	from := 0
	for i, p := range s.stack {
		if p == start {
			from = i
			break
		}
	}
	nodes := append([]string(nil), s.stack[from:]...)
	nodes = append(nodes, extra...)
	if len(extra) == 0 {
		nodes = append(nodes, start)
	}
	return &dag.CycleError{Nodes: nodes}
}

// inputPath resolves an input_derivations key relative to the directory of
// the descriptor that declares it.
func inputPath(dir, input string) string {
	if filepath.IsAbs(input) {
		return filepath.Clean(input)
	}
	return filepath.Join(dir, input)
}
