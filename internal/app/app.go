package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/smolix/internal/ctxlog"
	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/metrics"
	"github.com/specialistvlad/smolix/internal/navigator"
	"github.com/specialistvlad/smolix/internal/resolver"
	"github.com/specialistvlad/smolix/internal/tui"
)

// Interaction runs the interactive view over a ready navigator.
type Interaction func(ctx context.Context, nav *navigator.Navigator) error

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	resolver *resolver.Resolver
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	interact Interaction

	httpServer *http.Server
}

// Option customises an App.
type Option func(*App)

// WithInteraction replaces the terminal view used by Tree.
func WithInteraction(fn Interaction) Option {
	return func(a *App) { a.interact = fn }
}

// NewApp creates an App that prints results to outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	var resolverOpts []resolver.Option
	if cfg.StrictNames {
		resolverOpts = append(resolverOpts, resolver.WithStrictNames())
	}

	registry := prometheus.NewRegistry()
	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		resolver: resolver.New(resolverOpts...),
		registry: registry,
		metrics:  metrics.New(registry),
		interact: func(ctx context.Context, nav *navigator.Navigator) error {
			return tui.RunTerminal(ctx, os.Stdin, os.Stdout, nav)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Registry returns the application's metrics registry.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// resolve loads a single descriptor, or every descriptor of a store
// directory, and returns the graph with its roots.
func (a *App) resolve(ctx context.Context, path string) (*dag.Graph, []dag.Handle, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		logger.Debug("Resolving store directory.", "dir", path)
		g, roots, err := a.resolver.ResolveDir(ctx, path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve store directory: %w", err)
		}
		return g, roots, nil
	}

	logger.Debug("Resolving root descriptor.", "path", path)
	g, root, err := a.resolver.Resolve(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve derivation graph: %w", err)
	}
	logger.Info("Derivation graph resolved.", "root", g.Name(root), "nodes", g.Len(), "edges", g.EdgeCount())
	return g, []dag.Handle{root}, nil
}

// Tree resolves the descriptor at path and opens the interactive view on it.
// The view is never entered when resolution fails. Logging is suspended for
// as long as the view is open.
func (a *App) Tree(ctx context.Context, path string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	g, roots, err := a.resolve(ctx, path)
	if err != nil {
		return err
	}
	root := dag.NoHandle
	if len(roots) > 0 {
		root = roots[0]
	}
	if len(roots) > 1 {
		a.logger.Warn("Several roots found, showing the first.", "root", g.Name(root), "roots", len(roots))
	}

	// The view owns the terminal until it returns. Records logged meanwhile
	// would be drawn over the frame, so they are dropped.
	a.logger.Debug("Entering interactive view, logging suspended.")
	viewCtx := ctxlog.Discard(ctx)
	err = a.interact(viewCtx, navigator.New(g, root))
	a.logger.Debug("Interactive view closed.")
	return err
}
