package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/specialistvlad/smolix/internal/ctxlog"
	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/planner"
)

// Plan prints the build order of the graph rooted at path, one derivation
// per line. With levels set, each line is a wave of mutually independent
// derivations.
func (a *App) Plan(ctx context.Context, path string, levels bool) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	g, _, err := a.resolve(ctx, path)
	if err != nil {
		return err
	}
	names := func(hs []dag.Handle) []string {
		return lo.Map(hs, func(h dag.Handle, _ int) string { return g.Name(h) })
	}

	if levels {
		waves, err := planner.Levels(g)
		if err != nil {
			return fmt.Errorf("failed to plan build: %w", err)
		}
		for i, wave := range waves {
			if _, err := fmt.Fprintf(a.outW, "%d: %s\n", i, strings.Join(names(wave), " ")); err != nil {
				return err
			}
		}
		return nil
	}

	order, err := planner.Plan(g)
	if err != nil {
		return fmt.Errorf("failed to plan build: %w", err)
	}
	a.logger.Debug("Build order computed.", "steps", len(order))
	for _, name := range names(order) {
		if _, err := fmt.Fprintln(a.outW, name); err != nil {
			return err
		}
	}
	return nil
}
