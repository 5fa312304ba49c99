package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/smolix/internal/buildstate"
	"github.com/specialistvlad/smolix/internal/ctxlog"
	"github.com/specialistvlad/smolix/internal/executor"
)

// Build resolves the graph at path and runs the dry-run builder over it in
// dependency order. A summary line follows the per-derivation output.
func (a *App) Build(ctx context.Context, path string) (*executor.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Build method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx)
		defer a.closeHealthcheckServer(ctx) //nolint:errcheck
	}

	g, _, err := a.resolve(ctx, path)
	if err != nil {
		return nil, err
	}

	exec := executor.New(g, &executor.DryRunBuilder{Out: a.outW}, executor.Options{
		Parallelism: a.config.Parallelism,
		StopOnError: a.config.StopOnError,
		Metrics:     a.metrics,
	})
	a.logger.Info("🚀 Starting concurrent execution...")
	report, err := exec.Execute(ctx)
	if report == nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}

	if _, werr := fmt.Fprintf(a.outW, "run %s: %d built, %d failed, %d skipped\n",
		report.RunID,
		report.Count(buildstate.Completed),
		report.Count(buildstate.Failed),
		report.Count(buildstate.Skipped),
	); werr != nil {
		return report, fmt.Errorf("failed to write build summary: %w", werr)
	}
	if err != nil {
		return report, fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.")
	return report, nil
}
