package executor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/specialistvlad/smolix/internal/ctxlog"
	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/derivation"
)

// Builder realises a single derivation.
type Builder interface {
	Build(ctx context.Context, h dag.Handle, drv *derivation.Derivation) error
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(ctx context.Context, h dag.Handle, drv *derivation.Derivation) error

// Build calls f.
func (f BuilderFunc) Build(ctx context.Context, h dag.Handle, drv *derivation.Derivation) error {
	return f(ctx, h, drv)
}

// DryRunBuilder describes each build instead of running it. Every node
// produces one line on Out, if set, and one log record.
type DryRunBuilder struct {
	Out io.Writer

	mu sync.Mutex
}

// Build implements Builder.
func (b *DryRunBuilder) Build(ctx context.Context, _ dag.Handle, drv *derivation.Derivation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Dry-run build.",
		"name", drv.Name,
		"builder", drv.Builder,
		"args", drv.Args,
		"system", drv.System,
		"outputs", drv.OutputNames(),
	)
	if b.Out == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	cmd := strings.TrimSpace(drv.Builder + " " + strings.Join(drv.Args, " "))
	if _, err := fmt.Fprintf(b.Out, "would build %s: %s\n", drv.Name, cmd); err != nil {
		return fmt.Errorf("failed to write dry-run line for %q: %w", drv.Name, err)
	}
	return nil
}
