package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/smolix/internal/ctxlog"
	"github.com/specialistvlad/smolix/internal/navigator"
)

// Options configures Run.
type Options struct {
	// Size reports the outer frame size. It is queried before every redraw so
	// terminal resizes are picked up. Required.
	Size func() (width, height int, err error)
}

// Run drives nav from the events on in and draws a frame on out after each
// one. It returns nil on a quit event or at the end of input.
func Run(ctx context.Context, in io.Reader, out io.Writer, nav *navigator.Navigator, opts Options) error {
	if opts.Size == nil {
		return errors.New("tui: Options.Size is required")
	}
	logger := ctxlog.FromContext(ctx)
	dec := NewDecoder(in)

	if err := draw(out, nav, opts); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if ev == EventNone {
			continue
		}
		logger.Debug("Input event.", "event", ev)
		if !Apply(nav, ev) {
			return nil
		}
		if err := draw(out, nav, opts); err != nil {
			return err
		}
	}
}

func draw(out io.Writer, nav *navigator.Navigator, opts Options) error {
	width, height, err := opts.Size()
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}
	nav.SetHeight(max(height-2, 0))
	if _, err := io.WriteString(out, Frame(nav.Window(), width, height)); err != nil {
		return fmt.Errorf("failed to draw frame: %w", err)
	}
	return nil
}
