package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/smolix/internal/navigator"
	"golang.org/x/term"
)

// Escape sequences written around the loop.
const (
	enterAltScreen = "\x1b[?1049h\x1b[?25l\x1b[?1000h\x1b[?1006h"
	leaveAltScreen = "\x1b[?1006l\x1b[?1000l\x1b[?25h\x1b[?1049l"
)

// ErrNotTerminal is returned when the interactive view is started without a
// terminal on stdin.
var ErrNotTerminal = errors.New("interactive view requires a terminal")

// RunTerminal puts in into raw mode, switches out to the alternate screen
// with mouse reporting enabled, and runs the loop until the user quits. The
// terminal is restored on every return path.
func RunTerminal(ctx context.Context, in, out *os.File, nav *navigator.Navigator) (err error) {
	inFd, outFd := int(in.Fd()), int(out.Fd())
	if !term.IsTerminal(inFd) {
		return ErrNotTerminal
	}

	state, err := term.MakeRaw(inFd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		if restoreErr := term.Restore(inFd, state); restoreErr != nil && err == nil {
			err = fmt.Errorf("failed to restore terminal: %w", restoreErr)
		}
	}()

	if _, err := io.WriteString(out, enterAltScreen); err != nil {
		return err
	}
	defer io.WriteString(out, leaveAltScreen) //nolint:errcheck

	return Run(ctx, in, out, nav, Options{
		Size: func() (int, int, error) { return term.GetSize(outFd) },
	})
}
