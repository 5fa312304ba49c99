package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/navigator"
	"github.com/specialistvlad/smolix/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainNavigator(t *testing.T) (*dag.Graph, *navigator.Navigator) {
	t.Helper()
	g := dag.New()
	a, _ := g.AddNode(testutil.Drv("A"))
	b, _ := g.AddNode(testutil.Drv("B"))
	c, _ := g.AddNode(testutil.Drv("C"))
	require.NoError(t, g.AddEdge(a, b))
	require.NoError(t, g.AddEdge(b, c))
	return g, navigator.New(g, a)
}

func decodeAll(t *testing.T, input string) []Event {
	t.Helper()
	dec := NewDecoder(strings.NewReader(input))
	var events []Event
	for {
		ev, err := dec.Next()
		if err != nil {
			return events
		}
		events = append(events, ev)
	}
}

func TestDecoder(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []Event
	}{
		{name: "arrows", input: "\x1b[A\x1b[B", want: []Event{EventUp, EventDown}},
		{name: "enter", input: "\r\n", want: []Event{EventEnter, EventEnter}},
		{name: "quit", input: "q", want: []Event{EventQuit}},
		{name: "ctrl-c", input: "\x03", want: []Event{EventQuit}},
		{name: "wheel", input: "\x1b[<64;10;5M\x1b[<65;10;5M", want: []Event{EventScrollUp, EventScrollDown}},
		{name: "mouse click", input: "\x1b[<0;3;4M\x1b[<0;3;4m", want: []Event{EventNone, EventNone}},
		{name: "other keys", input: "x\x1b[C", want: []Event{EventNone, EventNone}},
		{name: "lone escape", input: "\x1bq", want: []Event{EventNone, EventQuit}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decodeAll(t, tc.input))
		})
	}
}

func TestApply(t *testing.T) {
	g, nav := chainNavigator(t)
	nav.SetHeight(10)

	assert.True(t, Apply(nav, EventDown))
	assert.True(t, Apply(nav, EventDown))
	h, ok := nav.Selected()
	require.True(t, ok)
	assert.Equal(t, "B", g.Name(h))

	assert.True(t, Apply(nav, EventEnter))
	assert.Len(t, nav.RenderLines(), 2)

	assert.True(t, Apply(nav, EventUp))
	h, _ = nav.Selected()
	assert.Equal(t, "A", g.Name(h))

	assert.True(t, Apply(nav, EventNone))
	assert.False(t, Apply(nav, EventQuit))
}

func TestFrame(t *testing.T) {
	lines := []navigator.Line{
		{Text: "▼ A", Selected: true},
		{Text: "  B"},
	}

	frame := Frame(lines, 20, 5)

	rows := strings.Split(strings.TrimPrefix(frame, clearScreen), crlf)
	require.Len(t, rows, 5)
	assert.Equal(t, "┌ Derivation Tree ─┐", rows[0])
	assert.Equal(t, "│"+highlight.Sprint("▼ A               ")+"│", rows[1])
	assert.Equal(t, "│  B               │", rows[2])
	assert.Equal(t, "│                  │", rows[3])
	assert.Equal(t, "└──────────────────┘", rows[4])
}

func TestFrame_Narrow(t *testing.T) {
	frame := Frame([]navigator.Line{{Text: "a-very-long-name"}}, 8, 3)
	rows := strings.Split(strings.TrimPrefix(frame, clearScreen), crlf)
	require.Len(t, rows, 3)
	assert.Equal(t, "┌ Deriv┐", rows[0])
	assert.Equal(t, "│a-very│", rows[1])
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func TestRun(t *testing.T) {
	_, nav := chainNavigator(t)
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("\x1b[B\x1b[Bq\x1b[A"), &out, nav, Options{Size: fixedSize(12, 6)})
	require.NoError(t, err)

	frames := strings.Split(out.String(), clearScreen)[1:]
	require.Len(t, frames, 3, "initial frame plus one per event before quit")
	assert.Contains(t, frames[2], highlight.Sprint("  ▼ B     "))
	assert.Equal(t, 4, nav.Height())
}

func TestRun_EndOfInput(t *testing.T) {
	_, nav := chainNavigator(t)
	err := Run(context.Background(), strings.NewReader("\x1b[B"), &bytes.Buffer{}, nav, Options{Size: fixedSize(20, 5)})
	assert.NoError(t, err)
}

func TestRun_SizeError(t *testing.T) {
	_, nav := chainNavigator(t)
	sizeErr := errors.New("no tty")
	err := Run(context.Background(), strings.NewReader("q"), &bytes.Buffer{}, nav, Options{
		Size: func() (int, int, error) { return 0, 0, sizeErr },
	})
	assert.ErrorIs(t, err, sizeErr)
}

func TestRun_Cancelled(t *testing.T) {
	_, nav := chainNavigator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, strings.NewReader("\x1b[B"), &bytes.Buffer{}, nav, Options{Size: fixedSize(20, 5)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RequiresSize(t *testing.T) {
	_, nav := chainNavigator(t)
	assert.Error(t, Run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, nav, Options{}))
}
