package tui

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/specialistvlad/smolix/internal/navigator"
)

// Event is a decoded input event.
type Event int

const (
	EventNone Event = iota
	EventUp
	EventDown
	EventEnter
	EventQuit
	EventScrollUp
	EventScrollDown
)

func (e Event) String() string {
	switch e {
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventEnter:
		return "enter"
	case EventQuit:
		return "quit"
	case EventScrollUp:
		return "scroll-up"
	case EventScrollDown:
		return "scroll-down"
	default:
		return "none"
	}
}

const (
	keyEsc   = 0x1b
	keyCtrlC = 0x03

	mouseWheelUp   = 64
	mouseWheelDown = 65
)

// Decoder turns a raw terminal byte stream into events.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next blocks until one event is decoded. Unrecognised input yields
// EventNone. The error is the reader's, io.EOF included.
func (d *Decoder) Next() (Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return EventNone, err
	}
	switch b {
	case 'q', keyCtrlC:
		return EventQuit, nil
	case '\r', '\n':
		return EventEnter, nil
	case keyEsc:
		return d.escape()
	default:
		return EventNone, nil
	}
}

// escape decodes the rest of a CSI sequence after ESC.
func (d *Decoder) escape() (Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return EventNone, err
	}
	if b != '[' {
		// A lone ESC followed by an ordinary key.
		_ = d.r.UnreadByte()
		return EventNone, nil
	}

	b, err = d.r.ReadByte()
	if err != nil {
		return EventNone, err
	}
	switch b {
	case 'A':
		return EventUp, nil
	case 'B':
		return EventDown, nil
	case '<':
		return d.sgrMouse()
	default:
		return EventNone, nil
	}
}

// sgrMouse decodes "button;x;y" terminated by M (press) or m (release).
func (d *Decoder) sgrMouse() (Event, error) {
	var sb strings.Builder
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return EventNone, err
		}
		if b == 'M' || b == 'm' {
			break
		}
		sb.WriteByte(b)
	}

	fields := strings.Split(sb.String(), ";")
	button, err := strconv.Atoi(fields[0])
	if err != nil {
		return EventNone, nil
	}
	switch button {
	case mouseWheelUp:
		return EventScrollUp, nil
	case mouseWheelDown:
		return EventScrollDown, nil
	default:
		return EventNone, nil
	}
}

// Apply performs ev on nav. It reports false when the loop should stop.
func Apply(nav *navigator.Navigator, ev Event) bool {
	switch ev {
	case EventUp:
		nav.MoveSelection(navigator.Up)
	case EventDown:
		nav.MoveSelection(navigator.Down)
	case EventEnter:
		nav.ToggleSelected()
	case EventScrollUp:
		nav.ScrollUp()
	case EventScrollDown:
		nav.ScrollDown()
	case EventQuit:
		return false
	}
	return true
}
