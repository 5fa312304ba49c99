package navigator

import (
	"strings"

	"github.com/specialistvlad/smolix/internal/dag"
	"github.com/specialistvlad/smolix/internal/graph"
)

// Direction is a selection movement.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Tree markers.
const (
	GlyphExpanded  = "▼"
	GlyphCollapsed = "▶"
	GlyphLeaf      = " "
)

// Line is one render-ready row of the tree.
type Line struct {
	Text     string
	Depth    int
	Handle   dag.Handle
	Selected bool
}

// row is one occurrence of a node in the traversal.
type row struct {
	handle dag.Handle
	depth  int
}

// Navigator holds the interactive tree-view state over a graph.
type Navigator struct {
	graph    graph.Reader
	root     dag.Handle
	expanded map[dag.Handle]bool
	visible  []row
	// selected is an index into visible, or -1. selectedHandle is kept beside
	// it so the selection survives a reshaped traversal.
	selected       int
	selectedHandle dag.Handle
	scroll         int
	height         int
}

// New creates a navigator over g rooted at root. Pass dag.NoHandle for an
// empty tree.
func New(g graph.Reader, root dag.Handle) *Navigator {
	n := &Navigator{
		graph:          g,
		root:           root,
		expanded:       make(map[dag.Handle]bool),
		selected:       -1,
		selectedHandle: dag.NoHandle,
	}
	n.refresh()
	return n
}

// SetHeight sets the viewport height used for scroll math.
func (n *Navigator) SetHeight(h int) {
	n.height = max(h, 0)
	n.clampScroll()
}

// MoveSelection recomputes the visible nodes and moves the selection one row
// in the given direction, clamped at both ends. With no selection it selects
// the first row. Scroll then follows the selection.
func (n *Navigator) MoveSelection(dir Direction) {
	n.refresh()
	if len(n.visible) == 0 {
		return
	}

	idx := 0
	if n.selected >= 0 {
		idx = n.selected
		switch dir {
		case Up:
			if idx > 0 {
				idx--
			}
		case Down:
			if idx < len(n.visible)-1 {
				idx++
			}
		}
	}
	n.selected = idx
	n.selectedHandle = n.visible[idx].handle
	n.adjustScroll(idx)
}

// ToggleSelected flips the expansion of the selected node. The visible rows
// are not recomputed until the next navigation or render call.
func (n *Navigator) ToggleSelected() {
	if n.selectedHandle == dag.NoHandle {
		return
	}
	n.expanded[n.selectedHandle] = !n.isExpanded(n.selectedHandle)
}

// ScrollUp scrolls the viewport one line up.
func (n *Navigator) ScrollUp() {
	n.refresh()
	if n.scroll > 0 {
		n.scroll--
	}
}

// ScrollDown scrolls the viewport one line down.
func (n *Navigator) ScrollDown() {
	n.refresh()
	if n.scroll < n.maxScroll() {
		n.scroll++
	}
}

// RenderLines returns one line per visible row.
func (n *Navigator) RenderLines() []Line {
	n.refresh()
	lines := make([]Line, len(n.visible))
	for i, r := range n.visible {
		lines[i] = Line{
			Text:     strings.Repeat("  ", r.depth) + n.glyph(r.handle) + " " + n.graph.Name(r.handle),
			Depth:    r.depth,
			Handle:   r.handle,
			Selected: i == n.selected,
		}
	}
	return lines
}

// Window returns the rendered lines that fall inside the viewport.
func (n *Navigator) Window() []Line {
	lines := n.RenderLines()
	end := min(n.scroll+n.height, len(lines))
	return lines[n.scroll:end]
}

// Visible returns the handles of the rows from the last traversal.
func (n *Navigator) Visible() []dag.Handle {
	out := make([]dag.Handle, len(n.visible))
	for i, r := range n.visible {
		out[i] = r.handle
	}
	return out
}

// Selected returns the selected node.
func (n *Navigator) Selected() (dag.Handle, bool) {
	return n.selectedHandle, n.selectedHandle != dag.NoHandle
}

// Scroll returns the index of the first row in the viewport.
func (n *Navigator) Scroll() int { return n.scroll }

// Height returns the viewport height.
func (n *Navigator) Height() int { return n.height }

func (n *Navigator) glyph(h dag.Handle) string {
	switch {
	case len(n.graph.Dependencies(h)) == 0:
		return GlyphLeaf
	case n.isExpanded(h):
		return GlyphExpanded
	default:
		return GlyphCollapsed
	}
}

func (n *Navigator) isExpanded(h dag.Handle) bool {
	expanded, ok := n.expanded[h]
	if !ok {
		n.expanded[h] = true
		return true
	}
	return expanded
}

// refresh recomputes the visible rows and keeps the selection and scroll
// valid for the new shape.
func (n *Navigator) refresh() {
	n.visible = n.visible[:0]
	if n.root != dag.NoHandle && n.graph.Derivation(n.root) != nil {
		n.collect(n.root, 0, map[dag.Handle]bool{})
	}

	if n.selectedHandle != dag.NoHandle {
		if n.selected < 0 || n.selected >= len(n.visible) || n.visible[n.selected].handle != n.selectedHandle {
			n.selected = n.indexOf(n.selectedHandle)
		}
		if n.selected < 0 {
			if len(n.visible) == 0 {
				n.selectedHandle = dag.NoHandle
			} else {
				n.selected = 0
				n.selectedHandle = n.visible[0].handle
			}
		}
	}
	n.clampScroll()
}

// collect appends h and, if expanded, its dependencies. onPath stops descent
// into a node that is already an ancestor.
func (n *Navigator) collect(h dag.Handle, depth int, onPath map[dag.Handle]bool) {
	n.visible = append(n.visible, row{handle: h, depth: depth})
	if !n.isExpanded(h) || onPath[h] {
		return
	}
	onPath[h] = true
	for _, child := range n.graph.Dependencies(h) {
		n.collect(child, depth+1, onPath)
	}
	delete(onPath, h)
}

func (n *Navigator) indexOf(h dag.Handle) int {
	for i, r := range n.visible {
		if r.handle == h {
			return i
		}
	}
	return -1
}

// adjustScroll keeps the selected row inside the viewport, with one line of
// context at the bottom edge.
func (n *Navigator) adjustScroll(idx int) {
	if idx < n.scroll {
		n.scroll = idx
	} else if idx >= n.scroll+max(n.height-1, 0) {
		n.scroll = max(idx-max(n.height-2, 0), 0)
	}
	n.clampScroll()
}

func (n *Navigator) maxScroll() int {
	if n.height == 0 {
		return 0
	}
	return max(len(n.visible)-n.height, 0)
}

func (n *Navigator) clampScroll() {
	n.scroll = min(max(n.scroll, 0), n.maxScroll())
}
