package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/specialistvlad/smolix/internal/navigator"
)

// Title is drawn into the top border.
const Title = "Derivation Tree"

const (
	clearScreen = "\x1b[H\x1b[2J"
	crlf        = "\r\n"
)

var highlight = func() *color.Color {
	c := color.New(color.ReverseVideo)
	// The frame is only ever written to a terminal in raw mode, where
	// fatih/color's own tty detection on stdout does not apply.
	c.EnableColor()
	return c
}()

// Frame renders lines into a bordered box of the given outer size. Rows use
// CRLF since the terminal is in raw mode.
func Frame(lines []navigator.Line, width, height int) string {
	inner := max(width-2, 0)
	rows := max(height-2, 0)

	var sb strings.Builder
	sb.WriteString(clearScreen)
	sb.WriteString(topBorder(inner))
	for i := 0; i < rows; i++ {
		text := ""
		selected := false
		if i < len(lines) {
			text, selected = lines[i].Text, lines[i].Selected
		}
		text = fit(text, inner)
		if selected {
			text = highlight.Sprint(text)
		}
		sb.WriteString(crlf + "│" + text + "│")
	}
	sb.WriteString(crlf + "└" + strings.Repeat("─", inner) + "┘")
	return sb.String()
}

func topBorder(inner int) string {
	title := " " + Title + " "
	if utf8.RuneCountInString(title) > inner {
		title = fit(title, inner)
	}
	return "┌" + title + strings.Repeat("─", inner-utf8.RuneCountInString(title)) + "┐"
}

// fit pads or truncates s to exactly n runes.
func fit(s string, n int) string {
	count := utf8.RuneCountInString(s)
	if count == n {
		return s
	}
	if count < n {
		return s + strings.Repeat(" ", n-count)
	}
	runes := []rune(s)
	return string(runes[:n])
}
