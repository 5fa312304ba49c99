// Package tui is the terminal interaction loop for the derivation tree.
//
// The loop is single-threaded: it blocks on the next input event, applies it
// to the navigator, then draws exactly one frame. Input is decoded from raw
// terminal bytes (arrow keys, Enter, q and SGR mouse wheel reports), so the
// loop itself has no dependency on a real terminal and is driven by any
// io.Reader in tests.
package tui
