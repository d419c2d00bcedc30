// Package multiplexer implements C2: a porcelain-based interface to a tmux
// terminal multiplexer. Every lookup targets sessions with an exact-match
// selector (the leading `=`) so names that happen to be prefixes of other
// session names never collide during fuzzy tmux resolution.
package multiplexer

// PaneInfo describes a single pane as reported by `tmux list-panes`.
type PaneInfo struct {
	PaneIndex int
	Command   string
	PID       int
}
