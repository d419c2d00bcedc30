// Package agent implements C3: classifying which AI coding agent (if any)
// is running inside a tmux pane, and whether it is actively working, idle,
// or waiting on the user. Detection is entirely pattern-based — there is no
// IPC with the agent process, only pane text and, as a fallback, child
// process argv.
package agent

import (
	"regexp"
	"strings"

	"github.com/chmouel/kiosk/internal/models"
)

var ansiEscape = regexp.MustCompile(`\x1B\[[0-9;]*[mGKHfJABCDnsu]`)

// brailleSpinners are the braille codepoints both Claude Code's and Codex's
// default spinner animations cycle through while a request is in flight.
var brailleSpinners = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

var claudeRunningPatterns = []string{"esc to interrupt", "ctrl+c to interrupt"}

var claudeWaitingPatterns = []string{
	"yes, allow",
	"yes, and always allow",
	"yes, and don't ask again",
	"allow once",
	"allow always",
	"(y/n)",
	"[y/n]",
	"enter to select",
	"esc to cancel",
	"❯ 1.",
	"do you trust the files",
}

var codexRunningPatterns = []string{"esc to interrupt", "working", "thinking"}

var codexWaitingPatterns = []string{
	"yes, proceed",
	"press enter to confirm",
	"(y/n)",
	"[y/n]",
	"approve",
	"allow",
	"❯ 1.",
	"enter to select",
	"esc to cancel",
}

// DetectKind classifies the agent running in a pane from its foreground
// command first, then from child-process argv when the command alone is
// inconclusive (the agent is invoked through a wrapper script, a Python
// launcher, etc).
func DetectKind(paneCommand string, childProcessArgs string) models.AgentKind {
	if kind, ok := kindFromText(paneCommand); ok {
		return kind
	}
	if childProcessArgs != "" {
		if kind, ok := kindFromText(childProcessArgs); ok {
			return kind
		}
	}
	return models.AgentUnknown
}

func kindFromText(text string) (models.AgentKind, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "claude"):
		return models.AgentClaudeCode, true
	case strings.Contains(lower, "codex"):
		return models.AgentCodex, true
	default:
		return models.AgentUnknown, false
	}
}

// DetectState classifies the current activity of kind from raw pane content
// (which may still contain ANSI escapes). Unknown kind falls back to the
// Claude Code heuristics, which is the more generic pattern set.
func DetectState(content string, kind models.AgentKind) models.AgentState {
	clean := stripANSI(content)
	window := lastNonEmptyLines(clean, 30)

	switch kind {
	case models.AgentCodex:
		return detectCodexState(window)
	default:
		return detectClaudeCodeState(window)
	}
}

func detectClaudeCodeState(content string) models.AgentState {
	lower := strings.ToLower(content)
	if containsAny(lower, claudeRunningPatterns) || containsSpinner(lower) {
		return models.AgentRunning
	}
	if containsAny(lower, claudeWaitingPatterns) {
		return models.AgentWaiting
	}
	return models.AgentIdle
}

func detectCodexState(content string) models.AgentState {
	lower := strings.ToLower(content)
	if containsAny(lower, codexRunningPatterns) || containsSpinner(lower) {
		return models.AgentRunning
	}
	if containsAny(lower, codexWaitingPatterns) {
		return models.AgentWaiting
	}
	return models.AgentIdle
}

func containsAny(content string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(content, p) {
			return true
		}
	}
	return false
}

func containsSpinner(content string) bool {
	for _, spinner := range brailleSpinners {
		if strings.ContainsRune(content, spinner) {
			return true
		}
	}
	return false
}

func stripANSI(content string) string {
	return ansiEscape.ReplaceAllString(content, "")
}

// lastNonEmptyLines returns the trailing `count` lines of content that
// aren't blank after trimming, joined back with newlines. Agent prompts
// scroll the whole pane history; only the most recent activity matters for
// state classification.
func lastNonEmptyLines(content string, count int) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > count {
		lines = lines[len(lines)-count:]
	}
	return strings.Join(lines, "\n")
}
