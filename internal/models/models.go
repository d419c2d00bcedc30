// Package models holds the pure data types that make up kiosk's view of the
// world: repositories, worktrees, branches and the statuses the orchestrator
// tracks. Nothing in this package shells out or mutates anything outside
// itself — it is read by the orchestrator and written by background jobs'
// event payloads.
package models

import "path/filepath"

// Worktree is a single checkout of a Repository, either the repository's
// primary directory (IsMain) or an additional worktree on its own branch.
type Worktree struct {
	Path   string
	Branch string // empty means detached HEAD
	IsMain bool
}

// Repository is identified by its absolute canonical path. Name is the last
// path component; SessionName is usually identical to Name, and is suffixed
// with "--(parent-dir)" when collision resolution (see internal/git) finds
// two repositories sharing a name.
type Repository struct {
	Path        string
	Name        string
	SessionName string
	Worktrees   []Worktree
}

// DisplayName returns the last path component, recomputed defensively in
// case Name was never set (e.g. a hand-built test fixture).
func (r Repository) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return filepath.Base(r.Path)
}

// MainWorktree returns the repository's primary checkout, if enumerated.
func (r Repository) MainWorktree() (Worktree, bool) {
	for _, wt := range r.Worktrees {
		if wt.IsMain {
			return wt, true
		}
	}
	return Worktree{}, false
}

// BranchEntry is a branch name decorated with worktree/session/remote
// metadata, the unit displayed in BranchSelect mode.
type BranchEntry struct {
	Name           string
	WorktreePath   string // empty means no worktree exists for this branch
	HasSession     bool
	IsCurrent      bool
	IsRemote       bool
	LastActivity   int64 // unix seconds, 0 if unknown
	AttentionLevel int   // highest AgentState.Priority() among the entry's session panes, -1 if none
}

// HasWorktree reports whether a worktree path is associated with this entry.
func (b BranchEntry) HasWorktree() bool {
	return b.WorktreePath != ""
}

// AgentKind identifies which coding agent, if any, is believed to be running
// in a pane.
type AgentKind int

const (
	AgentUnknown AgentKind = iota
	AgentClaudeCode
	AgentCodex
)

func (k AgentKind) String() string {
	switch k {
	case AgentClaudeCode:
		return "claude-code"
	case AgentCodex:
		return "codex"
	default:
		return "unknown"
	}
}

// AgentState is the interaction state a detector infers from captured text.
type AgentState int

const (
	AgentIdle AgentState = iota
	AgentRunning
	AgentWaiting
)

// Priority implements the attention order Waiting > Idle > Running, per
// spec P7: Waiting=2, Idle=1, Running=0.
func (s AgentState) Priority() int {
	switch s {
	case AgentWaiting:
		return 2
	case AgentIdle:
		return 1
	default:
		return 0
	}
}

func (s AgentState) String() string {
	switch s {
	case AgentRunning:
		return "running"
	case AgentWaiting:
		return "waiting"
	default:
		return "idle"
	}
}

// AgentStatus is attached to a session, not a branch; branch-level
// aggregation is a view computed by the orchestrator.
type AgentStatus struct {
	Kind  AgentKind
	State AgentState
}

// PendingWorktreeDelete records an in-flight worktree removal for crash
// recovery. See internal/journal for load/save semantics.
type PendingWorktreeDelete struct {
	RepoPath         string `toml:"repo_path"`
	BranchName       string `toml:"branch_name"`
	WorktreePath     string `toml:"worktree_path"`
	StartedAtUnixSec int64  `toml:"started_at_unix_secs"`
}

// Key identifies a pending delete uniquely within a journal.
func (p PendingWorktreeDelete) Key() string {
	return p.RepoPath + "\x00" + p.BranchName
}
