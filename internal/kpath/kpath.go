// Package kpath implements kiosk's path and naming utilities (C9): tilde
// expansion, worktree-directory derivation with collision-free dedup, and
// session-name derivation from a worktree path.
package kpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WorktreeDirName is the directory, relative to a repository's parent, that
// holds all of that repository's additional worktrees.
const WorktreeDirName = ".kiosk_worktrees"

// NameSeparator joins a repository's name (or session name) to a branch or
// suffix when deriving worktree directory and session names.
const NameSeparator = "--"

// MaxDedupAttempts bounds how many numbered suffixes worktree-dir derivation
// will try before giving up. Fixed at 1000 per the open question in
// spec.md §9.
const MaxDedupAttempts = 1000

// ExpandTilde expands a leading "~" to the user's home directory. Paths not
// starting with "~" are returned unchanged. Returns an error, rather than
// silently leaving the "~" in place, when the home directory cannot be
// determined — ported from original_source/kiosk-core/src/paths.rs, which
// is stricter here than the teacher's permissive expandPath.
func ExpandTilde(path string) (string, error) {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return home, nil
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~/: %w", err)
		}
		return filepath.Join(home, rest), nil
	}
	return path, nil
}

// RepoLike is the minimal repository shape WorktreeDir needs, satisfied by
// models.Repository.
type RepoLike struct {
	Path string
	Name string
}

// WorktreeDir determines where to put a new worktree for branch in repo,
// avoiding collisions with existing directories. Worktrees are placed in
// WorktreeDirName inside the repository's parent directory:
//
//	~/Development/.kiosk_worktrees/kiosk--feat-awesome/
//
// If the computed candidate exists, numbered suffixes -2, -3, ... are tried
// up to MaxDedupAttempts; exceeding that bound is an error (spec P3).
func WorktreeDir(repo RepoLike, branch string) (string, error) {
	parent := filepath.Dir(repo.Path)
	root := filepath.Join(parent, WorktreeDirName)
	safeBranch := strings.ReplaceAll(branch, "/", "-")
	base := repo.Name + NameSeparator + safeBranch

	candidate := filepath.Join(root, base)
	if !pathExists(candidate) {
		return candidate, nil
	}
	for i := 2; i < MaxDedupAttempts; i++ {
		candidate := filepath.Join(root, fmt.Sprintf("%s-%d", base, i))
		if !pathExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not find an available worktree directory name after %d attempts", MaxDedupAttempts)
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// ValidateSessionName rejects session names that can't safely become a
// pane-log file name: empty, a leading dot, or anything containing a path
// separator or "..", which would let a malformed or malicious session name
// escape the logs directory (spec §4.8).
func ValidateSessionName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("session name cannot be empty")
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("session name %q cannot start with a dot", name)
	case strings.Contains(name, "/"):
		return fmt.Errorf("session name %q cannot contain a slash", name)
	case strings.Contains(name, `\`):
		return fmt.Errorf("session name %q cannot contain a backslash", name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("session name %q cannot contain \"..\"", name)
	}
	return nil
}

// PaneLogPath derives the per-session capture-log path under stateDir
// (<state-dir>/kiosk/logs/<session>.log), validating session first.
func PaneLogPath(stateDir, session string) (string, error) {
	if err := ValidateSessionName(session); err != nil {
		return "", err
	}
	return filepath.Join(stateDir, "kiosk", "logs", session+".log"), nil
}

// SessionName derives a multiplexer session name from a worktree path.
//
// The main worktree gets the repository's session name outright. Any other
// worktree gets the worktree directory's basename with the repository's Name
// prefix rewritten (first occurrence only) to SessionName. In both cases
// every "." is replaced with "_", since the multiplexer treats "." as a pane
// separator in target strings (spec P4).
func SessionName(repoName, sessionName, worktreePath string, isMain bool) string {
	if isMain {
		return strings.ReplaceAll(sessionName, ".", "_")
	}
	base := filepath.Base(worktreePath)
	derived := strings.Replace(base, repoName, sessionName, 1)
	return strings.ReplaceAll(derived, ".", "_")
}
