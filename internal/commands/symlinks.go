// Package commands carries over a new worktree's untracked local state —
// editor configs, ignored build artifacts, a scratch tmp/ directory — so a
// freshly created worktree doesn't start from a bare checkout (spec.md
// §4.1's "open creates a usable workspace", extended beyond what the
// distilled spec names explicitly).
package commands

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// editorConfigDirs are symlinked into every new worktree regardless of git
// status, since editors look for them before the user runs anything.
var editorConfigDirs = []string{".vscode", ".idea", ".cursor", ".claude"}

// StatusFunc returns `git status --porcelain` output for repoPath, injected
// so callers (and tests) don't need a real git.Provider.
type StatusFunc func(ctx context.Context, repoPath string) string

// PorcelainStatus runs git status --porcelain in repoPath, returning its
// stdout or "" on any failure — status is an enrichment, not load-bearing.
func PorcelainStatus(ctx context.Context, repoPath string) string {
	cmd := exec.CommandContext(ctx, "git", "-C", repoPath, "status", "--porcelain")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return string(out)
}

// symlinkPath symlinks relPath from mainDir into worktreeDir, creating
// parent directories as needed. Missing sources and pre-existing symlinks
// are both treated as success: this is best-effort convenience, not a
// correctness requirement.
func symlinkPath(mainDir, worktreeDir, relPath string) error {
	src := filepath.Join(mainDir, relPath)
	if _, err := os.Lstat(src); err != nil {
		return nil
	}

	dst := filepath.Join(worktreeDir, relPath)
	if _, err := os.Lstat(dst); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	return os.Symlink(src, dst)
}

// LinkTopSymlinks links a new worktree's untracked/ignored top-level state
// back to its main worktree: git-untracked and git-ignored paths reported
// by statusFunc, plus editorConfigDirs unconditionally. It also creates an
// empty tmp/ directory and, when the new worktree already has a .envrc,
// best-effort runs `direnv allow` so direnv doesn't block on first use.
func LinkTopSymlinks(ctx context.Context, mainDir, worktreeDir string, statusFunc StatusFunc) error {
	if mainDir == "" || worktreeDir == "" {
		return errors.New("missing paths: mainDir and worktreeDir are required")
	}

	for _, line := range strings.Split(statusFunc(ctx, mainDir), "\n") {
		line = strings.TrimRight(line, " \t")
		if len(line) < 3 {
			continue
		}
		code, rest := line[:2], strings.TrimSpace(line[3:])
		if rest == "" {
			continue
		}
		if code != "??" && code != "!!" {
			continue
		}
		if err := symlinkPath(mainDir, worktreeDir, rest); err != nil {
			return err
		}
	}

	for _, dir := range editorConfigDirs {
		if err := symlinkPath(mainDir, worktreeDir, dir); err != nil {
			return err
		}
	}

	tmpDir := filepath.Join(worktreeDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o750); err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(worktreeDir, ".envrc")); err == nil {
		allowDirenv(ctx, worktreeDir)
	}
	return nil
}

func allowDirenv(ctx context.Context, worktreeDir string) {
	cmd := exec.CommandContext(ctx, "direnv", "allow", worktreeDir)
	_ = cmd.Run()
}
