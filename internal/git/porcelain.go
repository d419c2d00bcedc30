package git

import (
	"strings"

	"github.com/chmouel/kiosk/internal/models"
)

// ParseWorktreePorcelain parses the output of `git worktree list --porcelain`
// into a list of worktrees. Each record is separated by a blank line and
// begins with a `worktree <path>` line, optionally followed by `branch
// refs/heads/<name>`, `bare`, or `detached`. The first record is always the
// main worktree (spec P2).
func ParseWorktreePorcelain(porcelain string) []models.Worktree {
	var worktrees []models.Worktree
	var current *models.Worktree

	flush := func() {
		if current != nil {
			worktrees = append(worktrees, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(porcelain, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &models.Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "branch "):
			if current != nil {
				ref := strings.TrimPrefix(line, "branch ")
				current.Branch = strings.TrimPrefix(ref, "refs/heads/")
			}
		}
	}
	flush()

	for i := range worktrees {
		worktrees[i].IsMain = i == 0
	}
	return worktrees
}
