package cli

import (
	"io"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/multiplexer"
	"github.com/chmouel/kiosk/internal/orchestrator"
)

// Branches runs `kiosk branches <repo>`: lists local and remote branch
// entries decorated with worktree/session metadata (spec.md §4.6), reusing
// the same composition the orchestrator's background load-branches job
// uses so both surfaces agree.
func Branches(gitProvider git.Provider, tmuxProvider multiplexer.Provider, cfg config.Config, repoName string, jsonOut bool, stdout io.Writer) error {
	repo, err := ResolveRepo(gitProvider, cfg, repoName)
	if err != nil {
		return err
	}

	entries := orchestrator.LoadBranchEntries(gitProvider, tmuxProvider, repo)

	if jsonOut {
		return writeJSON(stdout, entries)
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Name, yesNo(e.HasWorktree()), yesNo(e.HasSession), yesNo(e.IsCurrent), yesNo(e.IsRemote)}
	}
	return writeTable(stdout, []string{"BRANCH", "WORKTREE", "SESSION", "CURRENT", "REMOTE"}, rows)
}
