package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/journal"
	"github.com/chmouel/kiosk/internal/kioskerr"
	"github.com/chmouel/kiosk/internal/kpath"
	"github.com/chmouel/kiosk/internal/models"
	"github.com/chmouel/kiosk/internal/multiplexer"
)

// Delete runs `kiosk delete <repo> <branch>`: validates, kills any
// session, removes the capture log, journals the pending delete, removes
// the worktree, un-journals, then prunes stale metadata (spec.md §4.6, §4.7).
func Delete(ctx context.Context, gitProvider git.Provider, tmuxProvider multiplexer.Provider, cfg config.Config, repoName, branchName string, force, jsonOut bool, stdout io.Writer) error {
	repo, err := ResolveRepo(gitProvider, cfg, repoName)
	if err != nil {
		return err
	}

	if main, ok := repo.MainWorktree(); ok && main.Branch == branchName {
		return kioskerr.NewUser(fmt.Errorf("cannot delete the current branch %q", branchName))
	}

	var target models.Worktree
	found := false
	for _, wt := range repo.Worktrees {
		if wt.Branch == branchName {
			target = wt
			found = true
			break
		}
	}
	if !found {
		return kioskerr.NewUser(fmt.Errorf("branch %q has no worktree in repository %q", branchName, repo.Name))
	}

	pending := journal.Load()
	entry := models.PendingWorktreeDelete{RepoPath: repo.Path, BranchName: branchName}
	for _, p := range pending {
		if p.Key() == entry.Key() {
			return kioskerr.NewUser(fmt.Errorf("branch %q is already pending deletion", branchName))
		}
	}

	sessionName := kpath.SessionName(repo.Name, repo.SessionName, target.Path, target.IsMain)
	hasSession := tmuxProvider.SessionExists(sessionName)
	if hasSession && !force && len(tmuxProvider.ListClients(sessionName)) > 0 {
		return kioskerr.NewUser(fmt.Errorf("session %q has attached clients; pass --force to delete anyway", sessionName))
	}
	if hasSession {
		tmuxProvider.KillSession(sessionName)
	}

	if stateDir, dirErr := journal.StateDir(); dirErr == nil {
		if logPath, pathErr := kpath.PaneLogPath(stateDir, sessionName); pathErr == nil {
			_ = os.Remove(logPath)
		}
	}

	entry.WorktreePath = target.Path
	entry.StartedAtUnixSec = time.Now().Unix()
	pending = append(pending, entry)
	if err := journal.Save(pending); err != nil {
		return kioskerr.NewSystem(fmt.Errorf("journaling pending delete: %w", err))
	}

	removeErr := gitProvider.RemoveWorktree(ctx, target.Path)

	remaining := make([]models.PendingWorktreeDelete, 0, len(pending))
	for _, p := range pending {
		if p.Key() != entry.Key() {
			remaining = append(remaining, p)
		}
	}
	if err := journal.Save(remaining); err != nil {
		return kioskerr.NewSystem(fmt.Errorf("un-journaling pending delete: %w", err))
	}

	if removeErr != nil {
		return kioskerr.NewSystem(removeErr)
	}
	if err := gitProvider.PruneWorktrees(ctx, repo.Path); err != nil {
		return kioskerr.NewSystem(err)
	}

	if jsonOut {
		return writeJSON(stdout, map[string]string{"deleted": branchName, "session": sessionName})
	}
	fmt.Fprintf(stdout, "deleted %s (%s)\n", branchName, sessionName)
	return nil
}
