package orchestrator

import (
	"sort"

	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/kpath"
	"github.com/chmouel/kiosk/internal/models"
	"github.com/chmouel/kiosk/internal/multiplexer"
)

// LoadBranchEntries lists local and remote branches for repo and decorates
// them with worktree/session metadata, merging in deduplicated remote-only
// entries (spec P6). Shared between the background loadBranchesJob and C7's
// one-shot `branches` command so both compose entries identically.
func LoadBranchEntries(gitProvider git.Provider, tmuxProvider multiplexer.Provider, repo models.Repository) []models.BranchEntry {
	local := gitProvider.ListBranches(repo.Path)
	remote := gitProvider.ListRemoteBranches(repo.Path)

	active := make(map[string]bool)
	for _, s := range tmuxProvider.ListSessionsWithActivity() {
		active[s.Name] = true
	}

	entries := buildBranchEntries(repo, local, active)
	entries = append(entries, buildRemoteBranchEntries(remote, local)...)
	return entries
}

// buildBranchEntries composes local branch entries decorated with worktree
// and session metadata, grounded on original_source/kiosk-core/src/state.rs
// BranchEntry::build_sorted: sessions first, then worktrees, then
// alphabetical.
func buildBranchEntries(repo models.Repository, localBranches []string, activeSessions map[string]bool) []models.BranchEntry {
	wtByBranch := make(map[string]models.Worktree, len(repo.Worktrees))
	for _, wt := range repo.Worktrees {
		if wt.Branch != "" {
			wtByBranch[wt.Branch] = wt
		}
	}

	var currentBranch string
	if len(repo.Worktrees) > 0 {
		currentBranch = repo.Worktrees[0].Branch
	}

	entries := make([]models.BranchEntry, 0, len(localBranches))
	for _, name := range localBranches {
		wt, hasWT := wtByBranch[name]
		entry := models.BranchEntry{
			Name:           name,
			IsCurrent:      name == currentBranch,
			AttentionLevel: -1,
		}
		if hasWT {
			entry.WorktreePath = wt.Path
			entry.HasSession = activeSessions[sessionNameFor(repo, wt)]
		}
		entries = append(entries, entry)
	}

	sortBranchEntries(entries)
	return entries
}

// buildRemoteBranchEntries returns remote branch entries for names that
// have no local counterpart, preserving remote order (spec P6).
func buildRemoteBranchEntries(remoteNames, localNames []string) []models.BranchEntry {
	local := make(map[string]bool, len(localNames))
	for _, n := range localNames {
		local[n] = true
	}

	entries := make([]models.BranchEntry, 0)
	for _, name := range remoteNames {
		if local[name] {
			continue
		}
		entries = append(entries, models.BranchEntry{Name: name, IsRemote: true, AttentionLevel: -1})
	}
	return entries
}

func sortBranchEntries(entries []models.BranchEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsRemote != b.IsRemote {
			return !a.IsRemote
		}
		if a.HasSession != b.HasSession {
			return a.HasSession
		}
		if a.HasWorktree() != b.HasWorktree() {
			return a.HasWorktree()
		}
		return a.Name < b.Name
	})
}

func sessionNameFor(repo models.Repository, wt models.Worktree) string {
	return kpath.SessionName(repo.Name, repo.SessionName, wt.Path, wt.IsMain)
}
