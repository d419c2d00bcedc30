package orchestrator

import (
	"github.com/chmouel/kiosk/internal/models"
)

// reposDiscoveredMsg carries the repository set found by the discover job
// (stub pass: no worktrees enumerated yet).
type reposDiscoveredMsg struct {
	repos []models.Repository
	err   error
}

// reposEnrichedMsg carries the same repositories with worktrees filled in
// by the concurrent enrich job (spec §4.1/§5: discovery returns fast, then
// worktree detail streams in).
type reposEnrichedMsg struct {
	repos []models.Repository
	err   error
}

// branchesLoadedMsg carries the sorted branch entries for the selected
// repository (local branches decorated with worktree/session metadata,
// plus deduplicated remote-only entries).
type branchesLoadedMsg struct {
	branches []models.BranchEntry
	err      error
}

// sessionReadyMsg reports that a tmux session for (repo, branch) exists or
// was just created and is ready to switch/attach to.
type sessionReadyMsg struct {
	sessionName string
	created     bool
	err         error
}

// worktreeCreatedMsg reports the outcome of creating a branch+worktree
// (new-branch flow) or opening an existing branch with no worktree yet.
type worktreeCreatedMsg struct {
	branch       string
	worktreePath string
	sessionName  string
	err          error
}

// worktreeRemovedMsg reports the outcome of a delete-worktree operation.
type worktreeRemovedMsg struct {
	branch string
	err    error
}

// fetchCompleteMsg reports that a background fetch-all finished.
type fetchCompleteMsg struct {
	err error
}

// agentStatusMsg carries a poll cycle's aggregated agent status per
// session, keyed by session name.
type agentStatusMsg struct {
	statuses map[string]models.AgentStatus
}

// errMsg wraps a background job failure for display in the error banner.
type errMsg struct{ err error }

// rediscoverMsg fires when the search-dirs watcher observes a filesystem
// change under a configured root, telling the loop to re-run discovery.
type rediscoverMsg struct{}
