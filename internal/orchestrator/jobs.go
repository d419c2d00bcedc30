package orchestrator

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chmouel/kiosk/internal/agent"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/kpath"
	"github.com/chmouel/kiosk/internal/log"
	"github.com/chmouel/kiosk/internal/models"
)

// enrichConcurrency bounds the worktree-enrichment worker pool (C1).
const enrichConcurrency = 8

// discoverJob runs the fast stub-pass repository scan, grounded on
// internal/git/provider.go's ScanRepos/DiscoverRepos split: the UI gets a
// repo list immediately, then enrichJob streams in worktree detail.
func (m *Model) discoverJob() tea.Msg {
	id := uuid.New().String()
	log.Printf("job=discover id=%s start", id)
	roots := make([]git.Root, len(m.cfg.SearchRoots))
	for i, r := range m.cfg.SearchRoots {
		roots[i] = git.Root{Dir: r.Path, Depth: r.Depth}
	}
	repos := m.gitProvider.ScanRepos(roots)
	log.Printf("job=discover id=%s found=%d", id, len(repos))
	return reposDiscoveredMsg{repos: repos}
}

// enrichJob fills in worktree detail for already-discovered repos using a
// bounded errgroup worker pool (C1's EnrichConcurrently).
func (m *Model) enrichJob(repos []models.Repository) tea.Cmd {
	return func() tea.Msg {
		id := uuid.New().String()
		log.Printf("job=enrich id=%s repos=%d start", id, len(repos))
		enriched := git.EnrichConcurrently(m.ctx, m.gitProvider, repos, enrichConcurrency)
		log.Printf("job=enrich id=%s done", id)
		return reposEnrichedMsg{repos: enriched}
	}
}

// loadBranchesJob lists local and remote branches for repo, decorates them
// with worktree/session metadata, and merges in deduplicated remote-only
// entries (spec P6).
func (m *Model) loadBranchesJob(repo models.Repository) tea.Cmd {
	return func() tea.Msg {
		id := uuid.New().String()
		log.Printf("job=load-branches id=%s repo=%s start", id, repo.Name)
		entries := LoadBranchEntries(m.gitProvider, m.tmuxProvider, repo)
		log.Printf("job=load-branches id=%s repo=%s entries=%d", id, repo.Name, len(entries))
		return branchesLoadedMsg{branches: entries}
	}
}

// fetchAllJob runs `git fetch` for repo in the background; its result only
// ever updates the error banner (non-fatal on failure, per §7).
func (m *Model) fetchAllJob(repoPath string) tea.Cmd {
	return func() tea.Msg {
		err := m.gitProvider.FetchAll(m.ctx, repoPath)
		return fetchCompleteMsg{err: err}
	}
}

// openBranchJob ensures a worktree and session exist for an existing
// branch, then reports the session ready to switch/attach to (S1/S2).
func (m *Model) openBranchJob(repo models.Repository, branch models.BranchEntry) tea.Cmd {
	return func() tea.Msg {
		id := uuid.New().String()
		log.Printf("job=open-branch id=%s repo=%s branch=%s start", id, repo.Name, branch.Name)
		worktreePath := branch.WorktreePath
		if worktreePath == "" {
			var err error
			worktreePath, err = kpath.WorktreeDir(kpath.RepoLike{Path: repo.Path, Name: repo.Name}, branch.Name)
			if err != nil {
				return errMsg{err: err}
			}
			if branch.IsRemote {
				err = m.gitProvider.CreateTrackingBranchAndWorktree(m.ctx, repo.Path, branch.Name, worktreePath)
			} else {
				err = m.gitProvider.AddWorktree(m.ctx, repo.Path, branch.Name, worktreePath)
			}
			if err != nil {
				return worktreeCreatedMsg{branch: branch.Name, err: err}
			}
		}

		sessionName := kpath.SessionName(repo.Name, repo.SessionName, worktreePath, worktreePath == repo.Path)
		created := false
		if !m.tmuxProvider.SessionExists(sessionName) {
			if err := m.tmuxProvider.CreateSession(sessionName, worktreePath, m.cfg.SplitCommand); err != nil {
				return sessionReadyMsg{sessionName: sessionName, err: err}
			}
			created = true
		}
		log.Printf("job=open-branch id=%s session=%s created=%v", id, sessionName, created)
		return sessionReadyMsg{sessionName: sessionName, created: created}
	}
}

// createBranchJob creates a brand-new branch+worktree off base and a
// session for it (S2).
func (m *Model) createBranchJob(repo models.Repository, newBranch, base string) tea.Cmd {
	return func() tea.Msg {
		id := uuid.New().String()
		log.Printf("job=create-branch id=%s repo=%s branch=%s base=%s start", id, repo.Name, newBranch, base)
		worktreePath, err := kpath.WorktreeDir(kpath.RepoLike{Path: repo.Path, Name: repo.Name}, newBranch)
		if err != nil {
			return worktreeCreatedMsg{branch: newBranch, err: err}
		}
		if err := m.gitProvider.CreateBranchAndWorktree(m.ctx, repo.Path, newBranch, base, worktreePath); err != nil {
			return worktreeCreatedMsg{branch: newBranch, err: err}
		}

		sessionName := kpath.SessionName(repo.Name, repo.SessionName, worktreePath, false)
		if err := m.tmuxProvider.CreateSession(sessionName, worktreePath, m.cfg.SplitCommand); err != nil {
			return worktreeCreatedMsg{branch: newBranch, worktreePath: worktreePath, err: err}
		}
		log.Printf("job=create-branch id=%s branch=%s session=%s", id, newBranch, sessionName)
		return worktreeCreatedMsg{branch: newBranch, worktreePath: worktreePath, sessionName: sessionName}
	}
}

// removeWorktreeJob kills any session, removes the worktree (with the
// stale-metadata auto-retry already built into C1), and reports the
// outcome. This path neither writes nor clears a pending-delete journal
// entry.
func (m *Model) removeWorktreeJob(repo models.Repository, branch models.BranchEntry) tea.Cmd {
	return func() tea.Msg {
		id := uuid.New().String()
		log.Printf("job=remove-worktree id=%s repo=%s branch=%s start", id, repo.Name, branch.Name)
		sessionName := kpath.SessionName(repo.Name, repo.SessionName, branch.WorktreePath, false)
		m.tmuxProvider.KillSession(sessionName)

		if err := m.gitProvider.RemoveWorktree(m.ctx, branch.WorktreePath); err != nil {
			log.Printf("job=remove-worktree id=%s err=%v", id, err)
			return worktreeRemovedMsg{branch: branch.Name, err: err}
		}
		log.Printf("job=remove-worktree id=%s done", id)
		return worktreeRemovedMsg{branch: branch.Name}
	}
}

// pollAgentsJob polls every active session's panes for agent activity
// concurrently (C3), aggregating per spec P7.
func (m *Model) pollAgentsJob() tea.Cmd {
	return func() tea.Msg {
		sessions := m.tmuxProvider.ListSessionsWithActivity()
		statuses := make(map[string]models.AgentStatus, len(sessions))
		var mu sync.Mutex
		group, _ := errgroup.WithContext(m.ctx)
		group.SetLimit(enrichConcurrency)

		for _, s := range sessions {
			s := s
			group.Go(func() error {
				status, ok := agent.DetectForSession(m.tmuxProvider, m.childArgs, s.Name)
				if !ok {
					return nil
				}
				mu.Lock()
				statuses[s.Name] = status
				mu.Unlock()
				return nil
			})
		}
		_ = group.Wait()
		return agentStatusMsg{statuses: statuses}
	}
}

// agentPollTick schedules the next poll after the fixed 2s period (design
// note §9: the agent poller period is a fixed constant, not configurable).
func agentPollTick() tea.Cmd {
	return tea.Tick(agentPollPeriod, func(time.Time) tea.Msg { return pollTickMsg{} })
}

type pollTickMsg struct{}
