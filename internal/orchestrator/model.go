// Package orchestrator implements C6: the session-orchestration engine's
// main loop. It owns the single AppState, resolves keypresses through the
// configured keymaps into Commands, dispatches background jobs for every
// operation that touches Git, tmux, or an agent's pane, and folds job
// results back into state. View() is a minimal passthrough (spec §1):
// rendering widgets are explicitly out of scope here.
package orchestrator

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/kiosk/internal/agent"
	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/log"
	"github.com/chmouel/kiosk/internal/models"
	"github.com/chmouel/kiosk/internal/multiplexer"
	"github.com/chmouel/kiosk/internal/state"
)

// agentPollPeriod is the fixed period between agent-detection poll cycles
// (design note §9: fixed, not user-configurable).
const agentPollPeriod = 2 * time.Second

// Model is the orchestrator's tea.Model. Background jobs are plain
// closures returning tea.Msg (Bubble Tea's own concurrency primitive); they
// never hold a pointer into state directly, only the provider handles and
// the inputs needed to do their one job (design note §9: workers get a
// cloneable handle, never a mutable reference to the model).
type Model struct {
	state *state.AppState

	cfg         config.Config
	gitProvider git.Provider
	tmuxProvider multiplexer.Provider
	childArgs   *agent.ChildArgsCache

	spinner spinner.Model
	width   int
	height  int

	watcher *repoWatcher

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds an orchestrator Model starting in Loading mode; repository
// discovery is kicked off from Init.
func New(cfg config.Config, gitProvider git.Provider, tmuxProvider multiplexer.Provider) *Model {
	ctx, cancel := context.WithCancel(context.Background())

	roots := make([]string, len(cfg.SearchRoots))
	for i, r := range cfg.SearchRoots {
		roots[i] = r.Path
	}
	watcher, err := newRepoWatcher(roots)
	if err != nil {
		log.Printf("search-dir watcher disabled: %v", err)
	}

	return &Model{
		state:        state.NewLoadingState("discovering repositories", cfg.SplitCommand),
		cfg:          cfg,
		gitProvider:  gitProvider,
		tmuxProvider: tmuxProvider,
		childArgs:    agent.NewChildArgsCache(30 * time.Second),
		spinner:      spinner.New(),
		watcher:      watcher,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// State exposes the current state for CLI one-shot commands that drive the
// orchestrator headlessly (C7).
func (m *Model) State() *state.AppState { return m.state }

// Init satisfies tea.Model: starts repo discovery, the spinner tick, and
// the first agent-poll tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.discoverJob, m.spinner.Tick, agentPollTick(), m.watchCmd())
}

// watchCmd blocks on the next search-dir watcher signal and turns it into a
// rediscoverMsg, re-arming itself each time it fires (nil if watching is
// disabled, which tea.Batch tolerates).
func (m *Model) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-m.watcher.events:
			return rediscoverMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Update satisfies tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pollTickMsg:
		return m, tea.Batch(m.pollAgentsJob(), agentPollTick())

	case rediscoverMsg:
		return m, tea.Batch(m.discoverJob, m.watchCmd())

	case tea.KeyMsg:
		return m.handleKey(msg)

	case reposDiscoveredMsg:
		return m.handleReposDiscovered(msg)
	case reposEnrichedMsg:
		return m.handleReposEnriched(msg)
	case branchesLoadedMsg:
		return m.handleBranchesLoaded(msg)
	case sessionReadyMsg:
		return m.handleSessionReady(msg)
	case worktreeCreatedMsg:
		return m.handleWorktreeCreated(msg)
	case worktreeRemovedMsg:
		return m.handleWorktreeRemoved(msg)
	case fetchCompleteMsg:
		if msg.err != nil {
			m.state.Error = msg.err.Error()
		}
		return m, nil
	case agentStatusMsg:
		m.applyAgentStatuses(msg.statuses)
		return m, nil
	case errMsg:
		m.state.Error = msg.err.Error()
		return m, nil
	}
	return m, nil
}

// View satisfies tea.Model. Rendering widgets are out of scope (spec §1);
// this exists only so Model type-checks as a tea.Model for the real
// bubbletea.Program loop in cmd/kiosk.
func (m *Model) View() string { return "" }

// Close cancels outstanding background jobs, stops the search-dir watcher
// and writes a shutdown line to the debug log; it does not close the log.
func (m *Model) Close() {
	m.cancel()
	m.watcher.Close()
	log.Printf("orchestrator shutting down")
}

func (m *Model) applyAgentStatuses(statuses map[string]models.AgentStatus) {
	for i := range m.state.Branches {
		entry := &m.state.Branches[i]
		if entry.WorktreePath == "" {
			continue
		}
		repo, ok := m.state.SelectedRepo()
		if !ok {
			continue
		}
		wt := models.Worktree{Path: entry.WorktreePath}
		name := sessionNameFor(repo, wt)
		if status, ok := statuses[name]; ok {
			entry.AttentionLevel = status.State.Priority()
			entry.LastActivity = time.Now().Unix()
		}
	}
}
