package orchestrator

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/list"
	"github.com/chmouel/kiosk/internal/models"
	"github.com/chmouel/kiosk/internal/state"
)

// handleKey clears any error banner, resolves the pressed key into a
// Command via the configured keymaps, and dispatches it. Loading-mode
// input is restricted to Ctrl+C (§7); everything else in that mode is
// silently ignored.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev := convertTeaKey(msg.String())

	if m.state.Mode.Kind == state.ModeLoading {
		if ev == (config.KeyEvent{Code: "c", Mods: config.ModCtrl}) {
			m.Close()
			return m, tea.Quit
		}
		return m, nil
	}

	m.state.ClearError()

	if m.state.Mode.Kind == state.ModeHelp {
		m.state.Mode = *m.state.Mode.Previous
		return m, nil
	}

	cmd, ok := m.resolveCommand(ev)
	if !ok {
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			return m.dispatchSearchInsert(msg.Runes[0])
		}
		return m, nil
	}
	return m.dispatch(cmd)
}

func (m *Model) resolveCommand(ev config.KeyEvent) (config.Command, bool) {
	keymap := m.activeKeymap()
	if keymap != nil {
		if cmd, ok := keymap[ev]; ok {
			return cmd, true
		}
	}
	if cmd, ok := m.cfg.Keys.General[ev]; ok {
		return cmd, true
	}
	return 0, false
}

func (m *Model) activeKeymap() config.KeyMap {
	switch m.state.Mode.Kind {
	case state.ModeRepoSelect:
		return m.cfg.Keys.RepoSelect
	case state.ModeBranchSelect:
		return m.cfg.Keys.BranchSelect
	case state.ModeNewBranchBase:
		return m.cfg.Keys.NewBranchBase
	case state.ModeConfirmDelete:
		return m.cfg.Keys.Confirmation
	default:
		return nil
	}
}

// convertTeaKey turns bubbletea's KeyMsg.String() form ("ctrl+c", "pgup",
// "A") into the config package's normalized KeyEvent.
func convertTeaKey(s string) config.KeyEvent {
	parts := strings.Split(s, "+")
	code := parts[len(parts)-1]
	mods := config.ModNone
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl":
			mods |= config.ModCtrl
		case "alt":
			mods |= config.ModAlt
		case "shift":
			mods |= config.ModShift
		}
	}
	switch code {
	case "pgup":
		code = "pageup"
	case "pgdown":
		code = "pagedown"
	case "space":
		code = " "
	}
	return config.KeyEvent{Code: code, Mods: mods}
}

func (m *Model) dispatch(cmd config.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case config.CommandNoop:
		return m, nil
	case config.CommandQuit:
		m.Close()
		return m, tea.Quit
	case config.CommandShowHelp:
		m.state.Mode = state.NewHelp(m.state.Mode)
		return m, nil
	case config.CommandGoBack:
		return m.goBack()
	case config.CommandOpenRepo:
		return m.openRepoDirect()
	case config.CommandEnterRepo:
		return m.enterSelectedRepo()
	case config.CommandOpenBranch:
		if m.state.Mode.Kind == state.ModeNewBranchBase {
			return m.confirmNewBranchBase()
		}
		return m.openSelectedBranch()
	case config.CommandNewBranch:
		return m.startNewBranch()
	case config.CommandDeleteWorktree:
		return m.startDeleteWorktree()
	case config.CommandConfirm:
		return m.confirmDelete()
	case config.CommandCancel:
		return m.cancelDelete()
	case config.CommandMoveUp:
		return m.move(-1)
	case config.CommandMoveDown:
		return m.move(1)
	case config.CommandHalfPageUp:
		return m.move(-pageStep / 2)
	case config.CommandHalfPageDown:
		return m.move(pageStep / 2)
	case config.CommandPageUp:
		return m.move(-pageStep)
	case config.CommandPageDown:
		return m.move(pageStep)
	case config.CommandMoveTop:
		if l := m.state.ActiveList(); l != nil {
			l.MoveToTop()
		}
		return m, nil
	case config.CommandMoveBottom:
		if l := m.state.ActiveList(); l != nil {
			l.MoveToBottom()
		}
		return m, nil
	case config.CommandSearchPop:
		if l := m.state.ActiveList(); l != nil {
			l.Backspace()
			m.refilterActiveList()
		}
		return m, nil
	case config.CommandSearchDeleteWord:
		if l := m.state.ActiveList(); l != nil {
			l.DeleteWord()
			m.refilterActiveList()
		}
		return m, nil
	case config.CommandCursorLeft:
		if l := m.state.ActiveList(); l != nil {
			l.CursorLeft()
		}
		return m, nil
	case config.CommandCursorRight:
		if l := m.state.ActiveList(); l != nil {
			l.CursorRight()
		}
		return m, nil
	case config.CommandCursorStart:
		if l := m.state.ActiveList(); l != nil {
			l.CursorStart()
		}
		return m, nil
	case config.CommandCursorEnd:
		if l := m.state.ActiveList(); l != nil {
			l.CursorEnd()
		}
		return m, nil
	}
	return m, nil
}

// pageStep is how many rows Page movement covers (HalfPage covers half of
// it). It is fixed; the terminal height from WindowSizeMsg is not used.
const pageStep = 10

func (m *Model) move(delta int) (tea.Model, tea.Cmd) {
	if l := m.state.ActiveList(); l != nil {
		l.MoveSelection(delta)
	}
	return m, nil
}

func (m *Model) dispatchSearchInsert(r rune) (tea.Model, tea.Cmd) {
	l := m.state.ActiveList()
	if l == nil {
		return m, nil
	}
	l.InsertChar(r)
	m.refilterActiveList()
	return m, nil
}

func (m *Model) refilterActiveList() {
	switch m.state.Mode.Kind {
	case state.ModeRepoSelect:
		names := make([]string, len(m.state.Repos))
		for i, r := range m.state.Repos {
			names[i] = r.DisplayName()
		}
		m.state.RepoList.Apply(names)
	case state.ModeBranchSelect:
		names := make([]string, len(m.state.Branches))
		for i, b := range m.state.Branches {
			names[i] = b.Name
		}
		m.state.BranchList.Apply(names)
	case state.ModeNewBranchBase:
		if m.state.NewBranchBase != nil {
			m.state.NewBranchBase.List.Apply(m.state.NewBranchBase.Bases)
		}
	}
}

func (m *Model) goBack() (tea.Model, tea.Cmd) {
	switch m.state.Mode.Kind {
	case state.ModeBranchSelect:
		m.state.Mode = state.NewRepoSelect()
		m.state.SelectedRepoIdx = nil
	case state.ModeNewBranchBase:
		m.state.Mode = state.NewBranchSelect()
		m.state.NewBranchBase = nil
	}
	return m, nil
}

func (m *Model) selectedRepoList() (models.Repository, int, bool) {
	if m.state.RepoList.Selected == nil {
		return models.Repository{}, 0, false
	}
	idx := m.state.RepoList.Filtered[*m.state.RepoList.Selected].Index
	if idx < 0 || idx >= len(m.state.Repos) {
		return models.Repository{}, 0, false
	}
	return m.state.Repos[idx], idx, true
}

// enterSelectedRepo switches into BranchSelect mode for the highlighted
// repository (Action::EnterRepo — browse its branches).
func (m *Model) enterSelectedRepo() (tea.Model, tea.Cmd) {
	repo, idx, ok := m.selectedRepoList()
	if !ok {
		return m, nil
	}
	m.state.SelectedRepoIdx = &idx
	m.state.Mode = state.NewLoading("loading branches")
	return m, m.loadBranchesJob(repo)
}

// openRepoDirect jumps straight to a session on the repository's main
// worktree (Action::OpenRepo — the quick-open shortcut, no branch
// browsing).
func (m *Model) openRepoDirect() (tea.Model, tea.Cmd) {
	repo, idx, ok := m.selectedRepoList()
	if !ok {
		return m, nil
	}
	m.state.SelectedRepoIdx = &idx
	mainWT, ok := repo.MainWorktree()
	if !ok {
		return m, nil
	}
	branch := models.BranchEntry{Name: mainWT.Branch, WorktreePath: mainWT.Path, IsCurrent: true}
	return m, m.openBranchJob(repo, branch)
}

func (m *Model) selectedBranch() (models.BranchEntry, bool) {
	if m.state.BranchList.Selected == nil {
		return models.BranchEntry{}, false
	}
	idx := m.state.BranchList.Filtered[*m.state.BranchList.Selected].Index
	if idx < 0 || idx >= len(m.state.Branches) {
		return models.BranchEntry{}, false
	}
	return m.state.Branches[idx], true
}

func (m *Model) openSelectedBranch() (tea.Model, tea.Cmd) {
	branch, ok := m.selectedBranch()
	if !ok {
		return m, nil
	}
	repo, ok := m.state.SelectedRepo()
	if !ok {
		return m, nil
	}
	return m, m.openBranchJob(repo, branch)
}

// startNewBranch begins the new-branch flow: the name typed into the
// branch list's search box (original_source/kiosk-tui/src/app/actions.rs
// handle_start_new_branch) becomes the new branch's name, and the mode
// switches to picking a base branch.
func (m *Model) startNewBranch() (tea.Model, tea.Cmd) {
	if _, ok := m.state.SelectedRepo(); !ok {
		return m, nil
	}
	newName := m.state.BranchList.Search
	if newName == "" {
		m.state.Error = "Branch name cannot be empty."
		return m, nil
	}

	bases := make([]string, 0, len(m.state.Branches))
	for _, b := range m.state.Branches {
		if !b.IsRemote {
			bases = append(bases, b.Name)
		}
	}
	m.state.NewBranchBase = &state.NewBranchFlow{NewName: newName, Bases: bases, List: list.New(len(bases))}
	m.state.Mode = state.NewNewBranchBase()
	return m, nil
}

func (m *Model) confirmNewBranchBase() (tea.Model, tea.Cmd) {
	flow := m.state.NewBranchBase
	if flow == nil || flow.List.Selected == nil {
		return m, nil
	}
	repo, ok := m.state.SelectedRepo()
	if !ok {
		return m, nil
	}
	idx := flow.List.Filtered[*flow.List.Selected].Index
	if idx < 0 || idx >= len(flow.Bases) {
		return m, nil
	}
	base := flow.Bases[idx]
	m.state.Mode = state.NewLoading("creating branch " + flow.NewName + " from " + base)
	return m, m.createBranchJob(repo, flow.NewName, base)
}

func (m *Model) startDeleteWorktree() (tea.Model, tea.Cmd) {
	branch, ok := m.selectedBranch()
	if !ok || !branch.HasWorktree() || branch.IsCurrent {
		return m, nil
	}
	m.state.Mode = state.NewConfirmDelete(branch.Name, branch.HasSession)
	return m, nil
}

func (m *Model) confirmDelete() (tea.Model, tea.Cmd) {
	if m.state.Mode.Kind != state.ModeConfirmDelete {
		return m, nil
	}
	repo, ok := m.state.SelectedRepo()
	if !ok {
		m.state.Mode = state.NewBranchSelect()
		return m, nil
	}
	var branch models.BranchEntry
	for _, b := range m.state.Branches {
		if b.Name == m.state.Mode.ConfirmBranch {
			branch = b
			break
		}
	}
	m.state.Mode = state.NewLoading("removing worktree")
	return m, m.removeWorktreeJob(repo, branch)
}

func (m *Model) cancelDelete() (tea.Model, tea.Cmd) {
	if m.state.Mode.Kind == state.ModeConfirmDelete {
		m.state.Mode = state.NewBranchSelect()
	}
	return m, nil
}

func (m *Model) handleReposDiscovered(msg reposDiscoveredMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state.Error = msg.err.Error()
		return m, nil
	}
	m.state.Repos = msg.repos
	m.state.RepoList = list.New(len(msg.repos))
	m.state.Mode = state.NewRepoSelect()
	return m, m.enrichJob(msg.repos)
}

func (m *Model) handleReposEnriched(msg reposEnrichedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state.Error = msg.err.Error()
		return m, nil
	}
	m.state.Repos = msg.repos
	return m, nil
}

func (m *Model) handleBranchesLoaded(msg branchesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state.Error = msg.err.Error()
		m.state.Mode = state.NewRepoSelect()
		return m, nil
	}
	m.state.Branches = msg.branches
	m.state.BranchList = list.New(len(msg.branches))
	m.state.Mode = state.NewBranchSelect()
	return m, nil
}

func (m *Model) handleSessionReady(msg sessionReadyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state.Error = msg.err.Error()
		m.state.Mode = state.NewBranchSelect()
		return m, nil
	}
	m.tmuxProvider.SwitchToSession(msg.sessionName)
	return m, nil
}

func (m *Model) handleWorktreeCreated(msg worktreeCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state.Error = msg.err.Error()
		m.state.Mode = state.NewBranchSelect()
		return m, nil
	}
	m.state.Branches = append(m.state.Branches, models.BranchEntry{
		Name:         msg.branch,
		WorktreePath: msg.worktreePath,
		HasSession:   msg.sessionName != "",
	})
	sortBranchEntries(m.state.Branches)
	m.state.BranchList = list.New(len(m.state.Branches))
	m.state.NewBranchBase = nil
	m.state.Mode = state.NewBranchSelect()
	if msg.sessionName != "" {
		m.tmuxProvider.SwitchToSession(msg.sessionName)
	}
	return m, nil
}

func (m *Model) handleWorktreeRemoved(msg worktreeRemovedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state.Error = msg.err.Error()
		m.state.Mode = state.NewBranchSelect()
		return m, nil
	}
	filtered := m.state.Branches[:0]
	for _, b := range m.state.Branches {
		if b.Name != msg.branch {
			filtered = append(filtered, b)
		}
	}
	m.state.Branches = filtered
	m.state.BranchList = list.New(len(m.state.Branches))
	m.state.Mode = state.NewBranchSelect()
	return m, nil
}
