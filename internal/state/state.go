// Package state implements C4's mutable half: the Mode tagged variant and
// AppState that the orchestrator updates in response to actions. Pure data
// types (Repository, Worktree, BranchEntry) live in internal/models; this
// package is where those types compose into "what screen is the user on
// right now".
package state

import (
	"github.com/chmouel/kiosk/internal/list"
	"github.com/chmouel/kiosk/internal/models"
)

// ModeKind tags which variant a Mode value holds.
type ModeKind int

const (
	ModeRepoSelect ModeKind = iota
	ModeBranchSelect
	ModeNewBranchBase
	ModeLoading
	ModeConfirmDelete
	ModeHelp
)

// Mode is the orchestrator's screen, a tagged variant rather than an
// inheritance hierarchy (design note: avoid deep Help-of-Help nesting).
type Mode struct {
	Kind ModeKind

	// ModeLoading
	LoadingMessage string

	// ModeConfirmDelete
	ConfirmBranch     string
	ConfirmHasSession bool

	// ModeHelp: previous is boxed so the zero value (not a pointer) can't
	// represent Help{previous: Help{...}}; NewHelp rejects nesting instead.
	Previous *Mode
}

// NewRepoSelect, NewBranchSelect, NewNewBranchBase are the zero-argument
// mode constructors; all other fields are irrelevant in these variants.
func NewRepoSelect() Mode     { return Mode{Kind: ModeRepoSelect} }
func NewBranchSelect() Mode   { return Mode{Kind: ModeBranchSelect} }
func NewNewBranchBase() Mode  { return Mode{Kind: ModeNewBranchBase} }

// NewLoading builds a Loading mode carrying a spinner caption.
func NewLoading(message string) Mode {
	return Mode{Kind: ModeLoading, LoadingMessage: message}
}

// NewConfirmDelete builds a ConfirmDelete mode for the given branch.
func NewConfirmDelete(branch string, hasSession bool) Mode {
	return Mode{Kind: ModeConfirmDelete, ConfirmBranch: branch, ConfirmHasSession: hasSession}
}

// NewHelp wraps previous in a Help overlay. Nesting Help inside Help is
// rejected at construction (design note, §9): it returns previous unchanged
// rather than building a deeper stack, since a second '?' while already in
// Help means "close help", not "push another layer".
func NewHelp(previous Mode) Mode {
	if previous.Kind == ModeHelp {
		return previous
	}
	return Mode{Kind: ModeHelp, Previous: &previous}
}

// NewBranchFlow holds in-progress state for creating a branch+worktree: the
// name the user is typing and the list of candidate base branches.
type NewBranchFlow struct {
	NewName string
	Bases   []string
	List    *list.SearchableList
}

// AppState is the orchestrator's central, single-owner state. Background
// jobs never mutate it directly; they emit events that the main loop folds
// in.
type AppState struct {
	Repos    []models.Repository
	RepoList *list.SearchableList

	SelectedRepoIdx *int
	Branches        []models.BranchEntry
	BranchList      *list.SearchableList

	NewBranchBase *NewBranchFlow

	SplitCommand string
	Mode         Mode
	Error        string
}

// New builds state at the top-level repo-select screen, populated with an
// already-discovered repository set.
func New(repos []models.Repository, splitCommand string) *AppState {
	return &AppState{
		Repos:        repos,
		RepoList:     list.New(len(repos)),
		BranchList:   list.New(0),
		SplitCommand: splitCommand,
		Mode:         NewRepoSelect(),
	}
}

// NewLoadingState builds state before repository discovery has completed:
// Loading mode, no repos yet.
func NewLoadingState(loadingMessage, splitCommand string) *AppState {
	return &AppState{
		RepoList:     list.New(0),
		BranchList:   list.New(0),
		SplitCommand: splitCommand,
		Mode:         NewLoading(loadingMessage),
	}
}

// ActiveList returns the SearchableList backing the current mode's
// input/filter, or nil for modes with no list (Loading, ConfirmDelete,
// Help).
func (s *AppState) ActiveList() *list.SearchableList {
	switch s.Mode.Kind {
	case ModeRepoSelect:
		return s.RepoList
	case ModeBranchSelect:
		return s.BranchList
	case ModeNewBranchBase:
		if s.NewBranchBase != nil {
			return s.NewBranchBase.List
		}
		return nil
	default:
		return nil
	}
}

// SelectedRepo returns the repository at SelectedRepoIdx, if set and valid.
func (s *AppState) SelectedRepo() (models.Repository, bool) {
	if s.SelectedRepoIdx == nil || *s.SelectedRepoIdx < 0 || *s.SelectedRepoIdx >= len(s.Repos) {
		return models.Repository{}, false
	}
	return s.Repos[*s.SelectedRepoIdx], true
}

// ClearError clears the error banner; spec §7 calls for this on any
// keypress while an error is showing, before the new action dispatches.
func (s *AppState) ClearError() { s.Error = "" }
