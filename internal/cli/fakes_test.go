package cli

import (
	"context"

	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/models"
	"github.com/chmouel/kiosk/internal/multiplexer"
)

// fakeGit implements git.Provider with canned responses, enough to drive
// C7's commands without shelling out.
type fakeGit struct {
	repos          []models.Repository
	worktrees      map[string][]models.Worktree
	localBranches  map[string][]string
	remoteBranches map[string][]string

	addWorktreeErr   error
	createBranchErr  error
	trackingErr      error
	removeErr        error
	pruneErr         error
	removedWorktrees []string
}

var _ git.Provider = (*fakeGit)(nil)

func (f *fakeGit) ScanRepos([]git.Root) []models.Repository     { return f.repos }
func (f *fakeGit) DiscoverRepos([]git.Root) []models.Repository { return f.repos }
func (f *fakeGit) ScanReposStreaming(context.Context, string, uint16, func(models.Repository)) {}

func (f *fakeGit) ListBranches(repoPath string) []string       { return f.localBranches[repoPath] }
func (f *fakeGit) ListRemoteBranches(repoPath string) []string { return f.remoteBranches[repoPath] }
func (f *fakeGit) ListWorktrees(repoPath string) []models.Worktree { return f.worktrees[repoPath] }

func (f *fakeGit) AddWorktree(context.Context, string, string, string) error {
	return f.addWorktreeErr
}
func (f *fakeGit) CreateBranchAndWorktree(context.Context, string, string, string, string) error {
	return f.createBranchErr
}
func (f *fakeGit) CreateTrackingBranchAndWorktree(context.Context, string, string, string) error {
	return f.trackingErr
}
func (f *fakeGit) RemoveWorktree(_ context.Context, worktreePath string) error {
	f.removedWorktrees = append(f.removedWorktrees, worktreePath)
	return f.removeErr
}
func (f *fakeGit) PruneWorktrees(context.Context, string) error { return f.pruneErr }
func (f *fakeGit) FetchAll(context.Context, string) error       { return nil }

func (f *fakeGit) DefaultBranch(string, []string) (string, bool) { return "", false }
func (f *fakeGit) ResolveRepoFromCWD() (string, bool)             { return "", false }

// fakeTmux implements multiplexer.Provider, recording calls for assertions.
type fakeTmux struct {
	existing map[string]bool
	sessions []multiplexer.SessionActivity
	clients  map[string][]string
	captured map[string]string
	inside   bool

	created  []string
	switched []string
	killed   []string
	piped    map[string]string

	createErr error
	captureErr error
}

var _ multiplexer.Provider = (*fakeTmux)(nil)

func (f *fakeTmux) ListSessionsWithActivity() []multiplexer.SessionActivity { return f.sessions }
func (f *fakeTmux) SessionExists(name string) bool                         { return f.existing[name] }
func (f *fakeTmux) CreateSession(name, _, _ string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, name)
	return nil
}

func (f *fakeTmux) CapturePane(session string, _ int) (string, error) {
	if f.captureErr != nil {
		return "", f.captureErr
	}
	return f.captured[session], nil
}
func (f *fakeTmux) CapturePaneWithPane(string, string, int) (string, error) { return "", nil }
func (f *fakeTmux) CaptureByPaneIndex(string, int, int) (string, bool)      { return "", false }

func (f *fakeTmux) SendKeys(string, string) error              { return nil }
func (f *fakeTmux) SendKeysRaw(string, string, []string) error { return nil }
func (f *fakeTmux) SendTextRaw(string, string, string) error   { return nil }

func (f *fakeTmux) PanePaneCurrentCommand(string, string) (string, error) { return "", nil }
func (f *fakeTmux) SessionActivityOf(string) (int64, error)               { return 0, nil }
func (f *fakeTmux) PaneCount(string) (int, error)                         { return 1, nil }
func (f *fakeTmux) ListPanesDetailed(string) []multiplexer.PaneInfo       { return nil }

func (f *fakeTmux) PipePane(session, logPath string) error {
	if f.piped == nil {
		f.piped = make(map[string]string)
	}
	f.piped[session] = logPath
	return nil
}
func (f *fakeTmux) ListClients(session string) []string { return f.clients[session] }

func (f *fakeTmux) SwitchToSession(name string) { f.switched = append(f.switched, name) }
func (f *fakeTmux) KillSession(name string)      { f.killed = append(f.killed, name) }
func (f *fakeTmux) IsInsideTmux() bool           { return f.inside }
