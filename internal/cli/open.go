package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/chmouel/kiosk/internal/commands"
	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/journal"
	"github.com/chmouel/kiosk/internal/kioskerr"
	"github.com/chmouel/kiosk/internal/kpath"
	"github.com/chmouel/kiosk/internal/models"
	"github.com/chmouel/kiosk/internal/multiplexer"
	"golang.org/x/term"
)

// stdoutIsTerminal reports whether fd 1 is an actual terminal, distinct
// from tmuxProvider.IsInsideTmux's "$TMUX is set" check: a session attached
// to tmux can still have its stdout piped or redirected.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// OpenOptions holds `kiosk open`'s flags (spec.md §4.6).
type OpenOptions struct {
	Branch    string
	NewBranch string
	Base      string
	NoSwitch  bool
	Run       string
	Log       bool
}

// Validate enforces open's flag-combination rules: Branch and NewBranch are
// mutually exclusive; Base requires NewBranch and vice versa.
func (o OpenOptions) Validate() error {
	switch {
	case o.Branch != "" && o.NewBranch != "":
		return kioskerr.NewUser(fmt.Errorf("--new-branch cannot be combined with a branch argument"))
	case o.NewBranch != "" && o.Base == "":
		return kioskerr.NewUser(fmt.Errorf("--new-branch requires --base"))
	case o.NewBranch == "" && o.Base != "":
		return kioskerr.NewUser(fmt.Errorf("--base requires --new-branch"))
	case o.Branch == "" && o.NewBranch == "":
		return kioskerr.NewUser(fmt.Errorf("open requires a branch argument or --new-branch"))
	}
	return nil
}

// Open runs `kiosk open <repo> [branch]`: finds or creates the worktree and
// session, then optionally enables pipe-pane logging, sends a command, and
// switches (spec.md §4.6).
func Open(ctx context.Context, gitProvider git.Provider, tmuxProvider multiplexer.Provider, cfg config.Config, repoName string, opts OpenOptions, stdout io.Writer) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if !opts.NoSwitch && !tmuxProvider.IsInsideTmux() {
		return kioskerr.NewUser(fmt.Errorf("open refuses to switch from outside a multiplexer; pass --no-switch"))
	}
	if !opts.NoSwitch && !stdoutIsTerminal() {
		return kioskerr.NewUser(fmt.Errorf("open refuses to switch when stdout is not a terminal; pass --no-switch"))
	}

	repo, err := ResolveRepo(gitProvider, cfg, repoName)
	if err != nil {
		return err
	}

	var worktreePath, branchName string
	var created bool
	if opts.NewBranch != "" {
		branchName = opts.NewBranch
		worktreePath, err = kpath.WorktreeDir(kpath.RepoLike{Path: repo.Path, Name: repo.Name}, branchName)
		if err != nil {
			return kioskerr.NewSystem(err)
		}
		if err := gitProvider.CreateBranchAndWorktree(ctx, repo.Path, branchName, opts.Base, worktreePath); err != nil {
			return kioskerr.NewSystem(err)
		}
		created = true
	} else {
		branchName = opts.Branch
		worktreePath, created, err = existingOrNewWorktree(ctx, gitProvider, repo, branchName)
		if err != nil {
			return err
		}
	}

	if created {
		if mainDir, ok := repo.MainWorktree(); ok {
			if err := commands.LinkTopSymlinks(ctx, mainDir.Path, worktreePath, commands.PorcelainStatus); err != nil {
				return kioskerr.NewSystem(err)
			}
		}
	}

	isMain := worktreePath == repo.Path
	sessionName := kpath.SessionName(repo.Name, repo.SessionName, worktreePath, isMain)
	if !tmuxProvider.SessionExists(sessionName) {
		if err := tmuxProvider.CreateSession(sessionName, worktreePath, cfg.SplitCommand); err != nil {
			return kioskerr.NewSystem(err)
		}
	}

	if opts.Log {
		if err := enableLogging(tmuxProvider, sessionName); err != nil {
			return err
		}
	}

	if opts.Run != "" {
		if err := tmuxProvider.SendKeys(sessionName, opts.Run); err != nil {
			return kioskerr.NewSystem(err)
		}
	}

	if opts.NoSwitch {
		fmt.Fprintln(stdout, sessionName)
		return nil
	}
	tmuxProvider.SwitchToSession(sessionName)
	return nil
}

func enableLogging(tmuxProvider multiplexer.Provider, sessionName string) error {
	stateDir, err := journal.StateDir()
	if err != nil {
		return kioskerr.NewSystem(err)
	}
	logPath, err := kpath.PaneLogPath(stateDir, sessionName)
	if err != nil {
		return kioskerr.NewUser(err)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return kioskerr.NewSystem(err)
	}
	if err := tmuxProvider.PipePane(sessionName, logPath); err != nil {
		return kioskerr.NewSystem(err)
	}
	return nil
}

// existingOrNewWorktree returns branch's worktree path if one already
// exists, otherwise attaches a new one — tracking origin/<branch> when
// branch is remote-only (spec.md §4.1, scenario S1). The returned bool
// reports whether a worktree was newly attached, so the caller knows
// whether it's worth linking over untracked state from the main worktree.
func existingOrNewWorktree(ctx context.Context, gitProvider git.Provider, repo models.Repository, branch string) (string, bool, error) {
	for _, wt := range repo.Worktrees {
		if wt.Branch == branch {
			return wt.Path, false, nil
		}
	}

	worktreePath, err := kpath.WorktreeDir(kpath.RepoLike{Path: repo.Path, Name: repo.Name}, branch)
	if err != nil {
		return "", false, kioskerr.NewSystem(err)
	}

	local := gitProvider.ListBranches(repo.Path)
	if slices.Contains(local, branch) {
		if err := gitProvider.AddWorktree(ctx, repo.Path, branch, worktreePath); err != nil {
			return "", false, kioskerr.NewSystem(err)
		}
		return worktreePath, true, nil
	}

	remote := gitProvider.ListRemoteBranches(repo.Path)
	if !slices.Contains(remote, branch) {
		return "", false, kioskerr.NewUser(fmt.Errorf("branch %q not found in repository %q", branch, repo.Name))
	}
	if err := gitProvider.CreateTrackingBranchAndWorktree(ctx, repo.Path, branch, worktreePath); err != nil {
		return "", false, kioskerr.NewSystem(err)
	}
	return worktreePath, true, nil
}
