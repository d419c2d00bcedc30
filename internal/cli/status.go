package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/journal"
	"github.com/chmouel/kiosk/internal/kioskerr"
	"github.com/chmouel/kiosk/internal/kpath"
	"github.com/chmouel/kiosk/internal/models"
	"github.com/chmouel/kiosk/internal/multiplexer"
	"github.com/chmouel/kiosk/internal/orchestrator"
)

// DefaultStatusLines is status's default capture window when --lines is
// absent or less than 1 (spec.md §4.6).
const DefaultStatusLines = 50

type statusResult struct {
	Session string   `json:"session"`
	Source  string   `json:"source"`
	Clients []string `json:"clients"`
	Lines   []string `json:"lines"`
}

// Status runs `kiosk status <repo> [branch]`: captures the last N pane
// lines, enumerates attached clients, and reports whether the data came
// from a live session or a capture log. Neither existing is a user error
// (spec.md §4.6).
func Status(gitProvider git.Provider, tmuxProvider multiplexer.Provider, cfg config.Config, repoName, branchName string, lines int, jsonOut bool, stdout io.Writer) error {
	if lines < 1 {
		lines = DefaultStatusLines
	}

	repo, err := ResolveRepo(gitProvider, cfg, repoName)
	if err != nil {
		return err
	}

	sessionName, err := resolveSessionName(gitProvider, tmuxProvider, repo, branchName)
	if err != nil {
		return err
	}

	stateDir, err := journal.StateDir()
	if err != nil {
		return kioskerr.NewSystem(err)
	}
	logPath, err := kpath.PaneLogPath(stateDir, sessionName)
	if err != nil {
		return kioskerr.NewUser(err)
	}

	result := statusResult{Session: sessionName}

	switch {
	case tmuxProvider.SessionExists(sessionName):
		result.Source = "live"
		content, capErr := tmuxProvider.CapturePane(sessionName, lines)
		if capErr != nil {
			return kioskerr.NewSystem(capErr)
		}
		result.Lines = tailLines(content, lines)
		result.Clients = tmuxProvider.ListClients(sessionName)
	default:
		data, readErr := os.ReadFile(logPath)
		if readErr != nil {
			return kioskerr.NewUser(fmt.Errorf("no live session and no capture log for %q", sessionName))
		}
		result.Source = "log"
		result.Lines = tailLines(string(data), lines)
	}

	if jsonOut {
		return writeJSON(stdout, result)
	}

	fmt.Fprintf(stdout, "session: %s\nsource: %s\nclients: %d\n", result.Session, result.Source, len(result.Clients))
	for _, line := range result.Lines {
		fmt.Fprintln(stdout, line)
	}
	return nil
}

// resolveSessionName derives the session name for branchName in repo
// (falling back to the main worktree's branch when branchName is empty),
// erroring if the branch doesn't exist or has no worktree.
func resolveSessionName(gitProvider git.Provider, tmuxProvider multiplexer.Provider, repo models.Repository, branchName string) (string, error) {
	if branchName == "" {
		main, ok := repo.MainWorktree()
		if !ok {
			return "", kioskerr.NewUser(fmt.Errorf("repository %q has no main worktree", repo.Name))
		}
		return kpath.SessionName(repo.Name, repo.SessionName, main.Path, true), nil
	}

	entries := orchestrator.LoadBranchEntries(gitProvider, tmuxProvider, repo)
	for _, e := range entries {
		if e.Name != branchName {
			continue
		}
		if !e.HasWorktree() {
			return "", kioskerr.NewUser(fmt.Errorf("branch %q has no worktree in repository %q", branchName, repo.Name))
		}
		isMain := e.WorktreePath == repo.Path
		return kpath.SessionName(repo.Name, repo.SessionName, e.WorktreePath, isMain), nil
	}
	return "", kioskerr.NewUser(fmt.Errorf("branch %q not found in repository %q", branchName, repo.Name))
}

// tailLines returns at most the last n lines of content, ignoring trailing
// newlines; blank lines inside that window are kept.
func tailLines(content string, n int) []string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
