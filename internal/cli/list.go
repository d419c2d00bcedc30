package cli

import (
	"fmt"
	"io"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/git"
)

type repoJSON struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SessionName string `json:"session_name"`
	Worktrees   int    `json:"worktrees"`
}

// List runs `kiosk list`: prints every repository discovered under cfg's
// search roots (spec.md §4.6).
func List(gitProvider git.Provider, cfg config.Config, jsonOut bool, stdout io.Writer) error {
	repos := gitProvider.DiscoverRepos(SearchRoots(cfg))

	if jsonOut {
		out := make([]repoJSON, len(repos))
		for i, r := range repos {
			out[i] = repoJSON{Name: r.Name, Path: r.Path, SessionName: r.SessionName, Worktrees: len(r.Worktrees)}
		}
		return writeJSON(stdout, out)
	}

	rows := make([][]string, len(repos))
	for i, r := range repos {
		rows[i] = []string{r.Name, r.Path, r.SessionName, fmt.Sprintf("%d", len(r.Worktrees))}
	}
	return writeTable(stdout, []string{"NAME", "PATH", "SESSION", "WORKTREES"}, rows)
}
