package cli

import (
	"fmt"
	"io"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/kpath"
	"github.com/chmouel/kiosk/internal/multiplexer"
)

type sessionEntry struct {
	Repo         string `json:"repo"`
	Branch       string `json:"branch"`
	WorktreePath string `json:"worktree_path"`
	Session      string `json:"session"`
	LastActivity int64  `json:"last_activity_unix"`
}

// Sessions runs `kiosk sessions`: the cross-repository join of active
// multiplexer sessions with the worktrees that produce the same session
// name (spec.md §4.6).
func Sessions(gitProvider git.Provider, tmuxProvider multiplexer.Provider, cfg config.Config, jsonOut bool, stdout io.Writer) error {
	repos := gitProvider.DiscoverRepos(SearchRoots(cfg))

	active := make(map[string]int64)
	for _, s := range tmuxProvider.ListSessionsWithActivity() {
		active[s.Name] = s.LastActivity
	}

	entries := make([]sessionEntry, 0)
	for _, repo := range repos {
		for _, wt := range repo.Worktrees {
			name := kpath.SessionName(repo.Name, repo.SessionName, wt.Path, wt.IsMain)
			activity, ok := active[name]
			if !ok {
				continue
			}
			entries = append(entries, sessionEntry{
				Repo:         repo.Name,
				Branch:       wt.Branch,
				WorktreePath: wt.Path,
				Session:      name,
				LastActivity: activity,
			})
		}
	}

	if jsonOut {
		return writeJSON(stdout, entries)
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Repo, e.Branch, e.Session, fmt.Sprintf("%d", e.LastActivity)}
	}
	return writeTable(stdout, []string{"REPO", "BRANCH", "SESSION", "LAST_ACTIVITY"}, rows)
}
