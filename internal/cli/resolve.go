// Package cli implements C7: non-interactive commands that share the
// orchestrator's building blocks (provider calls, branch composition,
// config loading) without running the main loop (spec.md §4.6). Each
// command loads configuration, resolves its repository argument by exact
// name, then executes — user preconditions become kioskerr.UserError (exit
// 1), porcelain/IO failures become kioskerr.SystemError (exit 2).
package cli

import (
	"fmt"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/kioskerr"
	"github.com/chmouel/kiosk/internal/models"
)

// SearchRoots converts cfg's search roots to the git package's Root type.
func SearchRoots(cfg config.Config) []git.Root {
	roots := make([]git.Root, len(cfg.SearchRoots))
	for i, r := range cfg.SearchRoots {
		roots[i] = git.Root{Dir: r.Path, Depth: r.Depth}
	}
	return roots
}

// ResolveRepo finds the single repository named name among cfg's search
// roots. Repository Name collisions are possible — only SessionName gets
// disambiguated by internal/git's collision resolution — so more than one
// match is a user error, the same as no match at all.
func ResolveRepo(gitProvider git.Provider, cfg config.Config, name string) (models.Repository, error) {
	repos := gitProvider.DiscoverRepos(SearchRoots(cfg))

	var matches []models.Repository
	for _, r := range repos {
		if r.Name == name {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return models.Repository{}, kioskerr.NewUser(fmt.Errorf("no repository named %q found under configured search directories", name))
	case 1:
		return matches[0], nil
	default:
		return models.Repository{}, kioskerr.NewUser(fmt.Errorf("repository name %q is ambiguous: %d repositories share it", name, len(matches)))
	}
}
