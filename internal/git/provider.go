// Package git implements C1: a porcelain-based interface to repository
// scanning, branch listing, worktree CRUD, fetch and prune. Every operation
// shells out to the git binary; there is no libgit2/go-git dependency here
// because kiosk's own non-goal is "does not implement Git protocols itself —
// it shells out" (spec.md §1).
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chmouel/kiosk/internal/models"
)

const gitDirEntry = ".git"

// Root is a single search root and the recursion depth to scan beneath it.
type Root struct {
	Dir   string
	Depth uint16
}

// Provider is the trait-object-shaped collaborator the orchestrator depends
// on (spec.md §9 "trait-object providers"); CliProvider is the only
// implementation, but tests substitute fakes without subclassing.
type Provider interface {
	ScanRepos(roots []Root) []models.Repository
	DiscoverRepos(roots []Root) []models.Repository
	ScanReposStreaming(ctx context.Context, dir string, depth uint16, onFound func(models.Repository))

	ListBranches(repoPath string) []string
	ListRemoteBranches(repoPath string) []string
	ListWorktrees(repoPath string) []models.Worktree

	AddWorktree(ctx context.Context, repoPath, branch, worktreePath string) error
	CreateBranchAndWorktree(ctx context.Context, repoPath, newBranch, base, worktreePath string) error
	CreateTrackingBranchAndWorktree(ctx context.Context, repoPath, branch, worktreePath string) error
	RemoveWorktree(ctx context.Context, worktreePath string) error
	PruneWorktrees(ctx context.Context, repoPath string) error
	FetchAll(ctx context.Context, repoPath string) error

	DefaultBranch(repoPath string, localBranches []string) (string, bool)
	ResolveRepoFromCWD() (string, bool)
}

// CliProvider shells out to the git binary for every operation.
type CliProvider struct{}

var _ Provider = CliProvider{}

// ScanRepos discovers repositories without enumerating worktrees (fast
// stub pass); DiscoverRepos is the enriched variant. Both apply collision
// resolution to the final set.
func (CliProvider) ScanRepos(roots []Root) []models.Repository {
	var withDirs []repoWithSearchRoot
	for _, r := range roots {
		scanDirRecursive(r.Dir, r.Dir, r.Depth, &withDirs, false)
	}
	return applyCollisionResolution(withDirs)
}

// DiscoverRepos discovers repositories and enumerates worktrees for each.
func (CliProvider) DiscoverRepos(roots []Root) []models.Repository {
	var withDirs []repoWithSearchRoot
	for _, r := range roots {
		scanDirRecursive(r.Dir, r.Dir, r.Depth, &withDirs, true)
	}
	return applyCollisionResolution(withDirs)
}

// ScanReposStreaming emits each discovered repository through onFound as
// soon as it is found. Collision resolution is NOT applied here, so
// same-named repositories keep identical session names; ScanRepos and
// DiscoverRepos are the variants that apply it.
func (CliProvider) ScanReposStreaming(ctx context.Context, dir string, depth uint16, onFound func(models.Repository)) {
	scanDirStreaming(ctx, dir, depth, onFound)
}

type repoWithSearchRoot struct {
	repo       models.Repository
	searchRoot string
}

func scanDirStreaming(ctx context.Context, dir string, depth uint16, onFound func(models.Repository)) {
	if ctx.Err() != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if hasGitEntry(path) {
			if repo, ok := buildRepoStub(path); ok {
				onFound(repo)
			}
		} else if depth > 1 {
			scanDirStreaming(ctx, path, depth-1, onFound)
		}
	}
}

func scanDirRecursive(dir, searchRoot string, depth uint16, out *[]repoWithSearchRoot, withWorktrees bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if hasGitEntry(path) {
			var repo models.Repository
			var ok bool
			if withWorktrees {
				repo, ok = buildRepo(path)
			} else {
				repo, ok = buildRepoStub(path)
			}
			if ok {
				*out = append(*out, repoWithSearchRoot{repo: repo, searchRoot: searchRoot})
			}
		} else if depth > 1 {
			scanDirRecursive(path, searchRoot, depth-1, out, withWorktrees)
		}
	}
}

func hasGitEntry(path string) bool {
	_, err := os.Lstat(filepath.Join(path, gitDirEntry))
	return err == nil
}

func buildRepoStub(path string) (models.Repository, bool) {
	canonical := canonicalize(path)
	name := filepath.Base(canonical)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return models.Repository{}, false
	}
	return models.Repository{Path: canonical, Name: name, SessionName: name}, true
}

func buildRepo(path string) (models.Repository, bool) {
	repo, ok := buildRepoStub(path)
	if !ok {
		return repo, false
	}
	repo.Worktrees = CliProvider{}.ListWorktrees(repo.Path)
	return repo, true
}

func canonicalize(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return path
		}
		return abs
	}
	return resolved
}

// applyCollisionResolution sorts repos case-insensitively by name and
// disambiguates session names for collisions: repositories sharing the same
// name get `<name>--(<parent-dir-basename>)` (spec.md §4.1).
func applyCollisionResolution(withDirs []repoWithSearchRoot) []models.Repository {
	sort.SliceStable(withDirs, func(i, j int) bool {
		return strings.ToLower(withDirs[i].repo.Name) < strings.ToLower(withDirs[j].repo.Name)
	})

	counts := make(map[string]int, len(withDirs))
	for _, rd := range withDirs {
		counts[rd.repo.Name]++
	}

	out := make([]models.Repository, 0, len(withDirs))
	for _, rd := range withDirs {
		repo := rd.repo
		if counts[repo.Name] > 1 {
			parent := filepath.Base(rd.searchRoot)
			repo.SessionName = fmt.Sprintf("%s--(%s)", repo.Name, parent)
		} else {
			repo.SessionName = repo.Name
		}
		out = append(out, repo)
	}
	return out
}

// ListBranches returns refs/heads/* in porcelain (commit) order, unfiltered.
func (CliProvider) ListBranches(repoPath string) []string {
	out, err := runGit(context.Background(), repoPath, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil
	}
	return splitLines(out)
}

// ListRemoteBranches returns <remote>/<branch> refs with the remote prefix
// stripped and any `HEAD -> X` symbolic pointer filtered out.
func (CliProvider) ListRemoteBranches(repoPath string) []string {
	out, err := runGit(context.Background(), repoPath, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return nil
	}
	var result []string
	for _, line := range splitLines(out) {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "->") {
			continue
		}
		_, branch, ok := strings.Cut(line, "/")
		if !ok {
			continue
		}
		result = append(result, branch)
	}
	return result
}

// ListWorktrees parses `git worktree list --porcelain`. If the call fails,
// a single main-worktree stub derived from HEAD is returned — never empty.
func (CliProvider) ListWorktrees(repoPath string) []models.Worktree {
	out, err := runGit(context.Background(), repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return []models.Worktree{mainWorktreeStub(repoPath)}
	}
	worktrees := ParseWorktreePorcelain(out)
	if len(worktrees) == 0 {
		return []models.Worktree{mainWorktreeStub(repoPath)}
	}
	return worktrees
}

func mainWorktreeStub(repoPath string) models.Worktree {
	branch := ""
	if out, err := runGit(context.Background(), repoPath, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		branch = strings.TrimSpace(out)
	}
	return models.Worktree{Path: repoPath, Branch: branch, IsMain: true}
}

// staleWorktreeErr matches git's error when administrative metadata for a
// deleted worktree directory still references a branch.
const staleWorktreeErr = "already used by worktree"

// withStaleRetry implements the stale-worktree retry protocol (spec.md
// §4.1): if the first attempt fails mentioning staleWorktreeErr, prune and
// retry once; if prune also fails, surface the original error with a
// human-readable hint.
func withStaleRetry(ctx context.Context, repoPath string, attempt func() error) error {
	err := attempt()
	if err == nil || !strings.Contains(err.Error(), staleWorktreeErr) {
		return err
	}
	if pruneErr := CliProvider{}.PruneWorktrees(ctx, repoPath); pruneErr != nil {
		return fmt.Errorf("%w (prune also failed: %v; try running `git worktree prune` manually)", err, pruneErr)
	}
	return attempt()
}

// AddWorktree attaches worktreePath to branch, with the stale-worktree
// retry protocol.
func (p CliProvider) AddWorktree(ctx context.Context, repoPath, branch, worktreePath string) error {
	return withStaleRetry(ctx, repoPath, func() error {
		_, err := runGit(ctx, repoPath, "worktree", "add", worktreePath, branch)
		return err
	})
}

// CreateBranchAndWorktree creates newBranch from base and attaches
// worktreePath to it, with the stale-worktree retry protocol.
func (p CliProvider) CreateBranchAndWorktree(ctx context.Context, repoPath, newBranch, base, worktreePath string) error {
	return withStaleRetry(ctx, repoPath, func() error {
		_, err := runGit(ctx, repoPath, "worktree", "add", "-b", newBranch, worktreePath, base)
		return err
	})
}

// CreateTrackingBranchAndWorktree creates a local branch tracking
// origin/<branch> and attaches worktreePath to it, with the stale-worktree
// retry protocol.
func (p CliProvider) CreateTrackingBranchAndWorktree(ctx context.Context, repoPath, branch, worktreePath string) error {
	return withStaleRetry(ctx, repoPath, func() error {
		_, err := runGit(ctx, repoPath, "worktree", "add", worktreePath, "-b", branch, "--track", "origin/"+branch)
		return err
	})
}

// RemoveWorktree canonicalizes worktreePath and removes it. On the specific
// "is not a working tree" error it falls back to recursive directory
// removal instead of propagating; other errors propagate.
func (CliProvider) RemoveWorktree(ctx context.Context, worktreePath string) error {
	canonical := canonicalize(worktreePath)
	cmd := exec.CommandContext(ctx, "git", "worktree", "remove", canonical)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	stderr := string(out)
	if strings.Contains(stderr, "is not a working tree") {
		if _, statErr := os.Stat(canonical); statErr == nil {
			return os.RemoveAll(canonical)
		}
		return nil
	}
	return fmt.Errorf("git worktree remove failed: %s", strings.TrimSpace(stderr))
}

// PruneWorktrees forces expiry of stale administrative worktree metadata.
func (CliProvider) PruneWorktrees(ctx context.Context, repoPath string) error {
	_, err := runGit(ctx, repoPath, "worktree", "prune", "--expire", "now")
	return err
}

// FetchAll retrieves all remotes.
func (CliProvider) FetchAll(ctx context.Context, repoPath string) error {
	_, err := runGit(ctx, repoPath, "fetch", "--all")
	return err
}

// DefaultBranch tries origin/HEAD's symbolic ref first, then falls back to
// checking local branches for "main", then "master".
func (CliProvider) DefaultBranch(repoPath string, localBranches []string) (string, bool) {
	if out, err := runGit(context.Background(), repoPath, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		refname := strings.TrimSpace(out)
		if branch, ok := strings.CutPrefix(refname, "refs/remotes/origin/"); ok {
			return branch, true
		}
	}
	for _, candidate := range []string{"main", "master"} {
		for _, b := range localBranches {
			if b == candidate {
				return candidate, true
			}
		}
	}
	return "", false
}

// ResolveRepoFromCWD returns the toplevel of the git repository containing
// the current working directory, if any.
func (CliProvider) ResolveRepoFromCWD() (string, bool) {
	out, err := runGitCwd(context.Background(), "rev-parse", "--show-toplevel")
	if err != nil {
		return "", false
	}
	path := strings.TrimSpace(out)
	if path == "" {
		return "", false
	}
	return path, true
}

func runGit(ctx context.Context, repoPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return "", gitError(args, err)
	}
	return string(out), nil
}

func runGitCwd(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		return "", gitError(args, err)
	}
	return string(out), nil
}

func gitError(args []string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("git %s failed: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
	}
	return fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// EnrichConcurrently fetches worktrees for each repo in repos using a
// bounded goroutine pool (golang.org/x/sync/errgroup, replacing the
// teacher's manual WaitGroup+channel plumbing), returning a new slice in
// the same order. This is used by the orchestrator's per-repo enrichment
// background job; background jobs never mutate shared state, so each
// goroutine only ever writes to its own slot.
func EnrichConcurrently(ctx context.Context, p Provider, repos []models.Repository, limit int) []models.Repository {
	if limit <= 0 {
		limit = 8
	}
	out := make([]models.Repository, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			if gctx.Err() != nil {
				out[i] = repo
				return nil
			}
			repo.Worktrees = p.ListWorktrees(repo.Path)
			out[i] = repo
			return nil
		})
	}
	_ = g.Wait()
	return out
}
