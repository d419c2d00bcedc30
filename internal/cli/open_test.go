package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/kioskerr"
	"github.com/chmouel/kiosk/internal/kpath"
	"github.com/chmouel/kiosk/internal/models"
)

func TestOpenOptionsValidateMutualExclusion(t *testing.T) {
	err := OpenOptions{Branch: "main", NewBranch: "feature"}.Validate()
	require.Error(t, err)
	assert.Equal(t, 1, kioskerr.ExitCode(err))
}

func TestOpenOptionsValidateBaseRequiresNewBranch(t *testing.T) {
	err := OpenOptions{Base: "main"}.Validate()
	require.Error(t, err)
}

func TestOpenOptionsValidateNewBranchRequiresBase(t *testing.T) {
	err := OpenOptions{NewBranch: "feature"}.Validate()
	require.Error(t, err)
}

func TestOpenRefusesOutsideMultiplexerWithoutNoSwitch(t *testing.T) {
	g := &fakeGit{repos: []models.Repository{{Name: "kiosk", Path: "/repos/kiosk"}}}
	tmux := &fakeTmux{inside: false}

	err := Open(context.Background(), g, tmux, config.Config{}, "kiosk", OpenOptions{Branch: "main"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, 1, kioskerr.ExitCode(err))
}

func TestOpenExistingBranchNoSwitchPrintsSessionName(t *testing.T) {
	repo := models.Repository{
		Name: "kiosk", Path: "/repos/kiosk", SessionName: "kiosk",
		Worktrees: []models.Worktree{
			{Path: "/repos/kiosk", Branch: "main", IsMain: true},
			{Path: "/repos/kiosk--dev", Branch: "dev"},
		},
	}
	g := &fakeGit{repos: []models.Repository{repo}}
	tmux := &fakeTmux{existing: map[string]bool{}}

	var buf bytes.Buffer
	err := Open(context.Background(), g, tmux, config.Config{}, "kiosk", OpenOptions{Branch: "dev", NoSwitch: true}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "kiosk--dev")
	assert.Contains(t, tmux.created, "kiosk--dev")
}

func TestOpenNewWorktreeLinksEditorConfig(t *testing.T) {
	parent := t.TempDir()
	mainDir := filepath.Join(parent, "kiosk")
	require.NoError(t, os.MkdirAll(filepath.Join(mainDir, ".vscode"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(mainDir, ".vscode", "settings.json"), []byte("{}"), 0o600))

	repo := models.Repository{
		Name: "kiosk", Path: mainDir, SessionName: "kiosk",
		Worktrees: []models.Worktree{{Path: mainDir, Branch: "main", IsMain: true}},
	}
	g := &fakeGit{
		repos:         []models.Repository{repo},
		localBranches: map[string][]string{mainDir: {"main", "dev"}},
	}
	tmux := &fakeTmux{}

	worktreePath, wErr := kpath.WorktreeDir(kpath.RepoLike{Path: mainDir, Name: "kiosk"}, "dev")
	require.NoError(t, wErr)

	err := Open(context.Background(), g, tmux, config.Config{}, "kiosk", OpenOptions{Branch: "dev", NoSwitch: true}, &bytes.Buffer{})
	require.NoError(t, err)

	target, readErr := os.Readlink(filepath.Join(worktreePath, ".vscode"))
	require.NoError(t, readErr)
	assert.Equal(t, filepath.Join(mainDir, ".vscode"), target)
}

func TestOpenNewBranchCreatesAndSwitches(t *testing.T) {
	old := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return true }
	t.Cleanup(func() { stdoutIsTerminal = old })

	repo := models.Repository{Name: "kiosk", Path: "/repos/kiosk", SessionName: "kiosk"}
	g := &fakeGit{repos: []models.Repository{repo}}
	tmux := &fakeTmux{inside: true}

	err := Open(context.Background(), g, tmux, config.Config{}, "kiosk", OpenOptions{NewBranch: "feature", Base: "main"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, tmux.switched, 1)
}
