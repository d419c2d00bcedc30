package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chmouel/kiosk/internal/models"
)

func repoFixture() models.Repository {
	return models.Repository{
		Path:        "/t/alpha",
		Name:        "alpha",
		SessionName: "alpha",
		Worktrees: []models.Worktree{
			{Path: "/t/alpha", Branch: "main", IsMain: true},
			{Path: "/t/.kiosk_worktrees/alpha--dev", Branch: "dev"},
		},
	}
}

func TestBuildBranchEntriesSessionsFirst(t *testing.T) {
	repo := repoFixture()
	active := map[string]bool{"alpha--dev": true}

	entries := buildBranchEntries(repo, []string{"dev", "main", "zeta"}, active)

	assert.Equal(t, "dev", entries[0].Name)
	assert.True(t, entries[0].HasSession)
	assert.True(t, entries[0].HasWorktree())

	assert.Equal(t, "main", entries[1].Name)
	assert.True(t, entries[1].IsCurrent)
	assert.False(t, entries[1].HasSession)

	assert.Equal(t, "zeta", entries[2].Name)
	assert.False(t, entries[2].HasWorktree())
}

func TestBuildRemoteBranchEntriesDeduplicates(t *testing.T) {
	entries := buildRemoteBranchEntries([]string{"main", "dev", "feature/x"}, []string{"main", "dev"})
	assert.Len(t, entries, 1)
	assert.Equal(t, "feature/x", entries[0].Name)
	assert.True(t, entries[0].IsRemote)
}

func TestBuildRemoteBranchEntriesPreservesOrder(t *testing.T) {
	entries := buildRemoteBranchEntries([]string{"z", "a", "m"}, nil)
	assert.Equal(t, []string{"z", "a", "m"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})
}

func TestSessionNameForMainWorktree(t *testing.T) {
	repo := repoFixture()
	mainWT, _ := repo.MainWorktree()
	assert.Equal(t, "alpha", sessionNameFor(repo, mainWT))
}
