package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorktreePorcelainBasic(t *testing.T) {
	input := "worktree /t/alpha\n" +
		"HEAD abc123\n" +
		"branch refs/heads/main\n" +
		"\n" +
		"worktree /t/.kiosk_worktrees/alpha--dev\n" +
		"HEAD def456\n" +
		"branch refs/heads/dev\n" +
		"\n"

	worktrees := ParseWorktreePorcelain(input)
	require.Len(t, worktrees, 2)
	assert.Equal(t, "/t/alpha", worktrees[0].Path)
	assert.Equal(t, "main", worktrees[0].Branch)
	assert.True(t, worktrees[0].IsMain)

	assert.Equal(t, "/t/.kiosk_worktrees/alpha--dev", worktrees[1].Path)
	assert.Equal(t, "dev", worktrees[1].Branch)
	assert.False(t, worktrees[1].IsMain)
}

func TestParseWorktreePorcelainDetachedHead(t *testing.T) {
	input := "worktree /t/alpha\n" +
		"HEAD abc123\n" +
		"detached\n" +
		"\n"
	worktrees := ParseWorktreePorcelain(input)
	require.Len(t, worktrees, 1)
	assert.Empty(t, worktrees[0].Branch)
	assert.True(t, worktrees[0].IsMain)
}

func TestParseWorktreePorcelainEmpty(t *testing.T) {
	worktrees := ParseWorktreePorcelain("")
	assert.Empty(t, worktrees)
}

func TestParseWorktreePorcelainOnlyFirstIsMain(t *testing.T) {
	input := "worktree /a\nbranch refs/heads/one\n\nworktree /b\nbranch refs/heads/two\n\nworktree /c\nbranch refs/heads/three\n\n"
	worktrees := ParseWorktreePorcelain(input)
	require.Len(t, worktrees, 3)
	mains := 0
	for _, wt := range worktrees {
		if wt.IsMain {
			mains++
		}
	}
	assert.Equal(t, 1, mains)
	assert.True(t, worktrees[0].IsMain)
}
