package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/models"
	"github.com/chmouel/kiosk/internal/multiplexer"
)

func TestSessionsJoinsActiveSessionsToWorktrees(t *testing.T) {
	repo := models.Repository{
		Name: "kiosk", Path: "/repos/kiosk", SessionName: "kiosk",
		Worktrees: []models.Worktree{
			{Path: "/repos/kiosk", Branch: "main", IsMain: true},
			{Path: "/repos/kiosk--dev", Branch: "dev"},
		},
	}
	g := &fakeGit{repos: []models.Repository{repo}}
	tmux := &fakeTmux{sessions: []multiplexer.SessionActivity{
		{Name: "kiosk", LastActivity: 100},
	}}

	var buf bytes.Buffer
	require.NoError(t, Sessions(g, tmux, config.Config{}, true, &buf))

	var out []sessionEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "main", out[0].Branch)
	assert.Equal(t, int64(100), out[0].LastActivity)
}

func TestSessionsEmptyWhenNoneActive(t *testing.T) {
	repo := models.Repository{Name: "kiosk", Path: "/repos/kiosk", SessionName: "kiosk"}
	g := &fakeGit{repos: []models.Repository{repo}}
	tmux := &fakeTmux{}

	var buf bytes.Buffer
	require.NoError(t, Sessions(g, tmux, config.Config{}, true, &buf))
	assert.Equal(t, "[]\n", buf.String())
}
