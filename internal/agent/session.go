package agent

import (
	"github.com/chmouel/kiosk/internal/models"
	"github.com/chmouel/kiosk/internal/multiplexer"
)

const captureWindowLines = 30

// DetectForSession inspects every pane of a tmux session and returns the
// agent status with the highest attention priority (Waiting > Idle >
// Running), so the orchestrator surfaces whichever pane most needs the
// user's attention. Returns ok=false if no pane contains a recognizable
// agent.
func DetectForSession(tmux multiplexer.Provider, cache *ChildArgsCache, sessionName string) (models.AgentStatus, bool) {
	panes := tmux.ListPanesDetailed(sessionName)

	var best models.AgentStatus
	found := false

	for _, pane := range panes {
		kind := DetectKind(pane.Command, "")
		if kind == models.AgentUnknown {
			childArgs := cache.ChildProcessArgs(pane.PID)
			if childArgs != "" {
				kind = DetectKind(pane.Command, childArgs)
			}
		}
		if kind == models.AgentUnknown {
			continue
		}

		content, ok := tmux.CaptureByPaneIndex(sessionName, pane.PaneIndex, captureWindowLines)
		if !ok {
			continue
		}

		status := models.AgentStatus{Kind: kind, State: DetectState(content, kind)}
		if !found || status.State.Priority() > best.State.Priority() {
			best = status
			found = true
		}
	}

	return best, found
}
