// Package journal implements C8: a crash-recovery record of worktree
// deletions that are in flight (removal started, not yet finished) so a
// future run can finish or report them instead of leaving an orphaned
// worktree behind silently.
package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chmouel/kiosk/internal/models"
)

// stateVersion is bumped whenever the on-disk shape changes incompatibly.
// Loading a file written by a different version discards it rather than
// attempting a migration.
const stateVersion = 1

// TTL is how long a pending delete survives before being silently dropped
// on load. A delete that's been pending longer than this almost certainly
// means the process that owned it crashed and isn't coming back.
const TTL = 24 * time.Hour

const fileName = "pending_deletes.toml"

type fileFormat struct {
	Version int                           `toml:"version"`
	Entries []models.PendingWorktreeDelete `toml:"entries"`
}

// Path returns the on-disk location of the pending-delete journal,
// respecting XDG_STATE_HOME when set.
func Path() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// StateDir returns kiosk's persistent state directory (XDG_STATE_HOME or
// platform equivalent, joined with "kiosk"), shared by the journal and by
// C7's pane-log files (§4.8).
func StateDir() (string, error) {
	if runtime.GOOS != "windows" {
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, "kiosk"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "state", "kiosk"), nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "kiosk"), nil
}

// Load reads pending deletes from disk, discarding entries older than TTL.
// Any read, parse, or version-mismatch failure is treated as "no pending
// deletes" rather than propagated — the journal is a best-effort recovery
// aid, not load-bearing state.
func Load() []models.PendingWorktreeDelete {
	path, err := Path()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var parsed fileFormat
	if _, err := toml.Decode(string(data), &parsed); err != nil {
		return nil
	}
	if parsed.Version != stateVersion {
		return nil
	}

	cutoff := nowUnixSecs() - int64(TTL.Seconds())
	var fresh []models.PendingWorktreeDelete
	for _, entry := range parsed.Entries {
		if entry.StartedAtUnixSec >= cutoff {
			fresh = append(fresh, entry)
		}
	}
	return fresh
}

// Save atomically persists entries: an empty slice removes the file
// entirely, otherwise the file is overwritten with the full new set.
func Save(entries []models.PendingWorktreeDelete) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(fileFormat{Version: stateVersion, Entries: entries}); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func nowUnixSecs() int64 { return time.Now().Unix() }
