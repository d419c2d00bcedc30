package agent

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// ChildArgsCache memoizes child-process argv lookups across poll cycles.
// Walking /proc (or shelling to pgrep/ps) for every pane on every tick is
// wasteful when the pane's child set rarely changes between polls.
type ChildArgsCache struct {
	c *cache.Cache
}

// NewChildArgsCache builds a cache whose entries expire after ttl, which
// should track the orchestrator's agent poll interval so a stale child exit
// doesn't linger past the next real poll.
func NewChildArgsCache(ttl time.Duration) *ChildArgsCache {
	return &ChildArgsCache{c: cache.New(ttl, ttl*2)}
}

// ChildProcessArgs returns the concatenated argv of pid's direct children,
// one per line, consulting the cache before touching /proc or shelling out.
// Returns "" if pid has no children or none could be inspected.
func (c *ChildArgsCache) ChildProcessArgs(pid int) string {
	key := strconv.Itoa(pid)
	if v, ok := c.c.Get(key); ok {
		return v.(string)
	}
	args := childProcessArgs(pid)
	c.c.Set(key, args, cache.DefaultExpiration)
	return args
}

// childProcessArgs is portable across Linux (including WSL) and macOS: it
// tries /proc first, then falls back to pgrep+ps where /proc is unavailable.
func childProcessArgs(pid int) string {
	if args, ok := childProcessArgsFromProc(pid); ok {
		return args
	}
	return childProcessArgsFromPgrep(pid)
}

func childProcessArgsFromProc(pid int) (string, bool) {
	childrenPath := "/proc/" + strconv.Itoa(pid) + "/task/" + strconv.Itoa(pid) + "/children"
	data, err := os.ReadFile(childrenPath)
	if err != nil {
		return "", false
	}
	var b strings.Builder
	for _, childPID := range strings.Fields(string(data)) {
		cmdline, err := os.ReadFile("/proc/" + childPID + "/cmdline")
		if err != nil {
			continue
		}
		b.WriteString(strings.ReplaceAll(string(cmdline), "\x00", " "))
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

func childProcessArgsFromPgrep(pid int) string {
	out, err := exec.Command("pgrep", "-P", strconv.Itoa(pid)).Output()
	if err != nil {
		return ""
	}
	var childPIDs []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			childPIDs = append(childPIDs, line)
		}
	}
	if len(childPIDs) == 0 {
		return ""
	}

	args := []string{"-o", "args="}
	for _, cpid := range childPIDs {
		args = append(args, "-p", cpid)
	}
	psOut, err := exec.Command("ps", args...).Output()
	if err != nil {
		return ""
	}
	if strings.TrimSpace(string(psOut)) == "" {
		return ""
	}
	return string(psOut)
}
