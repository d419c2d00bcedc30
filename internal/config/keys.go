package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is an orchestrator action a key can be bound to.
type Command int

const (
	// CommandNoop explicitly unbinds a key (removes a default binding).
	CommandNoop Command = iota
	CommandQuit
	CommandShowHelp
	CommandOpenRepo
	CommandEnterRepo
	CommandOpenBranch
	CommandGoBack
	CommandNewBranch
	CommandDeleteWorktree
	CommandMoveUp
	CommandMoveDown
	CommandHalfPageUp
	CommandHalfPageDown
	CommandPageUp
	CommandPageDown
	CommandMoveTop
	CommandMoveBottom
	CommandSearchPop
	CommandSearchDeleteWord
	CommandCursorLeft
	CommandCursorRight
	CommandCursorStart
	CommandCursorEnd
	CommandConfirm
	CommandCancel
)

var commandNames = map[string]Command{
	"noop": CommandNoop, "none": CommandNoop, "unbound": CommandNoop,
	"quit":             CommandQuit,
	"show_help":        CommandShowHelp,
	"open_repo":        CommandOpenRepo,
	"enter_repo":       CommandEnterRepo,
	"open_branch":      CommandOpenBranch,
	"go_back":          CommandGoBack,
	"new_branch":       CommandNewBranch,
	"delete_worktree":  CommandDeleteWorktree,
	"move_up":          CommandMoveUp,
	"move_down":        CommandMoveDown,
	"half_page_up":     CommandHalfPageUp,
	"half_page_down":   CommandHalfPageDown,
	"page_up":          CommandPageUp,
	"page_down":        CommandPageDown,
	"move_top":         CommandMoveTop,
	"move_bottom":      CommandMoveBottom,
	"search_pop":       CommandSearchPop,
	"search_delete_word": CommandSearchDeleteWord,
	"cursor_left":      CommandCursorLeft,
	"cursor_right":     CommandCursorRight,
	"cursor_start":     CommandCursorStart,
	"cursor_end":       CommandCursorEnd,
	"confirm":          CommandConfirm,
	"cancel":           CommandCancel,
}

var commandStrings = map[Command]string{
	CommandNoop: "noop", CommandQuit: "quit", CommandShowHelp: "show_help",
	CommandOpenRepo: "open_repo", CommandEnterRepo: "enter_repo", CommandOpenBranch: "open_branch",
	CommandGoBack: "go_back", CommandNewBranch: "new_branch", CommandDeleteWorktree: "delete_worktree",
	CommandMoveUp: "move_up", CommandMoveDown: "move_down", CommandHalfPageUp: "half_page_up",
	CommandHalfPageDown: "half_page_down", CommandPageUp: "page_up", CommandPageDown: "page_down",
	CommandMoveTop: "move_top", CommandMoveBottom: "move_bottom", CommandSearchPop: "search_pop",
	CommandSearchDeleteWord: "search_delete_word", CommandCursorLeft: "cursor_left",
	CommandCursorRight: "cursor_right", CommandCursorStart: "cursor_start", CommandCursorEnd: "cursor_end",
	CommandConfirm: "confirm", CommandCancel: "cancel",
}

var commandDescriptions = map[Command]string{
	CommandNoop: "Unbound", CommandQuit: "Quit the application", CommandShowHelp: "Show help",
	CommandOpenRepo: "Open repository", CommandEnterRepo: "Enter repository", CommandOpenBranch: "Open branch",
	CommandGoBack: "Go back", CommandNewBranch: "New branch", CommandDeleteWorktree: "Delete worktree",
	CommandMoveUp: "Move up", CommandMoveDown: "Move down", CommandHalfPageUp: "Half page up",
	CommandHalfPageDown: "Half page down", CommandPageUp: "Page up", CommandPageDown: "Page down",
	CommandMoveTop: "Move to top", CommandMoveBottom: "Move to bottom", CommandSearchPop: "Delete search character",
	CommandSearchDeleteWord: "Delete word", CommandCursorLeft: "Cursor left", CommandCursorRight: "Cursor right",
	CommandCursorStart: "Cursor to start", CommandCursorEnd: "Cursor to end",
	CommandConfirm: "Confirm", CommandCancel: "Cancel",
}

// ParseCommand looks up a command by its TOML string name.
func ParseCommand(s string) (Command, error) {
	if cmd, ok := commandNames[s]; ok {
		return cmd, nil
	}
	return 0, fmt.Errorf("unknown command: %s", s)
}

func (c Command) String() string { return commandStrings[c] }

// Description returns a human-readable label for help display.
func (c Command) Description() string { return commandDescriptions[c] }

// Modifiers is a bitmask of key modifiers.
type Modifiers uint8

const (
	ModNone  Modifiers = 0
	ModCtrl  Modifiers = 1 << iota
	ModShift
	ModAlt
)

// KeyEvent is a normalized, comparable representation of a single keypress:
// Code is either a named key ("enter", "esc", "tab", "backspace", "up",
// "down", "pageup", "pagedown", "f1".."f12") or a single printable
// character preserved verbatim (case-sensitive: 'n' and 'N' are distinct
// bindings).
type KeyEvent struct {
	Code string
	Mods Modifiers
}

// KeyMap binds key events to commands for one orchestrator mode.
type KeyMap map[KeyEvent]Command

var namedKeys = map[string]string{
	"enter": "enter", "return": "enter",
	"esc": "esc", "escape": "esc",
	"tab":       "tab",
	"backspace": "backspace",
	"up":        "up",
	"down":      "down",
	"pageup":    "pageup",
	"pagedown":  "pagedown",
}

// ParseKeyEvent parses the key-event syntax: an optional sequence of
// "C-"/"S-"/"A-" modifier prefixes followed by a named key (Enter, Esc,
// Tab, Backspace, Up, Down, PageUp, PageDown, F1-F12) or a single printable
// character.
func ParseKeyEvent(s string) (KeyEvent, error) {
	if s == "" {
		return KeyEvent{}, fmt.Errorf("empty key event")
	}
	mods := ModNone
	rest := s
	for len(rest) >= 2 && rest[1] == '-' {
		switch rest[0] {
		case 'C', 'c':
			mods |= ModCtrl
		case 'S', 's':
			mods |= ModShift
		case 'A', 'a':
			mods |= ModAlt
		default:
			return KeyEvent{}, fmt.Errorf("invalid key '%s': unknown modifier prefix %q", s, rest[:2])
		}
		rest = rest[2:]
	}
	if rest == "" {
		return KeyEvent{}, fmt.Errorf("invalid key '%s': missing key after modifiers", s)
	}

	lower := strings.ToLower(rest)
	if named, ok := namedKeys[lower]; ok {
		return KeyEvent{Code: named, Mods: mods}, nil
	}
	if len(lower) >= 2 && lower[0] == 'f' {
		if n, err := strconv.Atoi(lower[1:]); err == nil && n >= 1 && n <= 12 {
			return KeyEvent{Code: lower, Mods: mods}, nil
		}
	}
	if len([]rune(rest)) == 1 {
		return KeyEvent{Code: rest, Mods: mods}, nil
	}
	return KeyEvent{}, fmt.Errorf("invalid key '%s': not a named key or single character", s)
}

// KeysConfig is the fully resolved keymap configuration: defaults for every
// mode merged with the user's overrides, with Noop entries stripped so they
// act as unbinds rather than real bindings.
type KeysConfig struct {
	General        KeyMap
	RepoSelect     KeyMap
	BranchSelect   KeyMap
	NewBranchBase  KeyMap
	Confirmation   KeyMap
}

// NewKeysConfig returns the built-in default keymap for every mode.
func NewKeysConfig() KeysConfig {
	return KeysConfig{
		General:       defaultGeneral(),
		RepoSelect:    defaultRepoSelect(),
		BranchSelect:  defaultBranchSelect(),
		NewBranchBase: defaultNewBranchBase(),
		Confirmation:  defaultConfirmation(),
	}
}

func commonListBindings() KeyMap {
	return KeyMap{
		{Code: "up"}:                     CommandMoveUp,
		{Code: "down"}:                   CommandMoveDown,
		{Code: "p", Mods: ModCtrl}:       CommandMoveUp,
		{Code: "n", Mods: ModCtrl}:       CommandMoveDown,
		{Code: "d", Mods: ModCtrl}:       CommandHalfPageDown,
		{Code: "u", Mods: ModCtrl}:       CommandHalfPageUp,
		{Code: "pageup"}:                 CommandPageUp,
		{Code: "pagedown"}:               CommandPageDown,
		{Code: "backspace"}:              CommandSearchPop,
		{Code: "w", Mods: ModCtrl}:       CommandSearchDeleteWord,
	}
}

func defaultGeneral() KeyMap {
	return KeyMap{
		{Code: "c", Mods: ModCtrl}: CommandQuit,
		{Code: "h", Mods: ModCtrl}: CommandShowHelp,
	}
}

func withCommon(extra KeyMap) KeyMap {
	m := commonListBindings()
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func defaultRepoSelect() KeyMap {
	return withCommon(KeyMap{
		{Code: "enter"}: CommandOpenRepo,
		{Code: "tab"}:   CommandEnterRepo,
		{Code: "esc"}:   CommandQuit,
	})
}

func defaultBranchSelect() KeyMap {
	return withCommon(KeyMap{
		{Code: "enter"}:            CommandOpenBranch,
		{Code: "esc"}:              CommandGoBack,
		{Code: "o", Mods: ModCtrl}: CommandNewBranch,
		{Code: "x", Mods: ModCtrl}: CommandDeleteWorktree,
	})
}

func defaultNewBranchBase() KeyMap {
	return withCommon(KeyMap{
		{Code: "enter"}: CommandOpenBranch,
		{Code: "esc"}:   CommandGoBack,
	})
}

func defaultConfirmation() KeyMap {
	return KeyMap{
		{Code: "y"}:     CommandConfirm,
		{Code: "enter"}: CommandConfirm,
		{Code: "n"}:     CommandCancel,
		{Code: "N"}:     CommandCancel,
		{Code: "esc"}:   CommandCancel,
	}
}

// parseKeymap turns a mode's raw TOML table (key-string -> command-string)
// into a KeyMap.
func parseKeymap(raw map[string]string) (KeyMap, error) {
	keymap := make(KeyMap, len(raw))
	for keyStr, cmdStr := range raw {
		key, err := ParseKeyEvent(keyStr)
		if err != nil {
			return nil, err
		}
		cmd, err := ParseCommand(cmdStr)
		if err != nil {
			return nil, fmt.Errorf("invalid command %q: %w", cmdStr, err)
		}
		keymap[key] = cmd
	}
	return keymap, nil
}

// mergeAndStrip overlays overrides onto base, then removes every Noop entry
// so a user override of "noop" unbinds rather than rebinds.
func mergeAndStrip(base KeyMap, overrides KeyMap) {
	for k, v := range overrides {
		base[k] = v
	}
	for k, v := range base {
		if v == CommandNoop {
			delete(base, k)
		}
	}
}

// rawKeysConfig mirrors the TOML [keys.*] tables before parsing.
type rawKeysConfig struct {
	General       map[string]string `toml:"general"`
	RepoSelect    map[string]string `toml:"repo_select"`
	BranchSelect  map[string]string `toml:"branch_select"`
	NewBranchBase map[string]string `toml:"new_branch_base"`
	Confirmation  map[string]string `toml:"confirmation"`
}

func keysConfigFromRaw(raw rawKeysConfig) (KeysConfig, error) {
	cfg := NewKeysConfig()

	for _, pair := range []struct {
		base KeyMap
		raw  map[string]string
	}{
		{cfg.General, raw.General},
		{cfg.RepoSelect, raw.RepoSelect},
		{cfg.BranchSelect, raw.BranchSelect},
		{cfg.NewBranchBase, raw.NewBranchBase},
		{cfg.Confirmation, raw.Confirmation},
	} {
		overrides, err := parseKeymap(pair.raw)
		if err != nil {
			return KeysConfig{}, err
		}
		mergeAndStrip(pair.base, overrides)
	}
	return cfg, nil
}
