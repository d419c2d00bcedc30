// Package config loads kiosk's TOML configuration: search roots, the
// tmux split command, theme colors, and per-mode keymaps. Schema validation
// lives here (rejecting unknown fields) even though the orchestrator only
// ever sees the resolved Config struct.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chmouel/kiosk/internal/kpath"
)

// SearchRoot is one entry of search_dirs: either a bare path string
// (depth defaults to 1) or a {path, depth} table.
type SearchRoot struct {
	Path  string
	Depth uint16
}

// Config is the fully resolved, validated configuration the orchestrator
// consumes.
type Config struct {
	SearchRoots  []SearchRoot
	SplitCommand string
	Theme        map[string]string
	Keys         KeysConfig
}

// rawConfig mirrors the top-level TOML shape before path expansion and
// keymap resolution.
type rawConfig struct {
	SearchDirs []toml.Primitive `toml:"search_dirs"`
	Session    struct {
		SplitCommand string `toml:"split_command"`
	} `toml:"session"`
	Theme map[string]string `toml:"theme"`
	Keys  rawKeysConfig     `toml:"keys"`
}

type rawSearchRoot struct {
	Path  string `toml:"path"`
	Depth uint16 `toml:"depth"`
}

// Load reads and validates the TOML file at path. Unknown top-level or
// nested fields cause the file to be rejected (spec: "Unknown fields reject
// the file").
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(string(data))
}

// Parse validates and decodes TOML source directly; split out from Load so
// tests don't need a filesystem.
func Parse(data string) (Config, error) {
	var raw rawConfig
	metadata, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	roots := make([]SearchRoot, 0, len(raw.SearchDirs))
	for _, prim := range raw.SearchDirs {
		root, err := decodeSearchRoot(metadata, prim)
		if err != nil {
			return Config{}, err
		}
		expanded, err := kpath.ExpandTilde(root.Path)
		if err != nil {
			return Config{}, fmt.Errorf("expanding search_dirs entry %q: %w", root.Path, err)
		}
		root.Path = expanded
		roots = append(roots, root)
	}

	// Checked only after the search_dirs primitives are decoded, since keys
	// inside a table-form entry count as undecoded until then.
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config field %q", undecoded[0].String())
	}

	keys, err := keysConfigFromRaw(raw.Keys)
	if err != nil {
		return Config{}, fmt.Errorf("parsing keys: %w", err)
	}

	return Config{
		SearchRoots:  roots,
		SplitCommand: raw.Session.SplitCommand,
		Theme:        raw.Theme,
		Keys:         keys,
	}, nil
}

func decodeSearchRoot(metadata toml.MetaData, prim toml.Primitive) (SearchRoot, error) {
	var asString string
	if err := metadata.PrimitiveDecode(prim, &asString); err == nil {
		return SearchRoot{Path: asString, Depth: 1}, nil
	}

	var asTable rawSearchRoot
	if err := metadata.PrimitiveDecode(prim, &asTable); err != nil {
		return SearchRoot{}, fmt.Errorf("search_dirs entry must be a string or {path, depth} table: %w", err)
	}
	if asTable.Depth == 0 {
		asTable.Depth = 1
	}
	return SearchRoot{Path: asTable.Path, Depth: asTable.Depth}, nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/kiosk if set, else the
// platform config directory joined with "kiosk" (os.UserConfigDir already
// applies the XDG_CONFIG_HOME/$HOME/.config fallback on Unix).
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "kiosk"), nil
}
