// Package main is kiosk's entry point: the TUI orchestrator by default, or
// one of C7's one-shot subcommands (list, branches, open, status, sessions,
// delete) when invoked with one.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/chmouel/kiosk/internal/config"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/log"
	"github.com/chmouel/kiosk/internal/multiplexer"
	"github.com/chmouel/kiosk/internal/orchestrator"
)

var version = "dev"

type configKey struct{}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFromContext(ctx context.Context) config.Config {
	cfg, _ := ctx.Value(configKey{}).(config.Config)
	return cfg
}

func main() {
	app := &cli.Command{
		Name:    "kiosk",
		Usage:   "a session orchestrator for Git worktrees and tmux",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to config.toml (default: $XDG_CONFIG_HOME/kiosk/config.toml)"},
		},
		Before: setup,
		Commands: []*cli.Command{
			listCommand(),
			branchesCommand(),
			openCommand(),
			statusCommand(),
			sessionsCommand(),
			deleteCommand(),
		},
		Action: runTUI,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup runs once before any action (root or subcommand): it wires the
// diagnostic log to <cache-dir>/kiosk/kiosk.log and loads configuration
// into ctx so every subcommand resolves search directories the same way
// (spec.md §4.6 step 1, §6).
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := setupDebugLog(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug log disabled: %v\n", err)
	}
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	return withConfig(ctx, cfg), nil
}

func runTUI(ctx context.Context, _ *cli.Command) error {
	defer func() { _ = log.Close() }()

	model := orchestrator.New(configFromContext(ctx), git.CliProvider{}, multiplexer.CliProvider{})
	program := tea.NewProgram(model)
	_, err := program.Run()
	model.Close()
	return err
}

// loadConfig reads config.toml from the given path, or kiosk's default
// config directory if path is empty. A missing default config file is not
// an error — an empty Config (no search roots) is a legitimate starting
// point.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		dir, err := config.DefaultConfigDir()
		if err != nil {
			return config.Config{}, err
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config.Config{}, nil
		}
		return config.Config{}, err
	}
	return cfg, nil
}

// setupDebugLog points internal/log at <cache-dir>/kiosk/kiosk.log, the
// fixed diagnostic-log path named in spec.md §6.
func setupDebugLog() error {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return err
	}
	path := filepath.Join(cacheDir, "kiosk", "kiosk.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return log.SetFile(path)
}
