package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	kcli "github.com/chmouel/kiosk/internal/cli"
	"github.com/chmouel/kiosk/internal/git"
	"github.com/chmouel/kiosk/internal/kioskerr"
	"github.com/chmouel/kiosk/internal/multiplexer"
)

// runCommand wraps a subcommand body with the shared exit-code / JSON-error
// protocol of spec.md §6: user errors exit 1, everything else exits 2,
// JSON-mode errors go to stderr as {"error": "..."}.
func runCommand(jsonFlag string, body func(ctx context.Context, cmd *cli.Command, jsonOut bool) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		err := body(ctx, cmd, cmd.Bool(jsonFlag))
		if err == nil {
			return nil
		}
		if cmd.Bool(jsonFlag) {
			kcli.WriteJSONError(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(kioskerr.ExitCode(err))
		return nil
	}
}

// runPlainCommand is runCommand for subcommands with no --json flag (open
// has none per spec.md §4.6): errors always print as plain text.
func runPlainCommand(body func(ctx context.Context, cmd *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		err := body(ctx, cmd)
		if err == nil {
			return nil
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(kioskerr.ExitCode(err))
		return nil
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list discovered repositories",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json"},
		},
		Action: runCommand("json", func(ctx context.Context, _ *cli.Command, jsonOut bool) error {
			return kcli.List(git.CliProvider{}, configFromContext(ctx), jsonOut, os.Stdout)
		}),
	}
}

func branchesCommand() *cli.Command {
	return &cli.Command{
		Name:      "branches",
		Usage:     "list a repository's local and remote branches",
		ArgsUsage: "<repo>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json"},
		},
		Action: runCommand("json", func(ctx context.Context, cmd *cli.Command, jsonOut bool) error {
			repoName := cmd.Args().Get(0)
			if repoName == "" {
				return kioskerr.NewUser(fmt.Errorf("branches requires a repository argument"))
			}
			return kcli.Branches(git.CliProvider{}, multiplexer.CliProvider{}, configFromContext(ctx), repoName, jsonOut, os.Stdout)
		}),
	}
}

func openCommand() *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "find, create, or switch to a branch's session",
		ArgsUsage: "<repo> [branch]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "new-branch"},
			&cli.StringFlag{Name: "base"},
			&cli.BoolFlag{Name: "no-switch"},
			&cli.StringFlag{Name: "run"},
			&cli.BoolFlag{Name: "log"},
		},
		Action: runPlainCommand(func(ctx context.Context, cmd *cli.Command) error {
			repoName := cmd.Args().Get(0)
			if repoName == "" {
				return kioskerr.NewUser(fmt.Errorf("open requires a repository argument"))
			}
			opts := kcli.OpenOptions{
				Branch:    cmd.Args().Get(1),
				NewBranch: cmd.String("new-branch"),
				Base:      cmd.String("base"),
				NoSwitch:  cmd.Bool("no-switch"),
				Run:       cmd.String("run"),
				Log:       cmd.Bool("log"),
			}
			return kcli.Open(ctx, git.CliProvider{}, multiplexer.CliProvider{}, configFromContext(ctx), repoName, opts, os.Stdout)
		}),
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "show a branch's session activity",
		ArgsUsage: "<repo> [branch]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json"},
			&cli.IntFlag{Name: "lines", Value: kcli.DefaultStatusLines},
		},
		Action: runCommand("json", func(ctx context.Context, cmd *cli.Command, jsonOut bool) error {
			repoName := cmd.Args().Get(0)
			if repoName == "" {
				return kioskerr.NewUser(fmt.Errorf("status requires a repository argument"))
			}
			branchName := cmd.Args().Get(1)
			lines := int(cmd.Int("lines"))
			return kcli.Status(git.CliProvider{}, multiplexer.CliProvider{}, configFromContext(ctx), repoName, branchName, lines, jsonOut, os.Stdout)
		}),
	}
}

func sessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "list active sessions across all repositories",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json"},
		},
		Action: runCommand("json", func(ctx context.Context, _ *cli.Command, jsonOut bool) error {
			return kcli.Sessions(git.CliProvider{}, multiplexer.CliProvider{}, configFromContext(ctx), jsonOut, os.Stdout)
		}),
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete a branch's worktree and session",
		ArgsUsage: "<repo> <branch>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force"},
			&cli.BoolFlag{Name: "json"},
		},
		Action: runCommand("json", func(ctx context.Context, cmd *cli.Command, jsonOut bool) error {
			repoName := cmd.Args().Get(0)
			branchName := cmd.Args().Get(1)
			if repoName == "" || branchName == "" {
				return kioskerr.NewUser(fmt.Errorf("delete requires a repository and a branch argument"))
			}
			return kcli.Delete(ctx, git.CliProvider{}, multiplexer.CliProvider{}, configFromContext(ctx), repoName, branchName, cmd.Bool("force"), jsonOut, os.Stdout)
		}),
	}
}
