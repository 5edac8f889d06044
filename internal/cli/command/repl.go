package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/config"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/repl"
)

// REPLCommand returns the interactive mode command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:    "repl",
		Aliases: []string{"shell"},
		Usage:   "Run commands interactively",
		Action:  runREPL,
	}
}

func historyFile(cfg *cliconfig.CLIConfig) string {
	if cfg.HistoryFile != "" {
		return cfg.HistoryFile
	}
	return repl.DefaultHistoryFile()
}

func runREPL(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	// Every line re-enters the app with the session's global flags.
	prefix := []string{c.App.Name, "--server", flags.Server, "--output", string(flags.Output), "--config", c.String("config")}
	if flags.Wide {
		prefix = append(prefix, "--wide")
	}
	if flags.Verbose {
		prefix = append(prefix, "--verbose")
	}
	if flags.CAFile != "" {
		prefix = append(prefix, "--ca-file", flags.CAFile)
	}

	exec := func(ctx context.Context, args []string) error {
		if len(args) > 0 && (args[0] == "repl" || args[0] == "shell") {
			return errors.New("already in interactive mode")
		}
		full := append(append([]string{}, prefix...), args...)
		return c.App.RunContext(ctx, full)
	}

	history := repl.NewHistory(historyFile(GetCLIConfig(c)))
	if err := history.Load(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: history not loaded: %v\n", err)
	}

	r := repl.New(exec,
		repl.WithInput(replInput(c)),
		repl.WithOutput(c.App.Writer),
		repl.WithHistory(history),
		repl.WithCompleter(repl.NewCompleter(commandPaths(c.App.VisibleCommands()))),
	)

	fmt.Fprintf(c.App.Writer, "Connected to %s. Type 'help' for commands, 'exit' to quit.\n", flags.Server)
	runErr := r.Run(c.Context)
	if err := history.Save(); err != nil {
		fmt.Fprintf(c.App.ErrWriter, "warning: history not saved: %v\n", err)
	}
	return runErr
}

// commandPaths flattens commands into "name" and "name sub" entries.
func commandPaths(cmds []*cli.Command) []string {
	var paths []string
	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}
		paths = append(paths, cmd.Name)
		for _, sub := range cmd.Subcommands {
			if !sub.Hidden {
				paths = append(paths, cmd.Name+" "+sub.Name)
			}
		}
	}
	return paths
}

func replInput(c *cli.Context) io.Reader {
	if c.App.Reader != nil {
		return c.App.Reader
	}
	return os.Stdin
}
