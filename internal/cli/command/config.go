package command

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/config"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/output"
)

// ConfigCommand returns the config subcommand group for the CLI's own settings.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change the CLI configuration file",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective CLI configuration",
				Action: configShow,
			},
			{
				Name:      "set",
				Usage:     "Set default-server or default-output",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
			{
				Name:      "alias",
				Usage:     "Name a server URL; an empty URL removes the alias",
				ArgsUsage: "NAME [URL]",
				Action:    configAlias,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	cfg := GetCLIConfig(c)

	if flags.Output != output.FormatTable {
		return render(c, flags, cfg)
	}

	table := &output.Table{Headers: []string{"KEY", "VALUE"}}
	table.AddRow("file", c.String("config"))
	table.AddRow("default_server", cfg.DefaultServer)
	table.AddRow("default_output", cfg.DefaultOutput)
	table.AddRow("history_file", historyFile(cfg))

	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		table.AddRow("servers."+name, cfg.Servers[name])
	}
	return render(c, flags, table)
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("config set: expected KEY and VALUE")
	}
	cfg := GetCLIConfig(c)

	key, value := c.Args().Get(0), c.Args().Get(1)
	switch key {
	case "default-server", "default_server":
		cfg.DefaultServer = value
	case "default-output", "default_output":
		format, err := output.ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.DefaultOutput = string(format)
	case "history-file", "history_file":
		cfg.HistoryFile = value
	default:
		return fmt.Errorf("config set: unknown key %q", key)
	}
	return saveCLIConfig(c, cfg)
}

func configAlias(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		return fmt.Errorf("config alias: expected NAME [URL]")
	}
	cfg := GetCLIConfig(c)

	name, url := c.Args().Get(0), c.Args().Get(1)
	if url == "" {
		delete(cfg.Servers, name)
	} else {
		cfg.Servers[name] = url
	}
	return saveCLIConfig(c, cfg)
}

func saveCLIConfig(c *cli.Context, cfg *cliconfig.CLIConfig) error {
	path := c.String("config")
	if err := cliconfig.Save(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Saved %s\n", path)
	return nil
}
