package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/config"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/connection"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/output"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/infra/buildinfo"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/infra/tlsroots"
)

const (
	appName        = "filecabinet-cli"
	requestTimeout = 30 * time.Second

	metaConfig = "cliConfig"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:     appName,
		Usage:    "Manage records held by a filecabinet server",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			CreateCommand(),
			UpdateCommand(),
			RemoveCommand(),
			GetCommand(),
			ListCommand(),
			FindCommand(),
			StatCommand(),
			ExportCommand(),
			ImportCommand(),
			SnapshotCommand(),
			StatusCommand(),
			ConfigCommand(),
			REPLCommand(),
		},
		Before: loadCLIConfig,
		CommandNotFound: func(c *cli.Context, name string) {
			fmt.Fprintf(c.App.ErrWriter, "unknown command %q, see 'help'\n", name)
		},
		// Errors are reported by main; the REPL must never exit the process.
		ExitErrHandler: func(*cli.Context, error) {},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server URL or alias from the CLI config (default from config)",
			EnvVars: []string{"FILECABINET_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml (default from config)",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "show all columns in table output",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"FILECABINET_CLI_CONFIG"},
			Value:   cliconfig.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM bundle of extra CAs trusted for https servers",
			EnvVars: []string{"FILECABINET_CA_FILE"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "print request details to stderr",
		},
	}
}

func loadCLIConfig(c *cli.Context) error {
	cfg, err := cliconfig.Load(c.String("config"))
	if err != nil {
		return err
	}
	c.App.Metadata[metaConfig] = cfg
	return nil
}

// GetCLIConfig returns the config loaded for this run, or defaults.
func GetCLIConfig(c *cli.Context) *cliconfig.CLIConfig {
	if cfg, ok := c.App.Metadata[metaConfig].(*cliconfig.CLIConfig); ok {
		return cfg
	}
	return cliconfig.Default()
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Output  output.Format
	Wide    bool
	Verbose bool
	CAFile  string
}

// ParseGlobalFlags resolves global flags against the CLI config.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg := GetCLIConfig(c)

	outName := c.String("output")
	if outName == "" {
		outName = cfg.DefaultOutput
	}
	format, err := output.ParseFormat(outName)
	if err != nil {
		return nil, err
	}

	return &GlobalFlags{
		Server:  cfg.ResolveServer(c.String("server")),
		Output:  format,
		Wide:    c.Bool("wide"),
		Verbose: c.Bool("verbose"),
		CAFile:  c.String("ca-file"),
	}, nil
}

// newClient builds the HTTP client for the resolved server.
func newClient(c *cli.Context) (*connection.HTTPClient, *GlobalFlags, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, nil, err
	}
	var opts []connection.ClientOption
	if strings.HasPrefix(flags.Server, "https://") {
		tlsCfg, err := tlsroots.ClientConfig(flags.CAFile)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, connection.WithTLSConfig(tlsCfg))
	}
	client := connection.NewHTTPClient(flags.Server, opts...)
	if flags.Verbose {
		fmt.Fprintf(c.App.ErrWriter, "server: %s\n", client.BaseURL())
	}
	return client, flags, nil
}

// requestContext bounds one command's server round trips.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, requestTimeout)
}

// render writes data in the selected output format.
func render(c *cli.Context, flags *GlobalFlags, data any) error {
	return output.NewFormatter(flags.Output, flags.Wide).Format(c.App.Writer, data)
}

// printf writes a human-oriented line. Machine formats stay clean.
func printf(c *cli.Context, flags *GlobalFlags, format string, args ...any) {
	if flags.Output != output.FormatTable {
		return
	}
	fmt.Fprintf(c.App.Writer, format, args...)
}
