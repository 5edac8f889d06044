package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/connection"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/output"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:    "status",
		Aliases: []string{"health"},
		Usage:   "Check that the server is reachable",
		Action:  serverStatus,
	}
}

func serverStatus(c *cli.Context) error {
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("server %s is unreachable: %w", client.BaseURL(), err)
	}
	var health struct {
		Status  string `json:"status" yaml:"status"`
		Version string `json:"version" yaml:"version"`
		Time    string `json:"time" yaml:"time"`
	}
	if err := connection.ParseResponse(resp, &health); err != nil {
		return err
	}

	if flags.Output == output.FormatTable {
		fmt.Fprintf(c.App.Writer, "%s is %s (version %s)\n", client.BaseURL(), health.Status, health.Version)
		return nil
	}
	return render(c, flags, health)
}
