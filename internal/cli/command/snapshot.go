package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/connection"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/output"
)

// snapshotView is archive metadata as returned by the admin API.
type snapshotView struct {
	ID          string `json:"id" yaml:"id"`
	RecordCount int    `json:"record_count" yaml:"record_count"`
	CreatedAt   int64  `json:"created_at" yaml:"created_at" table:"-"`
	Size        int64  `json:"size" yaml:"size"`
	Encrypted   bool   `json:"encrypted" yaml:"encrypted"`
	Path        string `json:"path" yaml:"path" table:"wide"`
	Checksum    string `json:"checksum,omitempty" yaml:"checksum,omitempty" table:"wide"`
}

// snapshotRow is the table rendering of snapshotView.
type snapshotRow struct {
	ID        string `json:"id"`
	Records   int    `json:"records"`
	Created   string `json:"created"`
	Size      int64  `json:"size"`
	Encrypted bool   `json:"encrypted"`
	Path      string `json:"path" table:"wide"`
}

func snapshotRows(infos []snapshotView) []snapshotRow {
	rows := make([]snapshotRow, len(infos))
	for i, s := range infos {
		rows[i] = snapshotRow{
			ID:        s.ID,
			Records:   s.RecordCount,
			Created:   time.UnixMilli(s.CreatedAt).UTC().Format(time.RFC3339),
			Size:      s.Size,
			Encrypted: s.Encrypted,
			Path:      s.Path,
		}
	}
	return rows
}

// SnapshotCommand returns the snapshot subcommand group.
func SnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Aliases: []string{"snap"},
		Usage:   "Manage server snapshot archives",
		Subcommands: []*cli.Command{
			{
				Name:   "create",
				Usage:  "Write an archive of the current records",
				Action: snapshotCreate,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List archives, newest first",
				Action:  snapshotList,
			},
			{
				Name:      "restore",
				Usage:     "Restore records from an archive (latest when ID is omitted)",
				ArgsUsage: "[SNAPSHOT_ID]",
				Action:    snapshotRestore,
			},
		},
	}
}

func snapshotCreate(c *cli.Context) error {
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, "/admin/v1/snapshots", nil)
	if err != nil {
		return err
	}
	var info snapshotView
	if err := connection.ParseResponse(resp, &info); err != nil {
		return err
	}

	if flags.Output == output.FormatTable {
		fmt.Fprintf(c.App.Writer, "Snapshot %s created with %d record(s).\n", info.ID, info.RecordCount)
		return nil
	}
	return render(c, flags, info)
}

func snapshotList(c *cli.Context) error {
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/admin/v1/snapshots")
	if err != nil {
		return err
	}
	var result struct {
		Snapshots []snapshotView `json:"snapshots" yaml:"snapshots"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if flags.Output != output.FormatTable {
		return render(c, flags, result)
	}
	if len(result.Snapshots) == 0 {
		fmt.Fprintln(c.App.Writer, "No snapshots found.")
		return nil
	}
	return render(c, flags, snapshotRows(result.Snapshots))
}

func snapshotRestore(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("snapshot restore: expected at most one SNAPSHOT_ID")
	}
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, "/admin/v1/snapshots/restore", map[string]string{"id": c.Args().First()})
	if err != nil {
		return err
	}
	var result restoreView
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	source := "the latest snapshot"
	if result.Snapshot != nil {
		source = "snapshot " + result.Snapshot.ID
	}
	return renderRestore(c, flags, fmt.Sprintf("%d record(s) were restored from %s.", result.Accepted, source), result)
}
