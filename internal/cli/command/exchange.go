package command

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/connection"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/output"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/codec"
)

// rejectionView is one record refused during import or restore.
type rejectionView struct {
	ID     int    `json:"id" yaml:"id"`
	Reason string `json:"reason" yaml:"reason"`
}

// restoreView mirrors the server's import/restore summary.
type restoreView struct {
	Accepted   int             `json:"accepted" yaml:"accepted"`
	Rejected   int             `json:"rejected" yaml:"rejected"`
	Rejections []rejectionView `json:"rejections" yaml:"rejections"`
	Snapshot   *snapshotView   `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
}

func formatFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{Name: "format", Aliases: []string{"t"}, Usage: usage}
}

func normalizeFormat(s string) (string, error) {
	c, err := codec.ForFormat(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if err != nil {
		return "", fmt.Errorf("unsupported format %q (want %s)", s, strings.Join(codec.Formats(), " or "))
	}
	return c.Format(), nil
}

func contentType(format string) string {
	c, err := codec.ForFormat(format)
	if err != nil {
		return "application/octet-stream"
	}
	return c.ContentType()
}

// ExportCommand returns the export command.
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all records as CSV or XML",
		Flags: []cli.Flag{
			formatFlag("csv or xml (default csv, or the --file extension)"),
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "write to FILE instead of stdout"},
		},
		Action: exportRecords,
	}
}

func exportRecords(c *cli.Context) error {
	file := c.String("file")
	format := c.String("format")
	if format == "" {
		format = "csv"
		if ext := filepath.Ext(file); ext != "" {
			format = ext
		}
	}
	format, err := normalizeFormat(format)
	if err != nil {
		return err
	}

	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/export?"+url.Values{"format": {format}}.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return connection.DecodeError(resp.StatusCode, raw)
	}

	if file == "" {
		_, err := io.Copy(c.App.Writer, resp.Body)
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}

	count := resp.Header.Get("X-Record-Count")
	if flags.Output == output.FormatTable {
		fmt.Fprintf(c.App.Writer, "All records are exported to file %s (%s record(s)).\n", file, count)
		return nil
	}
	return render(c, flags, map[string]string{"file": file, "format": format, "records": count})
}

// ImportCommand returns the import command.
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import records from a CSV or XML file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			formatFlag("csv or xml (default from the file extension)"),
		},
		Action: importRecords,
	}
}

func importRecords(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("import: expected exactly one FILE argument")
	}
	file := c.Args().First()

	format := c.String("format")
	if format == "" {
		format = filepath.Ext(file)
	}
	format, err := normalizeFormat(format)
	if err != nil {
		return err
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.PostRaw(ctx, "/import?"+url.Values{"format": {format}}.Encode(), contentType(format), f)
	if err != nil {
		return err
	}
	var result restoreView
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	return renderRestore(c, flags, fmt.Sprintf("%d record(s) were imported from %s.", result.Accepted, file), result)
}

func renderRestore(c *cli.Context, flags *GlobalFlags, headline string, result restoreView) error {
	if flags.Output != output.FormatTable {
		return render(c, flags, result)
	}

	fmt.Fprintln(c.App.Writer, headline)
	if result.Rejected == 0 {
		return nil
	}
	fmt.Fprintf(c.App.Writer, "%d record(s) were rejected:\n", result.Rejected)
	return render(c, flags, result.Rejections)
}
