package command

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/connection"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/output"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// recordView is a record as returned by the server.
type recordView struct {
	ID              int             `json:"id" yaml:"id"`
	FirstName       string          `json:"first_name" yaml:"first_name"`
	LastName        string          `json:"last_name" yaml:"last_name"`
	DateOfBirth     string          `json:"date_of_birth" yaml:"date_of_birth"`
	Sex             string          `json:"sex" yaml:"sex"`
	NumberOfReviews int             `json:"number_of_reviews" yaml:"number_of_reviews" table:"wide"`
	Salary          decimal.Decimal `json:"salary" yaml:"salary"`
}

type recordList struct {
	Items []recordView `json:"items" yaml:"items"`
	Total int          `json:"total" yaml:"total"`
}

// recordBody is the JSON body of create and update.
type recordBody struct {
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	DateOfBirth     string          `json:"date_of_birth"`
	Sex             string          `json:"sex"`
	NumberOfReviews int             `json:"number_of_reviews"`
	Salary          decimal.Decimal `json:"salary"`
}

func recordFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "first-name", Aliases: []string{"f"}, Usage: "first name", Required: true},
		&cli.StringFlag{Name: "last-name", Aliases: []string{"l"}, Usage: "last name", Required: true},
		&cli.StringFlag{Name: "date-of-birth", Aliases: []string{"d"}, Usage: "date of birth as MM/dd/yyyy", Required: true},
		&cli.StringFlag{Name: "sex", Usage: "M or F", Required: true},
		&cli.IntFlag{Name: "reviews", Aliases: []string{"r"}, Usage: "number of reviews"},
		&cli.StringFlag{Name: "salary", Usage: "salary as a decimal number", Required: true},
	}
}

func parseRecordBody(c *cli.Context) (*recordBody, error) {
	salary, err := domain.ParseSalary(c.String("salary"))
	if err != nil {
		return nil, fmt.Errorf("invalid --salary %q: %w", c.String("salary"), err)
	}
	return &recordBody{
		FirstName:       c.String("first-name"),
		LastName:        c.String("last-name"),
		DateOfBirth:     c.String("date-of-birth"),
		Sex:             c.String("sex"),
		NumberOfReviews: c.Int("reviews"),
		Salary:          salary,
	}, nil
}

func parseID(c *cli.Context) (int, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("%s: expected exactly one RECORD_ID argument", c.Command.Name)
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", c.Args().First())
	}
	return id, nil
}

// CreateCommand returns the create command.
func CreateCommand() *cli.Command {
	return &cli.Command{
		Name:   "create",
		Usage:  "Create a record",
		Flags:  recordFlags(),
		Action: recordCreate,
	}
}

func recordCreate(c *cli.Context) error {
	body, err := parseRecordBody(c)
	if err != nil {
		return err
	}
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, "/records", body)
	if err != nil {
		return err
	}
	var result struct {
		ID int `json:"id" yaml:"id"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if flags.Output == output.FormatTable {
		fmt.Fprintf(c.App.Writer, "Record #%d is created.\n", result.ID)
		return nil
	}
	return render(c, flags, result)
}

// UpdateCommand returns the update command.
func UpdateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Aliases:   []string{"edit"},
		Usage:     "Replace every field of a record",
		ArgsUsage: "RECORD_ID",
		Flags:     recordFlags(),
		Action:    recordUpdate,
	}
}

func recordUpdate(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	body, err := parseRecordBody(c)
	if err != nil {
		return err
	}
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Put(ctx, "/records/"+strconv.Itoa(id), body)
	if err != nil {
		return err
	}
	var rec recordView
	if err := connection.ParseResponse(resp, &rec); err != nil {
		return err
	}

	printf(c, flags, "Record #%d is updated.\n", id)
	return render(c, flags, []recordView{rec})
}

// RemoveCommand returns the remove command.
func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove a record",
		ArgsUsage: "RECORD_ID",
		Action:    recordRemove,
	}
}

func recordRemove(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Delete(ctx, "/records/"+strconv.Itoa(id))
	if err != nil {
		return err
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		if connection.IsNotFound(err) {
			return fmt.Errorf("record #%d doesn't exist", id)
		}
		return err
	}

	if flags.Output == output.FormatTable {
		fmt.Fprintf(c.App.Writer, "Record #%d is removed.\n", id)
		return nil
	}
	return render(c, flags, map[string]int{"removed": id})
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one record",
		ArgsUsage: "RECORD_ID",
		Action:    recordGet,
	}
}

func recordGet(c *cli.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/records/"+strconv.Itoa(id))
	if err != nil {
		return err
	}
	var rec recordView
	if err := connection.ParseResponse(resp, &rec); err != nil {
		if connection.IsNotFound(err) {
			return fmt.Errorf("record #%d doesn't exist", id)
		}
		return err
	}
	return render(c, flags, []recordView{rec})
}

// ListCommand returns the list command.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List all records in insertion order",
		Action: func(c *cli.Context) error {
			return listRecords(c, nil)
		},
	}
}

// FindCommand returns the find command.
func FindCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Find records by an indexed property",
		ArgsUsage: "firstname|lastname|dateofbirth VALUE",
		Action:    recordFind,
	}
}

var findProperties = []string{"firstname", "lastname", "dateofbirth"}

func recordFind(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("find: expected PROPERTY and VALUE, got %d argument(s)", c.NArg())
	}
	property := strings.ToLower(c.Args().Get(0))
	known := false
	for _, p := range findProperties {
		if p == property {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("find: unknown property %q (want %s)", c.Args().Get(0), strings.Join(findProperties, ", "))
	}
	return listRecords(c, url.Values{property: {c.Args().Get(1)}})
}

func listRecords(c *cli.Context, query url.Values) error {
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	path := "/records"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	resp, err := client.Get(ctx, path)
	if err != nil {
		return err
	}
	var result recordList
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if flags.Output != output.FormatTable {
		return render(c, flags, result)
	}
	if result.Total == 0 {
		fmt.Fprintln(c.App.Writer, "No records found.")
		return nil
	}
	if err := render(c, flags, result.Items); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\nTotal: %d record(s)\n", result.Total)
	return nil
}

// StatCommand returns the stat command.
func StatCommand() *cli.Command {
	return &cli.Command{
		Name:   "stat",
		Usage:  "Show the record count and active validation profile",
		Action: recordStat,
	}
}

func recordStat(c *cli.Context) error {
	client, flags, err := newClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/stat")
	if err != nil {
		return err
	}
	var stat struct {
		Count   int    `json:"count" yaml:"count"`
		Profile string `json:"profile" yaml:"profile"`
	}
	if err := connection.ParseResponse(resp, &stat); err != nil {
		return err
	}

	if flags.Output == output.FormatTable {
		fmt.Fprintf(c.App.Writer, "%d record(s).\nValidation profile: %s\n", stat.Count, stat.Profile)
		return nil
	}
	return render(c, flags, stat)
}
