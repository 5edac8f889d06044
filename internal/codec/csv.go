package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// csvHeader is the first row of every CSV document.
var csvHeader = []string{
	"Id",
	"First Name",
	"Last Name",
	"Date of Birth",
	"Sex",
	"Number of Reviews",
	"Salary",
}

// CSV is the row-oriented codec.
type CSV struct{}

func (CSV) Format() string { return FormatCSV }

func (CSV) ContentType() string { return "text/csv; charset=utf-8" }

// Encode writes the header followed by one row per record.
func (CSV) Encode(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("codec: csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			r.FirstName,
			r.LastName,
			domain.FormatDate(r.DateOfBirth),
			string(r.Sex),
			strconv.Itoa(r.NumberOfReviews),
			r.Salary.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("codec: csv record %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads a CSV document. Rows with the wrong number of columns or
// unparsable values are returned as structurally invalid candidates.
func (CSV) Decode(r io.Reader) ([]domain.Candidate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrMalformedRecord.WithDetails("csv: missing header")
	}
	if err != nil {
		return nil, domain.ErrMalformedRecord.WithDetails("csv header: " + err.Error()).WithCause(err)
	}
	if !matchHeader(header) {
		return nil, domain.ErrMalformedRecord.WithDetails("csv: unexpected header " + strings.Join(header, ","))
	}

	var out []domain.Candidate
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			// The reader resumes at the next line after a syntax error.
			out = append(out, domain.Candidate{Err: &domain.StructuralError{
				Line:   perr.StartLine,
				Reason: perr.Err.Error(),
			}})
			continue
		}
		if err != nil {
			return nil, domain.ErrMalformedRecord.WithDetails("csv: " + err.Error()).WithCause(err)
		}

		line, _ := cr.FieldPos(0)
		if len(row) != len(csvHeader) {
			c := domain.Candidate{Err: &domain.StructuralError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d fields, got %d", len(csvHeader), len(row)),
			}}
			if id, err := strconv.Atoi(strings.TrimSpace(row[0])); err == nil {
				c.ID = id
			}
			out = append(out, c)
			continue
		}

		out = append(out, rawRecord{
			line:        line,
			id:          row[0],
			firstName:   row[1],
			lastName:    row[2],
			dateOfBirth: row[3],
			sex:         row[4],
			reviews:     row[5],
			salary:      row[6],
		}.candidate())
	}
	return out, nil
}

func matchHeader(h []string) bool {
	if len(h) != len(csvHeader) {
		return false
	}
	for i := range h {
		// A UTF-8 byte order mark may precede the first column.
		col := strings.TrimSpace(strings.TrimPrefix(h[i], "\ufeff"))
		if !strings.EqualFold(col, csvHeader[i]) {
			return false
		}
	}
	return true
}
