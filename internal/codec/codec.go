// Package codec converts record lists to and from the CSV and XML
// exchange formats.
//
// Decoders never trust their input: a row that cannot be turned into
// fields becomes a domain.Candidate carrying a *domain.StructuralError,
// and the rest of the document is still decoded. Only a document that is
// unreadable as a whole fails the decode.
package codec

import (
	"io"
	"strconv"
	"strings"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// Supported formats.
const (
	FormatCSV = "csv"
	FormatXML = "xml"
)

// Codec encodes and decodes a record list.
type Codec interface {
	// Format returns the format name.
	Format() string

	// ContentType returns the MIME type of encoded output.
	ContentType() string

	// Encode writes records in order.
	Encode(w io.Writer, records []domain.Record) error

	// Decode reads every record, reporting per-record problems on the candidate.
	Decode(r io.Reader) ([]domain.Candidate, error)
}

// ForFormat returns the codec for a format name.
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		return CSV{}, nil
	case FormatXML:
		return XML{}, nil
	}
	return nil, domain.ErrUnsupportedFormat.WithDetails(format)
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatCSV, FormatXML}
}

// rawRecord holds the textual fields of one decoded record.
type rawRecord struct {
	line        int
	id          string
	firstName   string
	lastName    string
	dateOfBirth string
	sex         string
	reviews     string
	salary      string
}

// candidate parses raw into a candidate. The id is parsed first so a
// rejection can still name the record.
func (raw rawRecord) candidate() domain.Candidate {
	fail := func(c domain.Candidate, reason string) domain.Candidate {
		c.Err = &domain.StructuralError{Line: raw.line, Reason: reason}
		return c
	}

	var c domain.Candidate
	id, err := strconv.Atoi(strings.TrimSpace(raw.id))
	if err != nil {
		return fail(c, "invalid id "+strconv.Quote(raw.id))
	}
	c.ID = id

	dob, err := domain.ParseDate(raw.dateOfBirth)
	if err != nil {
		return fail(c, "invalid date of birth "+strconv.Quote(raw.dateOfBirth))
	}

	sex, err := domain.ParseSex(raw.sex)
	if err != nil {
		return fail(c, "invalid sex "+strconv.Quote(raw.sex))
	}

	reviews, err := strconv.Atoi(strings.TrimSpace(raw.reviews))
	if err != nil {
		return fail(c, "invalid number of reviews "+strconv.Quote(raw.reviews))
	}

	salary, err := domain.ParseSalary(raw.salary)
	if err != nil {
		return fail(c, "invalid salary "+strconv.Quote(raw.salary))
	}

	c.Fields = domain.Fields{
		FirstName:       raw.firstName,
		LastName:        raw.lastName,
		DateOfBirth:     dob,
		Sex:             sex,
		NumberOfReviews: reviews,
		Salary:          salary,
	}
	return c
}
