package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

type xmlDocument struct {
	XMLName xml.Name    `xml:"records"`
	Records []xmlRecord `xml:"record"`
}

// Values are kept as text so a bad value rejects one record, not the document.
type xmlRecord struct {
	ID              string  `xml:"id,attr"`
	Name            xmlName `xml:"name"`
	DateOfBirth     string  `xml:"dateOfBirth"`
	Sex             string  `xml:"sex"`
	NumberOfReviews string  `xml:"numberOfReviews"`
	Salary          string  `xml:"salary"`
}

type xmlName struct {
	First string `xml:"first,attr"`
	Last  string `xml:"last,attr"`
}

// XML is the structured-tree codec.
type XML struct{}

func (XML) Format() string { return FormatXML }

func (XML) ContentType() string { return "application/xml; charset=utf-8" }

// Encode writes an indented <records> document.
func (XML) Encode(w io.Writer, records []domain.Record) error {
	doc := xmlDocument{Records: make([]xmlRecord, len(records))}
	for i, r := range records {
		doc.Records[i] = xmlRecord{
			ID:              strconv.Itoa(r.ID),
			Name:            xmlName{First: r.FirstName, Last: r.LastName},
			DateOfBirth:     domain.FormatDate(r.DateOfBirth),
			Sex:             string(r.Sex),
			NumberOfReviews: strconv.Itoa(r.NumberOfReviews),
			Salary:          r.Salary.String(),
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("codec: xml: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("codec: xml: %w", err)
	}
	return enc.Flush()
}

// Decode reads a <records> document. Line numbers in structural errors
// are the 1-based position of the record element.
func (XML) Decode(r io.Reader) ([]domain.Candidate, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, domain.ErrMalformedRecord.WithDetails("xml: " + err.Error()).WithCause(err)
	}

	out := make([]domain.Candidate, 0, len(doc.Records))
	for i, rec := range doc.Records {
		out = append(out, rawRecord{
			line:        i + 1,
			id:          rec.ID,
			firstName:   rec.Name.First,
			lastName:    rec.Name.Last,
			dateOfBirth: rec.DateOfBirth,
			sex:         rec.Sex,
			reviews:     rec.NumberOfReviews,
			salary:      rec.Salary,
		}.candidate())
	}
	return out, nil
}
