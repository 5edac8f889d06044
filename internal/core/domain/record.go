package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the exchange representation of a date of birth (MM/dd/yyyy).
const DateLayout = "01/02/2006"

// indexDateLayout is the normalized key form of a date of birth.
const indexDateLayout = "2006-01-02"

// Sex is the sex of a record holder.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Valid reports whether s is one of the known values.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// ParseSex parses a single letter, case-insensitively.
func ParseSex(s string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return SexMale, nil
	case "F":
		return SexFemale, nil
	}
	return "", fmt.Errorf("unknown sex %q", s)
}

// ParseDate parses a MM/dd/yyyy date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate formats t as MM/dd/yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Fields are the descriptive attributes of a record.
type Fields struct {
	// FirstName of the record holder.
	FirstName string `json:"first_name"`

	// LastName of the record holder.
	LastName string `json:"last_name"`

	// DateOfBirth is a calendar date stored as UTC midnight.
	DateOfBirth time.Time `json:"date_of_birth"`

	// Sex is M or F.
	Sex Sex `json:"sex"`

	// NumberOfReviews is a non-negative count.
	NumberOfReviews int `json:"number_of_reviews"`

	// Salary is a non-negative decimal amount.
	Salary decimal.Decimal `json:"salary"`
}

// Equal reports whether two field sets hold the same values.
func (f Fields) Equal(o Fields) bool {
	return f.FirstName == o.FirstName &&
		f.LastName == o.LastName &&
		f.DateOfBirth.Equal(o.DateOfBirth) &&
		f.Sex == o.Sex &&
		f.NumberOfReviews == o.NumberOfReviews &&
		f.Salary.Equal(o.Salary)
}

// Record is a stored entity: a positive id unique within the store plus its fields.
type Record struct {
	ID int `json:"id"`
	Fields
}

// IndexKind names a secondary index.
type IndexKind int

const (
	IndexFirstName IndexKind = iota
	IndexLastName
	IndexDateOfBirth
)

// IndexKinds lists every secondary index.
var IndexKinds = []IndexKind{IndexFirstName, IndexLastName, IndexDateOfBirth}

func (k IndexKind) String() string {
	switch k {
	case IndexFirstName:
		return "firstname"
	case IndexLastName:
		return "lastname"
	case IndexDateOfBirth:
		return "dateofbirth"
	}
	return fmt.Sprintf("index(%d)", int(k))
}

// NormalizeName returns the case-insensitive index key for a name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeDate returns the index key for a date of birth.
func NormalizeDate(t time.Time) string {
	return t.Format(indexDateLayout)
}

// Key returns the normalized index key of f for the given index.
func (f Fields) Key(kind IndexKind) string {
	switch kind {
	case IndexFirstName:
		return NormalizeName(f.FirstName)
	case IndexLastName:
		return NormalizeName(f.LastName)
	case IndexDateOfBirth:
		return NormalizeDate(f.DateOfBirth)
	}
	return ""
}
