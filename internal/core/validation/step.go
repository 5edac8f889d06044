package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// Step names, in the order a pipeline runs them.
const (
	StepFirstName   = "firstName"
	StepLastName    = "lastName"
	StepDateOfBirth = "dateOfBirth"
	StepSex         = "sex"
	StepReviews     = "numberOfReviews"
	StepSalary      = "salary"
)

// canonicalOrder fixes which rule reports first when several fail.
var canonicalOrder = []string{
	StepFirstName,
	StepLastName,
	StepDateOfBirth,
	StepSex,
	StepReviews,
	StepSalary,
}

// check returns "" on pass or the rejection reason.
type check func(f domain.Fields, today time.Time) string

type step struct {
	name  string
	field string
	check check
}

// nameRule bounds a name by rune length and an optional character set.
type nameRule struct {
	label   string
	min     int
	max     int
	charset *regexp.Regexp
}

func (r nameRule) validate(v string) string {
	if !printable(v) {
		return fmt.Sprintf("%s must be valid UTF-8 without control characters", r.label)
	}
	v = strings.TrimSpace(v)
	if n := utf8.RuneCountInString(v); n < r.min || n > r.max {
		return fmt.Sprintf("%s length must be between %d and %d characters", r.label, r.min, r.max)
	}
	if r.charset != nil && !r.charset.MatchString(v) {
		return fmt.Sprintf("%s must contain only letters and hyphens", r.label)
	}
	return ""
}

// dateRule bounds a date by an inclusive window. A zero upper bound means today.
// printable rejects text that encoders would rewrite on output.
func printable(v string) bool {
	if !utf8.ValidString(v) {
		return false
	}
	for _, r := range v {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

type dateRule struct {
	from time.Time
	to   time.Time
}

func (r dateRule) validate(v, today time.Time) string {
	upper := r.to
	if upper.IsZero() {
		upper = today
	}
	if v.IsZero() || v.Before(r.from) || v.After(upper) {
		return fmt.Sprintf("date of birth must be between %s and %s",
			domain.FormatDate(r.from), domain.FormatDate(upper))
	}
	return ""
}

func validateSex(v domain.Sex) string {
	if !v.Valid() {
		return "sex must be one of M, F"
	}
	return ""
}

type reviewsRule struct {
	min int
}

func (r reviewsRule) validate(v int) string {
	if v < r.min {
		return fmt.Sprintf("number of reviews must not be less than %d", r.min)
	}
	return ""
}

type salaryRule struct {
	min decimal.Decimal
}

func (r salaryRule) validate(v decimal.Decimal) string {
	if domain.CheckSalary(v) != nil {
		return fmt.Sprintf("salary must not exceed %s in magnitude or have more than %d fractional digits",
			domain.MaxSalary.String(), domain.MaxSalaryScale)
	}
	if v.LessThan(r.min) {
		return fmt.Sprintf("salary must not be less than %s", r.min.String())
	}
	return ""
}
