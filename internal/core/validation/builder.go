package validation

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// ErrEmptyPipeline is returned by Build when no step was added.
var ErrEmptyPipeline = errors.New("validation: pipeline has no steps")

// Builder assembles a Pipeline step by step.
//
// Steps may be added in any order; Build arranges them in the fixed
// execution order. The first invalid parameter is remembered and
// returned by Build.
type Builder struct {
	profile string
	steps   map[string]step
	now     func() time.Time
	err     error
}

// NewBuilder starts a pipeline for the named profile.
func NewBuilder(profile string) *Builder {
	return &Builder{
		profile: profile,
		steps:   make(map[string]step),
		now:     time.Now,
	}
}

// WithClock sets the source of "today" for the date of birth window.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// FirstName adds a length and optional charset rule for the first name.
func (b *Builder) FirstName(min, max int, charset *regexp.Regexp) *Builder {
	r, err := newNameRule("first name", min, max, charset)
	if err != nil {
		return b.fail(err)
	}
	return b.add(step{
		name:  StepFirstName,
		field: "firstName",
		check: func(f domain.Fields, _ time.Time) string { return r.validate(f.FirstName) },
	})
}

// LastName adds a length and optional charset rule for the last name.
func (b *Builder) LastName(min, max int, charset *regexp.Regexp) *Builder {
	r, err := newNameRule("last name", min, max, charset)
	if err != nil {
		return b.fail(err)
	}
	return b.add(step{
		name:  StepLastName,
		field: "lastName",
		check: func(f domain.Fields, _ time.Time) string { return r.validate(f.LastName) },
	})
}

// DateOfBirth adds an inclusive window rule. A zero to means "today".
func (b *Builder) DateOfBirth(from, to time.Time) *Builder {
	if from.IsZero() {
		return b.fail(fmt.Errorf("validation: date of birth lower bound is required"))
	}
	if !to.IsZero() && to.Before(from) {
		return b.fail(fmt.Errorf("validation: date of birth window %s..%s is empty",
			domain.FormatDate(from), domain.FormatDate(to)))
	}
	r := dateRule{from: truncateDay(from)}
	if !to.IsZero() {
		r.to = truncateDay(to)
	}
	return b.add(step{
		name:  StepDateOfBirth,
		field: "dateOfBirth",
		check: func(f domain.Fields, today time.Time) string { return r.validate(f.DateOfBirth, today) },
	})
}

// Sex adds the M/F enum rule.
func (b *Builder) Sex() *Builder {
	return b.add(step{
		name:  StepSex,
		field: "sex",
		check: func(f domain.Fields, _ time.Time) string { return validateSex(f.Sex) },
	})
}

// NumberOfReviews adds a floor on the review count.
func (b *Builder) NumberOfReviews(min int) *Builder {
	if min < 0 {
		return b.fail(fmt.Errorf("validation: minimum reviews %d is negative", min))
	}
	r := reviewsRule{min: min}
	return b.add(step{
		name:  StepReviews,
		field: "numberOfReviews",
		check: func(f domain.Fields, _ time.Time) string { return r.validate(f.NumberOfReviews) },
	})
}

// Salary adds a floor on the salary.
func (b *Builder) Salary(min decimal.Decimal) *Builder {
	if min.IsNegative() {
		return b.fail(fmt.Errorf("validation: minimum salary %s is negative", min))
	}
	r := salaryRule{min: min}
	return b.add(step{
		name:  StepSalary,
		field: "salary",
		check: func(f domain.Fields, _ time.Time) string { return r.validate(f.Salary) },
	})
}

// Build freezes the added steps into a Pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.steps) == 0 {
		return nil, ErrEmptyPipeline
	}

	steps := make([]step, 0, len(b.steps))
	for _, name := range canonicalOrder {
		if s, ok := b.steps[name]; ok {
			steps = append(steps, s)
		}
	}

	return &Pipeline{
		profile: b.profile,
		steps:   steps,
		now:     b.now,
	}, nil
}

func (b *Builder) add(s step) *Builder {
	if b.err != nil {
		return b
	}
	if _, dup := b.steps[s.name]; dup {
		b.err = fmt.Errorf("validation: step %q added twice", s.name)
		return b
	}
	b.steps[s.name] = s
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func newNameRule(label string, min, max int, charset *regexp.Regexp) (nameRule, error) {
	if min < 1 || max < min {
		return nameRule{}, fmt.Errorf("validation: %s length bounds %d..%d are invalid", label, min, max)
	}
	return nameRule{label: label, min: min, max: max, charset: charset}, nil
}
