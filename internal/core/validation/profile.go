package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// Built-in profile names.
const (
	ProfileDefault = "default"
	ProfileCustom  = "custom"
)

// Limits are the numeric and charset parameters of a profile.
// Dates use the MM/dd/yyyy exchange layout; an empty DateOfBirthTo means today.
type Limits struct {
	NameMinLength   int    `koanf:"name_min_length"`
	NameMaxLength   int    `koanf:"name_max_length"`
	NamePattern     string `koanf:"name_pattern"`
	DateOfBirthFrom string `koanf:"date_of_birth_from"`
	DateOfBirthTo   string `koanf:"date_of_birth_to"`
	MinReviews      int    `koanf:"min_reviews"`
	MinSalary       string `koanf:"min_salary"`
}

// DefaultLimits returns the thresholds of the "default" profile.
func DefaultLimits() Limits {
	return Limits{
		NameMinLength:   2,
		NameMaxLength:   60,
		DateOfBirthFrom: "01/01/1950",
		MinReviews:      0,
		MinSalary:       "0",
	}
}

// CustomLimits returns the thresholds of the "custom" profile.
func CustomLimits() Limits {
	return Limits{
		NameMinLength:   2,
		NameMaxLength:   30,
		NamePattern:     `^[\p{L}-]+$`,
		DateOfBirthFrom: "01/01/1900",
		MinReviews:      1,
		MinSalary:       "100",
	}
}

// LimitsFor returns the built-in limits of a named profile.
func LimitsFor(profile string) (Limits, error) {
	switch profile {
	case ProfileDefault:
		return DefaultLimits(), nil
	case ProfileCustom:
		return CustomLimits(), nil
	}
	return Limits{}, fmt.Errorf("validation: unknown profile %q", profile)
}

// FromLimits builds the full six-step pipeline for l.
// A nil clock means time.Now.
func FromLimits(profile string, l Limits, now func() time.Time) (*Pipeline, error) {
	var charset *regexp.Regexp
	if l.NamePattern != "" {
		re, err := regexp.Compile(l.NamePattern)
		if err != nil {
			return nil, fmt.Errorf("validation: name pattern: %w", err)
		}
		charset = re
	}

	from, err := domain.ParseDate(l.DateOfBirthFrom)
	if err != nil {
		return nil, fmt.Errorf("validation: date_of_birth_from: %w", err)
	}
	var to time.Time
	if l.DateOfBirthTo != "" {
		if to, err = domain.ParseDate(l.DateOfBirthTo); err != nil {
			return nil, fmt.Errorf("validation: date_of_birth_to: %w", err)
		}
	}

	minSalary := decimal.Zero
	if l.MinSalary != "" {
		if minSalary, err = domain.ParseSalary(l.MinSalary); err != nil {
			return nil, fmt.Errorf("validation: min_salary: %w", err)
		}
	}

	return NewBuilder(profile).
		WithClock(now).
		FirstName(l.NameMinLength, l.NameMaxLength, charset).
		LastName(l.NameMinLength, l.NameMaxLength, charset).
		DateOfBirth(from, to).
		Sex().
		NumberOfReviews(l.MinReviews).
		Salary(minSalary).
		Build()
}

// Default builds the "default" profile pipeline.
func Default() *Pipeline {
	return mustBuiltin(ProfileDefault)
}

// Custom builds the "custom" profile pipeline.
func Custom() *Pipeline {
	return mustBuiltin(ProfileCustom)
}

func mustBuiltin(profile string) *Pipeline {
	l, err := LimitsFor(profile)
	if err != nil {
		panic(err)
	}
	p, err := FromLimits(profile, l, nil)
	if err != nil {
		panic(err)
	}
	return p
}
