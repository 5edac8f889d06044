package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxSalaryScale is the largest number of fractional digits a salary may carry.
const MaxSalaryScale = 28

// maxSalaryDigits is the digit count of MaxSalary.
const maxSalaryDigits = 29

// MaxSalary bounds the magnitude of a salary (2^96 - 1).
var MaxSalary = decimal.RequireFromString("79228162514264337593543950335")

// ErrSalaryOutOfRange is returned for salaries outside ±MaxSalary or with
// more than MaxSalaryScale fractional digits.
var ErrSalaryOutOfRange = errors.New("salary out of range")

// CheckSalary reports whether d is within the representable salary range.
// The exponent is inspected before any arithmetic so that values such as
// 1e100000000 (or 0e100000000) are refused without being expanded.
func CheckSalary(d decimal.Decimal) error {
	exp := int64(d.Exponent())
	if exp < -MaxSalaryScale {
		return fmt.Errorf("%w: more than %d fractional digits", ErrSalaryOutOfRange, MaxSalaryScale)
	}
	if int64(d.NumDigits())+exp > maxSalaryDigits || d.Abs().GreaterThan(MaxSalary) {
		return fmt.Errorf("%w: magnitude exceeds %s", ErrSalaryOutOfRange, MaxSalary.String())
	}
	return nil
}

// ParseSalary parses a decimal salary and applies CheckSalary.
func ParseSalary(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2*maxSalaryDigits+MaxSalaryScale {
		return decimal.Zero, fmt.Errorf("%w: %d characters", ErrSalaryOutOfRange, len(s))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if err := CheckSalary(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
