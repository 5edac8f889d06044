package validation

import (
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
)

// Pipeline is an immutable, ordered set of field validators.
type Pipeline struct {
	profile string
	steps   []step
	now     func() time.Time
}

// Profile returns the name of the profile the pipeline was built from.
func (p *Pipeline) Profile() string {
	return p.profile
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.name
	}
	return names
}

// Validate runs every step in order and returns a *domain.ValidationError
// for the first one that rejects f.
func (p *Pipeline) Validate(f domain.Fields) error {
	today := truncateDay(p.now())
	for _, s := range p.steps {
		if reason := s.check(f, today); reason != "" {
			return &domain.ValidationError{Field: s.field, Reason: reason}
		}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
