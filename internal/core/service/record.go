package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/validation"
)

// Cabinet is the set of record operations offered to callers.
type Cabinet interface {
	CreateRecord(ctx context.Context, fields domain.Fields) (int, error)
	UpdateRecord(ctx context.Context, id int, fields domain.Fields) error
	RemoveRecord(ctx context.Context, id int) error
	GetRecord(ctx context.Context, id int) (domain.Record, error)
	FindByFirstName(ctx context.Context, firstName string) ([]domain.Record, error)
	FindByLastName(ctx context.Context, lastName string) ([]domain.Record, error)
	FindByDateOfBirth(ctx context.Context, dateOfBirth time.Time) ([]domain.Record, error)
	GetAll(ctx context.Context) ([]domain.Record, error)
	Stat(ctx context.Context) (*Stat, error)
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Restore(ctx context.Context, candidates []domain.Candidate) (*domain.RestoreResult, error)
}

// Stat summarizes the cabinet state.
type Stat struct {
	Count   int    `json:"count"`
	Profile string `json:"profile"`
}

// RecordService validates and applies record operations.
type RecordService struct {
	repo     Repository
	restorer *RestoreCoordinator
	pipeline atomic.Pointer[validation.Pipeline]
	logger   *slog.Logger
}

// Option configures a RecordService.
type Option func(*RecordService)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *RecordService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewRecordService creates a RecordService validating with pipeline.
func NewRecordService(repo Repository, pipeline *validation.Pipeline, opts ...Option) *RecordService {
	s := &RecordService{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if pipeline == nil {
		pipeline = validation.Default()
	}
	s.restorer = NewRestoreCoordinator(repo, s.logger)
	s.pipeline.Store(pipeline)
	return s
}

// Pipeline returns the active validation pipeline.
func (s *RecordService) Pipeline() *validation.Pipeline {
	return s.pipeline.Load()
}

// SetPipeline swaps the active validation pipeline.
// Operations already running keep the pipeline they started with.
func (s *RecordService) SetPipeline(p *validation.Pipeline) {
	if p == nil {
		return
	}
	old := s.pipeline.Swap(p)
	s.logger.Info("validation pipeline replaced",
		"from", old.Profile(),
		"to", p.Profile(),
		"steps", p.Steps(),
	)
}

// ============================================================================
// Mutations
// ============================================================================

// CreateRecord validates fields and stores them under a new id.
func (s *RecordService) CreateRecord(ctx context.Context, fields domain.Fields) (int, error) {
	if err := s.Pipeline().Validate(fields); err != nil {
		return 0, err
	}
	return s.repo.Insert(ctx, fields)
}

// UpdateRecord validates fields and replaces those of record id.
func (s *RecordService) UpdateRecord(ctx context.Context, id int, fields domain.Fields) error {
	if !s.repo.Exists(ctx, id) {
		return &domain.NotFoundError{ID: id}
	}
	if err := s.Pipeline().Validate(fields); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, fields)
}

// RemoveRecord deletes record id.
func (s *RecordService) RemoveRecord(ctx context.Context, id int) error {
	return s.repo.Remove(ctx, id)
}

// ============================================================================
// Queries
// ============================================================================

// GetRecord returns record id.
func (s *RecordService) GetRecord(ctx context.Context, id int) (domain.Record, error) {
	return s.repo.Get(ctx, id)
}

// FindByFirstName returns records whose first name matches, ignoring case.
func (s *RecordService) FindByFirstName(ctx context.Context, firstName string) ([]domain.Record, error) {
	return s.repo.FindBy(ctx, domain.IndexFirstName, domain.NormalizeName(firstName))
}

// FindByLastName returns records whose last name matches, ignoring case.
func (s *RecordService) FindByLastName(ctx context.Context, lastName string) ([]domain.Record, error) {
	return s.repo.FindBy(ctx, domain.IndexLastName, domain.NormalizeName(lastName))
}

// FindByDateOfBirth returns records born on the given date.
func (s *RecordService) FindByDateOfBirth(ctx context.Context, dateOfBirth time.Time) ([]domain.Record, error) {
	return s.repo.FindBy(ctx, domain.IndexDateOfBirth, domain.NormalizeDate(dateOfBirth))
}

// GetAll returns all records in insertion order.
func (s *RecordService) GetAll(ctx context.Context) ([]domain.Record, error) {
	return s.repo.GetAll(ctx)
}

// Stat returns the record count and active profile.
func (s *RecordService) Stat(ctx context.Context) (*Stat, error) {
	return &Stat{
		Count:   s.repo.Count(ctx),
		Profile: s.Pipeline().Profile(),
	}, nil
}

// ============================================================================
// Snapshot / Restore
// ============================================================================

// Snapshot captures an immutable copy of all records.
func (s *RecordService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	return s.repo.Snapshot(ctx)
}

// Restore applies candidates with the active pipeline.
func (s *RecordService) Restore(ctx context.Context, candidates []domain.Candidate) (*domain.RestoreResult, error) {
	return s.restorer.Apply(ctx, candidates, s.Pipeline())
}
