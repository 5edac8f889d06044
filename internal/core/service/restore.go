package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/domain"
	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/core/validation"
)

// RestoreCoordinator applies a batch of untrusted candidates to a repository.
//
// Each candidate is handled on its own: a structural or validation failure
// becomes a rejection and the batch continues.
type RestoreCoordinator struct {
	repo   Repository
	logger *slog.Logger
}

// NewRestoreCoordinator creates a RestoreCoordinator.
func NewRestoreCoordinator(repo Repository, logger *slog.Logger) *RestoreCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RestoreCoordinator{repo: repo, logger: logger}
}

// Apply validates every candidate with pipeline and commits the valid ones.
// Existing ids are updated in place; unknown ids are inserted verbatim.
// Only repository failures other than not-found or duplicate id abort the batch.
func (c *RestoreCoordinator) Apply(ctx context.Context, candidates []domain.Candidate, pipeline *validation.Pipeline) (*domain.RestoreResult, error) {
	result := &domain.RestoreResult{Rejections: []domain.Rejection{}}

	for _, cand := range candidates {
		if err := c.check(cand, pipeline); err != nil {
			result.Rejections = append(result.Rejections, domain.Rejection{
				ID:     cand.ID,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}

		if err := c.commit(ctx, cand); err != nil {
			return result, err
		}
		result.Accepted++
	}

	if len(result.Rejections) > 0 {
		c.logger.Warn("restore rejected records",
			"accepted", result.Accepted,
			"rejected", len(result.Rejections),
		)
	}

	return result, nil
}

func (c *RestoreCoordinator) check(cand domain.Candidate, pipeline *validation.Pipeline) error {
	if cand.Err != nil {
		var se *domain.StructuralError
		if errors.As(cand.Err, &se) {
			return se
		}
		return &domain.StructuralError{Reason: cand.Err.Error()}
	}
	if cand.ID <= 0 {
		return &domain.StructuralError{Reason: "record id must be positive"}
	}
	return pipeline.Validate(cand.Fields)
}

// commit picks update or insert-with-id, falling back to the other path
// when the record appears or disappears between the check and the write.
func (c *RestoreCoordinator) commit(ctx context.Context, cand domain.Candidate) error {
	if c.repo.Exists(ctx, cand.ID) {
		err := c.repo.Update(ctx, cand.ID, cand.Fields)
		if errors.Is(err, domain.ErrRecordNotFound) {
			return c.repo.InsertWithID(ctx, cand.ID, cand.Fields)
		}
		return err
	}

	err := c.repo.InsertWithID(ctx, cand.ID, cand.Fields)
	if errors.Is(err, domain.ErrDuplicateID) {
		return c.repo.Update(ctx, cand.ID, cand.Fields)
	}
	return err
}
