package service

import (
	"context"

	"github.com/kolehiyo/admissions-api/internal/models"
	appErrors "github.com/kolehiyo/admissions-api/pkg/errors"
)

// ProgramService exposes the read-only program catalogue, mainly so callers
// can choose a program scope for an assignment run.
type ProgramService struct {
	programs programCatalogStore
}

// NewProgramService constructs ProgramService.
func NewProgramService(programs programCatalogStore) *ProgramService {
	return &ProgramService{programs: programs}
}

// List returns the catalogue in canonical order.
func (s *ProgramService) List(ctx context.Context) ([]models.Program, error) {
	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	return programs, nil
}
