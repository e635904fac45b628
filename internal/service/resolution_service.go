package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/kolehiyo/admissions-api/internal/catalog"
	"github.com/kolehiyo/admissions-api/internal/dto"
	"github.com/kolehiyo/admissions-api/internal/models"
	"github.com/kolehiyo/admissions-api/internal/resolver"
	appErrors "github.com/kolehiyo/admissions-api/pkg/errors"
)

type eligibleEnrollmentReader interface {
	FindEligibleByID(ctx context.Context, id int64) (*models.EligibleEnrollment, error)
}

// ResolutionService exposes dry-run program resolution for diagnosing bad
// upstream data. It has no side effects.
type ResolutionService struct {
	enrollments eligibleEnrollmentReader
	programs    programCatalogStore
	logger      *zap.Logger
}

// NewResolutionService constructs ResolutionService.
func NewResolutionService(enrollments eligibleEnrollmentReader, programs programCatalogStore, logger *zap.Logger) *ResolutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolutionService{enrollments: enrollments, programs: programs, logger: logger}
}

// Preview resolves one enrollment without writing anything.
func (s *ResolutionService) Preview(ctx context.Context, enrollmentID int64, strict bool) (*dto.ResolutionPreview, error) {
	row, err := s.enrollments.FindEligibleByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	programs, err := s.programs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program catalogue")
	}
	cat := catalog.New(programs)

	res := resolver.Resolve(resolver.FromEligible(*row), cat, strict)
	preview := &dto.ResolutionPreview{
		EnrollmentID: enrollmentID,
		Strict:       strict,
		Strategy:     string(res.Strategy),
		Confidence:   string(res.Confidence),
		Resolved:     res.Resolved,
	}
	if res.Resolved {
		if p, ok := cat.ByID(res.ProgramID); ok {
			preview.ProgramID = p.ID
			preview.ProgramCode = p.Code
			preview.ProgramName = p.Name
		}
	}
	return preview, nil
}
