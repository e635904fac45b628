package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/kolehiyo/admissions-api/internal/models"
)

type curriculumStore interface {
	FindActive(ctx context.Context, q sqlx.ExtContext, programID int64, yearLevel, semester int, academicYearID int64) (*models.Curriculum, error)
	Create(ctx context.Context, q sqlx.ExtContext, curriculum *models.Curriculum) error
	ListCourses(ctx context.Context, q sqlx.ExtContext, curriculumID int64) ([]models.Course, error)
	AttachCourse(ctx context.Context, q sqlx.ExtContext, req *models.CourseRequirement) error
}

type courseStore interface {
	ListForProgram(ctx context.Context, q sqlx.ExtContext, programID int64, programCode string, yearLevel, semester int) ([]models.Course, error)
	Create(ctx context.Context, q sqlx.ExtContext, course *models.Course) error
}

// CurriculumService guarantees that a curriculum exists for any resolvable
// program tuple. A missing curriculum is materialized rather than reported
// as absent: the engine trades strict curricular accuracy for forward
// progress, so the batch pipeline never stalls on missing academic-affairs
// setup data.
type CurriculumService struct {
	curricula curriculumStore
	courses   courseStore
	logger    *zap.Logger
}

// NewCurriculumService constructs CurriculumService.
func NewCurriculumService(curricula curriculumStore, courses courseStore, logger *zap.Logger) *CurriculumService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{curricula: curricula, courses: courses, logger: logger}
}

// Ensure returns the ordered courses for the tuple, creating the curriculum
// and a seed course when none exists. The materialized flag is true only
// when a default curriculum was created on this call, so run reports can
// distinguish synthesized curricula from pre-existing ones.
func (s *CurriculumService) Ensure(ctx context.Context, q sqlx.ExtContext, program models.Program, yearLevel, semester int, academicYearID int64) ([]models.Course, bool, error) {
	existing, err := s.curricula.FindActive(ctx, q, program.ID, yearLevel, semester, academicYearID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("find curriculum for program %d: %w", program.ID, err)
	}
	if existing != nil {
		courses, err := s.curricula.ListCourses(ctx, q, existing.ID)
		if err != nil {
			return nil, false, err
		}
		return courses, false, nil
	}

	curriculum := &models.Curriculum{
		ProgramID:      program.ID,
		YearLevel:      yearLevel,
		Semester:       semester,
		AcademicYearID: academicYearID,
		Active:         true,
	}
	if err := s.curricula.Create(ctx, q, curriculum); err != nil {
		return nil, false, err
	}

	courses, err := s.courses.ListForProgram(ctx, q, program.ID, program.Code, yearLevel, semester)
	if err != nil {
		return nil, false, err
	}
	if len(courses) == 0 {
		seed := &models.Course{
			Code:      fmt.Sprintf("%s-INTRO", program.Code),
			Title:     fmt.Sprintf("Introduction to %s", program.Name),
			Units:     3,
			YearLevel: yearLevel,
			Semester:  semester,
			ProgramID: &program.ID,
		}
		if err := s.courses.Create(ctx, q, seed); err != nil {
			return nil, false, err
		}
		courses = []models.Course{*seed}
	}

	for i := range courses {
		req := &models.CourseRequirement{
			CurriculumID: curriculum.ID,
			CourseID:     courses[i].ID,
			SortOrder:    i,
			Required:     true,
		}
		if err := s.curricula.AttachCourse(ctx, q, req); err != nil {
			return nil, false, err
		}
	}

	s.logger.Info("materialized default curriculum",
		zap.Int64("program_id", program.ID),
		zap.Int("year_level", yearLevel),
		zap.Int("semester", semester),
		zap.Int64("academic_year_id", academicYearID),
		zap.Int("courses", len(courses)),
	)
	return courses, true, nil
}
