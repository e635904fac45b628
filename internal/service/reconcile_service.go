package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/kolehiyo/admissions-api/internal/models"
)

type applicantPatcher interface {
	UpdateProgram(ctx context.Context, q sqlx.ExtContext, id, programID int64, desiredProgram string) error
}

type studentPatcher interface {
	UpdateProgram(ctx context.Context, q sqlx.ExtContext, id, programID int64, programCode string) error
}

type enrollmentPatcher interface {
	UpdateProgram(ctx context.Context, q sqlx.ExtContext, id, programID int64, programCode string) error
}

// ReconcileService propagates a resolved program's canonical id and code
// onto the enrollment and its linked applicant and student, so that future
// resolutions are direct-id matches instead of fuzzy ones. Low-confidence
// resolutions are never persisted.
type ReconcileService struct {
	applicants  applicantPatcher
	students    studentPatcher
	enrollments enrollmentPatcher
	logger      *zap.Logger
}

// NewReconcileService constructs ReconcileService.
func NewReconcileService(applicants applicantPatcher, students studentPatcher, enrollments enrollmentPatcher, logger *zap.Logger) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{applicants: applicants, students: students, enrollments: enrollments, logger: logger}
}

// Reconcile overwrites diverging program linkage fields with the canonical
// values. All writes go through q, so within a pipeline run they share the
// run transaction. It reports whether anything changed.
func (s *ReconcileService) Reconcile(ctx context.Context, q sqlx.ExtContext, e *models.EligibleEnrollment, program models.Program, confidence models.Confidence) (bool, error) {
	if !confidence.AtLeast(models.ConfidenceMedium) {
		return false, nil
	}

	changed := false

	if e.ProgramID == nil || *e.ProgramID != program.ID ||
		e.ProgramCode == nil || *e.ProgramCode != program.Code {
		if err := s.enrollments.UpdateProgram(ctx, q, e.ID, program.ID, program.Code); err != nil {
			return changed, err
		}
		e.Enrollment.ProgramID = &program.ID
		e.Enrollment.ProgramCode = &program.Code
		changed = true
	}

	if e.ApplicantID != nil {
		diverges := e.ApplicantProgramID == nil || *e.ApplicantProgramID != program.ID ||
			e.ApplicantDesired == nil || *e.ApplicantDesired != program.Name
		if diverges {
			if err := s.applicants.UpdateProgram(ctx, q, *e.ApplicantID, program.ID, program.Name); err != nil {
				return changed, err
			}
			e.ApplicantProgramID = &program.ID
			e.ApplicantDesired = &program.Name
			changed = true
		}
	}

	if e.StudentID != nil {
		diverges := e.StudentProgramID == nil || *e.StudentProgramID != program.ID ||
			e.StudentProgramCode == nil || *e.StudentProgramCode != program.Code
		if diverges {
			if err := s.students.UpdateProgram(ctx, q, *e.StudentID, program.ID, program.Code); err != nil {
				return changed, err
			}
			e.StudentProgramID = &program.ID
			e.StudentProgramCode = &program.Code
			changed = true
		}
	}

	if changed {
		s.logger.Debug("reconciled program linkage",
			zap.Int64("enrollment_id", e.ID),
			zap.Int64("program_id", program.ID),
			zap.String("program_code", program.Code),
		)
	}
	return changed, nil
}
