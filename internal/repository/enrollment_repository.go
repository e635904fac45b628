package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kolehiyo/admissions-api/internal/models"
)

const eligibleColumns = `e.id, e.student_id, e.applicant_id, e.program_id, e.program_code,
        e.year_level, e.semester, e.academic_year_id, e.status,
        p.code AS joined_program_code, p.name AS joined_program_name,
        a.program_id AS applicant_program_id, a.desired_program AS applicant_desired_program,
        a.student_number AS applicant_student_number, a.student_id AS applicant_student_id,
        s.program_id AS student_program_id, s.program_code AS student_program_code,
        s.student_number AS student_number,
        ls.student_number AS linked_student_number`

const eligibleJoins = `FROM enrollments e
        LEFT JOIN programs p ON p.id = e.program_id
        LEFT JOIN applicants a ON a.id = e.applicant_id
        LEFT JOIN students s ON s.id = e.student_id
        LEFT JOIN students ls ON ls.id = a.student_id`

// EnrollmentRepository reads enrollments with their eager-loaded applicant,
// student and program context, and patches program linkage during
// reconciliation.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListEligible returns enrollments that are candidates for an assignment
// run: active status, applicant officially enrolled or student active,
// narrowed by the requested filters. When a program scope is set, rows with
// no program linkage at all are still included so fuzzy resolution gets a
// chance; the pipeline re-checks scope after resolving.
func (r *EnrollmentRepository) ListEligible(ctx context.Context, q sqlx.ExtContext, filter models.EligibilityFilter) ([]models.EligibleEnrollment, error) {
	conditions := []string{
		"e.academic_year_id = $1",
		"e.status = $2",
		"(a.status = $3 OR s.active = TRUE)",
	}
	args := []interface{}{filter.AcademicYearID, models.EnrollmentStatusEnrolled, models.ApplicantStatusOfficiallyEnrolled}

	if filter.YearLevel > 0 {
		conditions = append(conditions, fmt.Sprintf("e.year_level = $%d", len(args)+1))
		args = append(args, filter.YearLevel)
	}
	if filter.Semester > 0 {
		conditions = append(conditions, fmt.Sprintf("e.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.ProgramID > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"(e.program_id = $%d OR e.program_id IS NULL OR a.program_id = $%d OR s.program_id = $%d)",
			len(args)+1, len(args)+1, len(args)+1))
		args = append(args, filter.ProgramID)
	}

	const historyExists = `EXISTS (SELECT 1 FROM course_assignments ca
                JOIN enrollments pe ON pe.id = ca.enrollment_id
                WHERE pe.student_id = e.student_id AND pe.year_level > 1)`
	switch filter.StudentType {
	case models.StudentTypeNew:
		conditions = append(conditions, "NOT "+historyExists)
	case models.StudentTypeOld:
		conditions = append(conditions, historyExists)
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY e.id",
		eligibleColumns, eligibleJoins, strings.Join(conditions, " AND "))

	var enrollments []models.EligibleEnrollment
	if err := sqlx.SelectContext(ctx, q, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list eligible enrollments: %w", err)
	}
	return enrollments, nil
}

// FindEligibleByID returns one enrollment with the same eager-loaded view,
// without eligibility gates. Used for resolution previews.
func (r *EnrollmentRepository) FindEligibleByID(ctx context.Context, id int64) (*models.EligibleEnrollment, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.id = $1", eligibleColumns, eligibleJoins)
	var enrollment models.EligibleEnrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpdateProgram patches the canonical program linkage onto an enrollment.
func (r *EnrollmentRepository) UpdateProgram(ctx context.Context, q sqlx.ExtContext, id, programID int64, programCode string) error {
	const query = `UPDATE enrollments SET program_id = $2, program_code = $3 WHERE id = $1`
	if _, err := q.ExecContext(ctx, query, id, programID, programCode); err != nil {
		return fmt.Errorf("update enrollment %d program: %w", id, err)
	}
	return nil
}
