package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kolehiyo/admissions-api/internal/models"
)

// CurriculumRepository persists curricula and their course links. Methods
// take an sqlx.ExtContext so they can participate in the pipeline's run-wide
// transaction or run standalone against the pool.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository constructs the repository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// DB returns the underlying pool for callers running outside a transaction.
func (r *CurriculumRepository) DB() sqlx.ExtContext {
	return r.db
}

// FindActive returns the active curriculum for the exact tuple. The store
// does not enforce tuple uniqueness, so duplicates are resolved
// deterministically to the most recently created row.
func (r *CurriculumRepository) FindActive(ctx context.Context, q sqlx.ExtContext, programID int64, yearLevel, semester int, academicYearID int64) (*models.Curriculum, error) {
	const query = `SELECT id, program_id, year_level, semester, academic_year_id, active, created_at
        FROM curricula
        WHERE program_id = $1 AND year_level = $2 AND semester = $3 AND academic_year_id = $4 AND active = TRUE
        ORDER BY created_at DESC, id DESC
        LIMIT 1`
	var curriculum models.Curriculum
	if err := sqlx.GetContext(ctx, q, &curriculum, query, programID, yearLevel, semester, academicYearID); err != nil {
		return nil, err
	}
	return &curriculum, nil
}

// Create inserts a curriculum and backfills its id and creation time.
func (r *CurriculumRepository) Create(ctx context.Context, q sqlx.ExtContext, curriculum *models.Curriculum) error {
	const query = `INSERT INTO curricula (program_id, year_level, semester, academic_year_id, active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	if curriculum.CreatedAt.IsZero() {
		curriculum.CreatedAt = time.Now().UTC()
	}
	row := q.QueryRowxContext(ctx, query,
		curriculum.ProgramID, curriculum.YearLevel, curriculum.Semester,
		curriculum.AcademicYearID, curriculum.Active, curriculum.CreatedAt)
	if err := row.Scan(&curriculum.ID, &curriculum.CreatedAt); err != nil {
		return fmt.Errorf("create curriculum: %w", err)
	}
	return nil
}

// ListCourses returns the curriculum's courses in requirement order.
func (r *CurriculumRepository) ListCourses(ctx context.Context, q sqlx.ExtContext, curriculumID int64) ([]models.Course, error) {
	const query = `SELECT c.id, c.code, c.title, c.units, c.year_level, c.semester, c.program_id
        FROM curriculum_courses cc
        JOIN courses c ON c.id = cc.course_id
        WHERE cc.curriculum_id = $1
        ORDER BY cc.sort_order, cc.id`
	var courses []models.Course
	if err := sqlx.SelectContext(ctx, q, &courses, query, curriculumID); err != nil {
		return nil, fmt.Errorf("list curriculum courses: %w", err)
	}
	return courses, nil
}

// AttachCourse links a course into a curriculum.
func (r *CurriculumRepository) AttachCourse(ctx context.Context, q sqlx.ExtContext, req *models.CourseRequirement) error {
	const query = `INSERT INTO curriculum_courses (curriculum_id, course_id, sort_order, required)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	row := q.QueryRowxContext(ctx, query, req.CurriculumID, req.CourseID, req.SortOrder, req.Required)
	if err := row.Scan(&req.ID); err != nil {
		return fmt.Errorf("attach course %d to curriculum %d: %w", req.CourseID, req.CurriculumID, err)
	}
	return nil
}
