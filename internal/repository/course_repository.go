package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kolehiyo/admissions-api/internal/models"
)

// CourseRepository persists courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListForProgram finds courses already associated with a program at the
// given level and semester, either through direct membership or through the
// code-contains-program-code heuristic used for shared courses.
func (r *CourseRepository) ListForProgram(ctx context.Context, q sqlx.ExtContext, programID int64, programCode string, yearLevel, semester int) ([]models.Course, error) {
	const query = `SELECT id, code, title, units, year_level, semester, program_id
        FROM courses
        WHERE (program_id = $1 OR code ILIKE '%' || $2 || '%')
          AND year_level = $3 AND semester = $4
        ORDER BY id`
	var courses []models.Course
	if err := sqlx.SelectContext(ctx, q, &courses, query, programID, programCode, yearLevel, semester); err != nil {
		return nil, fmt.Errorf("list courses for program %d: %w", programID, err)
	}
	return courses, nil
}

// Create inserts a course and backfills its id.
func (r *CourseRepository) Create(ctx context.Context, q sqlx.ExtContext, course *models.Course) error {
	const query = `INSERT INTO courses (code, title, units, year_level, semester, program_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
	row := q.QueryRowxContext(ctx, query,
		course.Code, course.Title, course.Units, course.YearLevel, course.Semester, course.ProgramID)
	if err := row.Scan(&course.ID); err != nil {
		return fmt.Errorf("create course %s: %w", course.Code, err)
	}
	return nil
}
