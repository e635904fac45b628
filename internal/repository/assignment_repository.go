package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kolehiyo/admissions-api/internal/models"
)

// AssignmentRepository persists course assignments. Rows are append-only;
// this engine never updates or deletes them.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ExistingPairs returns the (enrollment, course) pairs already assigned for
// the given enrollments. The pipeline turns these into its idempotency
// guard before staging any new rows.
func (r *AssignmentRepository) ExistingPairs(ctx context.Context, q sqlx.ExtContext, enrollmentIDs []int64) ([]models.AssignedPair, error) {
	if len(enrollmentIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT enrollment_id, course_id FROM course_assignments WHERE enrollment_id = ANY($1)`
	var pairs []models.AssignedPair
	if err := sqlx.SelectContext(ctx, q, &pairs, query, pq.Array(enrollmentIDs)); err != nil {
		return nil, fmt.Errorf("list existing assignments: %w", err)
	}
	return pairs, nil
}

// BulkInsert writes the staged assignments in fixed-size chunks, one
// multi-row statement per chunk. Callers run it inside the run transaction;
// a constraint violation here fails the whole run.
func (r *AssignmentRepository) BulkInsert(ctx context.Context, q sqlx.ExtContext, rows []models.CourseAssignment, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	now := time.Now().UTC()
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		placeholders := make([]string, 0, len(chunk))
		args := make([]interface{}, 0, len(chunk)*6)
		for i := range chunk {
			if chunk[i].ID == "" {
				chunk[i].ID = uuid.NewString()
			}
			if chunk[i].CreatedAt.IsZero() {
				chunk[i].CreatedAt = now
			}
			base := len(args)
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
			args = append(args,
				chunk[i].ID, chunk[i].EnrollmentID, chunk[i].CourseID,
				chunk[i].StudentNumber, chunk[i].Status, chunk[i].CreatedAt)
		}

		query := `INSERT INTO course_assignments (id, enrollment_id, course_id, student_number, status, created_at) VALUES ` +
			strings.Join(placeholders, ", ")
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("bulk insert assignments: %w", err)
		}
	}
	return nil
}
