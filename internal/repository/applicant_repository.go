package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ApplicantRepository patches admissions records. The engine only ever
// touches the program linkage fields.
type ApplicantRepository struct {
	db *sqlx.DB
}

// NewApplicantRepository constructs the repository.
func NewApplicantRepository(db *sqlx.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

// UpdateProgram overwrites the applicant's program id and desired-program
// text with the resolved canonical values.
func (r *ApplicantRepository) UpdateProgram(ctx context.Context, q sqlx.ExtContext, id, programID int64, desiredProgram string) error {
	const query = `UPDATE applicants SET program_id = $2, desired_program = $3 WHERE id = $1`
	if _, err := q.ExecContext(ctx, query, id, programID, desiredProgram); err != nil {
		return fmt.Errorf("update applicant %d program: %w", id, err)
	}
	return nil
}
