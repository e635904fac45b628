package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StudentRepository patches registrar records. The engine only ever touches
// the program linkage fields.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// UpdateProgram overwrites the student's program id and code with the
// resolved canonical values.
func (r *StudentRepository) UpdateProgram(ctx context.Context, q sqlx.ExtContext, id, programID int64, programCode string) error {
	const query = `UPDATE students SET program_id = $2, program_code = $3 WHERE id = $1`
	if _, err := q.ExecContext(ctx, query, id, programID, programCode); err != nil {
		return fmt.Errorf("update student %d program: %w", id, err)
	}
	return nil
}
