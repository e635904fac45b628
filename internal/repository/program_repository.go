package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/kolehiyo/admissions-api/internal/models"
)

// ProgramRepository reads the program catalogue. Programs are owned by
// academic administration; this engine never writes them.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs the repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// List returns the full catalogue in id order. The order is load-bearing:
// it is the documented tie-break for ambiguous fuzzy matches.
func (r *ProgramRepository) List(ctx context.Context) ([]models.Program, error) {
	const query = `SELECT id, code, name, category FROM programs ORDER BY id`
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query); err != nil {
		return nil, err
	}
	return programs, nil
}

// FindByID returns one program.
func (r *ProgramRepository) FindByID(ctx context.Context, id int64) (*models.Program, error) {
	const query = `SELECT id, code, name, category FROM programs WHERE id = $1`
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}
