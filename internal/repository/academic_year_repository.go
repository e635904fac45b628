package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/kolehiyo/admissions-api/internal/models"
)

// AcademicYearRepository reads academic years. Years are owned by academic
// administration and are never written by this engine.
type AcademicYearRepository struct {
	db *sqlx.DB
}

// NewAcademicYearRepository constructs the repository.
func NewAcademicYearRepository(db *sqlx.DB) *AcademicYearRepository {
	return &AcademicYearRepository{db: db}
}

// FindByID returns one academic year.
func (r *AcademicYearRepository) FindByID(ctx context.Context, id int64) (*models.AcademicYear, error) {
	const query = `SELECT id, name, active, starts_on FROM academic_years WHERE id = $1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindActive returns the currently active academic year.
func (r *AcademicYearRepository) FindActive(ctx context.Context) (*models.AcademicYear, error) {
	const query = `SELECT id, name, active, starts_on FROM academic_years WHERE active = TRUE ORDER BY starts_on DESC LIMIT 1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindLatest returns the most recent academic year regardless of the active
// flag, the fallback when no year is marked active.
func (r *AcademicYearRepository) FindLatest(ctx context.Context) (*models.AcademicYear, error) {
	const query = `SELECT id, name, active, starts_on FROM academic_years ORDER BY starts_on DESC LIMIT 1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query); err != nil {
		return nil, err
	}
	return &year, nil
}
