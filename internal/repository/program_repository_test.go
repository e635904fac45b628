package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	rows := sqlmock.NewRows([]string{"id", "code", "name", "category"}).
		AddRow(int64(1), "BSIS", "Bachelor of Science in Information Systems", "baccalaureate").
		AddRow(int64(2), "ACT", "Associate in Computer Technology", "associate")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, code, name, category FROM programs ORDER BY id`)).
		WillReturnRows(rows)

	programs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, programs, 2)
	assert.Equal(t, int64(1), programs[0].ID)
	assert.Equal(t, "ACT", programs[1].Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcademicYearRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcademicYearRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "active", "starts_on"}).
		AddRow(int64(5), "2025-2026", true, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, active, starts_on FROM academic_years WHERE active = TRUE ORDER BY starts_on DESC LIMIT 1`)).
		WillReturnRows(rows)

	year, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), year.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcademicYearRepositoryFindLatestFallback(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcademicYearRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "active", "starts_on"}).
		AddRow(int64(4), "2024-2025", false, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, active, starts_on FROM academic_years ORDER BY starts_on DESC LIMIT 1`)).
		WillReturnRows(rows)

	year, err := repo.FindLatest(context.Background())
	require.NoError(t, err)
	assert.False(t, year.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcademicYearRepositoryFindActiveNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAcademicYearRepository(db)

	mock.ExpectQuery(`WHERE active = TRUE`).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActive(context.Background())
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
