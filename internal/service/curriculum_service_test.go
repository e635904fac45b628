package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolehiyo/admissions-api/internal/models"
)

type curriculumKey struct {
	programID int64
	yearLevel int
	semester  int
	yearID    int64
}

type mockCurriculumStore struct {
	existing map[curriculumKey]*models.Curriculum
	courses  map[int64][]models.Course
	findErr  error

	created  []*models.Curriculum
	attached []models.CourseRequirement
	nextID   int64
}

func (m *mockCurriculumStore) FindActive(ctx context.Context, q sqlx.ExtContext, programID int64, yearLevel, semester int, academicYearID int64) (*models.Curriculum, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	key := curriculumKey{programID, yearLevel, semester, academicYearID}
	if c, ok := m.existing[key]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCurriculumStore) Create(ctx context.Context, q sqlx.ExtContext, curriculum *models.Curriculum) error {
	m.nextID++
	curriculum.ID = m.nextID
	m.created = append(m.created, curriculum)
	return nil
}

func (m *mockCurriculumStore) ListCourses(ctx context.Context, q sqlx.ExtContext, curriculumID int64) ([]models.Course, error) {
	return m.courses[curriculumID], nil
}

func (m *mockCurriculumStore) AttachCourse(ctx context.Context, q sqlx.ExtContext, req *models.CourseRequirement) error {
	m.attached = append(m.attached, *req)
	return nil
}

type mockCourseStore struct {
	byProgram map[int64][]models.Course
	created   []*models.Course
	nextID    int64
}

func (m *mockCourseStore) ListForProgram(ctx context.Context, q sqlx.ExtContext, programID int64, programCode string, yearLevel, semester int) ([]models.Course, error) {
	return m.byProgram[programID], nil
}

func (m *mockCourseStore) Create(ctx context.Context, q sqlx.ExtContext, course *models.Course) error {
	m.nextID = m.nextID + 1000
	course.ID = m.nextID
	m.created = append(m.created, course)
	return nil
}

func TestCurriculumServiceEnsureExisting(t *testing.T) {
	curricula := &mockCurriculumStore{
		existing: map[curriculumKey]*models.Curriculum{
			{1, 1, 1, 5}: {ID: 11, ProgramID: 1, YearLevel: 1, Semester: 1, AcademicYearID: 5, Active: true},
		},
		courses: map[int64][]models.Course{
			11: {{ID: 100, Code: "IS101"}, {ID: 101, Code: "GE01"}},
		},
	}
	svc := NewCurriculumService(curricula, &mockCourseStore{}, nil)

	program := models.Program{ID: 1, Code: "BSIS", Name: "Bachelor of Science in Information Systems"}
	courses, materialized, err := svc.Ensure(context.Background(), nil, program, 1, 1, 5)
	require.NoError(t, err)
	assert.False(t, materialized)
	require.Len(t, courses, 2)
	assert.Empty(t, curricula.created)
}

func TestCurriculumServiceEnsureMaterializesFromExistingCourses(t *testing.T) {
	curricula := &mockCurriculumStore{}
	courses := &mockCourseStore{
		byProgram: map[int64][]models.Course{
			1: {{ID: 100, Code: "IS101"}, {ID: 101, Code: "IS102"}},
		},
	}
	svc := NewCurriculumService(curricula, courses, nil)

	program := models.Program{ID: 1, Code: "BSIS", Name: "Bachelor of Science in Information Systems"}
	got, materialized, err := svc.Ensure(context.Background(), nil, program, 1, 1, 5)
	require.NoError(t, err)
	assert.True(t, materialized)
	require.Len(t, got, 2)

	// The new curriculum links every found course in order.
	require.Len(t, curricula.created, 1)
	assert.True(t, curricula.created[0].Active)
	require.Len(t, curricula.attached, 2)
	assert.Equal(t, 0, curricula.attached[0].SortOrder)
	assert.Equal(t, 1, curricula.attached[1].SortOrder)
	assert.Empty(t, courses.created)
}

func TestCurriculumServiceEnsureSeedsCourse(t *testing.T) {
	curricula := &mockCurriculumStore{}
	courses := &mockCourseStore{}
	svc := NewCurriculumService(curricula, courses, nil)

	program := models.Program{ID: 3, Code: "ACT", Name: "Associate in Computer Technology"}
	got, materialized, err := svc.Ensure(context.Background(), nil, program, 1, 2, 5)
	require.NoError(t, err)
	assert.True(t, materialized)

	// With no courses anywhere, a placeholder is synthesized so the
	// curriculum is never empty.
	require.Len(t, courses.created, 1)
	assert.Equal(t, "ACT-INTRO", courses.created[0].Code)
	assert.Equal(t, "Introduction to Associate in Computer Technology", courses.created[0].Title)
	assert.Equal(t, 3, courses.created[0].Units)
	require.Len(t, got, 1)
	require.Len(t, curricula.attached, 1)
	assert.True(t, curricula.attached[0].Required)
}

func TestCurriculumServiceEnsureFindError(t *testing.T) {
	curricula := &mockCurriculumStore{findErr: errors.New("connection reset")}
	svc := NewCurriculumService(curricula, &mockCourseStore{}, nil)

	_, _, err := svc.Ensure(context.Background(), nil, models.Program{ID: 1, Code: "BSIS"}, 1, 1, 5)
	require.Error(t, err)
	assert.Empty(t, curricula.created)
}
