package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolehiyo/admissions-api/internal/models"
	appErrors "github.com/kolehiyo/admissions-api/pkg/errors"
)

type mockEligibleReader struct {
	rows map[int64]*models.EligibleEnrollment
}

func (m *mockEligibleReader) FindEligibleByID(ctx context.Context, id int64) (*models.EligibleEnrollment, error) {
	if row, ok := m.rows[id]; ok {
		return row, nil
	}
	return nil, sql.ErrNoRows
}

func TestResolutionServicePreview(t *testing.T) {
	row := &models.EligibleEnrollment{}
	row.ID = 9
	row.ApplicantDesired = strPtr("BSIS")

	reader := &mockEligibleReader{rows: map[int64]*models.EligibleEnrollment{9: row}}
	programs := &mockProgramStore{programs: []models.Program{bsisProgram()}}
	svc := NewResolutionService(reader, programs, nil)

	preview, err := svc.Preview(context.Background(), 9, false)
	require.NoError(t, err)
	assert.True(t, preview.Resolved)
	assert.Equal(t, int64(1), preview.ProgramID)
	assert.Equal(t, "BSIS", preview.ProgramCode)
	assert.Equal(t, string(models.MatchDesiredProgramDirect), preview.Strategy)
	assert.Equal(t, string(models.ConfidenceLow), preview.Confidence)
}

func TestResolutionServicePreviewStrict(t *testing.T) {
	row := &models.EligibleEnrollment{}
	row.ID = 9
	row.ApplicantDesired = strPtr("BS Info Systems")

	reader := &mockEligibleReader{rows: map[int64]*models.EligibleEnrollment{9: row}}
	programs := &mockProgramStore{programs: []models.Program{bsisProgram()}}
	svc := NewResolutionService(reader, programs, nil)

	// Fuzzy text resolves in default mode but not in strict mode.
	preview, err := svc.Preview(context.Background(), 9, false)
	require.NoError(t, err)
	assert.True(t, preview.Resolved)

	preview, err = svc.Preview(context.Background(), 9, true)
	require.NoError(t, err)
	assert.False(t, preview.Resolved)
	assert.Equal(t, string(models.MatchUnresolved), preview.Strategy)
	assert.True(t, preview.Strict)
}

func TestResolutionServicePreviewNotFound(t *testing.T) {
	svc := NewResolutionService(&mockEligibleReader{}, &mockProgramStore{}, nil)

	_, err := svc.Preview(context.Background(), 99, false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

type mockReportCacheRepo struct {
	stored map[string]*models.RunReport
	getErr error
	setErr error
	ttl    time.Duration
}

func (m *mockReportCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	report, ok := m.stored[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*models.RunReport) = *report
	return nil
}

func (m *mockReportCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.stored == nil {
		m.stored = make(map[string]*models.RunReport)
	}
	m.stored[key] = value.(*models.RunReport)
	m.ttl = ttl
	return nil
}

func TestReportCacheServiceRoundTrip(t *testing.T) {
	repo := &mockReportCacheRepo{}
	svc := NewReportCacheService(repo, time.Hour, nil, true)

	svc.StoreLatest(context.Background(), &models.RunReport{RunID: "run-1"})

	report, found, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, time.Hour, repo.ttl)
}

func TestReportCacheServiceMiss(t *testing.T) {
	svc := NewReportCacheService(&mockReportCacheRepo{}, time.Hour, nil, true)

	_, found, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReportCacheServiceDisabled(t *testing.T) {
	repo := &mockReportCacheRepo{}
	svc := NewReportCacheService(repo, time.Hour, nil, false)

	svc.StoreLatest(context.Background(), &models.RunReport{RunID: "run-1"})
	assert.Empty(t, repo.stored)

	_, found, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReportCacheServiceSwallowsSetErrors(t *testing.T) {
	repo := &mockReportCacheRepo{setErr: errors.New("redis connection refused")}
	svc := NewReportCacheService(repo, time.Hour, nil, true)

	// Must not panic or propagate.
	svc.StoreLatest(context.Background(), &models.RunReport{RunID: "run-1"})
}
