package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolehiyo/admissions-api/internal/dto"
	"github.com/kolehiyo/admissions-api/internal/models"
	appErrors "github.com/kolehiyo/admissions-api/pkg/errors"
	"github.com/kolehiyo/admissions-api/pkg/jobs"
)

type assignmentRunnerMock struct {
	report    *models.RunReport
	err       error
	lastReq   dto.RunAssignmentsRequest
	runCalled bool
}

func (m *assignmentRunnerMock) Run(ctx context.Context, req dto.RunAssignmentsRequest) (*models.RunReport, error) {
	m.runCalled = true
	m.lastReq = req
	return m.report, m.err
}

type reportSourceMock struct {
	report *models.RunReport
	found  bool
	err    error
}

func (m *reportSourceMock) Latest(ctx context.Context) (*models.RunReport, bool, error) {
	return m.report, m.found, m.err
}

func TestAssignmentHandlerRunSync(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &assignmentRunnerMock{report: &models.RunReport{
		RunID:           "run-1",
		Status:          models.RunStatusCompleted,
		CoursesAssigned: 12,
	}}
	handler := NewAssignmentHandler(runner, &reportSourceMock{}, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assignment-runs", bytes.NewBufferString(`{"year_level":1,"semester":1}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Run(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, runner.runCalled)
	require.NotNil(t, runner.lastReq.YearLevel)
	assert.Equal(t, 1, *runner.lastReq.YearLevel)

	var body struct {
		Data models.RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "run-1", body.Data.RunID)
	assert.Equal(t, 12, body.Data.CoursesAssigned)
}

func TestAssignmentHandlerRunInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &assignmentRunnerMock{}
	handler := NewAssignmentHandler(runner, &reportSourceMock{}, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assignment-runs", bytes.NewBufferString(`{"year_level":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Run(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, runner.runCalled)
}

func TestAssignmentHandlerRunConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &assignmentRunnerMock{err: appErrors.Clone(appErrors.ErrRunInProgress, "")}
	handler := NewAssignmentHandler(runner, &reportSourceMock{}, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assignment-runs", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Run(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAssignmentHandlerRunAsync(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &assignmentRunnerMock{report: &models.RunReport{Status: models.RunStatusCompleted}}
	queue := jobs.NewQueue("assignment_runs_test", func(ctx context.Context, job jobs.Job) error {
		return nil
	}, jobs.QueueConfig{Workers: 1, BufferSize: 4})
	queue.Start(context.Background())
	defer queue.Stop()

	handler := NewAssignmentHandler(runner, &reportSourceMock{}, queue, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assignment-runs?async=true", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Run(c)
	require.Equal(t, http.StatusAccepted, w.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "QUEUED", body.Data["status"])
	assert.NotEmpty(t, body.Data["job_id"])
}

func TestAssignmentHandlerRunAsyncWithoutQueueFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runner := &assignmentRunnerMock{report: &models.RunReport{Status: models.RunStatusCompleted}}
	handler := NewAssignmentHandler(runner, &reportSourceMock{}, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assignment-runs?async=true", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Run(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, runner.runCalled)
}

func TestAssignmentHandlerLatest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reports := &reportSourceMock{report: &models.RunReport{RunID: "run-9"}, found: true}
	handler := NewAssignmentHandler(&assignmentRunnerMock{}, reports, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assignment-runs/latest", nil)
	c.Request = req

	handler.Latest(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "run-9", body.Data.RunID)
}

func TestAssignmentHandlerLatestNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&assignmentRunnerMock{}, &reportSourceMock{}, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assignment-runs/latest", nil)
	c.Request = req

	handler.Latest(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
