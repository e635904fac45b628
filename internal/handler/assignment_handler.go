package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kolehiyo/admissions-api/internal/dto"
	"github.com/kolehiyo/admissions-api/internal/models"
	appErrors "github.com/kolehiyo/admissions-api/pkg/errors"
	"github.com/kolehiyo/admissions-api/pkg/jobs"
	"github.com/kolehiyo/admissions-api/pkg/response"
)

type assignmentRunner interface {
	Run(ctx context.Context, req dto.RunAssignmentsRequest) (*models.RunReport, error)
}

type reportSource interface {
	Latest(ctx context.Context) (*models.RunReport, bool, error)
}

// AssignmentHandler exposes the batch assignment pipeline.
type AssignmentHandler struct {
	assignments assignmentRunner
	reports     reportSource
	queue       *jobs.Queue
	logger      *zap.Logger
}

// NewAssignmentHandler constructs AssignmentHandler. The queue is optional;
// without it runs are always synchronous.
func NewAssignmentHandler(assignments assignmentRunner, reports reportSource, queue *jobs.Queue, logger *zap.Logger) *AssignmentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentHandler{assignments: assignments, reports: reports, queue: queue, logger: logger}
}

// Run godoc
// @Summary Run the course assignment pipeline
// @Tags Assignments
// @Accept json
// @Produce json
// @Param async query bool false "Queue the run instead of waiting"
// @Param payload body dto.RunAssignmentsRequest true "Run scope"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /assignment-runs [post]
func (h *AssignmentHandler) Run(c *gin.Context) {
	var req dto.RunAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if c.Query("async") == "true" && h.queue != nil {
		jobID := uuid.NewString()
		if err := h.queue.Enqueue(jobs.Job{ID: jobID, Type: "assignment_run", Payload: req}); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to queue run"))
			return
		}
		response.Accepted(c, gin.H{"job_id": jobID, "status": "QUEUED"})
		return
	}

	report, err := h.assignments.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Latest godoc
// @Summary Latest run report
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignment-runs/latest [get]
func (h *AssignmentHandler) Latest(c *gin.Context) {
	report, found, err := h.reports.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no run report available"))
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
