package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kolehiyo/admissions-api/internal/models"
	"github.com/kolehiyo/admissions-api/pkg/response"
)

type programLister interface {
	List(ctx context.Context) ([]models.Program, error)
}

// ProgramHandler exposes the read-only program catalogue.
type ProgramHandler struct {
	programs programLister
}

// NewProgramHandler constructs ProgramHandler.
func NewProgramHandler(programs programLister) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

// List godoc
// @Summary List programs
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	programs, err := h.programs.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}
