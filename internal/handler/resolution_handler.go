package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kolehiyo/admissions-api/internal/dto"
	appErrors "github.com/kolehiyo/admissions-api/pkg/errors"
	"github.com/kolehiyo/admissions-api/pkg/response"
)

type resolutionPreviewer interface {
	Preview(ctx context.Context, enrollmentID int64, strict bool) (*dto.ResolutionPreview, error)
}

// ResolutionHandler exposes dry-run program resolution.
type ResolutionHandler struct {
	resolutions resolutionPreviewer
}

// NewResolutionHandler constructs ResolutionHandler.
func NewResolutionHandler(resolutions resolutionPreviewer) *ResolutionHandler {
	return &ResolutionHandler{resolutions: resolutions}
}

// Preview godoc
// @Summary Preview program resolution for an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param strict query bool false "Disable fuzzy matching"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/resolution [get]
func (h *ResolutionHandler) Preview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid enrollment id"))
		return
	}
	strict := c.Query("strict") == "true"

	preview, err := h.resolutions.Preview(c.Request.Context(), id, strict)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}
