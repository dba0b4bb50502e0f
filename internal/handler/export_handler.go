package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/service"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
	"github.com/noah-isme/league-sched-api/pkg/response"
)

// ExportHandler exposes schedule export endpoints.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Enqueue godoc
// @Summary Queue an asynchronous schedule export
// @Tags Exports
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param payload body dto.ExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /leagues/{leagueId}/schedule-exports [post]
func (h *ExportHandler) Enqueue(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	job, err := h.service.Enqueue(c.Request.Context(), c.Param("leagueId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Report export progress and the signed download link
// @Tags Exports
// @Produce json
// @Param exportId path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{exportId} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Param("exportId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Stream a completed export through its signed URL
// @Tags Exports
// @Param exportId path string true "Export job ID"
// @Param sig query string true "Signed token"
// @Success 200
// @Router /exports/{exportId}/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	relPath, err := h.service.Open(c.Param("exportId"), c.Query("sig"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.FileStore().Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file not found"))
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, map[string]string{
		"Content-Disposition": `attachment; filename="` + info.Name() + `"`,
	})
}
