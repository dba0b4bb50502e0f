package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/middleware"
	"github.com/noah-isme/league-sched-api/internal/models"
	"github.com/noah-isme/league-sched-api/internal/service"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
	"github.com/noah-isme/league-sched-api/pkg/response"
)

type scheduleWizard interface {
	Feasibility(ctx context.Context, leagueID string, req dto.WizardRequest) (*dto.WizardFeasibilityResponse, error)
	Preview(ctx context.Context, leagueID string, req dto.WizardRequest) (*dto.WizardPreviewResponse, error)
	Apply(ctx context.Context, leagueID, appliedBy string, req dto.WizardRequest) (*dto.WizardPreviewResponse, error)
	ListRuns(ctx context.Context, leagueID, division string) ([]models.ScheduleRun, error)
	GetRun(ctx context.Context, leagueID, division, runID string) (*models.ScheduleRun, error)
}

// WizardHandler exposes the schedule wizard endpoints.
type WizardHandler struct {
	service scheduleWizard
}

// NewWizardHandler constructs the handler.
func NewWizardHandler(svc *service.WizardService) *WizardHandler {
	return &WizardHandler{service: svc}
}

// Feasibility godoc
// @Summary Check whether the requested schedule configuration is achievable
// @Tags Wizard
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param payload body dto.WizardRequest true "Wizard payload"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/schedule-wizard/feasibility [post]
func (h *WizardHandler) Feasibility(c *gin.Context) {
	var req dto.WizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid wizard payload"))
		return
	}
	result, err := h.service.Feasibility(c.Request.Context(), c.Param("leagueId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Preview godoc
// @Summary Compute the full schedule assignment without persisting
// @Tags Wizard
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param payload body dto.WizardRequest true "Wizard payload"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/schedule-wizard/preview [post]
func (h *WizardHandler) Preview(c *gin.Context) {
	var req dto.WizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid wizard payload"))
		return
	}
	result, err := h.service.Preview(c.Request.Context(), c.Param("leagueId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Apply godoc
// @Summary Compute the assignment and persist slot updates plus a run record
// @Tags Wizard
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param payload body dto.WizardRequest true "Wizard payload"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/schedule-wizard/apply [post]
func (h *WizardHandler) Apply(c *gin.Context) {
	var req dto.WizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid wizard payload"))
		return
	}
	appliedBy := "Wizard"
	if claims := middleware.CurrentUser(c); claims != nil {
		appliedBy = claims.Email
	}
	result, err := h.service.Apply(c.Request.Context(), c.Param("leagueId"), appliedBy, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListRuns godoc
// @Summary List schedule runs for a division
// @Tags Wizard
// @Produce json
// @Param leagueId path string true "League ID"
// @Param division path string true "Division code"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/divisions/{division}/schedule-runs [get]
func (h *WizardHandler) ListRuns(c *gin.Context) {
	runs, err := h.service.ListRuns(c.Request.Context(), c.Param("leagueId"), c.Param("division"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, nil)
}

// GetRun godoc
// @Summary Load one schedule run with its constraints and summary
// @Tags Wizard
// @Produce json
// @Param leagueId path string true "League ID"
// @Param division path string true "Division code"
// @Param runId path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/divisions/{division}/schedule-runs/{runId} [get]
func (h *WizardHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("leagueId"), c.Param("division"), c.Param("runId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}
