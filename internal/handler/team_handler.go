package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/service"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
	"github.com/noah-isme/league-sched-api/pkg/response"
)

// TeamHandler exposes team endpoints.
type TeamHandler struct {
	service *service.TeamService
}

// NewTeamHandler constructs the handler.
func NewTeamHandler(svc *service.TeamService) *TeamHandler {
	return &TeamHandler{service: svc}
}

// List godoc
// @Summary List teams in a division
// @Tags Teams
// @Produce json
// @Param leagueId path string true "League ID"
// @Param division path string true "Division code"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/divisions/{division}/teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.service.List(c.Request.Context(), c.Param("leagueId"), c.Param("division"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// Create godoc
// @Summary Register a team in a division
// @Tags Teams
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param division path string true "Division code"
// @Param payload body dto.CreateTeamRequest true "Team payload"
// @Success 201 {object} response.Envelope
// @Router /leagues/{leagueId}/divisions/{division}/teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team payload"))
		return
	}
	team, err := h.service.Create(c.Request.Context(), c.Param("leagueId"), c.Param("division"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, team)
}

// Update godoc
// @Summary Update team metadata
// @Tags Teams
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param division path string true "Division code"
// @Param teamId path string true "Team ID"
// @Param payload body dto.UpdateTeamRequest true "Team payload"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/divisions/{division}/teams/{teamId} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	var req dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid team payload"))
		return
	}
	team, err := h.service.Update(c.Request.Context(), c.Param("leagueId"), c.Param("division"), c.Param("teamId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}

// Delete godoc
// @Summary Remove a team
// @Tags Teams
// @Param leagueId path string true "League ID"
// @Param division path string true "Division code"
// @Param teamId path string true "Team ID"
// @Success 204
// @Router /leagues/{leagueId}/divisions/{division}/teams/{teamId} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("leagueId"), c.Param("division"), c.Param("teamId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
