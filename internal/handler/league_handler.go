package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/service"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
	"github.com/noah-isme/league-sched-api/pkg/response"
)

// LeagueHandler exposes league and division endpoints.
type LeagueHandler struct {
	service *service.LeagueService
}

// NewLeagueHandler constructs the handler.
func NewLeagueHandler(svc *service.LeagueService) *LeagueHandler {
	return &LeagueHandler{service: svc}
}

// List godoc
// @Summary List leagues
// @Tags Leagues
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leagues [get]
func (h *LeagueHandler) List(c *gin.Context) {
	leagues, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, leagues, nil)
}

// Get godoc
// @Summary Load one league
// @Tags Leagues
// @Produce json
// @Param leagueId path string true "League ID"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId} [get]
func (h *LeagueHandler) Get(c *gin.Context) {
	league, err := h.service.Get(c.Request.Context(), c.Param("leagueId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, league, nil)
}

// Create godoc
// @Summary Register a new league
// @Tags Leagues
// @Accept json
// @Produce json
// @Param payload body dto.CreateLeagueRequest true "League payload"
// @Success 201 {object} response.Envelope
// @Router /leagues [post]
func (h *LeagueHandler) Create(c *gin.Context) {
	var req dto.CreateLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid league payload"))
		return
	}
	league, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, league)
}

// Update godoc
// @Summary Update league metadata and season configuration
// @Tags Leagues
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param payload body dto.UpdateLeagueRequest true "League payload"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId} [put]
func (h *LeagueHandler) Update(c *gin.Context) {
	var req dto.UpdateLeagueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid league payload"))
		return
	}
	league, err := h.service.Update(c.Request.Context(), c.Param("leagueId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, league, nil)
}

// Delete godoc
// @Summary Soft-delete a league
// @Tags Leagues
// @Param leagueId path string true "League ID"
// @Success 204
// @Router /leagues/{leagueId} [delete]
func (h *LeagueHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("leagueId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListDivisions godoc
// @Summary List the divisions of a league
// @Tags Leagues
// @Produce json
// @Param leagueId path string true "League ID"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/divisions [get]
func (h *LeagueHandler) ListDivisions(c *gin.Context) {
	divisions, err := h.service.ListDivisions(c.Request.Context(), c.Param("leagueId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, divisions, nil)
}
