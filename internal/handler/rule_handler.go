package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/service"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
	"github.com/noah-isme/league-sched-api/pkg/response"
)

// RuleHandler exposes availability rule and exception endpoints.
type RuleHandler struct {
	service *service.RuleService
}

// NewRuleHandler constructs the handler.
func NewRuleHandler(svc *service.RuleService) *RuleHandler {
	return &RuleHandler{service: svc}
}

// List godoc
// @Summary List active availability rules intersecting a window
// @Tags Rules
// @Produce json
// @Param leagueId path string true "League ID"
// @Param fieldKey query string false "Field key filter"
// @Param dateFrom query string false "Window start (YYYY-MM-DD)"
// @Param dateTo query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/availability-rules [get]
func (h *RuleHandler) List(c *gin.Context) {
	rules, err := h.service.ListActive(c.Request.Context(), c.Param("leagueId"), c.Query("fieldKey"), c.Query("dateFrom"), c.Query("dateTo"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Create godoc
// @Summary Register a recurring availability rule
// @Tags Rules
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param payload body dto.CreateRuleRequest true "Rule payload"
// @Success 201 {object} response.Envelope
// @Router /leagues/{leagueId}/availability-rules [post]
func (h *RuleHandler) Create(c *gin.Context) {
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rule payload"))
		return
	}
	rule, err := h.service.Create(c.Request.Context(), c.Param("leagueId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// Delete godoc
// @Summary Delete a rule and its exceptions
// @Tags Rules
// @Param leagueId path string true "League ID"
// @Param ruleId path string true "Rule ID"
// @Success 204
// @Router /leagues/{leagueId}/availability-rules/{ruleId} [delete]
func (h *RuleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("leagueId"), c.Param("ruleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListExceptions godoc
// @Summary List the exceptions of a rule
// @Tags Rules
// @Produce json
// @Param leagueId path string true "League ID"
// @Param ruleId path string true "Rule ID"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/availability-rules/{ruleId}/exceptions [get]
func (h *RuleHandler) ListExceptions(c *gin.Context) {
	exceptions, err := h.service.ListExceptions(c.Request.Context(), c.Param("leagueId"), c.Param("ruleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exceptions, nil)
}

// CreateException godoc
// @Summary Suppress rule occurrences inside a date/time window
// @Tags Rules
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param ruleId path string true "Rule ID"
// @Param payload body dto.CreateExceptionRequest true "Exception payload"
// @Success 201 {object} response.Envelope
// @Router /leagues/{leagueId}/availability-rules/{ruleId}/exceptions [post]
func (h *RuleHandler) CreateException(c *gin.Context) {
	var req dto.CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid exception payload"))
		return
	}
	exc, err := h.service.CreateException(c.Request.Context(), c.Param("leagueId"), c.Param("ruleId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exc)
}

// DeleteException godoc
// @Summary Remove an exception from a rule
// @Tags Rules
// @Param leagueId path string true "League ID"
// @Param ruleId path string true "Rule ID"
// @Param exceptionId path string true "Exception ID"
// @Success 204
// @Router /leagues/{leagueId}/availability-rules/{ruleId}/exceptions/{exceptionId} [delete]
func (h *RuleHandler) DeleteException(c *gin.Context) {
	if err := h.service.DeleteException(c.Request.Context(), c.Param("leagueId"), c.Param("ruleId"), c.Param("exceptionId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
