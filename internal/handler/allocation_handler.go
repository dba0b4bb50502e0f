package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/service"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
	"github.com/noah-isme/league-sched-api/pkg/response"
)

// AllocationHandler exposes field allocation endpoints.
type AllocationHandler struct {
	service *service.AllocationService
}

// NewAllocationHandler constructs the handler.
func NewAllocationHandler(svc *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{service: svc}
}

// List godoc
// @Summary List field allocations for a league
// @Tags Allocations
// @Produce json
// @Param leagueId path string true "League ID"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/field-allocations [get]
func (h *AllocationHandler) List(c *gin.Context) {
	allocations, err := h.service.List(c.Request.Context(), c.Param("leagueId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocations, nil)
}

// Import godoc
// @Summary Batch import field allocations
// @Description Rows overlapping another active allocation on the same field are rejected individually.
// @Tags Allocations
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param payload body dto.AllocationImportRequest true "Allocation import payload"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/field-allocations/import [post]
func (h *AllocationHandler) Import(c *gin.Context) {
	var req dto.AllocationImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid allocation payload"))
		return
	}
	result, err := h.service.Import(c.Request.Context(), c.Param("leagueId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
