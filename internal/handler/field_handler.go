package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/service"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
	"github.com/noah-isme/league-sched-api/pkg/response"
)

// FieldHandler exposes field endpoints.
type FieldHandler struct {
	service *service.FieldService
}

// NewFieldHandler constructs the handler.
func NewFieldHandler(svc *service.FieldService) *FieldHandler {
	return &FieldHandler{service: svc}
}

// List godoc
// @Summary List the fields of a league
// @Tags Fields
// @Produce json
// @Param leagueId path string true "League ID"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/fields [get]
func (h *FieldHandler) List(c *gin.Context) {
	fields, err := h.service.List(c.Request.Context(), c.Param("leagueId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fields, nil)
}

// Get godoc
// @Summary Load one field by parkCode/fieldCode
// @Tags Fields
// @Produce json
// @Param leagueId path string true "League ID"
// @Param parkCode path string true "Park code"
// @Param fieldCode path string true "Field code"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/fields/{parkCode}/{fieldCode} [get]
func (h *FieldHandler) Get(c *gin.Context) {
	field, err := h.service.Get(c.Request.Context(), c.Param("leagueId"), c.Param("parkCode"), c.Param("fieldCode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, field, nil)
}

// Create godoc
// @Summary Register a field
// @Tags Fields
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param payload body dto.CreateFieldRequest true "Field payload"
// @Success 201 {object} response.Envelope
// @Router /leagues/{leagueId}/fields [post]
func (h *FieldHandler) Create(c *gin.Context) {
	var req dto.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid field payload"))
		return
	}
	field, err := h.service.Create(c.Request.Context(), c.Param("leagueId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, field)
}
