package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/middleware"
	"github.com/noah-isme/league-sched-api/internal/models"
	"github.com/noah-isme/league-sched-api/internal/service"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
	"github.com/noah-isme/league-sched-api/pkg/response"
)

type slotEditor interface {
	List(ctx context.Context, filter models.SlotFilter) ([]models.Slot, *models.Pagination, error)
	Get(ctx context.Context, leagueID, division, slotID string) (*models.Slot, error)
	Update(ctx context.Context, leagueID, division, slotID, updatedBy string, req dto.UpdateSlotRequest) (*models.Slot, *dto.SlotConflictDetail, error)
}

type slotGenerator interface {
	Generate(ctx context.Context, leagueID string, req dto.GenerateSlotsRequest) (*dto.GenerateSlotsResponse, error)
}

// SlotHandler exposes slot listing, editing and generation endpoints.
type SlotHandler struct {
	slots     slotEditor
	generator slotGenerator
}

// NewSlotHandler constructs the handler.
func NewSlotHandler(slots *service.SlotService, generator *service.SlotGenerationService) *SlotHandler {
	return &SlotHandler{slots: slots, generator: generator}
}

// List godoc
// @Summary List slots for a division
// @Tags Slots
// @Produce json
// @Param leagueId path string true "League ID"
// @Param division path string true "Division code"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/divisions/{division}/slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "100"))
	includeAvailability, _ := strconv.ParseBool(c.DefaultQuery("includeAvailability", "true"))

	filter := models.SlotFilter{
		LeagueID:            c.Param("leagueId"),
		Division:            c.Param("division"),
		Status:              models.SlotStatus(c.Query("status")),
		FieldKey:            c.Query("fieldKey"),
		DateFrom:            c.Query("dateFrom"),
		DateTo:              c.Query("dateTo"),
		IncludeAvailability: includeAvailability,
		Page:                page,
		PageSize:            pageSize,
	}
	slots, pagination, err := h.slots.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, pagination)
}

// Get godoc
// @Summary Load one slot
// @Tags Slots
// @Produce json
// @Param leagueId path string true "League ID"
// @Param division path string true "Division code"
// @Param slotId path string true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/divisions/{division}/slots/{slotId} [get]
func (h *SlotHandler) Get(c *gin.Context) {
	slot, err := h.slots.Get(c.Request.Context(), c.Param("leagueId"), c.Param("division"), c.Param("slotId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Update godoc
// @Summary Edit a slot with overlap detection
// @Description Rejects edits whose time range collides with another non-cancelled slot on the same field and date.
// @Tags Slots
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param division path string true "Division code"
// @Param slotId path string true "Slot ID"
// @Param payload body dto.UpdateSlotRequest true "Slot update payload"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/divisions/{division}/slots/{slotId} [put]
func (h *SlotHandler) Update(c *gin.Context) {
	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	updatedBy := "api"
	if claims := middleware.CurrentUser(c); claims != nil {
		updatedBy = claims.Email
	}
	slot, conflict, err := h.slots.Update(c.Request.Context(), c.Param("leagueId"), c.Param("division"), c.Param("slotId"), updatedBy, req)
	if err != nil {
		if conflict != nil {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{Error: appErr, Meta: map[string]interface{}{"conflict": conflict}})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Generate godoc
// @Summary Generate availability slots from rules or a fixed window
// @Tags Slots
// @Accept json
// @Produce json
// @Param leagueId path string true "League ID"
// @Param payload body dto.GenerateSlotsRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Router /leagues/{leagueId}/slots/generate [post]
func (h *SlotHandler) Generate(c *gin.Context) {
	var req dto.GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), c.Param("leagueId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
