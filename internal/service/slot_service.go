package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
	"github.com/noah-isme/league-sched-api/internal/schedule"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

type slotStore interface {
	Query(ctx context.Context, filter models.SlotFilter) ([]models.Slot, int, error)
	FindByID(ctx context.Context, leagueID, division, slotID string) (*models.Slot, error)
	ListByFieldAndDate(ctx context.Context, leagueID, fieldKey, gameDate string) ([]models.Slot, error)
	UpdateVersioned(ctx context.Context, slot *models.Slot, expectedVersion int) error
}

// SlotService reads and edits slots. Every time/date/field change is checked
// against the live slot set before it lands.
type SlotService struct {
	slots     slotStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSlotService wires slot dependencies.
func NewSlotService(slots slotStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{slots: slots, cache: cache, validator: validate, logger: logger}
}

// slotListPayload is the cached shape of a slot listing.
type slotListPayload struct {
	Slots []models.Slot `json:"slots"`
	Total int           `json:"total"`
}

// List returns slots matching the filter with pagination metadata.
func (s *SlotService) List(ctx context.Context, filter models.SlotFilter) ([]models.Slot, *models.Pagination, error) {
	cacheKey := fmt.Sprintf("slots:%s:%s:%s:%s:%s:%s:%t:%d:%d",
		filter.LeagueID, filter.Division, filter.Status, filter.FieldKey,
		filter.DateFrom, filter.DateTo, filter.IncludeAvailability, filter.Page, filter.PageSize)
	var cached slotListPayload
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached.Slots, paginationFor(filter, cached.Total), nil
	}

	slots, total, err := s.slots.Query(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to query slots")
	}
	_ = s.cache.Set(ctx, cacheKey, slotListPayload{Slots: slots, Total: total}, 0)
	return slots, paginationFor(filter, total), nil
}

func paginationFor(filter models.SlotFilter, total int) *models.Pagination {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

// Get loads one slot.
func (s *SlotService) Get(ctx context.Context, leagueID, division, slotID string) (*models.Slot, error) {
	slot, err := s.slots.FindByID(ctx, leagueID, division, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load slot")
	}
	return slot, nil
}

// Update edits a slot. Changing the date, time or field re-runs overlap
// detection against every non-cancelled slot on the target (field, date); an
// overlap rejects the edit with the conflict count.
func (s *SlotService) Update(ctx context.Context, leagueID, division, slotID, updatedBy string, req dto.UpdateSlotRequest) (*models.Slot, *dto.SlotConflictDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	slot, err := s.Get(ctx, leagueID, division, slotID)
	if err != nil {
		return nil, nil, err
	}

	updated := *slot
	if req.GameDate != "" {
		if _, err := schedule.ParseDate(req.GameDate); err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "gameDate: "+err.Error())
		}
		updated.GameDate = req.GameDate
	}
	startTime := updated.StartTime
	endTime := updated.EndTime
	if req.StartTime != "" {
		startTime = req.StartTime
	}
	if req.EndTime != "" {
		endTime = req.EndTime
	}
	startMin, endMin, err := schedule.ValidRange(startTime, endTime)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	updated.StartTime = startTime
	updated.EndTime = endTime
	updated.StartMin = startMin
	updated.EndMin = endMin
	if req.FieldKey != "" {
		updated.FieldKey = req.FieldKey
	}
	if req.Status != "" {
		updated.Status = models.SlotStatus(req.Status)
	}
	if req.Notes != "" {
		updated.Notes = req.Notes
	}
	updated.UpdatedBy = updatedBy

	if updated.Status != models.SlotStatusCancelled {
		conflict, err := s.checkOverlap(ctx, leagueID, &updated)
		if err != nil {
			return nil, nil, err
		}
		if conflict != nil {
			return nil, conflict, appErrors.Clone(appErrors.ErrSlotOverlap,
				fmt.Sprintf("slot overlaps %d existing reservation(s) on %s %s", conflict.ConflictCount, updated.FieldKey, updated.GameDate))
		}
	}

	if err := s.slots.UpdateVersioned(ctx, &updated, req.Version); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, nil, appErr
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update slot")
	}

	s.cache.InvalidateDivision(ctx, leagueID, division)
	s.logger.Info("slot updated",
		zap.String("league_id", leagueID),
		zap.String("division", division),
		zap.String("slot_id", slotID))
	return &updated, nil, nil
}

// checkOverlap indexes the live slots on the target (field, date) and tests
// the edited range against them, excluding the slot itself.
func (s *SlotService) checkOverlap(ctx context.Context, leagueID string, updated *models.Slot) (*dto.SlotConflictDetail, error) {
	existing, err := s.slots.ListByFieldAndDate(ctx, leagueID, updated.FieldKey, updated.GameDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load slots for conflict check")
	}

	date, err := schedule.ParseDate(updated.GameDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "gameDate: "+err.Error())
	}

	ix := schedule.NewConflictIndex()
	others := make([]models.Slot, 0, len(existing))
	for _, slot := range existing {
		if slot.ID == updated.ID {
			continue
		}
		others = append(others, slot)
	}
	ix.Load(others, false)

	key := schedule.BucketKey(updated.FieldKey, date)
	count := ix.CountOverlaps(key, updated.StartMin, updated.EndMin)
	if count == 0 {
		return nil, nil
	}
	return &dto.SlotConflictDetail{
		ConflictCount: count,
		FieldKey:      updated.FieldKey,
		GameDate:      updated.GameDate,
	}, nil
}
