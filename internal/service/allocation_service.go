package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
	"github.com/noah-isme/league-sched-api/internal/schedule"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

type allocationStore interface {
	ListActiveByField(ctx context.Context, leagueID, fieldKey string) ([]models.FieldAllocation, error)
	ListByLeague(ctx context.Context, leagueID string) ([]models.FieldAllocation, error)
	BulkCreate(ctx context.Context, allocations []models.FieldAllocation) (int, error)
	DeactivateByLeague(ctx context.Context, leagueID string) error
}

// AllocationService imports field availability allocations, enforcing the
// no-overlap invariant per field at import time.
type AllocationService struct {
	allocations allocationStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAllocationService wires allocation dependencies.
func NewAllocationService(allocations allocationStore, validate *validator.Validate, logger *zap.Logger) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationService{allocations: allocations, validator: validate, logger: logger}
}

// List returns every allocation of a league.
func (s *AllocationService) List(ctx context.Context, leagueID string) ([]models.FieldAllocation, error) {
	allocations, err := s.allocations.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list allocations")
	}
	return allocations, nil
}

// parsedAllocation is an import row with resolved dates, days and minutes.
type parsedAllocation struct {
	model    models.FieldAllocation
	startsOn schedule.BlackoutWindow
	days     map[string]bool
	startMin int
	endMin   int
}

// Import validates and persists allocation rows. Rows violating the per-field
// overlap invariant, against the batch or against stored allocations, are
// rejected individually; the remaining rows import in batches of at most 100.
func (s *AllocationService) Import(ctx context.Context, leagueID string, req dto.AllocationImportRequest) (*dto.AllocationImportResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
	}

	var existing []models.FieldAllocation
	if req.ReplaceAll {
		if err := s.allocations.DeactivateByLeague(ctx, leagueID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate allocations")
		}
	} else {
		var err error
		existing, err = s.allocations.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load allocations")
		}
	}

	resp := &dto.AllocationImportResponse{}
	accepted := make([]parsedAllocation, 0, len(req.Allocations))
	toCreate := make([]models.FieldAllocation, 0, len(req.Allocations))

	for i, entry := range req.Allocations {
		parsed, err := parseAllocationEntry(leagueID, entry)
		if err != nil {
			resp.RejectedCount++
			resp.Rejections = append(resp.Rejections, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		conflict := false
		for _, other := range accepted {
			if allocationsOverlap(*parsed, other) {
				resp.RejectedCount++
				resp.Rejections = append(resp.Rejections, fmt.Sprintf("row %d: overlaps another row in this import for field %s", i+1, entry.FieldKey))
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		for _, stored := range existing {
			other, err := parseStored(stored)
			if err != nil {
				continue
			}
			if stored.IsActive && allocationsOverlap(*parsed, *other) {
				resp.RejectedCount++
				resp.Rejections = append(resp.Rejections, fmt.Sprintf("row %d: overlaps active allocation %s", i+1, stored.ID))
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}

		accepted = append(accepted, *parsed)
		toCreate = append(toCreate, parsed.model)
	}

	created, err := s.allocations.BulkCreate(ctx, toCreate)
	resp.ImportedCount = created
	if err != nil {
		return resp, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist allocations")
	}

	s.logger.Info("field allocations imported",
		zap.String("league_id", leagueID),
		zap.Int("imported", resp.ImportedCount),
		zap.Int("rejected", resp.RejectedCount))
	return resp, nil
}

func parseAllocationEntry(leagueID string, entry dto.AllocationImportEntry) (*parsedAllocation, error) {
	startsOn, err := schedule.ParseDate(entry.StartsOn)
	if err != nil {
		return nil, fmt.Errorf("startsOn: %w", err)
	}
	endsOn, err := schedule.ParseDate(entry.EndsOn)
	if err != nil {
		return nil, fmt.Errorf("endsOn: %w", err)
	}
	if endsOn.Before(startsOn) {
		return nil, fmt.Errorf("endsOn must not precede startsOn")
	}
	startMin, endMin, err := schedule.ValidRange(entry.StartTime, entry.EndTime)
	if err != nil {
		return nil, err
	}

	days := make(map[string]bool, len(entry.DaysOfWeek))
	tokens := make([]string, 0, len(entry.DaysOfWeek))
	for _, token := range entry.DaysOfWeek {
		day, err := schedule.ParseDayToken(token)
		if err != nil {
			return nil, fmt.Errorf("daysOfWeek: %w", err)
		}
		canonical := schedule.DayToken(day)
		if !days[canonical] {
			days[canonical] = true
			tokens = append(tokens, canonical)
		}
	}

	return &parsedAllocation{
		model: models.FieldAllocation{
			LeagueID:       leagueID,
			Scope:          entry.Scope,
			FieldKey:       entry.FieldKey,
			StartsOn:       entry.StartsOn,
			EndsOn:         entry.EndsOn,
			DaysOfWeek:     strings.Join(tokens, ","),
			StartTimeLocal: entry.StartTime,
			EndTimeLocal:   entry.EndTime,
			SlotType:       models.AllocationSlotType(entry.SlotType),
			PriorityRank:   entry.PriorityRank,
			IsActive:       true,
		},
		startsOn: schedule.BlackoutWindow{Start: startsOn, End: endsOn},
		days:     days,
		startMin: startMin,
		endMin:   endMin,
	}, nil
}

func parseStored(stored models.FieldAllocation) (*parsedAllocation, error) {
	return parseAllocationEntry(stored.LeagueID, dto.AllocationImportEntry{
		Scope:      stored.Scope,
		FieldKey:   stored.FieldKey,
		StartsOn:   stored.StartsOn,
		EndsOn:     stored.EndsOn,
		DaysOfWeek: strings.Split(stored.DaysOfWeek, ","),
		StartTime:  stored.StartTimeLocal,
		EndTime:    stored.EndTimeLocal,
		SlotType:   string(stored.SlotType),
	})
}

// allocationsOverlap reports whether two allocations collide on the same
// field: their date ranges intersect, they share a weekday, and their time
// ranges overlap.
func allocationsOverlap(a, b parsedAllocation) bool {
	if !strings.EqualFold(a.model.FieldKey, b.model.FieldKey) {
		return false
	}
	if a.startsOn.End.Before(b.startsOn.Start) || b.startsOn.End.Before(a.startsOn.Start) {
		return false
	}
	shared := false
	for day := range a.days {
		if b.days[day] {
			shared = true
			break
		}
	}
	if !shared {
		return false
	}
	return schedule.Overlaps(a.startMin, a.endMin, b.startMin, b.endMin)
}
