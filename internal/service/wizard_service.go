package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
	"github.com/noah-isme/league-sched-api/internal/schedule"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

type wizardLeagueReader interface {
	FindByID(ctx context.Context, id string) (*models.League, error)
	FindDivision(ctx context.Context, leagueID, code string) (*models.Division, error)
}

type wizardTeamLister interface {
	ListByDivision(ctx context.Context, leagueID, division string) ([]models.Team, error)
}

type wizardSlotStore interface {
	ListWindow(ctx context.Context, leagueID, division, fieldKey, dateFrom, dateTo string) ([]models.Slot, error)
	UpdateVersioned(ctx context.Context, slot *models.Slot, expectedVersion int) error
}

type wizardRunStore interface {
	Create(ctx context.Context, run *models.ScheduleRun) error
	ListByDivision(ctx context.Context, leagueID, division string) ([]models.ScheduleRun, error)
	FindByID(ctx context.Context, leagueID, division, runID string) (*models.ScheduleRun, error)
}

// WizardService orchestrates feasibility, preview and apply for the schedule
// wizard. Preview and feasibility never mutate; apply persists slot updates
// and one schedule run record.
type WizardService struct {
	leagues   wizardLeagueReader
	teams     wizardTeamLister
	slots     wizardSlotStore
	runs      wizardRunStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWizardService wires wizard dependencies.
func NewWizardService(
	leagues wizardLeagueReader,
	teams wizardTeamLister,
	slots wizardSlotStore,
	runs wizardRunStore,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *WizardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardService{
		leagues:   leagues,
		teams:     teams,
		slots:     slots,
		runs:      runs,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// wizardPlan is the parsed, validated form of a WizardRequest.
type wizardPlan struct {
	division     string
	seasonStart  time.Time
	seasonEnd    time.Time
	poolStart    *time.Time
	poolEnd      *time.Time
	bracketStart *time.Time
	bracketEnd   *time.Time
	blocked      []schedule.BlackoutWindow
	constraints  schedule.Constraints
	minGames     int
	poolGames    int
	primary      *schedule.GuestAnchor
	secondary    *schedule.GuestAnchor
	slotPlan     map[string]dto.SlotPlanEntry
}

func (s *WizardService) parseRequest(req dto.WizardRequest) (*wizardPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid wizard payload")
	}

	plan := &wizardPlan{division: req.Division, minGames: req.MinGamesPerTeam, poolGames: req.PoolGamesPerTeam}

	var err error
	if plan.seasonStart, err = schedule.ParseDate(req.SeasonStart); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "seasonStart: "+err.Error())
	}
	if plan.seasonEnd, err = schedule.ParseDate(req.SeasonEnd); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "seasonEnd: "+err.Error())
	}
	if plan.seasonEnd.Before(plan.seasonStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "seasonEnd must not precede seasonStart")
	}

	plan.poolStart, plan.poolEnd, err = parseOptionalWindow(req.PoolStart, req.PoolEnd, "pool")
	if err != nil {
		return nil, err
	}
	if plan.poolStart != nil {
		if plan.poolStart.Before(plan.seasonStart) || plan.poolEnd.After(plan.seasonEnd) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "pool window must lie inside the season window")
		}
		if req.PoolGamesPerTeam < 2 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "poolGamesPerTeam must be at least 2 when a pool window is set")
		}
	}

	plan.bracketStart, plan.bracketEnd, err = parseOptionalWindow(req.BracketStart, req.BracketEnd, "bracket")
	if err != nil {
		return nil, err
	}
	if plan.bracketStart != nil && plan.bracketStart.Before(plan.seasonStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "bracketStart must not precede seasonStart")
	}

	for _, blocked := range req.BlockedDateRanges {
		start, err := schedule.ParseDate(blocked.StartDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "blockedDateRanges.startDate: "+err.Error())
		}
		end, err := schedule.ParseDate(blocked.EndDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "blockedDateRanges.endDate: "+err.Error())
		}
		if end.Before(start) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "blockedDateRanges: endDate must not precede startDate")
		}
		plan.blocked = append(plan.blocked, schedule.BlackoutWindow{Start: start, End: end, Label: blocked.Label})
	}

	preferred, err := parsePreferredWeeknights(req.PreferredWeeknights)
	if err != nil {
		return nil, err
	}

	plan.constraints = schedule.Constraints{
		MaxGamesPerWeek:           req.MaxGamesPerWeek,
		NoDoubleHeaders:           req.NoDoubleHeadersOrDefault(),
		BalanceHomeAway:           req.BalanceHomeAwayOrDefault(),
		ExternalOfferPerWeek:      req.ExternalOfferPerWeek,
		PreferredWeeknights:       preferred,
		StrictPreferredWeeknights: req.StrictPreferredWeeknights,
	}

	if plan.primary, err = parseAnchor(req.GuestAnchorPrimary, "guestAnchorPrimary"); err != nil {
		return nil, err
	}
	if plan.secondary, err = parseAnchor(req.GuestAnchorSecondary, "guestAnchorSecondary"); err != nil {
		return nil, err
	}

	plan.slotPlan = make(map[string]dto.SlotPlanEntry, len(req.SlotPlan))
	for _, entry := range req.SlotPlan {
		plan.slotPlan[entry.SlotID] = entry
	}
	return plan, nil
}

func parseOptionalWindow(startRaw, endRaw, name string) (*time.Time, *time.Time, error) {
	if startRaw == "" && endRaw == "" {
		return nil, nil, nil
	}
	if startRaw == "" || endRaw == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%sStart and %sEnd must be provided together", name, name))
	}
	start, err := schedule.ParseDate(startRaw)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, name+"Start: "+err.Error())
	}
	end, err := schedule.ParseDate(endRaw)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, name+"End: "+err.Error())
	}
	if end.Before(start) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%sEnd must not precede %sStart", name, name))
	}
	return &start, &end, nil
}

func parsePreferredWeeknights(tokens []string) ([]time.Weekday, error) {
	seen := make(map[time.Weekday]bool)
	var days []time.Weekday
	for _, token := range tokens {
		day, err := schedule.ParseDayToken(token)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "preferredWeeknights: "+err.Error())
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		days = append(days, day)
	}
	if len(days) > 3 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "preferredWeeknights allows at most 3 distinct days")
	}
	return days, nil
}

func parseAnchor(req *dto.GuestAnchorRequest, field string) (*schedule.GuestAnchor, error) {
	if req == nil {
		return nil, nil
	}
	day, err := schedule.ParseDayToken(req.DayOfWeek)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, field+".dayOfWeek: "+err.Error())
	}
	startMin, endMin, err := schedule.ValidRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, field+": "+err.Error())
	}
	return &schedule.GuestAnchor{Day: day, StartMin: startMin, EndMin: endMin, FieldKey: req.FieldKey}, nil
}

// phasePools holds availability slots partitioned into phase windows.
type phasePools struct {
	regular []schedule.AssignableSlot
	pool    []schedule.AssignableSlot
	bracket []schedule.AssignableSlot
	byID    map[string]models.Slot
}

func (s *WizardService) ensureDivision(ctx context.Context, leagueID, division string) error {
	if _, err := s.leagues.FindByID(ctx, leagueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "league not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load league")
	}
	div, err := s.leagues.FindDivision(ctx, leagueID, division)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "division not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load division")
	}
	if !div.IsActive {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "division is not active")
	}
	return nil
}

func (s *WizardService) loadPools(ctx context.Context, leagueID string, plan *wizardPlan) (*phasePools, error) {
	windowEnd := plan.seasonEnd
	if plan.bracketEnd != nil && plan.bracketEnd.After(windowEnd) {
		windowEnd = *plan.bracketEnd
	}

	slots, err := s.slots.ListWindow(ctx, leagueID, plan.division, "", schedule.FormatDate(plan.seasonStart), schedule.FormatDate(windowEnd))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load slots")
	}

	pools := &phasePools{byID: make(map[string]models.Slot, len(slots))}
	for _, slot := range slots {
		if !slot.IsAvailability || slot.Status != models.SlotStatusOpen {
			continue
		}
		date, err := schedule.ParseDate(slot.GameDate)
		if err != nil || slot.StartMin >= slot.EndMin {
			continue
		}
		if schedule.InBlackout(date, plan.blocked) {
			continue
		}

		assignable := schedule.AssignableSlot{
			SlotID:   slot.ID,
			GameDate: date,
			StartMin: slot.StartMin,
			EndMin:   slot.EndMin,
			FieldKey: slot.FieldKey,
			SlotType: schedule.SlotTypeGame,
		}
		if entry, ok := plan.slotPlan[slot.ID]; ok {
			assignable.SlotType = schedule.SlotType(entry.SlotType)
			assignable.PriorityRank = entry.PriorityRank
			if entry.StartTime != "" && entry.EndTime != "" {
				if startMin, endMin, err := schedule.ValidRange(entry.StartTime, entry.EndTime); err == nil {
					assignable.StartMin = startMin
					assignable.EndMin = endMin
				}
			}
		}

		pools.byID[slot.ID] = slot
		switch {
		case plan.bracketStart != nil && schedule.InRange(date, *plan.bracketStart, *plan.bracketEnd):
			pools.bracket = append(pools.bracket, assignable)
		case plan.poolStart != nil && schedule.InRange(date, *plan.poolStart, *plan.poolEnd):
			pools.pool = append(pools.pool, assignable)
		case schedule.InRange(date, plan.seasonStart, plan.seasonEnd):
			pools.regular = append(pools.regular, assignable)
		}
	}
	return pools, nil
}

func regularWeeksCount(plan *wizardPlan) int {
	weeks := make(map[string]bool)
	for date := plan.seasonStart; !date.After(plan.seasonEnd); date = date.AddDate(0, 0, 1) {
		if schedule.InBlackout(date, plan.blocked) {
			continue
		}
		if plan.poolStart != nil && schedule.InRange(date, *plan.poolStart, *plan.poolEnd) {
			continue
		}
		if plan.bracketStart != nil && schedule.InRange(date, *plan.bracketStart, *plan.bracketEnd) {
			continue
		}
		weeks[schedule.WeekKey(date)] = true
	}
	return len(weeks)
}

// Feasibility reports whether the requested configuration is achievable. It
// never mutates state.
func (s *WizardService) Feasibility(ctx context.Context, leagueID string, req dto.WizardRequest) (*dto.WizardFeasibilityResponse, error) {
	plan, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDivision(ctx, leagueID, plan.division); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("wizard:feas:%s:%s:%x", leagueID, plan.division, feasibilityDigest(req))
	var cached dto.WizardFeasibilityResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	teams, err := s.teams.ListByDivision(ctx, leagueID, plan.division)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load teams")
	}
	pools, err := s.loadPools(ctx, leagueID, plan)
	if err != nil {
		return nil, err
	}

	report := schedule.Analyze(schedule.FeasibilityInput{
		TeamCount:             len(teams),
		AvailableRegularSlots: len(pools.regular),
		AvailablePoolSlots:    len(pools.pool),
		AvailableBracketSlots: len(pools.bracket),
		BracketRequested:      plan.bracketStart != nil,
		MinGamesPerTeam:       plan.minGames,
		PoolGamesPerTeam:      plan.poolGames,
		MaxGamesPerWeek:       plan.constraints.MaxGamesPerWeek,
		NoDoubleHeaders:       plan.constraints.NoDoubleHeaders,
		RegularWeeksCount:     regularWeeksCount(plan),
		GuestGamesPerWeek:     plan.constraints.ExternalOfferPerWeek,
	})

	resp := &dto.WizardFeasibilityResponse{Report: report, Warnings: report.Warnings}
	_ = s.cache.Set(ctx, cacheKey, resp, 0)
	return resp, nil
}

// Preview computes the full assignment without persisting anything.
func (s *WizardService) Preview(ctx context.Context, leagueID string, req dto.WizardRequest) (*dto.WizardPreviewResponse, error) {
	plan, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDivision(ctx, leagueID, plan.division); err != nil {
		return nil, err
	}
	resp, _, err := s.run(ctx, leagueID, plan)
	return resp, err
}

// Apply computes the assignment and persists slot updates plus one schedule
// run record. Re-running an identical apply is a no-op save for timestamps.
func (s *WizardService) Apply(ctx context.Context, leagueID, appliedBy string, req dto.WizardRequest) (*dto.WizardPreviewResponse, error) {
	plan, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDivision(ctx, leagueID, plan.division); err != nil {
		return nil, err
	}

	resp, pools, err := s.run(ctx, leagueID, plan)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	now := time.Now().UTC()
	applied := 0
	for _, view := range resp.Assignments {
		slot, ok := pools.byID[view.SlotID]
		if !ok {
			continue
		}
		expected := slot.Version
		mutateSlotForAssignment(&slot, view, runID, appliedBy, now)
		if err := s.slots.UpdateVersioned(ctx, &slot, expected); err != nil {
			var appErr *appErrors.Error
			if errors.As(err, &appErr) && appErr.Code == appErrors.ErrVersionConflict.Code {
				s.logger.Warn("slot changed during apply, skipping",
					zap.String("slot_id", view.SlotID),
					zap.String("division", plan.division))
				resp.Warnings = append(resp.Warnings, fmt.Sprintf("slot %s changed during apply and was skipped", view.SlotID))
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist slot update")
		}
		applied++
	}

	constraintsJSON, err := json.Marshal(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode run constraints")
	}
	summaryJSON, err := json.Marshal(resp.Summary)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode run summary")
	}

	dateTo := plan.seasonEnd
	if plan.bracketEnd != nil && plan.bracketEnd.After(dateTo) {
		dateTo = *plan.bracketEnd
	}
	run := &models.ScheduleRun{
		ID:              runID,
		LeagueID:        leagueID,
		Division:        plan.division,
		CreatedBy:       appliedBy,
		DateFrom:        schedule.FormatDate(plan.seasonStart),
		DateTo:          schedule.FormatDate(dateTo),
		ConstraintsJSON: string(constraintsJSON),
		SummaryJSON:     string(summaryJSON),
		CreatedUtc:      now,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule run")
	}

	s.cache.InvalidateDivision(ctx, leagueID, plan.division)
	if s.metrics != nil {
		s.metrics.RecordWizardApply(plan.division, applied, len(resp.UnassignedMatchups))
	}
	s.logger.Info("schedule wizard applied",
		zap.String("league_id", leagueID),
		zap.String("division", plan.division),
		zap.String("run_id", runID),
		zap.Int("applied", applied))

	resp.RunID = runID
	return resp, nil
}

// run executes the assignment pipeline shared by preview and apply.
func (s *WizardService) run(ctx context.Context, leagueID string, plan *wizardPlan) (*dto.WizardPreviewResponse, *phasePools, error) {
	teams, err := s.teams.ListByDivision(ctx, leagueID, plan.division)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load teams")
	}
	teamIDs := make([]string, 0, len(teams))
	for _, team := range teams {
		teamIDs = append(teamIDs, team.ID)
	}
	sort.Strings(teamIDs)

	pools, err := s.loadPools(ctx, leagueID, plan)
	if err != nil {
		return nil, nil, err
	}

	counters := schedule.NewTeamCounters()
	var results []schedule.PhaseResult

	regularMatchups := []schedule.MatchupPair{}
	if plan.minGames > 0 {
		regularMatchups = schedule.BuildRepeated(teamIDs, plan.minGames)
	}
	regular, err := schedule.AssignPhase(schedule.PhaseRegular, teamIDs, pools.regular, regularMatchups,
		plan.constraints, plan.primary, plan.secondary, counters)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "regular season assignment failed")
	}
	results = append(results, regular)

	if plan.poolStart != nil && plan.poolGames > 0 {
		poolConstraints := plan.constraints
		poolConstraints.ExternalOfferPerWeek = 0
		pool, err := schedule.AssignPhase(schedule.PhasePool, teamIDs, pools.pool,
			schedule.BuildTarget(teamIDs, plan.poolGames), poolConstraints, nil, nil, counters)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pool play assignment failed")
		}
		results = append(results, pool)
	}

	if plan.bracketStart != nil {
		results = append(results, schedule.AssignBracket(pools.bracket, schedule.BuildBracket()))
	}

	issues := schedule.Validate(results, plan.constraints, teamIDs)
	resp := buildPreviewResponse(plan, teamIDs, pools, results, issues)
	return resp, pools, nil
}

func buildPreviewResponse(plan *wizardPlan, teamIDs []string, pools *phasePools, results []schedule.PhaseResult, issues []schedule.ValidationIssue) *dto.WizardPreviewResponse {
	resp := &dto.WizardPreviewResponse{
		Assignments:        []dto.AssignmentView{},
		UnassignedSlots:    []string{},
		UnassignedMatchups: []schedule.MatchupPair{},
		Warnings:           []string{},
		Issues:             issues,
	}
	gamesPerPhase := make(map[string]int, len(results))
	externalOffers := 0

	for _, result := range results {
		gamesPerPhase[string(result.Phase)] = len(result.Assignments)
		for _, a := range result.Assignments {
			if a.IsExternalOffer {
				externalOffers++
			}
			resp.Assignments = append(resp.Assignments, dto.AssignmentView{
				SlotID:          a.SlotID,
				Phase:           string(a.Phase),
				GameDate:        schedule.FormatDate(a.GameDate),
				StartTime:       schedule.FormatMinutes(a.StartMin),
				EndTime:         schedule.FormatMinutes(a.EndMin),
				FieldKey:        a.FieldKey,
				HomeTeamID:      a.HomeTeamID,
				AwayTeamID:      a.AwayTeamID,
				IsExternalOffer: a.IsExternalOffer,
			})
		}
		for _, slot := range result.UnassignedSlots {
			resp.UnassignedSlots = append(resp.UnassignedSlots, slot.SlotID)
		}
		resp.UnassignedMatchups = append(resp.UnassignedMatchups, result.UnassignedMatchups...)
		resp.Warnings = append(resp.Warnings, result.Warnings...)
	}

	resp.Summary = dto.WizardSummary{
		Division:           plan.division,
		TeamCount:          len(teamIDs),
		TotalSlots:         len(pools.byID),
		AssignedGames:      len(resp.Assignments),
		ExternalOffers:     externalOffers,
		UnassignedSlots:    len(resp.UnassignedSlots),
		UnassignedMatchups: len(resp.UnassignedMatchups),
		GamesPerPhase:      gamesPerPhase,
	}
	return resp
}

// mutateSlotForAssignment applies the persisted-state rules for one
// assignment: confirmations set both teams and flip availability off;
// external offers stay open with only a home team.
func mutateSlotForAssignment(slot *models.Slot, view dto.AssignmentView, runID, appliedBy string, now time.Time) {
	slot.GameDate = view.GameDate
	slot.StartTime = view.StartTime
	slot.EndTime = view.EndTime
	slot.StartMin = schedule.ParseMinutes(view.StartTime)
	slot.EndMin = schedule.ParseMinutes(view.EndTime)
	slot.IsAvailability = false
	slot.ScheduleRunID = runID
	slot.UpdatedBy = appliedBy
	slot.GameType = view.Phase

	if view.IsExternalOffer {
		slot.Status = models.SlotStatusOpen
		slot.HomeTeamID = view.HomeTeamID
		slot.AwayTeamID = ""
		slot.IsExternalOffer = true
		slot.OfferingTeamID = view.HomeTeamID
	} else {
		slot.Status = models.SlotStatusConfirmed
		slot.HomeTeamID = view.HomeTeamID
		slot.AwayTeamID = view.AwayTeamID
		slot.IsExternalOffer = false
		slot.OfferingTeamID = view.HomeTeamID
		slot.ConfirmedBy = "Wizard"
		confirmed := now
		slot.ConfirmedUtc = &confirmed
	}

	marker := " | Wizard: " + view.Phase
	if !strings.Contains(slot.Notes, marker) {
		slot.Notes += marker
	}
}

// ListRuns returns the apply history for a division.
func (s *WizardService) ListRuns(ctx context.Context, leagueID, division string) ([]models.ScheduleRun, error) {
	runs, err := s.runs.ListByDivision(ctx, leagueID, division)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule runs")
	}
	return runs, nil
}

// GetRun loads one schedule run.
func (s *WizardService) GetRun(ctx context.Context, leagueID, division, runID string) (*models.ScheduleRun, error) {
	run, err := s.runs.FindByID(ctx, leagueID, division, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule run")
	}
	return run, nil
}

func feasibilityDigest(req dto.WizardRequest) uint64 {
	raw, err := json.Marshal(req)
	if err != nil {
		return 0
	}
	var digest uint64 = 1469598103934665603
	for _, b := range raw {
		digest ^= uint64(b)
		digest *= 1099511628211
	}
	return digest
}
