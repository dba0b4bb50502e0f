package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
	"github.com/noah-isme/league-sched-api/internal/schedule"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

// Generation modes.
const (
	GenerationModePreview    = "preview"
	GenerationModeApply      = "apply"
	GenerationModeRegenerate = "regenerate"
)

type generationRuleStore interface {
	ListActive(ctx context.Context, leagueID, fieldKey, dateFrom, dateTo string) ([]models.AvailabilityRule, error)
	ListExceptionsByRules(ctx context.Context, ruleIDs []string) (map[string][]models.AvailabilityException, error)
}

type generationSlotStore interface {
	ListWindow(ctx context.Context, leagueID, division, fieldKey, dateFrom, dateTo string) ([]models.Slot, error)
	BulkCreate(ctx context.Context, slots []models.Slot) (int, error)
	ClearOpenAvailability(ctx context.Context, leagueID, division, dateFrom, dateTo string) (int, error)
}

type generationLeagueReader interface {
	FindByID(ctx context.Context, id string) (*models.League, error)
	FindDivision(ctx context.Context, leagueID, code string) (*models.Division, error)
}

type generationFieldReader interface {
	ListByLeague(ctx context.Context, leagueID string) ([]models.Field, error)
}

// SlotGenerationService materialises availability slots from recurring rules
// or a fixed window, rejecting overlaps against the live slot set.
type SlotGenerationService struct {
	leagues   generationLeagueReader
	fields    generationFieldReader
	rules     generationRuleStore
	slots     generationSlotStore
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	defaultGameLength int
	maxWindowDays     int
}

// SlotGenerationConfig bounds generation behaviour.
type SlotGenerationConfig struct {
	DefaultGameLengthMinutes int
	MaxWindowDays            int
}

// NewSlotGenerationService wires generation dependencies.
func NewSlotGenerationService(
	leagues generationLeagueReader,
	fields generationFieldReader,
	rules generationRuleStore,
	slots generationSlotStore,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SlotGenerationConfig,
) *SlotGenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultGameLengthMinutes <= 0 {
		cfg.DefaultGameLengthMinutes = 60
	}
	if cfg.MaxWindowDays <= 0 {
		cfg.MaxWindowDays = 366
	}
	return &SlotGenerationService{
		leagues:           leagues,
		fields:            fields,
		rules:             rules,
		slots:             slots,
		cache:             cache,
		metrics:           metrics,
		validator:         validate,
		logger:            logger,
		defaultGameLength: cfg.DefaultGameLengthMinutes,
		maxWindowDays:     cfg.MaxWindowDays,
	}
}

// Generate expands candidates, splits them against existing reservations and,
// in apply or regenerate mode, persists the accepted ones in batches.
func (s *SlotGenerationService) Generate(ctx context.Context, leagueID string, req dto.GenerateSlotsRequest) (*dto.GenerateSlotsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	dateFrom, err := schedule.ParseDate(req.DateFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateFrom: "+err.Error())
	}
	dateTo, err := schedule.ParseDate(req.DateTo)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateTo: "+err.Error())
	}
	if dateTo.Before(dateFrom) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateTo must not precede dateFrom")
	}
	if int(dateTo.Sub(dateFrom).Hours()/24) > s.maxWindowDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, "generation window is too large")
	}

	league, err := s.leagues.FindByID(ctx, leagueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "league not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load league")
	}
	division, err := s.leagues.FindDivision(ctx, leagueID, req.Division)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "division not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load division")
	}

	seasonCfg, blackouts := effectiveConfig(league, division)
	gameLength := req.GameLengthMinutes
	if gameLength <= 0 {
		gameLength = seasonCfg.GameLengthMinutes
	}
	if gameLength <= 0 {
		gameLength = s.defaultGameLength
	}

	var candidates []schedule.Candidate
	if req.UseRules {
		candidates, err = s.expandFromRules(ctx, leagueID, req.Division, dateFrom, dateTo, blackouts, gameLength)
		if err != nil {
			return nil, err
		}
	} else {
		days, err := parseDayTokens(req.DaysOfWeek)
		if err != nil {
			return nil, err
		}
		startMin, endMin, err := schedule.ValidRange(req.StartTime, req.EndTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		candidates = schedule.ExpandFixedWindow(schedule.FixedWindowInput{
			FieldKey:          req.FieldKey,
			Division:          req.Division,
			DaysOfWeek:        days,
			StartMin:          startMin,
			EndMin:            endMin,
			DateFrom:          dateFrom,
			DateTo:            dateTo,
			Blackouts:         blackouts,
			GameLengthMinutes: gameLength,
		})
	}

	cleared := 0
	if req.Mode == GenerationModeRegenerate {
		cleared, err = s.slots.ClearOpenAvailability(ctx, leagueID, req.Division, req.DateFrom, req.DateTo)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear availability slots")
		}
	}

	existing, err := s.slots.ListWindow(ctx, leagueID, "", "", req.DateFrom, req.DateTo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load existing slots")
	}
	ix := schedule.NewConflictIndex()
	ix.Load(existing, true)
	accepted, conflicts := ix.SplitByOverlap(candidates)

	resp := &dto.GenerateSlotsResponse{
		Mode:          req.Mode,
		Accepted:      toGeneratedViews(accepted),
		Conflicts:     toGeneratedViews(conflicts),
		ClearedCount:  cleared,
		ConflictCount: len(conflicts),
	}

	if req.Mode == GenerationModePreview {
		return resp, nil
	}

	fieldNames := s.fieldNameIndex(ctx, leagueID)
	slots := make([]models.Slot, 0, len(accepted))
	for _, cand := range accepted {
		slot := models.Slot{
			LeagueID:       leagueID,
			Division:       req.Division,
			GameDate:       schedule.FormatDate(cand.GameDate),
			StartTime:      cand.StartTime(),
			EndTime:        cand.EndTime(),
			StartMin:       cand.StartMin,
			EndMin:         cand.EndMin,
			FieldKey:       cand.FieldKey,
			OfferingTeamID: models.OfferingTeamAvailable,
			IsAvailability: true,
			Status:         models.SlotStatusOpen,
			GameType:       "availability",
			UpdatedBy:      "SlotGeneration",
		}
		if names, ok := fieldNames[strings.ToLower(cand.FieldKey)]; ok {
			slot.ParkName = names[0]
			slot.FieldName = names[1]
			slot.DisplayName = names[2]
		}
		slots = append(slots, slot)
	}

	created, err := s.slots.BulkCreate(ctx, slots)
	resp.CreatedCount = created
	if err != nil {
		return resp, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated slots")
	}

	s.cache.InvalidateDivision(ctx, leagueID, req.Division)
	if s.metrics != nil {
		s.metrics.RecordSlotGeneration(created, len(conflicts))
	}
	s.logger.Info("availability slots generated",
		zap.String("league_id", leagueID),
		zap.String("division", req.Division),
		zap.String("mode", req.Mode),
		zap.Int("created", created),
		zap.Int("conflicts", len(conflicts)),
		zap.Int("cleared", cleared))
	return resp, nil
}

func (s *SlotGenerationService) expandFromRules(ctx context.Context, leagueID, division string, dateFrom, dateTo time.Time, blackouts []schedule.BlackoutWindow, gameLength int) ([]schedule.Candidate, error) {
	rules, err := s.rules.ListActive(ctx, leagueID, "", schedule.FormatDate(dateFrom), schedule.FormatDate(dateTo))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load availability rules")
	}
	ruleIDs := make([]string, 0, len(rules))
	for _, rule := range rules {
		ruleIDs = append(ruleIDs, rule.ID)
	}
	exceptions, err := s.rules.ListExceptionsByRules(ctx, ruleIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load rule exceptions")
	}
	return schedule.ExpandRules(schedule.ExpandInput{
		Rules:             rules,
		Exceptions:        exceptions,
		Blackouts:         blackouts,
		WindowStart:       dateFrom,
		WindowEnd:         dateTo,
		Division:          division,
		GameLengthMinutes: gameLength,
	}), nil
}

func toGeneratedViews(candidates []schedule.Candidate) []dto.GeneratedSlotView {
	views := make([]dto.GeneratedSlotView, 0, len(candidates))
	for _, cand := range candidates {
		views = append(views, dto.GeneratedSlotView{
			GameDate:  schedule.FormatDate(cand.GameDate),
			StartTime: cand.StartTime(),
			EndTime:   cand.EndTime(),
			FieldKey:  cand.FieldKey,
			Division:  cand.Division,
		})
	}
	return views
}

func parseDayTokens(tokens []string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool, len(tokens))
	for _, token := range tokens {
		day, err := schedule.ParseDayToken(token)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "daysOfWeek: "+err.Error())
		}
		days[day] = true
	}
	if len(days) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "daysOfWeek must name at least one day")
	}
	return days, nil
}

func effectiveConfig(league *models.League, division *models.Division) (models.SeasonConfig, []schedule.BlackoutWindow) {
	var leagueCfg models.SeasonConfig
	if len(league.SeasonConfig) > 0 {
		_ = json.Unmarshal(league.SeasonConfig, &leagueCfg)
	}
	var override *models.SeasonConfig
	if len(division.SeasonOverride) > 0 {
		var cfg models.SeasonConfig
		if err := json.Unmarshal(division.SeasonOverride, &cfg); err == nil {
			override = &cfg
		}
	}
	merged := models.EffectiveSeasonConfig(leagueCfg, override)
	return merged, schedule.ParseBlackouts(merged.Blackouts)
}

// fieldNameIndex resolves display names for generated slots. A lookup failure
// degrades to slots without names rather than failing generation.
func (s *SlotGenerationService) fieldNameIndex(ctx context.Context, leagueID string) map[string][3]string {
	index := make(map[string][3]string)
	if s.fields == nil {
		return index
	}
	fields, err := s.fields.ListByLeague(ctx, leagueID)
	if err != nil {
		s.logger.Warn("failed to load fields for display names", zap.Error(err))
		return index
	}
	for _, field := range fields {
		index[strings.ToLower(field.Key())] = [3]string{field.ParkName, field.FieldName, field.DisplayName}
	}
	return index
}
