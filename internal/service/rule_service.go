package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
	"github.com/noah-isme/league-sched-api/internal/schedule"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

type ruleStore interface {
	ListActive(ctx context.Context, leagueID, fieldKey, dateFrom, dateTo string) ([]models.AvailabilityRule, error)
	FindByID(ctx context.Context, leagueID, ruleID string) (*models.AvailabilityRule, error)
	Create(ctx context.Context, rule *models.AvailabilityRule) error
	Update(ctx context.Context, rule *models.AvailabilityRule) error
	Delete(ctx context.Context, leagueID, ruleID string) error
	ListExceptionsByRule(ctx context.Context, ruleID string) ([]models.AvailabilityException, error)
	CreateException(ctx context.Context, exc *models.AvailabilityException) error
	DeleteException(ctx context.Context, ruleID, exceptionID string) error
}

// RuleService manages availability rules and their exceptions.
type RuleService struct {
	rules     ruleStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRuleService wires rule dependencies.
func NewRuleService(rules ruleStore, validate *validator.Validate, logger *zap.Logger) *RuleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleService{rules: rules, validator: validate, logger: logger}
}

// ListActive returns active rules intersecting a date window.
func (s *RuleService) ListActive(ctx context.Context, leagueID, fieldKey, dateFrom, dateTo string) ([]models.AvailabilityRule, error) {
	rules, err := s.rules.ListActive(ctx, leagueID, fieldKey, dateFrom, dateTo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list rules")
	}
	return rules, nil
}

// Create registers a recurring availability rule.
func (s *RuleService) Create(ctx context.Context, leagueID string, req dto.CreateRuleRequest) (*models.AvailabilityRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rule payload")
	}

	startsOn, err := schedule.ParseDate(req.StartsOn)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startsOn: "+err.Error())
	}
	endsOn, err := schedule.ParseDate(req.EndsOn)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endsOn: "+err.Error())
	}
	if endsOn.Before(startsOn) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endsOn must not precede startsOn")
	}
	if _, _, err := schedule.ValidRange(req.StartTime, req.EndTime); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	days := make([]string, 0, len(req.DaysOfWeek))
	for _, token := range req.DaysOfWeek {
		day, err := schedule.ParseDayToken(token)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "daysOfWeek: "+err.Error())
		}
		days = append(days, schedule.DayToken(day))
	}

	rule := &models.AvailabilityRule{
		LeagueID:          leagueID,
		FieldKey:          req.FieldKey,
		Division:          req.Division,
		DivisionIDs:       strings.Join(req.DivisionIDs, ","),
		StartsOn:          req.StartsOn,
		EndsOn:            req.EndsOn,
		DaysOfWeek:        strings.Join(days, ","),
		StartTimeLocal:    req.StartTime,
		EndTimeLocal:      req.EndTime,
		RecurrencePattern: "Weekly",
		Timezone:          req.Timezone,
		IsActive:          true,
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create rule")
	}
	s.logger.Info("availability rule created",
		zap.String("league_id", leagueID),
		zap.String("rule_id", rule.ID),
		zap.String("field_key", rule.FieldKey))
	return rule, nil
}

// Deactivate marks a rule inactive so future expansions skip it.
func (s *RuleService) Deactivate(ctx context.Context, leagueID, ruleID string) error {
	rule, err := s.rules.FindByID(ctx, leagueID, ruleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "rule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load rule")
	}
	rule.IsActive = false
	if err := s.rules.Update(ctx, rule); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate rule")
	}
	return nil
}

// Delete removes a rule and its exceptions.
func (s *RuleService) Delete(ctx context.Context, leagueID, ruleID string) error {
	if _, err := s.rules.FindByID(ctx, leagueID, ruleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "rule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load rule")
	}
	if err := s.rules.Delete(ctx, leagueID, ruleID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete rule")
	}
	return nil
}

// ListExceptions returns a rule's exceptions.
func (s *RuleService) ListExceptions(ctx context.Context, leagueID, ruleID string) ([]models.AvailabilityException, error) {
	if _, err := s.rules.FindByID(ctx, leagueID, ruleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load rule")
	}
	exceptions, err := s.rules.ListExceptionsByRule(ctx, ruleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list exceptions")
	}
	return exceptions, nil
}

// CreateException suppresses rule occurrences inside a date/time window.
func (s *RuleService) CreateException(ctx context.Context, leagueID, ruleID string, req dto.CreateExceptionRequest) (*models.AvailabilityException, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exception payload")
	}
	if _, err := s.rules.FindByID(ctx, leagueID, ruleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load rule")
	}

	from, err := schedule.ParseDate(req.DateFrom)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateFrom: "+err.Error())
	}
	to, err := schedule.ParseDate(req.DateTo)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateTo: "+err.Error())
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dateTo must not precede dateFrom")
	}
	if _, _, err := schedule.ValidRange(req.StartTime, req.EndTime); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	exc := &models.AvailabilityException{
		RuleID:         ruleID,
		DateFrom:       req.DateFrom,
		DateTo:         req.DateTo,
		StartTimeLocal: req.StartTime,
		EndTimeLocal:   req.EndTime,
		Reason:         req.Reason,
	}
	if err := s.rules.CreateException(ctx, exc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exception")
	}
	return exc, nil
}

// DeleteException removes an exception from a rule.
func (s *RuleService) DeleteException(ctx context.Context, leagueID, ruleID, exceptionID string) error {
	if _, err := s.rules.FindByID(ctx, leagueID, ruleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "rule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load rule")
	}
	if err := s.rules.DeleteException(ctx, ruleID, exceptionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exception")
	}
	return nil
}
