package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

type fieldStore interface {
	ListByLeague(ctx context.Context, leagueID string) ([]models.Field, error)
	FindByKey(ctx context.Context, leagueID, parkCode, fieldCode string) (*models.Field, error)
	Create(ctx context.Context, field *models.Field) error
	Update(ctx context.Context, field *models.Field) error
}

// FieldService manages playing fields.
type FieldService struct {
	fields    fieldStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFieldService wires field dependencies.
func NewFieldService(fields fieldStore, validate *validator.Validate, logger *zap.Logger) *FieldService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FieldService{fields: fields, validator: validate, logger: logger}
}

// List returns the league's fields.
func (s *FieldService) List(ctx context.Context, leagueID string) ([]models.Field, error) {
	fields, err := s.fields.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list fields")
	}
	return fields, nil
}

// Get loads a field by its composite key.
func (s *FieldService) Get(ctx context.Context, leagueID, parkCode, fieldCode string) (*models.Field, error) {
	field, err := s.fields.FindByKey(ctx, leagueID, parkCode, fieldCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "field not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load field")
	}
	return field, nil
}

// Create registers a field addressed by parkCode/fieldCode.
func (s *FieldService) Create(ctx context.Context, leagueID string, req dto.CreateFieldRequest) (*models.Field, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid field payload")
	}
	if !ValidIdentifier(req.ParkCode) || !ValidIdentifier(req.FieldCode) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "parkCode and fieldCode may only contain letters, digits, dots, underscores and dashes")
	}
	if existing, err := s.fields.FindByKey(ctx, leagueID, req.ParkCode, req.FieldCode); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "field key already exists")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check field key")
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.ParkName + " " + req.FieldName
	}
	field := &models.Field{
		LeagueID:    leagueID,
		ParkCode:    req.ParkCode,
		FieldCode:   req.FieldCode,
		ParkName:    req.ParkName,
		FieldName:   req.FieldName,
		DisplayName: displayName,
		IsActive:    true,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Zip:         req.Zip,
	}
	if err := s.fields.Create(ctx, field); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create field")
	}
	s.logger.Info("field created", zap.String("league_id", leagueID), zap.String("field_key", field.Key()))
	return field, nil
}
