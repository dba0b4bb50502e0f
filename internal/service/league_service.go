package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

// identifierPattern restricts every externally supplied id. Slashes, hashes
// and question marks never reach the store.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidIdentifier reports whether an id is storable.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

type leagueStore interface {
	FindByID(ctx context.Context, id string) (*models.League, error)
	List(ctx context.Context) ([]models.League, error)
	Create(ctx context.Context, league *models.League) error
	Update(ctx context.Context, league *models.League) error
	ListDivisions(ctx context.Context, leagueID string) ([]models.Division, error)
	FindDivision(ctx context.Context, leagueID, code string) (*models.Division, error)
}

// LeagueService manages league lifecycle and division listing.
type LeagueService struct {
	leagues   leagueStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeagueService wires league dependencies.
func NewLeagueService(leagues leagueStore, validate *validator.Validate, logger *zap.Logger) *LeagueService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeagueService{leagues: leagues, validator: validate, logger: logger}
}

// List returns non-deleted leagues.
func (s *LeagueService) List(ctx context.Context) ([]models.League, error) {
	leagues, err := s.leagues.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list leagues")
	}
	return leagues, nil
}

// Get loads one league.
func (s *LeagueService) Get(ctx context.Context, id string) (*models.League, error) {
	league, err := s.leagues.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "league not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load league")
	}
	if league.Status == models.LeagueStatusDeleted {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "league not found")
	}
	return league, nil
}

// Create registers a new league.
func (s *LeagueService) Create(ctx context.Context, req dto.CreateLeagueRequest) (*models.League, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid league payload")
	}
	if !ValidIdentifier(req.ID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id may only contain letters, digits, dots, underscores and dashes")
	}
	if existing, err := s.leagues.FindByID(ctx, req.ID); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "league id already exists")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check league id")
	}

	league := &models.League{
		ID:           req.ID,
		Name:         req.Name,
		Timezone:     req.Timezone,
		Status:       models.LeagueStatusActive,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
	}
	if req.SeasonConfig != nil {
		raw, err := json.Marshal(req.SeasonConfig)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode season config")
		}
		league.SeasonConfig = types.JSONText(raw)
	}

	if err := s.leagues.Create(ctx, league); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create league")
	}
	s.logger.Info("league created", zap.String("league_id", league.ID))
	return league, nil
}

// Update mutates league metadata and season configuration.
func (s *LeagueService) Update(ctx context.Context, id string, req dto.UpdateLeagueRequest) (*models.League, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid league payload")
	}
	league, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		league.Name = req.Name
	}
	if req.Timezone != "" {
		league.Timezone = req.Timezone
	}
	if req.Status != "" {
		league.Status = models.LeagueStatus(req.Status)
	}
	if req.ContactName != "" {
		league.ContactName = req.ContactName
	}
	if req.ContactEmail != "" {
		league.ContactEmail = req.ContactEmail
	}
	if req.SeasonConfig != nil {
		raw, err := json.Marshal(req.SeasonConfig)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode season config")
		}
		league.SeasonConfig = types.JSONText(raw)
	}

	if err := s.leagues.Update(ctx, league); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update league")
	}
	return league, nil
}

// Delete soft-deletes a league; cascade removal of owned entities is handled
// by background plumbing outside this service.
func (s *LeagueService) Delete(ctx context.Context, id string) error {
	league, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	league.Status = models.LeagueStatusDeleted
	if err := s.leagues.Update(ctx, league); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete league")
	}
	s.logger.Info("league deleted", zap.String("league_id", id))
	return nil
}

// ListDivisions returns the divisions of a league.
func (s *LeagueService) ListDivisions(ctx context.Context, leagueID string) ([]models.Division, error) {
	if _, err := s.Get(ctx, leagueID); err != nil {
		return nil, err
	}
	divisions, err := s.leagues.ListDivisions(ctx, leagueID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list divisions")
	}
	return divisions, nil
}
