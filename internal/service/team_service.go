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

type teamStore interface {
	ListByDivision(ctx context.Context, leagueID, division string) ([]models.Team, error)
	FindByID(ctx context.Context, leagueID, division, teamID string) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) error
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, leagueID, division, teamID string) error
}

// TeamService manages teams within a division.
type TeamService struct {
	teams     teamStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeamService wires team dependencies.
func NewTeamService(teams teamStore, validate *validator.Validate, logger *zap.Logger) *TeamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamService{teams: teams, validator: validate, logger: logger}
}

// List returns the division's teams.
func (s *TeamService) List(ctx context.Context, leagueID, division string) ([]models.Team, error) {
	teams, err := s.teams.ListByDivision(ctx, leagueID, division)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list teams")
	}
	return teams, nil
}

// Create registers a team, unique within its division.
func (s *TeamService) Create(ctx context.Context, leagueID, division string, req dto.CreateTeamRequest) (*models.Team, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team payload")
	}
	if !ValidIdentifier(req.ID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id may only contain letters, digits, dots, underscores and dashes")
	}
	if existing, err := s.teams.FindByID(ctx, leagueID, division, req.ID); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "team id already exists in this division")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check team id")
	}

	team := &models.Team{
		LeagueID:       leagueID,
		Division:       division,
		ID:             req.ID,
		Name:           req.Name,
		PrimaryContact: req.PrimaryContact,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create team")
	}
	return team, nil
}

// Update mutates team metadata.
func (s *TeamService) Update(ctx context.Context, leagueID, division, teamID string, req dto.UpdateTeamRequest) (*models.Team, error) {
	team, err := s.teams.FindByID(ctx, leagueID, division, teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load team")
	}

	if req.Name != "" {
		team.Name = req.Name
	}
	if req.PrimaryContact != "" {
		team.PrimaryContact = req.PrimaryContact
	}
	if req.AssistantCoaches != "" {
		team.AssistantCoaches = req.AssistantCoaches
	}
	if req.OnboardingComplete != nil {
		team.OnboardingComplete = *req.OnboardingComplete
	}

	if err := s.teams.Update(ctx, team); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update team")
	}
	return team, nil
}

// Delete removes a team.
func (s *TeamService) Delete(ctx context.Context, leagueID, division, teamID string) error {
	if _, err := s.teams.FindByID(ctx, leagueID, division, teamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load team")
	}
	if err := s.teams.Delete(ctx, leagueID, division, teamID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete team")
	}
	s.logger.Info("team deleted",
		zap.String("league_id", leagueID),
		zap.String("division", division),
		zap.String("team_id", teamID))
	return nil
}
