package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-sched-api/internal/models"
)

// TeamRepository provides persistence for teams.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = "league_id, division, id, name, primary_contact, assistant_coaches, onboarding_complete, created_at, updated_at"

// ListByDivision returns teams in a division ordered by id.
func (r *TeamRepository) ListByDivision(ctx context.Context, leagueID, division string) ([]models.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM teams WHERE league_id = $1 AND division = $2 ORDER BY id ASC", teamColumns)
	var teams []models.Team
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &teams, query, leagueID, division)
	})
	if err != nil {
		return nil, fmt.Errorf("list teams by division: %w", err)
	}
	return teams, nil
}

// FindByID loads a team inside its division.
func (r *TeamRepository) FindByID(ctx context.Context, leagueID, division, teamID string) (*models.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM teams WHERE league_id = $1 AND division = $2 AND id = $3", teamColumns)
	var team models.Team
	if err := r.db.GetContext(ctx, &team, query, leagueID, division, teamID); err != nil {
		return nil, err
	}
	return &team, nil
}

// Create stores a new team record.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	now := time.Now().UTC()
	if team.CreatedAt.IsZero() {
		team.CreatedAt = now
	}
	team.UpdatedAt = now

	const query = `INSERT INTO teams (league_id, division, id, name, primary_contact, assistant_coaches, onboarding_complete, created_at, updated_at)
		VALUES (:league_id, :division, :id, :name, :primary_contact, :assistant_coaches, :onboarding_complete, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, team); err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

// Update modifies a team record.
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	team.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teams SET name = :name, primary_contact = :primary_contact, assistant_coaches = :assistant_coaches,
		onboarding_complete = :onboarding_complete, updated_at = :updated_at WHERE league_id = :league_id AND division = :division AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, team); err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return nil
}

// Delete removes a team.
func (r *TeamRepository) Delete(ctx context.Context, leagueID, division, teamID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE league_id = $1 AND division = $2 AND id = $3`, leagueID, division, teamID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}
