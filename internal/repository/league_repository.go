package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-sched-api/internal/models"
)

// LeagueRepository provides persistence for leagues and divisions.
type LeagueRepository struct {
	db *sqlx.DB
}

// NewLeagueRepository creates a new league repository.
func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

const leagueColumns = "id, name, timezone, status, contact_name, contact_email, season_config, created_at, updated_at"

// FindByID loads a league by id.
func (r *LeagueRepository) FindByID(ctx context.Context, id string) (*models.League, error) {
	query := fmt.Sprintf("SELECT %s FROM leagues WHERE id = $1", leagueColumns)
	var league models.League
	err := withRetry(ctx, func() error {
		return r.db.GetContext(ctx, &league, query, id)
	})
	if err != nil {
		return nil, err
	}
	return &league, nil
}

// List returns non-deleted leagues ordered by name.
func (r *LeagueRepository) List(ctx context.Context) ([]models.League, error) {
	query := fmt.Sprintf("SELECT %s FROM leagues WHERE status <> $1 ORDER BY name ASC", leagueColumns)
	var leagues []models.League
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &leagues, query, models.LeagueStatusDeleted)
	})
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return leagues, nil
}

// Create stores a new league record.
func (r *LeagueRepository) Create(ctx context.Context, league *models.League) error {
	now := time.Now().UTC()
	if league.CreatedAt.IsZero() {
		league.CreatedAt = now
	}
	league.UpdatedAt = now

	const query = `INSERT INTO leagues (id, name, timezone, status, contact_name, contact_email, season_config, created_at, updated_at)
		VALUES (:id, :name, :timezone, :status, :contact_name, :contact_email, :season_config, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, league); err != nil {
		return fmt.Errorf("create league: %w", err)
	}
	return nil
}

// Update modifies a league record.
func (r *LeagueRepository) Update(ctx context.Context, league *models.League) error {
	league.UpdatedAt = time.Now().UTC()
	const query = `UPDATE leagues SET name = :name, timezone = :timezone, status = :status, contact_name = :contact_name,
		contact_email = :contact_email, season_config = :season_config, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, league); err != nil {
		return fmt.Errorf("update league: %w", err)
	}
	return nil
}

// ListDivisions returns the divisions of a league ordered by code.
func (r *LeagueRepository) ListDivisions(ctx context.Context, leagueID string) ([]models.Division, error) {
	const query = `SELECT league_id, code, name, is_active, season_override, created_at, updated_at FROM divisions WHERE league_id = $1 ORDER BY code ASC`
	var divisions []models.Division
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &divisions, query, leagueID)
	})
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	return divisions, nil
}

// FindDivision loads a single division by league and code.
func (r *LeagueRepository) FindDivision(ctx context.Context, leagueID, code string) (*models.Division, error) {
	const query = `SELECT league_id, code, name, is_active, season_override, created_at, updated_at FROM divisions WHERE league_id = $1 AND code = $2`
	var division models.Division
	if err := r.db.GetContext(ctx, &division, query, leagueID, code); err != nil {
		return nil, err
	}
	return &division, nil
}
