package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-sched-api/internal/models"
)

// FieldRepository provides persistence for playing fields.
type FieldRepository struct {
	db *sqlx.DB
}

// NewFieldRepository creates a new field repository.
func NewFieldRepository(db *sqlx.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

const fieldColumns = "league_id, park_code, field_code, park_name, field_name, display_name, is_active, blackouts, address, city, state, zip, created_at, updated_at"

// ListByLeague returns the league's fields ordered by composite key.
func (r *FieldRepository) ListByLeague(ctx context.Context, leagueID string) ([]models.Field, error) {
	query := fmt.Sprintf("SELECT %s FROM fields WHERE league_id = $1 ORDER BY park_code ASC, field_code ASC", fieldColumns)
	var fields []models.Field
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &fields, query, leagueID)
	})
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return fields, nil
}

// FindByKey loads a field by its parkCode/fieldCode pair.
func (r *FieldRepository) FindByKey(ctx context.Context, leagueID, parkCode, fieldCode string) (*models.Field, error) {
	query := fmt.Sprintf("SELECT %s FROM fields WHERE league_id = $1 AND park_code = $2 AND field_code = $3", fieldColumns)
	var field models.Field
	if err := r.db.GetContext(ctx, &field, query, leagueID, parkCode, fieldCode); err != nil {
		return nil, err
	}
	return &field, nil
}

// Create stores a new field record.
func (r *FieldRepository) Create(ctx context.Context, field *models.Field) error {
	now := time.Now().UTC()
	if field.CreatedAt.IsZero() {
		field.CreatedAt = now
	}
	field.UpdatedAt = now

	const query = `INSERT INTO fields (league_id, park_code, field_code, park_name, field_name, display_name, is_active, blackouts, address, city, state, zip, created_at, updated_at)
		VALUES (:league_id, :park_code, :field_code, :park_name, :field_name, :display_name, :is_active, :blackouts, :address, :city, :state, :zip, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, field); err != nil {
		return fmt.Errorf("create field: %w", err)
	}
	return nil
}

// Update modifies a field record.
func (r *FieldRepository) Update(ctx context.Context, field *models.Field) error {
	field.UpdatedAt = time.Now().UTC()
	const query = `UPDATE fields SET park_name = :park_name, field_name = :field_name, display_name = :display_name,
		is_active = :is_active, blackouts = :blackouts, address = :address, city = :city, state = :state, zip = :zip,
		updated_at = :updated_at WHERE league_id = :league_id AND park_code = :park_code AND field_code = :field_code`
	if _, err := r.db.NamedExecContext(ctx, query, field); err != nil {
		return fmt.Errorf("update field: %w", err)
	}
	return nil
}
