package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-sched-api/internal/models"
)

// AllocationRepository provides persistence for field availability
// allocations.
type AllocationRepository struct {
	db *sqlx.DB
}

// NewAllocationRepository creates a new allocation repository.
func NewAllocationRepository(db *sqlx.DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

const allocationColumns = "id, league_id, scope, field_key, starts_on, ends_on, days_of_week, start_time_local, end_time_local, slot_type, priority_rank, is_active, created_at"

// ListActiveByField returns active allocations for one field.
func (r *AllocationRepository) ListActiveByField(ctx context.Context, leagueID, fieldKey string) ([]models.FieldAllocation, error) {
	query := fmt.Sprintf("SELECT %s FROM field_allocations WHERE league_id = $1 AND LOWER(field_key) = $2 AND is_active = TRUE ORDER BY starts_on ASC", allocationColumns)
	var allocations []models.FieldAllocation
	if err := r.db.SelectContext(ctx, &allocations, query, leagueID, strings.ToLower(fieldKey)); err != nil {
		return nil, fmt.Errorf("list allocations by field: %w", err)
	}
	return allocations, nil
}

// ListByLeague returns every allocation of a league.
func (r *AllocationRepository) ListByLeague(ctx context.Context, leagueID string) ([]models.FieldAllocation, error) {
	query := fmt.Sprintf("SELECT %s FROM field_allocations WHERE league_id = $1 ORDER BY field_key ASC, starts_on ASC", allocationColumns)
	var allocations []models.FieldAllocation
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &allocations, query, leagueID)
	})
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return allocations, nil
}

// BulkCreate inserts allocations in batches of at most writeBatchSize grouped
// into per-batch transactions.
func (r *AllocationRepository) BulkCreate(ctx context.Context, allocations []models.FieldAllocation) (int, error) {
	created := 0
	for start := 0; start < len(allocations); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(allocations) {
			end = len(allocations)
		}
		if err := r.createBatch(ctx, allocations[start:end]); err != nil {
			return created, fmt.Errorf("bulk create allocations batch %d: %w", start/writeBatchSize, err)
		}
		created += end - start
	}
	return created, nil
}

func (r *AllocationRepository) createBatch(ctx context.Context, allocations []models.FieldAllocation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin allocation batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range allocations {
		payload := allocations[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		if _, err = sqlx.NamedExecContext(ctx, tx, `INSERT INTO field_allocations (id, league_id, scope, field_key, starts_on, ends_on, days_of_week, start_time_local, end_time_local, slot_type, priority_rank, is_active, created_at)
			VALUES (:id, :league_id, :scope, :field_key, :starts_on, :ends_on, :days_of_week, :start_time_local, :end_time_local, :slot_type, :priority_rank, :is_active, :created_at)`, &payload); err != nil {
			return fmt.Errorf("insert allocation: %w", err)
		}
		allocations[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit allocation batch: %w", err)
	}
	return nil
}

// DeactivateByLeague marks every allocation of a league inactive ahead of a
// replace-all import.
func (r *AllocationRepository) DeactivateByLeague(ctx context.Context, leagueID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE field_allocations SET is_active = FALSE WHERE league_id = $1`, leagueID); err != nil {
		return fmt.Errorf("deactivate allocations: %w", err)
	}
	return nil
}
