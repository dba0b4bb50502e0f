package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-sched-api/internal/models"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

// writeBatchSize bounds slots written per transaction.
const writeBatchSize = 100

// SlotRepository provides persistence for slots.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new slot repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

const slotColumns = `id, league_id, division, game_date, start_time, end_time, start_min, end_min, field_key,
	park_name, field_name, display_name, offering_team_id, home_team_id, away_team_id, is_availability,
	is_external_offer, status, game_type, notes, schedule_run_id, confirmed_by, confirmed_utc, version,
	created_utc, updated_utc, updated_by`

// Query returns slots matching the filter, paginated, with a total count.
func (r *SlotRepository) Query(ctx context.Context, filter models.SlotFilter) ([]models.Slot, int, error) {
	base := "FROM slots WHERE league_id = $1"
	args := []interface{}{filter.LeagueID}

	if filter.Division != "" {
		base += fmt.Sprintf(" AND division = $%d", len(args)+1)
		args = append(args, filter.Division)
	}
	if filter.Status != "" {
		base += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.FieldKey != "" {
		base += fmt.Sprintf(" AND LOWER(field_key) = $%d", len(args)+1)
		args = append(args, strings.ToLower(filter.FieldKey))
	}
	if filter.DateFrom != "" {
		base += fmt.Sprintf(" AND game_date >= $%d", len(args)+1)
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		base += fmt.Sprintf(" AND game_date <= $%d", len(args)+1)
		args = append(args, filter.DateTo)
	}
	if !filter.IncludeAvailability {
		base += " AND is_availability = FALSE"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY game_date ASC, start_min ASC, field_key ASC LIMIT %d OFFSET %d", slotColumns, base, size, offset)
	var slots []models.Slot
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &slots, query, args...)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query slots: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}
	return slots, total, nil
}

// ListWindow returns all non-cancelled slots in a date window without
// pagination, for conflict indexing and wizard runs.
func (r *SlotRepository) ListWindow(ctx context.Context, leagueID, division, fieldKey, dateFrom, dateTo string) ([]models.Slot, error) {
	base := fmt.Sprintf("SELECT %s FROM slots WHERE league_id = $1 AND status <> $2", slotColumns)
	args := []interface{}{leagueID, models.SlotStatusCancelled}

	if division != "" {
		base += fmt.Sprintf(" AND division = $%d", len(args)+1)
		args = append(args, division)
	}
	if fieldKey != "" {
		base += fmt.Sprintf(" AND LOWER(field_key) = $%d", len(args)+1)
		args = append(args, strings.ToLower(fieldKey))
	}
	if dateFrom != "" {
		base += fmt.Sprintf(" AND game_date >= $%d", len(args)+1)
		args = append(args, dateFrom)
	}
	if dateTo != "" {
		base += fmt.Sprintf(" AND game_date <= $%d", len(args)+1)
		args = append(args, dateTo)
	}
	base += " ORDER BY game_date ASC, start_min ASC, field_key ASC"

	var slots []models.Slot
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &slots, base, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list slots window: %w", err)
	}
	return slots, nil
}

// ListByFieldAndDate returns non-cancelled slots on one field and date.
func (r *SlotRepository) ListByFieldAndDate(ctx context.Context, leagueID, fieldKey, gameDate string) ([]models.Slot, error) {
	query := fmt.Sprintf("SELECT %s FROM slots WHERE league_id = $1 AND LOWER(field_key) = $2 AND game_date = $3 AND status <> $4 ORDER BY start_min ASC", slotColumns)
	var slots []models.Slot
	if err := r.db.SelectContext(ctx, &slots, query, leagueID, strings.ToLower(fieldKey), gameDate, models.SlotStatusCancelled); err != nil {
		return nil, fmt.Errorf("list slots by field and date: %w", err)
	}
	return slots, nil
}

// FindByID loads a slot inside its division.
func (r *SlotRepository) FindByID(ctx context.Context, leagueID, division, slotID string) (*models.Slot, error) {
	query := fmt.Sprintf("SELECT %s FROM slots WHERE league_id = $1 AND division = $2 AND id = $3", slotColumns)
	var slot models.Slot
	if err := r.db.GetContext(ctx, &slot, query, leagueID, division, slotID); err != nil {
		return nil, err
	}
	return &slot, nil
}

// UpdateVersioned writes a slot guarded by its version token. A stale version
// affects zero rows and surfaces as ErrVersionConflict.
func (r *SlotRepository) UpdateVersioned(ctx context.Context, slot *models.Slot, expectedVersion int) error {
	slot.UpdatedUtc = time.Now().UTC()
	slot.Version = expectedVersion + 1

	const query = `UPDATE slots SET game_date = :game_date, start_time = :start_time, end_time = :end_time,
		start_min = :start_min, end_min = :end_min, field_key = :field_key, park_name = :park_name,
		field_name = :field_name, display_name = :display_name, offering_team_id = :offering_team_id,
		home_team_id = :home_team_id, away_team_id = :away_team_id, is_availability = :is_availability,
		is_external_offer = :is_external_offer, status = :status, game_type = :game_type, notes = :notes,
		schedule_run_id = :schedule_run_id, confirmed_by = :confirmed_by, confirmed_utc = :confirmed_utc,
		version = :version, updated_utc = :updated_utc, updated_by = :updated_by
		WHERE id = :id AND league_id = :league_id AND version = ` + fmt.Sprintf("%d", expectedVersion)

	result, err := r.db.NamedExecContext(ctx, query, slot)
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update slot rows affected: %w", err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrVersionConflict, fmt.Sprintf("slot %s changed since it was read", slot.ID))
	}
	return nil
}

// BulkCreate inserts slots in batches of at most writeBatchSize, each batch in
// its own transaction. A batch failure fails only that batch; earlier batches
// stay written. Returns the number of created slots.
func (r *SlotRepository) BulkCreate(ctx context.Context, slots []models.Slot) (int, error) {
	created := 0
	for start := 0; start < len(slots); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(slots) {
			end = len(slots)
		}
		if err := r.createBatch(ctx, slots[start:end]); err != nil {
			return created, fmt.Errorf("bulk create slots batch %d: %w", start/writeBatchSize, err)
		}
		created += end - start
	}
	return created, nil
}

func (r *SlotRepository) createBatch(ctx context.Context, slots []models.Slot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin slot batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for i := range slots {
		payload := slots[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.Version == 0 {
			payload.Version = 1
		}
		if payload.CreatedUtc.IsZero() {
			payload.CreatedUtc = now
		}
		payload.UpdatedUtc = now

		if _, err = sqlx.NamedExecContext(ctx, tx, `INSERT INTO slots (id, league_id, division, game_date, start_time, end_time, start_min, end_min, field_key,
			park_name, field_name, display_name, offering_team_id, home_team_id, away_team_id, is_availability,
			is_external_offer, status, game_type, notes, schedule_run_id, confirmed_by, confirmed_utc, version,
			created_utc, updated_utc, updated_by)
			VALUES (:id, :league_id, :division, :game_date, :start_time, :end_time, :start_min, :end_min, :field_key,
			:park_name, :field_name, :display_name, :offering_team_id, :home_team_id, :away_team_id, :is_availability,
			:is_external_offer, :status, :game_type, :notes, :schedule_run_id, :confirmed_by, :confirmed_utc, :version,
			:created_utc, :updated_utc, :updated_by)`, &payload); err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
		slots[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit slot batch: %w", err)
	}
	return nil
}

// ClearOpenAvailability deletes open availability slots in a window ahead of
// regeneration. Confirmed and cancelled slots are never touched.
func (r *SlotRepository) ClearOpenAvailability(ctx context.Context, leagueID, division, dateFrom, dateTo string) (int, error) {
	const query = `DELETE FROM slots WHERE league_id = $1 AND division = $2 AND is_availability = TRUE AND status = $3 AND game_date >= $4 AND game_date <= $5`
	result, err := r.db.ExecContext(ctx, query, leagueID, division, models.SlotStatusOpen, dateFrom, dateTo)
	if err != nil {
		return 0, fmt.Errorf("clear open availability slots: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear availability rows affected: %w", err)
	}
	return int(affected), nil
}
