package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/league-sched-api/internal/models"
)

// ScheduleRunRepository provides persistence for wizard apply records.
type ScheduleRunRepository struct {
	db *sqlx.DB
}

// NewScheduleRunRepository creates a new schedule run repository.
func NewScheduleRunRepository(db *sqlx.DB) *ScheduleRunRepository {
	return &ScheduleRunRepository{db: db}
}

const runColumns = "id, league_id, division, created_by, date_from, date_to, constraints_json, summary_json, created_utc"

// Create stores a new schedule run record.
func (r *ScheduleRunRepository) Create(ctx context.Context, run *models.ScheduleRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedUtc.IsZero() {
		run.CreatedUtc = time.Now().UTC()
	}
	const query = `INSERT INTO schedule_runs (id, league_id, division, created_by, date_from, date_to, constraints_json, summary_json, created_utc)
		VALUES (:id, :league_id, :division, :created_by, :date_from, :date_to, :constraints_json, :summary_json, :created_utc)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("create schedule run: %w", err)
	}
	return nil
}

// ListByDivision returns runs newest first.
func (r *ScheduleRunRepository) ListByDivision(ctx context.Context, leagueID, division string) ([]models.ScheduleRun, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_runs WHERE league_id = $1 AND division = $2 ORDER BY created_utc DESC", runColumns)
	var runs []models.ScheduleRun
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &runs, query, leagueID, division)
	})
	if err != nil {
		return nil, fmt.Errorf("list schedule runs: %w", err)
	}
	return runs, nil
}

// FindByID loads a schedule run.
func (r *ScheduleRunRepository) FindByID(ctx context.Context, leagueID, division, runID string) (*models.ScheduleRun, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_runs WHERE league_id = $1 AND division = $2 AND id = $3", runColumns)
	var run models.ScheduleRun
	if err := r.db.GetContext(ctx, &run, query, leagueID, division, runID); err != nil {
		return nil, err
	}
	return &run, nil
}
