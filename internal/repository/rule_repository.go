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

// RuleRepository provides persistence for availability rules and their
// exceptions.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

const ruleColumns = "id, league_id, field_key, division, division_ids, starts_on, ends_on, days_of_week, start_time_local, end_time_local, recurrence_pattern, timezone, is_active, created_at, updated_at"

// ListActive returns active rules whose date span intersects the window,
// optionally restricted to one field.
func (r *RuleRepository) ListActive(ctx context.Context, leagueID, fieldKey, dateFrom, dateTo string) ([]models.AvailabilityRule, error) {
	base := fmt.Sprintf("SELECT %s FROM availability_rules WHERE league_id = $1 AND is_active = TRUE AND starts_on <= $2 AND ends_on >= $3", ruleColumns)
	args := []interface{}{leagueID, dateTo, dateFrom}
	if fieldKey != "" {
		base += fmt.Sprintf(" AND LOWER(field_key) = $%d", len(args)+1)
		args = append(args, strings.ToLower(fieldKey))
	}
	base += " ORDER BY field_key ASC, starts_on ASC"

	var rules []models.AvailabilityRule
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &rules, base, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list active rules: %w", err)
	}
	return rules, nil
}

// FindByID loads a rule by id.
func (r *RuleRepository) FindByID(ctx context.Context, leagueID, ruleID string) (*models.AvailabilityRule, error) {
	query := fmt.Sprintf("SELECT %s FROM availability_rules WHERE league_id = $1 AND id = $2", ruleColumns)
	var rule models.AvailabilityRule
	if err := r.db.GetContext(ctx, &rule, query, leagueID, ruleID); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Create stores a new rule record.
func (r *RuleRepository) Create(ctx context.Context, rule *models.AvailabilityRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	const query = `INSERT INTO availability_rules (id, league_id, field_key, division, division_ids, starts_on, ends_on, days_of_week, start_time_local, end_time_local, recurrence_pattern, timezone, is_active, created_at, updated_at)
		VALUES (:id, :league_id, :field_key, :division, :division_ids, :starts_on, :ends_on, :days_of_week, :start_time_local, :end_time_local, :recurrence_pattern, :timezone, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("create availability rule: %w", err)
	}
	return nil
}

// Update modifies a rule record.
func (r *RuleRepository) Update(ctx context.Context, rule *models.AvailabilityRule) error {
	rule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE availability_rules SET field_key = :field_key, division = :division, division_ids = :division_ids,
		starts_on = :starts_on, ends_on = :ends_on, days_of_week = :days_of_week, start_time_local = :start_time_local,
		end_time_local = :end_time_local, timezone = :timezone, is_active = :is_active, updated_at = :updated_at
		WHERE league_id = :league_id AND id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("update availability rule: %w", err)
	}
	return nil
}

// Delete removes a rule and its exceptions.
func (r *RuleRepository) Delete(ctx context.Context, leagueID, ruleID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM availability_exceptions WHERE rule_id = $1`, ruleID); err != nil {
		return fmt.Errorf("delete rule exceptions: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM availability_rules WHERE league_id = $1 AND id = $2`, leagueID, ruleID); err != nil {
		return fmt.Errorf("delete availability rule: %w", err)
	}
	return nil
}

// ListExceptionsByRule returns exceptions for one rule.
func (r *RuleRepository) ListExceptionsByRule(ctx context.Context, ruleID string) ([]models.AvailabilityException, error) {
	const query = `SELECT id, rule_id, date_from, date_to, start_time_local, end_time_local, reason, created_at FROM availability_exceptions WHERE rule_id = $1 ORDER BY date_from ASC`
	var exceptions []models.AvailabilityException
	err := withRetry(ctx, func() error {
		return r.db.SelectContext(ctx, &exceptions, query, ruleID)
	})
	if err != nil {
		return nil, fmt.Errorf("list exceptions by rule: %w", err)
	}
	return exceptions, nil
}

// ListExceptionsByRules loads exceptions for many rules keyed by rule id.
func (r *RuleRepository) ListExceptionsByRules(ctx context.Context, ruleIDs []string) (map[string][]models.AvailabilityException, error) {
	result := make(map[string][]models.AvailabilityException, len(ruleIDs))
	if len(ruleIDs) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(`SELECT id, rule_id, date_from, date_to, start_time_local, end_time_local, reason, created_at FROM availability_exceptions WHERE rule_id IN (?) ORDER BY date_from ASC`, ruleIDs)
	if err != nil {
		return nil, fmt.Errorf("build exceptions query: %w", err)
	}
	query = r.db.Rebind(query)

	var exceptions []models.AvailabilityException
	if err := r.db.SelectContext(ctx, &exceptions, query, args...); err != nil {
		return nil, fmt.Errorf("list exceptions by rules: %w", err)
	}
	for _, exc := range exceptions {
		result[exc.RuleID] = append(result[exc.RuleID], exc)
	}
	return result, nil
}

// CreateException stores a new exception record.
func (r *RuleRepository) CreateException(ctx context.Context, exc *models.AvailabilityException) error {
	if exc.ID == "" {
		exc.ID = uuid.NewString()
	}
	if exc.CreatedAt.IsZero() {
		exc.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO availability_exceptions (id, rule_id, date_from, date_to, start_time_local, end_time_local, reason, created_at)
		VALUES (:id, :rule_id, :date_from, :date_to, :start_time_local, :end_time_local, :reason, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exc); err != nil {
		return fmt.Errorf("create availability exception: %w", err)
	}
	return nil
}

// DeleteException removes an exception.
func (r *RuleRepository) DeleteException(ctx context.Context, ruleID, exceptionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM availability_exceptions WHERE rule_id = $1 AND id = $2`, ruleID, exceptionID); err != nil {
		return fmt.Errorf("delete availability exception: %w", err)
	}
	return nil
}
