package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/league-sched-api/internal/models"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

// In-memory store fakes shared by the service tests.

type memLeagues struct {
	league    *models.League
	divisions map[string]models.Division
}

func newMemLeagues(leagueID string, divisionCodes ...string) *memLeagues {
	divisions := make(map[string]models.Division, len(divisionCodes))
	for _, code := range divisionCodes {
		divisions[code] = models.Division{LeagueID: leagueID, Code: code, Name: code, IsActive: true}
	}
	return &memLeagues{
		league:    &models.League{ID: leagueID, Name: leagueID, Timezone: "America/New_York", Status: models.LeagueStatusActive},
		divisions: divisions,
	}
}

func (m *memLeagues) FindByID(_ context.Context, id string) (*models.League, error) {
	if m.league == nil || m.league.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.league, nil
}

func (m *memLeagues) List(context.Context) ([]models.League, error) {
	if m.league == nil {
		return nil, nil
	}
	return []models.League{*m.league}, nil
}

func (m *memLeagues) Create(_ context.Context, league *models.League) error {
	m.league = league
	return nil
}

func (m *memLeagues) Update(_ context.Context, league *models.League) error {
	m.league = league
	return nil
}

func (m *memLeagues) ListDivisions(_ context.Context, string) ([]models.Division, error) {
	out := make([]models.Division, 0, len(m.divisions))
	for _, d := range m.divisions {
		out = append(out, d)
	}
	return out, nil
}

func (m *memLeagues) FindDivision(_ context.Context, leagueID, code string) (*models.Division, error) {
	d, ok := m.divisions[code]
	if !ok || d.LeagueID != leagueID {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (m *memLeagues) setSeasonConfig(raw string) {
	m.league.SeasonConfig = types.JSONText(raw)
}

type memTeams struct {
	teams []models.Team
}

func newMemTeams(leagueID, division string, ids ...string) *memTeams {
	teams := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		teams = append(teams, models.Team{LeagueID: leagueID, Division: division, ID: id, Name: id})
	}
	return &memTeams{teams: teams}
}

func (m *memTeams) ListByDivision(_ context.Context, leagueID, division string) ([]models.Team, error) {
	var out []models.Team
	for _, t := range m.teams {
		if t.LeagueID == leagueID && t.Division == division {
			out = append(out, t)
		}
	}
	return out, nil
}

type memSlots struct {
	mu    sync.Mutex
	slots map[string]*models.Slot

	updateCalls int
	failVersion map[string]bool
}

func newMemSlots() *memSlots {
	return &memSlots{slots: make(map[string]*models.Slot), failVersion: make(map[string]bool)}
}

func (m *memSlots) add(slot models.Slot) {
	if slot.Version == 0 {
		slot.Version = 1
	}
	m.slots[slot.ID] = &slot
}

func (m *memSlots) ListWindow(_ context.Context, leagueID, division, fieldKey, dateFrom, dateTo string) ([]models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Slot
	for _, slot := range m.slots {
		if slot.LeagueID != leagueID || slot.Status == models.SlotStatusCancelled {
			continue
		}
		if division != "" && slot.Division != division {
			continue
		}
		if fieldKey != "" && !strings.EqualFold(slot.FieldKey, fieldKey) {
			continue
		}
		if dateFrom != "" && slot.GameDate < dateFrom {
			continue
		}
		if dateTo != "" && slot.GameDate > dateTo {
			continue
		}
		out = append(out, *slot)
	}
	return out, nil
}

func (m *memSlots) Query(_ context.Context, filter models.SlotFilter) ([]models.Slot, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Slot
	for _, slot := range m.slots {
		if slot.LeagueID != filter.LeagueID {
			continue
		}
		if filter.Division != "" && slot.Division != filter.Division {
			continue
		}
		if filter.Status != "" && slot.Status != filter.Status {
			continue
		}
		if !filter.IncludeAvailability && slot.IsAvailability {
			continue
		}
		out = append(out, *slot)
	}
	return out, len(out), nil
}

func (m *memSlots) FindByID(_ context.Context, leagueID, division, slotID string) (*models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[slotID]
	if !ok || slot.LeagueID != leagueID || slot.Division != division {
		return nil, sql.ErrNoRows
	}
	copied := *slot
	return &copied, nil
}

func (m *memSlots) ListByFieldAndDate(_ context.Context, leagueID, fieldKey, gameDate string) ([]models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Slot
	for _, slot := range m.slots {
		if slot.LeagueID != leagueID || slot.Status == models.SlotStatusCancelled {
			continue
		}
		if !strings.EqualFold(slot.FieldKey, fieldKey) || slot.GameDate != gameDate {
			continue
		}
		out = append(out, *slot)
	}
	return out, nil
}

func (m *memSlots) UpdateVersioned(_ context.Context, slot *models.Slot, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	stored, ok := m.slots[slot.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if m.failVersion[slot.ID] || stored.Version != expectedVersion {
		return appErrors.Clone(appErrors.ErrVersionConflict, fmt.Sprintf("slot %s changed since it was read", slot.ID))
	}
	slot.Version = expectedVersion + 1
	slot.UpdatedUtc = time.Now().UTC()
	copied := *slot
	m.slots[slot.ID] = &copied
	return nil
}

func (m *memSlots) BulkCreate(_ context.Context, slots []models.Slot) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = fmt.Sprintf("gen-%d", len(m.slots)+i+1)
		}
		if slots[i].Version == 0 {
			slots[i].Version = 1
		}
		copied := slots[i]
		m.slots[copied.ID] = &copied
	}
	return len(slots), nil
}

func (m *memSlots) ClearOpenAvailability(_ context.Context, leagueID, division, dateFrom, dateTo string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cleared := 0
	for id, slot := range m.slots {
		if slot.LeagueID != leagueID || slot.Division != division {
			continue
		}
		if !slot.IsAvailability || slot.Status != models.SlotStatusOpen {
			continue
		}
		if slot.GameDate < dateFrom || slot.GameDate > dateTo {
			continue
		}
		delete(m.slots, id)
		cleared++
	}
	return cleared, nil
}

type memRuns struct {
	runs []models.ScheduleRun
}

func (m *memRuns) Create(_ context.Context, run *models.ScheduleRun) error {
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memRuns) ListByDivision(_ context.Context, leagueID, division string) ([]models.ScheduleRun, error) {
	var out []models.ScheduleRun
	for _, run := range m.runs {
		if run.LeagueID == leagueID && run.Division == division {
			out = append(out, run)
		}
	}
	return out, nil
}

func (m *memRuns) FindByID(_ context.Context, leagueID, division, runID string) (*models.ScheduleRun, error) {
	for _, run := range m.runs {
		if run.LeagueID == leagueID && run.Division == division && run.ID == runID {
			copied := run
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

type memRules struct {
	rules      []models.AvailabilityRule
	exceptions map[string][]models.AvailabilityException
}

func (m *memRules) ListActive(_ context.Context, leagueID, fieldKey, dateFrom, dateTo string) ([]models.AvailabilityRule, error) {
	var out []models.AvailabilityRule
	for _, rule := range m.rules {
		if rule.LeagueID != leagueID || !rule.IsActive {
			continue
		}
		if fieldKey != "" && !strings.EqualFold(rule.FieldKey, fieldKey) {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

func (m *memRules) ListExceptionsByRules(_ context.Context, ruleIDs []string) (map[string][]models.AvailabilityException, error) {
	result := make(map[string][]models.AvailabilityException)
	for _, id := range ruleIDs {
		if exceptions, ok := m.exceptions[id]; ok {
			result[id] = exceptions
		}
	}
	return result, nil
}

type memFields struct {
	fields []models.Field
}

func (m *memFields) ListByLeague(_ context.Context, leagueID string) ([]models.Field, error) {
	var out []models.Field
	for _, field := range m.fields {
		if field.LeagueID == leagueID {
			out = append(out, field)
		}
	}
	return out, nil
}

type memAllocations struct {
	allocations []models.FieldAllocation
}

func (m *memAllocations) ListActiveByField(_ context.Context, leagueID, fieldKey string) ([]models.FieldAllocation, error) {
	var out []models.FieldAllocation
	for _, alloc := range m.allocations {
		if alloc.LeagueID == leagueID && alloc.IsActive && strings.EqualFold(alloc.FieldKey, fieldKey) {
			out = append(out, alloc)
		}
	}
	return out, nil
}

func (m *memAllocations) ListByLeague(_ context.Context, leagueID string) ([]models.FieldAllocation, error) {
	var out []models.FieldAllocation
	for _, alloc := range m.allocations {
		if alloc.LeagueID == leagueID {
			out = append(out, alloc)
		}
	}
	return out, nil
}

func (m *memAllocations) BulkCreate(_ context.Context, allocations []models.FieldAllocation) (int, error) {
	for i := range allocations {
		if allocations[i].ID == "" {
			allocations[i].ID = fmt.Sprintf("alloc-%d", len(m.allocations)+i+1)
		}
	}
	m.allocations = append(m.allocations, allocations...)
	return len(allocations), nil
}

func (m *memAllocations) DeactivateByLeague(_ context.Context, leagueID string) error {
	for i := range m.allocations {
		if m.allocations[i].LeagueID == leagueID {
			m.allocations[i].IsActive = false
		}
	}
	return nil
}

// availabilitySlot builds an open availability slot for tests.
func availabilitySlot(id, leagueID, division, fieldKey, gameDate, start, end string) models.Slot {
	return models.Slot{
		ID:             id,
		LeagueID:       leagueID,
		Division:       division,
		GameDate:       gameDate,
		StartTime:      start,
		EndTime:        end,
		StartMin:       minutesOf(start),
		EndMin:         minutesOf(end),
		FieldKey:       fieldKey,
		OfferingTeamID: models.OfferingTeamAvailable,
		IsAvailability: true,
		Status:         models.SlotStatusOpen,
		Version:        1,
	}
}

func minutesOf(raw string) int {
	var h, m int
	_, _ = fmt.Sscanf(raw, "%d:%d", &h, &m)
	return h*60 + m
}
