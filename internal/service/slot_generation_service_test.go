package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
)

type generationFixture struct {
	leagues *memLeagues
	fields  *memFields
	rules   *memRules
	slots   *memSlots
	service *SlotGenerationService
}

func newGenerationFixture(t *testing.T) *generationFixture {
	t.Helper()
	leagues := newMemLeagues("lg-1", "12U")
	fields := &memFields{fields: []models.Field{{
		LeagueID: "lg-1", ParkCode: "park-a", FieldCode: "field-1",
		ParkName: "Park A", FieldName: "Field 1", DisplayName: "Park A Field 1", IsActive: true,
	}}}
	rules := &memRules{exceptions: make(map[string][]models.AvailabilityException)}
	slots := newMemSlots()
	svc := NewSlotGenerationService(leagues, fields, rules, slots, nil, nil, nil, zap.NewNop(), SlotGenerationConfig{})
	return &generationFixture{leagues: leagues, fields: fields, rules: rules, slots: slots, service: svc}
}

func (f *generationFixture) addMondayRule(id string) {
	f.rules.rules = append(f.rules.rules, models.AvailabilityRule{
		ID:             id,
		LeagueID:       "lg-1",
		FieldKey:       "park-a/field-1",
		StartsOn:       "2025-04-07",
		EndsOn:         "2025-04-28",
		DaysOfWeek:     "Mon",
		StartTimeLocal: "18:00",
		EndTimeLocal:   "21:00",
		IsActive:       true,
	})
}

func ruleGenerationRequest(mode string) dto.GenerateSlotsRequest {
	return dto.GenerateSlotsRequest{
		Division:          "12U",
		DateFrom:          "2025-04-01",
		DateTo:            "2025-04-30",
		Mode:              mode,
		UseRules:          true,
		GameLengthMinutes: 60,
	}
}

func TestGeneratePreviewFromRules(t *testing.T) {
	fixture := newGenerationFixture(t)
	fixture.addMondayRule("R1")

	resp, err := fixture.service.Generate(context.Background(), "lg-1", ruleGenerationRequest(GenerationModePreview))
	require.NoError(t, err)

	assert.Len(t, resp.Accepted, 12)
	assert.Empty(t, resp.Conflicts)
	assert.Zero(t, resp.CreatedCount)
	// Preview writes nothing.
	assert.Empty(t, fixture.slots.slots)
}

func TestGenerateApplyPersistsSlots(t *testing.T) {
	fixture := newGenerationFixture(t)
	fixture.addMondayRule("R1")

	resp, err := fixture.service.Generate(context.Background(), "lg-1", ruleGenerationRequest(GenerationModeApply))
	require.NoError(t, err)
	assert.Equal(t, 12, resp.CreatedCount)

	for _, slot := range fixture.slots.slots {
		assert.True(t, slot.IsAvailability)
		assert.Equal(t, models.SlotStatusOpen, slot.Status)
		assert.Equal(t, models.OfferingTeamAvailable, slot.OfferingTeamID)
		assert.Equal(t, "Park A", slot.ParkName)
	}
}

func TestGenerateSecondApplyConflictsEverywhere(t *testing.T) {
	fixture := newGenerationFixture(t)
	fixture.addMondayRule("R1")

	_, err := fixture.service.Generate(context.Background(), "lg-1", ruleGenerationRequest(GenerationModeApply))
	require.NoError(t, err)

	resp, err := fixture.service.Generate(context.Background(), "lg-1", ruleGenerationRequest(GenerationModeApply))
	require.NoError(t, err)
	assert.Empty(t, resp.Accepted)
	assert.Equal(t, 12, resp.ConflictCount)
	assert.Len(t, fixture.slots.slots, 12)
}

func TestGenerateRegenerateClearsOpenAvailability(t *testing.T) {
	fixture := newGenerationFixture(t)
	fixture.addMondayRule("R1")

	_, err := fixture.service.Generate(context.Background(), "lg-1", ruleGenerationRequest(GenerationModeApply))
	require.NoError(t, err)

	// A confirmed slot in the window must survive regeneration; its range
	// stays occupied.
	var confirmedID string
	for id, slot := range fixture.slots.slots {
		if slot.GameDate == "2025-04-14" && slot.StartTime == "18:00" {
			slot.IsAvailability = false
			slot.Status = models.SlotStatusConfirmed
			confirmedID = id
			break
		}
	}
	require.NotEmpty(t, confirmedID)

	resp, err := fixture.service.Generate(context.Background(), "lg-1", ruleGenerationRequest(GenerationModeRegenerate))
	require.NoError(t, err)

	assert.Equal(t, 11, resp.ClearedCount)
	assert.Equal(t, 11, resp.CreatedCount)
	assert.Equal(t, 1, resp.ConflictCount)

	survivor, ok := fixture.slots.slots[confirmedID]
	require.True(t, ok)
	assert.Equal(t, models.SlotStatusConfirmed, survivor.Status)
}

func TestGenerateFixedWindow(t *testing.T) {
	fixture := newGenerationFixture(t)

	resp, err := fixture.service.Generate(context.Background(), "lg-1", dto.GenerateSlotsRequest{
		Division:          "12U",
		DateFrom:          "2025-06-01",
		DateTo:            "2025-06-07",
		Mode:              GenerationModePreview,
		FieldKey:          "park-a/field-1",
		DaysOfWeek:        []string{"Wed", "Sat"},
		StartTime:         "10:00",
		EndTime:           "12:00",
		GameLengthMinutes: 60,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Accepted, 4)
}

func TestGenerateRespectsExceptionAndBlackout(t *testing.T) {
	fixture := newGenerationFixture(t)
	fixture.addMondayRule("R1")
	fixture.rules.exceptions["R1"] = []models.AvailabilityException{{
		RuleID:         "R1",
		DateFrom:       "2025-04-14",
		DateTo:         "2025-04-14",
		StartTimeLocal: "18:00",
		EndTimeLocal:   "21:00",
	}}
	fixture.leagues.setSeasonConfig(`{"gameLengthMinutes":60,"blackouts":[{"startDate":"2025-04-21","endDate":"2025-04-27","label":"Spring Break"}]}`)

	resp, err := fixture.service.Generate(context.Background(), "lg-1", ruleGenerationRequest(GenerationModePreview))
	require.NoError(t, err)

	// 2025-04-14 is suppressed by the exception, 2025-04-21 by the blackout.
	assert.Len(t, resp.Accepted, 6)
	for _, view := range resp.Accepted {
		assert.NotEqual(t, "2025-04-14", view.GameDate)
		assert.NotEqual(t, "2025-04-21", view.GameDate)
	}
}

func TestGenerateRejectsBadWindow(t *testing.T) {
	fixture := newGenerationFixture(t)
	req := ruleGenerationRequest(GenerationModePreview)
	req.DateFrom = "2025-05-01"
	req.DateTo = "2025-04-01"
	_, err := fixture.service.Generate(context.Background(), "lg-1", req)
	assert.Error(t, err)
}
