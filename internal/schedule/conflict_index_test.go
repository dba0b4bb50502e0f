package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-sched-api/internal/models"
)

func confirmedSlot(id, fieldKey, date, start, end string) models.Slot {
	startMin := ParseMinutes(start)
	endMin := ParseMinutes(end)
	return models.Slot{
		ID:        id,
		LeagueID:  "lg-1",
		Division:  "12U",
		GameDate:  date,
		StartTime: start,
		EndTime:   end,
		StartMin:  startMin,
		EndMin:    endMin,
		FieldKey:  fieldKey,
		Status:    models.SlotStatusConfirmed,
	}
}

func TestConflictIndexDetectsOverlapOnEdit(t *testing.T) {
	ix := NewConflictIndex()
	ix.Load([]models.Slot{confirmedSlot("s1", "park-a/field-1", "2025-05-03", "10:00", "11:30")}, false)

	key := BucketKey("park-a/field-1", mustDate(t, "2025-05-03"))

	// 11:00-12:00 overlaps the existing 10:00-11:30 booking.
	assert.True(t, ix.HasOverlap(key, ParseMinutes("11:00"), ParseMinutes("12:00")))
	assert.Equal(t, 1, ix.CountOverlaps(key, ParseMinutes("11:00"), ParseMinutes("12:00")))

	// 11:30-12:30 only shares an edge and is allowed.
	assert.False(t, ix.HasOverlap(key, ParseMinutes("11:30"), ParseMinutes("12:30")))
}

func TestConflictIndexKeyIsCaseInsensitiveOnField(t *testing.T) {
	ix := NewConflictIndex()
	ix.Load([]models.Slot{confirmedSlot("s1", "Park-A/Field-1", "2025-05-03", "10:00", "11:00")}, false)

	key := BucketKey("park-a/field-1", mustDate(t, "2025-05-03"))
	assert.True(t, ix.HasOverlap(key, 600, 630))
}

func TestConflictIndexSkipsCancelledAndAvailability(t *testing.T) {
	cancelled := confirmedSlot("s1", "park-a/field-1", "2025-05-03", "10:00", "11:00")
	cancelled.Status = models.SlotStatusCancelled

	avail := confirmedSlot("s2", "park-a/field-1", "2025-05-03", "10:00", "11:00")
	avail.Status = models.SlotStatusOpen
	avail.IsAvailability = true

	ix := NewConflictIndex()
	ix.Load([]models.Slot{cancelled, avail}, false)
	key := BucketKey("park-a/field-1", mustDate(t, "2025-05-03"))
	assert.False(t, ix.HasOverlap(key, 600, 660))

	withAvail := NewConflictIndex()
	withAvail.Load([]models.Slot{cancelled, avail}, true)
	assert.True(t, withAvail.HasOverlap(key, 600, 660))
}

func TestSplitByOverlapIsTotalAndOrderSensitive(t *testing.T) {
	ix := NewConflictIndex()
	ix.Load([]models.Slot{confirmedSlot("s1", "park-a/field-1", "2025-05-03", "10:00", "11:00")}, false)

	candidates := []Candidate{
		{GameDate: mustDate(t, "2025-05-03"), StartMin: 630, EndMin: 690, FieldKey: "park-a/field-1"}, // hits s1
		{GameDate: mustDate(t, "2025-05-03"), StartMin: 660, EndMin: 720, FieldKey: "park-a/field-1"}, // clean
		{GameDate: mustDate(t, "2025-05-03"), StartMin: 660, EndMin: 720, FieldKey: "park-a/field-1"}, // duplicate of accepted
		{GameDate: mustDate(t, "2025-05-03"), StartMin: 660, EndMin: 720, FieldKey: "park-b/field-9"}, // other field
	}

	accepted, conflicts := ix.SplitByOverlap(candidates)
	require.Len(t, accepted, 2)
	require.Len(t, conflicts, 2)
	assert.Equal(t, len(candidates), len(accepted)+len(conflicts))

	assert.Equal(t, 660, accepted[0].StartMin)
	assert.Equal(t, "park-a/field-1", accepted[0].FieldKey)
	assert.Equal(t, "park-b/field-9", accepted[1].FieldKey)
	assert.Equal(t, 630, conflicts[0].StartMin)
}

func TestSplitByOverlapEmptyInput(t *testing.T) {
	ix := NewConflictIndex()
	accepted, conflicts := ix.SplitByOverlap(nil)
	assert.Empty(t, accepted)
	assert.Empty(t, conflicts)
}
