package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/league-sched-api/internal/dto"
	"github.com/noah-isme/league-sched-api/internal/models"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

func newSlotServiceFixture(t *testing.T) (*SlotService, *memSlots) {
	t.Helper()
	slots := newMemSlots()
	svc := NewSlotService(slots, nil, nil, zap.NewNop())
	return svc, slots
}

func TestSlotUpdateRejectsOverlap(t *testing.T) {
	svc, slots := newSlotServiceFixture(t)

	confirmed := availabilitySlot("s1", "lg-1", "12U", "park-a/field-1", "2025-05-03", "10:00", "11:30")
	confirmed.IsAvailability = false
	confirmed.Status = models.SlotStatusConfirmed
	slots.add(confirmed)

	edited := availabilitySlot("s2", "lg-1", "12U", "park-a/field-1", "2025-05-03", "14:00", "15:00")
	edited.IsAvailability = false
	slots.add(edited)

	// 11:00-12:00 collides with the 10:00-11:30 booking.
	_, conflict, err := svc.Update(context.Background(), "lg-1", "12U", "s2", "tester", dto.UpdateSlotRequest{
		StartTime: "11:00",
		EndTime:   "12:00",
		Version:   1,
	})
	require.Error(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, 1, conflict.ConflictCount)
	assert.Equal(t, "park-a/field-1", conflict.FieldKey)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSlotOverlap.Code, appErr.Code)

	// The rejected edit must not have landed.
	stored, getErr := svc.Get(context.Background(), "lg-1", "12U", "s2")
	require.NoError(t, getErr)
	assert.Equal(t, "14:00", stored.StartTime)
}

func TestSlotUpdateAllowsEdgeAdjacent(t *testing.T) {
	svc, slots := newSlotServiceFixture(t)

	confirmed := availabilitySlot("s1", "lg-1", "12U", "park-a/field-1", "2025-05-03", "10:00", "11:30")
	confirmed.IsAvailability = false
	confirmed.Status = models.SlotStatusConfirmed
	slots.add(confirmed)

	edited := availabilitySlot("s2", "lg-1", "12U", "park-a/field-1", "2025-05-03", "14:00", "15:00")
	edited.IsAvailability = false
	slots.add(edited)

	// 11:30-12:30 only shares an edge with the existing booking.
	updated, conflict, err := svc.Update(context.Background(), "lg-1", "12U", "s2", "tester", dto.UpdateSlotRequest{
		StartTime: "11:30",
		EndTime:   "12:30",
		Version:   1,
	})
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, "11:30", updated.StartTime)
	assert.Equal(t, 2, updated.Version)
}

func TestSlotUpdateIgnoresOwnRange(t *testing.T) {
	svc, slots := newSlotServiceFixture(t)
	edited := availabilitySlot("s1", "lg-1", "12U", "park-a/field-1", "2025-05-03", "10:00", "11:00")
	edited.IsAvailability = false
	slots.add(edited)

	// Shrinking inside its own original window must not self-conflict.
	_, conflict, err := svc.Update(context.Background(), "lg-1", "12U", "s1", "tester", dto.UpdateSlotRequest{
		StartTime: "10:00",
		EndTime:   "10:30",
		Version:   1,
	})
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestSlotUpdateInvalidRange(t *testing.T) {
	svc, slots := newSlotServiceFixture(t)
	slots.add(availabilitySlot("s1", "lg-1", "12U", "park-a/field-1", "2025-05-03", "10:00", "11:00"))

	_, _, err := svc.Update(context.Background(), "lg-1", "12U", "s1", "tester", dto.UpdateSlotRequest{
		StartTime: "12:00",
		EndTime:   "11:00",
		Version:   1,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSlotUpdateVersionConflict(t *testing.T) {
	svc, slots := newSlotServiceFixture(t)
	slots.add(availabilitySlot("s1", "lg-1", "12U", "park-a/field-1", "2025-05-03", "10:00", "11:00"))

	_, _, err := svc.Update(context.Background(), "lg-1", "12U", "s1", "tester", dto.UpdateSlotRequest{
		StartTime: "12:00",
		EndTime:   "13:00",
		Version:   7,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrVersionConflict.Code, appErr.Code)
}

func TestSlotUpdateNotFound(t *testing.T) {
	svc, _ := newSlotServiceFixture(t)
	_, _, err := svc.Update(context.Background(), "lg-1", "12U", "missing", "tester", dto.UpdateSlotRequest{Version: 1})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
