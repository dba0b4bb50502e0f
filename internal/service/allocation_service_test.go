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

func allocationEntry(fieldKey, startTime, endTime string, days ...string) dto.AllocationImportEntry {
	return dto.AllocationImportEntry{
		Scope:      "LEAGUE",
		FieldKey:   fieldKey,
		StartsOn:   "2025-04-01",
		EndsOn:     "2025-06-30",
		DaysOfWeek: days,
		StartTime:  startTime,
		EndTime:    endTime,
		SlotType:   "game",
	}
}

func TestAllocationImportAcceptsDisjointRows(t *testing.T) {
	store := &memAllocations{}
	svc := NewAllocationService(store, nil, zap.NewNop())

	resp, err := svc.Import(context.Background(), "lg-1", dto.AllocationImportRequest{
		Allocations: []dto.AllocationImportEntry{
			allocationEntry("park-a/field-1", "18:00", "20:00", "Mon"),
			allocationEntry("park-a/field-1", "18:00", "20:00", "Wed"),
			allocationEntry("park-b/field-2", "18:00", "20:00", "Mon"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.ImportedCount)
	assert.Zero(t, resp.RejectedCount)
}

func TestAllocationImportRejectsOverlapWithinBatch(t *testing.T) {
	store := &memAllocations{}
	svc := NewAllocationService(store, nil, zap.NewNop())

	resp, err := svc.Import(context.Background(), "lg-1", dto.AllocationImportRequest{
		Allocations: []dto.AllocationImportEntry{
			allocationEntry("park-a/field-1", "18:00", "20:00", "Mon"),
			allocationEntry("PARK-A/FIELD-1", "19:00", "21:00", "Mon"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ImportedCount)
	assert.Equal(t, 1, resp.RejectedCount)
	require.Len(t, resp.Rejections, 1)
	assert.Contains(t, resp.Rejections[0], "row 2")
}

func TestAllocationImportRejectsOverlapWithStored(t *testing.T) {
	store := &memAllocations{allocations: []models.FieldAllocation{{
		ID:             "existing",
		LeagueID:       "lg-1",
		Scope:          "LEAGUE",
		FieldKey:       "park-a/field-1",
		StartsOn:       "2025-04-01",
		EndsOn:         "2025-06-30",
		DaysOfWeek:     "Mon",
		StartTimeLocal: "18:00",
		EndTimeLocal:   "20:00",
		SlotType:       models.AllocationSlotGame,
		IsActive:       true,
	}}}
	svc := NewAllocationService(store, nil, zap.NewNop())

	resp, err := svc.Import(context.Background(), "lg-1", dto.AllocationImportRequest{
		Allocations: []dto.AllocationImportEntry{
			allocationEntry("park-a/field-1", "19:00", "21:00", "Mon"),
		},
	})
	require.NoError(t, err)
	assert.Zero(t, resp.ImportedCount)
	assert.Equal(t, 1, resp.RejectedCount)
}

func TestAllocationImportEdgeAdjacentRowsDoNotConflict(t *testing.T) {
	store := &memAllocations{}
	svc := NewAllocationService(store, nil, zap.NewNop())

	resp, err := svc.Import(context.Background(), "lg-1", dto.AllocationImportRequest{
		Allocations: []dto.AllocationImportEntry{
			allocationEntry("park-a/field-1", "18:00", "20:00", "Mon"),
			allocationEntry("park-a/field-1", "20:00", "22:00", "Mon"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ImportedCount)
	assert.Zero(t, resp.RejectedCount)
}

func TestAllocationImportReplaceAllSkipsStoredCheck(t *testing.T) {
	store := &memAllocations{allocations: []models.FieldAllocation{{
		ID:             "existing",
		LeagueID:       "lg-1",
		Scope:          "LEAGUE",
		FieldKey:       "park-a/field-1",
		StartsOn:       "2025-04-01",
		EndsOn:         "2025-06-30",
		DaysOfWeek:     "Mon",
		StartTimeLocal: "18:00",
		EndTimeLocal:   "20:00",
		SlotType:       models.AllocationSlotGame,
		IsActive:       true,
	}}}
	svc := NewAllocationService(store, nil, zap.NewNop())

	resp, err := svc.Import(context.Background(), "lg-1", dto.AllocationImportRequest{
		ReplaceAll: true,
		Allocations: []dto.AllocationImportEntry{
			allocationEntry("park-a/field-1", "18:00", "20:00", "Mon"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ImportedCount)
	assert.False(t, store.allocations[0].IsActive, "pre-existing allocation should be deactivated")
}

func TestAllocationImportRejectsMalformedRow(t *testing.T) {
	store := &memAllocations{}
	svc := NewAllocationService(store, nil, zap.NewNop())

	bad := allocationEntry("park-a/field-1", "20:00", "18:00", "Mon")
	resp, err := svc.Import(context.Background(), "lg-1", dto.AllocationImportRequest{
		Allocations: []dto.AllocationImportEntry{bad},
	})
	require.NoError(t, err)
	assert.Zero(t, resp.ImportedCount)
	assert.Equal(t, 1, resp.RejectedCount)
}
