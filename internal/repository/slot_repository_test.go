package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/league-sched-api/internal/models"
	appErrors "github.com/noah-isme/league-sched-api/pkg/errors"
)

func newSlotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sampleSlot() *models.Slot {
	return &models.Slot{
		ID:        "s1",
		LeagueID:  "lg-1",
		Division:  "12U",
		GameDate:  "2025-05-03",
		StartTime: "10:00",
		EndTime:   "11:00",
		StartMin:  600,
		EndMin:    660,
		FieldKey:  "park-a/field-1",
		Status:    models.SlotStatusOpen,
		Version:   3,
	}
}

func TestSlotRepositoryUpdateVersionedConflict(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	// Zero affected rows means the version token went stale.
	mock.ExpectExec("UPDATE slots SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateVersioned(context.Background(), sampleSlot(), 3)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrVersionConflict.Code, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryUpdateVersionedBumpsVersion(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectExec("UPDATE slots SET").WillReturnResult(sqlmock.NewResult(0, 1))

	slot := sampleSlot()
	require.NoError(t, repo.UpdateVersioned(context.Background(), slot, 3))
	assert.Equal(t, 4, slot.Version)
	assert.False(t, slot.UpdatedUtc.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryBulkCreateBatches(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	// 150 slots split into a batch of 100 and a batch of 50, each in its own
	// transaction.
	slots := make([]models.Slot, 150)
	for i := range slots {
		slots[i] = *sampleSlot()
		slots[i].ID = ""
		slots[i].Version = 0
	}

	for _, batch := range []int{100, 50} {
		mock.ExpectBegin()
		for i := 0; i < batch; i++ {
			mock.ExpectExec("INSERT INTO slots").WillReturnResult(sqlmock.NewResult(1, 1))
		}
		mock.ExpectCommit()
	}

	created, err := repo.BulkCreate(context.Background(), slots)
	require.NoError(t, err)
	assert.Equal(t, 150, created)
	assert.NoError(t, mock.ExpectationsWereMet())

	for _, slot := range slots {
		assert.NotEmpty(t, slot.ID)
		assert.Equal(t, 1, slot.Version)
	}
}

func TestSlotRepositoryBulkCreateBatchFailureKeepsEarlierBatches(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	slots := make([]models.Slot, 120)
	for i := range slots {
		slots[i] = *sampleSlot()
		slots[i].ID = ""
	}

	mock.ExpectBegin()
	for i := 0; i < 100; i++ {
		mock.ExpectExec("INSERT INTO slots").WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO slots").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	created, err := repo.BulkCreate(context.Background(), slots)
	require.Error(t, err)
	assert.Equal(t, 100, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryQueryFilters(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	columns := []string{"id", "league_id", "division", "game_date", "start_time", "end_time", "start_min", "end_min", "field_key"}
	mock.ExpectQuery("(?s)SELECT .+ FROM slots WHERE league_id = \\$1 AND division = \\$2 AND status = \\$3").
		WithArgs("lg-1", "12U", string(models.SlotStatusOpen)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("s1", "lg-1", "12U", "2025-05-03", "10:00", "11:00", 600, 660, "park-a/field-1"))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM slots WHERE league_id = \\$1 AND division = \\$2 AND status = \\$3").
		WithArgs("lg-1", "12U", string(models.SlotStatusOpen)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	slots, total, err := repo.Query(context.Background(), models.SlotFilter{
		LeagueID:            "lg-1",
		Division:            "12U",
		Status:              models.SlotStatusOpen,
		IncludeAvailability: true,
	})
	require.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
