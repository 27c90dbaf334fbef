package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/onboarding-portal/api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB wires a sqlmock connection behind a GORM session so the
// repository's SQL can be asserted without a live database.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGroupByCategoryJoinsCompletionRecords(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewProgressRepository(gormDB)

	rows := sqlmock.NewRows([]string{"label", "total", "completed"}).
		AddRow("security", 3, 1).
		AddRow("processes", 2, 2).
		AddRow("", 1, 0)

	mock.ExpectQuery(`LEFT JOIN completion_records`).
		WithArgs(uint64(7)).
		WillReturnRows(rows)

	stats, err := repo.GroupByCategory(7)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	require.Equal(t, "security", stats[0].Label)
	require.Equal(t, int64(3), stats[0].Total)
	require.Equal(t, int64(1), stats[0].Completed)

	// Tasks without a category aggregate under the empty label.
	require.Equal(t, "", stats[2].Label)
	require.Equal(t, int64(0), stats[2].Completed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupByStageUsesStageColumn(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewProgressRepository(gormDB)

	mock.ExpectQuery(`GROUP BY tasks.stage`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"label", "total", "completed"}).
			AddRow("stage1", 4, 4).
			AddRow("stage2", 2, 0))

	stats, err := repo.GroupByStage(7)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, "stage1", stats[0].Label)
	require.Equal(t, int64(4), stats[0].Completed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountIncompleteInStageCountsMissingRecords(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewProgressRepository(gormDB)

	// Both absent records and explicit completed = false rows count as
	// incomplete.
	mock.ExpectQuery(`completion_records.id IS NULL OR completion_records.completed`).
		WithArgs(uint64(7), "stage1", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	remaining, err := repo.CountIncompleteInStage(7, models.StageOne)
	require.NoError(t, err)
	require.Equal(t, int64(2), remaining)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertTargetsUserTaskPair(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewProgressRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `completion_records`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	now := time.Now()
	err := repo.Upsert(&models.CompletionRecord{
		UserID:      7,
		TaskID:      3,
		Completed:   true,
		CompletedAt: &now,
	})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountCompletedFiltersByUser(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewProgressRepository(gormDB)

	mock.ExpectQuery("SELECT count").
		WithArgs(uint64(7), true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountCompleted(7)
	require.NoError(t, err)
	require.Equal(t, int64(5), count)

	require.NoError(t, mock.ExpectationsWereMet())
}
