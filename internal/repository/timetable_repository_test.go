package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnroot/learnroot-api/internal/models"
)

func TestTimetableRepositorySlotTaken(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery("SELECT 1 FROM timetable").
		WithArgs(int64(1), models.Monday, 3).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	taken, err := repo.SlotTaken(context.Background(), 1, models.Monday, 3, 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// An entry keeps its own slot when its id is excluded.
	mock.ExpectQuery("SELECT 1 FROM timetable").
		WithArgs(int64(1), models.Monday, 3, int64(5)).
		WillReturnError(sql.ErrNoRows)

	taken, err = repo.SlotTaken(context.Background(), 1, models.Monday, 3, 5)
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateReturnsID(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	year := "2026-27"
	entry := &models.TimetableEntry{
		ClassID:      1,
		DayOfWeek:    models.Monday,
		PeriodNumber: 3,
		SubjectID:    10,
		TeacherID:    20,
		StartTime:    "09:00",
		EndTime:      "09:45",
		AcademicYear: &year,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO timetable")).
		WithArgs(entry.ClassID, entry.DayOfWeek, entry.PeriodNumber, entry.SubjectID, entry.TeacherID,
			nil, entry.StartTime, entry.EndTime, year, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(42), entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListByClass(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "class_id", "day_of_week", "period_number", "subject_id", "teacher_id",
		"room", "start_time", "end_time", "academic_year", "created_at", "updated_at",
		"class_name", "subject_name", "teacher_name",
	}).AddRow(int64(1), int64(1), "monday", 1, int64(10), int64(20),
		nil, "09:00", "09:45", "2026-27", now, now,
		"Grade 6 A", "Mathematics", "Ravi Iyer")

	mock.ExpectQuery("SELECT .+ FROM timetable t").
		WithArgs(int64(1)).
		WillReturnRows(rows)

	entries, err := repo.ListByClass(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Mathematics", entries[0].SubjectName)
	assert.Equal(t, models.Monday, entries[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}
