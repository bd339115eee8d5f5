package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

type slotKey struct {
	classID int64
	day     models.DayOfWeek
	period  int
}

type mockTimetableRepo struct {
	entries map[int64]*models.TimetableEntry
	slots   map[slotKey]int64
	nextID  int64
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{
		entries: make(map[int64]*models.TimetableEntry),
		slots:   make(map[slotKey]int64),
		nextID:  1,
	}
}

func (m *mockTimetableRepo) List(ctx context.Context) ([]models.TimetableDetail, error) {
	var out []models.TimetableDetail
	for _, e := range m.entries {
		out = append(out, models.TimetableDetail{TimetableEntry: *e})
	}
	return out, nil
}

func (m *mockTimetableRepo) ListByClass(ctx context.Context, classID int64) ([]models.TimetableDetail, error) {
	var out []models.TimetableDetail
	for _, e := range m.entries {
		if e.ClassID == classID {
			out = append(out, models.TimetableDetail{TimetableEntry: *e})
		}
	}
	return out, nil
}

func (m *mockTimetableRepo) FindByID(ctx context.Context, id int64) (*models.TimetableEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockTimetableRepo) SlotTaken(ctx context.Context, classID int64, day models.DayOfWeek, period int, excludeID int64) (bool, error) {
	id, ok := m.slots[slotKey{classID, day, period}]
	if !ok {
		return false, nil
	}
	return id != excludeID, nil
}

func (m *mockTimetableRepo) Create(ctx context.Context, entry *models.TimetableEntry) error {
	entry.ID = m.nextID
	m.nextID++
	m.entries[entry.ID] = entry
	m.slots[slotKey{entry.ClassID, entry.DayOfWeek, entry.PeriodNumber}] = entry.ID
	return nil
}

func (m *mockTimetableRepo) Update(ctx context.Context, entry *models.TimetableEntry) error {
	old := m.entries[entry.ID]
	delete(m.slots, slotKey{old.ClassID, old.DayOfWeek, old.PeriodNumber})
	m.entries[entry.ID] = entry
	m.slots[slotKey{entry.ClassID, entry.DayOfWeek, entry.PeriodNumber}] = entry.ID
	return nil
}

func (m *mockTimetableRepo) Delete(ctx context.Context, id int64) error {
	e, ok := m.entries[id]
	if !ok {
		return sql.ErrNoRows
	}
	delete(m.slots, slotKey{e.ClassID, e.DayOfWeek, e.PeriodNumber})
	delete(m.entries, id)
	return nil
}

type mockClassLookup struct{ known map[int64]bool }

func (m *mockClassLookup) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	if !m.known[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Class{ID: id}, nil
}

type mockSubjectLookup struct{ known map[int64]bool }

func (m *mockSubjectLookup) FindByID(ctx context.Context, id int64) (*models.Subject, error) {
	if !m.known[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Subject{ID: id}, nil
}

type mockTeacherLookup struct{ known map[int64]bool }

func (m *mockTeacherLookup) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	if !m.known[id] {
		return nil, sql.ErrNoRows
	}
	return &models.Teacher{ID: id}, nil
}

func newTestTimetableService(repo *mockTimetableRepo) *TimetableService {
	classes := &mockClassLookup{known: map[int64]bool{1: true}}
	subjects := &mockSubjectLookup{known: map[int64]bool{10: true, 11: true}}
	teachers := &mockTeacherLookup{known: map[int64]bool{20: true, 21: true}}
	return NewTimetableService(repo, classes, subjects, teachers, validator.New(), zap.NewNop())
}

func slotRequest(period int) TimetableRequest {
	return TimetableRequest{
		ClassID:      1,
		DayOfWeek:    "monday",
		PeriodNumber: period,
		SubjectID:    10,
		TeacherID:    20,
		StartTime:    "09:00",
		EndTime:      "09:45",
	}
}

func TestTimetableServiceFirstWriterWins(t *testing.T) {
	repo := newMockTimetableRepo()
	svc := newTestTimetableService(repo)

	first, err := svc.Create(context.Background(), slotRequest(1))
	require.NoError(t, err)

	second := slotRequest(1)
	second.SubjectID = 11
	second.TeacherID = 21
	_, err = svc.Create(context.Background(), second)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)

	kept, err := svc.Get(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), kept.SubjectID, "first entry must be untouched")
	assert.Len(t, repo.entries, 1)
}

func TestTimetableServiceUpdateOntoOccupiedSlot(t *testing.T) {
	repo := newMockTimetableRepo()
	svc := newTestTimetableService(repo)

	_, err := svc.Create(context.Background(), slotRequest(1))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), slotRequest(2))
	require.NoError(t, err)

	moved := slotRequest(1)
	_, err = svc.Update(context.Background(), second.ID, moved)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrScheduleConflict.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceUpdateKeepingOwnSlot(t *testing.T) {
	repo := newMockTimetableRepo()
	svc := newTestTimetableService(repo)

	entry, err := svc.Create(context.Background(), slotRequest(1))
	require.NoError(t, err)

	same := slotRequest(1)
	same.SubjectID = 11
	updated, err := svc.Update(context.Background(), entry.ID, same)
	require.NoError(t, err, "an entry may keep its own slot")
	assert.Equal(t, int64(11), updated.SubjectID)
}

func TestTimetableServiceCreateUnknownReferents(t *testing.T) {
	svc := newTestTimetableService(newMockTimetableRepo())

	cases := []struct {
		name   string
		mutate func(*TimetableRequest)
	}{
		{"class", func(r *TimetableRequest) { r.ClassID = 99 }},
		{"subject", func(r *TimetableRequest) { r.SubjectID = 99 }},
		{"teacher", func(r *TimetableRequest) { r.TeacherID = 99 }},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := slotRequest(i + 1)
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrInvalidReference.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestTimetableServiceListByClassUnknownClass(t *testing.T) {
	svc := newTestTimetableService(newMockTimetableRepo())

	_, err := svc.ListByClass(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceListByClassEmptySchedule(t *testing.T) {
	svc := newTestTimetableService(newMockTimetableRepo())

	entries, err := svc.ListByClass(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestTimetableServiceSameSlotDifferentClasses(t *testing.T) {
	repo := newMockTimetableRepo()
	classes := &mockClassLookup{known: map[int64]bool{1: true, 2: true}}
	subjects := &mockSubjectLookup{known: map[int64]bool{10: true}}
	teachers := &mockTeacherLookup{known: map[int64]bool{20: true}}
	svc := NewTimetableService(repo, classes, subjects, teachers, validator.New(), zap.NewNop())

	for classID := int64(1); classID <= 2; classID++ {
		req := slotRequest(1)
		req.ClassID = classID
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err, fmt.Sprintf("class %d should have its own slot space", classID))
	}
}
