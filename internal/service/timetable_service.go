package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

type timetableRepository interface {
	List(ctx context.Context) ([]models.TimetableDetail, error)
	ListByClass(ctx context.Context, classID int64) ([]models.TimetableDetail, error)
	FindByID(ctx context.Context, id int64) (*models.TimetableEntry, error)
	SlotTaken(ctx context.Context, classID int64, day models.DayOfWeek, period int, excludeID int64) (bool, error)
	Create(ctx context.Context, entry *models.TimetableEntry) error
	Update(ctx context.Context, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id int64) error
}

type timetableSubjectRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
}

// TimetableRequest represents payload for creating or updating a slot.
type TimetableRequest struct {
	ClassID      int64   `json:"class_id" validate:"required,min=1"`
	DayOfWeek    string  `json:"day_of_week" validate:"required,oneof=monday tuesday wednesday thursday friday saturday"`
	PeriodNumber int     `json:"period_number" validate:"required,min=1,max=12"`
	SubjectID    int64   `json:"subject_id" validate:"required,min=1"`
	TeacherID    int64   `json:"teacher_id" validate:"required,min=1"`
	Room         *string `json:"room" validate:"omitempty,max=50"`
	StartTime    string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime      string  `json:"end_time" validate:"required,datetime=15:04"`
	AcademicYear *string `json:"academic_year" validate:"omitempty,max=20"`
}

// TimetableService orchestrates schedule slots. A (class, day, period)
// slot is held by at most one entry; the first writer wins.
type TimetableService struct {
	repo      timetableRepository
	classes   classTeacherLookup
	subjects  timetableSubjectRepository
	teachers  classTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

type classTeacherLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, classes classTeacherLookup, subjects timetableSubjectRepository, teachers classTeacherRepository, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, classes: classes, subjects: subjects, teachers: teachers, validator: validate, logger: logger}
}

// List returns every slot with referenced names joined in.
func (s *TimetableService) List(ctx context.Context) ([]models.TimetableDetail, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}
	return entries, nil
}

// ListByClass returns a class's weekly schedule. The class must exist even
// when its schedule is empty.
func (s *TimetableService) ListByClass(ctx context.Context, classID int64) ([]models.TimetableDetail, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify class")
	}
	entries, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class timetable")
	}
	if entries == nil {
		entries = []models.TimetableDetail{}
	}
	return entries, nil
}

// Get returns a slot by id.
func (s *TimetableService) Get(ctx context.Context, id int64) (*models.TimetableEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	return entry, nil
}

// Create adds a slot after verifying its referents and slot exclusivity.
func (s *TimetableService) Create(ctx context.Context, req TimetableRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	if err := s.ensureReferentsExist(ctx, req); err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, req.ClassID, models.DayOfWeek(req.DayOfWeek), req.PeriodNumber, 0); err != nil {
		return nil, err
	}

	entry := &models.TimetableEntry{
		ClassID:      req.ClassID,
		DayOfWeek:    models.DayOfWeek(req.DayOfWeek),
		PeriodNumber: req.PeriodNumber,
		SubjectID:    req.SubjectID,
		TeacherID:    req.TeacherID,
		Room:         normalizeOptional(req.Room),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		AcademicYear: normalizeOptional(req.AcademicYear),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable entry")
	}
	return entry, nil
}

// Update modifies an existing slot; moving it onto an occupied slot is
// rejected the same way as creating one there.
func (s *TimetableService) Update(ctx context.Context, id int64, req TimetableRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}

	if err := s.ensureReferentsExist(ctx, req); err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, req.ClassID, models.DayOfWeek(req.DayOfWeek), req.PeriodNumber, id); err != nil {
		return nil, err
	}

	entry.ClassID = req.ClassID
	entry.DayOfWeek = models.DayOfWeek(req.DayOfWeek)
	entry.PeriodNumber = req.PeriodNumber
	entry.SubjectID = req.SubjectID
	entry.TeacherID = req.TeacherID
	entry.Room = normalizeOptional(req.Room)
	entry.StartTime = req.StartTime
	entry.EndTime = req.EndTime
	entry.AcademicYear = normalizeOptional(req.AcademicYear)

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable entry")
	}
	return entry, nil
}

// Delete removes a slot.
func (s *TimetableService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable entry")
	}
	return nil
}

func (s *TimetableService) ensureReferentsExist(ctx context.Context, req TimetableRequest) error {
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidReference, "class does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify class")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidReference, "subject does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify subject")
	}
	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidReference, "teacher does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify teacher")
	}
	return nil
}

func (s *TimetableService) ensureSlotFree(ctx context.Context, classID int64, day models.DayOfWeek, period int, excludeID int64) error {
	taken, err := s.repo.SlotTaken(ctx, classID, day, period, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot availability")
	}
	if taken {
		return appErrors.Clone(appErrors.ErrScheduleConflict, "slot is already scheduled for this class")
	}
	return nil
}
