package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/learnroot/learnroot-api/internal/models"
)

const timetableDetailColumns = `t.id, t.class_id, t.day_of_week, t.period_number, t.subject_id, t.teacher_id, t.room, t.start_time, t.end_time, t.academic_year, t.created_at, t.updated_at,
	c.name AS class_name, s.name AS subject_name, te.name AS teacher_name`

const timetableJoins = `FROM timetable t
	JOIN classes c ON c.id = t.class_id
	JOIN subjects s ON s.id = t.subject_id
	JOIN teachers te ON te.id = t.teacher_id`

// TimetableRepository manages persistence for schedule slots.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns every slot with its class, subject, and teacher names.
func (r *TimetableRepository) List(ctx context.Context) ([]models.TimetableDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s ORDER BY t.class_id, t.day_of_week, t.period_number`, timetableDetailColumns, timetableJoins)
	var entries []models.TimetableDetail
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	return entries, nil
}

// ListByClass returns a single class's slots ordered by day and period.
func (r *TimetableRepository) ListByClass(ctx context.Context, classID int64) ([]models.TimetableDetail, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE t.class_id = $1 ORDER BY t.day_of_week, t.period_number`, timetableDetailColumns, timetableJoins)
	var entries []models.TimetableDetail
	if err := r.db.SelectContext(ctx, &entries, query, classID); err != nil {
		return nil, fmt.Errorf("list class timetable: %w", err)
	}
	return entries, nil
}

// FindByID fetches a slot by ID.
func (r *TimetableRepository) FindByID(ctx context.Context, id int64) (*models.TimetableEntry, error) {
	const query = `SELECT id, class_id, day_of_week, period_number, subject_id, teacher_id, room, start_time, end_time, academic_year, created_at, updated_at FROM timetable WHERE id = $1`
	var entry models.TimetableEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SlotTaken reports whether another entry already occupies the
// (class, day, period) slot.
func (r *TimetableRepository) SlotTaken(ctx context.Context, classID int64, day models.DayOfWeek, period int, excludeID int64) (bool, error) {
	query := `SELECT 1 FROM timetable WHERE class_id = $1 AND day_of_week = $2 AND period_number = $3`
	args := []interface{}{classID, day, period}
	if excludeID > 0 {
		query += ` AND id <> $4`
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+` LIMIT 1`, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check timetable slot: %w", err)
	}
	return true, nil
}

// Create inserts a new slot and fills in the generated id.
func (r *TimetableRepository) Create(ctx context.Context, entry *models.TimetableEntry) error {
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	const query = `INSERT INTO timetable (class_id, day_of_week, period_number, subject_id, teacher_id, room, start_time, end_time, academic_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		entry.ClassID, entry.DayOfWeek, entry.PeriodNumber, entry.SubjectID, entry.TeacherID,
		entry.Room, entry.StartTime, entry.EndTime, entry.AcademicYear, entry.CreatedAt, entry.UpdatedAt,
	).Scan(&entry.ID); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// Update modifies an existing slot.
func (r *TimetableRepository) Update(ctx context.Context, entry *models.TimetableEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetable SET class_id = :class_id, day_of_week = :day_of_week, period_number = :period_number,
		subject_id = :subject_id, teacher_id = :teacher_id, room = :room, start_time = :start_time, end_time = :end_time,
		academic_year = :academic_year, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update timetable entry: %w", err)
	}
	return nil
}

// Delete removes a slot.
func (r *TimetableRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM timetable WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
