package models

import "time"

// DayOfWeek is a school day; sunday is not scheduled.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
)

// TimetableEntry is a schedule slot. The slot is exclusive on
// (class_id, day_of_week, period_number) and cascades on delete of its
// class, subject, or teacher.
type TimetableEntry struct {
	ID           int64     `db:"id" json:"id"`
	ClassID      int64     `db:"class_id" json:"class_id"`
	DayOfWeek    DayOfWeek `db:"day_of_week" json:"day_of_week"`
	PeriodNumber int       `db:"period_number" json:"period_number"`
	SubjectID    int64     `db:"subject_id" json:"subject_id"`
	TeacherID    int64     `db:"teacher_id" json:"teacher_id"`
	Room         *string   `db:"room" json:"room,omitempty"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	AcademicYear *string   `db:"academic_year" json:"academic_year,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableDetail joins the referenced names for list responses.
type TimetableDetail struct {
	TimetableEntry
	ClassName   string `db:"class_name" json:"class_name"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}
