package models

import "time"

// TeacherStatus marks whether a teacher is on the active roster.
type TeacherStatus string

const (
	TeacherActive   TeacherStatus = "active"
	TeacherInactive TeacherStatus = "inactive"
)

// Teacher represents a teacher profile. A teacher provisioned through the
// API is joined one-to-one to a moderator user account; legacy rows may
// have a null user_id.
type Teacher struct {
	ID              int64         `db:"id" json:"id"`
	UserID          *int64        `db:"user_id" json:"user_id,omitempty"`
	Name            string        `db:"name" json:"name"`
	Email           string        `db:"email" json:"email"`
	Phone           *string       `db:"phone" json:"phone,omitempty"`
	Gender          *string       `db:"gender" json:"gender,omitempty"`
	Qualification   *string       `db:"qualification" json:"qualification,omitempty"`
	ExperienceYears int           `db:"experience_years" json:"experience_years"`
	Subjects        *string       `db:"subjects" json:"subjects,omitempty"`
	Grade           *string       `db:"grade" json:"grade,omitempty"`
	JoiningDate     *time.Time    `db:"joining_date" json:"joining_date,omitempty"`
	Salary          *float64      `db:"salary" json:"salary,omitempty"`
	Address         *string       `db:"address" json:"address,omitempty"`
	Status          TeacherStatus `db:"status" json:"status"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}
