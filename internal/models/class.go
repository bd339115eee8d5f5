package models

import "time"

// Class represents a class section, optionally assigned a class teacher.
// The teacher reference is set-null on teacher delete.
type Class struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Segment         Segment   `db:"segment" json:"segment"`
	Grade           string    `db:"grade" json:"grade"`
	Section         *string   `db:"section" json:"section,omitempty"`
	ClassTeacherID  *int64    `db:"class_teacher_id" json:"class_teacher_id,omitempty"`
	MaxStudents     int       `db:"max_students" json:"max_students"`
	CurrentStudents int       `db:"current_students" json:"current_students"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
