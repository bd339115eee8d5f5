package models

import "time"

// Student represents an enrolled student. The class reference is set-null
// on class delete.
type Student struct {
	ID              int64      `db:"id" json:"id"`
	AdmissionNumber string     `db:"admission_number" json:"admission_number"`
	Name            string     `db:"name" json:"name"`
	Email           *string    `db:"email" json:"email,omitempty"`
	Phone           *string    `db:"phone" json:"phone,omitempty"`
	Gender          *string    `db:"gender" json:"gender,omitempty"`
	DateOfBirth     *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	ClassID         *int64     `db:"class_id" json:"class_id,omitempty"`
	Section         *string    `db:"section" json:"section,omitempty"`
	RollNumber      *int       `db:"roll_number" json:"roll_number,omitempty"`
	ParentName      *string    `db:"parent_name" json:"parent_name,omitempty"`
	ParentPhone     *string    `db:"parent_phone" json:"parent_phone,omitempty"`
	ParentEmail     *string    `db:"parent_email" json:"parent_email,omitempty"`
	Address         *string    `db:"address" json:"address,omitempty"`
	AdmissionDate   *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	Status          string     `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
