package models

import "time"

// Subject represents a taught subject identified by a unique code.
type Subject struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Type        string    `db:"type" json:"type"`
	Stream      *string   `db:"stream" json:"stream,omitempty"`
	Grades      *string   `db:"grades" json:"grades,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectRef is the minimal projection used when expanding a grade's
// subject id list.
type SubjectRef struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
