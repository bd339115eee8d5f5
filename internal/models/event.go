package models

import "time"

// Event is a calendar entry. The creator reference is nulled when the
// creating user is deleted.
type Event struct {
	ID             int64      `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Description    *string    `db:"description" json:"description,omitempty"`
	Type           string     `db:"type" json:"type"`
	StartDate      time.Time  `db:"start_date" json:"start_date"`
	EndDate        *time.Time `db:"end_date" json:"end_date,omitempty"`
	StartTime      *string    `db:"start_time" json:"start_time,omitempty"`
	EndTime        *string    `db:"end_time" json:"end_time,omitempty"`
	Location       *string    `db:"location" json:"location,omitempty"`
	TargetAudience *string    `db:"target_audience" json:"target_audience,omitempty"`
	Status         string     `db:"status" json:"status"`
	CreatedBy      *int64     `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
