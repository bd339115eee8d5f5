package models

import "time"

// Announcement belongs to its creating user and is removed with it
// (delete cascade).
type Announcement struct {
	ID             int64      `db:"id" json:"id"`
	Title          string     `db:"title" json:"title"`
	Content        string     `db:"content" json:"content"`
	Type           string     `db:"type" json:"type"`
	TargetAudience *string    `db:"target_audience" json:"target_audience,omitempty"`
	Attachments    *string    `db:"attachments" json:"attachments,omitempty"`
	ExpiryDate     *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	Status         string     `db:"status" json:"status"`
	CreatedBy      int64      `db:"created_by" json:"created_by"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}
