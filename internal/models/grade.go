package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Segment groups grades for reporting and class organisation.
type Segment string

const (
	SegmentPrimary     Segment = "primary"
	SegmentSecondary   Segment = "secondary"
	SegmentSrSecondary Segment = "sr_secondary"
)

// Int64List is an ordered sequence of ids stored as a JSON array in a
// single column. Referential integrity for its members is enforced by the
// application at write time, not by the database.
type Int64List []int64

// Value implements driver.Valuer.
func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *Int64List) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan id list: unsupported type %T", src)
	}
	return json.Unmarshal(raw, l)
}

// Grade represents an academic grade level and its ordered subject id list.
type Grade struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Segment     Segment   `db:"segment" json:"segment"`
	Subjects    Int64List `db:"subjects" json:"subjects"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GradeDetail expands the subject id list with subject names for responses.
type GradeDetail struct {
	Grade
	SubjectDetails []SubjectRef `json:"subjects_details"`
}
