package models

import "time"

// DashboardStatistics holds the headline entity counts.
type DashboardStatistics struct {
	TotalStudents int `db:"total_students" json:"totalStudents"`
	TotalTeachers int `db:"total_teachers" json:"totalTeachers"`
	TotalClasses  int `db:"total_classes" json:"totalClasses"`
	TotalSubjects int `db:"total_subjects" json:"totalSubjects"`
}

// AnnouncementBrief summarises an announcement for the dashboard feed.
type AnnouncementBrief struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EventBrief summarises an upcoming event for the dashboard feed.
type EventBrief struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Type      string    `db:"type" json:"type"`
	StartDate time.Time `db:"start_date" json:"start_date"`
}

// ClassDistribution counts classes per grade.
type ClassDistribution struct {
	GradeName  string `db:"grade_name" json:"grade_name"`
	ClassCount int    `db:"class_count" json:"class_count"`
}

// TeacherStatusSummary splits the teacher roster by status.
type TeacherStatusSummary struct {
	Active   int `db:"active" json:"active"`
	Inactive int `db:"inactive" json:"inactive"`
}

// RecentActivity is a recent student or teacher registration.
type RecentActivity struct {
	Type      string    `db:"type" json:"type"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DashboardData aggregates everything the dashboard endpoint returns.
type DashboardData struct {
	Statistics          DashboardStatistics  `json:"statistics"`
	RecentAnnouncements []AnnouncementBrief  `json:"recentAnnouncements"`
	UpcomingEvents      []EventBrief         `json:"upcomingEvents"`
	ClassDistribution   []ClassDistribution  `json:"classDistribution"`
	TeacherStatus       TeacherStatusSummary `json:"teacherStatus"`
	RecentActivity      []RecentActivity     `json:"recentActivity"`
}
