package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/learnroot/learnroot-api/internal/models"
)

// DashboardRepository aggregates read-only statistics across the schema.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Statistics returns headline entity counts in one round trip.
func (r *DashboardRepository) Statistics(ctx context.Context) (*models.DashboardStatistics, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM students) AS total_students,
		(SELECT COUNT(*) FROM teachers) AS total_teachers,
		(SELECT COUNT(*) FROM classes) AS total_classes,
		(SELECT COUNT(*) FROM subjects) AS total_subjects`
	var stats models.DashboardStatistics
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("dashboard statistics: %w", err)
	}
	return &stats, nil
}

// RecentAnnouncements returns the latest announcements.
func (r *DashboardRepository) RecentAnnouncements(ctx context.Context, limit int) ([]models.AnnouncementBrief, error) {
	const query = `SELECT id, title, content AS message, created_at FROM announcements ORDER BY created_at DESC LIMIT $1`
	var briefs []models.AnnouncementBrief
	if err := r.db.SelectContext(ctx, &briefs, query, limit); err != nil {
		return nil, fmt.Errorf("recent announcements: %w", err)
	}
	return briefs, nil
}

// UpcomingEvents returns events starting today or later.
func (r *DashboardRepository) UpcomingEvents(ctx context.Context, limit int) ([]models.EventBrief, error) {
	const query = `SELECT id, title, type, start_date FROM events WHERE start_date >= CURRENT_DATE ORDER BY start_date LIMIT $1`
	var briefs []models.EventBrief
	if err := r.db.SelectContext(ctx, &briefs, query, limit); err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	return briefs, nil
}

// ClassDistribution counts classes per grade.
func (r *DashboardRepository) ClassDistribution(ctx context.Context) ([]models.ClassDistribution, error) {
	const query = `SELECT g.name AS grade_name, COUNT(c.id) AS class_count
		FROM grades g
		LEFT JOIN classes c ON c.grade = g.name
		GROUP BY g.id, g.name
		ORDER BY g.segment, g.name`
	var dist []models.ClassDistribution
	if err := r.db.SelectContext(ctx, &dist, query); err != nil {
		return nil, fmt.Errorf("class distribution: %w", err)
	}
	return dist, nil
}

// TeacherStatus splits the roster into active and inactive counts.
func (r *DashboardRepository) TeacherStatus(ctx context.Context) (*models.TeacherStatusSummary, error) {
	const query = `SELECT
		COUNT(*) FILTER (WHERE status = 'active') AS active,
		COUNT(*) FILTER (WHERE status = 'inactive') AS inactive
		FROM teachers`
	var summary models.TeacherStatusSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("teacher status: %w", err)
	}
	return &summary, nil
}

// RecentActivity returns the latest student and teacher registrations.
func (r *DashboardRepository) RecentActivity(ctx context.Context, limit int) ([]models.RecentActivity, error) {
	const query = `SELECT type, name, created_at FROM (
		(SELECT 'student' AS type, name, created_at FROM students ORDER BY created_at DESC LIMIT 3)
		UNION ALL
		(SELECT 'teacher' AS type, name, created_at FROM teachers ORDER BY created_at DESC LIMIT 3)
	) recent ORDER BY created_at DESC LIMIT $1`
	var activity []models.RecentActivity
	if err := r.db.SelectContext(ctx, &activity, query, limit); err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return activity, nil
}
