package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

type mockDashboardRepo struct {
	calls int
}

func (r *mockDashboardRepo) Statistics(_ context.Context) (*models.DashboardStatistics, error) {
	r.calls++
	return &models.DashboardStatistics{}, nil
}

func (r *mockDashboardRepo) RecentAnnouncements(_ context.Context, _ int) ([]models.AnnouncementBrief, error) {
	return nil, nil
}

func (r *mockDashboardRepo) UpcomingEvents(_ context.Context, _ int) ([]models.EventBrief, error) {
	return nil, nil
}

func (r *mockDashboardRepo) ClassDistribution(_ context.Context) ([]models.ClassDistribution, error) {
	return nil, nil
}

func (r *mockDashboardRepo) TeacherStatus(_ context.Context) (*models.TeacherStatusSummary, error) {
	return &models.TeacherStatusSummary{}, nil
}

func (r *mockDashboardRepo) RecentActivity(_ context.Context, _ int) ([]models.RecentActivity, error) {
	return nil, nil
}

type mockDashboardCache struct {
	data    *models.DashboardData
	getErr  error
	setSeen int
}

func (c *mockDashboardCache) Get(_ context.Context, _ string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	*(dest.(*models.DashboardData)) = *c.data
	return nil
}

func (c *mockDashboardCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	c.setSeen++
	return nil
}

type recordingMetrics struct {
	hits   int
	misses int
}

func (m *recordingMetrics) RecordCacheOperation(hit bool) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func TestDashboardOverviewRecordsCacheHit(t *testing.T) {
	repo := &mockDashboardRepo{}
	cache := &mockDashboardCache{data: &models.DashboardData{}}
	metrics := &recordingMetrics{}
	svc := NewDashboardService(repo, cache, metrics, time.Minute, nil)

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.hits)
	assert.Zero(t, metrics.misses)
	assert.Zero(t, repo.calls, "a cache hit must not query the database")
}

func TestDashboardOverviewRecordsCacheMiss(t *testing.T) {
	repo := &mockDashboardRepo{}
	cache := &mockDashboardCache{getErr: appErrors.ErrCacheMiss}
	metrics := &recordingMetrics{}
	svc := NewDashboardService(repo, cache, metrics, time.Minute, nil)

	data, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.misses)
	assert.Zero(t, metrics.hits)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.setSeen)
	assert.NotNil(t, data.RecentAnnouncements)
	assert.NotNil(t, data.UpcomingEvents)
}

func TestDashboardOverviewDegradesOnCacheFailure(t *testing.T) {
	repo := &mockDashboardRepo{}
	cache := &mockDashboardCache{getErr: errors.New("connection refused")}
	metrics := &recordingMetrics{}
	svc := NewDashboardService(repo, cache, metrics, time.Minute, nil)

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, repo.calls)
}

func TestDashboardOverviewWithoutCacheOrMetrics(t *testing.T) {
	repo := &mockDashboardRepo{}
	svc := NewDashboardService(repo, nil, nil, 0, nil)

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}
