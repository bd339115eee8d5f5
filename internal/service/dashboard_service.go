package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

const (
	dashboardCacheKey      = "dashboard:overview"
	dashboardFeedLimit     = 5
	dashboardActivityLimit = 10
)

type dashboardRepository interface {
	Statistics(ctx context.Context) (*models.DashboardStatistics, error)
	RecentAnnouncements(ctx context.Context, limit int) ([]models.AnnouncementBrief, error)
	UpcomingEvents(ctx context.Context, limit int) ([]models.EventBrief, error)
	ClassDistribution(ctx context.Context) ([]models.ClassDistribution, error)
	TeacherStatus(ctx context.Context) (*models.TeacherStatusSummary, error)
	RecentActivity(ctx context.Context, limit int) ([]models.RecentActivity, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type dashboardMetrics interface {
	RecordCacheOperation(hit bool)
}

// DashboardService aggregates the overview payload. A cache sits in front
// of the aggregate when enabled; cache failures degrade to a live read.
type DashboardService struct {
	repo     dashboardRepository
	cache    dashboardCache
	metrics  dashboardMetrics
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService. A nil cache disables
// caching entirely; a nil metrics recorder disables cache instrumentation.
func NewDashboardService(repo dashboardRepository, cache dashboardCache, metrics dashboardMetrics, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Overview returns the dashboard aggregate.
func (s *DashboardService) Overview(ctx context.Context) (*models.DashboardData, error) {
	if s.cache != nil {
		var cached models.DashboardData
		err := s.cache.Get(ctx, dashboardCacheKey, &cached)
		if err == nil {
			s.recordCache(true)
			return &cached, nil
		}
		s.recordCache(false)
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	data, err := s.assemble(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, data, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return data, nil
}

func (s *DashboardService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}

func (s *DashboardService) assemble(ctx context.Context) (*models.DashboardData, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load statistics")
	}
	announcements, err := s.repo.RecentAnnouncements(ctx, dashboardFeedLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent announcements")
	}
	events, err := s.repo.UpcomingEvents(ctx, dashboardFeedLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load upcoming events")
	}
	distribution, err := s.repo.ClassDistribution(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class distribution")
	}
	teacherStatus, err := s.repo.TeacherStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher status")
	}
	activity, err := s.repo.RecentActivity(ctx, dashboardActivityLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent activity")
	}

	if announcements == nil {
		announcements = []models.AnnouncementBrief{}
	}
	if events == nil {
		events = []models.EventBrief{}
	}
	if distribution == nil {
		distribution = []models.ClassDistribution{}
	}
	if activity == nil {
		activity = []models.RecentActivity{}
	}

	return &models.DashboardData{
		Statistics:          *stats,
		RecentAnnouncements: announcements,
		UpcomingEvents:      events,
		ClassDistribution:   distribution,
		TeacherStatus:       *teacherStatus,
		RecentActivity:      activity,
	}, nil
}
