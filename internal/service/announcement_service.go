package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context) ([]models.Announcement, error)
	FindByID(ctx context.Context, id int64) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id int64) error
}

// AnnouncementRequest represents payload for creating or updating an
// announcement.
type AnnouncementRequest struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Content        string  `json:"content" validate:"required"`
	Type           string  `json:"type" validate:"required,oneof=general urgent academic event"`
	TargetAudience *string `json:"target_audience" validate:"omitempty,max=500"`
	Attachments    *string `json:"attachments" validate:"omitempty,max=1000"`
	ExpiryDate     *string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	Status         *string `json:"status" validate:"omitempty,oneof=active expired"`
}

// AnnouncementService orchestrates announcements. Every announcement is
// owned by the user that posted it.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs an AnnouncementService.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, validator: validate, logger: logger}
}

// List returns all announcements.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	announcements, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return announcements, nil
}

// Get returns an announcement by id.
func (s *AnnouncementService) Get(ctx context.Context, id int64) (*models.Announcement, error) {
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	return announcement, nil
}

// Create posts a new announcement attributed to the acting user.
func (s *AnnouncementService) Create(ctx context.Context, createdBy int64, req AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	announcement, err := s.buildAnnouncement(req)
	if err != nil {
		return nil, err
	}
	announcement.CreatedBy = createdBy

	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	return announcement, nil
}

// Update modifies an existing announcement. Ownership is preserved.
func (s *AnnouncementService) Update(ctx context.Context, id int64, req AnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}

	announcement, err := s.buildAnnouncement(req)
	if err != nil {
		return nil, err
	}
	announcement.ID = existing.ID
	announcement.CreatedBy = existing.CreatedBy
	announcement.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	return announcement, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}

func (s *AnnouncementService) buildAnnouncement(req AnnouncementRequest) (*models.Announcement, error) {
	expiry, err := parseOptionalDate(req.ExpiryDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expiry_date must be YYYY-MM-DD")
	}

	status := "active"
	if req.Status != nil {
		status = *req.Status
	}

	return &models.Announcement{
		Title:          strings.TrimSpace(req.Title),
		Content:        req.Content,
		Type:           req.Type,
		TargetAudience: normalizeOptional(req.TargetAudience),
		Attachments:    normalizeOptional(req.Attachments),
		ExpiryDate:     expiry,
		Status:         status,
	}, nil
}
