package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

type gradeRepository interface {
	List(ctx context.Context) ([]models.Grade, error)
	FindByID(ctx context.Context, id int64) (*models.Grade, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id int64) error
}

type gradeSubjectRepository interface {
	MissingIDs(ctx context.Context, ids []int64) ([]int64, error)
	FindRefs(ctx context.Context, ids []int64) ([]models.SubjectRef, error)
}

// GradeRequest represents payload for creating or updating a grade. The
// subjects list carries subject ids; every member must exist.
type GradeRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Segment     string  `json:"segment" validate:"required,oneof=primary secondary sr_secondary"`
	Subjects    []int64 `json:"subjects" validate:"omitempty,dive,min=1"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// GradeService orchestrates grade operations including the app-side
// integrity check on the subject id list.
type GradeService struct {
	repo      gradeRepository
	subjects  gradeSubjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs a GradeService.
func NewGradeService(repo gradeRepository, subjects gradeSubjectRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, subjects: subjects, validator: validate, logger: logger}
}

// List returns all grades.
func (s *GradeService) List(ctx context.Context) ([]models.Grade, error) {
	grades, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// Get returns a grade with its subject id list expanded to id/name pairs.
func (s *GradeService) Get(ctx context.Context, id int64) (*models.GradeDetail, error) {
	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}

	refs, err := s.subjects.FindRefs(ctx, grade.Subjects)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expand grade subjects")
	}
	if refs == nil {
		refs = []models.SubjectRef{}
	}
	return &models.GradeDetail{Grade: *grade, SubjectDetails: refs}, nil
}

// Create registers a new grade. The whole subject list is verified before
// any row is written; a single unknown id rejects the request.
func (s *GradeService) Create(ctx context.Context, req GradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check grade name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "grade with this name already exists")
	}

	if err := s.ensureSubjectsExist(ctx, req.Subjects); err != nil {
		return nil, err
	}

	grade := &models.Grade{
		Name:        name,
		Segment:     models.Segment(req.Segment),
		Subjects:    models.Int64List(req.Subjects),
		Description: normalizeOptional(req.Description),
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
	}
	return grade, nil
}

// Update modifies an existing grade.
func (s *GradeService) Update(ctx context.Context, id int64, req GradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check grade name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "grade with this name already exists")
	}

	if err := s.ensureSubjectsExist(ctx, req.Subjects); err != nil {
		return nil, err
	}

	grade.Name = name
	grade.Segment = models.Segment(req.Segment)
	grade.Subjects = models.Int64List(req.Subjects)
	grade.Description = normalizeOptional(req.Description)

	if err := s.repo.Update(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}
	return grade, nil
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	return nil
}

func (s *GradeService) ensureSubjectsExist(ctx context.Context, ids []int64) error {
	missing, err := s.subjects.MissingIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify subjects")
	}
	if len(missing) > 0 {
		parts := make([]string, len(missing))
		for i, id := range missing {
			parts[i] = strconv.FormatInt(id, 10)
		}
		return appErrors.Clone(appErrors.ErrInvalidReference, fmt.Sprintf("unknown subject ids: %s", strings.Join(parts, ", ")))
	}
	return nil
}
