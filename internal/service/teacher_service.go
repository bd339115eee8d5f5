package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Provision(ctx context.Context, user *models.User, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id int64) error
}

type teacherUserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CreateTeacherRequest represents payload for provisioning a teacher. The
// password seeds the moderator login account created alongside the profile.
type CreateTeacherRequest struct {
	Name            string   `json:"name" validate:"required,max=255"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=6"`
	Phone           *string  `json:"phone" validate:"omitempty,max=50"`
	Gender          *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Qualification   *string  `json:"qualification" validate:"omitempty,max=255"`
	ExperienceYears int      `json:"experience_years" validate:"omitempty,min=0"`
	Subjects        *string  `json:"subjects" validate:"omitempty,max=500"`
	Grade           *string  `json:"grade" validate:"omitempty,max=100"`
	JoiningDate     *string  `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
	Salary          *float64 `json:"salary" validate:"omitempty,min=0"`
	Address         *string  `json:"address" validate:"omitempty,max=500"`
}

// UpdateTeacherRequest represents payload for updating a teacher profile.
// The linked user account is not touched here.
type UpdateTeacherRequest struct {
	Name            string   `json:"name" validate:"required,max=255"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           *string  `json:"phone" validate:"omitempty,max=50"`
	Gender          *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	Qualification   *string  `json:"qualification" validate:"omitempty,max=255"`
	ExperienceYears int      `json:"experience_years" validate:"omitempty,min=0"`
	Subjects        *string  `json:"subjects" validate:"omitempty,max=500"`
	Grade           *string  `json:"grade" validate:"omitempty,max=100"`
	JoiningDate     *string  `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
	Salary          *float64 `json:"salary" validate:"omitempty,min=0"`
	Address         *string  `json:"address" validate:"omitempty,max=500"`
	Status          *string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

// TeacherService orchestrates teacher provisioning and profile management.
type TeacherService struct {
	repo      teacherRepository
	users     teacherUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, users teacherUserRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns all teachers.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create provisions a teacher: a moderator user account and its profile in
// one transaction. Both email namespaces are checked up front so a rejected
// request leaves no rows behind.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	userExists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if userExists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "user with this email already exists")
	}
	teacherExists, err := s.repo.ExistsByEmail(ctx, email, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if teacherExists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "teacher with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleModerator,
	}

	joining, err := parseOptionalDate(req.JoiningDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "joining_date must be YYYY-MM-DD")
	}

	teacher := &models.Teacher{
		Name:            strings.TrimSpace(req.Name),
		Email:           email,
		Phone:           normalizeOptional(req.Phone),
		Gender:          normalizeOptional(req.Gender),
		Qualification:   normalizeOptional(req.Qualification),
		ExperienceYears: req.ExperienceYears,
		Subjects:        normalizeOptional(req.Subjects),
		Grade:           normalizeOptional(req.Grade),
		JoiningDate:     joining,
		Salary:          req.Salary,
		Address:         normalizeOptional(req.Address),
		Status:          models.TeacherActive,
	}

	if err := s.repo.Provision(ctx, user, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to provision teacher")
	}
	s.logger.Info("teacher provisioned", zap.Int64("teacher_id", teacher.ID), zap.Int64("user_id", user.ID))
	return teacher, nil
}

// Update modifies an existing teacher profile.
func (s *TeacherService) Update(ctx context.Context, id int64, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	exists, err := s.repo.ExistsByEmail(ctx, email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "teacher with this email already exists")
	}

	joining, err := parseOptionalDate(req.JoiningDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "joining_date must be YYYY-MM-DD")
	}

	teacher.Name = strings.TrimSpace(req.Name)
	teacher.Email = email
	teacher.Phone = normalizeOptional(req.Phone)
	teacher.Gender = normalizeOptional(req.Gender)
	teacher.Qualification = normalizeOptional(req.Qualification)
	teacher.ExperienceYears = req.ExperienceYears
	teacher.Subjects = normalizeOptional(req.Subjects)
	teacher.Grade = normalizeOptional(req.Grade)
	teacher.JoiningDate = joining
	teacher.Salary = req.Salary
	teacher.Address = normalizeOptional(req.Address)
	if req.Status != nil {
		teacher.Status = models.TeacherStatus(*req.Status)
	}

	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}

// Delete removes a teacher profile. Classes that named it as class teacher
// keep existing with the reference cleared.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
