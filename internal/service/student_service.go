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

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	ExistsByAdmissionNumber(ctx context.Context, admissionNumber string, excludeID int64) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type studentClassRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

// StudentRequest represents payload for creating or updating a student.
type StudentRequest struct {
	AdmissionNumber string   `json:"admission_number" validate:"required,max=50"`
	Name            string   `json:"name" validate:"required,max=255"`
	Email           *string  `json:"email" validate:"omitempty,email"`
	Phone           *string  `json:"phone" validate:"omitempty,max=50"`
	Gender          *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth     *string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ClassID         *int64   `json:"class_id" validate:"omitempty,min=1"`
	Section         *string  `json:"section" validate:"omitempty,max=10"`
	RollNumber      *int     `json:"roll_number" validate:"omitempty,min=1"`
	ParentName      *string  `json:"parent_name" validate:"omitempty,max=255"`
	ParentPhone     *string  `json:"parent_phone" validate:"omitempty,max=50"`
	ParentEmail     *string  `json:"parent_email" validate:"omitempty,email"`
	Address         *string  `json:"address" validate:"omitempty,max=500"`
	AdmissionDate   *string  `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
	Status          *string  `json:"status" validate:"omitempty,oneof=active inactive transferred"`
}

// StudentService orchestrates student operations.
type StudentService struct {
	repo      studentRepository
	classes   studentClassRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, classes studentClassRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// List returns all students.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create enrolls a new student. The admission number is unique and a named
// class must exist.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	admissionNumber := strings.TrimSpace(req.AdmissionNumber)
	exists, err := s.repo.ExistsByAdmissionNumber(ctx, admissionNumber, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admission number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "student with this admission number already exists")
	}

	if err := s.ensureClassExists(ctx, req.ClassID); err != nil {
		return nil, err
	}

	student, err := s.buildStudent(req)
	if err != nil {
		return nil, err
	}
	student.AdmissionNumber = admissionNumber

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update modifies an existing student.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	admissionNumber := strings.TrimSpace(req.AdmissionNumber)
	exists, err := s.repo.ExistsByAdmissionNumber(ctx, admissionNumber, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admission number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateKey, "student with this admission number already exists")
	}

	if err := s.ensureClassExists(ctx, req.ClassID); err != nil {
		return nil, err
	}

	student, err := s.buildStudent(req)
	if err != nil {
		return nil, err
	}
	student.ID = existing.ID
	student.AdmissionNumber = admissionNumber
	student.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

func (s *StudentService) ensureClassExists(ctx context.Context, classID *int64) error {
	if classID == nil {
		return nil
	}
	if _, err := s.classes.FindByID(ctx, *classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidReference, "class does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify class")
	}
	return nil
}

func (s *StudentService) buildStudent(req StudentRequest) (*models.Student, error) {
	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date_of_birth must be YYYY-MM-DD")
	}
	admission, err := parseOptionalDate(req.AdmissionDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "admission_date must be YYYY-MM-DD")
	}

	status := "active"
	if req.Status != nil {
		status = *req.Status
	}

	return &models.Student{
		Name:          strings.TrimSpace(req.Name),
		Email:         normalizeOptional(req.Email),
		Phone:         normalizeOptional(req.Phone),
		Gender:        normalizeOptional(req.Gender),
		DateOfBirth:   dob,
		ClassID:       req.ClassID,
		Section:       normalizeOptional(req.Section),
		RollNumber:    req.RollNumber,
		ParentName:    normalizeOptional(req.ParentName),
		ParentPhone:   normalizeOptional(req.ParentPhone),
		ParentEmail:   normalizeOptional(req.ParentEmail),
		Address:       normalizeOptional(req.Address),
		AdmissionDate: admission,
		Status:        status,
	}, nil
}
