package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers      map[int64]*models.Teacher
	emailTaken    bool
	provisioned   []*models.User
	provisionErr  error
	nextID        int64
	deletedIDs    []int64
	updatedFields *models.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[int64]*models.Teacher), nextID: 1}
}

func (m *mockTeacherRepo) List(ctx context.Context) ([]models.Teacher, error) {
	var out []models.Teacher
	for _, t := range m.teachers {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	t, ok := m.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return m.emailTaken, nil
}

func (m *mockTeacherRepo) Provision(ctx context.Context, user *models.User, teacher *models.Teacher) error {
	if m.provisionErr != nil {
		return m.provisionErr
	}
	user.ID = m.nextID
	teacher.ID = m.nextID
	teacher.UserID = &user.ID
	m.nextID++
	m.teachers[teacher.ID] = teacher
	m.provisioned = append(m.provisioned, user)
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	m.teachers[teacher.ID] = teacher
	m.updatedFields = teacher
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.teachers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.teachers, id)
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

type mockTeacherUserRepo struct {
	emailTaken bool
}

func (m *mockTeacherUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.emailTaken, nil
}

func newTestTeacherService(repo *mockTeacherRepo, users *mockTeacherUserRepo) *TeacherService {
	return NewTeacherService(repo, users, validator.New(), zap.NewNop())
}

func TestTeacherServiceCreateProvisionsModeratorAccount(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := newTestTeacherService(repo, &mockTeacherUserRepo{})

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{
		Name:     "Jane Smith",
		Email:    "Jane.Smith@School.Example",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.Len(t, repo.provisioned, 1)

	user := repo.provisioned[0]
	assert.Equal(t, models.RoleModerator, user.Role)
	assert.Equal(t, "jane.smith@school.example", user.Email)
	assert.Equal(t, "jane.smith@school.example", teacher.Email)
	assert.Equal(t, models.TeacherActive, teacher.Status)
	require.NotNil(t, teacher.UserID)
	assert.Equal(t, user.ID, *teacher.UserID)

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestTeacherServiceCreateDuplicateUserEmail(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := newTestTeacherService(repo, &mockTeacherUserRepo{emailTaken: true})

	_, err := svc.Create(context.Background(), CreateTeacherRequest{
		Name: "Jane Smith", Email: "jane@school.example", Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.provisioned)
}

func TestTeacherServiceCreateDuplicateTeacherEmail(t *testing.T) {
	repo := newMockTeacherRepo()
	repo.emailTaken = true
	svc := newTestTeacherService(repo, &mockTeacherUserRepo{})

	_, err := svc.Create(context.Background(), CreateTeacherRequest{
		Name: "Jane Smith", Email: "jane@school.example", Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.provisioned)
}

func TestTeacherServiceCreateRejectsBadJoiningDate(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := newTestTeacherService(repo, &mockTeacherUserRepo{})

	bad := "15-08-2023"
	_, err := svc.Create(context.Background(), CreateTeacherRequest{
		Name: "Jane Smith", Email: "jane@school.example", Password: "secret123", JoiningDate: &bad,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceUpdateStatus(t *testing.T) {
	repo := newMockTeacherRepo()
	repo.teachers[5] = &models.Teacher{ID: 5, Name: "Jane", Email: "jane@school.example", Status: models.TeacherActive}
	svc := newTestTeacherService(repo, &mockTeacherUserRepo{})

	inactive := "inactive"
	teacher, err := svc.Update(context.Background(), 5, UpdateTeacherRequest{
		Name: "Jane", Email: "jane@school.example", Status: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TeacherInactive, teacher.Status)
}

func TestTeacherServiceGetMissing(t *testing.T) {
	svc := newTestTeacherService(newMockTeacherRepo(), &mockTeacherUserRepo{})

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceDeleteMissing(t *testing.T) {
	svc := newTestTeacherService(newMockTeacherRepo(), &mockTeacherUserRepo{})

	err := svc.Delete(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
