package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

type mockAuthRepo struct {
	usersByEmail map[string]*models.User
	usersByID    map[int64]*models.User
	existsErr    error
	createErr    error
	nextID       int64
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[int64]*models.User),
		nextID:       1,
	}
}

func (m *mockAuthRepo) add(user *models.User) {
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockAuthRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.usersByEmail[email]
	return ok, nil
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = m.nextID
	m.nextID++
	m.add(user)
	return nil
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "secret",
		Expiration: time.Hour,
	})
}

func TestAuthServiceRegisterThenLogin(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Admin",
		Email:    "Admin@School.Example",
		Password: "secret123",
		Role:     models.RoleSchoolAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@school.example", user.Email)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.example",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, user.ID, res.User.ID)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleSchoolAdmin, claims.Role)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "First", Email: "admin@school.example", Password: "secret123", Role: models.RoleSchoolAdmin,
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), models.RegisterRequest{
		Name: "Second", Email: "admin@school.example", Password: "secret456", Role: models.RoleSchoolAdmin,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginFailuresAreUniform(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	repo := newMockAuthRepo()
	repo.add(&models.User{ID: 7, Email: "known@school.example", PasswordHash: string(hash), Role: models.RoleSchoolAdmin})
	svc := newTestAuthService(repo)

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{
		Email: "unknown@school.example", Password: "whatever1",
	})
	_, wrongErr := svc.Login(context.Background(), models.LoginRequest{
		Email: "known@school.example", Password: "incorrect",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	unknownApp := appErrors.FromError(unknownErr)
	wrongApp := appErrors.FromError(wrongErr)
	assert.Equal(t, unknownApp.Code, wrongApp.Code)
	assert.Equal(t, unknownApp.Message, wrongApp.Message)
	assert.Equal(t, unknownApp.Status, wrongApp.Status)
}

func TestAuthServiceTokenExpiry(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)
	base := time.Now()
	svc.now = func() time.Time { return base }

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &models.User{ID: 3, Email: "teacher@school.example", PasswordHash: string(hash), Role: models.RoleModerator}
	repo.add(user)

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "teacher@school.example", Password: "secret123",
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, err = svc.ValidateToken(res.Token)
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = svc.ValidateToken(res.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidToken.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(newMockAuthRepo())

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := svc.ValidateToken(token)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrInvalidToken.Code, appErrors.FromError(err).Code)
	}
}

func TestAuthServiceCurrentUserMissing(t *testing.T) {
	svc := newTestAuthService(newMockAuthRepo())

	_, err := svc.CurrentUser(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
