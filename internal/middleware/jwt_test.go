package middleware

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnroot/learnroot-api/internal/models"
	"github.com/learnroot/learnroot-api/internal/service"
)

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*models.User)}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *stubUserRepo) remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *service.AuthService, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	authSvc := service.NewAuthService(repo, nil, nil, service.AuthConfig{Secret: "test-secret"})

	r := gin.New()
	r.GET("/me", JWT(authSvc), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r, authSvc, repo
}

func loginAs(t *testing.T, svc *service.AuthService, repo *stubUserRepo) (string, int64) {
	t.Helper()
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Asha Verma",
		Email:    "asha@school.test",
		Password: "sw0rdfish",
		Role:     models.RoleSchoolAdmin,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "asha@school.test",
		Password: "sw0rdfish",
	})
	require.NoError(t, err)
	return resp.Token, resp.User.ID
}

func getWithHeader(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAcceptsValidToken(t *testing.T) {
	r, svc, repo := setupAuthRouter(t)
	token, id := loginAs(t, svc, repo)

	w := getWithHeader(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"id":%d`, id))
}

func TestJWTMissingHeader(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	w := getWithHeader(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMalformedHeader(t *testing.T) {
	r, svc, repo := setupAuthRouter(t)
	token, _ := loginAs(t, svc, repo)

	for _, header := range []string{"Bearer", token, "Basic " + token} {
		w := getWithHeader(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestJWTGarbageToken(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	w := getWithHeader(r, "Bearer aaa.bbb.ccc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTDeletedUserFailsLikeBadToken(t *testing.T) {
	r, svc, repo := setupAuthRouter(t)
	token, id := loginAs(t, svc, repo)
	repo.remove(id)

	w := getWithHeader(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
