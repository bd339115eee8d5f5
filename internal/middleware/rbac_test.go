package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/learnroot/learnroot-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performWithUser(t *testing.T, user *models.UserInfo, roles ...models.UserRole) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Set(ContextUserKey, user)
			c.Next()
		})
	}
	r.GET("/protected", RequireRoles(roles...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	user := &models.UserInfo{ID: 1, Role: models.RoleSchoolAdmin}
	w := performWithUser(t, user, models.RoleSchoolAdmin, models.RoleSuperAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesRejectsModerator(t *testing.T) {
	user := &models.UserInfo{ID: 2, Role: models.RoleModerator}
	w := performWithUser(t, user, models.RoleSchoolAdmin, models.RoleSuperAdmin)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRequireRolesWithoutUserIsUnauthorized(t *testing.T) {
	w := performWithUser(t, nil, models.RoleSchoolAdmin)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
