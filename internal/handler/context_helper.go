package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/learnroot/learnroot-api/internal/middleware"
	"github.com/learnroot/learnroot-api/internal/models"
	appErrors "github.com/learnroot/learnroot-api/pkg/errors"
)

func currentUser(c *gin.Context) *models.UserInfo {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil
	}
	return user
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer")
	}
	return id, nil
}
